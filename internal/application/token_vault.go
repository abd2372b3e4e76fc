package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	repo "github.com/oksasatya/blog-engagement/internal/domain/repository"
	"github.com/oksasatya/blog-engagement/pkg/helpers"
	"github.com/oksasatya/blog-engagement/pkg/metrics"
)

const (
	PasswordResetWindow       = 30 * time.Minute
	AccountVerificationWindow = 60 * time.Minute
)

// TokenVault issues and redeems single-use security tokens for one purpose.
// Only the SHA-256 digest of a token is stored; the plaintext leaves the
// process once, through the notification.
type TokenVault struct {
	Purpose entity.TokenPurpose
	Window  time.Duration
	Store   repo.TokenStore
	Logger  *logrus.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func NewPasswordResetVault(store repo.TokenStore, logger *logrus.Logger, m *metrics.Metrics) *TokenVault {
	return &TokenVault{Purpose: entity.PurposePasswordReset, Window: PasswordResetWindow, Store: store, Logger: logger, Metrics: m, Now: time.Now}
}

func NewVerificationVault(store repo.TokenStore, logger *logrus.Logger, m *metrics.Metrics) *TokenVault {
	return &TokenVault{Purpose: entity.PurposeAccountVerification, Window: AccountVerificationWindow, Store: store, Logger: logger, Metrics: m, Now: time.Now}
}

// Issue replaces any pending token of this purpose for userID and returns
// the plaintext with its expiry.
func (v *TokenVault) Issue(ctx context.Context, userID string) (string, time.Time, error) {
	token, err := helpers.GenerateOpaqueToken()
	if err != nil {
		return "", time.Time{}, storeErr("generate token", err)
	}
	exp := v.Now().Add(v.Window).UTC()
	digest := entity.TokenDigest{Hash: helpers.HashOpaqueToken(token), ExpiresAt: exp}
	if err := v.Store.SetToken(ctx, userID, v.Purpose, digest); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", time.Time{}, ErrUserNotFound
		}
		return "", time.Time{}, storeErr("set token", err)
	}
	v.Metrics.ObserveToken(string(v.Purpose), "issued")
	return token, exp, nil
}

// Redeem consumes token and runs apply for its owner. The digest is cleared
// in the same statement that matches it, so a token succeeds at most once.
// A non-empty ownerID only accepts tokens issued to that user.
func (v *TokenVault) Redeem(ctx context.Context, token, ownerID string, apply func(ctx context.Context, userID string) error) (string, error) {
	if err := helpers.CheckOpaqueToken(token); err != nil {
		return "", ErrMalformedToken
	}
	userID, err := v.Store.ConsumeToken(ctx, v.Purpose, helpers.HashOpaqueToken(token), ownerID, v.Now())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			v.Metrics.ObserveToken(string(v.Purpose), "rejected")
			return "", ErrTokenInvalid
		}
		return "", storeErr("consume token", err)
	}
	v.Metrics.ObserveToken(string(v.Purpose), "redeemed")

	if apply != nil {
		if err := apply(ctx, userID); err != nil {
			v.Logger.WithError(err).WithFields(logrus.Fields{"user_id": userID, "purpose": v.Purpose}).
				Error("token consumed but transition failed")
			return "", err
		}
	}
	return userID, nil
}

// Clear drops the pending token of userID unconditionally.
func (v *TokenVault) Clear(ctx context.Context, userID string) error {
	if err := v.Store.ClearToken(ctx, userID, v.Purpose); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return storeErr("clear token", err)
	}
	v.Metrics.ObserveToken(string(v.Purpose), "cleared")
	return nil
}
