package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/blog-engagement/internal/domain/repository"
	"github.com/oksasatya/blog-engagement/pkg/helpers"
	"github.com/oksasatya/blog-engagement/pkg/mailer"
)

// Notifier delivers an email job. A nil error means the job was accepted
// for delivery.
type Notifier interface {
	Send(ctx context.Context, job mailer.EmailJob) error
}

// Links builds the front-end URLs that carry a token.
type Links interface {
	ResetPasswordURL(token string) string
	VerifyAccountURL(token string) string
}

// AccountService runs the password reset and account verification flows
// on top of the two token vaults.
type AccountService struct {
	Users        repo.UserRepository
	Reset        *TokenVault
	Verification *TokenVault
	Notifier     Notifier
	Links        Links
	Logger       *logrus.Logger
}

func NewAccountService(users repo.UserRepository, reset, verification *TokenVault, notifier Notifier, links Links, logger *logrus.Logger) *AccountService {
	return &AccountService{Users: users, Reset: reset, Verification: verification, Notifier: notifier, Links: links, Logger: logger}
}

// ForgotPassword issues a reset token for the account behind email and
// mails it. ErrUserNotFound is returned for unknown emails; the HTTP layer
// hides it from clients.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return userErr("get user by email", err)
	}
	token, _, err := s.Reset.Issue(ctx, u.ID)
	if err != nil {
		return err
	}
	job := mailer.PasswordResetJob(u.Email, u.Name(), s.Links.ResetPasswordURL(token), s.Reset.Window)
	return s.deliver(ctx, s.Reset, u.ID, job)
}

// ResetPassword redeems a reset token and stores the new password.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := helpers.CheckOpaqueToken(token); err != nil {
		return ErrMalformedToken
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return storeErr("hash password", err)
	}
	userID, err := s.Reset.Redeem(ctx, token, "", func(ctx context.Context, userID string) error {
		if err := s.Users.UpdatePassword(ctx, userID, hash); err != nil {
			return userErr("update password", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Logger.WithField("user_id", userID).Info("password reset")
	return nil
}

// RequestVerification mails a verification token to userID. Verified
// accounts get nothing and report sent=false.
func (s *AccountService) RequestVerification(ctx context.Context, userID string) (sent bool, err error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return false, userErr("get user", err)
	}
	if u.IsVerified {
		return false, nil
	}
	token, _, err := s.Verification.Issue(ctx, u.ID)
	if err != nil {
		return false, err
	}
	job := mailer.VerificationJob(u.Email, u.Name(), s.Links.VerifyAccountURL(token), s.Verification.Window)
	if err := s.deliver(ctx, s.Verification, u.ID, job); err != nil {
		return false, err
	}
	return true, nil
}

// Verify redeems a verification token issued to callerID.
func (s *AccountService) Verify(ctx context.Context, token, callerID string) error {
	_, err := s.Verification.Redeem(ctx, token, callerID, func(ctx context.Context, userID string) error {
		if err := s.Users.SetVerified(ctx, userID); err != nil {
			return userErr("set verified", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Logger.WithField("user_id", callerID).Info("account verified")
	return nil
}

// deliver hands job to the notifier and withdraws the token when that
// fails, so no unusable token stays pending.
func (s *AccountService) deliver(ctx context.Context, vault *TokenVault, userID string, job mailer.EmailJob) error {
	err := s.Notifier.Send(ctx, job)
	if err == nil {
		return nil
	}
	fields := logrus.Fields{"user_id": userID, "purpose": vault.Purpose}
	s.Logger.WithError(err).WithFields(fields).Error("token delivery failed")
	if cerr := vault.Clear(ctx, userID); cerr != nil && !errors.Is(cerr, ErrUserNotFound) {
		s.Logger.WithError(cerr).WithFields(fields).Error("token rollback failed")
	}
	return ErrDeliveryFailed
}
