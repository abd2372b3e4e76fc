package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
)

// ErrNotFound is returned when the addressed aggregate does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique field (email, username, slug) is taken.
var ErrDuplicate = errors.New("duplicate")

// UserRepository defines the interface for user-related database operations.
//
// Set mutations are conditional and atomic: they report applied=false when
// the set already was in the requested state, and ErrNotFound when the user
// row does not exist.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	SetVerified(ctx context.Context, id string) error

	AddFollowing(ctx context.Context, userID, targetID string) (bool, error)
	RemoveFollowing(ctx context.Context, userID, targetID string) (bool, error)
	AddFollower(ctx context.Context, userID, followerID string) (bool, error)
	RemoveFollower(ctx context.Context, userID, followerID string) (bool, error)
	AddBlocked(ctx context.Context, userID, targetID string) (bool, error)
	RemoveBlocked(ctx context.Context, userID, targetID string) (bool, error)

	// RecordProfileView adds viewerID to targetID's viewed_by set and bumps
	// profile_views in one step. applied is false when viewerID was present.
	RecordProfileView(ctx context.Context, targetID, viewerID string) (views int, applied bool, err error)

	// RepairFollowers rewrites every followers set from the following sets
	// and returns how many users changed.
	RepairFollowers(ctx context.Context) (int64, error)

	TokenStore
}

// TokenStore persists security token digests on the user aggregate.
type TokenStore interface {
	SetToken(ctx context.Context, userID string, purpose entity.TokenPurpose, digest entity.TokenDigest) error
	ClearToken(ctx context.Context, userID string, purpose entity.TokenPurpose) error
	// ConsumeToken clears the digest matching hash if it has not expired at
	// now and returns its owner. A non-empty ownerID restricts the match to
	// that user. ErrNotFound when nothing matched.
	ConsumeToken(ctx context.Context, purpose entity.TokenPurpose, hash, ownerID string, now time.Time) (string, error)
}
