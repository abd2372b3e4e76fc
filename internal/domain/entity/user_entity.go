package entity

import (
	"slices"
	"time"
)

// TokenPurpose selects which token pair on the user a digest belongs to.
type TokenPurpose string

const (
	PurposePasswordReset       TokenPurpose = "password_reset"
	PurposeAccountVerification TokenPurpose = "account_verification"
)

// TokenDigest is a stored security token: only the hash is kept, never the
// plaintext. A hash always travels with its expiry.
type TokenDigest struct {
	Hash      string
	ExpiresAt time.Time
}

// User is the aggregate root for the user domain.
// Passwords are stored as bcrypt hashes in Password field.
//
// Followers, Following, BlockedUsers and ViewedBy hold user ids and are only
// mutated through the repository's atomic set operations.
type User struct {
	ID         string
	Username   string
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Bio        string
	Location   string
	Role       Role
	IsVerified bool

	Followers    []string
	Following    []string
	BlockedUsers []string
	ViewedBy     []string
	ProfileViews int

	ResetToken        *TokenDigest
	VerificationToken *TokenDigest

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Name returns the display name.
func (u *User) Name() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

func (u *User) IsFollowing(id string) bool      { return slices.Contains(u.Following, id) }
func (u *User) IsFollowedBy(id string) bool     { return slices.Contains(u.Followers, id) }
func (u *User) HasBlocked(id string) bool       { return slices.Contains(u.BlockedUsers, id) }
func (u *User) HasViewedProfile(id string) bool { return slices.Contains(u.ViewedBy, id) }

// Token returns the digest stored for purpose, or nil.
func (u *User) Token(purpose TokenPurpose) *TokenDigest {
	switch purpose {
	case PurposePasswordReset:
		return u.ResetToken
	case PurposeAccountVerification:
		return u.VerificationToken
	}
	return nil
}

// UserSummary is the compact form used when a user is referenced from
// another user's profile.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Name: u.Name()}
}
