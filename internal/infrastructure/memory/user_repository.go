package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	"github.com/oksasatya/blog-engagement/internal/domain/repository"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) || existing.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByIDs(_ context.Context, ids []string) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Exists(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.users[id]
	return ok, nil
}

// Update writes the mutable profile fields only.
func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.FirstName = u.FirstName
	cur.LastName = u.LastName
	cur.Bio = u.Bio
	cur.Location = u.Location
	cur.UpdatedAt = time.Now().UTC()
	u.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, hash string) error {
	return r.mutate(id, func(u *entity.User) { u.Password = hash })
}

func (r *UserRepository) SetVerified(_ context.Context, id string) error {
	return r.mutate(id, func(u *entity.User) { u.IsVerified = true })
}

func (r *UserRepository) mutate(id string, fn func(u *entity.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// setOp applies a conditional set change to one field of one user.
func (r *UserRepository) setOp(userID string, field func(u *entity.User) *[]string, member string, add bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return false, repository.ErrNotFound
	}
	set := field(u)
	var applied bool
	if add {
		*set, applied = addToSet(*set, member)
	} else {
		*set, applied = removeFromSet(*set, member)
	}
	return applied, nil
}

func following(u *entity.User) *[]string { return &u.Following }
func followers(u *entity.User) *[]string { return &u.Followers }
func blocked(u *entity.User) *[]string   { return &u.BlockedUsers }

func (r *UserRepository) AddFollowing(_ context.Context, userID, targetID string) (bool, error) {
	return r.setOp(userID, following, targetID, true)
}

func (r *UserRepository) RemoveFollowing(_ context.Context, userID, targetID string) (bool, error) {
	return r.setOp(userID, following, targetID, false)
}

func (r *UserRepository) AddFollower(_ context.Context, userID, followerID string) (bool, error) {
	return r.setOp(userID, followers, followerID, true)
}

func (r *UserRepository) RemoveFollower(_ context.Context, userID, followerID string) (bool, error) {
	return r.setOp(userID, followers, followerID, false)
}

func (r *UserRepository) AddBlocked(_ context.Context, userID, targetID string) (bool, error) {
	return r.setOp(userID, blocked, targetID, true)
}

func (r *UserRepository) RemoveBlocked(_ context.Context, userID, targetID string) (bool, error) {
	return r.setOp(userID, blocked, targetID, false)
}

func (r *UserRepository) RecordProfileView(_ context.Context, targetID, viewerID string) (int, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[targetID]
	if !ok {
		return 0, false, repository.ErrNotFound
	}
	var applied bool
	u.ViewedBy, applied = addToSet(u.ViewedBy, viewerID)
	if applied {
		u.ProfileViews++
	}
	return u.ProfileViews, applied, nil
}

func (r *UserRepository) RepairFollowers(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[string][]string, len(r.s.users))
	for id, u := range r.s.users {
		for _, target := range u.Following {
			want[target] = append(want[target], id)
		}
	}
	var repaired int64
	for id, u := range r.s.users {
		desired := want[id]
		slices.Sort(desired)
		current := slices.Clone(u.Followers)
		slices.Sort(current)
		if !slices.Equal(current, desired) {
			u.Followers = desired
			repaired++
		}
	}
	return repaired, nil
}

func (r *UserRepository) SetToken(_ context.Context, userID string, purpose entity.TokenPurpose, digest entity.TokenDigest) error {
	return r.mutate(userID, func(u *entity.User) {
		d := digest
		switch purpose {
		case entity.PurposePasswordReset:
			u.ResetToken = &d
		case entity.PurposeAccountVerification:
			u.VerificationToken = &d
		}
	})
}

func (r *UserRepository) ClearToken(_ context.Context, userID string, purpose entity.TokenPurpose) error {
	return r.mutate(userID, func(u *entity.User) { clearDigest(u, purpose) })
}

func (r *UserRepository) ConsumeToken(_ context.Context, purpose entity.TokenPurpose, hash, ownerID string, now time.Time) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, u := range r.s.users {
		if ownerID != "" && id != ownerID {
			continue
		}
		d := u.Token(purpose)
		if d == nil || d.Hash != hash || !d.ExpiresAt.After(now) {
			continue
		}
		clearDigest(u, purpose)
		return id, nil
	}
	return "", repository.ErrNotFound
}

func clearDigest(u *entity.User, purpose entity.TokenPurpose) {
	switch purpose {
	case entity.PurposePasswordReset:
		u.ResetToken = nil
	case entity.PurposeAccountVerification:
		u.VerificationToken = nil
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)
