package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	repo "github.com/oksasatya/blog-engagement/internal/domain/repository"
	"github.com/oksasatya/blog-engagement/pkg/metrics"
)

// RelationshipService maintains the follow and block graph and profile
// view counters.
//
// A follow edge lives on both users. The initiator side (following) is
// written first and is the source of truth; Reconcile repairs a followers
// set left behind by an interrupted update.
type RelationshipService struct {
	Users   repo.UserRepository
	Posts   repo.PostRepository
	Logger  *logrus.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func NewRelationshipService(users repo.UserRepository, posts repo.PostRepository, logger *logrus.Logger, m *metrics.Metrics) *RelationshipService {
	return &RelationshipService{Users: users, Posts: posts, Logger: logger, Metrics: m, Now: time.Now}
}

func (s *RelationshipService) ensureUser(ctx context.Context, id string) error {
	ok, err := s.Users.Exists(ctx, id)
	if err != nil {
		return storeErr("user exists", err)
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func userErr(op string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	return storeErr(op, err)
}

func (s *RelationshipService) halfApplied(action, userID, targetID string, err error) error {
	s.Logger.WithError(err).WithFields(logrus.Fields{
		"action":    action,
		"user_id":   userID,
		"target_id": targetID,
	}).Error("relationship edge half applied")
	return ErrHalfAppliedEdge
}

// Follow makes userID follow targetID.
func (s *RelationshipService) Follow(ctx context.Context, userID, targetID string) (err error) {
	defer func() { s.Metrics.ObserveRelationship("follow", err) }()

	if userID == targetID {
		return ErrFollowSelf
	}
	if err := s.ensureUser(ctx, targetID); err != nil {
		return err
	}

	applied, err := s.Users.AddFollowing(ctx, userID, targetID)
	if err != nil {
		return userErr("add following", err)
	}
	if !applied {
		return ErrAlreadyFollowing
	}
	if _, err := s.Users.AddFollower(ctx, targetID, userID); err != nil {
		return s.halfApplied("follow", userID, targetID, err)
	}

	s.Logger.WithFields(logrus.Fields{"user_id": userID, "target_id": targetID}).Info("user followed")
	return nil
}

// Unfollow removes the edge userID -> targetID.
func (s *RelationshipService) Unfollow(ctx context.Context, userID, targetID string) (err error) {
	defer func() { s.Metrics.ObserveRelationship("unfollow", err) }()

	if userID == targetID {
		return ErrUnfollowSelf
	}
	if err := s.ensureUser(ctx, targetID); err != nil {
		return err
	}

	applied, err := s.Users.RemoveFollowing(ctx, userID, targetID)
	if err != nil {
		return userErr("remove following", err)
	}
	if !applied {
		return ErrNotFollowing
	}
	if _, err := s.Users.RemoveFollower(ctx, targetID, userID); err != nil {
		return s.halfApplied("unfollow", userID, targetID, err)
	}

	s.Logger.WithFields(logrus.Fields{"user_id": userID, "target_id": targetID}).Info("user unfollowed")
	return nil
}

// Block hides userID's posts from targetID. Only userID's record changes.
func (s *RelationshipService) Block(ctx context.Context, userID, targetID string) (err error) {
	defer func() { s.Metrics.ObserveRelationship("block", err) }()

	if userID == targetID {
		return ErrBlockSelf
	}
	if err := s.ensureUser(ctx, targetID); err != nil {
		return err
	}
	applied, err := s.Users.AddBlocked(ctx, userID, targetID)
	if err != nil {
		return userErr("add blocked", err)
	}
	if !applied {
		return ErrAlreadyBlocked
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "target_id": targetID}).Info("user blocked")
	return nil
}

func (s *RelationshipService) Unblock(ctx context.Context, userID, targetID string) (err error) {
	defer func() { s.Metrics.ObserveRelationship("unblock", err) }()

	if userID == targetID {
		return ErrUnblockSelf
	}
	if err := s.ensureUser(ctx, targetID); err != nil {
		return err
	}
	applied, err := s.Users.RemoveBlocked(ctx, userID, targetID)
	if err != nil {
		return userErr("remove blocked", err)
	}
	if !applied {
		return ErrNotBlocked
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "target_id": targetID}).Info("user unblocked")
	return nil
}

// ViewProfile counts each viewer once per profile and returns the new count.
func (s *RelationshipService) ViewProfile(ctx context.Context, viewerID, targetID string) (views int, err error) {
	defer func() { s.Metrics.ObserveRelationship("view_profile", err) }()

	if viewerID == targetID {
		return 0, ErrViewSelf
	}
	views, applied, err := s.Users.RecordProfileView(ctx, targetID, viewerID)
	if err != nil {
		return 0, userErr("record profile view", err)
	}
	if !applied {
		return 0, ErrAlreadyViewed
	}
	return views, nil
}

// Reconcile rebuilds every followers set from the following sets and
// returns how many users were repaired.
func (s *RelationshipService) Reconcile(ctx context.Context) (int64, error) {
	n, err := s.Users.RepairFollowers(ctx)
	s.Metrics.ObserveRelationship("reconcile", err)
	if err != nil {
		return 0, storeErr("repair followers", err)
	}
	s.Logger.WithField("repaired", n).Info("follow edges reconciled")
	return n, nil
}

// Profile is a user assembled for display with its relations resolved.
type Profile struct {
	ID           string               `json:"id"`
	Username     string               `json:"username"`
	Name         string               `json:"name"`
	Email        string               `json:"email,omitempty"`
	Bio          string               `json:"bio"`
	Location     string               `json:"location"`
	Role         entity.Role          `json:"role"`
	IsVerified   bool                 `json:"is_verified"`
	ProfileViews int                  `json:"profile_views"`
	Followers    []entity.UserSummary `json:"followers"`
	Following    []entity.UserSummary `json:"following"`
	Posts        []entity.PostSummary `json:"posts"`
	PostCount    int                  `json:"post_count"`
	Badges       UserBadges           `json:"badges"`
	CreatedAt    time.Time            `json:"created_at"`
}

// Profile assembles targetID's profile as seen by viewerID. Posts hidden
// from the viewer are left out; the owner sees all of them. Nothing is
// written.
func (s *RelationshipService) Profile(ctx context.Context, viewerID, targetID string) (*Profile, error) {
	u, err := s.Users.GetByID(ctx, targetID)
	if err != nil {
		return nil, userErr("get user", err)
	}
	followers, err := s.summaries(ctx, u.Followers)
	if err != nil {
		return nil, err
	}
	following, err := s.summaries(ctx, u.Following)
	if err != nil {
		return nil, err
	}
	posts, err := s.Posts.ListByAuthor(ctx, targetID)
	if err != nil {
		return nil, storeErr("list posts", err)
	}

	now := s.Now()
	self := viewerID == targetID
	visible := make([]entity.PostSummary, 0, len(posts))
	for _, p := range posts {
		if self || IsVisible(p, u, viewerID, now) {
			visible = append(visible, p.Summary())
		}
	}

	p := &Profile{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name(),
		Bio:          u.Bio,
		Location:     u.Location,
		Role:         u.Role,
		IsVerified:   u.IsVerified,
		ProfileViews: u.ProfileViews,
		Followers:    followers,
		Following:    following,
		Posts:        visible,
		PostCount:    len(posts),
		Badges:       DeriveUserBadges(posts, now),
		CreatedAt:    u.CreatedAt,
	}
	if self {
		p.Email = u.Email
	}
	return p, nil
}

func (s *RelationshipService) summaries(ctx context.Context, ids []string) ([]entity.UserSummary, error) {
	out := make([]entity.UserSummary, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := s.Users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("get users", err)
	}
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, nil
}
