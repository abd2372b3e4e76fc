package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	repo "github.com/oksasatya/blog-engagement/internal/domain/repository"
	"github.com/oksasatya/blog-engagement/pkg/metrics"
)

// EngagementService records reactions and views on posts. Every
// change is a single atomic repository call.
type EngagementService struct {
	Posts   repo.PostRepository
	Users   repo.UserRepository
	Gate    *PublicationService
	Logger  *logrus.Logger
	Metrics *metrics.Metrics
}

func NewEngagementService(posts repo.PostRepository, users repo.UserRepository, gate *PublicationService, logger *logrus.Logger, m *metrics.Metrics) *EngagementService {
	return &EngagementService{Posts: posts, Users: users, Gate: gate, Logger: logger, Metrics: m}
}

func postErr(op string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrPostNotFound
	}
	return storeErr(op, err)
}

// Like is idempotent and drops any dislike by the same user.
func (s *EngagementService) Like(ctx context.Context, postID, userID string) (entity.Reactions, error) {
	rx, err := s.Posts.Like(ctx, postID, userID)
	s.Metrics.ObserveEngagement("like", err)
	if err != nil {
		return entity.Reactions{}, postErr("like post", err)
	}
	s.Logger.WithFields(logrus.Fields{"post_id": postID, "user_id": userID}).Debug("post liked")
	return rx, nil
}

// Dislike is idempotent and drops any like by the same user.
func (s *EngagementService) Dislike(ctx context.Context, postID, userID string) (entity.Reactions, error) {
	rx, err := s.Posts.Dislike(ctx, postID, userID)
	s.Metrics.ObserveEngagement("dislike", err)
	if err != nil {
		return entity.Reactions{}, postErr("dislike post", err)
	}
	s.Logger.WithFields(logrus.Fields{"post_id": postID, "user_id": userID}).Debug("post disliked")
	return rx, nil
}

// Clap lets each non-author clap a post exactly once.
func (s *EngagementService) Clap(ctx context.Context, postID, userID string) (entity.Reactions, error) {
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return entity.Reactions{}, postErr("get post", err)
	}
	if post.AuthorID == userID {
		return entity.Reactions{}, ErrClapOwnPost
	}

	rx, applied, err := s.Posts.AddClap(ctx, postID, userID)
	s.Metrics.ObserveEngagement("clap", err)
	if err != nil {
		return entity.Reactions{}, postErr("clap post", err)
	}
	if !applied {
		return entity.Reactions{}, ErrAlreadyClapped
	}
	s.Logger.WithFields(logrus.Fields{"post_id": postID, "user_id": userID, "claps": rx.Claps}).Debug("post clapped")
	return rx, nil
}

// RecordView counts one read. Views are not deduplicated.
func (s *EngagementService) RecordView(ctx context.Context, postID, viewerID string) (int, error) {
	views, err := s.Posts.IncrementViews(ctx, postID)
	s.Metrics.ObserveEngagement("view", err)
	if err != nil {
		return 0, postErr("increment views", err)
	}
	return views, nil
}

// GetPost returns a post visible to viewerID and counts the read. Posts the
// viewer may not see are reported as missing.
func (s *EngagementService) GetPost(ctx context.Context, postID, viewerID string) (*entity.Post, error) {
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, postErr("get post", err)
	}
	author, err := s.Users.GetByID(ctx, post.AuthorID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, storeErr("get author", err)
	}
	if !s.Gate.IsVisible(post, author, viewerID) {
		return nil, ErrPostNotFound
	}

	views, err := s.RecordView(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	post.PostViews = views
	return post, nil
}
