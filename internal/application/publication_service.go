package application

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	repo "github.com/oksasatya/blog-engagement/internal/domain/repository"
	"github.com/oksasatya/blog-engagement/pkg/metrics"
)

const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100
)

// PublicationService decides when and to whom a post is visible.
type PublicationService struct {
	Posts   repo.PostRepository
	Users   repo.UserRepository
	Logger  *logrus.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func NewPublicationService(posts repo.PostRepository, users repo.UserRepository, logger *logrus.Logger, m *metrics.Metrics) *PublicationService {
	return &PublicationService{Posts: posts, Users: users, Logger: logger, Metrics: m, Now: time.Now}
}

// IsVisible reports whether viewerID may see post: the schedule has passed
// and the author has not blocked the viewer.
func IsVisible(post *entity.Post, author *entity.User, viewerID string, now time.Time) bool {
	return post.PublishedAt(now) && !author.HasBlocked(viewerID)
}

func (s *PublicationService) IsVisible(post *entity.Post, author *entity.User, viewerID string) bool {
	return IsVisible(post, author, viewerID, s.Now())
}

// Schedule sets the publication date of a post once.
func (s *PublicationService) Schedule(ctx context.Context, postID, callerID string, when time.Time) (*entity.Post, error) {
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, storeErr("get post", err)
	}
	if post.AuthorID != callerID {
		return nil, ErrNotAuthor
	}
	if !when.After(s.Now()) {
		return nil, ErrScheduleNotAhead
	}

	applied, err := s.Posts.SetSchedule(ctx, postID, when)
	s.Metrics.ObserveEngagement("schedule", err)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, storeErr("set schedule", err)
	}
	if !applied {
		return nil, ErrAlreadyScheduled
	}

	t := when.UTC()
	post.SchedulePublications = &t
	s.Logger.WithFields(logrus.Fields{"post_id": postID, "schedule": t}).Info("post scheduled")
	return post, nil
}

// Feed lists posts visible to viewerID, newest first. Authors the viewer
// has blocked are left out as well.
func (s *PublicationService) Feed(ctx context.Context, viewerID string, limit int) ([]*entity.Post, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	posts, err := s.Posts.ListVisible(ctx, viewerID, s.Now(), limit)
	if err != nil {
		return nil, storeErr("list visible posts", err)
	}
	if posts == nil {
		posts = []*entity.Post{}
	}
	return posts, nil
}

type PublishInput struct {
	Title string
	Body  string
	// SchedulePublications is optional and must lie in the future.
	SchedulePublications *time.Time
}

// Publish creates a post for authorID.
func (s *PublicationService) Publish(ctx context.Context, authorID string, in PublishInput) (*entity.Post, error) {
	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Body)
	if title == "" || body == "" {
		return nil, ErrEmptyPost
	}
	if in.SchedulePublications != nil && !in.SchedulePublications.After(s.Now()) {
		return nil, ErrScheduleNotAhead
	}

	post := &entity.Post{
		AuthorID:             authorID,
		Title:                title,
		Slug:                 Slugify(title) + "-" + uuid.NewString()[:8],
		Body:                 body,
		SchedulePublications: in.SchedulePublications,
	}
	if err := s.Posts.Create(ctx, post); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeErr("create post", err)
	}
	s.Logger.WithFields(logrus.Fields{"post_id": post.ID, "user_id": authorID}).Info("post published")
	return post, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if slug == "" {
		return "post"
	}
	if len(slug) > 80 {
		slug = strings.TrimRight(slug[:80], "-")
	}
	return slug
}
