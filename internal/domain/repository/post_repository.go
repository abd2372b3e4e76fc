package repository

import (
	"context"
	"time"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
)

// PostRepository defines post persistence. Reaction changes are single
// atomic updates at the storage layer.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*entity.Post, error)

	// ListVisible returns posts whose schedule has passed at now, excluding
	// authors that blocked viewerID and authors viewerID blocked.
	ListVisible(ctx context.Context, viewerID string, now time.Time, limit int) ([]*entity.Post, error)

	// Like adds userID to likes and removes it from dislikes.
	Like(ctx context.Context, postID, userID string) (entity.Reactions, error)
	// Dislike adds userID to dislikes and removes it from likes.
	Dislike(ctx context.Context, postID, userID string) (entity.Reactions, error)
	// AddClap appends userID to clappers and increments clap_count unless
	// userID already clapped; applied reports which happened.
	AddClap(ctx context.Context, postID, userID string) (entity.Reactions, bool, error)
	IncrementViews(ctx context.Context, postID string) (int, error)
	// SetSchedule sets schedule_publications only when it is still null.
	SetSchedule(ctx context.Context, postID string, when time.Time) (bool, error)
}
