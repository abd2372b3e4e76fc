package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	"github.com/oksasatya/blog-engagement/internal/domain/repository"
)

type PostRepository struct {
	s *Store
}

func (r *PostRepository) Create(_ context.Context, p *entity.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[p.AuthorID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range r.s.posts {
		if p.Slug != "" && existing.Slug == p.Slug {
			return repository.ErrDuplicate
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.posts[p.ID] = clonePost(p)
	r.s.postOrder = append(r.s.postOrder, p.ID)
	return nil
}

func (r *PostRepository) GetByID(_ context.Context, id string) (*entity.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clonePost(p), nil
}

// ListByAuthor returns the author's posts, newest first.
func (r *PostRepository) ListByAuthor(_ context.Context, authorID string) ([]*entity.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Post
	for i := len(r.s.postOrder) - 1; i >= 0; i-- {
		p := r.s.posts[r.s.postOrder[i]]
		if p.AuthorID == authorID {
			out = append(out, clonePost(p))
		}
	}
	return out, nil
}

func (r *PostRepository) ListVisible(_ context.Context, viewerID string, now time.Time, limit int) ([]*entity.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var hidden []string
	if viewer, ok := r.s.users[viewerID]; ok {
		hidden = viewer.BlockedUsers
	}
	var out []*entity.Post
	for i := len(r.s.postOrder) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		p := r.s.posts[r.s.postOrder[i]]
		author, ok := r.s.users[p.AuthorID]
		if !ok || !p.PublishedAt(now) || author.HasBlocked(viewerID) || slices.Contains(hidden, p.AuthorID) {
			continue
		}
		out = append(out, clonePost(p))
	}
	return out, nil
}

func (r *PostRepository) Like(_ context.Context, postID, userID string) (entity.Reactions, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[postID]
	if !ok {
		return entity.Reactions{}, repository.ErrNotFound
	}
	p.Likes, _ = addToSet(p.Likes, userID)
	p.Dislikes, _ = removeFromSet(p.Dislikes, userID)
	return p.Reactions(), nil
}

func (r *PostRepository) Dislike(_ context.Context, postID, userID string) (entity.Reactions, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[postID]
	if !ok {
		return entity.Reactions{}, repository.ErrNotFound
	}
	p.Dislikes, _ = addToSet(p.Dislikes, userID)
	p.Likes, _ = removeFromSet(p.Likes, userID)
	return p.Reactions(), nil
}

func (r *PostRepository) AddClap(_ context.Context, postID, userID string) (entity.Reactions, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[postID]
	if !ok {
		return entity.Reactions{}, false, repository.ErrNotFound
	}
	var applied bool
	p.Clappers, applied = addToSet(p.Clappers, userID)
	if applied {
		p.ClapCount++
	}
	return p.Reactions(), applied, nil
}

func (r *PostRepository) IncrementViews(_ context.Context, postID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[postID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	p.PostViews++
	return p.PostViews, nil
}

func (r *PostRepository) SetSchedule(_ context.Context, postID string, when time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[postID]
	if !ok {
		return false, repository.ErrNotFound
	}
	if p.SchedulePublications != nil {
		return false, nil
	}
	t := when.UTC()
	p.SchedulePublications = &t
	return true, nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
