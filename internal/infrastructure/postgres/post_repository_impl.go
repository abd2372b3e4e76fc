package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	"github.com/oksasatya/blog-engagement/internal/domain/repository"
)

const postColumns = `
	p.id::text, p.author_id::text, p.title, p.slug, p.body,
	p.likes::text[], p.dislikes::text[], p.clappers::text[], p.clap_count, p.post_views,
	p.schedule_publications, p.created_at, p.updated_at`

const reactionColumns = `id::text, cardinality(likes), cardinality(dislikes), clap_count`

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func scanPost(row pgx.Row) (*entity.Post, error) {
	p := &entity.Post{}
	if err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Slug, &p.Body,
		&p.Likes, &p.Dislikes, &p.Clappers, &p.ClapCount, &p.PostViews,
		&p.SchedulePublications, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanReactions(row pgx.Row) (entity.Reactions, error) {
	var rx entity.Reactions
	if err := row.Scan(&rx.PostID, &rx.Likes, &rx.Dislikes, &rx.Claps); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Reactions{}, repository.ErrNotFound
		}
		return entity.Reactions{}, err
	}
	return rx, nil
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (author_id, title, slug, body, schedule_publications)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, created_at, updated_at
	`, p.AuthorID, p.Title, p.Slug, p.Body, p.SchedulePublications)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	return scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id))
}

func (r *PostRepository) list(ctx context.Context, sql string, args ...any) ([]*entity.Post, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*entity.Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.author_id = $1 ORDER BY p.created_at DESC`, authorID)
}

// ListVisible applies the schedule gate and both block directions in one query.
func (r *PostRepository) ListVisible(ctx context.Context, viewerID string, now time.Time, limit int) ([]*entity.Post, error) {
	return r.list(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users a ON a.id = p.author_id
		WHERE (p.schedule_publications IS NULL OR p.schedule_publications <= $2)
		  AND NOT ($1::uuid = ANY(a.blocked_users))
		  AND NOT (p.author_id = ANY(COALESCE((SELECT v.blocked_users FROM users v WHERE v.id = $1::uuid), '{}'::uuid[])))
		ORDER BY p.created_at DESC
		LIMIT $3
	`, viewerID, now, limit)
}

func (r *PostRepository) Like(ctx context.Context, postID, userID string) (entity.Reactions, error) {
	return scanReactions(r.pool.QueryRow(ctx, `
		UPDATE posts
		SET likes = CASE WHEN $2::uuid = ANY(likes) THEN likes ELSE array_append(likes, $2::uuid) END,
		    dislikes = array_remove(dislikes, $2::uuid),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+reactionColumns, postID, userID))
}

func (r *PostRepository) Dislike(ctx context.Context, postID, userID string) (entity.Reactions, error) {
	return scanReactions(r.pool.QueryRow(ctx, `
		UPDATE posts
		SET dislikes = CASE WHEN $2::uuid = ANY(dislikes) THEN dislikes ELSE array_append(dislikes, $2::uuid) END,
		    likes = array_remove(likes, $2::uuid),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+reactionColumns, postID, userID))
}

func (r *PostRepository) AddClap(ctx context.Context, postID, userID string) (entity.Reactions, bool, error) {
	rx, err := scanReactions(r.pool.QueryRow(ctx, `
		UPDATE posts
		SET clappers = array_append(clappers, $2::uuid), clap_count = clap_count + 1, updated_at = now()
		WHERE id = $1 AND NOT ($2::uuid = ANY(clappers))
		RETURNING `+reactionColumns, postID, userID))
	if err == nil {
		return rx, true, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return entity.Reactions{}, false, err
	}
	rx, err = scanReactions(r.pool.QueryRow(ctx, `SELECT `+reactionColumns+` FROM posts WHERE id = $1`, postID))
	return rx, false, err
}

func (r *PostRepository) IncrementViews(ctx context.Context, postID string) (int, error) {
	var views int
	err := r.pool.QueryRow(ctx, `UPDATE posts SET post_views = post_views + 1 WHERE id = $1 RETURNING post_views`, postID).Scan(&views)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	return views, err
}

func (r *PostRepository) SetSchedule(ctx context.Context, postID string, when time.Time) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE posts SET schedule_publications = $2, updated_at = now()
		WHERE id = $1 AND schedule_publications IS NULL
	`, postID, when)
	if err != nil {
		return false, err
	}
	if res.RowsAffected() == 1 {
		return true, nil
	}
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, repository.ErrNotFound
	}
	return false, nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
