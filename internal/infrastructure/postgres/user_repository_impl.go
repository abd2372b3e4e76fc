package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	"github.com/oksasatya/blog-engagement/internal/domain/repository"
)

const userColumns = `
	id::text, username, email, password_hash, first_name, last_name, bio, location, role, is_verified,
	followers::text[], following::text[], blocked_users::text[], viewed_by::text[], profile_views,
	reset_password_token_hash, reset_password_expiry, verification_token_hash, verification_expiry,
	created_at, updated_at`

// set columns addressable by the conditional array helpers
const (
	colFollowers    = "followers"
	colFollowing    = "following"
	colBlockedUsers = "blocked_users"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var (
		role                 string
		resetHash, verifHash *string
		resetExp, verifExp   *time.Time
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Bio, &u.Location, &role, &u.IsVerified,
		&u.Followers, &u.Following, &u.BlockedUsers, &u.ViewedBy, &u.ProfileViews,
		&resetHash, &resetExp, &verifHash, &verifExp,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	u.Role = entity.Role(role)
	if resetHash != nil && resetExp != nil {
		u.ResetToken = &entity.TokenDigest{Hash: *resetHash, ExpiresAt: *resetExp}
	}
	if verifHash != nil && verifExp != nil {
		u.VerificationToken = &entity.TokenDigest{Hash: *verifHash, ExpiresAt: *verifExp}
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, first_name, last_name, bio, location, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text, created_at, updated_at
	`, u.Username, u.Email, u.Password, u.FirstName, u.LastName, u.Bio, u.Location, string(u.Role))

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

// GetByIDs batch-loads users; missing ids are skipped.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

// Update writes the mutable profile fields only; engagement sets and tokens
// have their own atomic operations.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, bio = $3, location = $4, updated_at = $5
		WHERE id = $6
	`, u.FirstName, u.LastName, u.Bio, u.Location, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.execOne(ctx, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, hash)
}

func (r *UserRepository) SetVerified(ctx context.Context, id string) error {
	return r.execOne(ctx, `UPDATE users SET is_verified = TRUE, updated_at = now() WHERE id = $1`, id)
}

func (r *UserRepository) execOne(ctx context.Context, sql string, args ...any) error {
	res, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// notApplied tells a no-op conditional update apart from a missing row.
func (r *UserRepository) notApplied(ctx context.Context, userID string) (bool, error) {
	ok, err := r.Exists(ctx, userID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, repository.ErrNotFound
	}
	return false, nil
}

func (r *UserRepository) addToSet(ctx context.Context, column, userID, member string) (bool, error) {
	res, err := r.pool.Exec(ctx, fmt.Sprintf(`
		UPDATE users SET %[1]s = array_append(%[1]s, $2::uuid), updated_at = now()
		WHERE id = $1 AND NOT ($2::uuid = ANY(%[1]s))
	`, column), userID, member)
	if err != nil {
		return false, err
	}
	if res.RowsAffected() == 1 {
		return true, nil
	}
	return r.notApplied(ctx, userID)
}

func (r *UserRepository) removeFromSet(ctx context.Context, column, userID, member string) (bool, error) {
	res, err := r.pool.Exec(ctx, fmt.Sprintf(`
		UPDATE users SET %[1]s = array_remove(%[1]s, $2::uuid), updated_at = now()
		WHERE id = $1 AND $2::uuid = ANY(%[1]s)
	`, column), userID, member)
	if err != nil {
		return false, err
	}
	if res.RowsAffected() == 1 {
		return true, nil
	}
	return r.notApplied(ctx, userID)
}

func (r *UserRepository) AddFollowing(ctx context.Context, userID, targetID string) (bool, error) {
	return r.addToSet(ctx, colFollowing, userID, targetID)
}

func (r *UserRepository) RemoveFollowing(ctx context.Context, userID, targetID string) (bool, error) {
	return r.removeFromSet(ctx, colFollowing, userID, targetID)
}

func (r *UserRepository) AddFollower(ctx context.Context, userID, followerID string) (bool, error) {
	return r.addToSet(ctx, colFollowers, userID, followerID)
}

func (r *UserRepository) RemoveFollower(ctx context.Context, userID, followerID string) (bool, error) {
	return r.removeFromSet(ctx, colFollowers, userID, followerID)
}

func (r *UserRepository) AddBlocked(ctx context.Context, userID, targetID string) (bool, error) {
	return r.addToSet(ctx, colBlockedUsers, userID, targetID)
}

func (r *UserRepository) RemoveBlocked(ctx context.Context, userID, targetID string) (bool, error) {
	return r.removeFromSet(ctx, colBlockedUsers, userID, targetID)
}

func (r *UserRepository) RecordProfileView(ctx context.Context, targetID, viewerID string) (int, bool, error) {
	var views int
	err := r.pool.QueryRow(ctx, `
		UPDATE users SET viewed_by = array_append(viewed_by, $2::uuid), profile_views = profile_views + 1
		WHERE id = $1 AND NOT ($2::uuid = ANY(viewed_by))
		RETURNING profile_views
	`, targetID, viewerID).Scan(&views)
	if err == nil {
		return views, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, err
	}
	err = r.pool.QueryRow(ctx, `SELECT profile_views FROM users WHERE id = $1`, targetID).Scan(&views)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, repository.ErrNotFound
	}
	return views, false, err
}

// RepairFollowers rebuilds followers from the following side, which is
// always written first.
func (r *UserRepository) RepairFollowers(ctx context.Context) (int64, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE users t
		SET followers = d.followers, updated_at = now()
		FROM (
			SELECT u.id, ARRAY(SELECT f.id FROM users f WHERE u.id = ANY(f.following) ORDER BY f.id) AS followers
			FROM users u
		) d
		WHERE t.id = d.id AND NOT (t.followers @> d.followers AND d.followers @> t.followers)
	`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func tokenColumns(purpose entity.TokenPurpose) (hashCol, expCol string, err error) {
	switch purpose {
	case entity.PurposePasswordReset:
		return "reset_password_token_hash", "reset_password_expiry", nil
	case entity.PurposeAccountVerification:
		return "verification_token_hash", "verification_expiry", nil
	}
	return "", "", fmt.Errorf("unknown token purpose %q", purpose)
}

func (r *UserRepository) SetToken(ctx context.Context, userID string, purpose entity.TokenPurpose, digest entity.TokenDigest) error {
	hashCol, expCol, err := tokenColumns(purpose)
	if err != nil {
		return err
	}
	return r.execOne(ctx, fmt.Sprintf(`UPDATE users SET %s = $2, %s = $3, updated_at = now() WHERE id = $1`, hashCol, expCol),
		userID, digest.Hash, digest.ExpiresAt)
}

func (r *UserRepository) ClearToken(ctx context.Context, userID string, purpose entity.TokenPurpose) error {
	hashCol, expCol, err := tokenColumns(purpose)
	if err != nil {
		return err
	}
	return r.execOne(ctx, fmt.Sprintf(`UPDATE users SET %s = NULL, %s = NULL, updated_at = now() WHERE id = $1`, hashCol, expCol), userID)
}

func (r *UserRepository) ConsumeToken(ctx context.Context, purpose entity.TokenPurpose, hash, ownerID string, now time.Time) (string, error) {
	hashCol, expCol, err := tokenColumns(purpose)
	if err != nil {
		return "", err
	}
	var id string
	err = r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE users SET %[1]s = NULL, %[2]s = NULL, updated_at = now()
		WHERE %[1]s = $1 AND %[2]s > $2 AND ($3::text = '' OR id::text = $3::text)
		RETURNING id::text
	`, hashCol, expCol), hash, now, ownerID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	return id, err
}

var _ repository.UserRepository = (*UserRepository)(nil)
