package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	"github.com/oksasatya/blog-engagement/pkg/helpers"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	u, err := f.sessions.Register(ctx, RegisterInput{Username: "alice", Email: " Alice@Example.com ", Password: "password-1"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.NotEqual(t, "password-1", u.Password)

	_, err = f.sessions.Register(ctx, RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "password-2"})
	assert.ErrorIs(t, err, ErrAccountTaken)

	_, err = f.sessions.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.sessions.Login(ctx, "nobody@example.com", "password-1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := f.sessions.Login(ctx, "alice@example.com", "password-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestSessionRoundTrip(t *testing.T) {
	f := newAccountFixture(t)
	u := f.register(t, "alice", "password-1")
	ctx := context.Background()

	sess, err := f.sessions.IssueSession(u)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)

	got, err := f.sessions.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.sessions.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = f.sessions.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticateRejectsExpiredSession(t *testing.T) {
	f := newAccountFixture(t)
	u := f.register(t, "alice", "password-1")

	jwt := f.sessions.JWT
	jwt.Now = fixedNow(t0)
	sess, err := f.sessions.IssueSession(u)
	require.NoError(t, err)

	jwt.Now = fixedNow(t0.Add(2 * time.Hour))
	_, err = f.sessions.Authenticate(context.Background(), sess.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUpdateProfileChangesOnlyGivenFields(t *testing.T) {
	f := newAccountFixture(t)
	u := f.register(t, "alice", "password-1")
	bio, city := "writes about Go", " Lisbon "

	got, err := f.sessions.UpdateProfile(context.Background(), u.ID, UpdateProfileInput{Bio: &bio, Location: &city})
	require.NoError(t, err)
	assert.Equal(t, bio, got.Bio)
	assert.Equal(t, "Lisbon", got.Location)
	assert.Equal(t, "alice", got.FirstName)

	_, err = f.sessions.UpdateProfile(context.Background(), "00000000-0000-0000-0000-000000000000", UpdateProfileInput{Bio: &bio})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

type fakeIndex struct {
	indexed []string
	size    int
	err     error
}

func (x *fakeIndex) IndexUser(_ context.Context, u *entity.User) error {
	if x.err != nil {
		return x.err
	}
	x.indexed = append(x.indexed, u.ID)
	return nil
}

func (x *fakeIndex) SearchUsers(_ context.Context, _ string, size int) ([]entity.UserSummary, error) {
	x.size = size
	return []entity.UserSummary{{ID: "1", Username: "alice"}}, x.err
}

func TestRegisterIndexesUser(t *testing.T) {
	f := newAccountFixture(t)
	idx := &fakeIndex{}
	f.sessions.Directory = NewDirectoryService(idx, helpers.NewNopLogger())

	u := f.register(t, "alice", "password-1")
	assert.Equal(t, []string{u.ID}, idx.indexed)

	// index failures do not fail registration
	idx.err = errors.New("cluster red")
	f.register(t, "bob", "password-2")
}

func TestDirectorySearch(t *testing.T) {
	idx := &fakeIndex{}
	dir := NewDirectoryService(idx, helpers.NewNopLogger())
	ctx := context.Background()

	out, err := dir.Search(ctx, "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, idx.size)

	out, err = dir.Search(ctx, "ali", 500)
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, defaultSearchSize, idx.size)

	var none *DirectoryService
	out, err = none.Search(ctx, "ali", 5)
	require.NoError(t, err)
	assert.Empty(t, out)
}
