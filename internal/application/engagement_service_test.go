package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/blog-engagement/internal/domain/apperror"
)

func TestLikeAndDislikeAreExclusive(t *testing.T) {
	f := newFixture(t)
	author, reader := f.user(t, "author"), f.user(t, "reader")
	post := f.post(t, author, "hello")
	ctx := context.Background()

	rx, err := f.engagement.Like(ctx, post.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rx.Likes)
	assert.Zero(t, rx.Dislikes)

	rx, err = f.engagement.Dislike(ctx, post.ID, reader.ID)
	require.NoError(t, err)
	assert.Zero(t, rx.Likes)
	assert.Equal(t, 1, rx.Dislikes)

	// liking twice changes nothing the second time
	_, err = f.engagement.Like(ctx, post.ID, reader.ID)
	require.NoError(t, err)
	rx, err = f.engagement.Like(ctx, post.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rx.Likes)
	assert.Zero(t, rx.Dislikes)
}

func TestAuthorMayLikeOwnPost(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	post := f.post(t, author, "mine")

	rx, err := f.engagement.Like(context.Background(), post.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rx.Likes)
}

func TestReactionsOnMissingPost(t *testing.T) {
	f := newFixture(t)
	reader := f.user(t, "reader")
	ctx := context.Background()

	_, err := f.engagement.Like(ctx, "00000000-0000-0000-0000-000000000000", reader.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = f.engagement.Dislike(ctx, "00000000-0000-0000-0000-000000000000", reader.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = f.engagement.Clap(ctx, "00000000-0000-0000-0000-000000000000", reader.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestClapOncePerReader(t *testing.T) {
	f := newFixture(t)
	author, reader := f.user(t, "author"), f.user(t, "reader")
	post := f.post(t, author, "hello")
	ctx := context.Background()

	_, err := f.engagement.Clap(ctx, post.ID, author.ID)
	assert.ErrorIs(t, err, ErrClapOwnPost)
	assert.Equal(t, apperror.Forbidden, apperror.KindOf(err))

	rx, err := f.engagement.Clap(ctx, post.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rx.Claps)

	_, err = f.engagement.Clap(ctx, post.ID, reader.ID)
	assert.ErrorIs(t, err, ErrAlreadyClapped)

	got, err := f.posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ClapCount)
	assert.Equal(t, []string{reader.ID}, got.Clappers)
}

func TestGetPostCountsEveryRead(t *testing.T) {
	f := newFixture(t)
	author, reader := f.user(t, "author"), f.user(t, "reader")
	post := f.post(t, author, "hello")
	ctx := context.Background()

	got, err := f.engagement.GetPost(ctx, post.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PostViews)

	got, err = f.engagement.GetPost(ctx, post.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.PostViews)
}

func TestGetPostHidesInvisiblePosts(t *testing.T) {
	f := newFixture(t)
	author, blocked, other := f.user(t, "author"), f.user(t, "blocked"), f.user(t, "other")
	post := f.post(t, author, "hello")
	later := f.scheduledPost(t, author, "later", t0.Add(24*time.Hour))
	ctx := context.Background()

	require.NoError(t, f.graph.Block(ctx, author.ID, blocked.ID))

	_, err := f.engagement.GetPost(ctx, post.ID, blocked.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = f.engagement.GetPost(ctx, later.ID, other.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	// hidden reads are not counted
	stored, err := f.posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.PostViews)

	f.gate.Now = fixedNow(t0.Add(25 * time.Hour))
	got, err := f.engagement.GetPost(ctx, later.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PostViews)
}
