package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	"github.com/oksasatya/blog-engagement/internal/domain/repository"
)

func seedUser(t *testing.T, s *Store, name string) *entity.User {
	t.Helper()
	u := &entity.User{Username: name, Email: name + "@example.com"}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func seedPost(t *testing.T, s *Store, author *entity.User, title string) *entity.Post {
	t.Helper()
	p := &entity.Post{AuthorID: author.ID, Title: title, Slug: title}
	require.NoError(t, s.Posts().Create(context.Background(), p))
	return p
}

func TestConcurrentClapsKeepCounterInSync(t *testing.T) {
	s := NewStore()
	author := seedUser(t, s, "author")
	post := seedPost(t, s, author, "hello")

	var clappers []*entity.User
	for i := 0; i < 20; i++ {
		clappers = append(clappers, seedUser(t, s, fmt.Sprintf("reader%d", i)))
	}

	ctx := context.Background()
	var wg sync.WaitGroup
	for _, u := range clappers {
		// every reader races two claps; only one may land
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, _, err := s.Posts().AddClap(ctx, post.ID, id)
				assert.NoError(t, err)
			}(u.ID)
		}
	}
	wg.Wait()

	got, err := s.Posts().GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, got.Clappers, 20)
	assert.Equal(t, len(got.Clappers), got.ClapCount)
}

func TestConcurrentLikeDislikeStaysDisjoint(t *testing.T) {
	s := NewStore()
	author := seedUser(t, s, "author")
	reader := seedUser(t, s, "reader")
	post := seedPost(t, s, author, "hello")

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Posts().Like(ctx, post.ID, reader.ID)
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Posts().Dislike(ctx, post.ID, reader.ID)
		}()
	}
	wg.Wait()

	got, err := s.Posts().GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, len(got.Likes)+len(got.Dislikes))
	assert.NotEqual(t, got.LikedBy(reader.ID), got.DislikedBy(reader.ID))
}

func TestRepairFollowersUsesFollowingAsTruth(t *testing.T) {
	s := NewStore()
	a := seedUser(t, s, "a")
	b := seedUser(t, s, "b")
	c := seedUser(t, s, "c")
	ctx := context.Background()
	users := s.Users()

	// a -> b half applied, c stale in b.followers
	_, err := users.AddFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = users.AddFollower(ctx, b.ID, c.ID)
	require.NoError(t, err)

	repaired, err := users.RepairFollowers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), repaired)

	got, err := users.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, got.Followers)

	repaired, err = users.RepairFollowers(ctx)
	require.NoError(t, err)
	assert.Zero(t, repaired)
}

func TestConsumeTokenIsSingleUse(t *testing.T) {
	s := NewStore()
	u := seedUser(t, s, "u")
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Users().SetToken(ctx, u.ID, entity.PurposePasswordReset, entity.TokenDigest{Hash: "h", ExpiresAt: now.Add(time.Minute)}))

	_, err := s.Users().ConsumeToken(ctx, entity.PurposeAccountVerification, "h", "", now)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	id, err := s.Users().ConsumeToken(ctx, entity.PurposePasswordReset, "h", "", now)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, err = s.Users().ConsumeToken(ctx, entity.PurposePasswordReset, "h", "", now)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	s := NewStore()
	seedUser(t, s, "dup")
	err := s.Users().Create(context.Background(), &entity.User{Username: "other", Email: "DUP@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}
