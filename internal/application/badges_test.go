package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
)

var badgeNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func postsAged(n int, age time.Duration, views int) []*entity.Post {
	out := make([]*entity.Post, n)
	for i := range out {
		out[i] = &entity.Post{CreatedAt: badgeNow.Add(-age), PostViews: views}
	}
	return out
}

func TestDeriveUserBadgesWithoutPosts(t *testing.T) {
	b := DeriveUserBadges(nil, badgeNow)

	assert.Equal(t, AwardUser, b.Award)
	assert.False(t, b.IsInactive)
	assert.Equal(t, "No post yet", b.LastActiveLabel)
	assert.Nil(t, b.LastPostDate)
}

func TestDeriveUserBadgesAwards(t *testing.T) {
	cases := []struct {
		name  string
		posts int
		views int
		want  Award
	}{
		{"few posts", 10, 5000, AwardUser},
		{"silver", 501, 1001, AwardSilver},
		{"silver needs views", 600, 1000, AwardUser},
		{"exactly 500 is not silver", 500, 5000, AwardUser},
		{"pro", 1000, 1001, AwardPro},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := DeriveUserBadges(postsAged(tc.posts, time.Hour, tc.views), badgeNow)
			assert.Equal(t, tc.want, b.Award)
		})
	}
}

func TestDeriveUserBadgesInactivity(t *testing.T) {
	assert.True(t, DeriveUserBadges(postsAged(1, 91*day, 0), badgeNow).IsInactive)
	assert.False(t, DeriveUserBadges(postsAged(1, 89*day, 0), badgeNow).IsInactive)
}

func TestDeriveUserBadgesUsesLatestPost(t *testing.T) {
	posts := append(postsAged(1, 200*day, 0), postsAged(1, 2*day, 0)...)

	b := DeriveUserBadges(posts, badgeNow)

	assert.False(t, b.IsInactive)
	assert.Equal(t, "2 days ago", b.LastActiveLabel)
}

func TestLastActiveLabel(t *testing.T) {
	cases := map[int]string{
		0:   "Today",
		1:   "Yesterday",
		3:   "3 days ago",
		7:   "A week ago",
		15:  "2 weeks ago",
		30:  "A month ago",
		95:  "3 months ago",
		365: "A year ago",
		800: "2 years ago",
	}
	for days, want := range cases {
		assert.Equal(t, want, lastActiveLabel(days), "days=%d", days)
	}
}
