package application

import (
	"fmt"
	"time"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
)

type Award string

const (
	AwardUser   Award = "User"
	AwardSilver Award = "Silver"
	AwardPro    Award = "Pro"
)

const (
	silverMinPosts = 500
	proMinPosts    = 1000
	awardMinViews  = 1000
	inactiveAfter  = 90 * 24 * time.Hour
	day            = 24 * time.Hour
)

// UserBadges are derived from a user's posts at read time and never stored.
type UserBadges struct {
	Award           Award      `json:"award"`
	IsInactive      bool       `json:"is_inactive"`
	LastActiveLabel string     `json:"last_active"`
	LastPostDate    *time.Time `json:"last_post_date,omitempty"`
}

// DeriveUserBadges computes the award and activity fields from
// posts at now.
func DeriveUserBadges(posts []*entity.Post, now time.Time) UserBadges {
	b := UserBadges{Award: AwardUser, LastActiveLabel: "No post yet"}
	if len(posts) == 0 {
		return b
	}

	latest := posts[0]
	maxViews := 0
	for _, p := range posts {
		if p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
		if p.PostViews > maxViews {
			maxViews = p.PostViews
		}
	}

	n := len(posts)
	switch {
	case n >= proMinPosts && maxViews > awardMinViews:
		b.Award = AwardPro
	case n > silverMinPosts && maxViews > awardMinViews:
		b.Award = AwardSilver
	}

	last := latest.CreatedAt
	b.LastPostDate = &last
	since := now.Sub(last)
	b.IsInactive = since > inactiveAfter
	b.LastActiveLabel = lastActiveLabel(int(since / day))
	return b
}

func lastActiveLabel(days int) string {
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return ago(days/7, "A week ago", "weeks")
	case days < 365:
		return ago(days/30, "A month ago", "months")
	default:
		return ago(days/365, "A year ago", "years")
	}
}

func ago(n int, one, unit string) string {
	if n == 1 {
		return one
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
