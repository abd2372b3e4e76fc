package entity

import (
	"slices"
	"time"
)

// Post is a blog post with its engagement state.
// Likes and Dislikes are disjoint; ClapCount always equals len(Clappers).
type Post struct {
	ID       string
	AuthorID string
	Title    string
	Slug     string
	Body     string

	Likes     []string
	Dislikes  []string
	Clappers  []string
	ClapCount int
	PostViews int

	// SchedulePublications is write-once; nil means published immediately.
	SchedulePublications *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublishedAt reports whether the schedule gate is open at now.
func (p *Post) PublishedAt(now time.Time) bool {
	return p.SchedulePublications == nil || !p.SchedulePublications.After(now)
}

func (p *Post) LikedBy(id string) bool    { return slices.Contains(p.Likes, id) }
func (p *Post) DislikedBy(id string) bool { return slices.Contains(p.Dislikes, id) }
func (p *Post) ClappedBy(id string) bool  { return slices.Contains(p.Clappers, id) }

// Reactions is the reaction state returned after an engagement change.
type Reactions struct {
	PostID   string `json:"post_id"`
	Likes    int    `json:"likes"`
	Dislikes int    `json:"dislikes"`
	Claps    int    `json:"claps"`
}

func (p *Post) Reactions() Reactions {
	return Reactions{PostID: p.ID, Likes: len(p.Likes), Dislikes: len(p.Dislikes), Claps: p.ClapCount}
}

// PostSummary is the listing form of a post.
type PostSummary struct {
	ID                   string     `json:"id"`
	AuthorID             string     `json:"author_id"`
	Title                string     `json:"title"`
	Slug                 string     `json:"slug"`
	Likes                int        `json:"likes"`
	Dislikes             int        `json:"dislikes"`
	Claps                int        `json:"claps"`
	PostViews            int        `json:"post_views"`
	SchedulePublications *time.Time `json:"schedule_publications,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

func (p *Post) Summary() PostSummary {
	return PostSummary{
		ID:                   p.ID,
		AuthorID:             p.AuthorID,
		Title:                p.Title,
		Slug:                 p.Slug,
		Likes:                len(p.Likes),
		Dislikes:             len(p.Dislikes),
		Claps:                p.ClapCount,
		PostViews:            p.PostViews,
		SchedulePublications: p.SchedulePublications,
		CreatedAt:            p.CreatedAt,
	}
}
