// Package memory implements the repository contracts in process memory.
// It backs STORE_DRIVER=memory for local runs and the package tests.
package memory

import (
	"slices"
	"sync"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
)

// Store holds users and posts behind one mutex so every set mutation is
// applied atomically, mirroring the single-statement updates of the
// postgres repositories.
type Store struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	posts     map[string]*entity.Post
	postOrder []string
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]*entity.User),
		posts: make(map[string]*entity.Post),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Posts returns the post repository view of the store.
func (s *Store) Posts() *PostRepository { return &PostRepository{s: s} }

func addToSet(set []string, id string) ([]string, bool) {
	if slices.Contains(set, id) {
		return set, false
	}
	return append(set, id), true
}

func removeFromSet(set []string, id string) ([]string, bool) {
	i := slices.Index(set, id)
	if i < 0 {
		return set, false
	}
	return slices.Delete(set, i, i+1), true
}

func cloneDigest(d *entity.TokenDigest) *entity.TokenDigest {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Followers = slices.Clone(u.Followers)
	c.Following = slices.Clone(u.Following)
	c.BlockedUsers = slices.Clone(u.BlockedUsers)
	c.ViewedBy = slices.Clone(u.ViewedBy)
	c.ResetToken = cloneDigest(u.ResetToken)
	c.VerificationToken = cloneDigest(u.VerificationToken)
	return &c
}

func clonePost(p *entity.Post) *entity.Post {
	c := *p
	c.Likes = slices.Clone(p.Likes)
	c.Dislikes = slices.Clone(p.Dislikes)
	c.Clappers = slices.Clone(p.Clappers)
	if p.SchedulePublications != nil {
		t := *p.SchedulePublications
		c.SchedulePublications = &t
	}
	return &c
}
