package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
)

// UserIndex is a searchable copy of the user directory.
type UserIndex interface {
	IndexUser(ctx context.Context, u *entity.User) error
	SearchUsers(ctx context.Context, query string, size int) ([]entity.UserSummary, error)
}

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

// DirectoryService keeps the user index in step with profile changes and
// serves user search. Without a backend it indexes nothing and finds nothing.
type DirectoryService struct {
	Backend UserIndex
	Logger  *logrus.Logger
}

func NewDirectoryService(backend UserIndex, logger *logrus.Logger) *DirectoryService {
	return &DirectoryService{Backend: backend, Logger: logger}
}

// Index is best effort: failures are logged and never reach the caller.
func (d *DirectoryService) Index(ctx context.Context, u *entity.User) {
	if d == nil || d.Backend == nil {
		return
	}
	if err := d.Backend.IndexUser(ctx, u); err != nil {
		d.Logger.WithError(err).WithField("user_id", u.ID).Warn("user index failed")
	}
}

func (d *DirectoryService) Search(ctx context.Context, query string, size int) ([]entity.UserSummary, error) {
	query = strings.TrimSpace(query)
	if d == nil || d.Backend == nil || query == "" {
		return []entity.UserSummary{}, nil
	}
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}
	out, err := d.Backend.SearchUsers(ctx, query, size)
	if err != nil {
		return nil, storeErr("search users", err)
	}
	return out, nil
}
