// Package bootstrap opens the infrastructure shared by the binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-engagement/config"
	"github.com/oksasatya/blog-engagement/internal/domain/repository"
	"github.com/oksasatya/blog-engagement/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/blog-engagement/internal/infrastructure/postgres"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Store is an opened storage backend.
type Store struct {
	Users repository.UserRepository
	Posts repository.PostRepository
	// Pool is nil for the memory driver.
	Pool  *pgxpool.Pool
	close func()
}

func (s *Store) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenStore opens the backend named by cfg.StoreDriver. For postgres it
// runs pending migrations when migrate is set.
func OpenStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger, migrate bool) (*Store, error) {
	switch cfg.StoreDriver {
	case DriverMemory:
		logger.Warn("using in-memory store, data is lost on exit")
		mem := memory.NewStore()
		return &Store{Users: mem.Users(), Posts: mem.Posts()}, nil

	case DriverPostgres:
		if migrate {
			if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
			AppName:     cfg.AppName,
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &Store{
			Users: pginfra.NewUserRepository(pool),
			Posts: pginfra.NewPostRepository(pool),
			Pool:  pool,
			close: pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}
