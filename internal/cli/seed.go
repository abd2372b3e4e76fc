package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oksasatya/blog-engagement/internal/application"
	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	"github.com/oksasatya/blog-engagement/internal/domain/repository"
	"github.com/oksasatya/blog-engagement/pkg/helpers"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	Users         int
	Password      string
}

// SeedResult summarises what seed created.
type SeedResult struct {
	AdminID string   `json:"admin_id,omitempty"`
	Users   []string `json:"users"`
	Posts   int      `json:"posts"`
	Follows int      `json:"follows"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create an admin and a few demo users, posts and follows",
		Long: `Seed the store with demo data.

Creates a verified admin account, then demo users who each publish one
post and follow the previous user. An existing admin is left untouched.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := rootOpts.open(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.store.Close()

			res, err := seed(ctx, e, opts)
			if err != nil {
				return err
			}
			return rootOpts.print(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "admin:   %s\n", res.AdminID)
				fmt.Fprintf(w, "users:   %d\n", len(res.Users))
				fmt.Fprintf(w, "posts:   %d\n", res.Posts)
				fmt.Fprintf(w, "follows: %d\n", res.Follows)
			})
		},
	}

	cmd.Flags().StringVar(&opts.AdminEmail, "admin-email", "admin@example.com", "admin account email")
	cmd.Flags().StringVar(&opts.AdminPassword, "admin-password", "admin-password", "admin account password")
	cmd.Flags().IntVar(&opts.Users, "users", 3, "number of demo users")
	cmd.Flags().StringVar(&opts.Password, "password", "password123", "password for demo users")

	return cmd
}

func seed(ctx context.Context, e *env, opts *SeedOptions) (*SeedResult, error) {
	users, posts, logger := e.store.Users, e.store.Posts, e.logger

	res := &SeedResult{Users: []string{}}
	adminID, err := seedAdmin(ctx, users, opts)
	if err != nil {
		return nil, err
	}
	res.AdminID = adminID

	jwt := helpers.NewJWTManager(e.cfg.JWTSecret, e.cfg.SessionTTL)
	sessions := application.NewSessionService(users, jwt, application.NewDirectoryService(nil, logger), logger)
	gate := application.NewPublicationService(posts, users, logger, nil)
	graph := application.NewRelationshipService(users, posts, logger, nil)

	var prev string
	for i := 1; i <= opts.Users; i++ {
		name := fmt.Sprintf("demo%d", i)
		u, err := sessions.Register(ctx, application.RegisterInput{
			Username:  name,
			Email:     name + "@example.com",
			Password:  opts.Password,
			FirstName: "Demo",
			LastName:  fmt.Sprintf("User %d", i),
		})
		if errors.Is(err, application.ErrAccountTaken) {
			logger.WithField("username", name).Info("demo user exists, skipping")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", name, err)
		}
		res.Users = append(res.Users, u.ID)

		if _, err := gate.Publish(ctx, u.ID, application.PublishInput{
			Title: fmt.Sprintf("Hello from %s", name),
			Body:  "A first post to get the feed going.",
		}); err != nil {
			return nil, fmt.Errorf("publish for %s: %w", name, err)
		}
		res.Posts++

		if prev != "" {
			if err := graph.Follow(ctx, u.ID, prev); err != nil {
				return nil, fmt.Errorf("follow: %w", err)
			}
			res.Follows++
		}
		prev = u.ID
	}
	return res, nil
}

// seedAdmin creates a verified admin directly; registration only hands out
// the User role.
func seedAdmin(ctx context.Context, users repository.UserRepository, opts *SeedOptions) (string, error) {
	if existing, err := users.GetByEmail(ctx, opts.AdminEmail); err == nil {
		return existing.ID, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	hash, err := helpers.HashPassword(opts.AdminPassword)
	if err != nil {
		return "", err
	}
	admin := &entity.User{
		Username:  "admin",
		Email:     opts.AdminEmail,
		Password:  hash,
		FirstName: "Site",
		LastName:  "Admin",
		Role:      entity.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return "", fmt.Errorf("create admin: %w", err)
	}
	if err := users.SetVerified(ctx, admin.ID); err != nil {
		return "", err
	}
	return admin.ID, nil
}
