package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oksasatya/blog-engagement/internal/bootstrap"
	pginfra "github.com/oksasatya/blog-engagement/internal/infrastructure/postgres"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Short:        "Apply pending database migrations",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.config()
			if cfg.StoreDriver != bootstrap.DriverPostgres {
				return fmt.Errorf("migrate needs the %s driver, got %q", bootstrap.DriverPostgres, cfg.StoreDriver)
			}
			logger := rootOpts.logger(cfg, cmd.ErrOrStderr())
			if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
