// Package cli implements blogctl, the operator command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oksasatya/blog-engagement/config"
	"github.com/oksasatya/blog-engagement/internal/bootstrap"
	"github.com/oksasatya/blog-engagement/pkg/helpers"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	// Driver overrides STORE_DRIVER when set.
	Driver string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for blogctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "blogctl",
		Short: "Operate the blog engagement store",
		Long:  "Seed demo data, repair follow edges and run migrations against the configured store.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "storage driver (postgres|memory), defaults to STORE_DRIVER")

	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}

// env is what every subcommand needs: config, a logger on stderr and the store.
type env struct {
	cfg    *config.Config
	logger *logrus.Logger
	store  *bootstrap.Store
}

func (o *RootOptions) config() *config.Config {
	cfg := config.Load()
	if o.Driver != "" {
		cfg.StoreDriver = o.Driver
	}
	return cfg
}

func (o *RootOptions) logger(cfg *config.Config, w io.Writer) *logrus.Logger {
	// stderr keeps stdout clean for --format json
	logger := helpers.NewLoggerTo(w, cfg.AppName+"-cli", cfg.Env)
	if o.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func (o *RootOptions) open(ctx context.Context, cmd *cobra.Command) (*env, error) {
	cfg := o.config()
	logger := o.logger(cfg, cmd.ErrOrStderr())
	store, err := bootstrap.OpenStore(ctx, cfg, logger, true)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, store: store}, nil
}

// print writes v as JSON or hands the writer to text.
func (o *RootOptions) print(w io.Writer, v any, text func(w io.Writer)) error {
	if o.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
