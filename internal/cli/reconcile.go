package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oksasatya/blog-engagement/internal/application"
)

// ReconcileResult is the outcome of a follower repair pass.
type ReconcileResult struct {
	Repaired int64 `json:"repaired"`
}

// NewReconcileCommand creates the reconcile command.
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Rebuild followers sets from following sets",
		Long: `Repair half-applied follow edges.

Every followers set is rebuilt from the following sets, which are always
written first. Safe to run repeatedly.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := rootOpts.open(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.store.Close()

			graph := application.NewRelationshipService(e.store.Users, e.store.Posts, e.logger, nil)
			n, err := graph.Reconcile(ctx)
			if err != nil {
				return err
			}
			return rootOpts.print(cmd.OutOrStdout(), ReconcileResult{Repaired: n}, func(w io.Writer) {
				fmt.Fprintf(w, "repaired %d user(s)\n", n)
			})
		},
	}
}
