package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewCleanupCommand creates the cleanup command.
func NewCleanupCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "cleanup",
		Short:         "Delete promotion attempts of pilots that no longer exist",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(rootOpts)
			if err != nil {
				return err
			}
			defer rt.close()

			ctx := context.Background()
			if err := rt.deps.Repo.Attempts.EnsureSchema(ctx); err != nil {
				return err
			}

			deleted, err := rt.deps.Jobs.Cleanup.Run(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d orphaned promotion attempts\n", deleted)
			return nil
		},
	}
}
