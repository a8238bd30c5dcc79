package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type MigrateOptions struct {
	*RootOptions
	PilotID int64
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Carry stats over to a player's new pilot row",
		Long: `Copy career stats from the previous pilot row with the same description and
name onto the given pilot. Runs at most once per pilot id.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(opts.RootOptions)
			if err != nil {
				return err
			}
			defer rt.close()

			ctx := context.Background()
			if err := rt.deps.InitCareer(ctx); err != nil {
				return err
			}

			migrated, err := rt.deps.Services.Migrator.MigrateIfNeeded(ctx, opts.PilotID)
			if err != nil {
				return err
			}
			if migrated {
				fmt.Fprintf(cmd.OutOrStdout(), "pilot %d: stats carried over\n", opts.PilotID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "pilot %d: nothing to migrate\n", opts.PilotID)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&opts.PilotID, "pilot", 0, "pilot id to migrate into (required)")
	_ = cmd.MarkFlagRequired("pilot")

	return cmd
}
