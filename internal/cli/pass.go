package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type PassOptions struct {
	*RootOptions
	SquadronID int64
	Date       string
}

// NewPassCommand creates the pass command.
func NewPassCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PassOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "pass",
		Short: "Run one promotion pass now",
		Long: `Evaluate every managed pilot once for the given squadron and mission day,
exactly as the daemon does when the in-game day changes.

Example:
  rankmod pass --squadron 12 --date 1942.11.19`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(cmd, opts)
		},
	}

	cmd.Flags().Int64Var(&opts.SquadronID, "squadron", 0, "squadron row id of the mission (required)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "mission date, YYYY.MM.DD or YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("squadron")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func runPass(cmd *cobra.Command, opts *PassOptions) error {
	rt, err := bootstrap(opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := context.Background()
	if err := rt.deps.InitCareer(ctx); err != nil {
		return err
	}

	summary, err := rt.deps.Jobs.Pass.Run(ctx, opts.SquadronID, opts.Date)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"run %s on %s: evaluated=%d promoted=%d failed=%d deferred=%d denied=%d skipped=%d errors=%d events=%d\n",
		summary.RunID, summary.Date,
		summary.Evaluated, summary.Promoted, summary.Failed, summary.Deferred,
		summary.Denied, summary.Skipped, summary.Errors, summary.Events)
	return nil
}
