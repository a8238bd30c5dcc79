package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the root command for the rankmod CLI. Without a
// subcommand it runs the daemon.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	runCmd := NewRunCommand(opts)

	cmd := &cobra.Command{
		Use:   "rankmod",
		Short: "IL-2 career rank promotion daemon",
		Long: `Watches the IL-2 Great Battles career database and promotes pilots once
per in-game day according to the configured promotion policy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCmd.RunE,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to promotion_config.json (default: <RANKMOD_GAME_PATH>/data/Career/promotion_config.json)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose diagnostics")

	// Add subcommands
	cmd.AddCommand(runCmd)
	cmd.AddCommand(NewPassCommand(opts))
	cmd.AddCommand(NewCleanupCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}
