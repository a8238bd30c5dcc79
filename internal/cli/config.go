package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"il2-rankmod/light/internal/config"

	"github.com/spf13/cobra"
)

type ConfigInitOptions struct {
	*RootOptions
	GamePath string
	Language string
	Force    bool
}

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage promotion_config.json",
	}
	cmd.AddCommand(newConfigInitCommand(rootOpts))
	return cmd
}

func newConfigInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigInitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config for a game installation",
		Long: `Write promotion_config.json with the default thresholds, rank ceilings and
cooldown settings into <game-path>/data/Career, or to --config when given.

Example:
  rankmod config init --game-path "C:\Games\IL-2 Sturmovik Great Battles"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.GamePath, "game-path", "", "IL-2 installation directory (required)")
	cmd.Flags().StringVar(&opts.Language, "language", config.DefaultLanguage, "game language code")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing config")
	_ = cmd.MarkFlagRequired("game-path")

	return cmd
}

func runConfigInit(cmd *cobra.Command, opts *ConfigInitOptions) error {
	if _, err := os.Stat(config.CareerDirFor(opts.GamePath)); err != nil {
		return fmt.Errorf("%s does not look like an IL-2 installation: %w", opts.GamePath, err)
	}

	path := opts.ConfigPath
	if path == "" {
		path = config.PathFor(opts.GamePath)
	}

	if _, err := os.Stat(path); err == nil && !opts.Force {
		return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg := config.Default(opts.GamePath)
	cfg.Language = opts.Language

	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
