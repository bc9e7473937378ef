package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/cperrin88/snm/internal/ui"
	"github.com/cperrin88/snm/pkg/config"
	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/fsutil"
	"github.com/spf13/cobra"
)

// TabWidth is the column padding of tabular output.
const TabWidth = 2

// NewConfigCmd creates the config command with subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `View the effective snm configuration or create a configuration file.

The file is read from SNM_CONFIG, or config.yaml inside the base directory.
SNM_* environment variables override its values.`,
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigInitCmd(),
		newConfigPathCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runConfigShow(cfg)
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file with the default values",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			// defaults only, so a broken file can be replaced with --force
			def, err := config.LoadDefaults()
			if err != nil {
				return err
			}
			ui.Init(NoColor != nil && *NoColor)
			return runConfigInit(def, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			def, err := config.LoadDefaults()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(Stdout, def.File)
			return nil
		},
	}
}

func runConfigShow(cfg *config.Config) error {
	tw := tabwriter.NewWriter(Stdout, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SETTING\tVALUE")
	_, _ = fmt.Fprintln(tw, "-------\t-----")
	for _, s := range cfg.Settings() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", s.Key, s.Value)
	}
	return tw.Flush()
}

func runConfigInit(def *config.Config, force bool) error {
	if fsutil.Exists(def.File) && !force {
		return fmt.Errorf("%s (use --force to overwrite): %w", def.File, errors.ErrConfigFileExists)
	}
	if err := def.SaveConfig(def.File); err != nil {
		return err
	}
	ui.SuccessMsg("Configuration file created at %s", def.File)
	return nil
}
