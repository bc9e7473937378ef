package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the snm command tree.
func NewRootCmd() *cobra.Command {
	var (
		noColor   bool
		assumeYes bool
	)

	cmd := &cobra.Command{
		Use:   "snm",
		Short: "Version manager and command proxy for node, npm, pnpm and yarn",
		Long: `snm installs Node.js and package manager versions and runs the right one
for the current project.

- Tools: snm {node,npm,pnpm,yarn} {default,install,uninstall,list,list-remote}
- Project: install, ci, add, remove, exec, run, dlx, set-cache
- Shims: snm setup links node, npm, npx, pnpm, pnpx, yarn and yarnpkg to snm
- Maintenance: config, cache, version`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every prompt")

	NoColor = &noColor
	AssumeYes = &assumeYes

	cmd.AddCommand(NewToolCmds()...)
	cmd.AddCommand(
		NewInstallCmd(),
		NewCiCmd(),
		NewAddCmd(),
		NewRemoveCmd(),
		NewExecCmd(),
		NewRunCmd(),
		NewDlxCmd(),
		NewSetCacheCmd(),
		NewSetupCmd(),
		NewConfigCmd(),
		NewCacheCmd(),
		NewVersionCmd(),
	)

	return cmd
}
