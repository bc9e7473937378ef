package cli

import (
	"context"
	"fmt"

	"github.com/cperrin88/snm/internal/ui"
	"github.com/cperrin88/snm/pkg/lifecycle"
	"github.com/cperrin88/snm/pkg/tool"
	"github.com/spf13/cobra"
)

var toolFamilies = []string{tool.FamilyNode, tool.FamilyNpm, tool.FamilyPnpm, tool.FamilyYarn}

// NewToolCmds creates one version management command per tool family.
func NewToolCmds() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(toolFamilies))
	for _, name := range toolFamilies {
		cmds = append(cmds, newToolCmd(name))
	}
	return cmds
}

func newToolCmd(name string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Manage %s versions", name),
	}

	cmd.AddCommand(
		newToolDefaultCmd(name),
		newToolInstallCmd(name),
		newToolUninstallCmd(name),
		newToolListCmd(name),
		newToolListRemoteCmd(name),
	)

	return cmd
}

func newToolDefaultCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:   "default VERSION",
		Short: fmt.Sprintf("Set the default %s version", name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(name, "Setting default", func(m *lifecycle.Manager) error {
				return runToolDefault(cmd.Context(), m, args[0])
			})
		},
	}
}

func newToolInstallCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:   "install VERSION",
		Short: fmt.Sprintf("Install a %s version", name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(name, "Installing", func(m *lifecycle.Manager) error {
				return runToolInstall(cmd.Context(), m, args[0])
			})
		},
	}
}

func newToolUninstallCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall VERSION",
		Aliases: []string{"remove", "rm"},
		Short:   fmt.Sprintf("Uninstall a %s version", name),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(name, "Uninstalling", func(m *lifecycle.Manager) error {
				return runToolUninstall(cmd.Context(), m, args[0])
			})
		},
	}
}

func newToolListCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List installed %s versions", name),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			defer app.Close()
			m, err := app.Manager(name)
			if err != nil {
				return err
			}
			return runToolList(cmd.Context(), m)
		},
	}
}

func newToolListRemoteCmd(name string) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "list-remote",
		Aliases: []string{"ls-remote"},
		Short:   fmt.Sprintf("List published %s versions", name),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			defer app.Close()
			m, err := app.Manager(name)
			if err != nil {
				return err
			}
			return runToolListRemote(cmd.Context(), m, all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include prereleases and non-LTS node releases")

	return cmd
}

// withManager runs fn against the family's manager under a spinner.
func withManager(name, message string, fn func(m *lifecycle.Manager) error) error {
	app, err := loadApp()
	if err != nil {
		return err
	}
	defer app.Close()

	return app.withSpinner(message+" "+name, func() error {
		m, err := app.Manager(name)
		if err != nil {
			return err
		}
		return fn(m)
	})
}

func runToolDefault(ctx context.Context, m *lifecycle.Manager, v string) error {
	if err := m.SetDefault(ctx, v); err != nil {
		return err
	}
	if current, err := m.Default(); err == nil && current != "" && m.IsInstalled(current) {
		ui.SuccessMsg("%s %s is the default", m.Family.Name(), current)
	}
	return nil
}

func runToolInstall(ctx context.Context, m *lifecycle.Manager, v string) error {
	installed, err := m.InstallVersion(ctx, v)
	if err != nil {
		return err
	}
	if installed {
		ui.SuccessMsg("%s %s installed", m.Family.Name(), v)
	}
	return nil
}

func runToolUninstall(ctx context.Context, m *lifecycle.Manager, v string) error {
	installed := m.IsInstalled(v)
	if err := m.Uninstall(ctx, v); err != nil {
		return err
	}
	if installed && !m.IsInstalled(v) {
		ui.SuccessMsg("%s %s uninstalled", m.Family.Name(), v)
	}
	return nil
}

func runToolList(ctx context.Context, m *lifecycle.Manager) error {
	list, err := m.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		ui.InfoMsg("No %s versions installed", m.Family.Name())
		return nil
	}

	for _, iv := range list {
		marker := "  "
		label := ui.Version.Sprint(iv.Version)
		if iv.Default {
			marker = ui.Default.Sprint(ui.SymbolArrow + " ")
			label = ui.Default.Sprint(iv.Version) + ui.Muted.Sprint(" (default)")
		}
		line := marker + label
		if iv.Entry != nil {
			line += ui.Muted.Sprintf("  %s  installed %s", iv.Entry.Variant, iv.Entry.InstalledAt.Format("2006-01-02"))
		}
		_, _ = fmt.Fprintln(Stdout, line)
	}
	return nil
}

func runToolListRemote(ctx context.Context, m *lifecycle.Manager, all bool) error {
	list, err := m.ListRemote(ctx, all)
	if err != nil {
		return err
	}

	for _, rv := range list {
		line := ui.Version.Sprintf("%-16s", rv.Version)
		if rv.LTS != "" {
			line += ui.LTS.Sprintf(" %-10s", rv.LTS)
		}
		switch {
		case rv.Default:
			line += ui.Default.Sprint(" default")
		case rv.Installed:
			line += ui.Success.Sprint(" installed")
		}
		_, _ = fmt.Fprintln(Stdout, line)
	}
	return nil
}
