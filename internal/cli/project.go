package cli

import (
	"context"
	"os"

	"github.com/cperrin88/snm/internal/logger"
	"github.com/cperrin88/snm/pkg/command"
	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/manifest"
	"github.com/cperrin88/snm/pkg/proxy"
	"github.com/spf13/cobra"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var frozen bool

	cmd := &cobra.Command{
		Use:     "install",
		Aliases: []string{"i"},
		Short:   "Install the project's dependencies",
		Long: `Install the project's dependencies with the package manager declared in
package.json "packageManager".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIntent(cmd.Context(), command.Install{Frozen: frozen})
		},
	}

	cmd.Flags().BoolVarP(&frozen, "frozen-lockfile", "f", false, "fail instead of updating the lock file")

	return cmd
}

// NewCiCmd creates the ci command.
func NewCiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ci",
		Short: "Install the project's dependencies from the lock file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIntent(cmd.Context(), command.Install{Frozen: true})
		},
	}
}

type addFlags struct {
	prod, dev, optional, peer bool
	exact, global             bool
}

func (f addFlags) intent(spec string) command.Add {
	add := command.Add{Spec: spec, Exact: f.exact, Global: f.global}
	switch {
	case f.prod:
		add.Target = command.TargetProd
	case f.dev:
		add.Target = command.TargetDev
	case f.optional:
		add.Target = command.TargetOptional
	case f.peer:
		add.Target = command.TargetPeer
	}
	return add
}

// NewAddCmd creates the add command.
func NewAddCmd() *cobra.Command {
	var flags addFlags

	cmd := &cobra.Command{
		Use:   "add PACKAGE",
		Short: "Add a dependency to the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntent(cmd.Context(), flags.intent(args[0]))
		},
	}

	cmd.Flags().BoolVarP(&flags.prod, "save-prod", "P", false, "save to dependencies")
	cmd.Flags().BoolVarP(&flags.dev, "save-dev", "D", false, "save to devDependencies")
	cmd.Flags().BoolVarP(&flags.optional, "save-optional", "O", false, "save to optionalDependencies")
	cmd.Flags().BoolVar(&flags.peer, "save-peer", false, "save to peerDependencies")
	cmd.Flags().BoolVarP(&flags.exact, "save-exact", "E", false, "pin the exact version")
	cmd.Flags().BoolVarP(&flags.global, "global", "g", false, "install globally")
	cmd.MarkFlagsMutuallyExclusive("save-prod", "save-dev", "save-optional", "save-peer")

	return cmd
}

// NewRemoveCmd creates the remove command.
func NewRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove PACKAGE",
		Aliases: []string{"rm", "uninstall"},
		Short:   "Remove a dependency from the project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntent(cmd.Context(), command.Remove{Spec: args[0]})
		},
	}
}

// NewExecCmd creates the exec command. Arguments are passed through untouched.
func NewExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "exec COMMAND [ARGS...]",
		Short:              "Run a binary installed in the project",
		DisableFlagParsing: true,
		Args:               cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntent(cmd.Context(), command.Exec{Args: args})
		},
	}
}

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "run SCRIPT [ARGS...]",
		Short:              "Run a package.json script",
		DisableFlagParsing: true,
		Args:               cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntent(cmd.Context(), command.Run{Args: args})
		},
	}
}

// NewDlxCmd creates the dlx command.
func NewDlxCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "dlx PACKAGE [ARGS...]",
		Short:              "Fetch a package and run its binary without installing it",
		DisableFlagParsing: true,
		Args:               cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntent(cmd.Context(), command.Dlx{Args: args})
		},
	}
}

// NewSetCacheCmd creates the set-cache command.
func NewSetCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-cache PATH",
		Short: "Point the package manager's cache at PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntent(cmd.Context(), command.SetCache{Path: args[0]})
		},
	}
}

// runIntent runs intent with the package manager the project declares.
func runIntent(ctx context.Context, intent command.Intent) error {
	dir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to get working directory")
	}
	if err := manifest.CheckLockfiles(dir); err != nil {
		return err
	}

	app, err := loadApp()
	if err != nil {
		return err
	}
	defer app.Close()

	var args []string
	var binary string
	err = app.withSpinner("Resolving package manager", func() error {
		decl, res, err := app.Resolver(dir).ResolveDeclared(ctx)
		if err != nil {
			return err
		}
		logger.Debug("resolved declared package manager", logger.Fields{"declared": decl.String(), "variant": res.Variant.String()})
		args, err = command.Translate(res.Variant, intent)
		binary = res.BinaryPath
		return err
	})
	if err != nil {
		return err
	}

	return runProxy(ctx, app, binary, args)
}

// runProxy runs binary in the foreground and turns a non-zero exit into an
// ExitError. Interrupts belong to the child, so ctx cancellation does not
// kill it.
func runProxy(ctx context.Context, app *App, binary string, args []string) error {
	code, err := proxy.New(app.Config.BinPath()).Run(context.WithoutCancel(ctx), binary, args)
	if err != nil {
		return err
	}
	if code != 0 {
		return &errors.ExitError{Code: code}
	}
	return nil
}
