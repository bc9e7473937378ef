package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cperrin88/snm/internal/ui"
	"github.com/cperrin88/snm/pkg/config"
	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/fsutil"
	"github.com/cperrin88/snm/pkg/tool"
	"github.com/spf13/cobra"
)

// NewSetupCmd creates the setup command.
func NewSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the shim links in the snm bin directory",
		Long: `Link node, npm, npx, pnpm, pnpx, yarn and yarnpkg to the snm executable.
Add the bin directory to PATH ahead of any other Node.js installation.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ui.Init(NoColor != nil && *NoColor)

			exe, err := os.Executable()
			if err != nil {
				return errors.Wrap(err, "failed to locate the snm executable")
			}
			if resolved, err := filepath.EvalSymlinks(exe); err == nil {
				exe = resolved
			}

			links, err := setupShims(cfg.BinPath(), exe)
			if err != nil {
				return err
			}
			for _, l := range links {
				ui.SuccessMsg("%s %s %s", l, ui.SymbolArrow, exe)
			}
			ui.InfoMsg("Add %s to the front of PATH", cfg.BinPath())
			return nil
		},
	}
}

// setupShims links every shim name in binDir to exe and returns the links.
func setupShims(binDir, exe string) ([]string, error) {
	if err := fsutil.EnsureDir(binDir); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", binDir)
	}
	links := make([]string, 0, len(tool.Shims))
	for _, name := range tool.ShimNames() {
		link := filepath.Join(binDir, shimFileName(name))
		if err := fsutil.ReplaceSymlink(exe, link); err != nil {
			return links, err
		}
		links = append(links, link)
	}
	return links, nil
}

func shimFileName(name string) string {
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("%s.exe", name)
	}
	return name
}
