package cli

import (
	"fmt"

	"github.com/cperrin88/snm/internal/ui"
	"github.com/cperrin88/snm/pkg/cache"
	"github.com/spf13/cobra"
)

// NewCacheCmd creates the cache command with subcommands.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the download cache",
		Long:  "Show and clean what interrupted downloads and failed installs left in the download directory",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "clean",
			Short: "Remove every file in the download directory",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				mgr, err := loadCacheManager()
				if err != nil {
					return err
				}
				freed, err := mgr.Clean()
				if err != nil {
					return err
				}
				ui.SuccessMsg("Freed %s", cache.FormatBytes(freed))
				return nil
			},
		},
		&cobra.Command{
			Use:   "info",
			Short: "Show download cache usage",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				mgr, err := loadCacheManager()
				if err != nil {
					return err
				}
				info, err := mgr.Info()
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(Stdout, "Directory:  %s\nTotal size: %s (%d files)\n",
					info.Directory, cache.FormatBytes(info.TotalSize), info.Files)
				return nil
			},
		},
		&cobra.Command{
			Use:   "dir",
			Short: "Print the download directory",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				mgr, err := loadCacheManager()
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(Stdout, mgr.Directory())
				return nil
			},
		},
	)

	return cmd
}

func loadCacheManager() (*cache.Manager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cache.NewManager(cfg.DownloadPath()), nil
}
