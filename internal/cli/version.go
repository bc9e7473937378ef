package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build information, set with -ldflags "-X".
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			_, _ = fmt.Fprintf(Stdout, "snm version %s\n", Version)
			_, _ = fmt.Fprintf(Stdout, "Build date: %s\n", BuildDate)
			_, _ = fmt.Fprintf(Stdout, "Git commit: %s\n", GitCommit)
			_, _ = fmt.Fprintf(Stdout, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
