package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/cperrin88/snm/internal/cli"
	"github.com/cperrin88/snm/pkg/tool"
)

func main() {
	os.Exit(run(os.Args))
}

func run(argv []string) int {
	// Invoked through a shim link: the child owns the terminal, so signals
	// are left to it.
	if s, ok := lookupShim(argv[0]); ok {
		return cli.Report(cli.RunShim(context.Background(), s, argv[1:]))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd := cli.NewRootCmd()
	rootCmd.SetArgs(argv[1:])
	return cli.Report(rootCmd.ExecuteContext(ctx))
}

// lookupShim maps the executable name to a shim.
func lookupShim(arg0 string) (tool.Shim, bool) {
	name := filepath.Base(arg0)
	if ext := filepath.Ext(name); strings.EqualFold(ext, ".exe") {
		name = strings.TrimSuffix(name, ext)
	}
	s, ok := tool.Shims[strings.ToLower(name)]
	return s, ok
}
