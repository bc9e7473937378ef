package cli

import (
	"context"
	"os"

	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/shim"
	"github.com/cperrin88/snm/pkg/tool"
)

// RunShim resolves and runs the binary behind shim s with args.
func RunShim(ctx context.Context, s tool.Shim, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to get working directory")
	}

	app, err := loadApp()
	if err != nil {
		return err
	}
	defer app.Close()

	var res shim.Resolution
	err = app.withSpinner("Resolving "+s.Family, func() error {
		res, err = app.Resolver(dir).Resolve(ctx, s.Family, s.Bin)
		return err
	})
	if err != nil {
		return err
	}

	return runProxy(ctx, app, res.BinaryPath, args)
}
