//go:generate mockgen -destination=./mocks/shim.go . Installer

// Package shim decides which installed binary a shim invocation runs.
//
// In strict mode the version comes from the project: package.json
// "packageManager" for package managers and .node-version for node. In
// permissive mode the tool's default version is used.
package shim

import (
	"context"
	"fmt"

	"github.com/cperrin88/snm/internal/logger"
	"github.com/cperrin88/snm/pkg/config"
	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/manifest"
	"github.com/cperrin88/snm/pkg/tool"
)

// Installer is the per-family lifecycle surface the resolver needs.
type Installer interface {
	IsInstalled(v string) bool
	Default() (string, error)
	EnsureInstalled(ctx context.Context, v string) error
	BinaryPath(v, bin string) (string, error)
	Variant(v string) (tool.Variant, error)
}

// InstallerFunc returns the installer of a family.
type InstallerFunc func(family string) (Installer, error)

// Confirmer asks the user a yes/no question.
type Confirmer func(ctx context.Context, prompt string) (bool, error)

// Resolution is the outcome of Resolve.
type Resolution struct {
	Tool       string
	Version    string
	Variant    tool.Variant
	BinaryPath string
}

// Resolver resolves shim invocations.
type Resolver struct {
	Strict                 bool
	NodeStrategy           config.InstallStrategy
	PackageManagerStrategy config.InstallStrategy
	// Dir is the project directory, usually the working directory.
	Dir        string
	Installers InstallerFunc
	Confirm    Confirmer
}

// NewResolver builds a Resolver from cfg.
func NewResolver(cfg *config.Config, dir string, installers InstallerFunc, confirm Confirmer) *Resolver {
	return &Resolver{
		Strict:                 cfg.Strict,
		NodeStrategy:           cfg.NodeInstallStrategy,
		PackageManagerStrategy: cfg.PackageManagerInstallStrategy,
		Dir:                    dir,
		Installers:             installers,
		Confirm:                confirm,
	}
}

// Resolve returns the binary bin of family to run.
func (r *Resolver) Resolve(ctx context.Context, family, bin string) (Resolution, error) {
	inst, err := r.Installers(family)
	if err != nil {
		return Resolution{}, err
	}

	var v string
	if r.Strict {
		v, err = r.declaredVersion(family)
		if err != nil {
			return Resolution{}, err
		}
		if err := r.ensure(ctx, inst, family, v); err != nil {
			return Resolution{}, err
		}
	} else {
		v, err = inst.Default()
		if err != nil {
			return Resolution{}, err
		}
		if v == "" {
			return Resolution{}, &errors.NotFoundDefaultError{Tool: family}
		}
	}
	return r.resolution(inst, family, v, bin)
}

// ResolveDeclared resolves the package manager declared by the project,
// strictly, whatever the configured mode. bin defaults to the family name.
func (r *Resolver) ResolveDeclared(ctx context.Context) (manifest.Declaration, Resolution, error) {
	decl, err := manifest.ReadPackageManager(r.Dir)
	if err != nil {
		return manifest.Declaration{}, Resolution{}, err
	}
	if decl.Name == tool.FamilyNode {
		return decl, Resolution{}, &errors.UnsupportedToolError{Name: decl.Name, Version: decl.Version}
	}
	inst, err := r.Installers(decl.Name)
	if err != nil {
		return decl, Resolution{}, err
	}
	if err := r.ensure(ctx, inst, decl.Name, decl.Version); err != nil {
		return decl, Resolution{}, err
	}
	res, err := r.resolution(inst, decl.Name, decl.Version, decl.Name)
	return decl, res, err
}

func (r *Resolver) declaredVersion(family string) (string, error) {
	if family == tool.FamilyNode {
		return manifest.ReadNodeVersion(r.Dir)
	}
	decl, err := manifest.ReadPackageManager(r.Dir)
	if err != nil {
		return "", err
	}
	if decl.Name != family {
		return "", &errors.NotMatchPackageManagerError{Expected: decl.Name, Actual: family}
	}
	return decl.Version, nil
}

// ensure applies the install strategy when v is missing.
func (r *Resolver) ensure(ctx context.Context, inst Installer, family, v string) error {
	if inst.IsInstalled(v) {
		return nil
	}
	strategy := r.PackageManagerStrategy
	if family == tool.FamilyNode {
		strategy = r.NodeStrategy
	}

	switch strategy {
	case config.StrategyPanic:
		return &errors.VersionNotInstalledError{Tool: family, Version: v}
	case config.StrategyAsk:
		if r.Confirm == nil {
			return &errors.VersionNotInstalledError{Tool: family, Version: v}
		}
		ok, err := r.Confirm(ctx, fmt.Sprintf("%s %s is not installed. Install it now?", family, v))
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(errors.ErrInstallDeclined, "%s@%s", family, v)
		}
	case config.StrategyInstall:
	default:
		return errors.Wrapf(errors.ErrUnknownInstallStrategy, "%q", strategy)
	}

	logger.Info("installing missing version", logger.Fields{"tool": family, "version": v, "strategy": string(strategy)})
	return inst.EnsureInstalled(ctx, v)
}

func (r *Resolver) resolution(inst Installer, family, v, bin string) (Resolution, error) {
	variant, err := inst.Variant(v)
	if err != nil {
		return Resolution{}, err
	}
	path, err := inst.BinaryPath(v, bin)
	if err != nil {
		return Resolution{}, err
	}
	logger.Debug("resolved", logger.Fields{"tool": family, "version": v, "bin": path})
	return Resolution{Tool: family, Version: v, Variant: variant, BinaryPath: path}, nil
}
