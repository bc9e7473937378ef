// Package command translates package-manager-neutral intents into the
// argument vector each package manager expects.
package command

import "strings"

// Intent is one canonical package manager operation.
type Intent interface {
	// Describe names the intent in error messages.
	Describe() string
}

// Target selects the dependency group an added package is saved to.
type Target int

// Dependency groups.
const (
	TargetNone Target = iota
	TargetProd
	TargetDev
	TargetOptional
	TargetPeer
)

func (t Target) String() string {
	switch t {
	case TargetProd:
		return "prod"
	case TargetDev:
		return "dev"
	case TargetOptional:
		return "optional"
	case TargetPeer:
		return "peer"
	default:
		return "none"
	}
}

type (
	// Install installs the project's dependencies.
	Install struct {
		Frozen bool
	}

	// Add adds a dependency.
	Add struct {
		Spec   string
		Target Target
		Exact  bool
		Global bool
	}

	// Remove removes a dependency.
	Remove struct {
		Spec string
	}

	// Exec runs a locally installed binary.
	Exec struct {
		Args []string
	}

	// Run runs a package.json script.
	Run struct {
		Args []string
	}

	// Dlx fetches a package and runs its binary without installing it.
	Dlx struct {
		Args []string
	}

	// SetCache points the package manager's cache at Path.
	SetCache struct {
		Path string
	}
)

func (i Install) Describe() string {
	if i.Frozen {
		return "install --frozen-lockfile"
	}
	return "install"
}

func (a Add) Describe() string {
	parts := []string{"add", a.Spec}
	if a.Target != TargetNone {
		parts = append(parts, "--"+a.Target.String())
	}
	if a.Exact {
		parts = append(parts, "--exact")
	}
	if a.Global {
		parts = append(parts, "--global")
	}
	return strings.Join(parts, " ")
}

func (Remove) Describe() string { return "remove" }

func (Exec) Describe() string { return "exec" }

func (Run) Describe() string { return "run" }

func (Dlx) Describe() string { return "dlx" }

func (SetCache) Describe() string { return "set-cache" }
