// Package hooks runs user tengo scripts around install and removal of tool
// versions. Scripts live in <base>/hooks/<event>.tengo.
package hooks

import "context"

// HookType is a lifecycle event a script can attach to.
type HookType string

// Supported hook types.
const (
	PreInstall  HookType = "pre-install"
	PostInstall HookType = "post-install"
	PreRemove   HookType = "pre-remove"
	PostRemove  HookType = "post-remove"
)

// Types lists every supported hook type.
var Types = []HookType{PreInstall, PostInstall, PreRemove, PostRemove}

// Valid reports whether t is a supported hook type.
func (t HookType) Valid() bool {
	switch t {
	case PreInstall, PostInstall, PreRemove, PostRemove:
		return true
	default:
		return false
	}
}

// Context is exposed to scripts as toolName, toolVersion and installPath,
// plus one variable per Vars entry.
type Context struct {
	ToolName    string
	ToolVersion string
	InstallPath string
	Vars        map[string]any
}

// Runner runs the script attached to a hook type, if any.
type Runner interface {
	Run(ctx context.Context, hookType HookType, hc Context) error
}
