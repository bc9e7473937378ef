package command

import (
	"fmt"

	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/tool"
)

// Translate returns the arguments variant needs to perform intent.
// Combinations without an equivalent yield an UnsupportedCommandError.
func Translate(variant tool.Variant, intent Intent) ([]string, error) {
	if !variant.IsPackageManager() {
		return nil, unsupported(variant, intent)
	}
	switch variant {
	case tool.Npm:
		return translateNpm(intent)
	case tool.Pnpm:
		return translatePnpm(intent)
	case tool.YarnClassic:
		return translateYarnClassic(intent)
	case tool.YarnModern:
		return translateYarnModern(intent)
	default:
		return nil, unsupported(variant, intent)
	}
}

func unsupported(variant tool.Variant, intent Intent) error {
	return errors.NewUnsupportedCommandError(variant.String(), intent.Describe())
}

func unknownIntent(intent Intent) error {
	return fmt.Errorf("unknown command intent %T", intent)
}

func translateNpm(intent Intent) ([]string, error) {
	switch in := intent.(type) {
	case Install:
		if in.Frozen {
			return []string{"ci"}, nil
		}
		return []string{"install"}, nil
	case Add:
		args := []string{"add", in.Spec}
		switch in.Target {
		case TargetNone:
		case TargetProd:
			args = append(args, "--save")
		case TargetDev:
			args = append(args, "--save-dev")
		case TargetOptional:
			args = append(args, "--save-optional")
		case TargetPeer:
			return nil, unsupported(tool.Npm, intent)
		}
		if in.Exact {
			args = append(args, "--save-exact")
		}
		if in.Global {
			args = append(args, "--global")
		}
		return args, nil
	case Remove:
		return []string{"uninstall", in.Spec}, nil
	case Dlx:
		return append(append([]string{"exec"}, in.Args...), "-y"), nil
	case Exec:
		return append(append([]string{"exec"}, in.Args...), "-n"), nil
	case Run:
		return append([]string{"run"}, in.Args...), nil
	case SetCache:
		return []string{"config", "set", "cache", in.Path}, nil
	default:
		return nil, unknownIntent(intent)
	}
}

func translatePnpm(intent Intent) ([]string, error) {
	switch in := intent.(type) {
	case Install:
		if in.Frozen {
			return []string{"install", "--frozen-lockfile"}, nil
		}
		return []string{"install"}, nil
	case Add:
		args := []string{"add", in.Spec}
		switch in.Target {
		case TargetNone:
		case TargetProd:
			args = append(args, "--save")
		case TargetDev:
			args = append(args, "--save-dev")
		case TargetOptional:
			args = append(args, "--save-optional")
		case TargetPeer:
			args = append(args, "--save-peer")
		}
		if in.Exact {
			args = append(args, "--save-exact")
		}
		if in.Global {
			args = append(args, "--global")
		}
		return args, nil
	case Remove:
		return []string{"remove", in.Spec}, nil
	case Dlx:
		return append([]string{"dlx"}, in.Args...), nil
	case Exec:
		return append([]string{"exec"}, in.Args...), nil
	case Run:
		return append([]string{"run"}, in.Args...), nil
	case SetCache:
		return []string{"set", "store-dir", in.Path}, nil
	default:
		return nil, unknownIntent(intent)
	}
}

// yarnAddFlags is shared by both yarn variants.
func yarnAddFlags(in Add) []string {
	var flags []string
	switch in.Target {
	case TargetNone, TargetProd:
	case TargetDev:
		flags = append(flags, "--dev")
	case TargetOptional:
		flags = append(flags, "--optional")
	case TargetPeer:
		flags = append(flags, "--peer")
	}
	if in.Exact {
		flags = append(flags, "--exact")
	}
	return flags
}

func translateYarnClassic(intent Intent) ([]string, error) {
	switch in := intent.(type) {
	case Install:
		if in.Frozen {
			return []string{"install", "--frozen-lockfile"}, nil
		}
		return []string{"install"}, nil
	case Add:
		args := []string{"add", in.Spec}
		if in.Global {
			args = []string{"global", "add", in.Spec}
		}
		return append(args, yarnAddFlags(in)...), nil
	case Remove:
		return []string{"remove", in.Spec}, nil
	case Dlx, Exec:
		return nil, unsupported(tool.YarnClassic, intent)
	case Run:
		return append([]string{"run"}, in.Args...), nil
	case SetCache:
		return []string{"config", "set", "cache-folder", in.Path}, nil
	default:
		return nil, unknownIntent(intent)
	}
}

func translateYarnModern(intent Intent) ([]string, error) {
	switch in := intent.(type) {
	case Install:
		if in.Frozen {
			return []string{"install", "--immutable"}, nil
		}
		return []string{"install"}, nil
	case Add:
		if in.Global {
			return nil, unsupported(tool.YarnModern, intent)
		}
		return append([]string{"add", in.Spec}, yarnAddFlags(in)...), nil
	case Remove:
		return []string{"remove", in.Spec}, nil
	case Dlx:
		return append([]string{"dlx"}, in.Args...), nil
	case Exec:
		return append([]string{"exec"}, in.Args...), nil
	case Run:
		return append([]string{"run"}, in.Args...), nil
	case SetCache:
		return []string{"config", "set", "cacheFolder", in.Path}, nil
	default:
		return nil, unknownIntent(intent)
	}
}
