package tool

import (
	"context"
	"sort"

	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/versions"
	goversion "github.com/hashicorp/go-version"
)

// YarnModernBoundary is the first yarn version served by the modern variant.
var YarnModernBoundary = goversion.Must(goversion.NewVersion("2.0.0"))

// Family is the set of variants stored under one tool directory.
type Family interface {
	Name() string
	// Bins lists the executable names the family provides.
	Bins() []string
	// ForVersion picks the variant that serves v.
	ForVersion(v string) (Tool, error)
	ListRemote(ctx context.Context, all bool) ([]RemoteVersion, error)
}

type family struct {
	name     string
	bins     []string
	variants []Tool
	// boundary splits variants[0] (below) from variants[1] (at or above).
	boundary *goversion.Version
}

// NewFamily creates a single-variant family.
func NewFamily(name string, bins []string, t Tool) Family {
	return &family{name: name, bins: bins, variants: []Tool{t}}
}

// NewSplitFamily creates a family whose variant changes at boundary.
func NewSplitFamily(name string, bins []string, below, atOrAbove Tool, boundary *goversion.Version) Family {
	return &family{name: name, bins: bins, variants: []Tool{below, atOrAbove}, boundary: boundary}
}

func (f *family) Name() string { return f.name }

func (f *family) Bins() []string { return f.bins }

func (f *family) ForVersion(v string) (Tool, error) {
	if !versions.Valid(v) {
		return nil, &errors.UnsupportedToolError{Name: f.name, Version: v}
	}
	if f.boundary == nil {
		return f.variants[0], nil
	}
	below, err := versions.Below(v, f.boundary)
	if err != nil {
		return nil, &errors.UnsupportedToolError{Name: f.name, Version: v}
	}
	if below {
		return f.variants[0], nil
	}
	return f.variants[1], nil
}

// ListRemote merges the listings of every variant. Each variant only
// contributes versions it serves.
func (f *family) ListRemote(ctx context.Context, all bool) ([]RemoteVersion, error) {
	var out []RemoteVersion
	seen := map[string]bool{}
	for _, t := range f.variants {
		list, err := t.ListRemote(ctx, all)
		if err != nil {
			return nil, err
		}
		for _, rv := range list {
			owner, err := f.ForVersion(rv.Version)
			if err != nil || owner.Variant() != t.Variant() || seen[rv.Version] {
				continue
			}
			seen[rv.Version] = true
			out = append(out, rv)
		}
	}
	sortRemote(out)
	return out, nil
}

func sortRemote(vs []RemoteVersion) {
	sort.SliceStable(vs, func(i, j int) bool { return versions.Less(vs[i].Version, vs[j].Version) })
}
