package tool

import (
	"context"
	"sort"

	"github.com/cperrin88/snm/pkg/errors"
	snmhttp "github.com/cperrin88/snm/pkg/http"
	"github.com/cperrin88/snm/pkg/platform"
	"github.com/cperrin88/snm/pkg/versions"
)

// Family names.
const (
	FamilyNode = "node"
	FamilyNpm  = "npm"
	FamilyPnpm = "pnpm"
	FamilyYarn = "yarn"
)

// Shim names a tool binary reached through a shim link.
type Shim struct {
	Family string
	Bin    string
}

// Shims maps every shim executable name to the family and binary it runs.
var Shims = map[string]Shim{
	"node":    {FamilyNode, "node"},
	"npm":     {FamilyNpm, "npm"},
	"npx":     {FamilyNpm, "npx"},
	"pnpm":    {FamilyPnpm, "pnpm"},
	"pnpx":    {FamilyPnpm, "pnpx"},
	"yarn":    {FamilyYarn, "yarn"},
	"yarnpkg": {FamilyYarn, "yarnpkg"},
}

// ShimNames returns the shim executable names in sorted order.
func ShimNames() []string {
	names := make([]string, 0, len(Shims))
	for n := range Shims {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Deps carries what the tool implementations need.
type Deps struct {
	Client       snmhttp.Client
	Extractor    Extractor
	Platform     platform.Platform
	PlatformErr  error
	NodeDistHost string
	NpmRegistry  string
	YarnRegistry string
	YarnRepo     string
}

// Families indexes families by name.
type Families map[string]Family

// NewFamilies builds the node, npm, pnpm and yarn families.
func NewFamilies(d Deps) Families {
	node := NewNodeTool(d.NodeDistHost, d.Platform, d.PlatformErr, d.Client, d.Extractor)
	npm := NewRegistryTool(FamilyNpm, Npm, "npm", d.NpmRegistry, d.Client, d.Extractor)
	pnpm := NewRegistryTool(FamilyPnpm, Pnpm, "pnpm", d.NpmRegistry, d.Client, d.Extractor)
	classic := NewRegistryTool(FamilyYarn, YarnClassic, "yarn", d.YarnRegistry, d.Client, d.Extractor)
	modern := NewRegistryTool(FamilyYarn, YarnModern, "@yarnpkg/cli-dist", d.YarnRegistry, d.Client, d.Extractor)
	modern.lister = yarnTagsLister(d.Client, d.YarnRepo)

	return Families{
		FamilyNode: NewFamily(FamilyNode, []string{"node"}, node),
		FamilyNpm:  NewFamily(FamilyNpm, []string{"npm", "npx"}, npm),
		FamilyPnpm: NewFamily(FamilyPnpm, []string{"pnpm", "pnpx"}, pnpm),
		FamilyYarn: NewSplitFamily(FamilyYarn, []string{"yarn", "yarnpkg"}, classic, modern, YarnModernBoundary),
	}
}

// Lookup returns the family called name.
func (fs Families) Lookup(name string) (Family, error) {
	f, ok := fs[name]
	if !ok {
		return nil, &errors.UnsupportedToolError{Name: name}
	}
	return f, nil
}

// Names returns the family names in sorted order.
func (fs Families) Names() []string {
	names := make([]string, 0, len(fs))
	for n := range fs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// yarnTags is the repo.yarnpkg.com tags document.
type yarnTags struct {
	Latest map[string]string `json:"latest"`
	Tags   []string          `json:"tags"`
}

func yarnTagsLister(client snmhttp.Client, repo string) func(context.Context, bool) ([]RemoteVersion, error) {
	return func(ctx context.Context, all bool) ([]RemoteVersion, error) {
		var doc yarnTags
		if err := client.GetJSON(ctx, repo+"/tags", &doc); err != nil {
			return nil, err
		}
		out := make([]RemoteVersion, 0, len(doc.Tags))
		for _, v := range doc.Tags {
			if !all && versions.IsPrerelease(v) {
				continue
			}
			out = append(out, RemoteVersion{Version: v})
		}
		sortRemote(out)
		return out, nil
	}
}
