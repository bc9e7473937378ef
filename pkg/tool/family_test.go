package tool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cperrin88/snm/pkg/errors"
	snmhttp "github.com/cperrin88/snm/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFamilies(t *testing.T, registry, repo string) Families {
	t.Helper()
	return NewFamilies(Deps{
		Client:       snmhttp.NewHTTPClient(time.Second),
		Platform:     linuxX64,
		NodeDistHost: "https://nodejs.org/dist",
		NpmRegistry:  registry,
		YarnRegistry: registry,
		YarnRepo:     repo,
	})
}

func TestFamilies_Lookup(t *testing.T) {
	fs := newTestFamilies(t, "https://registry.npmjs.org", "https://repo.yarnpkg.com")

	assert.Equal(t, []string{"node", "npm", "pnpm", "yarn"}, fs.Names())
	for _, name := range fs.Names() {
		f, err := fs.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.Name())
		assert.NotEmpty(t, f.Bins())
	}

	_, err := fs.Lookup("bun")
	assert.ErrorIs(t, err, errors.ErrUnsupportedTool)
}

func TestYarnFamilySwitch(t *testing.T) {
	fs := newTestFamilies(t, "https://registry.yarnpkg.com", "https://repo.yarnpkg.com")
	yarn, err := fs.Lookup("yarn")
	require.NoError(t, err)

	tests := []struct {
		version string
		want    Variant
	}{
		{"1.22.19", YarnClassic},
		{"v1.0.0", YarnClassic},
		{"2.0.0-rc.1", YarnClassic},
		{"2.0.0", YarnModern},
		{"4.0.2", YarnModern},
	}
	for _, tt := range tests {
		tl, err := yarn.ForVersion(tt.version)
		require.NoError(t, err, tt.version)
		assert.Equal(t, tt.want, tl.Variant(), tt.version)
		assert.Equal(t, "yarn", tl.Name())
	}

	_, err = yarn.ForVersion("latest")
	var ute *errors.UnsupportedToolError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "yarn", ute.Name)
	assert.Equal(t, "latest", ute.Version)
}

func TestSingleVariantFamilies(t *testing.T) {
	fs := newTestFamilies(t, "https://registry.npmjs.org", "https://repo.yarnpkg.com")
	for name, want := range map[string]Variant{"node": Node, "npm": Npm, "pnpm": Pnpm} {
		f, err := fs.Lookup(name)
		require.NoError(t, err)
		tl, err := f.ForVersion("1.0.0")
		require.NoError(t, err)
		assert.Equal(t, want, tl.Variant())
	}
}

func TestYarnFamily_ListRemote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/yarn", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"versions": map[string]any{"1.22.19": nil, "1.22.21": nil, "2.4.3": nil}})
	})
	mux.HandleFunc("/tags", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"latest": map[string]string{"stable": "4.0.2"},
			"tags":   []string{"2.4.3", "3.6.4", "4.0.2", "4.1.0-rc.1"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	yarn, err := newTestFamilies(t, srv.URL, srv.URL).Lookup("yarn")
	require.NoError(t, err)

	list, err := yarn.ListRemote(context.Background(), false)
	require.NoError(t, err)

	var got []string
	for _, rv := range list {
		got = append(got, rv.Version)
	}
	assert.Equal(t, []string{"1.22.19", "1.22.21", "2.4.3", "3.6.4", "4.0.2"}, got)
}

func TestShims(t *testing.T) {
	assert.Equal(t, []string{"node", "npm", "npx", "pnpm", "pnpx", "yarn", "yarnpkg"}, ShimNames())
	assert.Equal(t, Shim{Family: FamilyNpm, Bin: "npx"}, Shims["npx"])
	assert.Equal(t, Shim{Family: FamilyYarn, Bin: "yarnpkg"}, Shims["yarnpkg"])
}

func TestVariantString(t *testing.T) {
	assert.Equal(t, "yarn-modern", YarnModern.String())
	assert.Equal(t, "node", Node.String())
	assert.False(t, Node.IsPackageManager())
	assert.True(t, Pnpm.IsPackageManager())
	assert.Equal(t, "unknown", Variant(42).String())
}
