package hooks_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/hooks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTengoExecutor(t *testing.T) {
	executor := hooks.NewTengoExecutor()
	ctx := context.Background()
	hc := hooks.Context{
		ToolName:    "pnpm",
		ToolVersion: "8.5.0",
		InstallPath: "/snm/node_modules/pnpm/8.5.0",
		Vars:        map[string]any{"customVar": "customValue"},
	}

	t.Run("empty script", func(t *testing.T) {
		executor.AddScript(hooks.PreInstall, `// nothing to do`)
		assert.NoError(t, executor.Run(ctx, hooks.PreInstall, hc))
	})

	t.Run("runtime error", func(t *testing.T) {
		executor.AddScript(hooks.PostInstall, `non_existent_function()`)
		err := executor.Run(ctx, hooks.PostInstall, hc)
		assert.ErrorIs(t, err, errors.ErrHookExecution)
	})

	t.Run("missing script", func(t *testing.T) {
		assert.NoError(t, executor.Run(ctx, hooks.PostRemove, hc))
	})

	t.Run("variables", func(t *testing.T) {
		executor.AddScript(hooks.PreRemove, `
			if toolName != "pnpm" || toolVersion != "8.5.0" || customVar != "customValue" {
				err = "unexpected context: " + toolName + "@" + toolVersion
			}
		`)
		assert.NoError(t, executor.Run(ctx, hooks.PreRemove, hc))
	})

	t.Run("script error string", func(t *testing.T) {
		executor.AddScript(hooks.PreInstall, `err = "refusing " + toolName`)
		err := executor.Run(ctx, hooks.PreInstall, hc)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrHookScript)
		assert.Contains(t, err.Error(), "refusing pnpm")
	})

	t.Run("script error value", func(t *testing.T) {
		executor.AddScript(hooks.PreInstall, `err = error("blocked")`)
		assert.ErrorIs(t, executor.Run(ctx, hooks.PreInstall, hc), errors.ErrHookScript)
	})

	t.Run("stdlib imports", func(t *testing.T) {
		executor.AddScript(hooks.PostInstall, `
			text := import("text")
			if !text.has_prefix(installPath, "/snm") {
				err = "bad install path"
			}
		`)
		assert.NoError(t, executor.Run(ctx, hooks.PostInstall, hc))
	})

	t.Run("has and remove", func(t *testing.T) {
		assert.True(t, executor.HasScript(hooks.PostInstall))
		executor.RemoveScript(hooks.PostInstall)
		assert.False(t, executor.HasScript(hooks.PostInstall))
	})
}

func TestTengoExecutor_Canceled(t *testing.T) {
	executor := hooks.NewTengoExecutor()
	executor.AddScript(hooks.PreInstall, `for {}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, executor.Run(ctx, hooks.PreInstall, hooks.Context{}))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pre-install.tengo"), []byte(`x := 1`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post-remove.tengo"), []byte(`x := 2`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "on-boot.tengo"), []byte(`x := 3`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pre-remove.txt"), []byte(`x := 4`), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "post-install.tengo"), 0o755))

	executor, err := hooks.Load(dir)
	require.NoError(t, err)
	assert.True(t, executor.HasScript(hooks.PreInstall))
	assert.True(t, executor.HasScript(hooks.PostRemove))
	assert.False(t, executor.HasScript(hooks.PreRemove))
	assert.False(t, executor.HasScript(hooks.PostInstall))
	assert.False(t, executor.HasScript("on-boot"))
}

func TestLoadDir_Missing(t *testing.T) {
	executor, err := hooks.Load(filepath.Join(t.TempDir(), "none"))
	require.NoError(t, err)
	for _, ht := range hooks.Types {
		assert.False(t, executor.HasScript(ht))
	}
}
