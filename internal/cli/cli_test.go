package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cperrin88/snm/internal/ui"
	"github.com/cperrin88/snm/pkg/command"
	"github.com/cperrin88/snm/pkg/config"
	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/fsutil"
	"github.com/cperrin88/snm/pkg/ledger"
	"github.com/cperrin88/snm/pkg/store"
	"github.com/cperrin88/snm/pkg/tool"
	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv points snm at a temporary base directory and captures output.
type testEnv struct {
	base     string
	stdout   *bytes.Buffer
	messages *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{base: t.TempDir(), stdout: new(bytes.Buffer), messages: new(bytes.Buffer)}
	t.Setenv(config.EnvBaseDir, env.base)
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvStrict, "false")
	t.Setenv("NO_COLOR", "1")

	oldStdout, oldMessages, oldNoColor := Stdout, ui.Messages, color.NoColor
	Stdout, ui.Messages = env.stdout, env.messages
	t.Cleanup(func() { Stdout, ui.Messages, color.NoColor = oldStdout, oldMessages, oldNoColor })
	return env
}

func (e *testEnv) execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(e.stdout)
	cmd.SetErr(e.messages)
	return cmd.Execute()
}

// install fakes an installed version.
func (e *testEnv) install(t *testing.T, family, v string, isDefault bool) {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	st := store.New(cfg)
	require.NoError(t, os.MkdirAll(st.VersionDir(family, v), fsutil.DirModeDefault))
	require.NoError(t, st.WriteAnchor(family, v))
	if isDefault {
		require.NoError(t, st.CreateDefaultAlias(family, v))
	}
}

func TestReport(t *testing.T) {
	env := newTestEnv(t)
	ui.Init(true)

	assert.Equal(t, 0, Report(nil))
	assert.Equal(t, 7, Report(fmt.Errorf("run: %w", &errors.ExitError{Code: 7})))
	assert.Empty(t, env.messages.String())

	assert.Equal(t, 1, Report(&errors.NotFoundDefaultError{Tool: "pnpm"}))
	assert.Contains(t, env.messages.String(), "✗ no default pnpm version configured")

	env.messages.Reset()
	assert.Equal(t, 1, Report(errors.ErrInterrupted))
	assert.Equal(t, "! Interrupted\n", env.messages.String())
}

func TestAddFlagsIntent(t *testing.T) {
	tests := []struct {
		name  string
		flags addFlags
		want  command.Add
	}{
		{"plain", addFlags{}, command.Add{Spec: "lodash"}},
		{"dev exact", addFlags{dev: true, exact: true}, command.Add{Spec: "lodash", Target: command.TargetDev, Exact: true}},
		{"peer", addFlags{peer: true}, command.Add{Spec: "lodash", Target: command.TargetPeer}},
		{"global prod", addFlags{prod: true, global: true}, command.Add{Spec: "lodash", Target: command.TargetProd, Global: true}},
		{"optional", addFlags{optional: true}, command.Add{Spec: "lodash", Target: command.TargetOptional}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.flags.intent("lodash")); diff != "" {
				t.Errorf("intent mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAddCmd_TargetsAreExclusive(t *testing.T) {
	env := newTestEnv(t)
	err := env.execute(t, "add", "-D", "-P", "lodash")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}

func TestSetupShims(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "snm")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))
	binDir := filepath.Join(dir, "bin")

	links, err := setupShims(binDir, exe)
	require.NoError(t, err)
	assert.Len(t, links, len(tool.Shims))

	for _, name := range tool.ShimNames() {
		target, err := os.Readlink(filepath.Join(binDir, shimFileName(name)))
		require.NoError(t, err, name)
		assert.Equal(t, exe, target)
	}

	// Running it again replaces the links.
	_, err = setupShims(binDir, exe)
	require.NoError(t, err)
}

func TestToolList(t *testing.T) {
	env := newTestEnv(t)
	env.install(t, tool.FamilyNode, "18.19.0", false)
	env.install(t, tool.FamilyNode, "20.9.0", true)

	require.NoError(t, env.execute(t, "node", "list"))
	assert.Equal(t, "  18.19.0\n→ 20.9.0 (default)\n", env.stdout.String())

	env.stdout.Reset()
	env.messages.Reset()
	require.NoError(t, env.execute(t, "pnpm", "list"))
	assert.Empty(t, env.stdout.String())
	assert.Contains(t, env.messages.String(), "No pnpm versions installed")
}

func TestToolListRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pnpm" {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprint(w, `{"versions":{"8.5.0":{},"8.6.0":{},"9.0.0-rc.1":{}},"time":{}}`)
	}))
	defer server.Close()

	env := newTestEnv(t)
	t.Setenv(config.EnvNpmRegistry, server.URL)
	env.install(t, tool.FamilyPnpm, "8.5.0", true)

	require.NoError(t, env.execute(t, "pnpm", "list-remote"))
	out := env.stdout.String()
	assert.Contains(t, out, "8.5.0")
	assert.Contains(t, out, "default")
	assert.Contains(t, out, "8.6.0")
	assert.NotContains(t, out, "9.0.0-rc.1")

	env.stdout.Reset()
	require.NoError(t, env.execute(t, "pnpm", "list-remote", "--all"))
	assert.Contains(t, env.stdout.String(), "9.0.0-rc.1")
}

func TestToolUninstall(t *testing.T) {
	env := newTestEnv(t)
	env.install(t, tool.FamilyNpm, "9.0.0", false)
	env.install(t, tool.FamilyNpm, "10.2.0", true)

	require.NoError(t, env.execute(t, "npm", "uninstall", "9.0.0"))
	assert.Contains(t, env.messages.String(), "npm 9.0.0 uninstalled")
	assert.NoDirExists(t, filepath.Join(env.base, "node_modules", "npm", "9.0.0"))

	// Removing the default needs confirmation; --yes gives it.
	require.NoError(t, env.execute(t, "--yes", "npm", "uninstall", "10.2.0"))
	assert.NoDirExists(t, filepath.Join(env.base, "node_modules", "npm", "10.2.0"))
	assert.NoFileExists(t, filepath.Join(env.base, "node_modules", "npm", "10.2.0-default"))
}

func TestToolInstall_DeclinedReinstallIsNotReported(t *testing.T) {
	env := newTestEnv(t)
	env.install(t, tool.FamilyNode, "20.9.0", false)

	cfg, err := config.Load()
	require.NoError(t, err)
	app, err := NewApp(cfg)
	require.NoError(t, err)
	defer app.Close()

	var prompts []string
	app.Confirm = func(_ context.Context, prompt string) (bool, error) {
		prompts = append(prompts, prompt)
		return false, nil
	}
	m, err := app.Manager(tool.FamilyNode)
	require.NoError(t, err)

	require.NoError(t, runToolInstall(context.Background(), m, "20.9.0"))
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "node 20.9.0 is already installed")
	assert.NotContains(t, env.messages.String(), "installed")
}

func TestToolUninstall_RejectsPathLikeVersion(t *testing.T) {
	env := newTestEnv(t)
	env.install(t, tool.FamilyNpm, "10.0.0", false)

	require.NoError(t, env.execute(t, "pnpm", "uninstall", "../npm/10.0.0"))
	assert.NotContains(t, env.messages.String(), "uninstalled")
	assert.FileExists(t, filepath.Join(env.base, "node_modules", "npm", "10.0.0", store.AnchorFile))
}

func TestNewApp_LedgerIsNotHeldOpen(t *testing.T) {
	newTestEnv(t)
	cfg, err := config.Load()
	require.NoError(t, err)

	outer, err := NewApp(cfg)
	require.NoError(t, err)
	defer outer.Close()
	require.NoError(t, outer.Ledger.Put(ledger.Entry{Tool: "node", Version: "20.9.0", Variant: "node"}))

	// A shim started by a proxied tool builds its own App while the outer
	// one is still alive.
	start := time.Now()
	inner, err := NewApp(cfg)
	require.NoError(t, err)
	defer inner.Close()
	require.NotNil(t, inner.Ledger)
	_, ok, err := inner.Ledger.Get("node", "20.9.0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Less(t, time.Since(start), ledger.OpenTimeout)
}

func TestToolDefault_SwitchesInstalledVersion(t *testing.T) {
	env := newTestEnv(t)
	env.install(t, tool.FamilyYarn, "1.22.19", true)
	env.install(t, tool.FamilyYarn, "4.0.2", false)

	require.NoError(t, env.execute(t, "yarn", "default", "4.0.2"))
	assert.Contains(t, env.messages.String(), "yarn 4.0.2 is the default")

	env.stdout.Reset()
	require.NoError(t, env.execute(t, "yarn", "list"))
	assert.Equal(t, "  1.22.19\n→ 4.0.2 (default)\n", env.stdout.String())
}

func TestProjectCommand_MultipleLockFiles(t *testing.T) {
	env := newTestEnv(t)
	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, "package.json"), []byte(`{"packageManager":"pnpm@8.5.0"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(project, "pnpm-lock.yaml"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(project, "yarn.lock"), nil, 0o644))
	t.Chdir(project)

	err := env.execute(t, "install")
	assert.ErrorIs(t, err, errors.ErrMultipleLockFiles)
}

func TestProjectCommand_NodeIsNotAPackageManager(t *testing.T) {
	env := newTestEnv(t)
	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, "package.json"), []byte(`{"packageManager":"node@20.9.0"}`), 0o644))
	t.Chdir(project)

	err := env.execute(t, "run", "build")
	assert.ErrorIs(t, err, errors.ErrUnsupportedTool)
}

func TestProjectCommand_NoManifest(t *testing.T) {
	env := newTestEnv(t)
	t.Chdir(t.TempDir())

	err := env.execute(t, "ci")
	assert.ErrorIs(t, err, errors.ErrManifestNotFound)
}

func TestCacheCmd(t *testing.T) {
	env := newTestEnv(t)
	download := filepath.Join(env.base, "download")
	require.NoError(t, os.MkdirAll(download, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(download, "dl-1.tmp"), make([]byte, 2048), 0o644))

	require.NoError(t, env.execute(t, "cache", "info"))
	assert.Contains(t, env.stdout.String(), "2.0 KiB (1 files)")

	require.NoError(t, env.execute(t, "cache", "clean"))
	assert.Contains(t, env.messages.String(), "Freed 2.0 KiB")
	assert.NoFileExists(t, filepath.Join(download, "dl-1.tmp"))

	env.stdout.Reset()
	require.NoError(t, env.execute(t, "cache", "dir"))
	assert.Equal(t, download+"\n", env.stdout.String())
}

func TestConfigCmd(t *testing.T) {
	env := newTestEnv(t)
	file := filepath.Join(env.base, "config.yaml")

	require.NoError(t, env.execute(t, "config", "path"))
	assert.Equal(t, file+"\n", env.stdout.String())

	require.NoError(t, env.execute(t, "config", "init"))
	assert.FileExists(t, file)
	assert.Contains(t, env.messages.String(), "Configuration file created")

	err := env.execute(t, "config", "init")
	assert.ErrorIs(t, err, errors.ErrConfigFileExists)
	require.NoError(t, env.execute(t, "config", "init", "--force"))

	env.stdout.Reset()
	require.NoError(t, env.execute(t, "config", "show"))
	out := env.stdout.String()
	assert.Contains(t, out, "SETTING")
	assert.Contains(t, out, file)
	assert.Contains(t, out, filepath.Join(env.base, "bin"))
	assert.Contains(t, out, "(not set)")
}

func TestVersionCmd(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.execute(t, "version"))
	assert.Contains(t, env.stdout.String(), "snm version "+Version)
}
