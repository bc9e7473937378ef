package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/home/u")

	assert.Equal(t, "/home/u/.snm", cfg.BaseDir)
	assert.Equal(t, StrategyAsk, cfg.NodeInstallStrategy)
	assert.Equal(t, StrategyAsk, cfg.PackageManagerInstallStrategy)
	assert.Equal(t, DefaultRetries, cfg.Retries)
	assert.False(t, cfg.Strict)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWith_Defaults(t *testing.T) {
	home := t.TempDir()
	cfg, err := LoadWith(envMap(nil), home)
	require.NoError(t, err)

	base := filepath.Join(home, ".snm")
	assert.Equal(t, base, cfg.BaseDir)
	assert.Equal(t, filepath.Join(base, "bin"), cfg.BinPath())
	assert.Equal(t, filepath.Join(base, "download"), cfg.DownloadPath())
	assert.Equal(t, filepath.Join(base, "node_modules"), cfg.NodeModulesPath())
	assert.Equal(t, filepath.Join(base, "node"), cfg.ToolDir("node"))
	assert.Equal(t, filepath.Join(base, "node_modules", "pnpm"), cfg.ToolDir("pnpm"))
	assert.Equal(t, filepath.Join(base, "snm.db"), cfg.LedgerPath())
	assert.Equal(t, filepath.Join(base, "hooks"), cfg.HooksPath())
	assert.Equal(t, "https://registry.npmjs.org", cfg.NpmRegistry)
}

func TestLoadWith_EnvOverrides(t *testing.T) {
	home := t.TempDir()
	cfg, err := LoadWith(envMap(map[string]string{
		EnvBaseDir:                       "custom",
		EnvBinDir:                        "shims",
		EnvStrict:                        "true",
		EnvNodeInstallStrategy:           "Install",
		EnvPackageManagerInstallStrategy: "PANIC",
		EnvNpmRegistry:                   "https://npm.example.com/",
		EnvHTTPTimeout:                   "5s",
		EnvLogLevel:                      "debug",
	}), home)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "custom"), cfg.BaseDir)
	assert.Equal(t, filepath.Join(home, "custom", "shims"), cfg.BinPath())
	assert.True(t, cfg.Strict)
	assert.Equal(t, StrategyInstall, cfg.NodeInstallStrategy)
	assert.Equal(t, StrategyPanic, cfg.PackageManagerInstallStrategy)
	assert.Equal(t, "https://npm.example.com", cfg.NpmRegistry)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadWith_AbsoluteBaseDir(t *testing.T) {
	base := t.TempDir()
	cfg, err := LoadWith(envMap(map[string]string{EnvBaseDir: base}), "/nonexistent-home")
	require.NoError(t, err)
	assert.Equal(t, base, cfg.BaseDir)
}

func TestLoadWith_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		is   error
	}{
		{"unknown strategy", map[string]string{EnvNodeInstallStrategy: "maybe"}, errors.ErrUnknownInstallStrategy},
		{"bad strict", map[string]string{EnvStrict: "yes please"}, errors.ErrConfigValidation},
		{"bad timeout", map[string]string{EnvHTTPTimeout: "soon"}, errors.ErrConfigValidation},
		{"bad log level", map[string]string{EnvLogLevel: "chatty"}, errors.ErrConfigValidation},
		{"escaping bin dir", map[string]string{EnvBinDir: "../bin"}, errors.ErrConfigValidation},
		{"missing explicit file", map[string]string{EnvConfig: "/nonexistent/snm.yaml"}, errors.ErrInvalidConfigPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWith(envMap(tt.env), t.TempDir())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestLoadWith_ConfigFile(t *testing.T) {
	home := t.TempDir()
	base := filepath.Join(home, ".snm")
	require.NoError(t, os.MkdirAll(base, fsutil.DirModeDefault))
	content := `strict: true
node_install_strategy: install
npm_registry: https://mirror.example.com
retries: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(base, ConfigFileName), []byte(content), fsutil.FileModeDefault))

	cfg, err := LoadWith(envMap(map[string]string{EnvStrict: "false"}), home)
	require.NoError(t, err)

	assert.False(t, cfg.Strict, "environment wins over the file")
	assert.Equal(t, StrategyInstall, cfg.NodeInstallStrategy)
	assert.Equal(t, "https://mirror.example.com", cfg.NpmRegistry)
	assert.Equal(t, 5, cfg.Retries)
}

func TestLoadConfigFromReader(t *testing.T) {
	cfg, err := LoadConfigFromReader(strings.NewReader("log_level: info\nplatform:\n  os: linux\n  arch: arm64\n"), "/home/u")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)

	p, err := cfg.ResolvePlatform()
	require.NoError(t, err)
	assert.Equal(t, "linux-arm64", p.String())

	_, err = LoadConfigFromReader(strings.NewReader("strict: [oops"), "/home/u")
	assert.ErrorIs(t, err, errors.ErrConfigParse)
}

func TestParseInstallStrategy(t *testing.T) {
	for in, want := range map[string]InstallStrategy{"ask": StrategyAsk, "Ask": StrategyAsk, " panic ": StrategyPanic, "INSTALL": StrategyInstall} {
		got, err := ParseInstallStrategy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseInstallStrategy("")
	assert.ErrorIs(t, err, errors.ErrUnknownInstallStrategy)
}

func TestEnsureDirs(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())
	require.NoError(t, cfg.EnsureDirs())
	assert.DirExists(t, cfg.BinPath())
	assert.DirExists(t, cfg.DownloadPath())
	assert.DirExists(t, cfg.NodeModulesPath())
}

func TestAuthenticators(t *testing.T) {
	content := `npm_registry: https://npm.example.com
auth:
  https://mirror.example.com:
    type: basic
    username: ci
    password: hunter2
`
	cfg, err := LoadConfigFromReader(strings.NewReader(content), "/home/u")
	require.NoError(t, err)

	hosts, err := cfg.Authenticators()
	require.NoError(t, err)
	assert.Contains(t, hosts, "mirror.example.com")
	assert.NotContains(t, hosts, "npm.example.com")

	cfg.NpmToken = "npm_token"
	hosts, err = cfg.Authenticators()
	require.NoError(t, err)
	assert.Contains(t, hosts, "npm.example.com")

	_, err = LoadConfigFromReader(strings.NewReader("auth:\n  npm.example.com:\n    type: bearer\n"), "/home/u")
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
	assert.ErrorIs(t, err, errors.ErrConfigValidation)
}
