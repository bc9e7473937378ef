// Package config builds the immutable process configuration for snm. Values
// come from built-in defaults, an optional YAML file and SNM_* environment
// variables, in increasing order of precedence. The resulting Config is
// created once at startup and passed by pointer to every component.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cperrin88/snm/pkg/auth"
	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/fsutil"
	"github.com/cperrin88/snm/pkg/platform"
	"gopkg.in/yaml.v3"
)

// InstallStrategy decides what happens when a required version is missing.
type InstallStrategy string

// Supported install strategies.
const (
	StrategyAsk     InstallStrategy = "ask"
	StrategyPanic   InstallStrategy = "panic"
	StrategyInstall InstallStrategy = "install"
)

// ParseInstallStrategy parses a strategy name case-insensitively.
func ParseInstallStrategy(s string) (InstallStrategy, error) {
	switch InstallStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyAsk:
		return StrategyAsk, nil
	case StrategyPanic:
		return StrategyPanic, nil
	case StrategyInstall:
		return StrategyInstall, nil
	default:
		return "", errors.Wrapf(errors.ErrUnknownInstallStrategy, "%q (expected ask, panic or install)", s)
	}
}

// Config represents the snm configuration.
type Config struct {
	// BaseDir is absolute, or relative to the user's home directory.
	BaseDir        string `yaml:"base_dir"`
	BinDir         string `yaml:"bin_dir"`
	DownloadDir    string `yaml:"download_dir"`
	NodeModulesDir string `yaml:"node_modules_dir"`

	// Strict resolves versions from the project manifest only.
	Strict bool `yaml:"strict"`

	NodeInstallStrategy           InstallStrategy `yaml:"node_install_strategy"`
	PackageManagerInstallStrategy InstallStrategy `yaml:"package_manager_install_strategy"`

	NodeDistHost string `yaml:"node_dist_host"`
	NpmRegistry  string `yaml:"npm_registry"`
	YarnRegistry string `yaml:"yarn_registry"`
	YarnRepo     string `yaml:"yarn_repo"`

	// NpmToken is sent as a bearer token to the npm registry.
	NpmToken string `yaml:"npm_token,omitempty"`
	// Auth holds credentials keyed by host.
	Auth map[string]auth.Credentials `yaml:"auth,omitempty"`

	HTTPTimeout time.Duration `yaml:"http_timeout"`
	Retries     int           `yaml:"retries"`

	LogLevel string `yaml:"log_level"`

	// Platform overrides detection, mainly for tests.
	Platform PlatformConfig `yaml:"platform,omitempty"`

	// File is the configuration file consulted by Load, present or not.
	File string `yaml:"-"`
}

// PlatformConfig overrides the detected platform. Values use Go naming.
type PlatformConfig struct {
	OS   string `yaml:"os,omitempty"`
	Arch string `yaml:"arch,omitempty"`
}

// Default configuration values.
const (
	DefaultBaseDir        = ".snm"
	DefaultBinDir         = "bin"
	DefaultDownloadDir    = "download"
	DefaultNodeModulesDir = "node_modules"

	DefaultNodeDistHost = "https://nodejs.org/dist"
	DefaultNpmRegistry  = "https://registry.npmjs.org"
	DefaultYarnRegistry = "https://registry.yarnpkg.com"
	DefaultYarnRepo     = "https://repo.yarnpkg.com"

	DefaultHTTPTimeout = 60 * time.Second
	DefaultRetries     = 3
	DefaultLogLevel    = "warn"

	// ConfigFileName is looked up inside the base directory when SNM_CONFIG is unset.
	ConfigFileName = "config.yaml"
	// LedgerFileName is the install ledger database inside the base directory.
	LedgerFileName = "snm.db"
	// HooksDirName holds lifecycle hook scripts inside the base directory.
	HooksDirName = "hooks"
)

// Environment variables understood by Load.
const (
	EnvConfig                        = "SNM_CONFIG"
	EnvBaseDir                       = "SNM_BASE_DIR"
	EnvBinDir                        = "SNM_NODE_BIN_DIR"
	EnvDownloadDir                   = "SNM_DOWNLOAD_DIR"
	EnvNodeModulesDir                = "SNM_NODE_MODULES_DIR"
	EnvStrict                        = "SNM_STRICT"
	EnvNodeDistHost                  = "SNM_NODE_DIST_HOST"
	EnvNpmRegistry                   = "SNM_NPM_REGISTRY_HOST"
	EnvYarnRegistry                  = "SNM_YARN_REGISTRY_HOST"
	EnvYarnRepo                      = "SNM_YARN_REPO_HOST"
	EnvNodeInstallStrategy           = "SNM_NODE_INSTALL_STRATEGY"
	EnvPackageManagerInstallStrategy = "SNM_PACKAGE_MANAGER_INSTALL_STRATEGY"
	EnvHTTPTimeout                   = "SNM_HTTP_TIMEOUT"
	EnvLogLevel                      = "SNM_LOG_LEVEL"
	EnvNpmToken                      = "SNM_NPM_TOKEN"
)

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// DefaultConfig returns a configuration with default values. BaseDir is
// resolved against home.
func DefaultConfig(home string) *Config {
	return &Config{
		BaseDir:                       filepath.Join(home, DefaultBaseDir),
		BinDir:                        DefaultBinDir,
		DownloadDir:                   DefaultDownloadDir,
		NodeModulesDir:                DefaultNodeModulesDir,
		NodeInstallStrategy:           StrategyAsk,
		PackageManagerInstallStrategy: StrategyAsk,
		NodeDistHost:                  DefaultNodeDistHost,
		NpmRegistry:                   DefaultNpmRegistry,
		YarnRegistry:                  DefaultYarnRegistry,
		YarnRepo:                      DefaultYarnRepo,
		HTTPTimeout:                   DefaultHTTPTimeout,
		Retries:                       DefaultRetries,
		LogLevel:                      DefaultLogLevel,
	}
}

// Load builds the configuration from the process environment.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to determine home directory")
	}
	return LoadWith(os.LookupEnv, home)
}

// Defaults returns the built-in configuration located by lookup. Only the
// base directory and the config file path are read from the environment.
// explicit reports whether the file was named by SNM_CONFIG.
func Defaults(lookup LookupFunc, home string) (cfg *Config, explicit bool) {
	cfg = DefaultConfig(home)
	if v, ok := lookup(EnvBaseDir); ok && v != "" {
		cfg.BaseDir = v
	}
	cfg.BaseDir = resolveHome(cfg.BaseDir, home)

	cfg.File = filepath.Join(cfg.BaseDir, ConfigFileName)
	if v, ok := lookup(EnvConfig); ok && v != "" {
		cfg.File, explicit = v, true
	}
	return cfg, explicit
}

// LoadDefaults is Defaults for the process environment.
func LoadDefaults() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to determine home directory")
	}
	cfg, _ := Defaults(os.LookupEnv, home)
	return cfg, nil
}

// LoadWith builds the configuration from lookup, resolving relative paths against home.
func LoadWith(lookup LookupFunc, home string) (*Config, error) {
	cfg, explicit := Defaults(lookup, home)
	if err := cfg.mergeFile(cfg.File, explicit); err != nil {
		return nil, err
	}
	if err := cfg.mergeEnv(lookup); err != nil {
		return nil, err
	}

	cfg.BaseDir = resolveHome(cfg.BaseDir, home)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfigValidation, err)
	}
	return cfg, nil
}

// LoadConfigFromReader decodes YAML on top of the defaults and validates the result.
func LoadConfigFromReader(reader io.Reader, home string) (*Config, error) {
	cfg := DefaultConfig(home)
	if err := cfg.decode(reader); err != nil {
		return nil, err
	}
	cfg.BaseDir = resolveHome(cfg.BaseDir, home)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfigValidation, err)
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string, explicit bool) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return errors.Wrapf(errors.ErrInvalidConfigPath, "%s: %v", path, err)
	}
	defer func() { _ = file.Close() }()
	return c.decode(file)
}

func (c *Config) decode(reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return errors.Wrap(err, "failed to read config data")
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrap(errors.ErrConfigParse, err.Error())
	}
	return nil
}

func (c *Config) mergeEnv(lookup LookupFunc) error {
	strs := map[string]*string{
		EnvBaseDir:        &c.BaseDir,
		EnvBinDir:         &c.BinDir,
		EnvDownloadDir:    &c.DownloadDir,
		EnvNodeModulesDir: &c.NodeModulesDir,
		EnvNodeDistHost:   &c.NodeDistHost,
		EnvNpmRegistry:    &c.NpmRegistry,
		EnvYarnRegistry:   &c.YarnRegistry,
		EnvYarnRepo:       &c.YarnRepo,
		EnvLogLevel:       &c.LogLevel,
		EnvNpmToken:       &c.NpmToken,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(EnvStrict); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(errors.ErrConfigValidation, "%s=%q is not a boolean", EnvStrict, v)
		}
		c.Strict = b
	}
	if v, ok := lookup(EnvNodeInstallStrategy); ok && v != "" {
		c.NodeInstallStrategy = InstallStrategy(v)
	}
	if v, ok := lookup(EnvPackageManagerInstallStrategy); ok && v != "" {
		c.PackageManagerInstallStrategy = InstallStrategy(v)
	}
	if v, ok := lookup(EnvHTTPTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(errors.ErrConfigValidation, "%s=%q is not a duration", EnvHTTPTimeout, v)
		}
		c.HTTPTimeout = d
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.BinDir == "" {
		c.BinDir = DefaultBinDir
	}
	if c.DownloadDir == "" {
		c.DownloadDir = DefaultDownloadDir
	}
	if c.NodeModulesDir == "" {
		c.NodeModulesDir = DefaultNodeModulesDir
	}
	if c.NodeDistHost == "" {
		c.NodeDistHost = DefaultNodeDistHost
	}
	if c.NpmRegistry == "" {
		c.NpmRegistry = DefaultNpmRegistry
	}
	if c.YarnRegistry == "" {
		c.YarnRegistry = DefaultYarnRegistry
	}
	if c.YarnRepo == "" {
		c.YarnRepo = DefaultYarnRepo
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.Retries == 0 {
		c.Retries = DefaultRetries
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.NodeInstallStrategy == "" {
		c.NodeInstallStrategy = StrategyAsk
	}
	if c.PackageManagerInstallStrategy == "" {
		c.PackageManagerInstallStrategy = StrategyAsk
	}
	c.NodeDistHost = strings.TrimRight(c.NodeDistHost, "/")
	c.NpmRegistry = strings.TrimRight(c.NpmRegistry, "/")
	c.YarnRegistry = strings.TrimRight(c.YarnRegistry, "/")
	c.YarnRepo = strings.TrimRight(c.YarnRepo, "/")
}

// Validate checks if the configuration is valid. Strategy names are normalized in place.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if !filepath.IsAbs(c.BaseDir) {
		return fmt.Errorf("base directory must be absolute: %s", c.BaseDir)
	}
	for name, dir := range map[string]string{"bin": c.BinDir, "download": c.DownloadDir, "node_modules": c.NodeModulesDir} {
		if filepath.IsAbs(dir) || strings.Contains(dir, "..") {
			return fmt.Errorf("%s directory must be a plain name inside the base directory: %s", name, dir)
		}
	}

	var err error
	if c.NodeInstallStrategy, err = ParseInstallStrategy(string(c.NodeInstallStrategy)); err != nil {
		return err
	}
	if c.PackageManagerInstallStrategy, err = ParseInstallStrategy(string(c.PackageManagerInstallStrategy)); err != nil {
		return err
	}

	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout cannot be negative")
	}
	if c.Retries < 1 {
		return fmt.Errorf("retries must be at least 1")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	if _, err := c.Authenticators(); err != nil {
		return err
	}
	return nil
}

// ResolvePlatform returns the overridden platform, or the current one.
func (c *Config) ResolvePlatform() (platform.Platform, error) {
	if c.Platform.OS != "" || c.Platform.Arch != "" {
		return platform.FromGo(c.Platform.OS, c.Platform.Arch)
	}
	return platform.Current()
}

// Authenticators returns the configured registry credentials by host.
// NpmToken overrides an auth entry for the npm registry host.
func (c *Config) Authenticators() (auth.Hosts, error) {
	hosts := auth.Hosts{}
	for host, creds := range c.Auth {
		a, err := creds.Authenticator()
		if err != nil {
			return nil, errors.Wrapf(err, "auth for %s", host)
		}
		hosts.Set(host, a)
	}
	if c.NpmToken != "" {
		hosts.Set(c.NpmRegistry, auth.BearerAuth{Token: c.NpmToken})
	}
	return hosts, nil
}

// BinPath is the directory holding shim links.
func (c *Config) BinPath() string { return filepath.Join(c.BaseDir, c.BinDir) }

// DownloadPath is the directory archives are downloaded into.
func (c *Config) DownloadPath() string { return filepath.Join(c.BaseDir, c.DownloadDir) }

// NodeModulesPath is the directory holding installed package manager versions.
func (c *Config) NodeModulesPath() string { return filepath.Join(c.BaseDir, c.NodeModulesDir) }

// ToolDir is the per-tool directory holding version directories and the default alias.
// The runtime lives directly under the base directory; package managers under node_modules.
func (c *Config) ToolDir(tool string) string {
	if tool == "node" {
		return filepath.Join(c.BaseDir, tool)
	}
	return filepath.Join(c.NodeModulesPath(), tool)
}

// LedgerPath is the install ledger database file.
func (c *Config) LedgerPath() string { return filepath.Join(c.BaseDir, LedgerFileName) }

// HooksPath is the directory searched for lifecycle hook scripts.
func (c *Config) HooksPath() string { return filepath.Join(c.BaseDir, HooksDirName) }

// EnsureDirs creates the bin, download and node_modules directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.BinPath(), c.DownloadPath(), c.NodeModulesPath()} {
		if err := os.MkdirAll(dir, fsutil.DirModeDefault); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}
	return nil
}

func resolveHome(dir, home string) string {
	if dir == "~" {
		return home
	}
	if strings.HasPrefix(dir, "~/") {
		return filepath.Join(home, dir[2:])
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(home, dir)
}
