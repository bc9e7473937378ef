package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/fsutil"
	"gopkg.in/yaml.v3"
)

// YAMLIndent is the indentation of written configuration files.
const YAMLIndent = 2

// SaveConfig writes the configuration to path as YAML. The file is written
// next to its destination and renamed into place.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}
	if err := fsutil.EnsureFileDir(absPath); err != nil {
		return errors.Wrap(errors.ErrConfigWrite, err.Error())
	}

	// credentials may end up in here
	tempPath := absPath + ".tmp"
	file, err := fsutil.CreateFilePerm(tempPath, fsutil.FileModeSecure)
	if err != nil {
		return errors.Wrap(errors.ErrConfigWrite, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)
	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigWrite, err.Error())
	}
	if err := encoder.Close(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigWrite, err.Error())
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigWrite, err.Error())
	}

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigWrite, err.Error())
	}
	return nil
}

// Setting is one displayed configuration value.
type Setting struct {
	Key   string
	Value string
}

// Settings lists the effective configuration in a stable order. Secrets are
// never shown, only whether they are set.
func (c *Config) Settings() []Setting {
	settings := []Setting{
		{"config_file", c.File},
		{"base_dir", c.BaseDir},
		{"bin_dir", c.BinPath()},
		{"download_dir", c.DownloadPath()},
		{"node_modules_dir", c.NodeModulesPath()},
		{"strict", strconv.FormatBool(c.Strict)},
		{"node_install_strategy", string(c.NodeInstallStrategy)},
		{"package_manager_install_strategy", string(c.PackageManagerInstallStrategy)},
		{"node_dist_host", c.NodeDistHost},
		{"npm_registry", c.NpmRegistry},
		{"yarn_registry", c.YarnRegistry},
		{"yarn_repo", c.YarnRepo},
		{"http_timeout", c.HTTPTimeout.String()},
		{"retries", strconv.Itoa(c.Retries)},
		{"log_level", c.LogLevel},
		{"npm_token", presence(c.NpmToken)},
	}
	if c.Platform.OS != "" || c.Platform.Arch != "" {
		settings = append(settings, Setting{"platform", c.Platform.OS + "/" + c.Platform.Arch})
	}

	hosts := make([]string, 0, len(c.Auth))
	for host := range c.Auth {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	for _, host := range hosts {
		settings = append(settings, Setting{fmt.Sprintf("auth.%s", host), string(c.Auth[host].Type)})
	}
	return settings
}

func presence(secret string) string {
	if strings.TrimSpace(secret) == "" {
		return "(not set)"
	}
	return "(set)"
}
