// Package manifest reads the project files that pin tool versions:
// package.json "packageManager" and .node-version.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/versions"
)

// File names looked up in the project directory.
const (
	PackageJSON = "package.json"
	NodeVersion = ".node-version"
)

// LockFiles are the lock files of the supported package managers.
var LockFiles = []string{"package-lock.json", "pnpm-lock.yaml", "yarn.lock"}

// Declaration is a parsed "packageManager" value.
type Declaration struct {
	Name    string
	Version string
	// Integrity is the optional "<algo>.<hex>" suffix after '+'.
	Integrity string
}

func (d Declaration) String() string {
	s := d.Name + "@" + d.Version
	if d.Integrity != "" {
		s += "+" + d.Integrity
	}
	return s
}

// ParseDeclaration parses "name@version[+integrity]".
func ParseDeclaration(raw string) (Declaration, error) {
	raw = strings.TrimSpace(raw)
	name, rest, ok := strings.Cut(raw, "@")
	if !ok || name == "" || rest == "" {
		return Declaration{}, errors.Wrapf(errors.ErrInvalidPackageManager, "%q", raw)
	}
	version, integrity, _ := strings.Cut(rest, "+")
	if !versions.Valid(version) {
		return Declaration{}, errors.Wrapf(errors.ErrInvalidPackageManager, "%q: invalid version %q", raw, version)
	}
	return Declaration{Name: name, Version: versions.Trim(version), Integrity: integrity}, nil
}

// ReadPackageManager reads the declaration from dir/package.json.
func ReadPackageManager(dir string) (Declaration, error) {
	path := filepath.Join(dir, PackageJSON)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Declaration{}, errors.Wrapf(errors.ErrManifestNotFound, "%s", path)
		}
		return Declaration{}, errors.Wrapf(err, "failed to read %s", path)
	}

	var doc struct {
		PackageManager *string `json:"packageManager"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Declaration{}, errors.Wrapf(errors.ErrManifestParse, "%s: %v", path, err)
	}
	if doc.PackageManager == nil || strings.TrimSpace(*doc.PackageManager) == "" {
		return Declaration{}, errors.Wrapf(errors.ErrNoPackageManager, "%s", path)
	}
	return ParseDeclaration(*doc.PackageManager)
}

// ReadNodeVersion reads the version pinned in dir/.node-version.
func ReadNodeVersion(dir string) (string, error) {
	path := filepath.Join(dir, NodeVersion)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(errors.ErrNodeVersionNotFound, "%s", path)
		}
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	line, _, _ := strings.Cut(string(data), "\n")
	v := versions.Trim(line)
	if !versions.Valid(v) {
		return "", errors.Wrapf(errors.ErrNodeVersionNotFound, "%s: invalid version %q", path, strings.TrimSpace(line))
	}
	return v, nil
}

// CheckLockfiles fails when more than one package manager lock file is present in dir.
func CheckLockfiles(dir string) error {
	var found []string
	for _, name := range LockFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			found = append(found, name)
		}
	}
	if len(found) > 1 {
		return &errors.MultipleLockFilesError{Files: found}
	}
	return nil
}
