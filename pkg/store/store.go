// Package store manages installed tool versions on disk.
//
// Each tool owns a directory holding one subdirectory per version. A version
// counts as installed only once its anchor file exists. The default version
// is a sibling symlink named "<version>-default".
package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/fsutil"
	"github.com/cperrin88/snm/pkg/versions"
)

// Layout names.
const (
	AnchorFile      = ".snm-anchor"
	DefaultSuffix   = "-default"
	LockSuffix      = ".lock"
	DefaultLockFile = ".default.lock"
)

// Layout resolves the directory of a tool.
type Layout interface {
	ToolDir(tool string) string
}

// Installed is the content of a tool directory.
type Installed struct {
	// Versions are ascending by semver.
	Versions []string
	// Default is empty when no default is set.
	Default string
}

// Contains reports whether v is among the installed versions.
func (i Installed) Contains(v string) bool {
	v = versions.Trim(v)
	for _, iv := range i.Versions {
		if iv == v {
			return true
		}
	}
	return false
}

// Store reads and mutates tool directories.
type Store struct {
	layout Layout
}

// New creates a Store over layout.
func New(layout Layout) *Store {
	return &Store{layout: layout}
}

// ToolDir returns the directory of tool.
func (s *Store) ToolDir(tool string) string {
	return s.layout.ToolDir(tool)
}

func (s *Store) VersionDir(tool, v string) string {
	return filepath.Join(s.ToolDir(tool), versions.Trim(v))
}

func (s *Store) DefaultAliasPath(tool, v string) string {
	return filepath.Join(s.ToolDir(tool), versions.Trim(v)+DefaultSuffix)
}

func (s *Store) AnchorPath(tool, v string) string {
	return filepath.Join(s.VersionDir(tool, v), AnchorFile)
}

// IsInstalled reports whether the anchor of tool@v exists.
func (s *Store) IsInstalled(tool, v string) bool {
	_, err := os.Stat(s.AnchorPath(tool, v))
	return err == nil
}

// ListInstalled scans the tool directory, creating it when missing.
func (s *Store) ListInstalled(tool string) (Installed, error) {
	dir := s.ToolDir(tool)
	if err := fsutil.EnsureDir(dir); err != nil {
		return Installed{}, errors.Wrapf(err, "failed to create %s", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Installed{}, errors.Wrapf(err, "failed to read %s", dir)
	}

	var out Installed
	for _, e := range entries {
		name := e.Name()
		full := filepath.Join(dir, name)
		if !fsutil.IsDir(full) {
			continue
		}
		if v, ok := strings.CutSuffix(name, DefaultSuffix); ok {
			out.Default = v
			continue
		}
		if _, err := os.Stat(filepath.Join(full, AnchorFile)); err != nil {
			continue
		}
		out.Versions = append(out.Versions, name)
	}
	versions.Sort(out.Versions)
	return out, nil
}

// Default returns the default version of tool, or "" when none is set.
func (s *Store) Default(tool string) (string, error) {
	installed, err := s.ListInstalled(tool)
	if err != nil {
		return "", err
	}
	return installed.Default, nil
}

// WriteAnchor marks tool@v installed.
func (s *Store) WriteAnchor(tool, v string) error {
	p := s.AnchorPath(tool, v)
	if err := os.WriteFile(p, nil, fsutil.FileModeDefault); err != nil {
		return errors.Wrapf(err, "failed to write anchor %s", p)
	}
	return nil
}

// RemoveVersion deletes the version directory. The anchor goes first so an
// interrupted removal never looks installed.
func (s *Store) RemoveVersion(tool, v string) error {
	if err := os.Remove(s.AnchorPath(tool, v)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to remove anchor of %s@%s", tool, v)
	}
	dir := s.VersionDir(tool, v)
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, "failed to remove %s", dir)
	}
	return nil
}

// CreateDefaultAlias links "<v>-default" to the version directory.
func (s *Store) CreateDefaultAlias(tool, v string) error {
	return fsutil.ReplaceSymlink(s.VersionDir(tool, v), s.DefaultAliasPath(tool, v))
}

// RemoveDefaultAlias removes the "<v>-default" link.
func (s *Store) RemoveDefaultAlias(tool, v string) error {
	return fsutil.RemoveLink(s.DefaultAliasPath(tool, v))
}

// LockVersion takes the exclusive lock of tool@v.
func (s *Store) LockVersion(ctx context.Context, tool, v string) (*fsutil.FileLock, error) {
	return fsutil.Lock(ctx, filepath.Join(s.ToolDir(tool), versions.Trim(v)+LockSuffix))
}

// LockDefault takes the exclusive lock guarding the default of tool. It must
// be acquired before any version lock.
func (s *Store) LockDefault(ctx context.Context, tool string) (*fsutil.FileLock, error) {
	return fsutil.Lock(ctx, filepath.Join(s.ToolDir(tool), DefaultLockFile))
}
