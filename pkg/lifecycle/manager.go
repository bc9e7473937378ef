// Package lifecycle installs, uninstalls and selects default versions of a
// tool family. It drives the store, the downloader, the ledger and the hooks.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cperrin88/snm/internal/logger"
	"github.com/cperrin88/snm/pkg/download"
	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/hooks"
	"github.com/cperrin88/snm/pkg/ledger"
	"github.com/cperrin88/snm/pkg/store"
	"github.com/cperrin88/snm/pkg/tool"
	"github.com/cperrin88/snm/pkg/versions"
	"golang.org/x/sync/errgroup"
)

// Manager runs lifecycle operations for one family.
type Manager struct {
	Family      tool.Family
	Store       *store.Store
	DL          Downloader
	DownloadDir string
	// Ledger and Hooks are optional.
	Ledger  Ledger
	Hooks   hooks.Runner
	Confirm Confirmer
	Events  Events

	now func() time.Time
}

// New constructs a Manager. Ledger, runner and events may be zero values.
func New(family tool.Family, st *store.Store, dl Downloader, downloadDir string, confirm Confirmer) *Manager {
	return &Manager{
		Family:      family,
		Store:       st,
		DL:          dl,
		DownloadDir: downloadDir,
		Confirm:     confirm,
	}
}

func (m *Manager) name() string { return m.Family.Name() }

func (m *Manager) clock() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now()
}

func (m *Manager) confirm(ctx context.Context, prompt string) (bool, error) {
	if m.Confirm == nil {
		return false, nil
	}
	return m.Confirm(ctx, prompt)
}

// Install installs v. An installed version is reinstalled only after
// confirmation; declining is a no-op.
func (m *Manager) Install(ctx context.Context, v string) error {
	_, err := m.InstallVersion(ctx, v)
	return err
}

// InstallVersion is Install, also reporting whether anything was installed.
func (m *Manager) InstallVersion(ctx context.Context, v string) (bool, error) {
	v = versions.Trim(v)
	t, err := m.Family.ForVersion(v)
	if err != nil {
		return false, err
	}

	lock, err := m.Store.LockVersion(ctx, m.name(), v)
	if err != nil {
		return false, err
	}
	defer func() { _ = lock.Unlock() }()

	if m.Store.IsInstalled(m.name(), v) {
		ok, err := m.confirm(ctx, m.reinstallPrompt(v))
		if err != nil {
			return false, err
		}
		if !ok {
			logger.Debug("reinstall declined", logger.Fields{"tool": m.name(), "version": v})
			return false, nil
		}
	}
	if err := m.install(ctx, t, v); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manager) reinstallPrompt(v string) string {
	if m.Ledger != nil {
		if e, ok, err := m.Ledger.Get(m.name(), v); err == nil && ok {
			return fmt.Sprintf("%s %s is already installed (%s, %s). Reinstall?",
				m.name(), v, e.Variant, e.InstalledAt.Format("2006-01-02"))
		}
	}
	return fmt.Sprintf("%s %s is already installed. Reinstall?", m.name(), v)
}

// EnsureInstalled installs v when it is missing, without prompting.
func (m *Manager) EnsureInstalled(ctx context.Context, v string) error {
	v = versions.Trim(v)
	t, err := m.Family.ForVersion(v)
	if err != nil {
		return err
	}
	lock, err := m.Store.LockVersion(ctx, m.name(), v)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	if m.Store.IsInstalled(m.name(), v) {
		return nil
	}
	return m.install(ctx, t, v)
}

// install runs the download pipeline. The caller holds the version lock.
func (m *Manager) install(ctx context.Context, t tool.Tool, v string) error {
	name := m.name()
	dir := m.Store.VersionDir(name, v)
	hc := hooks.Context{ToolName: name, ToolVersion: v, InstallPath: dir}

	if err := m.runHook(ctx, hooks.PreInstall, hc); err != nil {
		return err
	}

	if sc, ok := t.(tool.SupportChecker); ok {
		emit(m.Events, Event{Phase: PhaseChecking, Tool: name, Version: v})
		if err := sc.CheckSupported(ctx, v); err != nil {
			return err
		}
	}

	// clears a previous install or a partial one without anchor
	if err := m.Store.RemoveVersion(name, v); err != nil {
		return err
	}

	emit(m.Events, Event{Phase: PhaseDownloading, Tool: name, Version: v, Msg: t.DownloadURL(v)})
	archivePath, expected, err := m.fetch(ctx, t, v)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(archivePath) }()

	emit(m.Events, Event{Phase: PhaseVerifying, Tool: name, Version: v})
	actual, err := download.HashFile(archivePath, t.NewHash())
	if err != nil {
		return err
	}
	if actual != expected {
		return errors.NewChecksumVerificationError(archivePath, expected, actual)
	}

	emit(m.Events, Event{Phase: PhaseExtracting, Tool: name, Version: v, Msg: dir})
	if err := t.Decompress(ctx, archivePath, dir); err != nil {
		_ = m.Store.RemoveVersion(name, v)
		return errors.Wrapf(err, "failed to extract %s", archivePath)
	}
	if err := m.Store.WriteAnchor(name, v); err != nil {
		_ = m.Store.RemoveVersion(name, v)
		return err
	}

	if m.Ledger != nil {
		entry := ledger.Entry{
			Tool:        name,
			Version:     v,
			Variant:     t.Variant().String(),
			URL:         t.DownloadURL(v),
			Checksum:    actual,
			InstalledAt: m.clock(),
		}
		if err := m.Ledger.Put(entry); err != nil {
			logger.Warn("failed to record install", logger.Fields{"tool": name, "version": v, "error": err})
		}
	}

	if err := m.runHook(ctx, hooks.PostInstall, hc); err != nil {
		logger.Warn("post-install hook failed", logger.Fields{"tool": name, "version": v, "error": err})
	}

	logger.Info("installed", logger.Fields{"tool": name, "version": v, "variant": t.Variant().String()})
	emit(m.Events, Event{Phase: PhaseDone, Tool: name, Version: v})
	return nil
}

// fetch downloads the archive and its published digest concurrently.
func (m *Manager) fetch(ctx context.Context, t tool.Tool, v string) (archivePath, expected string, err error) {
	item := download.Item{
		ID:       m.name() + "@" + v,
		URL:      t.DownloadURL(v),
		Filename: t.ArchiveName(v),
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		p, err := m.DL.Fetch(egCtx, item, download.Options{Dir: m.DownloadDir})
		archivePath = p
		return err
	})
	eg.Go(func() error {
		sum, err := t.ExpectedChecksum(egCtx, v)
		expected = download.NormalizeHex(sum)
		return err
	})
	if err := eg.Wait(); err != nil {
		if archivePath != "" {
			_ = os.Remove(archivePath)
		}
		return "", "", err
	}
	return archivePath, expected, nil
}

// SetDefault makes v the default, installing it first when confirmed.
func (m *Manager) SetDefault(ctx context.Context, v string) error {
	v = versions.Trim(v)
	name := m.name()
	if _, err := m.Family.ForVersion(v); err != nil {
		return err
	}

	dlock, err := m.Store.LockDefault(ctx, name)
	if err != nil {
		return err
	}
	defer func() { _ = dlock.Unlock() }()

	if !m.Store.IsInstalled(name, v) {
		ok, err := m.confirm(ctx, fmt.Sprintf("%s %s is not installed. Install it now?", name, v))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := m.EnsureInstalled(ctx, v); err != nil {
			return err
		}
	}

	current, err := m.Store.Default(name)
	if err != nil {
		return err
	}
	if current == v {
		return nil
	}
	emit(m.Events, Event{Phase: PhaseLinking, Tool: name, Version: v})
	if current != "" {
		if err := m.Store.RemoveDefaultAlias(name, current); err != nil {
			return err
		}
	}
	if err := m.Store.CreateDefaultAlias(name, v); err != nil {
		return err
	}
	logger.Info("default set", logger.Fields{"tool": name, "version": v, "previous": current})
	return nil
}

// Uninstall removes v. Removing the default needs confirmation. Versions
// that are not among the installed ones only log a warning.
func (m *Manager) Uninstall(ctx context.Context, v string) error {
	v = versions.Trim(v)
	name := m.name()

	installed, err := m.Store.ListInstalled(name)
	if err != nil {
		return err
	}
	if !versions.Valid(v) || !installed.Contains(v) {
		logger.Warn("version is not installed", logger.Fields{"tool": name, "version": v})
		return nil
	}

	dlock, err := m.Store.LockDefault(ctx, name)
	if err != nil {
		return err
	}
	defer func() { _ = dlock.Unlock() }()
	vlock, err := m.Store.LockVersion(ctx, name, v)
	if err != nil {
		return err
	}
	defer func() { _ = vlock.Unlock() }()

	if !m.Store.IsInstalled(name, v) {
		logger.Warn("version is not installed", logger.Fields{"tool": name, "version": v})
		return nil
	}

	current, err := m.Store.Default(name)
	if err != nil {
		return err
	}
	isDefault := current == v
	if isDefault {
		ok, err := m.confirm(ctx, fmt.Sprintf("%s %s is the default version. Uninstall it anyway?", name, v))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	dir := m.Store.VersionDir(name, v)
	hc := hooks.Context{ToolName: name, ToolVersion: v, InstallPath: dir}
	if err := m.runHook(ctx, hooks.PreRemove, hc); err != nil {
		return err
	}

	emit(m.Events, Event{Phase: PhaseRemoving, Tool: name, Version: v, Msg: dir})
	if isDefault {
		if err := m.Store.RemoveDefaultAlias(name, v); err != nil {
			return err
		}
	}
	if err := m.Store.RemoveVersion(name, v); err != nil {
		return err
	}

	if m.Ledger != nil {
		if err := m.Ledger.Delete(name, v); err != nil {
			logger.Warn("failed to delete ledger entry", logger.Fields{"tool": name, "version": v, "error": err})
		}
	}
	if err := m.runHook(ctx, hooks.PostRemove, hc); err != nil {
		logger.Warn("post-remove hook failed", logger.Fields{"tool": name, "version": v, "error": err})
	}
	emit(m.Events, Event{Phase: PhaseDone, Tool: name, Version: v})
	return nil
}

// List returns the installed versions with their ledger metadata.
func (m *Manager) List(_ context.Context) ([]InstalledVersion, error) {
	installed, err := m.Store.ListInstalled(m.name())
	if err != nil {
		return nil, err
	}
	entries := make(map[string]ledger.Entry)
	if m.Ledger != nil {
		recorded, err := m.Ledger.List(m.name())
		if err != nil {
			logger.Warn("failed to read install ledger", logger.Fields{"tool": m.name(), "error": err})
		}
		for _, e := range recorded {
			entries[e.Version] = e
		}
	}

	out := make([]InstalledVersion, 0, len(installed.Versions))
	for _, v := range installed.Versions {
		iv := InstalledVersion{Version: v, Default: v == installed.Default}
		if e, ok := entries[v]; ok {
			iv.Entry = &e
		}
		out = append(out, iv)
	}
	return out, nil
}

// ListRemote returns the published versions, flagged with local state.
func (m *Manager) ListRemote(ctx context.Context, all bool) ([]RemoteVersion, error) {
	remote, err := m.Family.ListRemote(ctx, all)
	if err != nil {
		return nil, err
	}
	installed, err := m.Store.ListInstalled(m.name())
	if err != nil {
		return nil, err
	}
	out := make([]RemoteVersion, 0, len(remote))
	for _, rv := range remote {
		out = append(out, RemoteVersion{
			RemoteVersion: rv,
			Installed:     installed.Contains(rv.Version),
			Default:       installed.Default == rv.Version,
		})
	}
	return out, nil
}

// BinaryPath locates bin inside the installed version v.
func (m *Manager) BinaryPath(v, bin string) (string, error) {
	t, err := m.Family.ForVersion(v)
	if err != nil {
		return "", err
	}
	return t.BinaryPath(m.Store.VersionDir(m.name(), v), bin)
}

// IsInstalled reports whether v is installed.
func (m *Manager) IsInstalled(v string) bool {
	return m.Store.IsInstalled(m.name(), v)
}

// Default returns the default version, or "" when none is set.
func (m *Manager) Default() (string, error) {
	return m.Store.Default(m.name())
}

// Variant returns the variant serving v.
func (m *Manager) Variant(v string) (tool.Variant, error) {
	t, err := m.Family.ForVersion(v)
	if err != nil {
		return 0, err
	}
	return t.Variant(), nil
}

func (m *Manager) runHook(ctx context.Context, ht hooks.HookType, hc hooks.Context) error {
	if m.Hooks == nil {
		return nil
	}
	return m.Hooks.Run(ctx, ht, hc)
}
