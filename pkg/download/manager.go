package download

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cperrin88/snm/internal/logger"
	"github.com/cperrin88/snm/pkg/auth"
	pkgerrors "github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/fsutil"
)

// DefaultBackoff is the pause between failed attempts.
const DefaultBackoff = 500 * time.Millisecond

// ManagerImpl is an HTTP download manager with bounded retries and a
// per-attempt timeout.
type ManagerImpl struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	attempts  int
	backoff   time.Duration
	auth      auth.Hosts
}

// NewManager creates a new download manager. timeout bounds each attempt,
// not the total; attempts is the maximum number of tries.
func NewManager(timeout time.Duration, attempts int, userAgent string) *ManagerImpl {
	if userAgent == "" {
		userAgent = "snm/1.0"
	}
	if attempts < 1 {
		attempts = 1
	}
	return &ManagerImpl{
		client:    &http.Client{},
		userAgent: userAgent,
		timeout:   timeout,
		attempts:  attempts,
		backoff:   DefaultBackoff,
	}
}

// WithBackoff sets the pause between attempts.
func (m *ManagerImpl) WithBackoff(d time.Duration) *ManagerImpl {
	m.backoff = d
	return m
}

// WithAuth applies per-host credentials to every request.
func (m *ManagerImpl) WithAuth(hosts auth.Hosts) *ManagerImpl {
	m.auth = hosts
	return m
}

// CloseIdleConnections releases pooled connections.
func (m *ManagerImpl) CloseIdleConnections() {
	m.client.CloseIdleConnections()
}

// Fetch downloads a single item and returns the path to the downloaded file.
// The file only appears at its final path once the body was fully written.
func (m *ManagerImpl) Fetch(ctx context.Context, item Item, opts Options) (string, error) {
	if opts.Dir == "" || !filepath.IsAbs(opts.Dir) {
		return "", fmt.Errorf("download dir must be absolute: %s: %w", opts.Dir, pkgerrors.ErrInvalidPath)
	}
	if item.URL == "" {
		return "", fmt.Errorf("empty URL for %s: %w", item.ID, pkgerrors.ErrDownloadFailed)
	}
	if err := os.MkdirAll(opts.Dir, fsutil.DirModeSecure); err != nil {
		return "", pkgerrors.Wrap(err, "could not create download dir")
	}
	filename, err := selectFilename(item)
	if err != nil {
		return "", err
	}
	absPath := filepath.Join(opts.Dir, filename)

	var lastErr error
	for attempt := 1; attempt <= m.attempts; attempt++ {
		err := m.fetchOnce(ctx, item, absPath)
		if err == nil {
			return absPath, nil
		}
		if isTerminal(err) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
		logger.Debug("download attempt failed", logger.Fields{
			"id": item.ID, "url": item.URL, "attempt": attempt, "error": err.Error(),
		})
		if attempt < m.attempts {
			if err := sleep(ctx, m.backoff); err != nil {
				return "", err
			}
		}
	}
	return "", pkgerrors.NewDownloadFailedError(item.URL, m.attempts, lastErr)
}

func isTerminal(err error) bool {
	return errors.Is(err, pkgerrors.ErrResourceNotFound)
}

func (m *ManagerImpl) fetchOnce(ctx context.Context, item Item, absPath string) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	resp, err := m.doRequest(ctx, item)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	tmpPath, err := writeBodyToTemp(resp, absPath)
	if err != nil {
		return err
	}
	if err := finalizeFile(tmpPath, absPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func selectFilename(item Item) (string, error) {
	if item.Filename != "" {
		return filepath.Base(item.Filename), nil
	}
	u, err := url.Parse(item.URL)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "invalid URL %s", item.URL)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("cannot derive a filename from %s: %w", item.URL, pkgerrors.ErrInvalidPath)
	}
	return name, nil
}

func (m *ManagerImpl) doRequest(ctx context.Context, item Item) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.URL, http.NoBody)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", m.userAgent)
	if err := m.auth.Apply(req); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to apply credentials")
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "download failed")
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, pkgerrors.NewResourceNotFoundError(item.URL)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp, nil
}

func writeBodyToTemp(resp *http.Response, absPath string) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(absPath), "dl-*.tmp")
	if err != nil {
		return "", pkgerrors.Wrap(err, "could not create temp file")
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", pkgerrors.Wrap(err, "could not write file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", pkgerrors.Wrap(err, "could not sync file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", pkgerrors.Wrap(err, "could not close file")
	}
	return tmpPath, nil
}

func finalizeFile(tmpPath, absPath string) error {
	if err := fsutil.Move(tmpPath, absPath); err != nil {
		return pkgerrors.Wrap(err, "could not finalize file")
	}
	if err := os.Chmod(absPath, fsutil.FileModeSecure); err != nil {
		return pkgerrors.Wrap(err, "could not set permissions")
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// HashFile streams path through h and returns the lowercase hex digest.
func HashFile(path string, h hash.Hash) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", pkgerrors.Wrap(err, "open for checksum")
	}
	defer func() { _ = f.Close() }()
	if _, err := io.Copy(h, f); err != nil {
		return "", pkgerrors.Wrap(err, "hashing")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// NormalizeHex lowercases and trims a hex digest for comparison.
func NormalizeHex(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
