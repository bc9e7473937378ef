// Package proxy runs a resolved tool binary in place of the shim.
package proxy

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/cperrin88/snm/internal/logger"
	"github.com/cperrin88/snm/pkg/errors"
)

// Proxy spawns tool processes with inherited stdio.
type Proxy struct {
	// BinDir is prepended to PATH so scripts invoking node, npm and friends
	// go through the shims again.
	BinDir string
	// Env defaults to os.Environ().
	Env    []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a Proxy attached to the process stdio.
func New(binDir string) *Proxy {
	return &Proxy{
		BinDir: binDir,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes binaryPath with args and waits for it. The child's exit code
// is returned with a nil error. A process that cannot be started yields a
// SpawnError. Interrupts reach the child through the terminal and are
// ignored here while it runs.
func (p *Proxy) Run(ctx context.Context, binaryPath string, args []string) (int, error) {
	cmd := exec.CommandContext(ctx, binaryPath, args...)
	cmd.Stdin = p.Stdin
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr
	cmd.Env = p.environ()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)

	logger.Debug("spawning", logger.Fields{"bin": binaryPath, "args": strings.Join(args, " ")})
	if err := cmd.Start(); err != nil {
		return 1, &errors.SpawnError{Path: binaryPath, Err: err}
	}

	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// terminated by a signal
			code = 1
		}
		return code, nil
	}
	return 1, errors.Wrapf(err, "waiting for %s", binaryPath)
}

func (p *Proxy) environ() []string {
	env := p.Env
	if env == nil {
		env = os.Environ()
	}
	if p.BinDir == "" {
		return env
	}
	return PrependPath(env, p.BinDir)
}

// PrependPath returns env with dir placed first in PATH. dir is not added twice.
func PrependPath(env []string, dir string) []string {
	out := make([]string, 0, len(env)+1)
	found := false
	for _, kv := range env {
		key, value, ok := strings.Cut(kv, "=")
		if ok && isPathKey(key) && !found {
			found = true
			out = append(out, key+"="+joinPath(dir, value))
			continue
		}
		out = append(out, kv)
	}
	if !found {
		out = append(out, "PATH="+dir)
	}
	return out
}

func joinPath(dir, value string) string {
	parts := []string{dir}
	for _, p := range filepath.SplitList(value) {
		if p != dir && p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, string(os.PathListSeparator))
}
