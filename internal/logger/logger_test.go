package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, level string, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	logger = nil
	InitLogger(level)
	defer func() { logger = nil }()

	fn()
	return buf.String()
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFn    func()
		contains []string
		excludes []string
	}{
		{
			name:     "warn at default level",
			level:    "",
			logFn:    func() { Warn("not found 18.0.0") },
			contains: []string{"not found 18.0.0", "level=WARN"},
		},
		{
			name:     "info suppressed at default level",
			level:    "",
			logFn:    func() { Info("downloading") },
			excludes: []string{"downloading"},
		},
		{
			name:     "debug with debug level",
			level:    "debug",
			logFn:    func() { Debugf("resolved %s@%s", "pnpm", "8.5.0") },
			contains: []string{"resolved pnpm@8.5.0", "level=DEBUG"},
		},
		{
			name:     "info with fields",
			level:    "info",
			logFn:    func() { Info("installed", Fields{"tool": "node", "version": "20.0.0"}) },
			contains: []string{"installed", "tool=node", "version=20.0.0"},
		},
		{
			name:     "error always shown",
			level:    "error",
			logFn:    func() { Errorf("boom %d", 1); Warnf("hidden") },
			contains: []string{"boom 1"},
			excludes: []string{"hidden"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t, tt.level, tt.logFn)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("nonsense"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
}

func TestMergeFields(t *testing.T) {
	got := mergeFields(Fields{"a": 1}, Fields{"b": "x"})
	assert.Len(t, got, 4)
	assert.Empty(t, mergeFields())
}
