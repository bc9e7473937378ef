package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceSymlink(t *testing.T) {
	dir := t.TempDir()
	v1 := filepath.Join(dir, "18.0.0")
	v2 := filepath.Join(dir, "20.0.0")
	require.NoError(t, EnsureDir(v1))
	require.NoError(t, EnsureDir(v2))
	link := filepath.Join(dir, "current")

	require.NoError(t, ReplaceSymlink(v1, link))
	got, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, v1, got)

	require.NoError(t, ReplaceSymlink(v2, link))
	got, err = os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, v2, got)

	assert.True(t, IsDir(v1), "old target must survive the swap")
}

func TestRemoveLink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, EnsureDir(target))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), nil, FileModeDefault))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	require.NoError(t, RemoveLink(link))
	assert.False(t, Exists(link))
	assert.FileExists(t, filepath.Join(target, "keep"))

	assert.NoError(t, RemoveLink(filepath.Join(dir, "missing")))
}
