package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for p, content := range files {
		full := filepath.Join(root, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestArchiveManager_RoundTrip(t *testing.T) {
	files := map[string]string{
		"package.json":  `{"name":"pnpm","version":"8.5.0","bin":{"pnpm":"bin/pnpm.cjs"}}`,
		"bin/pnpm.cjs":  "#!/usr/bin/env node\n",
		"dist/pnpm.cjs": "module.exports = {}\n",
	}

	tests := []struct {
		name    string
		archive string
	}{
		{"tar.gz", "pnpm-8.5.0.tgz"},
		{"tar.xz", "node-v20.0.0-linux-x64.tar.xz"},
		{"zip", "node-v20.0.0-win-x64.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			src := filepath.Join(tempDir, "src")
			writeTree(t, src, files)

			am := NewManager()
			ctx := context.Background()
			archivePath := filepath.Join(tempDir, tt.archive)
			require.NoError(t, am.Create(ctx, src, archivePath, "package"))

			dest := filepath.Join(tempDir, "out")
			require.NoError(t, am.ExtractAll(ctx, archivePath, dest, ExtractOptions{StripComponents: 1}))

			for p, want := range files {
				got, err := os.ReadFile(filepath.Join(dest, p))
				require.NoError(t, err, p)
				assert.Equal(t, want, string(got))
			}
			assert.NoDirExists(t, filepath.Join(dest, "package"))
		})
	}
}

func TestArchiveManager_NoStrip(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "src")
	writeTree(t, src, map[string]string{"a/b.txt": "b"})

	am := NewManager()
	archivePath := filepath.Join(tempDir, "x.tar.gz")
	require.NoError(t, am.Create(context.Background(), src, archivePath, ""))

	dest := filepath.Join(tempDir, "out")
	require.NoError(t, am.ExtractAll(context.Background(), archivePath, dest, ExtractOptions{}))
	assert.FileExists(t, filepath.Join(dest, "a", "b.txt"))
}

func TestArchiveManager_Symlinks(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "src")
	writeTree(t, src, map[string]string{"lib/node_modules/npm/bin/npm-cli.js": "cli"})
	require.NoError(t, os.MkdirAll(filepath.Join(src, "bin"), 0o755))
	require.NoError(t, os.Symlink("../lib/node_modules/npm/bin/npm-cli.js", filepath.Join(src, "bin", "npm")))

	am := NewManager()
	archivePath := filepath.Join(tempDir, "node.tar.xz")
	require.NoError(t, am.Create(context.Background(), src, archivePath, "node-v20.0.0-linux-x64"))

	dest := filepath.Join(tempDir, "out")
	require.NoError(t, am.ExtractAll(context.Background(), archivePath, dest, ExtractOptions{StripComponents: 1}))

	link := filepath.Join(dest, "bin", "npm")
	target, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("../lib/node_modules/npm/bin/npm-cli.js"), target)

	data, err := os.ReadFile(link)
	require.NoError(t, err)
	assert.Equal(t, "cli", string(data))
}

func TestArchiveManager_RejectsEscapingSymlink(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.Symlink("../../../etc/passwd", filepath.Join(src, "evil")))

	am := NewManager()
	archivePath := filepath.Join(tempDir, "evil.tar.gz")
	require.NoError(t, am.Create(context.Background(), src, archivePath, ""))

	err := am.ExtractAll(context.Background(), archivePath, filepath.Join(tempDir, "out"), ExtractOptions{})
	var pte *PathTraversalError
	assert.ErrorAs(t, err, &pte)
}

func TestArchiveManager_NotAnArchive(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "plain.bin")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an archive"), 0o644))

	err := NewManager().ExtractAll(context.Background(), path, filepath.Join(tempDir, "out"), ExtractOptions{})
	assert.Error(t, err)

	err = NewManager().ExtractAll(context.Background(), filepath.Join(tempDir, "missing.tgz"), tempDir, ExtractOptions{})
	assert.Error(t, err)
}

func TestStripComponents(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want string
		ok   bool
	}{
		{"package/bin/pnpm.cjs", 1, "bin/pnpm.cjs", true},
		{"package/", 1, "", false},
		{"./package/lib", 1, "lib", true},
		{"a/b/c", 2, "c", true},
		{"a/b/c", 0, "a/b/c", true},
		{"a", 3, "", false},
	}
	for _, tt := range tests {
		got, ok := stripComponents(tt.name, tt.n)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestSafeJoin(t *testing.T) {
	root := t.TempDir()
	_, err := safeJoin(root, "bin/node")
	assert.NoError(t, err)
	assert.True(t, hasDotDot("package/../../etc"))
	assert.False(t, hasDotDot("package/..foo/bar"))
	assert.False(t, within(root, filepath.Join(root, "..", "x")))
	assert.True(t, within(root, root))
}
