// Package archive extracts downloaded tool archives (tar.gz, tar.xz, zip)
// and creates them for tests and fixtures.
package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cperrin88/snm/pkg/fsutil"
	"github.com/mholt/archives"
)

// PathTraversalError is returned when an entry would land outside the destination.
type PathTraversalError struct {
	Path string
}

func (e *PathTraversalError) Error() string {
	return fmt.Sprintf("archive entry escapes destination: %s", e.Path)
}

// ExtractOptions tune extraction.
type ExtractOptions struct {
	// StripComponents drops this many leading path elements from every entry,
	// like tar --strip-components. Entries with fewer elements are skipped.
	StripComponents int
}

// Manager handles archive extraction and creation operations.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// ExtractAll streams every entry of archivePath into destDir. The format is
// detected from the file name and contents.
func (am *Manager) ExtractAll(ctx context.Context, archivePath, destDir string, opts ExtractOptions) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive file: %w", err)
	}
	defer func() { _ = f.Close() }()

	format, input, err := archives.Identify(ctx, filepath.Base(archivePath), f)
	if err != nil {
		return fmt.Errorf("failed to identify archive %s: %w", archivePath, err)
	}
	extractor, ok := format.(archives.Extractor)
	if !ok {
		return fmt.Errorf("format of %s does not support extraction", archivePath)
	}
	if _, isZip := format.(archives.Zip); isZip {
		// zip needs random access to the original file.
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("failed to rewind %s: %w", archivePath, err)
		}
		input = f
	}

	absDest, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("failed to resolve destination: %w", err)
	}
	if err := os.MkdirAll(absDest, fsutil.DirModeDefault); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	handler := func(ctx context.Context, info archives.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return am.extractEntry(absDest, info, opts)
	}
	if err := extractor.Extract(ctx, input, handler); err != nil {
		return fmt.Errorf("failed to extract %s: %w", archivePath, err)
	}
	return nil
}

// extractEntry writes a single archive entry below destDir.
func (am *Manager) extractEntry(destDir string, info archives.FileInfo, opts ExtractOptions) error {
	if hasDotDot(info.NameInArchive) {
		return &PathTraversalError{Path: info.NameInArchive}
	}
	rel, ok := stripComponents(info.NameInArchive, opts.StripComponents)
	if !ok {
		return nil
	}
	targetPath, err := safeJoin(destDir, rel)
	if err != nil {
		return err
	}

	switch {
	case info.IsDir():
		return os.MkdirAll(targetPath, fsutil.DirModeDefault)
	case info.Mode()&fs.ModeSymlink != 0:
		return am.writeSymlink(destDir, targetPath, info.LinkTarget)
	case info.LinkTarget != "":
		return am.writeHardLink(destDir, targetPath, info.LinkTarget, opts)
	case info.Mode().IsRegular():
		return am.writeRegularFile(info, targetPath)
	default:
		// devices, fifos and other special files are never part of a tool archive
		return nil
	}
}

// writeSymlink creates a symlink whose target must resolve inside destDir.
func (am *Manager) writeSymlink(destDir, targetPath, linkTarget string) error {
	if linkTarget == "" {
		return fmt.Errorf("symlink %s has no target", targetPath)
	}
	resolved := linkTarget
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(targetPath), filepath.FromSlash(linkTarget))
	}
	if !within(destDir, resolved) {
		return &PathTraversalError{Path: targetPath + " -> " + linkTarget}
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return fmt.Errorf("failed to create parent directory for symlink %s: %w", targetPath, err)
	}
	_ = os.Remove(targetPath)
	return os.Symlink(filepath.FromSlash(linkTarget), targetPath)
}

func (am *Manager) writeHardLink(destDir, targetPath, linkTarget string, opts ExtractOptions) error {
	rel, ok := stripComponents(linkTarget, opts.StripComponents)
	if !ok {
		return nil
	}
	src, err := safeJoin(destDir, rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", targetPath, err)
	}
	_ = os.Remove(targetPath)
	return os.Link(src, targetPath)
}

// writeRegularFile copies a regular file entry to targetPath and preserves its mode and mtime.
func (am *Manager) writeRegularFile(info archives.FileInfo, targetPath string) error {
	srcFile, err := info.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", info.NameInArchive, err)
	}
	defer func() { _ = srcFile.Close() }()

	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", targetPath, err)
	}

	perm := info.Mode().Perm() | 0o600
	dstFile, err := fsutil.CreateFilePerm(targetPath, perm)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", targetPath, err)
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return fmt.Errorf("failed to copy file %s: %w", info.NameInArchive, err)
	}
	if err := dstFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", targetPath, err)
	}

	if err := os.Chmod(targetPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions for %s: %w", targetPath, err)
	}
	if mt := info.ModTime(); !mt.IsZero() {
		_ = os.Chtimes(targetPath, mt, mt)
	}
	return nil
}

// Create archives the contents of sourceDir into archivePath, placing them
// under root inside the archive (empty root means the archive root). The
// format follows the extension: .zip, .tar.xz, otherwise .tar.gz.
func (am *Manager) Create(ctx context.Context, sourceDir, archivePath, root string) error {
	absolutePath, err := filepath.Abs(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for source directory: %w", err)
	}

	archiveFiles, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		absolutePath + string(os.PathSeparator): root,
	})
	if err != nil {
		return fmt.Errorf("failed to read files from disk: %w", err)
	}

	file, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", archivePath, err)
	}
	defer func() {
		_ = file.Sync()
		_ = file.Close()
	}()

	var format archives.Archiver
	switch {
	case strings.HasSuffix(archivePath, ".zip"):
		format = archives.Zip{}
	case strings.HasSuffix(archivePath, ".tar.xz"):
		format = archives.CompressedArchive{Compression: archives.Xz{}, Archival: archives.Tar{}}
	default:
		format = archives.CompressedArchive{Compression: archives.Gz{}, Archival: archives.Tar{}}
	}

	if err := format.Archive(ctx, file, archiveFiles); err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	return nil
}

func stripComponents(name string, n int) (string, bool) {
	name = strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(name)), "/")
	if name == "" {
		return "", false
	}
	parts := strings.Split(name, "/")
	if len(parts) <= n {
		return "", false
	}
	return strings.Join(parts[n:], "/"), true
}

func hasDotDot(name string) bool {
	for _, part := range strings.Split(filepath.ToSlash(name), "/") {
		if part == ".." {
			return true
		}
	}
	return false
}

func safeJoin(destDir, rel string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(rel))
	if !within(destDir, target) {
		return "", &PathTraversalError{Path: rel}
	}
	return target, nil
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, filepath.Clean(p))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)))
}
