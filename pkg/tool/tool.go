// Package tool describes the managed tools: the Node.js runtime and the npm,
// pnpm and yarn package managers. A Tool knows where a version is published,
// how to verify it, how to unpack it and where its binaries live. A Family
// groups the variants stored under one tool directory.
package tool

import (
	"context"
	"hash"
	"time"

	"github.com/cperrin88/snm/pkg/archive"
)

// Variant is the closed set of tool implementations.
type Variant int

// Known variants.
const (
	Node Variant = iota
	Npm
	Pnpm
	YarnClassic
	YarnModern
)

func (v Variant) String() string {
	switch v {
	case Node:
		return "node"
	case Npm:
		return "npm"
	case Pnpm:
		return "pnpm"
	case YarnClassic:
		return "yarn-classic"
	case YarnModern:
		return "yarn-modern"
	default:
		return "unknown"
	}
}

// IsPackageManager reports whether v is a package manager rather than the runtime.
func (v Variant) IsPackageManager() bool { return v != Node }

// RemoteVersion is one published version.
type RemoteVersion struct {
	Version string
	Date    time.Time
	// LTS is the release line codename for Node.js LTS releases.
	LTS string
}

// Tool is one installable variant.
type Tool interface {
	// Name is the family name, also the tool directory name.
	Name() string
	Variant() Variant
	// ArchiveName is the file name of the published archive for v.
	ArchiveName(v string) string
	DownloadURL(v string) string
	// ExpectedChecksum fetches the hex digest published for the archive of v.
	ExpectedChecksum(ctx context.Context, v string) (string, error)
	// NewHash returns the hash ExpectedChecksum digests are computed with.
	NewHash() hash.Hash
	// Decompress unpacks archivePath into dest.
	Decompress(ctx context.Context, archivePath, dest string) error
	// BinaryPath locates bin inside an installed version directory.
	BinaryPath(installDir, bin string) (string, error)
	ListRemote(ctx context.Context, all bool) ([]RemoteVersion, error)
}

// SupportChecker is implemented by tools that publish platform-specific
// builds and can tell whether one exists for the current platform.
type SupportChecker interface {
	CheckSupported(ctx context.Context, v string) error
}

// Extractor unpacks archives.
type Extractor interface {
	ExtractAll(ctx context.Context, archivePath, destDir string, opts archive.ExtractOptions) error
}
