// Package platform maps Go's GOOS/GOARCH onto the names used by Node.js
// release artifacts.
package platform

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/cperrin88/snm/pkg/errors"
)

// Platform is an OS/architecture pair in Node.js naming.
type Platform struct {
	OS   string `yaml:"os" json:"os"`
	Arch string `yaml:"arch" json:"arch"`
}

// Current returns the platform snm is running on.
func Current() (Platform, error) {
	return FromGo(runtime.GOOS, runtime.GOARCH)
}

// FromGo converts Go's platform identifiers. Platforms without Node.js
// builds yield an UnsupportedPlatformError.
func FromGo(goos, goarch string) (Platform, error) {
	os, okOS := NormalizeOS(goos)
	arch, okArch := NormalizeArch(goarch)
	if !okOS || !okArch {
		return Platform{}, errors.NewUnsupportedPlatformError(goos, goarch)
	}
	return Platform{OS: os, Arch: arch}, nil
}

// String returns "<os>-<arch>", the infix of Node.js archive names.
func (p Platform) String() string {
	return fmt.Sprintf("%s-%s", p.OS, p.Arch)
}

// IsWindows reports whether p targets Windows.
func (p Platform) IsWindows() bool { return p.OS == OSWindows }

// ArchiveExt is the Node.js archive extension published for p.
func (p Platform) ArchiveExt() string {
	if p.IsWindows() {
		return "zip"
	}
	return "tar.xz"
}

// DistFileKey is the identifier Node.js uses in index.json "files" to say a
// release has a build for p (e.g. "linux-x64", "osx-arm64-tar", "win-x64-zip").
func (p Platform) DistFileKey() string {
	switch p.OS {
	case OSDarwin:
		return fmt.Sprintf("osx-%s-tar", p.Arch)
	case OSWindows:
		return fmt.Sprintf("win-%s-zip", p.Arch)
	default:
		return p.String()
	}
}

// NormalizeOS maps a GOOS value to its Node.js name.
func NormalizeOS(goos string) (string, bool) {
	switch strings.ToLower(goos) {
	case "linux":
		return OSLinux, true
	case "darwin", "macos":
		return OSDarwin, true
	case "windows", "win":
		return OSWindows, true
	default:
		return "", false
	}
}

// NormalizeArch maps a GOARCH value to its Node.js name.
func NormalizeArch(goarch string) (string, bool) {
	switch strings.ToLower(goarch) {
	case "amd64", "x86_64", "x64":
		return ArchX64, true
	case "386", "x86":
		return ArchX86, true
	case "arm64", "aarch64":
		return ArchARM64, true
	case "arm", "armv7l":
		return ArchARMv7, true
	case "ppc64le":
		return ArchPPC64LE, true
	case "s390x":
		return ArchS390X, true
	default:
		return "", false
	}
}
