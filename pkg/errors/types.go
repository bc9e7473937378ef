package errors

import (
	"fmt"
	"strings"
)

// Error types carrying context. Each one matches its category sentinel via errors.Is.
type (
	// ResourceNotFoundError is returned when a remote resource answers 404.
	ResourceNotFoundError struct {
		URL string
	}

	// DownloadFailedError is returned when every download attempt failed.
	DownloadFailedError struct {
		URL      string
		Attempts int
		Err      error
	}

	// ChecksumVerificationError is returned when a downloaded artifact does not match its published digest.
	ChecksumVerificationError struct {
		Path     string
		Expected string
		Actual   string
	}

	// NotMatchPackageManagerError is returned when the invoked tool differs from the declared one.
	NotMatchPackageManagerError struct {
		Expected string
		Actual   string
	}

	// NotFoundDefaultError is returned in permissive mode when no default is configured.
	NotFoundDefaultError struct {
		Tool string
	}

	// VersionNotInstalledError is returned when policy forbids installing a missing version.
	VersionNotInstalledError struct {
		Tool    string
		Version string
	}

	// UnsupportedPlatformError is returned when no build exists for the current OS/arch.
	UnsupportedPlatformError struct {
		OS   string
		Arch string
	}

	// UnsupportedToolError is returned for an unknown tool name or an unusable version.
	UnsupportedToolError struct {
		Name    string
		Version string
	}

	// UnsupportedCommandError is returned when a tool variant has no equivalent for an intent.
	UnsupportedCommandError struct {
		Variant string
		Intent  string
	}

	// NotFoundBinError is returned when an installed package does not expose the requested binary.
	NotFoundBinError struct {
		Path string
		Bin  string
	}

	// MultipleLockFilesError lists every lock file found in a project.
	MultipleLockFilesError struct {
		Files []string
	}

	// SpawnError is returned when the proxied process could not be started.
	SpawnError struct {
		Path string
		Err  error
	}

	// ExitError carries a non-zero exit status that must be propagated without a message.
	ExitError struct {
		Code int
	}
)

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource not found (404): %s", e.URL)
}

func (e *ResourceNotFoundError) Is(target error) bool { return target == ErrResourceNotFound }

func (e *DownloadFailedError) Error() string {
	return fmt.Sprintf("download of %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *DownloadFailedError) Unwrap() error { return e.Err }

func (e *DownloadFailedError) Is(target error) bool { return target == ErrDownloadFailed }

func (e *ChecksumVerificationError) Error() string {
	return fmt.Sprintf("checksum verification failed for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

func (e *ChecksumVerificationError) Is(target error) bool { return target == ErrChecksumMismatch }

func (e *NotMatchPackageManagerError) Error() string {
	return fmt.Sprintf("no matching package manager found: you ran %s but the current project is configured to use %s",
		e.Actual, e.Expected)
}

func (e *NotMatchPackageManagerError) Is(target error) bool { return target == ErrPackageManagerMismatch }

func (e *NotFoundDefaultError) Error() string {
	return fmt.Sprintf("no default %s version configured: run `snm %s default <version>`", e.Tool, e.Tool)
}

func (e *NotFoundDefaultError) Is(target error) bool { return target == ErrNoDefault }

func (e *VersionNotInstalledError) Error() string {
	return fmt.Sprintf("%s %s is not installed and the install strategy forbids installing it", e.Tool, e.Version)
}

func (e *VersionNotInstalledError) Is(target error) bool { return target == ErrVersionNotInstalled }

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("%s-%s not supported", e.OS, e.Arch)
}

func (e *UnsupportedPlatformError) Is(target error) bool { return target == ErrUnsupportedPlatform }

func (e *UnsupportedToolError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("unsupported tool %q", e.Name)
	}
	return fmt.Sprintf("unsupported tool %s@%s", e.Name, e.Version)
}

func (e *UnsupportedToolError) Is(target error) bool { return target == ErrUnsupportedTool }

func (e *UnsupportedCommandError) Error() string {
	return fmt.Sprintf("%s does not support %s", e.Variant, e.Intent)
}

func (e *UnsupportedCommandError) Is(target error) bool { return target == ErrUnsupportedCommand }

func (e *NotFoundBinError) Error() string {
	return fmt.Sprintf("binary %q not declared in %s", e.Bin, e.Path)
}

func (e *NotFoundBinError) Is(target error) bool { return target == ErrBinNotFound }

func (e *MultipleLockFilesError) Error() string {
	return fmt.Sprintf("multiple package manager lock files found: %s, remove the unnecessary ones",
		strings.Join(e.Files, ", "))
}

func (e *MultipleLockFilesError) Is(target error) bool { return target == ErrMultipleLockFiles }

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

func (e *SpawnError) Is(target error) bool { return target == ErrSpawnFailed }

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewResourceNotFoundError creates a new ResourceNotFoundError.
func NewResourceNotFoundError(url string) error {
	return &ResourceNotFoundError{URL: url}
}

// NewDownloadFailedError creates a new DownloadFailedError.
func NewDownloadFailedError(url string, attempts int, err error) error {
	return &DownloadFailedError{URL: url, Attempts: attempts, Err: err}
}

// NewChecksumVerificationError creates a new ChecksumVerificationError.
func NewChecksumVerificationError(path, expected, actual string) error {
	return &ChecksumVerificationError{Path: path, Expected: expected, Actual: actual}
}

// NewUnsupportedPlatformError creates a new UnsupportedPlatformError.
func NewUnsupportedPlatformError(os, arch string) error {
	return &UnsupportedPlatformError{OS: os, Arch: arch}
}

// NewUnsupportedCommandError creates a new UnsupportedCommandError.
func NewUnsupportedCommandError(variant, intent string) error {
	return &UnsupportedCommandError{Variant: variant, Intent: intent}
}
