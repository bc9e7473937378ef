package errors

import "fmt"

// Common error types.
var (
	// Config errors.
	ErrInvalidConfigPath      = fmt.Errorf("invalid config file path")
	ErrConfigParse            = fmt.Errorf("failed to parse config")
	ErrConfigValidation       = fmt.Errorf("invalid configuration")
	ErrUnknownInstallStrategy = fmt.Errorf("unknown install strategy")
	ErrInvalidPath            = fmt.Errorf("invalid path")
	ErrInvalidCredentials     = fmt.Errorf("invalid registry credentials")
	ErrEmptyConfigPath        = fmt.Errorf("config file path is empty")
	ErrConfigFileExists       = fmt.Errorf("config file already exists")
	ErrConfigWrite            = fmt.Errorf("failed to write config file")

	// Manifest errors.
	ErrManifestNotFound      = fmt.Errorf("package.json not found")
	ErrManifestParse         = fmt.Errorf("failed to parse package.json")
	ErrNoPackageManager      = fmt.Errorf("no packageManager declared in package.json")
	ErrInvalidPackageManager = fmt.Errorf("invalid packageManager declaration")
	ErrNodeVersionNotFound   = fmt.Errorf(".node-version not found")
	ErrMultipleLockFiles     = fmt.Errorf("multiple package manager lock files found")

	// Tool errors.
	ErrUnsupportedTool     = fmt.Errorf("unsupported tool")
	ErrUnsupportedPlatform = fmt.Errorf("unsupported platform")
	ErrUnsupportedCommand  = fmt.Errorf("unsupported command")
	ErrBinNotFound         = fmt.Errorf("binary not found in package")

	// Network errors.
	ErrResourceNotFound = fmt.Errorf("resource not found")
	ErrDownloadFailed   = fmt.Errorf("download failed")

	// Integrity errors.
	ErrChecksumMismatch = fmt.Errorf("checksum mismatch")
	ErrChecksumNotFound = fmt.Errorf("expected checksum not found")

	// State errors.
	ErrPackageManagerMismatch = fmt.Errorf("package manager mismatch")
	ErrNoDefault              = fmt.Errorf("no default version")
	ErrVersionNotInstalled    = fmt.Errorf("version not installed")
	ErrInstallDeclined        = fmt.Errorf("install declined")
	ErrInterrupted            = fmt.Errorf("interrupted")

	// Process errors.
	ErrSpawnFailed = fmt.Errorf("failed to start process")

	// Hook errors.
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")

	// Ledger errors.
	ErrLedgerOpen = fmt.Errorf("failed to open install ledger")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
