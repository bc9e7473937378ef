package fsutil

// File and directory permission constants used for everything snm writes
// under its base directory.
const (
	FileModeDefault = 0o644 // -rw-r--r--: anchors, ledger, lock files
	FileModeSecure  = 0o640 // -rw-r-----: downloaded archives
	FileModeExec    = 0o755 // -rwxr-xr-x: package manager entry points

	DirModeDefault = 0o755 // drwxr-xr-x: tool and version directories
	DirModeSecure  = 0o750 // drwxr-x---: download directory
)
