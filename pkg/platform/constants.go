package platform

// Operating system names as they appear in Node.js distribution file names.
const (
	OSLinux   = "linux"
	OSDarwin  = "darwin"
	OSWindows = "win"
)

// Architecture names as they appear in Node.js distribution file names.
const (
	ArchX64     = "x64"
	ArchX86     = "x86"
	ArchARM64   = "arm64"
	ArchARMv7   = "armv7l"
	ArchPPC64LE = "ppc64le"
	ArchS390X   = "s390x"
)
