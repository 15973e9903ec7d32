package platform

import (
	"errors"
	"fmt"
)

// DefaultAsset is the release asset used when nothing better is known.
const DefaultAsset = "stockfish-ubuntu-x86-64-avx2.tar"

// ErrUnsupportedPlatform is returned when no prebuilt engine matches the host.
var ErrUnsupportedPlatform = errors.New("no prebuilt stockfish for this platform")

// SuggestAsset returns the Stockfish release asset that best matches the
// host. Hosts whose CPU flags are unknown get the AVX2 build on amd64.
func SuggestAsset(info *Info) (string, error) {
	if info == nil {
		return "", fmt.Errorf("platform info is required")
	}

	arch := releaseArch(info.Arch)
	switch {
	case info.IsLinux() && info.IsAMD64():
		return "stockfish-ubuntu-" + arch + x86Suffix(info.CPU) + ".tar", nil
	case info.IsLinux() && info.IsARM64():
		// Android armv8 builds are static and run on linux/arm64
		return "stockfish-android-" + arch + ".tar", nil
	case info.IsAppleSilicon():
		return "stockfish-macos-m1-apple-silicon.tar", nil
	case info.IsMacOS() && info.IsAMD64():
		return "stockfish-macos-" + arch + x86Suffix(info.CPU) + ".tar", nil
	case info.IsWindows() && info.IsAMD64():
		return "stockfish-windows-" + arch + x86Suffix(info.CPU) + ".zip", nil
	}

	return "", fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, info.OS, info.Arch)
}

// x86Suffix picks the build flavour for an x86-64 CPU.
func x86Suffix(c CPU) string {
	switch {
	case !c.Known, c.AVX2:
		return "-avx2"
	case c.BMI2:
		return "-bmi2"
	case c.POPCNT:
		return "-sse41-popcnt"
	default:
		return ""
	}
}
