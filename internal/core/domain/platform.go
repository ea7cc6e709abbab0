package domain

import (
	"runtime"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Platform identifies a package subdirectory such as linux-64 or osx-arm64.
type Platform string

// Known platforms.
const (
	PlatformNoArch           Platform = "noarch"
	PlatformLinux32          Platform = "linux-32"
	PlatformLinux64          Platform = "linux-64"
	PlatformLinuxAarch64     Platform = "linux-aarch64"
	PlatformLinuxArmV6l      Platform = "linux-armv6l"
	PlatformLinuxArmV7l      Platform = "linux-armv7l"
	PlatformLinuxPpc64le     Platform = "linux-ppc64le"
	PlatformLinuxPpc64       Platform = "linux-ppc64"
	PlatformLinuxS390X       Platform = "linux-s390x"
	PlatformLinuxRiscv32     Platform = "linux-riscv32"
	PlatformLinuxRiscv64     Platform = "linux-riscv64"
	PlatformOsx64            Platform = "osx-64"
	PlatformOsxArm64         Platform = "osx-arm64"
	PlatformWin32            Platform = "win-32"
	PlatformWin64            Platform = "win-64"
	PlatformWinArm64         Platform = "win-arm64"
	PlatformEmscriptenWasm32 Platform = "emscripten-wasm32"
	PlatformWasiWasm32       Platform = "wasi-wasm32"
)

var knownPlatforms = []Platform{
	PlatformNoArch,
	PlatformLinux32,
	PlatformLinux64,
	PlatformLinuxAarch64,
	PlatformLinuxArmV6l,
	PlatformLinuxArmV7l,
	PlatformLinuxPpc64le,
	PlatformLinuxPpc64,
	PlatformLinuxS390X,
	PlatformLinuxRiscv32,
	PlatformLinuxRiscv64,
	PlatformOsx64,
	PlatformOsxArm64,
	PlatformWin32,
	PlatformWin64,
	PlatformWinArm64,
	PlatformEmscriptenWasm32,
	PlatformWasiWasm32,
}

// KnownPlatforms returns every platform ParsePlatform accepts.
func KnownPlatforms() []Platform {
	return slices.Clone(knownPlatforms)
}

// ParsePlatform validates s and returns it as a Platform.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.TrimSpace(s))
	if !slices.Contains(knownPlatforms, p) {
		return "", zerr.With(ErrInvalidPlatform, "platform", s)
	}
	return p, nil
}

// CurrentPlatform returns the platform of the running process.
// The second return value is false when the host has no platform equivalent.
func CurrentPlatform() (Platform, bool) {
	return platformFor(runtime.GOOS, runtime.GOARCH)
}

func platformFor(goos, goarch string) (Platform, bool) {
	switch goos + "/" + goarch {
	case "linux/386":
		return PlatformLinux32, true
	case "linux/amd64":
		return PlatformLinux64, true
	case "linux/arm64":
		return PlatformLinuxAarch64, true
	case "linux/arm":
		return PlatformLinuxArmV7l, true
	case "linux/ppc64le":
		return PlatformLinuxPpc64le, true
	case "linux/ppc64":
		return PlatformLinuxPpc64, true
	case "linux/s390x":
		return PlatformLinuxS390X, true
	case "linux/riscv64":
		return PlatformLinuxRiscv64, true
	case "darwin/amd64":
		return PlatformOsx64, true
	case "darwin/arm64":
		return PlatformOsxArm64, true
	case "windows/386":
		return PlatformWin32, true
	case "windows/amd64":
		return PlatformWin64, true
	case "windows/arm64":
		return PlatformWinArm64, true
	case "wasip1/wasm":
		return PlatformWasiWasm32, true
	default:
		return "", false
	}
}

// String returns the platform name.
func (p Platform) String() string {
	return string(p)
}

// IsLinux reports whether p is a linux platform.
func (p Platform) IsLinux() bool {
	return strings.HasPrefix(string(p), "linux-")
}

// IsOsx reports whether p is a macOS platform.
func (p Platform) IsOsx() bool {
	return strings.HasPrefix(string(p), "osx-")
}

// IsWindows reports whether p is a windows platform.
func (p Platform) IsWindows() bool {
	return strings.HasPrefix(string(p), "win-")
}

// IsUnix reports whether p is a linux or macOS platform.
func (p Platform) IsUnix() bool {
	return p.IsLinux() || p.IsOsx()
}

// PlatformSet is an unordered set of platforms.
// A nil PlatformSet on a Feature means the feature does not restrict platforms.
type PlatformSet map[Platform]struct{}

// NewPlatformSet creates a set holding the given platforms.
func NewPlatformSet(platforms ...Platform) PlatformSet {
	s := make(PlatformSet, len(platforms))
	for _, p := range platforms {
		s[p] = struct{}{}
	}
	return s
}

// Contains reports whether p is in the set.
func (s PlatformSet) Contains(p Platform) bool {
	_, ok := s[p]
	return ok
}

// Intersect returns a new set with the platforms present in both s and other.
func (s PlatformSet) Intersect(other PlatformSet) PlatformSet {
	out := make(PlatformSet)
	for p := range s {
		if other.Contains(p) {
			out[p] = struct{}{}
		}
	}
	return out
}

// Sorted returns the platforms ordered by name.
func (s PlatformSet) Sorted() []Platform {
	out := make([]Platform, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Strings returns the platform names ordered by name.
func (s PlatformSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, p := range sorted {
		out[i] = p.String()
	}
	return out
}
