package platform

import (
	"strings"
)

// familyMap maps distribution IDs and gopsutil family strings to the
// canonical family names.
var familyMap = map[string]string{
	"debian":    FamilyDebian,
	"ubuntu":    FamilyDebian,
	"linuxmint": FamilyDebian,
	"pop":       FamilyDebian,
	"raspbian":  FamilyDebian,
	"rhel":      FamilyRHEL,
	"centos":    FamilyRHEL,
	"rocky":     FamilyRHEL,
	"almalinux": FamilyRHEL,
	"amazon":    FamilyRHEL,
	"fedora":    FamilyFedora,
	"suse":      FamilySUSE,
	"opensuse":  FamilySUSE,
	"sles":      FamilySUSE,
	"arch":      FamilyArch,
	"manjaro":   FamilyArch,
	"alpine":    FamilyAlpine,
}

// normalizeArch maps GOARCH or uname spellings onto "amd64" and "arm64",
// the only architectures with prebuilt engines. ok is false otherwise.
func normalizeArch(arch string) (normalized string, ok bool) {
	switch strings.ToLower(strings.TrimSpace(arch)) {
	case "amd64", "x86_64", "x86-64":
		return "amd64", true
	case "arm64", "aarch64", "armv8":
		return "arm64", true
	default:
		return "", false
	}
}

// releaseArch is the architecture spelling used in release asset names.
func releaseArch(arch string) string {
	switch arch {
	case "amd64":
		return "x86-64"
	case "arm64":
		return "armv8"
	default:
		return arch
	}
}

// normalizeID lowercases and trims a distribution ID or version.
func normalizeID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// mapFamily resolves the canonical family, trying the reported family
// first and the distribution ID second. Some hosts report no family, and
// derivatives (opensuse-leap, amzn) carry a suffix after the base name.
func mapFamily(family, platformID string) string {
	for _, candidate := range []string{family, platformID} {
		normalized := normalizeID(candidate)
		if normalized == "" {
			continue
		}
		if canonical, ok := familyMap[normalized]; ok {
			return canonical
		}
		if base, _, found := strings.Cut(normalized, "-"); found {
			if canonical, ok := familyMap[base]; ok {
				return canonical
			}
		}
	}
	if strings.HasPrefix(normalizeID(platformID), "amzn") {
		return FamilyRHEL
	}
	return FamilyUnknown
}
