package engine

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

// TagPrefix prefixes every Stockfish release tag.
const TagPrefix = "sf_"

var numericVersion = regexp.MustCompile(`^\d+(\.\d+){0,2}$`)

// canonical turns "17" or "17.1" into "v17.0.0" or "v17.1.0".
func canonical(raw string) (string, error) {
	if !numericVersion.MatchString(raw) {
		return "", fmt.Errorf("not a release version: %q", raw)
	}
	v := semver.Canonical("v" + raw)
	if v == "" {
		return "", fmt.Errorf("not a release version: %q", raw)
	}
	return v, nil
}

// ParseVersion extracts the release version from a UCI engine name such as
// "Stockfish 17.1". Development builds ("Stockfish dev-20240101-abc") have
// none and return an error.
func ParseVersion(name string) (string, error) {
	fields := strings.Fields(name)
	for i, f := range fields {
		if strings.EqualFold(f, "stockfish") && i+1 < len(fields) {
			return canonical(fields[i+1])
		}
	}
	return "", fmt.Errorf("no version in engine name %q", name)
}

// TagVersion converts a release tag such as "sf_17" to "v17.0.0".
func TagVersion(tag string) (string, error) {
	if !strings.HasPrefix(tag, TagPrefix) {
		return "", fmt.Errorf("release tag %q lacks %q prefix", tag, TagPrefix)
	}
	return canonical(strings.TrimPrefix(tag, TagPrefix))
}

// Matches reports whether the engine identity is the release named by tag.
func Matches(id *Identity, tag string) bool {
	if id == nil || id.Version == "" {
		return false
	}
	want, err := TagVersion(tag)
	if err != nil {
		return false
	}
	return semver.Compare(id.Version, want) == 0
}

// Older reports whether the engine identity predates the release tag.
func Older(id *Identity, tag string) bool {
	if id == nil || id.Version == "" {
		return false
	}
	want, err := TagVersion(tag)
	if err != nil {
		return false
	}
	return semver.Compare(id.Version, want) < 0
}
