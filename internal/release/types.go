package release

import (
	"net/url"
	"strings"
)

// Release identifies one downloadable engine archive.
type Release struct {
	// BaseURL is the download root, e.g.
	// https://github.com/official-stockfish/Stockfish/releases/download
	BaseURL string
	// Version is the release tag, e.g. "sf_17".
	Version string
	// Asset is the archive filename within the release.
	Asset string
	// Member is the archive entry holding the executable. Empty means the
	// asset name without its archive extension, matched by base name.
	Member string
}

// URL returns the asset download URL.
func (r Release) URL() string {
	return strings.TrimRight(r.BaseURL, "/") + "/" + url.PathEscape(r.Version) + "/" + url.PathEscape(r.Asset)
}

// MemberName returns the archive entry to extract.
func (r Release) MemberName() string {
	if r.Member != "" {
		return r.Member
	}
	return TrimArchiveExt(r.Asset)
}

// archiveExts is ordered so that .tar.gz is tried before .tar.
var archiveExts = []string{".tar.gz", ".tgz", ".tar", ".zip"}

// TrimArchiveExt strips a known archive extension from name.
func TrimArchiveExt(name string) string {
	for _, ext := range archiveExts {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}
