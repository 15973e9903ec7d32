package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/sfinstall/internal/pkgmgr"
	"github.com/ZebulonRouseFrantzich/sfinstall/internal/platform"
)

// DefaultTimeout bounds each download attempt.
const DefaultTimeout = 5 * time.Minute

// Config is the complete installer configuration.
type Config struct {
	// Version is the release tag, e.g. "sf_17".
	Version string `json:"version"`
	// Asset is the release asset filename.
	Asset string `json:"asset"`
	// Member is the archive entry holding the executable. Empty means the
	// asset name without its archive extension.
	Member string `json:"member,omitempty"`
	// BaseURL is the release download root; the tag and asset are appended.
	BaseURL string `json:"base_url"`

	// Package is the package-manager package name.
	Package string `json:"package"`
	// PackageManager is a catalogue name, "auto" or "none".
	PackageManager string `json:"package_manager"`
	// FallbackOnPackageFailure tries the fetch path when the package
	// manager exists but fails.
	FallbackOnPackageFailure bool `json:"fallback_on_package_failure,omitempty"`

	// Target is where the fetch path puts the executable.
	Target string `json:"target"`
	// Timeout bounds each download attempt.
	Timeout time.Duration `json:"timeout"`
	// Retries is the number of download retries after the first attempt.
	Retries int `json:"retries"`

	// SHA256 pins the archive digest (hex). Empty skips the check.
	SHA256 string `json:"sha256,omitempty"`
	// SignatureURL and Keyring enable OpenPGP verification when both set.
	SignatureURL string `json:"signature_url,omitempty"`
	Keyring      string `json:"keyring,omitempty"`

	// Probe runs a UCI handshake against the installed engine.
	Probe bool `json:"probe"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Version:        DefaultVersion,
		Asset:          platform.DefaultAsset,
		BaseURL:        DefaultBaseURL,
		Package:        DefaultPackage,
		PackageManager: DefaultPackageManager,
		Target:         DefaultTarget,
		Timeout:        DefaultTimeout,
		Retries:        DefaultRetries,
		Probe:          true,
	}
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

var (
	// versionPattern accepts release tags such as sf_17, sf_17.1 and sf_dev.
	versionPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)
	sha256Pattern  = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
)

// archiveExtensions are the asset suffixes the extractor understands.
var archiveExtensions = []string{".tar.gz", ".tgz", ".tar", ".zip"}

// Validate checks every field and returns the first *ValidationError.
func (c *Config) Validate() error {
	if !versionPattern.MatchString(c.Version) {
		return &ValidationError{Field: luaFieldVersion, Message: fmt.Sprintf("invalid release tag %q", c.Version)}
	}

	if err := validateAsset(c.Asset); err != nil {
		return &ValidationError{Field: luaFieldAsset, Message: err.Error()}
	}

	if c.Member != "" {
		if filepath.IsAbs(c.Member) || strings.Contains(c.Member, "..") {
			return &ValidationError{Field: luaFieldMember, Message: fmt.Sprintf("member must be a relative archive path: %q", c.Member)}
		}
	}

	if err := validateBaseURL(c.BaseURL); err != nil {
		return &ValidationError{Field: luaFieldBaseURL, Message: err.Error()}
	}

	if !pkgmgr.ValidSelection(c.PackageManager) {
		return &ValidationError{
			Field:   luaFieldPackageManager,
			Message: fmt.Sprintf("unknown package manager %q (want auto, none or one of %s)", c.PackageManager, strings.Join(pkgmgr.Names(), ", ")),
		}
	}

	if c.PackageManager != pkgmgr.None {
		if err := pkgmgr.ValidatePackage(c.Package); err != nil {
			return &ValidationError{Field: luaFieldPackage, Message: err.Error()}
		}
	}

	if c.Target == "" {
		return &ValidationError{Field: luaFieldTarget, Message: "target cannot be empty"}
	}
	if strings.HasSuffix(c.Target, string(filepath.Separator)) || strings.HasSuffix(c.Target, "/") {
		return &ValidationError{Field: luaFieldTarget, Message: fmt.Sprintf("target must be a file path: %q", c.Target)}
	}

	if c.Timeout <= 0 {
		return &ValidationError{Field: luaFieldTimeout, Message: "timeout must be positive"}
	}
	if c.Retries < 0 || c.Retries > 10 {
		return &ValidationError{Field: luaFieldRetries, Message: fmt.Sprintf("retries must be between 0 and 10, got %d", c.Retries)}
	}

	if c.SHA256 != "" && !sha256Pattern.MatchString(c.SHA256) {
		return &ValidationError{Field: luaFieldSHA256, Message: "sha256 must be 64 hex characters"}
	}

	if (c.SignatureURL == "") != (c.Keyring == "") {
		return &ValidationError{Field: luaFieldSignatureURL, Message: "signature_url and keyring must be set together"}
	}
	if c.SignatureURL != "" {
		if err := validateBaseURL(c.SignatureURL); err != nil {
			return &ValidationError{Field: luaFieldSignatureURL, Message: err.Error()}
		}
	}

	return nil
}

// validateAsset requires a bare filename with a known archive extension.
func validateAsset(asset string) error {
	if asset == "" {
		return fmt.Errorf("asset cannot be empty")
	}
	if strings.ContainsAny(asset, `/\`) || asset == "." || asset == ".." {
		return fmt.Errorf("asset must be a plain filename: %q", asset)
	}
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(asset, ext) {
			return nil
		}
	}
	return fmt.Errorf("asset %q has no supported archive extension (%s)", asset, strings.Join(archiveExtensions, ", "))
}

// validateBaseURL requires an absolute http(s) URL.
func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("URL must use https:// or http://: %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host: %q", raw)
	}
	return nil
}
