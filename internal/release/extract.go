package release

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrMemberNotFound is returned when the archive has no matching entry.
var ErrMemberNotFound = errors.New("member not found in archive")

// Format is an archive container format.
type Format string

const (
	FormatUnknown Format = ""
	FormatTar     Format = "tar"
	FormatTarGz   Format = "tar.gz"
	FormatZip     Format = "zip"
)

// Extractor handles archive extraction
type Extractor struct{}

// NewExtractor creates a new extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// DetectFormat sniffs the archive format from its leading bytes.
func DetectFormat(header []byte) Format {
	switch {
	case len(header) >= 2 && header[0] == 0x1f && header[1] == 0x8b:
		return FormatTarGz
	case bytes.HasPrefix(header, []byte("PK\x03\x04")):
		return FormatZip
	case len(header) >= 262 && string(header[257:262]) == "ustar":
		return FormatTar
	default:
		return FormatUnknown
	}
}

// sniff reads the head of the file and rewinds it.
func sniff(f *os.File) (Format, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return FormatUnknown, fmt.Errorf("read archive header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return FormatUnknown, fmt.Errorf("rewind archive: %w", err)
	}
	return DetectFormat(buf[:n]), nil
}

// localEntry reports whether an archive entry stays inside the archive root.
// Entries that escape it are never extracted.
func localEntry(name string) bool {
	return filepath.IsLocal(filepath.FromSlash(name))
}

// matchMember reports whether an archive entry name selects member.
// A member containing a slash must match the entry path exactly; a bare
// name matches the entry's base name, with or without a .exe suffix.
func matchMember(entry, member string) bool {
	entry = strings.TrimPrefix(path.Clean(filepath.ToSlash(entry)), "./")
	if strings.Contains(member, "/") {
		return entry == path.Clean(member)
	}
	base := path.Base(entry)
	return base == member || base == member+".exe"
}

// ExtractMember writes the archive entry selected by member into destDir
// with mode 0755 and returns the written path. Only regular files match.
func (e *Extractor) ExtractMember(archivePath, member, destDir string) (string, error) {
	if member == "" {
		return "", fmt.Errorf("member name is required")
	}

	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	format, err := sniff(archiveFile)
	if err != nil {
		return "", err
	}

	switch format {
	case FormatTarGz:
		gzipReader, err := gzip.NewReader(archiveFile)
		if err != nil {
			return "", fmt.Errorf("create gzip reader: %w", err)
		}
		defer gzipReader.Close()
		return extractTarMember(tar.NewReader(gzipReader), member, destDir)
	case FormatTar:
		return extractTarMember(tar.NewReader(archiveFile), member, destDir)
	case FormatZip:
		info, err := archiveFile.Stat()
		if err != nil {
			return "", fmt.Errorf("stat archive: %w", err)
		}
		zipReader, err := zip.NewReader(archiveFile, info.Size())
		if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
			return "", fmt.Errorf("open zip: %w", err)
		}
		return extractZipMember(zipReader, member, destDir)
	default:
		return "", fmt.Errorf("unrecognized archive format: %s", filepath.Base(archivePath))
	}
}

func extractTarMember(tarReader *tar.Reader, member, destDir string) (string, error) {
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return "", fmt.Errorf("%w: %s", ErrMemberNotFound, member)
		}
		if err != nil && !errors.Is(err, tar.ErrInsecurePath) {
			return "", fmt.Errorf("read tar header: %w", err)
		}
		if !localEntry(header.Name) || header.Typeflag != tar.TypeReg || !matchMember(header.Name, member) {
			continue
		}
		return writeMember(tarReader, header.Name, destDir)
	}
}

func extractZipMember(zipReader *zip.Reader, member, destDir string) (string, error) {
	for _, f := range zipReader.File {
		if !localEntry(f.Name) || !f.Mode().IsRegular() || !matchMember(f.Name, member) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open zip entry %s: %w", f.Name, err)
		}
		defer rc.Close()
		return writeMember(rc, f.Name, destDir)
	}
	return "", fmt.Errorf("%w: %s", ErrMemberNotFound, member)
}

// writeMember copies r to destDir/<base of name>.
func writeMember(r io.Reader, name, destDir string) (string, error) {
	base := path.Base(filepath.ToSlash(name))
	// Security check: prevent path traversal
	if !filepath.IsLocal(base) {
		return "", fmt.Errorf("illegal file path: %s", name)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create dest dir: %w", err)
	}

	target := filepath.Join(destDir, base)
	outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(outFile, r); err != nil {
		outFile.Close()
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := outFile.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}
	return target, nil
}

// SetExecutable sets executable permissions on a file
func SetExecutable(path string) error {
	// Set permissions to 0755 (rwxr-xr-x)
	if err := os.Chmod(path, 0o755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}
