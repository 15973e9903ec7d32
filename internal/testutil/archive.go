package testutil

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"strings"
	"testing"
)

// ArchiveFile is one regular file entry in a test archive.
type ArchiveFile struct {
	Name string
	Body string
	Mode int64
}

// TarArchive builds an uncompressed tar in memory. Entries whose name ends
// in "/" become directories.
func TarArchive(t *testing.T, files ...ArchiveFile) []byte {
	t.Helper()

	var buf bytes.Buffer
	writeTar(t, &buf, files)
	return buf.Bytes()
}

// TarGzArchive builds a gzip-compressed tar in memory.
func TarGzArchive(t *testing.T, files ...ArchiveFile) []byte {
	t.Helper()

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	writeTar(t, gzipWriter, files)
	if err := gzipWriter.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
	return buf.Bytes()
}

func writeTar(t *testing.T, w io.Writer, files []ArchiveFile) {
	t.Helper()

	tarWriter := tar.NewWriter(w)
	for _, f := range files {
		header := &tar.Header{
			Name:     f.Name,
			Mode:     f.Mode,
			Size:     int64(len(f.Body)),
			Typeflag: tar.TypeReg,
			Format:   tar.FormatUSTAR,
		}
		if header.Mode == 0 {
			header.Mode = 0o644
		}
		if strings.HasSuffix(f.Name, "/") {
			header.Typeflag = tar.TypeDir
			header.Mode = 0o755
			header.Size = 0
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			t.Fatalf("failed to write header for %s: %v", f.Name, err)
		}
		if header.Typeflag == tar.TypeReg {
			if _, err := tarWriter.Write([]byte(f.Body)); err != nil {
				t.Fatalf("failed to write content for %s: %v", f.Name, err)
			}
		}
	}
	if err := tarWriter.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
}

// ZipArchive builds a zip in memory.
func ZipArchive(t *testing.T, files ...ArchiveFile) []byte {
	t.Helper()

	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zipWriter.Create(f.Name)
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", f.Name, err)
		}
		if _, err := w.Write([]byte(f.Body)); err != nil {
			t.Fatalf("failed to write zip entry %s: %v", f.Name, err)
		}
	}
	if err := zipWriter.Close(); err != nil {
		t.Fatalf("failed to close zip writer: %v", err)
	}
	return buf.Bytes()
}
