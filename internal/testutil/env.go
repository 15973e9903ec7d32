// Package testutil provides helpers for running the installer in tests
// without touching the host's package managers or engine installs.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// IsolatedPath replaces PATH with a fresh empty directory and returns it.
// Executables written there with FakeExecutable are the only commands the
// code under test can resolve.
func IsolatedPath(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create fake bin dir: %v", err)
	}
	t.Setenv("PATH", dir)
	return dir
}

// FakeExecutable writes a /bin/sh script named name into dir and returns its
// path. Tests using it are skipped on Windows.
func FakeExecutable(t *testing.T, dir, name, body string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes are not supported on windows")
	}

	path := filepath.Join(dir, name)
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write fake executable %s: %v", name, err)
	}
	return path
}
