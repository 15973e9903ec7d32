package testutil_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/sfinstall/internal/testutil"
)

func TestIsolatedPath(t *testing.T) {
	dir := testutil.IsolatedPath(t)

	if got := os.Getenv("PATH"); got != dir {
		t.Errorf("PATH = %q, want %q", got, dir)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("path %s is not absolute", dir)
	}
	if _, err := exec.LookPath("sh"); err == nil {
		t.Error("sh should not resolve on an isolated PATH")
	}
}

func TestFakeExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes are not supported on windows")
	}

	dir := testutil.IsolatedPath(t)
	path := testutil.FakeExecutable(t, dir, "apt-get", `echo "fake $*"`)

	resolved, err := exec.LookPath("apt-get")
	if err != nil {
		t.Fatalf("LookPath() error = %v", err)
	}
	if resolved != path {
		t.Errorf("LookPath() = %q, want %q", resolved, path)
	}

	out, err := exec.Command(path, "update").Output()
	if err != nil {
		t.Fatalf("running fake failed: %v", err)
	}
	if string(out) != "fake update\n" {
		t.Errorf("output = %q, want %q", out, "fake update\n")
	}
}

func TestArchives(t *testing.T) {
	files := []testutil.ArchiveFile{
		{Name: "stockfish/"},
		{Name: "stockfish/stockfish-ubuntu-x86-64-avx2", Body: "ENGINE"},
	}

	tarData := testutil.TarArchive(t, files...)
	if len(tarData) < 262 || string(tarData[257:262]) != "ustar" {
		t.Error("tar archive lacks ustar magic")
	}

	gzData := testutil.TarGzArchive(t, files...)
	if len(gzData) < 2 || gzData[0] != 0x1f || gzData[1] != 0x8b {
		t.Error("tar.gz archive lacks gzip magic")
	}

	zipData := testutil.ZipArchive(t, files[1:]...)
	if !strings.HasPrefix(string(zipData), "PK\x03\x04") {
		t.Error("zip archive lacks local header magic")
	}
}

func TestFakeEngine(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes are not supported on windows")
	}

	path := testutil.FakeEngine(t, t.TempDir(), "stockfish", "Stockfish 17")

	cmd := exec.Command(path)
	cmd.Stdin = strings.NewReader("uci\nquit\n")
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("running fake engine failed: %v", err)
	}

	want := "id name Stockfish 17\nid author the Stockfish developers\nuciok\n"
	if string(out) != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}
