package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ZebulonRouseFrantzich/sfinstall/internal/testutil"
)

func TestProbe(t *testing.T) {
	dir := t.TempDir()
	path := testutil.FakeEngine(t, dir, "stockfish", "Stockfish 17")

	id, err := Probe(context.Background(), path)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}

	if id.Name != "Stockfish 17" {
		t.Errorf("Name = %q, want %q", id.Name, "Stockfish 17")
	}
	if id.Author != "the Stockfish developers" {
		t.Errorf("Author = %q", id.Author)
	}
	if id.Version != "v17.0.0" {
		t.Errorf("Version = %q, want v17.0.0", id.Version)
	}
	if got := id.String(); got != "Stockfish 17 by the Stockfish developers" {
		t.Errorf("String() = %q", got)
	}
}

func TestProbeDevBuild(t *testing.T) {
	path := testutil.FakeEngine(t, t.TempDir(), "stockfish", "Stockfish dev-20240101-abcdef")

	id, err := Probe(context.Background(), path)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if id.Version != "" {
		t.Errorf("Version = %q, want empty for a dev build", id.Version)
	}
}

func TestProbeFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "not an engine",
			body: `read -r line; echo "hello"`,
			want: "before uciok",
		},
		{
			name: "no name",
			body: `read -r line; echo "uciok"; read -r line`,
			want: "did not report its name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.FakeExecutable(t, t.TempDir(), "stockfish", tt.body)

			_, err := Probe(context.Background(), path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Probe() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestProbeTimeout(t *testing.T) {
	path := testutil.FakeExecutable(t, t.TempDir(), "stockfish", `while read -r line; do :; done`)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := Probe(ctx, path)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Probe() error = %v, want deadline exceeded", err)
	}
}

func TestProbeMissingBinary(t *testing.T) {
	if _, err := Probe(context.Background(), "/nonexistent/stockfish"); err == nil {
		t.Error("Probe() expected error for missing binary")
	}
}
