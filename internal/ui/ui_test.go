package ui

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
)

func newBufferPrinter(t *testing.T) (*Printer, *bytes.Buffer) {
	t.Helper()

	saved := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = saved })

	var buf bytes.Buffer
	return New(&buf), &buf
}

func TestPrinterLines(t *testing.T) {
	tests := []struct {
		name  string
		print func(p *Printer)
		want  string
	}{
		{"step", func(p *Printer) { p.Step("downloading %s", "sf_17") }, " • downloading sf_17\n"},
		{"detail", func(p *Printer) { p.Detail("to %s", "./stockfish") }, "   └ to ./stockfish\n"},
		{"success", func(p *Printer) { p.Success("installed %s", "./stockfish") }, "✔ installed ./stockfish\n"},
		{"failure", func(p *Printer) { p.Failure("download failed") }, "✘ download failed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, buf := newBufferPrinter(t)
			tt.print(p)
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrinterDone(t *testing.T) {
	p, buf := newBufferPrinter(t)

	p.Done(time.Now(), nil)
	p.Done(time.Now(), errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "✔") {
		t.Errorf("success line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "✘") {
		t.Errorf("failure line = %q", lines[1])
	}
}

func TestProgressPassthroughWithoutTerminal(t *testing.T) {
	p, buf := newBufferPrinter(t)

	src := strings.NewReader("payload")
	r, finish := p.Progress(src, 7)
	data, err := io.ReadAll(r)
	finish()

	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("data = %q, want payload", data)
	}
	if r != io.Reader(src) {
		t.Error("reader should be returned unwrapped when not a terminal")
	}
	if buf.Len() != 0 {
		t.Errorf("no bar output expected, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	p := Discard()
	p.Step("nothing")
	p.Detail("nothing")
	p.Done(time.Now(), nil)
}
