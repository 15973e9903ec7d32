// Package ui prints the installer's user-facing progress: one line per
// step, indented details beneath it, and a transfer bar for downloads
// when attached to a terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	stepMark = color.New(color.FgBlue)
	faint    = color.New(color.FgHiBlack)
	okMark   = color.New(color.FgGreen)
	failMark = color.New(color.FgRed)
)

// Printer writes progress lines to an output stream.
type Printer struct {
	out      io.Writer
	terminal bool
}

// New returns a Printer writing to out. Progress bars are drawn only when
// out is a terminal.
func New(out io.Writer) *Printer {
	p := &Printer{out: out}
	if f, ok := out.(*os.File); ok {
		p.terminal = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return p
}

// Discard returns a Printer that prints nothing.
func Discard() *Printer {
	return &Printer{out: io.Discard}
}

// Step announces a top-level step.
func (p *Printer) Step(format string, args ...any) {
	fmt.Fprintln(p.out, stepMark.Sprint(" •"), faint.Sprintf(format, args...))
}

// Detail prints a line under the current step.
func (p *Printer) Detail(format string, args ...any) {
	fmt.Fprintln(p.out, faint.Sprint("   └"), faint.Sprintf(format, args...))
}

// Done reports the outcome of the current step and how long it took.
func (p *Printer) Done(start time.Time, err error) {
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		fmt.Fprintln(p.out, failMark.Sprintf("     ✘ %s", elapsed))
		return
	}
	fmt.Fprintln(p.out, okMark.Sprintf("     ✔ %s", elapsed))
}

// Success prints the final success line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.out, okMark.Sprint("✔"), fmt.Sprintf(format, args...))
}

// Failure prints the final failure line.
func (p *Printer) Failure(format string, args ...any) {
	fmt.Fprintln(p.out, failMark.Sprint("✘"), fmt.Sprintf(format, args...))
}

// Progress wraps reader to display a transfer bar when printing to a
// terminal. It returns the wrapped reader and a function that finalizes
// the bar. It matches release.ProgressFunc.
func (p *Printer) Progress(reader io.Reader, size int64) (io.Reader, func()) {
	if !p.terminal {
		return reader, func() {}
	}

	bar := pb.
		New64(size).
		SetTemplate(
			pb.ProgressBarTemplate(
				faint.Sprint(
					`   └ {{counters . }}` +
						` {{bar . "[" "=" ">" " " "]" }} {{percent . }}` +
						` {{speed . }}`,
				),
			),
		).
		SetWriter(p.out).
		SetRefreshRate(time.Second / 60).
		SetMaxWidth(100).
		Start()

	return bar.NewProxyReader(reader), func() { bar.Finish() }
}
