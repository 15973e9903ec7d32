// Package installer puts a Stockfish engine on the host.
//
// Install prefers the host package manager. When the configured manager is
// not on PATH it fetches a prebuilt release archive instead, extracts the
// engine executable to the configured target and marks it executable.
// Every step is checked; the first failure is returned as a *StepError and
// success is only reported when all steps succeeded.
package installer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/ZebulonRouseFrantzich/sfinstall/internal/config"
	"github.com/ZebulonRouseFrantzich/sfinstall/internal/engine"
	"github.com/ZebulonRouseFrantzich/sfinstall/internal/pkgmgr"
	"github.com/ZebulonRouseFrantzich/sfinstall/internal/release"
	"github.com/ZebulonRouseFrantzich/sfinstall/internal/ui"
)

// Method is how the engine ended up installed.
type Method string

const (
	MethodPackage Method = "package"
	MethodFetch   Method = "fetch"
	MethodPresent Method = "present"
)

// StepRecord is one completed (or failed) step.
type StepRecord struct {
	Step     Step
	Duration time.Duration
	Err      error
}

// Result describes a finished install.
type Result struct {
	Method   Method
	Path     string
	Manager  string
	Identity *engine.Identity
	Duration time.Duration
	Steps    []StepRecord
}

// Downloader fetches a URL to a file.
type Downloader interface {
	DownloadToFile(ctx context.Context, url, destPath string) error
}

// ProbeFunc performs a UCI handshake against an engine executable.
type ProbeFunc func(ctx context.Context, path string) (*engine.Identity, error)

// Installer runs one install against a validated configuration.
type Installer struct {
	cfg        *config.Config
	lookPath   pkgmgr.LookPathFunc
	runner     pkgmgr.Runner
	downloader Downloader
	extractor  *release.Extractor
	probe      ProbeFunc
	logger     *slog.Logger
	printer    *ui.Printer
	userAgent  string
}

// Option configures an Installer.
type Option func(*Installer)

// WithLookPath replaces exec.LookPath for manager and engine detection.
func WithLookPath(fn pkgmgr.LookPathFunc) Option {
	return func(in *Installer) { in.lookPath = fn }
}

// WithRunner replaces the command runner used for package managers.
func WithRunner(r pkgmgr.Runner) Option {
	return func(in *Installer) { in.runner = r }
}

// WithDownloader replaces the release downloader.
func WithDownloader(d Downloader) Option {
	return func(in *Installer) { in.downloader = d }
}

// WithProbe replaces the UCI probe.
func WithProbe(fn ProbeFunc) Option {
	return func(in *Installer) { in.probe = fn }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(in *Installer) { in.logger = l }
}

// WithPrinter sets the user-facing progress printer.
func WithPrinter(p *ui.Printer) Option {
	return func(in *Installer) { in.printer = p }
}

// WithUserAgent sets the User-Agent of the default downloader.
func WithUserAgent(ua string) Option {
	return func(in *Installer) { in.userAgent = ua }
}

// New validates cfg and returns an Installer.
func New(cfg *config.Config, opts ...Option) (*Installer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	in := &Installer{
		cfg:       cfg,
		lookPath:  exec.LookPath,
		extractor: release.NewExtractor(),
		probe:     engine.Probe,
		logger:    slog.New(slog.DiscardHandler),
		printer:   ui.Discard(),
		userAgent: release.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(in)
	}

	if in.runner == nil {
		in.runner = &pkgmgr.ExecRunner{Logger: in.logger}
	}
	if in.downloader == nil {
		in.downloader = release.NewDownloader(
			release.WithTimeout(cfg.Timeout),
			release.WithRetries(cfg.Retries),
			release.WithUserAgent(in.userAgent),
			release.WithProgress(in.printer.Progress),
			release.WithLogger(in.logger),
		)
	}
	return in, nil
}

// Install runs detect, then the package or fetch branch.
func (in *Installer) Install(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{}
	defer func() { res.Duration = time.Since(start) }()

	mgr, err := pkgmgr.Detect(in.lookPath, in.cfg.PackageManager)
	switch {
	case err == nil:
		res.Manager = mgr.Name
		in.logger.Info("package manager found", "manager", mgr.Name, "path", mgr.Path)
		pkgErr := in.packageInstall(ctx, mgr, res)
		if pkgErr == nil {
			return res, nil
		}
		if !in.cfg.FallbackOnPackageFailure || ctx.Err() != nil {
			return res, pkgErr
		}
		in.logger.Warn("package install failed, falling back to release download", "error", pkgErr)
		in.printer.Detail("falling back to release download")
	case errors.Is(err, pkgmgr.ErrNotFound):
		in.logger.Info("no package manager, fetching release", "selection", in.cfg.PackageManager)
	default:
		return res, fmt.Errorf("detect package manager: %w", err)
	}

	if err := in.fetchInstall(ctx, res); err != nil {
		return res, err
	}
	return res, nil
}

// do runs one step, printing and recording it. A failure is wrapped in a
// *StepError.
func (in *Installer) do(res *Result, step Step, msg string, fn func() error) error {
	in.printer.Step("%s", msg)
	start := time.Now()

	err := fn()

	in.printer.Done(start, err)
	res.Steps = append(res.Steps, StepRecord{Step: step, Duration: time.Since(start), Err: err})
	if err != nil {
		in.logger.Debug("step failed", "step", step, "error", err)
		return &StepError{Step: step, Err: err}
	}
	in.logger.Debug("step done", "step", step, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
