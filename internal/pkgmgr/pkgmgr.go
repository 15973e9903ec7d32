// Package pkgmgr knows how to drive host package managers non-interactively.
//
// A Manager describes the two commands the installer needs: one to refresh
// the package index and one to install a named package without prompting.
// Detection resolves a manager's command on PATH; execution goes through a
// Runner so tests never touch the host's real package database.
package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
)

// Selection values accepted besides a catalogue name.
const (
	// Auto tries every catalogue entry in order.
	Auto = "auto"
	// None disables the package-manager path.
	None = "none"
)

var (
	// ErrNotFound is returned when no selected manager is on PATH.
	ErrNotFound = errors.New("no package manager found")
	// ErrUnknown is returned for a manager name outside the catalogue.
	ErrUnknown = errors.New("unknown package manager")
)

// Manager describes one package manager.
type Manager struct {
	// Name is the catalogue key, also the executable looked up on PATH.
	Name string
	// RefreshArgs refresh the package index.
	RefreshArgs []string
	// InstallArgs install a package; the package name is appended.
	InstallArgs []string
	// Env is added to the environment of both commands.
	Env []string
}

// catalogue is ordered by preference for Auto detection.
var catalogue = []Manager{
	{
		Name:        "apt-get",
		RefreshArgs: []string{"update"},
		InstallArgs: []string{"install", "-y"},
		Env:         []string{"DEBIAN_FRONTEND=noninteractive"},
	},
	{
		Name:        "dnf",
		RefreshArgs: []string{"makecache"},
		InstallArgs: []string{"install", "-y"},
	},
	{
		Name:        "yum",
		RefreshArgs: []string{"makecache"},
		InstallArgs: []string{"install", "-y"},
	},
	{
		Name:        "apk",
		RefreshArgs: []string{"update"},
		InstallArgs: []string{"add", "--no-cache"},
	},
	{
		Name:        "pacman",
		RefreshArgs: []string{"-Sy"},
		InstallArgs: []string{"-S", "--noconfirm"},
	},
	{
		Name:        "brew",
		RefreshArgs: []string{"update"},
		InstallArgs: []string{"install"},
	},
}

// packagePattern rejects names that a manager could read as a flag.
var packagePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9+._-]*$`)

// Lookup returns the catalogue entry for name.
func Lookup(name string) (Manager, bool) {
	for _, m := range catalogue {
		if m.Name == name {
			return m, true
		}
	}
	return Manager{}, false
}

// Names returns the catalogue names in detection order.
func Names() []string {
	names := make([]string, 0, len(catalogue))
	for _, m := range catalogue {
		names = append(names, m.Name)
	}
	return names
}

// ValidSelection reports whether s is Auto, None or a catalogue name.
func ValidSelection(s string) bool {
	if s == Auto || s == None {
		return true
	}
	_, ok := Lookup(s)
	return ok
}

// ValidatePackage checks that pkg is safe to pass as a command argument.
func ValidatePackage(pkg string) error {
	if !packagePattern.MatchString(pkg) {
		return fmt.Errorf("invalid package name %q", pkg)
	}
	return nil
}

// LookPathFunc resolves an executable name to a path, like exec.LookPath.
type LookPathFunc func(file string) (string, error)

// Detected is a manager whose executable was found.
type Detected struct {
	Manager
	// Path is the resolved executable.
	Path string
}

// Detect resolves selection against PATH using lookPath (exec.LookPath when
// nil). None always yields ErrNotFound.
func Detect(lookPath LookPathFunc, selection string) (*Detected, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	var candidates []Manager
	switch selection {
	case None:
		return nil, fmt.Errorf("%w: package managers disabled", ErrNotFound)
	case Auto:
		candidates = catalogue
	default:
		m, ok := Lookup(selection)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknown, selection)
		}
		candidates = []Manager{m}
	}

	for _, m := range candidates {
		path, err := lookPath(m.Name)
		if err != nil {
			continue
		}
		return &Detected{Manager: m, Path: path}, nil
	}

	return nil, fmt.Errorf("%w (tried %s)", ErrNotFound, selection)
}

// Refresh runs the index refresh command.
func (d *Detected) Refresh(ctx context.Context, r Runner) error {
	if _, err := r.Run(ctx, d.Env, d.Path, d.RefreshArgs...); err != nil {
		return fmt.Errorf("%s refresh: %w", d.Name, err)
	}
	return nil
}

// Install runs the non-interactive install command for pkg.
func (d *Detected) Install(ctx context.Context, r Runner, pkg string) error {
	if err := ValidatePackage(pkg); err != nil {
		return err
	}

	args := append(append([]string{}, d.InstallArgs...), pkg)
	if _, err := r.Run(ctx, d.Env, d.Path, args...); err != nil {
		return fmt.Errorf("%s install %s: %w", d.Name, pkg, err)
	}
	return nil
}
