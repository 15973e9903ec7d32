// Package platform detects the host the engine is being installed on.
//
// It reports OS, architecture, Linux distribution and the CPU features that
// decide which Stockfish build the host can run. Distribution and CPU
// details come from gopsutil. Detection failures for either are tolerated:
// the installer can still run with OS and architecture alone.
package platform

import (
	"context"
	"fmt"
)

// Canonical Linux distribution families.
const (
	FamilyDebian  = "debian"
	FamilyRHEL    = "rhel"
	FamilyFedora  = "fedora"
	FamilySUSE    = "suse"
	FamilyArch    = "arch"
	FamilyAlpine  = "alpine"
	FamilyUnknown = "unknown"
)

// Families lists the recognised families in a stable order.
var Families = []string{FamilyDebian, FamilyRHEL, FamilyFedora, FamilySUSE, FamilyArch, FamilyAlpine}

// Info describes the host.
type Info struct {
	OS       string // GOOS
	Arch     string // "amd64" or "arm64" when supported, GOARCH otherwise
	ArchRaw  string // GOARCH as reported
	Platform string // distribution ID, Linux only
	Family   string
	Version  string // distribution version, Linux only
	CPU      CPU
}

// CPU holds the instruction set extensions that select an engine build.
type CPU struct {
	ModelName string
	AVX2      bool
	BMI2      bool
	POPCNT    bool
	// Known is false when the CPU flags could not be read.
	Known bool
}

// Distro is the Linux distribution part of Info.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// Distro returns nil off Linux and when the distribution was not detected.
func (i *Info) Distro() *Distro {
	if !i.IsLinux() || i.Platform == "" {
		return nil
	}
	return &Distro{ID: i.Platform, Family: i.Family, Version: i.Version}
}

// InFamily reports whether the host runs a Linux distribution of family.
func (i *Info) InFamily(family string) bool {
	return i.IsLinux() && i.Family != "" && i.Family == family
}

func (i *Info) IsLinux() bool   { return i.OS == "linux" }
func (i *Info) IsMacOS() bool   { return i.OS == "darwin" }
func (i *Info) IsWindows() bool { return i.OS == "windows" }
func (i *Info) IsAMD64() bool   { return i.Arch == "amd64" }
func (i *Info) IsARM64() bool   { return i.Arch == "arm64" }

// IsAppleSilicon reports darwin/arm64.
func (i *Info) IsAppleSilicon() bool {
	return i.IsMacOS() && i.IsARM64()
}

// String renders the host as "linux/amd64 ubuntu 22.04".
func (i *Info) String() string {
	s := i.OS + "/" + i.Arch
	if d := i.Distro(); d != nil {
		s = fmt.Sprintf("%s %s %s", s, d.ID, d.Version)
	}
	return s
}

// Detector reports the host platform.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
