package platform

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect performs platform detection and returns platform information.
// It uses runtime.GOOS and runtime.GOARCH for OS and architecture and
// gopsutil for distribution and CPU details.
//
// If gopsutil cannot read the distribution or the CPU flags the matching
// fields are left empty and detection still succeeds. A cancelled context
// is always a hard failure.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:      runtime.GOOS,
		ArchRaw: runtime.GOARCH,
	}

	// Unsupported architectures keep the raw name; SuggestAsset rejects them
	info.Arch = runtime.GOARCH
	if arch, ok := normalizeArch(runtime.GOARCH); ok {
		info.Arch = arch
	}

	if runtime.GOOS == "linux" {
		platform, family, version, err := host.PlatformInformationWithContext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
			}
		} else if platform = normalizeID(platform); platform != "" {
			info.Platform = platform
			info.Family = mapFamily(family, platform)
			info.Version = normalizeID(version)
		}
	}

	stats, err := cpu.InfoWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}
	if len(stats) > 0 {
		info.CPU = cpuFromFlags(stats[0].ModelName, stats[0].Flags)
	}

	return info, nil
}

// cpuFromFlags builds a CPU from a /proc/cpuinfo style flag list.
func cpuFromFlags(model string, flags []string) CPU {
	c := CPU{
		ModelName: strings.TrimSpace(model),
		Known:     len(flags) > 0,
	}
	for _, flag := range flags {
		switch strings.ToLower(flag) {
		case "avx2":
			c.AVX2 = true
		case "bmi2":
			c.BMI2 = true
		case "popcnt":
			c.POPCNT = true
		}
	}
	return c
}
