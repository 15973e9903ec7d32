package main

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/ZebulonRouseFrantzich/sfinstall/internal/pkgmgr"
	"github.com/ZebulonRouseFrantzich/sfinstall/internal/platform"
)

// runDetect handles `sfinstall detect`
func runDetect(ctx context.Context, args []string) error {
	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			fmt.Println("Usage: sfinstall detect")
			fmt.Println()
			fmt.Println("Print the host platform, the first package manager found and")
			fmt.Println("the release asset matching this CPU.")
			return nil
		default:
			return fmt.Errorf("unknown option: %s", arg)
		}
	}

	info, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		return fmt.Errorf("detect platform: %w", err)
	}

	fmt.Printf("os:              %s/%s (%s)\n", info.OS, info.Arch, info.ArchRaw)
	if info.Platform != "" {
		fmt.Printf("distro:          %s %s (%s family)\n", info.Platform, info.Version, info.Family)
	}
	if info.CPU.Known {
		fmt.Printf("cpu:             %s (avx2=%t bmi2=%t popcnt=%t)\n",
			info.CPU.ModelName, info.CPU.AVX2, info.CPU.BMI2, info.CPU.POPCNT)
	}

	mgr, err := pkgmgr.Detect(exec.LookPath, pkgmgr.Auto)
	switch {
	case err == nil:
		fmt.Printf("package manager: %s (%s)\n", mgr.Name, mgr.Path)
	case errors.Is(err, pkgmgr.ErrNotFound):
		fmt.Println("package manager: none")
	default:
		return err
	}

	asset, err := platform.SuggestAsset(info)
	switch {
	case err == nil:
		fmt.Printf("release asset:   %s\n", asset)
	case errors.Is(err, platform.ErrUnsupportedPlatform):
		fmt.Println("release asset:   none for this platform")
	default:
		return err
	}
	return nil
}
