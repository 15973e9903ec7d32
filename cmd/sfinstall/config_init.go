package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/sfinstall/internal/config"
)

// runConfigInit handles `sfinstall config init`
func runConfigInit(ctx context.Context, args []string) error {
	force := false
	var paths []string

	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			fmt.Println("Usage: sfinstall config init [--force] [path]")
			fmt.Println()
			fmt.Println("Write a default config (default path: ./sfinstall.lua).")
			return nil
		case "--force", "-f":
			force = true
		default:
			if len(arg) > 0 && arg[0] != '-' {
				paths = append(paths, arg)
			} else {
				return fmt.Errorf("unknown option: %s", arg)
			}
		}
	}

	if len(paths) > 1 {
		return fmt.Errorf("config init takes at most one path")
	}
	path := config.DefaultFile
	if len(paths) == 1 {
		path = paths[0]
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	content, err := config.NewGenerator().Generate(config.Default(), true)
	if err != nil {
		return fmt.Errorf("generate config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}
