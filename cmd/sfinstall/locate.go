package main

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/ZebulonRouseFrantzich/sfinstall/internal/config"
	"github.com/ZebulonRouseFrantzich/sfinstall/internal/engine"
)

// runLocate handles `sfinstall locate`
func runLocate(ctx context.Context, args []string) error {
	target := config.DefaultTarget
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help", "-h":
			fmt.Println("Usage: sfinstall locate [--target <path>]")
			fmt.Println()
			fmt.Println("Find the Stockfish executable on PATH, in distribution locations")
			fmt.Println("or at the target, and print its UCI identity.")
			return nil
		case "--target":
			if i+1 >= len(args) {
				return fmt.Errorf("option --target requires a value")
			}
			i++
			target = args[i]
		default:
			return fmt.Errorf("unknown option: %s", args[i])
		}
	}

	path, err := engine.Locate(exec.LookPath, target)
	if err != nil {
		return err
	}

	id, err := engine.Probe(ctx, path)
	if err != nil {
		return fmt.Errorf("probe %s: %w", path, err)
	}

	fmt.Println(path)
	fmt.Printf("  %s\n", id)
	if id.Version != "" {
		fmt.Printf("  version %s\n", id.Version)
	}
	return nil
}
