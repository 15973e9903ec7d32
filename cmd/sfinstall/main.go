package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches a subcommand. No arguments means install.
func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return runInstall(ctx, nil)
	}

	switch args[0] {
	case "--version", "version":
		fmt.Printf("sfinstall %s\n", Version)
		return nil
	case "--help", "-h", "help":
		printHelp()
		return nil
	case "install":
		return runInstall(ctx, args[1:])
	case "locate":
		return runLocate(ctx, args[1:])
	case "detect":
		return runDetect(ctx, args[1:])
	case "config":
		if len(args) < 2 {
			return fmt.Errorf("config subcommand requires an action\nUsage: sfinstall config init [--force] [path]")
		}
		switch args[1] {
		case "init":
			return runConfigInit(ctx, args[2:])
		default:
			return fmt.Errorf("unknown config action: %s\nUsage: sfinstall config init [--force] [path]", args[1])
		}
	default:
		// Flags without a subcommand belong to install
		if len(args[0]) > 0 && args[0][0] == '-' {
			return runInstall(ctx, args)
		}
		return fmt.Errorf("unknown command: %s\nRun 'sfinstall --help' for usage", args[0])
	}
}

func printHelp() {
	fmt.Println("sfinstall - install the Stockfish chess engine")
	fmt.Println()
	fmt.Println("Uses the host package manager when present, otherwise downloads")
	fmt.Println("a prebuilt release and installs it at ./stockfish.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sfinstall [install] [options]     Install the engine (default)")
	fmt.Println("  sfinstall locate                  Show the installed engine and its identity")
	fmt.Println("  sfinstall detect                  Show platform, package manager and release asset")
	fmt.Println("  sfinstall config init [path]      Write a default sfinstall.lua")
	fmt.Println("  sfinstall --version               Show version information")
	fmt.Println()
	fmt.Println("Run 'sfinstall install --help' for install options.")
}
