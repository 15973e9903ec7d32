package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/sfinstall/internal/config"
)

func TestRunConfigInit(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	ctx := context.Background()

	if err := runConfigInit(ctx, nil); err != nil {
		t.Fatalf("runConfigInit() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, config.DefaultFile))
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), "stockfish = {") {
		t.Errorf("unexpected config content:\n%s", data)
	}

	// The generated file parses back to the defaults
	cfg, err := config.NewParser(nil).ParseString(ctx, strings.ReplaceAll(string(data), "platform.suggested_asset or ", ""))
	if err != nil {
		t.Fatalf("generated config does not parse: %v", err)
	}
	if cfg.Version != config.DefaultVersion {
		t.Errorf("Version = %q, want %q", cfg.Version, config.DefaultVersion)
	}

	if err := runConfigInit(ctx, nil); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second runConfigInit() error = %v, want already exists", err)
	}

	if err := runConfigInit(ctx, []string{"--force"}); err != nil {
		t.Errorf("runConfigInit(--force) error = %v", err)
	}
}

func TestRunConfigInitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "sfinstall.lua")

	if err := runConfigInit(context.Background(), []string{path}); err != nil {
		t.Fatalf("runConfigInit() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config not written at %s: %v", path, err)
	}

	if err := runConfigInit(context.Background(), []string{"a.lua", "b.lua"}); err == nil {
		t.Error("expected error for two paths")
	}
	if err := runConfigInit(context.Background(), []string{"--bogus"}); err == nil {
		t.Error("expected error for unknown option")
	}
}
