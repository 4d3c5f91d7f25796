package cli

import (
	"context"
	"testing"

	"github.com/matzehuels/topowidth/internal/config"
	"github.com/matzehuels/topowidth/pkg/buildinfo"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()

	want := []string{"analyze", "encode", "decode", "validate", "render", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCmd()

	if root.Version != buildinfo.Version {
		t.Errorf("root.Version = %q, want %q", root.Version, buildinfo.Version)
	}
}

func TestConfigContext(t *testing.T) {
	cfg := config.Default()
	cfg.Solver.Path = "custom-solver"

	ctx := withConfig(context.Background(), cfg)
	got := configFromContext(ctx)

	if got != cfg {
		t.Error("configFromContext should return the attached configuration")
	}
	if got.Solver.Path != "custom-solver" {
		t.Errorf("Solver.Path = %q, want %q", got.Solver.Path, "custom-solver")
	}
}

func TestConfigFromContextDefault(t *testing.T) {
	got := configFromContext(context.Background())

	if got == nil {
		t.Fatal("configFromContext should fall back to defaults, not nil")
	}
	if got.Solver.Path == "" {
		t.Error("default configuration should name a solver binary")
	}
}

func TestNewRunnerNoCache(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()

	runner, err := newRunner(ctx, cfg, true)
	if err != nil {
		t.Fatalf("newRunner() error: %v", err)
	}
	defer runner.Close()

	if runner.Solver == nil {
		t.Error("runner should carry a solver")
	}
	if runner.Cache == nil {
		t.Error("runner should carry a cache even with caching disabled")
	}
}

func TestNewRunnerRejectsUnknownBackend(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Cache.Backend = "carrier-pigeon"

	if _, err := newRunner(ctx, cfg, false); err == nil {
		t.Error("newRunner should reject an unknown cache backend")
	}
}
