package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Solver.Path != "tw-exact" {
		t.Errorf("Solver.Path = %q, want default tw-exact", cfg.Solver.Path)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Cache.Backend = %q, want default file", cfg.Cache.Backend)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want default :8080", cfg.Server.Addr)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[solver]
path = "/opt/solvers/tw-exact"
args = ["-threads", "4"]
timeout = "45m"

[cache]
backend = "redis"
namespace = "lab"

[cache.redis]
addr = "redis.internal:6379"
db = 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Solver.Path != "/opt/solvers/tw-exact" {
		t.Errorf("Solver.Path = %q", cfg.Solver.Path)
	}
	if len(cfg.Solver.Args) != 2 || cfg.Solver.Args[0] != "-threads" {
		t.Errorf("Solver.Args = %v", cfg.Solver.Args)
	}
	if time.Duration(cfg.Solver.Timeout) != 45*time.Minute {
		t.Errorf("Solver.Timeout = %v, want 45m", time.Duration(cfg.Solver.Timeout))
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.Namespace != "lab" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.Redis.Addr != "redis.internal:6379" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("Cache.Redis = %+v", cfg.Cache.Redis)
	}

	// Unset fields keep their defaults
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want default preserved", cfg.Server.Addr)
	}
}

func TestLoadBadDuration(t *testing.T) {
	path := writeConfig(t, `
[solver]
timeout = "nonsense"
`)
	if _, err := Load(path); err == nil {
		t.Error("Load should fail on an unparseable duration")
	}
}

func TestLoadEnvOverridesSolver(t *testing.T) {
	path := writeConfig(t, `
[solver]
path = "from-file"
`)
	t.Setenv(EnvSolver, "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Solver.Path != "from-env" {
		t.Errorf("Solver.Path = %q, want env override", cfg.Solver.Path)
	}
}

func TestNewSolver(t *testing.T) {
	cfg := Default()
	cfg.Solver.Path = "/bin/true"
	cfg.Solver.Timeout = Duration(time.Minute)

	r := cfg.NewSolver(nil)
	if r.Path != "/bin/true" {
		t.Errorf("Path = %q", r.Path)
	}
	if r.Timeout != time.Minute {
		t.Errorf("Timeout = %v", r.Timeout)
	}
}

func TestNewCacheBackends(t *testing.T) {
	cfg := Default()

	cfg.Cache.Backend = "none"
	c, err := cfg.NewCache()
	if err != nil || c == nil {
		t.Fatalf("NewCache(none) = %v, %v", c, err)
	}
	c.Close()

	cfg.Cache.Backend = "file"
	cfg.Cache.Dir = t.TempDir()
	c, err = cfg.NewCache()
	if err != nil || c == nil {
		t.Fatalf("NewCache(file) = %v, %v", c, err)
	}
	c.Close()

	cfg.Cache.Backend = "sqlite"
	if _, err := cfg.NewCache(); err == nil {
		t.Error("NewCache should reject unknown backends")
	}
}
