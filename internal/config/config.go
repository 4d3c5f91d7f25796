// Package config loads the topowidth configuration file and builds the
// solver and cache the rest of the tool runs with. Configuration lives in
// a TOML file, defaults cover every field, and a couple of environment
// variables override the file for scripted runs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/topowidth/pkg/cache"
	"github.com/matzehuels/topowidth/pkg/solver"
)

// EnvSolver overrides the configured solver path when set.
const EnvSolver = "TOPOWIDTH_SOLVER"

// Duration wraps time.Duration so TOML files can write "30m" or "1h".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Config is the full topowidth configuration.
type Config struct {
	Solver SolverConfig `toml:"solver"`
	Cache  CacheConfig  `toml:"cache"`
	Paths  PathsConfig  `toml:"paths"`
	Server ServerConfig `toml:"server"`
}

// SolverConfig describes the external solver binary.
type SolverConfig struct {
	Path          string   `toml:"path"`
	Args          []string `toml:"args"`
	Timeout       Duration `toml:"timeout"`
	KeepArtifacts bool     `toml:"keep_artifacts"`
	ArtifactDir   string   `toml:"artifact_dir"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend   string      `toml:"backend"`
	Dir       string      `toml:"dir"`
	Namespace string      `toml:"namespace"`
	Redis     RedisConfig `toml:"redis"`
}

// RedisConfig holds connection details for the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// PathsConfig holds default input and output locations.
type PathsConfig struct {
	Data   string `toml:"data"`
	Output string `toml:"output"`
}

// ServerConfig configures the API server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = "."
	}
	return &Config{
		Solver: SolverConfig{
			Path:    "tw-exact",
			Timeout: Duration(30 * time.Minute),
		},
		Cache: CacheConfig{
			Backend: "file",
			Dir:     filepath.Join(cacheDir, "topowidth"),
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Paths: PathsConfig{
			Data:   "data",
			Output: "output",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// DefaultPath returns the standard location of the configuration file.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "topowidth.toml"
	}
	return filepath.Join(dir, "topowidth", "config.toml")
}

// Load reads the configuration at path, layering it over the defaults.
// An empty path means [DefaultPath], and a missing file is not an error -
// the defaults simply apply. Environment overrides come last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if s := os.Getenv(EnvSolver); s != "" {
		cfg.Solver.Path = s
	}

	return cfg, nil
}

// NewSolver builds the solver runner this configuration describes.
func (c *Config) NewSolver(logger *log.Logger) *solver.Runner {
	r := solver.NewRunner(c.Solver.Path)
	r.Args = c.Solver.Args
	r.Timeout = time.Duration(c.Solver.Timeout)
	r.KeepArtifacts = c.Solver.KeepArtifacts
	r.ArtifactDir = c.Solver.ArtifactDir
	if logger != nil {
		r.Logger = logger
	}
	return r
}

// NewCache builds the cache backend this configuration describes. The
// namespace, when set, scopes all keys - mainly for shared Redis servers.
func (c *Config) NewCache() (cache.Cache, error) {
	var (
		backend cache.Cache
		err     error
	)
	switch c.Cache.Backend {
	case "", "file":
		backend, err = cache.NewFileCache(c.Cache.Dir)
	case "redis":
		backend, err = cache.NewRedisCache(c.Cache.Redis.Addr, c.Cache.Redis.Password, c.Cache.Redis.DB)
	case "none":
		backend = cache.NewNullCache()
	default:
		return nil, fmt.Errorf("unknown cache backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if err != nil {
		return nil, err
	}
	return cache.NewScoped(backend, c.Cache.Namespace), nil
}
