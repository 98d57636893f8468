// Package config loads configuration for the refa tools (the batch CLI, the
// HTTP server, and the interactive shell) from a TOML file on disk, with
// environment variable overrides.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds every setting shared by cmd/refa, cmd/refaserve, and
// cmd/refai.
type Config struct {
	// CacheDir is the directory the on-disk compiled-pattern cache stores its
	// data in. Only meaningful when CacheDriver is "sqlite".
	CacheDir string `toml:"cache_dir"`

	// CacheDriver selects the cache.Store backend: "inmem" or "sqlite".
	CacheDriver string `toml:"cache_driver"`

	// Listen is the HTTP bind address used by cmd/refaserve.
	Listen string `toml:"listen"`

	// TokenSecret is the HMAC secret used to sign JWTs issued by the HTTP
	// server.
	TokenSecret string `toml:"token_secret"`

	// VerboseErrors, when true, causes the CLI driver to print the full Go
	// error chain (via %+v-style unwrapping) rather than only the top-level
	// message.
	VerboseErrors bool `toml:"verbose_errors"`
}

// Default returns the zero-config defaults: an in-memory cache, the HTTP
// server bound to localhost:8080, and terse error output.
func Default() Config {
	return Config{
		CacheDir:      "./refa-cache",
		CacheDriver:   "inmem",
		Listen:        "localhost:8080",
		TokenSecret:   "DEFAULT_REFA_TOKEN_SECRET-DO_NOT_USE_IN_PROD!",
		VerboseErrors: false,
	}
}

// Load reads a TOML config file at path and applies REFA_* environment
// variable overrides on top. If path does not exist, Load returns
// Default() (with environment overrides still applied) and a nil error;
// any other read or parse error is returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return applyEnv(cfg), nil
			}
			return Config{}, err
		}

		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	return applyEnv(cfg), nil
}

// applyEnv overlays REFA_* environment variables onto cfg, mirroring the
// teacher's TUNAQUEST_* convention.
func applyEnv(cfg Config) Config {
	if v, ok := os.LookupEnv("REFA_CACHE_DIR"); ok {
		cfg.CacheDir = v
	}
	if v, ok := os.LookupEnv("REFA_CACHE_DRIVER"); ok {
		cfg.CacheDriver = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv("REFA_LISTEN"); ok {
		cfg.Listen = v
	}
	if v, ok := os.LookupEnv("REFA_TOKEN_SECRET"); ok {
		cfg.TokenSecret = v
	}
	if v, ok := os.LookupEnv("REFA_VERBOSE_ERRORS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.VerboseErrors = b
		}
	}
	return cfg
}
