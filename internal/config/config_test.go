package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Load_missingFileReturnsDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if !assert.NoError(err) {
		return
	}

	assert.Equal(Default(), cfg)
}

func Test_Load_emptyPathReturnsDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load("")
	if !assert.NoError(err) {
		return
	}

	assert.Equal(Default(), cfg)
}

func Test_Load_readsTOMLFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "refa.toml")
	contents := `
cache_dir = "/tmp/custom-cache"
cache_driver = "sqlite"
listen = "0.0.0.0:9000"
token_secret = "supersecret"
verbose_errors = true
`
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write test config: %v", err)
	}

	cfg, err := Load(path)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("/tmp/custom-cache", cfg.CacheDir)
	assert.Equal("sqlite", cfg.CacheDriver)
	assert.Equal("0.0.0.0:9000", cfg.Listen)
	assert.Equal("supersecret", cfg.TokenSecret)
	assert.True(cfg.VerboseErrors)
}

func Test_applyEnv_overridesDefaults(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("REFA_CACHE_DIR", "/env/cache")
	t.Setenv("REFA_CACHE_DRIVER", "SQLITE")
	t.Setenv("REFA_LISTEN", "example.com:1234")
	t.Setenv("REFA_TOKEN_SECRET", "env-secret")
	t.Setenv("REFA_VERBOSE_ERRORS", "true")

	cfg := applyEnv(Default())

	assert.Equal("/env/cache", cfg.CacheDir)
	assert.Equal("sqlite", cfg.CacheDriver)
	assert.Equal("example.com:1234", cfg.Listen)
	assert.Equal("env-secret", cfg.TokenSecret)
	assert.True(cfg.VerboseErrors)
}

func Test_applyEnv_invalidBoolIsIgnored(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("REFA_VERBOSE_ERRORS", "not-a-bool")

	cfg := applyEnv(Default())

	assert.Equal(Default().VerboseErrors, cfg.VerboseErrors)
}
