package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graficador.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
store:
  backend: redis
  redis:
    addr: redis:6379
    db: 2
    ttl: 24h
http:
  addr: 127.0.0.1:9000
export:
  target: flutter
  project: my_app
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, 24*time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, "graficador:design:", cfg.Store.Redis.Prefix, "unset keys keep defaults")
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, "flutter", cfg.Export.Target)
	assert.Equal(t, "my_app", cfg.Export.Project)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "log_level: debug\n")
	t.Setenv("GRAFICADOR_LOG_LEVEL", "warn")
	t.Setenv("GRAFICADOR_STORE_BACKEND", "memory")
	t.Setenv("GRAFICADOR_REDIS_TTL", "90s")
	t.Setenv("GRAFICADOR_EXPORT_TARGET", "flutter")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 90*time.Second, cfg.Store.Redis.TTL)
	assert.Equal(t, "flutter", cfg.Export.Target)
}

func TestLoad_BadEnv(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("GRAFICADOR_REDIS_DB", "two")

	_, err := Load(path)
	assert.ErrorContains(t, err, "GRAFICADOR_REDIS_DB")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "Unknown backend", mutate: func(c *Config) { c.Store.Backend = "s3" }, field: "store.backend"},
		{name: "File backend without dir", mutate: func(c *Config) { c.Store.Dir = "" }, field: "store.dir"},
		{name: "Bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, field: "log_level"},
		{name: "Unknown target", mutate: func(c *Config) { c.Export.Target = "react" }, field: "export.target"},
		{name: "Bad http addr", mutate: func(c *Config) { c.HTTP.Addr = "localhost" }, field: "http.addr"},
		{name: "Redis db out of range", mutate: func(c *Config) { c.Store.Redis.DB = 16 }, field: "redis.db"},
		{name: "Negative ttl", mutate: func(c *Config) { c.Store.Redis.TTL = -time.Second }, field: "redis.ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_MemoryBackendNeedsNoDir(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = BackendMemory
	cfg.Store.Dir = ""
	assert.NoError(t, cfg.Validate())
}
