package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/osl/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OSL_BASE_URL", "OSL_DEFAULT_TENANT_ID", "DEFAULT_TENANT_ID", "OSL_STORE", "OSL_STORE_PATH", "OSL_REDIS_URL", "OSL_STORE_KEY", "OSL_STORE_TTL", "OSL_MAX_BODY_BYTES"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, config.BackendFile, cfg.Store.Backend)
	assert.Equal(t, "osl:", cfg.Store.Prefix)
	assert.Equal(t, config.OutputText, cfg.Output)
	assert.Equal(t, "state.json", filepath.Base(cfg.Store.Path))
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "osl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://api.example.com
default_tenant_id: " 11111111-1111-1111-1111-111111111111 "
store:
  backend: Redis
  redis_url: redis://localhost:6379/0
  prefix: "demo:"
output: json
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", cfg.DefaultTenantID)
	assert.Equal(t, config.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "demo:", cfg.Store.Prefix)
	assert.Equal(t, config.OutputJSON, cfg.Output)
}

func TestLoad_JSON(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "osl.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"base_url":"http://backend:8000","store":{"backend":"memory"}}`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://backend:8000", cfg.BaseURL)
	assert.Equal(t, config.BackendMemory, cfg.Store.Backend)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte("base_url: http://file:1\n"), 0o644))

	t.Setenv("OSL_BASE_URL", "http://env:2")
	t.Setenv("DEFAULT_TENANT_ID", "legacy")
	t.Setenv("OSL_STORE_PATH", "/tmp/x.json")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://env:2", cfg.BaseURL)
	assert.Equal(t, "legacy", cfg.DefaultTenantID)
	assert.Equal(t, "/tmp/x.json", cfg.Store.Path)

	t.Setenv("OSL_DEFAULT_TENANT_ID", "preferred")
	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "preferred", cfg.DefaultTenantID)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := config.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("store: [\n"), 0o644))
	_, err = config.Load(bad)
	assert.Error(t, err)

	t.Setenv("OSL_STORE", "redis")
	_, err = config.Load(filepath.Join(dir, "none.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	cfg.Store.Backend = "etcd"
	assert.ErrorContains(t, cfg.Validate(), "unknown store backend")

	cfg = config.Default()
	cfg.Store.Backend = config.BackendRedis
	assert.ErrorContains(t, cfg.Validate(), "redis_url")

	cfg = config.Default()
	cfg.Output = "xml"
	assert.Error(t, cfg.Validate())

	cfg = config.Default()
	cfg.Store.FallbackKeys = []string{"old"}
	assert.ErrorContains(t, cfg.Validate(), "encryption_key")

	cfg = config.Default()
	cfg.Store.TTL = "soon"
	assert.ErrorContains(t, cfg.Validate(), "store.ttl")

	cfg = config.Default()
	cfg.Store.TTL = "-1h"
	assert.ErrorContains(t, cfg.Validate(), "store.ttl")

	cfg = config.Default()
	cfg.MaxBodyBytes = -1
	assert.ErrorContains(t, cfg.Validate(), "max_body_bytes")
}

func TestLoad_TTLAndBodyLimit(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "osl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_body_bytes: 1024\nstore:\n  ttl: 720h\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1024), cfg.MaxBodyBytes)
	ttl, err := cfg.Store.TTLDuration()
	require.NoError(t, err)
	assert.Equal(t, 720*time.Hour, ttl)

	t.Setenv("OSL_STORE_TTL", "90m")
	t.Setenv("OSL_MAX_BODY_BYTES", "2048")
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(2048), cfg.MaxBodyBytes)
	ttl, err = cfg.Store.TTLDuration()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, ttl)

	t.Setenv("OSL_MAX_BODY_BYTES", "lots")
	_, err = config.Load(path)
	assert.ErrorContains(t, err, "max_body_bytes")

	ttl, err = config.Default().Store.TTLDuration()
	require.NoError(t, err)
	assert.Zero(t, ttl)
}

func TestLoad_EncryptionKey(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "osl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  encryption_key: file-key\n  fallback_keys: [old-key]\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.Store.EncryptionKey)
	assert.Equal(t, []string{"old-key"}, cfg.Store.FallbackKeys)

	t.Setenv("OSL_STORE_KEY", " env-key ")
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Store.EncryptionKey)
}
