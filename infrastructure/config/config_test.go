package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.RetryBaseDelay)
	assert.Equal(t, StorageDynamoDB, cfg.StorageDriver)
	assert.Nil(t, cfg.ChartSeed)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server_address: ":9090"
storage_driver: memory
cache_provider: redis
cache_ttl: 30s
chart_seed: 42
cors_allowed_origins:
  - https://app.example.com
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_ADDRESS", ":7070")
	t.Setenv("RETRY_BASE_DELAY", "250ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.ServerAddress, "env wins over file")
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, CacheRedis, cfg.CacheProvider)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryBaseDelay)
	require.NotNil(t, cfg.ChartSeed)
	assert.Equal(t, uint64(42), *cfg.ChartSeed)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad driver", map[string]string{"STORAGE_DRIVER": "sqlite"}},
		{"bad cache", map[string]string{"CACHE_PROVIDER": "memcached"}},
		{"bad seed", map[string]string{"CHART_SEED": "-1"}},
		{"production without secret", map[string]string{"ENVIRONMENT": "production"}},
		{"production with seed", map[string]string{"ENVIRONMENT": "production", "JWT_SECRET": "s", "CHART_SEED": "1"}},
		{"missing file", map[string]string{"CONFIG_FILE": "/does/not/exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
}
