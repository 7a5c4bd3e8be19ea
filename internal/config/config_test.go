package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("CATALOG_SOURCE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL())
	assert.Equal(t, 100, cfg.Cache.MaxEntries)
	assert.Equal(t, CatalogSourceEmbedded, cfg.Catalog.Source)
	assert.Equal(t, int64(10001), cfg.Tickets.StartNumber)
	assert.Equal(t, 20*time.Second, cfg.LLM.Timeout())
	assert.Empty(t, cfg.LLM.GoogleAPIKey)
}

func TestLoadIgnoresPlaceholderKeys(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "your_google_api_key_here")
	t.Setenv("OPENAI_API_KEY", "sk-real")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.LLM.GoogleAPIKey)
	assert.Equal(t, "sk-real", cfg.LLM.OpenAIAPIKey)
}

func TestLoadRejectsBadSettings(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memcached")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CATALOG_SOURCE", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("CATALOG_SOURCE", "file")
	t.Setenv("CATALOG_PATH", "")
	_, err = Load()
	require.Error(t, err)
}

func TestAddrAndTimeouts(t *testing.T) {
	app := AppConfig{Host: "127.0.0.1", Port: "9000", RequestTimeoutSeconds: 0}
	assert.Equal(t, "127.0.0.1:9000", app.Addr())
	assert.Zero(t, app.RequestTimeout())

	app.RequestTimeoutSeconds = 3
	assert.Equal(t, 3*time.Second, app.RequestTimeout())
}
