package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing default file falls back to defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.HTTP.Addr)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "calobot.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9090"
redis:
  addr: "redis:6379"
  db: 2
log:
  level: debug
`), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.HTTP.Addr)
		assert.Equal(t, "redis:6379", cfg.Redis.Addr)
		assert.Equal(t, 2, cfg.Redis.DB)
		assert.Equal(t, "debug", cfg.Log.Level)
		// Untouched sections keep their defaults.
		assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.BaseURL)
	})

	t.Run("environment overrides win over the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "calobot.yaml")
		require.NoError(t, os.WriteFile(path, []byte("http:\n  addr: \":9090\"\n"), 0o644))

		t.Setenv("CALOBOT_HTTP_ADDR", ":7070")
		t.Setenv("CALOBOT_LLM_TOKEN", "sk-test")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":7070", cfg.HTTP.Addr)
		assert.Equal(t, "sk-test", cfg.LLM.Token)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "calobot.yaml")
		require.NoError(t, os.WriteFile(path, []byte("http: [not a map"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}
