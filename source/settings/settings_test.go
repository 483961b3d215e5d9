package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	path := filepath.Join(t.TempDir(), "scanscript.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
retry:
  max_attempts: 3
  initial_backoff: 10ms
storage:
  backend: sql
  sql_driver: SQLite
  sql_dsn: kb.db
log:
  level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 10*time.Millisecond, cfg.Retry.InitialBackoff)
	assert.Equal(t, 2*time.Second, cfg.Retry.MaxBackoff)
	assert.Equal(t, "SQLite", cfg.Storage.SqlDriver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestInvalid(t *testing.T) {
	for _, text := range []string{
		"retry:\n  max_attempts: 0\n",
		"retry:\n  initial_backoff: 5s\n  max_backoff: 1s\n",
		"storage:\n  backend: floppy\n",
		"storage:\n  backend: badger\n",
		"log:\n  format: xml\n",
		"retry: [",
	} {
		_, err := Load(writeConfig(t, text))
		assert.Error(t, err, text)
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
