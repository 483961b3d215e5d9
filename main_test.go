package main

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/scanscript/source/builtins/kb"
	"github.com/tim-hardcastle/scanscript/source/settings"
	"github.com/tim-hardcastle/scanscript/source/storage"
)

func TestNewLogger(t *testing.T) {
	log, err := newLogger(settings.LogConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.Level)
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	_, err = newLogger(settings.LogConfig{Level: "loud", Format: "text"})
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	log, _ := test.NewNullLogger()
	ctx := context.Background()

	s, err := openStore(ctx, settings.StorageConfig{Backend: "memory"}, log)
	require.NoError(t, err)
	assert.IsType(t, &storage.Memory{}, s)

	s, err = openStore(ctx, settings.StorageConfig{Backend: "sql", SqlDriver: "SQLite", SqlDsn: ":memory:"}, log)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = openStore(ctx, settings.StorageConfig{Backend: "tape"}, log)
	assert.Error(t, err)
}

func TestRegistryHasEveryModule(t *testing.T) {
	log, hook := test.NewNullLogger()
	registry, err := newRegistry(settings.Default(), log, kb.New(storage.NewMemory()).Module())
	require.NoError(t, err)
	for name, module := range map[string]string{
		"aes128_cbc_encrypt": "crypto",
		"hexstr":             "misc",
		"get_kb_item":        "kb",
	} {
		got, ok := registry.Module(name)
		require.True(t, ok, name)
		assert.Equal(t, module, got)
	}
	assert.Empty(t, hook.AllEntries())
	assert.Empty(t, registry.Collisions())
}

func TestStrictRegistry(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := settings.Default()
	cfg.StrictRegistry = true
	k := kb.New(storage.NewMemory()).Module()
	_, err := newRegistry(cfg, log, k, k)
	assert.Error(t, err)
}
