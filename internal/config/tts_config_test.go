package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTTSConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadTTSConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTTSConfig(), cfg)
}

func TestLoadTTSConfigPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("voice: nova\nspeed: 1.25\nscript_temperature: 0.2\n"), 0o644))

	cfg, err := LoadTTSConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "nova", cfg.Voice)
	assert.InDelta(t, 1.25, cfg.Speed, 1e-9)
	assert.InDelta(t, 0.2, cfg.ScriptTemperature, 1e-6)
	assert.Equal(t, "gpt-4o-mini-tts", cfg.Model)
	assert.Equal(t, "gpt-4o-mini", cfg.ScriptModel)
}

func TestLoadTTSConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("voice: [unterminated\n"), 0o644))

	_, err := LoadTTSConfig(path)
	assert.Error(t, err)
}
