package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-mclib/legacy/pkg/client"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "bot.yaml", `
username: farmer
host: mc.example.org
port: 25570
autoreconnect: 30s
auto_respawn: false
view_distance: 4
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "farmer", cfg.Username)
	assert.Equal(t, "mc.example.org", cfg.Host)
	assert.Equal(t, uint16(25570), cfg.Port)
	assert.Equal(t, "30s", cfg.Autoreconnect)
	assert.False(t, cfg.AutoRespawn)
	assert.Equal(t, int8(4), cfg.ViewDistance)
	// untouched keys keep their defaults
	assert.Equal(t, -1, cfg.MaxReconnectAttempts)
	assert.Equal(t, "en_US", cfg.Locale)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "bot.toml", `
username = "miner"
max_reconnect_attempts = 3
interactive = true
locale = "de_DE"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "miner", cfg.Username)
	assert.Equal(t, 3, cfg.MaxReconnectAttempts)
	assert.True(t, cfg.Interactive)
	assert.Equal(t, "de_DE", cfg.Locale)
	assert.Equal(t, client.DefaultHost, cfg.Host)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, file, body, want string
	}{
		{"unknown yaml key", "a.yaml", "hostname: x\n", "hostname"},
		{"unknown toml key", "a.toml", "hostname = \"x\"\n", "a.toml: strict mode"},
		{"bad duration", "a.yml", "autoreconnect: soon\n", "autoreconnect"},
		{"view distance", "a.toml", "view_distance = 64\n", "view_distance"},
		{"format", "a.json", "{}", "unsupported config format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Username = "a_name_that_is_too_long"
	cfg.Port = 0
	cfg.MaxReconnectAttempts = -5

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"username", "port", "max_reconnect_attempts"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestApply(t *testing.T) {
	cfg := Default()
	cfg.Username = "farmer"
	cfg.Port = 25570
	cfg.Autoreconnect = "0"
	cfg.ViewDistance = 12
	cfg.MaxLogLines = 50

	c := client.New()
	require.NoError(t, cfg.Apply(c))
	assert.Equal(t, "farmer", c.Username)
	assert.Equal(t, "127.0.0.1:25570", c.Address())
	assert.Equal(t, time.Duration(0), c.Autoreconnect)
	assert.Equal(t, int8(12), c.Settings.ViewDistance)
	assert.True(t, c.Settings.ChatColors)
	assert.Equal(t, 50, c.MaxLogLines)

	cfg.Port = 0
	assert.Error(t, cfg.Apply(c))
}
