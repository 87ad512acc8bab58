package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "0.0.0.0", cfg.BindAddress)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "gosu.local", cfg.Domain)
	assert.Equal(t, "!", cfg.CommandPrefix)
	assert.Equal(t, "BanchoBot", cfg.BotName)
	assert.Equal(t, 2048, cfg.BcryptCacheSize)
	assert.False(t, cfg.EnforceChangelog)
	assert.Equal(t, 300, cfg.Timeouts.GhostDisconnect)
	assert.Equal(t, 1, cfg.Timeouts.MinLogoutAge)
	assert.Equal(t, 10, cfg.Timeouts.LoginReplacement)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9999
domain: osu.example.com
bot_name: RefereeBot
database:
  host: db.internal
timeouts:
  ghost_disconnect: 60
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "osu.example.com", cfg.Domain)
	assert.Equal(t, "RefereeBot", cfg.BotName)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 60, cfg.Timeouts.GhostDisconnect)

	// untouched keys keep their defaults
	assert.Equal(t, "!", cfg.CommandPrefix)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [broken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "localhost", Port: 5432,
		User: "u", Password: "p", DBName: "osu", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://u:p@localhost:5432/osu?sslmode=disable", d.DSN())
}
