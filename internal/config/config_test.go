package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
	assert.Equal(t, 720*time.Hour, cfg.Auth.SessionMaxAge)
	assert.True(t, cfg.Assets.EnableWebP)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9090
database:
  type: postgres
  host: db.internal
auth:
  admin_username: curator
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "curator", cfg.Auth.AdminUsername)
	// Untouched fields keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0644))

	t.Setenv("MEDIARATER_PORT", "7070")
	t.Setenv("MEDIARATER_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("MEDIARATER_PORT", "99999")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDatabaseType(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "oracle")
	_, err := Load("")
	assert.Error(t, err)
}

func TestDerivedDatabasePath(t *testing.T) {
	t.Setenv("MEDIARATER_DATA_DIR", "/var/lib/mediarater")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/var/lib/mediarater", "mediarater.db"), cfg.Database.DatabasePath)
	assert.Equal(t, filepath.Join("/var/lib/mediarater", "assets"), cfg.AssetsDir())
}

func TestAddr(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 8080}
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
}
