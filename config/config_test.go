package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 30*24*time.Hour, cfg.Jobs.DeclinedRequestRetention)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxUploadBytes)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := chdirTemp(t)
	yaml := []byte(`
server:
  port: "9090"
  request_timeout: 3s
database:
  driver: sqlite
  dsn: file.db
redis:
  enabled: true
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("SOCIAL_SERVER_PORT", "7070")
	t.Setenv("SOCIAL_AUTH_JWT_SECRET", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file.db", cfg.Database.DSN)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.True(t, cfg.Redis.Enabled)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Database: DatabaseConfig{Driver: "postgres", DSN: "host=x"},
		Auth:     AuthConfig{JWTSecret: "s"},
		Server:   ServerConfig{RequestTimeout: time.Second},
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.Database.Driver = "oracle"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Auth.JWTSecret = ""
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Storage = StorageConfig{Enabled: true}
	assert.Error(t, bad.Validate())
}
