package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  host: "127.0.0.1"
  port: 9090
  mode: "debug"
  graceful_shutdown_timeout: 5s

database:
  postgres:
    host: "db.internal"
    port: 5432
    db: "roomhub"
    user: "roomhub"
    password: "hunter2"
    sslmode: "disable"
    auto_migrate: true

state:
  backend: "memory"
  token_ttl: 15m

jwt:
  signing_key: "k"
  issuer: "roomhub"
  access_token_ttl: 1h

rooms:
  default_code_uses: 10
  default_code_ttl: 24h
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.GracefulShutdownTimeout)

	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.True(t, cfg.Database.Postgres.AutoMigrate)

	assert.Equal(t, "memory", cfg.State.Backend)
	assert.Equal(t, 15*time.Minute, cfg.State.TokenTTL)

	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenTTL)

	assert.Equal(t, 10, cfg.Rooms.DefaultCodeUses)
	assert.Equal(t, 24*time.Hour, cfg.Rooms.DefaultCodeTTL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
