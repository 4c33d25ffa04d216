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
	t.Setenv(configPathEnv, "")
	t.Setenv(databaseDSNEnv, "")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.Database.Timeout.Std())
	assert.Equal(t, 15*time.Second, cfg.Extractor.FetchTimeout.Std())
	assert.Equal(t, 4, cfg.Generation.Concurrency)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
	assert.False(t, cfg.Archive.Enabled())
	assert.False(t, cfg.Notifications.Telegram.Enabled())
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
logging:
  level: warn
  format: json
database:
  driver: postgres
  dsn: postgres://file/db
  timeout: 2s
extractor:
  fetchTimeout: not-a-duration
generation:
  concurrency: 8
scheduler:
  timezone: Europe/Berlin
  digestWindow: 12h
archive:
  bucket: uploads
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv(databaseDSNEnv, "postgres://env/db")
	t.Setenv(telegramTokenEnv, "token")
	t.Setenv(telegramChatIDEnv, "chat")

	cfg := Load()
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://env/db", cfg.Database.DSN)
	assert.Equal(t, 2*time.Second, cfg.Database.Timeout.Std())
	assert.Equal(t, 15*time.Second, cfg.Extractor.FetchTimeout.Std())
	assert.Equal(t, 8, cfg.Generation.Concurrency)
	assert.Equal(t, 12*time.Hour, cfg.Scheduler.DigestWindow.Std())
	assert.Equal(t, "@every 1h", cfg.Scheduler.CronExpression)
	assert.True(t, cfg.Archive.Enabled())
	assert.True(t, cfg.Notifications.Telegram.Enabled())
}

func TestLoadUnknownTimezoneFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheduler:\n  timezone: Mars/Olympus\n"), 0o600))
	t.Setenv(configPathEnv, path)

	cfg := Load()
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
}
