package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 20, cfg.Server.ListingLimit)
	assert.Equal(t, "memory", cfg.Storage.Flights)
	assert.Equal(t, 2*time.Second, cfg.Booking.ProcessingDelay)
	assert.Equal(t, 30*time.Minute, cfg.Booking.SessionTimeout)
	assert.Equal(t, 83.0, cfg.Booking.INRRate)
	assert.Equal(t, 48*time.Hour, cfg.Reminders.DueWindow)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
storage:
  kv: redis
booking:
  session_timeout: 10m
`), 0o644))
	t.Setenv("AIRROUTE_SERVER_PORT", "7070")
	t.Setenv("AIRROUTE_BOOKING_CABIN_ROWS", "8")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Storage.KV)
	assert.Equal(t, 10*time.Minute, cfg.Booking.SessionTimeout)
	assert.Equal(t, 8, cfg.Booking.CabinRows)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AIRROUTE_STORAGE_FLIGHTS", "mongo")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
