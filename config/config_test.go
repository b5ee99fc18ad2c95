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

func TestLoadConfigDefaultsWithoutEnvFile(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5*time.Second, cfg.App.QueryTimeout)
	assert.Equal(t, 10, cfg.Booking.DefaultPageSize)
	assert.Equal(t, 10*time.Second, cfg.Booking.LockTTL)
	assert.Equal(t, "log", cfg.Events.Driver)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.KafkaBrokers)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
}

func TestLoadConfigReadsEnvFileAndEnvironment(t *testing.T) {
	dir := chdirTemp(t)
	content := "APP_PORT=9000\nAPP_QUERY_TIMEOUT=2s\nKAFKA_BROKERS=k1:9092, k2:9092\nEVENTS_DRIVER=Kafka\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	t.Setenv("BOOKING_DEFAULT_PAGE_SIZE", "25")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, 2*time.Second, cfg.App.QueryTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
	assert.Equal(t, "kafka", cfg.Events.Driver)
	assert.Equal(t, 25, cfg.Booking.DefaultPageSize)
}

func TestLoadConfigFallsBackOnBadDurations(t *testing.T) {
	chdirTemp(t)
	t.Setenv("APP_QUERY_TIMEOUT", "soon")
	t.Setenv("JWT_REFRESH_EXPIRY", "later")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.App.QueryTimeout)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
}
