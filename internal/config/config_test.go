package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{configPathEnv, channelEnv, startDateEnv, feedPathEnv, cronSpecEnv, logLevelEnv} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load("")

	assert.Equal(t, "infoinfounibo", cfg.Channel.Name)
	assert.Equal(t, "https://t.me/s/", cfg.Channel.BaseURL)
	assert.Equal(t, "Mozilla/5.0 (Telegram Scraper)", cfg.Channel.UserAgent)
	assert.Equal(t, "public/communications.json", cfg.Feed.Path)
	assert.Equal(t, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), cfg.Filter.Cutoff())
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
channel:
  name: fromfile
  timeout: 15s
filter:
  startDate: "2025-10-01"
feed:
  path: out/feed.json
scheduler:
  timezone: Europe/Rome
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	t.Setenv(channelEnv, "fromenv")

	cfg := Load(path)

	assert.Equal(t, "fromenv", cfg.Channel.Name)
	assert.Equal(t, 15*time.Second, cfg.Channel.Timeout)
	assert.Equal(t, "out/feed.json", cfg.Feed.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), cfg.Filter.Cutoff())
	// defaults not present in the file survive the merge
	assert.Equal(t, "Telegram Channel", cfg.Channel.Author)
}

func TestLoadInvalidValuesRevert(t *testing.T) {
	clearEnv(t)
	t.Setenv(startDateEnv, "yesterday")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("classifier:\n  eventMarker: \"(\"\nscheduler:\n  timezone: Nowhere/City\n"), 0o644))

	cfg := Load(path)

	assert.Equal(t, defaultStartDate, cfg.Filter.StartDate)
	assert.Equal(t, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), cfg.Filter.Cutoff())
	assert.Equal(t, defaultEventMarker, cfg.Classifier.EventMarker)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
}

func TestParseStartDate(t *testing.T) {
	t.Parallel()

	got, err := ParseStartDate("2025-09-10T08:30:00+02:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, time.September, 10, 6, 30, 0, 0, time.UTC)))

	_, err = ParseStartDate("10/09/2025")
	assert.Error(t, err)
}
