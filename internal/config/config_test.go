package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendis/pinpoint/internal/config"
	"github.com/rendis/pinpoint/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "mapsco", cfg.Provider)
	assert.Empty(t, cfg.BaseURL)
	assert.Zero(t, cfg.Timeout)
	assert.Equal(t, "none", cfg.TLSFingerprint)
	assert.Equal(t, model.DefaultRegion(), cfg.StartRegion())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "pinpoint.log", filepath.Base(cfg.Logging.File))
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PINPOINT_PROVIDER", "Nominatim")
	t.Setenv("PINPOINT_BASE_URL", "http://localhost:8080/search")
	t.Setenv("PINPOINT_API_KEY", "key")
	t.Setenv("PINPOINT_TIMEOUT", "3s")
	t.Setenv("PINPOINT_CENTER_LAT", "40.4168")
	t.Setenv("PINPOINT_CENTER_LNG", "-3.7038")
	t.Setenv("PINPOINT_LOG_LEVEL", "debug")
	t.Setenv("PINPOINT_LOG_FILE", "/tmp/pinpoint-test.log")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "nominatim", cfg.Provider)
	assert.Equal(t, "http://localhost:8080/search", cfg.BaseURL)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.InDelta(t, 40.4168, cfg.CenterLat, 1e-9)
	assert.InDelta(t, -3.7038, cfg.CenterLng, 1e-9)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/pinpoint-test.log", cfg.Logging.File)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pinpoint.yaml")
	content := `
provider: google
api_key: from-file
tls_fingerprint: chrome
center_lat: 52.52
center_lng: 13.405
log:
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("PINPOINT_API_KEY", "from-env")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "google", cfg.Provider)
	assert.Equal(t, "from-env", cfg.APIKey, "environment wins over the file")
	assert.Equal(t, "chrome", cfg.TLSFingerprint)
	assert.InDelta(t, 52.52, cfg.CenterLat, 1e-9)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("center out of range", func(t *testing.T) {
		t.Setenv("PINPOINT_CENTER_LAT", "95")
		_, err := config.Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "center_lat")
	})

	t.Run("negative timeout", func(t *testing.T) {
		t.Setenv("PINPOINT_TIMEOUT", "-1s")
		_, err := config.Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timeout")
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := config.NewLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("provider", "mapsco").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"provider":"mapsco"`)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	fallback := config.NewLogger(config.LoggingConfig{Level: "loud"}, &buf)
	assert.Equal(t, zerolog.InfoLevel, fallback.GetLevel())
}

func TestOpenLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "app.log")
	f, err := config.OpenLogFile(config.LoggingConfig{File: path})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
