package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rendis/pinpoint/internal/model"
)

const envPrefix = "PINPOINT"

// Config holds the runtime settings. Every key can come from the optional
// config file or a PINPOINT_* environment variable (PINPOINT_LOG_LEVEL for log.level).
type Config struct {
	Env            string        // local, development, production
	Provider       string        // mapsco, nominatim, google
	BaseURL        string        // empty uses the provider default
	APIKey         string        // geocode.maps.co or Google key
	UserAgent      string        // sent with every geocoding request
	Timeout        time.Duration // 0 waits as long as the network stack does
	TLSFingerprint string        // none or chrome
	CenterLat      float64       // start center of the map
	CenterLng      float64
	Logging        LoggingConfig
}

// LoggingConfig selects where and how much the app logs.
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or console
	File   string // TUI sessions log here since the terminal belongs to the UI
}

// StartRegion is the map region shown when the app opens.
func (c Config) StartRegion() model.Region {
	return model.NewRegion(c.CenterLat, c.CenterLng)
}

// Load reads defaults, then the config file at path (if any), then the environment.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := Config{
		Env:            v.GetString("env"),
		Provider:       strings.ToLower(v.GetString("provider")),
		BaseURL:        v.GetString("base_url"),
		APIKey:         v.GetString("api_key"),
		UserAgent:      v.GetString("user_agent"),
		Timeout:        v.GetDuration("timeout"),
		TLSFingerprint: strings.ToLower(v.GetString("tls_fingerprint")),
		CenterLat:      v.GetFloat64("center_lat"),
		CenterLng:      v.GetFloat64("center_lng"),
		Logging: LoggingConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			File:   v.GetString("log.file"),
		},
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = defaultLogFile()
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "production")
	v.SetDefault("provider", "mapsco")
	v.SetDefault("base_url", "")
	v.SetDefault("api_key", "")
	v.SetDefault("user_agent", "")
	v.SetDefault("timeout", "0s")
	v.SetDefault("tls_fingerprint", "none")
	v.SetDefault("center_lat", model.DefaultCenterLat)
	v.SetDefault("center_lng", model.DefaultCenterLng)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
}

func (c Config) validate() error {
	var errs []error
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	if c.CenterLat < -90 || c.CenterLat > 90 {
		errs = append(errs, fmt.Errorf("center_lat %f out of range [-90, 90]", c.CenterLat))
	}
	if c.CenterLng < -180 || c.CenterLng > 180 {
		errs = append(errs, fmt.Errorf("center_lng %f out of range [-180, 180]", c.CenterLng))
	}
	return errors.Join(errs...)
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "pinpoint", "pinpoint.log")
}
