package geocoding

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"
)

// ProviderType names a supported geocoding backend.
type ProviderType string

const (
	ProviderMapsCo    ProviderType = "mapsco"
	ProviderNominatim ProviderType = "nominatim"
	ProviderGoogle    ProviderType = "google"
)

// ProviderConfig holds what NewProvider needs to build any backend.
type ProviderConfig struct {
	Type       ProviderType
	BaseURL    string // empty uses the provider default
	APIKey     string // optional for mapsco, required for google
	UserAgent  string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// NewProvider builds the configured backend.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Type {
	case ProviderMapsCo, "":
		return NewMapsCoClient(cfg.Logger, cfg.clientOptions()...), nil
	case ProviderNominatim:
		return NewNominatimClient(cfg.Logger, cfg.clientOptions()...), nil
	case ProviderGoogle:
		return newGoogleProvider(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Type)
	}
}

func (cfg ProviderConfig) clientOptions() []Option {
	opts := []Option{
		WithBaseURL(cfg.BaseURL),
		WithAPIKey(cfg.APIKey),
		WithUserAgent(cfg.UserAgent),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, WithHTTPClient(cfg.HTTPClient))
	}
	return opts
}

func newGoogleProvider(cfg ProviderConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingAPIKey, ProviderGoogle)
	}

	clientOpts := []maps.ClientOption{maps.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		clientOpts = append(clientOpts, maps.WithHTTPClient(cfg.HTTPClient))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating Google Maps client: %w", err)
	}
	return NewGoogleProvider(client, cfg.Logger), nil
}
