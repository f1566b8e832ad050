package geocoding

import (
	"context"
	"net/http"
)

// Place is one raw match from a geocoding service. Coordinates are kept as the
// service sent them; callers decide whether they parse.
type Place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Provider resolves a free-text address into zero or more places, best match first.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Place, error)
}

// HTTPClient is the part of *http.Client the providers use.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
