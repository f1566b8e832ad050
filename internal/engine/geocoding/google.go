package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"
)

// GoogleAPIClient is the subset of *maps.Client used by GoogleProvider.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// GoogleProvider geocodes through the Google Maps Geocoding API and reshapes
// the answer into the same Place form the JSON search endpoints produce.
type GoogleProvider struct {
	client GoogleAPIClient
	log    zerolog.Logger
}

func NewGoogleProvider(client GoogleAPIClient, log zerolog.Logger) *GoogleProvider {
	return &GoogleProvider{
		client: client,
		log:    log.With().Str("provider", string(ProviderGoogle)).Logger(),
	}
}

func (gp *GoogleProvider) Name() string {
	return string(ProviderGoogle)
}

func (gp *GoogleProvider) Search(ctx context.Context, query string) ([]Place, error) {
	gp.log.Debug().Str("address", query).Msg("geocoding request")

	results, err := gp.client.Geocode(ctx, &maps.GeocodingRequest{Address: query})
	if err != nil {
		return nil, &Error{Provider: gp.Name(), Kind: googleErrorKind(err), Err: err}
	}

	places := make([]Place, 0, len(results))
	for _, r := range results {
		loc := r.Geometry.Location
		places = append(places, Place{
			Lat:         strconv.FormatFloat(loc.Lat, 'f', -1, 64),
			Lon:         strconv.FormatFloat(loc.Lng, 'f', -1, 64),
			DisplayName: r.FormattedAddress,
		})
	}
	gp.log.Debug().Int("results", len(places)).Msg("geocoding response")
	return places, nil
}

// googleErrorKind sorts client errors. The maps client reports API statuses
// such as REQUEST_DENIED or OVER_QUERY_LIMIT as plain errors, so anything that
// is not a network, context or JSON failure is a status.
func googleErrorKind(err error) Kind {
	var (
		urlErr    *url.Error
		netErr    net.Error
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &urlErr), errors.As(err, &netErr),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindTransport
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return KindDecode
	default:
		return KindStatus
	}
}
