package geocoding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
)

const (
	MapsCoBaseURL    = "https://geocode.maps.co/search"
	NominatimBaseURL = "https://nominatim.openstreetmap.org/search"
	DefaultUserAgent = "pinpoint/0.1 (address lookup)"

	maxErrorBody = 512
)

// Client talks to search endpoints that answer `GET <base>?q=...` with a JSON
// array of {lat, lon, display_name} objects (geocode.maps.co, Nominatim).
type Client struct {
	name      string
	http      HTTPClient
	baseURL   string
	apiKey    string
	userAgent string
	params    url.Values
	log       zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client, which has no timeout.
func WithHTTPClient(c HTTPClient) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithBaseURL points the client at another endpoint.
func WithBaseURL(u string) Option {
	return func(cl *Client) {
		if u != "" {
			cl.baseURL = u
		}
	}
}

// WithAPIKey sends the key as the api_key query parameter.
func WithAPIKey(key string) Option {
	return func(cl *Client) {
		cl.apiKey = key
	}
}

func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		if ua != "" {
			cl.userAgent = ua
		}
	}
}

// WithParam adds a fixed query parameter to every request.
func WithParam(key, value string) Option {
	return func(cl *Client) {
		cl.params.Set(key, value)
	}
}

// NewClient builds a search client. name labels logs and errors.
func NewClient(name, baseURL string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		name:      name,
		http:      &http.Client{},
		baseURL:   baseURL,
		userAgent: DefaultUserAgent,
		params:    url.Values{},
		log:       log.With().Str("provider", name).Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewMapsCoClient returns a client for geocode.maps.co.
func NewMapsCoClient(log zerolog.Logger, opts ...Option) *Client {
	return NewClient(string(ProviderMapsCo), MapsCoBaseURL, log, opts...)
}

// NewNominatimClient returns a client for the public OSM Nominatim instance.
func NewNominatimClient(log zerolog.Logger, opts ...Option) *Client {
	opts = append([]Option{WithParam("format", "json")}, opts...)
	return NewClient(string(ProviderNominatim), NominatimBaseURL, log, opts...)
}

func (c *Client) Name() string {
	return c.name
}

// Search issues a single GET for query. The query is sent as given; callers trim it.
func (c *Client) Search(ctx context.Context, query string) ([]Place, error) {
	reqURL, err := c.searchURL(query)
	if err != nil {
		return nil, &Error{Provider: c.name, Kind: KindTransport, Err: err}
	}
	c.log.Debug().Str("url", reqURL).Msg("geocoding request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &Error{Provider: c.name, Kind: KindTransport, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Provider: c.name, Kind: KindTransport, Err: fmt.Errorf("executing request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Debug().Int("status", resp.StatusCode).Str("body", string(body)).Msg("geocoding non-success status")
		return nil, &Error{Provider: c.name, Kind: KindStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Provider: c.name, Kind: KindTransport, Err: fmt.Errorf("reading body: %w", err)}
	}

	places, err := DecodePlaces(body)
	if err != nil {
		return nil, &Error{Provider: c.name, Kind: KindDecode, Err: err}
	}
	c.log.Debug().Int("results", len(places)).Msg("geocoding response")
	return places, nil
}

func (c *Client) searchURL(query string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	q := u.Query()
	for k, vs := range c.params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	q.Set("q", query)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// DecodePlaces parses a search response body. Invalid JSON is an error, and so
// is a null first result. Valid JSON that is not an array yields no places.
// Other non-object elements decode to an empty Place, and fields that are not
// strings are kept as raw text so that coordinate validation happens in one place.
func DecodePlaces(body []byte) ([]Place, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding geocoding response: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding geocoding results: %w", err)
	}
	if len(items) > 0 && bytes.Equal(bytes.TrimSpace(items[0]), []byte("null")) {
		return nil, errNullResult
	}

	places := make([]Place, 0, len(items))
	for _, item := range items {
		var p rawPlace
		// non-object elements leave every field empty
		_ = json.Unmarshal(item, &p)
		places = append(places, Place{
			Lat:         string(p.Lat),
			Lon:         string(p.Lon),
			DisplayName: string(p.DisplayName),
		})
	}
	return places, nil
}

var errNullResult = errors.New("decoding geocoding results: first result is null")

type rawPlace struct {
	Lat         looseString `json:"lat"`
	Lon         looseString `json:"lon"`
	DisplayName looseString `json:"display_name"`
}

// looseString accepts a JSON string as-is and any other literal as its raw
// text, so `"60.17"` and `60.17` both become "60.17". null becomes "".
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	*s = looseString(data)
	return nil
}
