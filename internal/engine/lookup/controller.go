package lookup

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/rendis/pinpoint/internal/engine/geocoding"
	"github.com/rendis/pinpoint/internal/model"
)

// Captions shown after a lookup resolves.
const (
	CaptionNoResults          = "No results. Try a more specific address."
	CaptionInvalidCoordinates = "Invalid coordinates from API."
	CaptionFailed             = "Geocoding failed. Check your connection and try again."
)

// ErrEmptyQuery is returned by Start when the query is blank after trimming.
var ErrEmptyQuery = errors.New("empty address: please type an address")

// State is everything the lookup screen renders.
type State struct {
	Query   string
	Loading bool
	Caption string
	Region  model.Region
	Marker  *model.Result
}

// Ticket identifies one started lookup.
type Ticket struct {
	Seq   uint64
	Query string
}

// Controller owns the lookup screen state. It is not safe for concurrent use:
// Start, Apply and Clear must be called from one goroutine (the UI loop).
// Resolve only reads immutable fields and may run anywhere.
type Controller struct {
	provider geocoding.Provider
	log      zerolog.Logger
	state    State
	seq      uint64 // last issued ticket
}

// NewController returns a controller showing the given start region.
func NewController(provider geocoding.Provider, region model.Region, log zerolog.Logger) *Controller {
	return &Controller{
		provider: provider,
		log:      log,
		state:    State{Region: region},
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	s := c.state
	if s.Marker != nil {
		m := *s.Marker
		s.Marker = &m
	}
	return s
}

// SetQuery records the text currently typed in the input.
func (c *Controller) SetQuery(q string) {
	c.state.Query = q
}

// Start validates query and enters the loading state. A blank query returns
// ErrEmptyQuery and leaves the state untouched.
func (c *Controller) Start(query string) (Ticket, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Ticket{}, ErrEmptyQuery
	}
	c.seq++
	c.state.Loading = true
	c.state.Caption = ""
	return Ticket{Seq: c.seq, Query: q}, nil
}

// Resolve performs the network call for t. It does not touch the state.
func (c *Controller) Resolve(ctx context.Context, t Ticket) Outcome {
	places, err := c.provider.Search(ctx, t.Query)
	if err != nil {
		return Outcome{Seq: t.Seq, Kind: OutcomeFailed, Err: err}
	}
	return interpret(t.Seq, places)
}

// Apply folds a resolved outcome into the state. Outcomes of superseded
// tickets are dropped; it reports whether o was applied.
func (c *Controller) Apply(o Outcome) bool {
	if o.Seq != c.seq {
		c.log.Debug().Uint64("seq", o.Seq).Uint64("latest", c.seq).Msg("dropping stale lookup outcome")
		return false
	}
	c.state.Loading = false

	switch o.Kind {
	case OutcomeFound:
		r := o.Result
		c.state.Marker = &r
		c.state.Region = c.state.Region.FocusOn(r)
		c.state.Caption = r.Label
	case OutcomeNoMatch:
		c.state.Marker = nil
		c.state.Caption = CaptionNoResults
	case OutcomeInvalidCoordinates:
		c.state.Marker = nil
		c.state.Caption = CaptionInvalidCoordinates
	default:
		ev := c.log.Error().Err(o.Err).Uint64("seq", o.Seq)
		if kind, ok := geocoding.KindOf(o.Err); ok {
			ev = ev.Stringer("kind", kind)
		}
		ev.Msg("geocoding failed")
		c.state.Marker = nil
		c.state.Caption = CaptionFailed
	}
	return true
}

// Lookup runs Start, Resolve and Apply in sequence.
func (c *Controller) Lookup(ctx context.Context, query string) error {
	t, err := c.Start(query)
	if err != nil {
		return err
	}
	c.Apply(c.Resolve(ctx, t))
	return nil
}

// Clear resets query, marker and caption and widens the map back to the
// default spans. The center is kept. An in-flight lookup is not cancelled.
func (c *Controller) Clear() {
	c.state.Query = ""
	c.state.Marker = nil
	c.state.Caption = ""
	c.state.Region = c.state.Region.Widen()
}

func interpret(seq uint64, places []geocoding.Place) Outcome {
	if len(places) == 0 {
		return Outcome{Seq: seq, Kind: OutcomeNoMatch}
	}
	first := places[0]
	lat, latOK := parseCoordinate(first.Lat)
	lng, lngOK := parseCoordinate(first.Lon)
	if !latOK || !lngOK {
		return Outcome{Seq: seq, Kind: OutcomeInvalidCoordinates}
	}
	return Outcome{
		Seq:    seq,
		Kind:   OutcomeFound,
		Result: model.Result{Lat: lat, Lng: lng, Label: first.DisplayName},
	}
}

// numericPrefix matches a plain decimal number at the start of a string.
var numericPrefix = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`)

// parseCoordinate reads the leading decimal number of s, ignoring leading
// whitespace and anything after the number ("60.17 N" is 60.17). It fails
// when there is no number or the value is not finite.
func parseCoordinate(s string) (float64, bool) {
	num := numericPrefix.FindString(strings.TrimLeftFunc(s, unicode.IsSpace))
	if num == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
