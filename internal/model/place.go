package model

import "github.com/paulmach/orb"

const (
	// DefaultSpan is the city-level zoom shown at start and after a reset.
	DefaultSpan = 0.05
	// FocusSpan is the closer zoom used once an address resolves.
	FocusSpan = 0.02

	DefaultCenterLat = 60.1699 // Helsinki
	DefaultCenterLng = 24.9384
)

// Result is a resolved address ready to be pinned on the map.
type Result struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
}

// Point returns the result as an orb point ([lng, lat]).
func (r Result) Point() orb.Point {
	return orb.Point{r.Lng, r.Lat}
}

// Region is the visible map area: a center plus latitude/longitude spans in degrees.
type Region struct {
	CenterLat float64
	CenterLng float64
	LatSpan   float64
	LngSpan   float64
}

func DefaultRegion() Region {
	return NewRegion(DefaultCenterLat, DefaultCenterLng)
}

// NewRegion returns a city-level region centered on the given coordinate.
func NewRegion(lat, lng float64) Region {
	return Region{
		CenterLat: lat,
		CenterLng: lng,
		LatSpan:   DefaultSpan,
		LngSpan:   DefaultSpan,
	}
}

// FocusOn moves the center to r and narrows both spans.
func (g Region) FocusOn(r Result) Region {
	g.CenterLat = r.Lat
	g.CenterLng = r.Lng
	g.LatSpan = FocusSpan
	g.LngSpan = FocusSpan
	return g
}

// Widen restores the default spans and keeps the center.
func (g Region) Widen() Region {
	g.LatSpan = DefaultSpan
	g.LngSpan = DefaultSpan
	return g
}

// Bound returns the rectangle covered by the region.
func (g Region) Bound() orb.Bound {
	halfLat := g.LatSpan / 2
	halfLng := g.LngSpan / 2
	return orb.Bound{
		Min: orb.Point{g.CenterLng - halfLng, g.CenterLat - halfLat},
		Max: orb.Point{g.CenterLng + halfLng, g.CenterLat + halfLat},
	}
}
