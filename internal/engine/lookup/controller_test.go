package lookup_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendis/pinpoint/internal/engine/geocoding"
	"github.com/rendis/pinpoint/internal/engine/lookup"
	"github.com/rendis/pinpoint/internal/model"
)

type fakeProvider struct {
	searchFunc func(ctx context.Context, query string) ([]geocoding.Place, error)
	calls      []string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Search(ctx context.Context, query string) ([]geocoding.Place, error) {
	f.calls = append(f.calls, query)
	return f.searchFunc(ctx, query)
}

func returning(places []geocoding.Place, err error) *fakeProvider {
	return &fakeProvider{
		searchFunc: func(context.Context, string) ([]geocoding.Place, error) {
			return places, err
		},
	}
}

func newController(p geocoding.Provider) *lookup.Controller {
	return lookup.NewController(p, model.DefaultRegion(), zerolog.Nop())
}

func TestController_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("found moves marker and narrows region", func(t *testing.T) {
		p := returning([]geocoding.Place{{Lat: "60.17", Lon: "24.93", DisplayName: "Helsinki"}}, nil)
		c := newController(p)

		require.NoError(t, c.Lookup(ctx, "  Helsinki  "))

		s := c.State()
		assert.Equal(t, []string{"Helsinki"}, p.calls, "query is trimmed before the call")
		require.NotNil(t, s.Marker)
		assert.Equal(t, model.Result{Lat: 60.17, Lng: 24.93, Label: "Helsinki"}, *s.Marker)
		assert.InDelta(t, 60.17, s.Region.CenterLat, 1e-9)
		assert.InDelta(t, 24.93, s.Region.CenterLng, 1e-9)
		assert.InDelta(t, model.FocusSpan, s.Region.LatSpan, 1e-9)
		assert.InDelta(t, model.FocusSpan, s.Region.LngSpan, 1e-9)
		assert.Equal(t, "Helsinki", s.Caption)
		assert.False(t, s.Loading)
	})

	t.Run("empty array", func(t *testing.T) {
		c := newController(returning([]geocoding.Place{}, nil))
		require.NoError(t, c.Lookup(ctx, "Helsinki"))

		s := c.State()
		assert.Nil(t, s.Marker)
		assert.Equal(t, lookup.CaptionNoResults, s.Caption)
		assert.False(t, s.Loading)
	})

	t.Run("invalid latitude", func(t *testing.T) {
		c := newController(returning([]geocoding.Place{{Lat: "abc", Lon: "24.93", DisplayName: "X"}}, nil))
		require.NoError(t, c.Lookup(ctx, "X"))

		s := c.State()
		assert.Nil(t, s.Marker)
		assert.Equal(t, lookup.CaptionInvalidCoordinates, s.Caption)
		assert.Equal(t, model.DefaultRegion(), s.Region)
	})

	t.Run("non-finite coordinates are invalid", func(t *testing.T) {
		for _, bad := range []string{"NaN", "Inf", "-Infinity", "1e999", ""} {
			c := newController(returning([]geocoding.Place{{Lat: "60.17", Lon: bad, DisplayName: "X"}}, nil))
			require.NoError(t, c.Lookup(ctx, "X"))
			assert.Equal(t, lookup.CaptionInvalidCoordinates, c.State().Caption, "lon %q", bad)
		}
	})

	t.Run("only the first result is used", func(t *testing.T) {
		c := newController(returning([]geocoding.Place{
			{Lat: "1", Lon: "2", DisplayName: "First"},
			{Lat: "bad", Lon: "bad", DisplayName: "Second"},
		}, nil))
		require.NoError(t, c.Lookup(ctx, "X"))
		assert.Equal(t, "First", c.State().Caption)
	})

	t.Run("failures collapse into one caption", func(t *testing.T) {
		errs := []error{
			&geocoding.Error{Provider: "fake", Kind: geocoding.KindStatus, StatusCode: 500},
			&geocoding.Error{Provider: "fake", Kind: geocoding.KindTransport, Err: assert.AnError},
			&geocoding.Error{Provider: "fake", Kind: geocoding.KindDecode, Err: assert.AnError},
		}
		for _, e := range errs {
			p := returning([]geocoding.Place{{Lat: "60.17", Lon: "24.93", DisplayName: "Helsinki"}}, nil)
			c := newController(p)
			require.NoError(t, c.Lookup(ctx, "Helsinki"))
			require.NotNil(t, c.State().Marker)

			p.searchFunc = func(context.Context, string) ([]geocoding.Place, error) { return nil, e }
			require.NoError(t, c.Lookup(ctx, "Helsinki"))

			s := c.State()
			assert.Nil(t, s.Marker, e.Error())
			assert.Equal(t, lookup.CaptionFailed, s.Caption)
			assert.False(t, s.Loading)
		}
	})

	t.Run("loading is set for the duration of the call", func(t *testing.T) {
		p := returning([]geocoding.Place{}, nil)
		c := newController(p)
		require.NoError(t, c.Lookup(ctx, "first"))
		require.Equal(t, lookup.CaptionNoResults, c.State().Caption)

		p.searchFunc = func(context.Context, string) ([]geocoding.Place, error) {
			s := c.State()
			assert.True(t, s.Loading)
			assert.Empty(t, s.Caption, "previous caption is cleared on start")
			return nil, assert.AnError
		}
		require.NoError(t, c.Lookup(ctx, "second"))
		assert.False(t, c.State().Loading)
		assert.Equal(t, lookup.CaptionFailed, c.State().Caption)
	})
}

func TestController_CoordinatePrefix(t *testing.T) {
	tests := []struct {
		lat     string
		want    float64
		invalid bool
	}{
		{lat: "60.17", want: 60.17},
		{lat: "60.17 N", want: 60.17},
		{lat: "60.17abc", want: 60.17},
		{lat: "  \t-33.5", want: -33.5},
		{lat: "1_0", want: 1},
		{lat: "+.5", want: 0.5},
		{lat: "5.", want: 5},
		{lat: "1e2x", want: 100},
		{lat: "1e", want: 1},
		{lat: "0x10", want: 0},
		{lat: "abc", invalid: true},
		{lat: "-", invalid: true},
		{lat: ".", invalid: true},
		{lat: "N 60.17", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.lat, func(t *testing.T) {
			c := newController(returning([]geocoding.Place{{Lat: tt.lat, Lon: "24.93", DisplayName: "X"}}, nil))
			require.NoError(t, c.Lookup(context.Background(), "X"))

			s := c.State()
			if tt.invalid {
				assert.Nil(t, s.Marker)
				assert.Equal(t, lookup.CaptionInvalidCoordinates, s.Caption)
				return
			}
			require.NotNil(t, s.Marker)
			assert.InDelta(t, tt.want, s.Marker.Lat, 1e-9)
			assert.Equal(t, "X", s.Caption)
		})
	}
}

func TestController_EmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		p := returning([]geocoding.Place{{Lat: "1", Lon: "2", DisplayName: "X"}}, nil)
		c := newController(p)
		require.NoError(t, c.Lookup(context.Background(), "seed"))
		before := c.State()

		err := c.Lookup(context.Background(), q)

		require.ErrorIs(t, err, lookup.ErrEmptyQuery)
		assert.Equal(t, []string{"seed"}, p.calls, "no network call for %q", q)
		assert.Equal(t, before, c.State())
	}
}

func TestController_StaleOutcomeIsDropped(t *testing.T) {
	p := &fakeProvider{}
	p.searchFunc = func(_ context.Context, q string) ([]geocoding.Place, error) {
		if q == "slow" {
			return []geocoding.Place{{Lat: "1", Lon: "1", DisplayName: "Slow"}}, nil
		}
		return []geocoding.Place{{Lat: "2", Lon: "2", DisplayName: "Fast"}}, nil
	}
	c := newController(p)
	ctx := context.Background()

	first, err := c.Start("slow")
	require.NoError(t, err)
	second, err := c.Start("fast")
	require.NoError(t, err)
	assert.Greater(t, second.Seq, first.Seq)

	fast := c.Resolve(ctx, second)
	slow := c.Resolve(ctx, first)

	assert.True(t, c.Apply(fast))
	assert.Equal(t, "Fast", c.State().Caption)
	assert.False(t, c.State().Loading)

	assert.False(t, c.Apply(slow), "older request must not overwrite a newer one")
	assert.Equal(t, "Fast", c.State().Caption)
}

func TestController_LoadingUntilLatestResolves(t *testing.T) {
	c := newController(returning([]geocoding.Place{}, nil))
	ctx := context.Background()

	first, _ := c.Start("a")
	second, _ := c.Start("b")

	c.Apply(c.Resolve(ctx, first))
	assert.True(t, c.State().Loading, "latest request still outstanding")

	c.Apply(c.Resolve(ctx, second))
	assert.False(t, c.State().Loading)
}

func TestController_Clear(t *testing.T) {
	p := returning([]geocoding.Place{{Lat: "40.4168", Lon: "-3.7038", DisplayName: "Madrid"}}, nil)
	c := newController(p)
	c.SetQuery("Madrid")
	require.NoError(t, c.Lookup(context.Background(), "Madrid"))

	c.Clear()
	once := c.State()

	assert.Empty(t, once.Query)
	assert.Nil(t, once.Marker)
	assert.Empty(t, once.Caption)
	assert.InDelta(t, model.DefaultSpan, once.Region.LatSpan, 1e-9)
	assert.InDelta(t, model.DefaultSpan, once.Region.LngSpan, 1e-9)
	assert.InDelta(t, 40.4168, once.Region.CenterLat, 1e-9, "clear keeps the center")

	c.Clear()
	assert.Equal(t, once, c.State())
}

func TestController_StateIsACopy(t *testing.T) {
	c := newController(returning([]geocoding.Place{{Lat: "1", Lon: "2", DisplayName: "X"}}, nil))
	require.NoError(t, c.Lookup(context.Background(), "X"))

	s := c.State()
	s.Marker.Label = "mutated"
	assert.Equal(t, "X", c.State().Marker.Label)
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "found", lookup.OutcomeFound.String())
	assert.Equal(t, "no_match", lookup.OutcomeNoMatch.String())
	assert.Equal(t, "invalid_coordinates", lookup.OutcomeInvalidCoordinates.String())
	assert.Equal(t, "failed", lookup.OutcomeFailed.String())
}
