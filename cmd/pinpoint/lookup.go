package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"github.com/rendis/pinpoint/internal/engine/lookup"
	"github.com/rendis/pinpoint/internal/tui/components"
)

func newLookupCommand(flags *globalFlags) *cobra.Command {
	var asGeoJSON bool

	cmd := &cobra.Command{
		Use:   "lookup <address...>",
		Short: "Resolve one address without the interactive screen",
		Long: `Resolve one address with the configured geocoding provider and print
the result. Words are joined with spaces, so quoting is optional.

Exits non-zero when the address cannot be shown on the map.`,
		Example: `  pinpoint lookup Mannerheimintie 1, Helsinki
  pinpoint lookup --geojson "10 Downing Street, London"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())

			ctrl, err := buildController(cfg, logger)
			if err != nil {
				return err
			}

			if err := ctrl.Lookup(cmd.Context(), strings.Join(args, " ")); err != nil {
				return err
			}

			s := ctrl.State()
			if s.Marker == nil {
				return errors.New(s.Caption)
			}
			if asGeoJSON {
				return writeGeoJSON(cmd.OutOrStdout(), s)
			}
			writeText(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asGeoJSON, "geojson", false, "print the result as a GeoJSON FeatureCollection")
	return cmd
}

func writeText(w io.Writer, s lookup.State) {
	fmt.Fprintf(w, "%s:      %s\n", components.MarkerTitle, s.Marker.Label)
	fmt.Fprintf(w, "Coordinates: %.6f, %.6f\n", s.Marker.Lat, s.Marker.Lng)
	fmt.Fprintf(w, "Region:      center %.6f, %.6f span %.3f x %.3f\n",
		s.Region.CenterLat, s.Region.CenterLng, s.Region.LatSpan, s.Region.LngSpan)
}

func writeGeoJSON(w io.Writer, s lookup.State) error {
	f := geojson.NewFeature(s.Marker.Point())
	f.Properties["title"] = components.MarkerTitle
	f.Properties["description"] = s.Marker.Label
	f.BBox = geojson.NewBBox(s.Region.Bound())

	fc := geojson.NewFeatureCollection()
	fc.Append(f)

	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding geojson: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
