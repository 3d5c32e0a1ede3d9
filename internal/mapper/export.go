package mapper

import (
	"encoding/json"
	"fmt"

	"github.com/woozymasta/georoute/internal/geo"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// PathFeatures converts location groups into a GeoJSON collection with one
// Point per group and a LineString through the groups in first-seen order.
func PathFeatures(groups []Group) geo.GeoJSONFeatureCollection {
	fc := geo.NewFeatureCollection()
	points := make([][2]float64, 0, len(groups))

	for _, g := range groups {
		steps := make([]int, 0, len(g.Entries))
		ips := make([]string, 0, len(g.Entries))
		for _, e := range g.Entries {
			steps = append(steps, e.Step)
			ips = append(ips, e.IP)
		}

		fc.Features = append(fc.Features, geo.PointFeature(g.Lat, g.Lon, map[string]interface{}{
			"city":    g.Entries[0].City,
			"country": g.Entries[0].Country,
			"steps":   steps,
			"ips":     ips,
		}))
		points = append(points, [2]float64{g.Lat, g.Lon})
	}

	if len(points) > 0 {
		fc.Features = append(fc.Features, geo.LineFeature(points, map[string]interface{}{
			"distance_km": geo.PathLength(points),
		}))
	}

	return fc
}

// Export writes the located path as GeoJSON ("json") or its YAML rendering ("yaml").
func Export(records []geo.Record, path, format string) error {
	if len(records) == 0 {
		log.Warn().Msg("No valid geographic data to export")
		return ErrNoData
	}

	fc := PathFeatures(GroupByLocation(records))

	var (
		data []byte
		err  error
	)
	switch format {
	case "yaml":
		data, err = yaml.Marshal(fc)
	case "json", "":
		data, err = json.MarshalIndent(fc, "", "  ")
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return err
	}

	if err := writeFile(path, data); err != nil {
		return err
	}

	log.Info().
		Str("path", path).
		Str("format", format).
		Int("features", len(fc.Features)).
		Msg("Path exported")

	return nil
}
