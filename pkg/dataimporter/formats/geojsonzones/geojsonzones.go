package geojsonzones

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/dataimporter/datasets"
	"github.com/rs/zerolog/log"
)

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string           `json:"type"`
	Geometry   *featureGeometry `json:"geometry"`
	Properties map[string]any   `json:"properties"`
}

type featureGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ParseGeometries decodes a GeoJSON FeatureCollection into restriction
// geometries. Features whose geometry cannot be represented as a single
// line or exterior ring are counted and skipped rather than failing the
// whole import, as some city exports describe zones only as textual
// boundary descriptions with no geometry attached.
func ParseGeometries(reader io.Reader, dataset *datasets.DataSet) ([]cpdf.RestrictionGeometry, error) {
	var collection featureCollection
	if err := json.NewDecoder(reader).Decode(&collection); err != nil {
		return nil, err
	}

	if collection.Type != "FeatureCollection" {
		return nil, fmt.Errorf("expected FeatureCollection, got %q", collection.Type)
	}

	var geometries []cpdf.RestrictionGeometry
	skipped := 0

	for index, collectionFeature := range collection.Features {
		points, err := extractPoints(collectionFeature.Geometry, dataset.GeometryKind)
		if err != nil {
			skipped += 1
			continue
		}

		identifier := featureIdentifier(collectionFeature.Properties, dataset, index)

		geometries = append(geometries, cpdf.RestrictionGeometry{
			PrimaryIdentifier: identifier,

			City:    dataset.City,
			Dataset: dataset.Dataset,

			GeometryKind: dataset.GeometryKind,
			Points:       points,

			Attributes: cpdf.RestrictionAttributes{
				ScheduleText: firstProperty(collectionFeature.Properties, "schedule"),
				StreetName:   firstProperty(collectionFeature.Properties, "street_name", "name", "street"),
				Ward:         firstProperty(collectionFeature.Properties, "ward"),
				Section:      firstProperty(collectionFeature.Properties, "section", "zone"),
			},

			DataSource: &cpdf.DataSourceReference{
				Provider:   dataset.Provider.Name,
				Dataset:    dataset.Identifier,
				Identifier: identifier,
			},
		})
	}

	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("Skipped features without usable geometry")
	}

	return geometries, nil
}

func extractPoints(geometry *featureGeometry, kind cpdf.GeometryKind) ([][]float64, error) {
	if geometry == nil {
		return nil, fmt.Errorf("feature has no geometry")
	}

	switch kind {
	case cpdf.GeometryKindLine:
		switch geometry.Type {
		case "LineString":
			var line [][]float64
			if err := json.Unmarshal(geometry.Coordinates, &line); err != nil {
				return nil, err
			}
			if len(line) < 2 {
				return nil, fmt.Errorf("line has fewer than 2 points")
			}
			return line, nil
		case "MultiLineString":
			var lines [][][]float64
			if err := json.Unmarshal(geometry.Coordinates, &lines); err != nil {
				return nil, err
			}
			if len(lines) == 0 || len(lines[0]) < 2 {
				return nil, fmt.Errorf("multiline has no usable line")
			}
			return lines[0], nil
		}
	case cpdf.GeometryKindPolygon:
		switch geometry.Type {
		case "Polygon":
			var rings [][][]float64
			if err := json.Unmarshal(geometry.Coordinates, &rings); err != nil {
				return nil, err
			}
			if len(rings) == 0 || len(rings[0]) < 3 {
				return nil, fmt.Errorf("polygon has no usable ring")
			}
			return rings[0], nil
		case "MultiPolygon":
			var polygons [][][][]float64
			if err := json.Unmarshal(geometry.Coordinates, &polygons); err != nil {
				return nil, err
			}
			if len(polygons) == 0 || len(polygons[0]) == 0 || len(polygons[0][0]) < 3 {
				return nil, fmt.Errorf("multipolygon has no usable ring")
			}
			return polygons[0][0], nil
		}
	}

	return nil, fmt.Errorf("unsupported geometry type %q", geometry.Type)
}

func featureIdentifier(properties map[string]any, dataset *datasets.DataSet, index int) string {
	if id := firstProperty(properties, "id", "objectid", "zone_id", "route_id"); id != "" {
		return fmt.Sprintf("%s-%s", dataset.Identifier, id)
	}

	return fmt.Sprintf("%s-%d", dataset.Identifier, index)
}

func firstProperty(properties map[string]any, keys ...string) string {
	for _, key := range keys {
		switch value := properties[key].(type) {
		case string:
			if value != "" {
				return value
			}
		case float64:
			return strconv.FormatFloat(value, 'f', -1, 64)
		}
	}

	return ""
}
