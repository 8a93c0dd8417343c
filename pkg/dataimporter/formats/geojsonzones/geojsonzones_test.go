package geojsonzones

import (
	"strings"
	"testing"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/dataimporter/datasets"
)

const snowRoutesGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"geometry": {
				"type": "LineString",
				"coordinates": [[-71.0603, 42.3601], [-71.0603, 42.3621]]
			},
			"properties": {"route_id": 17, "name": "Tremont St"}
		},
		{
			"type": "Feature",
			"geometry": {
				"type": "MultiLineString",
				"coordinates": [[[-71.0550, 42.3601], [-71.0550, 42.3621]]]
			},
			"properties": {"route_id": 18}
		},
		{
			"type": "Feature",
			"geometry": null,
			"properties": {"route_id": 19, "name": "Described only by boundary text"}
		}
	]
}`

func TestParseLineGeometries(t *testing.T) {
	dataset := &datasets.DataSet{
		Identifier:   "us-boston-snow-routes",
		City:         "boston",
		Dataset:      cpdf.RestrictionDatasetSnowRoute,
		GeometryKind: cpdf.GeometryKindLine,
		Provider:     datasets.Provider{Name: "Analyze Boston"},
	}

	geometries, err := ParseGeometries(strings.NewReader(snowRoutesGeoJSON), dataset)
	if err != nil {
		t.Fatalf("ParseGeometries returned error: %v", err)
	}

	// The geometry-less feature is skipped, not fatal
	if len(geometries) != 2 {
		t.Fatalf("expected 2 geometries, got %d", len(geometries))
	}

	first := geometries[0]
	if first.PrimaryIdentifier != "us-boston-snow-routes-17" {
		t.Errorf("identifier = %s", first.PrimaryIdentifier)
	}
	if first.GeometryKind != cpdf.GeometryKindLine {
		t.Errorf("geometry kind = %s", first.GeometryKind)
	}
	if len(first.Points) != 2 {
		t.Errorf("expected 2 line points, got %d", len(first.Points))
	}
	if first.Attributes.StreetName != "Tremont St" {
		t.Errorf("street name = %s", first.Attributes.StreetName)
	}

	if geometries[1].PrimaryIdentifier != "us-boston-snow-routes-18" {
		t.Errorf("multiline identifier = %s", geometries[1].PrimaryIdentifier)
	}
}

func TestParsePolygonGeometries(t *testing.T) {
	permitZonesGeoJSON := `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"geometry": {
					"type": "Polygon",
					"coordinates": [[[-118.30, 34.09], [-118.29, 34.09], [-118.29, 34.10], [-118.30, 34.10], [-118.30, 34.09]]]
				},
				"properties": {"zone": "383", "schedule": "8AM-6PM Mon-Fri"}
			}
		]
	}`

	dataset := &datasets.DataSet{
		Identifier:   "us-la-permit-zones",
		City:         "los_angeles",
		Dataset:      cpdf.RestrictionDatasetPermitZone,
		GeometryKind: cpdf.GeometryKindPolygon,
		Provider:     datasets.Provider{Name: "Los Angeles Open Data"},
	}

	geometries, err := ParseGeometries(strings.NewReader(permitZonesGeoJSON), dataset)
	if err != nil {
		t.Fatalf("ParseGeometries returned error: %v", err)
	}
	if len(geometries) != 1 {
		t.Fatalf("expected 1 geometry, got %d", len(geometries))
	}

	zone := geometries[0]
	if len(zone.Points) != 5 {
		t.Errorf("expected 5 ring points, got %d", len(zone.Points))
	}
	if zone.Attributes.Section != "383" {
		t.Errorf("section = %s", zone.Attributes.Section)
	}
	if zone.Attributes.ScheduleText != "8AM-6PM Mon-Fri" {
		t.Errorf("schedule text = %s", zone.Attributes.ScheduleText)
	}
}

func TestParseRejectsNonCollection(t *testing.T) {
	dataset := &datasets.DataSet{GeometryKind: cpdf.GeometryKindPolygon}

	_, err := ParseGeometries(strings.NewReader(`{"type": "Feature"}`), dataset)
	if err == nil {
		t.Fatal("expected an error for a non-collection document")
	}
}
