package geometryindex

import (
	"testing"

	"github.com/curbwise/curbwise/pkg/cpdf"
)

func squareAround(lon float64, lat float64, halfEdgeDegrees float64) [][]float64 {
	return [][]float64{
		{lon - halfEdgeDegrees, lat - halfEdgeDegrees},
		{lon + halfEdgeDegrees, lat - halfEdgeDegrees},
		{lon + halfEdgeDegrees, lat + halfEdgeDegrees},
		{lon - halfEdgeDegrees, lat + halfEdgeDegrees},
	}
}

func TestMissingPartition(t *testing.T) {
	index := NewIndex()

	matches := index.Contains("chicago", cpdf.RestrictionDatasetStreetCleaning, cpdf.NewLocation(-87.6298, 41.8781))
	if matches == nil || len(matches) != 0 {
		t.Fatalf("expected empty non-nil result for missing partition, got %v", matches)
	}

	matches = index.Nearest("chicago", cpdf.RestrictionDatasetSnowRoute, cpdf.NewLocation(-87.6298, 41.8781), 30, 10)
	if matches == nil || len(matches) != 0 {
		t.Fatalf("expected empty non-nil result for missing partition, got %v", matches)
	}
}

func TestContainsWardSection(t *testing.T) {
	index := NewIndex()

	index.ReplacePartition("chicago", cpdf.RestrictionDatasetStreetCleaning, []cpdf.RestrictionGeometry{
		{
			PrimaryIdentifier: "us-chicago-street-cleaning-ward43-section2",
			GeometryKind:      cpdf.GeometryKindPolygon,
			Points:            squareAround(-87.6298, 41.8781, 0.003),
			Attributes: cpdf.RestrictionAttributes{
				Ward:         "43",
				Section:      "2",
				ScheduleText: "1st & 3rd Wed 9AM-3PM Apr-Nov",
			},
		},
		{
			PrimaryIdentifier: "us-chicago-street-cleaning-ward42-section1",
			GeometryKind:      cpdf.GeometryKindPolygon,
			Points:            squareAround(-87.7, 41.95, 0.003),
		},
	})

	matches := index.Contains("chicago", cpdf.RestrictionDatasetStreetCleaning, cpdf.NewLocation(-87.6298, 41.8781))
	if len(matches) != 1 {
		t.Fatalf("expected 1 containing geometry, got %d", len(matches))
	}

	match := matches[0]
	if match.RestrictionID != "us-chicago-street-cleaning-ward43-section2" {
		t.Errorf("matched wrong geometry %s", match.RestrictionID)
	}
	if !match.Contains {
		t.Error("expected Contains to be set")
	}
	if match.DistanceMeters != 0 {
		t.Errorf("containment distance = %f, want 0", match.DistanceMeters)
	}
	if match.Attributes.Ward != "43" || match.Attributes.Section != "2" {
		t.Errorf("attributes not carried over: %+v", match.Attributes)
	}
}

func TestNearestWithinThreshold(t *testing.T) {
	index := NewIndex()

	// Roughly 0.0003 deg of longitude at this latitude is ~25m; the far
	// route, at ~0.005 deg, is well past 30m
	index.ReplacePartition("boston", cpdf.RestrictionDatasetSnowRoute, []cpdf.RestrictionGeometry{
		{
			PrimaryIdentifier: "near-route",
			GeometryKind:      cpdf.GeometryKindLine,
			Points:            [][]float64{{-71.0603, 42.3601}, {-71.0603, 42.3621}},
		},
		{
			PrimaryIdentifier: "far-route",
			GeometryKind:      cpdf.GeometryKindLine,
			Points:            [][]float64{{-71.0550, 42.3601}, {-71.0550, 42.3621}},
		},
	})

	matches := index.Nearest("boston", cpdf.RestrictionDatasetSnowRoute, cpdf.NewLocation(-71.0600, 42.3610), 30, 10)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match within 30m, got %d", len(matches))
	}
	if matches[0].RestrictionID != "near-route" {
		t.Errorf("matched wrong geometry %s", matches[0].RestrictionID)
	}
	if matches[0].DistanceMeters <= 0 || matches[0].DistanceMeters > 30 {
		t.Errorf("distance %f outside (0, 30]", matches[0].DistanceMeters)
	}
}

// TestNearestDeterministicOrder runs the same query repeatedly against
// two equidistant geometries; the insertion order must always win.
func TestNearestDeterministicOrder(t *testing.T) {
	index := NewIndex()

	// Two identical lines the same distance from the query point
	line := [][]float64{{-87.6300, 41.8770}, {-87.6300, 41.8790}}
	index.ReplacePartition("chicago", cpdf.RestrictionDatasetSnowRoute, []cpdf.RestrictionGeometry{
		{PrimaryIdentifier: "first-imported", GeometryKind: cpdf.GeometryKindLine, Points: line},
		{PrimaryIdentifier: "second-imported", GeometryKind: cpdf.GeometryKindLine, Points: line},
	})

	for run := 0; run < 20; run++ {
		matches := index.Nearest("chicago", cpdf.RestrictionDatasetSnowRoute, cpdf.NewLocation(-87.6301, 41.8780), 30, 10)
		if len(matches) != 2 {
			t.Fatalf("run %d: expected 2 matches, got %d", run, len(matches))
		}
		if matches[0].RestrictionID != "first-imported" || matches[1].RestrictionID != "second-imported" {
			t.Fatalf("run %d: order changed: %s, %s", run, matches[0].RestrictionID, matches[1].RestrictionID)
		}
	}
}

func TestNearestLimit(t *testing.T) {
	index := NewIndex()

	var geometries []cpdf.RestrictionGeometry
	for i := 0; i < 15; i++ {
		geometries = append(geometries, cpdf.RestrictionGeometry{
			PrimaryIdentifier: "route",
			GeometryKind:      cpdf.GeometryKindLine,
			Points:            [][]float64{{-87.6300, 41.8770}, {-87.6300, 41.8790}},
		})
	}
	index.ReplacePartition("chicago", cpdf.RestrictionDatasetSnowRoute, geometries)

	matches := index.Nearest("chicago", cpdf.RestrictionDatasetSnowRoute, cpdf.NewLocation(-87.6301, 41.8780), 30, 10)
	if len(matches) != 10 {
		t.Fatalf("expected limit of 10 matches, got %d", len(matches))
	}
}

func TestInvalidGeometriesSkipped(t *testing.T) {
	index := NewIndex()

	partition := index.ReplacePartition("chicago", cpdf.RestrictionDatasetStreetCleaning, []cpdf.RestrictionGeometry{
		{
			PrimaryIdentifier: "valid",
			GeometryKind:      cpdf.GeometryKindPolygon,
			Points:            squareAround(-87.6298, 41.8781, 0.003),
		},
		{
			PrimaryIdentifier: "two-point-polygon",
			GeometryKind:      cpdf.GeometryKindPolygon,
			Points:            [][]float64{{-87.63, 41.87}, {-87.62, 41.88}},
		},
		{
			PrimaryIdentifier: "out-of-range",
			GeometryKind:      cpdf.GeometryKindPolygon,
			Points:            [][]float64{{-187.63, 41.87}, {-87.62, 41.88}, {-87.63, 41.89}},
		},
	})

	if partition.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", partition.Skipped)
	}

	matches := index.Contains("chicago", cpdf.RestrictionDatasetStreetCleaning, cpdf.NewLocation(-87.6298, 41.8781))
	if len(matches) != 1 || matches[0].RestrictionID != "valid" {
		t.Fatalf("expected only the valid geometry to be queryable, got %v", matches)
	}
}

func TestReplacePartitionGenerations(t *testing.T) {
	index := NewIndex()

	first := index.ReplacePartition("chicago", cpdf.RestrictionDatasetPermitZone, []cpdf.RestrictionGeometry{
		{
			PrimaryIdentifier: "zone-383",
			GeometryKind:      cpdf.GeometryKindPolygon,
			Points:            squareAround(-87.65, 41.92, 0.003),
		},
	})
	if first.Generation != 1 {
		t.Errorf("first generation = %d, want 1", first.Generation)
	}

	second := index.ReplacePartition("chicago", cpdf.RestrictionDatasetPermitZone, []cpdf.RestrictionGeometry{
		{
			PrimaryIdentifier: "zone-384",
			GeometryKind:      cpdf.GeometryKindPolygon,
			Points:            squareAround(-87.66, 41.93, 0.003),
		},
	})
	if second.Generation != 2 {
		t.Errorf("second generation = %d, want 2", second.Generation)
	}

	// Old geometry is gone after the swap
	matches := index.Contains("chicago", cpdf.RestrictionDatasetPermitZone, cpdf.NewLocation(-87.65, 41.92))
	if len(matches) != 0 {
		t.Errorf("expected replaced geometry to be unreachable, got %v", matches)
	}
}
