package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/geometryindex"
)

type fakeBanStatusProvider struct {
	banStatus *cpdf.BanStatus
	err       error
}

func (f *fakeBanStatusProvider) Get(ctx context.Context, city string, restrictionType cpdf.RestrictionDataset) (*cpdf.BanStatus, error) {
	return f.banStatus, f.err
}

func testIndex() *geometryindex.Index {
	index := geometryindex.NewIndex()

	index.ReplacePartition("chicago", cpdf.RestrictionDatasetStreetCleaning, []cpdf.RestrictionGeometry{
		{
			PrimaryIdentifier: "ward43-section2",
			GeometryKind:      cpdf.GeometryKindPolygon,
			Points: [][]float64{
				{-87.6330, 41.8750},
				{-87.6260, 41.8750},
				{-87.6260, 41.8810},
				{-87.6330, 41.8810},
			},
			Attributes: cpdf.RestrictionAttributes{Ward: "43", Section: "2"},
		},
	})

	index.ReplacePartition("chicago", cpdf.RestrictionDatasetSnowRoute, []cpdf.RestrictionGeometry{
		{
			PrimaryIdentifier: "lasalle-route",
			GeometryKind:      cpdf.GeometryKindLine,
			Points:            [][]float64{{-87.6299, 41.8700}, {-87.6299, 41.8850}},
		},
	})

	return index
}

func TestResolveAllDatasets(t *testing.T) {
	resolver := NewResolver(testIndex(), &fakeBanStatusProvider{
		banStatus: &cpdf.BanStatus{City: "chicago", RestrictionType: cpdf.RestrictionDatasetSnowRoute, IsActive: true},
	})

	matches, err := resolver.Resolve(context.Background(), "chicago", cpdf.NewLocation(-87.6298, 41.8781), nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	if matches[0].RestrictionID != "ward43-section2" || !matches[0].Contains {
		t.Errorf("first match should be the containing ward section, got %+v", matches[0])
	}
	if matches[0].BanStatus != nil {
		t.Error("street cleaning matches must not carry ban status")
	}

	if matches[1].RestrictionID != "lasalle-route" {
		t.Errorf("second match should be the snow route, got %+v", matches[1])
	}
	if matches[1].BanStatus == nil || !matches[1].BanStatus.IsActive {
		t.Error("snow route match should carry the active ban status")
	}
}

func TestResolveDatasetFilter(t *testing.T) {
	resolver := NewResolver(testIndex(), &fakeBanStatusProvider{})

	matches, err := resolver.Resolve(context.Background(), "chicago", cpdf.NewLocation(-87.6298, 41.8781), &Options{
		Datasets: []cpdf.RestrictionDataset{cpdf.RestrictionDatasetStreetCleaning},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if len(matches) != 1 || matches[0].Dataset != cpdf.RestrictionDatasetStreetCleaning {
		t.Fatalf("expected only street cleaning matches, got %v", matches)
	}
}

func TestResolveThresholdOverride(t *testing.T) {
	resolver := NewResolver(testIndex(), &fakeBanStatusProvider{})

	// The route sits ~8m from the query point; a 5m threshold excludes it
	matches, err := resolver.Resolve(context.Background(), "chicago", cpdf.NewLocation(-87.6298, 41.8781), &Options{
		Datasets:        []cpdf.RestrictionDataset{cpdf.RestrictionDatasetSnowRoute},
		ThresholdMeters: 5,
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches within 5m, got %v", matches)
	}
}

func TestResolveNoMatches(t *testing.T) {
	resolver := NewResolver(testIndex(), &fakeBanStatusProvider{})

	// A point in the lake, far from every geometry
	matches, err := resolver.Resolve(context.Background(), "chicago", cpdf.NewLocation(-87.55, 41.9), nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if matches == nil || len(matches) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", matches)
	}
}

func TestResolveBanStatusFailureIsNotFatal(t *testing.T) {
	resolver := NewResolver(testIndex(), &fakeBanStatusProvider{err: errors.New("record not found")})

	matches, err := resolver.Resolve(context.Background(), "chicago", cpdf.NewLocation(-87.6298, 41.8781), &Options{
		Datasets: []cpdf.RestrictionDataset{cpdf.RestrictionDatasetSnowRoute},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected the geometry match to survive, got %v", matches)
	}
	if matches[0].BanStatus != nil {
		t.Error("ban status should be absent when the lookup fails")
	}
}
