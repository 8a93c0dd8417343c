package chicagosweeping

import (
	"strings"
	"testing"
	"time"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/dataimporter/datasets"
)

const sampleCSV = `the_geom,ward,section,schedule,street_name
"MULTIPOLYGON (((-87.6330 41.8750, -87.6260 41.8750, -87.6260 41.8810, -87.6330 41.8810, -87.6330 41.8750)))",43,2,"1st & 3rd Wed 9AM-3PM Apr-Nov",N LASALLE DR
"",44,1,"2nd Tue 9AM-3PM Apr-Nov",N CLARK ST
"MULTIPOLYGON (((-87.6500 41.9200, -87.6450 41.9200, -87.6450 41.9250, -87.6500 41.9250, -87.6500 41.9200)))",44,3,"4th Fri 9AM-3PM Apr-Nov",W DIVERSEY PKWY
`

func testDataSet() *datasets.DataSet {
	return &datasets.DataSet{
		Identifier: "us-chicago-street-cleaning",
		City:       "chicago",
		Dataset:    cpdf.RestrictionDatasetStreetCleaning,
		Provider: datasets.Provider{
			Name: "City of Chicago",
		},
	}
}

func TestParseGeometries(t *testing.T) {
	geometries, err := ParseGeometries(strings.NewReader(sampleCSV), testDataSet())
	if err != nil {
		t.Fatalf("ParseGeometries returned error: %v", err)
	}

	// The empty-geometry row is skipped, not fatal
	if len(geometries) != 2 {
		t.Fatalf("expected 2 geometries, got %d", len(geometries))
	}

	first := geometries[0]
	if first.PrimaryIdentifier != "us-chicago-street-cleaning-ward43-section2" {
		t.Errorf("identifier = %s", first.PrimaryIdentifier)
	}
	if first.GeometryKind != cpdf.GeometryKindPolygon {
		t.Errorf("geometry kind = %s", first.GeometryKind)
	}
	if len(first.Points) != 5 {
		t.Errorf("expected 5 ring points, got %d", len(first.Points))
	}
	if first.Points[0][0] != -87.6330 || first.Points[0][1] != 41.8750 {
		t.Errorf("first point = %v", first.Points[0])
	}
	if first.Attributes.Ward != "43" || first.Attributes.Section != "2" {
		t.Errorf("attributes = %+v", first.Attributes)
	}
	if first.Attributes.StreetName != "N LASALLE DR" {
		t.Errorf("street name = %s", first.Attributes.StreetName)
	}
}

func TestParseScheduleText(t *testing.T) {
	window := ParseScheduleText("1st & 3rd Wed 9AM-3PM Apr-Nov")
	if window == nil {
		t.Fatal("expected a parsed window")
	}

	if len(window.WeeksOfMonth) != 2 || window.WeeksOfMonth[0] != 1 || window.WeeksOfMonth[1] != 3 {
		t.Errorf("weeks = %v", window.WeeksOfMonth)
	}
	if len(window.DaysOfWeek) != 1 || window.DaysOfWeek[0] != time.Wednesday {
		t.Errorf("days = %v", window.DaysOfWeek)
	}
	if window.HourStart != 9 || window.HourEnd != 15 {
		t.Errorf("hours = %d-%d", window.HourStart, window.HourEnd)
	}
	if window.MonthStart != time.April || window.MonthEnd != time.November {
		t.Errorf("months = %s-%s", window.MonthStart, window.MonthEnd)
	}

	// A parsed window must agree with the posted text
	if !window.InEffect(time.Date(2025, time.June, 4, 10, 0, 0, 0, time.UTC)) {
		t.Error("first wednesday of june should be in effect")
	}
	if window.InEffect(time.Date(2025, time.June, 11, 10, 0, 0, 0, time.UTC)) {
		t.Error("second wednesday of june should not be in effect")
	}
}

func TestParseScheduleTextUnparseable(t *testing.T) {
	if window := ParseScheduleText("SEE POSTED SIGNS"); window != nil {
		t.Errorf("expected nil window for free text, got %+v", window)
	}
}
