package cpdf

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Location
		want float64 // meters
	}{
		{
			name: "same point",
			a:    NewLocation(-87.6298, 41.8781),
			b:    NewLocation(-87.6298, 41.8781),
			want: 0,
		},
		{
			name: "one degree of latitude",
			a:    NewLocation(-87.6298, 41.0),
			b:    NewLocation(-87.6298, 42.0),
			want: 111195,
		},
		{
			name: "chicago city block",
			a:    NewLocation(-87.6298, 41.8781),
			b:    NewLocation(-87.6310, 41.8781),
			want: 99.4,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.a.Distance(&tc.b)
			if math.Abs(got-tc.want) > tc.want*0.01+0.5 {
				t.Errorf("Distance = %f, want ~%f", got, tc.want)
			}
		})
	}
}

func TestDistanceFromLineSegment(t *testing.T) {
	// Vertical segment through downtown Chicago
	a := NewLocation(-87.6300, 41.8770)
	b := NewLocation(-87.6300, 41.8790)

	// Perpendicular from the middle of the segment
	point := NewLocation(-87.6310, 41.8780)
	got := point.DistanceFromLineSegment(a, b)
	want := 82.8
	if math.Abs(got-want) > 2 {
		t.Errorf("perpendicular distance = %f, want ~%f", got, want)
	}

	// Past the end of the segment, distance is to the endpoint
	past := NewLocation(-87.6300, 41.8800)
	got = past.DistanceFromLineSegment(a, b)
	want = past.Distance(&b)
	if math.Abs(got-want) > 0.01 {
		t.Errorf("past-endpoint distance = %f, want %f", got, want)
	}
}

func TestLocationValid(t *testing.T) {
	tests := []struct {
		name     string
		location Location
		want     bool
	}{
		{"valid", NewLocation(-87.6298, 41.8781), true},
		{"longitude out of range", NewLocation(-187.0, 41.8781), false},
		{"latitude out of range", NewLocation(-87.6298, 91.0), false},
		{"nan", NewLocation(math.NaN(), 41.8781), false},
		{"no coordinates", Location{Type: "Point"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.location.Valid(); got != tc.want {
				t.Errorf("Valid = %v, want %v", got, tc.want)
			}
		})
	}
}
