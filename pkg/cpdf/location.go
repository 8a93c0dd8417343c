package cpdf

import "math"

const earthRadiusMeters = 6371000.0

// Location is a GeoJSON-style point. Coordinates are WGS84 degrees in
// longitude, latitude order.
type Location struct {
	Type        string    `json:"type" bson:"type" groups:"basic"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates" groups:"basic"`
}

func NewLocation(lon float64, lat float64) Location {
	return Location{
		Type:        "Point",
		Coordinates: []float64{lon, lat},
	}
}

func (l *Location) Longitude() float64 {
	return l.Coordinates[0]
}

func (l *Location) Latitude() float64 {
	return l.Coordinates[1]
}

func (l *Location) Valid() bool {
	if len(l.Coordinates) != 2 {
		return false
	}

	lon := l.Coordinates[0]
	lat := l.Coordinates[1]

	if math.IsNaN(lon) || math.IsNaN(lat) {
		return false
	}

	return lon >= -180 && lon <= 180 && lat >= -90 && lat <= 90
}

// Distance returns the great-circle distance in meters between two points.
// Callers compare against thresholds around 30m so a planar approximation
// is not good enough here.
func (l *Location) Distance(other *Location) float64 {
	lat1 := l.Coordinates[1] * math.Pi / 180
	lat2 := other.Coordinates[1] * math.Pi / 180
	deltaLat := (other.Coordinates[1] - l.Coordinates[1]) * math.Pi / 180
	deltaLon := (other.Coordinates[0] - l.Coordinates[0]) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// DistanceFromLineSegment returns the distance in meters from the point to
// the segment a-b. The closest point on the segment is interpolated in
// degree space, which is fine at city scale, and the final distance is
// geodesic.
func (l *Location) DistanceFromLineSegment(a Location, b Location) float64 {
	A := l.Coordinates[0] - a.Coordinates[0]
	B := l.Coordinates[1] - a.Coordinates[1]
	C := b.Coordinates[0] - a.Coordinates[0]
	D := b.Coordinates[1] - a.Coordinates[1]

	dot := A*C + B*D
	lenSq := C*C + D*D

	param := -1.0
	if lenSq != 0 {
		param = dot / lenSq
	}

	var closest Location
	if param < 0 {
		closest = a
	} else if param > 1 {
		closest = b
	} else {
		closest = NewLocation(a.Coordinates[0]+param*C, a.Coordinates[1]+param*D)
	}

	return l.Distance(&closest)
}
