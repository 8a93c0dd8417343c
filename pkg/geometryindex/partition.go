package geometryindex

import (
	"math"
	"sort"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// Grid cell edge in degrees, roughly 220m / 1.5 city blocks. The same
// block size the upstream open-data aggregation uses.
const cellSizeDegrees = 0.002

const metersPerDegreeLatitude = 111320.0

type cellKey struct {
	X int
	Y int
}

type geometryBounds struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

type storedGeometry struct {
	Sequence int
	Geometry cpdf.RestrictionGeometry
	Bounds   geometryBounds
}

// Partition is an immutable grid index over one (city, dataset) set of
// geometries. Built once, then only read.
type Partition struct {
	City    string
	Dataset cpdf.RestrictionDataset

	Generation int
	Skipped    int

	geometries []storedGeometry
	cells      map[cellKey][]int
}

func newPartition(city string, dataset cpdf.RestrictionDataset, generation int, geometries []cpdf.RestrictionGeometry) *Partition {
	partition := &Partition{
		City:       city,
		Dataset:    dataset,
		Generation: generation,
		cells:      map[cellKey][]int{},
	}

	for _, geometry := range geometries {
		if !validGeometry(&geometry) {
			// Import pipelines are external and imperfect; one bad row
			// must not take the partition down
			log.Warn().
				Str("city", city).
				Str("dataset", string(dataset)).
				Str("geometry", geometry.PrimaryIdentifier).
				Msg("Skipping invalid geometry")
			partition.Skipped += 1
			continue
		}

		stored := storedGeometry{
			Sequence: len(partition.geometries),
			Geometry: geometry,
			Bounds:   boundsOf(geometry.Points),
		}
		partition.geometries = append(partition.geometries, stored)

		for _, cell := range cellsForBounds(stored.Bounds) {
			partition.cells[cell] = append(partition.cells[cell], stored.Sequence)
		}
	}

	return partition
}

func validGeometry(geometry *cpdf.RestrictionGeometry) bool {
	minimumPoints := 2
	if geometry.GeometryKind == cpdf.GeometryKindPolygon {
		minimumPoints = 3
	} else if geometry.GeometryKind != cpdf.GeometryKindLine {
		return false
	}

	if len(geometry.Points) < minimumPoints {
		return false
	}

	for _, point := range geometry.Points {
		if len(point) != 2 {
			return false
		}

		location := cpdf.NewLocation(point[0], point[1])
		if !location.Valid() {
			return false
		}
	}

	return true
}

func boundsOf(points [][]float64) geometryBounds {
	bounds := geometryBounds{
		MinLon: points[0][0],
		MinLat: points[0][1],
		MaxLon: points[0][0],
		MaxLat: points[0][1],
	}

	for _, point := range points[1:] {
		bounds.MinLon = math.Min(bounds.MinLon, point[0])
		bounds.MinLat = math.Min(bounds.MinLat, point[1])
		bounds.MaxLon = math.Max(bounds.MaxLon, point[0])
		bounds.MaxLat = math.Max(bounds.MaxLat, point[1])
	}

	return bounds
}

func cellOf(lon float64, lat float64) cellKey {
	return cellKey{
		X: int(math.Floor(lon / cellSizeDegrees)),
		Y: int(math.Floor(lat / cellSizeDegrees)),
	}
}

func cellsForBounds(bounds geometryBounds) []cellKey {
	minCell := cellOf(bounds.MinLon, bounds.MinLat)
	maxCell := cellOf(bounds.MaxLon, bounds.MaxLat)

	var cells []cellKey
	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			cells = append(cells, cellKey{X: x, Y: y})
		}
	}

	return cells
}

// candidates collects the geometry sequences indexed within radiusCells
// grid cells of the coordinate, deduplicated and in insertion order.
func (p *Partition) candidates(coord cpdf.Location, radiusCells int) []int {
	centre := cellOf(coord.Longitude(), coord.Latitude())

	seen := map[int]bool{}
	var sequences []int

	for x := centre.X - radiusCells; x <= centre.X+radiusCells; x++ {
		for y := centre.Y - radiusCells; y <= centre.Y+radiusCells; y++ {
			for _, sequence := range p.cells[cellKey{X: x, Y: y}] {
				if !seen[sequence] {
					seen[sequence] = true
					sequences = append(sequences, sequence)
				}
			}
		}
	}

	sort.Ints(sequences)

	return sequences
}

func (p *Partition) Nearest(coord cpdf.Location, maxDistanceMeters float64, limit int) []cpdf.RestrictionMatch {
	if !coord.Valid() {
		return []cpdf.RestrictionMatch{}
	}

	radiusDegrees := maxDistanceMeters / metersPerDegreeLatitude
	radiusCells := int(math.Ceil(radiusDegrees/cellSizeDegrees)) + 1

	type candidateDistance struct {
		Sequence int
		Distance float64
	}

	var withinThreshold []candidateDistance
	for _, sequence := range p.candidates(coord, radiusCells) {
		stored := p.geometries[sequence]

		distance := stored.distanceTo(&coord)
		if distance <= maxDistanceMeters {
			withinThreshold = append(withinThreshold, candidateDistance{
				Sequence: sequence,
				Distance: distance,
			})
		}
	}

	// Stable sort keeps first-imported ordering for equidistant
	// geometries, so repeated queries always return the same result
	sort.SliceStable(withinThreshold, func(i, j int) bool {
		return withinThreshold[i].Distance < withinThreshold[j].Distance
	})

	if limit > 0 && len(withinThreshold) > limit {
		withinThreshold = withinThreshold[:limit]
	}

	matches := []cpdf.RestrictionMatch{}
	for _, candidate := range withinThreshold {
		matches = append(matches, p.buildMatch(candidate.Sequence, candidate.Distance, false))
	}

	return matches
}

func (p *Partition) Contains(coord cpdf.Location) []cpdf.RestrictionMatch {
	if !coord.Valid() {
		return []cpdf.RestrictionMatch{}
	}

	matches := []cpdf.RestrictionMatch{}
	for _, sequence := range p.candidates(coord, 0) {
		stored := p.geometries[sequence]

		if stored.Geometry.GeometryKind != cpdf.GeometryKindPolygon {
			continue
		}

		if pointInPolygon(&coord, stored.Geometry.Points) {
			matches = append(matches, p.buildMatch(sequence, 0, true))
		}
	}

	return matches
}

func (p *Partition) buildMatch(sequence int, distance float64, contains bool) cpdf.RestrictionMatch {
	stored := p.geometries[sequence]

	match := cpdf.RestrictionMatch{
		RestrictionID:  stored.Geometry.PrimaryIdentifier,
		City:           p.City,
		Dataset:        p.Dataset,
		DistanceMeters: distance,
		Contains:       contains,
	}
	copier.Copy(&match.Attributes, &stored.Geometry.Attributes)

	return match
}

func (s *storedGeometry) distanceTo(coord *cpdf.Location) float64 {
	points := s.Geometry.Points

	if s.Geometry.GeometryKind == cpdf.GeometryKindPolygon && pointInPolygon(coord, points) {
		return 0
	}

	closed := s.Geometry.GeometryKind == cpdf.GeometryKindPolygon

	minDistance := math.Inf(1)
	for i := 0; i < len(points)-1; i++ {
		segmentStart := cpdf.NewLocation(points[i][0], points[i][1])
		segmentEnd := cpdf.NewLocation(points[i+1][0], points[i+1][1])

		minDistance = math.Min(minDistance, coord.DistanceFromLineSegment(segmentStart, segmentEnd))
	}

	if closed {
		segmentStart := cpdf.NewLocation(points[len(points)-1][0], points[len(points)-1][1])
		segmentEnd := cpdf.NewLocation(points[0][0], points[0][1])

		minDistance = math.Min(minDistance, coord.DistanceFromLineSegment(segmentStart, segmentEnd))
	}

	return minDistance
}

// pointInPolygon ray casts against the exterior ring. The ring does not
// need to be explicitly closed.
func pointInPolygon(coord *cpdf.Location, points [][]float64) bool {
	lon := coord.Longitude()
	lat := coord.Latitude()

	inside := false
	j := len(points) - 1
	for i := 0; i < len(points); i++ {
		iLon := points[i][0]
		iLat := points[i][1]
		jLon := points[j][0]
		jLat := points[j][1]

		if (iLat > lat) != (jLat > lat) &&
			lon < (jLon-iLon)*(lat-iLat)/(jLat-iLat)+iLon {
			inside = !inside
		}

		j = i
	}

	return inside
}
