package cpdf

type RestrictionDataset string

const (
	RestrictionDatasetStreetCleaning RestrictionDataset = "street_cleaning"
	RestrictionDatasetSnowRoute                         = "snow_route"
	RestrictionDatasetPermitZone                        = "permit_zone"
)

type GeometryKind string

const (
	GeometryKindPolygon GeometryKind = "Polygon"
	GeometryKindLine                 = "LineString"
)

// RestrictionGeometry is one imported parking rule geometry. Records are
// immutable once imported; re-import replaces the whole (city, dataset)
// partition rather than mutating rows.
type RestrictionGeometry struct {
	PrimaryIdentifier string `groups:"basic"`

	City    string             `groups:"basic"`
	Dataset RestrictionDataset `groups:"basic"`

	GeometryKind GeometryKind `groups:"basic"`
	// Points is the exterior ring for polygons or the ordered vertices for
	// lines, each in longitude, latitude order
	Points [][]float64 `groups:"detailed"`

	Attributes RestrictionAttributes `groups:"basic"`

	DataSource *DataSourceReference `groups:"internal"`
}

// RestrictionAttributes carries the schedule metadata callers need to
// explain a match to a user
type RestrictionAttributes struct {
	ScheduleText string `groups:"basic"`
	StreetName   string `groups:"basic"`
	Ward         string `groups:"basic"`
	Section      string `groups:"basic"`

	Schedule *ScheduleWindow `groups:"detailed"`

	// EnforcementWindowStart is a 24h HH:MM time of day, with the window
	// length an ISO8601 duration (eg. PT12H). Only set on time-bounded
	// datasets such as snow routes.
	EnforcementWindowStart    string `groups:"detailed"`
	EnforcementWindowDuration string `groups:"detailed"`
}

type DataSourceReference struct {
	Provider   string `groups:"internal"`
	Dataset    string `groups:"internal"`
	Identifier string `groups:"internal"`
}

// RestrictionMatch is the per-query result of resolving a coordinate
// against the index. Ephemeral, never persisted.
type RestrictionMatch struct {
	RestrictionID string             `groups:"basic"`
	City          string             `groups:"basic"`
	Dataset       RestrictionDataset `groups:"basic"`

	// DistanceMeters is 0 for containment matches as distance is undefined
	// for a point inside a polygon
	DistanceMeters float64 `groups:"basic"`
	Contains       bool    `groups:"basic"`

	Attributes RestrictionAttributes `groups:"basic"`

	// BanStatus is only populated for time-bounded datasets
	BanStatus *BanStatus `groups:"basic"`
}
