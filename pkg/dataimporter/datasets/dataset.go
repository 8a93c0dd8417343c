package datasets

import "github.com/curbwise/curbwise/pkg/cpdf"

type DataSetFormat string

const (
	DataSetFormatChicagoSweepingCSV DataSetFormat = "us-chicago-sweeping-csv"
	DataSetFormatGeoJSONZones                     = "geojson-zones"
)

type DataSet struct {
	Identifier string
	Format     DataSetFormat

	City    string
	Dataset cpdf.RestrictionDataset

	// GeometryKind applies to geojson datasets where the feature type
	// alone does not say whether we treat the rows as zones or routes
	GeometryKind cpdf.GeometryKind

	Provider Provider

	Source string
}

type Provider struct {
	Name    string
	Website string
}
