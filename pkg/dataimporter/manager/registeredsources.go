package manager

import (
	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/dataimporter/datasets"
)

func GetRegisteredDataSets() []datasets.DataSet {
	return []datasets.DataSet{
		{
			Identifier: "us-chicago-street-cleaning",
			Format:     datasets.DataSetFormatChicagoSweepingCSV,

			City:    "chicago",
			Dataset: cpdf.RestrictionDatasetStreetCleaning,

			GeometryKind: cpdf.GeometryKindPolygon,

			Provider: datasets.Provider{
				Name:    "Chicago Data Portal",
				Website: "https://data.cityofchicago.org",
			},

			Source: "https://data.cityofchicago.org/api/views/street-cleaning/rows.csv",
		},
		{
			Identifier: "us-boston-snow-routes",
			Format:     datasets.DataSetFormatGeoJSONZones,

			City:    "boston",
			Dataset: cpdf.RestrictionDatasetSnowRoute,

			GeometryKind: cpdf.GeometryKindLine,

			Provider: datasets.Provider{
				Name:    "Analyze Boston",
				Website: "https://data.boston.gov",
			},

			Source: "https://data.boston.gov/dataset/snow-emergency-routes/export.geojson",
		},
		{
			Identifier: "us-la-permit-zones",
			Format:     datasets.DataSetFormatGeoJSONZones,

			City:    "los_angeles",
			Dataset: cpdf.RestrictionDatasetPermitZone,

			GeometryKind: cpdf.GeometryKindPolygon,

			Provider: datasets.Provider{
				Name:    "Los Angeles Open Data",
				Website: "https://data.lacity.org",
			},

			Source: "https://data.lacity.org/api/views/preferential-parking-districts/export.geojson",
		},
	}
}
