package resolver

import (
	"context"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/database"
	"github.com/curbwise/curbwise/pkg/geometryindex"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
)

// LoadPartitions reads every imported geometry out of the database and
// builds the live index, one partition per (city, dataset).
func LoadPartitions(index *geometryindex.Index) error {
	geometriesCollection := database.GetCollection("restriction_geometries")

	cursor, err := geometriesCollection.Find(context.Background(), bson.M{})
	if err != nil {
		return err
	}

	partitioned := map[string]map[cpdf.RestrictionDataset][]cpdf.RestrictionGeometry{}

	for cursor.Next(context.Background()) {
		var geometry cpdf.RestrictionGeometry
		if err := cursor.Decode(&geometry); err != nil {
			log.Warn().Err(err).Msg("Failed to decode restriction geometry")
			continue
		}

		if partitioned[geometry.City] == nil {
			partitioned[geometry.City] = map[cpdf.RestrictionDataset][]cpdf.RestrictionGeometry{}
		}
		partitioned[geometry.City][geometry.Dataset] = append(partitioned[geometry.City][geometry.Dataset], geometry)
	}

	for city, datasets := range partitioned {
		for dataset, geometries := range datasets {
			index.ReplacePartition(city, dataset, geometries)
		}
	}

	return nil
}
