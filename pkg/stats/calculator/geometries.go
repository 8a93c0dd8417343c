package calculator

import (
	"context"

	"github.com/curbwise/curbwise/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
)

type GeometriesStats struct {
	Total int

	Cities   map[string]int
	Datasets map[string]int
}

func GetGeometries() GeometriesStats {
	geometriesCollection := database.GetCollection("restriction_geometries")
	numberGeometries, _ := geometriesCollection.CountDocuments(context.Background(), bson.D{})

	return GeometriesStats{
		Total: int(numberGeometries),

		Cities:   CountAggregate(geometriesCollection, "$city"),
		Datasets: CountAggregate(geometriesCollection, "$dataset"),
	}
}
