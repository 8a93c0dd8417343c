package manager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/database"
	"github.com/curbwise/curbwise/pkg/dataimporter/datasets"
	"github.com/curbwise/curbwise/pkg/dataimporter/formats/chicagosweeping"
	"github.com/curbwise/curbwise/pkg/dataimporter/formats/geojsonzones"
	"github.com/curbwise/curbwise/pkg/redis_client"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func GetDataset(identifier string) (datasets.DataSet, error) {
	for _, dataset := range GetRegisteredDataSets() {
		if dataset.Identifier == identifier {
			return dataset, nil
		}
	}

	return datasets.DataSet{}, errors.New("Failed to find dataset")
}

// ImportDataset downloads, parses & loads one registered dataset. The
// (city, dataset) partition in the database is replaced wholesale; rows
// are never partially mutated.
func ImportDataset(dataset *datasets.DataSet) error {
	startTime := time.Now()

	response, err := http.Get(dataset.Source)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("dataset source returned %d", response.StatusCode)
	}

	var geometries []cpdf.RestrictionGeometry

	switch dataset.Format {
	case datasets.DataSetFormatChicagoSweepingCSV:
		geometries, err = chicagosweeping.ParseGeometries(response.Body, dataset)
	case datasets.DataSetFormatGeoJSONZones:
		geometries, err = geojsonzones.ParseGeometries(response.Body, dataset)
	default:
		err = fmt.Errorf("unsupported dataset format %s", dataset.Format)
	}

	if err != nil {
		return err
	}

	if err := replacePartition(dataset, geometries); err != nil {
		return err
	}

	log.Info().
		Str("dataset", dataset.Identifier).
		Int("geometries", len(geometries)).
		Str("duration", time.Since(startTime).String()).
		Msg("Imported dataset")

	publishImportEvent(dataset, len(geometries))

	return nil
}

func replacePartition(dataset *datasets.DataSet, geometries []cpdf.RestrictionGeometry) error {
	geometriesCollection := database.GetCollection("restriction_geometries")

	_, err := geometriesCollection.DeleteMany(context.Background(), bson.M{
		"city":    dataset.City,
		"dataset": dataset.Dataset,
	})
	if err != nil {
		return err
	}

	if len(geometries) > 0 {
		documents := make([]interface{}, len(geometries))
		for index, geometry := range geometries {
			documents[index] = geometry
		}

		_, err = geometriesCollection.InsertMany(context.Background(), documents)
		if err != nil {
			return err
		}
	}

	datasetVersionsCollection := database.GetCollection("dataset_versions")

	updateOptions := options.Update().SetUpsert(true)
	_, err = datasetVersionsCollection.UpdateOne(context.Background(),
		bson.M{"city": dataset.City, "dataset": dataset.Dataset},
		bson.M{"$set": bson.M{
			"identifier": dataset.Identifier,
			"importedat": time.Now(),
			"geometries": len(geometries),
		}, "$inc": bson.M{"generation": 1}},
		updateOptions,
	)

	return err
}

func publishImportEvent(dataset *datasets.DataSet, count int) {
	if redis_client.QueueConnection == nil {
		return
	}

	queue, err := redis_client.QueueConnection.OpenQueue("curbwise-events")
	if err != nil {
		log.Error().Err(err).Msg("Failed to open events queue")
		return
	}

	event := cpdf.Event{
		Type:      cpdf.EventTypeDatasetImported,
		Timestamp: time.Now(),
		Body: map[string]interface{}{
			"Identifier": dataset.Identifier,
			"City":       dataset.City,
			"Dataset":    dataset.Dataset,
			"Geometries": count,
		},
	}

	eventBytes, _ := json.Marshal(event)
	if err := queue.Publish(string(eventBytes)); err != nil {
		log.Error().Err(err).Msg("Failed to publish dataset import event")
	}
}
