package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func createIndexes() {
	createGeometryIndexes()
	createTicketIndexes()
	createEvidenceIndexes()
}

func createGeometryIndexes() {
	geometriesCollection := GetCollection("restriction_geometries")
	geometriesIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "city", Value: 1},
				{Key: "dataset", Value: 1},
			},
		},
	}

	opts := options.CreateIndexes()
	_, err := geometriesCollection.Indexes().CreateMany(context.Background(), geometriesIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	datasetVersionsCollection := GetCollection("dataset_versions")
	datasetVersionsIndex := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "city", Value: 1},
				{Key: "dataset", Value: 1},
			},
		},
	}

	opts = options.CreateIndexes()
	_, err = datasetVersionsCollection.Indexes().CreateMany(context.Background(), datasetVersionsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func createTicketIndexes() {
	ticketsCollection := GetCollection("tickets")
	ticketsIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "useridentifier", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "location.coordinates", Value: "2d"}},
		},
	}

	opts := options.CreateIndexes()
	_, err := ticketsCollection.Indexes().CreateMany(context.Background(), ticketsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	parkingEventsCollection := GetCollection("parking_events")
	parkingEventsIndex := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "useridentifier", Value: 1},
				{Key: "parkedat", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "location.coordinates", Value: "2d"}},
		},
	}

	opts = options.CreateIndexes()
	_, err = parkingEventsCollection.Indexes().CreateMany(context.Background(), parkingEventsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	foiaCollection := GetCollection("foia_statistics")
	foiaIndex := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "city", Value: 1},
				{Key: "violationcode", Value: 1},
			},
		},
	}

	opts = options.CreateIndexes()
	_, err = foiaCollection.Indexes().CreateMany(context.Background(), foiaIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func createEvidenceIndexes() {
	evidenceRunsCollection := GetCollection("evidence_runs")
	evidenceRunsIndex := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "ticketref", Value: 1},
				{Key: "generatedat", Value: -1},
			},
		},
	}

	opts := options.CreateIndexes()
	_, err := evidenceRunsCollection.Indexes().CreateMany(context.Background(), evidenceRunsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	userEvidenceCollection := GetCollection("user_evidence")
	userEvidenceIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "ticketref", Value: 1}},
		},
	}

	opts = options.CreateIndexes()
	_, err = userEvidenceCollection.Indexes().CreateMany(context.Background(), userEvidenceIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
