package gpsparking

import (
	"context"
	"time"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
)

// Source checks the user's recorded parking history around the violation
// time. A GPS fix showing the vehicle parked somewhere else, or already
// departed, directly contradicts the citation.
type Source struct {
}

// Beyond this the recorded spot is a different block than the citation
const differentLocationThresholdMeters = 30.0

type parkingEvent struct {
	UserIdentifier string        `bson:"useridentifier"`
	Location       cpdf.Location `bson:"location"`
	ParkedAt       time.Time     `bson:"parkedat"`
	DepartedAt     time.Time     `bson:"departedat"`
}

func (s Source) Key() cpdf.EvidenceSourceKey {
	return cpdf.EvidenceSourceGPSParking
}

func (s Source) Lookup(ctx context.Context, ticket *cpdf.Ticket) (*cpdf.EvidenceSource, error) {
	parkingEventsCollection := database.GetCollection("parking_events")

	// Any session overlapping the citation time, or ending up to 6h
	// before it, is relevant: an earlier departure is exactly the
	// evidence we want
	windowStart := ticket.IssueDateTime.Add(-6 * time.Hour)

	cursor, err := parkingEventsCollection.Find(ctx, bson.M{
		"useridentifier": ticket.UserIdentifier,
		"parkedat":       bson.M{"$lte": ticket.IssueDateTime},
		"departedat":     bson.M{"$gte": windowStart},
	})
	if err != nil {
		return nil, err
	}

	var closest *parkingEvent
	closestDistance := 0.0

	for cursor.Next(ctx) {
		var event parkingEvent
		if err := cursor.Decode(&event); err != nil {
			continue
		}

		distance := event.Location.Distance(&ticket.Location)
		if closest == nil || distance < closestDistance {
			eventCopy := event
			closest = &eventCopy
			closestDistance = distance
		}
	}

	if closest == nil {
		return &cpdf.EvidenceSource{
			Key:    s.Key(),
			Status: cpdf.EvidenceStatusCheckedNotUsed,
		}, nil
	}

	payload := cpdf.GPSParkingEvidencePayload{
		ParkedAt:        closest.ParkedAt,
		DepartedAt:      closest.DepartedAt,
		DistanceMeters:  closestDistance,
		DurationMinutes: int(closest.DepartedAt.Sub(closest.ParkedAt).Minutes()),
	}

	departedBeforeCitation := closest.DepartedAt.Before(ticket.IssueDateTime)
	parkedElsewhere := closestDistance > differentLocationThresholdMeters

	return &cpdf.EvidenceSource{
		Key:             s.Key(),
		Status:          cpdf.EvidenceStatusFound,
		DefenseRelevant: departedBeforeCitation || parkedElsewhere,
		Payload:         payload,
	}, nil
}
