package foia

import (
	"context"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
)

// Source looks up citywide contest statistics for the ticket's violation
// code, imported from FOIA responses. A high historical dismissal rate is
// itself an argument a hearing officer recognises.
type Source struct {
}

const defenseRelevantDismissalRate = 0.35

func (s Source) Key() cpdf.EvidenceSourceKey {
	return cpdf.EvidenceSourceFOIAData
}

func (s Source) Lookup(ctx context.Context, ticket *cpdf.Ticket) (*cpdf.EvidenceSource, error) {
	foiaCollection := database.GetCollection("foia_statistics")

	var statistics *struct {
		City          string  `bson:"city"`
		ViolationCode string  `bson:"violationcode"`
		TicketsIssued int     `bson:"ticketsissued"`
		Contested     int     `bson:"contested"`
		Dismissed     int     `bson:"dismissed"`
		DismissalRate float64 `bson:"dismissalrate"`
	}
	foiaCollection.FindOne(ctx, bson.M{
		"city":          ticket.City,
		"violationcode": ticket.ViolationCode,
	}).Decode(&statistics)

	if statistics == nil {
		return &cpdf.EvidenceSource{
			Key:    s.Key(),
			Status: cpdf.EvidenceStatusCheckedNotUsed,
		}, nil
	}

	payload := cpdf.FOIAEvidencePayload{
		ViolationCode:    statistics.ViolationCode,
		TicketsIssued:    statistics.TicketsIssued,
		TicketsContested: statistics.Contested,
		TicketsDismissed: statistics.Dismissed,
		DismissalRate:    statistics.DismissalRate,
	}

	return &cpdf.EvidenceSource{
		Key:             s.Key(),
		Status:          cpdf.EvidenceStatusFound,
		DefenseRelevant: payload.DismissalRate >= defenseRelevantDismissalRate,
		Payload:         payload,
	}, nil
}
