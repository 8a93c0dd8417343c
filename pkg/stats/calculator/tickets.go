package calculator

import (
	"context"

	"github.com/curbwise/curbwise/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
)

type TicketsStats struct {
	Total int

	ViolationTypes map[string]int
}

func GetTickets() TicketsStats {
	ticketsCollection := database.GetCollection("tickets")
	numberTickets, _ := ticketsCollection.CountDocuments(context.Background(), bson.D{})

	return TicketsStats{
		Total: int(numberTickets),

		ViolationTypes: CountAggregate(ticketsCollection, "$violationtype"),
	}
}

type EvidenceRunsStats struct {
	Total int
}

func GetEvidenceRuns() EvidenceRunsStats {
	runsCollection := database.GetCollection("evidence_runs")
	numberRuns, _ := runsCollection.CountDocuments(context.Background(), bson.D{})

	return EvidenceRunsStats{
		Total: int(numberRuns),
	}
}
