package routes

import (
	"context"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/database"
	"github.com/curbwise/curbwise/pkg/evidence"
	"github.com/curbwise/curbwise/pkg/evidence/global"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TicketsRouter(router fiber.Router) {
	router.Get("/:identifier", getTicket)
	router.Get("/:identifier/evidence", getTicketEvidence)
	router.Post("/:identifier/evidence", gatherTicketEvidence)
}

func findTicket(ctx context.Context, identifier string) *cpdf.Ticket {
	ticketsCollection := database.GetCollection("tickets")

	var ticket *cpdf.Ticket
	ticketsCollection.FindOne(ctx, bson.M{"primaryidentifier": identifier}).Decode(&ticket)

	return ticket
}

func getTicket(c *fiber.Ctx) error {
	ticket := findTicket(c.Context(), c.Params("identifier"))

	if ticket == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Ticket matching Ticket Identifier",
		})
	}

	ticketReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, ticket)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sheriff could not reduce ticket",
		})
	}

	return c.JSON(ticketReduced)
}

// getTicketEvidence returns the most recent completed evidence run.
func getTicketEvidence(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	evidenceRunsCollection := database.GetCollection("evidence_runs")

	findOptions := options.FindOne().SetSort(bson.D{{Key: "generatedat", Value: -1}})

	var bundle *cpdf.EvidenceBundle
	evidenceRunsCollection.FindOne(c.Context(), bson.M{"ticketref": identifier}, findOptions).Decode(&bundle)

	if bundle == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "No evidence has been gathered for this Ticket",
		})
	}

	return c.JSON(bundle)
}

// gatherTicketEvidence runs a fresh evidence-gathering pass and records
// the bundle. The previous runs are kept untouched.
func gatherTicketEvidence(c *fiber.Ctx) error {
	ticket := findTicket(c.Context(), c.Params("identifier"))

	if ticket == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Ticket matching Ticket Identifier",
		})
	}

	bundle, err := global.Aggregator.Gather(c.Context(), ticket)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Evidence gathering was cancelled",
		})
	}

	if err := evidence.SaveRun(c.Context(), bundle); err != nil {
		log.Error().Err(err).Str("ticket", ticket.PrimaryIdentifier).Msg("Failed to record evidence run")
	}

	return c.JSON(bundle)
}
