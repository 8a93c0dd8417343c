package routes

import (
	"github.com/curbwise/curbwise/pkg/stats/calculator"
	"github.com/gofiber/fiber/v2"
)

func StatsRouter(router fiber.Router) {
	router.Get("/", getStats)
}

func getStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"geometries":    calculator.GetGeometries(),
		"tickets":       calculator.GetTickets(),
		"evidence_runs": calculator.GetEvidenceRuns(),
	})
}
