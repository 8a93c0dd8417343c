package routes

import (
	"time"

	"github.com/curbwise/curbwise/pkg/banstatus"
	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/gofiber/fiber/v2"
)

func BanStatusRouter(router fiber.Router) {
	router.Get("/:city/:type", getBanStatus)
	router.Post("/:city/:type/activate", activateBan)
	router.Post("/:city/:type/deactivate", deactivateBan)
}

func getBanStatus(c *fiber.Ctx) error {
	manager := banstatus.NewManager()

	status, err := manager.Get(c.Context(), c.Params("city"), cpdf.RestrictionDataset(c.Params("type")))
	if err != nil {
		// Never activated for this city is a normal state
		return c.JSON(fiber.Map{
			"city":      c.Params("city"),
			"type":      c.Params("type"),
			"is_active": false,
			"severity":  cpdf.BanSeverityInfo,
		})
	}

	return c.JSON(fiber.Map{
		"city":              status.City,
		"type":              status.RestrictionType,
		"is_active":         status.IsActive,
		"activation_date":   status.ActivationDate,
		"deactivation_date": status.DeactivationDate,
		"amount":            status.Amount,
		"notes":             status.Notes,
		"severity":          status.Severity(time.Now()),
	})
}

type banTransitionBody struct {
	Amount float64 `json:"amount"`
	Notes  string  `json:"notes"`
}

func activateBan(c *fiber.Ctx) error {
	var body banTransitionBody
	if err := c.BodyParser(&body); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Body must be JSON with amount and notes",
		})
	}

	manager := banstatus.NewManager()

	status, err := manager.Activate(c.Context(), c.Params("city"), cpdf.RestrictionDataset(c.Params("type")), body.Amount, body.Notes)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Failed to update ban status",
		})
	}

	return c.JSON(status)
}

func deactivateBan(c *fiber.Ctx) error {
	var body banTransitionBody
	if err := c.BodyParser(&body); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Body must be JSON with notes",
		})
	}

	manager := banstatus.NewManager()

	status, err := manager.Deactivate(c.Context(), c.Params("city"), cpdf.RestrictionDataset(c.Params("type")), body.Notes)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Failed to update ban status",
		})
	}

	return c.JSON(status)
}
