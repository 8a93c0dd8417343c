package routes

import (
	"strconv"
	"strings"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/resolver"
	"github.com/curbwise/curbwise/pkg/util"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
)

var locationsResolver *resolver.Resolver

func LocationsRouter(router fiber.Router, restrictionResolver *resolver.Resolver) {
	locationsResolver = restrictionResolver

	router.Get("/resolve", resolveLocation)
}

func resolveLocation(c *fiber.Ctx) error {
	city := c.Query("city")
	if city == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter city must be provided",
		})
	}

	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameters lat and lon must be floats",
		})
	}

	coord := cpdf.NewLocation(lon, lat)
	if !coord.Valid() {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameters lat and lon must be valid WGS84 degrees",
		})
	}

	opts := resolver.Options{}

	if datasetsQuery := c.Query("datasets"); datasetsQuery != "" {
		for _, dataset := range util.RemoveDuplicateStrings(strings.Split(datasetsQuery, ","), []string{}) {
			opts.Datasets = append(opts.Datasets, cpdf.RestrictionDataset(dataset))
		}
	}

	if thresholdQuery := c.Query("threshold"); thresholdQuery != "" {
		threshold, err := strconv.ParseFloat(thresholdQuery, 64)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Parameter threshold should be a float",
			})
		}
		opts.ThresholdMeters = threshold
	}

	matches, err := locationsResolver.Resolve(c.Context(), city, coord, &opts)
	if err != nil {
		// Distinct from an empty result: the caller can render "we could
		// not check right now" instead of "you're clear to park here"
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Failed to query the restriction index",
		})
	}

	matchesReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, matches)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sheriff could not reduce matches",
		})
	}

	return c.JSON(fiber.Map{
		"matches": matchesReduced,
	})
}
