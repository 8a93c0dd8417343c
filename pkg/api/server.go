package api

import (
	"github.com/curbwise/curbwise/pkg/api/routes"
	"github.com/curbwise/curbwise/pkg/resolver"
	"github.com/gofiber/fiber/v2"
)

func SetupServer(listen string, restrictionResolver *resolver.Resolver) error {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.LocationsRouter(group.Group("/locations"), restrictionResolver)

	routes.TicketsRouter(group.Group("/tickets"))

	routes.BanStatusRouter(group.Group("/ban_status"))

	routes.StatsRouter(group.Group("/stats"))

	return webApp.Listen(listen)
}
