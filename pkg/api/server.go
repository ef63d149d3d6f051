package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/tisseo/pkg/api/routes"
	"github.com/travigo/tisseo/pkg/passages"
)

func NewApp(service *passages.Service) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		UnescapePath:          true,
	})
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.StopAreasRouter(group.Group("/stop_areas"), service)
	routes.PassagesRouter(group.Group("/passages"), service)
	routes.DeparturesRouter(group.Group("/departures"), service)

	return webApp
}

func SetupServer(listen string, service *passages.Service) error {
	return NewApp(service).Listen(listen)
}
