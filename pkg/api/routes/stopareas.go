package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/tisseo/pkg/passages"
)

func StopAreasRouter(router fiber.Router, service *passages.Service) {
	router.Get("/", func(c *fiber.Ctx) error {
		name := c.Query("name")

		if name == "" {
			return sendError(c, fiber.StatusBadRequest, "Parameter name is required")
		}

		stopAreas, err := service.FindStopsByName(c.UserContext(), name)
		if err != nil {
			return sendLookupError(c, err)
		}

		if len(stopAreas) == 0 {
			return sendError(c, fiber.StatusNotFound, "Could not find Stop Area matching name")
		}

		return sendReduced(c, stopAreas)
	})
}
