package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/tisseo/pkg/passages"
)

func PassagesRouter(router fiber.Router, service *passages.Service) {
	router.Get("/", func(c *fiber.Ctx) error {
		var stopNames []string
		for _, value := range c.Context().QueryArgs().PeekMulti("stop") {
			stopNames = append(stopNames, string(value))
		}

		if len(stopNames) == 0 {
			return sendError(c, fiber.StatusBadRequest, "Parameter stop is required")
		}

		filter := passages.Filter{
			Line:        passages.FilterValue(c.Query("line")),
			Destination: passages.FilterValue(c.Query("destination")),
			Where:       c.Query("where"),
		}

		if err := filter.Validate(); err != nil {
			return sendError(c, fiber.StatusBadRequest, err.Error())
		}

		results, err := service.NextPassagesForStops(c.UserContext(), stopNames, filter)
		if err != nil {
			return sendLookupError(c, err)
		}

		return sendReduced(c, results)
	})
}
