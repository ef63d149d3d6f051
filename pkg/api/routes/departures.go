package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/tisseo/pkg/ctdf"
	"github.com/travigo/tisseo/pkg/passages"
)

func DeparturesRouter(router fiber.Router, service *passages.Service) {
	router.Get("/:identifier", func(c *fiber.Ctx) error {
		stopAreaID := c.Params("identifier")
		count := c.QueryInt("count", ctdf.DefaultDepartureCount)
		startDateTimeString := c.Query("datetime")

		if count <= 0 {
			return sendError(c, fiber.StatusBadRequest, "Parameter count should be a positive integer")
		}

		fromDate := ""
		if startDateTimeString != "" {
			startDateTime, err := time.Parse(time.RFC3339, startDateTimeString)
			if err != nil {
				return sendError(c, fiber.StatusBadRequest, "Parameter datetime should be an RFC3339/ISO8601 datetime")
			}

			fromDate = ctdf.FormatDepartureDateTime(startDateTime)
		}

		departures, err := service.FetchDepartures(c.UserContext(), stopAreaID, count, fromDate)
		if err != nil {
			return sendLookupError(c, err)
		}

		return sendReduced(c, departures)
	})
}
