package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/tisseo/pkg/ctdf"
)

func sendError(c *fiber.Ctx, status int, message string) error {
	c.Status(status)
	return c.JSON(fiber.Map{
		"error": message,
	})
}

// sendLookupError maps pipeline errors onto HTTP statuses, upstream failures are reported as bad gateway
func sendLookupError(c *fiber.Ctx, err error) error {
	var notFoundError *ctdf.NotFoundError
	var transportError *ctdf.TransportError
	var validationError *ctdf.ValidationError

	switch {
	case errors.As(err, &notFoundError):
		return sendError(c, fiber.StatusNotFound, err.Error())
	case errors.As(err, &transportError):
		c.Status(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"error":          "Tisseo API request failed",
			"upstreamStatus": transportError.StatusCode,
		})
	case errors.As(err, &validationError):
		return sendError(c, fiber.StatusBadGateway, err.Error())
	default:
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}
}

func sendReduced(c *fiber.Ctx, value any) error {
	groups := []string{"basic"}
	if c.QueryBool("detailed") {
		groups = append(groups, "detailed")
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, value)

	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "Sherrif could not reduce response")
	}

	return c.JSON(reduced)
}
