package apperrors

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Handler is the fiber ErrorHandler for the whole application.
func Handler(c *fiber.Ctx, err error) error {
	code := StatusCode(err)
	switch {
	case code == fiber.StatusBadGateway:
		log.Warnf("[API] %s %s upstream failure: %v", c.Method(), c.Path(), err)
	case code >= fiber.StatusInternalServerError:
		log.Errorf("[API] %s %s (request %v): %v", c.Method(), c.Path(), c.Locals("requestid"), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": PublicMessage(err),
	})
}
