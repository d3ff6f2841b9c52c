package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/ima-jin/imajin-coffee/internal/pkg/apperr"
)

// respondError maps a taxonomy error to its JSON response. Errors
// without a kind are logged with context and surfaced as a generic 500
// so internals never leak to the caller.
func respondError(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{"error": apperr.Message(err)})
}
