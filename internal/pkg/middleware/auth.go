package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ima-jin/imajin-coffee/internal/pkg/apperr"
	"github.com/ima-jin/imajin-coffee/internal/pkg/identity"
)

// identityLocalsKey is where the verified identity lives on the
// request context.
const identityLocalsKey = "VERIFIED_IDENTITY"

// RequireAuth verifies the bearer token against the identity service
// and rejects the request with a JSON 401 when it is missing or
// invalid. Every request round-trips; there is no local cache.
func RequireAuth(client *identity.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		ident, err := client.Validate(c.Context(), token)
		if err != nil {
			return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": apperr.Message(err)})
		}

		c.Locals(identityLocalsKey, ident)
		return c.Next()
	}
}

// OptionalAuth attaches a verified identity when a valid bearer token
// is present and lets the request through anonymously otherwise. Used
// by tip creation, where senders may be anonymous.
func OptionalAuth(client *identity.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token != "" {
			if ident, err := client.Validate(c.Context(), token); err == nil {
				c.Locals(identityLocalsKey, ident)
			}
		}
		return c.Next()
	}
}

// IdentityFrom returns the verified identity set by RequireAuth or
// OptionalAuth, or nil for anonymous requests.
func IdentityFrom(c *fiber.Ctx) *identity.Identity {
	if v := c.Locals(identityLocalsKey); v != nil {
		if ident, ok := v.(*identity.Identity); ok {
			return ident
		}
	}
	return nil
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
