package auth

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalsKey is where Middleware stores the authenticated identity.
const LocalsKey = "identity"

// Middleware authenticates every request with a bearer token. Browsers
// cannot set headers on a websocket handshake, so ?token= is accepted too.
func Middleware(v *Verifier, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearer(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Query("token")
		}

		identity, err := v.Verify(token)
		if err != nil {
			log.Debug("request rejected", "path", c.Path(), "ip", c.IP(), "err", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}

		c.Locals(LocalsKey, identity)
		return c.Next()
	}
}

// IdentityFrom returns the identity stored by Middleware.
func IdentityFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsKey).(string)
	return id
}

func bearer(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
