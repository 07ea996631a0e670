package web

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/newsdesk/newsdesk/pkg/models"
)

// Identity headers set by the upstream auth proxy. The API itself never
// authenticates; it trusts the gateway and only enforces authorization.
const (
	HeaderPrincipalID       = "X-Principal-Id"
	HeaderPrincipalName     = "X-Principal-Name"
	HeaderPrincipalRole     = "X-Principal-Role"
	HeaderPrincipalVerified = "X-Principal-Verified"
)

const principalLocalKey = "principal"

// RequirePrincipal extracts the acting principal from the identity headers
// and rejects requests without a usable identity.
func RequirePrincipal() fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Get(HeaderPrincipalID)
		if id == "" {
			return unauthorized(c, "Missing "+HeaderPrincipalID+" header")
		}

		role := models.Role(c.Get(HeaderPrincipalRole))
		if !models.ValidRole(role) {
			return unauthorized(c, "Missing or unknown "+HeaderPrincipalRole+" header")
		}

		verified, _ := strconv.ParseBool(c.Get(HeaderPrincipalVerified))

		c.Locals(principalLocalKey, models.Principal{
			ID:       id,
			Name:     c.Get(HeaderPrincipalName),
			Role:     role,
			Verified: verified,
		})

		return c.Next()
	}
}

func principalFrom(c fiber.Ctx) models.Principal {
	principal, _ := c.Locals(principalLocalKey).(models.Principal)

	return principal
}
