// Package middleware provides the HTTP middleware chain: the access gate,
// structured logging, tracing, metrics and request timeouts.
package middleware

import (
	"context"
	"strings"

	"snapshare/internal/auth"
	"snapshare/internal/models"

	"github.com/gofiber/fiber/v2"
)

// IdentityResolver turns a session token into the caller identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*auth.Identity, error)
}

const identityLocal = "identity"

// AuthRequired rejects requests without a valid bearer token. Websocket
// upgrades may pass the token as the "token" query parameter since browsers
// cannot set headers on them.
func AuthRequired(resolver IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok && strings.HasPrefix(c.Path(), "/api/ws") {
			token = c.Query("token")
			ok = token != ""
		}
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Authorization required"))
		}

		identity, err := resolver.Resolve(c.UserContext(), token)
		if err != nil || identity == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Invalid or expired token"))
		}

		c.Locals("userID", identity.UserID)
		c.Locals(identityLocal, identity)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, identity.UserID))

		return c.Next()
	}
}

// IdentityFrom returns the identity resolved by AuthRequired.
func IdentityFrom(c *fiber.Ctx) (*auth.Identity, bool) {
	identity, ok := c.Locals(identityLocal).(*auth.Identity)
	return identity, ok && identity != nil
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
