package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ellavondegurechaff/foodgram/backend/handlers"
	"github.com/ellavondegurechaff/foodgram/backend/utils"
	"github.com/ellavondegurechaff/foodgram/internal/domain/auth"
)

// AuthRequired rejects requests without a valid token before they reach a
// handler.
func AuthRequired(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return utils.SendUnauthorized(c, "Authentication credentials were not provided.")
		}

		claims, err := webApp.Auth.Verify(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				slog.Debug("Auth required: invalid token", slog.String("error", err.Error()))
				return utils.SendUnauthorized(c, "Invalid token.")
			}
			return err
		}

		c.Locals("user", claims)
		return c.Next()
	}
}

// OptionalAuth identifies the viewer when a token is present. An invalid
// token is still rejected so clients notice it expired.
func OptionalAuth(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Next()
		}

		claims, err := webApp.Auth.Verify(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				return utils.SendUnauthorized(c, "Invalid token.")
			}
			return err
		}

		c.Locals("user", claims)
		return c.Next()
	}
}

// bearerToken accepts both "Token <jwt>" and "Bearer <jwt>".
func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok {
		return ""
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
