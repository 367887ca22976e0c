package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/gracechapel/chapelcms/internal/pkg/apperrors"
	"github.com/gracechapel/chapelcms/internal/pkg/auth"
	"github.com/gracechapel/chapelcms/internal/pkg/usercontext"
)

// TokenParser verifies a bearer token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// RequireToken rejects requests without a valid bearer token and attaches
// the token's user to the request otherwise.
func RequireToken(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return apperrors.Auth("Access token required")
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			log.Debugf("[Auth] rejected token from %s: %v", c.IP(), err)
			return apperrors.Auth("Invalid or expired token")
		}

		usercontext.Set(c, usercontext.UserContext{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		})
		return c.Next()
	}
}

// RequireRole must run after RequireToken.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uc, ok := usercontext.GetUserContext(c)
		if !ok {
			return apperrors.Auth("Access token required")
		}
		for _, r := range roles {
			if uc.Role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Insufficient permissions")
	}
}

func extractBearerToken(c *fiber.Ctx) string {
	h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
