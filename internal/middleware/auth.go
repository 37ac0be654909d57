package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

// UserIDKey is the Locals key holding the authenticated user's ID.
const UserIDKey = "user_id"

type TokenParser interface {
	ParseToken(raw string) (int, error)
}

// Auth validates Bearer tokens and stores the caller's ID in Locals.
// Requests for a public prefix, or any path below it, pass through untouched.
func Auth(tokens TokenParser, publicPrefixes ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if isPublic(c.Path(), publicPrefixes) {
			return c.Next()
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "missing Authorization header")
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			return unauthorized(c, "invalid Authorization header format, expected 'Bearer <token>'")
		}
		if token = strings.TrimSpace(token); token == "" {
			return unauthorized(c, "empty bearer token")
		}

		userID, err := tokens.ParseToken(token)
		if err != nil {
			return unauthorized(c, "invalid or expired token")
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

func unauthorized(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}

// isPublic matches a prefix as a whole path segment, so "/health" covers
// "/health/live" but not "/healthz".
func isPublic(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}
