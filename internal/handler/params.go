package handler

import (
	"github.com/gofiber/fiber/v3"

	"studysync-api/internal/middleware"
)

// pathUser returns the :id path parameter after checking that it names the
// authenticated caller.
func pathUser(c fiber.Ctx) (int, error) {
	id := fiber.Params[int](c, "id")
	if id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid user ID")
	}
	caller, ok := c.Locals(middleware.UserIDKey).(int)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	if caller != id {
		return 0, fiber.NewError(fiber.StatusForbidden, "cannot access another user's data")
	}
	return id, nil
}

func pathID(c fiber.Ctx, name, what string) (int, error) {
	id := fiber.Params[int](c, name)
	if id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+what+" ID")
	}
	return id, nil
}
