package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"studysync-api/internal/service"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler renders errors that escape a handler. Only *fiber.Error
// messages reach the client; anything else becomes a generic 500.
func ErrorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{Error: fe.Message})
	}
	slog.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal server error"})
}

// respondError maps a service error onto a status code. Unexpected errors
// are logged and reported as "failed to <action>".
func respondError(c fiber.Ctx, err error, action string) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, service.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: service.ErrUnauthorized.Error()})
	case errors.Is(err, service.ErrUnavailable):
		status = fiber.StatusServiceUnavailable
	case errors.Is(err, service.ErrUpstreamFailed):
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: service.ErrUpstreamFailed.Error()})
	default:
		slog.Error("failed to "+action, "path", c.Path(), "error", err)
		return c.Status(status).JSON(ErrorResponse{Error: "failed to " + action})
	}
	return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
}

// bindJSON decodes and validates the body into out. On failure it writes the
// 400 response and returns false.
func bindJSON(c fiber.Ctx, out any) (bool, error) {
	err := c.Bind().JSON(out)
	if err == nil {
		return true, nil
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return false, c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: verr.Message})
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
}
