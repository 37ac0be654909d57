package handler

import (
	"github.com/gofiber/fiber/v3"

	"studysync-api/internal/models"
	"studysync-api/internal/service"
)

type ActivityHandler struct {
	svc *service.ActivityService
}

func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

// ListActivity returns the user's recently opened resources.
// @Summary Recent activity
// @Tags activity
// @Produce json
// @Param id path int true "User ID"
// @Param limit query int false "Max entries" default(10)
// @Success 200 {object} models.ActivityListResponse
// @Router /users/{id}/activity [get]
func (h *ActivityHandler) ListActivity(c fiber.Ctx) error {
	userID, err := pathUser(c)
	if err != nil {
		return err
	}

	resp, err := h.svc.ListRecent(c.Context(), userID, fiber.Query(c, "limit", 0))
	if err != nil {
		return respondError(c, err, "retrieve activity")
	}
	return c.JSON(resp)
}

// RecordActivity tracks that the user opened a resource.
// @Summary Record activity
// @Tags activity
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body models.RecordActivityRequest true "Viewed resource"
// @Success 201 {object} models.Activity
// @Failure 400 {object} ErrorResponse
// @Router /users/{id}/activity [post]
func (h *ActivityHandler) RecordActivity(c fiber.Ctx) error {
	userID, err := pathUser(c)
	if err != nil {
		return err
	}
	var req models.RecordActivityRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	a, err := h.svc.Record(c.Context(), userID, req)
	if err != nil {
		return respondError(c, err, "record activity")
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

// @Summary Clear activity
// @Tags activity
// @Param id path int true "User ID"
// @Success 204
// @Router /users/{id}/activity [delete]
func (h *ActivityHandler) ClearActivity(c fiber.Ctx) error {
	userID, err := pathUser(c)
	if err != nil {
		return err
	}

	if err := h.svc.Clear(c.Context(), userID); err != nil {
		return respondError(c, err, "clear activity")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
