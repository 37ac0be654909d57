package handler

import (
	"github.com/gofiber/fiber/v3"

	"studysync-api/internal/models"
	"studysync-api/internal/service"
)

type RecommendationHandler struct {
	svc *service.RecommendationService
}

func NewRecommendationHandler(svc *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

// GetRecommendations ranks content types from the user's stored data.
// A user without usable data gets the default set.
// @Summary Get recommendations
// @Tags recommendations
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.RecommendationResponse
// @Router /users/{id}/recommendations [get]
func (h *RecommendationHandler) GetRecommendations(c fiber.Ctx) error {
	userID, err := pathUser(c)
	if err != nil {
		return err
	}
	return c.JSON(h.svc.GetRecommendations(c.Context(), userID))
}

// @Summary Recommendation snapshots
// @Tags recommendations
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.RecommendationSnapshot
// @Router /users/{id}/recommendations/snapshots [get]
func (h *RecommendationHandler) GetSnapshots(c fiber.Ctx) error {
	userID, err := pathUser(c)
	if err != nil {
		return err
	}

	snapshots, err := h.svc.Snapshots(c.Context(), userID)
	if err != nil {
		return respondError(c, err, "retrieve snapshots")
	}
	return c.JSON(snapshots)
}

// Preview scores the posted activity and bookmarks without storing anything.
// @Summary Preview recommendations
// @Tags recommendations
// @Accept json
// @Produce json
// @Param body body models.PreviewRequest true "Activity and bookmarks"
// @Success 200 {object} models.RecommendationResponse
// @Router /recommendations/preview [post]
func (h *RecommendationHandler) Preview(c fiber.Ctx) error {
	var req models.PreviewRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	return c.JSON(h.svc.Preview(req))
}

// @Summary Scoring catalog
// @Tags recommendations
// @Produce json
// @Success 200 {object} models.CatalogResponse
// @Router /catalog [get]
func (h *RecommendationHandler) Catalog(c fiber.Ctx) error {
	return c.JSON(h.svc.Catalog())
}
