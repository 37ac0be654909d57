package handler

import (
	"github.com/gofiber/fiber/v3"

	"studysync-api/internal/service"
)

type SearchHandler struct {
	svc *service.SearchService
}

func NewSearchHandler(svc *service.SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// @Summary Search videos
// @Tags search
// @Produce json
// @Param q query string true "Search terms"
// @Success 200 {object} models.SearchResponse[models.Video]
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /search/videos [get]
func (h *SearchHandler) SearchVideos(c fiber.Ctx) error {
	resp, err := h.svc.SearchVideos(c.Context(), c.Query("q"))
	if err != nil {
		return respondError(c, err, "search videos")
	}
	return c.JSON(resp)
}

// @Summary Search books
// @Tags search
// @Produce json
// @Param q query string true "Search terms"
// @Success 200 {object} models.SearchResponse[models.Book]
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /search/books [get]
func (h *SearchHandler) SearchBooks(c fiber.Ctx) error {
	resp, err := h.svc.SearchBooks(c.Context(), c.Query("q"))
	if err != nil {
		return respondError(c, err, "search books")
	}
	return c.JSON(resp)
}
