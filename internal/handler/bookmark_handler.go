package handler

import (
	"github.com/gofiber/fiber/v3"

	"studysync-api/internal/models"
	"studysync-api/internal/service"
)

type BookmarkHandler struct {
	svc *service.BookmarkService
}

func NewBookmarkHandler(svc *service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{svc: svc}
}

// ListBookmarks returns the user's bookmarks, newest first.
// @Summary List bookmarks
// @Tags bookmarks
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.BookmarkListResponse
// @Router /users/{id}/bookmarks [get]
func (h *BookmarkHandler) ListBookmarks(c fiber.Ctx) error {
	userID, err := pathUser(c)
	if err != nil {
		return err
	}

	resp, err := h.svc.List(c.Context(), userID)
	if err != nil {
		return respondError(c, err, "retrieve bookmarks")
	}
	return c.JSON(resp)
}

// CreateBookmark saves a resource. "youtube" is stored as "video".
// @Summary Create bookmark
// @Tags bookmarks
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body models.CreateBookmarkRequest true "Bookmark"
// @Success 201 {object} models.Bookmark
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users/{id}/bookmarks [post]
func (h *BookmarkHandler) CreateBookmark(c fiber.Ctx) error {
	userID, err := pathUser(c)
	if err != nil {
		return err
	}
	var req models.CreateBookmarkRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	b, err := h.svc.Create(c.Context(), userID, req)
	if err != nil {
		return respondError(c, err, "create bookmark")
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

// @Summary Get bookmark
// @Tags bookmarks
// @Produce json
// @Param id path int true "User ID"
// @Param bookmarkId path int true "Bookmark ID"
// @Success 200 {object} models.Bookmark
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/bookmarks/{bookmarkId} [get]
func (h *BookmarkHandler) GetBookmark(c fiber.Ctx) error {
	userID, err := pathUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "bookmarkId", "bookmark")
	if err != nil {
		return err
	}

	b, err := h.svc.Get(c.Context(), userID, id)
	if err != nil {
		return respondError(c, err, "retrieve bookmark")
	}
	return c.JSON(b)
}

// @Summary Update bookmark
// @Tags bookmarks
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param bookmarkId path int true "Bookmark ID"
// @Param body body models.UpdateBookmarkRequest true "Changed fields"
// @Success 200 {object} models.Bookmark
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/bookmarks/{bookmarkId} [patch]
func (h *BookmarkHandler) UpdateBookmark(c fiber.Ctx) error {
	userID, err := pathUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "bookmarkId", "bookmark")
	if err != nil {
		return err
	}
	var req models.UpdateBookmarkRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	b, err := h.svc.Update(c.Context(), userID, id, req)
	if err != nil {
		return respondError(c, err, "update bookmark")
	}
	return c.JSON(b)
}

// @Summary Delete bookmark
// @Tags bookmarks
// @Param id path int true "User ID"
// @Param bookmarkId path int true "Bookmark ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/bookmarks/{bookmarkId} [delete]
func (h *BookmarkHandler) DeleteBookmark(c fiber.Ctx) error {
	userID, err := pathUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "bookmarkId", "bookmark")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Context(), userID, id); err != nil {
		return respondError(c, err, "delete bookmark")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
