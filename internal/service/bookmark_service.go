package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"studysync-api/internal/models"
	"studysync-api/internal/recommender"
	"studysync-api/internal/repository"
)

type BookmarkStore interface {
	CreateBookmark(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error)
	ListBookmarks(ctx context.Context, userID int) ([]models.Bookmark, error)
	GetBookmark(ctx context.Context, userID, id int) (*models.Bookmark, error)
	UpdateBookmark(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error)
	DeleteBookmark(ctx context.Context, userID, id int) error
}

// Invalidator drops cached recommendations after a user's data changes.
type Invalidator interface {
	Invalidate(ctx context.Context, userID int)
}

type BookmarkService struct {
	store   BookmarkStore
	catalog recommender.Catalog
	recs    Invalidator
}

func NewBookmarkService(store BookmarkStore, catalog recommender.Catalog, recs Invalidator) *BookmarkService {
	return &BookmarkService{store: store, catalog: catalog, recs: recs}
}

func (s *BookmarkService) Create(ctx context.Context, userID int, req models.CreateBookmarkRequest) (*models.Bookmark, error) {
	contentType := recommender.NormalizeType(req.ContentType)
	if !s.catalog.HasType(contentType) {
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidInput, req.ContentType)
	}

	b, err := s.store.CreateBookmark(ctx, &models.Bookmark{
		UserID:      userID,
		ItemID:      strings.TrimSpace(req.ItemID),
		ContentType: contentType,
		Title:       strings.TrimSpace(req.Title),
		URL:         req.URL,
		Category:    normalizeCategory(req.Category),
		Tags:        normalizeTags(req.Tags),
		Notes:       req.Notes,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: item %s is already bookmarked", ErrConflict, req.ItemID)
		}
		return nil, err
	}

	slog.Info("bookmark created", "user_id", userID, "bookmark_id", b.ID, "type", b.ContentType)
	s.recs.Invalidate(ctx, userID)
	return b, nil
}

func (s *BookmarkService) List(ctx context.Context, userID int) (*models.BookmarkListResponse, error) {
	bookmarks, err := s.store.ListBookmarks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.BookmarkListResponse{
		UserID:    userID,
		Count:     len(bookmarks),
		Bookmarks: bookmarks,
	}, nil
}

func (s *BookmarkService) Get(ctx context.Context, userID, id int) (*models.Bookmark, error) {
	b, err := s.store.GetBookmark(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err, "bookmark", id)
	}
	return b, nil
}

func (s *BookmarkService) Update(ctx context.Context, userID, id int, req models.UpdateBookmarkRequest) (*models.Bookmark, error) {
	b, err := s.store.GetBookmark(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err, "bookmark", id)
	}

	if req.Title != nil {
		b.Title = strings.TrimSpace(*req.Title)
	}
	if req.URL != nil {
		b.URL = *req.URL
	}
	if req.Category != nil {
		b.Category = normalizeCategory(*req.Category)
	}
	if req.Tags != nil {
		b.Tags = normalizeTags(req.Tags)
	}
	if req.Notes != nil {
		b.Notes = *req.Notes
	}

	updated, err := s.store.UpdateBookmark(ctx, b)
	if err != nil {
		return nil, mapNotFound(err, "bookmark", id)
	}
	s.recs.Invalidate(ctx, userID)
	return updated, nil
}

func (s *BookmarkService) Delete(ctx context.Context, userID, id int) error {
	if err := s.store.DeleteBookmark(ctx, userID, id); err != nil {
		return mapNotFound(err, "bookmark", id)
	}
	slog.Info("bookmark deleted", "user_id", userID, "bookmark_id", id)
	s.recs.Invalidate(ctx, userID)
	return nil
}

func mapNotFound(err error, what string, id int) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return err
}

func normalizeCategory(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if c == "" {
		return recommender.DefaultCategory
	}
	return c
}

// normalizeTags lowercases, trims and dedupes tags, keeping first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
