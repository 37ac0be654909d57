package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"studysync-api/internal/models"
	"studysync-api/internal/recommender"
)

type ActivityStore interface {
	UpsertActivity(ctx context.Context, a *models.Activity) (*models.Activity, error)
	ListRecent(ctx context.Context, userID, limit int) ([]models.Activity, error)
	ClearActivity(ctx context.Context, userID int) (int64, error)
}

// ActivityService keeps the recent-activity list. Viewing an item that is
// already listed moves it to the top instead of adding a second row.
type ActivityService struct {
	store   ActivityStore
	catalog recommender.Catalog
	recs    Invalidator
	limit   int
}

func NewActivityService(store ActivityStore, catalog recommender.Catalog, recs Invalidator, limit int) *ActivityService {
	return &ActivityService{store: store, catalog: catalog, recs: recs, limit: limit}
}

func (s *ActivityService) Record(ctx context.Context, userID int, req models.RecordActivityRequest) (*models.Activity, error) {
	contentType := recommender.NormalizeType(req.ContentType)
	if !s.catalog.HasType(contentType) {
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidInput, req.ContentType)
	}

	a, err := s.store.UpsertActivity(ctx, &models.Activity{
		UserID:      userID,
		ItemID:      strings.TrimSpace(req.ItemID),
		ContentType: contentType,
		Title:       strings.TrimSpace(req.Title),
		URL:         req.URL,
		Category:    normalizeCategory(req.Category),
		Tags:        normalizeTags(req.Tags),
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("activity recorded", "user_id", userID, "item_id", a.ItemID, "type", a.ContentType)
	s.recs.Invalidate(ctx, userID)
	return a, nil
}

// ListRecent returns up to limit entries, newest first. A non-positive or
// oversized limit falls back to the configured one.
func (s *ActivityService) ListRecent(ctx context.Context, userID, limit int) (*models.ActivityListResponse, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}
	activities, err := s.store.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return &models.ActivityListResponse{UserID: userID, Activities: activities}, nil
}

func (s *ActivityService) Clear(ctx context.Context, userID int) error {
	n, err := s.store.ClearActivity(ctx, userID)
	if err != nil {
		return err
	}
	slog.Info("activity cleared", "user_id", userID, "removed", n)
	s.recs.Invalidate(ctx, userID)
	return nil
}
