package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"studysync-api/internal/models"
	"studysync-api/internal/recommender"
)

const (
	computeTimeout  = 10 * time.Second
	snapshotTimeout = 10 * time.Second
)

type ActivitySource interface {
	ListRecent(ctx context.Context, userID, limit int) ([]models.Activity, error)
}

type BookmarkSource interface {
	ListBookmarks(ctx context.Context, userID int) ([]models.Bookmark, error)
}

type SnapshotStore interface {
	ReplaceSnapshots(ctx context.Context, userID int, recs []recommender.Recommendation) error
	GetSnapshots(ctx context.Context, userID int) ([]models.RecommendationSnapshot, error)
}

// RecommendationService scores a user's stored activity and bookmarks.
// Results are cached per user until the user's data changes or the TTL
// expires. Concurrent misses for the same user share one computation.
type RecommendationService struct {
	scorer        *recommender.Scorer
	activity      ActivitySource
	bookmarks     BookmarkSource
	snapshots     SnapshotStore
	cache         jsonCache
	cacheTTL      time.Duration
	activityLimit int
	now           func() time.Time

	group    singleflight.Group
	inflight sync.WaitGroup
}

func NewRecommendationService(
	scorer *recommender.Scorer,
	activity ActivitySource,
	bookmarks BookmarkSource,
	snapshots SnapshotStore,
	rdb *redis.Client,
	cacheTTL time.Duration,
	activityLimit int,
) *RecommendationService {
	return &RecommendationService{
		scorer:        scorer,
		activity:      activity,
		bookmarks:     bookmarks,
		snapshots:     snapshots,
		cache:         jsonCache{rdb: rdb},
		cacheTTL:      cacheTTL,
		activityLimit: activityLimit,
		now:           time.Now,
	}
}

func recommendationsKey(userID int, gen int64) string {
	return fmt.Sprintf("recommendations:%d:%d", userID, gen)
}

// generationKey holds a per-user counter bumped by Invalidate. Cached results
// are keyed by it, so a computation that started before an invalidation can
// only write to a key nobody reads any more.
func generationKey(userID int) string {
	return fmt.Sprintf("recommendations:gen:%d", userID)
}

// GetRecommendations returns the ranked content types for a user. It does not
// fail on storage errors: the default set is served instead.
//
// The work runs detached from ctx, so a caller that goes away does not turn
// the shared result into the default set for everyone else waiting on it.
func (s *RecommendationService) GetRecommendations(ctx context.Context, userID int) *models.RecommendationResponse {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), computeTimeout)
	defer cancel()

	gen, cacheable := s.cache.counter(ctx, generationKey(userID))
	key := recommendationsKey(userID, gen)

	var cached models.RecommendationResponse
	if cacheable && s.cache.get(ctx, key, &cached) {
		slog.Debug("recommendations cache hit", "user_id", userID)
		return &cached
	}

	v, _, shared := s.group.Do(key, func() (any, error) {
		return s.compute(ctx, userID, gen, cacheable), nil
	})
	if shared {
		slog.Debug("recommendations computation shared", "user_id", userID)
	}
	return v.(*models.RecommendationResponse)
}

func (s *RecommendationService) compute(ctx context.Context, userID int, gen int64, cacheable bool) *models.RecommendationResponse {
	activity, bookmarks, err := s.loadInputs(ctx, userID)
	if err != nil {
		slog.Warn("could not load user data, serving default recommendations", "user_id", userID, "error", err)
		return s.response(userID, s.scorer.Defaults(), false)
	}

	recs, personalized := s.scorer.Evaluate(activity, bookmarks)
	resp := s.response(userID, recs, personalized)

	if cacheable {
		if now, ok := s.cache.counter(ctx, generationKey(userID)); !ok || now != gen {
			slog.Debug("user data changed during scoring, result not stored", "user_id", userID)
			return resp
		}
		s.cache.set(ctx, recommendationsKey(userID, gen), resp, s.cacheTTL)
	}

	if personalized {
		s.persistSnapshots(ctx, userID, recs)
	}
	return resp
}

func (s *RecommendationService) loadInputs(ctx context.Context, userID int) ([]recommender.ActivityEvent, []recommender.Bookmark, error) {
	activity, err := s.activity.ListRecent(ctx, userID, s.activityLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("list activity: %w", err)
	}
	bookmarks, err := s.bookmarks.ListBookmarks(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return toActivityEvents(activity), toBookmarks(bookmarks), nil
}

// persistSnapshots writes the ranking in the background so the response does
// not wait on it. Wait blocks until every pending write is done.
func (s *RecommendationService) persistSnapshots(ctx context.Context, userID int, recs []recommender.Recommendation) {
	ctx = context.WithoutCancel(ctx)
	s.inflight.Go(func() {
		ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
		defer cancel()
		if err := s.snapshots.ReplaceSnapshots(ctx, userID, recs); err != nil {
			slog.Error("failed to persist recommendation snapshots", "user_id", userID, "error", err)
		}
	})
}

func (s *RecommendationService) Wait() { s.inflight.Wait() }

// Invalidate drops the cached recommendations of a user and detaches callers
// that arrive later from any computation already running.
func (s *RecommendationService) Invalidate(ctx context.Context, userID int) {
	gen, _ := s.cache.counter(ctx, generationKey(userID))
	s.group.Forget(recommendationsKey(userID, gen))

	err := errors.Join(
		s.cache.incr(ctx, generationKey(userID)),
		s.cache.del(ctx, recommendationsKey(userID, gen)),
	)
	if err != nil && !errors.Is(err, errCacheDisabled) {
		slog.Warn("failed to invalidate recommendations", "user_id", userID, "error", err)
	}
}

// Preview scores caller-supplied data without touching storage.
func (s *RecommendationService) Preview(req models.PreviewRequest) *models.RecommendationResponse {
	recs, personalized := s.scorer.Evaluate(req.RecentActivity, req.Bookmarks)
	return s.response(0, recs, personalized)
}

func (s *RecommendationService) Snapshots(ctx context.Context, userID int) ([]models.RecommendationSnapshot, error) {
	return s.snapshots.GetSnapshots(ctx, userID)
}

func (s *RecommendationService) Catalog() models.CatalogResponse {
	settings := s.scorer.Settings()
	return models.CatalogResponse{Catalog: settings.Catalog, Weights: settings.Weights}
}

func (s *RecommendationService) response(userID int, recs []recommender.Recommendation, personalized bool) *models.RecommendationResponse {
	return &models.RecommendationResponse{
		UserID:          userID,
		Recommendations: recs,
		Personalized:    personalized,
		GeneratedAt:     s.now().UTC().Format(time.RFC3339),
	}
}

func toActivityEvents(in []models.Activity) []recommender.ActivityEvent {
	out := make([]recommender.ActivityEvent, 0, len(in))
	for _, a := range in {
		out = append(out, recommender.ActivityEvent{
			ID:        a.ItemID,
			Type:      a.ContentType,
			Category:  a.Category,
			Tags:      a.Tags,
			Timestamp: a.OccurredAt.UnixMilli(),
		})
	}
	return out
}

func toBookmarks(in []models.Bookmark) []recommender.Bookmark {
	out := make([]recommender.Bookmark, 0, len(in))
	for _, b := range in {
		out = append(out, recommender.Bookmark{
			ID:        b.ItemID,
			Type:      b.ContentType,
			Category:  b.Category,
			Tags:      b.Tags,
			DateAdded: b.DateAdded.UnixMilli(),
		})
	}
	return out
}
