package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"studysync-api/internal/models"
	"studysync-api/internal/search"
)

const maxQueryLength = 200

type VideoSearcher interface {
	SearchVideos(ctx context.Context, query string, maxResults int) ([]models.Video, error)
}

type BookSearcher interface {
	SearchBooks(ctx context.Context, query string, maxResults int) ([]models.Book, error)
}

// SearchService proxies the external providers and caches their answers
// by normalized query.
type SearchService struct {
	videos   VideoSearcher
	books    BookSearcher
	cache    jsonCache
	cacheTTL time.Duration
}

func NewSearchService(videos VideoSearcher, books BookSearcher, rdb *redis.Client, cacheTTL time.Duration) *SearchService {
	return &SearchService{
		videos:   videos,
		books:    books,
		cache:    jsonCache{rdb: rdb},
		cacheTTL: cacheTTL,
	}
}

func (s *SearchService) SearchVideos(ctx context.Context, query string) (*models.SearchResponse[models.Video], error) {
	return cachedSearch(ctx, s, "youtube", query, s.videos.SearchVideos)
}

func (s *SearchService) SearchBooks(ctx context.Context, query string) (*models.SearchResponse[models.Book], error) {
	return cachedSearch(ctx, s, "books", query, s.books.SearchBooks)
}

func cachedSearch[T any](
	ctx context.Context,
	s *SearchService,
	provider, query string,
	fetch func(context.Context, string, int) ([]T, error),
) (*models.SearchResponse[T], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query parameter q is required", ErrInvalidInput)
	}
	if len(query) > maxQueryLength {
		return nil, fmt.Errorf("%w: query is longer than %d characters", ErrInvalidInput, maxQueryLength)
	}

	key := searchKey(provider, query)
	var cached []T
	if s.cache.get(ctx, key, &cached) {
		slog.Debug("search cache hit", "provider", provider, "query", query)
		return &models.SearchResponse[T]{Query: query, Count: len(cached), Results: cached, Cached: true}, nil
	}

	results, err := fetch(ctx, query, 0)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrNotConfigured):
			return nil, fmt.Errorf("%w: %s search is not configured", ErrUnavailable, provider)
		case errors.Is(err, search.ErrUpstream):
			slog.Error("search provider failed", "provider", provider, "error", err)
			return nil, fmt.Errorf("%w: %w", ErrUpstreamFailed, err)
		default:
			return nil, err
		}
	}
	if results == nil {
		results = []T{}
	}

	s.cache.set(ctx, key, results, s.cacheTTL)
	return &models.SearchResponse[T]{Query: query, Count: len(results), Results: results}, nil
}

func searchKey(provider, query string) string {
	return "search:" + provider + ":" + strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
