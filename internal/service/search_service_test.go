package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"studysync-api/internal/models"
	"studysync-api/internal/search"
)

type fakeVideos struct {
	calls int
	err   error
}

func (f *fakeVideos) SearchVideos(_ context.Context, query string, _ int) ([]models.Video, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []models.Video{{ID: "v1", Title: query}}, nil
}

type fakeBooks struct{ err error }

func (f fakeBooks) SearchBooks(context.Context, string, int) ([]models.Book, error) {
	return nil, f.err
}

func TestSearchVideosCaches(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	videos := &fakeVideos{}
	svc := NewSearchService(videos, fakeBooks{}, rdb, time.Hour)

	first, err := svc.SearchVideos(ctx, "  Go Concurrency ")
	if err != nil {
		t.Fatalf("SearchVideos() error = %v", err)
	}
	if first.Cached || first.Count != 1 || first.Query != "Go Concurrency" {
		t.Errorf("first = %+v", first)
	}
	if !mr.Exists("search:youtube:go concurrency") {
		t.Errorf("cache key missing, have %v", mr.Keys())
	}

	second, err := svc.SearchVideos(ctx, "go   concurrency")
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached || videos.calls != 1 {
		t.Errorf("second = %+v after %d upstream calls", second, videos.calls)
	}
}

func TestSearchErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		query    string
		upstream error
		want     error
	}{
		{"empty query", "   ", nil, ErrInvalidInput},
		{"not configured", "go", search.ErrNotConfigured, ErrUnavailable},
		{"upstream failure", "go", fmt.Errorf("%w: status 403", search.ErrUpstream), ErrUpstreamFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSearchService(&fakeVideos{err: tt.upstream}, fakeBooks{err: tt.upstream}, nil, time.Hour)
			if _, err := svc.SearchVideos(ctx, tt.query); !errors.Is(err, tt.want) {
				t.Errorf("SearchVideos() error = %v, want %v", err, tt.want)
			}
			if _, err := svc.SearchBooks(ctx, tt.query); !errors.Is(err, tt.want) {
				t.Errorf("SearchBooks() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSearchBooksEmptyResults(t *testing.T) {
	svc := NewSearchService(&fakeVideos{}, fakeBooks{}, nil, time.Hour)
	resp, err := svc.SearchBooks(context.Background(), "obscure")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Results == nil || resp.Count != 0 {
		t.Errorf("resp = %+v, want empty non-nil results", resp)
	}
}
