package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestYouTubeSearchVideos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %s, want /search", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "go channels" || q.Get("type") != "video" || q.Get("key") != "yt-key" || q.Get("maxResults") != "10" {
			t.Errorf("unexpected query %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"id":{"videoId":"abc"},"snippet":{"title":"Channels","description":"d","thumbnails":{"medium":{"url":"https://i.ytimg.com/abc.jpg"}}}},
			{"id":{"channelId":"skip"},"snippet":{"title":"A channel"}}
		]}`))
	}))
	defer srv.Close()

	got, err := NewYouTubeClient("yt-key", srv.URL+"/").SearchVideos(context.Background(), "go channels", 0)
	if err != nil {
		t.Fatalf("SearchVideos() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].ID != "abc" || got[0].URL != "https://www.youtube.com/watch?v=abc" || got[0].Thumbnail != "https://i.ytimg.com/abc.jpg" {
		t.Errorf("video = %+v", got[0])
	}
}

func TestYouTubeRequiresKey(t *testing.T) {
	_, err := NewYouTubeClient("", "http://unused").SearchVideos(context.Background(), "x", 5)
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}
}

func TestYouTubeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quotaExceeded"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewYouTubeClient("k", srv.URL).SearchVideos(context.Background(), "x", 5)
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("error = %v, want ErrUpstream", err)
	}
}

func TestBooksSearchFillsPlaceholders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("printType") != "books" || q.Has("key") {
			t.Errorf("unexpected query %v", q)
		}
		w.Write([]byte(`{"items":[
			{"id":"b1","volumeInfo":{"title":"SICP","authors":["Abelson","Sussman"],"pageCount":657,"imageLinks":{"thumbnail":"http://t/b1"}}},
			{"id":"b2","volumeInfo":{"title":"Untitled"}}
		]}`))
	}))
	defer srv.Close()

	got, err := NewBooksClient("", srv.URL).SearchBooks(context.Background(), "sicp", 10)
	if err != nil {
		t.Fatalf("SearchBooks() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !reflect.DeepEqual(got[0].Authors, []string{"Abelson", "Sussman"}) || got[0].PageCount != 657 || got[0].Thumbnail != "http://t/b1" {
		t.Errorf("first = %+v", got[0])
	}
	second := got[1]
	if !reflect.DeepEqual(second.Authors, []string{"Unknown Author"}) ||
		second.Description != "No description available" ||
		second.Publisher != "Unknown Publisher" ||
		second.PublishedDate != "Unknown" ||
		second.Categories == nil {
		t.Errorf("second = %+v, want placeholders", second)
	}
}

func TestBooksNoItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalItems":0}`))
	}))
	defer srv.Close()

	got, err := NewBooksClient("key", srv.URL).SearchBooks(context.Background(), "zzzz", 10)
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("SearchBooks() = %v, %v; want empty slice", got, err)
	}
}
