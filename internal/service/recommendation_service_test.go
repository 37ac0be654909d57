package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"studysync-api/internal/models"
	"studysync-api/internal/recommender"
)

func newTestRecommendations(t *testing.T, withRedis bool) (*RecommendationService, *fakeActivity, *fakeBookmarks, *fakeSnapshots) {
	t.Helper()
	activity, bookmarks, snapshots := &fakeActivity{}, &fakeBookmarks{}, &fakeSnapshots{}
	scorer := recommender.NewScorer(recommender.DefaultSettings(), recommender.WithClock(func() time.Time { return testNow }))

	svc := NewRecommendationService(scorer, activity, bookmarks, snapshots, nil, 10*time.Minute, 10)
	if withRedis {
		_, rdb := newTestRedis(t)
		svc = NewRecommendationService(scorer, activity, bookmarks, snapshots, rdb, 10*time.Minute, 10)
	}
	svc.now = func() time.Time { return testNow }
	return svc, activity, bookmarks, snapshots
}

func TestGetRecommendationsDefaultsForNewUser(t *testing.T) {
	svc, _, _, snapshots := newTestRecommendations(t, false)

	resp := svc.GetRecommendations(context.Background(), 1)
	svc.Wait()

	if resp.Personalized {
		t.Error("Personalized = true for a user without data")
	}
	want := []recommender.Recommendation{
		{Type: "video", Score: 0.7, Confidence: recommender.ConfidenceLow},
		{Type: "book", Score: 0.6, Confidence: recommender.ConfidenceLow},
	}
	if len(resp.Recommendations) != len(want) {
		t.Fatalf("got %d recommendations, want %d", len(resp.Recommendations), len(want))
	}
	for i, r := range resp.Recommendations {
		if r != want[i] {
			t.Errorf("rec[%d] = %+v, want %+v", i, r, want[i])
		}
	}
	if resp.GeneratedAt != "2026-03-02T09:30:00Z" {
		t.Errorf("GeneratedAt = %q", resp.GeneratedAt)
	}
	if snapshots.calls != 0 {
		t.Errorf("snapshots written for default set: %d", snapshots.calls)
	}
}

func TestGetRecommendationsPersonalizedAndCached(t *testing.T) {
	ctx := context.Background()
	svc, _, bookmarks, snapshots := newTestRecommendations(t, true)
	bookmarks.bookmarks = []models.Bookmark{
		{ID: 1, UserID: 1, ItemID: "v1", ContentType: "video", Category: "programming", DateAdded: testNow},
	}

	resp := svc.GetRecommendations(ctx, 1)
	svc.Wait()

	if !resp.Personalized {
		t.Fatal("Personalized = false, want true")
	}
	top := resp.Recommendations[0]
	if top.Type != "video" || top.Score != 0.95 || top.Confidence != recommender.ConfidenceHigh {
		t.Errorf("top = %+v, want video 0.95 high", top)
	}
	if snapshots.calls != 1 || len(snapshots.saved[1]) != 2 {
		t.Errorf("snapshots = %d calls, %v", snapshots.calls, snapshots.saved[1])
	}

	// Served from cache until invalidated.
	bookmarks.bookmarks = nil
	if again := svc.GetRecommendations(ctx, 1); !again.Personalized {
		t.Error("second call did not hit the cache")
	}

	svc.Invalidate(ctx, 1)
	if fresh := svc.GetRecommendations(ctx, 1); fresh.Personalized {
		t.Error("Invalidate did not drop the cached result")
	}
}

func TestGetRecommendationsDegradesOnStoreError(t *testing.T) {
	svc, activity, _, snapshots := newTestRecommendations(t, true)
	activity.err = errors.New("connection refused")

	resp := svc.GetRecommendations(context.Background(), 1)
	svc.Wait()

	if resp.Personalized || len(resp.Recommendations) != 2 {
		t.Errorf("resp = %+v, want the default set", resp)
	}
	if snapshots.calls != 0 {
		t.Error("snapshots written after a store failure")
	}

	// The degraded answer must not be cached.
	activity.mu.Lock()
	activity.err = nil
	activity.activities = []models.Activity{{UserID: 1, ItemID: "b1", ContentType: "book", OccurredAt: testNow}}
	activity.mu.Unlock()
	if resp := svc.GetRecommendations(context.Background(), 1); !resp.Personalized {
		t.Error("degraded result was cached")
	}
	svc.Wait()
}

func TestGetRecommendationsConcurrent(t *testing.T) {
	svc, activity, _, _ := newTestRecommendations(t, true)
	activity.activities = []models.Activity{{UserID: 1, ItemID: "b1", ContentType: "book", OccurredAt: testNow}}

	var wg sync.WaitGroup
	results := make([]*models.RecommendationResponse, 8)
	for i := range results {
		wg.Go(func() {
			results[i] = svc.GetRecommendations(context.Background(), 1)
		})
	}
	wg.Wait()
	svc.Wait()

	for i, r := range results {
		if !r.Personalized || r.Recommendations[0].Type != "book" {
			t.Errorf("result %d = %+v", i, r)
		}
	}
}

func TestPreviewAndCatalog(t *testing.T) {
	svc, _, _, _ := newTestRecommendations(t, false)

	resp := svc.Preview(models.PreviewRequest{
		RecentActivity: []recommender.ActivityEvent{{ID: "1", Type: "youtube", Timestamp: testNow.UnixMilli()}},
	})
	if !resp.Personalized || resp.Recommendations[0].Type != "video" {
		t.Errorf("Preview() = %+v", resp)
	}

	cat := svc.Catalog()
	if len(cat.Catalog.ContentTypes) != 2 || cat.Weights.TopN != 5 {
		t.Errorf("Catalog() = %+v", cat)
	}
}

// gatedBookmarks reads the stored bookmarks, then blocks the first call until
// released, so a test can change data while a computation is in flight.
type gatedBookmarks struct {
	*fakeBookmarks
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedBookmarks) ListBookmarks(ctx context.Context, userID int) ([]models.Bookmark, error) {
	out, err := g.fakeBookmarks.ListBookmarks(ctx, userID)
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return out, err
}

func TestInvalidateDuringComputation(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	store := &fakeBookmarks{bookmarks: []models.Bookmark{
		{ID: 1, UserID: 1, ItemID: "v1", ContentType: "video", DateAdded: testNow},
	}}
	gated := &gatedBookmarks{fakeBookmarks: store, entered: make(chan struct{}), release: make(chan struct{})}
	snapshots := &fakeSnapshots{}
	scorer := recommender.NewScorer(recommender.DefaultSettings(), recommender.WithClock(func() time.Time { return testNow }))
	svc := NewRecommendationService(scorer, &fakeActivity{}, gated, snapshots, rdb, 10*time.Minute, 10)
	svc.now = func() time.Time { return testNow }

	done := make(chan *models.RecommendationResponse)
	go func() { done <- svc.GetRecommendations(ctx, 1) }()

	<-gated.entered
	store.mu.Lock()
	store.bookmarks = []models.Bookmark{{ID: 2, UserID: 1, ItemID: "b1", ContentType: "book", DateAdded: testNow}}
	store.mu.Unlock()
	svc.Invalidate(ctx, 1)
	close(gated.release)

	if stale := <-done; stale.Recommendations[0].Type != "video" {
		t.Fatalf("in-flight result = %+v, want the ranking read before the change", stale)
	}
	svc.Wait()

	if got, _ := mr.Get(generationKey(1)); got != "1" {
		t.Errorf("generation = %q, want 1", got)
	}
	if snapshots.calls != 0 {
		t.Errorf("snapshots written for an invalidated result: %d", snapshots.calls)
	}

	fresh := svc.GetRecommendations(ctx, 1)
	svc.Wait()
	if !fresh.Personalized || fresh.Recommendations[0].Type != "book" {
		t.Errorf("after invalidation = %+v, want book first", fresh)
	}
	if again := svc.GetRecommendations(ctx, 1); !again.Personalized {
		t.Error("fresh result was not cached under the new generation")
	}
}

func TestGetRecommendationsSurvivesCanceledCaller(t *testing.T) {
	svc, activity, _, _ := newTestRecommendations(t, true)
	activity.activities = []models.Activity{{UserID: 1, ItemID: "v1", ContentType: "video", OccurredAt: testNow}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := svc.GetRecommendations(ctx, 1)
	svc.Wait()
	if !resp.Personalized || resp.Recommendations[0].Type != "video" {
		t.Errorf("resp = %+v, want a personalized ranking despite the canceled caller", resp)
	}
}
