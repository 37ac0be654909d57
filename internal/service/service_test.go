package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"studysync-api/internal/models"
	"studysync-api/internal/recommender"
	"studysync-api/internal/repository"
)

var testNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[int]*models.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{users: map[int]*models.User{}} }

func (f *fakeUsers) CreateUser(_ context.Context, username, email, hash string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email || u.Username == username {
			return nil, repository.ErrDuplicate
		}
	}
	u := &models.User{ID: len(f.users) + 1, Username: username, Email: email, PasswordHash: hash, CreatedAt: testNow}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetUser(_ context.Context, id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeBookmarks struct {
	mu        sync.Mutex
	bookmarks []models.Bookmark
	err       error
}

func (f *fakeBookmarks) CreateBookmark(_ context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.bookmarks {
		if existing.UserID == b.UserID && existing.ItemID == b.ItemID && existing.ContentType == b.ContentType {
			return nil, repository.ErrDuplicate
		}
	}
	cp := *b
	cp.ID = len(f.bookmarks) + 1
	cp.DateAdded = testNow
	f.bookmarks = append(f.bookmarks, cp)
	return &cp, nil
}

func (f *fakeBookmarks) ListBookmarks(ctx context.Context, userID int) ([]models.Bookmark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Bookmark{}
	for _, b := range f.bookmarks {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookmarks) GetBookmark(_ context.Context, userID, id int) (*models.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookmarks {
		if b.UserID == userID && b.ID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBookmarks) UpdateBookmark(_ context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookmarks {
		if f.bookmarks[i].UserID == b.UserID && f.bookmarks[i].ID == b.ID {
			f.bookmarks[i] = *b
			cp := *b
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBookmarks) DeleteBookmark(_ context.Context, userID, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range f.bookmarks {
		if b.UserID == userID && b.ID == id {
			f.bookmarks = append(f.bookmarks[:i], f.bookmarks[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeActivity struct {
	mu         sync.Mutex
	activities []models.Activity
	err        error
	lastLimit  int
}

func (f *fakeActivity) UpsertActivity(_ context.Context, a *models.Activity) (*models.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	cp.OccurredAt = testNow
	for i, existing := range f.activities {
		if existing.UserID == a.UserID && existing.ItemID == a.ItemID && existing.ContentType == a.ContentType {
			cp.ID = existing.ID
			f.activities = append(f.activities[:i], f.activities[i+1:]...)
			break
		}
	}
	if cp.ID == 0 {
		cp.ID = len(f.activities) + 100
	}
	f.activities = append([]models.Activity{cp}, f.activities...)
	return &cp, nil
}

func (f *fakeActivity) ListRecent(ctx context.Context, userID, limit int) ([]models.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Activity{}
	for _, a := range f.activities {
		if a.UserID == userID && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeActivity) ClearActivity(_ context.Context, userID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.activities[:0]
	var removed int64
	for _, a := range f.activities {
		if a.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	f.activities = kept
	return removed, nil
}

type fakeSnapshots struct {
	mu    sync.Mutex
	saved map[int][]recommender.Recommendation
	calls int
}

func (f *fakeSnapshots) ReplaceSnapshots(_ context.Context, userID int, recs []recommender.Recommendation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		f.saved = map[int][]recommender.Recommendation{}
	}
	f.saved[userID] = recs
	f.calls++
	return nil
}

func (f *fakeSnapshots) GetSnapshots(_ context.Context, userID int) ([]models.RecommendationSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.RecommendationSnapshot{}
	for _, r := range f.saved[userID] {
		out = append(out, models.RecommendationSnapshot{UserID: userID, ContentType: r.Type, Score: r.Score, Confidence: string(r.Confidence)})
	}
	return out, nil
}

type recordingInvalidator struct {
	users []int
}

func (r *recordingInvalidator) Invalidate(_ context.Context, userID int) {
	r.users = append(r.users, userID)
}
