// Package recommender turns a user's recent activity and bookmarks into a
// ranked list of content-type recommendations.
//
// The scoring is a deterministic weighted heuristic: activity decays linearly
// with age, bookmarks add flat time-invariant weight, and per-type scores are
// normalized against the strongest type before clamping.
package recommender

import "time"

// ActivityEvent is one view of a content item. Timestamp is in ms since epoch.
type ActivityEvent struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	Category  string   `json:"category,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

// Bookmark is a saved content item. DateAdded is in ms since epoch.
type Bookmark struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	Category  string   `json:"category,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	DateAdded int64    `json:"dateAdded"`
}

// UserProfile is rebuilt on every scoring call and never stored.
// Each score map holds every key of the catalog.
type UserProfile struct {
	CategoryScores map[string]float64 `json:"categoryScores"`
	TagScores      map[string]float64 `json:"tagScores"`
	TypeScores     map[string]float64 `json:"typeScores"`
	LastActivity   int64              `json:"lastActivity"`

	// Accepted counts the activity events and bookmarks that passed validation.
	Accepted int `json:"accepted"`
}

type ProfileBuilder struct {
	catalog Catalog
	weights Weights
	now     func() time.Time
}

func NewProfileBuilder(s Settings, now func() time.Time) *ProfileBuilder {
	if now == nil {
		now = time.Now
	}
	return &ProfileBuilder{catalog: s.Catalog, weights: s.Weights, now: now}
}

// Build aggregates activity and bookmarks into a profile. Invalid entries are
// skipped; empty input yields a baseline profile.
func (b *ProfileBuilder) Build(activity []ActivityEvent, bookmarks []Bookmark) UserProfile {
	now := b.now().UnixMilli()
	p := b.baseline(now)

	for _, a := range activity {
		if !validActivity(a, b.catalog) {
			continue
		}
		p.Accepted++

		// Clock skew can put events in the future; treat them as just seen.
		ageInDays := max(0, float64(now-a.Timestamp)/msPerDay)
		tw := b.weights.TimeWeight(ageInDays)

		p.TypeScores[NormalizeType(a.Type)] += tw * b.weights.ActivityType
		if cat := categoryOrDefault(a.Category); b.catalog.HasCategory(cat) {
			p.CategoryScores[cat] += tw * b.weights.ActivityCategory
		}
		for _, tag := range a.Tags {
			if b.catalog.HasTag(tag) {
				p.TagScores[tag] += tw * b.weights.ActivityTag
			}
		}
	}

	for _, bm := range bookmarks {
		if !validBookmark(bm, b.catalog) {
			continue
		}
		p.Accepted++

		p.TypeScores[NormalizeType(bm.Type)] += b.weights.BookmarkType
		if cat := categoryOrDefault(bm.Category); b.catalog.HasCategory(cat) {
			p.CategoryScores[cat] += b.weights.BookmarkCategory
		}
		for _, tag := range bm.Tags {
			if !b.catalog.HasTag(tag) {
				continue
			}
			if b.catalog.isHighValue(tag) {
				p.TagScores[tag] += b.weights.BookmarkHighValueTag
			} else {
				p.TagScores[tag] += b.weights.BookmarkTag
			}
		}
	}

	return p
}

func (b *ProfileBuilder) baseline(now int64) UserProfile {
	p := UserProfile{
		CategoryScores: make(map[string]float64, len(b.catalog.Categories)),
		TagScores:      make(map[string]float64, len(b.catalog.Tags)),
		TypeScores:     make(map[string]float64, len(b.catalog.ContentTypes)),
		LastActivity:   now,
	}
	for _, c := range b.catalog.Categories {
		p.CategoryScores[c] = b.weights.Baseline
	}
	for _, t := range b.catalog.Tags {
		p.TagScores[t] = b.weights.Baseline
	}
	for _, t := range b.catalog.ContentTypes {
		p.TypeScores[t] = b.weights.Baseline
	}
	return p
}

// validActivity reports whether an event contributes to a profile: it needs a
// timestamp and a known (normalized) content type.
func validActivity(a ActivityEvent, c Catalog) bool {
	return a.Timestamp > 0 && c.HasType(NormalizeType(a.Type))
}

// validBookmark reports whether a bookmark contributes to a profile.
func validBookmark(b Bookmark, c Catalog) bool {
	return c.HasType(NormalizeType(b.Type))
}

func categoryOrDefault(c string) string {
	if c == "" {
		return DefaultCategory
	}
	return c
}
