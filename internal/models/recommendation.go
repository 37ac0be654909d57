package models

import (
	"time"

	"studysync-api/internal/recommender"
)

// RecommendationResponse wraps the ranked content types for a user.
type RecommendationResponse struct {
	UserID          int                          `json:"user_id"`
	Recommendations []recommender.Recommendation `json:"recommendations"`
	Personalized    bool                         `json:"personalized"`
	GeneratedAt     string                       `json:"generated_at"`
}

// RecommendationSnapshot stores the last computed score of a content type.
type RecommendationSnapshot struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	ContentType string    `json:"type"`
	Score       float64   `json:"score"`
	Confidence  string    `json:"confidence"`
	GeneratedAt time.Time `json:"generated_at"`
}

// PreviewRequest carries raw activity and bookmarks to score without storage.
type PreviewRequest struct {
	RecentActivity []recommender.ActivityEvent `json:"recentActivity" validate:"max=500"`
	Bookmarks      []recommender.Bookmark      `json:"bookmarks" validate:"max=500"`
}

// CatalogResponse describes what the scorer knows about.
type CatalogResponse struct {
	Catalog recommender.Catalog `json:"catalog"`
	Weights recommender.Weights `json:"weights"`
}
