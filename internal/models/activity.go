package models

import "time"

// Activity records the last time a user opened a resource.
// Opening the same resource again moves it back to the top.
type Activity struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	ItemID      string    `json:"item_id"`
	ContentType string    `json:"type"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// RecordActivityRequest is the request body for tracking a resource view.
type RecordActivityRequest struct {
	ItemID      string   `json:"item_id" validate:"required,max=255"`
	ContentType string   `json:"type" validate:"required,max=50"`
	Title       string   `json:"title" validate:"required,max=255"`
	URL         string   `json:"url" validate:"required,url"`
	Category    string   `json:"category" validate:"omitempty,max=100"`
	Tags        []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
}

// ActivityListResponse wraps a user's recent activity, newest first.
type ActivityListResponse struct {
	UserID     int        `json:"user_id"`
	Activities []Activity `json:"activities"`
}
