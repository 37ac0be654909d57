package models

import "time"

// Bookmark is a saved learning resource.
type Bookmark struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	ItemID      string    `json:"item_id"`
	ContentType string    `json:"type"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Notes       string    `json:"notes"`
	DateAdded   time.Time `json:"date_added"`
}

// CreateBookmarkRequest is the request body for saving a resource.
type CreateBookmarkRequest struct {
	ItemID      string   `json:"item_id" validate:"required,max=255"`
	ContentType string   `json:"type" validate:"required,max=50"`
	Title       string   `json:"title" validate:"required,max=100"`
	URL         string   `json:"url" validate:"required,url"`
	Category    string   `json:"category" validate:"omitempty,max=100"`
	Tags        []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Notes       string   `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateBookmarkRequest changes the editable fields of a bookmark.
// Nil fields are left unchanged.
type UpdateBookmarkRequest struct {
	Title    *string  `json:"title" validate:"omitempty,max=100"`
	URL      *string  `json:"url" validate:"omitempty,url"`
	Category *string  `json:"category" validate:"omitempty,max=100"`
	Tags     []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Notes    *string  `json:"notes" validate:"omitempty,max=2000"`
}

// BookmarkListResponse wraps a user's bookmarks, newest first.
type BookmarkListResponse struct {
	UserID    int        `json:"user_id"`
	Count     int        `json:"count"`
	Bookmarks []Bookmark `json:"bookmarks"`
}
