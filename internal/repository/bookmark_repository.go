package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"studysync-api/internal/models"
)

type BookmarkRepository struct {
	db *sql.DB
}

func NewBookmarkRepository(db *sql.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

const bookmarkColumns = `id, user_id, item_id, content_type, title, url, category, tags, notes, date_added`

func scanBookmark(row interface{ Scan(...any) error }) (*models.Bookmark, error) {
	var b models.Bookmark
	err := row.Scan(
		&b.ID, &b.UserID, &b.ItemID, &b.ContentType, &b.Title, &b.URL,
		&b.Category, pq.Array(&b.Tags), &b.Notes, &b.DateAdded,
	)
	if err != nil {
		return nil, err
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return &b, nil
}

// CreateBookmark inserts a bookmark. Returns ErrDuplicate when the user
// already saved the same item.
func (r *BookmarkRepository) CreateBookmark(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO bookmarks (user_id, item_id, content_type, title, url, category, tags, notes, date_added)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING `+bookmarkColumns,
		b.UserID, b.ItemID, b.ContentType, b.Title, b.URL, b.Category, pq.Array(b.Tags), b.Notes,
	)
	created, err := scanBookmark(row)
	if err != nil {
		return nil, fmt.Errorf("create bookmark: %w", translate(err))
	}
	return created, nil
}

// ListBookmarks returns a user's bookmarks, newest first.
func (r *BookmarkRepository) ListBookmarks(ctx context.Context, userID int) ([]models.Bookmark, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookmarkColumns+`
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY date_added DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []models.Bookmark{}
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, *b)
	}
	return bookmarks, rows.Err()
}

// GetBookmark returns one bookmark owned by userID.
func (r *BookmarkRepository) GetBookmark(ctx context.Context, userID, id int) (*models.Bookmark, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+bookmarkColumns+` FROM bookmarks WHERE id = $1 AND user_id = $2
	`, id, userID)
	b, err := scanBookmark(row)
	if err != nil {
		return nil, fmt.Errorf("get bookmark: %w", translate(err))
	}
	return b, nil
}

// UpdateBookmark overwrites the editable fields of a bookmark.
func (r *BookmarkRepository) UpdateBookmark(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE bookmarks
		SET title = $3, url = $4, category = $5, tags = $6, notes = $7
		WHERE id = $1 AND user_id = $2
		RETURNING `+bookmarkColumns,
		b.ID, b.UserID, b.Title, b.URL, b.Category, pq.Array(b.Tags), b.Notes,
	)
	updated, err := scanBookmark(row)
	if err != nil {
		return nil, fmt.Errorf("update bookmark: %w", translate(err))
	}
	return updated, nil
}

// DeleteBookmark removes a bookmark. Returns ErrNotFound if nothing matched.
func (r *BookmarkRepository) DeleteBookmark(ctx context.Context, userID, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete bookmark: %w", ErrNotFound)
	}
	return nil
}
