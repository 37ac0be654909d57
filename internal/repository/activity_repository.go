package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"studysync-api/internal/models"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activityColumns = `id, user_id, item_id, content_type, title, url, category, tags, occurred_at`

// UpsertActivity records a view. Viewing an item again refreshes its
// metadata and timestamp instead of adding a second row.
func (r *ActivityRepository) UpsertActivity(ctx context.Context, a *models.Activity) (*models.Activity, error) {
	var out models.Activity
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO activities (user_id, item_id, content_type, title, url, category, tags, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id, item_id, content_type) DO UPDATE SET
			title = EXCLUDED.title,
			url = EXCLUDED.url,
			category = EXCLUDED.category,
			tags = EXCLUDED.tags,
			occurred_at = NOW()
		RETURNING `+activityColumns,
		a.UserID, a.ItemID, a.ContentType, a.Title, a.URL, a.Category, pq.Array(a.Tags),
	).Scan(
		&out.ID, &out.UserID, &out.ItemID, &out.ContentType, &out.Title, &out.URL,
		&out.Category, pq.Array(&out.Tags), &out.OccurredAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert activity: %w", err)
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return &out, nil
}

// ListRecent returns the user's most recent activity, newest first.
func (r *ActivityRepository) ListRecent(ctx context.Context, userID, limit int) ([]models.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE user_id = $1
		ORDER BY occurred_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.ItemID, &a.ContentType, &a.Title, &a.URL,
			&a.Category, pq.Array(&a.Tags), &a.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if a.Tags == nil {
			a.Tags = []string{}
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// ClearActivity removes all activity for a user and reports how many rows went.
func (r *ActivityRepository) ClearActivity(ctx context.Context, userID int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear activity: %w", err)
	}
	return res.RowsAffected()
}
