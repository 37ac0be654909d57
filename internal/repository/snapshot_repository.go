package repository

import (
	"context"
	"database/sql"
	"fmt"

	"studysync-api/internal/models"
	"studysync-api/internal/recommender"
)

type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// ReplaceSnapshots swaps a user's stored recommendations for recs in one transaction.
func (r *SnapshotRepository) ReplaceSnapshots(ctx context.Context, userID int, recs []recommender.Recommendation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM recommendation_snapshots WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	for _, rec := range recs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recommendation_snapshots (user_id, content_type, score, confidence, generated_at)
			VALUES ($1, $2, $3, $4, NOW())
		`, userID, rec.Type, rec.Score, string(rec.Confidence)); err != nil {
			return fmt.Errorf("insert snapshot %s: %w", rec.Type, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshots: %w", err)
	}
	return nil
}

// GetSnapshots returns the stored recommendations of a user, best first.
func (r *SnapshotRepository) GetSnapshots(ctx context.Context, userID int) ([]models.RecommendationSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, content_type, score, confidence, generated_at
		FROM recommendation_snapshots
		WHERE user_id = $1
		ORDER BY score DESC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []models.RecommendationSnapshot{}
	for rows.Next() {
		var s models.RecommendationSnapshot
		if err := rows.Scan(&s.ID, &s.UserID, &s.ContentType, &s.Score, &s.Confidence, &s.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
