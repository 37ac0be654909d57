package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"studysync-api/internal/config"
)

func NewPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(50) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS bookmarks (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		item_id VARCHAR(255) NOT NULL,
		content_type VARCHAR(50) NOT NULL,
		title VARCHAR(100) NOT NULL,
		url TEXT NOT NULL,
		category VARCHAR(100) NOT NULL DEFAULT 'general',
		tags TEXT[] NOT NULL DEFAULT '{}',
		notes TEXT NOT NULL DEFAULT '',
		date_added TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(user_id, item_id, content_type)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookmarks_user_date ON bookmarks(user_id, date_added DESC)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		item_id VARCHAR(255) NOT NULL,
		content_type VARCHAR(50) NOT NULL,
		title VARCHAR(255) NOT NULL,
		url TEXT NOT NULL,
		category VARCHAR(100) NOT NULL DEFAULT 'general',
		tags TEXT[] NOT NULL DEFAULT '{}',
		occurred_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(user_id, item_id, content_type)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_user_time ON activities(user_id, occurred_at DESC)`,
	`CREATE TABLE IF NOT EXISTS recommendation_snapshots (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content_type VARCHAR(50) NOT NULL,
		score DOUBLE PRECISION NOT NULL,
		confidence VARCHAR(10) NOT NULL,
		generated_at TIMESTAMP DEFAULT NOW(),
		UNIQUE(user_id, content_type)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_user_score ON recommendation_snapshots(user_id, score DESC)`,
}

// RunMigrations applies the schema. Every statement is idempotent.
func RunMigrations(db *sql.DB) error {
	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed", "statements", len(migrations))
	return nil
}
