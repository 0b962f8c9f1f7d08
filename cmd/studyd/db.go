package main

import (
	"database/sql"
	"fmt"
)

func initDB(dbPath string) (*sql.DB, error) {
	// Open SQLite database (creates if it doesn't exist)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	// Create tables if they don't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			linked_course_id TEXT NOT NULL DEFAULT '',
			remaining_minutes INTEGER NOT NULL,
			remaining_seconds INTEGER NOT NULL,
			initial_minutes INTEGER NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 0,
			mode INTEGER NOT NULL,
			auto_cycle INTEGER NOT NULL DEFAULT 0,
			selected_sound_id TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS study_stats (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			completed_today_minutes INTEGER NOT NULL,
			daily_goal_hours REAL NOT NULL,
			streak_days INTEGER NOT NULL,
			yesterday_minutes INTEGER NOT NULL,
			updated_at INTEGER
		);

		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create tables: %v", err)
	}

	return db, nil
}
