package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OCRRun is one recorded recognition request handled by the HTTP service.
type OCRRun struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	Chars       int       `json:"chars"`
	Duration    float64   `json:"duration"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	ArtifactURL string    `json:"artifactUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EnsureSchema creates the run history table when it does not exist yet.
func EnsureSchema(ctx context.Context) error {
	if Pool == nil {
		return fmt.Errorf("database not available")
	}
	_, err := Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS ocr_runs (
			id UUID PRIMARY KEY,
			filename TEXT NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			chars INTEGER NOT NULL DEFAULT 0,
			duration DOUBLE PRECISION NOT NULL DEFAULT 0,
			success BOOLEAN NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			artifact_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create ocr_runs table: %w", err)
	}
	return nil
}

// SaveRun records one run. The caller's struct gets the generated ID and timestamp.
func SaveRun(ctx context.Context, run *OCRRun) error {
	if Pool == nil {
		return fmt.Errorf("database not available")
	}
	run.ID = uuid.New().String()
	run.CreatedAt = time.Now()

	_, err := Pool.Exec(ctx, `
		INSERT INTO ocr_runs (id, filename, provider, model, chars, duration, success, error, image_url, artifact_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		run.ID, run.Filename, run.Provider, run.Model, run.Chars, run.Duration,
		run.Success, run.Error, run.ImageURL, run.ArtifactURL, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// RecentRuns returns the newest runs, most recent first.
func RecentRuns(ctx context.Context, limit int) ([]OCRRun, error) {
	if Pool == nil {
		return nil, fmt.Errorf("database not available")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := Pool.Query(ctx, `
		SELECT id, filename, provider, model, chars, duration, success, error, image_url, artifact_url, created_at
		FROM ocr_runs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []OCRRun
	for rows.Next() {
		var run OCRRun
		if err := rows.Scan(&run.ID, &run.Filename, &run.Provider, &run.Model, &run.Chars,
			&run.Duration, &run.Success, &run.Error, &run.ImageURL, &run.ArtifactURL, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
