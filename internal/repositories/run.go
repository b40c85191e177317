package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/soundprint/soundprint/internal/models"
	"github.com/soundprint/soundprint/internal/shared"
)

// RunRepository persists [models.FetchRun] records.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new fetch run with generated ID and sequence.
func (r *RunRepository) Create(run *models.FetchRun) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.ID = shared.GenerateID()
	run.Sequence = sequence
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (id, sequence, user_id, artist_count, track_count, playlist_count, playlist_failures, cache_hit, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, run.ID, run.Sequence, run.UserID, run.ArtistCount,
		run.TrackCount, run.PlaylistCount, run.PlaylistFailures, run.CacheHit, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a fetch run by ID.
func (r *RunRepository) Get(id string) (*models.FetchRun, error) {
	query := `
		SELECT id, sequence, user_id, artist_count, track_count, playlist_count, playlist_failures, cache_hit, created_at
		FROM runs
		WHERE id = ?
	`

	run := &models.FetchRun{}
	err := r.db.QueryRow(query, id).Scan(&run.ID, &run.Sequence, &run.UserID, &run.ArtistCount,
		&run.TrackCount, &run.PlaylistCount, &run.PlaylistFailures, &run.CacheHit, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	return run, nil
}

// ListByUser retrieves the most recent fetch runs for a user, newest first.
func (r *RunRepository) ListByUser(userID string, limit int) ([]models.FetchRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, sequence, user_id, artist_count, track_count, playlist_count, playlist_failures, cache_hit, created_at
		FROM runs
		WHERE user_id = ?
		ORDER BY sequence DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.FetchRun
	for rows.Next() {
		var run models.FetchRun
		if err := rows.Scan(&run.ID, &run.Sequence, &run.UserID, &run.ArtistCount,
			&run.TrackCount, &run.PlaylistCount, &run.PlaylistFailures, &run.CacheHit, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}
