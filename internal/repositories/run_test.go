package repositories

import (
	"database/sql"
	"testing"

	"github.com/soundprint/soundprint/internal/models"
	"github.com/soundprint/soundprint/internal/shared"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestRunRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))

		run := &models.FetchRun{
			UserID:        "user123",
			ArtistCount:   20,
			TrackCount:    20,
			PlaylistCount: 5,
		}

		if err := repo.Create(run); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if run.ID == "" {
			t.Error("expected a generated id")
		}
		if run.Sequence != 1 {
			t.Errorf("expected sequence 1 for the first run, got %d", run.Sequence)
		}
		if run.CreatedAt.IsZero() {
			t.Error("expected created_at to be set")
		}
	})

	t.Run("Create Rejects Invalid Run", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))

		if err := repo.Create(&models.FetchRun{}); err == nil {
			t.Error("expected validation error for missing user id")
		}
	})

	t.Run("Sequence Increments", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))

		first := &models.FetchRun{UserID: "user123"}
		second := &models.FetchRun{UserID: "user123"}
		repo.Create(first)
		repo.Create(second)

		if second.Sequence != first.Sequence+1 {
			t.Errorf("expected consecutive sequences, got %d then %d", first.Sequence, second.Sequence)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))

		run := &models.FetchRun{
			UserID:           "user123",
			ArtistCount:      10,
			TrackCount:       15,
			PlaylistCount:    3,
			PlaylistFailures: 1,
			CacheHit:         true,
		}
		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		got, err := repo.Get(run.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got.UserID != "user123" {
			t.Errorf("unexpected user id: %s", got.UserID)
		}
		if got.ArtistCount != 10 || got.TrackCount != 15 || got.PlaylistCount != 3 {
			t.Errorf("unexpected counts: %+v", got)
		}
		if got.PlaylistFailures != 1 {
			t.Errorf("expected 1 playlist failure, got %d", got.PlaylistFailures)
		}
		if !got.CacheHit {
			t.Error("expected cache hit to round trip")
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		if _, err := repo.Get("nonexistent"); err == nil {
			t.Error("expected error for unknown run id")
		}
	})

	t.Run("ListByUser", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))

		for range 3 {
			if err := repo.Create(&models.FetchRun{UserID: "user123"}); err != nil {
				t.Fatalf("failed to create run: %v", err)
			}
		}
		repo.Create(&models.FetchRun{UserID: "other"})

		runs, err := repo.ListByUser("user123", 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(runs) != 3 {
			t.Fatalf("expected 3 runs for user123, got %d", len(runs))
		}
		for i := 1; i < len(runs); i++ {
			if runs[i-1].Sequence < runs[i].Sequence {
				t.Error("runs should be ordered newest first")
			}
		}
	})

	t.Run("ListByUser Respects Limit", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))

		for range 5 {
			repo.Create(&models.FetchRun{UserID: "user123"})
		}

		runs, err := repo.ListByUser("user123", 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 runs, got %d", len(runs))
		}
	})

	t.Run("ListByUser Empty", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))

		runs, err := repo.ListByUser("nobody", 10)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(runs) != 0 {
			t.Errorf("expected no runs, got %d", len(runs))
		}
	})
}
