package db

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndRecentPredictions(t *testing.T) {
	store := openTestStore(t)

	if err := store.SavePrediction("Avianca", "N", 7, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SavePrediction("Grupo LATAM", "I", 12, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := store.RecentPredictions(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// Most recent first.
	if rows[0].Airline != "Grupo LATAM" || rows[0].Predicted != 1 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Airline != "Avianca" || rows[1].Month != 7 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestRecentPredictionsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		if err := store.SavePrediction("Avianca", "N", 7, 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	rows, err := store.RecentPredictions(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
}

func TestSaveTrainingRun(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveTrainingRun(68206, 0.185, 1200*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
