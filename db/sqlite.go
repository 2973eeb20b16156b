package db

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite-backed audit log for served predictions and training
// runs. It is owned by main and handed to the HTTP layer by pointer.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	database, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        airline TEXT NOT NULL,
        flight_type TEXT NOT NULL,
        month INTEGER NOT NULL,
        predicted_label INTEGER NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    CREATE TABLE IF NOT EXISTS training_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        samples INTEGER NOT NULL,
        delay_rate REAL NOT NULL,
        duration_ms INTEGER NOT NULL,
        trained_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    `
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, err
	}

	return &Store{db: database}, nil
}

// PredictionRow is one served prediction.
type PredictionRow struct {
	ID         int64     `json:"id"`
	Airline    string    `json:"airline"`
	FlightType string    `json:"flight_type"`
	Month      int       `json:"month"`
	Predicted  int       `json:"predicted_label"`
	CreatedAt  time.Time `json:"created_at"`
}

// SavePrediction appends one served prediction to the audit log.
func (s *Store) SavePrediction(airline, flightType string, month, predicted int) error {
	_, err := s.db.Exec(
		`INSERT INTO predictions (airline, flight_type, month, predicted_label) VALUES (?, ?, ?, ?)`,
		airline, flightType, month, predicted,
	)
	return err
}

// RecentPredictions returns the newest predictions, most recent first.
func (s *Store) RecentPredictions(limit int) ([]PredictionRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, airline, flight_type, month, predicted_label, created_at
         FROM predictions ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PredictionRow
	for rows.Next() {
		var row PredictionRow
		if err := rows.Scan(&row.ID, &row.Airline, &row.FlightType, &row.Month, &row.Predicted, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SaveTrainingRun records one startup fit.
func (s *Store) SaveTrainingRun(samples int, delayRate float64, duration time.Duration) error {
	_, err := s.db.Exec(
		`INSERT INTO training_runs (samples, delay_rate, duration_ms) VALUES (?, ?, ?)`,
		samples, delayRate, duration.Milliseconds(),
	)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
