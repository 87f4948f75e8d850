package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"shopintent/ml"
)

// Run is one recorded evaluation.
type Run struct {
	ID          string    `json:"id"`
	DataPath    string    `json:"data_path"`
	Seed        int64     `json:"seed"`
	TrainSize   int       `json:"train_size"`
	TestSize    int       `json:"test_size"`
	Correct     int       `json:"correct"`
	Incorrect   int       `json:"incorrect"`
	Sensitivity float64   `json:"sensitivity"`
	Specificity float64   `json:"specificity"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// NewRun stamps a result with a fresh id.
func NewRun(dataPath string, seed int64, result *ml.Result, started, finished time.Time) Run {
	return Run{
		ID:          uuid.NewString(),
		DataPath:    dataPath,
		Seed:        seed,
		TrainSize:   result.TrainSize,
		TestSize:    result.TestSize,
		Correct:     result.Correct,
		Incorrect:   result.Incorrect,
		Sensitivity: result.Sensitivity,
		Specificity: result.Specificity,
		StartedAt:   started.UTC(),
		FinishedAt:  finished.UTC(),
	}
}

// RunStore keeps the evaluation history in SQLite.
type RunStore struct {
	db *sql.DB
}

func Open(path string) (*RunStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	database, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database failed: %w", err)
	}
	database.SetMaxOpenConns(1)

	query := `
    CREATE TABLE IF NOT EXISTS evaluation_runs (
        id TEXT PRIMARY KEY,
        data_path TEXT NOT NULL,
        seed INTEGER DEFAULT 0,
        train_size INTEGER NOT NULL,
        test_size INTEGER NOT NULL,
        correct INTEGER NOT NULL,
        incorrect INTEGER NOT NULL,
        sensitivity REAL NOT NULL,
        specificity REAL NOT NULL,
        started_at DATETIME NOT NULL,
        finished_at DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_runs_finished ON evaluation_runs(finished_at);
    `
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, fmt.Errorf("create tables failed: %w", err)
	}
	return &RunStore{db: database}, nil
}

func (s *RunStore) SaveRun(ctx context.Context, run Run) error {
	if s == nil || s.db == nil {
		return errors.New("database not initialized")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO evaluation_runs (
            id, data_path, seed, train_size, test_size, correct, incorrect,
            sensitivity, specificity, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		run.ID,
		run.DataPath,
		run.Seed,
		run.TrainSize,
		run.TestSize,
		run.Correct,
		run.Incorrect,
		run.Sensitivity,
		run.Specificity,
		run.StartedAt,
		run.FinishedAt,
	)
	return err
}

// ListRuns returns the most recent runs first. limit <= 0 returns all of them.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, data_path, seed, train_size, test_size, correct, incorrect,
               sensitivity, specificity, started_at, finished_at
        FROM evaluation_runs
        ORDER BY finished_at DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.DataPath, &r.Seed, &r.TrainSize, &r.TestSize, &r.Correct, &r.Incorrect,
			&r.Sensitivity, &r.Specificity, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *RunStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
