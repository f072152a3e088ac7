// Package runstore persists filter runs in sqlite: one row per run (seed
// and configuration) and one row per time step (estimate summary and
// diagnostics). It exists for offline analysis of simulation batches; the
// filtering recursion never depends on it, and callers are expected to log
// and drop store errors rather than abort a run.
package runstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the run database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			config_json TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS steps (
			run_id TEXT NOT NULL,
			step INTEGER NOT NULL,
			measurement_count INTEGER NOT NULL,
			estimated_count INTEGER NOT NULL,
			true_count INTEGER,
			expected_cardinality DOUBLE NOT NULL,
			mean_pd DOUBLE NOT NULL,
			neff_before DOUBLE NOT NULL,
			neff_after DOUBLE NOT NULL,
			ospa DOUBLE,
			PRIMARY KEY (run_id, step),
			FOREIGN KEY (run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create run store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Run is one persisted filter run.
type Run struct {
	ID         string
	Seed       uint64
	ConfigJSON string
	CreatedAt  time.Time
}

// StepRecord is the persisted per-step summary.
type StepRecord struct {
	Step                int
	MeasurementCount    int
	EstimatedCount      int
	TrueCount           int
	ExpectedCardinality float64
	MeanPD              float64
	NeffBefore          float64
	NeffAfter           float64
	OSPA                float64
}

// CreateRun inserts a run row and returns its generated id.
func (s *Store) CreateRun(seed uint64, configJSON string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		"INSERT INTO runs (run_id, seed, config_json) VALUES (?, ?, ?)",
		id, int64(seed), configJSON)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordStep inserts one step row for the run.
func (s *Store) RecordStep(runID string, rec StepRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO steps (
			run_id, step, measurement_count, estimated_count, true_count,
			expected_cardinality, mean_pd, neff_before, neff_after, ospa
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, rec.Step, rec.MeasurementCount, rec.EstimatedCount, rec.TrueCount,
		rec.ExpectedCardinality, rec.MeanPD, rec.NeffBefore, rec.NeffAfter, rec.OSPA)
	if err != nil {
		return fmt.Errorf("insert step %d: %w", rec.Step, err)
	}
	return nil
}

// Runs lists all runs, most recent first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query("SELECT run_id, seed, config_json, created_at FROM runs ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var seed int64
		if err := rows.Scan(&r.ID, &seed, &r.ConfigJSON, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Seed = uint64(seed)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Steps returns a run's step records in step order.
func (s *Store) Steps(runID string) ([]StepRecord, error) {
	rows, err := s.db.Query(`
		SELECT step, measurement_count, estimated_count, true_count,
		       expected_cardinality, mean_pd, neff_before, neff_after, ospa
		FROM steps WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps for run %q: %w", runID, err)
	}
	defer rows.Close()

	var recs []StepRecord
	for rows.Next() {
		var rec StepRecord
		if err := rows.Scan(&rec.Step, &rec.MeasurementCount, &rec.EstimatedCount,
			&rec.TrueCount, &rec.ExpectedCardinality, &rec.MeanPD,
			&rec.NeffBefore, &rec.NeffAfter, &rec.OSPA); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
