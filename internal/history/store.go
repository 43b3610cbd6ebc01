// Package history provides persistent storage of finished experiment runs.
//
// Each completed run is recorded once: its parameters, seed, final per-slot
// distribution and weighted average. Only results are stored, never
// in-progress simulation state.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Run is one recorded experiment.
type Run struct {
	ID         int64     `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	SlotCount  int       `json:"slot_count"`
	BeanCount  int       `json:"bean_count"`
	Mode       string    `json:"mode"`
	Seed       int64     `json:"seed"`
	SlotCounts []int     `json:"slot_counts"`
	Average    float64   `json:"average"`
}

// Store persists runs in a SQLite database under dir/history.db.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TEXT NOT NULL,
    slot_count INTEGER NOT NULL,
    bean_count INTEGER NOT NULL,
    mode TEXT NOT NULL,
    seed INTEGER NOT NULL,
    slot_counts TEXT NOT NULL,
    average REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// NewStore opens (creating if needed) the history database in dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, "history.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// SaveRun records a finished run and returns its id.
func (s *Store) SaveRun(ctx context.Context, run Run) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts, err := json.Marshal(run.SlotCounts)
	if err != nil {
		return 0, fmt.Errorf("encoding slot counts: %w", err)
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (created_at, slot_count, bean_count, mode, seed, slot_counts, average)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		createdAt.UTC().Format(time.RFC3339Nano),
		run.SlotCount, run.BeanCount, run.Mode, run.Seed, string(counts), run.Average,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first. A limit of 0 returns
// all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		SELECT id, created_at, slot_count, bean_count, mode, seed, slot_counts, average
		FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given id, or nil if it does not exist.
func (s *Store) GetRun(ctx context.Context, id int64) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, slot_count, bean_count, mode, seed, slot_counts, average
		FROM runs WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("querying run %d: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	run, err := scanRun(rows)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var createdAt, counts string
	if err := rows.Scan(&run.ID, &createdAt, &run.SlotCount, &run.BeanCount,
		&run.Mode, &run.Seed, &counts, &run.Average); err != nil {
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parsing run timestamp: %w", err)
	}
	run.CreatedAt = t

	if err := json.Unmarshal([]byte(counts), &run.SlotCounts); err != nil {
		return Run{}, fmt.Errorf("decoding slot counts: %w", err)
	}
	return run, nil
}
