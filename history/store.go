// Package history persists analysis verdicts in a local SQLite database so the
// front end can show past scans and exports can replay them.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"linksafety/verdict"
)

// Store is a scan-history log backed by SQLite.
type Store struct {
	db *sql.DB
}

// Record is one stored scan. Verdict is the canonical serialized form parsed
// back verbatim.
type Record struct {
	ID              string               `json:"id"`
	URL             string               `json:"url"`
	Classification  verdict.Class        `json:"classification"`
	TotalScore      int                  `json:"total_score"`
	LookupAvailable bool                 `json:"lookup_available"`
	Verdict         verdict.FinalVerdict `json:"verdict"`
	CreatedAt       time.Time            `json:"created_at"`
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history: db path is empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: mkdir db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS scans (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			classification TEXT NOT NULL,
			total_score INTEGER NOT NULL,
			lookup_available INTEGER NOT NULL,
			verdict_json TEXT NOT NULL,
			created_at_ns INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scans_created ON scans(created_at_ns DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("history: migrate: %w", err)
		}
	}
	return nil
}

// Save appends one verdict and returns the generated record id.
func (s *Store) Save(ctx context.Context, v verdict.FinalVerdict) (string, error) {
	payload, err := v.Serialize()
	if err != nil {
		return "", fmt.Errorf("history: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scans (id, url, classification, total_score, lookup_available, verdict_json, created_at_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, v.URL, string(v.Classification), v.RiskBreakdown.TotalScore,
		boolToInt(v.LookupAvailable), string(payload), time.Now().UTC().UnixNano())
	if err != nil {
		return "", fmt.Errorf("history: insert scan: %w", err)
	}
	return id, nil
}

// Recent returns up to limit scans, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, classification, total_score, lookup_available, verdict_json, created_at_ns
		 FROM scans ORDER BY created_at_ns DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query scans: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec       Record
			class     string
			available int
			payload   string
			createdNS int64
		)
		if err := rows.Scan(&rec.ID, &rec.URL, &class, &rec.TotalScore, &available, &payload, &createdNS); err != nil {
			return nil, fmt.Errorf("history: scan row: %w", err)
		}
		rec.Classification = verdict.Class(class)
		rec.LookupAvailable = available != 0
		rec.CreatedAt = time.Unix(0, createdNS).UTC()
		if rec.Verdict, err = verdict.ParseVerdict([]byte(payload)); err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
