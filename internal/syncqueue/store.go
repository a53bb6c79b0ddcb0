package syncqueue

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"order_ledger/internal/models"
)

// Entry is one queued draft awaiting server commit.
type Entry struct {
	LocalID    string
	Draft      models.Draft
	Status     string
	RetryCount int
	CreatedAt  time.Time
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusFailed     = "failed"
)

const schema = `
CREATE TABLE IF NOT EXISTS sync_operations (
	local_id    TEXT PRIMARY KEY,
	payload     TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'pending',
	retry_count INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sync_operations_status ON sync_operations(status);
`

// Store persists queue entries in a local sqlite file so drafts survive app
// restarts while the client is offline.
type Store struct {
	db *sql.DB
}

func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sync queue store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize sync queue schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Insert(entry *Entry) error {
	payload, err := json.Marshal(entry.Draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO sync_operations (local_id, payload, status, retry_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		entry.LocalID, string(payload), entry.Status, entry.RetryCount, entry.CreatedAt,
	)
	return err
}

// ListPending returns entries eligible for submission: pending ones plus
// processing ones left over from an interrupted drain.
func (s *Store) ListPending() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT local_id, payload, status, retry_count, created_at
		 FROM sync_operations WHERE status IN (?, ?) ORDER BY created_at ASC`,
		StatusPending, StatusProcessing,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListFailed returns permanently failed entries for human review.
func (s *Store) ListFailed() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT local_id, payload, status, retry_count, created_at
		 FROM sync_operations WHERE status = ? ORDER BY created_at ASC`,
		StatusFailed,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var payload string
		if err := rows.Scan(&e.LocalID, &payload, &e.Status, &e.RetryCount, &e.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payload), &e.Draft); err != nil {
			return nil, fmt.Errorf("corrupt draft payload for %s: %w", e.LocalID, err)
		}
		e.Draft.LocalID = e.LocalID
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) MarkProcessing(localID string) error {
	_, err := s.db.Exec(`UPDATE sync_operations SET status = ? WHERE local_id = ?`, StatusProcessing, localID)
	return err
}

func (s *Store) Delete(localID string) error {
	_, err := s.db.Exec(`DELETE FROM sync_operations WHERE local_id = ?`, localID)
	return err
}

// RecordFailure bumps the retry count, marking the entry permanently failed
// once it reaches maxRetries.
func (s *Store) RecordFailure(localID string, maxRetries int) error {
	_, err := s.db.Exec(
		`UPDATE sync_operations
		 SET retry_count = retry_count + 1,
		     status = CASE WHEN retry_count + 1 >= ? THEN ? ELSE ? END
		 WHERE local_id = ?`,
		maxRetries, StatusFailed, StatusPending, localID,
	)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
