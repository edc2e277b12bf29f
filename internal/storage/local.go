package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// localSchema keeps every kind in one table so the store stays uniform.
// ON CONFLICT updates preserve rowid, which is what List orders by, so
// record order is insertion order rather than last-write order.
const localSchema = `
CREATE TABLE IF NOT EXISTS records (
    kind TEXT NOT NULL,
    id TEXT NOT NULL,
    data TEXT NOT NULL,
    updated_at INTEGER NOT NULL,
    PRIMARY KEY (kind, id)
);
`

// LocalStore is the device-scoped durable store, backed by SQLite.
type LocalStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewLocalStore opens (or creates) the store at the given path.
// Use ":memory:" for an ephemeral store in tests.
func NewLocalStore(path string) (*LocalStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	if _, err := db.Exec(localSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create local schema: %w", err)
	}

	return &LocalStore{db: db}, nil
}

// Close closes the underlying database.
func (s *LocalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// List returns all records of a kind in insertion order.
func (s *LocalStore) List(ctx context.Context, kind Kind) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data, updated_at FROM records WHERE kind = ? ORDER BY rowid`,
		string(kind),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var data string
		if err := rows.Scan(&rec.ID, &data, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.Data = []byte(data)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get returns one record, or ErrNotFound.
func (s *LocalStore) Get(ctx context.Context, kind Kind, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec Record
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, data, updated_at FROM records WHERE kind = ? AND id = ?`,
		string(kind), id,
	).Scan(&rec.ID, &data, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec.Data = []byte(data)
	return &rec, nil
}

// Put inserts or overwrites a record.
func (s *LocalStore) Put(ctx context.Context, kind Kind, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updatedAt := rec.UpdatedAt
	if updatedAt == 0 {
		updatedAt = time.Now().UnixMilli()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (kind, id, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (kind, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(kind), rec.ID, string(rec.Data), updatedAt,
	)
	return err
}

// Delete removes a record. Deleting an absent record is a no-op.
func (s *LocalStore) Delete(ctx context.Context, kind Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE kind = ? AND id = ?`,
		string(kind), id,
	)
	return err
}
