// Package repository holds the server-side persistence for the remote
// sync service: JSON-blob record tables over pgx.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freefly-ai/inkflow/internal/storage"
)

// kindTables maps record kinds to their tables. Kinds are a closed set,
// so table names never come from request input.
var kindTables = map[storage.Kind]string{
	storage.KindWorks:            "works",
	storage.KindPrompts:          "prompts",
	storage.KindPromptCategories: "prompt_categories",
	storage.KindStats:            "stats",
}

// RecordRepository stores opaque JSON records per kind. It implements
// storage.Store, so the server handlers and the client share one
// contract.
type RecordRepository struct {
	pool *pgxpool.Pool
}

func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

func tableFor(kind storage.Kind) (string, error) {
	table, ok := kindTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown record kind %q", kind)
	}
	return table, nil
}

// List returns all records of a kind in insertion order.
func (r *RecordRepository) List(ctx context.Context, kind storage.Kind) ([]storage.Record, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT id, data, updated_at FROM %s ORDER BY seq`, table),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []storage.Record
	for rows.Next() {
		var rec storage.Record
		var data []byte
		if err := rows.Scan(&rec.ID, &data, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.Data = json.RawMessage(data)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *RecordRepository) Get(ctx context.Context, kind storage.Kind, id string) (*storage.Record, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var rec storage.Record
	var data []byte
	err = r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT id, data, updated_at FROM %s WHERE id = $1`, table),
		id,
	).Scan(&rec.ID, &data, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	rec.Data = json.RawMessage(data)
	return &rec, nil
}

// Put inserts or overwrites a record. The seq column is assigned on
// first insert only, so List keeps insertion order across overwrites.
func (r *RecordRepository) Put(ctx context.Context, kind storage.Kind, rec storage.Record) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, data, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`, table),
		rec.ID, []byte(rec.Data), rec.UpdatedAt,
	)
	return err
}

func (r *RecordRepository) Delete(ctx context.Context, kind storage.Kind, id string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	cmdTag, err := r.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table),
		id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
