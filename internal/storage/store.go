// Package storage provides the dual-backend persistence layer: a local
// SQLite store, a remote HTTP store, and a composition of the two that
// prefers remote and degrades to the local cache when remote is down.
package storage

import (
	"context"
	"encoding/json"
	"errors"
)

// Kind identifies a record collection. Kinds double as REST resource
// names on the remote service.
type Kind string

const (
	KindWorks            Kind = "works"
	KindPrompts          Kind = "prompts"
	KindPromptCategories Kind = "prompt-categories"
	KindStats            Kind = "stats"
)

// Kinds lists every record kind, in backup-envelope order.
var Kinds = []Kind{KindWorks, KindPrompts, KindPromptCategories, KindStats}

// StatsRecordID is the fixed id of the single global usage-stats record.
const StatsRecordID = "global"

// Record is an opaque stored document. Data holds the entity's canonical
// JSON; the store never inspects it.
type Record struct {
	ID        string          `json:"id"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt int64           `json:"updatedAt"`
}

// ErrNotFound is returned when a record does not exist in the store.
var ErrNotFound = errors.New("storage: record not found")

// Store is the uniform persistence contract shared by the local and
// remote backends. List returns records in insertion order.
type Store interface {
	List(ctx context.Context, kind Kind) ([]Record, error)
	Get(ctx context.Context, kind Kind, id string) (*Record, error)
	Put(ctx context.Context, kind Kind, rec Record) error
	Delete(ctx context.Context, kind Kind, id string) error
}
