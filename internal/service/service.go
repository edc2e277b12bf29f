// Package service implements the engine on top of the storage and
// provider layers: the work library, knowledge store, context retrieval
// selector, evolution reconciler, consistency auditor, writing
// assistant, and backup.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/freefly-ai/inkflow/internal/domain"
)

// TextProvider is the slice of the completion client the services need.
// *ai.Client satisfies it; tests use fakes.
type TextProvider interface {
	Complete(ctx context.Context, system, prompt string, temperature float32) (string, error)
	CompleteStream(ctx context.Context, system, prompt string, temperature float32, sink func(chunk string)) (string, error)
	CompleteStructured(ctx context.Context, prompt string, temperature float32) (string, error)
}

// WorkRepository is the slice of the library the work-scoped services
// need. *LibraryService satisfies it.
type WorkRepository interface {
	GetWork(ctx context.Context, id string) (*domain.Work, error)
	SaveWork(ctx context.Context, w *domain.Work) error
}

// UUIDGenerator generates unique identifiers
type UUIDGenerator interface {
	New() string
}

// DefaultUUIDGenerator uses google/uuid to generate UUIDs
type DefaultUUIDGenerator struct{}

// New generates a new UUID string
func (g *DefaultUUIDGenerator) New() string {
	return uuid.New().String()
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
