package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/freefly-ai/inkflow/internal/domain"
	"github.com/freefly-ai/inkflow/internal/storage"
	"github.com/freefly-ai/inkflow/internal/telemetry"
)

// LibraryService is the typed layer over the record store: works, prompt
// templates, prompt categories, and usage statistics.
type LibraryService struct {
	store storage.Store
	ids   UUIDGenerator
	now   func() int64
}

// NewLibraryService creates a LibraryService over the given store.
func NewLibraryService(store storage.Store) *LibraryService {
	return &LibraryService{
		store: store,
		ids:   &DefaultUUIDGenerator{},
		now:   nowMillis,
	}
}

// CreateWorkInput holds the fields for creating a new work.
type CreateWorkInput struct {
	Title       string
	Description string
	Genre       string
}

// ListWorks returns all works in insertion order.
func (s *LibraryService) ListWorks(ctx context.Context) ([]*domain.Work, error) {
	ctx, span := telemetry.StartSpan(ctx, "library.list_works", telemetry.SpanAttributes{})
	defer span.End()

	records, err := s.store.List(ctx, storage.KindWorks)
	if err != nil {
		return nil, fmt.Errorf("list works: %w", err)
	}

	works := make([]*domain.Work, 0, len(records))
	for _, rec := range records {
		var w domain.Work
		if err := json.Unmarshal(rec.Data, &w); err != nil {
			log.Printf("library: skipping corrupt work record %s: %v", rec.ID, err)
			continue
		}
		works = append(works, &w)
	}
	return works, nil
}

// GetWork retrieves one work by id.
func (s *LibraryService) GetWork(ctx context.Context, id string) (*domain.Work, error) {
	rec, err := s.store.Get(ctx, storage.KindWorks, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrWorkNotFound
		}
		return nil, fmt.Errorf("get work %s: %w", id, err)
	}

	var w domain.Work
	if err := json.Unmarshal(rec.Data, &w); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "work record is corrupt", err)
	}
	return &w, nil
}

// CreateWork creates a work seeded with the default knowledge categories
// and the next cover gradient in the cycle.
func (s *LibraryService) CreateWork(ctx context.Context, input CreateWorkInput) (*domain.Work, error) {
	ctx, span := telemetry.StartSpan(ctx, "library.create_work", telemetry.SpanAttributes{})
	defer span.End()

	if input.Title == "" {
		return nil, domain.ErrMissingWorkTitle
	}

	existing, err := s.store.List(ctx, storage.KindWorks)
	if err != nil {
		return nil, fmt.Errorf("list works: %w", err)
	}

	now := s.now()
	w := &domain.Work{
		ID:            s.ids.New(),
		Title:         input.Title,
		Description:   input.Description,
		Genre:         input.Genre,
		CoverGradient: domain.CoverGradients[len(existing)%len(domain.CoverGradients)],
		CreatedAt:     now,
		UpdatedAt:     now,
		Chapters:      []domain.Chapter{},
		Categories:    make([]domain.KnowledgeCategory, 0, len(domain.DefaultCategoryNames)),
		Entries:       []domain.KnowledgeEntry{},
	}
	for _, name := range domain.DefaultCategoryNames {
		w.Categories = append(w.Categories, domain.KnowledgeCategory{ID: s.ids.New(), Name: name})
	}

	if err := s.SaveWork(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// SaveWork validates and persists a work, refreshing its UpdatedAt.
func (s *LibraryService) SaveWork(ctx context.Context, w *domain.Work) error {
	if err := domain.ValidateWork(w); err != nil {
		return err
	}

	w.UpdatedAt = s.now()
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal work %s: %w", w.ID, err)
	}

	return s.store.Put(ctx, storage.KindWorks, storage.Record{
		ID:        w.ID,
		Data:      data,
		UpdatedAt: w.UpdatedAt,
	})
}

// DeleteWork removes a work and everything it owns.
func (s *LibraryService) DeleteWork(ctx context.Context, id string) error {
	return s.store.Delete(ctx, storage.KindWorks, id)
}

// ListPromptTemplates returns all prompt templates, seeding the defaults
// the first time the library is read and found empty.
func (s *LibraryService) ListPromptTemplates(ctx context.Context) ([]domain.PromptTemplate, error) {
	records, err := s.store.List(ctx, storage.KindPrompts)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}

	if len(records) == 0 {
		return s.seedDefaultPrompts(ctx)
	}

	prompts := make([]domain.PromptTemplate, 0, len(records))
	for _, rec := range records {
		var p domain.PromptTemplate
		if err := json.Unmarshal(rec.Data, &p); err != nil {
			log.Printf("library: skipping corrupt prompt record %s: %v", rec.ID, err)
			continue
		}
		prompts = append(prompts, p)
	}
	return prompts, nil
}

func (s *LibraryService) seedDefaultPrompts(ctx context.Context) ([]domain.PromptTemplate, error) {
	seeded := make([]domain.PromptTemplate, 0, len(domain.DefaultPromptTemplates))
	for _, p := range domain.DefaultPromptTemplates {
		p.ID = s.ids.New()
		p.CreatedAt = s.now()
		if err := s.SavePromptTemplate(ctx, &p); err != nil {
			return nil, err
		}
		seeded = append(seeded, p)
	}
	for _, name := range domain.DefaultPromptCategories {
		if err := s.AddPromptCategory(ctx, name); err != nil {
			return nil, err
		}
	}
	return seeded, nil
}

// SavePromptTemplate persists a prompt template, assigning an id and
// creation time on first save.
func (s *LibraryService) SavePromptTemplate(ctx context.Context, p *domain.PromptTemplate) error {
	if p.Title == "" {
		return domain.NewDomainError(domain.ErrCodeValidation, "prompt title is required")
	}
	if p.ID == "" {
		p.ID = s.ids.New()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = s.now()
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prompt %s: %w", p.ID, err)
	}
	return s.store.Put(ctx, storage.KindPrompts, storage.Record{
		ID:        p.ID,
		Data:      data,
		UpdatedAt: s.now(),
	})
}

// DeletePromptTemplate removes a prompt template.
func (s *LibraryService) DeletePromptTemplate(ctx context.Context, id string) error {
	return s.store.Delete(ctx, storage.KindPrompts, id)
}

// ListPromptCategories returns all prompt category names.
func (s *LibraryService) ListPromptCategories(ctx context.Context) ([]string, error) {
	records, err := s.store.List(ctx, storage.KindPromptCategories)
	if err != nil {
		return nil, fmt.Errorf("list prompt categories: %w", err)
	}

	names := make([]string, 0, len(records))
	for _, rec := range records {
		var name string
		if err := json.Unmarshal(rec.Data, &name); err != nil {
			log.Printf("library: skipping corrupt prompt category record %s: %v", rec.ID, err)
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// AddPromptCategory adds a prompt category name. The name doubles as the
// record id, so adding it twice is a no-op.
func (s *LibraryService) AddPromptCategory(ctx context.Context, name string) error {
	if name == "" {
		return domain.ErrMissingCategoryName
	}
	data, err := json.Marshal(name)
	if err != nil {
		return fmt.Errorf("marshal prompt category: %w", err)
	}
	return s.store.Put(ctx, storage.KindPromptCategories, storage.Record{
		ID:        name,
		Data:      data,
		UpdatedAt: s.now(),
	})
}

// DeletePromptCategory removes a prompt category name.
func (s *LibraryService) DeletePromptCategory(ctx context.Context, name string) error {
	return s.store.Delete(ctx, storage.KindPromptCategories, name)
}

// Usage returns the accumulated token usage statistics. A missing record
// reads as zero usage.
func (s *LibraryService) Usage(ctx context.Context) (*domain.UsageStats, error) {
	rec, err := s.store.Get(ctx, storage.KindStats, storage.StatsRecordID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &domain.UsageStats{}, nil
		}
		return nil, fmt.Errorf("get usage stats: %w", err)
	}

	var stats domain.UsageStats
	if err := json.Unmarshal(rec.Data, &stats); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "usage stats record is corrupt", err)
	}
	return &stats, nil
}

// Record accumulates one provider call's token counts under today's
// date. Best-effort: failures are logged, never surfaced, so stats can
// never break a completion.
func (s *LibraryService) Record(ctx context.Context, inputTokens, outputTokens int64) {
	stats, err := s.Usage(ctx)
	if err != nil {
		log.Printf("library: failed to load usage stats: %v", err)
		return
	}

	day := time.UnixMilli(s.now()).UTC().Format("2006-01-02")
	stats.Add(day, inputTokens, outputTokens)

	data, err := json.Marshal(stats)
	if err != nil {
		log.Printf("library: failed to marshal usage stats: %v", err)
		return
	}
	if err := s.store.Put(ctx, storage.KindStats, storage.Record{
		ID:        storage.StatsRecordID,
		Data:      data,
		UpdatedAt: s.now(),
	}); err != nil {
		log.Printf("library: failed to persist usage stats: %v", err)
	}
}
