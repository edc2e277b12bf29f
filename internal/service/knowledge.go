package service

import (
	"context"

	"github.com/freefly-ai/inkflow/internal/domain"
	"github.com/freefly-ai/inkflow/internal/telemetry"
)

// KnowledgeService is the typed knowledge-base layer scoped to one Work:
// category and entry CRUD, cascading deletes, and explicit reordering.
// Every structural mutation persists the Work before returning; free-text
// content edits go through the Autosaver instead.
type KnowledgeService struct {
	works WorkRepository
	ids   UUIDGenerator
}

// NewKnowledgeService creates a KnowledgeService.
func NewKnowledgeService(works WorkRepository) *KnowledgeService {
	return &KnowledgeService{works: works, ids: &DefaultUUIDGenerator{}}
}

// EntriesByCategory returns the entries of one category in persisted
// order (insertion/reorder order, not creation order).
func (s *KnowledgeService) EntriesByCategory(w *domain.Work, categoryID string) []domain.KnowledgeEntry {
	var entries []domain.KnowledgeEntry
	for _, e := range w.Entries {
		if e.CategoryID == categoryID {
			entries = append(entries, e)
		}
	}
	return entries
}

// AddCategory appends a category and persists the work.
func (s *KnowledgeService) AddCategory(ctx context.Context, workID, name string) (*domain.KnowledgeCategory, error) {
	if name == "" {
		return nil, domain.ErrMissingCategoryName
	}

	w, err := s.works.GetWork(ctx, workID)
	if err != nil {
		return nil, err
	}

	category := domain.KnowledgeCategory{ID: s.ids.New(), Name: name}
	w.Categories = append(w.Categories, category)

	if err := s.works.SaveWork(ctx, w); err != nil {
		return nil, err
	}
	return &category, nil
}

// RenameCategory renames a category and persists the work.
func (s *KnowledgeService) RenameCategory(ctx context.Context, workID, categoryID, name string) error {
	if name == "" {
		return domain.ErrMissingCategoryName
	}

	w, err := s.works.GetWork(ctx, workID)
	if err != nil {
		return err
	}

	category := w.Category(categoryID)
	if category == nil {
		return domain.ErrCategoryNotFound
	}
	category.Name = name

	return s.works.SaveWork(ctx, w)
}

// DeleteCategory removes a category and cascades to exactly the entries
// that reference it, then persists the work.
func (s *KnowledgeService) DeleteCategory(ctx context.Context, workID, categoryID string) error {
	ctx, span := telemetry.StartSpan(ctx, "knowledge.delete_category", telemetry.SpanAttributes{WorkID: workID})
	defer span.End()

	w, err := s.works.GetWork(ctx, workID)
	if err != nil {
		return err
	}

	if w.Category(categoryID) == nil {
		return domain.ErrCategoryNotFound
	}

	categories := w.Categories[:0]
	for _, c := range w.Categories {
		if c.ID != categoryID {
			categories = append(categories, c)
		}
	}
	w.Categories = categories

	entries := w.Entries[:0]
	for _, e := range w.Entries {
		if e.CategoryID != categoryID {
			entries = append(entries, e)
		}
	}
	w.Entries = entries

	return s.works.SaveWork(ctx, w)
}

// ReorderCategories applies a full permutation of category ids and
// persists the work. The id set must match the current categories.
func (s *KnowledgeService) ReorderCategories(ctx context.Context, workID string, orderedIDs []string) error {
	w, err := s.works.GetWork(ctx, workID)
	if err != nil {
		return err
	}

	reordered, err := reorder(w.Categories, orderedIDs, func(c domain.KnowledgeCategory) string { return c.ID })
	if err != nil {
		return err
	}
	w.Categories = reordered

	return s.works.SaveWork(ctx, w)
}

// ReorderEntries applies a full permutation of entry ids and persists
// the work. The id set must match the current entries.
func (s *KnowledgeService) ReorderEntries(ctx context.Context, workID string, orderedIDs []string) error {
	w, err := s.works.GetWork(ctx, workID)
	if err != nil {
		return err
	}

	reordered, err := reorder(w.Entries, orderedIDs, func(e domain.KnowledgeEntry) string { return e.ID })
	if err != nil {
		return err
	}
	w.Entries = reordered

	return s.works.SaveWork(ctx, w)
}

func reorder[T any](items []T, orderedIDs []string, id func(T) string) ([]T, error) {
	if len(orderedIDs) != len(items) {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "reorder must list every id exactly once")
	}

	byID := make(map[string]T, len(items))
	for _, item := range items {
		byID[id(item)] = item
	}

	result := make([]T, 0, len(items))
	for _, wantID := range orderedIDs {
		item, ok := byID[wantID]
		if !ok {
			return nil, domain.NewDomainError(domain.ErrCodeValidation, "reorder references an unknown id")
		}
		delete(byID, wantID)
		result = append(result, item)
	}
	return result, nil
}

// AddEntry appends an entry under the given category and persists the
// work.
func (s *KnowledgeService) AddEntry(ctx context.Context, workID, categoryID, title, content string) (*domain.KnowledgeEntry, error) {
	if title == "" {
		return nil, domain.ErrMissingEntryTitle
	}

	w, err := s.works.GetWork(ctx, workID)
	if err != nil {
		return nil, err
	}

	if w.Category(categoryID) == nil {
		return nil, domain.ErrCategoryNotFound
	}

	entry := domain.KnowledgeEntry{
		ID:         s.ids.New(),
		CategoryID: categoryID,
		Title:      title,
		Content:    content,
	}
	w.Entries = append(w.Entries, entry)

	if err := s.works.SaveWork(ctx, w); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateEntry overwrites an entry's title and content in place and
// persists the work. Entries are not versioned.
func (s *KnowledgeService) UpdateEntry(ctx context.Context, workID, entryID, title, content string) error {
	if title == "" {
		return domain.ErrMissingEntryTitle
	}

	w, err := s.works.GetWork(ctx, workID)
	if err != nil {
		return err
	}

	entry := w.Entry(entryID)
	if entry == nil {
		return domain.ErrEntryNotFound
	}
	entry.Title = title
	entry.Content = content

	return s.works.SaveWork(ctx, w)
}

// DeleteEntry removes one entry and persists the work.
func (s *KnowledgeService) DeleteEntry(ctx context.Context, workID, entryID string) error {
	w, err := s.works.GetWork(ctx, workID)
	if err != nil {
		return err
	}

	if w.Entry(entryID) == nil {
		return domain.ErrEntryNotFound
	}

	entries := w.Entries[:0]
	for _, e := range w.Entries {
		if e.ID != entryID {
			entries = append(entries, e)
		}
	}
	w.Entries = entries

	return s.works.SaveWork(ctx, w)
}
