package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/freefly-ai/inkflow/internal/ai"
	"github.com/freefly-ai/inkflow/internal/domain"
	"github.com/freefly-ai/inkflow/internal/telemetry"
)

// ReconcilerService turns freshly written narrative text into
// knowledge-base deltas: Analyze asks the provider for NEW/UPDATE
// suggestions against a digest of the current entries, Commit applies a
// user-approved subset to the Work and persists it once.
type ReconcilerService struct {
	works    WorkRepository
	provider TextProvider
	ids      UUIDGenerator
}

// NewReconcilerService creates a ReconcilerService.
func NewReconcilerService(works WorkRepository, provider TextProvider) *ReconcilerService {
	return &ReconcilerService{
		works:    works,
		provider: provider,
		ids:      &DefaultUUIDGenerator{},
	}
}

// Analyze asks the provider to compare chapter text against the current
// entries and propose suggestions. Empty chapter text is a validation
// error; a provider transport error surfaces as a generic failure; an
// unparseable response yields an empty suggestion list. Nothing is
// written until Commit.
func (s *ReconcilerService) Analyze(ctx context.Context, w *domain.Work, chapterText string) ([]domain.EvolutionSuggestion, error) {
	ctx, span := telemetry.StartSpan(ctx, "reconciler.analyze", telemetry.SpanAttributes{WorkID: w.ID})
	defer span.End()

	if strings.TrimSpace(chapterText) == "" {
		return nil, domain.ErrEmptyChapter
	}

	names := w.CategoryNames()
	digests := make([]ai.EntryDigest, 0, len(w.Entries))
	for _, e := range w.Entries {
		digests = append(digests, ai.EntryDigest{
			ID:           e.ID,
			CategoryName: names[e.CategoryID],
			Title:        e.Title,
			Snippet:      ai.MakeSnippet(e.Content),
		})
	}

	raw, err := s.provider.CompleteStructured(ctx, ai.BuildEvolutionPrompt(chapterText, digests), 0.2)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	var suggestions []domain.EvolutionSuggestion
	if err := json.Unmarshal([]byte(raw), &suggestions); err != nil {
		log.Printf("reconciler: unparseable suggestion response for work %s: %v", w.ID, err)
		return []domain.EvolutionSuggestion{}, nil
	}

	valid := suggestions[:0]
	for _, sug := range suggestions {
		sug = domain.NormalizeSuggestion(sug)
		if sug.Name == "" {
			continue
		}
		valid = append(valid, sug)
	}
	return valid, nil
}

// Commit applies the selected suggestions to the Work in suggestion
// order and persists it once at the end.
//
// UPDATE resolves its target by OriginalEntryID first, then by exact
// title match, and falls through to NEW when neither finds an entry, so
// a suggestion is never silently dropped. NEW resolves its category by the
// entity-type keyword table, creating at most one auto-named category
// per type per commit; later suggestions of the same type reuse it.
func (s *ReconcilerService) Commit(ctx context.Context, w *domain.Work, selected []domain.EvolutionSuggestion) error {
	ctx, span := telemetry.StartSpan(ctx, "reconciler.commit", telemetry.SpanAttributes{WorkID: w.ID})
	defer span.End()

	created := make(map[domain.EntityType]string)

	for _, raw := range selected {
		sug := domain.NormalizeSuggestion(raw)
		if sug.Name == "" {
			continue
		}

		if sug.Kind == domain.SuggestionUpdate {
			if target := s.resolveUpdateTarget(w, sug); target != nil {
				target.Content = sug.Description
				continue
			}
			// No surviving target; apply as NEW below.
		}

		categoryID := s.resolveCategory(w, sug.EntityType, created)
		w.Entries = append(w.Entries, domain.KnowledgeEntry{
			ID:         s.ids.New(),
			CategoryID: categoryID,
			Title:      sug.Name,
			Content:    sug.Description,
		})
	}

	return s.works.SaveWork(ctx, w)
}

// resolveUpdateTarget finds the entry an UPDATE suggestion refers to:
// the OriginalEntryID hint if it still exists, otherwise the first entry
// with the exact same title. Title matching can merge two entities that
// share a name; that ambiguity is accepted.
func (s *ReconcilerService) resolveUpdateTarget(w *domain.Work, sug domain.EvolutionSuggestion) *domain.KnowledgeEntry {
	if sug.OriginalEntryID != "" {
		if entry := w.Entry(sug.OriginalEntryID); entry != nil {
			return entry
		}
	}
	for i := range w.Entries {
		if w.Entries[i].Title == sug.Name {
			return &w.Entries[i]
		}
	}
	return nil
}

// resolveCategory picks the category for a NEW entry: the first existing
// category whose name contains one of the type's keywords, else the
// category auto-created for this type earlier in the same commit, else a
// freshly created auto-named one.
func (s *ReconcilerService) resolveCategory(w *domain.Work, t domain.EntityType, created map[domain.EntityType]string) string {
	keywords := domain.TypeKeywords(t)
	for _, c := range w.Categories {
		lower := strings.ToLower(c.Name)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return c.ID
			}
		}
	}

	if id, ok := created[t]; ok {
		return id
	}

	category := domain.KnowledgeCategory{ID: s.ids.New(), Name: domain.AutoCategoryName(t)}
	w.Categories = append(w.Categories, category)
	created[t] = category.ID
	return category.ID
}
