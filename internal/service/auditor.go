package service

import (
	"context"
	"strings"

	"github.com/freefly-ai/inkflow/internal/ai"
	"github.com/freefly-ai/inkflow/internal/domain"
	"github.com/freefly-ai/inkflow/internal/telemetry"
)

// auditKeywords is the coarse category filter for consistency checks.
// Deliberately independent of the reconciler's classification table.
var auditKeywords = []string{
	"人物", "角色", "主角", "反派",
	"世界观", "背景", "设定",
	"物品", "金手指",
	"character", "world", "setting", "item",
}

// NoReferenceMessage is returned when no setting entries qualify for an
// audit, without calling the provider.
const NoReferenceMessage = "知识库中没有可用于校对的人物或设定条目,无法进行一致性检查。请先在知识库中补充人物、世界观或物品设定。"

// AuditorService checks generated text against the knowledge base for
// setting contradictions and can produce a corrected draft. It never
// mutates the knowledge base.
type AuditorService struct {
	provider TextProvider
}

// NewAuditorService creates an AuditorService.
func NewAuditorService(provider TextProvider) *AuditorService {
	return &AuditorService{provider: provider}
}

// FilterEntries returns the entries whose category name matches the
// audit keyword filter, in the work's entry order.
func (s *AuditorService) FilterEntries(w *domain.Work) []domain.KnowledgeEntry {
	relevant := make(map[string]struct{})
	for _, c := range w.Categories {
		lower := strings.ToLower(c.Name)
		for _, kw := range auditKeywords {
			if strings.Contains(lower, kw) {
				relevant[c.ID] = struct{}{}
				break
			}
		}
	}

	var entries []domain.KnowledgeEntry
	for _, e := range w.Entries {
		if _, ok := relevant[e.CategoryID]; ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// Audit produces a human-readable consistency report for the text. If no
// setting entries qualify it returns the fixed explanatory message
// without a provider call.
func (s *AuditorService) Audit(ctx context.Context, w *domain.Work, text string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "auditor.audit", telemetry.SpanAttributes{WorkID: w.ID})
	defer span.End()

	entries := s.FilterEntries(w)
	if len(entries) == 0 {
		return NoReferenceMessage, nil
	}

	report, err := s.provider.Complete(ctx, "", ai.BuildConsistencyPrompt(text, s.formatReferences(w, entries)), 0.2)
	if err != nil {
		span.SetError(err)
		return "", err
	}
	return report, nil
}

// Fix rewrites the text to resolve the contradictions a prior report
// flagged. Only the working text changes; the knowledge base does not.
func (s *AuditorService) Fix(ctx context.Context, w *domain.Work, text, report string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "auditor.fix", telemetry.SpanAttributes{WorkID: w.ID})
	defer span.End()

	refs := s.formatReferences(w, s.FilterEntries(w))
	fixed, err := s.provider.Complete(ctx, ai.SystemInstruction, ai.BuildFixPrompt(text, report, refs), 0.5)
	if err != nil {
		span.SetError(err)
		return "", err
	}
	return fixed, nil
}

func (s *AuditorService) formatReferences(w *domain.Work, entries []domain.KnowledgeEntry) []string {
	names := w.CategoryNames()
	refs := make([]string, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, ai.FormatReference(names[e.CategoryID], e.Title, e.Content))
	}
	return refs
}
