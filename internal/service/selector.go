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

// outlinePrefixLen bounds how many runes of extracted outline text go
// into the smart-selection request.
const outlinePrefixLen = 2000

// outlineKeywords identify categories whose entries serve as the work's
// outline for smart selection.
var outlineKeywords = []string{"大纲", "卷纲", "细纲", "outline"}

// SelectorService decides which knowledge entries to inject as
// generation context, either from an explicit user selection or by
// asking the provider which entries matter for the instruction.
type SelectorService struct {
	provider TextProvider
}

// NewSelectorService creates a SelectorService.
func NewSelectorService(provider TextProvider) *SelectorService {
	return &SelectorService{provider: provider}
}

// Selection is the selector's output: formatted reference strings ready
// for prompt assembly, plus a character-count budget estimate shown to
// the user. The estimate is informational; nothing enforces a limit.
type Selection struct {
	EntryIDs   []string
	References []string
	CharCount  int
}

// ManualSelect builds references for an explicit set of entry ids.
// Unknown ids are silently skipped; order follows the work's entry order.
func (s *SelectorService) ManualSelect(w *domain.Work, entryIDs []string) Selection {
	return s.buildSelection(w, entryIDs)
}

// SmartSelect asks the provider which entries are relevant to the
// instruction, using only an id/title/category index plus the work's
// title, description, and a bounded outline prefix. Any provider or
// parse failure degrades to the empty selection; generation proceeds
// without references rather than failing.
func (s *SelectorService) SmartSelect(ctx context.Context, w *domain.Work, instruction string) Selection {
	ctx, span := telemetry.StartSpan(ctx, "selector.smart_select", telemetry.SpanAttributes{WorkID: w.ID})
	defer span.End()

	if len(w.Entries) == 0 {
		return Selection{}
	}

	names := w.CategoryNames()
	index := make([]domain.RetrievalIndexItem, 0, len(w.Entries))
	for _, e := range w.Entries {
		index = append(index, domain.RetrievalIndexItem{
			ID:           e.ID,
			Title:        e.Title,
			CategoryName: names[e.CategoryID],
		})
	}

	prompt := ai.BuildRetrievalPrompt(ai.RetrievalParams{
		Title:       w.Title,
		Description: w.Description,
		Outline:     s.extractOutline(w),
		Instruction: instruction,
		Index:       index,
	})

	raw, err := s.provider.CompleteStructured(ctx, prompt, 0.2)
	if err != nil {
		log.Printf("selector: smart selection failed for work %s: %v", w.ID, err)
		return Selection{}
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.Printf("selector: unparseable smart selection response for work %s: %v", w.ID, err)
		return Selection{}
	}

	return s.buildSelection(w, ids)
}

// buildSelection filters ids by set membership against the real entries
// and formats the survivors in the work's entry order.
func (s *SelectorService) buildSelection(w *domain.Work, entryIDs []string) Selection {
	wanted := make(map[string]struct{}, len(entryIDs))
	for _, id := range entryIDs {
		wanted[id] = struct{}{}
	}

	names := w.CategoryNames()
	sel := Selection{}
	for _, e := range w.Entries {
		if _, ok := wanted[e.ID]; !ok {
			continue
		}
		sel.EntryIDs = append(sel.EntryIDs, e.ID)
		sel.References = append(sel.References, ai.FormatReference(names[e.CategoryID], e.Title, e.Content))
		sel.CharCount += len([]rune(e.Content))
	}
	return sel
}

// extractOutline concatenates entries from outline-named categories,
// truncated to a bounded prefix.
func (s *SelectorService) extractOutline(w *domain.Work) string {
	outlineCategories := make(map[string]struct{})
	for _, c := range w.Categories {
		lower := strings.ToLower(c.Name)
		for _, kw := range outlineKeywords {
			if strings.Contains(lower, kw) {
				outlineCategories[c.ID] = struct{}{}
				break
			}
		}
	}
	if len(outlineCategories) == 0 {
		return ""
	}

	var b strings.Builder
	for _, e := range w.Entries {
		if _, ok := outlineCategories[e.CategoryID]; !ok {
			continue
		}
		b.WriteString(e.Title)
		b.WriteString("\n")
		b.WriteString(e.Content)
		b.WriteString("\n\n")
	}

	runes := []rune(strings.TrimSpace(b.String()))
	if len(runes) > outlinePrefixLen {
		runes = runes[:outlinePrefixLen]
	}
	return string(runes)
}
