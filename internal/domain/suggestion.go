package domain

import "strings"

// SuggestionKind says whether a suggestion creates a new entry or updates
// an existing one.
type SuggestionKind string

const (
	SuggestionNew    SuggestionKind = "NEW"
	SuggestionUpdate SuggestionKind = "UPDATE"
)

// EntityType is the coarse semantic type the provider assigns to a
// suggested entity. It drives category resolution on commit.
type EntityType string

const (
	EntityCharacter EntityType = "CHARACTER"
	EntityWorld     EntityType = "WORLD"
	EntityItem      EntityType = "ITEM"
	EntityOther     EntityType = "OTHER"
)

// EvolutionSuggestion is one AI-proposed knowledge-base delta. It lives
// for a single reconciliation round and is never persisted.
type EvolutionSuggestion struct {
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Kind            SuggestionKind `json:"type"`
	EntityType      EntityType     `json:"categoryType"`
	Reason          string         `json:"reason"`
	OriginalEntryID string         `json:"originalId,omitempty"`
}

// RetrievalIndexItem is a minimized projection of a KnowledgeEntry used
// to ask the provider which entries are relevant. Content is deliberately
// omitted to keep the request small.
type RetrievalIndexItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	CategoryName string `json:"categoryName"`
}

// classifyKeywords maps each entity type to the category-name substrings
// that identify it. Checked in declaration order; OTHER is the catch-all.
var classifyKeywords = []struct {
	Type     EntityType
	Keywords []string
}{
	{EntityCharacter, []string{"人物", "角色", "character", "person"}},
	{EntityWorld, []string{"世界", "地点", "背景", "势力", "world", "location"}},
	{EntityItem, []string{"物品", "道具", "金手指", "武器", "item", "artifact"}},
	{EntityOther, []string{"其他", "杂项", "设定", "other"}},
}

// autoCategoryNames are the deterministic names used when a commit has to
// create a category for a type.
var autoCategoryNames = map[EntityType]string{
	EntityCharacter: "人物档案 (AI)",
	EntityWorld:     "世界观设定 (AI)",
	EntityItem:      "物品与金手指 (AI)",
	EntityOther:     "其他设定 (AI)",
}

// Classify maps a category name to an entity type by keyword matching.
// Unrecognized names classify as OTHER.
func Classify(name string) EntityType {
	lower := strings.ToLower(name)
	for _, group := range classifyKeywords {
		for _, kw := range group.Keywords {
			if strings.Contains(lower, kw) {
				return group.Type
			}
		}
	}
	return EntityOther
}

// TypeKeywords returns the keyword list for an entity type.
func TypeKeywords(t EntityType) []string {
	for _, group := range classifyKeywords {
		if group.Type == t {
			return group.Keywords
		}
	}
	return nil
}

// AutoCategoryName returns the deterministic name for an auto-created
// category of the given type.
func AutoCategoryName(t EntityType) string {
	if name, ok := autoCategoryNames[t]; ok {
		return name
	}
	return autoCategoryNames[EntityOther]
}

// NormalizeSuggestion coerces loosely-typed provider output into a valid
// suggestion. Unknown kinds become NEW and unknown entity types become
// OTHER, so a sloppy provider response still commits deterministically.
func NormalizeSuggestion(s EvolutionSuggestion) EvolutionSuggestion {
	switch s.Kind {
	case SuggestionNew, SuggestionUpdate:
	default:
		s.Kind = SuggestionNew
	}
	switch s.EntityType {
	case EntityCharacter, EntityWorld, EntityItem, EntityOther:
	default:
		s.EntityType = EntityOther
	}
	s.Name = strings.TrimSpace(s.Name)
	return s
}
