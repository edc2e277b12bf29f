package domain

// Chapter is a single chapter of a Work. Summary, when present, is a
// provider-generated digest used to compress long-range context.
type Chapter struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Summary string `json:"summary,omitempty"`
}

// KnowledgeCategory groups knowledge entries. The name doubles as the
// input to heuristic type classification (see Classify).
type KnowledgeCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// KnowledgeEntry is a single knowledge-base record. Content is overwritten
// in place on update reconciliation; entries are never versioned.
type KnowledgeEntry struct {
	ID         string `json:"id"`
	CategoryID string `json:"categoryId"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

// Work is the root aggregate: one novel with its chapters and knowledge
// base. Category and entry slice order is significant and persisted;
// reordering is a first-class operation.
type Work struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Genre         string              `json:"genre"`
	CoverGradient string              `json:"coverGradient,omitempty"`
	CoverImage    string              `json:"coverImage,omitempty"`
	CreatedAt     int64               `json:"createdAt"`
	UpdatedAt     int64               `json:"updatedAt"`
	Chapters      []Chapter           `json:"chapters"`
	Categories    []KnowledgeCategory `json:"knowledgeCategories"`
	Entries       []KnowledgeEntry    `json:"knowledgeEntries"`
}

// DefaultCategoryNames are the knowledge categories seeded on a new Work.
var DefaultCategoryNames = []string{"大纲", "卷纲", "细纲", "人物", "背景", "物品", "金手指", "世界观", "简介"}

// CoverGradients are the cover styles cycled through for new works.
var CoverGradients = []string{
	"from-blue-400 to-indigo-600",
	"from-emerald-400 to-cyan-600",
	"from-orange-400 to-pink-600",
	"from-purple-400 to-violet-600",
	"from-rose-400 to-red-600",
	"from-amber-400 to-orange-600",
	"from-teal-400 to-emerald-600",
	"from-slate-500 to-slate-800",
}

// Chapter returns the chapter with the given id, or nil.
func (w *Work) Chapter(id string) *Chapter {
	for i := range w.Chapters {
		if w.Chapters[i].ID == id {
			return &w.Chapters[i]
		}
	}
	return nil
}

// Category returns the category with the given id, or nil.
func (w *Work) Category(id string) *KnowledgeCategory {
	for i := range w.Categories {
		if w.Categories[i].ID == id {
			return &w.Categories[i]
		}
	}
	return nil
}

// Entry returns the entry with the given id, or nil.
func (w *Work) Entry(id string) *KnowledgeEntry {
	for i := range w.Entries {
		if w.Entries[i].ID == id {
			return &w.Entries[i]
		}
	}
	return nil
}

// CategoryNames returns a category id → name map.
func (w *Work) CategoryNames() map[string]string {
	names := make(map[string]string, len(w.Categories))
	for _, c := range w.Categories {
		names[c.ID] = c.Name
	}
	return names
}

// ValidateWork validates a Work instance, including the invariant that
// every entry references an existing category.
func ValidateWork(w *Work) error {
	if w == nil {
		return NewDomainError(ErrCodeValidation, "work cannot be nil")
	}
	if w.ID == "" {
		return NewDomainError(ErrCodeValidation, "work ID is required")
	}
	if w.Title == "" {
		return ErrMissingWorkTitle
	}

	categories := make(map[string]struct{}, len(w.Categories))
	for _, c := range w.Categories {
		if c.ID == "" {
			return NewDomainError(ErrCodeValidation, "category ID is required")
		}
		if c.Name == "" {
			return ErrMissingCategoryName
		}
		categories[c.ID] = struct{}{}
	}

	for _, e := range w.Entries {
		if e.ID == "" {
			return NewDomainError(ErrCodeValidation, "entry ID is required")
		}
		if _, ok := categories[e.CategoryID]; !ok {
			return ErrDanglingCategoryRef
		}
	}

	return nil
}
