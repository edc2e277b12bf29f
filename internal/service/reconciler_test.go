package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freefly-ai/inkflow/internal/domain"
)

func newReconcilerFixture(t *testing.T, provider TextProvider) (*ReconcilerService, *LibraryService, *domain.Work) {
	t.Helper()
	ctx := context.Background()

	lib, _ := newTestLibrary()
	w, err := lib.CreateWork(ctx, CreateWorkInput{Title: "星海拾遗"})
	require.NoError(t, err)

	// Replace the default knowledge categories with a bare 角色-only
	// layout so category resolution is observable.
	w.Categories = []domain.KnowledgeCategory{{ID: "cat-role", Name: "角色"}}
	w.Entries = nil
	require.NoError(t, lib.SaveWork(ctx, w))

	svc := NewReconcilerService(lib, provider)
	svc.ids = &seqIDs{n: 200}
	return svc, lib, w
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty chapter text", func(t *testing.T) {
		svc, _, w := newReconcilerFixture(t, &fakeProvider{})

		_, err := svc.Analyze(ctx, w, "   \n\t")

		assert.ErrorIs(t, err, domain.ErrEmptyChapter)
	})

	t.Run("parses provider suggestions", func(t *testing.T) {
		provider := &fakeProvider{structured: `[
			{"type":"NEW","categoryType":"CHARACTER","name":"Aria","description":"银发剑士","reason":"新登场"},
			{"type":"UPDATE","categoryType":"ITEM","name":"星图残卷","description":"已拼合完整","originalId":"e9"}
		]`}
		svc, _, w := newReconcilerFixture(t, provider)

		suggestions, err := svc.Analyze(ctx, w, "Aria 拔出了剑。")

		require.NoError(t, err)
		require.Len(t, suggestions, 2)
		assert.Equal(t, domain.SuggestionNew, suggestions[0].Kind)
		assert.Equal(t, domain.EntityCharacter, suggestions[0].EntityType)
		assert.Equal(t, "e9", suggestions[1].OriginalEntryID)
	})

	t.Run("normalizes sloppy kinds and types", func(t *testing.T) {
		provider := &fakeProvider{structured: `[
			{"type":"CREATE","categoryType":"PERSON","name":"Aria","description":"剑士"},
			{"type":"NEW","categoryType":"ITEM","name":"  ","description":"无名"}
		]`}
		svc, _, w := newReconcilerFixture(t, provider)

		suggestions, err := svc.Analyze(ctx, w, "正文")

		require.NoError(t, err)
		require.Len(t, suggestions, 1, "nameless suggestions are dropped")
		assert.Equal(t, domain.SuggestionNew, suggestions[0].Kind)
		assert.Equal(t, domain.EntityOther, suggestions[0].EntityType)
	})

	t.Run("malformed response yields empty list", func(t *testing.T) {
		provider := &fakeProvider{structured: `抱歉,我无法完成这个任务`}
		svc, _, w := newReconcilerFixture(t, provider)

		suggestions, err := svc.Analyze(ctx, w, "正文")

		require.NoError(t, err)
		assert.Empty(t, suggestions)
	})

	t.Run("provider failure surfaces", func(t *testing.T) {
		provider := &fakeProvider{structuredErr: errors.New("timeout")}
		svc, _, w := newReconcilerFixture(t, provider)

		_, err := svc.Analyze(ctx, w, "正文")

		assert.Error(t, err)
	})

	t.Run("digests include snippets not full bodies", func(t *testing.T) {
		provider := &fakeProvider{structured: `[]`}
		svc, lib, w := newReconcilerFixture(t, provider)
		w.Entries = []domain.KnowledgeEntry{{ID: "e1", CategoryID: "cat-role", Title: "凌岸", Content: "领航员"}}
		require.NoError(t, lib.SaveWork(ctx, w))

		_, err := svc.Analyze(ctx, w, "正文")

		require.NoError(t, err)
		assert.Contains(t, provider.lastPrompt, "ID: e1")
		assert.Contains(t, provider.lastPrompt, "凌岸")
	})
}

func TestCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("end to end: reuses matching category, auto-creates missing one", func(t *testing.T) {
		svc, lib, w := newReconcilerFixture(t, &fakeProvider{})

		err := svc.Commit(ctx, w, []domain.EvolutionSuggestion{
			{Name: "Aria", Kind: domain.SuggestionNew, EntityType: domain.EntityCharacter, Description: "银发剑士"},
			{Name: "Moonblade", Kind: domain.SuggestionNew, EntityType: domain.EntityItem, Description: "月光铸成的剑"},
		})
		require.NoError(t, err)

		got, err := lib.GetWork(ctx, w.ID)
		require.NoError(t, err)

		require.Len(t, got.Categories, 2, "角色 reused, one item category created")
		assert.Equal(t, "角色", got.Categories[0].Name)
		assert.Equal(t, domain.AutoCategoryName(domain.EntityItem), got.Categories[1].Name)

		require.Len(t, got.Entries, 2)
		assert.Equal(t, "Aria", got.Entries[0].Title)
		assert.Equal(t, got.Categories[0].ID, got.Entries[0].CategoryID)
		assert.Equal(t, "Moonblade", got.Entries[1].Title)
		assert.Equal(t, got.Categories[1].ID, got.Entries[1].CategoryID)
	})

	t.Run("one auto category per type per commit", func(t *testing.T) {
		svc, lib, w := newReconcilerFixture(t, &fakeProvider{})
		w.Categories = nil
		w.Entries = nil
		require.NoError(t, lib.SaveWork(ctx, w))

		err := svc.Commit(ctx, w, []domain.EvolutionSuggestion{
			{Name: "灵息", Kind: domain.SuggestionNew, EntityType: domain.EntityWorld, Description: "能量体系"},
			{Name: "旧都", Kind: domain.SuggestionNew, EntityType: domain.EntityWorld, Description: "废弃的首都"},
			{Name: "碎星带", Kind: domain.SuggestionNew, EntityType: domain.EntityWorld, Description: "航行禁区"},
		})
		require.NoError(t, err)

		got, err := lib.GetWork(ctx, w.ID)
		require.NoError(t, err)
		require.Len(t, got.Categories, 1)
		assert.Equal(t, domain.AutoCategoryName(domain.EntityWorld), got.Categories[0].Name)
		require.Len(t, got.Entries, 3)
		for _, e := range got.Entries {
			assert.Equal(t, got.Categories[0].ID, e.CategoryID)
		}
	})

	t.Run("update by original id is idempotent", func(t *testing.T) {
		svc, lib, w := newReconcilerFixture(t, &fakeProvider{})
		w.Entries = []domain.KnowledgeEntry{{ID: "e1", CategoryID: "cat-role", Title: "凌岸", Content: "领航员"}}
		require.NoError(t, lib.SaveWork(ctx, w))

		update := domain.EvolutionSuggestion{
			Name: "凌岸", Kind: domain.SuggestionUpdate, EntityType: domain.EntityCharacter,
			Description: "领航员,失去了左眼", OriginalEntryID: "e1",
		}

		for i := 0; i < 2; i++ {
			fresh, err := lib.GetWork(ctx, w.ID)
			require.NoError(t, err)
			require.NoError(t, svc.Commit(ctx, fresh, []domain.EvolutionSuggestion{update}))
		}

		got, err := lib.GetWork(ctx, w.ID)
		require.NoError(t, err)
		require.Len(t, got.Entries, 1, "update never duplicates")
		assert.Equal(t, "领航员,失去了左眼", got.Entries[0].Content)
		assert.Equal(t, "cat-role", got.Entries[0].CategoryID, "category unchanged on update")
	})

	t.Run("update with dead original id falls back to title match", func(t *testing.T) {
		svc, lib, w := newReconcilerFixture(t, &fakeProvider{})
		w.Entries = []domain.KnowledgeEntry{{ID: "e2", CategoryID: "cat-role", Title: "凌岸", Content: "领航员"}}
		require.NoError(t, lib.SaveWork(ctx, w))

		err := svc.Commit(ctx, w, []domain.EvolutionSuggestion{{
			Name: "凌岸", Kind: domain.SuggestionUpdate, EntityType: domain.EntityCharacter,
			Description: "新内容", OriginalEntryID: "deleted-id",
		}})
		require.NoError(t, err)

		got, err := lib.GetWork(ctx, w.ID)
		require.NoError(t, err)
		require.Len(t, got.Entries, 1)
		assert.Equal(t, "新内容", got.Entries[0].Content)
	})

	t.Run("update with no target applies as new instead of dropping", func(t *testing.T) {
		svc, lib, w := newReconcilerFixture(t, &fakeProvider{})

		err := svc.Commit(ctx, w, []domain.EvolutionSuggestion{{
			Name: "未知者", Kind: domain.SuggestionUpdate, EntityType: domain.EntityCharacter,
			Description: "从未登场", OriginalEntryID: "deleted-id",
		}})
		require.NoError(t, err)

		got, err := lib.GetWork(ctx, w.ID)
		require.NoError(t, err)
		require.Len(t, got.Entries, 1)
		assert.Equal(t, "未知者", got.Entries[0].Title)
		assert.Equal(t, "cat-role", got.Entries[0].CategoryID, "角色 matches the character keyword table")
	})

	t.Run("persists exactly once per commit", func(t *testing.T) {
		lib, _ := newTestLibrary()
		w, err := lib.CreateWork(context.Background(), CreateWorkInput{Title: "一"})
		require.NoError(t, err)

		repo := &countingRepo{inner: lib}
		svc := NewReconcilerService(repo, &fakeProvider{})
		svc.ids = &seqIDs{}

		err = svc.Commit(ctx, w, []domain.EvolutionSuggestion{
			{Name: "甲", Kind: domain.SuggestionNew, EntityType: domain.EntityOther, Description: "一"},
			{Name: "乙", Kind: domain.SuggestionNew, EntityType: domain.EntityOther, Description: "二"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), repo.saves.Load())
	})
}
