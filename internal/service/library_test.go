package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freefly-ai/inkflow/internal/domain"
)

func TestCreateWork(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds default categories", func(t *testing.T) {
		lib, _ := newTestLibrary()

		w, err := lib.CreateWork(ctx, CreateWorkInput{Title: "星海拾遗", Genre: "科幻"})

		require.NoError(t, err)
		assert.NotEmpty(t, w.ID)
		assert.Len(t, w.Categories, len(domain.DefaultCategoryNames))
		assert.Equal(t, domain.DefaultCategoryNames[0], w.Categories[0].Name)
		assert.Empty(t, w.Entries)
		assert.Equal(t, domain.CoverGradients[0], w.CoverGradient)
	})

	t.Run("cycles cover gradients", func(t *testing.T) {
		lib, _ := newTestLibrary()

		first, err := lib.CreateWork(ctx, CreateWorkInput{Title: "一"})
		require.NoError(t, err)
		second, err := lib.CreateWork(ctx, CreateWorkInput{Title: "二"})
		require.NoError(t, err)

		assert.Equal(t, domain.CoverGradients[0], first.CoverGradient)
		assert.Equal(t, domain.CoverGradients[1], second.CoverGradient)
	})

	t.Run("rejects missing title", func(t *testing.T) {
		lib, _ := newTestLibrary()

		_, err := lib.CreateWork(ctx, CreateWorkInput{})

		assert.ErrorIs(t, err, domain.ErrMissingWorkTitle)
	})
}

func TestGetWork(t *testing.T) {
	ctx := context.Background()

	t.Run("roundtrips a saved work", func(t *testing.T) {
		lib, _ := newTestLibrary()
		created, err := lib.CreateWork(ctx, CreateWorkInput{Title: "星海拾遗", Description: "遗迹探索"})
		require.NoError(t, err)

		got, err := lib.GetWork(ctx, created.ID)

		require.NoError(t, err)
		assert.Equal(t, created.Title, got.Title)
		assert.Equal(t, created.Description, got.Description)
		assert.Len(t, got.Categories, len(domain.DefaultCategoryNames))
	})

	t.Run("maps missing record to domain error", func(t *testing.T) {
		lib, _ := newTestLibrary()

		_, err := lib.GetWork(ctx, "nope")

		assert.ErrorIs(t, err, domain.ErrWorkNotFound)
	})
}

func TestListWorks(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary()

	_, err := lib.CreateWork(ctx, CreateWorkInput{Title: "一"})
	require.NoError(t, err)
	_, err = lib.CreateWork(ctx, CreateWorkInput{Title: "二"})
	require.NoError(t, err)

	works, err := lib.ListWorks(ctx)

	require.NoError(t, err)
	require.Len(t, works, 2)
	assert.Equal(t, "一", works[0].Title)
	assert.Equal(t, "二", works[1].Title)
}

func TestDeleteWork(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary()

	w, err := lib.CreateWork(ctx, CreateWorkInput{Title: "一"})
	require.NoError(t, err)

	require.NoError(t, lib.DeleteWork(ctx, w.ID))

	_, err = lib.GetWork(ctx, w.ID)
	assert.ErrorIs(t, err, domain.ErrWorkNotFound)
}

func TestPromptTemplates(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds defaults on first empty read", func(t *testing.T) {
		lib, _ := newTestLibrary()

		prompts, err := lib.ListPromptTemplates(ctx)

		require.NoError(t, err)
		require.Len(t, prompts, len(domain.DefaultPromptTemplates))
		for _, p := range prompts {
			assert.NotEmpty(t, p.ID)
			assert.NotZero(t, p.CreatedAt)
		}

		categories, err := lib.ListPromptCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultPromptCategories, categories)
	})

	t.Run("does not reseed once populated", func(t *testing.T) {
		lib, _ := newTestLibrary()

		first, err := lib.ListPromptTemplates(ctx)
		require.NoError(t, err)
		second, err := lib.ListPromptTemplates(ctx)
		require.NoError(t, err)

		assert.Equal(t, len(first), len(second))
	})

	t.Run("rejects untitled prompt", func(t *testing.T) {
		lib, _ := newTestLibrary()

		err := lib.SavePromptTemplate(ctx, &domain.PromptTemplate{Content: "..."})

		var derr *domain.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.ErrCodeValidation, derr.Code)
	})

	t.Run("adding a category twice is a no-op", func(t *testing.T) {
		lib, _ := newTestLibrary()
		_, err := lib.ListPromptTemplates(ctx) // seed
		require.NoError(t, err)

		require.NoError(t, lib.AddPromptCategory(ctx, "番外"))
		require.NoError(t, lib.AddPromptCategory(ctx, "番外"))

		categories, err := lib.ListPromptCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, len(domain.DefaultPromptCategories)+1, len(categories))
	})
}

func TestUsageRecording(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary()

	stats, err := lib.Usage(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalInputTokens)

	lib.Record(ctx, 100, 40)
	lib.Record(ctx, 50, 10)

	stats, err = lib.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(150), stats.TotalInputTokens)
	assert.Equal(t, int64(50), stats.TotalOutputTokens)

	day := stats.DailyStats["2023-11-14"]
	assert.Equal(t, int64(150), day.InputTokens)
	assert.Equal(t, int64(50), day.OutputTokens)
}
