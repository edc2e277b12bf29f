package client

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/freefly-ai/inkflow/internal/config"
	"github.com/freefly-ai/inkflow/internal/domain"
	"github.com/freefly-ai/inkflow/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := &config.Config{
		StorageMode: "local",
		LocalDBPath: filepath.Join(t.TempDir(), "test.db"),
	}
	e, err := NewEngineWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestEngine_LocalMode(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	w, err := e.Library.CreateWork(ctx, service.CreateWorkInput{Title: "测试"})
	require.NoError(t, err)

	got, err := e.Library.GetWork(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "测试", got.Title)
	assert.Len(t, got.Categories, len(domain.DefaultCategoryNames))
}

func TestEngine_RequireAIWithoutKey(t *testing.T) {
	e := newTestEngine(t)

	err := e.requireAI()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INKFLOW_OPENAI_API_KEY")
}

func TestSelectSuggestions(t *testing.T) {
	all := []domain.EvolutionSuggestion{
		{Name: "a"}, {Name: "b"}, {Name: "c"},
	}

	t.Run("apply takes everything", func(t *testing.T) {
		selected, err := selectSuggestions(all, true, "")
		require.NoError(t, err)
		assert.Len(t, selected, 3)
	})

	t.Run("pick by number", func(t *testing.T) {
		selected, err := selectSuggestions(all, false, "1, 3")
		require.NoError(t, err)
		require.Len(t, selected, 2)
		assert.Equal(t, "a", selected[0].Name)
		assert.Equal(t, "c", selected[1].Name)
	})

	t.Run("nothing selected by default", func(t *testing.T) {
		selected, err := selectSuggestions(all, false, "")
		require.NoError(t, err)
		assert.Empty(t, selected)
	})

	t.Run("out of range rejected", func(t *testing.T) {
		_, err := selectSuggestions(all, false, "4")
		assert.Error(t, err)
	})
}
