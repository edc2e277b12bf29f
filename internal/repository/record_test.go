//go:build integration

package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freefly-ai/inkflow/internal/storage"
	"github.com/freefly-ai/inkflow/internal/testutil"
)

func TestRecordRepository_PutGet(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewRecordRepository(pool)

	rec := storage.Record{ID: "w1", Data: json.RawMessage(`{"title":"星海拾遗"}`), UpdatedAt: 42}
	require.NoError(t, repo.Put(ctx, storage.KindWorks, rec))

	got, err := repo.Get(ctx, storage.KindWorks, "w1")
	require.NoError(t, err)
	assert.Equal(t, "w1", got.ID)
	assert.JSONEq(t, `{"title":"星海拾遗"}`, string(got.Data))
	assert.Equal(t, int64(42), got.UpdatedAt)
}

func TestRecordRepository_GetNotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewRecordRepository(pool)

	_, err := repo.Get(ctx, storage.KindWorks, "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRecordRepository_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewRecordRepository(pool)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Put(ctx, storage.KindPrompts, storage.Record{
			ID: id, Data: json.RawMessage(`{}`), UpdatedAt: int64(i),
		}))
	}
	// Overwriting must not move the record to the end.
	require.NoError(t, repo.Put(ctx, storage.KindPrompts, storage.Record{
		ID: "a", Data: json.RawMessage(`{"v":2}`), UpdatedAt: 99,
	}))

	records, err := repo.List(ctx, storage.KindPrompts)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
	assert.Equal(t, "c", records[2].ID)
	assert.JSONEq(t, `{"v":2}`, string(records[0].Data))
}

func TestRecordRepository_Delete(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewRecordRepository(pool)

	require.NoError(t, repo.Put(ctx, storage.KindStats, storage.Record{
		ID: storage.StatsRecordID, Data: json.RawMessage(`{}`), UpdatedAt: 1,
	}))
	require.NoError(t, repo.Delete(ctx, storage.KindStats, storage.StatsRecordID))
	assert.ErrorIs(t, repo.Delete(ctx, storage.KindStats, storage.StatsRecordID), storage.ErrNotFound)
}

func TestRecordRepository_KindIsolation(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewRecordRepository(pool)

	require.NoError(t, repo.Put(ctx, storage.KindWorks, storage.Record{
		ID: "shared-id", Data: json.RawMessage(`{"kind":"work"}`), UpdatedAt: 1,
	}))
	require.NoError(t, repo.Put(ctx, storage.KindPrompts, storage.Record{
		ID: "shared-id", Data: json.RawMessage(`{"kind":"prompt"}`), UpdatedAt: 1,
	}))

	work, err := repo.Get(ctx, storage.KindWorks, "shared-id")
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"work"}`, string(work.Data))

	prompts, err := repo.List(ctx, storage.KindPrompts)
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.JSONEq(t, `{"kind":"prompt"}`, string(prompts[0].Data))
}
