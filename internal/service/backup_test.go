package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freefly-ai/inkflow/internal/domain"
)

type capturedUpload struct {
	key         string
	body        []byte
	contentType string
	calls       int
}

func (u *capturedUpload) PutObject(_ context.Context, key string, body []byte, contentType string) error {
	u.key = key
	u.body = body
	u.contentType = contentType
	u.calls++
	return nil
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary()
	svc := NewBackupService(lib, nil)

	_, err := lib.CreateWork(ctx, CreateWorkInput{Title: "星海拾遗"})
	require.NoError(t, err)
	_, err = lib.ListPromptTemplates(ctx) // seed defaults
	require.NoError(t, err)
	lib.Record(ctx, 100, 40)

	b, err := svc.Export(ctx)

	require.NoError(t, err)
	assert.Equal(t, domain.BackupVersion, b.Version)
	assert.NotZero(t, b.Timestamp)
	require.Len(t, b.Works, 1)
	assert.Len(t, b.PromptTemplates, len(domain.DefaultPromptTemplates))
	assert.Equal(t, domain.DefaultPromptCategories, b.PromptCategories)
	require.NotNil(t, b.UsageStats)
	assert.Equal(t, int64(100), b.UsageStats.TotalInputTokens)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty envelope", func(t *testing.T) {
		lib, _ := newTestLibrary()
		svc := NewBackupService(lib, nil)

		assert.ErrorIs(t, svc.Restore(ctx, &domain.Backup{Version: domain.BackupVersion}), domain.ErrInvalidBackup)
		assert.ErrorIs(t, svc.Restore(ctx, nil), domain.ErrInvalidBackup)
	})

	t.Run("rejects newer versions", func(t *testing.T) {
		lib, _ := newTestLibrary()
		svc := NewBackupService(lib, nil)

		err := svc.Restore(ctx, &domain.Backup{
			Version: domain.BackupVersion + 1,
			Works:   []*domain.Work{{ID: "w1", Title: "一"}},
		})

		assert.Error(t, err)
	})

	t.Run("is additive and overwriting per id", func(t *testing.T) {
		lib, _ := newTestLibrary()
		svc := NewBackupService(lib, nil)

		existing, err := lib.CreateWork(ctx, CreateWorkInput{Title: "留下的"})
		require.NoError(t, err)
		overwritten, err := lib.CreateWork(ctx, CreateWorkInput{Title: "旧标题"})
		require.NoError(t, err)

		err = svc.Restore(ctx, &domain.Backup{
			Version: domain.BackupVersion,
			Works: []*domain.Work{
				{ID: overwritten.ID, Title: "新标题"},
				{ID: "imported", Title: "带来的"},
			},
		})
		require.NoError(t, err)

		works, err := lib.ListWorks(ctx)
		require.NoError(t, err)
		require.Len(t, works, 3)

		kept, err := lib.GetWork(ctx, existing.ID)
		require.NoError(t, err)
		assert.Equal(t, "留下的", kept.Title, "records absent from the file are untouched")

		replaced, err := lib.GetWork(ctx, overwritten.ID)
		require.NoError(t, err)
		assert.Equal(t, "新标题", replaced.Title)
	})

	t.Run("roundtrips through export", func(t *testing.T) {
		srcLib, _ := newTestLibrary()
		src := NewBackupService(srcLib, nil)
		_, err := srcLib.CreateWork(ctx, CreateWorkInput{Title: "星海拾遗"})
		require.NoError(t, err)
		srcLib.Record(ctx, 10, 5)

		b, err := src.Export(ctx)
		require.NoError(t, err)

		dstLib, _ := newTestLibrary()
		dst := NewBackupService(dstLib, nil)
		require.NoError(t, dst.Restore(ctx, b))

		works, err := dstLib.ListWorks(ctx)
		require.NoError(t, err)
		require.Len(t, works, 1)
		assert.Equal(t, "星海拾遗", works[0].Title)

		stats, err := dstLib.Usage(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(10), stats.TotalInputTokens)
	})
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("requires configured object storage", func(t *testing.T) {
		lib, _ := newTestLibrary()
		svc := NewBackupService(lib, nil)

		_, err := svc.Upload(ctx)

		var derr *domain.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.ErrCodeInvalidOperation, derr.Code)
	})

	t.Run("uploads the exported envelope", func(t *testing.T) {
		lib, _ := newTestLibrary()
		uploader := &capturedUpload{}
		svc := NewBackupService(lib, uploader)
		_, err := lib.CreateWork(ctx, CreateWorkInput{Title: "星海拾遗"})
		require.NoError(t, err)

		key, err := svc.Upload(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, uploader.calls)
		assert.Equal(t, key, uploader.key)
		assert.Contains(t, key, "backups/inkflow-")
		assert.Equal(t, "application/json", uploader.contentType)

		var b domain.Backup
		require.NoError(t, json.Unmarshal(uploader.body, &b))
		require.Len(t, b.Works, 1)
	})
}
