package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/freefly-ai/inkflow/internal/domain"
	"github.com/freefly-ai/inkflow/internal/storage"
	"github.com/freefly-ai/inkflow/internal/telemetry"
)

// Uploader pushes an exported backup envelope to object storage.
// *storage.S3Client satisfies it.
type Uploader interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
}

// BackupService exports and restores the full library as a single JSON
// envelope, optionally uploading exports to object storage.
type BackupService struct {
	library  *LibraryService
	uploader Uploader
	now      func() int64
}

// NewBackupService creates a BackupService. uploader may be nil when no
// object storage is configured.
func NewBackupService(library *LibraryService, uploader Uploader) *BackupService {
	return &BackupService{library: library, uploader: uploader, now: nowMillis}
}

// Export collects every record kind into a backup envelope.
func (s *BackupService) Export(ctx context.Context) (*domain.Backup, error) {
	ctx, span := telemetry.StartSpan(ctx, "backup.export", telemetry.SpanAttributes{})
	defer span.End()

	works, err := s.library.ListWorks(ctx)
	if err != nil {
		return nil, err
	}
	prompts, err := s.library.ListPromptTemplates(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.library.ListPromptCategories(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.library.Usage(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.Backup{
		Version:          domain.BackupVersion,
		Timestamp:        s.now(),
		Works:            works,
		PromptTemplates:  prompts,
		PromptCategories: categories,
		UsageStats:       stats,
	}, nil
}

// Restore applies a backup envelope additively: each record in the file
// replaces the stored record with the same id, records absent from the
// file are untouched.
func (s *BackupService) Restore(ctx context.Context, b *domain.Backup) error {
	ctx, span := telemetry.StartSpan(ctx, "backup.restore", telemetry.SpanAttributes{})
	defer span.End()

	if b == nil || b.Empty() {
		return domain.ErrInvalidBackup
	}
	if b.Version > domain.BackupVersion {
		return domain.NewDomainError(domain.ErrCodeValidation,
			fmt.Sprintf("backup version %d is newer than supported version %d", b.Version, domain.BackupVersion))
	}

	for _, w := range b.Works {
		if err := s.library.SaveWork(ctx, w); err != nil {
			return fmt.Errorf("restore work %s: %w", w.ID, err)
		}
	}
	for _, p := range b.PromptTemplates {
		p := p
		if err := s.library.SavePromptTemplate(ctx, &p); err != nil {
			return fmt.Errorf("restore prompt %s: %w", p.ID, err)
		}
	}
	for _, name := range b.PromptCategories {
		if err := s.library.AddPromptCategory(ctx, name); err != nil {
			return fmt.Errorf("restore prompt category %s: %w", name, err)
		}
	}
	if b.UsageStats != nil {
		data, err := json.Marshal(b.UsageStats)
		if err != nil {
			return fmt.Errorf("marshal usage stats: %w", err)
		}
		if err := s.library.store.Put(ctx, storage.KindStats, storage.Record{
			ID:        storage.StatsRecordID,
			Data:      data,
			UpdatedAt: s.now(),
		}); err != nil {
			return fmt.Errorf("restore usage stats: %w", err)
		}
	}
	return nil
}

// Upload exports the library and pushes the envelope to object storage.
// Returns the object key.
func (s *BackupService) Upload(ctx context.Context) (string, error) {
	if s.uploader == nil {
		return "", domain.NewDomainError(domain.ErrCodeInvalidOperation, "object storage is not configured")
	}

	b, err := s.Export(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal backup: %w", err)
	}

	key := fmt.Sprintf("backups/inkflow-%s.json", time.UnixMilli(b.Timestamp).UTC().Format("20060102-150405"))
	if err := s.uploader.PutObject(ctx, key, data, "application/json"); err != nil {
		return "", err
	}
	return key, nil
}
