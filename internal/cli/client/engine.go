// Package client implements the inkflow end-user CLI commands.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/freefly-ai/inkflow/internal/ai"
	"github.com/freefly-ai/inkflow/internal/config"
	"github.com/freefly-ai/inkflow/internal/service"
	"github.com/freefly-ai/inkflow/internal/storage"
)

// Engine bundles the configured storage backend, the provider client and
// the services behind every CLI command. Commands that talk to the AI
// provider must call requireAI first; the rest work offline.
type Engine struct {
	Config     *config.Config
	Store      storage.Store
	Library    *service.LibraryService
	Knowledge  *service.KnowledgeService
	Selector   *service.SelectorService
	Reconciler *service.ReconcilerService
	Auditor    *service.AuditorService
	Writer     *service.WriterService
	Backup     *service.BackupService

	provider service.TextProvider
	closers  []func() error
}

// NewEngine loads the environment configuration and wires the full
// service graph over it.
func NewEngine(ctx context.Context) (*Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewEngineWithConfig(ctx, cfg)
}

// NewEngineWithConfig wires the service graph for an explicit config.
// In remote mode the local database doubles as the fallback cache.
func NewEngineWithConfig(ctx context.Context, cfg *config.Config) (*Engine, error) {
	e := &Engine{Config: cfg}

	local, err := storage.NewLocalStore(cfg.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database %s: %w", cfg.LocalDBPath, err)
	}
	e.closers = append(e.closers, local.Close)

	if cfg.IsRemote() {
		e.Store = storage.NewFallbackStore(storage.NewRemoteStore(cfg.RemoteURL), local)
	} else {
		e.Store = local
	}

	e.Library = service.NewLibraryService(e.Store)

	if cfg.HasOpenAI() {
		provider, err := ai.NewClientWithConfig(ai.Config{
			APIKey:   cfg.OpenAIAPIKey,
			BaseURL:  cfg.OpenAIBaseURL,
			Model:    cfg.OpenAIModel,
			Recorder: e.Library,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create provider client: %w", err)
		}
		e.provider = provider
	}

	var uploader service.Uploader
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
		uploader = s3Client
	}

	e.Knowledge = service.NewKnowledgeService(e.Library)
	e.Selector = service.NewSelectorService(e.provider)
	e.Reconciler = service.NewReconcilerService(e.Library, e.provider)
	e.Auditor = service.NewAuditorService(e.provider)
	e.Writer = service.NewWriterService(e.provider)
	e.Backup = service.NewBackupService(e.Library, uploader)

	return e, nil
}

// Close releases the engine's resources.
func (e *Engine) Close() error {
	var firstErr error
	for _, close := range e.closers {
		if err := close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// requireAI guards commands that cannot run without a provider.
func (e *Engine) requireAI() error {
	if e.provider == nil {
		return fmt.Errorf("INKFLOW_OPENAI_API_KEY is required for this command")
	}
	return nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
