package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// Server-side persistence (inkflowd only).
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Client-side persistence: "local" keeps everything in the device
	// store, "remote" syncs through an inkflowd endpoint with local
	// fallback.
	StorageMode string `envconfig:"STORAGE_MODE" default:"local"`
	RemoteURL   string `envconfig:"REMOTE_URL"`
	LocalDBPath string `envconfig:"LOCAL_DB_PATH" default:"inkflow.db"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL"`

	SentryDSN         string  `envconfig:"SENTRY_DSN"`
	SentryEnvironment string  `envconfig:"SENTRY_ENVIRONMENT" default:"development"`
	SentrySampleRate  float64 `envconfig:"SENTRY_SAMPLE_RATE" default:"1.0"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"inkflow-backups"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("INKFLOW", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.StorageMode != "local" && cfg.StorageMode != "remote" {
		return nil, fmt.Errorf("invalid storage mode %q (want local or remote)", cfg.StorageMode)
	}
	if cfg.StorageMode == "remote" && cfg.RemoteURL == "" {
		return nil, fmt.Errorf("remote storage mode requires INKFLOW_REMOTE_URL")
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}

func (c *Config) IsRemote() bool {
	return c.StorageMode == "remote"
}
