package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithEnvVars(t *testing.T) {
	os.Setenv("INKFLOW_PORT", "9090")
	os.Setenv("INKFLOW_DEBUG", "true")
	os.Setenv("INKFLOW_STORAGE_MODE", "remote")
	os.Setenv("INKFLOW_REMOTE_URL", "http://localhost:8080")
	os.Setenv("INKFLOW_S3_ENDPOINT", "http://localhost:9000")
	os.Setenv("INKFLOW_S3_ACCESS_KEY_ID", "key")
	os.Setenv("INKFLOW_S3_SECRET_ACCESS_KEY", "secret")
	os.Setenv("INKFLOW_OPENAI_API_KEY", "sk-test")
	defer func() {
		os.Unsetenv("INKFLOW_PORT")
		os.Unsetenv("INKFLOW_DEBUG")
		os.Unsetenv("INKFLOW_STORAGE_MODE")
		os.Unsetenv("INKFLOW_REMOTE_URL")
		os.Unsetenv("INKFLOW_S3_ENDPOINT")
		os.Unsetenv("INKFLOW_S3_ACCESS_KEY_ID")
		os.Unsetenv("INKFLOW_S3_SECRET_ACCESS_KEY")
		os.Unsetenv("INKFLOW_OPENAI_API_KEY")
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.IsRemote())
	assert.Equal(t, "http://localhost:8080", cfg.RemoteURL)
	assert.Equal(t, "http://localhost:9000", cfg.S3Endpoint)
	assert.Equal(t, "key", cfg.S3AccessKey)
	assert.Equal(t, "secret", cfg.S3SecretKey)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "local", cfg.StorageMode)
	assert.False(t, cfg.IsRemote())
	assert.Equal(t, "inkflow.db", cfg.LocalDBPath)
	assert.Equal(t, "inkflow-backups", cfg.S3Bucket)
	assert.Equal(t, "us-east-1", cfg.S3Region)
}

func TestLoad_InvalidStorageMode(t *testing.T) {
	os.Setenv("INKFLOW_STORAGE_MODE", "cloud")
	defer os.Unsetenv("INKFLOW_STORAGE_MODE")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "storage mode")
}

func TestLoad_RemoteRequiresURL(t *testing.T) {
	os.Setenv("INKFLOW_STORAGE_MODE", "remote")
	defer os.Unsetenv("INKFLOW_STORAGE_MODE")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "REMOTE_URL")
}

func TestHasS3(t *testing.T) {
	cfg := &Config{
		S3Endpoint:  "http://localhost:9000",
		S3AccessKey: "key",
		S3SecretKey: "secret",
	}
	assert.True(t, cfg.HasS3())

	cfg.S3Endpoint = ""
	assert.False(t, cfg.HasS3())
}

func TestHasOpenAI(t *testing.T) {
	cfg := &Config{OpenAIAPIKey: "sk-test"}
	assert.True(t, cfg.HasOpenAI())

	cfg.OpenAIAPIKey = ""
	assert.False(t, cfg.HasOpenAI())
}
