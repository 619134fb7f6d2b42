package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-publisher/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "s3", cfg.Target)
	assert.Equal(t, "gpt-4-turbo-preview", cfg.LLMModel)
	assert.Equal(t, 6, cfg.PublishHour)
	assert.Equal(t, 2*time.Minute, cfg.RunTimeout)
	assert.Equal(t, "env", cfg.SecretsProvider)
	assert.Equal(t, "data/blog-index.json", cfg.S3IndexKey)
	assert.Equal(t, "main", cfg.GitHubBranch)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PUBLISH_TARGET", "github")
	t.Setenv("PUBLISH_HOUR_UTC", "9")
	t.Setenv("RUN_TIMEOUT", "5m")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("GITHUB_REPO", "acme/trading-site")

	cfg := Load()

	assert.Equal(t, "github", cfg.Target)
	assert.Equal(t, 9, cfg.PublishHour)
	assert.Equal(t, 5*time.Minute, cfg.RunTimeout)
	assert.True(t, cfg.OTelEnabled)
	assert.Equal(t, "acme/trading-site", cfg.GitHubRepo)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("PUBLISH_HOUR_UTC", "noon")
	t.Setenv("RUN_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 6, cfg.PublishHour)
	assert.Equal(t, 2*time.Minute, cfg.RunTimeout)
}

func TestEnvSecretStore(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	store := EnvSecretStore{}
	value, err := store.GetSecret(context.Background(), "OPENAI_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", value)

	_, err = store.GetSecret(context.Background(), "MISSING_KEY")
	assert.ErrorIs(t, err, domain.ErrEmptySecret)
}

func TestEnvSecretStore_FileFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("ghp_file_token\n"), 0o600))
	t.Setenv("GITHUB_TOKEN_FILE", path)

	store := EnvSecretStore{}
	value, err := store.GetSecret(context.Background(), "GITHUB_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "ghp_file_token", value)
}
