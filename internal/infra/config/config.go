package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"blog-publisher/internal/domain"
)

type Config struct {
	Env           string
	Port          string
	Target        string // "s3" or "github"
	BaseURL       string
	SiteName      string
	PropertyID    string
	IndexSitePath string
	ScheduleFile  string
	PublishHour   int // UTC hour of the daily run
	RunTimeout    time.Duration
	HTTPTimeout   time.Duration
	OTelEnabled   bool

	SecretsProvider string // "awssm" or "env"

	LLMBaseURL string
	LLMModel   string
	LLMKeyRef  string
	LLMTimeout time.Duration

	S3Bucket         string
	S3IndexKey       string
	AWSRegion        string
	CFDistributionID string

	GitHubAPIBaseURL string
	GitHubRepo       string
	GitHubBranch     string
	GitHubIndexPath  string
	GitHubTokenRef   string

	NotifyEndpoint string
	NotifyAPIKey   string
}

func Load() *Config {
	return &Config{
		Env:           getEnv("ENV", "development"),
		Port:          getEnv("PORT", "9020"),
		Target:        getEnv("PUBLISH_TARGET", "s3"),
		BaseURL:       getEnv("SITE_BASE_URL", "https://tradesim.example.com"),
		SiteName:      getEnv("SITE_NAME", "TradeSim Pro"),
		PropertyID:    getEnv("PROPERTY_ID", "tradesim-pro"),
		IndexSitePath: getEnv("INDEX_SITE_PATH", "daily-updates"),
		ScheduleFile:  getEnv("TOPIC_SCHEDULE_FILE", ""),
		PublishHour:   getEnvInt("PUBLISH_HOUR_UTC", 6),
		RunTimeout:    getEnvDuration("RUN_TIMEOUT", 2*time.Minute),
		HTTPTimeout:   getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		OTelEnabled:   getEnv("OTEL_ENABLED", "false") == "true",

		SecretsProvider: getEnv("SECRETS_PROVIDER", "env"),

		LLMBaseURL: getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMModel:   getEnv("LLM_MODEL", "gpt-4-turbo-preview"),
		LLMKeyRef:  getEnv("LLM_API_KEY_REF", "OPENAI_API_KEY"),
		LLMTimeout: getEnvDuration("LLM_TIMEOUT", 90*time.Second),

		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3IndexKey:       getEnv("S3_INDEX_KEY", "data/blog-index.json"),
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		CFDistributionID: getEnv("CF_DISTRIBUTION_ID", ""),

		GitHubAPIBaseURL: getEnv("GITHUB_API_BASE_URL", "https://api.github.com"),
		GitHubRepo:       getEnv("GITHUB_REPO", ""),
		GitHubBranch:     getEnv("GITHUB_BRANCH", "main"),
		GitHubIndexPath:  getEnv("GITHUB_INDEX_PATH", "src/data/blog-index.json"),
		GitHubTokenRef:   getEnv("GITHUB_TOKEN_REF", "GITHUB_TOKEN"),

		NotifyEndpoint: getEnv("NOTIFY_ENDPOINT", ""),
		NotifyAPIKey:   getSecret("NOTIFY_API_KEY", "NOTIFY_API_KEY_FILE", ""),
	}
}

// EnvSecretStore resolves secret references against the process
// environment, with a <REF>_FILE fallback for mounted secrets.
type EnvSecretStore struct{}

func (EnvSecretStore) GetSecret(_ context.Context, ref string) (string, error) {
	value := getSecret(ref, ref+"_FILE", "")
	if strings.TrimSpace(value) == "" {
		return "", domain.ErrEmptySecret
	}
	return strings.TrimSpace(value), nil
}

var _ domain.SecretStore = EnvSecretStore{}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	// 1. Try direct environment variable
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}

	// 2. Try reading from file specified by fileEnvKey
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
