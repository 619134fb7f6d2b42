package di

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"blog-publisher/internal/adapter/awsstore"
	"blog-publisher/internal/adapter/githubstore"
	"blog-publisher/internal/adapter/llmapi"
	"blog-publisher/internal/adapter/notify"
	"blog-publisher/internal/domain"
	"blog-publisher/internal/infra/config"
	"blog-publisher/internal/infra/httpclient"
	"blog-publisher/internal/infra/logger"
	"blog-publisher/internal/render"
	"blog-publisher/internal/usecase"
	"blog-publisher/internal/worker"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	Schedule domain.Schedule
	Secrets  domain.SecretStore
	LLM      domain.LLMClient
	Target   domain.PublishTarget

	PublishUsecase usecase.PublishPostUsecase
	Worker         *worker.ScheduleWorker
}

// NewApplicationComponents wires all dependencies from config.
func NewApplicationComponents(ctx context.Context, cfg *config.Config, log *slog.Logger) (*ApplicationComponents, error) {
	schedule := domain.DefaultSchedule()
	if cfg.ScheduleFile != "" {
		loaded, err := domain.LoadSchedule(cfg.ScheduleFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load topic schedule: %w", err)
		}
		schedule = loaded
		log.Info("topic_schedule_loaded", slog.String("file", cfg.ScheduleFile))
	}

	// AWS clients are needed for the s3 target and for Secrets Manager;
	// skip loading the SDK config when neither is in play.
	needsAWS := cfg.Target == "s3" || cfg.SecretsProvider == "awssm"

	var s3Client *s3.Client
	var cfClient *cloudfront.Client
	var smClient *secretsmanager.Client
	if needsAWS {
		sdkCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		s3Client = s3.NewFromConfig(sdkCfg)
		cfClient = cloudfront.NewFromConfig(sdkCfg)
		smClient = secretsmanager.NewFromConfig(sdkCfg)
	}

	var secrets domain.SecretStore
	switch cfg.SecretsProvider {
	case "awssm":
		secrets = awsstore.NewSecretsManagerStore(smClient)
	case "env":
		secrets = config.EnvSecretStore{}
	default:
		return nil, fmt.Errorf("unknown secrets provider %q", cfg.SecretsProvider)
	}

	llm := llmapi.NewOpenAIClient(
		cfg.LLMBaseURL,
		cfg.LLMModel,
		cfg.LLMKeyRef,
		secrets,
		httpclient.NewPooledClient(cfg.LLMTimeout),
		log,
	)

	renderer := render.NewSiteRenderer(cfg.BaseURL, cfg.SiteName)

	var target domain.PublishTarget
	switch cfg.Target {
	case "s3":
		target = awsstore.NewS3Target(s3Client, cfClient, cfg.S3Bucket, cfg.S3IndexKey, cfg.CFDistributionID, renderer, log)
	case "github":
		target = githubstore.NewTarget(
			cfg.GitHubAPIBaseURL,
			cfg.GitHubRepo,
			cfg.GitHubBranch,
			cfg.GitHubIndexPath,
			cfg.GitHubTokenRef,
			secrets,
			httpclient.NewPooledClient(cfg.HTTPTimeout),
			log,
		)
	default:
		return nil, fmt.Errorf("unknown publish target %q", cfg.Target)
	}

	var notifier domain.Notifier
	if cfg.NotifyEndpoint != "" {
		notifier = notify.NewStandupClient(
			cfg.NotifyEndpoint,
			cfg.NotifyAPIKey,
			httpclient.NewPooledClient(cfg.HTTPTimeout),
			log,
		)
	}

	// The CDN caches the index JSON under the same path the target
	// writes it to, so that path is part of every invalidation.
	indexDataPath := cfg.S3IndexKey
	if cfg.Target == "github" {
		indexDataPath = cfg.GitHubIndexPath
	}

	publishUsecase := usecase.NewPublishPostUsecase(
		schedule,
		usecase.NewPromptBuilder(cfg.SiteName),
		llm,
		target,
		renderer,
		notifier,
		cfg.PropertyID,
		cfg.IndexSitePath,
		indexDataPath,
		nil,
		logger.NewContextLoggerFrom(log, "blog-publisher"),
	)

	scheduleWorker := worker.NewScheduleWorker(publishUsecase, cfg.PublishHour, cfg.RunTimeout, log)

	return &ApplicationComponents{
		Schedule:       schedule,
		Secrets:        secrets,
		LLM:            llm,
		Target:         target,
		PublishUsecase: publishUsecase,
		Worker:         scheduleWorker,
	}, nil
}
