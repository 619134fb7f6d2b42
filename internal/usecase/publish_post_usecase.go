package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"blog-publisher/internal/domain"
	"blog-publisher/internal/infra/logger"
)

// PublishInput carries the opaque trigger payload. It is logged and
// otherwise ignored; real inputs come from configuration and remote
// services.
type PublishInput struct {
	Trigger string
}

// PublishResult is the structured outcome of one run. Fatal pipeline
// errors are folded into a failure result; nothing propagates past the
// pipeline boundary.
type PublishResult struct {
	Success     bool   `json:"success"`
	Day         string `json:"day"`
	Theme       string `json:"theme,omitempty"`
	Title       string `json:"title,omitempty"`
	Slug        string `json:"slug,omitempty"`
	Category    string `json:"category,omitempty"`
	PublishDate string `json:"publishDate,omitempty"`
	Ref         string `json:"ref,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ArtifactRenderer produces the derived site documents recomputed on
// every run.
type ArtifactRenderer interface {
	Sitemap(posts []domain.BlogPost, now time.Time) ([]byte, error)
	Robots() []byte
}

// PublishPostUsecase runs the daily content publication pipeline.
type PublishPostUsecase interface {
	Execute(ctx context.Context, input PublishInput) *PublishResult
}

type publishPostUsecase struct {
	schedule      domain.Schedule
	prompts       PromptBuilder
	llm           domain.LLMClient
	target        domain.PublishTarget
	renderer      ArtifactRenderer
	notifier      domain.Notifier // nil disables notification
	propertyID    string
	indexSitePath string
	indexDataPath string
	now           func() time.Time
	logs          *logger.ContextLogger
}

// NewPublishPostUsecase wires the pipeline. notifier may be nil when no
// notification endpoint is configured. now is injectable so tests can
// pin the publish date.
func NewPublishPostUsecase(
	schedule domain.Schedule,
	prompts PromptBuilder,
	llm domain.LLMClient,
	target domain.PublishTarget,
	renderer ArtifactRenderer,
	notifier domain.Notifier,
	propertyID string,
	indexSitePath string,
	indexDataPath string,
	now func() time.Time,
	logs *logger.ContextLogger,
) PublishPostUsecase {
	if now == nil {
		now = time.Now
	}
	return &publishPostUsecase{
		schedule:      schedule,
		prompts:       prompts,
		llm:           llm,
		target:        target,
		renderer:      renderer,
		notifier:      notifier,
		propertyID:    propertyID,
		indexSitePath: indexSitePath,
		indexDataPath: indexDataPath,
		now:           now,
		logs:          logs,
	}
}

// Execute performs one publication run. There is no retry anywhere in
// the pipeline; a failed run reports failure and waits for the next
// scheduled trigger.
func (u *publishPostUsecase) Execute(ctx context.Context, input PublishInput) *PublishResult {
	now := u.now().UTC()
	day := now.Weekday().String()

	// Every line of this run carries the run ID and trigger the caller
	// put on the context.
	log := u.logs.WithContext(ctx)

	log.Info("publish_run_started",
		slog.String("trigger", input.Trigger),
		slog.String("day", day),
		slog.String("target", u.target.Name()))

	result, err := u.run(ctx, now, log)
	if err != nil {
		log.Error("publish_run_failed",
			slog.String("day", day),
			slog.String("error", err.Error()))
		return &PublishResult{Success: false, Day: day, Error: err.Error()}
	}

	log.Info("publish_run_completed",
		slog.String("slug", result.Slug),
		slog.String("title", result.Title),
		slog.String("ref", result.Ref))
	return result
}

func (u *publishPostUsecase) run(ctx context.Context, now time.Time, log *slog.Logger) (*PublishResult, error) {
	// Topic resolution is pure and total: every weekday maps to
	// exactly one config.
	topic := u.schedule.For(now.Weekday())
	log.Info("topic_resolved",
		slog.String("theme", topic.Theme),
		slog.String("category", topic.Category),
		slog.String("content_role", topic.ContentRole))

	response, err := u.llm.Generate(ctx, u.prompts.Build(topic))
	if err != nil {
		return nil, fmt.Errorf("content generation failed: %w", err)
	}

	content, err := parseGeneratedContent(response.Text)
	if err != nil {
		return nil, fmt.Errorf("content generation failed: %w", err)
	}
	warnContentShortfalls(log, content)
	log.Info("content_generated",
		slog.String("title", content.Title),
		slog.Int("sections", len(content.Sections)),
		slog.Int("words", content.WordCount()))

	post := domain.BlogPost{
		Slug:          domain.DeriveSlug(content.Title),
		Category:      topic.Category,
		CategoryColor: topic.CategoryColor,
		Title:         content.Title,
		Description:   content.Description,
		Sections:      content.Sections,
		PublishDate:   now.Format("2006-01-02"),
		Generated:     true,
	}
	post.ImagePath = domain.ImagePathForSlug(post.Slug)

	posts, version, err := u.target.ReadIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read post index: %w", err)
	}

	// Slug collisions rename only the new post; existing records are
	// never touched.
	if slugTaken(posts, post.Slug) {
		post.Slug = fmt.Sprintf("%s-%d", post.Slug, now.UnixMilli())
		post.ImagePath = domain.ImagePathForSlug(post.Slug)
		log.Info("slug_collision_resolved", slog.String("slug", post.Slug))
	}

	updated := make([]domain.BlogPost, 0, len(posts)+1)
	updated = append(updated, post)
	updated = append(updated, posts...)

	ref, err := u.target.WriteIndex(ctx, updated, version)
	if err != nil {
		return nil, fmt.Errorf("failed to write post index: %w", err)
	}

	if err := u.target.PublishPage(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to publish post page: %w", err)
	}

	sitemap, err := u.renderer.Sitemap(updated, now)
	if err != nil {
		return nil, fmt.Errorf("failed to render sitemap: %w", err)
	}
	if err := u.target.PublishSitemap(ctx, sitemap, u.renderer.Robots()); err != nil {
		return nil, fmt.Errorf("failed to publish sitemap: %w", err)
	}

	// Best-effort from here on: a stale cache or a missed notification
	// never fails the run.
	paths := []string{
		"/blog/" + post.Slug + "*",
		"/blog",
		"/sitemap.xml",
		"/" + u.indexSitePath,
		"/" + u.indexDataPath,
	}
	if err := u.target.Invalidate(ctx, paths); err != nil {
		log.Error("cache_invalidation_failed", slog.String("error", err.Error()))
	}

	u.notify(ctx, post, log)

	return &PublishResult{
		Success:     true,
		Day:         now.Weekday().String(),
		Theme:       topic.Theme,
		Title:       post.Title,
		Slug:        post.Slug,
		Category:    post.Category,
		PublishDate: post.PublishDate,
		Ref:         ref,
	}, nil
}

func (u *publishPostUsecase) notify(ctx context.Context, post domain.BlogPost, log *slog.Logger) {
	if u.notifier == nil {
		return
	}
	n := domain.Notification{
		Date:       post.PublishDate,
		PropertyID: u.propertyID,
		Summary:    fmt.Sprintf("Published %q (%s) at /blog/%s", post.Title, post.Category, post.Slug),
	}
	if err := u.notifier.Notify(ctx, n); err != nil {
		log.Warn("notification_failed", slog.String("error", err.Error()))
	}
}

func slugTaken(posts []domain.BlogPost, slug string) bool {
	for _, p := range posts {
		if p.Slug == slug {
			return true
		}
	}
	return false
}
