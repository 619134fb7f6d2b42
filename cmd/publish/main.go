package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"blog-publisher/internal/di"
	"blog-publisher/internal/domain"
	"blog-publisher/internal/infra/config"
	"blog-publisher/internal/render"
)

var (
	version = "dev"

	// Global flags
	verbose bool

	// Run command flags
	trigger string
	dryRun  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "publish",
	Short:   "Daily blog content publisher",
	Version: version,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one publish cycle now",
	Long: `Run one publish cycle: resolve today's topic, generate an article,
update the post index, and publish the site artifacts.

Examples:
  # Publish today's post
  publish run

  # Show what would run without generating or publishing anything
  publish run --dry-run

  # Tag the run for log correlation
  publish run --trigger manual-backdate`,
	RunE: runPublish,
}

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Show the topic that would be used today",
	RunE:  showTopic,
}

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Render the sitemap for the current post index to stdout",
	RunE:  renderSitemap,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	runCmd.Flags().StringVar(&trigger, "trigger", "manual", "trigger label recorded with the run")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be published without calling the LLM or writing anything")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(topicCmd)
	rootCmd.AddCommand(sitemapCmd)
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

func wire(ctx context.Context) (*di.ApplicationComponents, *config.Config, error) {
	cfg := config.Load()
	components, err := di.NewApplicationComponents(ctx, cfg, newLogger())
	if err != nil {
		return nil, nil, err
	}
	return components, cfg, nil
}

func runPublish(cmd *cobra.Command, args []string) error {
	components, cfg, err := wire(cmd.Context())
	if err != nil {
		return err
	}

	if dryRun {
		now := time.Now().UTC()
		topic := components.Schedule.For(now.Weekday())
		plan := map[string]any{
			"day":    now.Weekday().String(),
			"date":   now.Format("2006-01-02"),
			"topic":  topic,
			"model":  components.LLM.Model(),
			"target": components.Target.Name(),
			"site":   cfg.BaseURL,
		}
		out, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	result := components.Worker.RunOnce(trigger)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if !result.Success {
		return fmt.Errorf("publish run failed: %s", result.Error)
	}
	return nil
}

func showTopic(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	schedule := domain.DefaultSchedule()
	if cfg.ScheduleFile != "" {
		loaded, err := domain.LoadSchedule(cfg.ScheduleFile)
		if err != nil {
			return err
		}
		schedule = loaded
	}

	now := time.Now().UTC()
	topic := schedule.For(now.Weekday())

	out, err := json.MarshalIndent(topic, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n%s\n", now.Weekday(), now.Format("2006-01-02"), string(out))
	return nil
}

func renderSitemap(cmd *cobra.Command, args []string) error {
	components, cfg, err := wire(cmd.Context())
	if err != nil {
		return err
	}

	posts, _, err := components.Target.ReadIndex(cmd.Context())
	if err != nil {
		return err
	}

	renderer := render.NewSiteRenderer(cfg.BaseURL, cfg.SiteName)
	sitemap, err := renderer.Sitemap(posts, time.Now().UTC())
	if err != nil {
		return err
	}
	fmt.Println(string(sitemap))
	return nil
}
