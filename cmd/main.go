package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"placebrief/internal/bot"
	"placebrief/internal/config"
	"placebrief/internal/explorer"
	"placebrief/internal/places"
	"placebrief/internal/report"
	"placebrief/internal/scheduler"
	"placebrief/internal/summarizer"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(log)

	start := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.ErrorContext(ctx, "Failed to load .env file",
				"error", err)

			return exitFailure
		}
		log.DebugContext(ctx, "No .env file so process environment is used")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)

		return exitFailure
	}

	bias := cfg.Bias()
	placesClient := places.NewClient(cfg.PlacesAPIKey, log)
	s := initOpenAISummarizer(ctx, cfg, log)
	exp := explorer.New(placesClient, s, &bias, cfg.MaxResults, log)

	notifier, err := initNotifier(ctx, cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize Telegram notifier",
			"error", err,
			"chatID", cfg.TelegramChatID)

		return exitFailure
	}

	runOnce := func(ctx context.Context) error {
		return explore(ctx, exp, notifier, cfg.Queries, os.Stdout, log)
	}

	if cfg.Schedule == "" {
		runCtx, runCancel := context.WithTimeout(ctx, cfg.RunTimeout)
		defer runCancel()

		if err = runOnce(runCtx); err != nil {
			log.ErrorContext(ctx, "Run failed",
				"error", err,
				"queries", cfg.Queries,
				"uptimeSeconds", time.Since(start).Seconds())

			return exitFailure
		}

		return exitOK
	}

	sched := scheduler.New(ctx, cfg.Schedule, cfg.RunTimeout, runOnce, log)
	if err = sched.Start(); err != nil {
		log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", cfg.Schedule)

		return exitFailure
	}
	log.InfoContext(ctx, "Scheduler is started",
		"spec", cfg.Schedule,
		"timezone", scheduler.Timezone,
		"queries", cfg.Queries)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	sig := <-c
	log.InfoContext(ctx, "Shutdown signal is received",
		"signal", sig.String())
	cancel()

	sched.Stop()
	log.InfoContext(ctx, "Exiting...",
		"signal", sig.String(),
		"uptimeSeconds", time.Since(start).Seconds())

	return exitOK
}

// explore runs every query, prints the reports that succeeded and forwards
// them to Telegram. Only places search failures are returned; Telegram
// failures are logged.
func explore(
	ctx context.Context,
	exp *explorer.Explorer,
	notifier *bot.Notifier,
	queries []string,
	w io.Writer,
	log *slog.Logger,
) error {
	reports, exploreErr := exp.ExploreAll(ctx, queries)

	var errs []error
	if exploreErr != nil {
		errs = append(errs, exploreErr)
	}

	for _, r := range reports {
		if r == nil {
			continue
		}

		if err := report.WriteText(w, r); err != nil {
			errs = append(errs, fmt.Errorf("write report (query = %s): %w", r.Query, err))
		}

		if notifier == nil {
			continue
		}

		if err := notifier.SendReport(ctx, r); err != nil {
			log.ErrorContext(ctx, "Failed to send report to Telegram",
				"error", err,
				"query", r.Query)
		}
	}

	return errors.Join(errs...)
}

func initOpenAISummarizer(
	ctx context.Context,
	cfg config.Config,
	log *slog.Logger,
) summarizer.Summarizer {
	if !cfg.SummaryEnabled {
		log.InfoContext(ctx, "AI summary is disabled",
			"envVar", "SUMMARY_ENABLED")

		return nil
	}

	s, err := summarizer.NewOpenAISummarizer(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create OpenAI summarizer so summary is disabled",
			"error", err,
			"envVar", "OPENAI_API_KEY")

		return nil
	}

	log.InfoContext(ctx, "OpenAI summarizer is initialized",
		"provider", "openai",
		"model", cfg.OpenAIModel)

	return s
}

func initNotifier(
	ctx context.Context,
	cfg config.Config,
	log *slog.Logger,
) (*bot.Notifier, error) {
	if !cfg.TelegramEnabled() {
		return nil, nil
	}

	n, err := bot.New(cfg.TelegramToken, cfg.TelegramChatID, log)
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "Telegram notifier is initialized",
		"chatID", cfg.TelegramChatID)

	return n, nil
}
