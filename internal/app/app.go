package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ChannelFeed/internal/classifier"
	"ChannelFeed/internal/config"
	"ChannelFeed/internal/domain"
	"ChannelFeed/internal/infrastructure/parser"
	"ChannelFeed/internal/infrastructure/scheduler"
	"ChannelFeed/internal/infrastructure/storage"
	"ChannelFeed/internal/infrastructure/telegram"
	"ChannelFeed/internal/logging"
	"ChannelFeed/internal/ports"
	"ChannelFeed/internal/usecase"
)

// Options tweak a single invocation.
type Options struct {
	// DryRun runs the pipeline against an in-memory copy of the feed.
	DryRun bool
}

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	opts       Options
	logger     *slog.Logger
	fetcher    ports.PageFetcher
	extractor  ports.MessageExtractor
	classifier ports.Classifier
	builder    *usecase.RecordBuilder
	store      *storage.JSONFileStore
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger, opts Options) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	cls, err := classifier.New(cfg.Classifier.EventMarker)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	return &Application{
		cfg:        cfg,
		opts:       opts,
		logger:     baseLogger,
		fetcher:    telegram.NewPageFetcher(cfg.Channel, nil),
		extractor:  parser.NewTelegramExtractor(nil, baseLogger.With("component", "extractor")),
		classifier: cls,
		builder:    usecase.NewRecordBuilder(cfg.Filter.Cutoff(), cfg.Channel.Author),
		store:      storage.NewJSONFileStore(cfg.Feed.Path, baseLogger.With("component", "store")),
	}, nil
}

// Run performs a single pipeline pass.
func (a *Application) Run(ctx context.Context) error {
	store, err := a.runStore(ctx)
	if err != nil {
		return err
	}

	return a.pipeline(store).Run(ctx)
}

// Schedule runs the pipeline immediately and then on the configured cron
// expression until ctx is cancelled.
func (a *Application) Schedule(ctx context.Context) error {
	driver := scheduler.NewCronScheduler(
		a.cfg.Scheduler.CronExpression,
		a.cfg.Scheduler.Location(),
		a.logger.With("component", "scheduler"),
	)

	store, err := a.runStore(ctx)
	if err != nil {
		return err
	}
	pipeline := a.pipeline(store)

	if err := pipeline.Run(ctx); err != nil {
		a.logger.Error("initial run failed", "error", err)
	}

	sched := usecase.NewScheduler(driver, pipeline, a.logger.With("component", "schedule"))
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return sched.Stop(stopCtx)
}

func (a *Application) pipeline(store ports.FeedStore) *usecase.Pipeline {
	return usecase.NewPipeline(usecase.PipelineDeps{
		Channel:    a.cfg.Channel.Name,
		Fetcher:    a.fetcher,
		Extractor:  a.extractor,
		Classifier: a.classifier,
		Builder:    a.builder,
		Store:      store,
		Logger:     a.logger.With("component", "pipeline", "channel", a.cfg.Channel.Name),
		FeedPath:   a.store.Path(),
		DryRun:     a.opts.DryRun,
	})
}

// runStore returns the file store, or for dry runs an in-memory copy of it.
func (a *Application) runStore(ctx context.Context) (ports.FeedStore, error) {
	if !a.opts.DryRun {
		return a.store, nil
	}

	records, err := a.store.Load(ctx)
	if err != nil && !errors.Is(err, domain.ErrStoreCorrupt) {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return storage.NewMemoryStore(records...), nil
}
