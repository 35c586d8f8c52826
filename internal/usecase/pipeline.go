package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ChannelFeed/internal/domain"
	"ChannelFeed/internal/ports"
)

// PipelineDeps wires all driven adapters into the ingestion pipeline.
type PipelineDeps struct {
	Channel    string
	Fetcher    ports.PageFetcher
	Extractor  ports.MessageExtractor
	Classifier ports.Classifier
	Builder    *RecordBuilder
	Store      ports.FeedStore
	Logger     *slog.Logger
	// FeedPath names the feed in the run summary.
	FeedPath string
	// DryRun marks a run whose store is a throwaway copy of the feed.
	DryRun bool
}

// Pipeline implements one fetch → parse → classify → filter → merge/persist pass.
type Pipeline struct {
	channel    string
	fetcher    ports.PageFetcher
	extractor  ports.MessageExtractor
	classifier ports.Classifier
	builder    *RecordBuilder
	store      ports.FeedStore
	logger     *slog.Logger
	feedPath   string
	dryRun     bool
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		channel:    deps.Channel,
		fetcher:    deps.Fetcher,
		extractor:  deps.Extractor,
		classifier: deps.Classifier,
		builder:    deps.Builder,
		store:      deps.Store,
		logger:     logger,
		feedPath:   deps.FeedPath,
		dryRun:     deps.DryRun,
	}
}

// Run executes a single pass. A fetch failure aborts before the store is
// touched; an unreadable store is treated as empty; a failed save is returned.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("fetching public channel", "channel", p.channel)

	markup, err := p.fetcher.FetchPage(ctx, p.channel)
	if err != nil {
		return fmt.Errorf("fetch page: %w", err)
	}

	messages, err := p.extractor.Extract(markup)
	if err != nil {
		return fmt.Errorf("extract messages: %w", err)
	}

	fresh := p.build(messages)

	existing, err := p.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrStoreCorrupt) {
			return fmt.Errorf("load feed: %w", err)
		}
		p.logger.Warn("existing feed unreadable, starting empty", "error", err)
		existing = nil
	}

	result := Merge(existing, fresh)
	if err := p.store.Save(ctx, result.Records); err != nil {
		return fmt.Errorf("save feed: %w", err)
	}

	p.logger.Info(p.summary(result),
		"total", len(result.Records),
		"added", result.Added,
		"built", len(fresh),
		"path", p.feedPath,
		"dry_run", p.dryRun,
	)
	return nil
}

func (p *Pipeline) build(messages []domain.Message) []domain.CommunicationRecord {
	records := make([]domain.CommunicationRecord, 0, len(messages))
	for _, msg := range messages {
		cls := p.classifier.Classify(msg.PlainText)
		rec, ok := p.builder.Build(msg, cls)
		if !ok {
			p.logger.Debug("message before cutoff", "id", msg.ID, "published_at", msg.PublishedAt)
			continue
		}
		records = append(records, rec)
	}
	SortNewestFirst(records)

	p.logger.Debug("built records", "messages", len(messages), "records", len(records))
	return records
}

func (p *Pipeline) summary(result domain.MergeResult) string {
	if p.dryRun {
		return fmt.Sprintf("Dry run: would write %d communications (added %d new) to %s",
			len(result.Records), result.Added, p.feedPath)
	}
	return fmt.Sprintf("Wrote %d communications (added %d new) to %s",
		len(result.Records), result.Added, p.feedPath)
}
