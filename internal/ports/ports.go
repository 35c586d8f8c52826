package ports

import (
	"context"
	"time"

	"ChannelFeed/internal/domain"
)

// PageFetcher retrieves the raw markup of a public channel page.
type PageFetcher interface {
	FetchPage(ctx context.Context, channel string) (string, error)
}

// MessageExtractor splits channel markup into message blocks in document order.
type MessageExtractor interface {
	Extract(markup string) ([]domain.Message, error)
}

// FeedStore loads and replaces the persisted feed.
type FeedStore interface {
	Load(ctx context.Context) ([]domain.CommunicationRecord, error)
	Save(ctx context.Context, records []domain.CommunicationRecord) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// Classifier derives category and priority tags from plain text.
type Classifier interface {
	Classify(text string) domain.Classification
}
