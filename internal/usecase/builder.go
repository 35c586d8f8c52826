package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"ChannelFeed/internal/domain"
)

const titleFallbackRunes = 100

var backgroundImageExpr = regexp.MustCompile(`\s*style="background-image:url\([^)]+\)"`)

// RecordBuilder turns extracted messages into feed records, dropping anything
// published before the cutoff.
type RecordBuilder struct {
	cutoff time.Time
	author string
	now    func() time.Time
	random func() string
}

// NewRecordBuilder configures the cutoff and the fixed author label.
func NewRecordBuilder(cutoff time.Time, author string) *RecordBuilder {
	return &RecordBuilder{
		cutoff: cutoff,
		author: author,
		now:    time.Now,
		random: uuid.NewString,
	}
}

// Build returns the record for msg, or false when msg predates the cutoff.
// The cutoff is inclusive: a message stamped exactly at the cutoff is kept.
func (b *RecordBuilder) Build(msg domain.Message, cls domain.Classification) (domain.CommunicationRecord, bool) {
	if msg.PublishedAt.Before(b.cutoff) {
		return domain.CommunicationRecord{}, false
	}

	id := msg.ID
	if id == "" {
		// not stable across runs: such messages are re-added on every scrape
		id = fmt.Sprintf("%d_%s", b.now().UnixMilli(), b.random())
	}

	category := cls.Category
	if category == "" {
		category = domain.CategoryDidattica
	}
	priority := cls.Priority
	if priority == "" {
		priority = domain.PriorityLow
	}

	return domain.CommunicationRecord{
		ID:       id,
		Title:    stripBackgroundImages(buildTitle(msg.PlainText)),
		Content:  stripBackgroundImages(msg.Content),
		Date:     domain.FormatDate(msg.PublishedAt),
		Author:   b.author,
		Category: category,
		Priority: priority,
	}, true
}

// buildTitle takes the first paragraph, then the first line, then a bounded
// prefix when the text has no line break at all.
func buildTitle(plain string) string {
	if paragraph, _, found := strings.Cut(plain, "\n\n"); found && paragraph != "" {
		return paragraph
	}
	if line, _, found := strings.Cut(plain, "\n"); found && line != "" {
		return line
	}
	return truncateRunes(plain, titleFallbackRunes)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func stripBackgroundImages(markup string) string {
	return backgroundImageExpr.ReplaceAllString(markup, "")
}
