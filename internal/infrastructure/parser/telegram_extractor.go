package parser

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ChannelFeed/internal/domain"
	"ChannelFeed/internal/ports"
)

const (
	messageSelector = ".tgme_widget_message"
	bodySelector    = ".tgme_widget_message_text"
	replySelector   = ".tgme_widget_message_reply"
	timeSelector    = "time[datetime]"
	permalinkAttr   = "data-post"
)

var lineBreakExpr = regexp.MustCompile(`<br\s*/?>`)

// TelegramExtractor parses the t.me/s channel preview markup.
type TelegramExtractor struct {
	now    func() time.Time
	logger *slog.Logger
}

var _ ports.MessageExtractor = (*TelegramExtractor)(nil)

// NewTelegramExtractor wires a clock (nil means time.Now) and an optional logger.
func NewTelegramExtractor(now func() time.Time, log *slog.Logger) *TelegramExtractor {
	if now == nil {
		now = time.Now
	}
	return &TelegramExtractor{now: now, logger: log}
}

// Extract returns one message per container that carries a non-empty body,
// in document order. Body-less containers (service or forward headers) are skipped.
func (e *TelegramExtractor) Extract(markup string) ([]domain.Message, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	now := e.now()
	blocks := doc.Find(messageSelector)
	messages := make([]domain.Message, 0, blocks.Length())

	blocks.Each(func(_ int, block *goquery.Selection) {
		msg, ok := parseMessage(block, now)
		if !ok {
			e.debug("skip message without body", "post", block.AttrOr(permalinkAttr, ""))
			return
		}
		messages = append(messages, msg)
	})

	e.debug("extracted messages", "blocks", blocks.Length(), "messages", len(messages))
	return messages, nil
}

func parseMessage(block *goquery.Selection, now time.Time) (domain.Message, bool) {
	body, err := messageBody(block).Html()
	if err != nil {
		return domain.Message{}, false
	}
	body = strings.TrimSpace(body)

	plain := lineBreakExpr.ReplaceAllString(body, "\n")
	if plain == "" {
		return domain.Message{}, false
	}

	publishedAt := now
	if raw, ok := block.Find(timeSelector).First().Attr("datetime"); ok {
		if parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(raw)); err == nil {
			publishedAt = parsed
		}
	}

	return domain.Message{
		ID:          permalinkID(block.AttrOr(permalinkAttr, "")),
		Content:     body,
		PlainText:   plain,
		PublishedAt: publishedAt,
	}, true
}

// messageBody prefers the post's own text over quoted reply previews.
func messageBody(block *goquery.Selection) *goquery.Selection {
	bodies := block.Find(bodySelector)
	own := bodies.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ParentsFiltered(replySelector).Length() == 0
	})
	if own.Length() > 0 {
		return own.First()
	}
	return bodies.First()
}

// permalinkID takes the final path segment of a "channel/123" permalink.
func permalinkID(post string) string {
	post = strings.TrimSpace(post)
	if i := strings.LastIndex(post, "/"); i >= 0 {
		return post[i+1:]
	}
	return post
}

func (e *TelegramExtractor) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
