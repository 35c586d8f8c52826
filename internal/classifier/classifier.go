// Package classifier derives topical and priority tags from message hashtags.
package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"ChannelFeed/internal/domain"
)

// DefaultEventMarker is the secondary pattern that turns an untagged message into an event.
const DefaultEventMarker = `Hello\w+`

var hashtagExpr = regexp.MustCompile(`#\w+`)

// Classifier is a pure function over plain text; it never fails and always
// yields members of the closed category and priority sets.
type Classifier struct {
	eventMarker *regexp.Regexp
}

// New compiles the event marker pattern. An empty pattern uses DefaultEventMarker.
func New(eventMarker string) (*Classifier, error) {
	if eventMarker == "" {
		eventMarker = DefaultEventMarker
	}
	expr, err := regexp.Compile(eventMarker)
	if err != nil {
		return nil, fmt.Errorf("compile event marker %q: %w", eventMarker, err)
	}
	return &Classifier{eventMarker: expr}, nil
}

// Default returns a classifier using DefaultEventMarker.
func Default() *Classifier {
	return &Classifier{eventMarker: regexp.MustCompile(DefaultEventMarker)}
}

// Classify picks the first hashtag naming a category and the first naming a
// priority. Without a category hashtag the text falls back to eventi when the
// event marker matches, didattica otherwise. Priority defaults to low.
func (c *Classifier) Classify(text string) domain.Classification {
	tags := hashtags(text)

	category, ok := firstMatch(tags, domain.Categories)
	if !ok {
		category = domain.CategoryDidattica
		if c.eventMarker.MatchString(text) {
			category = domain.CategoryEventi
		}
	}

	priority, ok := firstMatch(tags, domain.Priorities)
	if !ok {
		priority = domain.PriorityLow
	}

	return domain.Classification{Category: category, Priority: priority}
}

func hashtags(text string) []string {
	matches := hashtagExpr.FindAllString(text, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, strings.ToLower(strings.TrimPrefix(m, "#")))
	}
	return tags
}

func firstMatch[T ~string](tags []string, set []T) (T, bool) {
	for _, tag := range tags {
		for _, candidate := range set {
			if tag == string(candidate) {
				return candidate, true
			}
		}
	}
	var zero T
	return zero, false
}
