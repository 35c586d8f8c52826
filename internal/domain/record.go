package domain

import "time"

// DateLayout is the ISO-8601 rendering used for persisted record dates.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// Category is a topical tag derived from hashtags.
type Category string

const (
	CategoryDidattica   Category = "didattica"
	CategoryOpportunita Category = "opportunita"
	CategoryEventi      Category = "eventi"
)

// Categories lists the closed set of topical tags.
var Categories = []Category{CategoryDidattica, CategoryOpportunita, CategoryEventi}

// Priority is the urgency tag derived from hashtags.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists the closed set of priority tags.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Message is one raw block extracted from a channel page.
type Message struct {
	// ID is the permalink suffix; empty when the block has no permalink.
	ID string
	// Content is the inline-formatted body markup.
	Content string
	// PlainText is Content with line-break markers turned into newlines.
	PlainText string
	// PublishedAt is the block timestamp, or the extraction time when absent.
	PublishedAt time.Time
}

// CommunicationRecord is the persisted feed unit read by the presentation layer.
type CommunicationRecord struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Date     string   `json:"date"`
	Author   string   `json:"author"`
	Category Category `json:"category"`
	Priority Priority `json:"priority"`
}

// Time parses Date; unparseable values yield the zero time.
func (r CommunicationRecord) Time() time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatDate renders t in the persisted date layout (UTC).
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Classification is the classifier output for one message.
type Classification struct {
	Category Category
	Priority Priority
}

// MergeResult summarizes a merge of fresh records into the stored feed.
type MergeResult struct {
	Records []CommunicationRecord
	Added   int
}
