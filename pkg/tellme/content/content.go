// Package content defines the unit of displayable text and the record of a
// user reading or skipping it.
package content

import (
	"regexp"
	"strings"
	"time"

	"github.com/xeij/tellme/pkg/tellme/topic"
)

// Suitable length bounds, in whitespace-delimited words. Roughly one to two
// paragraphs.
const (
	MinWords = 30
	MaxWords = 800
)

// Unit is one displayable piece of text plus metadata. Units are created by
// ingestion, persisted once and immutable afterwards except for the ID the
// store assigns on insert.
type Unit struct {
	ID        int64       `json:"id"`
	Topic     topic.Topic `json:"topic"`
	Title     string      `json:"title"`
	Body      string      `json:"body"`
	SourceURL string      `json:"source_url"`
	WordCount int         `json:"word_count"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewUnit builds a unit with a derived word count and the current time.
// The ID stays zero until the store assigns one.
func NewUnit(t topic.Topic, title, body, sourceURL string) Unit {
	return Unit{
		Topic:     t,
		Title:     title,
		Body:      body,
		SourceURL: sourceURL,
		WordCount: len(strings.Fields(body)),
		CreatedAt: time.Now().UTC(),
	}
}

// SuitableLength reports whether the unit fits the display bounds. Checked
// once at ingestion; stored units are trusted afterwards.
func (u *Unit) SuitableLength() bool {
	return u.WordCount >= MinWords && u.WordCount <= MaxWords
}

var citationRe = regexp.MustCompile(`\[\d+\]`)

// CleanBody normalizes the body text: bracketed numeric citation markers are
// removed, every line is trimmed, empty lines are dropped and the survivors
// are rejoined with a blank-line separator. Applying it twice yields the
// same result as applying it once. The word count is recomputed.
func (u *Unit) CleanBody() {
	body := citationRe.ReplaceAllString(u.Body, "")

	var kept []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}

	u.Body = strings.Join(kept, "\n\n")
	u.WordCount = len(strings.Fields(u.Body))
}

// Outcome tags how a viewing ended.
type Outcome string

const (
	OutcomeFullyRead Outcome = "fully_read"
	OutcomeSkipped   Outcome = "skipped"
)

// Interaction records one viewing of a content unit. Created exactly once,
// when the viewer moves on or exits; immutable and append-only.
type Interaction struct {
	ContentID int64
	Outcome   Outcome
	Timestamp time.Time
	Duration  time.Duration
}

// FullyRead records that the viewer finished the unit.
func FullyRead(contentID int64, d time.Duration) Interaction {
	return Interaction{
		ContentID: contentID,
		Outcome:   OutcomeFullyRead,
		Timestamp: time.Now().UTC(),
		Duration:  d,
	}
}

// Skipped records that the viewer abandoned the unit.
func Skipped(contentID int64, d time.Duration) Interaction {
	return Interaction{
		ContentID: contentID,
		Outcome:   OutcomeSkipped,
		Timestamp: time.Now().UTC(),
		Duration:  d,
	}
}

// IsPositive reports whether the unit was fully read.
func (i Interaction) IsPositive() bool {
	return i.Outcome == OutcomeFullyRead
}
