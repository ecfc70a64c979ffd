// Package store defines the persistence contract for content units and
// interactions.
package store

import (
	"context"

	"github.com/xeij/tellme/pkg/tellme/content"
	"github.com/xeij/tellme/pkg/tellme/topic"
)

// Store is the main interface for persisting and querying tellme data.
//
// Random lookups return (unit, false, nil) when nothing matches: an empty
// result is a legitimate outcome, distinct from a persistence failure.
type Store interface {
	Close() error

	// Content
	InsertContent(ctx context.Context, u *content.Unit) error
	RandomContent(ctx context.Context) (content.Unit, bool, error)
	RandomContentForTopic(ctx context.Context, t topic.Topic) (content.Unit, bool, error)
	ContentCount(ctx context.Context) (int64, error)
	TopicContentCounts(ctx context.Context) (map[topic.Topic]int64, error)

	// Interactions
	RecordInteraction(ctx context.Context, i content.Interaction) error
	InteractionCount(ctx context.Context) (int64, error)
	InteractionCountForTopic(ctx context.Context, t topic.Topic) (int64, error)
	RecentTopics(ctx context.Context, limit int) ([]topic.Topic, error)
	InteractionAggregates(ctx context.Context) ([]TopicOutcomeCount, error)
}

// TopicOutcomeCount is one row of the per-topic interaction aggregation
// consumed by the preference scorer.
type TopicOutcomeCount struct {
	Topic   topic.Topic
	Outcome content.Outcome
	Count   int64
}
