// Package tellme ties content storage, preference scoring and
// diversity-weighted selection into one reading service.
package tellme

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/xeij/tellme/pkg/tellme/content"
	"github.com/xeij/tellme/pkg/tellme/selector"
	"github.com/xeij/tellme/pkg/tellme/store"
	"github.com/xeij/tellme/pkg/tellme/topic"
)

// Service serves content units one at a time and records how each viewing
// ended. Multiple front ends may share one Service: storage access is
// serialized so only one request is in flight against the handle at a time.
type Service struct {
	mu    sync.Mutex
	store store.Store
	rng   *rand.Rand
}

// Options configures a Service.
type Options struct {
	Store store.Store
	// Rand is the randomness source for topic and content draws. Defaults
	// to a time-seeded source; tests inject a fixed seed.
	Rand *rand.Rand
}

// New creates a Service with the given dependencies.
func New(opts Options) *Service {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{store: opts.Store, rng: rng}
}

// Close cleanly shuts down the service.
func (s *Service) Close() error {
	return s.store.Close()
}

// Next picks the content unit to show. With no interaction history it
// degrades to a uniform pick across all stored content; otherwise it draws a
// topic by diversity-adjusted preference weight and a random unit within it.
// A topic that turns out to have no content falls back to the uniform path.
//
// Returns ok=false when no content is stored at all; storage failures
// propagate unchanged and are never retried.
func (s *Service) Next(ctx context.Context) (content.Unit, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	aggs, err := s.store.InteractionAggregates(ctx)
	if err != nil {
		return content.Unit{}, false, err
	}

	prefs := selector.Preferences(aggs)
	if len(prefs) == 0 {
		return s.store.RandomContent(ctx)
	}

	recent, err := s.store.RecentTopics(ctx, selector.RecentWindow)
	if err != nil {
		return content.Unit{}, false, err
	}

	counts := make(map[topic.Topic]int64, len(topic.All()))
	for _, tp := range topic.All() {
		n, err := s.store.InteractionCountForTopic(ctx, tp)
		if err != nil {
			return content.Unit{}, false, err
		}
		counts[tp] = n
	}

	weights := selector.Weights(prefs, recent, counts)
	tp, ok := selector.Pick(s.rng, weights)
	if !ok {
		return s.store.RandomContent(ctx)
	}

	unit, ok, err := s.store.RandomContentForTopic(ctx, tp)
	if err != nil {
		return content.Unit{}, false, err
	}
	if !ok {
		// The drawn topic has nothing stored yet; retry unweighted.
		return s.store.RandomContent(ctx)
	}
	return unit, true, nil
}

// Record appends one interaction to the history.
func (s *Service) Record(ctx context.Context, i content.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.RecordInteraction(ctx, i)
}

// InsertContent stores a new content unit, assigning its ID.
func (s *Service) InsertContent(ctx context.Context, u *content.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.InsertContent(ctx, u)
}

// TopicStats describes one topic's stored content and history.
type TopicStats struct {
	Topic        topic.Topic `json:"topic"`
	DisplayName  string      `json:"display_name"`
	Content      int64       `json:"content"`
	Interactions int64       `json:"interactions"`
}

// Stats summarizes the stored corpus and interaction history.
type Stats struct {
	TotalContent      int64        `json:"total_content"`
	TotalInteractions int64        `json:"total_interactions"`
	Topics            []TopicStats `json:"topics"`
}

// Stats reports totals and per-topic breakdowns.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st Stats
	var err error

	if st.TotalContent, err = s.store.ContentCount(ctx); err != nil {
		return Stats{}, err
	}
	if st.TotalInteractions, err = s.store.InteractionCount(ctx); err != nil {
		return Stats{}, err
	}

	contentCounts, err := s.store.TopicContentCounts(ctx)
	if err != nil {
		return Stats{}, err
	}

	for _, tp := range topic.All() {
		n, err := s.store.InteractionCountForTopic(ctx, tp)
		if err != nil {
			return Stats{}, err
		}
		st.Topics = append(st.Topics, TopicStats{
			Topic:        tp,
			DisplayName:  tp.DisplayName(),
			Content:      contentCounts[tp],
			Interactions: n,
		})
	}
	return st, nil
}
