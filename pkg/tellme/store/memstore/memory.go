// Package memstore provides an in-memory store.Store for tests.
package memstore

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/xeij/tellme/pkg/tellme/content"
	"github.com/xeij/tellme/pkg/tellme/store"
	"github.com/xeij/tellme/pkg/tellme/topic"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu           sync.RWMutex
	rng          *rand.Rand
	nextID       int64
	units        []content.Unit
	interactions []content.Interaction
}

// New creates an empty in-memory store.
func New() *Store {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates a store whose random picks use the given source,
// which makes test runs reproducible.
func NewWithRand(rng *rand.Rand) *Store {
	return &Store{rng: rng, nextID: 1}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// InsertContent assigns the next ID and keeps the unit.
func (s *Store) InsertContent(ctx context.Context, u *content.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.ID = s.nextID
	s.nextID++
	s.units = append(s.units, *u)
	return nil
}

// RandomContent returns a uniformly random unit across all topics.
func (s *Store) RandomContent(ctx context.Context) (content.Unit, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.units) == 0 {
		return content.Unit{}, false, nil
	}
	return s.units[s.rng.Intn(len(s.units))], true, nil
}

// RandomContentForTopic returns a uniformly random unit for one topic.
func (s *Store) RandomContentForTopic(ctx context.Context, t topic.Topic) (content.Unit, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matching []content.Unit
	for _, u := range s.units {
		if u.Topic == t {
			matching = append(matching, u)
		}
	}
	if len(matching) == 0 {
		return content.Unit{}, false, nil
	}
	return matching[s.rng.Intn(len(matching))], true, nil
}

// ContentCount returns the number of stored units.
func (s *Store) ContentCount(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.units)), nil
}

// TopicContentCounts returns the number of stored units per topic.
func (s *Store) TopicContentCounts(ctx context.Context) (map[topic.Topic]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[topic.Topic]int64)
	for _, u := range s.units {
		counts[u.Topic]++
	}
	return counts, nil
}

// RecordInteraction appends an interaction.
func (s *Store) RecordInteraction(ctx context.Context, i content.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions = append(s.interactions, i)
	return nil
}

// InteractionCount returns the total number of interactions.
func (s *Store) InteractionCount(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.interactions)), nil
}

// InteractionCountForTopic counts interactions whose content belongs to t.
func (s *Store) InteractionCountForTopic(ctx context.Context, t topic.Topic) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	topics := s.topicByContentID()
	var n int64
	for _, i := range s.interactions {
		if topics[i.ContentID] == t {
			n++
		}
	}
	return n, nil
}

// RecentTopics returns the topics of the most recent interactions, newest
// first. Append order is recency order here.
func (s *Store) RecentTopics(ctx context.Context, limit int) ([]topic.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	topics := s.topicByContentID()
	var recent []topic.Topic
	for i := len(s.interactions) - 1; i >= 0 && len(recent) < limit; i-- {
		if t, ok := topics[s.interactions[i].ContentID]; ok {
			recent = append(recent, t)
		}
	}
	return recent, nil
}

// InteractionAggregates groups interactions by (topic, outcome).
func (s *Store) InteractionAggregates(ctx context.Context) ([]store.TopicOutcomeCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type key struct {
		t topic.Topic
		o content.Outcome
	}
	topics := s.topicByContentID()
	counts := make(map[key]int64)
	for _, i := range s.interactions {
		t, ok := topics[i.ContentID]
		if !ok {
			continue
		}
		counts[key{t, i.Outcome}]++
	}

	aggs := make([]store.TopicOutcomeCount, 0, len(counts))
	for k, n := range counts {
		aggs = append(aggs, store.TopicOutcomeCount{Topic: k.t, Outcome: k.o, Count: n})
	}
	return aggs, nil
}

// topicByContentID builds the content-id to topic index. Callers hold the lock.
func (s *Store) topicByContentID() map[int64]topic.Topic {
	m := make(map[int64]topic.Topic, len(s.units))
	for _, u := range s.units {
		m[u.ID] = u.Topic
	}
	return m
}
