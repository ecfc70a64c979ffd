// Package selector implements topic preference scoring and diversity-weighted
// random topic selection.
//
// Scoring is a pure function over a snapshot of history: preference ratios,
// the recently shown topics and per-topic interaction totals go in, one
// weight per registry topic comes out. The weighted draw iterates topics in
// stable identifier order so that a seeded RNG reproduces the same picks.
package selector

import (
	"math/rand"

	"github.com/xeij/tellme/pkg/tellme/content"
	"github.com/xeij/tellme/pkg/tellme/store"
	"github.com/xeij/tellme/pkg/tellme/topic"
)

// Scoring constants.
const (
	// DefaultBase is the preference assumed for a topic with no history.
	// Sitting above a disliked topic's ratio, it favors trying unrated
	// topics over repeating ones the user skips.
	DefaultBase = 0.3

	// ExplorationBonus is added for topics with fewer than
	// ExplorationThreshold interactions.
	ExplorationBonus     = 0.2
	ExplorationThreshold = 3

	// MinWeight is the score floor; no topic is ever unreachable.
	MinWeight = 0.05

	// RecentWindow is how many recently shown topics carry a penalty.
	RecentWindow = 5
)

// recencyPenalty maps position in the recent-topics list (most recent first)
// to a multiplicative factor.
var recencyPenalty = [RecentWindow]float64{0.1, 0.3, 0.6, 0.8, 0.9}

// Preferences computes each topic's completion ratio from interaction
// aggregates: fully read / (fully read + skipped). Topics with no
// interactions are omitted rather than scored zero. Scores are always in
// [0, 1]; an empty history yields an empty map.
func Preferences(aggs []store.TopicOutcomeCount) map[topic.Topic]float64 {
	type tally struct {
		read, skipped int64
	}

	counts := make(map[topic.Topic]tally)
	for _, a := range aggs {
		t := counts[a.Topic]
		if a.Outcome == content.OutcomeFullyRead {
			t.read += a.Count
		} else {
			t.skipped += a.Count
		}
		counts[a.Topic] = t
	}

	prefs := make(map[topic.Topic]float64, len(counts))
	for tp, t := range counts {
		total := t.read + t.skipped
		if total > 0 {
			prefs[tp] = float64(t.read) / float64(total)
		}
	}
	return prefs
}

// Weight is a topic's computed selection weight.
type Weight struct {
	Topic topic.Topic
	Score float64
}

// Weights combines preference scores, recency penalties and exploration
// bonuses into one weight per registry topic, in stable identifier order.
//
// For each topic: start from its preference ratio (DefaultBase when
// unrated), multiply by the recency factor for its most recent position in
// recent, add ExplorationBonus when its total interaction count is below
// ExplorationThreshold, then clamp to MinWeight.
func Weights(prefs map[topic.Topic]float64, recent []topic.Topic, interactions map[topic.Topic]int64) []Weight {
	if len(recent) > RecentWindow {
		recent = recent[:RecentWindow]
	}

	weights := make([]Weight, 0, len(topic.All()))
	for _, tp := range topic.All() {
		score, ok := prefs[tp]
		if !ok {
			score = DefaultBase
		}

		for i, r := range recent {
			if r == tp {
				score *= recencyPenalty[i]
				break
			}
		}

		if interactions[tp] < ExplorationThreshold {
			score += ExplorationBonus
		}

		if score < MinWeight {
			score = MinWeight
		}

		weights = append(weights, Weight{Topic: tp, Score: score})
	}
	return weights
}

// Pick draws one topic at random, with probability proportional to its
// weight. Returns false only for an empty or zero-total weight list.
func Pick(rng *rand.Rand, weights []Weight) (topic.Topic, bool) {
	var total float64
	for _, w := range weights {
		total += w.Score
	}
	if total <= 0 {
		return "", false
	}

	remaining := rng.Float64() * total
	for _, w := range weights {
		remaining -= w.Score
		if remaining <= 0 {
			return w.Topic, true
		}
	}

	// Float residue can leave a sliver of remaining; the draw still lands
	// on the last positive-weight topic.
	return weights[len(weights)-1].Topic, true
}
