package selector

import (
	"math"
	"math/rand"
	"testing"

	"github.com/xeij/tellme/pkg/tellme/content"
	"github.com/xeij/tellme/pkg/tellme/store"
	"github.com/xeij/tellme/pkg/tellme/topic"
)

func agg(t topic.Topic, o content.Outcome, n int64) store.TopicOutcomeCount {
	return store.TopicOutcomeCount{Topic: t, Outcome: o, Count: n}
}

func scoreFor(t *testing.T, weights []Weight, tp topic.Topic) float64 {
	t.Helper()
	for _, w := range weights {
		if w.Topic == tp {
			return w.Score
		}
	}
	t.Fatalf("topic %s missing from weights", tp)
	return 0
}

func TestPreferencesRatio(t *testing.T) {
	prefs := Preferences([]store.TopicOutcomeCount{
		agg(topic.History, content.OutcomeFullyRead, 3),
		agg(topic.History, content.OutcomeSkipped, 1),
		agg(topic.Science, content.OutcomeSkipped, 5),
		agg(topic.Facts, content.OutcomeFullyRead, 2),
	})

	if got := prefs[topic.History]; got != 0.75 {
		t.Errorf("history = %f, want 0.75", got)
	}
	if got := prefs[topic.Science]; got != 0.0 {
		t.Errorf("science = %f, want 0", got)
	}
	if got := prefs[topic.Facts]; got != 1.0 {
		t.Errorf("facts = %f, want 1", got)
	}
}

func TestPreferencesOmitsUntouchedTopics(t *testing.T) {
	prefs := Preferences([]store.TopicOutcomeCount{
		agg(topic.History, content.OutcomeFullyRead, 1),
	})

	if len(prefs) != 1 {
		t.Errorf("expected only history, got %v", prefs)
	}
	if _, ok := prefs[topic.Science]; ok {
		t.Error("topic with zero interactions must be absent, not zero")
	}
}

func TestPreferencesRange(t *testing.T) {
	histories := [][]store.TopicOutcomeCount{
		nil,
		{agg(topic.Crimes, content.OutcomeFullyRead, 1000)},
		{agg(topic.Crimes, content.OutcomeSkipped, 1000)},
		{
			agg(topic.Crimes, content.OutcomeFullyRead, 7),
			agg(topic.Crimes, content.OutcomeSkipped, 13),
		},
	}

	for _, h := range histories {
		for tp, score := range Preferences(h) {
			if score < 0 || score > 1 {
				t.Errorf("score for %s out of [0,1]: %f", tp, score)
			}
		}
	}
	if got := Preferences(nil); len(got) != 0 {
		t.Errorf("empty history must yield empty map, got %v", got)
	}
}

// manyInteractions marks every topic as fully explored so the exploration
// bonus does not obscure what a test is checking.
func manyInteractions() map[topic.Topic]int64 {
	m := make(map[topic.Topic]int64)
	for _, tp := range topic.All() {
		m[tp] = 10
	}
	return m
}

func TestWeightsRecencyPenalty(t *testing.T) {
	prefs := map[topic.Topic]float64{topic.History: 1.0}

	weights := Weights(prefs, []topic.Topic{topic.History}, manyInteractions())
	got := scoreFor(t, weights, topic.History)
	if math.Abs(got-0.1) > 1e-12 {
		t.Errorf("most recent topic score = %f, want exactly 0.1", got)
	}
}

func TestWeightsRecencyPositions(t *testing.T) {
	recent := []topic.Topic{
		topic.Civilizations, topic.Conspiracies, topic.Crimes, topic.Facts, topic.History,
	}
	prefs := make(map[topic.Topic]float64)
	for _, tp := range recent {
		prefs[tp] = 1.0
	}

	weights := Weights(prefs, recent, manyInteractions())
	wants := []float64{0.1, 0.3, 0.6, 0.8, 0.9}
	for i, tp := range recent {
		got := scoreFor(t, weights, tp)
		if math.Abs(got-wants[i]) > 1e-12 {
			t.Errorf("position %d score = %f, want %f", i, got, wants[i])
		}
	}
}

func TestWeightsDefaultAndExplorationBonus(t *testing.T) {
	// Unrated, unexplored topic: 0.3 default + 0.2 bonus.
	weights := Weights(nil, nil, map[topic.Topic]int64{})
	for _, w := range weights {
		if math.Abs(w.Score-0.5) > 1e-12 {
			t.Errorf("%s score = %f, want 0.5", w.Topic, w.Score)
		}
	}

	// At the threshold the bonus no longer applies.
	counts := manyInteractions()
	counts[topic.Facts] = ExplorationThreshold
	counts[topic.History] = ExplorationThreshold - 1
	weights = Weights(nil, nil, counts)
	if got := scoreFor(t, weights, topic.Facts); math.Abs(got-0.3) > 1e-12 {
		t.Errorf("facts score = %f, want 0.3", got)
	}
	if got := scoreFor(t, weights, topic.History); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("history score = %f, want 0.5", got)
	}
}

func TestWeightsFloor(t *testing.T) {
	// A hated topic just shown: 0.0 * 0.1 = 0, clamped to the floor.
	prefs := map[topic.Topic]float64{topic.Conspiracies: 0.0}
	weights := Weights(prefs, []topic.Topic{topic.Conspiracies}, manyInteractions())

	if got := scoreFor(t, weights, topic.Conspiracies); got != MinWeight {
		t.Errorf("score = %f, want floor %f", got, MinWeight)
	}
}

func TestWeightsRecentlyShownStaysSelectable(t *testing.T) {
	// Base 1.0 shown at position 0 drops to 0.1, still above the floor.
	prefs := map[topic.Topic]float64{topic.Science: 1.0}
	weights := Weights(prefs, []topic.Topic{topic.Science}, manyInteractions())

	got := scoreFor(t, weights, topic.Science)
	if math.Abs(got-0.1) > 1e-12 || got <= MinWeight {
		t.Errorf("score = %f, want 0.1 (> floor %f)", got, MinWeight)
	}
}

func TestWeightsStableOrder(t *testing.T) {
	weights := Weights(nil, nil, nil)
	for i, tp := range topic.All() {
		if weights[i].Topic != tp {
			t.Fatalf("weights[%d] = %s, want %s", i, weights[i].Topic, tp)
		}
	}
}

func TestPickProportionalAndComplete(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	// One heavily preferred topic, everything else at the floor.
	prefs := map[topic.Topic]float64{topic.History: 1.0}
	for _, tp := range topic.All() {
		if tp != topic.History {
			prefs[tp] = 0.0
		}
	}
	weights := Weights(prefs, nil, manyInteractions())

	const trials = 20000
	picks := make(map[topic.Topic]int)
	for i := 0; i < trials; i++ {
		tp, ok := Pick(rng, weights)
		if !ok {
			t.Fatal("pick failed on positive weights")
		}
		picks[tp]++
	}

	// Every floor topic must still be drawn a nonzero number of times.
	for _, tp := range topic.All() {
		if picks[tp] == 0 {
			t.Errorf("topic %s never selected despite positive weight", tp)
		}
	}

	// history has weight 1.0 against nine topics at 0.05: expect ~69%.
	ratio := float64(picks[topic.History]) / trials
	if ratio < 0.6 || ratio > 0.8 {
		t.Errorf("history pick ratio = %f, want around 0.69", ratio)
	}
}

func TestPickFavorsHigherScoreButNotExclusively(t *testing.T) {
	// Topic A: 10 reads, no skips, not recent -> base 1.0.
	// Topic B: untouched -> 0.3 default + 0.2 bonus = 0.5.
	aggs := []store.TopicOutcomeCount{agg(topic.Facts, content.OutcomeFullyRead, 10)}
	prefs := Preferences(aggs)
	counts := map[topic.Topic]int64{topic.Facts: 10}

	weights := Weights(prefs, nil, counts)
	if got := scoreFor(t, weights, topic.Facts); math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("topic A score = %f, want 1.0", got)
	}
	if got := scoreFor(t, weights, topic.History); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("topic B score = %f, want 0.5", got)
	}

	rng := rand.New(rand.NewSource(7))
	const trials = 20000
	picks := make(map[topic.Topic]int)
	for i := 0; i < trials; i++ {
		tp, _ := Pick(rng, weights)
		picks[tp]++
	}

	if picks[topic.Facts] <= picks[topic.History] {
		t.Errorf("A (%d) should be picked more often than B (%d)",
			picks[topic.Facts], picks[topic.History])
	}
	if picks[topic.History] == 0 {
		t.Error("B must be selected a nonzero fraction of the time")
	}
}

func TestPickDeterministicForSeed(t *testing.T) {
	weights := Weights(nil, nil, nil)

	first := make([]topic.Topic, 50)
	rng := rand.New(rand.NewSource(99))
	for i := range first {
		first[i], _ = Pick(rng, weights)
	}

	rng = rand.New(rand.NewSource(99))
	for i := range first {
		tp, _ := Pick(rng, weights)
		if tp != first[i] {
			t.Fatalf("draw %d differs for identical seed: %s != %s", i, tp, first[i])
		}
	}
}

func TestPickEmptyWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, ok := Pick(rng, nil); ok {
		t.Error("pick over no weights must report failure")
	}
	if _, ok := Pick(rng, []Weight{{Topic: topic.Facts, Score: 0}}); ok {
		t.Error("pick over zero total weight must report failure")
	}
}
