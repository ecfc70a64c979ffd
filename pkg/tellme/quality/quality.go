// Package quality decides whether a candidate content unit is worth keeping
// at ingestion time. The heuristic is deliberately a replaceable policy:
// thresholds and word lists are data, not code.
package quality

import (
	"strings"

	"github.com/xeij/tellme/pkg/tellme/content"
)

// Policy judges candidate units before they are stored.
type Policy interface {
	Keep(u content.Unit) bool
}

// AcceptAll keeps every candidate. Used when no quality filtering is wanted.
type AcceptAll struct{}

// Keep implements Policy.
func (AcceptAll) Keep(content.Unit) bool { return true }

// KeywordPolicy scores a unit by counting hits from two word lists in the
// lowercased body: each engaging term adds one, each dull term subtracts
// one. Units scoring below MinScore are dropped.
type KeywordPolicy struct {
	Engaging []string
	Dull     []string
	MinScore int
}

// DefaultKeywordPolicy returns a permissive list-based policy. The lists
// are starting points; deployments override them in configuration.
func DefaultKeywordPolicy() KeywordPolicy {
	return KeywordPolicy{
		Engaging: []string{
			"mysterious", "unexplained", "discovered", "ancient", "secret",
			"remarkable", "unusual", "extraordinary", "famous", "legendary",
		},
		Dull: []string{
			"refer to", "may refer", "disambiguation", "is a list",
			"see also", "bibliography",
		},
		MinScore: 0,
	}
}

// Keep implements Policy.
func (p KeywordPolicy) Keep(u content.Unit) bool {
	body := strings.ToLower(u.Body)

	score := 0
	for _, term := range p.Engaging {
		score += strings.Count(body, strings.ToLower(term))
	}
	for _, term := range p.Dull {
		score -= strings.Count(body, strings.ToLower(term))
	}
	return score >= p.MinScore
}
