package quality

import (
	"testing"

	"github.com/xeij/tellme/pkg/tellme/content"
	"github.com/xeij/tellme/pkg/tellme/topic"
)

func unit(body string) content.Unit {
	return content.NewUnit(topic.Facts, "t", body, "")
}

func TestAcceptAll(t *testing.T) {
	if !(AcceptAll{}).Keep(unit("anything at all")) {
		t.Error("AcceptAll must keep everything")
	}
}

func TestKeywordPolicyScoring(t *testing.T) {
	p := KeywordPolicy{
		Engaging: []string{"mysterious"},
		Dull:     []string{"may refer"},
		MinScore: 0,
	}

	tests := []struct {
		name string
		body string
		want bool
	}{
		{"neutral", "plain text without hits", true},
		{"engaging", "a mysterious signal", true},
		{"dull", "This term may refer to several things.", false},
		{"dull outweighed", "mysterious topics may refer elsewhere, mysterious indeed", true},
		{"case insensitive", "MYSTERIOUS events; this May Refer to both", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Keep(unit(tt.body)); got != tt.want {
				t.Errorf("Keep(%q) = %v, want %v", tt.body, got, tt.want)
			}
		})
	}
}

func TestKeywordPolicyMinScore(t *testing.T) {
	p := KeywordPolicy{Engaging: []string{"ancient"}, MinScore: 2}

	if p.Keep(unit("one ancient ruin")) {
		t.Error("single hit must not reach MinScore 2")
	}
	if !p.Keep(unit("ancient walls of an ancient city")) {
		t.Error("two hits reach MinScore 2")
	}
}

func TestDefaultKeywordPolicyIsPermissive(t *testing.T) {
	p := DefaultKeywordPolicy()
	if !p.Keep(unit("An ordinary paragraph about weather patterns.")) {
		t.Error("default policy must keep neutral text")
	}
}
