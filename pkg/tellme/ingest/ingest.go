// Package ingest turns raw article text into stored content units.
package ingest

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/xeij/tellme/pkg/tellme/content"
	"github.com/xeij/tellme/pkg/tellme/quality"
	"github.com/xeij/tellme/pkg/tellme/topic"
)

// Section assembly bounds, in bytes of raw text. Short sections get merged
// until they cross mergeTarget; anything below minSectionLen is noise.
const (
	minSectionLen = 30
	mergeTarget   = 400

	fullTextMin = 100
	fullTextMax = 3000
)

// Processor converts one article into displayable units.
type Processor struct {
	policy quality.Policy
}

// NewProcessor builds a processor; a nil policy keeps everything.
func NewProcessor(policy quality.Policy) *Processor {
	if policy == nil {
		policy = quality.AcceptAll{}
	}
	return &Processor{policy: policy}
}

// SkipTitle reports whether an article title is known to be useless
// (disambiguation hubs, list pages).
func SkipTitle(title string) bool {
	return strings.Contains(title, "disambiguation") || strings.Contains(title, "List of")
}

// Process builds suitable content units from article text. The whole text
// becomes one unit when it fits the display bounds; longer articles are
// split on blank lines and short sections merged back together. Units that
// fail the length check or the quality policy are dropped.
func (p *Processor) Process(tp topic.Topic, title, text, sourceURL string) []content.Unit {
	var units []content.Unit

	if len(text) > fullTextMin && len(text) < fullTextMax {
		full := content.NewUnit(tp, title, text, sourceURL)
		full.CleanBody()
		if full.SuitableLength() && p.policy.Keep(full) {
			return []content.Unit{full}
		}
	}

	var sections []string
	for _, s := range strings.Split(text, "\n\n") {
		s = strings.TrimSpace(s)
		if len(s) > minSectionLen {
			sections = append(sections, s)
		}
	}

	for i := 0; i < len(sections); {
		body := sections[i]

		j := i + 1
		for j < len(sections) && len(body) < mergeTarget {
			body += "\n\n" + sections[j]
			j++
		}

		u := content.NewUnit(tp, title, body, sourceURL)
		u.CleanBody()
		if u.SuitableLength() && p.policy.Keep(u) {
			units = append(units, u)
		}

		if j > i+1 {
			i = j
		} else {
			i++
		}
	}

	return units
}

// Source is the article lookup side of a fetch run; *wiki.Client satisfies it.
type Source interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
	Extract(ctx context.Context, title string) (text, sourceURL string, ok bool, err error)
	PageParagraphs(ctx context.Context, title string) (text, sourceURL string, ok bool, err error)
	Throttle(ctx context.Context)
}

// Inserter is the storage side of a fetch run.
type Inserter interface {
	InsertContent(ctx context.Context, u *content.Unit) error
}

// Runner walks topics, queries the source and stores what survives
// processing. Per-article failures are logged and skipped; the run keeps
// going.
type Runner struct {
	source      Source
	store       Inserter
	proc        *Processor
	log         zerolog.Logger
	searchLimit int
}

// NewRunner wires a fetch run.
func NewRunner(source Source, store Inserter, proc *Processor, log zerolog.Logger) *Runner {
	return &Runner{
		source:      source,
		store:       store,
		proc:        proc,
		log:         log,
		searchLimit: 50,
	}
}

// FetchTopic gathers up to target units for one topic and returns how many
// were stored.
func (r *Runner) FetchTopic(ctx context.Context, tp topic.Topic, target int) (int, error) {
	stored := 0

	for _, term := range tp.SearchTerms() {
		if stored >= target {
			break
		}

		titles, err := r.source.Search(ctx, term, r.searchLimit)
		if err != nil {
			if ctx.Err() != nil {
				return stored, ctx.Err()
			}
			r.log.Warn().Err(err).Str("term", term).Msg("search failed")
			continue
		}

		for _, title := range titles {
			if stored >= target {
				break
			}
			if ctx.Err() != nil {
				return stored, ctx.Err()
			}
			if SkipTitle(title) {
				continue
			}

			r.source.Throttle(ctx)

			text, sourceURL, ok, err := r.source.Extract(ctx, title)
			if err != nil {
				r.log.Warn().Err(err).Str("title", title).Msg("extract failed")
				continue
			}
			if !ok {
				text, sourceURL, ok, err = r.source.PageParagraphs(ctx, title)
				if err != nil || !ok {
					r.log.Debug().Str("title", title).Msg("no content found")
					continue
				}
			}

			for _, u := range r.proc.Process(tp, title, text, sourceURL) {
				if stored >= target {
					break
				}
				unit := u
				if err := r.store.InsertContent(ctx, &unit); err != nil {
					r.log.Warn().Err(err).Str("title", title).Msg("store failed")
					continue
				}
				stored++
			}
		}
	}

	r.log.Info().Str("topic", tp.String()).Int("units", stored).Msg("topic fetched")
	return stored, nil
}

// Run fetches every topic in shuffled order, pausing briefly between
// topics. Returns the total number of stored units.
func (r *Runner) Run(ctx context.Context, perTopic int) (int, error) {
	topics := append([]topic.Topic(nil), topic.All()...)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	rng.Shuffle(len(topics), func(i, j int) { topics[i], topics[j] = topics[j], topics[i] })

	total := 0
	for _, tp := range topics {
		n, err := r.FetchTopic(ctx, tp, perTopic)
		total += n
		if err != nil {
			return total, err
		}
		r.source.Throttle(ctx)
	}
	return total, nil
}
