// Package picker chooses the next practice question from a learner's
// derived statistics and the question catalog.
package picker

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/abhisek/satprep/internal/analytics"
	"github.com/abhisek/satprep/internal/catalog"
)

// Catalog is the catalog lookup the picker needs. store.QuestionRepo
// satisfies it.
type Catalog interface {
	QueryQuestions(ctx context.Context, section catalog.Section, difficulty catalog.Difficulty) ([]catalog.Question, error)
}

// Config controls selection policy.
type Config struct {
	// WeakThreshold is the accuracy (percent) below which a section is weak.
	WeakThreshold float64

	// NoHistory picks the difficulty for learners without answers.
	NoHistory analytics.NoHistoryPolicy

	// Seed makes selection reproducible. Zero seeds from the runtime.
	Seed uint64
}

// DefaultConfig returns the standard policy: 70% weak threshold and no
// difficulty filter for new learners.
func DefaultConfig() Config {
	return Config{
		WeakThreshold: analytics.DefaultWeakThreshold,
		NoHistory:     analytics.NoHistoryAny,
	}
}

// Request describes one adaptive pick.
type Request struct {
	// Section is the section the caller asked for.
	Section catalog.Section

	// Summary is the learner's aggregate history; nil for a new learner.
	Summary *analytics.Summary

	// PreferWeak lets the picker replace Section with one of the learner's
	// weak sections when Section itself is not weak.
	PreferWeak bool
}

// Result is a selected question together with how it was chosen.
type Result struct {
	Question catalog.Question

	// Section and Difficulty are the targets the picker settled on.
	Section    catalog.Section
	Difficulty catalog.Difficulty

	// Overridden is true when Section differs from the requested one
	// because of PreferWeak.
	Overridden bool

	// Relaxed is true when no question matched the target difficulty and
	// the difficulty filter was dropped.
	Relaxed bool
}

// Picker selects questions. It is safe for concurrent use.
type Picker struct {
	catalog  Catalog
	config   Config
	selector analytics.DifficultySelector

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Picker over the given catalog.
func New(c Catalog, cfg Config) *Picker {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	if cfg.WeakThreshold <= 0 {
		cfg.WeakThreshold = analytics.DefaultWeakThreshold
	}
	return &Picker{
		catalog:  c,
		config:   cfg,
		selector: analytics.DifficultySelector{NoHistory: cfg.NoHistory},
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Pick chooses a question for req. It returns nil (and no error) when the
// catalog has nothing for the target section; errors are catalog failures.
func (p *Picker) Pick(ctx context.Context, req Request) (*Result, error) {
	section, overridden := p.targetSection(req)
	difficulty := p.selector.Select(req.Summary)

	return p.pick(ctx, section, difficulty, overridden)
}

// PickFixed chooses uniformly among questions of section at difficulty,
// relaxing the difficulty filter when nothing matches.
func (p *Picker) PickFixed(ctx context.Context, section catalog.Section, difficulty catalog.Difficulty) (*Result, error) {
	return p.pick(ctx, section, difficulty, false)
}

func (p *Picker) pick(ctx context.Context, section catalog.Section, difficulty catalog.Difficulty, overridden bool) (*Result, error) {
	candidates, err := p.catalog.QueryQuestions(ctx, section, difficulty)
	if err != nil {
		return nil, fmt.Errorf("query %s/%s: %w", section, difficulty, err)
	}

	relaxed := false
	if len(candidates) == 0 && difficulty != catalog.DifficultyAny {
		candidates, err = p.catalog.QueryQuestions(ctx, section, catalog.DifficultyAny)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", section, err)
		}
		relaxed = true
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	return &Result{
		Question:   candidates[p.intN(len(candidates))],
		Section:    section,
		Difficulty: difficulty,
		Overridden: overridden,
		Relaxed:    relaxed,
	}, nil
}

// targetSection applies the weak-area override when it is enabled. The
// override always moves to the weakest section.
func (p *Picker) targetSection(req Request) (catalog.Section, bool) {
	if !req.PreferWeak || req.Summary == nil {
		return req.Section, false
	}

	weak := analytics.WeakSections(analytics.RankWeakAreas(req.Summary.Sections), p.config.WeakThreshold)
	if len(weak) == 0 || slices.Contains(weak, req.Section) {
		return req.Section, false
	}

	return weak[0], true
}

func (p *Picker) intN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}
