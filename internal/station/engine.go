package station

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/tunedial/station/internal/vibes"
)

// Engine composes the scorer and sequencer into the full generation
// pipeline: catalog + request -> scored selection -> ordered session.
// Generation never fails; degenerate inputs yield an empty session.
type Engine struct {
	scorer     *Scorer
	sequencer  *Sequencer
	targetSize int
}

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	tables     *vibes.Tables
	rng        *rand.Rand
	now        func() time.Time
	targetSize int
}

// WithTables sets the relationship tables used for related-tag scoring.
func WithTables(t *vibes.Tables) EngineOption {
	return func(c *engineConfig) {
		if t != nil {
			c.tables = t
		}
	}
}

// WithRand sets the random source shared by the scorer and sequencer.
// Fixing the seed makes generation fully deterministic for tests.
func WithRand(r *rand.Rand) EngineOption {
	return func(c *engineConfig) {
		if r != nil {
			c.rng = r
		}
	}
}

// WithClock overrides the clock used for recency scoring.
func WithClock(now func() time.Time) EngineOption {
	return func(c *engineConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithTargetSize sets the session size cap.
func WithTargetSize(n int) EngineOption {
	return func(c *engineConfig) {
		if n > 0 {
			c.targetSize = n
		}
	}
}

// NewEngine creates an engine with the compiled-in tables and a
// time-seeded random source unless overridden.
func NewEngine(opts ...EngineOption) *Engine {
	cfg := engineConfig{
		tables:     vibes.Default(),
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:        time.Now,
		targetSize: DefaultTargetSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Engine{
		scorer: NewScorer(cfg.tables,
			WithScorerRand(cfg.rng),
			WithScorerClock(cfg.now),
			WithScorerTargetSize(cfg.targetSize),
		),
		sequencer:  NewSequencer(WithSequencerRand(cfg.rng)),
		targetSize: cfg.targetSize,
	}
}

// TargetSize returns the configured session size cap.
func (e *Engine) TargetSize() int {
	return e.targetSize
}

// Generate runs one full generation. The returned history set holds the
// ids of the new session; the caller must replace its stored history
// with it before the next call. An empty session means no candidate
// matched the selected tags; falling back to global shuffle is a caller
// policy, not the engine's.
func (e *Engine) Generate(catalog []Track, req Request) Result {
	selection := e.scorer.Select(catalog, req)
	ordered := e.sequencer.Sequence(selection, req.Seed)

	// A seed that was not part of the selection can push the session
	// one past the cap.
	if len(ordered) > e.targetSize {
		ordered = ordered[:e.targetSize]
	}

	history := make(map[string]bool, len(ordered))
	for _, t := range ordered {
		history[t.ID] = true
	}

	return Result{
		Session: Session{
			ID:     uuid.NewString(),
			Tracks: ordered,
		},
		History: history,
	}
}

// Rank exposes raw per-track scores for the current request, preserving
// catalog order. Used by debugging surfaces and tests.
func (e *Engine) Rank(catalog []Track, req Request) []ScoredTrack {
	return e.scorer.Rank(catalog, req)
}
