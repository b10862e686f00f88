package station

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/tunedial/station/internal/vibes"
)

// Match tier points. Each selected tag contributes its single best tier
// found among the track's tags.
const (
	tierExactPoints     = 100
	tierSubstringPoints = 75
	tierRelatedPoints   = 40
)

// Bonus and tie-break tuning.
const (
	keywordBonus      = 25.0
	synergyMultiplier = 1.3

	orderWeightStep = 0.1
	orderWeightMin  = 0.5

	playsWeight = 0.01
	viewsWeight = 0.005

	recencyMaxPoints  = 50.0
	recencyWindowDays = 30.0

	scoreJitterMax = 15.0
)

// Scorer ranks catalog tracks against a request's selected tags.
// It never returns an error: bad records are skipped and an empty
// catalog yields an empty result.
type Scorer struct {
	tables     *vibes.Tables
	rng        *rand.Rand
	now        func() time.Time
	targetSize int
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithScorerRand sets the random source used for tie-break jitter and
// global-shuffle sampling. Tests fix this to get reproducible output.
func WithScorerRand(r *rand.Rand) ScorerOption {
	return func(s *Scorer) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithScorerClock overrides the clock used for recency decay.
func WithScorerClock(now func() time.Time) ScorerOption {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithScorerTargetSize sets the selection size.
func WithScorerTargetSize(n int) ScorerOption {
	return func(s *Scorer) {
		if n > 0 {
			s.targetSize = n
		}
	}
}

// NewScorer creates a scorer backed by the given relationship tables.
// A nil tables argument falls back to the compiled-in defaults.
func NewScorer(tables *vibes.Tables, opts ...ScorerOption) *Scorer {
	if tables == nil {
		tables = vibes.Default()
	}
	s := &Scorer{
		tables:     tables,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:        time.Now,
		targetSize: DefaultTargetSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rank scores every catalog track against the request. Tracks with an
// empty id are skipped. The result preserves catalog order.
func (s *Scorer) Rank(catalog []Track, req Request) []ScoredTrack {
	selected := normalizeSelected(req.SelectedTags)

	ranked := make([]ScoredTrack, 0, len(catalog))
	for _, t := range catalog {
		if t.ID == "" {
			continue
		}
		ranked = append(ranked, ScoredTrack{
			Track: t,
			Score: s.scoreTrack(t, selected, req.HistoryIDs),
		})
	}
	return ranked
}

// Select picks the session candidates. In tag mode that is the
// highest-scoring tracks with a positive score; in global-shuffle mode
// (no selected tags) it is a uniform sample of the whole catalog.
// Duplicate ids keep their first occurrence only.
func (s *Scorer) Select(catalog []Track, req Request) []Track {
	if len(normalizeSelected(req.SelectedTags)) == 0 {
		return s.sampleGlobal(catalog)
	}

	ranked := s.Rank(catalog, req)

	candidates := ranked[:0]
	for _, st := range ranked {
		if st.Score > 0 {
			candidates = append(candidates, st)
		}
	}

	slices.SortStableFunc(candidates, func(a, b ScoredTrack) int {
		return cmp.Compare(b.Score, a.Score)
	})

	seen := make(map[string]bool, s.targetSize)
	selection := make([]Track, 0, s.targetSize)
	for _, st := range candidates {
		if seen[st.Track.ID] {
			continue
		}
		seen[st.Track.ID] = true
		selection = append(selection, st.Track)
		if len(selection) == s.targetSize {
			break
		}
	}
	return selection
}

// scoreTrack computes the final score for one track. A track whose tag
// relevance (including the keyword bonus) is zero scores zero overall, so
// popularity and jitter can never promote a non-match into the selection.
func (s *Scorer) scoreTrack(t Track, selected []string, history map[string]bool) float64 {
	// History is a hard exclusion in tag mode only.
	if len(selected) > 0 && history[t.ID] {
		return 0
	}

	trackTags := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		if n := vibes.Normalize(tag); n != "" {
			trackTags = append(trackTags, n)
		}
	}

	var tagScore float64
	matched := 0
	for i, sel := range selected {
		best := s.bestTier(sel, trackTags)
		if best == 0 {
			continue
		}
		matched++
		weight := 1 - orderWeightStep*float64(i)
		if weight < orderWeightMin {
			weight = orderWeightMin
		}
		tagScore += best * weight
	}

	if matched > 1 {
		tagScore *= synergyMultiplier
	}

	relevance := tagScore
	if s.keywordHit(t, selected) {
		relevance += keywordBonus
	}
	if relevance <= 0 {
		return 0
	}

	relevance += float64(t.Plays)*playsWeight + float64(t.Views)*viewsWeight
	relevance += s.recency(t.CreatedAt)
	relevance += s.rng.Float64() * scoreJitterMax

	return relevance
}

// bestTier returns the highest tier points the selected tag earns against
// any of the track's normalized tags, or 0 when nothing matches.
func (s *Scorer) bestTier(sel string, trackTags []string) float64 {
	var best float64
	for _, tt := range trackTags {
		var points float64
		switch {
		case sel == tt:
			points = tierExactPoints
		case len(sel) > 2 && len(tt) > 2 &&
			(contains(sel, tt) || contains(tt, sel)):
			points = tierSubstringPoints
		case s.tables.Related(sel, tt):
			points = tierRelatedPoints
		}
		if points > best {
			best = points
			if best == tierExactPoints {
				break
			}
		}
	}
	return best
}

// keywordHit reports whether any selected tag appears inside the track's
// normalized title or lyrics.
func (s *Scorer) keywordHit(t Track, selected []string) bool {
	if len(selected) == 0 {
		return false
	}
	title := vibes.Normalize(t.Title)
	lyrics := vibes.Normalize(t.Lyrics)
	for _, sel := range selected {
		if sel == "" {
			continue
		}
		if contains(title, sel) || contains(lyrics, sel) {
			return true
		}
	}
	return false
}

// recency returns points decaying linearly from recencyMaxPoints at
// creation to zero after recencyWindowDays. A zero CreatedAt is treated
// as epoch, which decays to nothing.
func (s *Scorer) recency(createdAt time.Time) float64 {
	days := s.now().Sub(createdAt).Hours() / 24
	if days < 0 {
		days = 0
	}
	points := recencyMaxPoints - days*(recencyMaxPoints/recencyWindowDays)
	if points < 0 {
		return 0
	}
	return points
}

// sampleGlobal draws a uniform sample of targetSize distinct tracks from
// the whole catalog, ignoring scores and history.
func (s *Scorer) sampleGlobal(catalog []Track) []Track {
	valid := make([]Track, 0, len(catalog))
	seen := make(map[string]bool, len(catalog))
	for _, t := range catalog {
		if t.ID == "" || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		valid = append(valid, t)
	}

	perm := s.rng.Perm(len(valid))
	n := min(s.targetSize, len(valid))
	selection := make([]Track, 0, n)
	for _, idx := range perm[:n] {
		selection = append(selection, valid[idx])
	}
	return selection
}

// normalizeSelected normalizes the selected tags, drops empties, and caps
// the list at MaxSelectedTags while preserving priority order.
func normalizeSelected(tags []string) []string {
	out := make([]string, 0, MaxSelectedTags)
	for _, tag := range tags {
		n := vibes.Normalize(tag)
		if n == "" {
			continue
		}
		out = append(out, n)
		if len(out) == MaxSelectedTags {
			break
		}
	}
	return out
}

func contains(haystack, needle string) bool {
	return needle != "" && haystack != "" && strings.Contains(haystack, needle)
}
