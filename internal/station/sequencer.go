package station

import (
	"math/rand/v2"

	"github.com/tunedial/station/internal/vibes"
)

// Pairwise flow scores by shared normalized tag count. The curve is
// deliberately non-monotonic: one or two shared tags make a smooth
// transition, zero is jarring, and near-total overlap is monotonous.
const (
	flowNoOverlap      = 10.0
	flowIdealOverlap   = 100.0
	flowStrongOverlap  = 90.0
	flowHeavyOverlap   = 60.0
	flowTotalOverlap   = 40.0
	flowSameArtist     = -80.0
	flowRecentArtist   = -40.0
	flowDiscoveryBoost = 15.0
	flowJitterMax      = 20.0

	// Tracks below this play count get the discovery boost.
	discoveryPlayCeiling = 100
)

// Sequencer reorders a scored selection into a session with artist
// spacing and smooth tag-overlap transitions.
type Sequencer struct {
	rng *rand.Rand
}

// SequencerOption configures a Sequencer.
type SequencerOption func(*Sequencer)

// WithSequencerRand sets the random source used for the starting pick
// and per-candidate jitter.
func WithSequencerRand(r *rand.Rand) SequencerOption {
	return func(q *Sequencer) {
		if r != nil {
			q.rng = r
		}
	}
}

// NewSequencer creates a sequencer.
func NewSequencer(opts ...SequencerOption) *Sequencer {
	q := &Sequencer{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Sequence returns a permutation of the selection ordered for smooth
// transitions. Selections of two or fewer tracks are returned as-is.
// When a seed track is given it is removed from the body if present and
// always placed first.
func (q *Sequencer) Sequence(selection []Track, seed *Track) []Track {
	var ordered []Track
	if len(selection) <= 2 {
		ordered = append([]Track(nil), selection...)
	} else {
		ordered = q.greedyOrder(selection)
	}

	if seed != nil && seed.ID != "" {
		ordered = prependSeed(ordered, *seed)
	}
	return ordered
}

// greedyOrder places tracks one at a time, always picking the unused
// candidate with the best adjusted flow score against the current track.
func (q *Sequencer) greedyOrder(selection []Track) []Track {
	n := len(selection)
	tagSets := make([]map[string]bool, n)
	for i, t := range selection {
		set := make(map[string]bool, len(t.Tags))
		for _, tag := range t.Tags {
			if norm := vibes.Normalize(tag); norm != "" {
				set[norm] = true
			}
		}
		tagSets[i] = set
	}

	used := make([]bool, n)
	ordered := make([]Track, 0, n)

	start := q.rng.IntN(n)
	used[start] = true
	ordered = append(ordered, selection[start])
	current := start

	for len(ordered) < n {
		best := -1
		bestScore := 0.0
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			score := flowScore(sharedTags(tagSets[current], tagSets[i]))
			score += q.artistPenalty(selection[i].ArtistAddress, ordered)
			if selection[i].Plays < discoveryPlayCeiling {
				score += flowDiscoveryBoost
			}
			score += q.rng.Float64() * flowJitterMax

			if best == -1 || score > bestScore {
				best = i
				bestScore = score
			}
		}
		if best == -1 {
			break
		}
		used[best] = true
		ordered = append(ordered, selection[best])
		current = best
	}

	return ordered
}

// artistPenalty discourages artist clustering: a candidate sharing the
// immediately preceding track's artist is penalized hardest, one whose
// artist appeared two tracks back less so. Empty artist identifiers
// never count as the same artist.
func (q *Sequencer) artistPenalty(artist string, ordered []Track) float64 {
	if artist == "" {
		return 0
	}
	last := len(ordered) - 1
	if ordered[last].ArtistAddress == artist {
		return flowSameArtist
	}
	if last >= 1 && ordered[last-1].ArtistAddress == artist {
		return flowRecentArtist
	}
	return 0
}

// flowScore maps a shared-tag count onto the transition quality curve.
func flowScore(shared int) float64 {
	switch shared {
	case 0:
		return flowNoOverlap
	case 1:
		return flowIdealOverlap
	case 2:
		return flowStrongOverlap
	case 3:
		return flowHeavyOverlap
	default:
		return flowTotalOverlap
	}
}

// sharedTags counts normalized tags present in both sets.
func sharedTags(a, b map[string]bool) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	count := 0
	for tag := range a {
		if b[tag] {
			count++
		}
	}
	return count
}

// prependSeed removes any occurrence of the seed from the sequence and
// places it first, so the seed always plays first.
func prependSeed(ordered []Track, seed Track) []Track {
	out := make([]Track, 0, len(ordered)+1)
	out = append(out, seed)
	for _, t := range ordered {
		if t.ID == seed.ID {
			continue
		}
		out = append(out, t)
	}
	return out
}
