// Package station implements the playlist generation engine: tag relevance
// scoring, flow-aware sequencing, and the session assembly that ties them
// together. The engine is pure computation over an in-memory catalog; the
// only state that crosses calls is the caller-owned history id set.
package station

import (
	"time"

	"github.com/tunedial/station/internal/vibes"
)

// MaxSelectedTags is the most tags a request may carry; extra tags are dropped.
const MaxSelectedTags = 5

// DefaultTargetSize is the default number of tracks in a generated session.
const DefaultTargetSize = 20

// Track is an immutable catalog snapshot entry. Missing fields degrade
// scoring gracefully rather than erroring; a track with an empty ID is
// skipped entirely.
type Track struct {
	ID            string
	Title         string
	ArtistAddress string // opaque artist identifier, may be empty
	Tags          []string
	Lyrics        string
	Plays         int
	Views         int
	CreatedAt     time.Time
}

// TagStat pairs a display tag with its occurrence count across the catalog.
type TagStat struct {
	Name  string
	Count int
}

// Request describes one generation call.
type Request struct {
	// SelectedTags is ordered by priority, most important first. Empty
	// means global-shuffle mode.
	SelectedTags []string
	// Seed, when set, is forced to the front of the session.
	Seed *Track
	// HistoryIDs holds the ids returned by the previous generation. They
	// are excluded in tag mode and ignored in global-shuffle mode. The
	// caller replaces (never merges) this set after each call.
	HistoryIDs map[string]bool
}

// Session is an ordered listening sequence. No id appears twice.
type Session struct {
	ID     string
	Tracks []Track
}

// Result pairs a session with the history set the caller must persist
// for the next generation.
type Result struct {
	Session Session
	History map[string]bool
}

// ScoredTrack is the transient pairing of a track and its relevance score.
type ScoredTrack struct {
	Track Track
	Score float64
}

// TagStats aggregates tag occurrence counts across a catalog. The first
// display form seen for each normalized tag wins; results are unordered.
func TagStats(catalog []Track) []TagStat {
	counts := make(map[string]int)
	display := make(map[string]string)

	for _, t := range catalog {
		for _, tag := range t.Tags {
			n := vibes.Normalize(tag)
			if n == "" {
				continue
			}
			if _, ok := display[n]; !ok {
				display[n] = tag
			}
			counts[n]++
		}
	}

	stats := make([]TagStat, 0, len(counts))
	for n, c := range counts {
		stats = append(stats, TagStat{Name: display[n], Count: c})
	}
	return stats
}
