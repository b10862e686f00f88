// Package mood converts free-text mood input into station tags. A remote
// language-model assist is used when configured; the local Matcher is the
// always-available fallback.
package mood

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/tunedial/station/internal/station"
	"github.com/tunedial/station/internal/vibes"
)

// MaxTags caps the matcher output; it mirrors the request tag limit.
const MaxTags = station.MaxSelectedTags

// substringMinTokenLen is the minimum token length for fuzzy stage-1
// matching; shorter tokens only match exactly.
const substringMinTokenLen = 4

// Matcher maps free-text mood input onto known catalog tags using the
// curated vibe tables and catalog content.
type Matcher struct {
	tables *vibes.Tables
}

// NewMatcher creates a matcher. A nil tables argument falls back to the
// compiled-in defaults.
func NewMatcher(tables *vibes.Tables) *Matcher {
	if tables == nil {
		tables = vibes.Default()
	}
	return &Matcher{tables: tables}
}

// Match runs the three-stage pipeline: direct token matching against
// known tags, the vibe-to-genre dictionary, and a catalog content scan.
// Earlier stages rank higher; the result is insertion-ordered and capped
// at MaxTags. The output is meant to be fed to the scorer as a fresh
// ordered tag selection.
func (m *Matcher) Match(freeText string, knownTags []station.TagStat, catalog []station.Track) []string {
	tokens := tokenize(freeText)
	if len(tokens) == 0 {
		return nil
	}

	acc := newTagAccumulator()

	m.matchKnownTags(tokens, knownTags, acc)
	if !acc.full() {
		m.matchVibeMap(tokens, knownTags, acc)
	}
	if !acc.full() {
		m.matchContent(tokens, catalog, acc)
	}

	return acc.tags
}

// matchKnownTags adds known tags whose normalized form matches a token
// exactly, or by substring for tokens of at least four characters.
func (m *Matcher) matchKnownTags(tokens []string, knownTags []station.TagStat, acc *tagAccumulator) {
	for _, tok := range tokens {
		for _, known := range knownTags {
			norm := vibes.Normalize(known.Name)
			if norm == "" {
				continue
			}
			hit := norm == tok ||
				(len(tok) >= substringMinTokenLen && strings.Contains(norm, tok)) ||
				(len(norm) >= substringMinTokenLen && strings.Contains(tok, norm))
			if hit {
				acc.add(known.Name)
				if acc.full() {
					return
				}
			}
		}
	}
}

// matchVibeMap looks tokens up in the vibe-to-genre dictionary and keeps
// mapped genres that exist in the known tag set.
func (m *Matcher) matchVibeMap(tokens []string, knownTags []station.TagStat, acc *tagAccumulator) {
	known := make(map[string]string, len(knownTags))
	for _, k := range knownTags {
		known[vibes.Normalize(k.Name)] = k.Name
	}

	for _, tok := range tokens {
		for _, genre := range m.tables.Genres(tok) {
			if display, ok := known[vibes.Normalize(genre)]; ok {
				acc.add(display)
				if acc.full() {
					return
				}
			}
		}
	}
}

// matchContent scans track titles and lyrics for token occurrences. Tags
// of matching tracks accumulate hits weighted by how many tokens matched
// the track; the top-scoring tags are appended.
func (m *Matcher) matchContent(tokens []string, catalog []station.Track, acc *tagAccumulator) {
	type tagHits struct {
		display string
		hits    int
	}
	byNorm := make(map[string]*tagHits)

	for _, track := range catalog {
		content := vibes.Normalize(track.Title) + " " + vibes.Normalize(track.Lyrics)
		hits := 0
		for _, tok := range tokens {
			if strings.Contains(content, tok) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		for _, tag := range track.Tags {
			norm := vibes.Normalize(tag)
			if norm == "" {
				continue
			}
			th, ok := byNorm[norm]
			if !ok {
				th = &tagHits{display: tag}
				byNorm[norm] = th
			}
			th.hits += hits
		}
	}

	ranked := make([]tagHits, 0, len(byNorm))
	for _, th := range byNorm {
		ranked = append(ranked, *th)
	}
	slices.SortStableFunc(ranked, func(a, b tagHits) int {
		return cmp.Compare(b.hits, a.hits)
	})

	for _, th := range ranked {
		acc.add(th.display)
		if acc.full() {
			return
		}
	}
}

// tokenize splits free text on whitespace and commas and normalizes each
// token, dropping empties and duplicates.
func tokenize(freeText string) []string {
	fields := strings.FieldsFunc(freeText, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})

	seen := make(map[string]bool, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := vibes.Normalize(f)
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}
	return tokens
}

// tagAccumulator collects tags in insertion order, deduplicating on the
// normalized form and capping at MaxTags.
type tagAccumulator struct {
	tags []string
	seen map[string]bool
}

func newTagAccumulator() *tagAccumulator {
	return &tagAccumulator{seen: make(map[string]bool, MaxTags)}
}

func (a *tagAccumulator) add(tag string) {
	norm := vibes.Normalize(tag)
	if norm == "" || a.seen[norm] || a.full() {
		return
	}
	a.seen[norm] = true
	a.tags = append(a.tags, tag)
}

func (a *tagAccumulator) full() bool {
	return len(a.tags) >= MaxTags
}
