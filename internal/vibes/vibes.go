// Package vibes holds the curated tag-relationship tables used by the station
// engine: a synonym graph for related-tag scoring and a vibe-to-genre map for
// mood matching. Tables are versioned and can be loaded from a JSON document so
// curators can extend them without a rebuild.
package vibes

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Document is the on-disk shape of the curated tables.
type Document struct {
	Version  string              `json:"version"`
	Synonyms map[string][]string `json:"synonyms"`
	Vibes    map[string][]string `json:"vibes"`
}

// Tables is the compiled, lookup-ready form of a Document.
// All keys are normalized; synonym relationships are symmetric.
type Tables struct {
	version  string
	synonyms map[string]map[string]bool
	vibes    map[string][]string
}

// Normalize lowercases a tag and strips every non-alphanumeric rune.
// The normalized form is used only for matching, never for display.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Compile builds lookup tables from a document.
func Compile(doc Document) *Tables {
	t := &Tables{
		version:  doc.Version,
		synonyms: make(map[string]map[string]bool),
		vibes:    make(map[string][]string, len(doc.Vibes)),
	}

	link := func(a, b string) {
		if a == "" || b == "" || a == b {
			return
		}
		if t.synonyms[a] == nil {
			t.synonyms[a] = make(map[string]bool)
		}
		t.synonyms[a][b] = true
	}

	for tag, related := range doc.Synonyms {
		nt := Normalize(tag)
		for _, r := range related {
			nr := Normalize(r)
			link(nt, nr)
			link(nr, nt)
		}
	}

	for vibe, genres := range doc.Vibes {
		t.vibes[Normalize(vibe)] = genres
	}

	return t
}

// Load reads a table document from a JSON file and compiles it.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vibes file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing vibes file: %w", err)
	}
	if doc.Version == "" {
		return nil, fmt.Errorf("vibes file %s: missing version", path)
	}

	return Compile(doc), nil
}

// Version returns the document version the tables were compiled from.
func (t *Tables) Version() string {
	return t.version
}

// Related reports whether two tags have a curated relationship.
// Both arguments may be raw or normalized; the relation is symmetric.
func (t *Tables) Related(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return t.synonyms[na][nb]
}

// Genres returns the genre tags mapped to a vibe word, or nil if the
// word is not in the vibe map. The token may be raw or normalized.
func (t *Tables) Genres(token string) []string {
	return t.vibes[Normalize(token)]
}
