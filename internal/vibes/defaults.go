package vibes

import "sync"

// DefaultVersion identifies the compiled-in curated tables.
const DefaultVersion = "2024-05"

// defaultDocument is the hand-curated table set shipped with the engine.
// Synonym entries are symmetric after compilation, so each pair only needs
// to be declared once.
var defaultDocument = Document{
	Version: DefaultVersion,
	Synonyms: map[string][]string{
		"hip hop":    {"rap", "trap", "r&b", "urban", "drill", "grime"},
		"electronic": {"edm", "house", "techno", "dance", "electronica", "synthwave", "dubstep"},
		"rock":       {"indie", "alternative", "punk", "metal", "grunge", "garage"},
		"chill":      {"lo-fi", "ambient", "downtempo", "chillhop", "mellow"},
		"jazz":       {"blues", "soul", "funk", "swing", "bossa nova"},
		"pop":        {"dance pop", "synth pop", "indie pop", "k-pop"},
		"reggae":     {"dub", "ska", "dancehall", "reggaeton"},
		"classical":  {"orchestral", "piano", "instrumental", "cinematic"},
		"country":    {"folk", "americana", "bluegrass", "singer-songwriter"},
		"latin":      {"reggaeton", "salsa", "bachata", "cumbia"},
		"house":      {"deep house", "tech house", "disco"},
		"metal":      {"hardcore", "doom", "thrash"},
	},
	Vibes: map[string][]string{
		"chill":     {"Lo-Fi", "Ambient", "Downtempo"},
		"relaxed":   {"Lo-Fi", "Acoustic", "Ambient"},
		"happy":     {"Pop", "Dance", "Funk"},
		"sad":       {"Acoustic", "Indie", "Blues"},
		"party":     {"Dance", "House", "Hip Hop"},
		"hype":      {"Trap", "EDM", "Drill"},
		"workout":   {"EDM", "Trap", "Drum and Bass"},
		"gym":       {"EDM", "Trap", "Hip Hop"},
		"focus":     {"Ambient", "Classical", "Lo-Fi"},
		"study":     {"Lo-Fi", "Classical", "Ambient"},
		"romantic":  {"R&B", "Soul", "Jazz"},
		"love":      {"R&B", "Soul", "Pop"},
		"angry":     {"Metal", "Punk", "Drill"},
		"dreamy":    {"Synthwave", "Ambient", "Indie"},
		"energetic": {"EDM", "Rock", "House"},
		"night":     {"Synthwave", "R&B", "Downtempo"},
		"summer":    {"Reggae", "Pop", "Dancehall"},
		"rainy":     {"Jazz", "Lo-Fi", "Blues"},
		"driving":   {"Rock", "Synthwave", "Electronic"},
	},
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the compiled-in curated tables.
func Default() *Tables {
	defaultOnce.Do(func() {
		defaultTables = Compile(defaultDocument)
	})
	return defaultTables
}
