package vibes

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hip Hop", "hiphop"},
		{"Lo-Fi", "lofi"},
		{"R&B", "rb"},
		{"  Drum and Bass  ", "drumandbass"},
		{"ELECTRONIC", "electronic"},
		{"", ""},
		{"---", ""},
		{"K-Pop!", "kpop"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultRelated(t *testing.T) {
	tables := Default()

	if tables.Version() != DefaultVersion {
		t.Errorf("expected version %q, got %q", DefaultVersion, tables.Version())
	}

	tests := []struct {
		a, b string
		want bool
	}{
		{"hip hop", "rap", true},
		{"rap", "hip hop", true}, // symmetric
		{"Hip-Hop", "Trap", true},
		{"electronic", "house", true},
		{"hip hop", "jazz", false},
		{"", "rap", false},
		{"rap", "rap", false}, // identity is not a relation
	}

	for _, tt := range tests {
		if got := tables.Related(tt.a, tt.b); got != tt.want {
			t.Errorf("Related(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDefaultGenres(t *testing.T) {
	tables := Default()

	genres := tables.Genres("Chill")
	if len(genres) == 0 {
		t.Fatal("expected genres for 'chill'")
	}
	found := false
	for _, g := range genres {
		if g == "Lo-Fi" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'Lo-Fi' in chill genres, got %v", genres)
	}

	if got := tables.Genres("xyzzy"); got != nil {
		t.Errorf("expected nil for unknown vibe, got %v", got)
	}
}

func TestLoad(t *testing.T) {
	doc := `{
		"version": "test-1",
		"synonyms": {"rock": ["indie", "punk"]},
		"vibes": {"mellow": ["Ambient"]}
	}`

	path := filepath.Join(t.TempDir(), "vibes.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	tables, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tables.Version() != "test-1" {
		t.Errorf("expected version 'test-1', got %q", tables.Version())
	}
	if !tables.Related("indie", "rock") {
		t.Error("expected indie/rock to be related")
	}
	if got := tables.Genres("mellow"); len(got) != 1 || got[0] != "Ambient" {
		t.Errorf("unexpected genres for mellow: %v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed JSON")
	}

	path2 := filepath.Join(t.TempDir(), "noversion.json")
	if err := os.WriteFile(path2, []byte(`{"synonyms":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path2); err == nil {
		t.Error("expected error for missing version")
	}
}
