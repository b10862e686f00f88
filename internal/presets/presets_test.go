package presets

import (
	"testing"

	"github.com/tunedial/station/internal/station"
)

func TestDetect_Empty(t *testing.T) {
	if got := Detect(nil, DefaultConfig()); got != nil {
		t.Errorf("expected nil presets, got %v", got)
	}
}

func TestDetect_TooFewTaggedTracks(t *testing.T) {
	catalog := []station.Track{
		{ID: "1", Tags: []string{"rock"}},
		{ID: "2"}, // untagged, ignored
	}
	if got := Detect(catalog, DefaultConfig()); got != nil {
		t.Errorf("expected nil for too-small catalog, got %v", got)
	}
}

func TestDetect_SinglePreset(t *testing.T) {
	catalog := []station.Track{
		{ID: "1", Tags: []string{"rock", "guitar"}},
		{ID: "2", Tags: []string{"rock", "guitar"}},
		{ID: "3", Tags: []string{"rock"}},
	}

	got := Detect(catalog, Config{NumPresets: 1, MinTracks: 1})
	if len(got) != 1 {
		t.Fatalf("expected 1 preset, got %d", len(got))
	}
	if len(got[0].TrackIDs) != 3 {
		t.Errorf("expected 3 tracks in preset, got %d", len(got[0].TrackIDs))
	}
	if len(got[0].SeedTags) == 0 {
		t.Error("expected seed tags")
	}
	if got[0].Name == "" || got[0].Name == "Mixed" {
		t.Errorf("expected tag-derived name, got %q", got[0].Name)
	}
}

func TestDetect_ClustersByTagSimilarity(t *testing.T) {
	catalog := []station.Track{
		// Rock group
		{ID: "r1", Tags: []string{"rock", "guitar"}},
		{ID: "r2", Tags: []string{"rock", "guitar"}},
		{ID: "r3", Tags: []string{"rock", "guitar"}},
		// Electronic group
		{ID: "e1", Tags: []string{"electronic", "dance"}},
		{ID: "e2", Tags: []string{"electronic", "dance"}},
		{ID: "e3", Tags: []string{"electronic", "dance"}},
	}

	got := Detect(catalog, Config{NumPresets: 2, MinTracks: 3})
	if len(got) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(got))
	}
	for i, p := range got {
		if len(p.TrackIDs) != 3 {
			t.Errorf("preset %d: expected 3 tracks, got %d", i, len(p.TrackIDs))
		}
		if len(p.SeedTags) == 0 {
			t.Errorf("preset %d: expected seed tags", i)
		}
	}
}

func TestDetect_SmallClustersDropped(t *testing.T) {
	catalog := []station.Track{
		{ID: "1", Tags: []string{"rock"}},
		{ID: "2", Tags: []string{"rock"}},
		{ID: "3", Tags: []string{"rock"}},
		{ID: "4", Tags: []string{"rock"}},
		{ID: "5", Tags: []string{"jazz"}}, // lone cluster, below MinTracks
	}

	got := Detect(catalog, Config{NumPresets: 2, MinTracks: 3})
	for _, p := range got {
		if len(p.TrackIDs) < 3 {
			t.Errorf("preset %q smaller than MinTracks: %d", p.Name, len(p.TrackIDs))
		}
	}
}

func TestDetect_LargestFirst(t *testing.T) {
	catalog := []station.Track{
		{ID: "r1", Tags: []string{"rock"}},
		{ID: "r2", Tags: []string{"rock"}},
		{ID: "r3", Tags: []string{"rock"}},
		{ID: "r4", Tags: []string{"rock"}},
		{ID: "r5", Tags: []string{"rock"}},
		{ID: "e1", Tags: []string{"electronic"}},
		{ID: "e2", Tags: []string{"electronic"}},
		{ID: "e3", Tags: []string{"electronic"}},
	}

	got := Detect(catalog, Config{NumPresets: 2, MinTracks: 2})
	if len(got) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(got))
	}
	if len(got[0].TrackIDs) < len(got[1].TrackIDs) {
		t.Error("presets should be ordered largest first")
	}
}

func TestPresetName(t *testing.T) {
	if got := presetName([]string{"Rock", "Indie", "Pop"}); got != "Rock & Indie & Pop" {
		t.Errorf("unexpected name %q", got)
	}
	if got := presetName(nil); got != "Mixed" {
		t.Errorf("unexpected name %q", got)
	}
}
