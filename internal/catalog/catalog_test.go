package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/tunedial/station/internal/station"
)

func TestMemorySnapshotCopies(t *testing.T) {
	m := NewMemory([]station.Track{{ID: "a", Title: "First"}})

	snap, err := m.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	snap[0].Title = "mutated"

	again, err := m.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if again[0].Title != "First" {
		t.Errorf("snapshot mutation leaked into the store: %q", again[0].Title)
	}
}

func TestMemoryGet(t *testing.T) {
	m := NewMemory([]station.Track{
		{ID: "a", Title: "First"},
		{ID: "b", Title: "Second"},
	})

	got, err := m.Get(context.Background(), "b")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Second" {
		t.Errorf("Title = %q, want Second", got.Title)
	}

	// Returned track is a copy.
	got.Title = "mutated"
	again, err := m.Get(context.Background(), "b")
	if err != nil {
		t.Fatal(err)
	}
	if again.Title != "Second" {
		t.Errorf("Get mutation leaked into the store: %q", again.Title)
	}

	if _, err := m.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRecordPlay(t *testing.T) {
	m := NewMemory([]station.Track{{ID: "a", Plays: 2}})

	if err := m.RecordPlay(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}
	if err := m.RecordPlay(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}

	got, err := m.Get(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.Plays != 4 {
		t.Errorf("Plays = %d, want 4", got.Plays)
	}

	if err := m.RecordPlay(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMergeTagStats(t *testing.T) {
	stats := []station.TagStat{
		{Name: "Rock", Count: 5},
		{Name: "Jazz", Count: 3},
		{Name: "rock!", Count: 2},
		{Name: "ROCK", Count: 1},
	}

	merged := mergeTagStats(stats)
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged stats, got %v", merged)
	}
	if merged[0].Name != "Rock" || merged[0].Count != 8 {
		t.Errorf("expected Rock with count 8, got %+v", merged[0])
	}
	if merged[1].Name != "Jazz" || merged[1].Count != 3 {
		t.Errorf("expected Jazz with count 3, got %+v", merged[1])
	}
}

func TestMergeTagStatsDropsUnnormalizable(t *testing.T) {
	stats := []station.TagStat{
		{Name: "!!!", Count: 4},
		{Name: "Pop", Count: 1},
	}

	merged := mergeTagStats(stats)
	if len(merged) != 1 || merged[0].Name != "Pop" {
		t.Errorf("expected only Pop to survive, got %v", merged)
	}
}
