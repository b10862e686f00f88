package station

import (
	"fmt"
	"testing"
)

func newTestSequencer(seed uint64) *Sequencer {
	return NewSequencer(WithSequencerRand(fixedRand(seed)))
}

func TestSequenceEmptyAndSmall(t *testing.T) {
	q := newTestSequencer(1)

	if got := q.Sequence(nil, nil); len(got) != 0 {
		t.Errorf("expected empty result for nil selection, got %d", len(got))
	}

	small := []Track{
		{ID: "a", ArtistAddress: "x"},
		{ID: "b", ArtistAddress: "y"},
	}
	got := q.Sequence(small, nil)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("selections of two or fewer must be returned unchanged, got %+v", got)
	}
}

func TestSequenceIsPermutation(t *testing.T) {
	selection := make([]Track, 12)
	for i := range selection {
		selection[i] = Track{
			ID:            fmt.Sprintf("t%d", i),
			ArtistAddress: fmt.Sprintf("artist%d", i%4),
			Tags:          []string{"rock", fmt.Sprintf("sub%d", i%3)},
		}
	}

	for seed := uint64(1); seed <= 5; seed++ {
		q := newTestSequencer(seed)
		ordered := q.Sequence(selection, nil)

		if len(ordered) != len(selection) {
			t.Fatalf("seed %d: expected %d tracks, got %d", seed, len(selection), len(ordered))
		}
		seen := make(map[string]bool, len(ordered))
		for _, track := range ordered {
			if seen[track.ID] {
				t.Fatalf("seed %d: duplicate id %s", seed, track.ID)
			}
			seen[track.ID] = true
		}
	}
}

func TestArtistSpacing(t *testing.T) {
	// Every pair shares exactly one tag, so flow scores are uniform and
	// the artist penalty dominates: consecutive same-artist placements
	// must never happen while another artist is available.
	selection := make([]Track, 10)
	for i := range selection {
		selection[i] = Track{
			ID:            fmt.Sprintf("t%d", i),
			ArtistAddress: fmt.Sprintf("artist%d", i%2),
			Tags:          []string{"rock"},
		}
	}

	for seed := uint64(1); seed <= 20; seed++ {
		q := newTestSequencer(seed)
		ordered := q.Sequence(selection, nil)
		for i := 1; i < len(ordered); i++ {
			if ordered[i].ArtistAddress == ordered[i-1].ArtistAddress {
				t.Fatalf("seed %d: consecutive tracks %d and %d share artist %s",
					seed, i-1, i, ordered[i].ArtistAddress)
			}
		}
	}
}

func TestEmptyArtistNeverPenalized(t *testing.T) {
	// Tracks without an artist identifier must not be treated as one
	// shared artist; the sequence just needs to be a valid permutation.
	selection := make([]Track, 6)
	for i := range selection {
		selection[i] = Track{ID: fmt.Sprintf("t%d", i), Tags: []string{"ambient"}}
	}

	q := newTestSequencer(3)
	ordered := q.Sequence(selection, nil)
	if len(ordered) != 6 {
		t.Errorf("expected all 6 tracks placed, got %d", len(ordered))
	}
}

func TestSeedAlwaysFirst(t *testing.T) {
	selection := []Track{
		{ID: "a", Tags: []string{"rock"}},
		{ID: "b", Tags: []string{"rock"}},
		{ID: "c", Tags: []string{"rock"}},
		{ID: "d", Tags: []string{"rock"}},
	}

	// Seed that is also part of the selection: moved to front, no duplicate.
	seed := selection[2]
	q := newTestSequencer(7)
	ordered := q.Sequence(selection, &seed)
	if ordered[0].ID != "c" {
		t.Errorf("seed should be first, got %s", ordered[0].ID)
	}
	if len(ordered) != 4 {
		t.Errorf("seed already in selection must not duplicate, got %d tracks", len(ordered))
	}

	// Seed outside the selection: prepended.
	outside := Track{ID: "z", Tags: []string{"jazz"}}
	ordered = q.Sequence(selection, &outside)
	if ordered[0].ID != "z" || len(ordered) != 5 {
		t.Errorf("outside seed should be prepended, got %d tracks starting with %s",
			len(ordered), ordered[0].ID)
	}
}

func TestSeedFirstOnTinySelection(t *testing.T) {
	selection := []Track{{ID: "a"}, {ID: "b"}}
	seed := Track{ID: "b"}

	q := newTestSequencer(2)
	ordered := q.Sequence(selection, &seed)
	if len(ordered) != 2 || ordered[0].ID != "b" || ordered[1].ID != "a" {
		t.Errorf("expected [b a], got %+v", ordered)
	}
}

func TestFlowScoreCurve(t *testing.T) {
	tests := []struct {
		shared int
		want   float64
	}{
		{0, 10},
		{1, 100},
		{2, 90},
		{3, 60},
		{4, 40},
		{7, 40},
	}
	for _, tt := range tests {
		if got := flowScore(tt.shared); got != tt.want {
			t.Errorf("flowScore(%d) = %.0f, want %.0f", tt.shared, got, tt.want)
		}
	}

	// The curve prefers partial overlap over both extremes.
	if flowScore(1) <= flowScore(0) || flowScore(1) <= flowScore(5) {
		t.Error("one shared tag should beat both no overlap and total overlap")
	}
}

func TestSharedTags(t *testing.T) {
	a := map[string]bool{"rock": true, "indie": true, "pop": true}
	b := map[string]bool{"indie": true, "pop": true, "jazz": true}
	if got := sharedTags(a, b); got != 2 {
		t.Errorf("sharedTags = %d, want 2", got)
	}
	if got := sharedTags(a, map[string]bool{}); got != 0 {
		t.Errorf("sharedTags with empty set = %d, want 0", got)
	}
}
