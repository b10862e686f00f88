package ingest

import (
	"testing"
	"time"

	"github.com/zmb3/spotify/v2"
)

func playlistItem(addedAt, id, name string, artists ...spotify.SimpleArtist) spotify.PlaylistItem {
	return spotify.PlaylistItem{
		AddedAt: addedAt,
		Track: spotify.PlaylistItemTrack{
			Track: &spotify.FullTrack{
				SimpleTrack: spotify.SimpleTrack{
					ID:      spotify.ID(id),
					Name:    name,
					Artists: artists,
				},
				Popularity: 42,
			},
		},
	}
}

func TestConvertItem(t *testing.T) {
	item := playlistItem("2024-01-15T10:30:00Z", "track123", "Test Song",
		spotify.SimpleArtist{ID: "artist1", Name: "Artist One"},
		spotify.SimpleArtist{ID: "artist2", Name: "Artist Two"},
	)
	genres := map[string][]string{
		"artist1": {"indie rock", "shoegaze"},
		"artist2": {"shoegaze", "dream pop"},
	}

	got := convertItem(item, genres)

	if got.ID != "track123" {
		t.Errorf("ID = %q, want track123", got.ID)
	}
	if got.Title != "Test Song" {
		t.Errorf("Title = %q, want Test Song", got.Title)
	}
	if got.ArtistAddress != "Artist One" {
		t.Errorf("ArtistAddress = %q, want first artist", got.ArtistAddress)
	}
	if got.Views != 42 {
		t.Errorf("Views = %d, want 42", got.Views)
	}

	// Genres merge in artist order with duplicates dropped.
	want := []string{"indie rock", "shoegaze", "dream pop"}
	if len(got.Tags) != len(want) {
		t.Fatalf("Tags = %v, want %v", got.Tags, want)
	}
	for i, tag := range want {
		if got.Tags[i] != tag {
			t.Errorf("Tags[%d] = %q, want %q", i, got.Tags[i], tag)
		}
	}

	wantTime := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if !got.CreatedAt.Equal(wantTime) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, wantTime)
	}
}

func TestConvertItemInvalidTimestamp(t *testing.T) {
	item := playlistItem("not-a-timestamp", "track456", "Old Song",
		spotify.SimpleArtist{ID: "artist1", Name: "Mystery Artist"},
	)

	got := convertItem(item, nil)
	if !got.CreatedAt.IsZero() {
		t.Errorf("CreatedAt = %v, want zero value", got.CreatedAt)
	}
	if len(got.Tags) != 0 {
		t.Errorf("Tags = %v, want none without genre data", got.Tags)
	}
}

func TestConvertItemNoArtists(t *testing.T) {
	item := playlistItem("2024-03-01T00:00:00Z", "track000", "Unknown Track")

	got := convertItem(item, nil)
	if got.ArtistAddress != "" {
		t.Errorf("ArtistAddress = %q, want empty", got.ArtistAddress)
	}
}
