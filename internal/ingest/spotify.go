// Package ingest imports catalog tracks from public Spotify playlists.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/tunedial/station/internal/station"
)

const maxArtistsPerRequest = 50

// Importer pulls playlist tracks from the Spotify Web API and converts
// them to catalog tracks. Artist genres become the track's tags.
type Importer struct {
	api *spotify.Client
}

// New builds an Importer authenticated with the client credentials
// flow, which is enough for public playlist reads.
func New(ctx context.Context, clientID, clientSecret string) (*Importer, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("spotify client id and secret are required")
	}

	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	return &Importer{api: spotify.New(cfg.Client(ctx))}, nil
}

// Playlist fetches every track on a playlist. Progress is logged to
// stdout during fetch.
func (im *Importer) Playlist(ctx context.Context, playlistID string) ([]station.Track, error) {
	page, err := im.api.GetPlaylistItems(ctx, spotify.ID(playlistID))
	if err != nil {
		return nil, fmt.Errorf("fetching playlist %s: %w", playlistID, err)
	}

	var items []spotify.PlaylistItem
	for {
		items = append(items, page.Items...)
		fmt.Printf("Fetched %d playlist items...\n", len(items))

		err = im.api.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fetching next page: %w", err)
		}
	}

	genres, err := im.artistGenres(ctx, items)
	if err != nil {
		return nil, err
	}

	tracks := make([]station.Track, 0, len(items))
	for _, item := range items {
		if item.Track.Track == nil {
			continue // episodes and local files carry no usable metadata
		}
		tracks = append(tracks, convertItem(item, genres))
	}

	fmt.Printf("Imported %d tracks.\n", len(tracks))
	return tracks, nil
}

// artistGenres resolves genres for every artist on the playlist,
// batching lookups per Spotify API limits.
func (im *Importer) artistGenres(ctx context.Context, items []spotify.PlaylistItem) (map[string][]string, error) {
	seen := make(map[string]bool)
	var ids []spotify.ID
	for _, item := range items {
		if item.Track.Track == nil {
			continue
		}
		for _, artist := range item.Track.Track.Artists {
			id := artist.ID.String()
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, artist.ID)
		}
	}

	genres := make(map[string][]string, len(ids))
	for i := 0; i < len(ids); i += maxArtistsPerRequest {
		end := min(i+maxArtistsPerRequest, len(ids))
		artists, err := im.api.GetArtists(ctx, ids[i:end]...)
		if err != nil {
			return nil, fmt.Errorf("fetching artists (batch %d-%d): %w", i+1, end, err)
		}
		for _, artist := range artists {
			if artist == nil {
				continue
			}
			genres[artist.ID.String()] = artist.Genres
		}
	}
	return genres, nil
}

// convertItem maps a playlist item to a catalog track. Genres from all
// credited artists are merged in order, first artist first.
func convertItem(item spotify.PlaylistItem, genresByArtist map[string][]string) station.Track {
	full := item.Track.Track

	var tags []string
	tagSeen := make(map[string]bool)
	for _, artist := range full.Artists {
		for _, genre := range genresByArtist[artist.ID.String()] {
			if tagSeen[genre] {
				continue
			}
			tagSeen[genre] = true
			tags = append(tags, genre)
		}
	}

	var artistAddress string
	if len(full.Artists) > 0 {
		artistAddress = full.Artists[0].Name
	}

	// AddedAt stands in for the catalog upload time. Zero value on
	// parse failure, same as an undated track.
	createdAt, _ := time.Parse(time.RFC3339, item.AddedAt)

	return station.Track{
		ID:            full.ID.String(),
		Title:         full.Name,
		ArtistAddress: artistAddress,
		Tags:          tags,
		Views:         int(full.Popularity),
		CreatedAt:     createdAt,
	}
}
