// Command catalog-import loads tracks from a public Spotify playlist
// into the catalog database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tunedial/station/internal/catalog"
	"github.com/tunedial/station/internal/config"
	"github.com/tunedial/station/internal/ingest"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	playlistID := flag.String("playlist", "", "Spotify playlist ID to import")
	flag.Parse()

	if *playlistID == "" {
		return fmt.Errorf("usage: catalog-import -playlist <spotify playlist id>")
	}

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("please set DATABASE_URL")
	}

	clientID := os.Getenv("SPOTIFY_ID")
	clientSecret := os.Getenv("SPOTIFY_SECRET")
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("please set SPOTIFY_ID and SPOTIFY_SECRET environment variables")
	}

	ctx := context.Background()

	importer, err := ingest.New(ctx, clientID, clientSecret)
	if err != nil {
		return fmt.Errorf("creating importer: %w", err)
	}

	tracks, err := importer.Playlist(ctx, *playlistID)
	if err != nil {
		return fmt.Errorf("importing playlist: %w", err)
	}

	pg, err := catalog.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to catalog database: %w", err)
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("preparing catalog schema: %w", err)
	}
	if err := pg.UpsertBatch(ctx, tracks); err != nil {
		return fmt.Errorf("storing tracks: %w", err)
	}

	fmt.Printf("Stored %d tracks.\n", len(tracks))
	return nil
}
