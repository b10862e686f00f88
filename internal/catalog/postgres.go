package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tunedial/station/internal/station"
	"github.com/tunedial/station/internal/vibes"
)

// Postgres is the production catalog provider backed by PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new catalog backed by a PostgreSQL connection pool.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// EnsureSchema creates the tracks table if it does not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS tracks (
			id             TEXT PRIMARY KEY,
			title          TEXT NOT NULL DEFAULT '',
			artist_address TEXT,
			tags           TEXT[] NOT NULL DEFAULT '{}',
			lyrics         TEXT,
			plays          BIGINT NOT NULL DEFAULT 0,
			views          BIGINT NOT NULL DEFAULT 0,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("creating tracks table: %w", err)
	}
	return nil
}

// Snapshot loads the full catalog.
func (p *Postgres) Snapshot(ctx context.Context) ([]station.Track, error) {
	query := `
		SELECT id, title, artist_address, tags, lyrics, plays, views, created_at
		FROM tracks
		ORDER BY created_at DESC
	`
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying tracks: %w", err)
	}
	defer rows.Close()

	var tracks []station.Track
	for rows.Next() {
		var (
			t      station.Track
			artist *string
			lyrics *string
		)
		if err := rows.Scan(&t.ID, &t.Title, &artist, &t.Tags, &lyrics, &t.Plays, &t.Views, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning track: %w", err)
		}
		if artist != nil {
			t.ArtistAddress = *artist
		}
		if lyrics != nil {
			t.Lyrics = *lyrics
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading tracks: %w", err)
	}
	return tracks, nil
}

// Get retrieves a track by id.
func (p *Postgres) Get(ctx context.Context, id string) (*station.Track, error) {
	query := `
		SELECT id, title, artist_address, tags, lyrics, plays, views, created_at
		FROM tracks
		WHERE id = $1
	`
	var (
		t      station.Track
		artist *string
		lyrics *string
	)
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Title, &artist, &t.Tags, &lyrics, &t.Plays, &t.Views, &t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying track: %w", err)
	}
	if artist != nil {
		t.ArtistAddress = *artist
	}
	if lyrics != nil {
		t.Lyrics = *lyrics
	}
	return &t, nil
}

// UpsertBatch inserts or updates multiple tracks efficiently.
func (p *Postgres) UpsertBatch(ctx context.Context, tracks []station.Track) error {
	if len(tracks) == 0 {
		return nil
	}

	query := `
		INSERT INTO tracks (id, title, artist_address, tags, lyrics, plays, views, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			artist_address = EXCLUDED.artist_address,
			tags = EXCLUDED.tags,
			lyrics = EXCLUDED.lyrics,
			plays = EXCLUDED.plays,
			views = EXCLUDED.views
	`

	now := time.Now()
	batch := &pgx.Batch{}
	for i := range tracks {
		t := &tracks[i]
		var artist, lyrics *string
		if t.ArtistAddress != "" {
			artist = &t.ArtistAddress
		}
		if t.Lyrics != "" {
			lyrics = &t.Lyrics
		}
		createdAt := t.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		batch.Queue(query, t.ID, t.Title, artist, t.Tags, lyrics, int64(t.Plays), int64(t.Views), createdAt)
	}

	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("batch upserting tracks: %w", err)
	}
	return nil
}

// RecordPlay increments a track's play counter.
func (p *Postgres) RecordPlay(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `UPDATE tracks SET plays = plays + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("recording play: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TagStats aggregates tag occurrence counts across the catalog,
// most common first. Rows grouped on raw tag text are merged on the
// normalized form, matching station.TagStats.
func (p *Postgres) TagStats(ctx context.Context) ([]station.TagStat, error) {
	query := `
		SELECT tag, COUNT(*) AS count
		FROM tracks, unnest(tags) AS tag
		GROUP BY tag
		ORDER BY count DESC, tag
	`
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying tag stats: %w", err)
	}
	defer rows.Close()

	var stats []station.TagStat
	for rows.Next() {
		var s station.TagStat
		if err := rows.Scan(&s.Name, &s.Count); err != nil {
			return nil, fmt.Errorf("scanning tag stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading tag stats: %w", err)
	}
	return mergeTagStats(stats), nil
}

// mergeTagStats collapses stats whose names share a normalized form.
// The first display form seen wins; relative order is preserved.
func mergeTagStats(stats []station.TagStat) []station.TagStat {
	index := make(map[string]int, len(stats))
	merged := make([]station.TagStat, 0, len(stats))
	for _, s := range stats {
		n := vibes.Normalize(s.Name)
		if n == "" {
			continue
		}
		if i, ok := index[n]; ok {
			merged[i].Count += s.Count
			continue
		}
		index[n] = len(merged)
		merged = append(merged, s)
	}
	return merged
}
