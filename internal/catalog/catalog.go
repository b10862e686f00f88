// Package catalog supplies track snapshots to the station engine. The
// engine only sees the Provider interface; the catalog itself is owned
// by the site backend (PostgreSQL in production, in-memory for tests
// and development).
package catalog

import (
	"context"
	"errors"

	"github.com/tunedial/station/internal/station"
)

// ErrNotFound is returned when a requested track does not exist.
var ErrNotFound = errors.New("not found")

// Provider supplies the full track snapshot a generation runs against.
type Provider interface {
	Snapshot(ctx context.Context) ([]station.Track, error)
}

// TagStatser is implemented by providers that can aggregate tag counts
// more cheaply than scanning a snapshot.
type TagStatser interface {
	TagStats(ctx context.Context) ([]station.TagStat, error)
}

// Getter is implemented by providers that can look up a single track
// without loading a snapshot. Returns ErrNotFound for unknown ids.
type Getter interface {
	Get(ctx context.Context, id string) (*station.Track, error)
}

// PlayRecorder is implemented by providers that track play counts.
// Returns ErrNotFound for unknown ids.
type PlayRecorder interface {
	RecordPlay(ctx context.Context, id string) error
}
