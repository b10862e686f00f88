package catalog

import (
	"context"
	"sync"

	"github.com/tunedial/station/internal/station"
)

// Memory is an in-memory catalog provider for tests and development.
type Memory struct {
	mu     sync.RWMutex
	tracks []station.Track
}

// NewMemory creates a provider serving the given tracks.
func NewMemory(tracks []station.Track) *Memory {
	m := &Memory{}
	m.SetTracks(tracks)
	return m
}

// Snapshot returns a copy of the current track set.
func (m *Memory) Snapshot(_ context.Context) ([]station.Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]station.Track(nil), m.tracks...), nil
}

// SetTracks replaces the track set.
func (m *Memory) SetTracks(tracks []station.Track) {
	m.mu.Lock()
	m.tracks = append([]station.Track(nil), tracks...)
	m.mu.Unlock()
}

// Get retrieves a track by id.
func (m *Memory) Get(_ context.Context, id string) (*station.Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.tracks {
		if m.tracks[i].ID == id {
			t := m.tracks[i]
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

// RecordPlay increments a track's play counter.
func (m *Memory) RecordPlay(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tracks {
		if m.tracks[i].ID == id {
			m.tracks[i].Plays++
			return nil
		}
	}
	return ErrNotFound
}
