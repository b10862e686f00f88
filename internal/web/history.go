// Package web provides the HTTP surface for station generation.
package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	listenerCookieName = "listener_id"
	listenerCookieTTL  = 30 * 24 * time.Hour

	// History older than this is dropped; a listener returning after a
	// long break gets a clean slate.
	historyTTL = 2 * time.Hour
)

// historyEntry holds one listener's previous generation.
type historyEntry struct {
	ids       map[string]bool
	updatedAt time.Time
}

// HistoryStore keeps the per-listener anti-repeat set. Each generation
// replaces the listener's entry wholesale, so at most one generation's
// worth of ids is ever excluded.
type HistoryStore struct {
	mu      sync.RWMutex
	entries map[string]historyEntry
}

// NewHistoryStore creates an empty history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{entries: make(map[string]historyEntry)}
}

// Get returns a copy of the listener's current history set, or an empty
// set when none is stored or the stored one has expired.
func (s *HistoryStore) Get(listenerID string) map[string]bool {
	s.mu.RLock()
	entry, ok := s.entries[listenerID]
	s.mu.RUnlock()

	if !ok || time.Since(entry.updatedAt) > historyTTL {
		return map[string]bool{}
	}

	ids := make(map[string]bool, len(entry.ids))
	for id := range entry.ids {
		ids[id] = true
	}
	return ids
}

// Replace overwrites the listener's history with the given set and
// prunes expired entries.
func (s *HistoryStore) Replace(listenerID string, ids map[string]bool) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.entries {
		if now.Sub(entry.updatedAt) > historyTTL {
			delete(s.entries, id)
		}
	}
	s.entries[listenerID] = historyEntry{ids: ids, updatedAt: now}
}

// ListenerID extracts the listener id from the request cookie, minting
// and setting a fresh one when absent.
func (s *HistoryStore) ListenerID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(listenerCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     listenerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(listenerCookieTTL.Seconds()),
	})
	return id
}
