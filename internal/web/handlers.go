package web

import (
	"cmp"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tunedial/station/internal/catalog"
	"github.com/tunedial/station/internal/mood"
	"github.com/tunedial/station/internal/presets"
	"github.com/tunedial/station/internal/station"
)

// Handlers contains the HTTP handlers for the station API.
type Handlers struct {
	engine    *station.Engine
	catalog   catalog.Provider
	resolver  *mood.Resolver
	history   *HistoryStore
	presetCfg presets.Config
}

// NewHandlers creates a Handlers instance.
func NewHandlers(engine *station.Engine, provider catalog.Provider, resolver *mood.Resolver, history *HistoryStore) *Handlers {
	return &Handlers{
		engine:    engine,
		catalog:   provider,
		resolver:  resolver,
		history:   history,
		presetCfg: presets.DefaultConfig(),
	}
}

type stationRequest struct {
	// Tags is the listener's vibe selection, priority first. Empty with
	// an empty Mood means global shuffle.
	Tags []string `json:"tags"`
	// Mood is free text resolved into tags when Tags is empty.
	Mood string `json:"mood"`
	// SeedID forces a catalog track to the front of the session.
	SeedID string `json:"seed_id"`
}

type trackPayload struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ArtistAddress string    `json:"artist_address,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Plays         int       `json:"plays"`
	Views         int       `json:"views"`
	CreatedAt     time.Time `json:"created_at"`
}

type stationResponse struct {
	SessionID string         `json:"session_id"`
	Tags      []string       `json:"tags"`
	Tracks    []trackPayload `json:"tracks"`
	// Empty flags a tag-mode request that matched nothing; the client
	// decides whether to fall back to global shuffle.
	Empty bool `json:"empty"`
}

// GenerateStation handles POST /api/station.
func (h *Handlers) GenerateStation(w http.ResponseWriter, r *http.Request) {
	var req stationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snapshot, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		log.Printf("catalog snapshot failed: %v", err)
		respondError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	tags := req.Tags
	if len(tags) == 0 && req.Mood != "" {
		tags = h.resolver.Tags(r.Context(), req.Mood, h.tagStats(r, snapshot), snapshot)
	}

	var seed *station.Track
	if req.SeedID != "" {
		found, err := h.lookupTrack(r, snapshot, req.SeedID)
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, "seed track not found")
			return
		}
		if err != nil {
			log.Printf("seed lookup failed: %v", err)
			respondError(w, http.StatusInternalServerError, "catalog unavailable")
			return
		}
		seed = found
	}

	listenerID := h.history.ListenerID(w, r)
	result := h.engine.Generate(snapshot, station.Request{
		SelectedTags: tags,
		Seed:         seed,
		HistoryIDs:   h.history.Get(listenerID),
	})
	h.history.Replace(listenerID, result.History)

	resp := stationResponse{
		SessionID: result.Session.ID,
		Tags:      tags,
		Tracks:    make([]trackPayload, 0, len(result.Session.Tracks)),
		Empty:     len(result.Session.Tracks) == 0,
	}
	for _, t := range result.Session.Tracks {
		resp.Tracks = append(resp.Tracks, trackPayload{
			ID:            t.ID,
			Title:         t.Title,
			ArtistAddress: t.ArtistAddress,
			Tags:          t.Tags,
			Plays:         t.Plays,
			Views:         t.Views,
			CreatedAt:     t.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

type moodRequest struct {
	Text string `json:"text"`
}

type moodResponse struct {
	Tags []string `json:"tags"`
}

// MoodTags handles POST /api/mood: free text in, ordered tag list out.
func (h *Handlers) MoodTags(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	snapshot, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		log.Printf("catalog snapshot failed: %v", err)
		respondError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	tags := h.resolver.Tags(r.Context(), req.Text, h.tagStats(r, snapshot), snapshot)
	if tags == nil {
		tags = []string{}
	}
	respondJSON(w, http.StatusOK, moodResponse{Tags: tags})
}

type tagStatPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Tags handles GET /api/tags, listing catalog tags by popularity.
func (h *Handlers) Tags(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		log.Printf("catalog snapshot failed: %v", err)
		respondError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	stats := h.tagStats(r, snapshot)
	slices.SortStableFunc(stats, func(a, b station.TagStat) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.Name, b.Name)
	})

	payload := make([]tagStatPayload, 0, len(stats))
	for _, s := range stats {
		payload = append(payload, tagStatPayload{Name: s.Name, Count: s.Count})
	}
	respondJSON(w, http.StatusOK, payload)
}

type presetPayload struct {
	Name     string   `json:"name"`
	SeedTags []string `json:"seed_tags"`
	Size     int      `json:"size"`
}

// Presets handles GET /api/presets, returning clustered station
// suggestions derived from the catalog.
func (h *Handlers) Presets(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		log.Printf("catalog snapshot failed: %v", err)
		respondError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	detected := presets.Detect(snapshot, h.presetCfg)
	payload := make([]presetPayload, 0, len(detected))
	for _, p := range detected {
		payload = append(payload, presetPayload{
			Name:     p.Name,
			SeedTags: p.SeedTags,
			Size:     len(p.TrackIDs),
		})
	}
	respondJSON(w, http.StatusOK, payload)
}

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RecordPlay handles POST /api/tracks/{id}/play, incrementing the play
// counter that feeds the popularity tie-break.
func (h *Handlers) RecordPlay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "track id is required")
		return
	}

	recorder, ok := h.catalog.(catalog.PlayRecorder)
	if !ok {
		respondError(w, http.StatusNotImplemented, "play recording not supported")
		return
	}

	err := recorder.RecordPlay(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, "track not found")
		return
	}
	if err != nil {
		log.Printf("recording play for %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// lookupTrack prefers the provider's point lookup when available and
// falls back to scanning the snapshot.
func (h *Handlers) lookupTrack(r *http.Request, snapshot []station.Track, id string) (*station.Track, error) {
	if getter, ok := h.catalog.(catalog.Getter); ok {
		return getter.Get(r.Context(), id)
	}
	for i := range snapshot {
		if snapshot[i].ID == id {
			return &snapshot[i], nil
		}
	}
	return nil, catalog.ErrNotFound
}

// tagStats prefers the provider's aggregate query when available and
// falls back to scanning the snapshot.
func (h *Handlers) tagStats(r *http.Request, snapshot []station.Track) []station.TagStat {
	if statser, ok := h.catalog.(catalog.TagStatser); ok {
		if stats, err := statser.TagStats(r.Context()); err == nil {
			return stats
		}
	}
	return station.TagStats(snapshot)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
