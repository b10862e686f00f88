// Package presets derives suggested station presets from the catalog by
// clustering tracks on their tag vectors. A preset is a bundle of vibe
// tags the client can feed straight into station generation.
package presets

import (
	"log"
	"sort"
	"strings"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/tunedial/station/internal/station"
	"github.com/tunedial/station/internal/vibes"
)

// Config holds preset detection parameters.
type Config struct {
	NumPresets int // Number of clusters to create (default: 4)
	MinTracks  int // Minimum tracks per preset (smaller clusters are dropped)
	MaxTags    int // Maximum tags to use in vectors (default: 50)
	SeedTags   int // Tags exposed per preset (default: 3)
}

// DefaultConfig returns the recommended default configuration.
func DefaultConfig() Config {
	return Config{
		NumPresets: 4,
		MinTracks:  3,
		MaxTags:    50,
		SeedTags:   3,
	}
}

// Preset is a suggested station: a name, the seed tags to generate it
// with, and the tracks that formed the cluster.
type Preset struct {
	Name     string
	SeedTags []string
	TrackIDs []string
}

// trackObservation wraps a Track to implement the clusters.Observation
// interface.
type trackObservation struct {
	track  *station.Track
	coords clusters.Coordinates
}

func (o trackObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o trackObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Detect groups catalog tracks by tag similarity using k-means and
// returns the resulting presets, largest first. Tracks without tags are
// ignored; when the catalog is too small to cluster, Detect returns nil.
func Detect(catalog []station.Track, cfg Config) []Preset {
	if cfg.NumPresets <= 0 {
		cfg.NumPresets = DefaultConfig().NumPresets
	}
	if cfg.MaxTags <= 0 {
		cfg.MaxTags = DefaultConfig().MaxTags
	}
	if cfg.SeedTags <= 0 {
		cfg.SeedTags = DefaultConfig().SeedTags
	}

	var tagged []*station.Track
	for i := range catalog {
		t := &catalog[i]
		if t.ID != "" && len(t.Tags) > 0 {
			tagged = append(tagged, t)
		}
	}
	if len(tagged) < cfg.NumPresets {
		return nil
	}

	vocabulary, display := buildVocabulary(tagged, cfg.MaxTags)
	if len(vocabulary) == 0 {
		return nil
	}

	var obs clusters.Observations
	for _, t := range tagged {
		obs = append(obs, trackObservation{
			track:  t,
			coords: buildTagVector(t, vocabulary),
		})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, cfg.NumPresets)
	if err != nil {
		log.Printf("preset clustering failed: %v", err)
		return nil
	}

	var out []Preset
	for _, cluster := range result {
		var ids []string
		for _, o := range cluster.Observations {
			if to, ok := o.(trackObservation); ok {
				ids = append(ids, to.track.ID)
			}
		}
		if len(ids) < cfg.MinTracks {
			continue
		}

		topTags := extractTopTags(cluster.Center, vocabulary, display, cfg.SeedTags)
		out = append(out, Preset{
			Name:     presetName(topTags),
			SeedTags: topTags,
			TrackIDs: ids,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].TrackIDs) > len(out[j].TrackIDs)
	})
	return out
}

// buildVocabulary collects normalized tags across the tagged tracks and
// returns the top N most common plus a normalized-to-display mapping.
func buildVocabulary(tracks []*station.Track, maxTags int) ([]string, map[string]string) {
	counts := make(map[string]int)
	display := make(map[string]string)
	for _, t := range tracks {
		for _, tag := range t.Tags {
			norm := vibes.Normalize(tag)
			if norm == "" {
				continue
			}
			if _, ok := display[norm]; !ok {
				display[norm] = tag
			}
			counts[norm]++
		}
	}

	type tagCount struct {
		norm  string
		count int
	}
	tagCounts := make([]tagCount, 0, len(counts))
	for norm, count := range counts {
		tagCounts = append(tagCounts, tagCount{norm: norm, count: count})
	}
	sort.Slice(tagCounts, func(i, j int) bool {
		if tagCounts[i].count != tagCounts[j].count {
			return tagCounts[i].count > tagCounts[j].count
		}
		return tagCounts[i].norm < tagCounts[j].norm
	})

	n := min(maxTags, len(tagCounts))
	vocabulary := make([]string, n)
	for i := 0; i < n; i++ {
		vocabulary[i] = tagCounts[i].norm
	}
	return vocabulary, display
}

// buildTagVector creates a binary presence vector for a track over the
// vocabulary.
func buildTagVector(track *station.Track, vocabulary []string) clusters.Coordinates {
	index := make(map[string]int, len(vocabulary))
	for i, tag := range vocabulary {
		index[tag] = i
	}

	vector := make(clusters.Coordinates, len(vocabulary))
	for _, tag := range track.Tags {
		if idx, ok := index[vibes.Normalize(tag)]; ok {
			vector[idx] = 1
		}
	}
	return vector
}

// extractTopTags returns the display form of the top N tags from a
// centroid vector.
func extractTopTags(centroid clusters.Coordinates, vocabulary []string, display map[string]string, n int) []string {
	type tagWeight struct {
		norm   string
		weight float64
	}
	weights := make([]tagWeight, len(vocabulary))
	for i, norm := range vocabulary {
		weight := 0.0
		if i < len(centroid) {
			weight = centroid[i]
		}
		weights[i] = tagWeight{norm: norm, weight: weight}
	}

	sort.SliceStable(weights, func(i, j int) bool {
		return weights[i].weight > weights[j].weight
	})

	result := make([]string, 0, n)
	for i := 0; i < len(weights) && len(result) < n; i++ {
		if weights[i].weight > 0 {
			result = append(result, display[weights[i].norm])
		}
	}
	return result
}

// presetName creates a display name from the preset's top tags.
func presetName(topTags []string) string {
	if len(topTags) == 0 {
		return "Mixed"
	}
	return strings.Join(topTags, " & ")
}
