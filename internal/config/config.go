// Package config loads stationd settings from the environment, with an
// optional .env file for local development.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings for stationd.
type Config struct {
	// Addr is the listen address for the HTTP API.
	Addr string
	// DatabaseURL is a pgx connection string. Empty means the in-memory
	// catalog is used instead of Postgres.
	DatabaseURL string
	// MoodAssistURL points at an external tag-suggestion service. Empty
	// disables the assist and mood text is resolved locally.
	MoodAssistURL string
	// VibesFile is a path to a versioned synonym/vibe table document.
	// Empty falls back to the built-in tables.
	VibesFile string
	// StationSize is the number of tracks per generated session.
	StationSize int
	// RandSeed pins the engine's random source when non-zero, for
	// reproducible sessions in development.
	RandSeed uint64
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return Config{
		Addr:          getEnv("ADDR", ":8080"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		MoodAssistURL: getEnv("MOOD_ASSIST_URL", ""),
		VibesFile:     getEnv("VIBES_FILE", ""),
		StationSize:   getEnvInt("STATION_SIZE", 0),
		RandSeed:      getEnvUint("RAND_SEED", 0),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvUint(key string, fallback uint64) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, value, fallback)
		return fallback
	}
	return n
}
