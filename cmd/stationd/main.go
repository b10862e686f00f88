// Command stationd runs the station generation API server.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"github.com/tunedial/station/internal/catalog"
	"github.com/tunedial/station/internal/config"
	"github.com/tunedial/station/internal/mood"
	"github.com/tunedial/station/internal/station"
	"github.com/tunedial/station/internal/vibes"
	"github.com/tunedial/station/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	ctx := context.Background()

	tables := vibes.Default()
	if cfg.VibesFile != "" {
		loaded, err := vibes.Load(cfg.VibesFile)
		if err != nil {
			return fmt.Errorf("loading vibe tables: %w", err)
		}
		tables = loaded
		log.Printf("Loaded vibe tables version %s from %s", tables.Version(), cfg.VibesFile)
	}

	var provider catalog.Provider
	if cfg.DatabaseURL != "" {
		pg, err := catalog.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to catalog database: %w", err)
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("preparing catalog schema: %w", err)
		}
		provider = pg
	} else {
		log.Println("DATABASE_URL not set, using empty in-memory catalog")
		provider = catalog.NewMemory(nil)
	}

	engineOpts := []station.EngineOption{station.WithTables(tables)}
	if cfg.StationSize > 0 {
		engineOpts = append(engineOpts, station.WithTargetSize(cfg.StationSize))
	}
	if cfg.RandSeed != 0 {
		engineOpts = append(engineOpts, station.WithRand(rand.New(rand.NewPCG(cfg.RandSeed, cfg.RandSeed))))
	}
	engine := station.NewEngine(engineOpts...)

	var assist mood.Assist
	if cfg.MoodAssistURL != "" {
		assist = mood.NewClient(cfg.MoodAssistURL)
	}
	resolver := mood.NewResolver(assist, mood.NewMatcher(tables))

	server, err := web.NewServer(web.ServerConfig{
		Addr:     cfg.Addr,
		Catalog:  provider,
		Engine:   engine,
		Resolver: resolver,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}
