// Command server runs the player valuation and recommendation engine.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"fantasyedge/internal/alerts"
	"fantasyedge/internal/cache"
	"fantasyedge/internal/config"
	"fantasyedge/internal/pricing"
	"fantasyedge/internal/recommend"
	"fantasyedge/internal/server"
	"fantasyedge/internal/store"
	"fantasyedge/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New(logger.Config{Level: "info"})
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("port", cfg.Port).
		Float64("magic_number", cfg.MagicNumber).
		Msg("Starting fantasyedge")

	db, err := store.Open(filepath.Join(cfg.DataDir, "fantasyedge.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	players := store.NewPlayerRepository(db, log)
	news := store.NewNewsRepository(db, log)
	venues := store.NewVenueRepository(db, log)
	dvp := store.NewDVPRepository(db, log)
	liveScores := store.NewLiveScoreRepository(db, log)

	results := cache.NewStore(log)
	defer results.Close()

	// Surface cache evictions in the log stream.
	go func() {
		for key := range results.Evictions() {
			log.Debug().Str("key", key).Msg("Cache entry evicted")
		}
	}()

	engine := recommend.New(recommend.Config{
		Players:     players,
		News:        news,
		Venues:      venues,
		DVP:         dvp,
		Simulator:   pricing.NewSimulator(pricing.DefaultPriceModel, log),
		Cache:       results,
		MagicNumber: cfg.MagicNumber,
		Log:         log,
	})

	hub := alerts.NewHub(log)
	poller := alerts.NewPoller(hub, results, players, news, liveScores, cfg.PollInterval, log)
	if err := poller.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start alert poller")
	}

	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		Engine:  engine,
		Players: players,
		Cache:   results,
		Hub:     hub,
		DevMode: cfg.DevMode,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	poller.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}
