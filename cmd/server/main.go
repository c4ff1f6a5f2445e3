// Package main runs the charging station API as a standalone HTTP server.
package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/bbernstein/chargefinder/backend-go/internal/config"
	"github.com/bbernstein/chargefinder/backend-go/internal/metrics"
	"github.com/bbernstein/chargefinder/backend-go/internal/server"
	"github.com/bbernstein/chargefinder/backend-go/internal/station"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

func main() {
	// A missing .env is normal outside local development.
	envErr := godotenv.Load()

	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		log.Warn().Err(envErr).Msg("Could not load .env file")
	}

	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register metrics")
	}

	finder, err := station.NewOpenChargeMapFinder(cfg, config.GetCacheConfig(), collector)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create station finder")
	}

	router := server.SetupRouter(cfg, finder, collector.Handler())

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().
		Str("addr", addr).
		Str("environment", cfg.Environment).
		Str("ocm_base_url", cfg.OCMBaseURL).
		Int("search_radius_km", cfg.SearchRadiusKM).
		Msg("Starting charging station server")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
