package station

import (
	"fmt"

	"github.com/bbernstein/chargefinder/backend-go/internal/cache"
	"github.com/bbernstein/chargefinder/backend-go/internal/config"
	"github.com/bbernstein/chargefinder/backend-go/internal/metrics"
	"github.com/bbernstein/chargefinder/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
)

// NewOpenChargeMapFinder wires the Open Charge Map provider and a result
// cache into a Finder. collector may be nil.
func NewOpenChargeMapFinder(cfg *config.Config, cacheCfg *config.CacheConfig, collector *metrics.Collector) (*Finder, error) {
	httpClient := client.New(client.Options{
		BaseURL: cfg.OCMBaseURL,
		Timeout: cfg.HTTPTimeout,
	})

	resultCache, err := cache.NewResultCache(cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("creating result cache: %w", err)
	}

	if cfg.OCMAPIKey == "" {
		log.Warn().Msg("OCM_API_KEY is not set, Open Charge Map may throttle or reject requests")
	}

	return NewFinder(NewOpenChargeMap(httpClient, cfg.OCMAPIKey), resultCache, FinderOptions{
		DefaultCenter: cfg.DefaultCenter,
		RadiusKM:      cfg.SearchRadiusKM,
		MaxResults:    cfg.SearchMaxResults,
		Metrics:       collector,
	}), nil
}
