package station

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bbernstein/chargefinder/backend-go/internal/cache"
	"github.com/bbernstein/chargefinder/backend-go/internal/metrics"
	"github.com/bbernstein/chargefinder/backend-go/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

type FinderOptions struct {
	DefaultCenter models.Coordinate
	RadiusKM      int
	MaxResults    int
	Metrics       *metrics.Collector
}

// Finder answers nearby-station queries from the result cache or, on a miss,
// from the upstream provider. Returned slices may be shared with the cache
// and other callers and must not be modified.
type Finder struct {
	provider      Provider
	cache         *cache.ResultCache
	metrics       *metrics.Collector
	group         singleflight.Group
	defaultCenter models.Coordinate
	radiusKM      int
	maxResults    int
}

func NewFinder(provider Provider, resultCache *cache.ResultCache, opts FinderOptions) *Finder {
	return &Finder{
		provider:      provider,
		cache:         resultCache,
		metrics:       opts.Metrics,
		defaultCenter: opts.DefaultCenter,
		radiusKM:      opts.RadiusKM,
		maxResults:    opts.MaxResults,
	}
}

var _ models.StationFinder = (*Finder)(nil)

// FindStations returns stations around location, nearest first. A nil
// location queries the default center and keeps the provider's order with
// zero distances.
func (f *Finder) FindStations(ctx context.Context, location *models.Coordinate) ([]models.Station, error) {
	query := f.defaultCenter
	if location != nil {
		if !location.Valid() {
			return nil, NewInvalidInputError(fmt.Sprintf(
				"Invalid location data. 'lat' must be within [-90, 90] and 'lng' within [-180, 180], got (%v, %v).",
				location.Latitude, location.Longitude))
		}
		query = *location
	}
	isDefault := query == f.defaultCenter

	key := cache.CacheKey(query)
	if entry, ok := f.cache.Lookup(key); ok {
		f.metrics.CacheLookup(true)
		log.Debug().Str("cache_key", key).Int("station_count", len(entry.Stations)).Msg("Cache HIT for station search")
		return entry.Stations, nil
	}
	f.metrics.CacheLookup(false)
	log.Debug().Str("cache_key", key).Msg("Cache MISS for station search, calling Open Charge Map")

	// The load is shared by every caller waiting on key, so one caller
	// going away must not cancel it. The client timeout still bounds it.
	result, err, shared := f.group.Do(key, func() (any, error) {
		return f.load(context.WithoutCancel(ctx), key, query, isDefault)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Str("cache_key", key).Msg("Shared in-flight station search")
	}
	return result.([]models.Station), nil
}

func (f *Finder) load(ctx context.Context, key string, query models.Coordinate, isDefault bool) ([]models.Station, error) {
	records, err := f.fetch(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("cache_key", key).Msg("Error fetching charging stations")
		return nil, err
	}

	stations, skipped := NormalizeAll(records, query, isDefault)
	for _, rec := range skipped {
		f.metrics.RecordSkipped(rec.Reason())
		if rec.Reason() == ReasonMissingCoordinates {
			log.Debug().Int("index", rec.Index).Msg("Skipping station without coordinates")
			continue
		}
		log.Warn().Err(rec.Err).Int("index", rec.Index).Msg("Error processing station")
	}

	if !isDefault {
		sort.SliceStable(stations, func(i, j int) bool {
			return stations[i].Distance < stations[j].Distance
		})
	}

	f.cache.Store(key, stations)
	f.metrics.SetCacheEntries(f.cache.Len())

	log.Info().
		Str("cache_key", key).
		Int("record_count", len(records)).
		Int("station_count", len(stations)).
		Msg("Processed charging stations")

	return stations, nil
}

// fetch runs the radius-limited search and, only when it comes back empty,
// one unbounded search.
func (f *Finder) fetch(ctx context.Context, query models.Coordinate) ([]json.RawMessage, error) {
	params := SearchParams{
		Center:     query,
		RadiusKM:   f.radiusKM,
		MaxResults: f.maxResults,
	}

	records, err := f.timedFetch(ctx, metrics.AttemptPrimary, params)
	if err != nil || len(records) > 0 {
		return records, err
	}

	log.Info().Msg("No stations found with distance filter, trying without")
	params.RadiusKM = 0
	return f.timedFetch(ctx, metrics.AttemptFallback, params)
}

func (f *Finder) timedFetch(ctx context.Context, attempt string, params SearchParams) ([]json.RawMessage, error) {
	start := time.Now()
	records, err := f.provider.FetchStations(ctx, params)
	f.metrics.UpstreamRequest(attempt, time.Since(start), err)
	if err != nil {
		var upstreamErr *UpstreamUnavailableError
		if !errors.As(err, &upstreamErr) {
			err = NewUpstreamUnavailableError(attempt+" search", err)
		}
		return nil, err
	}
	return records, nil
}
