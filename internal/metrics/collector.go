// Package metrics exposes Prometheus instrumentation for the station finder.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	AttemptPrimary  = "primary"
	AttemptFallback = "fallback"
)

// Collector bundles the finder's metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	CacheLookups     *prometheus.CounterVec
	CacheEntries     prometheus.Gauge
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	RecordsSkipped   *prometheus.CounterVec
}

// NewCollector registers the metrics against reg, defaulting to the global
// Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	lookups, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "station_cache_lookups_total",
		Help: "Result cache lookups, labeled by result (hit or miss).",
	}, []string{"result"}), "station_cache_lookups_total")
	if err != nil {
		return nil, err
	}

	entries, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "station_cache_entries",
		Help: "Entries currently held by the result cache, including expired ones awaiting a sweep.",
	}), "station_cache_entries")
	if err != nil {
		return nil, err
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "station_upstream_requests_total",
		Help: "Open Charge Map requests, labeled by attempt (primary or fallback) and outcome.",
	}, []string{"attempt", "outcome"}), "station_upstream_requests_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "station_upstream_request_duration_seconds",
		Help:    "Open Charge Map request latency in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"attempt"}), "station_upstream_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	skipped, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "station_records_skipped_total",
		Help: "Upstream station records dropped during normalization, labeled by reason.",
	}, []string{"reason"}), "station_records_skipped_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         gatherer,
		CacheLookups:     lookups,
		CacheEntries:     entries,
		UpstreamRequests: requests,
		UpstreamDuration: durations,
		RecordsSkipped:   skipped,
	}, nil
}

func (c *Collector) CacheLookup(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.CacheLookups.WithLabelValues(result).Inc()
}

func (c *Collector) SetCacheEntries(n int) {
	if c == nil {
		return
	}
	c.CacheEntries.Set(float64(n))
}

// UpstreamRequest records one upstream call. A nil err counts as "ok".
func (c *Collector) UpstreamRequest(attempt string, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.UpstreamRequests.WithLabelValues(attempt, outcome).Inc()
	c.UpstreamDuration.WithLabelValues(attempt).Observe(elapsed.Seconds())
}

func (c *Collector) RecordSkipped(reason string) {
	if c == nil {
		return
	}
	c.RecordsSkipped.WithLabelValues(reason).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
