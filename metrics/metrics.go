// Package metrics exposes pipeline counters in the Prometheus text format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"musicmeta/amazonmusic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	FetchesTotal    *prometheus.CounterVec
	FetchDuration   *prometheus.HistogramVec
	ResolvesTotal   *prometheus.CounterVec
	SearchesTotal   *prometheus.CounterVec
	SearchResults   prometheus.Histogram
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New registers the collectors on a private registry so that several
// instances can coexist in one process
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "musicmeta_upstream_fetches_total",
				Help: "Total number of upstream page fetches",
			},
			[]string{"segment", "outcome"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "musicmeta_upstream_fetch_duration_seconds",
				Help:    "Time spent fetching upstream pages",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"segment"},
		),
		ResolvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "musicmeta_resolves_total",
				Help: "Total number of resource resolutions",
			},
			[]string{"kind", "outcome"},
		),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "musicmeta_searches_total",
				Help: "Total number of searches by the phase that produced results",
			},
			[]string{"phase"},
		),
		SearchResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "musicmeta_search_results",
				Help:    "Number of tracks returned per search",
				Buckets: []float64{0, 1, 5, 10, 20, 50},
			},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "musicmeta_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "musicmeta_http_request_duration_seconds",
				Help:    "Time spent serving HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.FetchesTotal,
		m.FetchDuration,
		m.ResolvesTotal,
		m.SearchesTotal,
		m.SearchResults,
		m.RequestsTotal,
		m.RequestDuration,
	)
	return m
}

func (m *Metrics) ObserveFetch(segment, outcome string, elapsed time.Duration) {
	m.FetchesTotal.WithLabelValues(segment, outcome).Inc()
	m.FetchDuration.WithLabelValues(segment).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveResolve(kind amazonmusic.ResourceKind, outcome string) {
	m.ResolvesTotal.WithLabelValues(string(kind), outcome).Inc()
}

func (m *Metrics) ObserveSearch(phase string, results int) {
	m.SearchesTotal.WithLabelValues(phase).Inc()
	m.SearchResults.Observe(float64(results))
}

// ObserveRequest records a served request; route is the matched pattern, not the raw path
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

var _ amazonmusic.Observer = (*Metrics)(nil)
