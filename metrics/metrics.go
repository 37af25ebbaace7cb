// Package metrics provides Prometheus metrics collection for semshape.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for synthesis requests.
const (
	OutcomeOK             = "ok"
	OutcomeUnknownType    = "unknown_type"
	OutcomeCycle          = "cycle"
	OutcomeInvalidRequest = "invalid_request"
	OutcomeInternal       = "internal"
)

// Collector holds all Prometheus metrics for semshape. A nil *Collector is
// valid and records nothing.
type Collector struct {
	// Synthesis metrics
	SynthesisTotal    *prometheus.CounterVec
	SynthesisDuration *prometheus.HistogramVec

	// Registry metrics
	RegistryReloads      prometheus.Counter
	RegistryReloadErrors prometheus.Counter
	RegistryTypes        prometheus.Gauge
	RegistryLastReload   prometheus.Gauge

	// Catalog metrics
	CatalogEntitiesPublished prometheus.Counter
	CatalogExports           *prometheus.CounterVec
}

// New creates a collector with every metric registered on reg.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		SynthesisTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semshape",
				Name:      "synthesis_total",
				Help:      "Total number of template synthesis requests",
			},
			[]string{"outcome", "format"},
		),
		SynthesisDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "semshape",
				Name:      "synthesis_duration_seconds",
				Help:      "Template synthesis and rendering duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
			[]string{"mode"},
		),
		RegistryReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "semshape",
				Name:      "registry_reloads_total",
				Help:      "Total number of successful shape registry reloads",
			},
		),
		RegistryReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "semshape",
				Name:      "registry_reload_errors_total",
				Help:      "Total number of failed shape registry reloads",
			},
		),
		RegistryTypes: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "semshape",
				Name:      "registry_types",
				Help:      "Number of types in the published shape registry",
			},
		),
		RegistryLastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "semshape",
				Name:      "registry_last_reload_timestamp",
				Help:      "Unix timestamp of the last successful registry publish",
			},
		),
		CatalogEntitiesPublished: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "semshape",
				Name:      "catalog_entities_published_total",
				Help:      "Total number of catalog entities published for graph ingestion",
			},
		),
		CatalogExports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semshape",
				Name:      "catalog_exports_total",
				Help:      "Entity ingest messages handled by catalog-export, by outcome",
			},
			[]string{"outcome", "format"},
		),
	}
}

// ObserveSynthesis records one synthesis request.
func (c *Collector) ObserveSynthesis(outcome, format string, mandatoryOnly bool, d time.Duration) {
	if c == nil {
		return
	}
	mode := "all"
	if mandatoryOnly {
		mode = "mandatory"
	}
	c.SynthesisTotal.WithLabelValues(outcome, format).Inc()
	c.SynthesisDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// RegistryPublished records a successful registry build with typeCount types.
func (c *Collector) RegistryPublished(typeCount int, reload bool) {
	if c == nil {
		return
	}
	if reload {
		c.RegistryReloads.Inc()
	}
	c.RegistryTypes.Set(float64(typeCount))
	c.RegistryLastReload.SetToCurrentTime()
}

// ReloadFailed records a failed registry reload.
func (c *Collector) ReloadFailed() {
	if c == nil {
		return
	}
	c.RegistryReloadErrors.Inc()
}

// CatalogPublished records n published catalog entities.
func (c *Collector) CatalogPublished(n int) {
	if c == nil {
		return
	}
	c.CatalogEntitiesPublished.Add(float64(n))
}

// CatalogExported records one entity message handled by catalog-export.
func (c *Collector) CatalogExported(outcome, format string) {
	if c == nil {
		return
	}
	c.CatalogExports.WithLabelValues(outcome, format).Inc()
}

var (
	defaultOnce      sync.Once
	defaultRegistry  *prometheus.Registry
	defaultCollector *Collector
)

// Default returns the process-wide collector, registered on DefaultRegistry.
func Default() *Collector {
	defaultOnce.Do(initDefault)
	return defaultCollector
}

// DefaultRegistry returns the process-wide registry, which also carries Go
// runtime and process metrics.
func DefaultRegistry() *prometheus.Registry {
	defaultOnce.Do(initDefault)
	return defaultRegistry
}

func initDefault() {
	defaultRegistry = prometheus.NewRegistry()
	defaultRegistry.MustRegister(collectors.NewGoCollector())
	defaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	defaultCollector = New(defaultRegistry)
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
