// Package metrics implements ports.Metrics with Prometheus collectors on a
// private registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/strata/internal/core/ports"
)

const namespace = "strata"

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus records tool and load measurements.
type Prometheus struct {
	registry      *prometheus.Registry
	queriesTotal  *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	loadsTotal    *prometheus.CounterVec
	loadDuration  prometheus.Histogram
	cachedModels  prometheus.Gauge
}

// New creates the collectors on a fresh registry together with the Go
// runtime and process collectors.
func New() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		queriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total tool invocations by tool and outcome",
		}, []string{"tool", "outcome"}),
		queryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Time spent serving a tool invocation",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"tool"}),
		loadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_loads_total",
			Help:      "Total model loads by outcome",
		}, []string{"outcome"}),
		loadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_load_duration_seconds",
			Help:      "Time spent loading a model",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		cachedModels: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_models",
			Help:      "Number of models held by the cache",
		}),
	}
}

// ObserveQuery records one tool invocation.
func (p *Prometheus) ObserveQuery(tool, outcome string, elapsed time.Duration) {
	p.queriesTotal.WithLabelValues(tool, outcome).Inc()
	p.queryDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ObserveLoad records one model load.
func (p *Prometheus) ObserveLoad(outcome string, elapsed time.Duration) {
	p.loadsTotal.WithLabelValues(outcome).Inc()
	p.loadDuration.Observe(elapsed.Seconds())
}

// SetCachedModels records the number of cached models.
func (p *Prometheus) SetCachedModels(n int) {
	p.cachedModels.Set(float64(n))
}

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
