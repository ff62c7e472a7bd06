// Package metrics provides Prometheus metrics for descriptor activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/artpar/fieldprop/core/model"
)

// Collector holds the Prometheus metrics and implements model.Recorder.
type Collector struct {
	TypesBuilt     *prometheus.CounterVec
	RegistryFields *prometheus.GaugeVec

	WritesTotal     *prometheus.CounterVec
	RefreshTotal    *prometheus.CounterVec
	RefreshFailures *prometheus.CounterVec
}

var _ model.Recorder = (*Collector)(nil)

// New creates a collector registered on the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a collector registered on the given registry.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		TypesBuilt: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fieldprop",
				Name:      "types_built_total",
				Help:      "Total number of model types constructed",
			},
			[]string{"type"},
		),
		RegistryFields: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "fieldprop",
				Name:      "registry_fields",
				Help:      "Number of registered descriptor fields per type",
			},
			[]string{"type"},
		),
		WritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fieldprop",
				Name:      "writes_total",
				Help:      "Total descriptor field writes",
			},
			[]string{"type", "field"},
		),
		RefreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fieldprop",
				Name:      "refresh_total",
				Help:      "Total materialized-map refresh passes",
			},
			[]string{"type"},
		),
		RefreshFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fieldprop",
				Name:      "refresh_failures_total",
				Help:      "Total refresh passes aborted by a failing getter",
			},
			[]string{"type"},
		),
	}
}

// TypeBuilt records a constructed model type.
func (c *Collector) TypeBuilt(typeName string, fields int) {
	c.TypesBuilt.WithLabelValues(typeName).Inc()
	c.RegistryFields.WithLabelValues(typeName).Set(float64(fields))
}

// WriteApplied records a descriptor field write.
func (c *Collector) WriteApplied(typeName, field string) {
	c.WritesTotal.WithLabelValues(typeName, field).Inc()
}

// RefreshCompleted records a successful refresh pass.
func (c *Collector) RefreshCompleted(typeName string, fields int) {
	c.RefreshTotal.WithLabelValues(typeName).Inc()
}

// RefreshFailed records a refresh pass aborted by a failing getter.
func (c *Collector) RefreshFailed(typeName string) {
	c.RefreshFailures.WithLabelValues(typeName).Inc()
}
