package observability

import (
	"context"

	"github.com/aretw0/graficador/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for edits and exports.
type Metrics struct {
	Edits          *prometheus.CounterVec
	Exports        *prometheus.CounterVec
	ExportDuration *prometheus.HistogramVec
	ExportFiles    *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Edits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graficador_edit_operations_total",
				Help: "Total number of editor operations by outcome",
			},
			[]string{"op", "outcome"},
		),
		Exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graficador_exports_total",
				Help: "Total number of export attempts",
			},
			[]string{"target", "outcome"},
		),
		ExportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "graficador_export_duration_seconds",
				Help:    "Duration of export pipelines",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"target"},
		),
		ExportFiles: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "graficador_export_files",
				Help: "Number of files in the last successful export",
			},
			[]string{"target"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Edits, m.Exports, m.ExportDuration, m.ExportFiles)
	}
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEdit: func(_ context.Context, e *domain.EditEvent) {
			m.Edits.WithLabelValues(e.Op, e.Outcome).Inc()
		},
		OnExport: func(_ context.Context, e *domain.ExportEvent) {
			outcome := "success"
			if e.Err != nil {
				outcome = "error"
			}
			m.Exports.WithLabelValues(e.Target, outcome).Inc()
			m.ExportDuration.WithLabelValues(e.Target).Observe(e.Duration.Seconds())
			if e.Err == nil {
				m.ExportFiles.WithLabelValues(e.Target).Set(float64(e.Files))
			}
		},
	}
}
