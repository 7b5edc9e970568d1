package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for the chat service.
type Metrics struct {
	registry *prometheus.Registry

	ChatTurnsTotal         *prometheus.CounterVec
	ChatTurnDuration       prometheus.Histogram
	InferenceFailuresTotal prometheus.Counter
	SessionsCreatedTotal   prometheus.Counter
}

// NewMetrics creates and registers all metrics on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		ChatTurnsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chat_turns_total",
				Help: "Total number of chat turns processed, by outcome",
			},
			[]string{"status"},
		),
		ChatTurnDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chat_turn_duration_seconds",
				Help:    "Duration of full chat turns (resolve through persist)",
				Buckets: prometheus.DefBuckets,
			},
		),
		InferenceFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "inference_failures_total",
				Help: "Total number of failed generation calls absorbed into the conversation",
			},
		),
		SessionsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sessions_created_total",
				Help: "Total number of sessions created",
			},
		),
	}

	registry.MustRegister(
		m.ChatTurnsTotal,
		m.ChatTurnDuration,
		m.InferenceFailuresTotal,
		m.SessionsCreatedTotal,
	)

	return m
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
