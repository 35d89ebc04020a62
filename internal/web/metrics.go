package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics are registered on a per-server registry so several servers can
// live in one process (tests, render mode).
type metrics struct {
	registry    *prometheus.Registry
	dateChanges prometheus.Counter
	taps        *prometheus.CounterVec
	navigations *prometheus.CounterVec
	markedDays  prometheus.Gauge
	refreshes   *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		dateChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "calpicker_date_changes_total",
			Help: "Composite dates emitted to the host.",
		}),
		taps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calpicker_taps_total",
			Help: "Day taps by outcome.",
		}, []string{"result"}),
		navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calpicker_navigations_total",
			Help: "Month navigation attempts by direction and outcome.",
		}, []string{"direction", "result"}),
		markedDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "calpicker_marked_days",
			Help: "Number of marked days currently loaded.",
		}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calpicker_marked_refreshes_total",
			Help: "Marked-day refreshes by outcome.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(m.dateChanges, m.taps, m.navigations, m.markedDays, m.refreshes)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(ok bool) string {
	if ok {
		return "accepted"
	}
	return "ignored"
}
