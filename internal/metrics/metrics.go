// Package metrics exposes the engine's Prometheus instrumentation. Counters
// live here so the engine stays free of registry wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	EventsTotal      *prometheus.CounterVec
	DirectivesTotal  *prometheus.CounterVec
	AssessmentsTotal *prometheus.CounterVec
	ActiveSessions   prometheus.GaugeFunc
}

// New registers the engine metrics on reg. sessionCount feeds the active
// sessions gauge; pass nil to skip it.
func New(reg prometheus.Registerer, sessionCount func() float64) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		EventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "etsbot",
			Name:      "events_total",
			Help:      "Inbound events processed, by event kind.",
		}, []string{"kind"}),
		DirectivesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "etsbot",
			Name:      "directives_total",
			Help:      "Outbound directives emitted, by directive type.",
		}, []string{"type"}),
		AssessmentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "etsbot",
			Name:      "risk_assessments_total",
			Help:      "Completed symptom assessments, by resolved risk tier.",
		}, []string{"tier"}),
	}
	if sessionCount != nil {
		m.ActiveSessions = factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "etsbot",
			Name:      "active_sessions",
			Help:      "Sessions currently held in the store.",
		}, sessionCount)
	}
	return m
}
