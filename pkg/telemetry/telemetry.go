// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package telemetry exposes the process's Prometheus metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the instrument set for the dashboard core.
type Metrics struct {
	SeriesGenerated prometheus.Counter
	RulesEvaluated  *prometheus.CounterVec
	ActionsExecuted *prometheus.CounterVec
	AlertsTriggered *prometheus.CounterVec
	AlertsAcked     prometheus.Counter
	EvalDuration    *prometheus.HistogramVec
}

// New registers the instrument set with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SeriesGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "pulse_series_generated_total",
			Help: "Synthetic time series generated.",
		}),
		RulesEvaluated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_rules_evaluated_total",
			Help: "Rule evaluation passes by engine.",
		}, []string{"engine"}),
		ActionsExecuted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_actions_executed_total",
			Help: "Optimization actions executed by type and status.",
		}, []string{"action", "status"}),
		AlertsTriggered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_alerts_triggered_total",
			Help: "Alert events raised by metric.",
		}, []string{"metric"}),
		AlertsAcked: factory.NewCounter(prometheus.CounterOpts{
			Name: "pulse_alerts_acknowledged_total",
			Help: "Alert events acknowledged.",
		}),
		EvalDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pulse_evaluation_duration_seconds",
			Help:    "Duration of rule evaluation passes.",
			Buckets: prometheus.DefBuckets,
		}, []string{"engine"}),
	}
}

// NewDefault registers against the default Prometheus registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
