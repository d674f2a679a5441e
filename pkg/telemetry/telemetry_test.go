// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegisterAndCount(t *testing.T) {
	require := require.New(t)

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SeriesGenerated.Inc()
	m.SeriesGenerated.Inc()
	m.ActionsExecuted.WithLabelValues("adjust_bid", "executed").Inc()
	m.AlertsTriggered.WithLabelValues("cpc").Inc()
	m.AlertsAcked.Inc()
	m.RulesEvaluated.WithLabelValues("optimize").Inc()
	m.EvalDuration.WithLabelValues("optimize").Observe(0.02)

	require.InDelta(2, testutil.ToFloat64(m.SeriesGenerated), 0)
	require.InDelta(1, testutil.ToFloat64(m.ActionsExecuted.WithLabelValues("adjust_bid", "executed")), 0)
	require.InDelta(1, testutil.ToFloat64(m.AlertsTriggered.WithLabelValues("cpc")), 0)

	families, err := reg.Gather()
	require.NoError(err)
	require.NotEmpty(families)
}

func TestMetricsDuplicateRegistrationPanics(t *testing.T) {
	require := require.New(t)

	reg := prometheus.NewRegistry()
	New(reg)
	require.Panics(func() { New(reg) })
}
