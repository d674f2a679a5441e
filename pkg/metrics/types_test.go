// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	require := require.New(t)

	data := []DailyMetric{
		{Impressions: 1000, Clicks: 50, Visits: 46, Conversions: 2, Cost: 75000},
		{Impressions: 2000, Clicks: 100, Visits: 92, Conversions: 3, Cost: 150000},
	}

	totals := Sum(data)
	require.Equal(3000, totals.Impressions)
	require.Equal(150, totals.Clicks)
	require.Equal(138, totals.Visits)
	require.Equal(5, totals.Conversions)
	require.Equal(225000, totals.Cost)
	require.InDelta(0.05, totals.AvgCTR, 1e-9)
	require.InDelta(1500.0, totals.AvgCPC, 1e-9)
	require.InDelta(5.0/150.0, totals.AvgConversionRate, 1e-9)
}

func TestSumZeroDenominators(t *testing.T) {
	require := require.New(t)

	totals := Sum(nil)
	require.Zero(totals.AvgCTR)
	require.Zero(totals.AvgCPC)
	require.Zero(totals.AvgConversionRate)

	// Impressions without clicks must not divide by zero on CPC.
	totals = Sum([]DailyMetric{{Impressions: 100}})
	require.Zero(totals.AvgCTR)
	require.Zero(totals.AvgCPC)
}

func TestAdd(t *testing.T) {
	require := require.New(t)

	a := Totals{Impressions: 1000, Clicks: 50, Cost: 60000}
	b := Totals{Impressions: 500, Clicks: 25, Cost: 30000}

	merged := Add(a, b)
	require.Equal(1500, merged.Impressions)
	require.Equal(75, merged.Clicks)
	require.Equal(90000, merged.Cost)
	require.InDelta(0.05, merged.AvgCTR, 1e-9)
	require.InDelta(1200.0, merged.AvgCPC, 1e-9)
}
