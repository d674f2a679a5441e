// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mockdata

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func mbbhConfig() Config {
	return Config{
		StartDate:   date("2026-02-14"),
		EndDate:     date("2026-02-28"),
		TargetTotal: 30000,
		AvgCTR:      0.05,
		AvgCPC:      1500,
	}
}

func TestGenerateDeterminism(t *testing.T) {
	require := require.New(t)

	a, err := Generate(mbbhConfig(), 142)
	require.NoError(err)
	b, err := Generate(mbbhConfig(), 142)
	require.NoError(err)

	require.Equal(a, b)
}

func TestGenerateDateCoverage(t *testing.T) {
	require := require.New(t)

	points, err := Generate(mbbhConfig(), 142)
	require.NoError(err)
	require.Len(points, 15)

	expected := date("2026-02-14")
	for _, p := range points {
		require.Equal(expected, p.Date)
		expected = expected.AddDate(0, 0, 1)
	}
}

func TestGenerateTotalConvergence(t *testing.T) {
	require := require.New(t)

	for _, seed := range []int64{1, 42, 142, 1000, 987654} {
		points, err := Generate(mbbhConfig(), seed)
		require.NoError(err)

		total := 0
		for _, p := range points {
			total += p.Clicks
		}
		require.InDelta(30000, total, 30000*0.03, "seed %d total %d", seed, total)
	}
}

func TestGenerateNonNegativity(t *testing.T) {
	require := require.New(t)

	for _, seed := range []int64{3, 77, 500} {
		points, err := Generate(mbbhConfig(), seed)
		require.NoError(err)

		for _, p := range points {
			require.GreaterOrEqual(p.Impressions, 0)
			require.GreaterOrEqual(p.Clicks, 0)
			require.GreaterOrEqual(p.Visits, 0)
			require.GreaterOrEqual(p.Conversions, 0)
			require.GreaterOrEqual(p.Cost, 0)
			require.GreaterOrEqual(p.Impressions, p.Clicks)
		}
	}
}

func TestGenerateRateBounds(t *testing.T) {
	require := require.New(t)

	points, err := Generate(mbbhConfig(), 9)
	require.NoError(err)

	for _, p := range points {
		require.GreaterOrEqual(p.CTR, 0.005)
		require.LessOrEqual(p.CTR, 0.15)
		require.GreaterOrEqual(p.CPC, 100.0)
	}
}

func TestGenerateMBBHScenario(t *testing.T) {
	require := require.New(t)

	points, err := Generate(mbbhConfig(), 142)
	require.NoError(err)
	require.Len(points, 15)

	total := 0
	for _, p := range points {
		total += p.Clicks
	}
	require.GreaterOrEqual(total, 29100)
	require.LessOrEqual(total, 30900)

	// 2026-02-14 is a Saturday: ramp 0.4 x weekend 0.75 is the lowest
	// relative daily volume in the series.
	require.Equal(time.Saturday, points[0].Date.Weekday())
	first := rampMultiplier(0) * weekdayMultiplier(points[0].Date.Weekday())
	for i, p := range points[1:] {
		w := rampMultiplier(i+1) * weekdayMultiplier(p.Date.Weekday())
		require.Greater(w, first)
	}
}

func TestRampTendency(t *testing.T) {
	require := require.New(t)

	// Pre-noise weights, holding the weekday effect constant.
	require.Less(rampMultiplier(0), rampMultiplier(1))
	require.Less(rampMultiplier(1), rampMultiplier(2))
	require.LessOrEqual(rampMultiplier(2), rampMultiplier(3))
	require.Equal(rampMultiplier(3), rampMultiplier(10))
}

func TestWeekdayWeights(t *testing.T) {
	require := require.New(t)

	require.Equal(0.75, weekdayMultiplier(time.Saturday))
	require.Equal(0.75, weekdayMultiplier(time.Sunday))
	require.Equal(0.9, weekdayMultiplier(time.Friday))
	for _, d := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday} {
		require.Equal(1.0, weekdayMultiplier(d))
	}
}

func TestGenerateSingleDay(t *testing.T) {
	require := require.New(t)

	cfg := mbbhConfig()
	cfg.EndDate = cfg.StartDate

	points, err := Generate(cfg, 11)
	require.NoError(err)
	require.Len(points, 1)
	require.Greater(points[0].Clicks, 0)
}

func TestGenerateZeroTarget(t *testing.T) {
	require := require.New(t)

	cfg := mbbhConfig()
	cfg.TargetTotal = 0

	points, err := Generate(cfg, 42)
	require.NoError(err)
	require.Len(points, 15)
	for _, p := range points {
		require.Zero(p.Clicks)
		require.Zero(p.Impressions)
		require.Zero(p.Cost)
		require.Zero(p.Conversions)
		require.Zero(p.Visits)
	}
}

func TestGenerateUpToTodayPrefix(t *testing.T) {
	require := require.New(t)

	full, err := Generate(mbbhConfig(), 142)
	require.NoError(err)

	partial, err := GenerateAsOf(mbbhConfig(), 142, date("2026-02-20"))
	require.NoError(err)
	require.Len(partial, 7)
	require.Equal(full[:7], partial)

	// Campaign entirely in the future.
	empty, err := GenerateAsOf(mbbhConfig(), 142, date("2026-02-01"))
	require.NoError(err)
	require.Empty(empty)

	// Campaign entirely in the past.
	all, err := GenerateAsOf(mbbhConfig(), 142, date("2026-03-15"))
	require.NoError(err)
	require.Equal(full, all)
}

func TestNormalizePreservesRates(t *testing.T) {
	require := require.New(t)

	points, err := Generate(mbbhConfig(), 142)
	require.NoError(err)

	for _, p := range points {
		require.InDelta(float64(p.Clicks)/p.CTR, float64(p.Impressions), 1.0)
		require.InDelta(float64(p.Clicks)*p.CPC, float64(p.Cost), 1.0)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"reversed range", func(c *Config) { c.StartDate, c.EndDate = c.EndDate, c.StartDate }, ErrInvalidDateRange},
		{"negative target", func(c *Config) { c.TargetTotal = -5 }, ErrNegativeTarget},
		{"zero ctr", func(c *Config) { c.AvgCTR = 0 }, ErrInvalidCTR},
		{"ctr above one", func(c *Config) { c.AvgCTR = 1.2 }, ErrInvalidCTR},
		{"zero cpc", func(c *Config) { c.AvgCPC = 0 }, ErrInvalidCPC},
		{"negative conversion rate", func(c *Config) { c.ConversionRate = -0.1 }, ErrInvalidConvRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := mbbhConfig()
			tt.mutate(&cfg)
			_, err := Generate(cfg, 1)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerateDefaultConversionRate(t *testing.T) {
	require := require.New(t)

	points, err := Generate(mbbhConfig(), 42)
	require.NoError(err)

	// The per-day rate is noised around the 0.025 default.
	sum := 0.0
	for _, p := range points {
		sum += p.ConversionRate
	}
	avg := sum / float64(len(points))
	require.InDelta(0.025, avg, 0.01)
	require.False(math.IsNaN(avg))
}
