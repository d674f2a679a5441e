// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/marketpulse/pulse/pkg/campaign"
	"github.com/marketpulse/pulse/pkg/datasource"
	"github.com/marketpulse/pulse/pkg/log"
	"github.com/marketpulse/pulse/pkg/metrics"
)

func testService(now time.Time) *Service {
	cat := campaign.NewCatalog(campaign.MBBH2026(), campaign.BaleSantai())
	reg := datasource.NewMockRegistryAt(cat, func() time.Time { return now })
	s := NewService(cat, reg, log.NoLog)
	s.clock = func() time.Time { return now }
	return s
}

func TestCampaignsList(t *testing.T) {
	require := require.New(t)

	// Mid-flight of MBBH, before Bale Santai starts.
	s := testService(time.Date(2026, time.February, 20, 9, 0, 0, 0, time.UTC))
	list := s.Campaigns()
	require.Len(list, 2)

	require.Equal(campaign.StatusActive, list[0].Status)
	require.Equal(7, list[0].DaysElapsed)
	require.Equal(15, list[0].TotalDays)

	require.Equal(campaign.StatusUpcoming, list[1].Status)
	require.Equal(0, list[1].DaysElapsed)
}

func TestCampaignOverviewCompleted(t *testing.T) {
	require := require.New(t)

	s := testService(time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC))
	ov, err := s.CampaignOverview(context.Background(), 1)
	require.NoError(err)

	require.Equal(campaign.StatusCompleted, ov.Status)
	require.Equal(15, ov.DaysElapsed)
	require.Equal(15, ov.TotalDays)

	// search clicks + discovery visits + social clicks KPIs
	require.Len(ov.KPIs, 3)
	require.Len(ov.Channels, 3)

	searchKPI := ov.KPIs[0]
	require.Equal("clicks", searchKPI.MetricName)
	require.Equal(30000, searchKPI.Target)
	require.InDelta(30000, searchKPI.Actual, 30000*0.031)
	require.True(searchKPI.OnTrack)
	require.Equal(0, searchKPI.DaysRemaining)
	// Flight is over, so projection equals delivery.
	require.Equal(searchKPI.Actual, searchKPI.Projected)

	require.Equal(ov.ToDate.Clicks, ov.Channels[0].Metrics.Clicks+ov.Channels[1].Metrics.Clicks+ov.Channels[2].Metrics.Clicks)
	require.Equal(metrics.SourceMock, ov.Sources["search"].Source)
}

func TestCampaignOverviewMidFlight(t *testing.T) {
	require := require.New(t)

	s := testService(time.Date(2026, time.February, 20, 9, 0, 0, 0, time.UTC))
	ov, err := s.CampaignOverview(context.Background(), 1)
	require.NoError(err)

	require.Equal(campaign.StatusActive, ov.Status)
	require.Equal(7, ov.DaysElapsed)

	for _, kpi := range ov.KPIs {
		require.Less(kpi.Actual, kpi.Target)
		require.Equal(8, kpi.DaysRemaining)
		require.Positive(kpi.Projected)
	}

	// Today's totals cover only the latest generated day.
	require.Positive(ov.Today.Clicks)
	require.Less(ov.Today.Clicks, ov.ToDate.Clicks)
}

func TestCampaignOverviewUpcoming(t *testing.T) {
	require := require.New(t)

	s := testService(time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC))
	ov, err := s.CampaignOverview(context.Background(), 1)
	require.NoError(err)

	require.Equal(campaign.StatusUpcoming, ov.Status)
	require.Equal(0, ov.DaysElapsed)
	require.Zero(ov.ToDate.Clicks)
	for _, kpi := range ov.KPIs {
		require.Zero(kpi.Actual)
		require.Zero(kpi.Projected)
		require.False(kpi.OnTrack)
	}
}

func TestCampaignOverviewUnknownCampaign(t *testing.T) {
	require := require.New(t)

	s := testService(time.Date(2026, time.February, 20, 9, 0, 0, 0, time.UTC))
	_, err := s.CampaignOverview(context.Background(), 42)
	require.ErrorIs(err, campaign.ErrNotFound)
}

func TestKPIProgressPaceAndTrend(t *testing.T) {
	require := require.New(t)

	// Ahead of pace: 60% delivered at the halfway mark.
	p := kpiProgress("clicks", 1000, 600, 5, 10)
	require.Equal(1200, p.Projected)
	require.True(p.OnTrack)
	require.Equal("up", p.Trend)

	// Behind pace and projected under 90% of target.
	p = kpiProgress("clicks", 1000, 400, 5, 10)
	require.Equal(800, p.Projected)
	require.False(p.OnTrack)
	require.Equal("down", p.Trend)

	// Exactly on the pace line.
	p = kpiProgress("clicks", 1000, 500, 5, 10)
	require.Equal("flat", p.Trend)
	require.True(p.OnTrack)
}
