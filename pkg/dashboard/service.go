// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package dashboard aggregates channel metrics into campaign-level
// views: KPI progress, channel breakdowns, and daily totals.
package dashboard

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/marketpulse/pulse/pkg/campaign"
	"github.com/marketpulse/pulse/pkg/datasource"
	"github.com/marketpulse/pulse/pkg/log"
	"github.com/marketpulse/pulse/pkg/metrics"
)

// onTrackRatio is the fraction of target the pace projection must reach
// for a KPI to count as on track.
const onTrackRatio = 0.9

// Service builds dashboard views over the provider registry.
type Service struct {
	catalog  *campaign.Catalog
	registry *datasource.Registry
	log      log.Logger
	clock    func() time.Time
}

// NewService creates a dashboard service.
func NewService(catalog *campaign.Catalog, registry *datasource.Registry, logger log.Logger) *Service {
	if logger == nil {
		logger = log.NoLog
	}
	return &Service{catalog: catalog, registry: registry, log: logger}
}

func (s *Service) now() time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return time.Now().UTC()
}

// Summary is one row of the campaign list.
type Summary struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Client      string          `json:"client"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	Status      campaign.Status `json:"status"`
	TotalDays   int             `json:"totalDays"`
	DaysElapsed int             `json:"daysElapsed"`
}

// Overview is the full dashboard view of one campaign.
type Overview struct {
	Campaign    campaign.Definition      `json:"campaign"`
	Status      campaign.Status          `json:"status"`
	DaysElapsed int                      `json:"daysElapsed"`
	TotalDays   int                      `json:"totalDays"`
	KPIs        []metrics.KPIProgress    `json:"kpis"`
	Channels    []metrics.ChannelMetrics `json:"channels"`
	Today       metrics.Totals           `json:"today"`
	ToDate      metrics.Totals           `json:"toDate"`
	Sources     map[string]metrics.Meta  `json:"sources"`
}

// Campaigns lists all campaigns with derived status.
func (s *Service) Campaigns() []Summary {
	now := s.now()
	defs := s.catalog.List()
	out := make([]Summary, len(defs))
	for i, d := range defs {
		out[i] = Summary{
			ID:          d.ID,
			Name:        d.Name,
			Slug:        d.Slug,
			Client:      d.Client,
			StartDate:   d.StartDate,
			EndDate:     d.EndDate,
			Status:      d.StatusAt(now),
			TotalDays:   d.TotalDays(),
			DaysElapsed: d.DaysElapsed(now),
		}
	}
	return out
}

// CampaignOverview queries the paid channels concurrently and builds
// the aggregated campaign view.
func (s *Service) CampaignOverview(ctx context.Context, campaignID int64) (*Overview, error) {
	def, err := s.catalog.Get(campaignID)
	if err != nil {
		return nil, err
	}

	q := metrics.Query{CampaignID: campaignID}
	var (
		wg                     sync.WaitGroup
		search, discovery, soc *metrics.Result
		searchErr, discErr     error
		socErr                 error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		search, searchErr = s.registry.SearchAds().GetMetrics(ctx, q)
	}()
	go func() {
		defer wg.Done()
		discovery, discErr = s.registry.DiscoveryAds().GetMetrics(ctx, q)
	}()
	go func() {
		defer wg.Done()
		soc, socErr = s.registry.SocialMedia().GetMetrics(ctx, q)
	}()
	wg.Wait()
	for _, err := range []error{searchErr, discErr, socErr} {
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	daysElapsed := def.DaysElapsed(now)
	totalDays := def.TotalDays()

	ov := &Overview{
		Campaign:    def,
		Status:      def.StatusAt(now),
		DaysElapsed: daysElapsed,
		TotalDays:   totalDays,
		ToDate:      metrics.Add(metrics.Add(search.Totals, discovery.Totals), soc.Totals),
		Sources: map[string]metrics.Meta{
			"search":    search.Meta,
			"discovery": discovery.Meta,
			"social":    soc.Meta,
		},
	}
	ov.Today = metrics.Add(metrics.Add(todayTotals(search, now), todayTotals(discovery, now)), todayTotals(soc, now))

	results := map[metrics.ChannelType]*metrics.Result{
		metrics.ChannelGoogleSearch:    search,
		metrics.ChannelGoogleDiscovery: discovery,
	}
	for _, ch := range def.Channels {
		res, ok := results[ch.ChannelType]
		if !ok {
			continue
		}
		actual := actualFor(res.Totals, ch.TargetMetric)
		ov.KPIs = append(ov.KPIs, kpiProgress(ch.TargetMetric, ch.TargetValue, actual, daysElapsed, totalDays))
		ov.Channels = append(ov.Channels, metrics.ChannelMetrics{
			ChannelType:  ch.ChannelType,
			Label:        metrics.ChannelLabels[ch.ChannelType],
			Metrics:      res.Totals,
			Target:       ch.TargetValue,
			TargetMetric: ch.TargetMetric,
			Progress:     progress(actual, ch.TargetValue),
		})
	}

	if socialTarget := def.SocialTarget(); socialTarget > 0 {
		actual := soc.Totals.Clicks
		ov.KPIs = append(ov.KPIs, kpiProgress("clicks", socialTarget, actual, daysElapsed, totalDays))
		ov.Channels = append(ov.Channels, metrics.ChannelMetrics{
			ChannelType:  metrics.ChannelSocialTikTok,
			Label:        "Social Media (combined)",
			Metrics:      soc.Totals,
			Target:       socialTarget,
			TargetMetric: "clicks",
			Progress:     progress(actual, socialTarget),
		})
	}

	return ov, nil
}

// kpiProgress computes pace projection and trend for one target.
func kpiProgress(metricName string, target, actual, daysElapsed, totalDays int) metrics.KPIProgress {
	p := metrics.KPIProgress{
		MetricName:    metricName,
		Target:        target,
		Actual:        actual,
		Percentage:    progress(actual, target),
		DaysRemaining: totalDays - daysElapsed,
	}
	if daysElapsed > 0 {
		p.Projected = int(math.Round(float64(actual) / float64(daysElapsed) * float64(totalDays)))
	}
	p.OnTrack = float64(p.Projected) >= onTrackRatio*float64(target)

	// Trend compares actual delivery to the linear pace line.
	pace := float64(target) * float64(daysElapsed) / float64(totalDays)
	switch {
	case float64(actual) > pace*1.02:
		p.Trend = "up"
	case float64(actual) < pace*0.98:
		p.Trend = "down"
	default:
		p.Trend = "flat"
	}
	return p
}

func progress(actual, target int) float64 {
	if target == 0 {
		return 0
	}
	return float64(actual) / float64(target) * 100
}

func actualFor(t metrics.Totals, targetMetric string) int {
	if targetMetric == "visits" {
		return t.Visits
	}
	return t.Clicks
}

// todayTotals sums only the rows dated today.
func todayTotals(res *metrics.Result, now time.Time) metrics.Totals {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	var rows []metrics.DailyMetric
	for _, row := range res.Data {
		if row.MetricDate.Equal(today) {
			rows = append(rows, row)
		}
	}
	return metrics.Sum(rows)
}
