// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package datasource

import (
	"time"

	"github.com/marketpulse/pulse/pkg/campaign"
	"github.com/marketpulse/pulse/pkg/metrics"
	"github.com/marketpulse/pulse/pkg/mockdata"
)

// Seed offsets per channel; the same campaign and channel always
// regenerate identical demo data.
const (
	seedOffsetSearch    = 1
	seedOffsetDiscovery = 2
	seedOffsetSocial    = 3
	seedOffsetSEO       = 4
	keywordSeedStride   = 1000
)

func channelSeed(campaignID int64, offset int64) int64 {
	return campaignID*100 + offset
}

// clock lets tests pin "today" for up-to-today truncation.
type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}

// window resolves the query range, defaulting to the campaign flight.
func window(def campaign.Definition, q metrics.Query) (time.Time, time.Time) {
	start, end := q.StartDate, q.EndDate
	if start.IsZero() {
		start = def.StartDate
	}
	if end.IsZero() {
		end = def.EndDate
	}
	return start, end
}

// toResult converts generated day points into a provider result.
func toResult(points []mockdata.DayPoint, campaignID int64, ct metrics.ChannelType, now time.Time) *metrics.Result {
	data := make([]metrics.DailyMetric, len(points))
	for i, p := range points {
		data[i] = metrics.DailyMetric{
			ID:             int64(i + 1),
			CampaignID:     campaignID,
			ChannelType:    ct,
			MetricDate:     p.Date,
			Impressions:    p.Impressions,
			Clicks:         p.Clicks,
			Visits:         p.Visits,
			Conversions:    p.Conversions,
			Cost:           p.Cost,
			CTR:            p.CTR,
			CPC:            p.CPC,
			ConversionRate: p.ConversionRate,
		}
	}
	return &metrics.Result{
		Data:   data,
		Totals: metrics.Sum(data),
		Meta:   metrics.Meta{Source: metrics.SourceMock, FetchedAt: now},
	}
}

func emptyResult(now time.Time) *metrics.Result {
	return &metrics.Result{
		Data: []metrics.DailyMetric{},
		Meta: metrics.Meta{Source: metrics.SourceMock, FetchedAt: now},
	}
}
