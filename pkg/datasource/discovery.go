// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package datasource

import (
	"context"

	"github.com/marketpulse/pulse/pkg/campaign"
	"github.com/marketpulse/pulse/pkg/metrics"
	"github.com/marketpulse/pulse/pkg/mockdata"
)

// MockDiscoveryAds generates discovery campaign metrics.
type MockDiscoveryAds struct {
	catalog *campaign.Catalog
	clock   clock
}

// NewMockDiscoveryAds creates a mock discovery ads provider.
func NewMockDiscoveryAds(catalog *campaign.Catalog) *MockDiscoveryAds {
	return &MockDiscoveryAds{catalog: catalog}
}

// GetMetrics returns the campaign's discovery series up to today.
func (p *MockDiscoveryAds) GetMetrics(ctx context.Context, q metrics.Query) (*metrics.Result, error) {
	def, err := p.catalog.Get(q.CampaignID)
	if err != nil {
		return nil, err
	}
	ch, ok := def.Channel(metrics.ChannelGoogleDiscovery)
	if !ok {
		return emptyResult(p.clock.now()), nil
	}

	start, end := window(def, q)
	points, err := mockdata.GenerateAsOf(mockdata.Config{
		StartDate:      start,
		EndDate:        end,
		TargetTotal:    ch.TargetValue,
		AvgCTR:         ch.EstimatedCTR,
		AvgCPC:         ch.EstimatedCPC,
		ConversionRate: 0.015,
	}, channelSeed(q.CampaignID, seedOffsetDiscovery), p.clock.now())
	if err != nil {
		return nil, err
	}

	return toResult(points, q.CampaignID, metrics.ChannelGoogleDiscovery, p.clock.now()), nil
}

// GetCreativePerformance returns the running creative set.
func (p *MockDiscoveryAds) GetCreativePerformance(ctx context.Context, campaignID int64) ([]Creative, error) {
	return []Creative{
		{ID: 1, Headline: "Mudik Gratis Bareng Honda 2026!", Description: "Daftar sekarang, mudik aman & nyaman bersama Honda.", Impressions: 850000, Clicks: 18500, CTR: 0.0218},
		{ID: 2, Headline: "Ribuan Motor Honda Antarkan Pemudik", Description: "Program mudik terbesar Honda. Kuota terbatas!", Impressions: 720000, Clicks: 15200, CTR: 0.0211},
		{ID: 3, Headline: "Pulang Kampung Bersama Honda", Description: "Safety first, Honda kirim motor kamu gratis.", Impressions: 550000, Clicks: 9800, CTR: 0.0178},
		{ID: 4, Headline: "Honda MBBH 2026: Daftar & Mudik!", Description: "Jangan lewatkan kesempatan mudik gratis dari Honda.", Impressions: 380000, Clicks: 6500, CTR: 0.0171},
	}, nil
}

// GetAudienceBreakdown returns demographic performance slices.
func (p *MockDiscoveryAds) GetAudienceBreakdown(ctx context.Context, campaignID int64) ([]AudienceSegment, error) {
	return []AudienceSegment{
		{Segment: "Male 25-34", Impressions: 820000, Clicks: 18000, CTR: 0.022, Conversions: 420},
		{Segment: "Male 35-50", Impressions: 650000, Clicks: 12500, CTR: 0.019, Conversions: 310},
		{Segment: "Female 25-34", Impressions: 580000, Clicks: 11200, CTR: 0.019, Conversions: 280},
		{Segment: "Female 35-50", Impressions: 450000, Clicks: 8300, CTR: 0.018, Conversions: 190},
	}, nil
}

var _ DiscoveryAdsProvider = (*MockDiscoveryAds)(nil)
