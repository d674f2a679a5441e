// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package datasource

import (
	"context"
	"math"
	"time"

	"github.com/marketpulse/pulse/pkg/campaign"
	"github.com/marketpulse/pulse/pkg/metrics"
	"github.com/marketpulse/pulse/pkg/mockdata"
)

// Combined social delivery assumptions across platforms.
const (
	socialAvgCTR   = 0.02
	socialAvgCPC   = 3000
	socialConvRate = 0.01
)

// MockSocialMedia generates the combined social series and its
// per-platform breakdown from the campaign's social split.
type MockSocialMedia struct {
	catalog *campaign.Catalog
	clock   clock
}

// NewMockSocialMedia creates a mock social media provider.
func NewMockSocialMedia(catalog *campaign.Catalog) *MockSocialMedia {
	return &MockSocialMedia{catalog: catalog}
}

// GetMetrics returns the campaign's combined social series up to today.
func (p *MockSocialMedia) GetMetrics(ctx context.Context, q metrics.Query) (*metrics.Result, error) {
	def, err := p.catalog.Get(q.CampaignID)
	if err != nil {
		return nil, err
	}
	target := def.SocialTarget()
	if target == 0 {
		return emptyResult(p.clock.now()), nil
	}

	start, end := window(def, q)
	points, err := mockdata.GenerateAsOf(mockdata.Config{
		StartDate:      start,
		EndDate:        end,
		TargetTotal:    target,
		AvgCTR:         socialAvgCTR,
		AvgCPC:         socialAvgCPC,
		ConversionRate: socialConvRate,
	}, channelSeed(q.CampaignID, seedOffsetSocial), p.clock.now())
	if err != nil {
		return nil, err
	}

	return toResult(points, q.CampaignID, metrics.ChannelSocialTikTok, p.clock.now()), nil
}

// Per-platform delivery assumptions used to split the combined series.
var platformAssumptions = map[string]struct {
	ctr float64
	cpc float64
}{
	"tiktok":    {0.025, 2500},
	"instagram": {0.018, 3200},
	"facebook":  {0.015, 3500},
}

// GetPlatformBreakdown splits the social totals by platform share.
func (p *MockSocialMedia) GetPlatformBreakdown(ctx context.Context, campaignID int64, start, end time.Time) (*PlatformBreakdown, error) {
	def, err := p.catalog.Get(campaignID)
	if err != nil {
		return nil, err
	}

	res, err := p.GetMetrics(ctx, metrics.Query{CampaignID: campaignID, StartDate: start, EndDate: end})
	if err != nil {
		return nil, err
	}
	total := res.Totals.Clicks
	socialTarget := def.SocialTarget()

	out := &PlatformBreakdown{}
	for _, split := range def.SocialSplit {
		assume, ok := platformAssumptions[split.Platform]
		if !ok {
			continue
		}
		share := 0.0
		if socialTarget > 0 {
			share = float64(split.TargetClicks) / float64(socialTarget)
		}
		clicks := int(math.Round(float64(total) * share))
		pm := PlatformMetrics{
			Clicks:      clicks,
			Impressions: int(math.Round(float64(clicks) / assume.ctr)),
			Cost:        int(math.Round(float64(clicks) * assume.cpc)),
			CTR:         assume.ctr,
		}
		switch split.Platform {
		case "tiktok":
			out.TikTok = pm
		case "instagram":
			out.Instagram = pm
		case "facebook":
			out.Facebook = pm
		}
	}
	return out, nil
}

var _ SocialMediaProvider = (*MockSocialMedia)(nil)
