// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package datasource

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/marketpulse/pulse/pkg/campaign"
	"github.com/marketpulse/pulse/pkg/metrics"
	"github.com/marketpulse/pulse/pkg/mockdata"
)

// MockSearchAds generates paid search metrics from the campaign's
// channel targets and the seeded keyword set.
type MockSearchAds struct {
	catalog *campaign.Catalog
	clock   clock
}

// NewMockSearchAds creates a mock search ads provider.
func NewMockSearchAds(catalog *campaign.Catalog) *MockSearchAds {
	return &MockSearchAds{catalog: catalog}
}

// GetMetrics returns the campaign's search series up to today.
func (p *MockSearchAds) GetMetrics(ctx context.Context, q metrics.Query) (*metrics.Result, error) {
	def, err := p.catalog.Get(q.CampaignID)
	if err != nil {
		return nil, err
	}
	ch, ok := def.Channel(metrics.ChannelGoogleSearch)
	if !ok {
		return emptyResult(p.clock.now()), nil
	}

	start, end := window(def, q)
	points, err := mockdata.GenerateAsOf(mockdata.Config{
		StartDate:   start,
		EndDate:     end,
		TargetTotal: ch.TargetValue,
		AvgCTR:      ch.EstimatedCTR,
		AvgCPC:      ch.EstimatedCPC,
	}, channelSeed(q.CampaignID, seedOffsetSearch), p.clock.now())
	if err != nil {
		return nil, err
	}

	return toResult(points, q.CampaignID, metrics.ChannelGoogleSearch, p.clock.now()), nil
}

// GetKeywords returns the managed keyword set with current state.
func (p *MockSearchAds) GetKeywords(ctx context.Context, campaignID int64) ([]metrics.SEMKeyword, error) {
	out := make([]metrics.SEMKeyword, len(campaign.MBBHSEMKeywords))
	for i, kw := range campaign.MBBHSEMKeywords {
		out[i] = metrics.SEMKeyword{
			ID:           int64(i + 1),
			CampaignID:   campaignID,
			Keyword:      kw.Keyword,
			MatchType:    kw.MatchType,
			Status:       "active",
			MaxCPC:       kw.AvgCPC * 1.5,
			AvgCPC:       kw.AvgCPC,
			QualityScore: kw.QualityScore,
			AdGroup:      kw.AdGroup,
			ChannelType:  metrics.ChannelGoogleSearch,
		}
	}
	return out, nil
}

// GetKeywordMetrics returns one keyword's daily series.
func (p *MockSearchAds) GetKeywordMetrics(ctx context.Context, keywordID int64, start, end time.Time) ([]metrics.SEMKeywordMetric, error) {
	idx := int(keywordID - 1)
	if idx < 0 || idx >= len(campaign.MBBHSEMKeywords) {
		idx = 0
	}
	kw := campaign.MBBHSEMKeywords[idx]

	points, err := mockdata.GenerateAsOf(mockdata.Config{
		StartDate:   start,
		EndDate:     end,
		TargetTotal: int(math.Round(30000 / float64(len(campaign.MBBHSEMKeywords)))),
		AvgCTR:      0.05,
		AvgCPC:      kw.AvgCPC,
	}, keywordID*keywordSeedStride, p.clock.now())
	if err != nil {
		return nil, err
	}

	src := mockdata.NewSource(keywordID * keywordSeedStride)
	out := make([]metrics.SEMKeywordMetric, len(points))
	for i, d := range points {
		out[i] = metrics.SEMKeywordMetric{
			KeywordID:    keywordID,
			MetricDate:   d.Date,
			Impressions:  d.Impressions,
			Clicks:       d.Clicks,
			Cost:         d.Cost,
			CTR:          d.CTR,
			AvgCPC:       d.CPC,
			AvgPosition:  math.Round((1.5+src.Float64()*3)*10) / 10,
			Conversions:  d.Conversions,
			QualityScore: kw.QualityScore,
		}
	}
	return out, nil
}

// GetAdGroups rolls the keyword set up by ad group.
func (p *MockSearchAds) GetAdGroups(ctx context.Context, campaignID int64) ([]AdGroup, error) {
	counts := map[string]int{}
	var order []string
	for _, kw := range campaign.MBBHSEMKeywords {
		if _, seen := counts[kw.AdGroup]; !seen {
			order = append(order, kw.AdGroup)
		}
		counts[kw.AdGroup]++
	}

	perKeyword := 30000 / len(campaign.MBBHSEMKeywords)
	out := make([]AdGroup, len(order))
	for i, name := range order {
		clicks := perKeyword * counts[name]
		out[i] = AdGroup{
			Name:        name,
			Status:      "active",
			Keywords:    counts[name],
			Impressions: int(math.Round(float64(clicks) / 0.05)),
			Clicks:      clicks,
			Cost:        clicks * 1200,
			CTR:         0.05,
			AvgCPC:      1200,
			Conversions: int(math.Round(float64(clicks) * 0.025)),
		}
	}
	return out, nil
}

var searchTermSeeds = []string{
	"mudik bareng honda 2026 jakarta", "daftar mudik honda gratis", "cara ikut mudik honda",
	"mudik motor honda lebaran", "honda mudik 2026 surabaya", "program mudik honda murah",
	"mudik bareng honda bandung", "syarat mudik honda", "jadwal mudik honda 2026 solo",
	"tips mudik motor honda aman",
}

// GetSearchTerms returns a seeded matched-query report.
func (p *MockSearchAds) GetSearchTerms(ctx context.Context, campaignID int64, start, end time.Time) ([]SearchTerm, error) {
	src := mockdata.NewSource(channelSeed(campaignID, seedOffsetSearch))
	out := make([]SearchTerm, len(searchTermSeeds))
	for i, term := range searchTermSeeds {
		matched := campaign.MBBHSEMKeywords[int(src.Float64()*float64(len(campaign.MBBHSEMKeywords)))]
		out[i] = SearchTerm{
			SearchTerm:     term,
			MatchedKeyword: matched.Keyword,
			Impressions:    int(math.Round(500 + src.Float64()*5000)),
			Clicks:         int(math.Round(25 + src.Float64()*250)),
			CTR:            math.Round((0.02+src.Float64()*0.06)*10000) / 10000,
			Cost:           int(math.Round(25000 + src.Float64()*250000)),
		}
	}
	return out, nil
}

// GetBidSuggestions proposes bid changes for the top keywords.
func (p *MockSearchAds) GetBidSuggestions(ctx context.Context, campaignID int64) ([]BidSuggestion, error) {
	keywords, err := p.GetKeywords(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if len(keywords) > 5 {
		keywords = keywords[:5]
	}

	src := mockdata.NewSource(channelSeed(campaignID, seedOffsetSearch))
	out := make([]BidSuggestion, len(keywords))
	for i, kw := range keywords {
		s := BidSuggestion{
			KeywordID:    kw.ID,
			Keyword:      kw.Keyword,
			CurrentCPC:   kw.MaxCPC,
			SuggestedCPC: math.Round(kw.MaxCPC * (0.85 + src.Float64()*0.3)),
		}
		if kw.QualityScore >= 8 {
			s.Reason = "High quality score - consider increasing bid to capture more volume"
			s.ExpectedImpact = fmt.Sprintf("+%d%% impressions", int(math.Round(10+src.Float64()*20)))
		} else {
			s.Reason = "Below average CTR - lower bid to improve ROI"
			s.ExpectedImpact = fmt.Sprintf("-%d%% cost with similar conversions", int(math.Round(5+src.Float64()*15)))
		}
		out[i] = s
	}
	return out, nil
}

var _ SearchAdsProvider = (*MockSearchAds)(nil)
