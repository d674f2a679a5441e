// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package datasource

import (
	"context"
	"time"

	"github.com/marketpulse/pulse/pkg/log"
	"github.com/marketpulse/pulse/pkg/metrics"
)

// The fallback wrappers keep the dashboard rendering when a platform
// API is down: any live error is logged, the mock answers instead, and
// the result carries Source = mock plus the error that caused the
// switch. Callers never see live-provider errors.

type searchAdsFallback struct {
	live SearchAdsProvider
	mock SearchAdsProvider
	log  log.Logger
}

func (f *searchAdsFallback) GetMetrics(ctx context.Context, q metrics.Query) (*metrics.Result, error) {
	res, err := f.live.GetMetrics(ctx, q)
	if err == nil {
		return res, nil
	}
	f.log.Warn("live search ads metrics failed, falling back to mock", "campaignID", q.CampaignID, "error", err)
	res, mockErr := f.mock.GetMetrics(ctx, q)
	if mockErr != nil {
		return nil, mockErr
	}
	return tagFallback(res, err), nil
}

func (f *searchAdsFallback) GetKeywords(ctx context.Context, campaignID int64) ([]metrics.SEMKeyword, error) {
	out, err := f.live.GetKeywords(ctx, campaignID)
	if err == nil {
		return out, nil
	}
	f.log.Warn("live keyword fetch failed, falling back to mock", "campaignID", campaignID, "error", err)
	return f.mock.GetKeywords(ctx, campaignID)
}

func (f *searchAdsFallback) GetKeywordMetrics(ctx context.Context, keywordID int64, start, end time.Time) ([]metrics.SEMKeywordMetric, error) {
	out, err := f.live.GetKeywordMetrics(ctx, keywordID, start, end)
	if err == nil {
		return out, nil
	}
	f.log.Warn("live keyword metrics failed, falling back to mock", "keywordID", keywordID, "error", err)
	return f.mock.GetKeywordMetrics(ctx, keywordID, start, end)
}

func (f *searchAdsFallback) GetAdGroups(ctx context.Context, campaignID int64) ([]AdGroup, error) {
	out, err := f.live.GetAdGroups(ctx, campaignID)
	if err == nil {
		return out, nil
	}
	f.log.Warn("live ad group fetch failed, falling back to mock", "campaignID", campaignID, "error", err)
	return f.mock.GetAdGroups(ctx, campaignID)
}

func (f *searchAdsFallback) GetSearchTerms(ctx context.Context, campaignID int64, start, end time.Time) ([]SearchTerm, error) {
	out, err := f.live.GetSearchTerms(ctx, campaignID, start, end)
	if err == nil {
		return out, nil
	}
	f.log.Warn("live search terms failed, falling back to mock", "campaignID", campaignID, "error", err)
	return f.mock.GetSearchTerms(ctx, campaignID, start, end)
}

func (f *searchAdsFallback) GetBidSuggestions(ctx context.Context, campaignID int64) ([]BidSuggestion, error) {
	out, err := f.live.GetBidSuggestions(ctx, campaignID)
	if err == nil {
		return out, nil
	}
	f.log.Warn("live bid suggestions failed, falling back to mock", "campaignID", campaignID, "error", err)
	return f.mock.GetBidSuggestions(ctx, campaignID)
}

type discoveryAdsFallback struct {
	live DiscoveryAdsProvider
	mock DiscoveryAdsProvider
	log  log.Logger
}

func (f *discoveryAdsFallback) GetMetrics(ctx context.Context, q metrics.Query) (*metrics.Result, error) {
	res, err := f.live.GetMetrics(ctx, q)
	if err == nil {
		return res, nil
	}
	f.log.Warn("live discovery metrics failed, falling back to mock", "campaignID", q.CampaignID, "error", err)
	res, mockErr := f.mock.GetMetrics(ctx, q)
	if mockErr != nil {
		return nil, mockErr
	}
	return tagFallback(res, err), nil
}

func (f *discoveryAdsFallback) GetCreativePerformance(ctx context.Context, campaignID int64) ([]Creative, error) {
	out, err := f.live.GetCreativePerformance(ctx, campaignID)
	if err == nil {
		return out, nil
	}
	f.log.Warn("live creative performance failed, falling back to mock", "campaignID", campaignID, "error", err)
	return f.mock.GetCreativePerformance(ctx, campaignID)
}

func (f *discoveryAdsFallback) GetAudienceBreakdown(ctx context.Context, campaignID int64) ([]AudienceSegment, error) {
	out, err := f.live.GetAudienceBreakdown(ctx, campaignID)
	if err == nil {
		return out, nil
	}
	f.log.Warn("live audience breakdown failed, falling back to mock", "campaignID", campaignID, "error", err)
	return f.mock.GetAudienceBreakdown(ctx, campaignID)
}

type socialMediaFallback struct {
	live SocialMediaProvider
	mock SocialMediaProvider
	log  log.Logger
}

func (f *socialMediaFallback) GetMetrics(ctx context.Context, q metrics.Query) (*metrics.Result, error) {
	res, err := f.live.GetMetrics(ctx, q)
	if err == nil {
		return res, nil
	}
	f.log.Warn("live social metrics failed, falling back to mock", "campaignID", q.CampaignID, "error", err)
	res, mockErr := f.mock.GetMetrics(ctx, q)
	if mockErr != nil {
		return nil, mockErr
	}
	return tagFallback(res, err), nil
}

func (f *socialMediaFallback) GetPlatformBreakdown(ctx context.Context, campaignID int64, start, end time.Time) (*PlatformBreakdown, error) {
	out, err := f.live.GetPlatformBreakdown(ctx, campaignID, start, end)
	if err == nil {
		return out, nil
	}
	f.log.Warn("live platform breakdown failed, falling back to mock", "campaignID", campaignID, "error", err)
	return f.mock.GetPlatformBreakdown(ctx, campaignID, start, end)
}

type seoFallback struct {
	live SEOProvider
	mock SEOProvider
	log  log.Logger
}

func (f *seoFallback) GetRankings(ctx context.Context, campaignID int64, start, end time.Time) ([]metrics.SEORanking, error) {
	out, err := f.live.GetRankings(ctx, campaignID, start, end)
	if err == nil {
		return out, nil
	}
	f.log.Warn("live rankings failed, falling back to mock", "campaignID", campaignID, "error", err)
	return f.mock.GetRankings(ctx, campaignID, start, end)
}

func (f *seoFallback) GetPageAudits(ctx context.Context, campaignID int64) ([]metrics.SEOPageAudit, error) {
	out, err := f.live.GetPageAudits(ctx, campaignID)
	if err == nil {
		return out, nil
	}
	f.log.Warn("live page audits failed, falling back to mock", "campaignID", campaignID, "error", err)
	return f.mock.GetPageAudits(ctx, campaignID)
}

func (f *seoFallback) GetBacklinks(ctx context.Context, campaignID int64) ([]Backlink, error) {
	out, err := f.live.GetBacklinks(ctx, campaignID)
	if err == nil {
		return out, nil
	}
	f.log.Warn("live backlinks failed, falling back to mock", "campaignID", campaignID, "error", err)
	return f.mock.GetBacklinks(ctx, campaignID)
}

func (f *seoFallback) GetTechnicalIssues(ctx context.Context, campaignID int64) ([]TechnicalIssue, error) {
	out, err := f.live.GetTechnicalIssues(ctx, campaignID)
	if err == nil {
		return out, nil
	}
	f.log.Warn("live technical issues failed, falling back to mock", "campaignID", campaignID, "error", err)
	return f.mock.GetTechnicalIssues(ctx, campaignID)
}

// tagFallback marks a mock result as a degraded answer.
func tagFallback(res *metrics.Result, cause error) *metrics.Result {
	if res != nil {
		res.Meta.Source = metrics.SourceMock
		res.Meta.FallbackError = cause.Error()
	}
	return res
}

var (
	_ SearchAdsProvider    = (*searchAdsFallback)(nil)
	_ DiscoveryAdsProvider = (*discoveryAdsFallback)(nil)
	_ SocialMediaProvider  = (*socialMediaFallback)(nil)
	_ SEOProvider          = (*seoFallback)(nil)
)
