// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package datasource defines the channel data provider contracts and
// their mock implementations backed by the synthetic generator.
package datasource

import (
	"context"
	"time"

	"github.com/marketpulse/pulse/pkg/metrics"
)

// BidSuggestion proposes a CPC change for one keyword.
type BidSuggestion struct {
	KeywordID      int64   `json:"keywordId"`
	Keyword        string  `json:"keyword"`
	CurrentCPC     float64 `json:"currentCpc"`
	SuggestedCPC   float64 `json:"suggestedCpc"`
	Reason         string  `json:"reason"`
	ExpectedImpact string  `json:"expectedImpact"`
}

// AdGroup is a rollup of keyword metrics by ad group.
type AdGroup struct {
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Keywords    int     `json:"keywords"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	Cost        int     `json:"cost"`
	CTR         float64 `json:"ctr"`
	AvgCPC      float64 `json:"avgCpc"`
	Conversions int     `json:"conversions"`
}

// SearchTerm is one matched query report row.
type SearchTerm struct {
	SearchTerm     string  `json:"searchTerm"`
	MatchedKeyword string  `json:"matchedKeyword"`
	Impressions    int     `json:"impressions"`
	Clicks         int     `json:"clicks"`
	CTR            float64 `json:"ctr"`
	Cost           int     `json:"cost"`
}

// Creative is one discovery ad creative's performance.
type Creative struct {
	ID          int64   `json:"id"`
	Headline    string  `json:"headline"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	CTR         float64 `json:"ctr"`
}

// AudienceSegment is one demographic slice of discovery performance.
type AudienceSegment struct {
	Segment     string  `json:"segment"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	CTR         float64 `json:"ctr"`
	Conversions int     `json:"conversions"`
}

// PlatformMetrics is one social platform's share of delivery.
type PlatformMetrics struct {
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	Cost        int     `json:"cost"`
	CTR         float64 `json:"ctr"`
}

// PlatformBreakdown splits social delivery by platform.
type PlatformBreakdown struct {
	TikTok    PlatformMetrics `json:"tiktok"`
	Instagram PlatformMetrics `json:"instagram"`
	Facebook  PlatformMetrics `json:"facebook"`
}

// Backlink is one inbound link observation.
type Backlink struct {
	SourceURL       string    `json:"sourceUrl"`
	TargetURL       string    `json:"targetUrl"`
	AnchorText      string    `json:"anchorText"`
	DomainAuthority int       `json:"domainAuthority"`
	IsNew           bool      `json:"isNew"`
	FirstSeen       time.Time `json:"firstSeen"`
}

// TechnicalIssue is one site health finding.
type TechnicalIssue struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	URL         string `json:"url"`
	Description string `json:"description"`
	HowToFix    string `json:"howToFix"`
}

// SearchAdsProvider supplies paid search metrics and keyword state.
type SearchAdsProvider interface {
	GetMetrics(ctx context.Context, q metrics.Query) (*metrics.Result, error)
	GetKeywords(ctx context.Context, campaignID int64) ([]metrics.SEMKeyword, error)
	GetKeywordMetrics(ctx context.Context, keywordID int64, start, end time.Time) ([]metrics.SEMKeywordMetric, error)
	GetAdGroups(ctx context.Context, campaignID int64) ([]AdGroup, error)
	GetSearchTerms(ctx context.Context, campaignID int64, start, end time.Time) ([]SearchTerm, error)
	GetBidSuggestions(ctx context.Context, campaignID int64) ([]BidSuggestion, error)
}

// DiscoveryAdsProvider supplies discovery campaign metrics.
type DiscoveryAdsProvider interface {
	GetMetrics(ctx context.Context, q metrics.Query) (*metrics.Result, error)
	GetCreativePerformance(ctx context.Context, campaignID int64) ([]Creative, error)
	GetAudienceBreakdown(ctx context.Context, campaignID int64) ([]AudienceSegment, error)
}

// SocialMediaProvider supplies combined social metrics.
type SocialMediaProvider interface {
	GetMetrics(ctx context.Context, q metrics.Query) (*metrics.Result, error)
	GetPlatformBreakdown(ctx context.Context, campaignID int64, start, end time.Time) (*PlatformBreakdown, error)
}

// SEOProvider supplies organic search data.
type SEOProvider interface {
	GetRankings(ctx context.Context, campaignID int64, start, end time.Time) ([]metrics.SEORanking, error)
	GetPageAudits(ctx context.Context, campaignID int64) ([]metrics.SEOPageAudit, error)
	GetBacklinks(ctx context.Context, campaignID int64) ([]Backlink, error)
	GetTechnicalIssues(ctx context.Context, campaignID int64) ([]TechnicalIssue, error)
}
