// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics defines the channel metric shapes shared by data
// providers, the dashboard aggregation layer, and the rule engines.
package metrics

import "time"

// ChannelType identifies an advertising channel.
type ChannelType string

const (
	ChannelGoogleSearch    ChannelType = "google_search"
	ChannelGoogleDiscovery ChannelType = "google_discovery"
	ChannelSocialTikTok    ChannelType = "social_tiktok"
	ChannelSocialInstagram ChannelType = "social_instagram"
	ChannelSocialFacebook  ChannelType = "social_facebook"
)

// ChannelLabels maps channel types to display names.
var ChannelLabels = map[ChannelType]string{
	ChannelGoogleSearch:    "Google Search (SEM)",
	ChannelGoogleDiscovery: "Google Discovery",
	ChannelSocialTikTok:    "TikTok Ads",
	ChannelSocialInstagram: "Instagram Ads",
	ChannelSocialFacebook:  "Facebook Ads",
}

// Source tags where metric data originated.
type Source string

const (
	SourceMock Source = "mock"
	SourceLive Source = "live"
)

// DailyMetric is one channel-day of metrics.
type DailyMetric struct {
	ID             int64       `json:"id"`
	CampaignID     int64       `json:"campaignId"`
	ChannelType    ChannelType `json:"channelType"`
	MetricDate     time.Time   `json:"metricDate"`
	Impressions    int         `json:"impressions"`
	Clicks         int         `json:"clicks"`
	Visits         int         `json:"visits"`
	Conversions    int         `json:"conversions"`
	Cost           int         `json:"cost"`
	CTR            float64     `json:"ctr"`
	CPC            float64     `json:"cpc"`
	ConversionRate float64     `json:"conversionRate"`
	QualityScore   *float64    `json:"qualityScore"`
}

// Totals aggregates a list of daily metrics. Derived averages are zero
// when their denominator is zero.
type Totals struct {
	Impressions       int     `json:"impressions"`
	Clicks            int     `json:"clicks"`
	Visits            int     `json:"visits"`
	Conversions       int     `json:"conversions"`
	Cost              int     `json:"cost"`
	AvgCTR            float64 `json:"avgCtr"`
	AvgCPC            float64 `json:"avgCpc"`
	AvgConversionRate float64 `json:"avgConversionRate"`
}

// Query selects a campaign/channel date range.
type Query struct {
	CampaignID  int64
	ChannelType ChannelType
	StartDate   time.Time
	EndDate     time.Time
}

// Meta describes the provenance of a Result. Callers making budget or
// bidding decisions must check Source before trusting the values; a
// "mock" source with a FallbackError means a live lookup failed and
// synthetic data was substituted.
type Meta struct {
	Source        Source    `json:"source"`
	FetchedAt     time.Time `json:"fetchedAt"`
	FallbackError string    `json:"fallbackError,omitempty"`
}

// Result is a provider response: per-day rows plus totals.
type Result struct {
	Data   []DailyMetric `json:"data"`
	Totals Totals        `json:"totals"`
	Meta   Meta          `json:"meta"`
}

// Sum computes totals over daily metrics.
func Sum(data []DailyMetric) Totals {
	var t Totals
	for _, d := range data {
		t.Impressions += d.Impressions
		t.Clicks += d.Clicks
		t.Visits += d.Visits
		t.Conversions += d.Conversions
		t.Cost += d.Cost
	}
	if t.Impressions > 0 {
		t.AvgCTR = float64(t.Clicks) / float64(t.Impressions)
	}
	if t.Clicks > 0 {
		t.AvgCPC = float64(t.Cost) / float64(t.Clicks)
		t.AvgConversionRate = float64(t.Conversions) / float64(t.Clicks)
	}
	return t
}

// Add merges two totals; averages are recomputed from the merged sums.
func Add(a, b Totals) Totals {
	t := Totals{
		Impressions: a.Impressions + b.Impressions,
		Clicks:      a.Clicks + b.Clicks,
		Visits:      a.Visits + b.Visits,
		Conversions: a.Conversions + b.Conversions,
		Cost:        a.Cost + b.Cost,
	}
	if t.Impressions > 0 {
		t.AvgCTR = float64(t.Clicks) / float64(t.Impressions)
	}
	if t.Clicks > 0 {
		t.AvgCPC = float64(t.Cost) / float64(t.Clicks)
		t.AvgConversionRate = float64(t.Conversions) / float64(t.Clicks)
	}
	return t
}

// KPIProgress reports progress toward one channel target.
type KPIProgress struct {
	MetricName    string  `json:"metricName"`
	Target        int     `json:"target"`
	Actual        int     `json:"actual"`
	Percentage    float64 `json:"percentage"`
	Trend         string  `json:"trend"` // up | down | flat
	OnTrack       bool    `json:"onTrack"`
	Projected     int     `json:"projected"`
	DaysRemaining int     `json:"daysRemaining"`
}

// ChannelMetrics is one row of the dashboard channel breakdown.
type ChannelMetrics struct {
	ChannelType  ChannelType `json:"channelType"`
	Label        string      `json:"label"`
	Metrics      Totals      `json:"metrics"`
	Target       int         `json:"target"`
	TargetMetric string      `json:"targetMetric"`
	Progress     float64     `json:"progress"`
}

// SEMKeyword is a managed search keyword.
type SEMKeyword struct {
	ID           int64       `json:"id"`
	CampaignID   int64       `json:"campaignId"`
	Keyword      string      `json:"keyword"`
	MatchType    string      `json:"matchType"` // exact | phrase | broad
	Status       string      `json:"status"`    // active | paused | removed
	MaxCPC       float64     `json:"maxCpc"`
	AvgCPC       float64     `json:"avgCpc"`
	QualityScore float64     `json:"qualityScore"`
	AdGroup      string      `json:"adGroup"`
	ChannelType  ChannelType `json:"channelType"`
}

// SEMKeywordMetric is one keyword-day of metrics.
type SEMKeywordMetric struct {
	KeywordID    int64     `json:"keywordId"`
	MetricDate   time.Time `json:"metricDate"`
	Impressions  int       `json:"impressions"`
	Clicks       int       `json:"clicks"`
	Cost         int       `json:"cost"`
	CTR          float64   `json:"ctr"`
	AvgCPC       float64   `json:"avgCpc"`
	AvgPosition  float64   `json:"avgPosition"`
	Conversions  int       `json:"conversions"`
	QualityScore float64   `json:"qualityScore"`
}

// SEORanking is one organic keyword position observation.
type SEORanking struct {
	ID               int64     `json:"id"`
	CampaignID       int64     `json:"campaignId"`
	Keyword          string    `json:"keyword"`
	URL              string    `json:"url"`
	Position         int       `json:"position"`
	PreviousPosition int       `json:"previousPosition"`
	SearchVolume     int       `json:"searchVolume"`
	Difficulty       float64   `json:"difficulty"`
	MetricDate       time.Time `json:"metricDate"`
}

// SEOIssue is one finding on an audited page.
type SEOIssue struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"` // low | medium | high | critical
	Description string `json:"description"`
}

// SEOPageAudit is a point-in-time audit of one landing page.
type SEOPageAudit struct {
	ID          int64      `json:"id"`
	CampaignID  int64      `json:"campaignId"`
	URL         string     `json:"url"`
	PageScore   int        `json:"pageScore"`
	LoadTimeMs  int        `json:"loadTimeMs"`
	MobileScore int        `json:"mobileScore"`
	Issues      []SEOIssue `json:"issues"`
	AuditDate   time.Time  `json:"auditDate"`
}
