// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package campaign

import (
	"time"

	"github.com/marketpulse/pulse/pkg/metrics"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// MBBH2026 is the Mudik Bareng Honda demo campaign.
func MBBH2026() Definition {
	return Definition{
		ID:        1,
		Name:      "Mudik Bareng Honda (MBBH) 2026",
		Slug:      "mbbh-2026",
		Client:    "Honda Indonesia (AHM)",
		StartDate: mustDate("2026-02-14"),
		EndDate:   mustDate("2026-02-28"),
		SiteURL:   "https://www.astra-honda.com",
		Channels: []ChannelTarget{
			{
				Label:                "Google Search (SEM)",
				ChannelType:          metrics.ChannelGoogleSearch,
				TargetMetric:         "clicks",
				TargetValue:          30000,
				EstimatedImpressions: 600000,
				EstimatedCTR:         0.05,
				EstimatedCPC:         1500,
				EstimatedBudget:      45000000,
			},
			{
				Label:                "Google Discovery",
				ChannelType:          metrics.ChannelGoogleDiscovery,
				TargetMetric:         "visits",
				TargetValue:          50000,
				EstimatedImpressions: 2500000,
				EstimatedCTR:         0.02,
				EstimatedCPC:         500,
				EstimatedBudget:      25000000,
			},
		},
		SocialSplit: []SocialSplit{
			{Platform: "tiktok", ChannelType: metrics.ChannelSocialTikTok, Percentage: 0.40, TargetClicks: 2000},
			{Platform: "instagram", ChannelType: metrics.ChannelSocialInstagram, Percentage: 0.35, TargetClicks: 1750},
			{Platform: "facebook", ChannelType: metrics.ChannelSocialFacebook, Percentage: 0.25, TargetClicks: 1250},
		},
	}
}

// BaleSantai is the Bale Santai Honda demo campaign.
func BaleSantai() Definition {
	return Definition{
		ID:        2,
		Name:      "Bale Santai Honda",
		Slug:      "bale-santai-honda",
		Client:    "Honda Indonesia (AHM)",
		StartDate: mustDate("2026-03-08"),
		EndDate:   mustDate("2026-03-28"),
		SiteURL:   "https://www.astra-honda.com",
		Channels: []ChannelTarget{
			{
				Label:                "Google Search (SEM)",
				ChannelType:          metrics.ChannelGoogleSearch,
				TargetMetric:         "clicks",
				TargetValue:          5000,
				EstimatedImpressions: 100000,
				EstimatedCTR:         0.05,
				EstimatedCPC:         1800,
				EstimatedBudget:      9000000,
			},
			{
				Label:                "Google Discovery",
				ChannelType:          metrics.ChannelGoogleDiscovery,
				TargetMetric:         "visits",
				TargetValue:          5000,
				EstimatedImpressions: 250000,
				EstimatedCTR:         0.02,
				EstimatedCPC:         600,
				EstimatedBudget:      3000000,
			},
		},
		SocialSplit: []SocialSplit{
			{Platform: "tiktok", ChannelType: metrics.ChannelSocialTikTok, Percentage: 0.40, TargetClicks: 2000},
			{Platform: "instagram", ChannelType: metrics.ChannelSocialInstagram, Percentage: 0.35, TargetClicks: 1750},
			{Platform: "facebook", ChannelType: metrics.ChannelSocialFacebook, Percentage: 0.25, TargetClicks: 1250},
		},
	}
}

// DemoCatalog returns a catalog seeded with the demo campaigns.
func DemoCatalog() *Catalog {
	return NewCatalog(MBBH2026(), BaleSantai())
}

// SEMKeywordSeed parameterizes the mock keyword set.
type SEMKeywordSeed struct {
	Keyword      string
	MatchType    string
	QualityScore float64
	AvgCPC       float64
	AdGroup      string
}

// MBBHSEMKeywords is the seed keyword set for the MBBH search campaign.
var MBBHSEMKeywords = []SEMKeywordSeed{
	{"mudik bareng honda 2026", "exact", 9, 800, "Brand - Exact"},
	{"mudik gratis honda", "phrase", 8, 1200, "Brand - Phrase"},
	{"daftar mudik honda", "exact", 9, 900, "Registration"},
	{"mudik bareng motor honda", "broad", 7, 1500, "Generic - Motor"},
	{"honda mudik lebaran 2026", "phrase", 8, 1100, "Brand - Seasonal"},
	{"program mudik honda", "broad", 7, 1400, "Program"},
	{"mudik aman honda", "phrase", 6, 1800, "Safety"},
	{"cara daftar mudik bareng honda", "exact", 9, 700, "Registration"},
	{"jadwal mudik honda 2026", "exact", 8, 950, "Schedule"},
	{"biaya mudik bareng honda", "phrase", 8, 1000, "Cost"},
	{"rute mudik honda", "broad", 6, 1600, "Route"},
	{"mudik motor gratis 2026", "broad", 5, 2000, "Generic - Free"},
	{"honda care mudik", "phrase", 7, 1300, "Brand - Care"},
	{"astra honda mudik", "exact", 9, 850, "Brand - Exact"},
	{"registrasi mudik honda", "exact", 8, 950, "Registration"},
}

// SEOKeywordSeed parameterizes the mock organic ranking set.
type SEOKeywordSeed struct {
	Keyword      string
	Position     int
	SearchVolume int
	Difficulty   float64
}

// MBBHSEOKeywords is the seed organic keyword set.
var MBBHSEOKeywords = []SEOKeywordSeed{
	{"mudik bareng honda", 1, 22000, 0.35},
	{"mudik gratis 2026", 4, 14800, 0.65},
	{"mudik motor honda", 2, 9900, 0.42},
	{"daftar mudik honda 2026", 1, 8100, 0.28},
	{"program mudik astra honda", 1, 5400, 0.22},
	{"biaya mudik bareng honda 2026", 3, 6600, 0.48},
	{"syarat mudik bareng honda", 5, 4200, 0.38},
	{"rute mudik honda 2026", 2, 3800, 0.32},
	{"jadwal mudik bareng honda", 3, 7200, 0.45},
	{"tips mudik motor aman", 8, 12000, 0.72},
}

// SEOPageSeed parameterizes the mock page audit set.
type SEOPageSeed struct {
	URL         string
	Score       int
	LoadTimeMs  int
	MobileScore int
}

// MBBHSEOPages is the seed landing page set.
var MBBHSEOPages = []SEOPageSeed{
	{"https://www.astra-honda.com/mudik-bareng-honda", 92, 1200, 88},
	{"https://www.astra-honda.com/mbbh-registrasi", 88, 1800, 82},
	{"https://www.astra-honda.com/mbbh-rute", 85, 2100, 79},
	{"https://www.astra-honda.com/mbbh-faq", 78, 2500, 72},
	{"https://www.astra-honda.com/mbbh-tips-mudik", 82, 1900, 85},
}
