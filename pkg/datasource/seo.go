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

// MockSEO generates organic rankings as a seeded random walk over the
// campaign's keyword set, plus fixed audit and backlink data.
type MockSEO struct {
	catalog *campaign.Catalog
	clock   clock
}

// NewMockSEO creates a mock SEO provider.
func NewMockSEO(catalog *campaign.Catalog) *MockSEO {
	return &MockSEO{catalog: catalog}
}

// GetRankings walks each keyword's position day by day from its seed
// position. Positions drift slightly upward on average and never go
// above 1.
func (p *MockSEO) GetRankings(ctx context.Context, campaignID int64, start, end time.Time) ([]metrics.SEORanking, error) {
	def, err := p.catalog.Get(campaignID)
	if err != nil {
		return nil, err
	}
	if start.IsZero() {
		start = def.StartDate
	}
	if end.IsZero() {
		end = def.EndDate
	}
	today := p.clock.now()
	if end.After(today) {
		end = today
	}

	src := mockdata.NewSource(channelSeed(campaignID, seedOffsetSEO))
	var out []metrics.SEORanking
	id := int64(1)
	for _, kw := range campaign.MBBHSEOKeywords {
		pos := kw.Position
		for d := truncateDay(start); !d.After(truncateDay(end)); d = d.AddDate(0, 0, 1) {
			prev := pos
			change := int(math.Round((src.Float64() - 0.45) * 3))
			pos += change
			if pos < 1 {
				pos = 1
			}
			out = append(out, metrics.SEORanking{
				ID:               id,
				CampaignID:       campaignID,
				Keyword:          kw.Keyword,
				URL:              def.SiteURL,
				Position:         pos,
				PreviousPosition: prev,
				SearchVolume:     kw.SearchVolume,
				Difficulty:       kw.Difficulty,
				MetricDate:       d,
			})
			id++
		}
	}
	return out, nil
}

// GetPageAudits returns the landing page audit set with issues derived
// from each page's scores.
func (p *MockSEO) GetPageAudits(ctx context.Context, campaignID int64) ([]metrics.SEOPageAudit, error) {
	today := p.clock.now()
	out := make([]metrics.SEOPageAudit, len(campaign.MBBHSEOPages))
	for i, page := range campaign.MBBHSEOPages {
		audit := metrics.SEOPageAudit{
			ID:          int64(i + 1),
			CampaignID:  campaignID,
			URL:         page.URL,
			PageScore:   page.Score,
			LoadTimeMs:  page.LoadTimeMs,
			MobileScore: page.MobileScore,
			AuditDate:   today,
		}
		if page.Score < 90 {
			audit.Issues = append(audit.Issues, metrics.SEOIssue{
				Type:        "performance",
				Severity:    "medium",
				Description: "Page load time exceeds recommended threshold",
			})
		}
		if page.Score < 85 {
			audit.Issues = append(audit.Issues, metrics.SEOIssue{
				Type:        "seo",
				Severity:    "low",
				Description: "Meta description missing or too short",
			})
		}
		if page.Score < 80 {
			audit.Issues = append(audit.Issues, metrics.SEOIssue{
				Type:        "accessibility",
				Severity:    "high",
				Description: "Images missing alt attributes",
			})
		}
		out[i] = audit
	}
	return out, nil
}

// GetBacklinks returns recently observed inbound links.
func (p *MockSEO) GetBacklinks(ctx context.Context, campaignID int64) ([]Backlink, error) {
	today := p.clock.now()
	return []Backlink{
		{SourceURL: "https://otomotif.kompas.com/mudik-gratis-honda", TargetURL: "https://www.astra-honda.com/mudik-bareng-honda", AnchorText: "mudik bareng honda", DomainAuthority: 82, IsNew: true, FirstSeen: today.AddDate(0, 0, -2)},
		{SourceURL: "https://www.detik.com/oto/program-mudik-2026", TargetURL: "https://www.astra-honda.com/mudik-bareng-honda", AnchorText: "program mudik honda 2026", DomainAuthority: 88, IsNew: true, FirstSeen: today.AddDate(0, 0, -4)},
		{SourceURL: "https://www.gridoto.com/mudik-lebaran", TargetURL: "https://www.astra-honda.com/mbbh-registrasi", AnchorText: "daftar mudik gratis", DomainAuthority: 71, IsNew: false, FirstSeen: today.AddDate(0, 0, -12)},
		{SourceURL: "https://forum.kaskus.co.id/thread/mudik-honda", TargetURL: "https://www.astra-honda.com/mbbh-faq", AnchorText: "syarat mudik bareng honda", DomainAuthority: 64, IsNew: false, FirstSeen: today.AddDate(0, 0, -20)},
		{SourceURL: "https://www.motorplus-online.com/mudik-aman", TargetURL: "https://www.astra-honda.com/mbbh-tips-mudik", AnchorText: "tips mudik motor", DomainAuthority: 58, IsNew: false, FirstSeen: today.AddDate(0, 0, -28)},
	}, nil
}

// GetTechnicalIssues returns current site health findings.
func (p *MockSEO) GetTechnicalIssues(ctx context.Context, campaignID int64) ([]TechnicalIssue, error) {
	return []TechnicalIssue{
		{Type: "broken_link", Severity: "high", URL: "https://www.astra-honda.com/mbbh-rute", Description: "Outbound link returns 404", HowToFix: "Update or remove the dead link"},
		{Type: "slow_page", Severity: "medium", URL: "https://www.astra-honda.com/mbbh-faq", Description: "Page load time above 2.5s on mobile", HowToFix: "Compress images and defer non-critical scripts"},
		{Type: "missing_meta", Severity: "low", URL: "https://www.astra-honda.com/mbbh-tips-mudik", Description: "Meta description missing", HowToFix: "Add a unique meta description under 160 characters"},
		{Type: "duplicate_content", Severity: "medium", URL: "https://www.astra-honda.com/mbbh-registrasi", Description: "Duplicate title tag with the landing page", HowToFix: "Write a distinct title for the registration page"},
	}, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ SEOProvider = (*MockSEO)(nil)
