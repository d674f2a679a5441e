// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package datasource

import (
	"fmt"
	"time"

	"github.com/marketpulse/pulse/pkg/campaign"
	"github.com/marketpulse/pulse/pkg/log"
)

// Mode selects where channel data comes from.
type Mode string

const (
	ModeMock Mode = "mock"
	ModeLive Mode = "live"
)

// LiveProviders bundles real platform API clients. Any nil slot keeps
// the mock for that channel.
type LiveProviders struct {
	SearchAds    SearchAdsProvider
	DiscoveryAds DiscoveryAdsProvider
	SocialMedia  SocialMediaProvider
	SEO          SEOProvider
}

// Registry resolves the provider for each channel. In live mode every
// configured live provider is wrapped so that errors fall back to the
// mock instead of surfacing.
type Registry struct {
	searchAds    SearchAdsProvider
	discoveryAds DiscoveryAdsProvider
	socialMedia  SocialMediaProvider
	seo          SEOProvider
}

// NewRegistry builds a provider registry for the given mode.
func NewRegistry(mode Mode, catalog *campaign.Catalog, live LiveProviders, logger log.Logger) (*Registry, error) {
	if logger == nil {
		logger = log.NoOp()
	}
	r := &Registry{
		searchAds:    NewMockSearchAds(catalog),
		discoveryAds: NewMockDiscoveryAds(catalog),
		socialMedia:  NewMockSocialMedia(catalog),
		seo:          NewMockSEO(catalog),
	}
	switch mode {
	case ModeMock:
	case ModeLive:
		if live.SearchAds != nil {
			r.searchAds = &searchAdsFallback{live: live.SearchAds, mock: r.searchAds, log: logger}
		}
		if live.DiscoveryAds != nil {
			r.discoveryAds = &discoveryAdsFallback{live: live.DiscoveryAds, mock: r.discoveryAds, log: logger}
		}
		if live.SocialMedia != nil {
			r.socialMedia = &socialMediaFallback{live: live.SocialMedia, mock: r.socialMedia, log: logger}
		}
		if live.SEO != nil {
			r.seo = &seoFallback{live: live.SEO, mock: r.seo, log: logger}
		}
	default:
		return nil, fmt.Errorf("unknown data source mode %q", mode)
	}
	return r, nil
}

// NewRegistryWithProviders wires explicit providers, bypassing mode
// selection. Useful when callers manage fallback themselves.
func NewRegistryWithProviders(search SearchAdsProvider, discovery DiscoveryAdsProvider, social SocialMediaProvider, seo SEOProvider) *Registry {
	return &Registry{searchAds: search, discoveryAds: discovery, socialMedia: social, seo: seo}
}

// NewMockRegistryAt builds an all-mock registry with "today" pinned to
// the given instant. Demo and test wiring.
func NewMockRegistryAt(catalog *campaign.Catalog, now func() time.Time) *Registry {
	c := clock(now)
	search := NewMockSearchAds(catalog)
	search.clock = c
	discovery := NewMockDiscoveryAds(catalog)
	discovery.clock = c
	social := NewMockSocialMedia(catalog)
	social.clock = c
	seo := NewMockSEO(catalog)
	seo.clock = c
	return &Registry{searchAds: search, discoveryAds: discovery, socialMedia: social, seo: seo}
}

// SearchAds returns the active search ads provider.
func (r *Registry) SearchAds() SearchAdsProvider { return r.searchAds }

// DiscoveryAds returns the active discovery ads provider.
func (r *Registry) DiscoveryAds() DiscoveryAdsProvider { return r.discoveryAds }

// SocialMedia returns the active social media provider.
func (r *Registry) SocialMedia() SocialMediaProvider { return r.socialMedia }

// SEO returns the active SEO provider.
func (r *Registry) SEO() SEOProvider { return r.seo }
