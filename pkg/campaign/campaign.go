// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package campaign holds campaign definitions and per-channel targets.
package campaign

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/marketpulse/pulse/pkg/metrics"
)

var ErrNotFound = errors.New("campaign not found")

// Status of a campaign relative to its flight dates.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// ChannelTarget is one paid channel's goal within a campaign.
type ChannelTarget struct {
	Label                string              `json:"label"`
	ChannelType          metrics.ChannelType `json:"channelType"`
	TargetMetric         string              `json:"targetMetric"` // clicks | visits
	TargetValue          int                 `json:"targetValue"`
	EstimatedImpressions int                 `json:"estimatedImpressions"`
	EstimatedCTR         float64             `json:"estimatedCtr"`
	EstimatedCPC         float64             `json:"estimatedCpc"`
	EstimatedBudget      int                 `json:"estimatedBudget"`
}

// SocialSplit allocates the social click target across platforms.
type SocialSplit struct {
	Platform     string              `json:"platform"`
	ChannelType  metrics.ChannelType `json:"channelType"`
	Percentage   float64             `json:"percentage"`
	TargetClicks int                 `json:"targetClicks"`
}

// Definition is a managed marketing campaign.
type Definition struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Client      string          `json:"client"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	SiteURL     string          `json:"siteUrl,omitempty"`
	Channels    []ChannelTarget `json:"channels"`
	SocialSplit []SocialSplit   `json:"socialBreakdown"`
}

// TotalDays is the inclusive length of the flight in days.
func (d Definition) TotalDays() int {
	return int(d.EndDate.Sub(d.StartDate).Hours()/24) + 1
}

// Channel returns the target for one channel type, if configured.
func (d Definition) Channel(ct metrics.ChannelType) (ChannelTarget, bool) {
	for _, ch := range d.Channels {
		if ch.ChannelType == ct {
			return ch, true
		}
	}
	return ChannelTarget{}, false
}

// SocialTarget is the summed click target across social platforms.
func (d Definition) SocialTarget() int {
	total := 0
	for _, s := range d.SocialSplit {
		total += s.TargetClicks
	}
	return total
}

// StatusAt derives the campaign status from its flight dates.
func (d Definition) StatusAt(now time.Time) Status {
	today := truncate(now)
	switch {
	case today.Before(truncate(d.StartDate)):
		return StatusUpcoming
	case today.After(truncate(d.EndDate)):
		return StatusCompleted
	default:
		return StatusActive
	}
}

// DaysElapsed counts the flight days that have started as of now,
// clamped to [0, TotalDays].
func (d Definition) DaysElapsed(now time.Time) int {
	today := truncate(now)
	start := truncate(d.StartDate)
	if today.Before(start) {
		return 0
	}
	elapsed := int(today.Sub(start).Hours()/24) + 1
	if total := d.TotalDays(); elapsed > total {
		return total
	}
	return elapsed
}

func truncate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Catalog is a concurrency-safe campaign registry.
type Catalog struct {
	mu        sync.RWMutex
	campaigns map[int64]Definition
	nextID    int64
}

// NewCatalog creates a catalog preloaded with the given campaigns.
func NewCatalog(defs ...Definition) *Catalog {
	c := &Catalog{campaigns: make(map[int64]Definition), nextID: 1}
	for _, d := range defs {
		if d.ID == 0 {
			d.ID = c.nextID
		}
		c.campaigns[d.ID] = d
		if d.ID >= c.nextID {
			c.nextID = d.ID + 1
		}
	}
	return c
}

// Get returns the campaign with the given id.
func (c *Catalog) Get(id int64) (Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.campaigns[id]
	if !ok {
		return Definition{}, ErrNotFound
	}
	return d, nil
}

// List returns all campaigns ordered by id.
func (c *Catalog) List() []Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Definition, 0, len(c.campaigns))
	for _, d := range c.campaigns {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Add registers a new campaign and returns it with an assigned id.
func (c *Catalog) Add(d Definition) Definition {
	c.mu.Lock()
	defer c.mu.Unlock()
	d.ID = c.nextID
	c.nextID++
	c.campaigns[d.ID] = d
	return d
}
