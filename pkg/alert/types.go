// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package alert implements the observe-only alerting engine: rules
// watch campaign metrics and raise acknowledgeable events, never
// executing actions.
package alert

import (
	"errors"
	"fmt"
	"time"

	"github.com/marketpulse/pulse/pkg/metrics"
)

var (
	ErrUnknownMetricName = errors.New("unknown metric name")
	ErrUnknownCondition  = errors.New("unknown rule condition")
	ErrUnknownStatus     = errors.New("unknown rule status")
)

// watchableMetrics are the metric names the engine can snapshot.
var watchableMetrics = map[string]bool{
	"cpc": true, "ctr": true, "conversion_rate": true, "clicks": true,
	"cost": true, "conversions": true, "impressions": true, "visits": true,
}

// Condition compares the observed value to the rule threshold.
type Condition string

const (
	ConditionAbove     Condition = "above"
	ConditionBelow     Condition = "below"
	ConditionChangePct Condition = "change_pct"
)

// RuleStatus gates evaluation: only active rules run.
type RuleStatus string

const (
	RuleActive RuleStatus = "active"
	RulePaused RuleStatus = "paused"
)

// Notification is the rule's delivery preferences.
type Notification struct {
	Email     bool `json:"email"`
	Dashboard bool `json:"dashboard"`
}

// Rule is one alert rule. A nil ChannelType watches the campaign-wide
// value across all channels.
type Rule struct {
	ID           int64                `json:"id"`
	CampaignID   int64                `json:"campaignId"`
	Name         string               `json:"name"`
	MetricName   string               `json:"metricName"` // cpc | ctr | clicks | cost | conversions | impressions
	Condition    Condition            `json:"condition"`
	Threshold    float64              `json:"threshold"`
	ChannelType  *metrics.ChannelType `json:"channelType"`
	Notification Notification         `json:"notification"`
	Status       RuleStatus           `json:"status"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// Validate rejects rules the engine could never evaluate, so bad
// configurations fail at creation instead of silently never firing.
func (r Rule) Validate() error {
	if !watchableMetrics[r.MetricName] {
		return fmt.Errorf("%w: %q", ErrUnknownMetricName, r.MetricName)
	}
	switch r.Condition {
	case ConditionAbove, ConditionBelow, ConditionChangePct:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCondition, r.Condition)
	}
	switch r.Status {
	case RuleActive, RulePaused:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStatus, r.Status)
	}
	return nil
}

// Event is one fired alert. Events are append-only; acknowledgement is
// the only mutation.
type Event struct {
	ID             int64      `json:"id"`
	RuleID         int64      `json:"ruleId"`
	CampaignID     int64      `json:"campaignId"`
	MetricName     string     `json:"metricName"`
	Condition      Condition  `json:"condition"`
	Value          float64    `json:"value"`
	Threshold      float64    `json:"threshold"`
	Message        string     `json:"message"`
	IsAcknowledged bool       `json:"isAcknowledged"`
	AcknowledgedBy *int64     `json:"acknowledgedBy"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt"`
	TriggeredAt    time.Time  `json:"triggeredAt"`
}

// Stats summarizes a campaign's alert state. Critical counts
// unacknowledged events whose value exceeds the threshold by more than
// 20% in the direction of the rule's condition.
type Stats struct {
	Total          int `json:"total"`
	Unacknowledged int `json:"unacknowledged"`
	Critical       int `json:"critical"`
}
