// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package optimize implements the rule-based auto-optimization engine:
// rules watch keyword metrics and execute bid, status, and budget
// actions when their conditions fire.
package optimize

import (
	"errors"
	"fmt"
	"time"

	"github.com/marketpulse/pulse/pkg/metrics"
)

var (
	ErrUnknownMetric    = errors.New("unknown rule metric")
	ErrUnknownCondition = errors.New("unknown rule condition")
	ErrUnknownAction    = errors.New("unknown action type")
	ErrUnknownStatus    = errors.New("unknown rule status")
	ErrBadLookback      = errors.New("lookback days must be at least 1")
)

// Metric names a rule can watch.
type Metric string

const (
	MetricCPC          Metric = "cpc"
	MetricCTR          Metric = "ctr"
	MetricQualityScore Metric = "quality_score"
	MetricClicks       Metric = "clicks"
	MetricCost         Metric = "cost"
	MetricConversions  Metric = "conversions"
)

// Condition compares an observed value to the rule threshold.
type Condition string

const (
	ConditionAbove         Condition = "above"
	ConditionBelow         Condition = "below"
	ConditionChangePctUp   Condition = "change_pct_up"
	ConditionChangePctDown Condition = "change_pct_down"
)

// ActionType is what a fired rule does.
type ActionType string

const (
	ActionAdjustBid        ActionType = "adjust_bid"
	ActionPauseKeyword     ActionType = "pause_keyword"
	ActionEnableKeyword    ActionType = "enable_keyword"
	ActionAdjustBudget     ActionType = "adjust_budget"
	ActionPauseCampaign    ActionType = "pause_campaign"
	ActionChangeAdSchedule ActionType = "change_ad_schedule"
)

// RuleStatus gates evaluation: only active rules run.
type RuleStatus string

const (
	RuleDraft  RuleStatus = "draft"
	RuleActive RuleStatus = "active"
	RulePaused RuleStatus = "paused"
)

// ActionParams carries the typed knobs an action can use. Zero values
// mean "not set"; adjust_bid falls back from NewBid to AdjustPercent,
// adjust_budget from CurrentBudget to a default.
type ActionParams struct {
	AdjustPercent float64 `json:"adjustPercent,omitempty"`
	NewBid        float64 `json:"newBid,omitempty"`
	CurrentBudget float64 `json:"currentBudget,omitempty"`
	Reason        string  `json:"reason,omitempty"`
}

// Rule is one optimization rule. The engine mutates only the two
// timestamp fields; condition fields change only through user edits.
type Rule struct {
	ID              int64                `json:"id"`
	CampaignID      int64                `json:"campaignId"`
	Name            string               `json:"name"`
	ChannelType     *metrics.ChannelType `json:"channelType"` // nil = all channels
	Metric          Metric               `json:"metric"`
	Condition       Condition            `json:"condition"`
	Threshold       float64              `json:"threshold"`
	LookbackDays    int                  `json:"lookbackDays"`
	ActionType      ActionType           `json:"actionType"`
	ActionParams    ActionParams         `json:"actionParams"`
	Status          RuleStatus           `json:"status"`
	LastEvaluatedAt *time.Time           `json:"lastEvaluatedAt"`
	LastTriggeredAt *time.Time           `json:"lastTriggeredAt"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// Validate rejects rules the engine could never evaluate, so bad
// configurations fail at creation instead of silently never firing.
func (r Rule) Validate() error {
	switch r.Metric {
	case MetricCPC, MetricCTR, MetricQualityScore, MetricClicks, MetricCost, MetricConversions:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMetric, r.Metric)
	}
	switch r.Condition {
	case ConditionAbove, ConditionBelow, ConditionChangePctUp, ConditionChangePctDown:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCondition, r.Condition)
	}
	switch r.ActionType {
	case ActionAdjustBid, ActionPauseKeyword, ActionEnableKeyword,
		ActionAdjustBudget, ActionPauseCampaign, ActionChangeAdSchedule:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, r.ActionType)
	}
	switch r.Status {
	case RuleDraft, RuleActive, RulePaused:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStatus, r.Status)
	}
	if r.LookbackDays < 1 {
		return fmt.Errorf("%w: %d", ErrBadLookback, r.LookbackDays)
	}
	return nil
}

// LogStatus tracks an action log's lifecycle.
type LogStatus string

const (
	LogPending    LogStatus = "pending"
	LogExecuted   LogStatus = "executed"
	LogFailed     LogStatus = "failed"
	LogRolledBack LogStatus = "rolled_back"
)

// ExecutedBy records who initiated an action.
type ExecutedBy string

const (
	ByRule   ExecutedBy = "rule"
	ByAI     ExecutedBy = "ai"
	ByManual ExecutedBy = "manual"
)

// ActionLog is the immutable audit record of one executed action.
// After creation only Status may transition (retry/rollback).
type ActionLog struct {
	ID            int64      `json:"id"`
	RuleID        *int64     `json:"ruleId"` // nil = manual action
	CampaignID    int64      `json:"campaignId"`
	ActionType    ActionType `json:"actionType"`
	TargetEntity  string     `json:"targetEntity"`
	PreviousValue string     `json:"previousValue"`
	NewValue      string     `json:"newValue"`
	Reason        string     `json:"reason"`
	Status        LogStatus  `json:"status"`
	ExecutedAt    time.Time  `json:"executedAt"`
	ExecutedBy    ExecutedBy `json:"executedBy"`
	UserID        *int64     `json:"userId"`
}

// SuggestionStatus tracks the propose/apply lifecycle.
type SuggestionStatus string

const (
	SuggestionPending   SuggestionStatus = "pending"
	SuggestionApplied   SuggestionStatus = "applied"
	SuggestionDismissed SuggestionStatus = "dismissed"
)

// Suggestion is a proposed action awaiting review. AI-originated
// actions are never auto-executed; applying one is a separate call.
type Suggestion struct {
	ID             string           `json:"id"`
	CampaignID     int64            `json:"campaignId"`
	ActionType     ActionType       `json:"actionType"`
	Target         string           `json:"target"`
	Text           string           `json:"text"`
	ExpectedImpact string           `json:"expectedImpact"`
	Confidence     float64          `json:"confidence"`
	Priority       string           `json:"priority"` // low | medium | high
	Source         ExecutedBy       `json:"source"`
	Status         SuggestionStatus `json:"status"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// Insight is one proposed action from an external analysis source.
type Insight struct {
	ActionType     ActionType `json:"actionType"`
	Target         string     `json:"target"`
	Suggestion     string     `json:"suggestion"`
	ExpectedImpact string     `json:"expectedImpact"`
	Confidence     float64    `json:"confidence"`
	Priority       string     `json:"priority"`
}
