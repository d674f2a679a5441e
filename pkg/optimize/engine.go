// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package optimize

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketpulse/pulse/pkg/datasource"
	"github.com/marketpulse/pulse/pkg/log"
	"github.com/marketpulse/pulse/pkg/metrics"
)

// defaultDailyBudget is assumed when adjust_budget has no CurrentBudget.
const defaultDailyBudget = 3000000

// keyedMutex serializes work per campaign. Concurrent evaluations of
// the same campaign would double-log fired actions.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func (k *keyedMutex) lock(campaignID int64) *sync.Mutex {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[int64]*sync.Mutex)
	}
	m, ok := k.locks[campaignID]
	if !ok {
		m = &sync.Mutex{}
		k.locks[campaignID] = m
	}
	k.mu.Unlock()
	m.Lock()
	return m
}

// Engine evaluates optimization rules and executes their actions.
type Engine struct {
	rules       RuleStore
	logs        ActionLogStore
	suggestions SuggestionStore
	search      datasource.SearchAdsProvider
	log         log.Logger
	clock       func() time.Time
	eval        keyedMutex
	listener    func(ActionLog)
}

// NewEngine creates an optimization engine over the given stores and
// search provider.
func NewEngine(rules RuleStore, logs ActionLogStore, suggestions SuggestionStore, search datasource.SearchAdsProvider, logger log.Logger) *Engine {
	if logger == nil {
		logger = log.NoLog
	}
	return &Engine{rules: rules, logs: logs, suggestions: suggestions, search: search, log: logger}
}

// SetActionListener registers a callback invoked for every appended
// action log. Used to fan logs out to live subscribers.
func (e *Engine) SetActionListener(fn func(ActionLog)) { e.listener = fn }

func (e *Engine) now() time.Time {
	if e.clock != nil {
		return e.clock()
	}
	return time.Now().UTC()
}

// EvaluateRules runs every active rule for the campaign against the
// current keyword snapshots and executes fired actions. At most one
// evaluation runs per campaign at a time.
func (e *Engine) EvaluateRules(ctx context.Context, campaignID int64) ([]ActionLog, error) {
	m := e.eval.lock(campaignID)
	defer m.Unlock()

	rules, err := e.rules.ListRules(campaignID)
	if err != nil {
		return nil, err
	}

	keywords, err := e.search.GetKeywords(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	var fired []ActionLog
	for _, rule := range rules {
		if rule.Status != RuleActive {
			continue
		}

		triggered := false
		for _, kw := range keywords {
			value, history, err := e.observe(ctx, rule, kw, now)
			if err != nil {
				e.log.Warn("metric observation failed", "rule", rule.Name, "keyword", kw.Keyword, "error", err)
				continue
			}
			match, observed := test(rule.Condition, value, history, rule.Threshold)
			if !match {
				continue
			}
			triggered = true

			reason := fmt.Sprintf("rule %q fired: %s %s %s threshold %s",
				rule.Name, rule.Metric, formatValue(rule.Metric, observed), rule.Condition, formatValue(rule.Metric, rule.Threshold))
			params := rule.ActionParams
			params.Reason = reason
			lg, err := e.ExecuteAction(ctx, campaignID, rule.ActionType, kw.Keyword, params, ByRule, nil, &rule.ID)
			if err != nil {
				return nil, err
			}
			fired = append(fired, *lg)
		}

		rule.LastEvaluatedAt = &now
		if triggered {
			rule.LastTriggeredAt = &now
		}
		if err := e.rules.UpdateRule(rule); err != nil {
			return nil, err
		}
	}
	return fired, nil
}

// observe resolves the rule's metric for one keyword. Above/below
// conditions on cpc and quality score read the keyword snapshot;
// everything else comes from the keyword's daily series over the
// lookback window, so change-pct conditions work for every metric.
func (e *Engine) observe(ctx context.Context, rule Rule, kw metrics.SEMKeyword, now time.Time) (float64, []float64, error) {
	if rule.Condition == ConditionAbove || rule.Condition == ConditionBelow {
		switch rule.Metric {
		case MetricCPC:
			return kw.AvgCPC, nil, nil
		case MetricQualityScore:
			return kw.QualityScore, nil, nil
		}
	}

	lookback := rule.LookbackDays
	if lookback < 1 {
		lookback = 1
	}
	start := now.AddDate(0, 0, -lookback)
	rows, err := e.search.GetKeywordMetrics(ctx, kw.ID, start, now)
	if err != nil {
		return 0, nil, err
	}
	if len(rows) == 0 {
		return 0, nil, nil
	}

	history := make([]float64, len(rows))
	for i, r := range rows {
		switch rule.Metric {
		case MetricCTR:
			history[i] = r.CTR
		case MetricClicks:
			history[i] = float64(r.Clicks)
		case MetricCost:
			history[i] = float64(r.Cost)
		case MetricConversions:
			history[i] = float64(r.Conversions)
		case MetricCPC:
			history[i] = r.AvgCPC
		case MetricQualityScore:
			history[i] = r.QualityScore
		default:
			return 0, nil, fmt.Errorf("unknown metric %q", rule.Metric)
		}
	}
	return history[len(history)-1], history, nil
}

// test evaluates the condition. For change_pct conditions the observed
// value reported back is the signed percentage change over the window.
func test(cond Condition, value float64, history []float64, threshold float64) (bool, float64) {
	switch cond {
	case ConditionAbove:
		return value > threshold, value
	case ConditionBelow:
		return value < threshold, value
	case ConditionChangePctUp, ConditionChangePctDown:
		if len(history) < 2 || history[0] == 0 {
			return false, 0
		}
		change := (history[len(history)-1] - history[0]) / history[0] * 100
		if cond == ConditionChangePctUp {
			return change > threshold, change
		}
		return change < threshold, change
	default:
		return false, value
	}
}

// ExecuteAction performs one action and appends its audit log. In mock
// mode no external platform is mutated; the intent is recorded as
// executed. A failed target lookup records a failed log instead.
func (e *Engine) ExecuteAction(ctx context.Context, campaignID int64, actionType ActionType, target string, params ActionParams, executedBy ExecutedBy, userID *int64, ruleID *int64) (*ActionLog, error) {
	entry := ActionLog{
		RuleID:       ruleID,
		CampaignID:   campaignID,
		ActionType:   actionType,
		TargetEntity: target,
		Reason:       params.Reason,
		Status:       LogExecuted,
		ExecutedAt:   e.now(),
		ExecutedBy:   executedBy,
		UserID:       userID,
	}

	switch actionType {
	case ActionAdjustBid:
		current, err := e.currentCPC(ctx, campaignID, target)
		if err != nil {
			entry.Status = LogFailed
			entry.Reason = fmt.Sprintf("adjust_bid: %v", err)
			break
		}
		newBid := decimal.NewFromFloat(params.NewBid)
		if newBid.IsZero() {
			pct := decimal.NewFromFloat(params.AdjustPercent)
			factor := decimal.NewFromInt(1).Add(pct.Div(decimal.NewFromInt(100)))
			newBid = current.Mul(factor)
		}
		entry.PreviousValue = current.Round(0).String()
		entry.NewValue = newBid.Round(0).String()
	case ActionPauseKeyword:
		entry.PreviousValue = "active"
		entry.NewValue = "paused"
	case ActionEnableKeyword:
		entry.PreviousValue = "paused"
		entry.NewValue = "active"
	case ActionAdjustBudget:
		current := decimal.NewFromFloat(params.CurrentBudget)
		if current.IsZero() {
			current = decimal.NewFromInt(defaultDailyBudget)
		}
		pct := decimal.NewFromFloat(params.AdjustPercent)
		factor := decimal.NewFromInt(1).Add(pct.Div(decimal.NewFromInt(100)))
		entry.PreviousValue = current.Round(0).String()
		entry.NewValue = current.Mul(factor).Round(0).String()
	case ActionPauseCampaign:
		entry.PreviousValue = "active"
		entry.NewValue = "paused"
	case ActionChangeAdSchedule:
		entry.PreviousValue = "current schedule"
		entry.NewValue = "updated schedule"
	default:
		entry.Status = LogFailed
		entry.Reason = fmt.Sprintf("unknown action type %q", actionType)
	}

	stored, err := e.logs.AppendLog(entry)
	if err != nil {
		return nil, err
	}
	if e.listener != nil {
		e.listener(stored)
	}
	e.log.Info("action executed",
		"campaignID", campaignID, "action", actionType, "target", target, "status", stored.Status, "by", executedBy)
	return &stored, nil
}

// currentCPC finds the keyword's current average CPC by id or text.
func (e *Engine) currentCPC(ctx context.Context, campaignID int64, target string) (decimal.Decimal, error) {
	keywords, err := e.search.GetKeywords(ctx, campaignID)
	if err != nil {
		return decimal.Zero, err
	}
	for _, kw := range keywords {
		if kw.Keyword == target || fmt.Sprintf("%d", kw.ID) == target {
			return decimal.NewFromFloat(kw.AvgCPC), nil
		}
	}
	return decimal.Zero, fmt.Errorf("keyword %q not found", target)
}

// IngestInsights converts externally proposed actions into pending
// suggestions without executing anything.
func (e *Engine) IngestInsights(campaignID int64, insights []Insight) ([]Suggestion, error) {
	now := e.now()
	out := make([]Suggestion, 0, len(insights))
	for _, in := range insights {
		priority := in.Priority
		if priority == "" {
			priority = "medium"
		}
		s := Suggestion{
			ID:             uuid.NewString(),
			CampaignID:     campaignID,
			ActionType:     in.ActionType,
			Target:         in.Target,
			Text:           in.Suggestion,
			ExpectedImpact: in.ExpectedImpact,
			Confidence:     in.Confidence,
			Priority:       priority,
			Source:         ByAI,
			Status:         SuggestionPending,
			CreatedAt:      now,
		}
		if err := e.suggestions.PutSuggestion(s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ApplySuggestion executes a pending suggestion and marks it applied.
func (e *Engine) ApplySuggestion(ctx context.Context, id string, userID *int64) (*ActionLog, error) {
	s, err := e.suggestions.GetSuggestion(id)
	if err != nil {
		return nil, err
	}
	if s.Status != SuggestionPending {
		return nil, fmt.Errorf("suggestion %s is %s, not pending", id, s.Status)
	}

	lg, err := e.ExecuteAction(ctx, s.CampaignID, s.ActionType, s.Target, ActionParams{Reason: s.Text}, ByAI, userID, nil)
	if err != nil {
		return nil, err
	}
	if err := e.suggestions.SetSuggestionStatus(id, SuggestionApplied); err != nil {
		return nil, err
	}
	return lg, nil
}

// Logs lists the campaign's action logs in append order.
func (e *Engine) Logs(campaignID int64) ([]ActionLog, error) {
	return e.logs.ListLogs(campaignID)
}

// Suggestions lists the campaign's suggestions in ingest order.
func (e *Engine) Suggestions(campaignID int64) ([]Suggestion, error) {
	return e.suggestions.ListSuggestions(campaignID)
}

// formatValue renders a metric value for reason strings.
func formatValue(m Metric, v float64) string {
	switch m {
	case MetricCTR:
		return fmt.Sprintf("%.1f%%", v*100)
	case MetricCPC, MetricCost:
		return fmt.Sprintf("Rp %.0f", v)
	default:
		return fmt.Sprintf("%g", v)
	}
}

// SeedDefaultRules creates the stock rule set for a campaign: the four
// guardrails every campaign starts with.
func SeedDefaultRules(store RuleStore, campaignID int64) ([]Rule, error) {
	now := time.Now().UTC()
	search := metrics.ChannelGoogleSearch
	defaults := []Rule{
		{
			CampaignID:   campaignID,
			Name:         "Lower bids on expensive keywords",
			ChannelType:  &search,
			Metric:       MetricCPC,
			Condition:    ConditionAbove,
			Threshold:    2000,
			LookbackDays: 7,
			ActionType:   ActionAdjustBid,
			ActionParams: ActionParams{AdjustPercent: -10},
			Status:       RuleActive,
			CreatedAt:    now,
		},
		{
			CampaignID:   campaignID,
			Name:         "Pause low quality keywords",
			ChannelType:  &search,
			Metric:       MetricQualityScore,
			Condition:    ConditionBelow,
			Threshold:    4,
			LookbackDays: 1,
			ActionType:   ActionPauseKeyword,
			Status:       RuleActive,
			CreatedAt:    now,
		},
		{
			CampaignID:   campaignID,
			Name:         "Cut bids on weak CTR",
			ChannelType:  &search,
			Metric:       MetricCTR,
			Condition:    ConditionBelow,
			Threshold:    0.02,
			LookbackDays: 7,
			ActionType:   ActionAdjustBid,
			ActionParams: ActionParams{AdjustPercent: -15},
			Status:       RuleActive,
			CreatedAt:    now,
		},
		{
			CampaignID:   campaignID,
			Name:         "Boost budget when clicks lag",
			ChannelType:  &search,
			Metric:       MetricClicks,
			Condition:    ConditionBelow,
			Threshold:    1800,
			LookbackDays: 7,
			ActionType:   ActionAdjustBudget,
			ActionParams: ActionParams{AdjustPercent: 20},
			Status:       RulePaused,
			CreatedAt:    now,
		},
	}

	out := make([]Rule, 0, len(defaults))
	for _, r := range defaults {
		created, err := store.CreateRule(r)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}
