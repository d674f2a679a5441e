// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alert

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/marketpulse/pulse/pkg/datasource"
	"github.com/marketpulse/pulse/pkg/log"
	"github.com/marketpulse/pulse/pkg/metrics"
)

// criticalRatio is how far past the threshold an unacknowledged event
// must be to count as critical.
const criticalRatio = 0.2

// keyedMutex serializes evaluation per campaign so concurrent calls
// cannot double-append the same events.
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

// Engine evaluates alert rules against the latest channel snapshots.
type Engine struct {
	rules    RuleStore
	events   EventStore
	registry *datasource.Registry
	log      log.Logger
	clock    func() time.Time
	eval     keyedMutex
	listener func(Event)
}

// NewEngine creates an alerting engine over the given stores and
// provider registry.
func NewEngine(rules RuleStore, events EventStore, registry *datasource.Registry, logger log.Logger) *Engine {
	if logger == nil {
		logger = log.NoLog
	}
	return &Engine{rules: rules, events: events, registry: registry, log: logger}
}

// SetEventListener registers a callback invoked for every appended
// event. Used to fan alerts out to live subscribers.
func (e *Engine) SetEventListener(fn func(Event)) { e.listener = fn }

func (e *Engine) now() time.Time {
	if e.clock != nil {
		return e.clock()
	}
	return time.Now().UTC()
}

// EvaluateRules tests every active rule against the latest daily
// snapshot of its channel (or the campaign-wide snapshot) and appends
// one event per fired rule. Observe-only: no action is executed.
func (e *Engine) EvaluateRules(ctx context.Context, campaignID int64) ([]Event, error) {
	m := e.eval.lock(campaignID)
	defer m.Unlock()

	rules, err := e.rules.ListRules(campaignID)
	if err != nil {
		return nil, err
	}

	var fired []Event
	for _, rule := range rules {
		if rule.Status != RuleActive {
			continue
		}

		latest, previous, err := e.snapshot(ctx, campaignID, rule.ChannelType, rule.MetricName)
		if err != nil {
			e.log.Warn("alert snapshot failed", "rule", rule.Name, "error", err)
			continue
		}

		match, observed := testCondition(rule.Condition, latest, previous, rule.Threshold)
		if !match {
			continue
		}

		ev := Event{
			RuleID:      rule.ID,
			CampaignID:  campaignID,
			MetricName:  rule.MetricName,
			Condition:   rule.Condition,
			Value:       observed,
			Threshold:   rule.Threshold,
			Message:     renderMessage(rule, observed),
			TriggeredAt: e.now(),
		}
		stored, err := e.events.AppendEvent(ev)
		if err != nil {
			return nil, err
		}
		if e.listener != nil {
			e.listener(stored)
		}
		e.log.Info("alert fired", "campaignID", campaignID, "rule", rule.Name, "value", observed)
		fired = append(fired, stored)
	}
	return fired, nil
}

// snapshot returns the metric's latest and previous daily values for
// the rule's channel, or summed across channels when no channel is set.
func (e *Engine) snapshot(ctx context.Context, campaignID int64, ct *metrics.ChannelType, metricName string) (float64, float64, error) {
	q := metrics.Query{CampaignID: campaignID}
	var results []*metrics.Result

	fetchers := map[metrics.ChannelType]func() (*metrics.Result, error){
		metrics.ChannelGoogleSearch:    func() (*metrics.Result, error) { return e.registry.SearchAds().GetMetrics(ctx, q) },
		metrics.ChannelGoogleDiscovery: func() (*metrics.Result, error) { return e.registry.DiscoveryAds().GetMetrics(ctx, q) },
		metrics.ChannelSocialTikTok:    func() (*metrics.Result, error) { return e.registry.SocialMedia().GetMetrics(ctx, q) },
		metrics.ChannelSocialInstagram: func() (*metrics.Result, error) { return e.registry.SocialMedia().GetMetrics(ctx, q) },
		metrics.ChannelSocialFacebook:  func() (*metrics.Result, error) { return e.registry.SocialMedia().GetMetrics(ctx, q) },
	}

	if ct != nil {
		fetch, ok := fetchers[*ct]
		if !ok {
			return 0, 0, fmt.Errorf("unknown channel type %q", *ct)
		}
		res, err := fetch()
		if err != nil {
			return 0, 0, err
		}
		results = append(results, res)
	} else {
		for _, fetch := range []func() (*metrics.Result, error){
			fetchers[metrics.ChannelGoogleSearch],
			fetchers[metrics.ChannelGoogleDiscovery],
			fetchers[metrics.ChannelSocialTikTok],
		} {
			res, err := fetch()
			if err != nil {
				return 0, 0, err
			}
			results = append(results, res)
		}
	}

	var latestRows, prevRows []metrics.DailyMetric
	for _, res := range results {
		n := len(res.Data)
		if n > 0 {
			latestRows = append(latestRows, res.Data[n-1])
		}
		if n > 1 {
			prevRows = append(prevRows, res.Data[n-2])
		}
	}
	if len(latestRows) == 0 {
		return 0, 0, fmt.Errorf("no generated data for campaign %d", campaignID)
	}
	return metricValue(metrics.Sum(latestRows), metricName), metricValue(metrics.Sum(prevRows), metricName), nil
}

func metricValue(t metrics.Totals, metricName string) float64 {
	switch metricName {
	case "cpc":
		return t.AvgCPC
	case "ctr":
		return t.AvgCTR
	case "conversion_rate":
		return t.AvgConversionRate
	case "clicks":
		return float64(t.Clicks)
	case "cost":
		return float64(t.Cost)
	case "conversions":
		return float64(t.Conversions)
	case "impressions":
		return float64(t.Impressions)
	case "visits":
		return float64(t.Visits)
	default:
		return 0
	}
}

// testCondition evaluates above/below against the latest value and
// change_pct against the unsigned day-over-day percentage change.
func testCondition(cond Condition, latest, previous, threshold float64) (bool, float64) {
	switch cond {
	case ConditionAbove:
		return latest > threshold, latest
	case ConditionBelow:
		return latest < threshold, latest
	case ConditionChangePct:
		if previous == 0 {
			return false, 0
		}
		change := (latest - previous) / previous * 100
		return math.Abs(change) > threshold, change
	default:
		return false, latest
	}
}

func renderMessage(rule Rule, observed float64) string {
	switch rule.Condition {
	case ConditionChangePct:
		return fmt.Sprintf("%s: %s changed %.1f%% day-over-day, threshold %.1f%%",
			rule.Name, rule.MetricName, observed, rule.Threshold)
	default:
		return fmt.Sprintf("%s: %s %s %s threshold %s",
			rule.Name, rule.MetricName, FormatValue(rule.MetricName, observed), rule.Condition, FormatValue(rule.MetricName, rule.Threshold))
	}
}

// Acknowledge marks an event acknowledged. Idempotent: re-acknowledging
// returns the event unchanged and keeps the original acknowledger.
func (e *Engine) Acknowledge(id int64, userID int64) (Event, error) {
	ev, err := e.events.GetEvent(id)
	if err != nil {
		return Event{}, err
	}
	if ev.IsAcknowledged {
		return ev, nil
	}
	now := e.now()
	ev.IsAcknowledged = true
	ev.AcknowledgedBy = &userID
	ev.AcknowledgedAt = &now
	if err := e.events.UpdateEvent(ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// AcknowledgeAll acknowledges every open event for the campaign and
// returns how many transitioned.
func (e *Engine) AcknowledgeAll(campaignID int64, userID int64) (int, error) {
	events, err := e.events.ListEvents(campaignID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, ev := range events {
		if ev.IsAcknowledged {
			continue
		}
		if _, err := e.Acknowledge(ev.ID, userID); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Events lists the campaign's events in append order.
func (e *Engine) Events(campaignID int64) ([]Event, error) {
	return e.events.ListEvents(campaignID)
}

// Stats summarizes the campaign's alert state.
func (e *Engine) Stats(campaignID int64) (Stats, error) {
	events, err := e.events.ListEvents(campaignID)
	if err != nil {
		return Stats{}, err
	}
	var s Stats
	for _, ev := range events {
		s.Total++
		if ev.IsAcknowledged {
			continue
		}
		s.Unacknowledged++
		if isCritical(ev) {
			s.Critical++
		}
	}
	return s, nil
}

// isCritical reports whether the event's value exceeds its threshold by
// more than 20% in the direction of the rule's condition.
func isCritical(ev Event) bool {
	switch ev.Condition {
	case ConditionAbove:
		return ev.Value > ev.Threshold*(1+criticalRatio)
	case ConditionBelow:
		return ev.Value < ev.Threshold*(1-criticalRatio)
	case ConditionChangePct:
		return math.Abs(ev.Value) > ev.Threshold*(1+criticalRatio)
	default:
		return false
	}
}

// SeedDefaultRules creates the stock alert set for a campaign: the five
// watches every campaign starts with.
func SeedDefaultRules(store RuleStore, campaignID int64) ([]Rule, error) {
	now := time.Now().UTC()
	search := metrics.ChannelGoogleSearch
	discovery := metrics.ChannelGoogleDiscovery
	defaults := []Rule{
		{
			CampaignID:   campaignID,
			Name:         "SEM Daily Clicks Drop",
			MetricName:   "clicks",
			Condition:    ConditionBelow,
			Threshold:    1500,
			ChannelType:  &search,
			Notification: Notification{Email: true, Dashboard: true},
			Status:       RuleActive,
			CreatedAt:    now,
		},
		{
			CampaignID:   campaignID,
			Name:         "CPC Spike Alert",
			MetricName:   "cpc",
			Condition:    ConditionAbove,
			Threshold:    2500,
			ChannelType:  &search,
			Notification: Notification{Dashboard: true},
			Status:       RuleActive,
			CreatedAt:    now,
		},
		{
			CampaignID:   campaignID,
			Name:         "Discovery Visits Below Target",
			MetricName:   "visits",
			Condition:    ConditionBelow,
			Threshold:    2500,
			ChannelType:  &discovery,
			Notification: Notification{Email: true, Dashboard: true},
			Status:       RuleActive,
			CreatedAt:    now,
		},
		{
			CampaignID:   campaignID,
			Name:         "CTR Too Low",
			MetricName:   "ctr",
			Condition:    ConditionBelow,
			Threshold:    0.03,
			Notification: Notification{Dashboard: true},
			Status:       RuleActive,
			CreatedAt:    now,
		},
		{
			CampaignID:   campaignID,
			Name:         "Budget Overspend",
			MetricName:   "cost",
			Condition:    ConditionAbove,
			Threshold:    5000000,
			ChannelType:  &search,
			Notification: Notification{Email: true, Dashboard: true},
			Status:       RuleActive,
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
