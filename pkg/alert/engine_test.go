// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alert

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/marketpulse/pulse/pkg/campaign"
	"github.com/marketpulse/pulse/pkg/datasource"
	"github.com/marketpulse/pulse/pkg/log"
	"github.com/marketpulse/pulse/pkg/metrics"
)

func testEngine(t *testing.T) (*Engine, *MemoryRuleStore, *MemoryEventStore) {
	t.Helper()
	cat := campaign.NewCatalog(campaign.MBBH2026())
	reg := datasource.NewMockRegistryAt(cat, func() time.Time {
		return time.Date(2026, time.February, 20, 9, 0, 0, 0, time.UTC)
	})
	rules := NewMemoryRuleStore()
	events := NewMemoryEventStore()
	return NewEngine(rules, events, reg, log.NoLog), rules, events
}

func TestEvaluateRulesFiring(t *testing.T) {
	require := require.New(t)

	e, rules, _ := testEngine(t)
	search := metrics.ChannelGoogleSearch

	// Search CPC hovers near its configured 1500, so 500 fires and
	// 100000 stays quiet.
	_, err := rules.CreateRule(Rule{
		CampaignID: 1, Name: "CPC watch", MetricName: "cpc",
		Condition: ConditionAbove, Threshold: 500, ChannelType: &search, Status: RuleActive,
	})
	require.NoError(err)
	_, err = rules.CreateRule(Rule{
		CampaignID: 1, Name: "CPC ceiling", MetricName: "cpc",
		Condition: ConditionAbove, Threshold: 100000, ChannelType: &search, Status: RuleActive,
	})
	require.NoError(err)
	_, err = rules.CreateRule(Rule{
		CampaignID: 1, Name: "paused rule", MetricName: "cpc",
		Condition: ConditionAbove, Threshold: 1, ChannelType: &search, Status: RulePaused,
	})
	require.NoError(err)

	fired, err := e.EvaluateRules(context.Background(), 1)
	require.NoError(err)
	require.Len(fired, 1)
	require.Equal("CPC watch", fired[0].Message[:9])
	require.Contains(fired[0].Message, "Rp ")
	require.Contains(fired[0].Message, "above threshold Rp 500")
	require.Greater(fired[0].Value, 500.0)
	require.False(fired[0].IsAcknowledged)
}

func TestEvaluateCampaignWide(t *testing.T) {
	require := require.New(t)

	e, rules, _ := testEngine(t)

	// No channel set: evaluates across all channels combined.
	_, err := rules.CreateRule(Rule{
		CampaignID: 1, Name: "delivery floor", MetricName: "clicks",
		Condition: ConditionBelow, Threshold: 1, Status: RuleActive,
	})
	require.NoError(err)

	fired, err := e.EvaluateRules(context.Background(), 1)
	require.NoError(err)
	require.Empty(fired) // combined daily clicks are well above 1
}

func TestEvaluateDeterministic(t *testing.T) {
	require := require.New(t)

	e, rules, _ := testEngine(t)
	search := metrics.ChannelGoogleSearch
	_, err := rules.CreateRule(Rule{
		CampaignID: 1, Name: "CPC watch", MetricName: "cpc",
		Condition: ConditionAbove, Threshold: 500, ChannelType: &search, Status: RuleActive,
	})
	require.NoError(err)

	a, err := e.EvaluateRules(context.Background(), 1)
	require.NoError(err)
	b, err := e.EvaluateRules(context.Background(), 1)
	require.NoError(err)
	require.Equal(a[0].Value, b[0].Value)
	require.Equal(a[0].Message, b[0].Message)
}

func TestAcknowledgeIdempotent(t *testing.T) {
	require := require.New(t)

	e, _, events := testEngine(t)
	ev, err := events.AppendEvent(Event{
		RuleID: 1, CampaignID: 1, MetricName: "cpc", Condition: ConditionAbove,
		Value: 2500, Threshold: 2000, Message: "CPC watch: cpc Rp 2,500 above threshold Rp 2,000",
	})
	require.NoError(err)

	acked, err := e.Acknowledge(ev.ID, 7)
	require.NoError(err)
	require.True(acked.IsAcknowledged)
	require.Equal(int64(7), *acked.AcknowledgedBy)
	require.NotNil(acked.AcknowledgedAt)

	// Re-acknowledging by someone else changes nothing.
	again, err := e.Acknowledge(ev.ID, 99)
	require.NoError(err)
	require.Equal(acked, again)
	require.Equal(int64(7), *again.AcknowledgedBy)

	_, err = e.Acknowledge(12345, 7)
	require.ErrorIs(err, ErrEventNotFound)
}

func TestAcknowledgeAll(t *testing.T) {
	require := require.New(t)

	e, _, events := testEngine(t)
	for i := 0; i < 3; i++ {
		_, err := events.AppendEvent(Event{RuleID: 1, CampaignID: 1, MetricName: "cpc", Condition: ConditionAbove, Value: 2500, Threshold: 2000})
		require.NoError(err)
	}
	first, err := e.Acknowledge(1, 5)
	require.NoError(err)
	require.True(first.IsAcknowledged)

	count, err := e.AcknowledgeAll(1, 5)
	require.NoError(err)
	require.Equal(2, count)

	count, err = e.AcknowledgeAll(1, 5)
	require.NoError(err)
	require.Zero(count)
}

func TestStatsCriticalHeuristic(t *testing.T) {
	require := require.New(t)

	e, _, events := testEngine(t)

	// 25% over threshold: critical.
	_, err := events.AppendEvent(Event{CampaignID: 1, MetricName: "cpc", Condition: ConditionAbove, Value: 2500, Threshold: 2000})
	require.NoError(err)
	// 10% over threshold: not critical.
	_, err = events.AppendEvent(Event{CampaignID: 1, MetricName: "cpc", Condition: ConditionAbove, Value: 2200, Threshold: 2000})
	require.NoError(err)
	// Below-rule 30% under threshold: critical.
	_, err = events.AppendEvent(Event{CampaignID: 1, MetricName: "ctr", Condition: ConditionBelow, Value: 0.014, Threshold: 0.02})
	require.NoError(err)
	// Acknowledged events never count as critical.
	ev, err := events.AppendEvent(Event{CampaignID: 1, MetricName: "cpc", Condition: ConditionAbove, Value: 9999, Threshold: 2000})
	require.NoError(err)
	_, err = e.Acknowledge(ev.ID, 1)
	require.NoError(err)

	s, err := e.Stats(1)
	require.NoError(err)
	require.Equal(Stats{Total: 4, Unacknowledged: 3, Critical: 2}, s)
}

func TestFormatValue(t *testing.T) {
	require := require.New(t)

	require.Equal("Rp 2,500", FormatValue("cpc", 2500))
	require.Equal("Rp 45,000,000", FormatValue("cost", 45000000))
	require.Equal("Rp 1,000", FormatValue("cpc", 999.6))
	require.Equal("5.1%", FormatValue("ctr", 0.051))
	require.Equal("2.0%", FormatValue("conversion_rate", 0.02))
	require.Equal("1,234,567", FormatValue("clicks", 1234567))
	require.Equal("987", FormatValue("conversions", 987))
	require.Equal("-12,345", FormatValue("clicks", -12345))
}

func TestSeedDefaultRules(t *testing.T) {
	require := require.New(t)

	store := NewMemoryRuleStore()
	seeded, err := SeedDefaultRules(store, 1)
	require.NoError(err)
	require.Len(seeded, 5)

	listed, err := store.ListRules(1)
	require.NoError(err)
	require.Equal(seeded, listed)

	require.Equal("clicks", listed[0].MetricName)
	require.Equal(ConditionBelow, listed[0].Condition)
	require.InDelta(1500, listed[0].Threshold, 0)
	require.Equal(metrics.ChannelGoogleSearch, *listed[0].ChannelType)

	// CTR watch is campaign-wide.
	require.Equal("ctr", listed[3].MetricName)
	require.Nil(listed[3].ChannelType)

	for _, r := range listed {
		require.Equal(RuleActive, r.Status)
		require.True(r.Notification.Dashboard)
	}
}

// slowSearch reports whether two metric fetches ever overlapped.
type slowSearch struct {
	res        *metrics.Result
	active     int32
	concurrent atomic.Bool
}

func (s *slowSearch) GetMetrics(context.Context, metrics.Query) (*metrics.Result, error) {
	if atomic.AddInt32(&s.active, 1) > 1 {
		s.concurrent.Store(true)
	}
	time.Sleep(2 * time.Millisecond)
	atomic.AddInt32(&s.active, -1)
	return s.res, nil
}

func (s *slowSearch) GetKeywords(context.Context, int64) ([]metrics.SEMKeyword, error) {
	return nil, nil
}

func (s *slowSearch) GetKeywordMetrics(context.Context, int64, time.Time, time.Time) ([]metrics.SEMKeywordMetric, error) {
	return nil, nil
}

func (s *slowSearch) GetAdGroups(context.Context, int64) ([]datasource.AdGroup, error) {
	return nil, nil
}

func (s *slowSearch) GetSearchTerms(context.Context, int64, time.Time, time.Time) ([]datasource.SearchTerm, error) {
	return nil, nil
}

func (s *slowSearch) GetBidSuggestions(context.Context, int64) ([]datasource.BidSuggestion, error) {
	return nil, nil
}

var _ datasource.SearchAdsProvider = (*slowSearch)(nil)

func TestEvaluationSerializedPerCampaign(t *testing.T) {
	require := require.New(t)

	search := &slowSearch{res: &metrics.Result{
		Data: []metrics.DailyMetric{
			{MetricDate: time.Date(2026, time.February, 19, 0, 0, 0, 0, time.UTC), Clicks: 1000, Cost: 1800000},
			{MetricDate: time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC), Clicks: 1000, Cost: 2600000},
		},
	}}
	reg := datasource.NewRegistryWithProviders(search, nil, nil, nil)
	rules := NewMemoryRuleStore()
	e := NewEngine(rules, NewMemoryEventStore(), reg, log.NoLog)

	ct := metrics.ChannelGoogleSearch
	_, err := rules.CreateRule(Rule{
		CampaignID: 1, Name: "cpc spike", MetricName: "cpc", Condition: ConditionAbove,
		Threshold: 2000, ChannelType: &ct, Status: RuleActive,
	})
	require.NoError(err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.EvaluateRules(context.Background(), 1)
			require.NoError(err)
		}()
	}
	wg.Wait()
	require.False(search.concurrent.Load(), "evaluations for one campaign overlapped")
}
