// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/marketpulse/pulse/pkg/alert"
	"github.com/marketpulse/pulse/pkg/campaign"
	"github.com/marketpulse/pulse/pkg/dashboard"
	"github.com/marketpulse/pulse/pkg/datasource"
	"github.com/marketpulse/pulse/pkg/log"
	"github.com/marketpulse/pulse/pkg/metrics"
	"github.com/marketpulse/pulse/pkg/optimize"
	"github.com/marketpulse/pulse/pkg/stream"
	"github.com/marketpulse/pulse/pkg/telemetry"
)

func newTestServer(t *testing.T) (*server, http.Handler) {
	t.Helper()
	logger := log.NoOp()
	catalog := campaign.DemoCatalog()
	now := func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	registry := datasource.NewMockRegistryAt(catalog, now)

	rules := optimize.NewMemoryRuleStore()
	logs := optimize.NewMemoryActionLogStore()
	suggestions := optimize.NewMemorySuggestionStore()
	alertRules := alert.NewMemoryRuleStore()
	alertEvents := alert.NewMemoryEventStore()

	hub := stream.NewHub(logger)
	t.Cleanup(hub.Close)

	srv := &server{
		catalog:    catalog,
		registry:   registry,
		dashboard:  dashboard.NewService(catalog, registry, logger),
		optimize:   optimize.NewEngine(rules, logs, suggestions, registry.SearchAds(), logger),
		alerts:     alert.NewEngine(alertRules, alertEvents, registry, logger),
		optRules:   rules,
		alertRules: alertRules,
		hub:        hub,
		telemetry:  telemetry.New(prometheus.NewRegistry()),
		log:        logger,
	}
	return srv, srv.router([]string{"*"})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	require := require.New(t)
	_, h := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/health", "")
	require.Equal(http.StatusOK, w.Code)
	require.Contains(w.Body.String(), "healthy")
}

func TestListCampaigns(t *testing.T) {
	require := require.New(t)
	_, h := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/api/v1/campaigns", "")
	require.Equal(http.StatusOK, w.Code)

	var out []dashboard.Summary
	require.NoError(json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(out, 2)
}

func TestCampaignOverview(t *testing.T) {
	require := require.New(t)
	_, h := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/api/v1/campaigns/1/overview", "")
	require.Equal(http.StatusOK, w.Code)

	var out dashboard.Overview
	require.NoError(json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(int64(1), out.Campaign.ID)
	require.NotEmpty(out.KPIs)
}

func TestCampaignOverviewUnknown(t *testing.T) {
	require := require.New(t)
	_, h := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/api/v1/campaigns/99/overview", "")
	require.Equal(http.StatusNotFound, w.Code)
}

func TestCampaignIDValidation(t *testing.T) {
	require := require.New(t)
	_, h := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/api/v1/campaigns/abc/sem/keywords", "")
	require.Equal(http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/campaigns/99/sem/keywords", "")
	require.Equal(http.StatusNotFound, w.Code)
}

func TestSEMEndpoints(t *testing.T) {
	require := require.New(t)
	_, h := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/api/v1/campaigns/1/sem/keywords", "")
	require.Equal(http.StatusOK, w.Code)

	var kws []metrics.SEMKeyword
	require.NoError(json.Unmarshal(w.Body.Bytes(), &kws))
	require.Len(kws, 15)

	w = doJSON(t, h, http.MethodGet, "/api/v1/campaigns/1/sem/metrics?start=2026-02-14&end=2026-02-20", "")
	require.Equal(http.StatusOK, w.Code)

	var res metrics.Result
	require.NoError(json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(res.Data, 7)
	require.Equal(metrics.SourceMock, res.Meta.Source)

	w = doJSON(t, h, http.MethodGet, "/api/v1/campaigns/1/sem/metrics?start=bogus", "")
	require.Equal(http.StatusBadRequest, w.Code)
}

func TestSocialBreakdownEndpoint(t *testing.T) {
	require := require.New(t)
	_, h := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/api/v1/campaigns/1/social/breakdown", "")
	require.Equal(http.StatusOK, w.Code)

	var out datasource.PlatformBreakdown
	require.NoError(json.Unmarshal(w.Body.Bytes(), &out))
	require.NotZero(out.TikTok.Clicks)
}

func TestOptimizeRuleLifecycle(t *testing.T) {
	require := require.New(t)
	_, h := newTestServer(t)

	body := `{"name":"High CPC","metric":"cpc","condition":"above","threshold":2000,"actionType":"adjust_bid","actionParams":{"adjustPercent":-10},"status":"active","lookbackDays":7}`
	w := doJSON(t, h, http.MethodPost, "/api/v1/campaigns/1/optimize/rules", body)
	require.Equal(http.StatusCreated, w.Code)

	var created optimize.Rule
	require.NoError(json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(created.ID)
	require.Equal(int64(1), created.CampaignID)

	w = doJSON(t, h, http.MethodGet, "/api/v1/campaigns/1/optimize/rules", "")
	require.Equal(http.StatusOK, w.Code)

	var listed []optimize.Rule
	require.NoError(json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(listed, 1)

	w = doJSON(t, h, http.MethodDelete, "/api/v1/optimize/rules/1", "")
	require.Equal(http.StatusNoContent, w.Code)

	w = doJSON(t, h, http.MethodDelete, "/api/v1/optimize/rules/1", "")
	require.Equal(http.StatusNotFound, w.Code)
}

func TestCreateRuleRejectsBadConfig(t *testing.T) {
	require := require.New(t)
	_, h := newTestServer(t)

	// Unknown metric.
	body := `{"name":"bad","metric":"roas","condition":"above","threshold":1,"actionType":"adjust_bid","status":"active","lookbackDays":7}`
	w := doJSON(t, h, http.MethodPost, "/api/v1/campaigns/1/optimize/rules", body)
	require.Equal(http.StatusBadRequest, w.Code)

	// Lookback must be at least one day.
	body = `{"name":"bad","metric":"cpc","condition":"above","threshold":1,"actionType":"adjust_bid","status":"active","lookbackDays":0}`
	w = doJSON(t, h, http.MethodPost, "/api/v1/campaigns/1/optimize/rules", body)
	require.Equal(http.StatusBadRequest, w.Code)

	body = `{"name":"bad","metricName":"ctr","condition":"near","threshold":0.02,"status":"active"}`
	w = doJSON(t, h, http.MethodPost, "/api/v1/campaigns/1/alerts/rules", body)
	require.Equal(http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/campaigns/1/optimize/rules", "")
	require.Equal(http.StatusOK, w.Code)
	var listed []optimize.Rule
	require.NoError(json.Unmarshal(w.Body.Bytes(), &listed))
	require.Empty(listed)
}

func TestExecuteActionEndpoint(t *testing.T) {
	require := require.New(t)
	_, h := newTestServer(t)

	body := `{"actionType":"adjust_budget","target":"campaign","params":{"adjustPercent":20}}`
	w := doJSON(t, h, http.MethodPost, "/api/v1/campaigns/1/optimize/execute", body)
	require.Equal(http.StatusOK, w.Code)

	var lg optimize.ActionLog
	require.NoError(json.Unmarshal(w.Body.Bytes(), &lg))
	require.Equal(optimize.LogExecuted, lg.Status)
	require.Equal(optimize.ByManual, lg.ExecutedBy)
}

func TestAlertLifecycle(t *testing.T) {
	require := require.New(t)
	_, h := newTestServer(t)

	body := `{"name":"CTR floor","metricName":"ctr","condition":"below","threshold":0.9,"status":"active"}`
	w := doJSON(t, h, http.MethodPost, "/api/v1/campaigns/1/alerts/rules", body)
	require.Equal(http.StatusCreated, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/v1/campaigns/1/alerts/evaluate", "")
	require.Equal(http.StatusOK, w.Code)

	var evalOut struct {
		Fired  int           `json:"fired"`
		Events []alert.Event `json:"events"`
	}
	require.NoError(json.Unmarshal(w.Body.Bytes(), &evalOut))
	require.Equal(1, evalOut.Fired)

	w = doJSON(t, h, http.MethodPost, "/api/v1/campaigns/1/alerts/acknowledge-all", `{"userId":7}`)
	require.Equal(http.StatusOK, w.Code)
	require.Contains(w.Body.String(), `"acknowledged":1`)

	w = doJSON(t, h, http.MethodGet, "/api/v1/campaigns/1/alerts/stats", "")
	require.Equal(http.StatusOK, w.Code)

	var stats alert.Stats
	require.NoError(json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(1, stats.Total)
	require.Zero(stats.Unacknowledged)
}

func TestSeedRulesInstallsDefaults(t *testing.T) {
	require := require.New(t)

	catalog := campaign.DemoCatalog()
	rules := optimize.NewMemoryRuleStore()
	alertRules := alert.NewMemoryRuleStore()

	seedRules(catalog, rules, alertRules, log.NoOp())

	for _, def := range catalog.List() {
		or, err := rules.ListRules(def.ID)
		require.NoError(err)
		require.Len(or, 4)

		ar, err := alertRules.ListRules(def.ID)
		require.NoError(err)
		require.Len(ar, 5)
	}

	// Seeding again must not duplicate.
	seedRules(catalog, rules, alertRules, log.NoOp())
	or, err := rules.ListRules(1)
	require.NoError(err)
	require.Len(or, 4)
	ar, err := alertRules.ListRules(1)
	require.NoError(err)
	require.Len(ar, 5)
}

func TestMetricsEndpoint(t *testing.T) {
	require := require.New(t)
	_, h := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/metrics", "")
	require.Equal(http.StatusOK, w.Code)
}
