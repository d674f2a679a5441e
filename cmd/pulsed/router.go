// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

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

type server struct {
	catalog    *campaign.Catalog
	registry   *datasource.Registry
	dashboard  *dashboard.Service
	optimize   *optimize.Engine
	alerts     *alert.Engine
	optRules   optimize.RuleStore
	alertRules alert.RuleStore
	hub        *stream.Hub
	telemetry  *telemetry.Metrics
	log        log.Logger
}

func (s *server) router(corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(corsOrigins) == 1 && corsOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = corsOrigins
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "time": time.Now().Unix()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", gin.WrapH(s.hub))

	api := r.Group("/api/v1")
	{
		api.GET("/campaigns", s.listCampaigns)
		api.GET("/campaigns/:id/overview", s.campaignOverview)

		api.GET("/campaigns/:id/sem/metrics", s.semMetrics)
		api.GET("/campaigns/:id/sem/keywords", s.semKeywords)
		api.GET("/campaigns/:id/sem/keywords/:keywordId/metrics", s.semKeywordMetrics)
		api.GET("/campaigns/:id/sem/adgroups", s.semAdGroups)
		api.GET("/campaigns/:id/sem/search-terms", s.semSearchTerms)
		api.GET("/campaigns/:id/sem/bid-suggestions", s.semBidSuggestions)

		api.GET("/campaigns/:id/discovery/metrics", s.discoveryMetrics)
		api.GET("/campaigns/:id/discovery/creatives", s.discoveryCreatives)
		api.GET("/campaigns/:id/discovery/audience", s.discoveryAudience)

		api.GET("/campaigns/:id/social/metrics", s.socialMetrics)
		api.GET("/campaigns/:id/social/breakdown", s.socialBreakdown)

		api.GET("/campaigns/:id/seo/rankings", s.seoRankings)
		api.GET("/campaigns/:id/seo/audits", s.seoAudits)
		api.GET("/campaigns/:id/seo/backlinks", s.seoBacklinks)
		api.GET("/campaigns/:id/seo/issues", s.seoIssues)

		api.GET("/campaigns/:id/optimize/rules", s.listOptimizeRules)
		api.POST("/campaigns/:id/optimize/rules", s.createOptimizeRule)
		api.PUT("/optimize/rules/:ruleId", s.updateOptimizeRule)
		api.DELETE("/optimize/rules/:ruleId", s.deleteOptimizeRule)
		api.POST("/campaigns/:id/optimize/evaluate", s.evaluateOptimizeRules)
		api.POST("/campaigns/:id/optimize/execute", s.executeAction)
		api.GET("/campaigns/:id/optimize/logs", s.listActionLogs)
		api.GET("/campaigns/:id/optimize/suggestions", s.listSuggestions)
		api.POST("/campaigns/:id/optimize/insights", s.ingestInsights)
		api.POST("/optimize/suggestions/:suggestionId/apply", s.applySuggestion)

		api.GET("/campaigns/:id/alerts/rules", s.listAlertRules)
		api.POST("/campaigns/:id/alerts/rules", s.createAlertRule)
		api.PUT("/alerts/rules/:ruleId", s.updateAlertRule)
		api.DELETE("/alerts/rules/:ruleId", s.deleteAlertRule)
		api.POST("/campaigns/:id/alerts/evaluate", s.evaluateAlertRules)
		api.GET("/campaigns/:id/alerts/events", s.listAlertEvents)
		api.POST("/alerts/events/:eventId/acknowledge", s.acknowledgeEvent)
		api.POST("/campaigns/:id/alerts/acknowledge-all", s.acknowledgeAll)
		api.GET("/campaigns/:id/alerts/stats", s.alertStats)
	}
	return r
}

// campaignID parses the :id path param and verifies the campaign exists.
func (s *server) campaignID(c *gin.Context) (int64, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return 0, false
	}
	if _, err := s.catalog.Get(id); err != nil {
		s.fail(c, err)
		return 0, false
	}
	return id, true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// dateRange parses optional start/end query params (YYYY-MM-DD).
func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	var start, end time.Time
	if v := c.Query("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
			return start, end, false
		}
		start = t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
			return start, end, false
		}
		end = t
	}
	return start, end, true
}

func (s *server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, campaign.ErrNotFound),
		errors.Is(err, optimize.ErrRuleNotFound),
		errors.Is(err, optimize.ErrLogNotFound),
		errors.Is(err, optimize.ErrSuggestionNotFound),
		errors.Is(err, alert.ErrRuleNotFound),
		errors.Is(err, alert.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *server) listCampaigns(c *gin.Context) {
	c.JSON(http.StatusOK, s.dashboard.Campaigns())
}

func (s *server) campaignOverview(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	ov, err := s.dashboard.CampaignOverview(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}

func (s *server) channelMetrics(c *gin.Context, get func(q metrics.Query) (*metrics.Result, error)) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	res, err := get(metrics.Query{CampaignID: id, StartDate: start, EndDate: end})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.telemetry.SeriesGenerated.Inc()
	c.JSON(http.StatusOK, res)
}

func (s *server) semMetrics(c *gin.Context) {
	s.channelMetrics(c, func(q metrics.Query) (*metrics.Result, error) {
		return s.registry.SearchAds().GetMetrics(c.Request.Context(), q)
	})
}

func (s *server) semKeywords(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	out, err := s.registry.SearchAds().GetKeywords(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) semKeywordMetrics(c *gin.Context) {
	if _, ok := s.campaignID(c); !ok {
		return
	}
	keywordID, ok := pathID(c, "keywordId")
	if !ok {
		return
	}
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	out, err := s.registry.SearchAds().GetKeywordMetrics(c.Request.Context(), keywordID, start, end)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) semAdGroups(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	out, err := s.registry.SearchAds().GetAdGroups(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) semSearchTerms(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	out, err := s.registry.SearchAds().GetSearchTerms(c.Request.Context(), id, start, end)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) semBidSuggestions(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	out, err := s.registry.SearchAds().GetBidSuggestions(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) discoveryMetrics(c *gin.Context) {
	s.channelMetrics(c, func(q metrics.Query) (*metrics.Result, error) {
		return s.registry.DiscoveryAds().GetMetrics(c.Request.Context(), q)
	})
}

func (s *server) discoveryCreatives(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	out, err := s.registry.DiscoveryAds().GetCreativePerformance(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) discoveryAudience(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	out, err := s.registry.DiscoveryAds().GetAudienceBreakdown(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) socialMetrics(c *gin.Context) {
	s.channelMetrics(c, func(q metrics.Query) (*metrics.Result, error) {
		return s.registry.SocialMedia().GetMetrics(c.Request.Context(), q)
	})
}

func (s *server) socialBreakdown(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	out, err := s.registry.SocialMedia().GetPlatformBreakdown(c.Request.Context(), id, start, end)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) seoRankings(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	out, err := s.registry.SEO().GetRankings(c.Request.Context(), id, start, end)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) seoAudits(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	out, err := s.registry.SEO().GetPageAudits(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) seoBacklinks(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	out, err := s.registry.SEO().GetBacklinks(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) seoIssues(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	out, err := s.registry.SEO().GetTechnicalIssues(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) listOptimizeRules(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	rules, err := s.optRules.ListRules(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (s *server) createOptimizeRule(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	var rule optimize.Rule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rule.CampaignID = id
	if rule.Status == "" {
		rule.Status = optimize.RuleDraft
	}
	if err := rule.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rule.CreatedAt = time.Now().UTC()
	created, err := s.optRules.CreateRule(rule)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *server) updateOptimizeRule(c *gin.Context) {
	ruleID, ok := pathID(c, "ruleId")
	if !ok {
		return
	}
	existing, err := s.optRules.GetRule(ruleID)
	if err != nil {
		s.fail(c, err)
		return
	}
	var rule optimize.Rule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rule.ID = existing.ID
	rule.CampaignID = existing.CampaignID
	rule.CreatedAt = existing.CreatedAt
	if err := rule.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.optRules.UpdateRule(rule); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (s *server) deleteOptimizeRule(c *gin.Context) {
	ruleID, ok := pathID(c, "ruleId")
	if !ok {
		return
	}
	if err := s.optRules.DeleteRule(ruleID); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) evaluateOptimizeRules(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	timer := time.Now()
	fired, err := s.optimize.EvaluateRules(c.Request.Context(), id)
	s.telemetry.RulesEvaluated.WithLabelValues("optimize").Inc()
	s.telemetry.EvalDuration.WithLabelValues("optimize").Observe(time.Since(timer).Seconds())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fired": len(fired), "logs": fired})
}

type executeRequest struct {
	ActionType optimize.ActionType   `json:"actionType" binding:"required"`
	Target     string                `json:"target" binding:"required"`
	Params     optimize.ActionParams `json:"params"`
	UserID     *int64                `json:"userId"`
}

func (s *server) executeAction(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lg, err := s.optimize.ExecuteAction(c.Request.Context(), id, req.ActionType, req.Target, req.Params, optimize.ByManual, req.UserID, nil)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lg)
}

func (s *server) listActionLogs(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	logs, err := s.optimize.Logs(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (s *server) listSuggestions(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	out, err := s.optimize.Suggestions(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) ingestInsights(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	var insights []optimize.Insight
	if err := c.ShouldBindJSON(&insights); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := s.optimize.IngestInsights(id, insights)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (s *server) applySuggestion(c *gin.Context) {
	var body struct {
		UserID *int64 `json:"userId"`
	}
	// Body is optional for suggestion application.
	_ = c.ShouldBindJSON(&body)
	lg, err := s.optimize.ApplySuggestion(c.Request.Context(), c.Param("suggestionId"), body.UserID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lg)
}

func (s *server) listAlertRules(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	rules, err := s.alertRules.ListRules(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (s *server) createAlertRule(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	var rule alert.Rule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rule.CampaignID = id
	if rule.Status == "" {
		rule.Status = alert.RuleActive
	}
	if err := rule.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rule.CreatedAt = time.Now().UTC()
	created, err := s.alertRules.CreateRule(rule)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *server) updateAlertRule(c *gin.Context) {
	ruleID, ok := pathID(c, "ruleId")
	if !ok {
		return
	}
	existing, err := s.alertRules.GetRule(ruleID)
	if err != nil {
		s.fail(c, err)
		return
	}
	var rule alert.Rule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rule.ID = existing.ID
	rule.CampaignID = existing.CampaignID
	rule.CreatedAt = existing.CreatedAt
	if err := rule.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.alertRules.UpdateRule(rule); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (s *server) deleteAlertRule(c *gin.Context) {
	ruleID, ok := pathID(c, "ruleId")
	if !ok {
		return
	}
	if err := s.alertRules.DeleteRule(ruleID); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) evaluateAlertRules(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	timer := time.Now()
	fired, err := s.alerts.EvaluateRules(c.Request.Context(), id)
	s.telemetry.RulesEvaluated.WithLabelValues("alert").Inc()
	s.telemetry.EvalDuration.WithLabelValues("alert").Observe(time.Since(timer).Seconds())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fired": len(fired), "events": fired})
}

func (s *server) listAlertEvents(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	events, err := s.alerts.Events(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

type acknowledgeRequest struct {
	UserID int64 `json:"userId" binding:"required"`
}

func (s *server) acknowledgeEvent(c *gin.Context) {
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}
	var req acknowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ev, err := s.alerts.Acknowledge(eventID, req.UserID)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.telemetry.AlertsAcked.Inc()
	c.JSON(http.StatusOK, ev)
}

func (s *server) acknowledgeAll(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	var req acknowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	count, err := s.alerts.AcknowledgeAll(id, req.UserID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": count})
}

func (s *server) alertStats(c *gin.Context) {
	id, ok := s.campaignID(c)
	if !ok {
		return
	}
	stats, err := s.alerts.Stats(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
