// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command pulsed serves the marketing dashboard API: campaign
// overviews, channel data, the auto-optimization engine, alerting, a
// Prometheus endpoint, and a websocket event feed.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/marketpulse/pulse/pkg/alert"
	"github.com/marketpulse/pulse/pkg/campaign"
	"github.com/marketpulse/pulse/pkg/config"
	"github.com/marketpulse/pulse/pkg/dashboard"
	"github.com/marketpulse/pulse/pkg/datasource"
	"github.com/marketpulse/pulse/pkg/log"
	"github.com/marketpulse/pulse/pkg/optimize"
	"github.com/marketpulse/pulse/pkg/storage"
	"github.com/marketpulse/pulse/pkg/stream"
	"github.com/marketpulse/pulse/pkg/telemetry"
)

var configPath = flag.String("config", "", "Path to YAML config (optional)")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		stderr := log.New()
		stderr.Fatal("failed to load config", "error", err)
	}
	if err := cfg.Validate(); err != nil {
		stderr := log.New()
		stderr.Fatal("invalid config", "error", err)
	}

	logger := log.NewWithLevel(cfg.Logging.Level)
	defer logger.Sync()

	stores, closeStores, err := buildStores(cfg)
	if err != nil {
		logger.Fatal("failed to open storage", "error", err)
	}
	defer closeStores()

	catalog := campaign.DemoCatalog()
	registry, err := datasource.NewRegistry(datasource.Mode(cfg.Data.Mode), catalog, datasource.LiveProviders{}, logger)
	if err != nil {
		logger.Fatal("failed to build provider registry", "error", err)
	}

	tel := telemetry.NewDefault()
	hub := stream.NewHub(logger)
	defer hub.Close()

	optimizeEngine := optimize.NewEngine(stores.rules, stores.logs, stores.suggestions, registry.SearchAds(), logger)
	optimizeEngine.SetActionListener(func(l optimize.ActionLog) {
		tel.ActionsExecuted.WithLabelValues(string(l.ActionType), string(l.Status)).Inc()
		hub.Broadcast("action_log", l.CampaignID, l)
	})

	alertEngine := alert.NewEngine(stores.alertRules, stores.alertEvents, registry, logger)
	alertEngine.SetEventListener(func(e alert.Event) {
		tel.AlertsTriggered.WithLabelValues(e.MetricName).Inc()
		hub.Broadcast("alert_event", e.CampaignID, e)
	})

	seedRules(catalog, stores.rules, stores.alertRules, logger)

	srv := &server{
		catalog:    catalog,
		registry:   registry,
		dashboard:  dashboard.NewService(catalog, registry, logger),
		optimize:   optimizeEngine,
		alerts:     alertEngine,
		optRules:   stores.rules,
		alertRules: stores.alertRules,
		hub:        hub,
		telemetry:  tel,
		log:        logger,
	}

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.router(cfg.Server.CORSOrigins),
	}

	go func() {
		logger.Info("pulsed listening", "addr", cfg.Server.Addr, "mode", cfg.Data.Mode, "storage", cfg.Storage.Backend)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}

// storeSet bundles the five store interfaces behind one backend choice.
type storeSet struct {
	rules       optimize.RuleStore
	logs        optimize.ActionLogStore
	suggestions optimize.SuggestionStore
	alertRules  alert.RuleStore
	alertEvents alert.EventStore
}

func buildStores(cfg *config.Config) (*storeSet, func(), error) {
	if cfg.Storage.Backend == "sqlite" {
		db, err := storage.New(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return &storeSet{
			rules:       db.OptimizeRules(),
			logs:        db.ActionLogs(),
			suggestions: db.Suggestions(),
			alertRules:  db.AlertRules(),
			alertEvents: db.AlertEvents(),
		}, func() { db.Close() }, nil
	}
	return &storeSet{
		rules:       optimize.NewMemoryRuleStore(),
		logs:        optimize.NewMemoryActionLogStore(),
		suggestions: optimize.NewMemorySuggestionStore(),
		alertRules:  alert.NewMemoryRuleStore(),
		alertEvents: alert.NewMemoryEventStore(),
	}, func() {}, nil
}

// seedRules installs the stock optimize and alert rule sets for
// campaigns that have none.
func seedRules(catalog *campaign.Catalog, rules optimize.RuleStore, alertRules alert.RuleStore, logger log.Logger) {
	for _, def := range catalog.List() {
		existing, err := rules.ListRules(def.ID)
		if err != nil {
			logger.Warn("rule listing failed during seeding", "campaignID", def.ID, "error", err)
		} else if len(existing) == 0 {
			if _, err := optimize.SeedDefaultRules(rules, def.ID); err != nil {
				logger.Warn("default rule seeding failed", "campaignID", def.ID, "error", err)
			}
		}

		existingAlerts, err := alertRules.ListRules(def.ID)
		if err != nil {
			logger.Warn("alert rule listing failed during seeding", "campaignID", def.ID, "error", err)
		} else if len(existingAlerts) == 0 {
			if _, err := alert.SeedDefaultRules(alertRules, def.ID); err != nil {
				logger.Warn("default alert seeding failed", "campaignID", def.ID, "error", err)
			}
		}
	}
}
