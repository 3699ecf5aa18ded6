// Package main provides the entry point for the long-running prediction
// service: scheduled daily batches, settlement sweeps, health and metrics.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/database"
	"github.com/yourusername/goal-edge/internal/datasource"
	"github.com/yourusername/goal-edge/internal/health"
	"github.com/yourusername/goal-edge/internal/ledger"
	"github.com/yourusername/goal-edge/internal/logger"
	"github.com/yourusername/goal-edge/internal/metrics"
	"github.com/yourusername/goal-edge/internal/oracle"
	"github.com/yourusername/goal-edge/internal/repository"
	"github.com/yourusername/goal-edge/internal/scheduler"
	"github.com/yourusername/goal-edge/internal/scoring"
	"github.com/yourusername/goal-edge/internal/service"
	"github.com/yourusername/goal-edge/internal/settlement"
	"github.com/yourusername/goal-edge/internal/staking"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Goal Edge service starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()
	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	httpLog := log.New(os.Stdout, "datasource: ", log.LstdFlags)

	httpCfg := datasource.DefaultHTTPClientConfig()
	if cfg.FootballAPI.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.FootballAPI.TimeoutSeconds) * time.Second
	}
	if cfg.FootballAPI.RateLimitPerSecond > 0 {
		httpCfg.RateLimit = cfg.FootballAPI.RateLimitPerSecond
	}
	httpCfg.MaxRetries = cfg.FootballAPI.MaxRetries

	football := datasource.NewFootballAPIClient(
		datasource.NewRateLimitedHTTPClient(httpCfg, httpLog),
		cfg.FootballAPI.BaseURL,
		cfg.FootballAPI.APIKey,
		cfg.FootballAPI.PreferredBookmaker,
		httpLog,
	)

	oddsProviders := []datasource.OddsProvider{}
	if cfg.OddsProvider.BaseURL != "" {
		overtimeCfg := datasource.DefaultHTTPClientConfig()
		if cfg.OddsProvider.TimeoutSeconds > 0 {
			overtimeCfg.Timeout = time.Duration(cfg.OddsProvider.TimeoutSeconds) * time.Second
		}
		oddsProviders = append(oddsProviders, datasource.NewOvertimeClient(
			datasource.NewRateLimitedHTTPClient(overtimeCfg, httpLog),
			cfg.OddsProvider.BaseURL,
			cfg.OddsProvider.APIKey,
			httpLog,
		))
		appLog.Info("Secondary odds provider configured")
	}
	oddsProviders = append(oddsProviders, football)
	oddsChain := datasource.NewOddsChain(appLog, oddsProviders...)

	signalTTL := time.Duration(cfg.FootballAPI.CacheTTLSeconds) * time.Second
	if signalTTL <= 0 {
		signalTTL = 30 * time.Minute
	}
	signals := datasource.NewCachedSignalSource(football, signalTTL)

	scorer := scoring.NewScorer(cfg.Scoring, appLog)
	sizer := staking.NewSizer(cfg.Staking, appLog)

	var advisor oracle.Advisor
	if cfg.Oracle.Enabled {
		chat := oracle.NewChatClient(&cfg.Oracle, appLog)
		ttl := time.Duration(cfg.Oracle.CacheTTLSeconds) * time.Second
		if ttl <= 0 {
			ttl = time.Hour
		}
		advisor = oracle.NewFallbackAdvisor(
			oracle.NewCachedAdvisor(chat, ttl),
			oracle.NewLocalAdvisor(scorer, appLog),
			appLog,
		)
		appLog.WithFields(logrus.Fields{
			"model":    cfg.Oracle.Model,
			"fallback": cfg.Oracle.FallbackModel,
		}).Info("Oracle advisor enabled")
	}

	audit := logger.NewAuditLogger(appLog)

	predictionSvc := service.NewPredictionService(
		football, signals, oddsChain, advisor, scorer, sizer, repos, audit, cfg, appLog,
	)
	settlementSvc := service.NewSettlementService(
		football,
		repos,
		settlement.NewReconciler(repos.Prediction, repos.Verification, appLog),
		ledger.NewReplayer(repos.Verification, repos.Prediction, repos.Bankroll, cfg.Ledger, appLog),
		audit,
		appLog,
	)

	// Health and metrics server
	var metricsHandler = metrics.Handler()
	if !cfg.Metrics.Enabled {
		metricsHandler = nil
	}
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Port:        cfg.Metrics.Port,
		MetricsPath: cfg.Metrics.Path,
		Metrics:     metricsHandler,
		Logger:      appLog,
		DB:          db,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Scheduler
	sched := scheduler.NewScheduler(predictionSvc, settlementSvc, appLog)
	if err := sched.SchedulePredictionRun(cfg.Pipeline.PredictionSchedule); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule prediction batch")
	}
	if err := sched.ScheduleSettlementSweep(cfg.Pipeline.SettlementSchedule); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule settlement sweep")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}
	healthServer.SetReady(true)

	appLog.WithFields(logrus.Fields{
		"prediction_schedule": cfg.Pipeline.PredictionSchedule,
		"settlement_schedule": cfg.Pipeline.SettlementSchedule,
		"next_run":            sched.NextRun().Format(time.RFC3339),
	}).Info("Goal Edge service running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}

	appLog.Info("Goal Edge service shut down")
}
