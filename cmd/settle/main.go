// Package main provides the entry point for the settlement sweep.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/database"
	"github.com/yourusername/goal-edge/internal/datasource"
	"github.com/yourusername/goal-edge/internal/ledger"
	"github.com/yourusername/goal-edge/internal/logger"
	"github.com/yourusername/goal-edge/internal/repository"
	"github.com/yourusername/goal-edge/internal/service"
	"github.com/yourusername/goal-edge/internal/settlement"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		summary    = flag.Bool("summary", false, "Print the bankroll history summary after the sweep")
	)
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
	appLog.WithField("environment", cfg.App.Environment).Info("Goal Edge settlement sweep starting")

	ctx := context.Background()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

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

	svc := service.NewSettlementService(
		football,
		repos,
		settlement.NewReconciler(repos.Prediction, repos.Verification, appLog),
		ledger.NewReplayer(repos.Verification, repos.Prediction, repos.Bankroll, cfg.Ledger, appLog),
		logger.NewAuditLogger(appLog),
		appLog,
	)

	result, err := svc.Sweep(ctx)
	if err != nil {
		appLog.WithError(err).Fatal("Settlement sweep failed")
	}

	appLog.WithFields(logrus.Fields{
		"unsettled":      result.Unsettled,
		"settled":        result.Settled,
		"awaiting_final": result.AwaitingFinal,
		"errors":         result.Errors,
	}).Info("Settlement sweep finished")

	if *summary {
		history, err := ledger.NewHistory(repos.Bankroll).Summarize(ctx)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to summarize bankroll history")
		}
		appLog.WithFields(logrus.Fields{
			"entries":      history.Entries,
			"wins":         history.Wins,
			"losses":       history.Losses,
			"hit_rate":     history.HitRate,
			"roi":          history.ROI(),
			"max_drawdown": history.MaxDrawdown,
			"bankroll":     history.FinalBankroll.StringFixed(2),
		}).Info("Bankroll history")
	}
}
