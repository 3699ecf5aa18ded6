// Package main provides the entry point for the one-shot prediction batch.
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
	"github.com/yourusername/goal-edge/internal/logger"
	"github.com/yourusername/goal-edge/internal/oracle"
	"github.com/yourusername/goal-edge/internal/repository"
	"github.com/yourusername/goal-edge/internal/scoring"
	"github.com/yourusername/goal-edge/internal/service"
	"github.com/yourusername/goal-edge/internal/staking"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		invert     = flag.Bool("invert", false, "Invert every pick to the opposite side")
		topPicks   = flag.Bool("top-picks", false, "Print the top picks board after the run")
	)
	flag.Parse()

	// Local development convenience; missing .env is fine
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
	if *invert {
		cfg.Pipeline.InvertPicks = true
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment":  cfg.App.Environment,
		"window_hours": cfg.Pipeline.WindowHours,
		"invert_picks": cfg.Pipeline.InvertPicks,
	}).Info("Goal Edge prediction batch starting")

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

	svc := buildPredictionService(cfg, repos, appLog)

	summary, err := svc.RunBatch(ctx)
	if err != nil {
		appLog.WithError(err).Fatal("Prediction batch failed")
	}
	appLog.WithField("summary", summary.String()).Info("Prediction batch finished")

	if *topPicks {
		reporter := service.NewTopPicksReporter(repos.Prediction, cfg.Pipeline.TopPicksCount, cfg.Pipeline.TopPicksStake)
		if err := reporter.Render(ctx, os.Stdout); err != nil {
			appLog.WithError(err).Error("Failed to render top picks")
		}
	}
}

// buildPredictionService wires the datasource chain, scorer, sizer and
// optional oracle behind the batch service
func buildPredictionService(cfg *config.Config, repos *repository.Repositories, appLog *logrus.Logger) *service.PredictionService {
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
		appLog.WithField("model", cfg.Oracle.Model).Info("Oracle advisor enabled")
	}

	return service.NewPredictionService(
		football,
		signals,
		oddsChain,
		advisor,
		scorer,
		sizer,
		repos,
		logger.NewAuditLogger(appLog),
		cfg,
		appLog,
	)
}
