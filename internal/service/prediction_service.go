// Package service orchestrates the prediction, settlement and reporting
// workflows over the datasource, scoring, staking and repository layers.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/datasource"
	"github.com/yourusername/goal-edge/internal/logger"
	"github.com/yourusername/goal-edge/internal/metrics"
	"github.com/yourusername/goal-edge/internal/models"
	"github.com/yourusername/goal-edge/internal/oracle"
	"github.com/yourusername/goal-edge/internal/repository"
	"github.com/yourusername/goal-edge/internal/scoring"
	"github.com/yourusername/goal-edge/internal/staking"
)

// PredictionService runs the daily prediction batch: fixtures in the
// window are scored, sized and persisted when they clear the insert gates.
// One fixture failing never aborts the batch.
type PredictionService struct {
	fixtures    datasource.FixtureSource
	signals     datasource.SignalSource
	odds        datasource.OddsProvider
	advisor     oracle.Advisor
	scorer      *scoring.Scorer
	sizer       *staking.Sizer
	matches     repository.MatchRepository
	predictions repository.PredictionRepository
	audit       *logger.AuditLogger
	pipeline    config.PipelineConfig
	h2hWindow   int
	edgeCap     float64
	metrics     *PipelineMetrics
	logger      *logrus.Logger
}

// NewPredictionService creates a prediction batch service. The advisor is
// optional; when nil the local scorer's output stands unchallenged.
func NewPredictionService(
	fixtures datasource.FixtureSource,
	signals datasource.SignalSource,
	odds datasource.OddsProvider,
	advisor oracle.Advisor,
	scorer *scoring.Scorer,
	sizer *staking.Sizer,
	repos *repository.Repositories,
	audit *logger.AuditLogger,
	cfg *config.Config,
	log *logrus.Logger,
) *PredictionService {
	return &PredictionService{
		fixtures:    fixtures,
		signals:     signals,
		odds:        odds,
		advisor:     advisor,
		scorer:      scorer,
		sizer:       sizer,
		matches:     repos.Match,
		predictions: repos.Prediction,
		audit:       audit,
		pipeline:    cfg.Pipeline,
		h2hWindow:   cfg.Scoring.H2HWindow,
		edgeCap:     cfg.Scoring.EdgeCap,
		metrics:     NewPipelineMetrics(),
		logger:      log,
	}
}

// RunBatch scores every fixture kicking off inside the configured window
// and persists the value predictions
func (s *PredictionService) RunBatch(ctx context.Context) (*PipelineMetrics, error) {
	s.metrics.Reset()
	startTime := time.Now()

	from := time.Now().UTC()
	to := from.Add(time.Duration(s.pipeline.WindowHours) * time.Hour)

	s.logger.WithFields(logrus.Fields{
		"from": from.Format(time.RFC3339),
		"to":   to.Format(time.RFC3339),
	}).Info("Starting prediction batch")

	fixtures, err := s.fixtures.FetchFixtures(ctx, from, to)
	if err != nil {
		s.metrics.RecordError()
		return s.metrics, fmt.Errorf("failed to fetch fixtures: %w", err)
	}
	s.metrics.TotalFixtures = len(fixtures)

	for i := range fixtures {
		if err := s.processFixture(ctx, fixtures[i]); err != nil {
			s.metrics.RecordError()
			s.logger.WithFields(logrus.Fields{
				"fixture_id": fixtures[i].FixtureID,
				"error":      err.Error(),
			}).Error("Failed to process fixture")
		}
	}

	s.metrics.Duration = time.Since(startTime)
	metrics.RecordPipelineDuration(s.metrics.Duration.Seconds())

	s.logger.WithFields(logrus.Fields{
		"fixtures": s.metrics.TotalFixtures,
		"scored":   s.metrics.Scored,
		"stored":   s.metrics.Stored,
		"errors":   s.metrics.Errors,
		"duration": s.metrics.Duration.String(),
	}).Info("Prediction batch complete")

	return s.metrics, nil
}

// processFixture scores one fixture and persists the prediction when it
// clears the value and odds-band gates
func (s *PredictionService) processFixture(ctx context.Context, fixture models.Fixture) error {
	if err := s.matches.Upsert(ctx, &fixture); err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}

	quote, err := s.odds.FetchOdds(ctx, fixture)
	if err != nil {
		if errors.Is(err, models.ErrOddsUnavailable) {
			s.metrics.SkippedNoOdds++
			metrics.RecordPredictionSkipped("no_odds")
			return nil
		}
		return fmt.Errorf("failed to fetch odds: %w", err)
	}

	bundle := s.collectSignals(ctx, fixture)

	prediction, err := s.scorer.Score(fixture, *quote, bundle)
	if err != nil {
		if errors.Is(err, models.ErrOddsUnavailable) || errors.Is(err, models.ErrNoActionableMarket) {
			s.metrics.SkippedNoOdds++
			metrics.RecordPredictionSkipped("no_actionable_market")
			return nil
		}
		return fmt.Errorf("failed to score fixture: %w", err)
	}
	s.metrics.RecordScored()
	metrics.RecordPredictionScored()

	s.applyAdvice(ctx, fixture, *quote, bundle, prediction)

	if s.pipeline.InvertPicks {
		if !invertPrediction(prediction, *quote, s.edgeCap) {
			s.logger.WithField("fixture_id", fixture.FixtureID).
				Debug("No counterpart price, pick not inverted")
		}
	}

	fraction, _ := s.sizer.Fraction(prediction)

	if !s.shouldStore(prediction) {
		return nil
	}

	stored := &models.ValuePrediction{
		FixtureID:     prediction.FixtureID,
		Market:        prediction.Market,
		Pick:          prediction.Pick,
		Odds:          prediction.Odds,
		ConfidencePct: prediction.ConfidencePct(),
		Edge:          prediction.Edge,
		IsValue:       prediction.IsValue,
		StakeFraction: fraction,
		SignalTotal:   prediction.Signals.WeightedTotal,
		OddsSource:    prediction.OddsSource,
		Rationale:     prediction.Rationale,
	}

	if err := s.predictions.Create(ctx, stored); err != nil {
		return fmt.Errorf("failed to store prediction: %w", err)
	}

	s.metrics.RecordStored()
	metrics.RecordPredictionStored()
	s.audit.LogPredictionStored(stored)

	return nil
}

// collectSignals gathers the contextual inputs for scoring. Signal
// failures degrade to the "missing" treatment instead of failing the
// fixture, so a single flaky endpoint never empties the batch.
func (s *PredictionService) collectSignals(ctx context.Context, fixture models.Fixture) models.SignalBundle {
	var bundle models.SignalBundle

	if stats, err := s.signals.FetchTeamStats(ctx, fixture.HomeTeam.ID, fixture.LeagueID, fixture.Season); err == nil && stats != nil {
		bundle.Home = *stats
	} else if err != nil {
		s.logSignalMiss(fixture.FixtureID, "home_stats", err)
	}

	if stats, err := s.signals.FetchTeamStats(ctx, fixture.AwayTeam.ID, fixture.LeagueID, fixture.Season); err == nil && stats != nil {
		bundle.Away = *stats
	} else if err != nil {
		s.logSignalMiss(fixture.FixtureID, "away_stats", err)
	}

	if report, err := s.signals.FetchInjuries(ctx, fixture.HomeTeam.ID, fixture.Season); err == nil && report != nil {
		bundle.HomeInjuries = *report
	} else if err != nil {
		s.logSignalMiss(fixture.FixtureID, "home_injuries", err)
	}

	if report, err := s.signals.FetchInjuries(ctx, fixture.AwayTeam.ID, fixture.Season); err == nil && report != nil {
		bundle.AwayInjuries = *report
	} else if err != nil {
		s.logSignalMiss(fixture.FixtureID, "away_injuries", err)
	}

	if h2h, err := s.signals.FetchHeadToHead(ctx, fixture.HomeTeam.ID, fixture.AwayTeam.ID, s.h2hWindow); err == nil {
		bundle.HeadToHead = h2h
	} else {
		s.logSignalMiss(fixture.FixtureID, "h2h", err)
	}

	return bundle
}

func (s *PredictionService) logSignalMiss(fixtureID int, signal string, err error) {
	s.logger.WithFields(logrus.Fields{
		"fixture_id": fixtureID,
		"signal":     signal,
		"error":      err.Error(),
	}).Warn("Signal unavailable, scoring without it")
}

// applyAdvice consults the oracle when one is configured. Matching advice
// refines confidence and rationale; disagreeing advice flips the pick to
// the counterpart price. Oracle failure leaves the scorer's output as is.
func (s *PredictionService) applyAdvice(ctx context.Context, fixture models.Fixture, quote models.OddsQuote, bundle models.SignalBundle, prediction *models.ScoredPrediction) {
	if s.advisor == nil {
		return
	}

	advice, err := s.advisor.Advise(ctx, oracle.AdviceRequest{
		Fixture: fixture,
		Quote:   quote,
		Signals: bundle,
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"fixture_id": fixture.FixtureID,
			"error":      err.Error(),
		}).Warn("Oracle advice unavailable")
		return
	}

	if advice.Pick != prediction.Pick {
		if !invertPrediction(prediction, quote, s.edgeCap) {
			s.logger.WithFields(logrus.Fields{
				"fixture_id":  fixture.FixtureID,
				"oracle_pick": advice.Pick,
				"local_pick":  prediction.Pick,
			}).Warn("Oracle disagrees but counterpart price is missing, keeping local pick")
			return
		}
	}

	prediction.Confidence = advice.ConfidencePct / 100.0
	if advice.Rationale != "" {
		prediction.Rationale = advice.Rationale
	}
}

// shouldStore applies the insert gates: only value predictions inside the
// bettable odds band are persisted
func (s *PredictionService) shouldStore(prediction *models.ScoredPrediction) bool {
	if !prediction.IsValue {
		s.metrics.SkippedNotValue++
		metrics.RecordPredictionSkipped("not_value")
		return false
	}
	if prediction.Odds < s.pipeline.InsertOddsMin || prediction.Odds > s.pipeline.InsertOddsMax {
		s.metrics.SkippedGates++
		metrics.RecordPredictionSkipped("insert_gates")
		return false
	}
	return true
}

// GetMetrics returns the current batch metrics
func (s *PredictionService) GetMetrics() *PipelineMetrics {
	return s.metrics
}
