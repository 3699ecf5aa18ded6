package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/datasource"
	"github.com/yourusername/goal-edge/internal/ledger"
	"github.com/yourusername/goal-edge/internal/logger"
	"github.com/yourusername/goal-edge/internal/metrics"
	"github.com/yourusername/goal-edge/internal/models"
	"github.com/yourusername/goal-edge/internal/repository"
	"github.com/yourusername/goal-edge/internal/settlement"
)

// SweepSummary reports what one settlement sweep did
type SweepSummary struct {
	Unsettled     int                   `json:"unsettled"`
	Settled       int                   `json:"settled"`
	AwaitingFinal int                   `json:"awaiting_final"`
	Errors        int                   `json:"errors"`
	Replay        *ledger.ReplaySummary `json:"replay,omitempty"`
}

// SettlementService sweeps stored predictions whose fixtures have kicked
// off, fetches the final score, settles them and replays the bankroll
// ledger. Safe to run repeatedly; settled predictions are skipped and the
// replay appends nothing on a second pass.
type SettlementService struct {
	results     datasource.FixtureSource
	predictions repository.PredictionRepository
	resultRepo  repository.ResultRepository
	reconciler  *settlement.Reconciler
	replayer    *ledger.Replayer
	audit       *logger.AuditLogger
	logger      *logrus.Logger
}

// NewSettlementService creates a settlement sweep service
func NewSettlementService(
	results datasource.FixtureSource,
	repos *repository.Repositories,
	reconciler *settlement.Reconciler,
	replayer *ledger.Replayer,
	audit *logger.AuditLogger,
	log *logrus.Logger,
) *SettlementService {
	return &SettlementService{
		results:     results,
		predictions: repos.Prediction,
		resultRepo:  repos.Result,
		reconciler:  reconciler,
		replayer:    replayer,
		audit:       audit,
		logger:      log,
	}
}

// Sweep settles every unsettled prediction with a final result, then
// replays the bankroll ledger over the new verifications
func (s *SettlementService) Sweep(ctx context.Context) (*SweepSummary, error) {
	startTime := time.Now()
	summary := &SweepSummary{}

	unsettled, err := s.predictions.GetUnsettled(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to load unsettled predictions: %w", err)
	}
	summary.Unsettled = len(unsettled)
	metrics.UpdateUnsettledPredictions(float64(len(unsettled)))

	for _, fixtureID := range distinctFixtureIDs(unsettled) {
		if err := s.settleFixture(ctx, fixtureID, summary); err != nil {
			summary.Errors++
			s.logger.WithFields(logrus.Fields{
				"fixture_id": fixtureID,
				"error":      err.Error(),
			}).Error("Failed to settle fixture")
		}
	}

	replay, err := s.replayer.Replay(ctx)
	if err != nil {
		return summary, fmt.Errorf("ledger replay failed: %w", err)
	}
	summary.Replay = replay

	for i := 0; i < replay.Appended; i++ {
		metrics.RecordLedgerEntry()
	}
	bankroll, _ := replay.FinalBankroll.Float64()
	metrics.UpdateBankroll(bankroll)
	metrics.RecordSettlementSweepDuration(time.Since(startTime).Seconds())

	s.logger.WithFields(logrus.Fields{
		"unsettled":      summary.Unsettled,
		"settled":        summary.Settled,
		"awaiting_final": summary.AwaitingFinal,
		"errors":         summary.Errors,
		"appended":       replay.Appended,
		"bankroll":       replay.FinalBankroll.StringFixed(2),
	}).Info("Settlement sweep complete")

	return summary, nil
}

// settleFixture fetches the result for one fixture and settles its latest
// prediction when the result is final
func (s *SettlementService) settleFixture(ctx context.Context, fixtureID int, summary *SweepSummary) error {
	result, err := s.results.FetchResult(ctx, fixtureID)
	if err != nil {
		return fmt.Errorf("failed to fetch result: %w", err)
	}

	if !result.Status.IsFinal() {
		summary.AwaitingFinal++
		s.logger.WithFields(logrus.Fields{
			"fixture_id": fixtureID,
			"status":     result.Status,
		}).Debug("Result not final yet")
		return nil
	}

	if err := s.resultRepo.Upsert(ctx, result); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}

	verification, err := s.reconciler.ReconcileFixture(ctx, result)
	if errors.Is(err, models.ErrNotFound) {
		// Result arrived for a fixture whose prediction was already
		// settled by an earlier sweep.
		return nil
	}
	if err != nil {
		return err
	}

	summary.Settled++
	metrics.RecordSettlement()
	s.audit.LogPredictionSettled(verification)

	return nil
}

func distinctFixtureIDs(predictions []*models.ValuePrediction) []int {
	seen := make(map[int]bool, len(predictions))
	ids := make([]int, 0, len(predictions))
	for _, p := range predictions {
		if seen[p.FixtureID] {
			continue
		}
		seen[p.FixtureID] = true
		ids = append(ids, p.FixtureID)
	}
	return ids
}
