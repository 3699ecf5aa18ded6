// Package ledger maintains the append-only compounding bankroll log by
// replaying settled predictions in verification order.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/models"
	"github.com/yourusername/goal-edge/internal/repository"
)

// Replayer folds verifications into the bankroll log. Replay is
// deterministic: the same verification history always produces the same
// ledger, and already-logged predictions are skipped, so running it twice
// appends nothing new.
type Replayer struct {
	verifications repository.VerificationRepository
	predictions   repository.PredictionRepository
	bankroll      repository.BankrollRepository
	cfg           config.LedgerConfig
	logger        *logrus.Logger
}

// NewReplayer creates a bankroll replayer
func NewReplayer(
	verifications repository.VerificationRepository,
	predictions repository.PredictionRepository,
	bankroll repository.BankrollRepository,
	cfg config.LedgerConfig,
	logger *logrus.Logger,
) *Replayer {
	return &Replayer{
		verifications: verifications,
		predictions:   predictions,
		bankroll:      bankroll,
		cfg:           cfg,
		logger:        logger,
	}
}

// ReplaySummary reports what one replay pass did
type ReplaySummary struct {
	Processed     int             `json:"processed"`
	Appended      int             `json:"appended"`
	SkippedDupe   int             `json:"skipped_duplicate"`
	SkippedGates  int             `json:"skipped_gates"`
	FinalBankroll decimal.Decimal `json:"final_bankroll"`
}

// Replay walks all verifications in verified_at order and appends a ledger
// entry for each qualifying settled prediction not yet logged. Any append
// failure halts the replay immediately: a gap in the middle would corrupt
// the compounding chain.
func (r *Replayer) Replay(ctx context.Context) (*ReplaySummary, error) {
	bankroll, err := r.currentBankroll(ctx)
	if err != nil {
		return nil, err
	}

	verifications, err := r.verifications.ListChronological(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load verifications: %w", err)
	}

	summary := &ReplaySummary{}
	for _, verification := range verifications {
		summary.Processed++

		logged, err := r.bankroll.HasPrediction(ctx, verification.PredictionID)
		if err != nil {
			return nil, fmt.Errorf("failed to check ledger membership: %w", err)
		}
		if logged {
			summary.SkippedDupe++
			continue
		}

		prediction, err := r.predictions.GetByID(ctx, verification.PredictionID)
		if errors.Is(err, models.ErrNotFound) {
			r.logger.WithField("prediction_id", verification.PredictionID).
				Warn("Verification references missing prediction, skipping")
			summary.SkippedGates++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load prediction: %w", err)
		}

		if !r.qualifies(prediction) {
			summary.SkippedGates++
			continue
		}

		entry := r.buildEntry(prediction, verification, bankroll)

		if err := r.bankroll.Append(ctx, entry); err != nil {
			// A duplicate here means a concurrent replay appended since our
			// membership check. Carrying on would compound from a balance
			// that no longer matches the log, so halt and let the next run
			// reseed from the real chain tip.
			return summary, fmt.Errorf("failed to append ledger entry for prediction %s: %w", verification.PredictionID, err)
		}

		bankroll = entry.BankrollAfter
		summary.Appended++

		r.logger.WithFields(logrus.Fields{
			"prediction_id":  entry.PredictionID,
			"result":         entry.Result,
			"stake":          entry.StakeAmount.String(),
			"profit":         entry.Profit.String(),
			"bankroll_after": entry.BankrollAfter.String(),
		}).Info("Bankroll entry appended")
	}

	summary.FinalBankroll = bankroll
	return summary, nil
}

// currentBankroll resumes from the last logged balance, seeding a fresh
// ledger with the configured starting bankroll.
func (r *Replayer) currentBankroll(ctx context.Context) (decimal.Decimal, error) {
	latest, err := r.bankroll.GetLatest(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return decimal.NewFromFloat(r.cfg.DefaultBankroll).Round(2), nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load latest bankroll entry: %w", err)
	}
	return latest.BankrollAfter, nil
}

// qualifies applies the ledger gates: a playable price, real conviction and
// a non-zero stake. Predictions outside the gates settle but never touch
// the bankroll.
func (r *Replayer) qualifies(prediction *models.ValuePrediction) bool {
	if prediction.Odds < r.cfg.OddsMin || prediction.Odds > r.cfg.OddsMax {
		return false
	}
	if prediction.ConfidencePct <= r.cfg.MinConfidencePct {
		return false
	}
	return prediction.StakeFraction > 0
}

func (r *Replayer) buildEntry(prediction *models.ValuePrediction, verification *models.Verification, bankroll decimal.Decimal) *models.BankrollLogEntry {
	stake := bankroll.Mul(decimal.NewFromFloat(prediction.StakeFraction)).Round(2)

	result := models.BetResultLose
	profit := stake.Neg()
	if verification.IsCorrect {
		result = models.BetResultWin
		profit = stake.Mul(decimal.NewFromFloat(prediction.Odds - 1.0)).Round(2)
	}

	return &models.BankrollLogEntry{
		PredictionID:     prediction.ID,
		Date:             verification.VerifiedAt,
		StakeAmount:      stake,
		Odds:             prediction.Odds,
		Result:           result,
		Profit:           profit,
		StartingBankroll: bankroll,
		BankrollAfter:    bankroll.Add(profit),
	}
}
