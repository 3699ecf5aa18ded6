// Package settlement reconciles finished fixtures against their latest
// predictions, recording one verification per prediction.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/models"
	"github.com/yourusername/goal-edge/internal/repository"
)

// Reconciler settles predictions against final results. Verification writes
// are idempotent upserts keyed on prediction ID, so sweeps may overlap or
// repeat without duplicating records.
type Reconciler struct {
	predictions   repository.PredictionRepository
	verifications repository.VerificationRepository
	logger        *logrus.Logger
	now           func() time.Time
}

// NewReconciler creates a settlement reconciler
func NewReconciler(predictions repository.PredictionRepository, verifications repository.VerificationRepository, logger *logrus.Logger) *Reconciler {
	return &Reconciler{
		predictions:   predictions,
		verifications: verifications,
		logger:        logger,
		now:           time.Now,
	}
}

// ReconcileFixture settles the latest prediction for a finished fixture's
// over/under market. Non-final results return models.ErrResultNotFinal;
// fixtures with no prediction return models.ErrNotFound.
func (r *Reconciler) ReconcileFixture(ctx context.Context, result *models.MatchResult) (*models.Verification, error) {
	if !result.Status.IsFinal() {
		return nil, models.ErrResultNotFinal
	}

	prediction, err := r.predictions.GetLatestForFixture(ctx, result.FixtureID, models.MarketOverUnder25)
	if err != nil {
		return nil, err
	}

	return r.Reconcile(ctx, prediction, result)
}

// Reconcile settles one prediction against a final result
func (r *Reconciler) Reconcile(ctx context.Context, prediction *models.ValuePrediction, result *models.MatchResult) (*models.Verification, error) {
	if !result.Status.IsFinal() {
		return nil, models.ErrResultNotFinal
	}
	if prediction.FixtureID != result.FixtureID {
		return nil, fmt.Errorf("prediction fixture %d does not match result fixture %d", prediction.FixtureID, result.FixtureID)
	}

	actual := result.ActualSide(prediction.Market)
	verification := &models.Verification{
		PredictionID: prediction.ID,
		FixtureID:    prediction.FixtureID,
		Market:       prediction.Market,
		Pick:         prediction.Pick,
		IsCorrect:    prediction.Pick == actual,
		GoalsHome:    result.GoalsHome,
		GoalsAway:    result.GoalsAway,
		TotalGoals:   result.TotalGoals(),
		Status:       result.Status,
		VerifiedAt:   r.now().UTC(),
	}

	// An earlier verification keeps its timestamp so ledger replay order is
	// stable across repeated sweeps.
	if existing, err := r.verifications.GetByPredictionID(ctx, prediction.ID); err == nil {
		verification.VerifiedAt = existing.VerifiedAt
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up existing verification: %w", err)
	}

	if err := r.verifications.Upsert(ctx, verification); err != nil {
		return nil, fmt.Errorf("failed to record verification: %w", err)
	}

	// Patching the prediction row is a convenience for reporting. The
	// verification is the settlement record; a patch failure is logged and
	// swallowed.
	if err := r.predictions.PatchResult(ctx, prediction.ID, string(actual), verification.IsCorrect, result.GoalsHome, result.GoalsAway); err != nil {
		r.logger.WithFields(logrus.Fields{
			"prediction_id": prediction.ID,
			"fixture_id":    prediction.FixtureID,
			"error":         err.Error(),
		}).Warn("Failed to patch prediction with result")
	}

	r.logger.WithFields(logrus.Fields{
		"prediction_id": prediction.ID,
		"fixture_id":    prediction.FixtureID,
		"prediction":    prediction.Pick,
		"actual":        actual,
		"total_goals":   verification.TotalGoals,
		"is_correct":    verification.IsCorrect,
	}).Info("Prediction settled")

	return verification, nil
}
