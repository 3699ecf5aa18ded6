// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/models"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPredictionStored logs a persisted value prediction.
func (al *AuditLogger) LogPredictionStored(prediction *models.ValuePrediction) {
	al.WithFields(logrus.Fields{
		"prediction_id":  prediction.ID,
		"fixture_id":     prediction.FixtureID,
		"market":         prediction.Market,
		"prediction":     prediction.Pick,
		"odds":           prediction.Odds,
		"confidence_pct": prediction.ConfidencePct,
		"edge":           prediction.Edge,
		"stake_pct":      prediction.StakeFraction,
		"odds_source":    prediction.OddsSource,
	}).Info("Value prediction stored")
}

// LogPredictionSettled logs a settlement outcome.
func (al *AuditLogger) LogPredictionSettled(verification *models.Verification) {
	al.WithFields(logrus.Fields{
		"prediction_id": verification.PredictionID,
		"fixture_id":    verification.FixtureID,
		"prediction":    verification.Pick,
		"is_correct":    verification.IsCorrect,
		"total_goals":   verification.TotalGoals,
		"status":        verification.Status,
		"verified_at":   verification.VerifiedAt.Unix(),
	}).Info("Prediction settled")
}

// LogBankrollEntry logs an appended bankroll ledger row.
func (al *AuditLogger) LogBankrollEntry(entry *models.BankrollLogEntry) {
	al.WithFields(logrus.Fields{
		"prediction_id":     entry.PredictionID,
		"result":            entry.Result,
		"stake_amount":      entry.StakeAmount.String(),
		"odds":              entry.Odds,
		"profit":            entry.Profit.String(),
		"starting_bankroll": entry.StartingBankroll.String(),
		"bankroll_after":    entry.BankrollAfter.String(),
		"date":              entry.Date.Unix(),
	}).Info("Bankroll entry recorded")
}

// LogOddsSourceFallback logs a switch from the preferred odds provider.
func (al *AuditLogger) LogOddsSourceFallback(fixtureID int, from, to models.OddsSource, reason string, at time.Time) {
	al.WithFields(logrus.Fields{
		"fixture_id": fixtureID,
		"from":       from,
		"to":         to,
		"reason":     reason,
		"timestamp":  at.Unix(),
	}).Warn("Odds source fallback")
}
