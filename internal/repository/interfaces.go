// Package repository provides data access for fixtures, predictions,
// results, verifications and the bankroll log.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/goal-edge/internal/models"
)

// MatchRepository defines fixture storage operations
type MatchRepository interface {
	Upsert(ctx context.Context, fixture *models.Fixture) error
	GetByID(ctx context.Context, fixtureID int) (*models.Fixture, error)
	GetInWindow(ctx context.Context, from, to time.Time) ([]*models.Fixture, error)
}

// PredictionRepository defines value prediction storage operations
type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.ValuePrediction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ValuePrediction, error)
	// GetLatestForFixture returns the most recently created prediction for a
	// fixture+market. Older duplicates are historical record, never settled.
	GetLatestForFixture(ctx context.Context, fixtureID int, market models.Market) (*models.ValuePrediction, error)
	GetUnsettled(ctx context.Context, kickedOffBefore time.Time) ([]*models.ValuePrediction, error)
	GetTopUnsettledByEdge(ctx context.Context, limit int) ([]*models.ValuePrediction, error)
	// PatchResult records the outcome on the prediction row itself. Failures
	// here must never block settlement; the verification row is the record.
	PatchResult(ctx context.Context, id uuid.UUID, result string, isCorrect bool, goalsHome, goalsAway int) error
}

// ResultRepository defines final score storage operations
type ResultRepository interface {
	Upsert(ctx context.Context, result *models.MatchResult) error
	GetByFixtureID(ctx context.Context, fixtureID int) (*models.MatchResult, error)
}

// VerificationRepository defines settlement record operations
type VerificationRepository interface {
	// Upsert writes the verification keyed on prediction_id; replays
	// overwrite in place rather than duplicate.
	Upsert(ctx context.Context, verification *models.Verification) error
	GetByPredictionID(ctx context.Context, predictionID uuid.UUID) (*models.Verification, error)
	// ListChronological returns all verifications ordered by verified_at
	// ascending, the replay order of the bankroll ledger.
	ListChronological(ctx context.Context) ([]*models.Verification, error)
}

// BankrollRepository defines bankroll ledger operations
type BankrollRepository interface {
	Append(ctx context.Context, entry *models.BankrollLogEntry) error
	GetLatest(ctx context.Context) (*models.BankrollLogEntry, error)
	HasPrediction(ctx context.Context, predictionID uuid.UUID) (bool, error)
	ListChronological(ctx context.Context) ([]*models.BankrollLogEntry, error)
}
