package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/goal-edge/internal/database"
	"github.com/yourusername/goal-edge/internal/models"
)

// PostgresVerificationRepository implements VerificationRepository for PostgreSQL
type PostgresVerificationRepository struct {
	db *database.DB
}

// NewPostgresVerificationRepository creates a new verification repository
func NewPostgresVerificationRepository(db *database.DB) VerificationRepository {
	return &PostgresVerificationRepository{db: db}
}

// Upsert writes a verification keyed on prediction_id. Re-settling the same
// prediction overwrites the row, keeping settlement idempotent.
func (v *PostgresVerificationRepository) Upsert(ctx context.Context, verification *models.Verification) error {
	query := `
		INSERT INTO verifications (prediction_id, fixture_id, market, prediction, is_correct,
		                           goals_home, goals_away, total_goals, status, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (prediction_id) DO UPDATE SET
			fixture_id = EXCLUDED.fixture_id, market = EXCLUDED.market, prediction = EXCLUDED.prediction,
			is_correct = EXCLUDED.is_correct, goals_home = EXCLUDED.goals_home,
			goals_away = EXCLUDED.goals_away, total_goals = EXCLUDED.total_goals,
			status = EXCLUDED.status, verified_at = EXCLUDED.verified_at
	`

	_, err := v.db.GetPool().Exec(ctx, query,
		verification.PredictionID, verification.FixtureID, verification.Market, verification.Pick,
		verification.IsCorrect, verification.GoalsHome, verification.GoalsAway, verification.TotalGoals,
		verification.Status, verification.VerifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert verification: %w", err)
	}

	return nil
}

// GetByPredictionID retrieves a verification by its prediction ID
func (v *PostgresVerificationRepository) GetByPredictionID(ctx context.Context, predictionID uuid.UUID) (*models.Verification, error) {
	query := `
		SELECT prediction_id, fixture_id, market, prediction, is_correct,
		       goals_home, goals_away, total_goals, status, verified_at
		FROM verifications WHERE prediction_id = $1
	`

	verification := &models.Verification{}
	err := v.db.GetPool().QueryRow(ctx, query, predictionID).Scan(
		&verification.PredictionID, &verification.FixtureID, &verification.Market, &verification.Pick,
		&verification.IsCorrect, &verification.GoalsHome, &verification.GoalsAway,
		&verification.TotalGoals, &verification.Status, &verification.VerifiedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verification: %w", err)
	}

	return verification, nil
}

// ListChronological retrieves all verifications in verified_at order, the
// deterministic input to bankroll replay
func (v *PostgresVerificationRepository) ListChronological(ctx context.Context) ([]*models.Verification, error) {
	query := `
		SELECT prediction_id, fixture_id, market, prediction, is_correct,
		       goals_home, goals_away, total_goals, status, verified_at
		FROM verifications
		ORDER BY verified_at ASC, prediction_id ASC
	`

	rows, err := v.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query verifications: %w", err)
	}
	defer rows.Close()

	var verifications []*models.Verification
	for rows.Next() {
		verification := &models.Verification{}
		err := rows.Scan(
			&verification.PredictionID, &verification.FixtureID, &verification.Market, &verification.Pick,
			&verification.IsCorrect, &verification.GoalsHome, &verification.GoalsAway,
			&verification.TotalGoals, &verification.Status, &verification.VerifiedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan verification: %w", err)
		}
		verifications = append(verifications, verification)
	}

	return verifications, rows.Err()
}
