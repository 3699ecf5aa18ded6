package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/goal-edge/internal/database"
	"github.com/yourusername/goal-edge/internal/models"
)

// PostgresResultRepository implements ResultRepository for PostgreSQL
type PostgresResultRepository struct {
	db *database.DB
}

// NewPostgresResultRepository creates a new result repository
func NewPostgresResultRepository(db *database.DB) ResultRepository {
	return &PostgresResultRepository{db: db}
}

// Upsert stores a final score, replacing any earlier provisional row
func (r *PostgresResultRepository) Upsert(ctx context.Context, result *models.MatchResult) error {
	if result.FetchedAt.IsZero() {
		result.FetchedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO results (fixture_id, status, goals_home, goals_away,
		                     result_1x2, result_btts, result_ou, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (fixture_id) DO UPDATE SET
			status = EXCLUDED.status, goals_home = EXCLUDED.goals_home, goals_away = EXCLUDED.goals_away,
			result_1x2 = EXCLUDED.result_1x2, result_btts = EXCLUDED.result_btts,
			result_ou = EXCLUDED.result_ou, fetched_at = EXCLUDED.fetched_at
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		result.FixtureID, result.Status, result.GoalsHome, result.GoalsAway,
		result.Result1X2, result.ResultBTTS, result.ResultOU, result.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert result: %w", err)
	}

	return nil
}

// GetByFixtureID retrieves the stored result for a fixture
func (r *PostgresResultRepository) GetByFixtureID(ctx context.Context, fixtureID int) (*models.MatchResult, error) {
	query := `
		SELECT fixture_id, status, goals_home, goals_away, result_1x2, result_btts, result_ou, fetched_at
		FROM results WHERE fixture_id = $1
	`

	result := &models.MatchResult{}
	err := r.db.GetPool().QueryRow(ctx, query, fixtureID).Scan(
		&result.FixtureID, &result.Status, &result.GoalsHome, &result.GoalsAway,
		&result.Result1X2, &result.ResultBTTS, &result.ResultOU, &result.FetchedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	return result, nil
}
