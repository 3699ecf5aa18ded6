package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/goal-edge/internal/database"
	"github.com/yourusername/goal-edge/internal/models"
)

const predictionColumns = `id, fixture_id, market, prediction, odds, confidence_pct, edge, po_value,
	       stake_pct, signal_total, odds_source, rationale, result, is_correct,
	       goals_home, goals_away, total_goals, created_at`

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Create inserts a new value prediction
func (p *PostgresPredictionRepository) Create(ctx context.Context, prediction *models.ValuePrediction) error {
	if prediction.ID == uuid.Nil {
		prediction.ID = uuid.New()
	}
	if prediction.CreatedAt.IsZero() {
		prediction.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO value_predictions (id, fixture_id, market, prediction, odds, confidence_pct,
		                               edge, po_value, stake_pct, signal_total, odds_source, rationale, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := p.db.GetPool().Exec(ctx, query,
		prediction.ID, prediction.FixtureID, prediction.Market, prediction.Pick, prediction.Odds,
		prediction.ConfidencePct, prediction.Edge, prediction.IsValue, prediction.StakeFraction,
		prediction.SignalTotal, prediction.OddsSource, prediction.Rationale, prediction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}

	return nil
}

// GetByID retrieves a prediction by ID
func (p *PostgresPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ValuePrediction, error) {
	query := fmt.Sprintf(`SELECT %s FROM value_predictions WHERE id = $1`, predictionColumns)

	prediction, err := scanPrediction(p.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return prediction, nil
}

// GetLatestForFixture retrieves the most recently created prediction for a
// fixture+market pair
func (p *PostgresPredictionRepository) GetLatestForFixture(ctx context.Context, fixtureID int, market models.Market) (*models.ValuePrediction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM value_predictions
		WHERE fixture_id = $1 AND market = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, predictionColumns)

	prediction, err := scanPrediction(p.db.GetPool().QueryRow(ctx, query, fixtureID, market))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest prediction: %w", err)
	}

	return prediction, nil
}

// GetUnsettled retrieves predictions without a recorded outcome whose
// fixture kicked off before the cutoff
func (p *PostgresPredictionRepository) GetUnsettled(ctx context.Context, kickedOffBefore time.Time) ([]*models.ValuePrediction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM value_predictions vp
		WHERE vp.is_correct IS NULL
		  AND EXISTS (
			SELECT 1 FROM matches m
			WHERE m.fixture_id = vp.fixture_id AND m.date < $1
		  )
		ORDER BY vp.created_at ASC
	`, prefixedPredictionColumns("vp"))

	rows, err := p.db.GetPool().Query(ctx, query, kickedOffBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to query unsettled predictions: %w", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// GetTopUnsettledByEdge retrieves the strongest open value picks ranked by
// edge then confidence
func (p *PostgresPredictionRepository) GetTopUnsettledByEdge(ctx context.Context, limit int) ([]*models.ValuePrediction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM value_predictions
		WHERE is_correct IS NULL AND po_value = TRUE
		ORDER BY edge DESC, confidence_pct DESC
		LIMIT $1
	`, predictionColumns)

	rows, err := p.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top predictions: %w", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// PatchResult records the outcome fields on the prediction row
func (p *PostgresPredictionRepository) PatchResult(ctx context.Context, id uuid.UUID, result string, isCorrect bool, goalsHome, goalsAway int) error {
	query := `
		UPDATE value_predictions SET
			result = $2, is_correct = $3, goals_home = $4, goals_away = $5, total_goals = $6
		WHERE id = $1
	`

	commandTag, err := p.db.GetPool().Exec(ctx, query, id, result, isCorrect, goalsHome, goalsAway, goalsHome+goalsAway)
	if err != nil {
		return fmt.Errorf("failed to patch prediction result: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func prefixedPredictionColumns(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.fixture_id, %[1]s.market, %[1]s.prediction, %[1]s.odds,
	       %[1]s.confidence_pct, %[1]s.edge, %[1]s.po_value, %[1]s.stake_pct, %[1]s.signal_total,
	       %[1]s.odds_source, %[1]s.rationale, %[1]s.result, %[1]s.is_correct,
	       %[1]s.goals_home, %[1]s.goals_away, %[1]s.total_goals, %[1]s.created_at`, alias)
}

func scanPrediction(row pgx.Row) (*models.ValuePrediction, error) {
	prediction := &models.ValuePrediction{}
	err := row.Scan(
		&prediction.ID, &prediction.FixtureID, &prediction.Market, &prediction.Pick, &prediction.Odds,
		&prediction.ConfidencePct, &prediction.Edge, &prediction.IsValue, &prediction.StakeFraction,
		&prediction.SignalTotal, &prediction.OddsSource, &prediction.Rationale, &prediction.Result,
		&prediction.IsCorrect, &prediction.GoalsHome, &prediction.GoalsAway, &prediction.TotalGoals,
		&prediction.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return prediction, nil
}

func collectPredictions(rows pgx.Rows) ([]*models.ValuePrediction, error) {
	var predictions []*models.ValuePrediction
	for rows.Next() {
		prediction, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, prediction)
	}
	return predictions, rows.Err()
}
