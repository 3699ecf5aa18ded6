package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/goal-edge/internal/database"
	"github.com/yourusername/goal-edge/internal/models"
)

// PostgresBankrollRepository implements BankrollRepository for PostgreSQL
type PostgresBankrollRepository struct {
	db *database.DB
}

// NewPostgresBankrollRepository creates a new bankroll repository
func NewPostgresBankrollRepository(db *database.DB) BankrollRepository {
	return &PostgresBankrollRepository{db: db}
}

// Append adds one entry to the bankroll log. The unique prediction_id
// constraint surfaces duplicates as models.ErrDuplicateKey.
func (b *PostgresBankrollRepository) Append(ctx context.Context, entry *models.BankrollLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := `
		INSERT INTO bankroll_log (id, prediction_id, date, stake_amount, odds, result,
		                          profit, starting_bankroll, bankroll_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (prediction_id) DO NOTHING
	`

	commandTag, err := b.db.GetPool().Exec(ctx, query,
		entry.ID, entry.PredictionID, entry.Date, entry.StakeAmount, entry.Odds, entry.Result,
		entry.Profit, entry.StartingBankroll, entry.BankrollAfter,
	)
	if err != nil {
		return fmt.Errorf("failed to append bankroll entry: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrDuplicateKey
	}

	return nil
}

// GetLatest retrieves the most recent bankroll entry
func (b *PostgresBankrollRepository) GetLatest(ctx context.Context) (*models.BankrollLogEntry, error) {
	query := `
		SELECT id, prediction_id, date, stake_amount, odds, result,
		       profit, starting_bankroll, bankroll_after
		FROM bankroll_log
		ORDER BY date DESC, id DESC
		LIMIT 1
	`

	entry := &models.BankrollLogEntry{}
	err := b.db.GetPool().QueryRow(ctx, query).Scan(
		&entry.ID, &entry.PredictionID, &entry.Date, &entry.StakeAmount, &entry.Odds, &entry.Result,
		&entry.Profit, &entry.StartingBankroll, &entry.BankrollAfter,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest bankroll entry: %w", err)
	}

	return entry, nil
}

// HasPrediction reports whether a prediction already has a ledger entry
func (b *PostgresBankrollRepository) HasPrediction(ctx context.Context, predictionID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bankroll_log WHERE prediction_id = $1)`

	var exists bool
	if err := b.db.GetPool().QueryRow(ctx, query, predictionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check bankroll membership: %w", err)
	}

	return exists, nil
}

// ListChronological retrieves the full ledger in replay order
func (b *PostgresBankrollRepository) ListChronological(ctx context.Context) ([]*models.BankrollLogEntry, error) {
	query := `
		SELECT id, prediction_id, date, stake_amount, odds, result,
		       profit, starting_bankroll, bankroll_after
		FROM bankroll_log
		ORDER BY date ASC, id ASC
	`

	rows, err := b.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query bankroll log: %w", err)
	}
	defer rows.Close()

	var entries []*models.BankrollLogEntry
	for rows.Next() {
		entry := &models.BankrollLogEntry{}
		err := rows.Scan(
			&entry.ID, &entry.PredictionID, &entry.Date, &entry.StakeAmount, &entry.Odds, &entry.Result,
			&entry.Profit, &entry.StartingBankroll, &entry.BankrollAfter,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bankroll entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
