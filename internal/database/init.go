package database

import (
	"context"
	"fmt"

	"github.com/yourusername/goal-edge/internal/config"
)

// schema holds the idempotent bootstrap DDL. Verification and bankroll rows
// carry a unique prediction_id so settlement and ledger replay can upsert
// and de-duplicate without read-modify-write races.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		fixture_id   BIGINT PRIMARY KEY,
		date         TIMESTAMPTZ NOT NULL,
		league       TEXT NOT NULL DEFAULT '',
		country      TEXT NOT NULL DEFAULT '',
		venue        TEXT NOT NULL DEFAULT '',
		home_team_id BIGINT NOT NULL,
		home_team    TEXT NOT NULL,
		away_team_id BIGINT NOT NULL,
		away_team    TEXT NOT NULL,
		season       INT NOT NULL DEFAULT 0,
		league_id    BIGINT NOT NULL DEFAULT 0,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS value_predictions (
		id             UUID PRIMARY KEY,
		fixture_id     BIGINT NOT NULL,
		market         TEXT NOT NULL,
		prediction     TEXT NOT NULL,
		odds           DOUBLE PRECISION NOT NULL,
		confidence_pct DOUBLE PRECISION NOT NULL,
		edge           DOUBLE PRECISION NOT NULL,
		po_value       BOOLEAN NOT NULL DEFAULT FALSE,
		stake_pct      DOUBLE PRECISION NOT NULL DEFAULT 0,
		signal_total   DOUBLE PRECISION NOT NULL DEFAULT 0,
		odds_source    TEXT NOT NULL DEFAULT '',
		rationale      TEXT NOT NULL DEFAULT '',
		result         TEXT,
		is_correct     BOOLEAN,
		goals_home     INT,
		goals_away     INT,
		total_goals    INT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_value_predictions_fixture
		ON value_predictions (fixture_id, market, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS results (
		fixture_id  BIGINT PRIMARY KEY,
		status      TEXT NOT NULL,
		goals_home  INT NOT NULL,
		goals_away  INT NOT NULL,
		result_1x2  TEXT NOT NULL DEFAULT '',
		result_btts TEXT NOT NULL DEFAULT '',
		result_ou   TEXT NOT NULL DEFAULT '',
		fetched_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS verifications (
		prediction_id UUID PRIMARY KEY,
		fixture_id    BIGINT NOT NULL,
		market        TEXT NOT NULL,
		prediction    TEXT NOT NULL,
		is_correct    BOOLEAN NOT NULL,
		goals_home    INT NOT NULL,
		goals_away    INT NOT NULL,
		total_goals   INT NOT NULL,
		status        TEXT NOT NULL,
		verified_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_verifications_verified_at
		ON verifications (verified_at ASC)`,
	`CREATE TABLE IF NOT EXISTS bankroll_log (
		id                UUID PRIMARY KEY,
		prediction_id     UUID NOT NULL UNIQUE,
		date              TIMESTAMPTZ NOT NULL,
		stake_amount      NUMERIC(14,2) NOT NULL,
		odds              DOUBLE PRECISION NOT NULL,
		result            TEXT NOT NULL,
		profit            NUMERIC(14,2) NOT NULL,
		starting_bankroll NUMERIC(14,2) NOT NULL,
		bankroll_after    NUMERIC(14,2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bankroll_log_date
		ON bankroll_log (date ASC)`,
}

// Initialize creates a database connection pool and applies the bootstrap
// schema. Every statement is idempotent, so re-running at startup is safe.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema applies the bootstrap DDL
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
