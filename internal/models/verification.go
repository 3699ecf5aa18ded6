package models

import (
	"time"

	"github.com/google/uuid"
)

// Verification records whether a prediction turned out correct. Exactly one
// row exists per prediction; writes are idempotent upserts keyed on
// PredictionID.
type Verification struct {
	PredictionID uuid.UUID   `db:"prediction_id" json:"prediction_id" validate:"required"`
	FixtureID    int         `db:"fixture_id" json:"fixture_id"`
	Market       Market      `db:"market" json:"market"`
	Pick         Side        `db:"pick" json:"pick"`
	IsCorrect    bool        `db:"is_correct" json:"is_correct"`
	GoalsHome    int         `db:"goals_home" json:"goals_home"`
	GoalsAway    int         `db:"goals_away" json:"goals_away"`
	TotalGoals   int         `db:"total_goals" json:"total_goals"`
	Status       MatchStatus `db:"status" json:"status"`
	VerifiedAt   time.Time   `db:"verified_at" json:"verified_at" validate:"required"`
}
