package models

import (
	"time"

	"github.com/google/uuid"
)

// ScoredPrediction is the scorer's output for one fixture+market. It is
// immutable once produced; downstream components only attach a stake.
type ScoredPrediction struct {
	FixtureID  int    `json:"fixture_id"`
	Market     Market `json:"market"`
	Pick       Side   `json:"prediction"`
	Odds       float64 `json:"odds"`
	// ProbOver is the blended probability of the Over side; PickProbability
	// is the same estimate expressed for the chosen side.
	ProbOver        float64         `json:"prob_over"`
	PickProbability float64         `json:"pick_probability"`
	Confidence      float64         `json:"confidence" validate:"gte=0,lte=1"`
	Edge            float64         `json:"edge"`
	IsValue         bool            `json:"po_value"`
	Signals         SignalBreakdown `json:"signals"`
	Weights         WeightBreakdown `json:"weights"`
	Priors          PriorBreakdown  `json:"priors"`
	OddsSource      OddsSource      `json:"odds_source,omitempty"`
	Rationale       string          `json:"rationale,omitempty"`
}

// ConfidencePct returns confidence on a 0-100 scale
func (p *ScoredPrediction) ConfidencePct() float64 {
	return p.Confidence * 100.0
}

// ValuePrediction is a persisted, stake-sized prediction: the unit of
// record a bettor acts on. Identity for settlement is (fixture_id, market);
// historical duplicates are tolerated, latest CreatedAt wins.
type ValuePrediction struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	FixtureID     int        `db:"fixture_id" json:"fixture_id" validate:"required,gt=0"`
	Market        Market     `db:"market" json:"market" validate:"required"`
	Pick          Side       `db:"prediction" json:"prediction" validate:"required,oneof=Over Under"`
	Odds          float64    `db:"odds" json:"odds" validate:"required,gt=1"`
	ConfidencePct float64    `db:"confidence_pct" json:"confidence_pct" validate:"gte=0,lte=100"`
	Edge          float64    `db:"edge" json:"edge"`
	IsValue       bool       `db:"po_value" json:"po_value"`
	StakeFraction float64    `db:"stake_pct" json:"stake_pct" validate:"gte=0"`
	SignalTotal   float64    `db:"signal_total" json:"signal_total"`
	OddsSource    OddsSource `db:"odds_source" json:"odds_source"`
	Rationale     string     `db:"rationale" json:"rationale"`
	Result        *string    `db:"result" json:"result"`
	IsCorrect     *bool      `db:"is_correct" json:"is_correct"`
	GoalsHome     *int       `db:"goals_home" json:"goals_home"`
	GoalsAway     *int       `db:"goals_away" json:"goals_away"`
	TotalGoals    *int       `db:"total_goals" json:"total_goals"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// Confidence returns confidence on a 0-1 scale
func (p *ValuePrediction) Confidence() float64 {
	return p.ConfidencePct / 100.0
}

// IsSettled reports whether an outcome has been recorded on the prediction
func (p *ValuePrediction) IsSettled() bool {
	return p.IsCorrect != nil
}
