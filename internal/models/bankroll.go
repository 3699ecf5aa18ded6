package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BetResult is the recorded outcome of a staked prediction
type BetResult string

const (
	BetResultWin  BetResult = "win"
	BetResultLose BetResult = "lose"
)

// BankrollLogEntry is one row of the append-only compounding bankroll
// history. Entries form a total order: BankrollAfter of row n is the
// StartingBankroll of row n+1. The replayer is the sole writer.
type BankrollLogEntry struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	PredictionID     uuid.UUID       `db:"prediction_id" json:"prediction_id" validate:"required"`
	Date             time.Time       `db:"date" json:"date"`
	StakeAmount      decimal.Decimal `db:"stake_amount" json:"stake_amount"`
	Odds             float64         `db:"odds" json:"odds" validate:"gt=1"`
	Result           BetResult       `db:"result" json:"result" validate:"required,oneof=win lose"`
	Profit           decimal.Decimal `db:"profit" json:"profit"`
	StartingBankroll decimal.Decimal `db:"starting_bankroll" json:"starting_bankroll"`
	BankrollAfter    decimal.Decimal `db:"bankroll_after" json:"bankroll_after"`
}

// ROI returns profit as a fraction of the stake, 0 for a zero stake
func (e *BankrollLogEntry) ROI() float64 {
	if e.StakeAmount.IsZero() {
		return 0
	}
	roi, _ := e.Profit.Div(e.StakeAmount).Float64()
	return roi
}
