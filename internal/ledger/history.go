package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/goal-edge/internal/models"
	"github.com/yourusername/goal-edge/internal/repository"
)

// HistoryPoint is one point of the bankroll equity curve
type HistoryPoint struct {
	Date     time.Time       `json:"date"`
	Bankroll decimal.Decimal `json:"bankroll"`
	Drawdown float64         `json:"drawdown"`
}

// HistorySummary aggregates the ledger into performance figures
type HistorySummary struct {
	Entries       int             `json:"entries"`
	Wins          int             `json:"wins"`
	Losses        int             `json:"losses"`
	HitRate       float64         `json:"hit_rate"`
	TotalStaked   decimal.Decimal `json:"total_staked"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	StartBankroll decimal.Decimal `json:"start_bankroll"`
	FinalBankroll decimal.Decimal `json:"final_bankroll"`
	Growth        float64         `json:"growth"`
	MaxDrawdown   float64         `json:"max_drawdown"`
	Curve         []HistoryPoint  `json:"curve"`
}

// ROI returns total profit over total staked
func (s *HistorySummary) ROI() float64 {
	if s.TotalStaked.IsZero() {
		return 0
	}
	roi, _ := s.TotalProfit.Div(s.TotalStaked).Float64()
	return roi
}

// History holds read-side reporting over the bankroll log
type History struct {
	bankroll repository.BankrollRepository
}

// NewHistory creates a ledger history reader
func NewHistory(bankroll repository.BankrollRepository) *History {
	return &History{bankroll: bankroll}
}

// Summarize loads the full ledger and computes the equity curve, hit rate,
// growth and maximum drawdown.
func (h *History) Summarize(ctx context.Context) (*HistorySummary, error) {
	entries, err := h.bankroll.ListChronological(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bankroll log: %w", err)
	}
	return Summarize(entries), nil
}

// Summarize computes performance figures from ledger entries already in
// replay order.
func Summarize(entries []*models.BankrollLogEntry) *HistorySummary {
	summary := &HistorySummary{
		TotalStaked: decimal.Zero,
		TotalProfit: decimal.Zero,
	}
	if len(entries) == 0 {
		return summary
	}

	summary.Entries = len(entries)
	summary.StartBankroll = entries[0].StartingBankroll
	summary.FinalBankroll = entries[len(entries)-1].BankrollAfter
	summary.Curve = make([]HistoryPoint, 0, len(entries))

	peak := entries[0].StartingBankroll
	for _, entry := range entries {
		if entry.Result == models.BetResultWin {
			summary.Wins++
		} else {
			summary.Losses++
		}
		summary.TotalStaked = summary.TotalStaked.Add(entry.StakeAmount)
		summary.TotalProfit = summary.TotalProfit.Add(entry.Profit)

		if entry.BankrollAfter.GreaterThan(peak) {
			peak = entry.BankrollAfter
		}
		drawdown := 0.0
		if peak.IsPositive() {
			dd, _ := peak.Sub(entry.BankrollAfter).Div(peak).Float64()
			drawdown = dd
		}
		if drawdown > summary.MaxDrawdown {
			summary.MaxDrawdown = drawdown
		}

		summary.Curve = append(summary.Curve, HistoryPoint{
			Date:     entry.Date,
			Bankroll: entry.BankrollAfter,
			Drawdown: drawdown,
		})
	}

	summary.HitRate = float64(summary.Wins) / float64(summary.Entries)
	if summary.StartBankroll.IsPositive() {
		growth, _ := summary.FinalBankroll.Sub(summary.StartBankroll).Div(summary.StartBankroll).Float64()
		summary.Growth = growth
	}

	return summary
}
