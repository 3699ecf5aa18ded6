package service

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/yourusername/goal-edge/internal/models"
	"github.com/yourusername/goal-edge/internal/repository"
)

// TopPicksReporter ranks the stored unsettled predictions by edge and
// renders the top of the board, the day's shortlist for flat staking.
type TopPicksReporter struct {
	predictions repository.PredictionRepository
	count       int
	stake       float64
}

// NewTopPicksReporter creates a top-picks reporter
func NewTopPicksReporter(predictions repository.PredictionRepository, count int, stake float64) *TopPicksReporter {
	if count <= 0 {
		count = 10
	}
	return &TopPicksReporter{
		predictions: predictions,
		count:       count,
		stake:       stake,
	}
}

// TopPicks returns the highest-edge unsettled predictions
func (r *TopPicksReporter) TopPicks(ctx context.Context) ([]*models.ValuePrediction, error) {
	picks, err := r.predictions.GetTopUnsettledByEdge(ctx, r.count)
	if err != nil {
		return nil, fmt.Errorf("failed to load top picks: %w", err)
	}
	return picks, nil
}

// Render writes the top picks as a table
func (r *TopPicksReporter) Render(ctx context.Context, out io.Writer) error {
	picks, err := r.TopPicks(ctx)
	if err != nil {
		return err
	}

	if len(picks) == 0 {
		fmt.Fprintln(out, "No unsettled value predictions")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header("#", "Fixture", "Pick", "Odds", "Edge", "Conf%", "Stake", "Source")

	for i, pick := range picks {
		table.Append(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", pick.FixtureID),
			string(pick.Pick),
			fmt.Sprintf("%.2f", pick.Odds),
			fmt.Sprintf("%+.3f", pick.Edge),
			fmt.Sprintf("%.1f", pick.ConfidencePct),
			fmt.Sprintf("%.2f", r.stake),
			string(pick.OddsSource),
		)
	}

	table.Render()
	return nil
}
