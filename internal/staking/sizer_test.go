package staking

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/models"
)

func newTestSizer() *Sizer {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewSizer(config.DefaultStakingConfig(), logger)
}

func valuePick() *models.ScoredPrediction {
	return &models.ScoredPrediction{
		FixtureID:       1001,
		Market:          models.MarketOverUnder25,
		Pick:            models.SideOver,
		Odds:            2.00,
		ProbOver:        0.58,
		PickProbability: 0.58,
		Confidence:      0.62,
		Edge:            0.16,
		Signals:         models.SignalBreakdown{WeightedTotal: 0.12},
		OddsSource:      models.OddsSourceOvertime,
	}
}

func TestKellyFraction(t *testing.T) {
	tests := []struct {
		name     string
		odds     float64
		p        float64
		expected float64
	}{
		{name: "even money with edge", odds: 2.0, p: 0.55, expected: 0.10},
		{name: "no edge is zero", odds: 2.0, p: 0.50, expected: 0.0},
		{name: "negative edge floors at zero", odds: 2.0, p: 0.40, expected: 0.0},
		{name: "long odds", odds: 3.0, p: 0.40, expected: 0.10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, kellyFraction(tt.odds, tt.p), 1e-9)
		})
	}
}

func TestFraction_DampersCompound(t *testing.T) {
	sizer := newTestSizer()
	pred := valuePick()

	fraction, breakdown := sizer.Fraction(pred)

	// kelly = (1*0.58 - 0.42) / 1 = 0.16
	assert.InDelta(t, 0.16, breakdown.Kelly, 1e-9)
	// alignment = 0.5 + 0.5*0.12 = 0.56
	assert.InDelta(t, 0.56, breakdown.Alignment, 1e-9)
	// edge well above the 0.01 floor saturates
	assert.InDelta(t, 1.0, breakdown.EdgeFactor, 1e-9)
	assert.InDelta(t, 1.0, breakdown.SourceQuality, 1e-9)
	// 0.16 * 0.5 * 0.56 * 1 * 1 = 0.0448, clamped to the 2% cap
	assert.InDelta(t, 0.02, fraction, 1e-9)
}

func TestFraction_NonDecreasingInEdge(t *testing.T) {
	sizer := newTestSizer()

	// With odds, probability and signals held fixed, more edge never means
	// a smaller stake: zero below the floor's reach, linear through it,
	// flat once the edge factor saturates.
	edges := []float64{-0.10, -0.01, 0, 0.001, 0.002, 0.004, 0.006, 0.008, 0.01, 0.02, 0.05, 0.10, 0.20}
	prev := 0.0
	for _, edge := range edges {
		pred := valuePick()
		pred.Edge = edge

		fraction, _ := sizer.Fraction(pred)

		assert.GreaterOrEqual(t, fraction, prev, "edge=%.3f", edge)
		assert.GreaterOrEqual(t, fraction, 0.0, "edge=%.3f", edge)
		assert.LessOrEqual(t, fraction, sizer.cfg.MaxStakePct, "edge=%.3f", edge)
		if edge <= 0 {
			assert.Zero(t, fraction, "edge=%.3f", edge)
		}
		prev = fraction
	}
}

func TestFraction_RoundsToFourDecimals(t *testing.T) {
	sizer := newTestSizer()
	pred := valuePick()
	pred.PickProbability = 0.515
	pred.Edge = 0.03
	pred.Signals.WeightedTotal = 0.0

	fraction, _ := sizer.Fraction(pred)

	// kelly = 0.03, * 0.5 * 0.5 * 1 * 1 = 0.0075
	assert.InDelta(t, 0.0075, fraction, 1e-9)
}

func TestFraction_UnbettableOdds(t *testing.T) {
	sizer := newTestSizer()

	for _, odds := range []float64{1.0, 0.95, 0.0} {
		pred := valuePick()
		pred.Odds = odds
		fraction, _ := sizer.Fraction(pred)
		assert.Zero(t, fraction)
	}
}

func TestFraction_LowConvictionNoEdgeBails(t *testing.T) {
	sizer := newTestSizer()
	pred := valuePick()
	pred.Confidence = 0.45
	pred.Edge = 0.0

	fraction, _ := sizer.Fraction(pred)

	assert.Zero(t, fraction)
}

func TestFraction_LowConvictionWithEdgeStillBets(t *testing.T) {
	sizer := newTestSizer()
	pred := valuePick()
	pred.Confidence = 0.45

	fraction, _ := sizer.Fraction(pred)

	assert.Greater(t, fraction, 0.0)
}

func TestFraction_NonPositiveEdgeKillsStake(t *testing.T) {
	sizer := newTestSizer()
	pred := valuePick()
	pred.Edge = 0.0
	pred.Confidence = 0.70

	fraction, breakdown := sizer.Fraction(pred)

	assert.Zero(t, breakdown.EdgeFactor)
	assert.Zero(t, fraction)
}

func TestFraction_ThinEdgeScalesLinearly(t *testing.T) {
	sizer := newTestSizer()
	pred := valuePick()
	pred.Edge = 0.005
	pred.Signals.WeightedTotal = 1.0 // alignment saturates at 1.0

	_, breakdown := sizer.Fraction(pred)

	assert.InDelta(t, 0.5, breakdown.EdgeFactor, 1e-9)
	assert.InDelta(t, 1.0, breakdown.Alignment, 1e-9)
}

func TestFraction_AlignmentOpposesUnder(t *testing.T) {
	sizer := newTestSizer()
	pred := valuePick()
	pred.Pick = models.SideUnder
	pred.PickProbability = 0.58
	// Over-leaning delta opposes an Under pick entirely.
	pred.Signals.WeightedTotal = 0.20

	_, breakdown := sizer.Fraction(pred)

	assert.InDelta(t, 0.5, breakdown.Alignment, 1e-9)
}

func TestFraction_UntrustedSourceDiscounted(t *testing.T) {
	sizer := newTestSizer()
	trusted := valuePick()
	trusted.PickProbability = 0.52 // keep the raw fraction under the clamp
	fallback := valuePick()
	fallback.PickProbability = 0.52
	fallback.OddsSource = models.OddsSourceAPIFootball

	fTrusted, bTrusted := sizer.Fraction(trusted)
	fFallback, bFallback := sizer.Fraction(fallback)

	assert.InDelta(t, 1.0, bTrusted.SourceQuality, 1e-9)
	assert.InDelta(t, 0.90, bFallback.SourceQuality, 1e-9)
	assert.Less(t, fFallback, fTrusted)
}

func TestFraction_NeverExceedsCap(t *testing.T) {
	sizer := newTestSizer()
	pred := valuePick()
	pred.Odds = 3.5
	pred.PickProbability = 0.60
	pred.Edge = 0.20
	pred.Signals.WeightedTotal = 1.0

	fraction, _ := sizer.Fraction(pred)

	assert.LessOrEqual(t, fraction, 0.02)
	assert.Greater(t, fraction, 0.0)
}
