package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/goal-edge/internal/models"
)

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		name     string
		odds     *float64
		expected float64
		ok       bool
	}{
		{
			name:     "even money",
			odds:     models.FloatPtr(2.0),
			expected: 0.5,
			ok:       true,
		},
		{
			name:     "short price",
			odds:     models.FloatPtr(1.25),
			expected: 0.8,
			ok:       true,
		},
		{
			name: "nil price is unavailable",
			odds: nil,
			ok:   false,
		},
		{
			name: "odds of exactly 1.0 are unavailable",
			odds: models.FloatPtr(1.0),
			ok:   false,
		},
		{
			name: "sub-1.0 odds are unavailable",
			odds: models.FloatPtr(0.95),
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := ImpliedProbability(tt.odds)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, p, 1e-9)
			}
		})
	}
}

func TestFairOverProbability(t *testing.T) {
	tests := []struct {
		name     string
		quote    models.OddsQuote
		expected float64
		ok       bool
	}{
		{
			name:     "two-sided quote normalizes away the margin",
			quote:    models.OddsQuote{Over: models.FloatPtr(1.90), Under: models.FloatPtr(1.90)},
			expected: 0.5,
			ok:       true,
		},
		{
			name:     "two-sided asymmetric quote",
			quote:    models.OddsQuote{Over: models.FloatPtr(1.60), Under: models.FloatPtr(2.40)},
			expected: (1.0 / 1.60) / (1.0/1.60 + 1.0/2.40),
			ok:       true,
		},
		{
			name:     "over only gets a partial pull toward 0.5",
			quote:    models.OddsQuote{Over: models.FloatPtr(1.60)},
			expected: 0.5 + (1.0/1.60-0.5)*0.94,
			ok:       true,
		},
		{
			name:     "under only mirrors the partial de-vig",
			quote:    models.OddsQuote{Under: models.FloatPtr(1.60)},
			expected: 1.0 - (0.5 + (1.0/1.60-0.5)*0.94),
			ok:       true,
		},
		{
			name:  "empty quote is unavailable",
			quote: models.OddsQuote{},
			ok:    false,
		},
		{
			name:  "sub-1.0 prices on both sides are unavailable",
			quote: models.OddsQuote{Over: models.FloatPtr(0.9), Under: models.FloatPtr(1.0)},
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := FairOverProbability(tt.quote, 0.94)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, p, 1e-9)
			}
		})
	}
}

func TestFairOverProbability_MonotoneInOverPrice(t *testing.T) {
	// Holding the under price fixed, a longer over price always means less
	// over probability, and the normalized pair stays inside [0, 1].
	prev := 1.0
	for o := 1.40; o <= 5.0; o += 0.15 {
		quote := models.OddsQuote{Over: models.FloatPtr(o), Under: models.FloatPtr(1.90)}
		p, ok := FairOverProbability(quote, 0.94)

		assert.True(t, ok, "over=%.2f", o)
		assert.GreaterOrEqual(t, p, 0.0, "over=%.2f", o)
		assert.LessOrEqual(t, p, 1.0, "over=%.2f", o)
		assert.Less(t, p, prev, "over=%.2f", o)
		prev = p
	}
}

func TestFairOverProbability_OneSidedSymmetry(t *testing.T) {
	// An over-only quote and an under-only quote at the same price must
	// land the same distance either side of 0.5.
	over, okO := FairOverProbability(models.OddsQuote{Over: models.FloatPtr(1.80)}, 0.94)
	under, okU := FairOverProbability(models.OddsQuote{Under: models.FloatPtr(1.80)}, 0.94)

	assert.True(t, okO)
	assert.True(t, okU)
	assert.InDelta(t, over-0.5, 0.5-under, 1e-9)
}
