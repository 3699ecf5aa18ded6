// Package staking sizes stakes for scored predictions using a damped Kelly
// criterion. The sizer consumes the scorer's probability as-is; it applies
// risk dampers but never re-derives the estimate.
package staking

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/models"
)

// Sizer converts a scored prediction into a bankroll fraction
type Sizer struct {
	cfg    config.StakingConfig
	logger *logrus.Logger
}

// NewSizer creates a stake sizer with the given risk tunables
func NewSizer(cfg config.StakingConfig, logger *logrus.Logger) *Sizer {
	return &Sizer{cfg: cfg, logger: logger}
}

// StakeBreakdown records each damper's value for audit logging
type StakeBreakdown struct {
	Kelly         float64 `json:"kelly"`
	Alignment     float64 `json:"alignment"`
	EdgeFactor    float64 `json:"edge_factor"`
	SourceQuality float64 `json:"source_quality"`
	Fraction      float64 `json:"fraction"`
}

// Fraction returns the bankroll fraction to stake on a scored prediction,
// rounded to four decimal places and clamped to the per-bet maximum. A zero
// fraction means no bet.
func (s *Sizer) Fraction(pred *models.ScoredPrediction) (float64, StakeBreakdown) {
	var breakdown StakeBreakdown

	// Unbettable price, or a pick with neither conviction nor edge.
	if pred.Odds <= 1.0 {
		return 0, breakdown
	}
	if pred.Confidence <= 0.5 && pred.Edge <= 0 {
		return 0, breakdown
	}

	breakdown.Kelly = kellyFraction(pred.Odds, pred.PickProbability)
	breakdown.Alignment = s.alignmentFactor(pred)
	breakdown.EdgeFactor = s.edgeFactor(pred.Edge)
	breakdown.SourceQuality = s.sourceQuality(pred.OddsSource)

	raw := breakdown.Kelly * s.cfg.KellyScaler * breakdown.Alignment * breakdown.EdgeFactor * breakdown.SourceQuality
	breakdown.Fraction = round4(clamp(raw, 0, s.cfg.MaxStakePct))

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"fixture_id":     pred.FixtureID,
			"prediction":     pred.Pick,
			"kelly":          breakdown.Kelly,
			"alignment":      breakdown.Alignment,
			"edge_factor":    breakdown.EdgeFactor,
			"source_quality": breakdown.SourceQuality,
			"stake_pct":      breakdown.Fraction,
		}).Debug("Stake sized")
	}

	return breakdown.Fraction, breakdown
}

// kellyFraction is the full-Kelly optimal fraction for a binary bet at
// decimal odds o with win probability p, floored at zero.
func kellyFraction(odds, p float64) float64 {
	b := odds - 1.0
	f := (b*p - (1.0 - p)) / b
	return math.Max(0, f)
}

// alignmentFactor rewards predictions whose signal delta points the same
// way as the pick. Opposed or neutral deltas halve the stake; the factor
// ranges over [0.5, 1.0].
func (s *Sizer) alignmentFactor(pred *models.ScoredPrediction) float64 {
	aligned := pred.Signals.WeightedTotal
	if pred.Pick == models.SideUnder {
		aligned = -aligned
	}
	return 0.5 + 0.5*clamp(aligned, 0, 1)
}

// edgeFactor scales linearly up to the edge floor; non-positive edge kills
// the stake outright rather than rounding through.
func (s *Sizer) edgeFactor(edge float64) float64 {
	if edge <= 0 {
		return 0
	}
	return math.Min(1.0, edge/s.cfg.EdgeFloor)
}

func (s *Sizer) sourceQuality(source models.OddsSource) float64 {
	if source == models.OddsSourceOvertime {
		return s.cfg.SourceQualityTrusted
	}
	return s.cfg.SourceQualityDefault
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
