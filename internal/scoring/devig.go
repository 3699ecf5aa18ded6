// Package scoring derives calibrated probabilities and value estimates for
// binary over/under markets from bookmaker odds and contextual signals.
package scoring

import (
	"github.com/yourusername/goal-edge/internal/models"
)

// ImpliedProbability converts decimal odds to the raw (vig-inclusive)
// implied probability. Returns ok=false for absent or sub-1.0 prices;
// callers must not conflate that with probability zero.
func ImpliedProbability(odds *float64) (float64, bool) {
	if odds == nil || *odds <= 1.0 {
		return 0, false
	}
	return 1.0 / *odds, true
}

// FairOverProbability removes the bookmaker margin from a two-sided quote
// and returns the fair probability of the Over side.
//
// With both sides quoted the margin is removed by normalization:
// p = pOver / (pOver + pUnder). With only one side quoted a partial de-vig
// pulls the raw implied probability toward 0.5 by the configured factor
// (default 0.94, i.e. 6% of the distance), reflecting residual margin
// uncertainty. With neither side the probability is unavailable (ok=false).
func FairOverProbability(quote models.OddsQuote, partialDevig float64) (float64, bool) {
	pOver, overOK := ImpliedProbability(quote.Over)
	pUnder, underOK := ImpliedProbability(quote.Under)

	switch {
	case overOK && underOK:
		sum := pOver + pUnder
		if sum <= 0 {
			return 0, false
		}
		return clip01(pOver / sum), true
	case overOK:
		return clip01(0.5 + (pOver-0.5)*partialDevig), true
	case underOK:
		// Mirror: de-vig the under side, then flip.
		pUnderFair := clip01(0.5 + (pUnder-0.5)*partialDevig)
		return clip01(1.0 - pUnderFair), true
	default:
		return 0, false
	}
}

func clip01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func clipSym(x, bound float64) float64 {
	if x < -bound {
		return -bound
	}
	if x > bound {
		return bound
	}
	return x
}
