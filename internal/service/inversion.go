package service

import (
	"github.com/yourusername/goal-edge/internal/models"
)

// invertPrediction flips a scored prediction to the opposite side at the
// counterpart price. Used by the contrarian mode and when oracle advice
// disagrees with the local scorer. Returns false when the quote carries no
// usable price for the other side, leaving the prediction untouched.
// The recomputed edge is clipped to edgeCap, same as the scorer's own.
func invertPrediction(prediction *models.ScoredPrediction, quote models.OddsQuote, edgeCap float64) bool {
	opposite := prediction.Pick.Opposite()

	price := quote.PriceFor(opposite)
	if price == nil || *price <= 1.0 {
		return false
	}

	prediction.Pick = opposite
	prediction.Odds = *price
	prediction.PickProbability = 1.0 - prediction.PickProbability
	prediction.Edge = clipEdge(prediction.PickProbability**price-1.0, edgeCap)
	// The inverted pick is taken on conviction, not on measured edge.
	prediction.IsValue = true

	return true
}

func clipEdge(edge, bound float64) float64 {
	if edge < -bound {
		return -bound
	}
	if edge > bound {
		return bound
	}
	return edge
}
