package scoring

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/models"
)

// Scorer turns a market quote plus contextual signals into a scored
// over/under prediction. The market prior anchors the estimate; the signal
// delta nudges it. Only signals may move the probability away from the
// de-vigged prior; nothing downstream recomputes it.
type Scorer struct {
	cfg        config.ScoringConfig
	aggregator *Aggregator
	logger     *logrus.Logger
}

// NewScorer creates a scorer with the given tunables
func NewScorer(cfg config.ScoringConfig, logger *logrus.Logger) *Scorer {
	return &Scorer{
		cfg:        cfg,
		aggregator: NewAggregator(cfg),
		logger:     logger,
	}
}

// Score evaluates one fixture's over/under 2.5 market. It returns
// models.ErrOddsUnavailable when no usable price exists and
// models.ErrNoActionableMarket when neither side's price sits inside the
// sanity band.
func (s *Scorer) Score(fixture models.Fixture, quote models.OddsQuote, bundle models.SignalBundle) (*models.ScoredPrediction, error) {
	if !quote.HasAnySide() {
		return nil, models.ErrOddsUnavailable
	}

	// Out-of-band prices are invalid regardless of numeric validity: a stale
	// or fat-fingered quote must not seed the market prior.
	banded := s.bandedQuote(quote)
	pMarket, ok := FairOverProbability(banded, s.cfg.PartialDevig)
	if !ok {
		return nil, models.ErrNoActionableMarket
	}

	delta, breakdown := s.aggregator.Aggregate(bundle)
	pModel := 0.5 + delta

	k := s.cfg.KFactor
	pOver := clip01(k*pMarket + (1.0-k)*pModel)

	overEV, overOK := s.evFor(quote.Over, pOver)
	underEV, underOK := s.evFor(quote.Under, 1.0-pOver)
	if !overOK && !underOK {
		return nil, models.ErrNoActionableMarket
	}

	// Higher EV wins; on a tie (both sides in band, same EV) Over is taken.
	pick := models.SideOver
	edge := overEV
	if underOK && (!overOK || underEV > overEV) {
		pick = models.SideUnder
		edge = underEV
	}

	pickProb := pOver
	if pick == models.SideUnder {
		pickProb = 1.0 - pOver
	}

	confidence := s.confidence(pOver, pMarket)

	pred := &models.ScoredPrediction{
		FixtureID:       fixture.FixtureID,
		Market:          models.MarketOverUnder25,
		Pick:            pick,
		Odds:            models.Float(quote.PriceFor(pick)),
		ProbOver:        pOver,
		PickProbability: pickProb,
		Confidence:      confidence,
		Edge:            edge,
		IsValue:         edge >= s.cfg.MinEdge && confidence >= s.cfg.MinConfidence,
		Signals:         breakdown,
		Weights: models.WeightBreakdown{
			Tempo:      s.cfg.Weights.Tempo,
			FormRate:   s.cfg.Weights.FormRate,
			SeasonBase: s.cfg.Weights.SeasonBase,
			Injuries:   s.cfg.Weights.Injuries,
			HeadToHead: s.cfg.Weights.HeadToHead,
			KFactor:    k,
		},
		Priors: models.PriorBreakdown{
			RawOver:    rawImplied(quote.Over),
			RawUnder:   rawImplied(quote.Under),
			MarketOver: models.FloatPtr(pMarket),
		},
		OddsSource: quote.Source,
		Rationale:  s.rationale(pick, pOver, pMarket, edge, breakdown),
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"fixture_id": fixture.FixtureID,
			"prediction": pred.Pick,
			"odds":       pred.Odds,
			"prob_over":  pred.ProbOver,
			"edge":       pred.Edge,
			"confidence": pred.Confidence,
			"source":     pred.OddsSource,
		}).Debug("Fixture scored")
	}

	return pred, nil
}

// bandedQuote drops sides priced outside the sanity band, leaving the
// de-vig to fall back to one-sided handling (or fail) as if the side had
// never been quoted.
func (s *Scorer) bandedQuote(quote models.OddsQuote) models.OddsQuote {
	banded := quote
	if !s.inBand(banded.Over) {
		banded.Over = nil
	}
	if !s.inBand(banded.Under) {
		banded.Under = nil
	}
	return banded
}

func (s *Scorer) inBand(price *float64) bool {
	return price != nil && *price >= s.cfg.OddsMin && *price <= s.cfg.OddsMax
}

// evFor computes the capped expected value for one side, rejecting prices
// outside the sanity band.
func (s *Scorer) evFor(price *float64, p float64) (float64, bool) {
	if !s.inBand(price) {
		return 0, false
	}
	ev := p*(*price) - 1.0
	return clipSym(ev, s.cfg.EdgeCap), true
}

// confidence blends distance from coin-flip with disagreement against the
// market prior. Both terms saturate, keeping the result in [0,1].
func (s *Scorer) confidence(pOver, pMarket float64) float64 {
	strength := math.Min(1.0, math.Abs(pOver-0.5)*2.0)
	divergence := math.Min(1.0, math.Abs(pOver-pMarket)*4.0)
	return 0.5*strength + 0.5*divergence
}

func (s *Scorer) rationale(pick models.Side, pOver, pMarket, edge float64, breakdown models.SignalBreakdown) string {
	return fmt.Sprintf(
		"%s 2.5: p_over=%.3f vs market %.3f (edge %+.3f; tempo %+.2f form %+.2f season %+.2f injuries %+.2f h2h %+.2f)",
		pick, pOver, pMarket, edge,
		breakdown.Tempo, breakdown.FormRate, breakdown.SeasonBase, breakdown.Injuries, breakdown.HeadToHead,
	)
}

func rawImplied(price *float64) *float64 {
	p, ok := ImpliedProbability(price)
	if !ok {
		return nil
	}
	return models.FloatPtr(p)
}
