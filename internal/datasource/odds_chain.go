package datasource

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/models"
)

// OddsChain tries providers in priority order and returns the first usable
// quote. Overtime leads; the football API is the fallback. A provider error
// is downgraded to a fallback attempt, never a hard failure, as long as a
// later provider can still quote.
type OddsChain struct {
	providers []OddsProvider
	logger    *logrus.Logger
}

// NewOddsChain creates an odds chain from providers in priority order
func NewOddsChain(logger *logrus.Logger, providers ...OddsProvider) *OddsChain {
	return &OddsChain{providers: providers, logger: logger}
}

// Name returns the provider name
func (c *OddsChain) Name() string {
	return "odds_chain"
}

// FetchOdds walks the chain. When every provider comes up empty the chain
// returns models.ErrOddsUnavailable; the last hard error wins otherwise.
func (c *OddsChain) FetchOdds(ctx context.Context, fixture models.Fixture) (*models.OddsQuote, error) {
	var lastErr error

	for _, provider := range c.providers {
		quote, err := provider.FetchOdds(ctx, fixture)
		if err == nil && quote != nil && quote.HasAnySide() {
			return quote, nil
		}

		if err != nil && !errors.Is(err, models.ErrOddsUnavailable) {
			lastErr = err
		}
		c.logger.WithFields(logrus.Fields{
			"fixture_id": fixture.FixtureID,
			"provider":   provider.Name(),
		}).Debug("Odds provider had no usable quote, trying next")
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, models.ErrOddsUnavailable
}
