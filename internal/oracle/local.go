package oracle

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/scoring"
)

// LocalAdvisor answers from the deterministic scorer instead of a remote
// model. It backs the pipeline when the oracle is disabled or down, so the
// batch never blocks on an external service.
type LocalAdvisor struct {
	scorer *scoring.Scorer
	logger *logrus.Logger
}

// NewLocalAdvisor creates a scorer-backed advisor
func NewLocalAdvisor(scorer *scoring.Scorer, logger *logrus.Logger) *LocalAdvisor {
	return &LocalAdvisor{scorer: scorer, logger: logger}
}

// Advise scores the fixture locally
func (l *LocalAdvisor) Advise(ctx context.Context, req AdviceRequest) (*Advice, error) {
	prediction, err := l.scorer.Score(req.Fixture, req.Quote, req.Signals)
	if err != nil {
		return nil, err
	}

	return &Advice{
		Pick:          prediction.Pick,
		ConfidencePct: prediction.ConfidencePct(),
		Rationale:     prediction.Rationale,
		Model:         "local",
	}, nil
}

// FallbackAdvisor tries a primary advisor and falls back to a secondary one.
// Used to chain the remote oracle in front of the local scorer.
type FallbackAdvisor struct {
	primary   Advisor
	secondary Advisor
	logger    *logrus.Logger
}

// NewFallbackAdvisor creates an advisor chain
func NewFallbackAdvisor(primary, secondary Advisor, logger *logrus.Logger) *FallbackAdvisor {
	return &FallbackAdvisor{primary: primary, secondary: secondary, logger: logger}
}

// Advise returns the primary's advice, or the secondary's when the primary fails
func (f *FallbackAdvisor) Advise(ctx context.Context, req AdviceRequest) (*Advice, error) {
	advice, err := f.primary.Advise(ctx, req)
	if err == nil {
		return advice, nil
	}

	FallbacksTotal.Inc()
	f.logger.WithFields(logrus.Fields{
		"fixture_id": req.Fixture.FixtureID,
		"error":      err.Error(),
	}).Warn("Oracle unavailable, using local scorer")

	return f.secondary.Advise(ctx, req)
}
