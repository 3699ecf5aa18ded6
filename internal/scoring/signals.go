package scoring

import (
	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/models"
)

// Aggregator combines contextual signals into a bounded probability delta
// away from the neutral 0.5 prior. Each sub-signal is clipped to its own
// symmetric range before weighting so a single noisy input cannot dominate,
// and missing or malformed inputs contribute exactly zero.
type Aggregator struct {
	cfg config.ScoringConfig
}

// NewAggregator creates a signal aggregator with the given tunables
func NewAggregator(cfg config.ScoringConfig) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Aggregate computes the weighted, capped delta and the per-signal breakdown
func (a *Aggregator) Aggregate(bundle models.SignalBundle) (float64, models.SignalBreakdown) {
	breakdown := models.SignalBreakdown{
		Tempo:      a.tempoSignal(bundle),
		FormRate:   a.formRateSignal(bundle),
		SeasonBase: a.seasonBaseSignal(bundle),
		Injuries:   a.injurySignal(bundle),
		HeadToHead: a.headToHeadSignal(bundle.HeadToHead),
	}

	w := a.cfg.Weights
	weightedSum := w.Tempo*breakdown.Tempo +
		w.FormRate*breakdown.FormRate +
		w.SeasonBase*breakdown.SeasonBase +
		w.Injuries*breakdown.Injuries +
		w.HeadToHead*breakdown.HeadToHead

	delta := clipSym(weightedSum/w.Total(), a.cfg.DeltaCap)
	breakdown.WeightedTotal = delta

	return delta, breakdown
}

// tempoSignal maps each team's goals-per-game rate against the league
// center, averaged across both teams.
func (a *Aggregator) tempoSignal(bundle models.SignalBundle) float64 {
	home := a.teamTempo(bundle.Home)
	away := a.teamTempo(bundle.Away)
	return clipSym((home+away)/2.0, a.cfg.TempoClip)
}

func (a *Aggregator) teamTempo(stats models.TeamStats) float64 {
	rate := stats.TempoRate()
	if rate == nil {
		return 0
	}
	return (*rate - a.cfg.TempoCenter) / a.cfg.TempoScale
}

// formRateSignal averages each team's over-2.5 hit rate distance from coin-flip
func (a *Aggregator) formRateSignal(bundle models.SignalBundle) float64 {
	home := a.teamFormRate(bundle.Home)
	away := a.teamFormRate(bundle.Away)
	return clipSym((home+away)/2.0, a.cfg.FormRateClip)
}

func (a *Aggregator) teamFormRate(stats models.TeamStats) float64 {
	if stats.OU25Rate == nil {
		return 0
	}
	return *stats.OU25Rate - 0.5
}

// seasonBaseSignal anchors on the combined season goals-per-game average
func (a *Aggregator) seasonBaseSignal(bundle models.SignalBundle) float64 {
	values := make([]float64, 0, 4)
	for _, v := range []*float64{
		bundle.Home.GoalsForPG, bundle.Home.GoalsAgainstPG,
		bundle.Away.GoalsForPG, bundle.Away.GoalsAgainstPG,
	} {
		if v != nil {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return 0
	}
	// Combined goals per game: average the for/against rates across both
	// teams and double, since each match involves two scoring sides.
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	combined := sum / float64(len(values)) * 2.0
	return clipSym((combined-a.cfg.SeasonBaseCenter)/a.cfg.SeasonBaseScale, a.cfg.SeasonBaseClip)
}

// injurySignal applies a capped negative drag per sidelined player, per team
func (a *Aggregator) injurySignal(bundle models.SignalBundle) float64 {
	return a.teamInjuryDrag(bundle.HomeInjuries) + a.teamInjuryDrag(bundle.AwayInjuries)
}

func (a *Aggregator) teamInjuryDrag(report models.InjuryReport) float64 {
	drag := a.cfg.InjuryPerPlayer * float64(report.Count())
	if drag > a.cfg.InjuryCap {
		drag = a.cfg.InjuryCap
	}
	return -drag
}

// headToHeadSignal nudges by the over rate of the most recent meetings.
// Malformed scorelines are skipped, never defaulted.
func (a *Aggregator) headToHeadSignal(history []models.H2HScore) float64 {
	window := a.cfg.H2HWindow
	if len(history) < window {
		window = len(history)
	}

	overs, total := 0, 0
	for _, meeting := range history[:window] {
		goals, ok := meeting.TotalGoals()
		if !ok {
			continue
		}
		total++
		if goals >= 3 {
			overs++
		}
	}
	if total == 0 {
		return 0
	}

	rate := float64(overs) / float64(total)
	return clipSym(rate-0.5, a.cfg.H2HClip)
}
