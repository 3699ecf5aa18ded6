package models

import (
	"strconv"
	"strings"
)

// TeamStats carries per-team tempo and scoring-rate metrics used by the
// signal aggregator. Pointers distinguish "not tracked" from zero.
type TeamStats struct {
	XGForAvg       *float64 `json:"xg_for_avg"`
	GFAvg          *float64 `json:"gf_avg"`
	OU25Rate       *float64 `json:"ou25_rate"`
	GoalsForPG     *float64 `json:"goals_for_pg"`
	GoalsAgainstPG *float64 `json:"goals_against_pg"`
}

// TempoRate returns the best available goals-per-game tempo metric,
// preferring expected goals over raw goals-for.
func (t TeamStats) TempoRate() *float64 {
	if t.XGForAvg != nil {
		return t.XGForAvg
	}
	return t.GFAvg
}

// InjuryReport lists currently sidelined players for one team
type InjuryReport struct {
	Players []string `json:"players"`
}

// Count returns the number of reported injuries
func (r InjuryReport) Count() int {
	return len(r.Players)
}

// H2HScore is one historical head-to-head final score, most recent first
type H2HScore struct {
	Score string `json:"score"` // "H-A", e.g. "2-1"
}

// TotalGoals parses the scoreline and returns the combined goal count.
// Malformed scores return ok=false and must be skipped, not defaulted.
func (h H2HScore) TotalGoals() (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(h.Score), "-", 2)
	if len(parts) != 2 {
		return 0, false
	}
	home, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	away, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return home + away, true
}

// SignalBundle is the immutable contextual input to scoring for one fixture
type SignalBundle struct {
	Home         TeamStats    `json:"home"`
	Away         TeamStats    `json:"away"`
	HomeInjuries InjuryReport `json:"home_injuries"`
	AwayInjuries InjuryReport `json:"away_injuries"`
	HeadToHead   []H2HScore   `json:"head_to_head"`
}

// SignalBreakdown records each sub-signal's contribution for audit
type SignalBreakdown struct {
	Tempo         float64 `json:"tempo"`
	FormRate      float64 `json:"form_rate"`
	SeasonBase    float64 `json:"season_base"`
	Injuries      float64 `json:"injuries"`
	HeadToHead    float64 `json:"h2h"`
	WeightedTotal float64 `json:"weighted_total"`
}

// WeightBreakdown records the weights in force when a prediction was scored
type WeightBreakdown struct {
	Tempo      float64 `json:"tempo"`
	FormRate   float64 `json:"form_rate"`
	SeasonBase float64 `json:"season_base"`
	Injuries   float64 `json:"injuries"`
	HeadToHead float64 `json:"h2h"`
	KFactor    float64 `json:"k_factor"`
}

// PriorBreakdown records the market-implied probabilities used in blending
type PriorBreakdown struct {
	RawOver    *float64 `json:"p_over_raw"`
	RawUnder   *float64 `json:"p_under_raw"`
	MarketOver *float64 `json:"p_market_over"`
}
