package models

import "time"

// MatchStatus is the provider's short fixture status code
type MatchStatus string

const (
	StatusFullTime   MatchStatus = "FT"
	StatusAfterExtra MatchStatus = "AET"
	StatusPenalties  MatchStatus = "PEN"
	StatusAwarded    MatchStatus = "AWD"
	StatusWalkover   MatchStatus = "WO"
	StatusAbandoned  MatchStatus = "ABD"
	StatusNotStarted MatchStatus = "NS"
	StatusInPlay     MatchStatus = "LIVE"
)

// finalStatuses are the statuses a result can be settled from. Abandoned
// matches are excluded: they have no meaningful over/under outcome.
var finalStatuses = map[MatchStatus]bool{
	StatusFullTime:   true,
	StatusAfterExtra: true,
	StatusPenalties:  true,
	StatusAwarded:    true,
	StatusWalkover:   true,
}

// IsFinal reports whether the status allows settlement
func (s MatchStatus) IsFinal() bool {
	return finalStatuses[s]
}

// MatchResult is the actual outcome of a finished fixture
type MatchResult struct {
	FixtureID  int         `db:"fixture_id" json:"fixture_id" validate:"required,gt=0"`
	Status     MatchStatus `db:"status" json:"status"`
	GoalsHome  int         `db:"goals_home" json:"goals_home" validate:"gte=0"`
	GoalsAway  int         `db:"goals_away" json:"goals_away" validate:"gte=0"`
	Result1X2  string      `db:"result_1x2" json:"result_1x2"`
	ResultBTTS string      `db:"result_btts" json:"result_btts"`
	ResultOU   Side        `db:"result_ou" json:"result_ou"`
	FetchedAt  time.Time   `db:"fetched_at" json:"fetched_at"`
}

// TotalGoals returns the combined final score
func (r *MatchResult) TotalGoals() int {
	return r.GoalsHome + r.GoalsAway
}

// ActualSide resolves the winning side of a threshold market from the
// final score: Over iff total goals exceed the floor of the line.
func (r *MatchResult) ActualSide(market Market) Side {
	if r.TotalGoals() > int(market.Threshold()) {
		return SideOver
	}
	return SideUnder
}

// Derive1X2 returns the match-winner outcome string
func Derive1X2(goalsHome, goalsAway int) string {
	switch {
	case goalsHome > goalsAway:
		return "Home"
	case goalsAway > goalsHome:
		return "Away"
	default:
		return "Draw"
	}
}

// DeriveBTTS returns whether both teams scored
func DeriveBTTS(goalsHome, goalsAway int) string {
	if goalsHome > 0 && goalsAway > 0 {
		return "Yes"
	}
	return "No"
}
