package models

import "time"

// TeamInfo identifies one side of a fixture
type TeamInfo struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Fixture represents a scheduled football match
type Fixture struct {
	FixtureID int       `db:"fixture_id" json:"fixture_id" validate:"required,gt=0"`
	Date      time.Time `db:"date" json:"date" validate:"required"`
	League    string    `db:"league" json:"league"`
	Country   string    `db:"country" json:"country"`
	Venue     string    `db:"venue" json:"venue"`
	HomeTeam  TeamInfo  `db:"home_team" json:"home_team"`
	AwayTeam  TeamInfo  `db:"away_team" json:"away_team"`
	Season    int       `db:"season" json:"season"`
	LeagueID  int       `db:"league_id" json:"league_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HasKickedOff reports whether the fixture's scheduled start is in the past
func (f *Fixture) HasKickedOff(now time.Time) bool {
	return f.Date.Before(now)
}
