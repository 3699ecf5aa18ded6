package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/goal-edge/internal/database"
	"github.com/yourusername/goal-edge/internal/models"
)

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Upsert inserts or refreshes a fixture row
func (m *PostgresMatchRepository) Upsert(ctx context.Context, fixture *models.Fixture) error {
	query := `
		INSERT INTO matches (fixture_id, date, league, country, venue,
		                     home_team_id, home_team, away_team_id, away_team, season, league_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (fixture_id) DO UPDATE SET
			date = EXCLUDED.date, league = EXCLUDED.league, country = EXCLUDED.country,
			venue = EXCLUDED.venue, home_team_id = EXCLUDED.home_team_id, home_team = EXCLUDED.home_team,
			away_team_id = EXCLUDED.away_team_id, away_team = EXCLUDED.away_team,
			season = EXCLUDED.season, league_id = EXCLUDED.league_id
	`

	_, err := m.db.GetPool().Exec(ctx, query,
		fixture.FixtureID, fixture.Date, fixture.League, fixture.Country, fixture.Venue,
		fixture.HomeTeam.ID, fixture.HomeTeam.Name, fixture.AwayTeam.ID, fixture.AwayTeam.Name,
		fixture.Season, fixture.LeagueID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}

	return nil
}

// GetByID retrieves a fixture by its provider fixture ID
func (m *PostgresMatchRepository) GetByID(ctx context.Context, fixtureID int) (*models.Fixture, error) {
	query := `
		SELECT fixture_id, date, league, country, venue,
		       home_team_id, home_team, away_team_id, away_team, season, league_id, created_at
		FROM matches WHERE fixture_id = $1
	`

	fixture := &models.Fixture{}
	err := m.db.GetPool().QueryRow(ctx, query, fixtureID).Scan(
		&fixture.FixtureID, &fixture.Date, &fixture.League, &fixture.Country, &fixture.Venue,
		&fixture.HomeTeam.ID, &fixture.HomeTeam.Name, &fixture.AwayTeam.ID, &fixture.AwayTeam.Name,
		&fixture.Season, &fixture.LeagueID, &fixture.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return fixture, nil
}

// GetInWindow retrieves fixtures scheduled inside a time window
func (m *PostgresMatchRepository) GetInWindow(ctx context.Context, from, to time.Time) ([]*models.Fixture, error) {
	query := `
		SELECT fixture_id, date, league, country, venue,
		       home_team_id, home_team, away_team_id, away_team, season, league_id, created_at
		FROM matches
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC
	`

	rows, err := m.db.GetPool().Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var fixtures []*models.Fixture
	for rows.Next() {
		fixture := &models.Fixture{}
		err := rows.Scan(
			&fixture.FixtureID, &fixture.Date, &fixture.League, &fixture.Country, &fixture.Venue,
			&fixture.HomeTeam.ID, &fixture.HomeTeam.Name, &fixture.AwayTeam.ID, &fixture.AwayTeam.Name,
			&fixture.Season, &fixture.LeagueID, &fixture.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		fixtures = append(fixtures, fixture)
	}

	return fixtures, rows.Err()
}
