package datasource

import (
	"context"
	"time"

	"github.com/yourusername/goal-edge/internal/models"
)

// FixtureSource provides scheduled fixtures and final results
type FixtureSource interface {
	// FetchFixtures retrieves fixtures kicking off inside the window
	FetchFixtures(ctx context.Context, from, to time.Time) ([]models.Fixture, error)

	// FetchResult retrieves the current result and status for a fixture
	FetchResult(ctx context.Context, fixtureID int) (*models.MatchResult, error)

	// Name returns the name of the data source
	Name() string
}

// SignalSource provides the contextual inputs to scoring
type SignalSource interface {
	// FetchTeamStats retrieves season statistics for a team
	FetchTeamStats(ctx context.Context, teamID, leagueID, season int) (*models.TeamStats, error)

	// FetchInjuries retrieves the current injury list for a team
	FetchInjuries(ctx context.Context, teamID, season int) (*models.InjuryReport, error)

	// FetchHeadToHead retrieves recent meetings between two teams, most
	// recent first
	FetchHeadToHead(ctx context.Context, homeID, awayID, limit int) ([]models.H2HScore, error)
}

// OddsProvider quotes the over/under 2.5 market for a fixture
type OddsProvider interface {
	// FetchOdds returns the quote, or models.ErrOddsUnavailable when the
	// provider has no price for the fixture
	FetchOdds(ctx context.Context, fixture models.Fixture) (*models.OddsQuote, error)

	// Name returns the name of the odds provider
	Name() string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
