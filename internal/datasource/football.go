package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/goal-edge/internal/models"
)

const sourceFootballAPI = "football_api"

// FootballAPIClient talks to the API-Football v3 REST API. It serves as
// fixture source, signal source and fallback odds provider.
type FootballAPIClient struct {
	httpClient         *RateLimitedHTTPClient
	baseURL            string
	apiKey             string
	preferredBookmaker string
	logger             *log.Logger
}

// NewFootballAPIClient creates a new API-Football client
func NewFootballAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey, preferredBookmaker string, logger *log.Logger) *FootballAPIClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &FootballAPIClient{
		httpClient:         httpClient,
		baseURL:            strings.TrimRight(baseURL, "/"),
		apiKey:             apiKey,
		preferredBookmaker: preferredBookmaker,
		logger:             logger,
	}
}

// Name returns the provider name
func (c *FootballAPIClient) Name() string {
	return sourceFootballAPI
}

// apiEnvelope is the provider's standard response wrapper
type apiEnvelope struct {
	Response json.RawMessage `json:"response"`
	Errors   json.RawMessage `json:"errors"`
}

type apiFixture struct {
	Fixture struct {
		ID     int    `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
	} `json:"fixture"`
	League struct {
		ID      int    `json:"id"`
		Name    string `json:"name"`
		Country string `json:"country"`
		Season  int    `json:"season"`
	} `json:"league"`
	Teams struct {
		Home struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

// FetchFixtures retrieves fixtures kicking off inside the window
func (c *FootballAPIClient) FetchFixtures(ctx context.Context, from, to time.Time) ([]models.Fixture, error) {
	url := fmt.Sprintf("%s/fixtures?from=%s&to=%s&timezone=UTC",
		c.baseURL, from.Format("2006-01-02"), to.Format("2006-01-02"))

	var raw []apiFixture
	if err := c.get(ctx, url, &raw); err != nil {
		return nil, err
	}

	fixtures := make([]models.Fixture, 0, len(raw))
	for _, f := range raw {
		date, err := time.Parse(time.RFC3339, f.Fixture.Date)
		if err != nil {
			c.logger.Printf("Skipping fixture %d with unparseable date %q", f.Fixture.ID, f.Fixture.Date)
			continue
		}
		fixtures = append(fixtures, models.Fixture{
			FixtureID: f.Fixture.ID,
			Date:      date,
			League:    f.League.Name,
			Country:   f.League.Country,
			Venue:     f.Fixture.Venue.Name,
			HomeTeam:  models.TeamInfo{ID: f.Teams.Home.ID, Name: f.Teams.Home.Name},
			AwayTeam:  models.TeamInfo{ID: f.Teams.Away.ID, Name: f.Teams.Away.Name},
			Season:    f.League.Season,
			LeagueID:  f.League.ID,
		})
	}

	return fixtures, nil
}

// FetchResult retrieves the current result and status for a fixture
func (c *FootballAPIClient) FetchResult(ctx context.Context, fixtureID int) (*models.MatchResult, error) {
	url := fmt.Sprintf("%s/fixtures?id=%d", c.baseURL, fixtureID)

	var raw []apiFixture
	if err := c.get(ctx, url, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, models.ErrNotFound
	}

	f := raw[0]
	goalsHome, goalsAway := 0, 0
	if f.Goals.Home != nil {
		goalsHome = *f.Goals.Home
	}
	if f.Goals.Away != nil {
		goalsAway = *f.Goals.Away
	}

	result := &models.MatchResult{
		FixtureID:  fixtureID,
		Status:     models.MatchStatus(f.Fixture.Status.Short),
		GoalsHome:  goalsHome,
		GoalsAway:  goalsAway,
		Result1X2:  models.Derive1X2(goalsHome, goalsAway),
		ResultBTTS: models.DeriveBTTS(goalsHome, goalsAway),
		FetchedAt:  time.Now().UTC(),
	}
	result.ResultOU = result.ActualSide(models.MarketOverUnder25)
	return result, nil
}

type apiTeamStats struct {
	Fixtures struct {
		Played struct {
			Total int `json:"total"`
		} `json:"played"`
	} `json:"fixtures"`
	Goals struct {
		For struct {
			Average struct {
				Total string `json:"total"`
			} `json:"average"`
		} `json:"for"`
		Against struct {
			Average struct {
				Total string `json:"total"`
			} `json:"average"`
		} `json:"against"`
	} `json:"goals"`
	Expected struct {
		For struct {
			Average string `json:"average"`
		} `json:"for"`
	} `json:"expected"`
	OverUnder struct {
		Over25Rate string `json:"over_2_5_rate"`
	} `json:"over_under"`
}

// FetchTeamStats retrieves season statistics for a team. Absent or
// unparseable metrics come back as nil pointers rather than zeros.
func (c *FootballAPIClient) FetchTeamStats(ctx context.Context, teamID, leagueID, season int) (*models.TeamStats, error) {
	url := fmt.Sprintf("%s/teams/statistics?team=%d&league=%d&season=%d", c.baseURL, teamID, leagueID, season)

	var raw apiTeamStats
	if err := c.get(ctx, url, &raw); err != nil {
		return nil, err
	}

	return &models.TeamStats{
		XGForAvg:       parseFloatField(raw.Expected.For.Average),
		GFAvg:          parseFloatField(raw.Goals.For.Average.Total),
		OU25Rate:       parseFloatField(raw.OverUnder.Over25Rate),
		GoalsForPG:     parseFloatField(raw.Goals.For.Average.Total),
		GoalsAgainstPG: parseFloatField(raw.Goals.Against.Average.Total),
	}, nil
}

type apiInjury struct {
	Player struct {
		Name string `json:"name"`
	} `json:"player"`
}

// FetchInjuries retrieves the current injury list for a team
func (c *FootballAPIClient) FetchInjuries(ctx context.Context, teamID, season int) (*models.InjuryReport, error) {
	url := fmt.Sprintf("%s/injuries?team=%d&season=%d", c.baseURL, teamID, season)

	var raw []apiInjury
	if err := c.get(ctx, url, &raw); err != nil {
		return nil, err
	}

	report := &models.InjuryReport{Players: make([]string, 0, len(raw))}
	for _, injury := range raw {
		report.Players = append(report.Players, injury.Player.Name)
	}
	return report, nil
}

// FetchHeadToHead retrieves recent meetings between two teams
func (c *FootballAPIClient) FetchHeadToHead(ctx context.Context, homeID, awayID, limit int) ([]models.H2HScore, error) {
	url := fmt.Sprintf("%s/fixtures/headtohead?h2h=%d-%d&last=%d", c.baseURL, homeID, awayID, limit)

	var raw []apiFixture
	if err := c.get(ctx, url, &raw); err != nil {
		return nil, err
	}

	scores := make([]models.H2HScore, 0, len(raw))
	for _, f := range raw {
		if f.Goals.Home == nil || f.Goals.Away == nil {
			continue
		}
		scores = append(scores, models.H2HScore{
			Score: fmt.Sprintf("%d-%d", *f.Goals.Home, *f.Goals.Away),
		})
	}
	return scores, nil
}

type apiOddsValue struct {
	Value string `json:"value"`
	Odd   string `json:"odd"`
}

type apiBet struct {
	Name   string         `json:"name"`
	Values []apiOddsValue `json:"values"`
}

type apiBookmaker struct {
	Name string   `json:"name"`
	Bets []apiBet `json:"bets"`
}

type apiOdds struct {
	Bookmakers []apiBookmaker `json:"bookmakers"`
}

// FetchOdds returns the over/under 2.5 quote from the preferred bookmaker,
// falling back to the first bookmaker quoting the market.
func (c *FootballAPIClient) FetchOdds(ctx context.Context, fixture models.Fixture) (*models.OddsQuote, error) {
	url := fmt.Sprintf("%s/odds?fixture=%d", c.baseURL, fixture.FixtureID)

	var raw []apiOdds
	if err := c.get(ctx, url, &raw); err != nil {
		return nil, err
	}

	var fallback *models.OddsQuote
	for _, book := range raw {
		for _, bm := range book.Bookmakers {
			quote := extractOverUnderQuote(bm.Bets)
			if quote == nil {
				continue
			}
			quote.Source = models.OddsSourceAPIFootball
			if strings.EqualFold(bm.Name, c.preferredBookmaker) {
				return quote, nil
			}
			if fallback == nil {
				fallback = quote
			}
		}
	}

	if fallback != nil {
		return fallback, nil
	}
	return nil, models.ErrOddsUnavailable
}

func extractOverUnderQuote(bets []apiBet) *models.OddsQuote {
	for _, bet := range bets {
		if !strings.EqualFold(bet.Name, "Goals Over/Under") {
			continue
		}
		quote := &models.OddsQuote{}
		for _, value := range bet.Values {
			switch strings.ToLower(strings.TrimSpace(value.Value)) {
			case "over 2.5":
				quote.Over = parseFloatField(value.Odd)
			case "under 2.5":
				quote.Under = parseFloatField(value.Odd)
			}
		}
		if quote.HasAnySide() {
			return quote
		}
	}
	return nil
}

// get performs an authenticated GET and decodes the response envelope
func (c *FootballAPIClient) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewDataSourceError(sourceFootballAPI, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("x-apisports-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewDataSourceError(sourceFootballAPI, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewDataSourceError(sourceFootballAPI, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(sourceFootballAPI, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return NewDataSourceError(sourceFootballAPI, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return NewDataSourceError(sourceFootballAPI, ErrCodeInvalidData, "failed to parse response", err)
	}
	if len(envelope.Response) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Response, out); err != nil {
		return NewDataSourceError(sourceFootballAPI, ErrCodeInvalidData, "failed to parse response payload", err)
	}
	return nil
}

func parseFloatField(s string) *float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
