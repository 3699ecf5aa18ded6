package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/yourusername/goal-edge/internal/models"
)

const sourceOvertime = "overtime"

// totalsMarketTypeID identifies the total-goals child market in the
// Overtime markets payload.
const totalsMarketTypeID = 10002

// OvertimeClient quotes the over/under market from the Overtime sports AMM.
// It is the preferred provider; staking trusts its quotes at full source
// quality.
type OvertimeClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *log.Logger
}

// NewOvertimeClient creates a new Overtime markets client
func NewOvertimeClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *log.Logger) *OvertimeClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &OvertimeClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger,
	}
}

// Name returns the provider name
func (c *OvertimeClient) Name() string {
	return sourceOvertime
}

type overtimeMarket struct {
	GameID       string           `json:"gameId"`
	HomeTeam     string           `json:"homeTeam"`
	AwayTeam     string           `json:"awayTeam"`
	ChildMarkets []overtimeMarket `json:"childMarkets"`
	TypeID       int              `json:"typeId"`
	Line         float64          `json:"line"`
	Odds         []overtimeOdds   `json:"odds"`
}

type overtimeOdds struct {
	Decimal float64 `json:"decimal"`
}

// FetchOdds finds the fixture's total-goals 2.5 market by team names and
// returns its quote. Position 0 is Over, position 1 is Under.
func (c *OvertimeClient) FetchOdds(ctx context.Context, fixture models.Fixture) (*models.OddsQuote, error) {
	url := fmt.Sprintf("%s/markets?sport=Soccer", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError(sourceOvertime, ErrCodeNetworkError, "failed to create request", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(sourceOvertime, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError(sourceOvertime, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var markets []overtimeMarket
	if err := json.NewDecoder(resp.Body).Decode(&markets); err != nil {
		return nil, NewDataSourceError(sourceOvertime, ErrCodeInvalidData, "failed to parse response", err)
	}

	market := matchMarket(markets, fixture)
	if market == nil {
		return nil, models.ErrOddsUnavailable
	}

	quote := extractTotalsQuote(market)
	if quote == nil {
		return nil, models.ErrOddsUnavailable
	}
	return quote, nil
}

// matchMarket pairs an AMM market with a fixture by normalized team names
func matchMarket(markets []overtimeMarket, fixture models.Fixture) *overtimeMarket {
	home := normalizeTeamName(fixture.HomeTeam.Name)
	away := normalizeTeamName(fixture.AwayTeam.Name)
	for i := range markets {
		if normalizeTeamName(markets[i].HomeTeam) == home && normalizeTeamName(markets[i].AwayTeam) == away {
			return &markets[i]
		}
	}
	return nil
}

func extractTotalsQuote(market *overtimeMarket) *models.OddsQuote {
	line := models.MarketOverUnder25.Threshold()
	for _, child := range market.ChildMarkets {
		if child.TypeID != totalsMarketTypeID || child.Line != line {
			continue
		}
		if len(child.Odds) < 2 {
			continue
		}
		quote := &models.OddsQuote{Source: models.OddsSourceOvertime}
		if child.Odds[0].Decimal > 1.0 {
			quote.Over = models.FloatPtr(child.Odds[0].Decimal)
		}
		if child.Odds[1].Decimal > 1.0 {
			quote.Under = models.FloatPtr(child.Odds[1].Decimal)
		}
		if quote.HasAnySide() {
			return quote
		}
	}
	return nil
}

// normalizeTeamName strips punctuation and common suffixes so "Man City"
// and "Manchester City FC" compare loosely equal across providers.
func normalizeTeamName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, suffix := range []string{" fc", " cf", " afc", " sc"} {
		name = strings.TrimSuffix(name, suffix)
	}
	replacer := strings.NewReplacer(".", "", "-", " ", "  ", " ")
	return replacer.Replace(name)
}
