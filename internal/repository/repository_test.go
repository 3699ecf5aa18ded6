package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/database"
	"github.com/yourusername/goal-edge/internal/models"
)

const skipIntegrationMsg = "Integration test - requires a running Postgres (set GOAL_EDGE_TEST_DB=1)"

func setupTestRepos(t *testing.T) *Repositories {
	t.Helper()

	if os.Getenv("GOAL_EDGE_TEST_DB") == "" {
		t.Skip(skipIntegrationMsg)
	}

	cfg := &config.DatabaseConfig{
		Host:               envOr("GOAL_EDGE_DATABASE_HOST", "localhost"),
		Port:               5432,
		Name:               envOr("GOAL_EDGE_DATABASE_NAME", "goal_edge_test"),
		User:               envOr("GOAL_EDGE_DATABASE_USER", "postgres"),
		Password:           envOr("GOAL_EDGE_DATABASE_PASSWORD", "postgres"),
		SSLMode:            "disable",
		MaxConnections:     5,
		MaxIdleConnections: 2,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}
	return repos
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// uniqueFixtureID avoids collisions between test runs against a shared DB
func uniqueFixtureID() int {
	return int(time.Now().UnixNano() % 1_000_000_000)
}

func TestMatchRepositoryUpsert(t *testing.T) {
	repos := setupTestRepos(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fixture := &models.Fixture{
		FixtureID: uniqueFixtureID(),
		Date:      time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second),
		League:    "Premier League",
		Country:   "England",
		HomeTeam:  models.TeamInfo{ID: 40, Name: "Liverpool"},
		AwayTeam:  models.TeamInfo{ID: 50, Name: "Manchester City"},
		Season:    2025,
		LeagueID:  39,
	}

	if err := repos.Match.Upsert(ctx, fixture); err != nil {
		t.Fatalf("failed to upsert fixture: %v", err)
	}

	// second upsert with changed venue must update, not duplicate
	fixture.Venue = "Anfield"
	if err := repos.Match.Upsert(ctx, fixture); err != nil {
		t.Fatalf("failed to re-upsert fixture: %v", err)
	}

	retrieved, err := repos.Match.GetByID(ctx, fixture.FixtureID)
	if err != nil {
		t.Fatalf("failed to retrieve fixture: %v", err)
	}
	if retrieved.Venue != "Anfield" {
		t.Errorf("expected updated venue, got %q", retrieved.Venue)
	}
	if retrieved.HomeTeam.Name != "Liverpool" {
		t.Errorf("expected home team Liverpool, got %q", retrieved.HomeTeam.Name)
	}
}

func TestPredictionRepositoryLifecycle(t *testing.T) {
	repos := setupTestRepos(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fixtureID := uniqueFixtureID()
	fixture := &models.Fixture{
		FixtureID: fixtureID,
		Date:      time.Now().Add(-2 * time.Hour).UTC(),
		HomeTeam:  models.TeamInfo{ID: 1, Name: "Home"},
		AwayTeam:  models.TeamInfo{ID: 2, Name: "Away"},
		Season:    2025,
		LeagueID:  39,
	}
	if err := repos.Match.Upsert(ctx, fixture); err != nil {
		t.Fatalf("failed to upsert fixture: %v", err)
	}

	prediction := &models.ValuePrediction{
		FixtureID:     fixtureID,
		Market:        models.MarketOverUnder25,
		Pick:          models.SideOver,
		Odds:          2.0,
		ConfidencePct: 75.0,
		Edge:          0.08,
		IsValue:       true,
		StakeFraction: 0.015,
		OddsSource:    models.OddsSourceOvertime,
	}
	if err := repos.Prediction.Create(ctx, prediction); err != nil {
		t.Fatalf("failed to create prediction: %v", err)
	}
	if prediction.ID == uuid.Nil {
		t.Fatal("Create did not assign an ID")
	}

	latest, err := repos.Prediction.GetLatestForFixture(ctx, fixtureID, models.MarketOverUnder25)
	if err != nil {
		t.Fatalf("failed to get latest prediction: %v", err)
	}
	if latest.ID != prediction.ID {
		t.Errorf("expected latest prediction %v, got %v", prediction.ID, latest.ID)
	}

	unsettled, err := repos.Prediction.GetUnsettled(ctx, time.Now())
	if err != nil {
		t.Fatalf("failed to get unsettled predictions: %v", err)
	}
	if !containsPrediction(unsettled, prediction.ID) {
		t.Error("expected new prediction in the unsettled set")
	}

	if err := repos.Prediction.PatchResult(ctx, prediction.ID, "Over", true, 2, 1); err != nil {
		t.Fatalf("failed to patch result: %v", err)
	}

	unsettled, err = repos.Prediction.GetUnsettled(ctx, time.Now())
	if err != nil {
		t.Fatalf("failed to get unsettled predictions: %v", err)
	}
	if containsPrediction(unsettled, prediction.ID) {
		t.Error("settled prediction still reported as unsettled")
	}
}

func TestVerificationRepositoryUpsertIsIdempotent(t *testing.T) {
	repos := setupTestRepos(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	verification := &models.Verification{
		PredictionID: uuid.New(),
		FixtureID:    uniqueFixtureID(),
		Market:       models.MarketOverUnder25,
		Pick:         models.SideOver,
		IsCorrect:    true,
		GoalsHome:    2,
		GoalsAway:    1,
		TotalGoals:   3,
		Status:       "FT",
		VerifiedAt:   time.Now().UTC().Truncate(time.Second),
	}

	if err := repos.Verification.Upsert(ctx, verification); err != nil {
		t.Fatalf("failed to upsert verification: %v", err)
	}
	if err := repos.Verification.Upsert(ctx, verification); err != nil {
		t.Fatalf("failed to re-upsert verification: %v", err)
	}

	retrieved, err := repos.Verification.GetByPredictionID(ctx, verification.PredictionID)
	if err != nil {
		t.Fatalf("failed to retrieve verification: %v", err)
	}
	if !retrieved.IsCorrect || retrieved.TotalGoals != 3 {
		t.Errorf("unexpected verification row: %+v", retrieved)
	}
}

func TestBankrollRepositoryAppendAndLatest(t *testing.T) {
	repos := setupTestRepos(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	predictionID := uuid.New()
	entry := &models.BankrollLogEntry{
		ID:               uuid.New(),
		PredictionID:     predictionID,
		Date:             time.Now().UTC().Truncate(time.Second),
		StakeAmount:      decimal.NewFromFloat(1.00),
		Odds:             2.0,
		Result:           models.BetResultWin,
		Profit:           decimal.NewFromFloat(1.00),
		StartingBankroll: decimal.NewFromFloat(100.00),
		BankrollAfter:    decimal.NewFromFloat(101.00),
	}

	if err := repos.Bankroll.Append(ctx, entry); err != nil {
		t.Fatalf("failed to append bankroll entry: %v", err)
	}

	seen, err := repos.Bankroll.HasPrediction(ctx, predictionID)
	if err != nil {
		t.Fatalf("failed to check prediction id: %v", err)
	}
	if !seen {
		t.Error("expected HasPrediction to report the appended entry")
	}

	latest, err := repos.Bankroll.GetLatest(ctx)
	if err != nil {
		t.Fatalf("failed to get latest bankroll entry: %v", err)
	}
	if latest.BankrollAfter.Cmp(entry.StartingBankroll) <= 0 {
		t.Errorf("latest bankroll %s not ahead of starting %s",
			latest.BankrollAfter, entry.StartingBankroll)
	}
}

func containsPrediction(predictions []*models.ValuePrediction, id uuid.UUID) bool {
	for _, p := range predictions {
		if p.ID == id {
			return true
		}
	}
	return false
}
