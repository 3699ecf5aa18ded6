package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/goal-edge/internal/models"
)

// MockFixtureSource is a mock fixture/result source
type MockFixtureSource struct {
	mock.Mock
}

func (m *MockFixtureSource) FetchFixtures(ctx context.Context, from, to time.Time) ([]models.Fixture, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Fixture), args.Error(1)
}

func (m *MockFixtureSource) FetchResult(ctx context.Context, fixtureID int) (*models.MatchResult, error) {
	args := m.Called(ctx, fixtureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchResult), args.Error(1)
}

func (m *MockFixtureSource) Name() string {
	return "mock"
}

// MockSignalSource is a mock signal source
type MockSignalSource struct {
	mock.Mock
}

func (m *MockSignalSource) FetchTeamStats(ctx context.Context, teamID, leagueID, season int) (*models.TeamStats, error) {
	args := m.Called(ctx, teamID, leagueID, season)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamStats), args.Error(1)
}

func (m *MockSignalSource) FetchInjuries(ctx context.Context, teamID, season int) (*models.InjuryReport, error) {
	args := m.Called(ctx, teamID, season)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InjuryReport), args.Error(1)
}

func (m *MockSignalSource) FetchHeadToHead(ctx context.Context, homeID, awayID, limit int) ([]models.H2HScore, error) {
	args := m.Called(ctx, homeID, awayID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.H2HScore), args.Error(1)
}

// MockOddsProvider is a mock odds provider
type MockOddsProvider struct {
	mock.Mock
}

func (m *MockOddsProvider) FetchOdds(ctx context.Context, fixture models.Fixture) (*models.OddsQuote, error) {
	args := m.Called(ctx, fixture)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OddsQuote), args.Error(1)
}

func (m *MockOddsProvider) Name() string {
	return "mock"
}

// MockMatchRepository is a mock match repository
type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) Upsert(ctx context.Context, fixture *models.Fixture) error {
	args := m.Called(ctx, fixture)
	return args.Error(0)
}

func (m *MockMatchRepository) GetByID(ctx context.Context, fixtureID int) (*models.Fixture, error) {
	args := m.Called(ctx, fixtureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Fixture), args.Error(1)
}

func (m *MockMatchRepository) GetInWindow(ctx context.Context, from, to time.Time) ([]*models.Fixture, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Fixture), args.Error(1)
}

// MockPredictionRepository is a mock prediction repository
type MockPredictionRepository struct {
	mock.Mock
}

func (m *MockPredictionRepository) Create(ctx context.Context, prediction *models.ValuePrediction) error {
	args := m.Called(ctx, prediction)
	return args.Error(0)
}

func (m *MockPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ValuePrediction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ValuePrediction), args.Error(1)
}

func (m *MockPredictionRepository) GetLatestForFixture(ctx context.Context, fixtureID int, market models.Market) (*models.ValuePrediction, error) {
	args := m.Called(ctx, fixtureID, market)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ValuePrediction), args.Error(1)
}

func (m *MockPredictionRepository) GetUnsettled(ctx context.Context, kickedOffBefore time.Time) ([]*models.ValuePrediction, error) {
	args := m.Called(ctx, kickedOffBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ValuePrediction), args.Error(1)
}

func (m *MockPredictionRepository) GetTopUnsettledByEdge(ctx context.Context, limit int) ([]*models.ValuePrediction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ValuePrediction), args.Error(1)
}

func (m *MockPredictionRepository) PatchResult(ctx context.Context, id uuid.UUID, result string, isCorrect bool, goalsHome, goalsAway int) error {
	args := m.Called(ctx, id, result, isCorrect, goalsHome, goalsAway)
	return args.Error(0)
}

// MockResultRepository is a mock result repository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Upsert(ctx context.Context, result *models.MatchResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) GetByFixtureID(ctx context.Context, fixtureID int) (*models.MatchResult, error) {
	args := m.Called(ctx, fixtureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchResult), args.Error(1)
}

// MockVerificationRepository is a mock verification repository
type MockVerificationRepository struct {
	mock.Mock
}

func (m *MockVerificationRepository) Upsert(ctx context.Context, verification *models.Verification) error {
	args := m.Called(ctx, verification)
	return args.Error(0)
}

func (m *MockVerificationRepository) GetByPredictionID(ctx context.Context, predictionID uuid.UUID) (*models.Verification, error) {
	args := m.Called(ctx, predictionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Verification), args.Error(1)
}

func (m *MockVerificationRepository) ListChronological(ctx context.Context) ([]*models.Verification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Verification), args.Error(1)
}

// MockBankrollRepository is a mock bankroll repository
type MockBankrollRepository struct {
	mock.Mock
}

func (m *MockBankrollRepository) Append(ctx context.Context, entry *models.BankrollLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockBankrollRepository) GetLatest(ctx context.Context) (*models.BankrollLogEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BankrollLogEntry), args.Error(1)
}

func (m *MockBankrollRepository) HasPrediction(ctx context.Context, predictionID uuid.UUID) (bool, error) {
	args := m.Called(ctx, predictionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBankrollRepository) ListChronological(ctx context.Context) ([]*models.BankrollLogEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BankrollLogEntry), args.Error(1)
}
