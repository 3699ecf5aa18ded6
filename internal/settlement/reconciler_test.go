package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/goal-edge/internal/models"
)

// MockPredictionRepository is a mock implementation of PredictionRepository
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

// MockVerificationRepository is a mock implementation of VerificationRepository
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

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testPrediction(pick models.Side) *models.ValuePrediction {
	return &models.ValuePrediction{
		ID:            uuid.New(),
		FixtureID:     1001,
		Market:        models.MarketOverUnder25,
		Pick:          pick,
		Odds:          1.95,
		ConfidencePct: 74.0,
		StakeFraction: 0.015,
		CreatedAt:     time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}
}

func finalResult(goalsHome, goalsAway int) *models.MatchResult {
	return &models.MatchResult{
		FixtureID: 1001,
		Status:    models.StatusFullTime,
		GoalsHome: goalsHome,
		GoalsAway: goalsAway,
	}
}

func TestReconcile_CorrectOverPick(t *testing.T) {
	predictions := new(MockPredictionRepository)
	verifications := new(MockVerificationRepository)
	reconciler := NewReconciler(predictions, verifications, testLogger())

	prediction := testPrediction(models.SideOver)
	result := finalResult(2, 1)

	verifications.On("GetByPredictionID", mock.Anything, prediction.ID).Return(nil, models.ErrNotFound)
	verifications.On("Upsert", mock.Anything, mock.AnythingOfType("*models.Verification")).Return(nil)
	predictions.On("PatchResult", mock.Anything, prediction.ID, "Over", true, 2, 1).Return(nil)

	verification, err := reconciler.Reconcile(context.Background(), prediction, result)
	require.NoError(t, err)

	assert.Equal(t, prediction.ID, verification.PredictionID)
	assert.True(t, verification.IsCorrect)
	assert.Equal(t, 3, verification.TotalGoals)
	verifications.AssertExpectations(t)
	predictions.AssertExpectations(t)
}

func TestReconcile_ExactlyThresholdGoalsIsUnder(t *testing.T) {
	predictions := new(MockPredictionRepository)
	verifications := new(MockVerificationRepository)
	reconciler := NewReconciler(predictions, verifications, testLogger())

	// 2 total goals sits below the 2.5 line: an Over pick loses.
	prediction := testPrediction(models.SideOver)
	result := finalResult(1, 1)

	verifications.On("GetByPredictionID", mock.Anything, prediction.ID).Return(nil, models.ErrNotFound)
	verifications.On("Upsert", mock.Anything, mock.MatchedBy(func(v *models.Verification) bool {
		return !v.IsCorrect && v.TotalGoals == 2
	})).Return(nil)
	predictions.On("PatchResult", mock.Anything, prediction.ID, "Under", false, 1, 1).Return(nil)

	verification, err := reconciler.Reconcile(context.Background(), prediction, result)
	require.NoError(t, err)
	assert.False(t, verification.IsCorrect)
}

func TestReconcile_NonFinalResultRejected(t *testing.T) {
	reconciler := NewReconciler(new(MockPredictionRepository), new(MockVerificationRepository), testLogger())

	result := finalResult(1, 0)
	result.Status = models.StatusInPlay

	_, err := reconciler.Reconcile(context.Background(), testPrediction(models.SideOver), result)
	assert.ErrorIs(t, err, models.ErrResultNotFinal)
}

func TestReconcile_AbandonedResultRejected(t *testing.T) {
	reconciler := NewReconciler(new(MockPredictionRepository), new(MockVerificationRepository), testLogger())

	result := finalResult(2, 2)
	result.Status = models.StatusAbandoned

	_, err := reconciler.Reconcile(context.Background(), testPrediction(models.SideOver), result)
	assert.ErrorIs(t, err, models.ErrResultNotFinal)
}

func TestReconcile_FixtureMismatchRejected(t *testing.T) {
	reconciler := NewReconciler(new(MockPredictionRepository), new(MockVerificationRepository), testLogger())

	prediction := testPrediction(models.SideOver)
	result := finalResult(2, 1)
	result.FixtureID = 9999

	_, err := reconciler.Reconcile(context.Background(), prediction, result)
	assert.Error(t, err)
}

func TestReconcile_RepeatKeepsOriginalTimestamp(t *testing.T) {
	predictions := new(MockPredictionRepository)
	verifications := new(MockVerificationRepository)
	reconciler := NewReconciler(predictions, verifications, testLogger())

	prediction := testPrediction(models.SideOver)
	result := finalResult(3, 0)
	settledAt := time.Date(2026, 8, 31, 22, 0, 0, 0, time.UTC)

	verifications.On("GetByPredictionID", mock.Anything, prediction.ID).Return(&models.Verification{
		PredictionID: prediction.ID,
		VerifiedAt:   settledAt,
	}, nil)
	verifications.On("Upsert", mock.Anything, mock.MatchedBy(func(v *models.Verification) bool {
		return v.VerifiedAt.Equal(settledAt)
	})).Return(nil)
	predictions.On("PatchResult", mock.Anything, prediction.ID, "Over", true, 3, 0).Return(nil)

	verification, err := reconciler.Reconcile(context.Background(), prediction, result)
	require.NoError(t, err)
	assert.Equal(t, settledAt, verification.VerifiedAt)
}

func TestReconcile_PatchFailureDoesNotBlock(t *testing.T) {
	predictions := new(MockPredictionRepository)
	verifications := new(MockVerificationRepository)
	reconciler := NewReconciler(predictions, verifications, testLogger())

	prediction := testPrediction(models.SideUnder)
	result := finalResult(0, 1)

	verifications.On("GetByPredictionID", mock.Anything, prediction.ID).Return(nil, models.ErrNotFound)
	verifications.On("Upsert", mock.Anything, mock.AnythingOfType("*models.Verification")).Return(nil)
	predictions.On("PatchResult", mock.Anything, prediction.ID, "Under", true, 0, 1).Return(models.ErrNotFound)

	verification, err := reconciler.Reconcile(context.Background(), prediction, result)
	require.NoError(t, err)
	assert.True(t, verification.IsCorrect)
}

func TestReconcileFixture_LatestPredictionWins(t *testing.T) {
	predictions := new(MockPredictionRepository)
	verifications := new(MockVerificationRepository)
	reconciler := NewReconciler(predictions, verifications, testLogger())

	latest := testPrediction(models.SideUnder)
	result := finalResult(1, 0)

	predictions.On("GetLatestForFixture", mock.Anything, 1001, models.MarketOverUnder25).Return(latest, nil)
	verifications.On("GetByPredictionID", mock.Anything, latest.ID).Return(nil, models.ErrNotFound)
	verifications.On("Upsert", mock.Anything, mock.AnythingOfType("*models.Verification")).Return(nil)
	predictions.On("PatchResult", mock.Anything, latest.ID, "Under", true, 1, 0).Return(nil)

	verification, err := reconciler.ReconcileFixture(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, latest.ID, verification.PredictionID)
	predictions.AssertExpectations(t)
}

func TestReconcileFixture_NoPrediction(t *testing.T) {
	predictions := new(MockPredictionRepository)
	reconciler := NewReconciler(predictions, new(MockVerificationRepository), testLogger())

	predictions.On("GetLatestForFixture", mock.Anything, 1001, models.MarketOverUnder25).Return(nil, models.ErrNotFound)

	_, err := reconciler.ReconcileFixture(context.Background(), finalResult(2, 2))
	assert.ErrorIs(t, err, models.ErrNotFound)
}
