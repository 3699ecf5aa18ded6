package repository

import (
	"fmt"

	"github.com/yourusername/goal-edge/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Match        MatchRepository
	Prediction   PredictionRepository
	Result       ResultRepository
	Verification VerificationRepository
	Bankroll     BankrollRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Match:        NewPostgresMatchRepository(db),
		Prediction:   NewPostgresPredictionRepository(db),
		Result:       NewPostgresResultRepository(db),
		Verification: NewPostgresVerificationRepository(db),
		Bankroll:     NewPostgresBankrollRepository(db),
	}, nil
}
