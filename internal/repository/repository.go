package repository

import (
	"fmt"

	"github.com/yourusername/underdog-edge/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Game           GameRepository
	ValidationRun  ValidationRunRepository
	Model          ModelRepository
	BacktestReport BacktestReportRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Game:           NewPostgresGameRepository(db),
		ValidationRun:  NewPostgresValidationRunRepository(db),
		Model:          NewPostgresModelRepository(db),
		BacktestReport: NewPostgresBacktestReportRepository(db),
	}, nil
}
