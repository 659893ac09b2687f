package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/underdog-edge/internal/models"
)

// GameRepository defines the interface for game data access
type GameRepository interface {
	Upsert(ctx context.Context, game *models.Game) error
	UpsertBatch(ctx context.Context, games []*models.Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error)
	GetCompletedByDateRange(ctx context.Context, start, end time.Time) ([]*models.Game, error)
	GetCohortCandidates(ctx context.Context, season int) ([]*models.Game, error)
}

// ValidationRunRepository persists edge-validation results
type ValidationRunRepository interface {
	Insert(ctx context.Context, result *models.ValidationResult) error
	GetLatest(ctx context.Context) (*models.ValidationResult, error)
}

// ModelRepository persists trained models
type ModelRepository interface {
	Insert(ctx context.Context, model *models.TrainedModel) error
	GetActive(ctx context.Context) (*models.TrainedModel, error)
	SetActive(ctx context.Context, id uuid.UUID) error
}

// BacktestReportRepository persists backtest results
type BacktestReportRepository interface {
	Insert(ctx context.Context, report *models.BacktestReport) error
	GetByModelID(ctx context.Context, modelID uuid.UUID) ([]*models.BacktestReport, error)
}
