package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/underdog-edge/internal/database"
	"github.com/yourusername/underdog-edge/internal/models"
)

// PostgresValidationRunRepository implements ValidationRunRepository for PostgreSQL
type PostgresValidationRunRepository struct {
	db *database.DB
}

// NewPostgresValidationRunRepository creates a new validation-run repository
func NewPostgresValidationRunRepository(db *database.DB) ValidationRunRepository {
	return &PostgresValidationRunRepository{db: db}
}

// Insert persists one validation run. The tier breakdown and failed
// conditions land in JSONB columns; the per-game outcome table is not
// persisted (it is reconstructable from the games table).
func (r *PostgresValidationRunRepository) Insert(ctx context.Context, result *models.ValidationResult) error {
	tiers, err := json.Marshal(result.Tiers)
	if err != nil {
		return fmt.Errorf("failed to marshal tiers: %w", err)
	}
	failed, err := json.Marshal(result.FailedConditions)
	if err != nil {
		return fmt.Errorf("failed to marshal failed conditions: %w", err)
	}

	query := `
		INSERT INTO validation_runs (id, run_at, analysis_type, sample_size, wins, losses,
		                             pushes, win_percentage, p_value, wilson_low, wilson_high,
		                             breakeven, significance_level, edge_exists, failed_conditions,
		                             tiers, empty, reason, advisory)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		result.ID, result.RunAt, string(result.AnalysisType), result.SampleSize,
		result.Wins, result.Losses, result.Pushes, result.WinPercentage,
		result.PValue, result.WilsonLow, result.WilsonHigh, result.Breakeven,
		result.SignificanceLevel, result.EdgeExists, failed, tiers,
		result.Empty, result.Reason, result.Advisory,
	)
	if err != nil {
		return fmt.Errorf("failed to insert validation run: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recent validation run
func (r *PostgresValidationRunRepository) GetLatest(ctx context.Context) (*models.ValidationResult, error) {
	query := `
		SELECT id, run_at, analysis_type, sample_size, wins, losses, pushes,
		       win_percentage, p_value, wilson_low, wilson_high, breakeven,
		       significance_level, edge_exists, failed_conditions, tiers,
		       empty, reason, advisory
		FROM validation_runs
		ORDER BY run_at DESC
		LIMIT 1
	`

	result := &models.ValidationResult{}
	var analysisType string
	var failed, tiers []byte
	err := r.db.GetPool().QueryRow(ctx, query).Scan(
		&result.ID, &result.RunAt, &analysisType, &result.SampleSize,
		&result.Wins, &result.Losses, &result.Pushes, &result.WinPercentage,
		&result.PValue, &result.WilsonLow, &result.WilsonHigh, &result.Breakeven,
		&result.SignificanceLevel, &result.EdgeExists, &failed, &tiers,
		&result.Empty, &result.Reason, &result.Advisory,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest validation run: %w", err)
	}

	result.AnalysisType = models.AnalysisType(analysisType)
	if err := json.Unmarshal(failed, &result.FailedConditions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal failed conditions: %w", err)
	}
	if err := json.Unmarshal(tiers, &result.Tiers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tiers: %w", err)
	}

	return result, nil
}
