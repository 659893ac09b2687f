package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/underdog-edge/internal/database"
	"github.com/yourusername/underdog-edge/internal/models"
)

// PostgresModelRepository implements ModelRepository for PostgreSQL
type PostgresModelRepository struct {
	db *database.DB
}

// NewPostgresModelRepository creates a new model repository
func NewPostgresModelRepository(db *database.DB) ModelRepository {
	return &PostgresModelRepository{db: db}
}

// Insert persists a trained model. Weights and feature names are stored
// as JSONB so the model row is self-describing.
func (r *PostgresModelRepository) Insert(ctx context.Context, model *models.TrainedModel) error {
	weights, err := json.Marshal(model.Weights)
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}
	featureNames, err := json.Marshal(model.FeatureNames)
	if err != nil {
		return fmt.Errorf("failed to marshal feature names: %w", err)
	}

	query := `
		INSERT INTO trained_models (id, version, weights, feature_names, trained_at,
		                            sample_size, cv_accuracy_mean, cv_accuracy_std,
		                            cv_auc_mean, cv_auc_std, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		model.ID, model.Version, weights, featureNames, model.TrainedAt,
		model.SampleSize, model.CVAccuracyMean, model.CVAccuracyStd,
		model.CVAUCMean, model.CVAUCStd, model.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trained model: %w", err)
	}

	return nil
}

// GetActive retrieves the currently active model
func (r *PostgresModelRepository) GetActive(ctx context.Context) (*models.TrainedModel, error) {
	query := `
		SELECT id, version, weights, feature_names, trained_at, sample_size,
		       cv_accuracy_mean, cv_accuracy_std, cv_auc_mean, cv_auc_std, active
		FROM trained_models
		WHERE active = TRUE
		ORDER BY trained_at DESC
		LIMIT 1
	`

	model := &models.TrainedModel{}
	var weights, featureNames []byte
	err := r.db.GetPool().QueryRow(ctx, query).Scan(
		&model.ID, &model.Version, &weights, &featureNames, &model.TrainedAt,
		&model.SampleSize, &model.CVAccuracyMean, &model.CVAccuracyStd,
		&model.CVAUCMean, &model.CVAUCStd, &model.Active,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active model: %w", err)
	}

	if err := json.Unmarshal(weights, &model.Weights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weights: %w", err)
	}
	if err := json.Unmarshal(featureNames, &model.FeatureNames); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feature names: %w", err)
	}

	return model, nil
}

// SetActive marks the given model active and deactivates every other
// model in the same statement batch.
func (r *PostgresModelRepository) SetActive(ctx context.Context, id uuid.UUID) error {
	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := r.db.GetPool().Exec(txCtx, `UPDATE trained_models SET active = FALSE WHERE active = TRUE`); err != nil {
			return fmt.Errorf("failed to deactivate models: %w", err)
		}
		tag, err := r.db.GetPool().Exec(txCtx, `UPDATE trained_models SET active = TRUE WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to activate model: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}
