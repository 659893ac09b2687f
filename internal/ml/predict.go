package ml

import (
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/underdog-edge/internal/edge"
	"github.com/yourusername/underdog-edge/internal/models"
)

// Tier thresholds for single-game recommendations.
const (
	highThreshold   = 0.60
	mediumThreshold = 0.55
)

// Predict scores one game's features against a trained model and
// buckets the probability into a recommendation tier.
func Predict(model *models.TrainedModel, gameID uuid.UUID, features models.FeatureVector) (*models.Prediction, error) {
	if model == nil || len(model.Weights) == 0 {
		return nil, models.ErrNoModelLoaded
	}

	probability := model.Probability(features)
	return &models.Prediction{
		GameID:           gameID,
		ModelID:          model.ID,
		CoverProbability: probability,
		Tier:             tierFor(probability),
		EdgeVsBreakeven:  probability - edge.DefaultBreakeven,
		PredictedAt:      time.Now().UTC(),
	}, nil
}

func tierFor(probability float64) models.RecommendationTier {
	switch {
	case probability >= highThreshold:
		return models.TierHigh
	case probability >= mediumThreshold:
		return models.TierMedium
	default:
		return models.TierPass
	}
}
