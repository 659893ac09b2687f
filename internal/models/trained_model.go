package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// TrainedModel is a fitted logistic-regression classifier mapping a
// FeatureVector to P(underdog covers). Weights[0] is the bias term;
// Weights[1:] align with FeatureNames. Callers treat it as an opaque
// scorer after fit.
type TrainedModel struct {
	ID             uuid.UUID `db:"id" json:"id" validate:"required"`
	Version        string    `db:"version" json:"version" validate:"required"`
	Weights        []float64 `db:"-" json:"weights" validate:"required"`
	FeatureNames   []string  `db:"-" json:"feature_names" validate:"required"`
	TrainedAt      time.Time `db:"trained_at" json:"trained_at" validate:"required"`
	SampleSize     int       `db:"sample_size" json:"sample_size"`
	CVAccuracyMean float64   `db:"cv_accuracy_mean" json:"cv_accuracy_mean"`
	CVAccuracyStd  float64   `db:"cv_accuracy_std" json:"cv_accuracy_std"`
	CVAUCMean      float64   `db:"cv_auc_mean" json:"cv_auc_mean"`
	CVAUCStd       float64   `db:"cv_auc_std" json:"cv_auc_std"`
	Active         bool      `db:"active" json:"active"`
}

// Probability scores one feature vector. Returns 0.5 for a model with
// no weights so that a misloaded model falls back to "no opinion"
// instead of a confident bet.
func (m *TrainedModel) Probability(f FeatureVector) float64 {
	values := f.Values()
	if len(m.Weights) != len(values)+1 {
		return 0.5
	}
	z := m.Weights[0]
	for i, v := range values {
		z += m.Weights[i+1] * v
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

// RecommendationTier buckets a cover probability for consumers.
type RecommendationTier string

const (
	TierHigh   RecommendationTier = "HIGH"   // p >= 0.60
	TierMedium RecommendationTier = "MEDIUM" // 0.55 <= p < 0.60
	TierPass   RecommendationTier = "PASS"   // p < 0.55
)

// Prediction is the single-game inference output.
type Prediction struct {
	GameID           uuid.UUID          `json:"game_id"`
	ModelID          uuid.UUID          `json:"model_id"`
	CoverProbability float64            `json:"cover_probability"`
	Tier             RecommendationTier `json:"recommendation_tier"`
	EdgeVsBreakeven  float64            `json:"edge_vs_breakeven"`
	PredictedAt      time.Time          `json:"predicted_at"`
}
