package models

import (
	"time"

	"github.com/google/uuid"
)

// FeatureNames lists the model's feature columns in their canonical
// order. Training and inference both index features through this order;
// changing it invalidates every persisted model.
var FeatureNames = []string{
	"favorite_rank",
	"rank_tier",
	"is_home",
	"season_progress",
	"rank_inverse",
}

// FeatureVector is the fixed 5-field input to the cover-probability
// model.
type FeatureVector struct {
	FavoriteRank   float64 `json:"favorite_rank"`   // 1-25
	RankTier       float64 `json:"rank_tier"`       // 1 (top 5), 2 (6-15), 3 (16-25)
	IsHome         float64 `json:"is_home"`         // 1 if underdog at home
	SeasonProgress float64 `json:"season_progress"` // [0,1], days since Nov 1 / 165
	RankInverse    float64 `json:"rank_inverse"`    // 26 - favorite_rank
}

// Values returns the feature columns in FeatureNames order.
func (f FeatureVector) Values() []float64 {
	return []float64{f.FavoriteRank, f.RankTier, f.IsHome, f.SeasonProgress, f.RankInverse}
}

// LabeledExample pairs a feature vector with its outcome label and the
// game date that orders it for chronological cross-validation.
type LabeledExample struct {
	GameID   uuid.UUID     `json:"game_id"`
	GameDate time.Time     `json:"game_date"`
	Features FeatureVector `json:"features"`
	Label    float64       `json:"label"` // 1 if the underdog won/covered
}
