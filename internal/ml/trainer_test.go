package ml

import (
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/underdog-edge/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// syntheticExamples builds a chronologically ordered dataset where
// underdogs facing weak favorites (high rank number) win and underdogs
// facing strong favorites lose.
func syntheticExamples(n int) []models.LabeledExample {
	base := time.Date(2024, time.November, 5, 0, 0, 0, 0, time.UTC)
	examples := make([]models.LabeledExample, n)
	for i := 0; i < n; i++ {
		rank := i%25 + 1
		label := 0.0
		if rank > 15 {
			label = 1.0
		}
		examples[i] = models.LabeledExample{
			GameID:   uuid.New(),
			GameDate: base.Add(time.Duration(i) * 24 * time.Hour),
			Features: models.FeatureVector{
				FavoriteRank:   float64(rank),
				RankTier:       float64(((rank - 1) / 10) + 1),
				IsHome:         float64(i % 2),
				SeasonProgress: float64(i) / float64(n),
				RankInverse:    26.0 - float64(rank),
			},
			Label: label,
		}
	}
	return examples
}

func TestChronologicalFoldsNoLookahead(t *testing.T) {
	examples := syntheticExamples(100)
	splits := chronologicalFolds(len(examples), 5)
	require.Len(t, splits, 5)

	for _, split := range splits {
		require.Greater(t, split.trainEnd, 0)
		require.Greater(t, split.valEnd, split.trainEnd)

		// Every training game strictly precedes every validation game.
		lastTrain := examples[split.trainEnd-1].GameDate
		for _, ex := range examples[split.trainEnd:split.valEnd] {
			assert.True(t, lastTrain.Before(ex.GameDate) || lastTrain.Equal(ex.GameDate))
		}
	}

	// The final fold's validation block reaches the end of the data.
	assert.Equal(t, 100, splits[len(splits)-1].valEnd)
}

func TestChronologicalFoldsExpandingWindows(t *testing.T) {
	splits := chronologicalFolds(120, 5)
	require.Len(t, splits, 5)
	for i := 1; i < len(splits); i++ {
		assert.Greater(t, splits[i].trainEnd, splits[i-1].trainEnd,
			"training window must grow across folds")
	}
}

func TestChronologicalFoldsTooFewSamples(t *testing.T) {
	assert.Nil(t, chronologicalFolds(4, 5))
	assert.Nil(t, chronologicalFolds(0, 5))
	assert.Nil(t, chronologicalFolds(100, 1))
}

func TestClassBalancedWeights(t *testing.T) {
	weights := classBalancedWeights([]float64{1, 0, 0, 0})
	require.Len(t, weights, 4)
	assert.InDelta(t, 2.0, weights[0], 1e-12)     // 4/(2*1)
	assert.InDelta(t, 2.0/3.0, weights[1], 1e-12) // 4/(2*3)

	// Single-class labels degrade to uniform weights.
	uniform := classBalancedWeights([]float64{0, 0, 0})
	assert.Equal(t, []float64{1, 1, 1}, uniform)
}

func TestAUCROC(t *testing.T) {
	perfect, ok := aucROC([]float64{0.9, 0.8, 0.2, 0.1}, []float64{1, 1, 0, 0})
	require.True(t, ok)
	assert.InDelta(t, 1.0, perfect, 1e-12)

	inverted, ok := aucROC([]float64{0.1, 0.2, 0.8, 0.9}, []float64{1, 1, 0, 0})
	require.True(t, ok)
	assert.InDelta(t, 0.0, inverted, 1e-12)

	// All-tied scores are uninformative: AUC 0.5 via midranks.
	tied, ok := aucROC([]float64{0.5, 0.5, 0.5, 0.5}, []float64{1, 1, 0, 0})
	require.True(t, ok)
	assert.InDelta(t, 0.5, tied, 1e-12)

	_, ok = aucROC([]float64{0.4, 0.6}, []float64{1, 1})
	assert.False(t, ok, "single-class labels have no AUC")
}

func TestSortByDateStableAndNonMutating(t *testing.T) {
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	original := []models.LabeledExample{
		{GameDate: base.Add(48 * time.Hour)},
		{GameDate: base},
		{GameDate: base.Add(24 * time.Hour)},
	}

	ordered := sortByDate(original)
	assert.Equal(t, base, ordered[0].GameDate)
	assert.Equal(t, base.Add(48*time.Hour), ordered[2].GameDate)

	// Input slice is untouched.
	assert.Equal(t, base.Add(48*time.Hour), original[0].GameDate)
}

func TestTrainLearnsRankDirection(t *testing.T) {
	trainer := NewTrainer(TrainerConfig{}, quietLogger())

	model, err := trainer.Train(syntheticExamples(200))
	require.NoError(t, err)
	require.Len(t, model.Weights, len(models.FeatureNames)+1)
	assert.Equal(t, 200, model.SampleSize)
	assert.Equal(t, models.FeatureNames, model.FeatureNames)
	assert.NotEqual(t, uuid.Nil, model.ID)

	// Underdogs against a #25 favorite won in training; against a #1
	// favorite they lost. The fitted model must reflect that ordering.
	weakFavorite := models.FeatureVector{
		FavoriteRank: 25, RankTier: 3, IsHome: 1, SeasonProgress: 0.5, RankInverse: 1,
	}
	strongFavorite := models.FeatureVector{
		FavoriteRank: 1, RankTier: 1, IsHome: 1, SeasonProgress: 0.5, RankInverse: 25,
	}
	assert.Greater(t, model.Probability(weakFavorite), model.Probability(strongFavorite))
	assert.Greater(t, model.Probability(weakFavorite), 0.5)
	assert.Less(t, model.Probability(strongFavorite), 0.5)

	// CV diagnostics are populated and sane.
	assert.GreaterOrEqual(t, model.CVAccuracyMean, 0.0)
	assert.LessOrEqual(t, model.CVAccuracyMean, 1.0)
	assert.GreaterOrEqual(t, model.CVAUCMean, 0.0)
	assert.LessOrEqual(t, model.CVAUCMean, 1.0)
}

func TestTrainRejectsEmptyInput(t *testing.T) {
	trainer := NewTrainer(TrainerConfig{}, quietLogger())
	_, err := trainer.Train(nil)
	assert.Error(t, err)
}

func TestTrainSmallSampleWarnsButSucceeds(t *testing.T) {
	trainer := NewTrainer(TrainerConfig{}, quietLogger())
	model, err := trainer.Train(syntheticExamples(30))
	require.NoError(t, err)
	assert.Equal(t, 30, model.SampleSize)
}

func TestPredictTiers(t *testing.T) {
	gameID := uuid.New()
	features := models.FeatureVector{FavoriteRank: 20, RankTier: 3, RankInverse: 6}

	// Bias-only models pin the probability for tier checks.
	tests := []struct {
		bias     float64
		expected models.RecommendationTier
	}{
		{1.0, models.TierHigh},    // sigmoid(1.0) ~ 0.731
		{0.22, models.TierMedium}, // sigmoid(0.22) ~ 0.555
		{-1.0, models.TierPass},
	}

	for _, tt := range tests {
		model := &models.TrainedModel{
			ID:      uuid.New(),
			Weights: []float64{tt.bias, 0, 0, 0, 0, 0},
		}
		prediction, err := Predict(model, gameID, features)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, prediction.Tier)
		assert.InDelta(t, prediction.CoverProbability-0.524, prediction.EdgeVsBreakeven, 1e-12)
	}
}

func TestPredictWithoutModel(t *testing.T) {
	_, err := Predict(nil, uuid.New(), models.FeatureVector{})
	assert.ErrorIs(t, err, models.ErrNoModelLoaded)

	_, err = Predict(&models.TrainedModel{}, uuid.New(), models.FeatureVector{})
	assert.ErrorIs(t, err, models.ErrNoModelLoaded)
}
