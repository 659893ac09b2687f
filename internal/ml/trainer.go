// Package ml trains and scores the underdog cover-probability model: a
// class-weighted logistic regression fitted by gradient descent, with
// chronologically ordered cross-validation so no fold ever trains on
// games played after its validation games.
package ml

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/underdog-edge/internal/models"
)

const (
	defaultLearningRate = 0.15
	defaultIterations   = 500
	defaultFolds        = 5

	// MinTrainingSamples is the sample size below which the trainer
	// logs a reliability warning. Training still proceeds.
	MinTrainingSamples = 100

	modelVersion = "logreg-v1"
)

// TrainerConfig holds the tunable training parameters. Zero values use
// the defaults above.
type TrainerConfig struct {
	LearningRate float64
	Iterations   int
	Folds        int
}

// Trainer fits cover-probability models.
type Trainer struct {
	config TrainerConfig
	logger *logrus.Logger
}

// NewTrainer creates a trainer with the given configuration.
func NewTrainer(cfg TrainerConfig, logger *logrus.Logger) *Trainer {
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = defaultLearningRate
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = defaultIterations
	}
	if cfg.Folds <= 0 {
		cfg.Folds = defaultFolds
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Trainer{config: cfg, logger: logger}
}

// Train cross-validates on chronologically ordered folds, then refits
// on the full dataset for the deployed model. The CV metrics are
// diagnostic only; they never gate training.
func (t *Trainer) Train(examples []models.LabeledExample) (*models.TrainedModel, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("no training examples")
	}
	if len(examples) < MinTrainingSamples {
		t.logger.WithField("samples", len(examples)).
			Warn("Training on a small sample; model reliability is degraded")
	}

	ordered := sortByDate(examples)

	cv := t.crossValidate(ordered)
	t.logger.WithFields(logrus.Fields{
		"folds":       cv.Folds,
		"accuracy":    fmt.Sprintf("%.3f ± %.3f", cv.AccuracyMean, cv.AccuracyStd),
		"auc":         fmt.Sprintf("%.3f ± %.3f", cv.AUCMean, cv.AUCStd),
		"sample_size": len(ordered),
	}).Info("Cross-validation complete")

	weights := t.fit(ordered)

	return &models.TrainedModel{
		ID:             uuid.New(),
		Version:        modelVersion,
		Weights:        weights,
		FeatureNames:   models.FeatureNames,
		TrainedAt:      time.Now().UTC(),
		SampleSize:     len(ordered),
		CVAccuracyMean: cv.AccuracyMean,
		CVAccuracyStd:  cv.AccuracyStd,
		CVAUCMean:      cv.AUCMean,
		CVAUCStd:       cv.AUCStd,
		Active:         true,
	}, nil
}

// fit runs weighted gradient descent on log-loss. Features are
// standardized internally; the returned weights are unfolded back to
// raw feature space so the model stays a plain dot-product scorer.
func (t *Trainer) fit(examples []models.LabeledExample) []float64 {
	featureCount := len(models.FeatureNames)
	rows := make([][]float64, len(examples))
	labels := make([]float64, len(examples))
	for i, ex := range examples {
		rows[i] = ex.Features.Values()
		labels[i] = ex.Label
	}

	means, stds := standardizeStats(rows, featureCount)
	sampleWeights := classBalancedWeights(labels)

	// Weights in standardized space; index 0 is the bias.
	w := make([]float64, featureCount+1)
	n := float64(len(rows))

	for iter := 0; iter < t.config.Iterations; iter++ {
		grad := make([]float64, featureCount+1)
		for i, row := range rows {
			z := w[0]
			for j := 0; j < featureCount; j++ {
				z += w[j+1] * scaled(row[j], means[j], stds[j])
			}
			err := (sigmoid(z) - labels[i]) * sampleWeights[i]
			grad[0] += err
			for j := 0; j < featureCount; j++ {
				grad[j+1] += err * scaled(row[j], means[j], stds[j])
			}
		}
		for j := range w {
			w[j] -= t.config.LearningRate * grad[j] / n
		}
	}

	// Unfold standardization: w_raw[j] = w[j]/std[j],
	// bias_raw = bias - sum(w[j]*mean[j]/std[j]).
	out := make([]float64, featureCount+1)
	out[0] = w[0]
	for j := 0; j < featureCount; j++ {
		out[j+1] = w[j+1] / stds[j]
		out[0] -= w[j+1] * means[j] / stds[j]
	}
	return out
}

// classBalancedWeights assigns each sample total/(2 * classCount) so
// the minority class is not drowned out: underdog win rates sit well
// below 50%, and unweighted training drifts toward always-loss.
func classBalancedWeights(labels []float64) []float64 {
	positives := 0
	for _, y := range labels {
		if y > 0.5 {
			positives++
		}
	}
	negatives := len(labels) - positives

	weights := make([]float64, len(labels))
	for i, y := range labels {
		switch {
		case positives == 0 || negatives == 0:
			weights[i] = 1.0
		case y > 0.5:
			weights[i] = float64(len(labels)) / (2.0 * float64(positives))
		default:
			weights[i] = float64(len(labels)) / (2.0 * float64(negatives))
		}
	}
	return weights
}

func standardizeStats(rows [][]float64, featureCount int) (means, stds []float64) {
	means = make([]float64, featureCount)
	stds = make([]float64, featureCount)
	n := float64(len(rows))
	if n == 0 {
		for j := range stds {
			stds[j] = 1.0
		}
		return means, stds
	}

	for _, row := range rows {
		for j := 0; j < featureCount; j++ {
			means[j] += row[j]
		}
	}
	for j := range means {
		means[j] /= n
	}

	for _, row := range rows {
		for j := 0; j < featureCount; j++ {
			diff := row[j] - means[j]
			stds[j] += diff * diff
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / n)
		if stds[j] == 0 {
			stds[j] = 1.0
		}
	}
	return means, stds
}

func scaled(v, mean, std float64) float64 {
	return (v - mean) / std
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func sortByDate(examples []models.LabeledExample) []models.LabeledExample {
	ordered := make([]models.LabeledExample, len(examples))
	copy(ordered, examples)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].GameDate.Before(ordered[j-1].GameDate); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return ordered
}
