package ml

import (
	"math"
	"sort"

	"github.com/yourusername/underdog-edge/internal/models"
)

// CVResult summarizes cross-validated diagnostics across folds.
type CVResult struct {
	Folds        int
	AccuracyMean float64
	AccuracyStd  float64
	AUCMean      float64
	AUCStd       float64
}

// foldSplit is one expanding-window split: train on everything before
// the validation block, validate on the block itself.
type foldSplit struct {
	trainEnd int // examples[:trainEnd]
	valEnd   int // examples[trainEnd:valEnd]
}

// chronologicalFolds partitions n ordered samples into k expanding
// windows. Every training set strictly precedes its validation block,
// which is what eliminates lookahead bias. Returns fewer than k splits
// when n is too small for k+1 non-empty blocks.
func chronologicalFolds(n, k int) []foldSplit {
	if k < 2 || n < k+1 {
		return nil
	}
	blockSize := n / (k + 1)
	if blockSize == 0 {
		return nil
	}

	splits := make([]foldSplit, 0, k)
	for i := 1; i <= k; i++ {
		trainEnd := i * blockSize
		valEnd := (i + 1) * blockSize
		if i == k {
			valEnd = n
		}
		splits = append(splits, foldSplit{trainEnd: trainEnd, valEnd: valEnd})
	}
	return splits
}

// crossValidate runs the expanding-window CV over examples that are
// already sorted by date. Folds whose validation block contains only a
// single class contribute accuracy but no AUC.
func (t *Trainer) crossValidate(examples []models.LabeledExample) CVResult {
	splits := chronologicalFolds(len(examples), t.config.Folds)
	if len(splits) == 0 {
		return CVResult{}
	}

	var accuracies, aucs []float64
	for _, split := range splits {
		weights := t.fit(examples[:split.trainEnd])
		model := models.TrainedModel{Weights: weights, FeatureNames: models.FeatureNames}

		val := examples[split.trainEnd:split.valEnd]
		probs := make([]float64, len(val))
		labels := make([]float64, len(val))
		correct := 0
		for i, ex := range val {
			probs[i] = model.Probability(ex.Features)
			labels[i] = ex.Label
			predicted := 0.0
			if probs[i] >= 0.5 {
				predicted = 1.0
			}
			if predicted == ex.Label {
				correct++
			}
		}
		accuracies = append(accuracies, float64(correct)/float64(len(val)))
		if auc, ok := aucROC(probs, labels); ok {
			aucs = append(aucs, auc)
		}
	}

	accMean, accStd := meanStd(accuracies)
	aucMean, aucStd := meanStd(aucs)
	return CVResult{
		Folds:        len(splits),
		AccuracyMean: accMean,
		AccuracyStd:  accStd,
		AUCMean:      aucMean,
		AUCStd:       aucStd,
	}
}

// aucROC computes the area under the ROC curve via the rank-sum
// (Mann-Whitney U) formulation, with midranks for tied scores. Returns
// false when the labels contain only one class.
func aucROC(probs, labels []float64) (float64, bool) {
	type scored struct {
		prob  float64
		label float64
	}
	items := make([]scored, len(probs))
	for i := range probs {
		items[i] = scored{prob: probs[i], label: labels[i]}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].prob < items[j].prob })

	positives, negatives := 0, 0
	for _, item := range items {
		if item.label > 0.5 {
			positives++
		} else {
			negatives++
		}
	}
	if positives == 0 || negatives == 0 {
		return 0, false
	}

	// Midranks over tied probability runs.
	rankSumPos := 0.0
	i := 0
	for i < len(items) {
		j := i
		for j < len(items) && items[j].prob == items[i].prob {
			j++
		}
		midrank := float64(i+j+1) / 2.0 // average of 1-based ranks i+1..j
		for k := i; k < j; k++ {
			if items[k].label > 0.5 {
				rankSumPos += midrank
			}
		}
		i = j
	}

	u := rankSumPos - float64(positives)*float64(positives+1)/2.0
	return u / (float64(positives) * float64(negatives)), true
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}
