package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestParseAPRank(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		ranked bool
		value  int
	}{
		{"valid rank", "5", true, 5},
		{"rank with whitespace", " 12 ", true, 12},
		{"top rank", "1", true, 1},
		{"bottom rank", "25", true, 25},
		{"empty string", "", false, 0},
		{"not ranked marker", "NR", false, 0},
		{"garbage", "abc", false, 0},
		{"zero", "0", false, 0},
		{"out of range", "26", false, 0},
		{"negative", "-3", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank := ParseAPRank(tt.raw)
			assert.Equal(t, tt.ranked, rank.Ranked)
			assert.Equal(t, tt.value, rank.Value)
		})
	}
}

func TestGameExactlyOneRanked(t *testing.T) {
	tests := []struct {
		name     string
		home     APRank
		away     APRank
		expected bool
	}{
		{"home ranked only", RankOf(5), Unranked(), true},
		{"away ranked only", Unranked(), RankOf(12), true},
		{"both ranked", RankOf(3), RankOf(18), false},
		{"neither ranked", Unranked(), Unranked(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := &Game{HomeRank: tt.home, AwayRank: tt.away}
			assert.Equal(t, tt.expected, game.ExactlyOneRanked())
		})
	}
}

func TestUnderdogRecordOutcomeWithSpread(t *testing.T) {
	// Spread is "favorite -X": the underdog covers when its margin
	// beats -X.
	tests := []struct {
		name     string
		margin   []int // underdog score, favorite score
		spread   float64
		expected ATSOutcome
	}{
		{"lost by less than spread", []int{70, 75}, 7.5, OutcomeCover},
		{"lost by more than spread", []int{60, 75}, 7.5, OutcomeLoss},
		{"lost by exactly the spread", []int{68, 75}, 7.0, OutcomePush},
		{"outright win covers", []int{80, 75}, 7.5, OutcomeCover},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := UnderdogRecord{
				UnderdogScore: tt.margin[0],
				FavoriteScore: tt.margin[1],
				Spread:        floatPtr(tt.spread),
			}
			assert.Equal(t, tt.expected, record.Outcome(true))
		})
	}
}

func TestUnderdogRecordOutcomeStraightUpProxy(t *testing.T) {
	tests := []struct {
		name     string
		underdog int
		favorite int
		expected ATSOutcome
	}{
		{"underdog wins", 75, 70, OutcomeWin},
		{"underdog loses", 60, 75, OutcomeLoss},
		{"tie is a push", 70, 70, OutcomePush},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := UnderdogRecord{UnderdogScore: tt.underdog, FavoriteScore: tt.favorite}
			assert.Equal(t, tt.expected, record.Outcome(false))
		})
	}
}

func TestOutcomeWithSpreadFlagButNoSpreadFallsBackToProxy(t *testing.T) {
	record := UnderdogRecord{UnderdogScore: 75, FavoriteScore: 70}
	assert.Equal(t, OutcomeWin, record.Outcome(true))
}

func TestCountsAsWin(t *testing.T) {
	assert.True(t, OutcomeCover.CountsAsWin())
	assert.True(t, OutcomeWin.CountsAsWin())
	assert.False(t, OutcomeLoss.CountsAsWin())
	assert.False(t, OutcomePush.CountsAsWin())
}

func TestFeatureVectorValuesMatchesFeatureNames(t *testing.T) {
	f := FeatureVector{
		FavoriteRank:   5,
		RankTier:       1,
		IsHome:         1,
		SeasonProgress: 0.5,
		RankInverse:    21,
	}
	values := f.Values()
	assert.Len(t, values, len(FeatureNames))
	assert.Equal(t, []float64{5, 1, 1, 0.5, 21}, values)
}

func TestTrainedModelProbability(t *testing.T) {
	model := TrainedModel{Weights: []float64{0, 0, 0, 0, 0, 0}}
	assert.InDelta(t, 0.5, model.Probability(FeatureVector{FavoriteRank: 10}), 1e-12)

	// Weight-length mismatch degrades to no-opinion, not a panic.
	broken := TrainedModel{Weights: []float64{1.0}}
	assert.Equal(t, 0.5, broken.Probability(FeatureVector{}))

	biased := TrainedModel{Weights: []float64{3, 0, 0, 0, 0, 0}}
	assert.Greater(t, biased.Probability(FeatureVector{}), 0.9)
}
