package features

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/underdog-edge/internal/models"
)

func TestRankTier(t *testing.T) {
	tests := []struct {
		rank     int
		expected int
	}{
		{1, 1}, {5, 1},
		{6, 2}, {15, 2},
		{16, 3}, {25, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, RankTier(tt.rank), "rank %d", tt.rank)
	}
}

func TestSeasonProgress(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected float64
	}{
		{
			"season opener",
			time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC),
			0.0,
		},
		{
			"december belongs to the season starting that year",
			time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
			30.0 / 165.0,
		},
		{
			"january belongs to the season started the previous year",
			time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			61.0 / 165.0,
		},
		{
			"march sits late in the season",
			time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			120.0 / 165.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SeasonProgress(tt.date), 1e-9)
		})
	}
}

func TestSeasonProgressClampsToUnitInterval(t *testing.T) {
	// Far past the 165-day window.
	late := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1.0, SeasonProgress(late))
}

func TestSeasonProgressZeroDateFallsBackToNeutral(t *testing.T) {
	assert.Equal(t, 0.5, SeasonProgress(time.Time{}))
}

func TestEngineerProducesCanonicalVector(t *testing.T) {
	record := &models.UnderdogRecord{
		GameID:        uuid.New(),
		GameDate:      time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC),
		Side:          models.UnderdogSideHome,
		FavoriteRank:  8,
		UnderdogScore: 75,
		FavoriteScore: 70,
	}

	example := Engineer(record)
	assert.Equal(t, record.GameID, example.GameID)
	assert.Equal(t, 1.0, example.Label, "positive margin labels 1")

	f := example.Features
	assert.Equal(t, 8.0, f.FavoriteRank)
	assert.Equal(t, 2.0, f.RankTier)
	assert.Equal(t, 1.0, f.IsHome)
	assert.InDelta(t, 0.0, f.SeasonProgress, 1e-9)
	assert.Equal(t, 18.0, f.RankInverse)
}

func TestEngineerLabelsLossAndTieAsZero(t *testing.T) {
	loss := Engineer(&models.UnderdogRecord{UnderdogScore: 60, FavoriteScore: 70})
	assert.Equal(t, 0.0, loss.Label)

	tie := Engineer(&models.UnderdogRecord{UnderdogScore: 70, FavoriteScore: 70})
	assert.Equal(t, 0.0, tie.Label)
}

func TestEngineerAllSortsByDate(t *testing.T) {
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	records := []*models.UnderdogRecord{
		{GameID: uuid.New(), GameDate: base.Add(48 * time.Hour)},
		{GameID: uuid.New(), GameDate: base},
		{GameID: uuid.New(), GameDate: base.Add(24 * time.Hour)},
	}

	examples := EngineerAll(records)
	require.Len(t, examples, 3)
	for i := 1; i < len(examples); i++ {
		assert.False(t, examples[i].GameDate.Before(examples[i-1].GameDate))
	}
}
