// Package features maps cohort games to the fixed feature vectors the
// cover-probability model trains on.
package features

import (
	"sort"
	"time"

	"github.com/yourusername/underdog-edge/internal/models"
)

const (
	// seasonLengthDays normalizes season progress: a college basketball
	// regular season plus conference tournaments spans roughly 165 days
	// from November 1.
	seasonLengthDays = 165.0

	// neutralSeasonProgress is the mid-season fallback used when a game
	// date is missing or unparseable. The feature is approximate by
	// design, so a safe default beats a propagated error.
	neutralSeasonProgress = 0.5
)

// Engineer extracts the 5-field feature vector plus binary label for
// one cohort record.
func Engineer(record *models.UnderdogRecord) models.LabeledExample {
	rank := float64(record.FavoriteRank)

	label := 0.0
	if record.Margin() > 0 {
		label = 1.0
	}

	return models.LabeledExample{
		GameID:   record.GameID,
		GameDate: record.GameDate,
		Features: models.FeatureVector{
			FavoriteRank:   rank,
			RankTier:       float64(RankTier(record.FavoriteRank)),
			IsHome:         boolToFloat(record.IsHome()),
			SeasonProgress: SeasonProgress(record.GameDate),
			RankInverse:    26.0 - rank,
		},
		Label: label,
	}
}

// EngineerAll maps a cohort to labeled examples sorted by game date so
// downstream chronological splits see an ordered dataset.
func EngineerAll(records []*models.UnderdogRecord) []models.LabeledExample {
	examples := make([]models.LabeledExample, 0, len(records))
	for _, record := range records {
		examples = append(examples, Engineer(record))
	}
	sort.SliceStable(examples, func(i, j int) bool {
		return examples[i].GameDate.Before(examples[j].GameDate)
	})
	return examples
}

// RankTier buckets a favorite rank: 1 for top-5, 2 for 6-15, 3 for
// 16-25.
func RankTier(favoriteRank int) int {
	switch {
	case favoriteRank <= 5:
		return 1
	case favoriteRank <= 15:
		return 2
	default:
		return 3
	}
}

// SeasonProgress returns how far into the season a game date falls,
// as days since November 1 of the season-start year divided by the
// season length, clamped to [0,1]. Games in November or December
// belong to the season starting that year; earlier months belong to
// the season started the previous year. A zero date falls back to the
// mid-season default.
func SeasonProgress(date time.Time) float64 {
	if date.IsZero() {
		return neutralSeasonProgress
	}

	startYear := date.Year()
	if date.Month() < time.November {
		startYear--
	}
	seasonStart := time.Date(startYear, time.November, 1, 0, 0, 0, 0, date.Location())

	days := date.Sub(seasonStart).Hours() / 24.0
	progress := days / seasonLengthDays
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

func boolToFloat(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
