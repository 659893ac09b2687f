package edge

import (
	"github.com/yourusername/underdog-edge/internal/models"
)

// tierBounds partition favorite ranks into the reporting buckets.
var tierBounds = []struct {
	label    string
	min, max int
}{
	{"Top 5", 1, 5},
	{"6-15", 6, 15},
	{"16-25", 16, 25},
}

// tierBreakdown computes per-bucket win rates, excluding pushes from
// each denominator. Buckets with no games are omitted.
func tierBreakdown(records []*models.UnderdogRecord, useSpread bool) []models.TierStats {
	tiers := make([]models.TierStats, 0, len(tierBounds))

	for _, bound := range tierBounds {
		tier := models.TierStats{Label: bound.label, MinRank: bound.min, MaxRank: bound.max}
		for _, record := range records {
			if record.FavoriteRank < bound.min || record.FavoriteRank > bound.max {
				continue
			}
			switch outcome := record.Outcome(useSpread); {
			case outcome.CountsAsWin():
				tier.Wins++
			case outcome == models.OutcomeLoss:
				tier.Losses++
			default:
				tier.Pushes++
			}
		}

		decided := tier.Wins + tier.Losses
		if decided == 0 && tier.Pushes == 0 {
			continue
		}
		if decided > 0 {
			tier.WinRate = float64(tier.Wins) / float64(decided)
		}
		tiers = append(tiers, tier)
	}

	return tiers
}
