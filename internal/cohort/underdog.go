// Package cohort selects the game population the edge hypothesis is
// tested on: same-conference matchups between an AP-ranked favorite and
// an unranked underdog. The validator and the feature engineer both
// consume this package so they always see an identical population.
package cohort

import (
	"github.com/yourusername/underdog-edge/internal/models"
)

// IdentifyUnderdog derives the underdog view of a completed game. The
// team without an AP rank is the underdog; the ranked team is the
// favorite. Returns nil when both or neither team is ranked (the
// matchup cannot be classified) or when the game has no final scores.
func IdentifyUnderdog(game *models.Game) *models.UnderdogRecord {
	if game == nil || !game.IsCompleted() || !game.ExactlyOneRanked() {
		return nil
	}

	record := &models.UnderdogRecord{
		GameID:   game.ID,
		GameDate: game.Date,
		Season:   game.Season,
		Spread:   game.Spread,
	}

	if game.HomeRank.Ranked {
		record.Side = models.UnderdogSideAway
		record.UnderdogTeam = game.AwayTeam
		record.FavoriteTeam = game.HomeTeam
		record.FavoriteRank = game.HomeRank.Value
		record.UnderdogScore = *game.AwayScore
		record.FavoriteScore = *game.HomeScore
	} else {
		record.Side = models.UnderdogSideHome
		record.UnderdogTeam = game.HomeTeam
		record.FavoriteTeam = game.AwayTeam
		record.FavoriteRank = game.AwayRank.Value
		record.UnderdogScore = *game.HomeScore
		record.FavoriteScore = *game.AwayScore
	}

	return record
}
