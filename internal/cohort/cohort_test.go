package cohort

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/underdog-edge/internal/models"
)

func completedGame(homeRank, awayRank models.APRank, homeScore, awayScore int) *models.Game {
	return &models.Game{
		ID:               uuid.New(),
		Date:             time.Date(2025, time.January, 15, 19, 0, 0, 0, time.UTC),
		Season:           2024,
		HomeTeam:         "Home U",
		AwayTeam:         "Away State",
		HomeRank:         homeRank,
		AwayRank:         awayRank,
		HomeScore:        &homeScore,
		AwayScore:        &awayScore,
		SameConference:   true,
		RankedVsUnranked: homeRank.Ranked != awayRank.Ranked,
	}
}

func TestIdentifyUnderdogRankedHome(t *testing.T) {
	// Ranked home favorite, unranked away underdog that wins outright.
	game := completedGame(models.RankOf(5), models.Unranked(), 70, 75)

	record := IdentifyUnderdog(game)
	require.NotNil(t, record)

	assert.Equal(t, models.UnderdogSideAway, record.Side)
	assert.Equal(t, "Away State", record.UnderdogTeam)
	assert.Equal(t, "Home U", record.FavoriteTeam)
	assert.Equal(t, 5, record.FavoriteRank)
	assert.Equal(t, 5, record.Margin())
	assert.Equal(t, models.OutcomeWin, record.Outcome(false))
}

func TestIdentifyUnderdogRankedAway(t *testing.T) {
	game := completedGame(models.Unranked(), models.RankOf(12), 68, 80)

	record := IdentifyUnderdog(game)
	require.NotNil(t, record)

	assert.Equal(t, models.UnderdogSideHome, record.Side)
	assert.Equal(t, "Home U", record.UnderdogTeam)
	assert.Equal(t, 12, record.FavoriteRank)
	assert.Equal(t, -12, record.Margin())
	assert.True(t, record.IsHome())
}

func TestIdentifyUnderdogRejectsAmbiguousGames(t *testing.T) {
	bothRanked := completedGame(models.RankOf(3), models.RankOf(18), 70, 75)
	assert.Nil(t, IdentifyUnderdog(bothRanked))

	neitherRanked := completedGame(models.Unranked(), models.Unranked(), 70, 75)
	assert.Nil(t, IdentifyUnderdog(neitherRanked))
}

func TestIdentifyUnderdogRejectsIncompleteGames(t *testing.T) {
	game := completedGame(models.RankOf(5), models.Unranked(), 70, 75)
	game.AwayScore = nil
	assert.Nil(t, IdentifyUnderdog(game))

	assert.Nil(t, IdentifyUnderdog(nil))
}

func TestFilterSplitsEligibleAndExcluded(t *testing.T) {
	eligible := completedGame(models.RankOf(8), models.Unranked(), 60, 65)

	incomplete := completedGame(models.RankOf(8), models.Unranked(), 0, 0)
	incomplete.HomeScore = nil

	crossConference := completedGame(models.RankOf(8), models.Unranked(), 60, 65)
	crossConference.SameConference = false

	notFlagged := completedGame(models.RankOf(8), models.Unranked(), 60, 65)
	notFlagged.RankedVsUnranked = false

	// Flagged ranked-vs-unranked but both sides actually ranked: the
	// flag lies, the rank check catches it.
	ambiguous := completedGame(models.RankOf(2), models.RankOf(20), 60, 65)
	ambiguous.RankedVsUnranked = true

	result := Filter([]*models.Game{eligible, incomplete, crossConference, notFlagged, ambiguous, nil})

	require.Len(t, result.Eligible, 1)
	assert.Equal(t, eligible.ID, result.Eligible[0].GameID)

	require.Len(t, result.Excluded, 4)
	reasons := make(map[string]int)
	for _, ex := range result.Excluded {
		reasons[ex.Reason]++
	}
	assert.Equal(t, 1, reasons[ReasonNotCompleted])
	assert.Equal(t, 1, reasons[ReasonNotSameConference])
	assert.Equal(t, 1, reasons[ReasonNotRankedVsUnranked])
	assert.Equal(t, 1, reasons[ReasonAmbiguousRanking])
}

func TestFilterCohortPurity(t *testing.T) {
	games := []*models.Game{
		completedGame(models.RankOf(1), models.Unranked(), 80, 70),
		completedGame(models.Unranked(), models.RankOf(25), 55, 54),
		completedGame(models.RankOf(10), models.RankOf(11), 70, 70),
	}
	games = append(games, func() *models.Game {
		g := completedGame(models.RankOf(10), models.Unranked(), 70, 71)
		g.SameConference = false
		return g
	}())

	result := Filter(games)
	for _, record := range result.Eligible {
		assert.GreaterOrEqual(t, record.FavoriteRank, 1)
		assert.LessOrEqual(t, record.FavoriteRank, 25)
		assert.NotEmpty(t, record.UnderdogTeam)
		assert.NotEmpty(t, record.FavoriteTeam)
	}
	assert.Len(t, result.Eligible, 2)
}

func TestFilterEmptyInput(t *testing.T) {
	result := Filter(nil)
	assert.Empty(t, result.Eligible)
	assert.Empty(t, result.Excluded)
}
