package cohort

import (
	"github.com/yourusername/underdog-edge/internal/models"
)

// Exclusion reasons reported by Filter.
const (
	ReasonNotCompleted       = "game not completed"
	ReasonNotSameConference  = "not a same-conference game"
	ReasonNotRankedVsUnranked = "not flagged ranked-vs-unranked"
	ReasonAmbiguousRanking   = "both or neither team ranked"
)

// Excluded records one game that fell out of the cohort and why, so
// callers can report on skipped rows instead of silently losing them.
type Excluded struct {
	Game   *models.Game
	Reason string
}

// FilterResult is the two-channel output of cohort filtering.
type FilterResult struct {
	Eligible []*models.UnderdogRecord
	Excluded []Excluded
}

// Filter restricts games to the target cohort: completed,
// same-conference, flagged ranked-vs-unranked, with exactly one ranked
// side. Order of eligible records follows input order.
func Filter(games []*models.Game) FilterResult {
	result := FilterResult{
		Eligible: make([]*models.UnderdogRecord, 0, len(games)),
	}

	for _, game := range games {
		if game == nil {
			continue
		}
		if !game.IsCompleted() {
			result.Excluded = append(result.Excluded, Excluded{Game: game, Reason: ReasonNotCompleted})
			continue
		}
		if !game.SameConference {
			result.Excluded = append(result.Excluded, Excluded{Game: game, Reason: ReasonNotSameConference})
			continue
		}
		if !game.RankedVsUnranked {
			result.Excluded = append(result.Excluded, Excluded{Game: game, Reason: ReasonNotRankedVsUnranked})
			continue
		}
		record := IdentifyUnderdog(game)
		if record == nil {
			result.Excluded = append(result.Excluded, Excluded{Game: game, Reason: ReasonAmbiguousRanking})
			continue
		}
		result.Eligible = append(result.Eligible, record)
	}

	return result
}
