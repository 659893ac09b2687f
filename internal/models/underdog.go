package models

import (
	"time"

	"github.com/google/uuid"
)

// UnderdogSide identifies which side of a game the underdog is on.
type UnderdogSide string

const (
	UnderdogSideHome UnderdogSide = "home"
	UnderdogSideAway UnderdogSide = "away"
)

// ATSOutcome represents the graded result of one game from the
// underdog's perspective.
type ATSOutcome string

const (
	OutcomeCover ATSOutcome = "cover" // beat the spread
	OutcomeWin   ATSOutcome = "win"   // straight-up win (no spread available)
	OutcomeLoss  ATSOutcome = "loss"
	OutcomePush  ATSOutcome = "push"
)

// CountsAsWin reports whether the outcome counts toward the win tally.
func (o ATSOutcome) CountsAsWin() bool {
	return o == OutcomeCover || o == OutcomeWin
}

// AnalysisType labels which grading mode produced a result set. The
// straight-up proxy is a documented approximation used when no spread
// data exists; it is never silently mixed with true ATS grading.
type AnalysisType string

const (
	AnalysisATS        AnalysisType = "ATS"
	AnalysisStraightUp AnalysisType = "Straight-Up (proxy)"
)

// UnderdogRecord is the per-game view the validator and feature
// engineer share: the unranked team is the underdog, the ranked team
// the favorite. Computed once per game, never persisted, never mutated.
type UnderdogRecord struct {
	GameID        uuid.UUID
	GameDate      time.Time
	Season        int
	Side          UnderdogSide
	UnderdogTeam  string
	FavoriteTeam  string
	FavoriteRank  int
	UnderdogScore int
	FavoriteScore int
	Spread        *float64
}

// Margin returns the underdog's scoring margin (underdog - favorite).
func (r UnderdogRecord) Margin() int {
	return r.UnderdogScore - r.FavoriteScore
}

// IsHome reports whether the underdog played at home.
func (r UnderdogRecord) IsHome() bool {
	return r.Side == UnderdogSideHome
}

// Outcome grades the record. With a spread the underdog covers when its
// margin beats -spread ("favorite -X" means the dog can lose by up to X
// minus one); without one the straight-up proxy applies.
func (r UnderdogRecord) Outcome(useSpread bool) ATSOutcome {
	margin := float64(r.Margin())
	if useSpread && r.Spread != nil {
		line := -*r.Spread
		switch {
		case margin > line:
			return OutcomeCover
		case margin < line:
			return OutcomeLoss
		default:
			return OutcomePush
		}
	}

	switch {
	case margin > 0:
		return OutcomeWin
	case margin < 0:
		return OutcomeLoss
	default:
		return OutcomePush
	}
}

// GameOutcome pairs a record with its graded outcome for the
// per-game table embedded in a ValidationResult.
type GameOutcome struct {
	GameID       uuid.UUID    `json:"game_id"`
	GameDate     time.Time    `json:"game_date"`
	UnderdogTeam string       `json:"underdog_team"`
	FavoriteTeam string       `json:"favorite_team"`
	FavoriteRank int          `json:"favorite_rank"`
	Margin       int          `json:"margin"`
	Outcome      ATSOutcome   `json:"outcome"`
	AnalysisType AnalysisType `json:"analysis_type"`
}
