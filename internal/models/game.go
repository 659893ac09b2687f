package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// APRank represents a team's AP poll status as an explicit variant:
// either ranked with a position 1-25, or unranked. A zero-value APRank
// is unranked.
type APRank struct {
	Ranked bool `db:"-" json:"ranked"`
	Value  int  `db:"-" json:"value,omitempty"`
}

// RankOf returns a ranked APRank for positions 1-25. Out-of-range
// positions produce an unranked value.
func RankOf(position int) APRank {
	if position < 1 || position > 25 {
		return APRank{}
	}
	return APRank{Ranked: true, Value: position}
}

// Unranked returns the unranked variant.
func Unranked() APRank {
	return APRank{}
}

// ParseAPRank parses a scraped rank field. Empty, non-numeric, or
// out-of-range values are treated as unranked rather than rejected,
// because the source data is noisy.
func ParseAPRank(raw string) APRank {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Unranked()
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return Unranked()
	}
	return RankOf(value)
}

// Game represents a single scheduled or completed game. Score fields
// are nil until the game has been graded.
type Game struct {
	ID               uuid.UUID  `db:"id" json:"id" validate:"required"`
	Date             time.Time  `db:"game_date" json:"date" validate:"required"`
	Season           int        `db:"season" json:"season" validate:"required,gt=1900"`
	HomeTeam         string     `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam         string     `db:"away_team" json:"away_team" validate:"required"`
	HomeRank         APRank     `db:"-" json:"home_rank"`
	AwayRank         APRank     `db:"-" json:"away_rank"`
	HomeScore        *int       `db:"home_score" json:"home_score"`
	AwayScore        *int       `db:"away_score" json:"away_score"`
	ConferenceGame   bool       `db:"conference_game" json:"conference_game"`
	SameConference   bool       `db:"same_conference" json:"same_conference"`
	RankedVsUnranked bool       `db:"ranked_vs_unranked" json:"ranked_vs_unranked"`
	Spread           *float64   `db:"spread" json:"spread"` // favorite -X, positive X
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// IsCompleted checks whether both final scores are present.
func (g *Game) IsCompleted() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// HasSpread checks whether a closing spread was captured for the game.
func (g *Game) HasSpread() bool {
	return g.Spread != nil
}

// ExactlyOneRanked reports whether exactly one side carries an AP rank,
// which is the definition of a ranked-vs-unranked matchup.
func (g *Game) ExactlyOneRanked() bool {
	return g.HomeRank.Ranked != g.AwayRank.Ranked
}
