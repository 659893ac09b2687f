package models

import (
	"time"

	"github.com/google/uuid"
)

// TierStats holds the win rate for one favorite-rank bucket. Pushes are
// excluded from the denominator, matching the headline calculation.
type TierStats struct {
	Label   string  `json:"label"`
	MinRank int     `json:"min_rank"`
	MaxRank int     `json:"max_rank"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Pushes  int     `json:"pushes"`
	WinRate float64 `json:"win_rate"`
}

// ValidationResult is the output of one edge-validation run over a
// cohort of graded games.
type ValidationResult struct {
	ID               uuid.UUID     `json:"id"`
	RunAt            time.Time     `json:"run_at"`
	AnalysisType     AnalysisType  `json:"analysis_type"`
	SampleSize       int           `json:"sample_size"` // wins + losses, pushes excluded
	Wins             int           `json:"wins"`
	Losses           int           `json:"losses"`
	Pushes           int           `json:"pushes"`
	WinPercentage    float64       `json:"win_percentage"`
	PValue           float64       `json:"p_value"`
	WilsonLow        float64       `json:"wilson_low"`
	WilsonHigh       float64       `json:"wilson_high"`
	Breakeven        float64       `json:"breakeven"`
	SignificanceLevel float64      `json:"significance_level"`
	EdgeExists       bool          `json:"edge_exists"`
	FailedConditions []string      `json:"failed_conditions,omitempty"`
	Outcomes         []GameOutcome `json:"outcomes,omitempty"`
	Tiers            []TierStats   `json:"tiers,omitempty"`
	Empty            bool          `json:"empty"`
	Reason           string        `json:"reason,omitempty"`
	Advisory         string        `json:"advisory,omitempty"`
}

// EmptyValidationResult builds the explicit no-data result. Zero
// eligible games is an expected steady state early in a season, not an
// error.
func EmptyValidationResult(analysisType AnalysisType, reason string) *ValidationResult {
	return &ValidationResult{
		ID:           uuid.New(),
		RunAt:        time.Now().UTC(),
		AnalysisType: analysisType,
		Empty:        true,
		Reason:       reason,
	}
}

// HasEdge reports whether both edge conditions held.
func (v *ValidationResult) HasEdge() bool {
	return !v.Empty && v.EdgeExists
}
