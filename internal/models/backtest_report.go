package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BacktestReport summarizes a flat-stake simulation at fixed -110/-110
// odds: each selected bet risks 110 units to win 100. Money amounts use
// decimals so that persisted ledgers stay exact; ratios stay float64.
type BacktestReport struct {
	ID               uuid.UUID       `json:"id"`
	ModelID          uuid.UUID       `json:"model_id"`
	RunAt            time.Time       `json:"run_at"`
	Threshold        float64         `json:"threshold"`
	BetsPlaced       int             `json:"bets_placed"`
	BetsWon          int             `json:"bets_won"`
	BetsLost         int             `json:"bets_lost"`
	Pushes           int             `json:"pushes"`
	WinRate          float64         `json:"win_rate"`
	TotalWagered     decimal.Decimal `json:"total_wagered"`
	NetProfit        decimal.Decimal `json:"net_profit"`
	ROI              float64         `json:"roi"`
	KellyFraction    float64         `json:"kelly_fraction"`    // full Kelly, clamped at 0
	RecommendedStake float64         `json:"recommended_stake"` // fractional Kelly
	NoBets           bool            `json:"no_bets"`
	Reason           string          `json:"reason,omitempty"`
}

// EmptyBacktestReport builds the explicit no-bets result for a
// threshold that nothing cleared.
func EmptyBacktestReport(modelID uuid.UUID, threshold float64, reason string) *BacktestReport {
	return &BacktestReport{
		ID:           uuid.New(),
		ModelID:      modelID,
		RunAt:        time.Now().UTC(),
		Threshold:    threshold,
		TotalWagered: decimal.Zero,
		NetProfit:    decimal.Zero,
		NoBets:       true,
		Reason:       reason,
	}
}
