// Package backtest simulates flat-stake wagering on model-selected
// underdogs at fixed -110/-110 odds and sizes future stakes with a
// fractional Kelly criterion.
package backtest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/underdog-edge/internal/features"
	"github.com/yourusername/underdog-edge/internal/models"
)

// Fixed -110/-110 American odds convention: every bet risks 110 units
// to win 100. Real moneylines vary; this is a documented simplifying
// assumption, not something the simulator tries to correct for.
const (
	RiskPerBet = 110
	WinPerBet  = 100

	// DefaultThreshold is the minimum model probability required to
	// place a bet.
	DefaultThreshold = 0.55

	// DefaultKellyMultiplier scales full Kelly down to quarter Kelly
	// for risk control.
	DefaultKellyMultiplier = 0.25
)

// Config holds the simulation parameters. Zero values fall back to the
// documented defaults.
type Config struct {
	Threshold       float64
	UseSpread       bool
	KellyMultiplier float64
}

func (c Config) withDefaults() Config {
	if c.Threshold <= 0 {
		c.Threshold = DefaultThreshold
	}
	if c.KellyMultiplier <= 0 {
		c.KellyMultiplier = DefaultKellyMultiplier
	}
	return c
}

// Simulate replays the cohort through the model: every game whose
// predicted cover probability clears the threshold gets a flat one-unit
// bet, graded against the realized outcome. Zero selections returns the
// explicit no-bets report, never an error.
func Simulate(model *models.TrainedModel, records []*models.UnderdogRecord, cfg Config) (*models.BacktestReport, error) {
	if model == nil || len(model.Weights) == 0 {
		return nil, models.ErrNoModelLoaded
	}
	cfg = cfg.withDefaults()

	wins, losses, pushes := 0, 0, 0
	for _, record := range records {
		example := features.Engineer(record)
		if model.Probability(example.Features) < cfg.Threshold {
			continue
		}
		switch outcome := record.Outcome(cfg.UseSpread); {
		case outcome.CountsAsWin():
			wins++
		case outcome == models.OutcomeLoss:
			losses++
		default:
			pushes++
		}
	}

	placed := wins + losses + pushes
	if placed == 0 {
		return models.EmptyBacktestReport(model.ID, cfg.Threshold,
			fmt.Sprintf("no bets: no game reached probability threshold %.2f", cfg.Threshold)), nil
	}

	netProfit := decimal.NewFromInt(int64(wins * WinPerBet)).
		Sub(decimal.NewFromInt(int64(losses * RiskPerBet)))
	totalWagered := decimal.NewFromInt(int64(placed * RiskPerBet))

	roi := 0.0
	if placed > 0 {
		net, _ := netProfit.Float64()
		wagered, _ := totalWagered.Float64()
		roi = net / wagered
	}

	// Pushes return the stake; they neither help nor hurt the observed
	// win rate the Kelly sizing is based on.
	winRate := 0.0
	if decided := wins + losses; decided > 0 {
		winRate = float64(wins) / float64(decided)
	}
	kelly := Kelly(winRate)

	return &models.BacktestReport{
		ID:               uuid.New(),
		ModelID:          model.ID,
		RunAt:            time.Now().UTC(),
		Threshold:        cfg.Threshold,
		BetsPlaced:       placed,
		BetsWon:          wins,
		BetsLost:         losses,
		Pushes:           pushes,
		WinRate:          winRate,
		TotalWagered:     totalWagered,
		NetProfit:        netProfit,
		ROI:              roi,
		KellyFraction:    kelly,
		RecommendedStake: kelly * cfg.KellyMultiplier,
	}, nil
}
