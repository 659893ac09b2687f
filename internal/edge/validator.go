// Package edge runs the statistical hypothesis test behind the betting
// strategy: do unranked same-conference underdogs beat the spread often
// enough to clear the -110 breakeven rate, and is the excess
// significant?
package edge

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/underdog-edge/internal/models"
	"github.com/yourusername/underdog-edge/internal/stats"
)

// DefaultBreakeven is the win rate required to profit at -110/-110
// odds: 110/(110+100).
const DefaultBreakeven = 0.524

// MinSampleAdvisory is the sample size below which the validator
// attaches a statistical-power advisory to its result.
const MinSampleAdvisory = 500

// Options configure a validation run. Zero values fall back to the
// documented defaults so callers can pass Options{} for the standard
// test.
type Options struct {
	UseSpread  bool
	Breakeven  float64 // default 0.524
	Alpha      float64 // default 0.05
	Confidence float64 // default 0.95
}

func (o Options) withDefaults() Options {
	if o.Breakeven <= 0 {
		o.Breakeven = DefaultBreakeven
	}
	if o.Alpha <= 0 {
		o.Alpha = 0.05
	}
	if o.Confidence <= 0 {
		o.Confidence = 0.95
	}
	return o
}

func (o Options) analysisType() models.AnalysisType {
	if o.UseSpread {
		return models.AnalysisATS
	}
	return models.AnalysisStraightUp
}

// ValidateEdge grades every cohort record, runs the one-sided binomial
// test against 50%, and reports whether the strategy clears both edge
// conditions. Pushes are excluded from the denominator. An empty cohort
// yields the explicit empty result, never an error: zero eligible games
// is a normal early-season state.
func ValidateEdge(records []*models.UnderdogRecord, opts Options) *models.ValidationResult {
	opts = opts.withDefaults()
	analysisType := opts.analysisType()

	if len(records) == 0 {
		return models.EmptyValidationResult(analysisType, "no eligible games in cohort")
	}

	outcomes := make([]models.GameOutcome, 0, len(records))
	wins, losses, pushes := 0, 0, 0
	for _, record := range records {
		outcome := record.Outcome(opts.UseSpread)
		outcomes = append(outcomes, models.GameOutcome{
			GameID:       record.GameID,
			GameDate:     record.GameDate,
			UnderdogTeam: record.UnderdogTeam,
			FavoriteTeam: record.FavoriteTeam,
			FavoriteRank: record.FavoriteRank,
			Margin:       record.Margin(),
			Outcome:      outcome,
			AnalysisType: analysisType,
		})

		switch {
		case outcome.CountsAsWin():
			wins++
		case outcome == models.OutcomeLoss:
			losses++
		default:
			pushes++
		}
	}

	total := wins + losses
	if total == 0 {
		result := models.EmptyValidationResult(analysisType, "no valid games: every outcome was a push")
		result.Pushes = pushes
		result.Outcomes = outcomes
		return result
	}

	winPct := float64(wins) / float64(total)
	pValue := stats.BinomialPValue(wins, total, 0.5)
	interval := stats.WilsonInterval(wins, total, stats.ZScore(opts.Confidence))

	var failed []string
	if winPct <= opts.Breakeven {
		failed = append(failed, fmt.Sprintf("win rate %.4f does not exceed breakeven %.3f", winPct, opts.Breakeven))
	}
	if pValue >= opts.Alpha {
		failed = append(failed, fmt.Sprintf("p-value %.4f not below significance level %.3f", pValue, opts.Alpha))
	}

	result := &models.ValidationResult{
		ID:                uuid.New(),
		RunAt:             time.Now().UTC(),
		AnalysisType:      analysisType,
		SampleSize:        total,
		Wins:              wins,
		Losses:            losses,
		Pushes:            pushes,
		WinPercentage:     winPct,
		PValue:            pValue,
		WilsonLow:         interval.Low,
		WilsonHigh:        interval.High,
		Breakeven:         opts.Breakeven,
		SignificanceLevel: opts.Alpha,
		EdgeExists:        len(failed) == 0,
		FailedConditions:  failed,
		Outcomes:          outcomes,
		Tiers:             tierBreakdown(records, opts.UseSpread),
	}

	if total < MinSampleAdvisory {
		result.Advisory = fmt.Sprintf("insufficient sample size: %d games (want %d+) for reliable inference", total, MinSampleAdvisory)
	}

	return result
}
