package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourusername/underdog-edge/internal/models"
)

// GenerateValidationReport formats a validation result for terminal
// output.
func GenerateValidationReport(result *models.ValidationResult) string {
	var builder strings.Builder
	builder.WriteString("Edge Validation Report\n")
	builder.WriteString("======================\n")
	builder.WriteString(fmt.Sprintf("Analysis Type: %s\n", result.AnalysisType))

	if result.Empty {
		builder.WriteString(fmt.Sprintf("No result: %s\n", result.Reason))
		return builder.String()
	}

	builder.WriteString(fmt.Sprintf("Sample Size: %d (wins %d, losses %d, pushes %d)\n",
		result.SampleSize, result.Wins, result.Losses, result.Pushes))
	builder.WriteString(fmt.Sprintf("Win Rate: %.2f%% (breakeven %.1f%%)\n",
		result.WinPercentage*100, result.Breakeven*100))
	builder.WriteString(fmt.Sprintf("P-Value: %.4f (alpha %.2f)\n", result.PValue, result.SignificanceLevel))
	builder.WriteString(fmt.Sprintf("Wilson 95%% CI: [%.4f, %.4f]\n", result.WilsonLow, result.WilsonHigh))
	builder.WriteString(fmt.Sprintf("Edge Exists: %v\n", result.EdgeExists))
	for _, condition := range result.FailedConditions {
		builder.WriteString(fmt.Sprintf("  failed: %s\n", condition))
	}
	if result.Advisory != "" {
		builder.WriteString(fmt.Sprintf("Advisory: %s\n", result.Advisory))
	}
	if len(result.Tiers) > 0 {
		builder.WriteString("Tier Breakdown:\n")
		for _, tier := range result.Tiers {
			builder.WriteString(fmt.Sprintf("  %-6s wins %3d losses %3d pushes %2d win rate %.2f%%\n",
				tier.Label, tier.Wins, tier.Losses, tier.Pushes, tier.WinRate*100))
		}
	}
	return builder.String()
}

// GenerateBacktestReport formats a backtest report for terminal output.
func GenerateBacktestReport(report *models.BacktestReport) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Threshold: %.2f\n", report.Threshold))

	if report.NoBets {
		builder.WriteString(fmt.Sprintf("No result: %s\n", report.Reason))
		return builder.String()
	}

	builder.WriteString(fmt.Sprintf("Bets Placed: %d (won %d, lost %d, pushed %d)\n",
		report.BetsPlaced, report.BetsWon, report.BetsLost, report.Pushes))
	builder.WriteString(fmt.Sprintf("Win Rate: %.2f%%\n", report.WinRate*100))
	builder.WriteString(fmt.Sprintf("Total Wagered: %s units\n", report.TotalWagered.StringFixed(0)))
	builder.WriteString(fmt.Sprintf("Net Profit: %s units\n", report.NetProfit.StringFixed(0)))
	builder.WriteString(fmt.Sprintf("ROI: %.2f%%\n", report.ROI*100))
	builder.WriteString(fmt.Sprintf("Full Kelly: %.2f%%\n", report.KellyFraction*100))
	builder.WriteString(fmt.Sprintf("Recommended Stake (fractional): %.2f%% of bankroll\n", report.RecommendedStake*100))
	return builder.String()
}

// WriteJSONReport persists any report structure as indented JSON.
func WriteJSONReport(v interface{}, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}

// GenerateCSVExport writes the headline numbers for spreadsheets.
func GenerateCSVExport(result *models.ValidationResult, report *models.BacktestReport, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	csv := "metric,value\n"
	if result != nil && !result.Empty {
		csv += fmt.Sprintf("sample_size,%d\n", result.SampleSize) +
			fmt.Sprintf("win_pct,%.4f\n", result.WinPercentage) +
			fmt.Sprintf("p_value,%.4f\n", result.PValue) +
			fmt.Sprintf("wilson_low,%.4f\n", result.WilsonLow) +
			fmt.Sprintf("wilson_high,%.4f\n", result.WilsonHigh) +
			fmt.Sprintf("edge_exists,%v\n", result.EdgeExists)
	}
	if report != nil && !report.NoBets {
		csv += fmt.Sprintf("bets_placed,%d\n", report.BetsPlaced) +
			fmt.Sprintf("backtest_win_rate,%.4f\n", report.WinRate) +
			fmt.Sprintf("roi,%.4f\n", report.ROI) +
			fmt.Sprintf("kelly_fraction,%.4f\n", report.KellyFraction)
	}
	return os.WriteFile(outputPath, []byte(csv), 0o644)
}
