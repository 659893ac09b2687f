package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/yourusername/underdog-edge/internal/database"
	"github.com/yourusername/underdog-edge/internal/models"
)

// PostgresBacktestReportRepository implements BacktestReportRepository for PostgreSQL
type PostgresBacktestReportRepository struct {
	db *database.DB
}

// NewPostgresBacktestReportRepository creates a new backtest-report repository
func NewPostgresBacktestReportRepository(db *database.DB) BacktestReportRepository {
	return &PostgresBacktestReportRepository{db: db}
}

// Insert persists one backtest report
func (r *PostgresBacktestReportRepository) Insert(ctx context.Context, report *models.BacktestReport) error {
	query := `
		INSERT INTO backtest_reports (id, model_id, run_at, threshold, bets_placed,
		                              bets_won, bets_lost, pushes, win_rate, total_wagered,
		                              net_profit, roi, kelly_fraction, recommended_stake,
		                              no_bets, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		report.ID, report.ModelID, report.RunAt, report.Threshold, report.BetsPlaced,
		report.BetsWon, report.BetsLost, report.Pushes, report.WinRate,
		report.TotalWagered, report.NetProfit, report.ROI, report.KellyFraction,
		report.RecommendedStake, report.NoBets, report.Reason,
	)
	if err != nil {
		return fmt.Errorf("failed to insert backtest report: %w", err)
	}

	return nil
}

// GetByModelID retrieves every backtest run for a model, newest first
func (r *PostgresBacktestReportRepository) GetByModelID(ctx context.Context, modelID uuid.UUID) ([]*models.BacktestReport, error) {
	query := `
		SELECT id, model_id, run_at, threshold, bets_placed, bets_won, bets_lost,
		       pushes, win_rate, total_wagered, net_profit, roi, kelly_fraction,
		       recommended_stake, no_bets, reason
		FROM backtest_reports
		WHERE model_id = $1
		ORDER BY run_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to query backtest reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.BacktestReport
	for rows.Next() {
		report := &models.BacktestReport{}
		err := rows.Scan(
			&report.ID, &report.ModelID, &report.RunAt, &report.Threshold,
			&report.BetsPlaced, &report.BetsWon, &report.BetsLost, &report.Pushes,
			&report.WinRate, &report.TotalWagered, &report.NetProfit, &report.ROI,
			&report.KellyFraction, &report.RecommendedStake, &report.NoBets, &report.Reason,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan backtest report: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}
