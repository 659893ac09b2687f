package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/underdog-edge/internal/backtest"
	"github.com/yourusername/underdog-edge/internal/cohort"
	"github.com/yourusername/underdog-edge/internal/config"
	"github.com/yourusername/underdog-edge/internal/edge"
	"github.com/yourusername/underdog-edge/internal/features"
	"github.com/yourusername/underdog-edge/internal/metrics"
	"github.com/yourusername/underdog-edge/internal/ml"
	"github.com/yourusername/underdog-edge/internal/models"
	"github.com/yourusername/underdog-edge/internal/repository"
)

// AnalysisService orchestrates the full pipeline: cohort construction,
// edge validation, model training, and backtesting. Each stage persists
// its result so runs are auditable after the fact.
type AnalysisService struct {
	repos           *repository.Repositories
	trainer         *ml.Trainer
	metrics         *metrics.Metrics
	logger          *logrus.Logger
	analysisCfg     config.AnalysisConfig
	modelCfg        config.ModelConfig
	predictionCache *gocache.Cache
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	repos *repository.Repositories,
	cfg *config.Config,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *AnalysisService {
	trainer := ml.NewTrainer(ml.TrainerConfig{
		LearningRate: cfg.Model.LearningRate,
		Iterations:   cfg.Model.Iterations,
		Folds:        cfg.Model.CrossValidationFolds,
	}, logger)

	ttl := time.Duration(cfg.Model.PredictionCacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &AnalysisService{
		repos:           repos,
		trainer:         trainer,
		metrics:         m,
		logger:          logger,
		analysisCfg:     cfg.Analysis,
		modelCfg:        cfg.Model,
		predictionCache: gocache.New(ttl, 2*ttl),
	}
}

// BuildCohort loads a season's completed games and splits them into the
// eligible cohort and the excluded remainder with reasons.
func (s *AnalysisService) BuildCohort(ctx context.Context, season int) (cohort.FilterResult, []*models.UnderdogRecord, error) {
	games, err := s.repos.Game.GetCohortCandidates(ctx, season)
	if err != nil {
		return cohort.FilterResult{}, nil, fmt.Errorf("failed to load cohort candidates: %w", err)
	}

	result := cohort.Filter(games)

	s.metrics.CohortSize.Set(float64(len(result.Eligible)))
	exclusionCounts := make(map[string]int)
	for _, excluded := range result.Excluded {
		exclusionCounts[excluded.Reason]++
	}
	for reason, count := range exclusionCounts {
		s.metrics.CohortExcludedTotal.WithLabelValues(reason).Add(float64(count))
	}

	s.logger.WithFields(logrus.Fields{
		"season":   season,
		"eligible": len(result.Eligible),
		"excluded": len(result.Excluded),
	}).Info("Cohort built")

	return result, result.Eligible, nil
}

// RunValidation executes the statistical edge test over a season's
// cohort and persists the result.
func (s *AnalysisService) RunValidation(ctx context.Context, season int) (*models.ValidationResult, error) {
	_, records, err := s.BuildCohort(ctx, season)
	if err != nil {
		return nil, err
	}

	result := edge.ValidateEdge(records, edge.Options{
		UseSpread:  s.analysisCfg.UseSpread,
		Breakeven:  s.analysisCfg.Breakeven,
		Alpha:      s.analysisCfg.SignificanceLevel,
		Confidence: s.analysisCfg.ConfidenceLevel,
	})

	if err := s.repos.ValidationRun.Insert(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to persist validation result: %w", err)
	}

	s.metrics.RecordValidation(result.EdgeExists, result.WinPercentage,
		result.PValue, result.WilsonLow, result.WilsonHigh)

	s.logger.WithFields(logrus.Fields{
		"season":      season,
		"sample_size": result.SampleSize,
		"win_pct":     result.WinPercentage,
		"p_value":     result.PValue,
		"edge_exists": result.EdgeExists,
		"empty":       result.Empty,
	}).Info("Validation run complete")

	return result, nil
}

// TrainModel fits a cover-probability model on a season's cohort,
// persists it, and marks it active.
func (s *AnalysisService) TrainModel(ctx context.Context, season int) (*models.TrainedModel, error) {
	_, records, err := s.BuildCohort(ctx, season)
	if err != nil {
		return nil, err
	}

	examples := features.EngineerAll(records)
	model, err := s.trainer.Train(examples)
	if err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}

	if err := s.repos.Model.Insert(ctx, model); err != nil {
		return nil, fmt.Errorf("failed to persist model: %w", err)
	}
	if err := s.repos.Model.SetActive(ctx, model.ID); err != nil {
		return nil, fmt.Errorf("failed to activate model: %w", err)
	}
	model.Active = true

	// New model invalidates every cached prediction.
	s.predictionCache.Flush()

	s.metrics.RecordTraining(model.CVAccuracyMean, model.CVAUCMean)

	s.logger.WithFields(logrus.Fields{
		"model_id":    model.ID,
		"sample_size": model.SampleSize,
		"cv_accuracy": model.CVAccuracyMean,
		"cv_auc":      model.CVAUCMean,
	}).Info("Model trained and activated")

	return model, nil
}

// RunBacktest replays a season's cohort through the active model.
func (s *AnalysisService) RunBacktest(ctx context.Context, season int) (*models.BacktestReport, error) {
	model, err := s.repos.Model.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active model: %w", err)
	}

	_, records, err := s.BuildCohort(ctx, season)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report, err := backtest.Simulate(model, records, backtest.Config{
		Threshold:       s.modelCfg.BetThreshold,
		UseSpread:       s.analysisCfg.UseSpread,
		KellyMultiplier: s.modelCfg.KellyFraction,
	})
	if err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}

	if err := s.repos.BacktestReport.Insert(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to persist backtest report: %w", err)
	}

	s.metrics.RecordBacktest(report.ROI, report.WinRate, time.Since(start).Seconds())

	s.logger.WithFields(logrus.Fields{
		"model_id":    report.ModelID,
		"bets_placed": report.BetsPlaced,
		"win_rate":    report.WinRate,
		"roi":         report.ROI,
		"no_bets":     report.NoBets,
	}).Info("Backtest complete")

	return report, nil
}

// PredictGame scores one stored game with the active model. Results are
// cached until the TTL expires or a new model is activated.
func (s *AnalysisService) PredictGame(ctx context.Context, gameID uuid.UUID) (*models.Prediction, error) {
	cacheKey := gameID.String()
	if cached, found := s.predictionCache.Get(cacheKey); found {
		return cached.(*models.Prediction), nil
	}

	model, err := s.repos.Model.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active model: %w", err)
	}

	game, err := s.repos.Game.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	record := cohort.IdentifyUnderdog(game)
	if record == nil {
		return nil, models.NewValidationError("ineligible_game",
			"game is not a completed ranked-vs-unranked matchup")
	}

	example := features.Engineer(record)
	prediction, err := ml.Predict(model, gameID, example.Features)
	if err != nil {
		return nil, err
	}

	s.metrics.PredictionsTotal.WithLabelValues(string(prediction.Tier)).Inc()
	s.predictionCache.Set(cacheKey, prediction, gocache.DefaultExpiration)

	return prediction, nil
}
