// Package service wires the data, statistics, and model layers into the
// workflows the commands and scheduler run.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/underdog-edge/internal/datasource"
	"github.com/yourusername/underdog-edge/internal/metrics"
	"github.com/yourusername/underdog-edge/internal/models"
	"github.com/yourusername/underdog-edge/internal/repository"
)

const defaultBatchSize = 100

// IngestionSummary reports what one ingestion run did.
type IngestionSummary struct {
	Fetched       int
	Persisted     int
	ParseFailures int
	Errors        int
	Duration      time.Duration
}

// IngestionService pulls graded games from the data source and persists
// them for analysis.
type IngestionService struct {
	source    datasource.DataSource
	gameRepo  repository.GameRepository
	validate  *validator.Validate
	metrics   *metrics.Metrics
	logger    *logrus.Logger
	batchSize int
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	source datasource.DataSource,
	gameRepo repository.GameRepository,
	m *metrics.Metrics,
	logger *logrus.Logger,
	batchSize int,
) *IngestionService {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &IngestionService{
		source:    source,
		gameRepo:  gameRepo,
		validate:  validator.New(),
		metrics:   m,
		logger:    logger,
		batchSize: batchSize,
	}
}

// IngestHistoricalData fetches completed games in the date range and
// upserts them in batches. Individual bad records are counted and
// skipped so one malformed game never sinks a multi-season backfill.
func (s *IngestionService) IngestHistoricalData(ctx context.Context, startDate, endDate time.Time) (*IngestionSummary, error) {
	start := time.Now()
	summary := &IngestionSummary{}

	s.logger.WithFields(logrus.Fields{
		"source": s.source.Name(),
		"from":   startDate.Format("2006-01-02"),
		"to":     endDate.Format("2006-01-02"),
	}).Info("Starting historical ingestion")

	fetched, err := s.source.FetchGames(ctx, startDate, endDate)
	if err != nil {
		summary.Errors++
		return summary, fmt.Errorf("failed to fetch games: %w", err)
	}
	summary.Fetched = len(fetched)

	batch := make([]*models.Game, 0, s.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.gameRepo.UpsertBatch(ctx, batch); err != nil {
			summary.Errors++
			s.logger.WithError(err).WithField("batch_size", len(batch)).Error("Failed to upsert batch")
			batch = batch[:0]
			return err
		}
		summary.Persisted += len(batch)
		s.metrics.GamesIngestedTotal.Add(float64(len(batch)))
		batch = batch[:0]
		return nil
	}

	for i := range fetched {
		game, reason := s.convertGame(&fetched[i])
		if game == nil {
			summary.ParseFailures++
			s.metrics.ParseFailuresTotal.WithLabelValues(reason).Inc()
			s.logger.WithFields(logrus.Fields{
				"source_id": fetched[i].SourceID,
				"reason":    reason,
			}).Warn("Skipping game")
			continue
		}

		batch = append(batch, game)
		if len(batch) >= s.batchSize {
			if err := flush(); err != nil && ctx.Err() != nil {
				return summary, ctx.Err()
			}
		}
	}
	if err := flush(); err != nil && ctx.Err() != nil {
		return summary, ctx.Err()
	}

	summary.Duration = time.Since(start)
	s.metrics.IngestionDuration.Observe(summary.Duration.Seconds())

	s.logger.WithFields(logrus.Fields{
		"fetched":        summary.Fetched,
		"persisted":      summary.Persisted,
		"parse_failures": summary.ParseFailures,
		"errors":         summary.Errors,
		"duration":       summary.Duration.String(),
	}).Info("Historical ingestion complete")

	return summary, nil
}

// IngestRecent pulls the last few days of games, the scheduled
// incremental sync that keeps the season current.
func (s *IngestionService) IngestRecent(ctx context.Context, lookback time.Duration) (*IngestionSummary, error) {
	end := time.Now().UTC()
	return s.IngestHistoricalData(ctx, end.Add(-lookback), end)
}

// convertGame maps provider data to the domain model. A nil return
// carries the parse-failure reason used as the metric label.
func (s *IngestionService) convertGame(data *datasource.GameData) (*models.Game, string) {
	if !data.Completed {
		return nil, "not_completed"
	}
	if data.HomeScore == nil || data.AwayScore == nil {
		return nil, "missing_score"
	}

	homeRank := models.ParseAPRank(data.HomeRank)
	awayRank := models.ParseAPRank(data.AwayRank)

	sameConference := data.HomeConference != "" && data.HomeConference == data.AwayConference

	game := &models.Game{
		ID:               uuid.NewSHA1(uuid.NameSpaceURL, []byte(s.source.Name()+"/"+data.SourceID)),
		Date:             data.Date,
		Season:           data.Season,
		HomeTeam:         data.HomeTeam,
		AwayTeam:         data.AwayTeam,
		HomeRank:         homeRank,
		AwayRank:         awayRank,
		HomeScore:        data.HomeScore,
		AwayScore:        data.AwayScore,
		ConferenceGame:   data.ConferenceGame,
		SameConference:   sameConference,
		RankedVsUnranked: homeRank.Ranked != awayRank.Ranked,
		Spread:           data.Spread,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}

	if err := s.validate.Struct(game); err != nil {
		return nil, "validation_failed"
	}

	return game, ""
}
