// Package scheduler runs the recurring ingestion and revalidation jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/underdog-edge/internal/service"
)

const (
	// syncLookback is how far back the incremental sync reaches; wide
	// enough that a few failed runs never leave a gap in the season.
	syncLookback = 7 * 24 * time.Hour

	jobTimeout      = 1 * time.Hour
	gracefulTimeout = 30 * time.Second
)

// Scheduler manages the recurring ingestion and revalidation jobs.
type Scheduler struct {
	cron      *cron.Cron
	ingestion *service.IngestionService
	analysis  *service.AnalysisService
	logger    *logrus.Logger
	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a new scheduler
func NewScheduler(ingestion *service.IngestionService, analysis *service.AnalysisService, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		ingestion: ingestion,
		analysis:  analysis,
		logger:    logger,
		jobIDs:    make([]cron.EntryID, 0),
	}
}

// ScheduleHistoricalSync schedules the incremental game sync.
func (s *Scheduler) ScheduleHistoricalSync(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		s.logger.Info("Starting scheduled game sync")
		summary, err := s.ingestion.IngestRecent(ctx, syncLookback)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled game sync failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"fetched":   summary.Fetched,
			"persisted": summary.Persisted,
		}).Info("Scheduled game sync complete")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add sync job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled historical sync job")

	return nil
}

// ScheduleRevalidation schedules the recurring edge revalidation, which
// reruns the statistical test over the current season as new games land.
func (s *Scheduler) ScheduleRevalidation(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		season := currentSeason(time.Now().UTC())
		s.logger.WithField("season", season).Info("Starting scheduled revalidation")

		result, err := s.analysis.RunValidation(ctx, season)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled revalidation failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"season":      season,
			"edge_exists": result.EdgeExists,
			"sample_size": result.SampleSize,
		}).Info("Scheduled revalidation complete")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add revalidation job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled revalidation job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for in-flight jobs.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(gracefulTimeout):
		s.logger.Warn("Scheduler stop timed out waiting for running jobs")
	}

	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// currentSeason maps a date to the season-start year: games from
// November onward belong to the season starting that year.
func currentSeason(now time.Time) int {
	if now.Month() >= time.November {
		return now.Year()
	}
	return now.Year() - 1
}
