// Package main provides the entry point for the data ingestion daemon:
// scheduled game syncs, recurring edge revalidation, and health probes.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/underdog-edge/internal/config"
	"github.com/yourusername/underdog-edge/internal/database"
	"github.com/yourusername/underdog-edge/internal/datasource"
	"github.com/yourusername/underdog-edge/internal/health"
	"github.com/yourusername/underdog-edge/internal/logger"
	"github.com/yourusername/underdog-edge/internal/metrics"
	"github.com/yourusername/underdog-edge/internal/repository"
	"github.com/yourusername/underdog-edge/internal/scheduler"
	"github.com/yourusername/underdog-edge/internal/service"
)

// Build information - set via ldflags
var Version = "dev"

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		backfill   = flag.Bool("backfill", false, "Run a historical backfill before starting the scheduler")
		startDate  = flag.String("start-date", "", "Backfill start date (YYYY-MM-DD)")
		endDate    = flag.String("end-date", "", "Backfill end date (YYYY-MM-DD)")
	)
	flag.Parse()

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		secretsCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := config.LoadSecretsFromAWS(secretsCtx, cfg, region, secretName); err != nil {
			cancel()
			log.Fatalf("Failed to load secrets: %v", err)
		}
		cancel()
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"version":     Version,
		"environment": cfg.App.Environment,
	}).Info("Starting data ingestion service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.Fatalf("Failed to initialize repositories: %v", err)
	}

	m := metrics.New()
	source := datasource.NewFromConfig(cfg.DataSource, appLog)

	ingestion := service.NewIngestionService(source, repos.Game, m, appLog, 0)
	analysis := service.NewAnalysisService(repos, cfg, m, appLog)

	if *backfill {
		runBackfill(ctx, ingestion, *startDate, *endDate, appLog)
	}

	sched := scheduler.NewScheduler(ingestion, analysis, appLog)
	if err := sched.ScheduleHistoricalSync(cfg.Schedule.HistoricalSync); err != nil {
		appLog.Fatalf("Failed to schedule sync: %v", err)
	}
	if err := sched.ScheduleRevalidation(cfg.Schedule.Revalidation); err != nil {
		appLog.Fatalf("Failed to schedule revalidation: %v", err)
	}
	if err := sched.Start(); err != nil {
		appLog.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Logger:      appLog,
		DB:          db,
	}
	if cfg.Metrics.Enabled {
		healthCfg.Port = cfg.Metrics.Port
		healthCfg.Metrics = m.Handler()
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		appLog.Fatalf("Failed to start health server: %v", err)
	}
	healthServer.SetReady(true)

	appLog.WithField("next_run", sched.GetNextRun().Format(time.RFC3339)).Info("Service ready")

	<-ctx.Done()
	appLog.Info("Shutdown signal received")
}

func runBackfill(ctx context.Context, ingestion *service.IngestionService, start, end string, appLog *logrus.Logger) {
	if start == "" || end == "" {
		appLog.Fatal("Backfill requires --start-date and --end-date")
	}
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		appLog.Fatalf("Invalid start date: %v", err)
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		appLog.Fatalf("Invalid end date: %v", err)
	}

	summary, err := ingestion.IngestHistoricalData(ctx, startDate, endDate)
	if err != nil {
		appLog.WithError(err).Fatal("Backfill failed")
	}
	appLog.WithFields(logrus.Fields{
		"fetched":   summary.Fetched,
		"persisted": summary.Persisted,
	}).Info("Backfill complete")
}
