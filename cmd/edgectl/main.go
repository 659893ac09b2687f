// Package main provides the edgectl CLI for running edge validation,
// model training, backtests, and single-game predictions.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/underdog-edge/internal/backtest"
	"github.com/yourusername/underdog-edge/internal/config"
	"github.com/yourusername/underdog-edge/internal/database"
	"github.com/yourusername/underdog-edge/internal/logger"
	"github.com/yourusername/underdog-edge/internal/metrics"
	"github.com/yourusername/underdog-edge/internal/repository"
	"github.com/yourusername/underdog-edge/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	season     int
	outputPath string

	cfg      *config.Config
	appLog   *logrus.Logger
	db       *database.DB
	analysis *service.AnalysisService
)

var rootCmd = &cobra.Command{
	Use:   "edgectl",
	Short: "Validate and backtest the ranked-vs-unranked underdog edge",
	Long: `edgectl runs the analysis pipeline over stored game data: the
statistical edge validation, cover-probability model training,
flat-stake backtesting, and single-game predictions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the statistical edge validation over a season's cohort",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		result, err := analysis.RunValidation(ctx, season)
		if err != nil {
			return err
		}

		fmt.Print(backtest.GenerateValidationReport(result))
		if outputPath != "" {
			if err := backtest.WriteJSONReport(result, outputPath); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			appLog.WithField("path", outputPath).Info("Wrote validation report")
		}
		return nil
	},
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train and activate a cover-probability model",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		model, err := analysis.TrainModel(ctx, season)
		if err != nil {
			return err
		}

		fmt.Printf("Trained model %s (version %s)\n", model.ID, model.Version)
		fmt.Printf("  Samples:      %d\n", model.SampleSize)
		fmt.Printf("  CV accuracy:  %.3f ± %.3f\n", model.CVAccuracyMean, model.CVAccuracyStd)
		fmt.Printf("  CV AUC:       %.3f ± %.3f\n", model.CVAUCMean, model.CVAUCStd)
		return nil
	},
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay a season's cohort through the active model",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		report, err := analysis.RunBacktest(ctx, season)
		if err != nil {
			return err
		}

		fmt.Print(backtest.GenerateBacktestReport(report))
		if outputPath != "" {
			if err := backtest.WriteJSONReport(report, outputPath); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			appLog.WithField("path", outputPath).Info("Wrote backtest report")
		}
		return nil
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict <game-id>",
	Short: "Score one stored game with the active model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid game id %q: %w", args[0], err)
		}

		ctx, cancel := commandContext()
		defer cancel()

		prediction, err := analysis.PredictGame(ctx, gameID)
		if err != nil {
			return err
		}

		fmt.Printf("Game %s\n", prediction.GameID)
		fmt.Printf("  Cover probability: %.3f\n", prediction.CoverProbability)
		fmt.Printf("  Recommendation:    %s\n", prediction.Tier)
		fmt.Printf("  Edge vs breakeven: %+.3f\n", prediction.EdgeVsBreakeven)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("edgectl %s (%s)\n", Version, GitCommit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().IntVarP(&season, "season", "s", defaultSeason(), "Season start year to analyze")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Optional JSON output path")

	rootCmd.AddCommand(validateCmd, trainCmd, backtestCmd, predictCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel)
	if cfg.IsProduction() {
		appLog.SetFormatter(&logrus.JSONFormatter{})
	} else {
		appLog.SetLevel(logrus.WarnLevel) // keep CLI output clean for console reports
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	analysis = service.NewAnalysisService(repos, cfg, metrics.New(), appLog)
	return nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Minute)
}

// defaultSeason maps today's date to the season-start year.
func defaultSeason() int {
	now := time.Now().UTC()
	if now.Month() >= time.November {
		return now.Year()
	}
	return now.Year() - 1
}
