package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/underdog-edge/internal/config"
	"github.com/yourusername/underdog-edge/internal/metrics"
	"github.com/yourusername/underdog-edge/internal/models"
	"github.com/yourusername/underdog-edge/internal/repository"
)

type fakeValidationRunRepo struct {
	inserted []*models.ValidationResult
}

func (f *fakeValidationRunRepo) Insert(ctx context.Context, result *models.ValidationResult) error {
	f.inserted = append(f.inserted, result)
	return nil
}

func (f *fakeValidationRunRepo) GetLatest(ctx context.Context) (*models.ValidationResult, error) {
	if len(f.inserted) == 0 {
		return nil, models.ErrNotFound
	}
	return f.inserted[len(f.inserted)-1], nil
}

type fakeModelRepo struct {
	inserted     []*models.TrainedModel
	active       *models.TrainedModel
	activatedIDs []uuid.UUID
	getCalls     int
}

func (f *fakeModelRepo) Insert(ctx context.Context, model *models.TrainedModel) error {
	f.inserted = append(f.inserted, model)
	return nil
}

func (f *fakeModelRepo) GetActive(ctx context.Context) (*models.TrainedModel, error) {
	f.getCalls++
	if f.active == nil {
		return nil, models.ErrNotFound
	}
	return f.active, nil
}

func (f *fakeModelRepo) SetActive(ctx context.Context, id uuid.UUID) error {
	f.activatedIDs = append(f.activatedIDs, id)
	for _, model := range f.inserted {
		if model.ID == id {
			f.active = model
		}
	}
	return nil
}

type fakeBacktestReportRepo struct {
	inserted []*models.BacktestReport
}

func (f *fakeBacktestReportRepo) Insert(ctx context.Context, report *models.BacktestReport) error {
	f.inserted = append(f.inserted, report)
	return nil
}

func (f *fakeBacktestReportRepo) GetByModelID(ctx context.Context, modelID uuid.UUID) ([]*models.BacktestReport, error) {
	var out []*models.BacktestReport
	for _, report := range f.inserted {
		if report.ModelID == modelID {
			out = append(out, report)
		}
	}
	return out, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{
			Breakeven:         0.524,
			SignificanceLevel: 0.05,
			ConfidenceLevel:   0.95,
			MinSampleSize:     500,
		},
		Model: config.ModelConfig{
			BetThreshold:              0.55,
			KellyFraction:             0.25,
			PredictionCacheTTLSeconds: 300,
		},
	}
}

// cohortGame builds a completed same-conference ranked-vs-unranked game
// where the away team is the unranked underdog.
func cohortGame(season, rank, homeScore, awayScore int, day int) *models.Game {
	home := homeScore
	away := awayScore
	return &models.Game{
		ID:               uuid.New(),
		Date:             time.Date(season, time.December, 1, 19, 0, 0, 0, time.UTC).Add(time.Duration(day) * 24 * time.Hour),
		Season:           season,
		HomeTeam:         "Ranked U",
		AwayTeam:         "Unranked U",
		HomeRank:         models.RankOf(rank),
		AwayRank:         models.Unranked(),
		HomeScore:        &home,
		AwayScore:        &away,
		SameConference:   true,
		RankedVsUnranked: true,
	}
}

// seededService builds an AnalysisService over a cohort of the given
// composition: upset wins score 75-70, losses 80-70.
func seededService(wins, losses int) (*AnalysisService, *fakeGameRepo, *fakeValidationRunRepo, *fakeModelRepo, *fakeBacktestReportRepo) {
	gameRepo := newFakeGameRepo()
	day := 0
	for i := 0; i < wins; i++ {
		rank := i%25 + 1
		gameRepo.candidates = append(gameRepo.candidates, cohortGame(2024, rank, 70, 75, day))
		day++
	}
	for i := 0; i < losses; i++ {
		rank := i%25 + 1
		gameRepo.candidates = append(gameRepo.candidates, cohortGame(2024, rank, 80, 70, day))
		day++
	}

	validationRepo := &fakeValidationRunRepo{}
	modelRepo := &fakeModelRepo{}
	backtestRepo := &fakeBacktestReportRepo{}
	repos := &repository.Repositories{
		Game:           gameRepo,
		ValidationRun:  validationRepo,
		Model:          modelRepo,
		BacktestReport: backtestRepo,
	}

	svc := NewAnalysisService(repos, testConfig(), metrics.New(), testLogger())
	return svc, gameRepo, validationRepo, modelRepo, backtestRepo
}

func TestBuildCohortSplitsChannels(t *testing.T) {
	svc, gameRepo, _, _, _ := seededService(3, 2)

	// One extra game that falls out of the cohort at each gate.
	incomplete := cohortGame(2024, 5, 0, 0, 30)
	incomplete.HomeScore = nil
	incomplete.AwayScore = nil
	crossConference := cohortGame(2024, 5, 70, 65, 31)
	crossConference.SameConference = false
	gameRepo.candidates = append(gameRepo.candidates, incomplete, crossConference)

	result, records, err := svc.BuildCohort(context.Background(), 2024)
	require.NoError(t, err)

	assert.Len(t, records, 5)
	assert.Len(t, result.Eligible, 5)
	assert.Len(t, result.Excluded, 2)
}

func TestRunValidationPersistsResult(t *testing.T) {
	svc, _, validationRepo, _, _ := seededService(6, 4)

	result, err := svc.RunValidation(context.Background(), 2024)
	require.NoError(t, err)

	assert.Equal(t, 10, result.SampleSize)
	assert.InDelta(t, 0.6, result.WinPercentage, 1e-12)
	require.Len(t, validationRepo.inserted, 1)
	assert.Equal(t, result, validationRepo.inserted[0])

	latest, err := validationRepo.GetLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.ID, latest.ID)
}

func TestRunValidationEmptySeason(t *testing.T) {
	svc, _, validationRepo, _, _ := seededService(0, 0)

	result, err := svc.RunValidation(context.Background(), 2024)
	require.NoError(t, err)

	assert.True(t, result.Empty)
	assert.False(t, result.EdgeExists)
	// Empty results are persisted too; an audit trail with gaps is worse
	// than one with explicit empty rows.
	assert.Len(t, validationRepo.inserted, 1)
}

func TestTrainModelActivatesAndPersists(t *testing.T) {
	svc, _, _, modelRepo, _ := seededService(40, 80)

	model, err := svc.TrainModel(context.Background(), 2024)
	require.NoError(t, err)

	assert.True(t, model.Active)
	require.Len(t, modelRepo.inserted, 1)
	require.Len(t, modelRepo.activatedIDs, 1)
	assert.Equal(t, model.ID, modelRepo.activatedIDs[0])
	assert.Equal(t, 120, model.SampleSize)
}

func TestTrainModelEmptyCohort(t *testing.T) {
	svc, _, _, _, _ := seededService(0, 0)

	_, err := svc.TrainModel(context.Background(), 2024)
	assert.Error(t, err)
}

func TestRunBacktestPersistsReport(t *testing.T) {
	svc, _, _, modelRepo, backtestRepo := seededService(6, 4)
	modelRepo.active = &models.TrainedModel{
		ID:      uuid.New(),
		Weights: []float64{5, 0, 0, 0, 0, 0}, // bets every game
	}

	report, err := svc.RunBacktest(context.Background(), 2024)
	require.NoError(t, err)

	assert.Equal(t, 10, report.BetsPlaced)
	assert.InDelta(t, 0.6, report.WinRate, 1e-12)
	require.Len(t, backtestRepo.inserted, 1)
	assert.Equal(t, report.ID, backtestRepo.inserted[0].ID)
}

func TestRunBacktestWithoutActiveModel(t *testing.T) {
	svc, _, _, _, _ := seededService(6, 4)

	_, err := svc.RunBacktest(context.Background(), 2024)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPredictGameCachesResult(t *testing.T) {
	svc, gameRepo, _, modelRepo, _ := seededService(0, 0)
	modelRepo.active = &models.TrainedModel{
		ID:      uuid.New(),
		Weights: []float64{5, 0, 0, 0, 0, 0},
	}

	game := cohortGame(2024, 8, 70, 75, 0)
	gameRepo.games[game.ID] = game

	first, err := svc.PredictGame(context.Background(), game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierHigh, first.Tier)
	assert.Equal(t, 1, modelRepo.getCalls)

	// Second call is served from cache without touching the repos.
	second, err := svc.PredictGame(context.Background(), game.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, modelRepo.getCalls)
}

func TestPredictGameIneligible(t *testing.T) {
	svc, gameRepo, _, modelRepo, _ := seededService(0, 0)
	modelRepo.active = &models.TrainedModel{
		ID:      uuid.New(),
		Weights: []float64{0, 0, 0, 0, 0, 0},
	}

	game := cohortGame(2024, 8, 70, 75, 0)
	game.HomeRank = models.Unranked() // neither side ranked
	gameRepo.games[game.ID] = game

	_, err := svc.PredictGame(context.Background(), game.ID)
	require.Error(t, err)

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "ineligible_game", validationErr.Code)
}

func TestPredictGameUnknownID(t *testing.T) {
	svc, _, _, modelRepo, _ := seededService(0, 0)
	modelRepo.active = &models.TrainedModel{
		ID:      uuid.New(),
		Weights: []float64{0, 0, 0, 0, 0, 0},
	}

	_, err := svc.PredictGame(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTrainModelFlushesPredictionCache(t *testing.T) {
	svc, gameRepo, _, modelRepo, _ := seededService(40, 80)
	modelRepo.active = &models.TrainedModel{
		ID:      uuid.New(),
		Weights: []float64{5, 0, 0, 0, 0, 0},
	}

	game := cohortGame(2024, 8, 70, 75, 300)
	gameRepo.games[game.ID] = game

	_, err := svc.PredictGame(context.Background(), game.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, modelRepo.getCalls)

	_, err = svc.TrainModel(context.Background(), 2024)
	require.NoError(t, err)

	// The cache was flushed, so the next prediction reloads the model.
	_, err = svc.PredictGame(context.Background(), game.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, modelRepo.getCalls)
}
