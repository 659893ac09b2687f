package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/underdog-edge/internal/datasource"
	"github.com/yourusername/underdog-edge/internal/metrics"
	"github.com/yourusername/underdog-edge/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeDataSource serves canned games or a canned error.
type fakeDataSource struct {
	games []datasource.GameData
	err   error
	calls int
}

func (f *fakeDataSource) FetchGames(ctx context.Context, start, end time.Time) ([]datasource.GameData, error) {
	f.calls++
	return f.games, f.err
}

func (f *fakeDataSource) FetchGameDetails(ctx context.Context, gameID string) (*datasource.GameData, error) {
	for i := range f.games {
		if f.games[i].SourceID == gameID {
			return &f.games[i], nil
		}
	}
	return nil, datasource.ErrNotFound
}

func (f *fakeDataSource) Name() string    { return "fake" }
func (f *fakeDataSource) IsEnabled() bool { return true }

// fakeGameRepo records every upserted game in memory.
type fakeGameRepo struct {
	games      map[uuid.UUID]*models.Game
	candidates []*models.Game
	batchSizes []int
	upsertErr  error
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: make(map[uuid.UUID]*models.Game)}
}

func (f *fakeGameRepo) Upsert(ctx context.Context, game *models.Game) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.games[game.ID] = game
	return nil
}

func (f *fakeGameRepo) UpsertBatch(ctx context.Context, games []*models.Game) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.batchSizes = append(f.batchSizes, len(games))
	for _, game := range games {
		f.games[game.ID] = game
	}
	return nil
}

func (f *fakeGameRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	if game, ok := f.games[id]; ok {
		return game, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeGameRepo) GetCompletedByDateRange(ctx context.Context, start, end time.Time) ([]*models.Game, error) {
	var out []*models.Game
	for _, game := range f.games {
		if game.IsCompleted() && !game.Date.Before(start) && !game.Date.After(end) {
			out = append(out, game)
		}
	}
	return out, nil
}

func (f *fakeGameRepo) GetCohortCandidates(ctx context.Context, season int) ([]*models.Game, error) {
	var out []*models.Game
	for _, game := range f.candidates {
		if game.Season == season {
			out = append(out, game)
		}
	}
	return out, nil
}

func intp(v int) *int { return &v }

func sourceGame(sourceID string, completed bool) datasource.GameData {
	return datasource.GameData{
		SourceID:       sourceID,
		Date:           time.Date(2024, time.December, 10, 19, 0, 0, 0, time.UTC),
		Season:         2024,
		HomeTeam:       "Home College",
		AwayTeam:       "Away College",
		HomeRank:       "12",
		AwayRank:       "",
		HomeScore:      intp(78),
		AwayScore:      intp(70),
		HomeConference: "Big Conference",
		AwayConference: "Big Conference",
		ConferenceGame: true,
		Completed:      completed,
	}
}

func TestIngestHistoricalData(t *testing.T) {
	inProgress := sourceGame("g-2", false)
	missingScore := sourceGame("g-3", true)
	missingScore.HomeScore = nil
	invalid := sourceGame("g-4", true)
	invalid.HomeTeam = ""

	source := &fakeDataSource{games: []datasource.GameData{
		sourceGame("g-1", true),
		inProgress,
		missingScore,
		invalid,
		sourceGame("g-5", true),
		sourceGame("g-6", true),
	}}
	repo := newFakeGameRepo()
	svc := NewIngestionService(source, repo, metrics.New(), testLogger(), 2)

	summary, err := svc.IngestHistoricalData(context.Background(),
		time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 6, summary.Fetched)
	assert.Equal(t, 3, summary.Persisted)
	assert.Equal(t, 3, summary.ParseFailures)
	assert.Equal(t, 0, summary.Errors)
	assert.Len(t, repo.games, 3)

	// Batch size 2 means one full batch plus a final partial flush.
	assert.Equal(t, []int{2, 1}, repo.batchSizes)
}

func TestIngestHistoricalDataFetchFailure(t *testing.T) {
	source := &fakeDataSource{err: datasource.NewDataSourceError("fake",
		datasource.ErrCodeServerError, "upstream down", errors.New("boom"))}
	svc := NewIngestionService(source, newFakeGameRepo(), metrics.New(), testLogger(), 0)

	summary, err := svc.IngestHistoricalData(context.Background(), time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 0, summary.Persisted)
}

func TestConvertGameReasons(t *testing.T) {
	svc := NewIngestionService(&fakeDataSource{}, newFakeGameRepo(), metrics.New(), testLogger(), 0)

	inProgress := sourceGame("g-1", false)
	game, reason := svc.convertGame(&inProgress)
	assert.Nil(t, game)
	assert.Equal(t, "not_completed", reason)

	noScore := sourceGame("g-2", true)
	noScore.AwayScore = nil
	game, reason = svc.convertGame(&noScore)
	assert.Nil(t, game)
	assert.Equal(t, "missing_score", reason)

	blankTeam := sourceGame("g-3", true)
	blankTeam.AwayTeam = ""
	game, reason = svc.convertGame(&blankTeam)
	assert.Nil(t, game)
	assert.Equal(t, "validation_failed", reason)
}

func TestConvertGameDerivedFields(t *testing.T) {
	svc := NewIngestionService(&fakeDataSource{}, newFakeGameRepo(), metrics.New(), testLogger(), 0)

	data := sourceGame("g-1", true)
	game, reason := svc.convertGame(&data)
	require.NotNil(t, game, reason)

	assert.True(t, game.SameConference)
	assert.True(t, game.RankedVsUnranked)
	assert.Equal(t, models.RankOf(12), game.HomeRank)
	assert.Equal(t, models.Unranked(), game.AwayRank)

	// Same source record always maps to the same ID, so re-ingestion
	// upserts instead of duplicating.
	again, _ := svc.convertGame(&data)
	require.NotNil(t, again)
	assert.Equal(t, game.ID, again.ID)

	crossConference := sourceGame("g-2", true)
	crossConference.AwayConference = "Other Conference"
	converted, _ := svc.convertGame(&crossConference)
	require.NotNil(t, converted)
	assert.False(t, converted.SameConference)
}

func TestConvertGameNoisyRanks(t *testing.T) {
	svc := NewIngestionService(&fakeDataSource{}, newFakeGameRepo(), metrics.New(), testLogger(), 0)

	data := sourceGame("g-1", true)
	data.HomeRank = "NR"
	data.AwayRank = "7"
	game, _ := svc.convertGame(&data)
	require.NotNil(t, game)

	assert.Equal(t, models.Unranked(), game.HomeRank)
	assert.Equal(t, models.RankOf(7), game.AwayRank)
	assert.True(t, game.RankedVsUnranked)
}
