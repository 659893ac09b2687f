package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/underdog-edge/internal/database"
	"github.com/yourusername/underdog-edge/internal/models"
)

const errScanGame = "failed to scan game: %w"

const gameColumns = `
	id, game_date, season, home_team, away_team, home_ap_rank, away_ap_rank,
	home_score, away_score, conference_game, same_conference, ranked_vs_unranked,
	spread, created_at, updated_at`

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// Upsert inserts or updates a game keyed by its ID
func (r *PostgresGameRepository) Upsert(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (id, game_date, season, home_team, away_team, home_ap_rank,
		                   away_ap_rank, home_score, away_score, conference_game,
		                   same_conference, ranked_vs_unranked, spread, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			home_ap_rank = EXCLUDED.home_ap_rank,
			away_ap_rank = EXCLUDED.away_ap_rank,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			spread = EXCLUDED.spread,
			updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		game.ID, game.Date, game.Season, game.HomeTeam, game.AwayTeam,
		rankToNullable(game.HomeRank), rankToNullable(game.AwayRank),
		game.HomeScore, game.AwayScore, game.ConferenceGame,
		game.SameConference, game.RankedVsUnranked, game.Spread,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	return nil
}

// UpsertBatch upserts games within a single transaction
func (r *PostgresGameRepository) UpsertBatch(ctx context.Context, games []*models.Game) error {
	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, game := range games {
			if err := r.Upsert(txCtx, game); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a game by ID
func (r *PostgresGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	query := `SELECT` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(r.db.GetPool().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// GetCompletedByDateRange retrieves completed games within a date range,
// ordered by game date for downstream chronological processing
func (r *PostgresGameRepository) GetCompletedByDateRange(ctx context.Context, start, end time.Time) ([]*models.Game, error) {
	query := `
		SELECT` + gameColumns + `
		FROM games
		WHERE game_date >= $1 AND game_date <= $2
		  AND home_score IS NOT NULL AND away_score IS NOT NULL
		ORDER BY game_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed games: %w", err)
	}
	defer rows.Close()

	return collectGames(rows)
}

// GetCohortCandidates retrieves completed same-conference
// ranked-vs-unranked games for a season. Season 0 means all seasons.
func (r *PostgresGameRepository) GetCohortCandidates(ctx context.Context, season int) ([]*models.Game, error) {
	query := `
		SELECT` + gameColumns + `
		FROM games
		WHERE same_conference = TRUE AND ranked_vs_unranked = TRUE
		  AND home_score IS NOT NULL AND away_score IS NOT NULL
		  AND ($1 = 0 OR season = $1)
		ORDER BY game_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query cohort candidates: %w", err)
	}
	defer rows.Close()

	return collectGames(rows)
}

func collectGames(rows pgx.Rows) ([]*models.Game, error) {
	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func scanGame(row pgx.Row) (*models.Game, error) {
	game := &models.Game{}
	var homeRank, awayRank *int
	err := row.Scan(
		&game.ID, &game.Date, &game.Season, &game.HomeTeam, &game.AwayTeam,
		&homeRank, &awayRank, &game.HomeScore, &game.AwayScore,
		&game.ConferenceGame, &game.SameConference, &game.RankedVsUnranked,
		&game.Spread, &game.CreatedAt, &game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	game.HomeRank = nullableToRank(homeRank)
	game.AwayRank = nullableToRank(awayRank)
	return game, nil
}

func rankToNullable(rank models.APRank) *int {
	if !rank.Ranked {
		return nil
	}
	value := rank.Value
	return &value
}

func nullableToRank(value *int) models.APRank {
	if value == nil {
		return models.Unranked()
	}
	return models.RankOf(*value)
}
