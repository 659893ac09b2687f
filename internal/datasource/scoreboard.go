package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ScoreboardClient implements DataSource against a college basketball
// scoreboard API that serves final scores, AP ranks, and closing spreads.
type ScoreboardClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *logrus.Logger
}

// scoreboardGame is the provider's wire format for one game
type scoreboardGame struct {
	ID             string   `json:"id"`
	StartDate      string   `json:"startDate"`
	Season         int      `json:"season"`
	HomeTeam       string   `json:"homeTeam"`
	AwayTeam       string   `json:"awayTeam"`
	HomeRank       *string  `json:"homeRank"`
	AwayRank       *string  `json:"awayRank"`
	HomePoints     *int     `json:"homePoints"`
	AwayPoints     *int     `json:"awayPoints"`
	HomeConference string   `json:"homeConference"`
	AwayConference string   `json:"awayConference"`
	ConferenceGame bool     `json:"conferenceGame"`
	Spread         *float64 `json:"spread"`
	Completed      bool     `json:"completed"`
}

// NewScoreboardClient creates a new scoreboard API client
func NewScoreboardClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *logrus.Logger) *ScoreboardClient {
	return &ScoreboardClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchGames retrieves games within the specified date range
func (c *ScoreboardClient) FetchGames(ctx context.Context, startDate, endDate time.Time) ([]GameData, error) {
	if !c.enabled {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "data source is disabled", nil)
	}

	url := fmt.Sprintf("%s/games?from=%s&to=%s", c.baseURL,
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sbGames []scoreboardGame
	if err := json.NewDecoder(body).Decode(&sbGames); err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	games := make([]GameData, 0, len(sbGames))
	for i := range sbGames {
		game, err := c.convertGame(&sbGames[i])
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"game_id": sbGames[i].ID,
				"error":   err.Error(),
			}).Warn("Skipping unparseable game")
			continue
		}
		games = append(games, *game)
	}

	return games, nil
}

// FetchGameDetails retrieves detailed information for a specific game
func (c *ScoreboardClient) FetchGameDetails(ctx context.Context, gameID string) (*GameData, error) {
	if !c.enabled {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "data source is disabled", nil)
	}

	url := fmt.Sprintf("%s/games/%s", c.baseURL, gameID)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sbGame scoreboardGame
	if err := json.NewDecoder(body).Decode(&sbGame); err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	return c.convertGame(&sbGame)
}

// Name returns the data source name
func (c *ScoreboardClient) Name() string {
	return "scoreboard"
}

// IsEnabled returns whether this data source is enabled
func (c *ScoreboardClient) IsEnabled() bool {
	return c.enabled
}

// get performs an authenticated GET and maps HTTP status codes to
// DataSourceError codes. The caller owns the returned body.
func (c *ScoreboardClient) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "failed to create request", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "request failed", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		resp.Body.Close()
		return nil, NewDataSourceError(c.Name(), ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusTooManyRequests:
		resp.Body.Close()
		return nil, NewDataSourceError(c.Name(), ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, NewDataSourceError(c.Name(), ErrCodeNotFound, "resource not found", ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, NewDataSourceError(c.Name(), ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(payload)), nil)
	}

	return resp.Body, nil
}

// convertGame converts the provider format to GameData
func (c *ScoreboardClient) convertGame(sb *scoreboardGame) (*GameData, error) {
	if sb.ID == "" {
		return nil, fmt.Errorf("game missing id")
	}
	if sb.HomeTeam == "" || sb.AwayTeam == "" {
		return nil, fmt.Errorf("game %s missing team names", sb.ID)
	}

	date, err := time.Parse(time.RFC3339, sb.StartDate)
	if err != nil {
		return nil, fmt.Errorf("game %s has invalid start date %q: %w", sb.ID, sb.StartDate, err)
	}

	game := &GameData{
		SourceID:       sb.ID,
		Date:           date.UTC(),
		Season:         sb.Season,
		HomeTeam:       sb.HomeTeam,
		AwayTeam:       sb.AwayTeam,
		HomeScore:      sb.HomePoints,
		AwayScore:      sb.AwayPoints,
		HomeConference: sb.HomeConference,
		AwayConference: sb.AwayConference,
		ConferenceGame: sb.ConferenceGame,
		Spread:         sb.Spread,
		Completed:      sb.Completed,
		CreatedAt:      time.Now().UTC(),
	}
	if sb.HomeRank != nil {
		game.HomeRank = *sb.HomeRank
	}
	if sb.AwayRank != nil {
		game.AwayRank = *sb.AwayRank
	}

	return game, nil
}
