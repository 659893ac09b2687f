package datasource

import (
	"context"
	"errors"
	"time"
)

// DataSource defines the interface for fetching college basketball game
// data from external providers
type DataSource interface {
	// FetchGames retrieves completed games within the specified date range
	FetchGames(ctx context.Context, startDate, endDate time.Time) ([]GameData, error)

	// FetchGameDetails retrieves detailed information for a specific game
	FetchGameDetails(ctx context.Context, gameID string) (*GameData, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// GameData represents normalized game data from any data source. Ranks and
// scores stay as raw provider strings/pointers here; interpretation happens
// in the ingestion layer.
type GameData struct {
	SourceID       string    `json:"source_id"`       // Provider's unique game ID
	Date           time.Time `json:"date"`            // Kickoff time UTC
	Season         int       `json:"season"`          // Season year (e.g., 2024)
	HomeTeam       string    `json:"home_team"`       // Home team name
	AwayTeam       string    `json:"away_team"`       // Away team name
	HomeRank       string    `json:"home_rank"`       // AP rank as reported ("" or "NR" when unranked)
	AwayRank       string    `json:"away_rank"`       // AP rank as reported
	HomeScore      *int      `json:"home_score"`      // Final home score, nil if in progress
	AwayScore      *int      `json:"away_score"`      // Final away score, nil if in progress
	HomeConference string    `json:"home_conference"` // Home team conference
	AwayConference string    `json:"away_conference"` // Away team conference
	ConferenceGame bool      `json:"conference_game"` // Provider's conference-game flag
	Spread         *float64  `json:"spread"`          // Closing spread, favorite minus
	Completed      bool      `json:"completed"`       // Final status
	CreatedAt      time.Time `json:"created_at"`      // When data was fetched
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Sentinel errors for callers that match rather than inspect codes
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
