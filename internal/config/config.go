// Package config provides configuration management for the Underdog Edge application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Analysis   AnalysisConfig   `mapstructure:"analysis" validate:"required"`
	Model      ModelConfig      `mapstructure:"model" validate:"required"`
	DataSource DataSourceConfig `mapstructure:"data_source" validate:"required"`
	Schedule   ScheduleConfig   `mapstructure:"schedule" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// AnalysisConfig represents edge-validation parameters. The validator
// reads every threshold from here; nothing is hardcoded invisibly.
type AnalysisConfig struct {
	Breakeven         float64 `mapstructure:"breakeven" validate:"required,gt=0,lt=1"`
	SignificanceLevel float64 `mapstructure:"significance_level" validate:"required,gt=0,lt=1"`
	ConfidenceLevel   float64 `mapstructure:"confidence_level" validate:"required,gt=0,lt=1"`
	UseSpread         bool    `mapstructure:"use_spread"`
	MinSampleSize     int     `mapstructure:"min_sample_size" validate:"required,gt=0"`
}

// ModelConfig represents model training and bet-selection parameters
type ModelConfig struct {
	BetThreshold              float64 `mapstructure:"bet_threshold" validate:"required,gt=0,lt=1"`
	KellyFraction             float64 `mapstructure:"kelly_fraction" validate:"required,gt=0,lte=1"`
	LearningRate              float64 `mapstructure:"learning_rate" validate:"omitempty,gt=0"`
	Iterations                int     `mapstructure:"iterations" validate:"omitempty,gt=0"`
	CrossValidationFolds      int     `mapstructure:"cross_validation_folds" validate:"omitempty,gt=1"`
	PredictionCacheTTLSeconds int     `mapstructure:"prediction_cache_ttl_seconds" validate:"required,gt=0"`
}

// DataSourceConfig represents the graded-games feed configuration
type DataSourceConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"required,gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// ScheduleConfig represents ingestion and revalidation scheduling
type ScheduleConfig struct {
	HistoricalSync string `mapstructure:"historical_sync" validate:"required"`
	Revalidation   string `mapstructure:"revalidation" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
