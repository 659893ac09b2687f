package datasource

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/underdog-edge/internal/config"
)

// NewFromConfig wires a DataSource from application configuration. The
// returned client shares one rate-limited HTTP client so retries and the
// circuit breaker see all traffic to the provider.
func NewFromConfig(cfg config.DataSourceConfig, logger *logrus.Logger) DataSource {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.MaxRetries > 0 {
		httpCfg.MaxRetries = cfg.MaxRetries
	}
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}

	httpClient := NewRateLimitedHTTPClient(httpCfg, logger)

	return NewScoreboardClient(httpClient, cfg.BaseURL, cfg.APIKey, true, logger)
}
