// Package metrics provides the Prometheus metrics surface for the edge
// validation pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "underdog_edge"

// Metrics holds every instrument on one registry so multiple instances
// (tests, embedded runs) never fight over global state.
type Metrics struct {
	registry *prometheus.Registry

	// Ingestion
	GamesIngestedTotal prometheus.Counter
	ParseFailuresTotal *prometheus.CounterVec
	IngestionDuration  prometheus.Histogram

	// Cohort and validation
	ValidationsRunTotal  prometheus.Counter
	CohortSize           prometheus.Gauge
	CohortExcludedTotal  *prometheus.CounterVec
	EdgeExists           prometheus.Gauge
	CohortWinRate        prometheus.Gauge
	BinomialPValue       prometheus.Gauge
	WilsonIntervalLow    prometheus.Gauge
	WilsonIntervalHigh   prometheus.Gauge

	// Model
	TrainingRunsTotal prometheus.Counter
	ModelAccuracy     prometheus.Gauge
	ModelAUC          prometheus.Gauge
	PredictionsTotal  *prometheus.CounterVec

	// Backtest
	BacktestRunsTotal prometheus.Counter
	BacktestROI       prometheus.Gauge
	BacktestWinRate   prometheus.Gauge
	BacktestDuration  prometheus.Histogram
}

// New builds a Metrics set on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		GamesIngestedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_ingested_total",
			Help:      "Total number of games persisted from the data source",
		}),
		ParseFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "Total number of provider records that failed to parse",
		}, []string{"reason"}),
		IngestionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingestion_duration_seconds",
			Help:      "Duration of ingestion runs in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 300, 600},
		}),

		ValidationsRunTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_run_total",
			Help:      "Total number of edge validation runs",
		}),
		CohortSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cohort_size",
			Help:      "Number of eligible games in the latest cohort",
		}),
		CohortExcludedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cohort_excluded_total",
			Help:      "Games excluded from the cohort by reason",
		}, []string{"reason"}),
		EdgeExists: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "edge_exists",
			Help:      "1 when the latest validation confirmed an edge, else 0",
		}),
		CohortWinRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cohort_win_rate",
			Help:      "Underdog win rate from the latest validation",
		}),
		BinomialPValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "binomial_p_value",
			Help:      "One-sided binomial p-value from the latest validation",
		}),
		WilsonIntervalLow: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "wilson_interval_low",
			Help:      "Wilson score interval lower bound from the latest validation",
		}),
		WilsonIntervalHigh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "wilson_interval_high",
			Help:      "Wilson score interval upper bound from the latest validation",
		}),

		TrainingRunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "training_runs_total",
			Help:      "Total number of model training runs",
		}),
		ModelAccuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_cv_accuracy",
			Help:      "Mean cross-validated accuracy of the active model",
		}),
		ModelAUC: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_cv_auc",
			Help:      "Mean cross-validated ROC AUC of the active model",
		}),
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Predictions served by recommendation tier",
		}, []string{"tier"}),

		BacktestRunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backtest_runs_total",
			Help:      "Total number of backtest simulations",
		}),
		BacktestROI: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backtest_roi",
			Help:      "ROI of the latest backtest run",
		}),
		BacktestWinRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backtest_win_rate",
			Help:      "Win rate of the latest backtest run",
		}),
		BacktestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backtest_duration_seconds",
			Help:      "Duration of backtest runs in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		m.GamesIngestedTotal,
		m.ParseFailuresTotal,
		m.IngestionDuration,
		m.ValidationsRunTotal,
		m.CohortSize,
		m.CohortExcludedTotal,
		m.EdgeExists,
		m.CohortWinRate,
		m.BinomialPValue,
		m.WilsonIntervalLow,
		m.WilsonIntervalHigh,
		m.TrainingRunsTotal,
		m.ModelAccuracy,
		m.ModelAUC,
		m.PredictionsTotal,
		m.BacktestRunsTotal,
		m.BacktestROI,
		m.BacktestWinRate,
		m.BacktestDuration,
	)

	return m
}

// Registry exposes the underlying registry for the metrics HTTP server.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler for this metrics set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordValidation publishes the headline numbers of a validation run.
func (m *Metrics) RecordValidation(edgeExists bool, winRate, pValue, wilsonLow, wilsonHigh float64) {
	m.ValidationsRunTotal.Inc()
	if edgeExists {
		m.EdgeExists.Set(1)
	} else {
		m.EdgeExists.Set(0)
	}
	m.CohortWinRate.Set(winRate)
	m.BinomialPValue.Set(pValue)
	m.WilsonIntervalLow.Set(wilsonLow)
	m.WilsonIntervalHigh.Set(wilsonHigh)
}

// RecordTraining publishes cross-validation results for a trained model.
func (m *Metrics) RecordTraining(accuracy, auc float64) {
	m.TrainingRunsTotal.Inc()
	m.ModelAccuracy.Set(accuracy)
	m.ModelAUC.Set(auc)
}

// RecordBacktest publishes the headline numbers of a backtest run.
func (m *Metrics) RecordBacktest(roi, winRate, durationSeconds float64) {
	m.BacktestRunsTotal.Inc()
	m.BacktestROI.Set(roi)
	m.BacktestWinRate.Set(winRate)
	m.BacktestDuration.Observe(durationSeconds)
}
