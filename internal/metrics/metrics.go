// Package metrics provides the centralized Prometheus metrics registry for
// the prediction pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "goal_edge",
		Name:      "predictions_scored_total",
		Help:      "Total number of fixtures scored",
	})
	PredictionsStoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "goal_edge",
		Name:      "predictions_stored_total",
		Help:      "Total number of value predictions persisted",
	})
	PredictionsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "goal_edge",
		Name:      "predictions_skipped_total",
		Help:      "Total number of fixtures skipped, by reason",
	}, []string{"reason"})
	SettlementsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "goal_edge",
		Name:      "settlements_total",
		Help:      "Total number of predictions settled",
	})
	LedgerEntriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "goal_edge",
		Name:      "ledger_entries_total",
		Help:      "Total number of bankroll ledger entries appended",
	})
	OddsSourceFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "goal_edge",
		Name:      "odds_source_fallbacks_total",
		Help:      "Total number of fallbacks to a secondary odds provider",
	})
)

// Gauge metrics
var (
	CurrentBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "goal_edge",
		Name:      "current_bankroll",
		Help:      "Current bankroll in currency units",
	})
	UnsettledPredictions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "goal_edge",
		Name:      "unsettled_predictions",
		Help:      "Number of stored predictions awaiting settlement",
	})
)

// Histogram metrics
var (
	PipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "goal_edge",
		Name:      "pipeline_duration_seconds",
		Help:      "Duration of prediction batch runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600},
	})
	SettlementSweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "goal_edge",
		Name:      "settlement_sweep_duration_seconds",
		Help:      "Duration of settlement sweeps in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsScoredTotal)
		registry.MustRegister(PredictionsStoredTotal)
		registry.MustRegister(PredictionsSkippedTotal)
		registry.MustRegister(SettlementsTotal)
		registry.MustRegister(LedgerEntriesTotal)
		registry.MustRegister(OddsSourceFallbacksTotal)

		registry.MustRegister(CurrentBankroll)
		registry.MustRegister(UnsettledPredictions)

		registry.MustRegister(PipelineDuration)
		registry.MustRegister(SettlementSweepDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPredictionScored records a scored fixture.
func RecordPredictionScored() {
	PredictionsScoredTotal.Inc()
}

// RecordPredictionStored records a persisted value prediction.
func RecordPredictionStored() {
	PredictionsStoredTotal.Inc()
}

// RecordPredictionSkipped records a skipped fixture with its reason.
func RecordPredictionSkipped(reason string) {
	PredictionsSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordSettlement records a settled prediction.
func RecordSettlement() {
	SettlementsTotal.Inc()
}

// RecordLedgerEntry records one appended bankroll entry.
func RecordLedgerEntry() {
	LedgerEntriesTotal.Inc()
}

// UpdateBankroll updates the current bankroll gauge.
func UpdateBankroll(amount float64) {
	CurrentBankroll.Set(amount)
}

// UpdateUnsettledPredictions updates the unsettled predictions gauge.
func UpdateUnsettledPredictions(count float64) {
	UnsettledPredictions.Set(count)
}

// RecordPipelineDuration records a batch run duration.
func RecordPipelineDuration(durationSeconds float64) {
	PipelineDuration.Observe(durationSeconds)
}

// RecordSettlementSweepDuration records a settlement sweep duration.
func RecordSettlementSweepDuration(durationSeconds float64) {
	SettlementSweepDuration.Observe(durationSeconds)
}
