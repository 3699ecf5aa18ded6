package metrics

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordPredictionScored(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordPredictionScored()
	})
}

func TestRecordPredictionSkipped(t *testing.T) {
	InitRegistry()

	for _, reason := range []string{"no_odds", "not_value", "insert_gates"} {
		assert.NotPanics(t, func() {
			RecordPredictionSkipped(reason)
		})
	}
}

func TestUpdateBankroll(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name     string
		bankroll float64
	}{
		{
			name:     "positive bankroll",
			bankroll: 100,
		},
		{
			name:     "zero bankroll",
			bankroll: 0,
		},
		{
			name:     "drawn down bankroll",
			bankroll: 42.50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateBankroll(tt.bankroll)
			})
		})
	}
}

func TestRecordDurations(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordPipelineDuration(12.5)
	})
	assert.NotPanics(t, func() {
		RecordSettlementSweepDuration(0.8)
	})
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()

	handler := Handler()
	assert.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)
}
