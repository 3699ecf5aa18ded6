package service

import (
	"fmt"
	"sync"
	"time"
)

// PipelineMetrics tracks statistics about one prediction batch run
type PipelineMetrics struct {
	mu              sync.RWMutex
	StartTime       time.Time
	Duration        time.Duration
	TotalFixtures   int
	Scored          int
	Stored          int
	SkippedNoOdds   int
	SkippedNotValue int
	SkippedGates    int
	Errors          int
}

// NewPipelineMetrics creates a new metrics tracker
func NewPipelineMetrics() *PipelineMetrics {
	return &PipelineMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *PipelineMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.TotalFixtures = 0
	m.Scored = 0
	m.Stored = 0
	m.SkippedNoOdds = 0
	m.SkippedNotValue = 0
	m.SkippedGates = 0
	m.Errors = 0
}

// RecordScored increments the scored prediction count
func (m *PipelineMetrics) RecordScored() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Scored++
}

// RecordStored increments the stored prediction count
func (m *PipelineMetrics) RecordStored() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stored++
}

// RecordError increments the error count
func (m *PipelineMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// String returns a formatted string representation of metrics
func (m *PipelineMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fmt.Sprintf(
		"PipelineMetrics{Fixtures=%d, Scored=%d, Stored=%d, NoOdds=%d, NotValue=%d, Gated=%d, Errors=%d, Duration=%v}",
		m.TotalFixtures,
		m.Scored,
		m.Stored,
		m.SkippedNoOdds,
		m.SkippedNotValue,
		m.SkippedGates,
		m.Errors,
		m.Duration,
	)
}
