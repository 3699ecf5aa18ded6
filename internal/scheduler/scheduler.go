// Package scheduler drives the recurring prediction and settlement jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/service"
)

// Scheduler manages the recurring prediction batch and settlement sweep
type Scheduler struct {
	cron        *cron.Cron
	predictions *service.PredictionService
	settlements *service.SettlementService
	logger      *logrus.Logger
	mu          sync.RWMutex
	isRunning   bool
	jobIDs      []cron.EntryID
}

// NewScheduler creates a scheduler running in UTC
func NewScheduler(predictions *service.PredictionService, settlements *service.SettlementService, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(time.UTC)),
		predictions: predictions,
		settlements: settlements,
		logger:      logger,
		jobIDs:      make([]cron.EntryID, 0),
	}
}

// SchedulePredictionRun registers the daily prediction batch
func (s *Scheduler) SchedulePredictionRun(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()

		summary, err := s.predictions.RunBatch(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled prediction batch failed")
			return
		}
		s.logger.WithField("summary", summary.String()).Info("Scheduled prediction batch completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add prediction job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", cronExpression).Info("Scheduled prediction batch")

	return nil
}

// ScheduleSettlementSweep registers the recurring settlement and ledger
// replay sweep
func (s *Scheduler) ScheduleSettlementSweep(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		summary, err := s.settlements.Sweep(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled settlement sweep failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"settled":        summary.Settled,
			"awaiting_final": summary.AwaitingFinal,
		}).Info("Scheduled settlement sweep completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add settlement job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", cronExpression).Info("Scheduled settlement sweep")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	next := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}

	return next
}
