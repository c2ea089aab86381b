// Package scheduler runs scan cycles on a fixed polling interval.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/sports-edge/internal/models"
	"github.com/yourusername/sports-edge/internal/service"
)

// MinPollingInterval is the shortest accepted polling interval
const MinPollingInterval = 5

// FeedScanner runs one scan over an event feed
type FeedScanner interface {
	ScanFeed(ctx context.Context, source service.EventSource) (*service.ScanResult, error)
}

// Publisher delivers a ranked list downstream
type Publisher interface {
	Publish(ctx context.Context, runID string, opps []models.Opportunity) error
}

// Scheduler manages the scheduled scan job
type Scheduler struct {
	cron            *cron.Cron
	scanner         FeedScanner
	feed            service.EventSource
	store           *service.ResultStore
	publisher       Publisher
	logger          *logrus.Entry
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler. publisher may be nil.
func NewScheduler(scanner FeedScanner, feed service.EventSource, store *service.ResultStore, publisher Publisher, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if store == nil {
		store = service.NewResultStore()
	}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		scanner:         scanner,
		feed:            feed,
		store:           store,
		publisher:       publisher,
		logger:          logger.WithField("component", "scheduler"),
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// RunOnce performs a single scan cycle: scan, store the result and publish it.
// A publish failure is logged and does not fail the cycle.
func (s *Scheduler) RunOnce(ctx context.Context) (*service.ScanResult, error) {
	result, err := s.scanner.ScanFeed(ctx, s.feed)
	if err != nil {
		return nil, err
	}

	s.store.Store(result)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, result.RunID.String(), result.Opportunities); err != nil {
			s.logger.WithError(err).WithField("run_id", result.RunID.String()).Warn("Failed to publish opportunities")
		}
	}

	return result, nil
}

// ScheduleScanPolling schedules a scan every intervalSeconds. A cycle that is
// still running when the next tick fires causes that tick to be skipped.
func (s *Scheduler) ScheduleScanPolling(intervalSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if intervalSeconds < MinPollingInterval {
		intervalSeconds = MinPollingInterval
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(intervalSeconds-1)*time.Second)
		defer cancel()

		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.WithError(err).Error("Scheduled scan failed")
		}
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("interval_seconds", intervalSeconds).Info("Scheduled scan polling job")

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

// Stop stops the scheduler and waits for a running cycle to finish, up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	stopped := s.cron.Stop()

	select {
	case <-stopped.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler stop timed out after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
