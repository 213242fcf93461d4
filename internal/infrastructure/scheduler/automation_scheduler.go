package scheduler

import (
	"context"
	"sync"
	"time"

	appautomation "github.com/marketplace/backend/internal/application/automation"
	"go.uber.org/zap"
)

// AutomationSchedulerConfig holds scheduling configuration for the
// periodic automation scans.
type AutomationSchedulerConfig struct {
	// ScanInterval is how often the time-based scans run
	ScanInterval time.Duration

	// PurgeHour is the local hour (24h format) at which the daily
	// execution-log retention purge runs
	PurgeHour int
}

// DefaultAutomationSchedulerConfig returns default scheduler configuration
func DefaultAutomationSchedulerConfig() AutomationSchedulerConfig {
	return AutomationSchedulerConfig{
		ScanInterval: time.Minute,
		PurgeHour:    3, // 3am
	}
}

// AutomationScheduler drives the time-based automation scans: overdue
// orders, SLA warnings, low stock, unread RFQs, slow movers, stale
// disputes, and the daily execution-log purge. Event-driven triggers go
// through the hooks directly; the scheduler only covers conditions that
// arise from the passage of time.
type AutomationScheduler struct {
	config AutomationSchedulerConfig
	scans  *appautomation.ScanService
	logger *zap.Logger

	cancel        context.CancelFunc
	wg            sync.WaitGroup
	mu            sync.Mutex
	isRunning     bool
	lastPurgeDate string
}

// NewAutomationScheduler creates a new AutomationScheduler
func NewAutomationScheduler(
	config AutomationSchedulerConfig,
	scans *appautomation.ScanService,
	logger *zap.Logger,
) *AutomationScheduler {
	if config.ScanInterval <= 0 {
		config.ScanInterval = time.Minute
	}
	return &AutomationScheduler{
		config: config,
		scans:  scans,
		logger: logger,
	}
}

// Start launches the scan loop. Calling Start on a running scheduler
// is a no-op.
func (s *AutomationScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Automation scheduler started",
		zap.Duration("scan_interval", s.config.ScanInterval),
		zap.Int("purge_hour", s.config.PurgeHour),
	)
	return nil
}

// Stop halts the scan loop and waits for any in-flight scan to finish,
// bounded by the given context.
func (s *AutomationScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Automation scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *AutomationScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runScans(ctx)
			s.maybePurge(ctx, time.Now())
		}
	}
}

// runScans executes one full scan cycle. Each scan handles its own
// failures, so one failing scan never blocks the others.
func (s *AutomationScheduler) runScans(ctx context.Context) {
	started := time.Now()

	s.scans.ProcessDelayedOrders(ctx)
	s.scans.CheckSLABreaches(ctx)
	s.scans.CheckLowStock(ctx)
	s.scans.CheckUnreadRFQs(ctx)
	s.scans.FlagSlowMovingListings(ctx)
	s.scans.ProcessStaleDisputes(ctx)

	s.logger.Debug("Automation scan cycle completed",
		zap.Duration("elapsed", time.Since(started)))
}

// maybePurge runs the retention purge once per day at or after PurgeHour
func (s *AutomationScheduler) maybePurge(ctx context.Context, now time.Time) {
	if now.Hour() < s.config.PurgeHour {
		return
	}
	currentDate := now.Format("2006-01-02")
	if s.lastPurgeDate == currentDate {
		return
	}
	s.lastPurgeDate = currentDate
	s.scans.PurgeExpiredExecutions(ctx)
}

// TriggerManualScan runs one scan cycle immediately, outside the ticker.
func (s *AutomationScheduler) TriggerManualScan(ctx context.Context) {
	s.logger.Info("Manual automation scan triggered")
	s.runScans(ctx)
}
