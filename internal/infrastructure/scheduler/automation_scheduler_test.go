package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appautomation "github.com/marketplace/backend/internal/application/automation"
	"github.com/marketplace/backend/internal/domain/automation"
)

// purgeCountingRepo records DeleteOlderThan calls; the other repository
// methods are never reached by these tests.
type purgeCountingRepo struct {
	purgeCalls int
}

func (r *purgeCountingRepo) Create(ctx context.Context, execution *automation.Execution) error {
	return nil
}

func (r *purgeCountingRepo) List(ctx context.Context, sellerID uuid.UUID, filter automation.ExecutionListFilter) ([]automation.Execution, int64, error) {
	return nil, 0, nil
}

func (r *purgeCountingRepo) CountsSince(ctx context.Context, sellerID uuid.UUID, since time.Time) (automation.ExecutionCounts, error) {
	return automation.ExecutionCounts{}, nil
}

func (r *purgeCountingRepo) CountByEntityTypeSince(ctx context.Context, sellerID uuid.UUID, since time.Time) (map[automation.EntityType]int64, error) {
	return nil, nil
}

func (r *purgeCountingRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	r.purgeCalls++
	return 0, nil
}

func newTestScheduler(repo automation.ExecutionRepository) *AutomationScheduler {
	scans := appautomation.NewScanService(
		nil, nil, nil, nil,
		repo,
		nil, nil,
		appautomation.DefaultScanConfig(),
		zap.NewNop(),
	)
	return NewAutomationScheduler(
		AutomationSchedulerConfig{ScanInterval: time.Hour, PurgeHour: 3},
		scans,
		zap.NewNop(),
	)
}

func TestAutomationScheduler_StartStop(t *testing.T) {
	sched := newTestScheduler(&purgeCountingRepo{})
	ctx := context.Background()

	require.NoError(t, sched.Start(ctx))
	// second Start is a no-op
	require.NoError(t, sched.Start(ctx))

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, sched.Stop(stopCtx))
	// second Stop is a no-op
	require.NoError(t, sched.Stop(stopCtx))
}

func TestAutomationScheduler_PurgeRunsOncePerDay(t *testing.T) {
	repo := &purgeCountingRepo{}
	sched := newTestScheduler(repo)
	ctx := context.Background()

	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	// before the purge hour nothing runs
	sched.maybePurge(ctx, day.Add(2*time.Hour))
	assert.Equal(t, 0, repo.purgeCalls)

	// at the purge hour the purge fires
	sched.maybePurge(ctx, day.Add(3*time.Hour))
	assert.Equal(t, 1, repo.purgeCalls)

	// later the same day it does not fire again
	sched.maybePurge(ctx, day.Add(16*time.Hour))
	assert.Equal(t, 1, repo.purgeCalls)

	// the next day it fires once more
	sched.maybePurge(ctx, day.Add(24*time.Hour+4*time.Hour))
	assert.Equal(t, 2, repo.purgeCalls)
}
