package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marketplace/backend/internal/domain/automation"
	"github.com/marketplace/backend/internal/domain/marketplace"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type scanFixture struct {
	*hookFixture
	scans *ScanService
}

func newScanFixture() *scanFixture {
	hf := newHookFixture()
	executor := NewActionExecutor(hf.rfqRepo, hf.orderRepo, hf.listingRepo, hf.disputeRepo, nil, zap.NewNop())
	pipeline := NewEvaluationService(hf.ruleRepo, hf.execRepo, executor, zap.NewNop())
	scans := NewScanService(
		hf.rfqRepo, hf.orderRepo, hf.listingRepo, hf.disputeRepo, hf.execRepo,
		hf.triggers, pipeline, DefaultScanConfig(), zap.NewNop(),
	)
	return &scanFixture{hookFixture: hf, scans: scans}
}

func TestProcessDelayedOrdersTriggersEachOrder(t *testing.T) {
	f := newScanFixture()
	sellerID := uuid.New()
	due := time.Now().Add(-96 * time.Hour)
	order := marketplace.Order{
		Number:               "ORD-3001",
		SellerID:             sellerID,
		BuyerID:              uuid.New(),
		Status:               marketplace.OrderStatusProcessing,
		ExpectedDeliveryDate: &due,
	}
	order.BaseEntity = shared.NewBaseEntity()

	f.orderRepo.On("FindOverdue", mock.Anything, mock.Anything).Return([]marketplace.Order{order}, nil)
	f.orderRepo.On("FindByID", mock.Anything, sellerID, order.ID).Return(&order, nil)
	f.ruleRepo.On("FindEnabledForEvaluation", mock.Anything, sellerID, automation.RuleTypeOrder).
		Return([]automation.Rule{}, nil)

	f.scans.ProcessDelayedOrders(context.Background())

	f.ruleRepo.AssertNumberOfCalls(t, "FindEnabledForEvaluation", 1)
}

func TestProcessDelayedOrdersScanSurvivesEntityFailure(t *testing.T) {
	f := newScanFixture()
	sellerA := uuid.New()
	sellerB := uuid.New()
	broken := marketplace.Order{SellerID: sellerA, Status: marketplace.OrderStatusProcessing}
	broken.BaseEntity = shared.NewBaseEntity()
	healthy := marketplace.Order{SellerID: sellerB, Status: marketplace.OrderStatusProcessing}
	healthy.BaseEntity = shared.NewBaseEntity()

	f.orderRepo.On("FindOverdue", mock.Anything, mock.Anything).
		Return([]marketplace.Order{broken, healthy}, nil)
	f.orderRepo.On("FindByID", mock.Anything, sellerA, broken.ID).Return(nil, shared.ErrNotFound)
	f.orderRepo.On("FindByID", mock.Anything, sellerB, healthy.ID).Return(&healthy, nil)
	f.ruleRepo.On("FindEnabledForEvaluation", mock.Anything, sellerB, automation.RuleTypeOrder).
		Return([]automation.Rule{}, nil)

	f.scans.ProcessDelayedOrders(context.Background())

	// the second order is still evaluated after the first one fails to load
	f.ruleRepo.AssertNumberOfCalls(t, "FindEnabledForEvaluation", 1)
}

func TestCheckLowStockUsesConfiguredThreshold(t *testing.T) {
	f := newScanFixture()
	f.listingRepo.On("FindLowStock", mock.Anything, 10).Return([]marketplace.Listing{}, nil)

	f.scans.CheckLowStock(context.Background())

	f.listingRepo.AssertExpectations(t)
}

func TestCheckSLABreachesComputesHours(t *testing.T) {
	f := newScanFixture()
	sellerID := uuid.New()
	due := time.Now().Add(5 * time.Hour)
	order := marketplace.Order{
		Number:               "ORD-3002",
		SellerID:             sellerID,
		BuyerID:              uuid.New(),
		Status:               marketplace.OrderStatusProcessing,
		ExpectedDeliveryDate: &due,
	}
	order.BaseEntity = shared.NewBaseEntity()

	f.orderRepo.On("FindApproachingSLA", mock.Anything, mock.Anything, 24*time.Hour).
		Return([]marketplace.Order{order}, nil)
	f.orderRepo.On("FindByID", mock.Anything, sellerID, order.ID).Return(&order, nil)

	rule, err := automation.NewRule(sellerID, automation.NewRuleParams{
		Name:        "sla guard",
		RuleType:    automation.RuleTypeOrder,
		TriggerType: automation.TriggerSLAWarning,
		Conditions:  automation.TriggerConditions{HoursUntilBreach: automation.Float(8)},
		ActionType:  automation.ActionAutoNotify,
	})
	assert.NoError(t, err)
	f.ruleRepo.On("FindEnabledForEvaluation", mock.Anything, sellerID, automation.RuleTypeOrder).
		Return([]automation.Rule{*rule}, nil)

	var recorded *automation.Execution
	f.execRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		recorded = args.Get(1).(*automation.Execution)
	}).Return(nil)
	f.ruleRepo.On("IncrementTriggerStats", mock.Anything, rule.ID, mock.Anything).Return(nil)

	f.scans.CheckSLABreaches(context.Background())

	// 5 hours until breach is inside the 8 hour window, so the rule fires
	if assert.NotNil(t, recorded) {
		rctx, err := automation.ContextFromSnapshot(recorded.TriggerData)
		assert.NoError(t, err)
		assert.NotNil(t, rctx.HoursUntilSLABreach)
		assert.InDelta(t, 5.0, *rctx.HoursUntilSLABreach, 0.1)
	}
}

func TestProcessStaleDisputesPopulatesDaysOpen(t *testing.T) {
	f := newScanFixture()
	sellerID := uuid.New()
	dispute := marketplace.Dispute{
		Number:   "DSP-44",
		SellerID: sellerID,
		BuyerID:  uuid.New(),
		Status:   marketplace.DisputeStatusOpen,
		OpenedAt: time.Now().Add(-10 * 24 * time.Hour),
	}
	dispute.BaseEntity = shared.NewBaseEntity()

	f.disputeRepo.On("FindOpenSince", mock.Anything, mock.Anything).
		Return([]marketplace.Dispute{dispute}, nil)

	rule, err := automation.NewRule(sellerID, automation.NewRuleParams{
		Name:        "stale escalation",
		RuleType:    automation.RuleTypeDispute,
		TriggerType: automation.TriggerDisputeOpened,
		Conditions:  automation.TriggerConditions{DaysOverdue: automation.Float(7)},
		ActionType:  automation.ActionAutoEscalate,
	})
	assert.NoError(t, err)
	f.ruleRepo.On("FindEnabledForEvaluation", mock.Anything, sellerID, automation.RuleTypeDispute).
		Return([]automation.Rule{*rule}, nil)
	f.disputeRepo.On("FindByID", mock.Anything, sellerID, dispute.ID).Return(&dispute, nil)
	f.disputeRepo.On("Update", mock.Anything, &dispute).Return(nil)
	f.execRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.ruleRepo.On("IncrementTriggerStats", mock.Anything, rule.ID, mock.Anything).Return(nil)

	f.scans.ProcessStaleDisputes(context.Background())

	assert.Equal(t, marketplace.DisputeStatusEscalated, dispute.Status)
}

func TestPurgeExpiredExecutionsUsesRetentionWindow(t *testing.T) {
	f := newScanFixture()

	var before time.Time
	f.execRepo.On("DeleteOlderThan", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		before = args.Get(1).(time.Time)
	}).Return(int64(12), nil)

	f.scans.PurgeExpiredExecutions(context.Background())

	expected := time.Now().Add(-90 * 24 * time.Hour)
	assert.WithinDuration(t, expected, before, time.Minute)
}

func TestScanStoreFailureIsSwallowed(t *testing.T) {
	f := newScanFixture()
	f.orderRepo.On("FindOverdue", mock.Anything, mock.Anything).Return(nil, errors.New("db gone"))

	// must not panic or propagate
	f.scans.ProcessDelayedOrders(context.Background())

	f.ruleRepo.AssertNotCalled(t, "FindEnabledForEvaluation")
}
