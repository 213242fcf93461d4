package automation

import (
	"context"
	"time"

	"github.com/marketplace/backend/internal/domain/automation"
	"github.com/marketplace/backend/internal/domain/marketplace"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRuleRepository is a mock implementation of automation.RuleRepository
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) Create(ctx context.Context, rule *automation.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) FindByID(ctx context.Context, sellerID, ruleID uuid.UUID) (*automation.Rule, error) {
	args := m.Called(ctx, sellerID, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*automation.Rule), args.Error(1)
}

func (m *MockRuleRepository) Update(ctx context.Context, rule *automation.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) Delete(ctx context.Context, sellerID, ruleID uuid.UUID) error {
	args := m.Called(ctx, sellerID, ruleID)
	return args.Error(0)
}

func (m *MockRuleRepository) List(ctx context.Context, sellerID uuid.UUID, filter automation.RuleListFilter) ([]automation.Rule, int64, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]automation.Rule), args.Get(1).(int64), args.Error(2)
}

func (m *MockRuleRepository) FindEnabledForEvaluation(ctx context.Context, sellerID uuid.UUID, ruleType automation.RuleType) ([]automation.Rule, error) {
	args := m.Called(ctx, sellerID, ruleType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]automation.Rule), args.Error(1)
}

func (m *MockRuleRepository) IncrementTriggerStats(ctx context.Context, ruleID uuid.UUID, now time.Time) error {
	args := m.Called(ctx, ruleID, now)
	return args.Error(0)
}

// MockExecutionRepository is a mock implementation of automation.ExecutionRepository
type MockExecutionRepository struct {
	mock.Mock
}

func (m *MockExecutionRepository) Create(ctx context.Context, execution *automation.Execution) error {
	args := m.Called(ctx, execution)
	return args.Error(0)
}

func (m *MockExecutionRepository) List(ctx context.Context, sellerID uuid.UUID, filter automation.ExecutionListFilter) ([]automation.Execution, int64, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]automation.Execution), args.Get(1).(int64), args.Error(2)
}

func (m *MockExecutionRepository) CountsSince(ctx context.Context, sellerID uuid.UUID, since time.Time) (automation.ExecutionCounts, error) {
	args := m.Called(ctx, sellerID, since)
	return args.Get(0).(automation.ExecutionCounts), args.Error(1)
}

func (m *MockExecutionRepository) CountByEntityTypeSince(ctx context.Context, sellerID uuid.UUID, since time.Time) (map[automation.EntityType]int64, error) {
	args := m.Called(ctx, sellerID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[automation.EntityType]int64), args.Error(1)
}

func (m *MockExecutionRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockRFQRepository is a mock implementation of marketplace.RFQRepository
type MockRFQRepository struct {
	mock.Mock
}

func (m *MockRFQRepository) Create(ctx context.Context, rfq *marketplace.RFQ) error {
	args := m.Called(ctx, rfq)
	return args.Error(0)
}

func (m *MockRFQRepository) FindByID(ctx context.Context, sellerID, rfqID uuid.UUID) (*marketplace.RFQ, error) {
	args := m.Called(ctx, sellerID, rfqID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketplace.RFQ), args.Error(1)
}

func (m *MockRFQRepository) Update(ctx context.Context, rfq *marketplace.RFQ) error {
	args := m.Called(ctx, rfq)
	return args.Error(0)
}

func (m *MockRFQRepository) FindUnreadOlderThan(ctx context.Context, cutoff time.Time) ([]marketplace.RFQ, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.RFQ), args.Error(1)
}

// MockOrderRepository is a mock implementation of marketplace.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *marketplace.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, sellerID, orderID uuid.UUID) (*marketplace.Order, error) {
	args := m.Called(ctx, sellerID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketplace.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *marketplace.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindOverdue(ctx context.Context, now time.Time) ([]marketplace.Order, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.Order), args.Error(1)
}

func (m *MockOrderRepository) FindApproachingSLA(ctx context.Context, now time.Time, horizon time.Duration) ([]marketplace.Order, error) {
	args := m.Called(ctx, now, horizon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.Order), args.Error(1)
}

// MockListingRepository is a mock implementation of marketplace.ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *marketplace.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) FindByID(ctx context.Context, sellerID, listingID uuid.UUID) (*marketplace.Listing, error) {
	args := m.Called(ctx, sellerID, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketplace.Listing), args.Error(1)
}

func (m *MockListingRepository) Update(ctx context.Context, listing *marketplace.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) FindLowStock(ctx context.Context, threshold int) ([]marketplace.Listing, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.Listing), args.Error(1)
}

func (m *MockListingRepository) FindSlowMoving(ctx context.Context, cutoff time.Time) ([]marketplace.Listing, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.Listing), args.Error(1)
}

// MockDisputeRepository is a mock implementation of marketplace.DisputeRepository
type MockDisputeRepository struct {
	mock.Mock
}

func (m *MockDisputeRepository) Create(ctx context.Context, dispute *marketplace.Dispute) error {
	args := m.Called(ctx, dispute)
	return args.Error(0)
}

func (m *MockDisputeRepository) FindByID(ctx context.Context, sellerID, disputeID uuid.UUID) (*marketplace.Dispute, error) {
	args := m.Called(ctx, sellerID, disputeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketplace.Dispute), args.Error(1)
}

func (m *MockDisputeRepository) Update(ctx context.Context, dispute *marketplace.Dispute) error {
	args := m.Called(ctx, dispute)
	return args.Error(0)
}

func (m *MockDisputeRepository) FindOpenSince(ctx context.Context, cutoff time.Time) ([]marketplace.Dispute, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.Dispute), args.Error(1)
}

// MockNotifier is a mock implementation of marketplace.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, notification marketplace.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

// MockTrustProvider is a mock implementation of marketplace.BuyerTrustProvider
type MockTrustProvider struct {
	mock.Mock
}

func (m *MockTrustProvider) TrustScore(ctx context.Context, buyerID uuid.UUID) (float64, bool, error) {
	args := m.Called(ctx, buyerID)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}
