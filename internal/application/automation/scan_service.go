package automation

import (
	"context"
	"time"

	"github.com/marketplace/backend/internal/domain/automation"
	"github.com/marketplace/backend/internal/domain/marketplace"
	"go.uber.org/zap"
)

// ScanConfig holds the thresholds the periodic scans run with
type ScanConfig struct {
	SLAWarningHours    float64
	LowStockThreshold  int
	UnreadRFQAfter     time.Duration
	SlowMovingAfter    time.Duration
	StaleDisputeAfter  time.Duration
	ExecutionRetention time.Duration
}

// DefaultScanConfig returns the scan thresholds used when configuration
// does not override them.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		SLAWarningHours:    24,
		LowStockThreshold:  10,
		UnreadRFQAfter:     24 * time.Hour,
		SlowMovingAfter:    60 * 24 * time.Hour,
		StaleDisputeAfter:  7 * 24 * time.Hour,
		ExecutionRetention: 90 * 24 * time.Hour,
	}
}

// ScanService hosts the cron-driven entry points. Every scan catches its
// own errors and logs them; a single entity's automation failure never halts
// the batch scan across the remaining entities.
type ScanService struct {
	rfqRepo       marketplace.RFQRepository
	orderRepo     marketplace.OrderRepository
	listingRepo   marketplace.ListingRepository
	disputeRepo   marketplace.DisputeRepository
	executionRepo automation.ExecutionRepository
	triggers      *TriggerService
	pipeline      *EvaluationService
	config        ScanConfig
	logger        *zap.Logger
}

// NewScanService creates a ScanService
func NewScanService(
	rfqRepo marketplace.RFQRepository,
	orderRepo marketplace.OrderRepository,
	listingRepo marketplace.ListingRepository,
	disputeRepo marketplace.DisputeRepository,
	executionRepo automation.ExecutionRepository,
	triggers *TriggerService,
	pipeline *EvaluationService,
	config ScanConfig,
	logger *zap.Logger,
) *ScanService {
	return &ScanService{
		rfqRepo:       rfqRepo,
		orderRepo:     orderRepo,
		listingRepo:   listingRepo,
		disputeRepo:   disputeRepo,
		executionRepo: executionRepo,
		triggers:      triggers,
		pipeline:      pipeline,
		config:        config,
		logger:        logger,
	}
}

// CheckSLABreaches fires SLA warnings for orders whose expected delivery
// falls within the warning window.
func (s *ScanService) CheckSLABreaches(ctx context.Context) {
	now := time.Now()
	horizon := time.Duration(s.config.SLAWarningHours * float64(time.Hour))
	orders, err := s.orderRepo.FindApproachingSLA(ctx, now, horizon)
	if err != nil {
		s.logger.Error("SLA breach scan failed", zap.Error(err))
		return
	}
	for i := range orders {
		order := &orders[i]
		if order.ExpectedDeliveryDate == nil {
			continue
		}
		hours := order.ExpectedDeliveryDate.Sub(now).Hours()
		result := s.triggers.OnSLAWarning(ctx, order.SellerID, automation.EntityTypeOrder, order.ID, hours)
		s.logScanResult("sla_warning", order.Number, result)
	}
}

// ProcessDelayedOrders re-triggers order rules for every overdue order
func (s *ScanService) ProcessDelayedOrders(ctx context.Context) {
	orders, err := s.orderRepo.FindOverdue(ctx, time.Now())
	if err != nil {
		s.logger.Error("delayed order scan failed", zap.Error(err))
		return
	}
	for i := range orders {
		order := &orders[i]
		result := s.triggers.OnOrderStatusChange(ctx, order.SellerID, order.ID, order.Status)
		s.logScanResult("order_delayed", order.Number, result)
	}
}

// CheckLowStock fires stock triggers for listings at or below the low-stock
// threshold.
func (s *ScanService) CheckLowStock(ctx context.Context) {
	listings, err := s.listingRepo.FindLowStock(ctx, s.config.LowStockThreshold)
	if err != nil {
		s.logger.Error("low stock scan failed", zap.Error(err))
		return
	}
	for i := range listings {
		listing := &listings[i]
		result := s.triggers.OnStockChange(ctx, listing.SellerID, listing.ID, listing.CurrentStock, listing.MaxStock)
		s.logScanResult("stock_low", listing.SKU, result)
	}
}

// CheckUnreadRFQs re-runs RFQ rules for pending RFQs that have sat unread
// past the configured window.
func (s *ScanService) CheckUnreadRFQs(ctx context.Context) {
	cutoff := time.Now().Add(-s.config.UnreadRFQAfter)
	rfqs, err := s.rfqRepo.FindUnreadOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("unread RFQ scan failed", zap.Error(err))
		return
	}
	for i := range rfqs {
		rfq := &rfqs[i]
		result := s.triggers.OnRFQReceived(ctx, rfq.SellerID, rfq.ID)
		s.logScanResult("rfq_received", rfq.Number, result)
	}
}

// FlagSlowMovingListings evaluates inventory rules against active listings
// with no sale inside the slow-moving window.
func (s *ScanService) FlagSlowMovingListings(ctx context.Context) {
	cutoff := time.Now().Add(-s.config.SlowMovingAfter)
	listings, err := s.listingRepo.FindSlowMoving(ctx, cutoff)
	if err != nil {
		s.logger.Error("slow moving scan failed", zap.Error(err))
		return
	}
	for i := range listings {
		listing := &listings[i]
		rctx := &automation.RuleContext{
			EntityID:     listing.ID,
			EntityNumber: listing.SKU,
			EntityData:   listing.Snapshot(),
			SellerID:     listing.SellerID,
			CurrentStock: automation.Float(float64(listing.CurrentStock)),
		}
		if pct, ok := listing.StockPercent(); ok {
			rctx.StockPercent = automation.Float(pct)
		}
		result := s.pipeline.EvaluateRulesForEntity(ctx, automation.EntityTypeListing, listing.ID, listing.SellerID, rctx)
		s.logScanResult("slow_moving", listing.SKU, result)
	}
}

// ProcessStaleDisputes evaluates dispute rules against disputes still open
// past the staleness window, with the days-open signal populated.
func (s *ScanService) ProcessStaleDisputes(ctx context.Context) {
	now := time.Now()
	cutoff := now.Add(-s.config.StaleDisputeAfter)
	disputes, err := s.disputeRepo.FindOpenSince(ctx, cutoff)
	if err != nil {
		s.logger.Error("stale dispute scan failed", zap.Error(err))
		return
	}
	for i := range disputes {
		dispute := &disputes[i]
		rctx := &automation.RuleContext{
			EntityID:     dispute.ID,
			EntityNumber: dispute.Number,
			EntityData:   dispute.Snapshot(),
			SellerID:     dispute.SellerID,
			BuyerID:      &dispute.BuyerID,
			DaysOverdue:  automation.Float(dispute.DaysOpen(now)),
		}
		result := s.pipeline.EvaluateRulesForEntity(ctx, automation.EntityTypeDispute, dispute.ID, dispute.SellerID, rctx)
		s.logScanResult("stale_dispute", dispute.Number, result)
	}
}

// PurgeExpiredExecutions drops execution log records past the retention
// window.
func (s *ScanService) PurgeExpiredExecutions(ctx context.Context) {
	before := time.Now().Add(-s.config.ExecutionRetention)
	purged, err := s.executionRepo.DeleteOlderThan(ctx, before)
	if err != nil {
		s.logger.Error("execution retention purge failed", zap.Error(err))
		return
	}
	if purged > 0 {
		s.logger.Info("purged expired execution records", zap.Int64("count", purged))
	}
}

func (s *ScanService) logScanResult(scan, entityNumber string, result EvaluationResult) {
	if !result.Success {
		s.logger.Warn("automation scan entry failed",
			zap.String("scan", scan),
			zap.String("entity", entityNumber),
			zap.String("error", result.Error))
		return
	}
	for _, r := range result.Results {
		if r.Matched {
			s.logger.Info("automation rule triggered by scan",
				zap.String("scan", scan),
				zap.String("entity", entityNumber),
				zap.String("rule", r.RuleName),
				zap.String("result", string(r.Result)))
		}
	}
}
