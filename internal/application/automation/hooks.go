package automation

import (
	"context"
	"time"

	"github.com/marketplace/backend/internal/domain/automation"
	"github.com/marketplace/backend/internal/domain/marketplace"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TriggerService is the hook layer domain code calls on state-changing
// events. Each hook loads the subject entity, computes the derived signals
// the evaluator may compare against, and delegates to the pipeline. A failed
// entity lookup is a hook-local failure, not a pipeline abort.
type TriggerService struct {
	rfqRepo     marketplace.RFQRepository
	orderRepo   marketplace.OrderRepository
	listingRepo marketplace.ListingRepository
	disputeRepo marketplace.DisputeRepository
	trust       marketplace.BuyerTrustProvider
	pipeline    *EvaluationService
	logger      *zap.Logger
}

// NewTriggerService creates a TriggerService. The trust provider may be nil;
// buyer trust is then simply never populated.
func NewTriggerService(
	rfqRepo marketplace.RFQRepository,
	orderRepo marketplace.OrderRepository,
	listingRepo marketplace.ListingRepository,
	disputeRepo marketplace.DisputeRepository,
	trust marketplace.BuyerTrustProvider,
	pipeline *EvaluationService,
	logger *zap.Logger,
) *TriggerService {
	return &TriggerService{
		rfqRepo:     rfqRepo,
		orderRepo:   orderRepo,
		listingRepo: listingRepo,
		disputeRepo: disputeRepo,
		trust:       trust,
		pipeline:    pipeline,
		logger:      logger,
	}
}

// OnRFQReceived evaluates RFQ rules against a newly received RFQ. The buyer
// trust score is looked up best-effort: when unknown the field stays absent
// so trust conditions skip rather than fail.
func (s *TriggerService) OnRFQReceived(ctx context.Context, sellerID, rfqID uuid.UUID) EvaluationResult {
	rfq, err := s.rfqRepo.FindByID(ctx, sellerID, rfqID)
	if err != nil {
		return abortedEvaluation("RFQ not found: " + err.Error())
	}

	rctx := &automation.RuleContext{
		EntityID:     rfq.ID,
		EntityNumber: rfq.Number,
		EntityData:   rfq.Snapshot(),
		SellerID:     sellerID,
		BuyerID:      &rfq.BuyerID,
		Margin:       automation.Float(rfq.EstimatedMargin),
		TotalValue:   automation.Float(rfq.EstimatedValue.InexactFloat64()),
		Quantity:     automation.Float(float64(rfq.Quantity)),
	}
	if s.trust != nil {
		score, known, err := s.trust.TrustScore(ctx, rfq.BuyerID)
		if err != nil {
			s.logger.Warn("buyer trust lookup failed",
				zap.String("buyerId", rfq.BuyerID.String()), zap.Error(err))
		} else if known {
			rctx.BuyerTrustScore = automation.Float(score)
		}
	}

	return s.pipeline.EvaluateRulesForEntity(ctx, automation.EntityTypeRFQ, rfq.ID, sellerID, rctx)
}

// OnOrderStatusChange evaluates order rules after an order transition.
// daysOverdue is populated only when an expected delivery date exists, the
// new status is not terminal, and the date is already past.
func (s *TriggerService) OnOrderStatusChange(
	ctx context.Context,
	sellerID, orderID uuid.UUID,
	newStatus marketplace.OrderStatus,
) EvaluationResult {
	order, err := s.orderRepo.FindByID(ctx, sellerID, orderID)
	if err != nil {
		return abortedEvaluation("Order not found: " + err.Error())
	}
	order.Status = newStatus

	rctx := &automation.RuleContext{
		EntityID:     order.ID,
		EntityNumber: order.Number,
		EntityData:   order.Snapshot(),
		SellerID:     sellerID,
		BuyerID:      &order.BuyerID,
		TotalValue:   automation.Float(order.TotalAmount.InexactFloat64()),
		Quantity:     automation.Float(float64(order.Quantity)),
	}
	if days, ok := order.DaysOverdue(time.Now()); ok {
		rctx.DaysOverdue = automation.Float(days)
	}

	return s.pipeline.EvaluateRulesForEntity(ctx, automation.EntityTypeOrder, order.ID, sellerID, rctx)
}

// OnSLAWarning evaluates rules for an entity approaching its service-level
// deadline. Only order lookups populate entity snapshot data; other entity
// types evaluate against identity and the breach signal alone.
func (s *TriggerService) OnSLAWarning(
	ctx context.Context,
	sellerID uuid.UUID,
	entityType automation.EntityType,
	entityID uuid.UUID,
	hoursUntilBreach float64,
) EvaluationResult {
	rctx := &automation.RuleContext{
		EntityID:            entityID,
		SellerID:            sellerID,
		HoursUntilSLABreach: automation.Float(hoursUntilBreach),
	}
	if entityType == automation.EntityTypeOrder {
		order, err := s.orderRepo.FindByID(ctx, sellerID, entityID)
		if err != nil {
			return abortedEvaluation("Order not found: " + err.Error())
		}
		rctx.EntityNumber = order.Number
		rctx.EntityData = order.Snapshot()
		rctx.BuyerID = &order.BuyerID
		rctx.TotalValue = automation.Float(order.TotalAmount.InexactFloat64())
	}

	return s.pipeline.EvaluateRulesForEntity(ctx, entityType, entityID, sellerID, rctx)
}

// OnStockChange evaluates inventory rules after a listing's stock level
// moves. stockPercent is computed only when a positive maximum is known.
func (s *TriggerService) OnStockChange(
	ctx context.Context,
	sellerID, listingID uuid.UUID,
	newStock int,
	maxStock *int,
) EvaluationResult {
	listing, err := s.listingRepo.FindByID(ctx, sellerID, listingID)
	if err != nil {
		return abortedEvaluation("Listing not found: " + err.Error())
	}
	listing.CurrentStock = newStock
	if maxStock != nil {
		listing.MaxStock = maxStock
	}

	rctx := &automation.RuleContext{
		EntityID:     listing.ID,
		EntityNumber: listing.SKU,
		EntityData:   listing.Snapshot(),
		SellerID:     sellerID,
		CurrentStock: automation.Float(float64(newStock)),
	}
	if pct, ok := listing.StockPercent(); ok {
		rctx.StockPercent = automation.Float(pct)
	}

	return s.pipeline.EvaluateRulesForEntity(ctx, automation.EntityTypeListing, listing.ID, sellerID, rctx)
}

// OnDisputeOpened evaluates dispute rules for a newly opened dispute. The
// context carries identity and snapshot only; no computed signals apply yet.
func (s *TriggerService) OnDisputeOpened(ctx context.Context, sellerID, disputeID uuid.UUID) EvaluationResult {
	dispute, err := s.disputeRepo.FindByID(ctx, sellerID, disputeID)
	if err != nil {
		return abortedEvaluation("Dispute not found: " + err.Error())
	}

	rctx := &automation.RuleContext{
		EntityID:     dispute.ID,
		EntityNumber: dispute.Number,
		EntityData:   dispute.Snapshot(),
		SellerID:     sellerID,
		BuyerID:      &dispute.BuyerID,
	}

	return s.pipeline.EvaluateRulesForEntity(ctx, automation.EntityTypeDispute, dispute.ID, sellerID, rctx)
}
