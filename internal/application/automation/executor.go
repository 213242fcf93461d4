package automation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/marketplace/backend/internal/domain/automation"
	"github.com/marketplace/backend/internal/domain/marketplace"
	"go.uber.org/zap"
)

// ActionOutcome describes what the executor did for one matched rule.
// Success=false never aborts the surrounding batch; the pipeline records it
// as a failed execution and moves on.
type ActionOutcome struct {
	Success     bool
	ActionTaken string
	Error       string
}

func failedOutcome(actionTaken string, err error) ActionOutcome {
	return ActionOutcome{Success: false, ActionTaken: actionTaken, Error: err.Error()}
}

// ActionExecutor dispatches a matched rule's action against the target
// entity. Each branch loads the entity itself, mutates it through the
// owning repository, and reports an outcome; internal errors never escape
// as panics or raw errors.
type ActionExecutor struct {
	rfqRepo     marketplace.RFQRepository
	orderRepo   marketplace.OrderRepository
	listingRepo marketplace.ListingRepository
	disputeRepo marketplace.DisputeRepository
	notifier    marketplace.Notifier
	logger      *zap.Logger
}

// NewActionExecutor creates an ActionExecutor
func NewActionExecutor(
	rfqRepo marketplace.RFQRepository,
	orderRepo marketplace.OrderRepository,
	listingRepo marketplace.ListingRepository,
	disputeRepo marketplace.DisputeRepository,
	notifier marketplace.Notifier,
	logger *zap.Logger,
) *ActionExecutor {
	return &ActionExecutor{
		rfqRepo:     rfqRepo,
		orderRepo:   orderRepo,
		listingRepo: listingRepo,
		disputeRepo: disputeRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// Execute runs the rule's configured action against the entity named by the
// rule context.
func (e *ActionExecutor) Execute(
	ctx context.Context,
	rule *automation.Rule,
	entityType automation.EntityType,
	rctx *automation.RuleContext,
) ActionOutcome {
	switch rule.ActionType {
	case automation.ActionAutoIgnore:
		return e.autoIgnore(ctx, rule, entityType, rctx)
	case automation.ActionAutoFlag:
		return e.autoFlag(ctx, rule, entityType, rctx)
	case automation.ActionAutoPrioritize:
		return e.autoPrioritize(ctx, rule, entityType, rctx)
	case automation.ActionAutoRemind:
		return e.autoRemind(ctx, rule, entityType, rctx)
	case automation.ActionAutoRespond:
		return e.autoRespond(ctx, rule, entityType, rctx)
	case automation.ActionAutoHide:
		return e.autoHide(ctx, rule, entityType, rctx)
	case automation.ActionAutoNotify:
		return e.autoNotify(ctx, rule, entityType, rctx)
	case automation.ActionAutoEscalate:
		return e.autoEscalate(ctx, rule, entityType, rctx)
	default:
		return ActionOutcome{
			Success:     false,
			ActionTaken: "Unknown action type",
			Error:       string(rule.ActionType),
		}
	}
}

func (e *ActionExecutor) autoIgnore(
	ctx context.Context,
	rule *automation.Rule,
	entityType automation.EntityType,
	rctx *automation.RuleContext,
) ActionOutcome {
	status := rule.ActionConfig.SetStatus
	if status == "" {
		status = "ignored"
	}
	if err := e.setEntityStatus(ctx, entityType, rctx, status); err != nil {
		return failedOutcome("Failed to change status", err)
	}
	return ActionOutcome{Success: true, ActionTaken: "Status changed to " + status}
}

func (e *ActionExecutor) autoFlag(
	ctx context.Context,
	rule *automation.Rule,
	entityType automation.EntityType,
	rctx *automation.RuleContext,
) ActionOutcome {
	status := rule.ActionConfig.SetStatus
	if status == "" {
		status = "flagged"
	}
	if err := e.setEntityStatus(ctx, entityType, rctx, status); err != nil {
		return failedOutcome("Failed to flag entity", err)
	}
	if rule.ActionConfig.Notify {
		e.sendNotification(ctx, rule, entityType, rctx,
			"Entity flagged by automation", rule.ActionConfig.NotificationMessage)
	}
	return ActionOutcome{Success: true, ActionTaken: "Entity flagged with status " + status}
}

func (e *ActionExecutor) autoPrioritize(
	ctx context.Context,
	rule *automation.Rule,
	entityType automation.EntityType,
	rctx *automation.RuleContext,
) ActionOutcome {
	priority := rule.ActionConfig.SetPriority
	if priority == "" {
		priority = "high"
	}
	if err := e.setEntityPriority(ctx, entityType, rctx, priority, rule.ActionConfig.AddTag); err != nil {
		return failedOutcome("Failed to set priority", err)
	}
	if rule.ActionConfig.Notify {
		e.sendNotification(ctx, rule, entityType, rctx,
			"Entity prioritized by automation", rule.ActionConfig.NotificationMessage)
	}
	taken := "Priority set to " + priority
	if rule.ActionConfig.AddTag != "" {
		taken += ", tagged " + rule.ActionConfig.AddTag
	}
	return ActionOutcome{Success: true, ActionTaken: taken}
}

func (e *ActionExecutor) autoRemind(
	ctx context.Context,
	rule *automation.Rule,
	entityType automation.EntityType,
	rctx *automation.RuleContext,
) ActionOutcome {
	message := rule.ActionConfig.NotificationMessage
	if message == "" {
		message = rule.ActionConfig.ReminderMessage
	}
	if message == "" {
		message = "Automated reminder for " + rctx.EntityNumber
	}
	e.sendNotification(ctx, rule, entityType, rctx, "Automated reminder", message)
	return ActionOutcome{Success: true, ActionTaken: "Reminder sent"}
}

func (e *ActionExecutor) autoRespond(
	ctx context.Context,
	rule *automation.Rule,
	entityType automation.EntityType,
	rctx *automation.RuleContext,
) ActionOutcome {
	if entityType != automation.EntityTypeDispute {
		return ActionOutcome{Success: true, ActionTaken: "No response action for " + string(entityType)}
	}
	message := rule.ActionConfig.ResponseMessage
	if message == "" {
		message = rule.ActionConfig.ResponseTemplate
	}
	if message == "" {
		message = "Thank you for raising this issue. We are reviewing it and will respond shortly."
	}
	message = SubstitutePlaceholders(message, rctx)

	dispute, err := e.disputeRepo.FindByID(ctx, rctx.SellerID, rctx.EntityID)
	if err != nil {
		return failedOutcome("Failed to respond to dispute", err)
	}
	dispute.AppendSystemMessage(message)
	if err := e.disputeRepo.Update(ctx, dispute); err != nil {
		return failedOutcome("Failed to respond to dispute", err)
	}
	return ActionOutcome{Success: true, ActionTaken: "Automated response posted to dispute"}
}

func (e *ActionExecutor) autoHide(
	ctx context.Context,
	rule *automation.Rule,
	entityType automation.EntityType,
	rctx *automation.RuleContext,
) ActionOutcome {
	if entityType != automation.EntityTypeListing {
		return ActionOutcome{Success: true, ActionTaken: "No hide action for " + string(entityType)}
	}
	listing, err := e.listingRepo.FindByID(ctx, rctx.SellerID, rctx.EntityID)
	if err != nil {
		return failedOutcome("Failed to hide listing", err)
	}
	listing.Hide()
	if err := e.listingRepo.Update(ctx, listing); err != nil {
		return failedOutcome("Failed to hide listing", err)
	}
	if rule.ActionConfig.Notify {
		e.sendNotification(ctx, rule, entityType, rctx,
			"Listing hidden by automation", rule.ActionConfig.NotificationMessage)
	}
	return ActionOutcome{Success: true, ActionTaken: "Listing hidden from marketplace"}
}

func (e *ActionExecutor) autoNotify(
	ctx context.Context,
	rule *automation.Rule,
	entityType automation.EntityType,
	rctx *automation.RuleContext,
) ActionOutcome {
	message := rule.ActionConfig.NotificationMessage
	if message == "" {
		message = "Automation rule \"" + rule.Name + "\" matched " + rctx.EntityNumber
	}
	e.sendNotification(ctx, rule, entityType, rctx, "Automation notification", message)
	return ActionOutcome{Success: true, ActionTaken: "Notification sent"}
}

func (e *ActionExecutor) autoEscalate(
	ctx context.Context,
	rule *automation.Rule,
	entityType automation.EntityType,
	rctx *automation.RuleContext,
) ActionOutcome {
	if entityType != automation.EntityTypeDispute {
		return ActionOutcome{Success: true, ActionTaken: "No escalation action for " + string(entityType)}
	}
	escalateTo := rule.ActionConfig.EscalateTo
	if escalateTo == "" {
		escalateTo = "support"
	}
	dispute, err := e.disputeRepo.FindByID(ctx, rctx.SellerID, rctx.EntityID)
	if err != nil {
		return failedOutcome("Failed to escalate dispute", err)
	}
	dispute.Escalate(escalateTo, time.Now())
	if err := e.disputeRepo.Update(ctx, dispute); err != nil {
		return failedOutcome("Failed to escalate dispute", err)
	}
	if rule.ActionConfig.Notify {
		e.sendNotification(ctx, rule, entityType, rctx,
			"Dispute escalated by automation", rule.ActionConfig.NotificationMessage)
	}
	return ActionOutcome{Success: true, ActionTaken: "Dispute escalated to " + escalateTo}
}

// setEntityStatus applies a status string to the entity under evaluation
func (e *ActionExecutor) setEntityStatus(
	ctx context.Context,
	entityType automation.EntityType,
	rctx *automation.RuleContext,
	status string,
) error {
	switch entityType {
	case automation.EntityTypeRFQ:
		rfq, err := e.rfqRepo.FindByID(ctx, rctx.SellerID, rctx.EntityID)
		if err != nil {
			return err
		}
		rfq.ChangeStatus(marketplace.RFQStatus(status))
		return e.rfqRepo.Update(ctx, rfq)
	case automation.EntityTypeOrder:
		order, err := e.orderRepo.FindByID(ctx, rctx.SellerID, rctx.EntityID)
		if err != nil {
			return err
		}
		order.ChangeStatus(marketplace.OrderStatus(status))
		return e.orderRepo.Update(ctx, order)
	case automation.EntityTypeListing:
		listing, err := e.listingRepo.FindByID(ctx, rctx.SellerID, rctx.EntityID)
		if err != nil {
			return err
		}
		listing.ChangeStatus(marketplace.ListingStatus(status))
		return e.listingRepo.Update(ctx, listing)
	case automation.EntityTypeDispute:
		dispute, err := e.disputeRepo.FindByID(ctx, rctx.SellerID, rctx.EntityID)
		if err != nil {
			return err
		}
		dispute.ChangeStatus(marketplace.DisputeStatus(status))
		return e.disputeRepo.Update(ctx, dispute)
	default:
		return fmt.Errorf("unknown entity type %q", entityType)
	}
}

// setEntityPriority records a priority marker. Orders and disputes carry a
// dedicated priority field; RFQs and listings fall back to the metadata bag.
func (e *ActionExecutor) setEntityPriority(
	ctx context.Context,
	entityType automation.EntityType,
	rctx *automation.RuleContext,
	priority, tag string,
) error {
	switch entityType {
	case automation.EntityTypeRFQ:
		rfq, err := e.rfqRepo.FindByID(ctx, rctx.SellerID, rctx.EntityID)
		if err != nil {
			return err
		}
		if rfq.Metadata == nil {
			rfq.Metadata = marketplace.NewMetadata()
		}
		rfq.Metadata.Set("priority", priority)
		if tag != "" {
			rfq.Metadata.AddTag(tag)
		}
		rfq.Touch()
		return e.rfqRepo.Update(ctx, rfq)
	case automation.EntityTypeOrder:
		order, err := e.orderRepo.FindByID(ctx, rctx.SellerID, rctx.EntityID)
		if err != nil {
			return err
		}
		order.SetPriority(priority)
		if tag != "" {
			if order.Metadata == nil {
				order.Metadata = marketplace.NewMetadata()
			}
			order.Metadata.AddTag(tag)
		}
		return e.orderRepo.Update(ctx, order)
	case automation.EntityTypeListing:
		listing, err := e.listingRepo.FindByID(ctx, rctx.SellerID, rctx.EntityID)
		if err != nil {
			return err
		}
		if listing.Metadata == nil {
			listing.Metadata = marketplace.NewMetadata()
		}
		listing.Metadata.Set("priority", priority)
		if tag != "" {
			listing.Metadata.AddTag(tag)
		}
		listing.Touch()
		return e.listingRepo.Update(ctx, listing)
	case automation.EntityTypeDispute:
		dispute, err := e.disputeRepo.FindByID(ctx, rctx.SellerID, rctx.EntityID)
		if err != nil {
			return err
		}
		dispute.SetPriority(priority)
		if tag != "" {
			if dispute.Metadata == nil {
				dispute.Metadata = marketplace.NewMetadata()
			}
			dispute.Metadata.AddTag(tag)
		}
		return e.disputeRepo.Update(ctx, dispute)
	default:
		return fmt.Errorf("unknown entity type %q", entityType)
	}
}

// sendNotification delivers fire-and-forget; delivery failures are logged
// and never fail the action.
func (e *ActionExecutor) sendNotification(
	ctx context.Context,
	rule *automation.Rule,
	entityType automation.EntityType,
	rctx *automation.RuleContext,
	subject, message string,
) {
	if e.notifier == nil {
		return
	}
	if message == "" {
		message = "Automation rule \"" + rule.Name + "\" acted on " + rctx.EntityNumber
	}
	message = SubstitutePlaceholders(message, rctx)
	notification := marketplace.NewNotification(rctx.SellerID, string(entityType), rctx.EntityID, subject, message)
	if err := e.notifier.Notify(ctx, notification); err != nil {
		e.logger.Warn("notification delivery failed",
			zap.String("ruleId", rule.ID.String()),
			zap.String("entityId", rctx.EntityID.String()),
			zap.Error(err))
	}
}

// SubstitutePlaceholders fills {daysOverdue} and {itemName} tokens in a
// notification payload. Tokens without a backing context value are left
// verbatim.
func SubstitutePlaceholders(message string, rctx *automation.RuleContext) string {
	if rctx == nil {
		return message
	}
	if rctx.DaysOverdue != nil {
		message = strings.ReplaceAll(message, "{daysOverdue}",
			strconv.FormatFloat(*rctx.DaysOverdue, 'f', -1, 64))
	}
	if name, ok := rctx.EntityName(); ok {
		message = strings.ReplaceAll(message, "{itemName}", name)
	}
	return message
}
