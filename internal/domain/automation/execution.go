package automation

import (
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Execution is an append-only record of one rule having matched and acted on
// one entity. Records are immutable once written and purged in bulk by the
// retention job after 90 days.
type Execution struct {
	shared.BaseEntity
	RuleID       uuid.UUID
	SellerID     uuid.UUID
	EntityType   EntityType
	EntityID     uuid.UUID
	EntityNumber string
	TriggerData  string
	ActionTaken  string
	ActionResult ActionResult
	ErrorMessage string
	ExecutedAt   time.Time
}

// NewExecution records the outcome of an executed rule action. The trigger
// data is the serialized context snapshot taken at evaluation time.
func NewExecution(
	rule *Rule,
	entityType EntityType,
	ctx *RuleContext,
	actionTaken string,
	result ActionResult,
	errorMessage string,
) (*Execution, error) {
	if rule == nil {
		return nil, shared.NewDomainError("INVALID_RULE", "Rule cannot be nil")
	}
	if !result.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION_RESULT", "Invalid action result")
	}

	snapshot := ""
	entityID := uuid.Nil
	entityNumber := ""
	if ctx != nil {
		var err error
		snapshot, err = ctx.Snapshot()
		if err != nil {
			return nil, err
		}
		entityID = ctx.EntityID
		entityNumber = ctx.EntityNumber
	}

	return &Execution{
		BaseEntity:   shared.NewBaseEntity(),
		RuleID:       rule.ID,
		SellerID:     rule.SellerID,
		EntityType:   entityType,
		EntityID:     entityID,
		EntityNumber: entityNumber,
		TriggerData:  snapshot,
		ActionTaken:  actionTaken,
		ActionResult: result,
		ErrorMessage: errorMessage,
		ExecutedAt:   time.Now(),
	}, nil
}

// Failed reports whether the execution recorded a failed action
func (e *Execution) Failed() bool {
	return e.ActionResult == ActionResultFailed
}
