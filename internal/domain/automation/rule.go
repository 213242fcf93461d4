package automation

import (
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultPriority is assigned to rules created without an explicit priority.
// Lower priority values evaluate first.
const DefaultPriority = 100

// Rule is a seller-owned automation definition: a set of trigger conditions
// and a single action, scoped to one entity family. Rules are only visible
// to and mutable by their owning seller.
type Rule struct {
	shared.BaseEntity
	SellerID        uuid.UUID
	Name            string
	Description     string
	RuleType        RuleType
	TriggerType     TriggerType
	Conditions      TriggerConditions
	ActionType      ActionType
	ActionConfig    ActionConfig
	Priority        int
	Enabled         bool
	TriggerCount    int64
	LastTriggeredAt *time.Time
}

// NewRuleParams carries the caller-supplied fields for rule creation.
// Priority and Enabled are optional; nil means "use the default".
type NewRuleParams struct {
	Name         string
	Description  string
	RuleType     RuleType
	TriggerType  TriggerType
	Conditions   TriggerConditions
	ActionType   ActionType
	ActionConfig ActionConfig
	Priority     *int
	Enabled      *bool
}

// NewRule creates a rule for the given seller, applying the default priority
// (100) and enabled state (true) when unset.
func NewRule(sellerID uuid.UUID, params NewRuleParams) (*Rule, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER_ID", "Seller ID cannot be empty")
	}
	if params.Name == "" {
		return nil, shared.NewDomainError("INVALID_RULE_NAME", "Rule name cannot be empty")
	}
	if !params.RuleType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RULE_TYPE", "Invalid rule type")
	}
	if !params.TriggerType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRIGGER_TYPE", "Invalid trigger type")
	}
	if !params.ActionType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION_TYPE", "Invalid action type")
	}

	priority := DefaultPriority
	if params.Priority != nil {
		priority = *params.Priority
	}
	enabled := true
	if params.Enabled != nil {
		enabled = *params.Enabled
	}

	return &Rule{
		BaseEntity:   shared.NewBaseEntity(),
		SellerID:     sellerID,
		Name:         params.Name,
		Description:  params.Description,
		RuleType:     params.RuleType,
		TriggerType:  params.TriggerType,
		Conditions:   params.Conditions,
		ActionType:   params.ActionType,
		ActionConfig: params.ActionConfig,
		Priority:     priority,
		Enabled:      enabled,
	}, nil
}

// RuleUpdate carries partial updates to a rule; nil fields are left unchanged
type RuleUpdate struct {
	Name         *string
	Description  *string
	TriggerType  *TriggerType
	Conditions   *TriggerConditions
	ActionType   *ActionType
	ActionConfig *ActionConfig
	Priority     *int
	Enabled      *bool
}

// Apply merges the partial update into the rule
func (r *Rule) Apply(update RuleUpdate) error {
	if update.Name != nil {
		if *update.Name == "" {
			return shared.NewDomainError("INVALID_RULE_NAME", "Rule name cannot be empty")
		}
		r.Name = *update.Name
	}
	if update.Description != nil {
		r.Description = *update.Description
	}
	if update.TriggerType != nil {
		if !update.TriggerType.IsValid() {
			return shared.NewDomainError("INVALID_TRIGGER_TYPE", "Invalid trigger type")
		}
		r.TriggerType = *update.TriggerType
	}
	if update.Conditions != nil {
		r.Conditions = *update.Conditions
	}
	if update.ActionType != nil {
		if !update.ActionType.IsValid() {
			return shared.NewDomainError("INVALID_ACTION_TYPE", "Invalid action type")
		}
		r.ActionType = *update.ActionType
	}
	if update.ActionConfig != nil {
		r.ActionConfig = *update.ActionConfig
	}
	if update.Priority != nil {
		r.Priority = *update.Priority
	}
	if update.Enabled != nil {
		r.Enabled = *update.Enabled
	}
	r.Touch()
	return nil
}

// Toggle flips the enabled state and returns the new value
func (r *Rule) Toggle() bool {
	r.Enabled = !r.Enabled
	r.Touch()
	return r.Enabled
}

// IsOwnedBy reports whether the rule belongs to the given seller
func (r *Rule) IsOwnedBy(sellerID uuid.UUID) bool {
	return r.SellerID == sellerID
}
