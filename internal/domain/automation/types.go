package automation

// EntityType identifies the kind of marketplace entity a rule evaluation
// targets. It is the key used to select which rules apply.
type EntityType string

const (
	EntityTypeRFQ     EntityType = "rfq"
	EntityTypeOrder   EntityType = "order"
	EntityTypeListing EntityType = "listing"
	EntityTypeDispute EntityType = "dispute"
)

// IsValid returns true if the entity type is a known value
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeRFQ, EntityTypeOrder, EntityTypeListing, EntityTypeDispute:
		return true
	}
	return false
}

// RuleType classifies a rule by the entity family it applies to
type RuleType string

const (
	RuleTypeRFQ       RuleType = "rfq_rule"
	RuleTypeOrder     RuleType = "order_rule"
	RuleTypeInventory RuleType = "inventory_rule"
	RuleTypeDispute   RuleType = "dispute_rule"
)

// IsValid returns true if the rule type is a known value
func (t RuleType) IsValid() bool {
	switch t {
	case RuleTypeRFQ, RuleTypeOrder, RuleTypeInventory, RuleTypeDispute:
		return true
	}
	return false
}

// ruleTypeByEntity is the fixed entity-to-rule-type mapping used by the
// evaluation pipeline.
var ruleTypeByEntity = map[EntityType]RuleType{
	EntityTypeRFQ:     RuleTypeRFQ,
	EntityTypeOrder:   RuleTypeOrder,
	EntityTypeListing: RuleTypeInventory,
	EntityTypeDispute: RuleTypeDispute,
}

// RuleTypeForEntity maps an entity type to the rule type evaluated against it
func RuleTypeForEntity(entityType EntityType) (RuleType, bool) {
	rt, ok := ruleTypeByEntity[entityType]
	return rt, ok
}

// TriggerType identifies the domain event that causes a rule's conditions to
// be checked.
type TriggerType string

const (
	TriggerRFQReceived       TriggerType = "rfq_received"
	TriggerOrderDelayed      TriggerType = "order_delayed"
	TriggerStockLow          TriggerType = "stock_low"
	TriggerSLAWarning        TriggerType = "sla_warning"
	TriggerDisputeOpened     TriggerType = "dispute_opened"
	TriggerOrderStatusChange TriggerType = "order_status_change"
)

// IsValid returns true if the trigger type is a known value
func (t TriggerType) IsValid() bool {
	switch t {
	case TriggerRFQReceived, TriggerOrderDelayed, TriggerStockLow,
		TriggerSLAWarning, TriggerDisputeOpened, TriggerOrderStatusChange:
		return true
	}
	return false
}

// ActionType identifies the side effect performed when a rule matches
type ActionType string

const (
	ActionAutoIgnore     ActionType = "auto_ignore"
	ActionAutoFlag       ActionType = "auto_flag"
	ActionAutoRemind     ActionType = "auto_remind"
	ActionAutoRespond    ActionType = "auto_respond"
	ActionAutoPrioritize ActionType = "auto_prioritize"
	ActionAutoHide       ActionType = "auto_hide"
	ActionAutoNotify     ActionType = "auto_notify"
	ActionAutoEscalate   ActionType = "auto_escalate"
)

// IsValid returns true if the action type is a known value. Unrecognized
// values can still appear in legacy rule rows; the executor handles them with
// an "Unknown action type" outcome instead of rejecting the rule.
func (t ActionType) IsValid() bool {
	switch t {
	case ActionAutoIgnore, ActionAutoFlag, ActionAutoRemind, ActionAutoRespond,
		ActionAutoPrioritize, ActionAutoHide, ActionAutoNotify, ActionAutoEscalate:
		return true
	}
	return false
}

// ActionResult is the recorded outcome of an executed action
type ActionResult string

const (
	ActionResultSuccess ActionResult = "success"
	ActionResultFailed  ActionResult = "failed"
	ActionResultSkipped ActionResult = "skipped"
)

// IsValid returns true if the action result is a known value
func (r ActionResult) IsValid() bool {
	switch r {
	case ActionResultSuccess, ActionResultFailed, ActionResultSkipped:
		return true
	}
	return false
}
