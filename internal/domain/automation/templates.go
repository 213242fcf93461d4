package automation

// Template is a predefined, non-persisted rule preset used to bootstrap new
// rules. Templates are keyed by a stable string ID that callers reference
// when instantiating.
type Template struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	RuleType     RuleType          `json:"ruleType"`
	TriggerType  TriggerType       `json:"triggerType"`
	Conditions   TriggerConditions `json:"triggerConditions"`
	ActionType   ActionType        `json:"actionType"`
	ActionConfig ActionConfig      `json:"actionConfig"`
	Priority     int               `json:"priority"`
}

// defaultTemplates is the built-in catalog, ordered for display
var defaultTemplates = []Template{
	{
		ID:          "rfq-low-margin",
		Name:        "Ignore low-margin RFQs",
		Description: "Automatically ignore incoming RFQs whose estimated margin is below 5%",
		RuleType:    RuleTypeRFQ,
		TriggerType: TriggerRFQReceived,
		Conditions:  TriggerConditions{MarginBelow: Float(5)},
		ActionType:  ActionAutoIgnore,
		ActionConfig: ActionConfig{
			SetStatus: "ignored",
		},
		Priority: 50,
	},
	{
		ID:          "rfq-low-trust",
		Name:        "Flag RFQs from low-trust buyers",
		Description: "Flag incoming RFQs when the buyer trust score is below 30",
		RuleType:    RuleTypeRFQ,
		TriggerType: TriggerRFQReceived,
		Conditions:  TriggerConditions{BuyerTrustBelow: Float(30)},
		ActionType:  ActionAutoFlag,
		ActionConfig: ActionConfig{
			SetStatus:           "flagged",
			Notify:              true,
			NotificationMessage: "An RFQ from a low-trust buyer was flagged for review",
		},
		Priority: 60,
	},
	{
		ID:          "rfq-high-value",
		Name:        "Prioritize high-value RFQs",
		Description: "Mark RFQs worth more than 10,000 as high priority",
		RuleType:    RuleTypeRFQ,
		TriggerType: TriggerRFQReceived,
		Conditions:  TriggerConditions{ValueAbove: Float(10000)},
		ActionType:  ActionAutoPrioritize,
		ActionConfig: ActionConfig{
			SetPriority: "high",
			AddTag:      "high-value",
			Notify:      true,
		},
		Priority: 40,
	},
	{
		ID:          "order-delay-notify",
		Name:        "Remind about overdue orders",
		Description: "Send a reminder when an order is at least 2 days overdue",
		RuleType:    RuleTypeOrder,
		TriggerType: TriggerOrderDelayed,
		Conditions:  TriggerConditions{DaysOverdue: Float(2)},
		ActionType:  ActionAutoRemind,
		ActionConfig: ActionConfig{
			ReminderMessage: "Order is {daysOverdue} days overdue, please follow up with the carrier",
		},
		Priority: 50,
	},
	{
		ID:          "order-sla-escalate",
		Name:        "Flag orders near SLA breach",
		Description: "Flag orders whose SLA will be breached within 4 hours",
		RuleType:    RuleTypeOrder,
		TriggerType: TriggerSLAWarning,
		Conditions:  TriggerConditions{HoursUntilBreach: Float(4)},
		ActionType:  ActionAutoFlag,
		ActionConfig: ActionConfig{
			SetStatus:           "flagged",
			Notify:              true,
			NotificationMessage: "Order is approaching its SLA deadline",
		},
		Priority: 30,
	},
	{
		ID:          "stock-low-flag",
		Name:        "Notify on low stock",
		Description: "Notify when a listing drops below 10% of its maximum stock",
		RuleType:    RuleTypeInventory,
		TriggerType: TriggerStockLow,
		Conditions:  TriggerConditions{StockPercentBelow: Float(10)},
		ActionType:  ActionAutoNotify,
		ActionConfig: ActionConfig{
			NotificationMessage: "{itemName} is running low on stock",
		},
		Priority: 50,
	},
	{
		ID:          "stock-out-hide",
		Name:        "Hide out-of-stock listings",
		Description: "Hide listings when stock drops below 1 unit",
		RuleType:    RuleTypeInventory,
		TriggerType: TriggerStockLow,
		Conditions:  TriggerConditions{StockBelow: Float(1)},
		ActionType:  ActionAutoHide,
		ActionConfig: ActionConfig{
			Notify:              true,
			NotificationMessage: "{itemName} was hidden because it is out of stock",
		},
		Priority: 40,
	},
	{
		ID:          "listing-slow-prioritize",
		Name:        "Tag slow-moving listings",
		Description: "Tag listings that have not sold recently for promotion review",
		RuleType:    RuleTypeInventory,
		TriggerType: TriggerStockLow,
		Conditions:  TriggerConditions{},
		ActionType:  ActionAutoPrioritize,
		ActionConfig: ActionConfig{
			SetPriority: "low",
			AddTag:      "slow-moving",
		},
		Priority: 90,
	},
	{
		ID:          "dispute-auto-respond",
		Name:        "Acknowledge every dispute",
		Description: "Post an acknowledgement message as soon as a dispute is opened",
		RuleType:    RuleTypeDispute,
		TriggerType: TriggerDisputeOpened,
		Conditions:  TriggerConditions{},
		ActionType:  ActionAutoRespond,
		ActionConfig: ActionConfig{
			ResponseMessage: "Thank you for raising this issue. We are reviewing your case and will respond within 24 hours.",
		},
		Priority: 20,
	},
	{
		ID:          "dispute-stale-escalate",
		Name:        "Escalate stale disputes",
		Description: "Escalate disputes that have been open for at least 3 days",
		RuleType:    RuleTypeDispute,
		TriggerType: TriggerDisputeOpened,
		Conditions:  TriggerConditions{DaysOverdue: Float(3)},
		ActionType:  ActionAutoEscalate,
		ActionConfig: ActionConfig{
			EscalateTo:          "support-team",
			Notify:              true,
			NotificationMessage: "A dispute was escalated after {daysOverdue} days without resolution",
		},
		Priority: 30,
	},
}

// DefaultTemplates returns the built-in template catalog. The returned slice
// is a copy; callers may not mutate the catalog.
func DefaultTemplates() []Template {
	templates := make([]Template, len(defaultTemplates))
	copy(templates, defaultTemplates)
	return templates
}

// TemplateByID looks up a template in the built-in catalog
func TemplateByID(id string) (Template, bool) {
	for _, t := range defaultTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// TemplateOverrides are optional field overrides applied when a rule is
// instantiated from a template.
type TemplateOverrides struct {
	Name         *string
	Description  *string
	Conditions   *TriggerConditions
	ActionConfig *ActionConfig
	Priority     *int
	Enabled      *bool
}

// Instantiate builds rule-creation params from the template plus overrides
func (t Template) Instantiate(overrides TemplateOverrides) NewRuleParams {
	params := NewRuleParams{
		Name:         t.Name,
		Description:  t.Description,
		RuleType:     t.RuleType,
		TriggerType:  t.TriggerType,
		Conditions:   t.Conditions,
		ActionType:   t.ActionType,
		ActionConfig: t.ActionConfig,
	}
	priority := t.Priority
	if priority == 0 {
		priority = DefaultPriority
	}
	params.Priority = &priority

	if overrides.Name != nil {
		params.Name = *overrides.Name
	}
	if overrides.Description != nil {
		params.Description = *overrides.Description
	}
	if overrides.Conditions != nil {
		params.Conditions = *overrides.Conditions
	}
	if overrides.ActionConfig != nil {
		params.ActionConfig = *overrides.ActionConfig
	}
	if overrides.Priority != nil {
		params.Priority = overrides.Priority
	}
	params.Enabled = overrides.Enabled
	return params
}
