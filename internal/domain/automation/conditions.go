package automation

// TriggerConditions is the structured predicate attached to a rule. Every
// field is optional; an unset threshold is skipped during evaluation, so the
// zero value matches any context. The struct round-trips losslessly through
// JSON at the persistence boundary.
type TriggerConditions struct {
	// Strict "below" thresholds: match requires context value < threshold
	MarginBelow       *float64 `json:"marginBelow,omitempty"`
	QuantityBelow     *float64 `json:"quantityBelow,omitempty"`
	ValueBelow        *float64 `json:"valueBelow,omitempty"`
	StockBelow        *float64 `json:"stockBelow,omitempty"`
	StockPercentBelow *float64 `json:"stockPercentBelow,omitempty"`
	BuyerTrustBelow   *float64 `json:"buyerTrustBelow,omitempty"`

	// Strict "above" thresholds: match requires context value > threshold
	MarginAbove     *float64 `json:"marginAbove,omitempty"`
	QuantityAbove   *float64 `json:"quantityAbove,omitempty"`
	ValueAbove      *float64 `json:"valueAbove,omitempty"`
	BuyerTrustAbove *float64 `json:"buyerTrustAbove,omitempty"`

	// DaysOverdue matches when the context value is AT LEAST the threshold.
	// The inclusive semantics differ from the above/below pairs on purpose.
	DaysOverdue *float64 `json:"daysOverdue,omitempty"`

	// HoursUntilBreach matches when the breach is within the window, i.e.
	// context value <= threshold (inclusive at the threshold).
	HoursUntilBreach *float64 `json:"hoursUntilBreach,omitempty"`

	// Status comparisons against the entity snapshot's status field
	StatusEquals    *string `json:"statusEquals,omitempty"`
	StatusNotEquals *string `json:"statusNotEquals,omitempty"`

	// Category membership checks, only applied when non-empty
	CategoryIn    []string `json:"categoryIn,omitempty"`
	CategoryNotIn []string `json:"categoryNotIn,omitempty"`
}

// IsEmpty returns true when no condition is set. An empty condition set
// matches unconditionally.
func (c TriggerConditions) IsEmpty() bool {
	return c.MarginBelow == nil && c.QuantityBelow == nil && c.ValueBelow == nil &&
		c.StockBelow == nil && c.StockPercentBelow == nil && c.BuyerTrustBelow == nil &&
		c.MarginAbove == nil && c.QuantityAbove == nil && c.ValueAbove == nil &&
		c.BuyerTrustAbove == nil && c.DaysOverdue == nil && c.HoursUntilBreach == nil &&
		c.StatusEquals == nil && c.StatusNotEquals == nil &&
		len(c.CategoryIn) == 0 && len(c.CategoryNotIn) == 0
}

// ActionConfig holds the parameters of a rule's action. Like
// TriggerConditions it is persisted as a JSON text blob and every field is
// optional; the executor applies per-action defaults for unset fields.
type ActionConfig struct {
	SetStatus           string `json:"setStatus,omitempty"`
	SetPriority         string `json:"setPriority,omitempty"`
	AddTag              string `json:"addTag,omitempty"`
	Notify              bool   `json:"notify,omitempty"`
	NotificationMessage string `json:"notificationMessage,omitempty"`
	ReminderMessage     string `json:"reminderMessage,omitempty"`
	ResponseMessage     string `json:"responseMessage,omitempty"`
	ResponseTemplate    string `json:"responseTemplate,omitempty"`
	EscalateTo          string `json:"escalateTo,omitempty"`
}
