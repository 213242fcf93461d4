package automation

import (
	"encoding/json"

	"github.com/google/uuid"
)

// RuleContext is the ephemeral bag of entity data and computed signals
// assembled per evaluation call. Numeric signals are pointers so a trigger
// hook can leave a field absent; the evaluator treats absent fields as
// "condition does not apply", never as a mismatch.
type RuleContext struct {
	EntityID     uuid.UUID      `json:"entityId"`
	EntityNumber string         `json:"entityNumber,omitempty"`
	EntityData   map[string]any `json:"entityData,omitempty"`
	SellerID     uuid.UUID      `json:"sellerId"`

	BuyerID             *uuid.UUID `json:"buyerId,omitempty"`
	BuyerTrustScore     *float64   `json:"buyerTrustScore,omitempty"`
	Margin              *float64   `json:"margin,omitempty"`
	TotalValue          *float64   `json:"totalValue,omitempty"`
	Quantity            *float64   `json:"quantity,omitempty"`
	DaysOverdue         *float64   `json:"daysOverdue,omitempty"`
	CurrentStock        *float64   `json:"currentStock,omitempty"`
	StockPercent        *float64   `json:"stockPercent,omitempty"`
	HoursUntilSLABreach *float64   `json:"hoursUntilSLABreach,omitempty"`
}

// EntityStatus returns the status string from the entity snapshot, if present
func (c *RuleContext) EntityStatus() (string, bool) {
	return c.entityString("status")
}

// EntityCategory returns the category string from the entity snapshot, if present
func (c *RuleContext) EntityCategory() (string, bool) {
	return c.entityString("category")
}

// EntityName returns the name string from the entity snapshot, if present
func (c *RuleContext) EntityName() (string, bool) {
	return c.entityString("name")
}

func (c *RuleContext) entityString(key string) (string, bool) {
	if c == nil || c.EntityData == nil {
		return "", false
	}
	v, ok := c.EntityData[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Snapshot serializes the context for the execution log's trigger data
func (c *RuleContext) Snapshot() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ContextFromSnapshot restores a context from a stored trigger data snapshot
func ContextFromSnapshot(snapshot string) (*RuleContext, error) {
	var ctx RuleContext
	if err := json.Unmarshal([]byte(snapshot), &ctx); err != nil {
		return nil, err
	}
	return &ctx, nil
}

// Float returns a pointer to the given float, a convenience for building
// contexts with optional signals.
func Float(v float64) *float64 {
	return &v
}
