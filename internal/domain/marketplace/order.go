package marketplace

import (
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a marketplace order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusClosed     OrderStatus = "closed"
	OrderStatusFlagged    OrderStatus = "flagged"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsTerminal reports whether the order has reached a final state. Overdue
// computation is suppressed for terminal orders.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusClosed
}

// Order is a confirmed purchase against one seller
type Order struct {
	shared.BaseEntity
	Number               string
	SellerID             uuid.UUID
	BuyerID              uuid.UUID
	Category             string
	Status               OrderStatus
	Priority             string
	Quantity             int
	TotalAmount          decimal.Decimal
	ExpectedDeliveryDate *time.Time
	Metadata             Metadata
}

// ChangeStatus sets the order status
func (o *Order) ChangeStatus(status OrderStatus) {
	o.Status = status
	o.Touch()
}

// SetPriority sets the dedicated priority marker
func (o *Order) SetPriority(priority string) {
	o.Priority = priority
	o.Touch()
}

// DaysOverdue returns full days past the expected delivery date, or false
// when no overdue signal applies (no expected date, terminal status, or not
// yet past due).
func (o *Order) DaysOverdue(now time.Time) (float64, bool) {
	if o.ExpectedDeliveryDate == nil || o.Status.IsTerminal() {
		return 0, false
	}
	if !now.After(*o.ExpectedDeliveryDate) {
		return 0, false
	}
	days := now.Sub(*o.ExpectedDeliveryDate).Hours() / 24
	return float64(int(days)), true
}

// Snapshot renders the entity data map used in rule contexts
func (o *Order) Snapshot() map[string]any {
	snapshot := map[string]any{
		"status":      string(o.Status),
		"category":    o.Category,
		"name":        o.Number,
		"quantity":    o.Quantity,
		"totalAmount": o.TotalAmount.InexactFloat64(),
		"priority":    o.Priority,
	}
	if o.ExpectedDeliveryDate != nil {
		snapshot["expectedDeliveryDate"] = o.ExpectedDeliveryDate.Format(time.RFC3339)
	}
	return snapshot
}
