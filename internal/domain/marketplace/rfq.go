package marketplace

import (
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RFQStatus is the lifecycle state of a request-for-quote
type RFQStatus string

const (
	RFQStatusPending RFQStatus = "pending"
	RFQStatusQuoted  RFQStatus = "quoted"
	RFQStatusIgnored RFQStatus = "ignored"
	RFQStatusFlagged RFQStatus = "flagged"
	RFQStatusExpired RFQStatus = "expired"
	RFQStatusClosed  RFQStatus = "closed"
)

// RFQ is a buyer's request-for-quote addressed to one seller. RFQs have no
// dedicated priority column; automation stores priority and tags in the
// metadata bag.
type RFQ struct {
	shared.BaseEntity
	Number          string
	SellerID        uuid.UUID
	BuyerID         uuid.UUID
	Title           string
	Category        string
	Status          RFQStatus
	Quantity        int
	EstimatedValue  decimal.Decimal
	EstimatedMargin float64
	Unread          bool
	ReceivedAt      time.Time
	Metadata        Metadata
}

// ChangeStatus sets the RFQ status
func (r *RFQ) ChangeStatus(status RFQStatus) {
	r.Status = status
	r.Touch()
}

// MarkRead clears the unread flag
func (r *RFQ) MarkRead() {
	r.Unread = false
	r.Touch()
}

// Snapshot renders the entity data map used in rule contexts
func (r *RFQ) Snapshot() map[string]any {
	return map[string]any{
		"status":          string(r.Status),
		"category":        r.Category,
		"name":            r.Title,
		"quantity":        r.Quantity,
		"estimatedValue":  r.EstimatedValue.InexactFloat64(),
		"estimatedMargin": r.EstimatedMargin,
		"unread":          r.Unread,
	}
}
