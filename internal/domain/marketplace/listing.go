package marketplace

import (
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListingStatus is the visibility state of an inventory listing
type ListingStatus string

const (
	ListingStatusActive  ListingStatus = "active"
	ListingStatusDraft   ListingStatus = "draft"
	ListingStatusHidden  ListingStatus = "hidden"
	ListingStatusFlagged ListingStatus = "flagged"
)

// Listing is a seller's inventory item offered on the marketplace. Like
// RFQs, listings have no dedicated priority column; automation uses the
// metadata bag.
type Listing struct {
	shared.BaseEntity
	SKU          string
	SellerID     uuid.UUID
	Name         string
	Category     string
	Status       ListingStatus
	Price        decimal.Decimal
	CurrentStock int
	MaxStock     *int
	LastSoldAt   *time.Time
	Metadata     Metadata
}

// ChangeStatus sets the listing status
func (l *Listing) ChangeStatus(status ListingStatus) {
	l.Status = status
	l.Touch()
}

// Hide takes the listing off the marketplace
func (l *Listing) Hide() {
	l.ChangeStatus(ListingStatusHidden)
}

// StockPercent returns stock as a percentage of maximum, or false when no
// positive maximum is configured.
func (l *Listing) StockPercent() (float64, bool) {
	if l.MaxStock == nil || *l.MaxStock <= 0 {
		return 0, false
	}
	return float64(l.CurrentStock) / float64(*l.MaxStock) * 100, true
}

// Snapshot renders the entity data map used in rule contexts
func (l *Listing) Snapshot() map[string]any {
	snapshot := map[string]any{
		"status":       string(l.Status),
		"category":     l.Category,
		"name":         l.Name,
		"sku":          l.SKU,
		"price":        l.Price.InexactFloat64(),
		"currentStock": l.CurrentStock,
	}
	if l.MaxStock != nil {
		snapshot["maxStock"] = *l.MaxStock
	}
	if l.LastSoldAt != nil {
		snapshot["lastSoldAt"] = l.LastSoldAt.Format(time.RFC3339)
	}
	return snapshot
}
