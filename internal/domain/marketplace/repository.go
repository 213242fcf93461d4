package marketplace

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RFQRepository stores requests for quotation
type RFQRepository interface {
	Create(ctx context.Context, rfq *RFQ) error
	FindByID(ctx context.Context, sellerID, rfqID uuid.UUID) (*RFQ, error)
	Update(ctx context.Context, rfq *RFQ) error
	// FindUnreadOlderThan returns unread pending RFQs received before the cutoff
	FindUnreadOlderThan(ctx context.Context, cutoff time.Time) ([]RFQ, error)
}

// OrderRepository stores marketplace orders
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, sellerID, orderID uuid.UUID) (*Order, error)
	Update(ctx context.Context, order *Order) error
	// FindOverdue returns non-terminal orders whose expected delivery date is past
	FindOverdue(ctx context.Context, now time.Time) ([]Order, error)
	// FindApproachingSLA returns non-terminal orders whose SLA deadline falls
	// within the given horizon from now
	FindApproachingSLA(ctx context.Context, now time.Time, horizon time.Duration) ([]Order, error)
}

// ListingRepository stores inventory listings
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, sellerID, listingID uuid.UUID) (*Listing, error)
	Update(ctx context.Context, listing *Listing) error
	// FindLowStock returns active listings at or below the stock threshold
	FindLowStock(ctx context.Context, threshold int) ([]Listing, error)
	// FindSlowMoving returns active listings with no sale since the cutoff
	FindSlowMoving(ctx context.Context, cutoff time.Time) ([]Listing, error)
}

// DisputeRepository stores buyer disputes
type DisputeRepository interface {
	Create(ctx context.Context, dispute *Dispute) error
	FindByID(ctx context.Context, sellerID, disputeID uuid.UUID) (*Dispute, error)
	Update(ctx context.Context, dispute *Dispute) error
	// FindOpenSince returns open or under-review disputes opened before the cutoff
	FindOpenSince(ctx context.Context, cutoff time.Time) ([]Dispute, error)
}

// BuyerTrustProvider resolves a buyer's trust score. The second return
// is false when no score is known for the buyer.
type BuyerTrustProvider interface {
	TrustScore(ctx context.Context, buyerID uuid.UUID) (float64, bool, error)
}
