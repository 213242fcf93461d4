package marketplace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderDaysOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("no expected date", func(t *testing.T) {
		order := &Order{Status: OrderStatusProcessing}
		_, ok := order.DaysOverdue(now)
		assert.False(t, ok)
	})

	t.Run("terminal status suppresses overdue", func(t *testing.T) {
		due := now.AddDate(0, 0, -5)
		order := &Order{Status: OrderStatusDelivered, ExpectedDeliveryDate: &due}
		_, ok := order.DaysOverdue(now)
		assert.False(t, ok)
	})

	t.Run("not yet past due", func(t *testing.T) {
		due := now.AddDate(0, 0, 2)
		order := &Order{Status: OrderStatusShipped, ExpectedDeliveryDate: &due}
		_, ok := order.DaysOverdue(now)
		assert.False(t, ok)
	})

	t.Run("full days past due", func(t *testing.T) {
		due := now.Add(-time.Hour * 60) // 2.5 days ago
		order := &Order{Status: OrderStatusShipped, ExpectedDeliveryDate: &due}
		days, ok := order.DaysOverdue(now)
		assert.True(t, ok)
		assert.Equal(t, 2.0, days)
	})
}

func TestListingStockPercent(t *testing.T) {
	t.Run("no maximum configured", func(t *testing.T) {
		listing := &Listing{CurrentStock: 5}
		_, ok := listing.StockPercent()
		assert.False(t, ok)
	})

	t.Run("zero maximum", func(t *testing.T) {
		zero := 0
		listing := &Listing{CurrentStock: 5, MaxStock: &zero}
		_, ok := listing.StockPercent()
		assert.False(t, ok)
	})

	t.Run("percentage of maximum", func(t *testing.T) {
		max := 200
		listing := &Listing{CurrentStock: 30, MaxStock: &max}
		pct, ok := listing.StockPercent()
		assert.True(t, ok)
		assert.InDelta(t, 15.0, pct, 0.001)
	})
}

func TestDisputeEscalate(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	dispute := &Dispute{Status: DisputeStatusOpen, OpenedAt: now.AddDate(0, 0, -8)}

	dispute.Escalate("senior-support", now)

	assert.Equal(t, DisputeStatusEscalated, dispute.Status)
	assert.Equal(t, "senior-support", dispute.EscalatedTo)
	assert.NotNil(t, dispute.EscalatedAt)
	assert.Equal(t, now, *dispute.EscalatedAt)
	if assert.Len(t, dispute.Messages, 1) {
		assert.Equal(t, MessageAuthorSystem, dispute.Messages[0].Author)
		assert.Contains(t, dispute.Messages[0].Body, "senior-support")
	}
}

func TestDisputeDaysOpen(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	dispute := &Dispute{OpenedAt: now.Add(-time.Hour * 80)} // ~3.3 days
	assert.Equal(t, 3.0, dispute.DaysOpen(now))

	future := &Dispute{OpenedAt: now.Add(time.Hour)}
	assert.Equal(t, 0.0, future.DaysOpen(now))
}

func TestRFQMarkRead(t *testing.T) {
	rfq := &RFQ{Unread: true}
	rfq.MarkRead()
	assert.False(t, rfq.Unread)
}

func TestSnapshotsCarryStatusAndCategory(t *testing.T) {
	rfq := &RFQ{Status: RFQStatusPending, Category: "electronics", Title: "Bulk cables"}
	snap := rfq.Snapshot()
	assert.Equal(t, "pending", snap["status"])
	assert.Equal(t, "electronics", snap["category"])
	assert.Equal(t, "Bulk cables", snap["name"])

	listing := &Listing{Status: ListingStatusActive, Category: "tools", Name: "Drill kit"}
	lsnap := listing.Snapshot()
	assert.Equal(t, "active", lsnap["status"])
	assert.Equal(t, "Drill kit", lsnap["name"])
}
