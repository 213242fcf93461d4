package marketplace

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notification is a message delivered to a seller about an automated action
type Notification struct {
	ID         uuid.UUID `json:"id"`
	SellerID   uuid.UUID `json:"sellerId"`
	EntityType string    `json:"entityType"`
	EntityID   uuid.UUID `json:"entityId"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewNotification builds a notification addressed to a seller
func NewNotification(sellerID uuid.UUID, entityType string, entityID uuid.UUID, subject, body string) Notification {
	return Notification{
		ID:         uuid.New(),
		SellerID:   sellerID,
		EntityType: entityType,
		EntityID:   entityID,
		Subject:    subject,
		Body:       body,
		CreatedAt:  time.Now(),
	}
}

// Notifier delivers notifications to sellers. Implementations must not
// block indefinitely; delivery failures are reported through the error.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}
