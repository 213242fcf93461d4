package marketplace

import (
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DisputeStatus is the lifecycle state of a buyer dispute
type DisputeStatus string

const (
	DisputeStatusOpen        DisputeStatus = "open"
	DisputeStatusUnderReview DisputeStatus = "under_review"
	DisputeStatusEscalated   DisputeStatus = "escalated"
	DisputeStatusResolved    DisputeStatus = "resolved"
	DisputeStatusClosed      DisputeStatus = "closed"
	DisputeStatusFlagged     DisputeStatus = "flagged"
)

// MessageAuthor identifies who wrote a dispute message
type MessageAuthor string

const (
	MessageAuthorBuyer  MessageAuthor = "buyer"
	MessageAuthorSeller MessageAuthor = "seller"
	MessageAuthorSystem MessageAuthor = "system"
)

// DisputeMessage is one entry in a dispute's conversation thread
type DisputeMessage struct {
	ID        uuid.UUID     `json:"id"`
	Author    MessageAuthor `json:"author"`
	Body      string        `json:"body"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Dispute is a buyer complaint against one seller's order
type Dispute struct {
	shared.BaseEntity
	Number      string
	SellerID    uuid.UUID
	BuyerID     uuid.UUID
	OrderID     uuid.UUID
	Reason      string
	Status      DisputeStatus
	Priority    string
	OpenedAt    time.Time
	EscalatedAt *time.Time
	EscalatedTo string
	Messages    []DisputeMessage
	Metadata    Metadata
}

// ChangeStatus sets the dispute status
func (d *Dispute) ChangeStatus(status DisputeStatus) {
	d.Status = status
	d.Touch()
}

// SetPriority sets the dedicated priority marker
func (d *Dispute) SetPriority(priority string) {
	d.Priority = priority
	d.Touch()
}

// AppendSystemMessage adds a system-authored message to the thread
func (d *Dispute) AppendSystemMessage(body string) DisputeMessage {
	message := DisputeMessage{
		ID:        uuid.New(),
		Author:    MessageAuthorSystem,
		Body:      body,
		CreatedAt: time.Now(),
	}
	d.Messages = append(d.Messages, message)
	d.Touch()
	return message
}

// Escalate moves the dispute to escalated state, recording when and to whom.
// An escalation event is appended to the message thread.
func (d *Dispute) Escalate(to string, now time.Time) {
	d.Status = DisputeStatusEscalated
	d.EscalatedAt = &now
	d.EscalatedTo = to
	d.AppendSystemMessage("Dispute escalated to " + to)
}

// DaysOpen returns full days since the dispute was opened
func (d *Dispute) DaysOpen(now time.Time) float64 {
	if now.Before(d.OpenedAt) {
		return 0
	}
	return float64(int(now.Sub(d.OpenedAt).Hours() / 24))
}

// Snapshot renders the entity data map used in rule contexts
func (d *Dispute) Snapshot() map[string]any {
	return map[string]any{
		"status":   string(d.Status),
		"name":     d.Number,
		"reason":   d.Reason,
		"priority": d.Priority,
		"openedAt": d.OpenedAt.Format(time.RFC3339),
	}
}
