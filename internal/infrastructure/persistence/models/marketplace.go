package models

import (
	"encoding/json"
	"time"

	"github.com/marketplace/backend/internal/domain/marketplace"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RFQModel is the persistence model for requests-for-quote. The metadata
// extension bag is stored as JSON text with a `{}` default.
type RFQModel struct {
	BaseModel
	Number          string    `gorm:"uniqueIndex;not null"`
	SellerID        uuid.UUID `gorm:"type:uuid;not null;index"`
	BuyerID         uuid.UUID `gorm:"type:uuid;not null"`
	Title           string    `gorm:"not null"`
	Category        string
	Status          string          `gorm:"not null;default:'pending'"`
	Quantity        int             `gorm:"not null;default:0"`
	EstimatedValue  decimal.Decimal `gorm:"type:decimal(20,4)"`
	EstimatedMargin float64
	Unread          bool      `gorm:"not null;default:true"`
	ReceivedAt      time.Time `gorm:"not null"`
	Metadata        string    `gorm:"type:text;not null;default:'{}'"`
}

// TableName returns the table name for RFQModel
func (RFQModel) TableName() string {
	return "rfqs"
}

// ToDomain converts the model to a domain RFQ
func (m *RFQModel) ToDomain() *marketplace.RFQ {
	return &marketplace.RFQ{
		BaseEntity:      m.BaseModel.ToDomain(),
		Number:          m.Number,
		SellerID:        m.SellerID,
		BuyerID:         m.BuyerID,
		Title:           m.Title,
		Category:        m.Category,
		Status:          marketplace.RFQStatus(m.Status),
		Quantity:        m.Quantity,
		EstimatedValue:  m.EstimatedValue,
		EstimatedMargin: m.EstimatedMargin,
		Unread:          m.Unread,
		ReceivedAt:      m.ReceivedAt,
		Metadata:        marketplace.ParseMetadata(m.Metadata),
	}
}

// RFQModelFromDomain converts a domain RFQ to its persistence model
func RFQModelFromDomain(rfq *marketplace.RFQ) *RFQModel {
	model := &RFQModel{
		Number:          rfq.Number,
		SellerID:        rfq.SellerID,
		BuyerID:         rfq.BuyerID,
		Title:           rfq.Title,
		Category:        rfq.Category,
		Status:          string(rfq.Status),
		Quantity:        rfq.Quantity,
		EstimatedValue:  rfq.EstimatedValue,
		EstimatedMargin: rfq.EstimatedMargin,
		Unread:          rfq.Unread,
		ReceivedAt:      rfq.ReceivedAt,
		Metadata:        rfq.Metadata.Serialize(),
	}
	model.FromDomainBaseEntity(rfq.BaseEntity)
	return model
}

// OrderModel is the persistence model for marketplace orders
type OrderModel struct {
	BaseModel
	Number               string    `gorm:"uniqueIndex;not null"`
	SellerID             uuid.UUID `gorm:"type:uuid;not null;index"`
	BuyerID              uuid.UUID `gorm:"type:uuid;not null"`
	Category             string
	Status               string `gorm:"not null;default:'pending'"`
	Priority             string
	Quantity             int             `gorm:"not null;default:0"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(20,4)"`
	ExpectedDeliveryDate *time.Time      `gorm:"index"`
	Metadata             string          `gorm:"type:text;not null;default:'{}'"`
}

// TableName returns the table name for OrderModel
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the model to a domain Order
func (m *OrderModel) ToDomain() *marketplace.Order {
	return &marketplace.Order{
		BaseEntity:           m.BaseModel.ToDomain(),
		Number:               m.Number,
		SellerID:             m.SellerID,
		BuyerID:              m.BuyerID,
		Category:             m.Category,
		Status:               marketplace.OrderStatus(m.Status),
		Priority:             m.Priority,
		Quantity:             m.Quantity,
		TotalAmount:          m.TotalAmount,
		ExpectedDeliveryDate: m.ExpectedDeliveryDate,
		Metadata:             marketplace.ParseMetadata(m.Metadata),
	}
}

// OrderModelFromDomain converts a domain Order to its persistence model
func OrderModelFromDomain(order *marketplace.Order) *OrderModel {
	model := &OrderModel{
		Number:               order.Number,
		SellerID:             order.SellerID,
		BuyerID:              order.BuyerID,
		Category:             order.Category,
		Status:               string(order.Status),
		Priority:             order.Priority,
		Quantity:             order.Quantity,
		TotalAmount:          order.TotalAmount,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		Metadata:             order.Metadata.Serialize(),
	}
	model.FromDomainBaseEntity(order.BaseEntity)
	return model
}

// ListingModel is the persistence model for inventory listings
type ListingModel struct {
	BaseModel
	SKU          string    `gorm:"uniqueIndex;not null"`
	SellerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"not null"`
	Category     string
	Status       string          `gorm:"not null;default:'draft'"`
	Price        decimal.Decimal `gorm:"type:decimal(20,4)"`
	CurrentStock int             `gorm:"not null;default:0"`
	MaxStock     *int
	LastSoldAt   *time.Time
	Metadata     string `gorm:"type:text;not null;default:'{}'"`
}

// TableName returns the table name for ListingModel
func (ListingModel) TableName() string {
	return "listings"
}

// ToDomain converts the model to a domain Listing
func (m *ListingModel) ToDomain() *marketplace.Listing {
	return &marketplace.Listing{
		BaseEntity:   m.BaseModel.ToDomain(),
		SKU:          m.SKU,
		SellerID:     m.SellerID,
		Name:         m.Name,
		Category:     m.Category,
		Status:       marketplace.ListingStatus(m.Status),
		Price:        m.Price,
		CurrentStock: m.CurrentStock,
		MaxStock:     m.MaxStock,
		LastSoldAt:   m.LastSoldAt,
		Metadata:     marketplace.ParseMetadata(m.Metadata),
	}
}

// ListingModelFromDomain converts a domain Listing to its persistence model
func ListingModelFromDomain(listing *marketplace.Listing) *ListingModel {
	model := &ListingModel{
		SKU:          listing.SKU,
		SellerID:     listing.SellerID,
		Name:         listing.Name,
		Category:     listing.Category,
		Status:       string(listing.Status),
		Price:        listing.Price,
		CurrentStock: listing.CurrentStock,
		MaxStock:     listing.MaxStock,
		LastSoldAt:   listing.LastSoldAt,
		Metadata:     listing.Metadata.Serialize(),
	}
	model.FromDomainBaseEntity(listing.BaseEntity)
	return model
}

// DisputeModel is the persistence model for buyer disputes. The message
// thread is stored as a JSON array.
type DisputeModel struct {
	BaseModel
	Number      string    `gorm:"uniqueIndex;not null"`
	SellerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	BuyerID     uuid.UUID `gorm:"type:uuid;not null"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null"`
	Reason      string    `gorm:"type:text"`
	Status      string    `gorm:"not null;default:'open';index"`
	Priority    string
	OpenedAt    time.Time `gorm:"not null;index"`
	EscalatedAt *time.Time
	EscalatedTo string
	Messages    string `gorm:"type:text;not null;default:'[]'"`
	Metadata    string `gorm:"type:text;not null;default:'{}'"`
}

// TableName returns the table name for DisputeModel
func (DisputeModel) TableName() string {
	return "disputes"
}

// ToDomain converts the model to a domain Dispute
func (m *DisputeModel) ToDomain() *marketplace.Dispute {
	dispute := &marketplace.Dispute{
		BaseEntity:  m.BaseModel.ToDomain(),
		Number:      m.Number,
		SellerID:    m.SellerID,
		BuyerID:     m.BuyerID,
		OrderID:     m.OrderID,
		Reason:      m.Reason,
		Status:      marketplace.DisputeStatus(m.Status),
		Priority:    m.Priority,
		OpenedAt:    m.OpenedAt,
		EscalatedAt: m.EscalatedAt,
		EscalatedTo: m.EscalatedTo,
		Metadata:    marketplace.ParseMetadata(m.Metadata),
	}
	if m.Messages != "" {
		_ = json.Unmarshal([]byte(m.Messages), &dispute.Messages)
	}
	return dispute
}

// DisputeModelFromDomain converts a domain Dispute to its persistence model
func DisputeModelFromDomain(dispute *marketplace.Dispute) (*DisputeModel, error) {
	messages := []byte("[]")
	if len(dispute.Messages) > 0 {
		var err error
		messages, err = json.Marshal(dispute.Messages)
		if err != nil {
			return nil, err
		}
	}

	model := &DisputeModel{
		Number:      dispute.Number,
		SellerID:    dispute.SellerID,
		BuyerID:     dispute.BuyerID,
		OrderID:     dispute.OrderID,
		Reason:      dispute.Reason,
		Status:      string(dispute.Status),
		Priority:    dispute.Priority,
		OpenedAt:    dispute.OpenedAt,
		EscalatedAt: dispute.EscalatedAt,
		EscalatedTo: dispute.EscalatedTo,
		Messages:    string(messages),
		Metadata:    dispute.Metadata.Serialize(),
	}
	model.FromDomainBaseEntity(dispute.BaseEntity)
	return model, nil
}

// BuyerTrustModel stores the computed trust score for a buyer. Scores are
// written by an upstream scoring job; automation only reads them.
type BuyerTrustModel struct {
	BuyerID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Score     float64   `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for BuyerTrustModel
func (BuyerTrustModel) TableName() string {
	return "buyer_trust_scores"
}
