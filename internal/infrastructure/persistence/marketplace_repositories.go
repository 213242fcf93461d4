package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/marketplace/backend/internal/domain/marketplace"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRFQRepository implements marketplace.RFQRepository using GORM
type GormRFQRepository struct {
	db *gorm.DB
}

// NewGormRFQRepository creates a new GormRFQRepository
func NewGormRFQRepository(db *gorm.DB) *GormRFQRepository {
	return &GormRFQRepository{db: db}
}

// Create persists a new RFQ
func (r *GormRFQRepository) Create(ctx context.Context, rfq *marketplace.RFQ) error {
	return r.db.WithContext(ctx).Create(models.RFQModelFromDomain(rfq)).Error
}

// FindByID returns one RFQ, scoped to its seller
func (r *GormRFQRepository) FindByID(ctx context.Context, sellerID, rfqID uuid.UUID) (*marketplace.RFQ, error) {
	var model models.RFQModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND seller_id = ?", rfqID, sellerID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Update persists RFQ changes
func (r *GormRFQRepository) Update(ctx context.Context, rfq *marketplace.RFQ) error {
	model := models.RFQModelFromDomain(rfq)
	result := r.db.WithContext(ctx).
		Where("id = ? AND seller_id = ?", rfq.ID, rfq.SellerID).
		Select("*").Omit("id", "seller_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindUnreadOlderThan returns unread pending RFQs received before the cutoff
func (r *GormRFQRepository) FindUnreadOlderThan(ctx context.Context, cutoff time.Time) ([]marketplace.RFQ, error) {
	var rows []models.RFQModel
	err := r.db.WithContext(ctx).
		Where("unread = ? AND status = ? AND received_at < ?", true, string(marketplace.RFQStatusPending), cutoff).
		Order("received_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rfqsToDomain(rows), nil
}

func rfqsToDomain(rows []models.RFQModel) []marketplace.RFQ {
	out := make([]marketplace.RFQ, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out
}

// GormOrderRepository implements marketplace.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create persists a new order
func (r *GormOrderRepository) Create(ctx context.Context, order *marketplace.Order) error {
	return r.db.WithContext(ctx).Create(models.OrderModelFromDomain(order)).Error
}

// FindByID returns one order, scoped to its seller
func (r *GormOrderRepository) FindByID(ctx context.Context, sellerID, orderID uuid.UUID) (*marketplace.Order, error) {
	var model models.OrderModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND seller_id = ?", orderID, sellerID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Update persists order changes
func (r *GormOrderRepository) Update(ctx context.Context, order *marketplace.Order) error {
	model := models.OrderModelFromDomain(order)
	result := r.db.WithContext(ctx).
		Where("id = ? AND seller_id = ?", order.ID, order.SellerID).
		Select("*").Omit("id", "seller_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var terminalOrderStatuses = []string{
	string(marketplace.OrderStatusDelivered),
	string(marketplace.OrderStatusClosed),
	string(marketplace.OrderStatusCancelled),
}

// FindOverdue returns non-terminal orders whose expected delivery date is past
func (r *GormOrderRepository) FindOverdue(ctx context.Context, now time.Time) ([]marketplace.Order, error) {
	var rows []models.OrderModel
	err := r.db.WithContext(ctx).
		Where("expected_delivery_date IS NOT NULL AND expected_delivery_date < ?", now).
		Where("status NOT IN ?", terminalOrderStatuses).
		Order("expected_delivery_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return ordersToDomain(rows), nil
}

// FindApproachingSLA returns non-terminal orders whose delivery deadline
// falls within the horizon from now.
func (r *GormOrderRepository) FindApproachingSLA(ctx context.Context, now time.Time, horizon time.Duration) ([]marketplace.Order, error) {
	var rows []models.OrderModel
	err := r.db.WithContext(ctx).
		Where("expected_delivery_date IS NOT NULL AND expected_delivery_date BETWEEN ? AND ?", now, now.Add(horizon)).
		Where("status NOT IN ?", terminalOrderStatuses).
		Order("expected_delivery_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return ordersToDomain(rows), nil
}

func ordersToDomain(rows []models.OrderModel) []marketplace.Order {
	out := make([]marketplace.Order, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out
}

// GormListingRepository implements marketplace.ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// Create persists a new listing
func (r *GormListingRepository) Create(ctx context.Context, listing *marketplace.Listing) error {
	return r.db.WithContext(ctx).Create(models.ListingModelFromDomain(listing)).Error
}

// FindByID returns one listing, scoped to its seller
func (r *GormListingRepository) FindByID(ctx context.Context, sellerID, listingID uuid.UUID) (*marketplace.Listing, error) {
	var model models.ListingModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND seller_id = ?", listingID, sellerID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Update persists listing changes
func (r *GormListingRepository) Update(ctx context.Context, listing *marketplace.Listing) error {
	model := models.ListingModelFromDomain(listing)
	result := r.db.WithContext(ctx).
		Where("id = ? AND seller_id = ?", listing.ID, listing.SellerID).
		Select("*").Omit("id", "seller_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindLowStock returns active listings at or below the stock threshold
func (r *GormListingRepository) FindLowStock(ctx context.Context, threshold int) ([]marketplace.Listing, error) {
	var rows []models.ListingModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND current_stock <= ?", string(marketplace.ListingStatusActive), threshold).
		Order("current_stock ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return listingsToDomain(rows), nil
}

// FindSlowMoving returns active listings with no sale since the cutoff
func (r *GormListingRepository) FindSlowMoving(ctx context.Context, cutoff time.Time) ([]marketplace.Listing, error) {
	var rows []models.ListingModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(marketplace.ListingStatusActive)).
		Where("last_sold_at IS NULL OR last_sold_at < ?", cutoff).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return listingsToDomain(rows), nil
}

func listingsToDomain(rows []models.ListingModel) []marketplace.Listing {
	out := make([]marketplace.Listing, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out
}

// GormDisputeRepository implements marketplace.DisputeRepository using GORM
type GormDisputeRepository struct {
	db *gorm.DB
}

// NewGormDisputeRepository creates a new GormDisputeRepository
func NewGormDisputeRepository(db *gorm.DB) *GormDisputeRepository {
	return &GormDisputeRepository{db: db}
}

// Create persists a new dispute
func (r *GormDisputeRepository) Create(ctx context.Context, dispute *marketplace.Dispute) error {
	model, err := models.DisputeModelFromDomain(dispute)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID returns one dispute, scoped to its seller
func (r *GormDisputeRepository) FindByID(ctx context.Context, sellerID, disputeID uuid.UUID) (*marketplace.Dispute, error) {
	var model models.DisputeModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND seller_id = ?", disputeID, sellerID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Update persists dispute changes
func (r *GormDisputeRepository) Update(ctx context.Context, dispute *marketplace.Dispute) error {
	model, err := models.DisputeModelFromDomain(dispute)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Where("id = ? AND seller_id = ?", dispute.ID, dispute.SellerID).
		Select("*").Omit("id", "seller_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindOpenSince returns open or under-review disputes opened before the cutoff
func (r *GormDisputeRepository) FindOpenSince(ctx context.Context, cutoff time.Time) ([]marketplace.Dispute, error) {
	var rows []models.DisputeModel
	err := r.db.WithContext(ctx).
		Where("status IN ? AND opened_at < ?",
			[]string{string(marketplace.DisputeStatusOpen), string(marketplace.DisputeStatusUnderReview)}, cutoff).
		Order("opened_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]marketplace.Dispute, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// GormBuyerTrustProvider implements marketplace.BuyerTrustProvider over the
// buyer_trust_scores table maintained by the scoring job.
type GormBuyerTrustProvider struct {
	db *gorm.DB
}

// NewGormBuyerTrustProvider creates a new GormBuyerTrustProvider
func NewGormBuyerTrustProvider(db *gorm.DB) *GormBuyerTrustProvider {
	return &GormBuyerTrustProvider{db: db}
}

// TrustScore returns the buyer's score; the second return is false when no
// score has been computed for the buyer.
func (p *GormBuyerTrustProvider) TrustScore(ctx context.Context, buyerID uuid.UUID) (float64, bool, error) {
	var model models.BuyerTrustModel
	err := p.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return model.Score, true, nil
}

var (
	_ marketplace.RFQRepository      = (*GormRFQRepository)(nil)
	_ marketplace.OrderRepository    = (*GormOrderRepository)(nil)
	_ marketplace.ListingRepository  = (*GormListingRepository)(nil)
	_ marketplace.DisputeRepository  = (*GormDisputeRepository)(nil)
	_ marketplace.BuyerTrustProvider = (*GormBuyerTrustProvider)(nil)
)
