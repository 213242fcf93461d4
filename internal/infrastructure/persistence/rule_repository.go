package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/marketplace/backend/internal/domain/automation"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRuleRepository implements automation.RuleRepository using GORM
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GormRuleRepository
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// Create persists a new rule
func (r *GormRuleRepository) Create(ctx context.Context, rule *automation.Rule) error {
	model, err := models.AutomationRuleModelFromDomain(rule)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID returns one rule, scoped to its owning seller. Another seller's
// rule behaves as not-found.
func (r *GormRuleRepository) FindByID(ctx context.Context, sellerID, ruleID uuid.UUID) (*automation.Rule, error) {
	var model models.AutomationRuleModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND seller_id = ?", ruleID, sellerID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrRuleNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Update persists rule changes, ownership-scoped
func (r *GormRuleRepository) Update(ctx context.Context, rule *automation.Rule) error {
	model, err := models.AutomationRuleModelFromDomain(rule)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Where("id = ? AND seller_id = ?", rule.ID, rule.SellerID).
		Select("*").Omit("id", "seller_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrRuleNotFound
	}
	return nil
}

// Delete removes a seller's rule
func (r *GormRuleRepository) Delete(ctx context.Context, sellerID, ruleID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND seller_id = ?", ruleID, sellerID).
		Delete(&models.AutomationRuleModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrRuleNotFound
	}
	return nil
}

// List returns a filtered page of a seller's rules, ordered by priority
// ascending then creation time descending.
func (r *GormRuleRepository) List(
	ctx context.Context,
	sellerID uuid.UUID,
	filter automation.RuleListFilter,
) ([]automation.Rule, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.AutomationRuleModel{}).
		Where("seller_id = ?", sellerID)
	if filter.RuleType != nil {
		query = query.Where("rule_type = ?", string(*filter.RuleType))
	}
	if filter.TriggerType != nil {
		query = query.Where("trigger_type = ?", string(*filter.TriggerType))
	}
	if filter.Enabled != nil {
		query = query.Where("is_enabled = ?", *filter.Enabled)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AutomationRuleModel
	err := query.
		Order("priority ASC, created_at DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	rules := make([]automation.Rule, 0, len(rows))
	for i := range rows {
		rules = append(rules, *rows[i].ToDomain())
	}
	return rules, total, nil
}

// FindEnabledForEvaluation is the pipeline's hot path read: enabled rules
// for one seller and rule type, ordered by priority ascending.
func (r *GormRuleRepository) FindEnabledForEvaluation(
	ctx context.Context,
	sellerID uuid.UUID,
	ruleType automation.RuleType,
) ([]automation.Rule, error) {
	var rows []models.AutomationRuleModel
	err := r.db.WithContext(ctx).
		Where("seller_id = ? AND rule_type = ? AND is_enabled = ?", sellerID, string(ruleType), true).
		Order("priority ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	rules := make([]automation.Rule, 0, len(rows))
	for i := range rows {
		rules = append(rules, *rows[i].ToDomain())
	}
	return rules, nil
}

// IncrementTriggerStats bumps trigger_count at the store so concurrent
// triggers for the same rule never lose updates.
func (r *GormRuleRepository) IncrementTriggerStats(ctx context.Context, ruleID uuid.UUID, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.AutomationRuleModel{}).
		Where("id = ?", ruleID).
		Updates(map[string]interface{}{
			"trigger_count":     gorm.Expr("trigger_count + 1"),
			"last_triggered_at": now,
		}).Error
}

var _ automation.RuleRepository = (*GormRuleRepository)(nil)
