package persistence

import (
	"context"
	"time"

	"github.com/marketplace/backend/internal/domain/automation"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormExecutionRepository implements automation.ExecutionRepository using GORM
type GormExecutionRepository struct {
	db *gorm.DB
}

// NewGormExecutionRepository creates a new GormExecutionRepository
func NewGormExecutionRepository(db *gorm.DB) *GormExecutionRepository {
	return &GormExecutionRepository{db: db}
}

// Create appends an execution record to the log
func (r *GormExecutionRepository) Create(ctx context.Context, execution *automation.Execution) error {
	model := models.AutomationExecutionModelFromDomain(execution)
	return r.db.WithContext(ctx).Create(model).Error
}

// List returns a filtered page of a seller's execution log, newest first
func (r *GormExecutionRepository) List(
	ctx context.Context,
	sellerID uuid.UUID,
	filter automation.ExecutionListFilter,
) ([]automation.Execution, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.AutomationExecutionModel{}).
		Where("seller_id = ?", sellerID)
	if filter.RuleID != nil {
		query = query.Where("rule_id = ?", *filter.RuleID)
	}
	if filter.EntityType != nil {
		query = query.Where("entity_type = ?", string(*filter.EntityType))
	}
	if filter.ActionResult != nil {
		query = query.Where("action_result = ?", string(*filter.ActionResult))
	}
	if filter.DateFrom != nil {
		query = query.Where("executed_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("executed_at <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AutomationExecutionModel
	err := query.
		Order("executed_at DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	executions := make([]automation.Execution, 0, len(rows))
	for i := range rows {
		executions = append(executions, *rows[i].ToDomain())
	}
	return executions, total, nil
}

// CountsSince aggregates outcomes for executions at or after the cutoff
func (r *GormExecutionRepository) CountsSince(
	ctx context.Context,
	sellerID uuid.UUID,
	since time.Time,
) (automation.ExecutionCounts, error) {
	var counts automation.ExecutionCounts
	err := r.db.WithContext(ctx).
		Model(&models.AutomationExecutionModel{}).
		Select(
			"COUNT(*) AS total, "+
				"COUNT(CASE WHEN action_result = 'success' THEN 1 END) AS successful, "+
				"COUNT(CASE WHEN action_result = 'failed' THEN 1 END) AS failed").
		Where("seller_id = ? AND executed_at >= ?", sellerID, since).
		Scan(&counts).Error
	return counts, err
}

// CountByEntityTypeSince groups execution counts by entity type
func (r *GormExecutionRepository) CountByEntityTypeSince(
	ctx context.Context,
	sellerID uuid.UUID,
	since time.Time,
) (map[automation.EntityType]int64, error) {
	var rows []struct {
		EntityType string
		Count      int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.AutomationExecutionModel{}).
		Select("entity_type, COUNT(*) AS count").
		Where("seller_id = ? AND executed_at >= ?", sellerID, since).
		Group("entity_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[automation.EntityType]int64, len(rows))
	for _, row := range rows {
		result[automation.EntityType(row.EntityType)] = row.Count
	}
	return result, nil
}

// DeleteOlderThan purges log records past the retention window and returns
// the number of rows removed.
func (r *GormExecutionRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("executed_at < ?", before).
		Delete(&models.AutomationExecutionModel{})
	return result.RowsAffected, result.Error
}

var _ automation.ExecutionRepository = (*GormExecutionRepository)(nil)
