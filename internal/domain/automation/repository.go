package automation

import (
	"context"
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RuleListFilter narrows a seller's rule listing
type RuleListFilter struct {
	RuleType    *RuleType
	TriggerType *TriggerType
	Enabled     *bool
	Page        int
	PageSize    int
}

// ExecutionListFilter narrows a seller's execution history query
type ExecutionListFilter struct {
	RuleID       *uuid.UUID
	EntityType   *EntityType
	ActionResult *ActionResult
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int
	PageSize     int
}

// ExecutionCounts aggregates execution outcomes over a period
type ExecutionCounts struct {
	Total      int64
	Successful int64
	Failed     int64
}

// RuleRepository is the persistence port for automation rules. Every read
// and write is scoped to the owning seller; a lookup for another seller's
// rule behaves as not-found.
type RuleRepository interface {
	Create(ctx context.Context, rule *Rule) error
	FindByID(ctx context.Context, sellerID, ruleID uuid.UUID) (*Rule, error)
	Update(ctx context.Context, rule *Rule) error
	Delete(ctx context.Context, sellerID, ruleID uuid.UUID) error
	List(ctx context.Context, sellerID uuid.UUID, filter RuleListFilter) ([]Rule, int64, error)

	// FindEnabledForEvaluation is the evaluation hot path: enabled rules for
	// one seller and rule type, ordered by priority ascending.
	FindEnabledForEvaluation(ctx context.Context, sellerID uuid.UUID, ruleType RuleType) ([]Rule, error)

	// IncrementTriggerStats atomically bumps trigger_count and sets
	// last_triggered_at. The increment must happen at the store to avoid
	// lost updates under concurrent triggers for the same rule.
	IncrementTriggerStats(ctx context.Context, ruleID uuid.UUID, now time.Time) error
}

// ExecutionRepository is the persistence port for the append-only execution log
type ExecutionRepository interface {
	Create(ctx context.Context, execution *Execution) error
	List(ctx context.Context, sellerID uuid.UUID, filter ExecutionListFilter) ([]Execution, int64, error)

	// CountsSince aggregates outcomes for executions at or after the cutoff
	CountsSince(ctx context.Context, sellerID uuid.UUID, since time.Time) (ExecutionCounts, error)

	// CountByEntityTypeSince groups execution counts by entity type
	CountByEntityTypeSince(ctx context.Context, sellerID uuid.UUID, since time.Time) (map[EntityType]int64, error)

	// DeleteOlderThan purges log records past the retention window and
	// returns the number of rows removed.
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// Normalize applies listing defaults (page 1, limit 50)
func (f *RuleListFilter) Normalize() {
	sf := shared.Filter{Page: f.Page, PageSize: f.PageSize}
	sf.Normalize()
	f.Page = sf.Page
	f.PageSize = sf.PageSize
}

// Normalize applies listing defaults (page 1, limit 50)
func (f *ExecutionListFilter) Normalize() {
	sf := shared.Filter{Page: f.Page, PageSize: f.PageSize}
	sf.Normalize()
	f.Page = sf.Page
	f.PageSize = sf.PageSize
}
