package automation

import (
	"context"
	"time"

	"github.com/marketplace/backend/internal/domain/automation"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatsPeriod selects the aggregation window for execution statistics
type StatsPeriod string

const (
	PeriodDay   StatsPeriod = "day"
	PeriodWeek  StatsPeriod = "week"
	PeriodMonth StatsPeriod = "month"
)

// Cutoff returns the window start relative to now. Unknown periods fall
// back to a week.
func (p StatsPeriod) Cutoff(now time.Time) time.Time {
	switch p {
	case PeriodDay:
		return now.AddDate(0, 0, -1)
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	default:
		return now.AddDate(0, 0, -7)
	}
}

// ExecutionRecord is an execution log entry with its trigger data snapshot
// deserialized for the caller.
type ExecutionRecord struct {
	ID           uuid.UUID               `json:"id"`
	RuleID       uuid.UUID               `json:"ruleId"`
	EntityType   automation.EntityType   `json:"entityType"`
	EntityID     uuid.UUID               `json:"entityId"`
	EntityNumber string                  `json:"entityNumber,omitempty"`
	TriggerData  *automation.RuleContext `json:"triggerData,omitempty"`
	ActionTaken  string                  `json:"actionTaken"`
	ActionResult automation.ActionResult `json:"actionResult"`
	ErrorMessage string                  `json:"errorMessage,omitempty"`
	ExecutedAt   time.Time               `json:"executedAt"`
}

// ExecutionStats aggregates execution outcomes over a period. Skipped is
// derived as the remainder not accounted for by the two counted outcomes.
type ExecutionStats struct {
	Period       StatsPeriod                     `json:"period"`
	Total        int64                           `json:"total"`
	Successful   int64                           `json:"successful"`
	Failed       int64                           `json:"failed"`
	Skipped      int64                           `json:"skipped"`
	SuccessRate  float64                         `json:"successRate"`
	ByEntityType map[automation.EntityType]int64 `json:"byEntityType"`
}

// HistoryService is the read-only reporting surface over the execution log
type HistoryService struct {
	executionRepo automation.ExecutionRepository
	logger        *zap.Logger
}

// NewHistoryService creates a HistoryService
func NewHistoryService(executionRepo automation.ExecutionRepository, logger *zap.Logger) *HistoryService {
	return &HistoryService{executionRepo: executionRepo, logger: logger}
}

// GetExecutionHistory pages through a seller's execution log with the
// trigger data deserialized. A store failure yields an empty page rather
// than an error.
func (s *HistoryService) GetExecutionHistory(
	ctx context.Context,
	sellerID uuid.UUID,
	filter automation.ExecutionListFilter,
) (shared.Paginated[ExecutionRecord], error) {
	filter.Normalize()
	executions, total, err := s.executionRepo.List(ctx, sellerID, filter)
	if err != nil {
		s.logger.Error("failed to list executions",
			zap.String("sellerId", sellerID.String()), zap.Error(err))
		return shared.EmptyPaginated[ExecutionRecord](filter.Page, filter.PageSize), nil
	}

	records := make([]ExecutionRecord, 0, len(executions))
	for i := range executions {
		records = append(records, toExecutionRecord(&executions[i]))
	}
	return shared.NewPaginated(records, total, filter.Page, filter.PageSize), nil
}

func toExecutionRecord(execution *automation.Execution) ExecutionRecord {
	record := ExecutionRecord{
		ID:           execution.ID,
		RuleID:       execution.RuleID,
		EntityType:   execution.EntityType,
		EntityID:     execution.EntityID,
		EntityNumber: execution.EntityNumber,
		ActionTaken:  execution.ActionTaken,
		ActionResult: execution.ActionResult,
		ErrorMessage: execution.ErrorMessage,
		ExecutedAt:   execution.ExecutedAt,
	}
	if execution.TriggerData != "" {
		// tolerate legacy or malformed snapshots, the record is still useful
		if rctx, err := automation.ContextFromSnapshot(execution.TriggerData); err == nil {
			record.TriggerData = rctx
		}
	}
	return record
}

// GetExecutionStats aggregates the seller's execution outcomes over the
// given period (default week). successRate is 0 when there were no
// executions at all.
func (s *HistoryService) GetExecutionStats(
	ctx context.Context,
	sellerID uuid.UUID,
	period StatsPeriod,
) (*ExecutionStats, error) {
	if period != PeriodDay && period != PeriodMonth {
		period = PeriodWeek
	}
	since := period.Cutoff(time.Now())

	counts, err := s.executionRepo.CountsSince(ctx, sellerID, since)
	if err != nil {
		s.logger.Error("failed to aggregate execution counts",
			zap.String("sellerId", sellerID.String()), zap.Error(err))
		return nil, err
	}
	byEntityType, err := s.executionRepo.CountByEntityTypeSince(ctx, sellerID, since)
	if err != nil {
		s.logger.Error("failed to group executions by entity type",
			zap.String("sellerId", sellerID.String()), zap.Error(err))
		return nil, err
	}
	if byEntityType == nil {
		byEntityType = map[automation.EntityType]int64{}
	}

	stats := &ExecutionStats{
		Period:       period,
		Total:        counts.Total,
		Successful:   counts.Successful,
		Failed:       counts.Failed,
		Skipped:      counts.Total - counts.Successful - counts.Failed,
		ByEntityType: byEntityType,
	}
	if counts.Total > 0 {
		stats.SuccessRate = float64(counts.Successful) / float64(counts.Total) * 100
	}
	return stats, nil
}
