package automation

import (
	"context"
	"time"

	"github.com/marketplace/backend/internal/domain/automation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RuleResult is the per-rule entry of an evaluation batch, in rule-priority
// order.
type RuleResult struct {
	RuleID   uuid.UUID               `json:"ruleId"`
	RuleName string                  `json:"ruleName"`
	Matched  bool                    `json:"matched"`
	Executed bool                    `json:"executed"`
	Result   automation.ActionResult `json:"result,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

// EvaluationResult is the outcome of one evaluateRulesForEntity call.
// Success=false means the batch aborted; Results is then always empty,
// partial progress is not reported.
type EvaluationResult struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	Results []RuleResult `json:"results"`
}

func abortedEvaluation(message string) EvaluationResult {
	return EvaluationResult{Success: false, Error: message, Results: []RuleResult{}}
}

// EvaluationService runs the rule pipeline: load enabled rules for a seller
// and entity family ordered by priority, evaluate each rule's conditions,
// execute matched actions, and record executions and trigger statistics.
type EvaluationService struct {
	ruleRepo      automation.RuleRepository
	executionRepo automation.ExecutionRepository
	executor      *ActionExecutor
	logger        *zap.Logger
}

// NewEvaluationService creates an EvaluationService
func NewEvaluationService(
	ruleRepo automation.RuleRepository,
	executionRepo automation.ExecutionRepository,
	executor *ActionExecutor,
	logger *zap.Logger,
) *EvaluationService {
	return &EvaluationService{
		ruleRepo:      ruleRepo,
		executionRepo: executionRepo,
		executor:      executor,
		logger:        logger,
	}
}

// EvaluateRulesForEntity is the sole automation entry point for domain code.
// Rules run sequentially in ascending priority order; a failing action is
// recorded and evaluation continues, while a store failure aborts the whole
// batch with no partial results.
func (s *EvaluationService) EvaluateRulesForEntity(
	ctx context.Context,
	entityType automation.EntityType,
	entityID uuid.UUID,
	sellerID uuid.UUID,
	rctx *automation.RuleContext,
) EvaluationResult {
	ruleType, ok := automation.RuleTypeForEntity(entityType)
	if !ok {
		return abortedEvaluation("unknown entity type: " + string(entityType))
	}
	if rctx == nil {
		rctx = &automation.RuleContext{EntityID: entityID, SellerID: sellerID}
	}

	rules, err := s.ruleRepo.FindEnabledForEvaluation(ctx, sellerID, ruleType)
	if err != nil {
		s.logger.Error("failed to load rules for evaluation",
			zap.String("sellerId", sellerID.String()),
			zap.String("ruleType", string(ruleType)),
			zap.Error(err))
		return abortedEvaluation(err.Error())
	}

	results := make([]RuleResult, 0, len(rules))
	for i := range rules {
		rule := &rules[i]
		entry := RuleResult{RuleID: rule.ID, RuleName: rule.Name}

		if !automation.EvaluateConditions(rule.Conditions, rctx) {
			results = append(results, entry)
			continue
		}
		entry.Matched = true

		outcome := s.executor.Execute(ctx, rule, entityType, rctx)
		entry.Executed = true
		entry.Result = automation.ActionResultSuccess
		if !outcome.Success {
			entry.Result = automation.ActionResultFailed
			entry.Error = outcome.Error
			s.logger.Warn("rule action failed",
				zap.String("ruleId", rule.ID.String()),
				zap.String("entityId", entityID.String()),
				zap.String("actionType", string(rule.ActionType)),
				zap.String("error", outcome.Error))
		}

		execution, err := automation.NewExecution(rule, entityType, rctx, outcome.ActionTaken, entry.Result, outcome.Error)
		if err != nil {
			s.logger.Error("failed to build execution record",
				zap.String("ruleId", rule.ID.String()), zap.Error(err))
			return abortedEvaluation(err.Error())
		}
		if err := s.executionRepo.Create(ctx, execution); err != nil {
			s.logger.Error("failed to persist execution record",
				zap.String("ruleId", rule.ID.String()), zap.Error(err))
			return abortedEvaluation(err.Error())
		}
		if err := s.ruleRepo.IncrementTriggerStats(ctx, rule.ID, time.Now()); err != nil {
			s.logger.Error("failed to update rule trigger stats",
				zap.String("ruleId", rule.ID.String()), zap.Error(err))
			return abortedEvaluation(err.Error())
		}

		results = append(results, entry)
	}

	return EvaluationResult{Success: true, Results: results}
}
