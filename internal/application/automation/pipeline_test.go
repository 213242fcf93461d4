package automation

import (
	"context"
	"errors"
	"testing"

	"github.com/marketplace/backend/internal/domain/automation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func notifyRule(t *testing.T, sellerID uuid.UUID, name string, priority int, conditions automation.TriggerConditions) automation.Rule {
	t.Helper()
	rule, err := automation.NewRule(sellerID, automation.NewRuleParams{
		Name:        name,
		RuleType:    automation.RuleTypeRFQ,
		TriggerType: automation.TriggerRFQReceived,
		Conditions:  conditions,
		ActionType:  automation.ActionAutoNotify,
		Priority:    &priority,
	})
	assert.NoError(t, err)
	return *rule
}

func newPipelineFixture() (*MockRuleRepository, *MockExecutionRepository, *EvaluationService) {
	ruleRepo := new(MockRuleRepository)
	execRepo := new(MockExecutionRepository)
	executor := NewActionExecutor(nil, nil, nil, nil, nil, zap.NewNop())
	pipeline := NewEvaluationService(ruleRepo, execRepo, executor, zap.NewNop())
	return ruleRepo, execRepo, pipeline
}

func TestEvaluateRulesForEntityPriorityOrder(t *testing.T) {
	sellerID := uuid.New()
	entityID := uuid.New()
	ruleRepo, execRepo, pipeline := newPipelineFixture()

	rules := []automation.Rule{
		notifyRule(t, sellerID, "first", 10, automation.TriggerConditions{}),
		notifyRule(t, sellerID, "second", 50, automation.TriggerConditions{}),
		notifyRule(t, sellerID, "third", 100, automation.TriggerConditions{}),
	}
	ruleRepo.On("FindEnabledForEvaluation", mock.Anything, sellerID, automation.RuleTypeRFQ).Return(rules, nil)
	execRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	ruleRepo.On("IncrementTriggerStats", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	rctx := &automation.RuleContext{EntityID: entityID, SellerID: sellerID}
	result := pipeline.EvaluateRulesForEntity(context.Background(), automation.EntityTypeRFQ, entityID, sellerID, rctx)

	assert.True(t, result.Success)
	if assert.Len(t, result.Results, 3) {
		assert.Equal(t, "first", result.Results[0].RuleName)
		assert.Equal(t, "second", result.Results[1].RuleName)
		assert.Equal(t, "third", result.Results[2].RuleName)
	}
}

func TestEvaluateRulesForEntityLogsOnlyMatches(t *testing.T) {
	sellerID := uuid.New()
	entityID := uuid.New()
	ruleRepo, execRepo, pipeline := newPipelineFixture()

	rules := []automation.Rule{
		notifyRule(t, sellerID, "matches", 10, automation.TriggerConditions{MarginBelow: automation.Float(5)}),
		notifyRule(t, sellerID, "misses", 20, automation.TriggerConditions{MarginBelow: automation.Float(2)}),
	}
	ruleRepo.On("FindEnabledForEvaluation", mock.Anything, sellerID, automation.RuleTypeRFQ).Return(rules, nil)
	execRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	ruleRepo.On("IncrementTriggerStats", mock.Anything, rules[0].ID, mock.Anything).Return(nil)

	rctx := &automation.RuleContext{EntityID: entityID, SellerID: sellerID, Margin: automation.Float(3)}
	result := pipeline.EvaluateRulesForEntity(context.Background(), automation.EntityTypeRFQ, entityID, sellerID, rctx)

	assert.True(t, result.Success)
	if assert.Len(t, result.Results, 2) {
		assert.True(t, result.Results[0].Matched)
		assert.True(t, result.Results[0].Executed)
		assert.Equal(t, automation.ActionResultSuccess, result.Results[0].Result)
		assert.False(t, result.Results[1].Matched)
		assert.False(t, result.Results[1].Executed)
	}
	execRepo.AssertNumberOfCalls(t, "Create", 1)
	ruleRepo.AssertNumberOfCalls(t, "IncrementTriggerStats", 1)
}

func TestEvaluateRulesForEntityActionFailureIsolation(t *testing.T) {
	sellerID := uuid.New()
	entityID := uuid.New()
	ruleRepo, execRepo, pipeline := newPipelineFixture()

	broken := notifyRule(t, sellerID, "broken", 10, automation.TriggerConditions{})
	broken.ActionType = automation.ActionType("legacy_action")
	healthy := notifyRule(t, sellerID, "healthy", 20, automation.TriggerConditions{})

	ruleRepo.On("FindEnabledForEvaluation", mock.Anything, sellerID, automation.RuleTypeRFQ).
		Return([]automation.Rule{broken, healthy}, nil)
	execRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	ruleRepo.On("IncrementTriggerStats", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	rctx := &automation.RuleContext{EntityID: entityID, SellerID: sellerID}
	result := pipeline.EvaluateRulesForEntity(context.Background(), automation.EntityTypeRFQ, entityID, sellerID, rctx)

	assert.True(t, result.Success)
	if assert.Len(t, result.Results, 2) {
		assert.Equal(t, automation.ActionResultFailed, result.Results[0].Result)
		assert.NotEmpty(t, result.Results[0].Error)
		assert.Equal(t, automation.ActionResultSuccess, result.Results[1].Result)
	}
	// both executions are logged, the failure does not stop the batch
	execRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestEvaluateRulesForEntityStoreFailureAborts(t *testing.T) {
	sellerID := uuid.New()
	entityID := uuid.New()
	ruleRepo, _, pipeline := newPipelineFixture()

	ruleRepo.On("FindEnabledForEvaluation", mock.Anything, sellerID, automation.RuleTypeRFQ).
		Return(nil, errors.New("connection refused"))

	result := pipeline.EvaluateRulesForEntity(context.Background(), automation.EntityTypeRFQ, entityID, sellerID, nil)

	assert.False(t, result.Success)
	assert.Empty(t, result.Results)
	assert.Contains(t, result.Error, "connection refused")
}

func TestEvaluateRulesForEntityExecutionWriteFailureAborts(t *testing.T) {
	sellerID := uuid.New()
	entityID := uuid.New()
	ruleRepo, execRepo, pipeline := newPipelineFixture()

	rules := []automation.Rule{notifyRule(t, sellerID, "only", 10, automation.TriggerConditions{})}
	ruleRepo.On("FindEnabledForEvaluation", mock.Anything, sellerID, automation.RuleTypeRFQ).Return(rules, nil)
	execRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	result := pipeline.EvaluateRulesForEntity(context.Background(), automation.EntityTypeRFQ, entityID, sellerID, nil)

	assert.False(t, result.Success)
	assert.Empty(t, result.Results)
}

func TestEvaluateRulesForEntityUnknownEntityType(t *testing.T) {
	_, _, pipeline := newPipelineFixture()
	result := pipeline.EvaluateRulesForEntity(context.Background(), automation.EntityType("invoice"), uuid.New(), uuid.New(), nil)
	assert.False(t, result.Success)
	assert.Empty(t, result.Results)
}
