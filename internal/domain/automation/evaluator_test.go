package automation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateConditions_EmptyConditionsMatch(t *testing.T) {
	ctx := &RuleContext{
		EntityID: uuid.New(),
		SellerID: uuid.New(),
		Margin:   Float(3),
	}

	assert.True(t, EvaluateConditions(TriggerConditions{}, ctx))
	assert.True(t, EvaluateConditions(TriggerConditions{}, nil))
}

func TestEvaluateConditions_AbsentContextFieldSkipsCondition(t *testing.T) {
	// A threshold with no corresponding context field never blocks a match
	conditions := TriggerConditions{MarginBelow: Float(5)}
	ctx := &RuleContext{EntityID: uuid.New(), SellerID: uuid.New()}

	assert.True(t, EvaluateConditions(conditions, ctx))
}

func TestEvaluateConditions_BelowIsStrict(t *testing.T) {
	conditions := TriggerConditions{MarginBelow: Float(5)}

	t.Run("strictly below matches", func(t *testing.T) {
		ctx := &RuleContext{Margin: Float(3)}
		assert.True(t, EvaluateConditions(conditions, ctx))
	})

	t.Run("equal does not match", func(t *testing.T) {
		ctx := &RuleContext{Margin: Float(5)}
		assert.False(t, EvaluateConditions(conditions, ctx))
	})

	t.Run("above does not match", func(t *testing.T) {
		ctx := &RuleContext{Margin: Float(10)}
		assert.False(t, EvaluateConditions(conditions, ctx))
	})
}

func TestEvaluateConditions_AboveIsStrict(t *testing.T) {
	conditions := TriggerConditions{ValueAbove: Float(1000)}

	t.Run("strictly above matches", func(t *testing.T) {
		ctx := &RuleContext{TotalValue: Float(1500)}
		assert.True(t, EvaluateConditions(conditions, ctx))
	})

	t.Run("equal does not match", func(t *testing.T) {
		ctx := &RuleContext{TotalValue: Float(1000)}
		assert.False(t, EvaluateConditions(conditions, ctx))
	})
}

func TestEvaluateConditions_DaysOverdueIsInclusive(t *testing.T) {
	conditions := TriggerConditions{DaysOverdue: Float(2)}

	t.Run("at threshold matches", func(t *testing.T) {
		ctx := &RuleContext{DaysOverdue: Float(2)}
		assert.True(t, EvaluateConditions(conditions, ctx))
	})

	t.Run("above threshold matches", func(t *testing.T) {
		ctx := &RuleContext{DaysOverdue: Float(5)}
		assert.True(t, EvaluateConditions(conditions, ctx))
	})

	t.Run("below threshold does not match", func(t *testing.T) {
		ctx := &RuleContext{DaysOverdue: Float(1)}
		assert.False(t, EvaluateConditions(conditions, ctx))
	})
}

func TestEvaluateConditions_HoursUntilBreachIsInclusive(t *testing.T) {
	conditions := TriggerConditions{HoursUntilBreach: Float(4)}

	t.Run("within window matches", func(t *testing.T) {
		ctx := &RuleContext{HoursUntilSLABreach: Float(2)}
		assert.True(t, EvaluateConditions(conditions, ctx))
	})

	t.Run("at threshold matches", func(t *testing.T) {
		ctx := &RuleContext{HoursUntilSLABreach: Float(4)}
		assert.True(t, EvaluateConditions(conditions, ctx))
	})

	t.Run("outside window does not match", func(t *testing.T) {
		ctx := &RuleContext{HoursUntilSLABreach: Float(8)}
		assert.False(t, EvaluateConditions(conditions, ctx))
	})
}

func TestEvaluateConditions_StatusComparisons(t *testing.T) {
	pendingCtx := &RuleContext{EntityData: map[string]any{"status": "pending"}}

	t.Run("statusEquals matches same status", func(t *testing.T) {
		status := "pending"
		assert.True(t, EvaluateConditions(TriggerConditions{StatusEquals: &status}, pendingCtx))
	})

	t.Run("statusEquals rejects different status", func(t *testing.T) {
		status := "shipped"
		assert.False(t, EvaluateConditions(TriggerConditions{StatusEquals: &status}, pendingCtx))
	})

	t.Run("statusNotEquals rejects same status", func(t *testing.T) {
		status := "pending"
		assert.False(t, EvaluateConditions(TriggerConditions{StatusNotEquals: &status}, pendingCtx))
	})

	t.Run("status conditions skipped when snapshot has no status", func(t *testing.T) {
		status := "pending"
		ctx := &RuleContext{EntityData: map[string]any{"name": "Widget"}}
		assert.True(t, EvaluateConditions(TriggerConditions{StatusEquals: &status}, ctx))
	})
}

func TestEvaluateConditions_CategoryMembership(t *testing.T) {
	ctx := &RuleContext{EntityData: map[string]any{"category": "electronics"}}

	t.Run("categoryIn matches member", func(t *testing.T) {
		conditions := TriggerConditions{CategoryIn: []string{"electronics", "tools"}}
		assert.True(t, EvaluateConditions(conditions, ctx))
	})

	t.Run("categoryIn rejects non-member", func(t *testing.T) {
		conditions := TriggerConditions{CategoryIn: []string{"apparel"}}
		assert.False(t, EvaluateConditions(conditions, ctx))
	})

	t.Run("categoryNotIn rejects member", func(t *testing.T) {
		conditions := TriggerConditions{CategoryNotIn: []string{"electronics"}}
		assert.False(t, EvaluateConditions(conditions, ctx))
	})

	t.Run("empty lists are skipped", func(t *testing.T) {
		conditions := TriggerConditions{CategoryIn: []string{}, CategoryNotIn: []string{}}
		assert.True(t, EvaluateConditions(conditions, ctx))
	})

	t.Run("membership skipped when snapshot has no category", func(t *testing.T) {
		conditions := TriggerConditions{CategoryIn: []string{"apparel"}}
		assert.True(t, EvaluateConditions(conditions, &RuleContext{}))
	})
}

func TestEvaluateConditions_AllConditionsMustPass(t *testing.T) {
	conditions := TriggerConditions{
		MarginBelow: Float(5),
		ValueAbove:  Float(1000),
	}

	t.Run("both pass", func(t *testing.T) {
		ctx := &RuleContext{Margin: Float(2), TotalValue: Float(2000)}
		assert.True(t, EvaluateConditions(conditions, ctx))
	})

	t.Run("one fails", func(t *testing.T) {
		ctx := &RuleContext{Margin: Float(2), TotalValue: Float(500)}
		assert.False(t, EvaluateConditions(conditions, ctx))
	})

	t.Run("one absent one passing", func(t *testing.T) {
		ctx := &RuleContext{Margin: Float(2)}
		assert.True(t, EvaluateConditions(conditions, ctx))
	})
}

func TestEvaluateConditions_StockSignals(t *testing.T) {
	t.Run("stockBelow strict", func(t *testing.T) {
		conditions := TriggerConditions{StockBelow: Float(10)}
		assert.True(t, EvaluateConditions(conditions, &RuleContext{CurrentStock: Float(9)}))
		assert.False(t, EvaluateConditions(conditions, &RuleContext{CurrentStock: Float(10)}))
	})

	t.Run("stockPercentBelow strict", func(t *testing.T) {
		conditions := TriggerConditions{StockPercentBelow: Float(10)}
		assert.True(t, EvaluateConditions(conditions, &RuleContext{StockPercent: Float(5)}))
		assert.False(t, EvaluateConditions(conditions, &RuleContext{StockPercent: Float(10)}))
	})

	t.Run("buyer trust bounds", func(t *testing.T) {
		below := TriggerConditions{BuyerTrustBelow: Float(30)}
		assert.True(t, EvaluateConditions(below, &RuleContext{BuyerTrustScore: Float(20)}))
		assert.False(t, EvaluateConditions(below, &RuleContext{BuyerTrustScore: Float(30)}))

		above := TriggerConditions{BuyerTrustAbove: Float(80)}
		assert.True(t, EvaluateConditions(above, &RuleContext{BuyerTrustScore: Float(90)}))
		assert.False(t, EvaluateConditions(above, &RuleContext{BuyerTrustScore: Float(80)}))
	})
}
