package automation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerConditions_RoundTrip(t *testing.T) {
	status := "pending"
	notStatus := "closed"
	original := TriggerConditions{
		MarginBelow:       Float(5),
		QuantityAbove:     Float(100),
		ValueBelow:        Float(2500.50),
		StockPercentBelow: Float(12.5),
		BuyerTrustBelow:   Float(30),
		DaysOverdue:       Float(2),
		HoursUntilBreach:  Float(4),
		StatusEquals:      &status,
		StatusNotEquals:   &notStatus,
		CategoryIn:        []string{"electronics", "tools"},
		CategoryNotIn:     []string{"apparel"},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored TriggerConditions
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, original, restored)
}

func TestTriggerConditions_EmptyRoundTrip(t *testing.T) {
	data, err := json.Marshal(TriggerConditions{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	var restored TriggerConditions
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.True(t, restored.IsEmpty())
}

func TestTriggerConditions_IsEmpty(t *testing.T) {
	assert.True(t, TriggerConditions{}.IsEmpty())
	assert.False(t, TriggerConditions{MarginBelow: Float(5)}.IsEmpty())
	assert.False(t, TriggerConditions{CategoryIn: []string{"a"}}.IsEmpty())
}

func TestActionConfig_RoundTrip(t *testing.T) {
	original := ActionConfig{
		SetStatus:           "ignored",
		SetPriority:         "high",
		AddTag:              "high-value",
		Notify:              true,
		NotificationMessage: "Order is {daysOverdue} days overdue",
		ResponseMessage:     "We are on it",
		EscalateTo:          "support-team",
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored ActionConfig
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, original, restored)
}

func TestRuleContext_SnapshotRoundTrip(t *testing.T) {
	ctx := &RuleContext{
		EntityNumber: "ORD-1001",
		EntityData:   map[string]any{"status": "pending", "name": "Widget"},
		Margin:       Float(3.5),
		DaysOverdue:  Float(2),
	}

	snapshot, err := ctx.Snapshot()
	require.NoError(t, err)

	restored, err := ContextFromSnapshot(snapshot)
	require.NoError(t, err)

	assert.Equal(t, ctx.EntityNumber, restored.EntityNumber)
	assert.Equal(t, *ctx.Margin, *restored.Margin)
	assert.Equal(t, *ctx.DaysOverdue, *restored.DaysOverdue)
	assert.Nil(t, restored.TotalValue)

	status, ok := restored.EntityStatus()
	assert.True(t, ok)
	assert.Equal(t, "pending", status)
}
