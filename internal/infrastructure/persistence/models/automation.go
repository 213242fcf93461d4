package models

import (
	"encoding/json"
	"time"

	"github.com/marketplace/backend/internal/domain/automation"
	"github.com/google/uuid"
)

// AutomationRuleModel is the persistence model for automation rules.
// Conditions and action config are stored as serialized JSON text.
type AutomationRuleModel struct {
	BaseModel
	SellerID          uuid.UUID `gorm:"type:uuid;not null;index:idx_rules_seller_type"`
	Name              string    `gorm:"not null"`
	Description       string
	RuleType          string `gorm:"not null;index:idx_rules_seller_type"`
	TriggerType       string `gorm:"not null"`
	TriggerConditions string `gorm:"type:text;not null;default:'{}'"`
	ActionType        string `gorm:"not null"`
	ActionConfig      string `gorm:"type:text;not null;default:'{}'"`
	Priority          int    `gorm:"not null;default:100"`
	IsEnabled         bool   `gorm:"not null;default:true"`
	TriggerCount      int64  `gorm:"not null;default:0"`
	LastTriggeredAt   *time.Time
}

// TableName returns the table name for AutomationRuleModel
func (AutomationRuleModel) TableName() string {
	return "automation_rules"
}

// ToDomain converts the model to a domain Rule. Malformed condition or
// config blobs deserialize to their zero value; the evaluator's
// absence-skips policy tolerates that.
func (m *AutomationRuleModel) ToDomain() *automation.Rule {
	rule := &automation.Rule{
		BaseEntity:      m.BaseModel.ToDomain(),
		SellerID:        m.SellerID,
		Name:            m.Name,
		Description:     m.Description,
		RuleType:        automation.RuleType(m.RuleType),
		TriggerType:     automation.TriggerType(m.TriggerType),
		ActionType:      automation.ActionType(m.ActionType),
		Priority:        m.Priority,
		Enabled:         m.IsEnabled,
		TriggerCount:    m.TriggerCount,
		LastTriggeredAt: m.LastTriggeredAt,
	}
	if m.TriggerConditions != "" {
		_ = json.Unmarshal([]byte(m.TriggerConditions), &rule.Conditions)
	}
	if m.ActionConfig != "" {
		_ = json.Unmarshal([]byte(m.ActionConfig), &rule.ActionConfig)
	}
	return rule
}

// AutomationRuleModelFromDomain converts a domain Rule to its persistence model
func AutomationRuleModelFromDomain(rule *automation.Rule) (*AutomationRuleModel, error) {
	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return nil, err
	}
	config, err := json.Marshal(rule.ActionConfig)
	if err != nil {
		return nil, err
	}

	model := &AutomationRuleModel{
		SellerID:          rule.SellerID,
		Name:              rule.Name,
		Description:       rule.Description,
		RuleType:          string(rule.RuleType),
		TriggerType:       string(rule.TriggerType),
		TriggerConditions: string(conditions),
		ActionType:        string(rule.ActionType),
		ActionConfig:      string(config),
		Priority:          rule.Priority,
		IsEnabled:         rule.Enabled,
		TriggerCount:      rule.TriggerCount,
		LastTriggeredAt:   rule.LastTriggeredAt,
	}
	model.FromDomainBaseEntity(rule.BaseEntity)
	return model, nil
}

// AutomationExecutionModel is the persistence model for the append-only
// execution log
type AutomationExecutionModel struct {
	BaseModel
	RuleID       uuid.UUID `gorm:"type:uuid;not null;index"`
	SellerID     uuid.UUID `gorm:"type:uuid;not null;index:idx_executions_seller_time"`
	EntityType   string    `gorm:"not null"`
	EntityID     uuid.UUID `gorm:"type:uuid;not null"`
	EntityNumber string
	TriggerData  string `gorm:"type:text"`
	ActionTaken  string
	ActionResult string    `gorm:"not null"`
	ErrorMessage string    `gorm:"type:text"`
	ExecutedAt   time.Time `gorm:"not null;index:idx_executions_seller_time"`
}

// TableName returns the table name for AutomationExecutionModel
func (AutomationExecutionModel) TableName() string {
	return "automation_executions"
}

// ToDomain converts the model to a domain Execution
func (m *AutomationExecutionModel) ToDomain() *automation.Execution {
	return &automation.Execution{
		BaseEntity:   m.BaseModel.ToDomain(),
		RuleID:       m.RuleID,
		SellerID:     m.SellerID,
		EntityType:   automation.EntityType(m.EntityType),
		EntityID:     m.EntityID,
		EntityNumber: m.EntityNumber,
		TriggerData:  m.TriggerData,
		ActionTaken:  m.ActionTaken,
		ActionResult: automation.ActionResult(m.ActionResult),
		ErrorMessage: m.ErrorMessage,
		ExecutedAt:   m.ExecutedAt,
	}
}

// AutomationExecutionModelFromDomain converts a domain Execution to its
// persistence model
func AutomationExecutionModelFromDomain(execution *automation.Execution) *AutomationExecutionModel {
	model := &AutomationExecutionModel{
		RuleID:       execution.RuleID,
		SellerID:     execution.SellerID,
		EntityType:   string(execution.EntityType),
		EntityID:     execution.EntityID,
		EntityNumber: execution.EntityNumber,
		TriggerData:  execution.TriggerData,
		ActionTaken:  execution.ActionTaken,
		ActionResult: string(execution.ActionResult),
		ErrorMessage: execution.ErrorMessage,
		ExecutedAt:   execution.ExecutedAt,
	}
	model.FromDomainBaseEntity(execution.BaseEntity)
	return model
}
