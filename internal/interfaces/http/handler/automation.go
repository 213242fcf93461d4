package handler

import (
	"time"

	appautomation "github.com/marketplace/backend/internal/application/automation"
	"github.com/marketplace/backend/internal/domain/automation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AutomationHandler handles automation rule API endpoints
type AutomationHandler struct {
	BaseHandler
	ruleService    *appautomation.RuleService
	historyService *appautomation.HistoryService
	pipeline       *appautomation.EvaluationService
}

// NewAutomationHandler creates a new AutomationHandler
func NewAutomationHandler(
	ruleService *appautomation.RuleService,
	historyService *appautomation.HistoryService,
	pipeline *appautomation.EvaluationService,
) *AutomationHandler {
	return &AutomationHandler{
		ruleService:    ruleService,
		historyService: historyService,
		pipeline:       pipeline,
	}
}

// RegisterRoutes registers the automation endpoints on the API group
func (h *AutomationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/automation")
	{
		rules := group.Group("/rules")
		{
			rules.POST("", h.Create)
			rules.GET("", h.List)
			rules.GET("/:id", h.GetByID)
			rules.PUT("/:id", h.Update)
			rules.DELETE("/:id", h.Delete)
			rules.POST("/:id/toggle", h.Toggle)
		}
		templates := group.Group("/templates")
		{
			templates.GET("", h.ListTemplates)
			templates.POST("/:id", h.InstantiateTemplate)
		}
		executions := group.Group("/executions")
		{
			executions.GET("", h.ListExecutions)
			executions.GET("/stats", h.ExecutionStats)
		}
		group.POST("/evaluate", h.Evaluate)
	}
}

// =============================================================================
// Request DTOs
// =============================================================================

// CreateRuleRequest represents a request to create an automation rule
type CreateRuleRequest struct {
	Name              string                       `json:"name" binding:"required,min=1,max=200"`
	Description       string                       `json:"description" binding:"max=1000"`
	RuleType          string                       `json:"rule_type" binding:"required"`
	TriggerType       string                       `json:"trigger_type" binding:"required"`
	TriggerConditions automation.TriggerConditions `json:"trigger_conditions"`
	ActionType        string                       `json:"action_type" binding:"required"`
	ActionConfig      automation.ActionConfig      `json:"action_config"`
	Priority          *int                         `json:"priority"`
	IsEnabled         *bool                        `json:"is_enabled"`
}

// UpdateRuleRequest represents a partial rule update; nil fields are unchanged
type UpdateRuleRequest struct {
	Name              *string                       `json:"name"`
	Description       *string                       `json:"description"`
	TriggerType       *string                       `json:"trigger_type"`
	TriggerConditions *automation.TriggerConditions `json:"trigger_conditions"`
	ActionType        *string                       `json:"action_type"`
	ActionConfig      *automation.ActionConfig      `json:"action_config"`
	Priority          *int                          `json:"priority"`
	IsEnabled         *bool                         `json:"is_enabled"`
}

// InstantiateTemplateRequest represents optional overrides when creating a
// rule from a template
type InstantiateTemplateRequest struct {
	Name              *string                       `json:"name"`
	Description       *string                       `json:"description"`
	TriggerConditions *automation.TriggerConditions `json:"trigger_conditions"`
	ActionConfig      *automation.ActionConfig      `json:"action_config"`
	Priority          *int                          `json:"priority"`
	IsEnabled         *bool                         `json:"is_enabled"`
}

// EvaluateRequest represents a manual evaluation request for one entity
type EvaluateRequest struct {
	EntityType string                  `json:"entity_type" binding:"required"`
	EntityID   string                  `json:"entity_id" binding:"required,uuid"`
	Context    *automation.RuleContext `json:"context"`
}

// =============================================================================
// Response DTOs
// =============================================================================

// RuleResponse represents an automation rule in API responses
type RuleResponse struct {
	ID                string                       `json:"id"`
	Name              string                       `json:"name"`
	Description       string                       `json:"description,omitempty"`
	RuleType          string                       `json:"rule_type"`
	TriggerType       string                       `json:"trigger_type"`
	TriggerConditions automation.TriggerConditions `json:"trigger_conditions"`
	ActionType        string                       `json:"action_type"`
	ActionConfig      automation.ActionConfig      `json:"action_config"`
	Priority          int                          `json:"priority"`
	IsEnabled         bool                         `json:"is_enabled"`
	TriggerCount      int64                        `json:"trigger_count"`
	LastTriggeredAt   *time.Time                   `json:"last_triggered_at,omitempty"`
	CreatedAt         time.Time                    `json:"created_at"`
	UpdatedAt         time.Time                    `json:"updated_at"`
}

func toRuleResponse(rule *automation.Rule) RuleResponse {
	return RuleResponse{
		ID:                rule.ID.String(),
		Name:              rule.Name,
		Description:       rule.Description,
		RuleType:          string(rule.RuleType),
		TriggerType:       string(rule.TriggerType),
		TriggerConditions: rule.Conditions,
		ActionType:        string(rule.ActionType),
		ActionConfig:      rule.ActionConfig,
		Priority:          rule.Priority,
		IsEnabled:         rule.Enabled,
		TriggerCount:      rule.TriggerCount,
		LastTriggeredAt:   rule.LastTriggeredAt,
		CreatedAt:         rule.CreatedAt,
		UpdatedAt:         rule.UpdatedAt,
	}
}

// =============================================================================
// Rule CRUD
// =============================================================================

// Create godoc
//
//	@Summary	Create an automation rule
//	@Tags		automation
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateRuleRequest	true	"Rule creation request"
//	@Success	201		{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/automation/rules [post]
func (h *AutomationHandler) Create(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller identity")
		return
	}

	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rule, err := h.ruleService.CreateRule(c.Request.Context(), sellerID, automation.NewRuleParams{
		Name:         req.Name,
		Description:  req.Description,
		RuleType:     automation.RuleType(req.RuleType),
		TriggerType:  automation.TriggerType(req.TriggerType),
		Conditions:   req.TriggerConditions,
		ActionType:   automation.ActionType(req.ActionType),
		ActionConfig: req.ActionConfig,
		Priority:     req.Priority,
		Enabled:      req.IsEnabled,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toRuleResponse(rule))
}

// List godoc
//
//	@Summary	List the seller's automation rules
//	@Tags		automation
//	@Produce	json
//	@Param		rule_type		query		string	false	"Filter by rule type"
//	@Param		trigger_type	query		string	false	"Filter by trigger type"
//	@Param		is_enabled		query		bool	false	"Filter by enabled state"
//	@Param		page			query		int		false	"Page number"
//	@Param		page_size		query		int		false	"Page size"
//	@Success	200				{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/automation/rules [get]
func (h *AutomationHandler) List(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller identity")
		return
	}

	var query struct {
		RuleType    *string `form:"rule_type"`
		TriggerType *string `form:"trigger_type"`
		IsEnabled   *bool   `form:"is_enabled"`
		Page        int     `form:"page"`
		PageSize    int     `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := automation.RuleListFilter{
		Enabled:  query.IsEnabled,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.RuleType != nil {
		ruleType := automation.RuleType(*query.RuleType)
		filter.RuleType = &ruleType
	}
	if query.TriggerType != nil {
		triggerType := automation.TriggerType(*query.TriggerType)
		filter.TriggerType = &triggerType
	}

	page, err := h.ruleService.GetSellerRules(c.Request.Context(), sellerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]RuleResponse, 0, len(page.Items))
	for i := range page.Items {
		responses = append(responses, toRuleResponse(&page.Items[i]))
	}
	h.SuccessWithMeta(c, responses, page.Total, page.Page, page.PageSize)
}

// GetByID godoc
//
//	@Summary	Get an automation rule
//	@Tags		automation
//	@Produce	json
//	@Param		id	path		string	true	"Rule ID"
//	@Success	200	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/automation/rules/{id} [get]
func (h *AutomationHandler) GetByID(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller identity")
		return
	}
	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}

	rule, err := h.ruleService.GetRule(c.Request.Context(), sellerID, ruleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toRuleResponse(rule))
}

// Update godoc
//
//	@Summary	Update an automation rule
//	@Tags		automation
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Rule ID"
//	@Param		request	body		UpdateRuleRequest	true	"Partial rule update"
//	@Success	200		{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/automation/rules/{id} [put]
func (h *AutomationHandler) Update(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller identity")
		return
	}
	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}

	var req UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	update := automation.RuleUpdate{
		Name:         req.Name,
		Description:  req.Description,
		Conditions:   req.TriggerConditions,
		ActionConfig: req.ActionConfig,
		Priority:     req.Priority,
		Enabled:      req.IsEnabled,
	}
	if req.TriggerType != nil {
		triggerType := automation.TriggerType(*req.TriggerType)
		update.TriggerType = &triggerType
	}
	if req.ActionType != nil {
		actionType := automation.ActionType(*req.ActionType)
		update.ActionType = &actionType
	}

	rule, err := h.ruleService.UpdateRule(c.Request.Context(), sellerID, ruleID, update)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toRuleResponse(rule))
}

// Delete godoc
//
//	@Summary	Delete an automation rule
//	@Tags		automation
//	@Param		id	path	string	true	"Rule ID"
//	@Success	204
//	@Security	BearerAuth
//	@Router		/automation/rules/{id} [delete]
func (h *AutomationHandler) Delete(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller identity")
		return
	}
	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}

	if err := h.ruleService.DeleteRule(c.Request.Context(), sellerID, ruleID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Toggle godoc
//
//	@Summary	Toggle an automation rule's enabled state
//	@Tags		automation
//	@Produce	json
//	@Param		id	path		string	true	"Rule ID"
//	@Success	200	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/automation/rules/{id}/toggle [post]
func (h *AutomationHandler) Toggle(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller identity")
		return
	}
	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}

	rule, err := h.ruleService.ToggleRule(c.Request.Context(), sellerID, ruleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toRuleResponse(rule))
}

// =============================================================================
// Templates
// =============================================================================

// ListTemplates godoc
//
//	@Summary	List the built-in rule templates
//	@Tags		automation
//	@Produce	json
//	@Success	200	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/automation/templates [get]
func (h *AutomationHandler) ListTemplates(c *gin.Context) {
	h.Success(c, h.ruleService.GetDefaultTemplates())
}

// InstantiateTemplate godoc
//
//	@Summary	Create a rule from a template
//	@Tags		automation
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Template ID"
//	@Param		request	body		InstantiateTemplateRequest	false	"Template overrides"
//	@Success	201		{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/automation/templates/{id} [post]
func (h *AutomationHandler) InstantiateTemplate(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller identity")
		return
	}
	templateID := c.Param("id")

	var req InstantiateTemplateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	rule, err := h.ruleService.CreateRuleFromTemplate(c.Request.Context(), sellerID, templateID,
		automation.TemplateOverrides{
			Name:         req.Name,
			Description:  req.Description,
			Conditions:   req.TriggerConditions,
			ActionConfig: req.ActionConfig,
			Priority:     req.Priority,
			Enabled:      req.IsEnabled,
		})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toRuleResponse(rule))
}

// =============================================================================
// Execution history and stats
// =============================================================================

// ListExecutions godoc
//
//	@Summary	List the seller's rule execution history
//	@Tags		automation
//	@Produce	json
//	@Param		rule_id		query		string	false	"Filter by rule"
//	@Param		entity_type	query		string	false	"Filter by entity type"
//	@Param		result		query		string	false	"Filter by action result"
//	@Param		date_from	query		string	false	"RFC3339 lower bound"
//	@Param		date_to		query		string	false	"RFC3339 upper bound"
//	@Param		page		query		int		false	"Page number"
//	@Param		page_size	query		int		false	"Page size"
//	@Success	200			{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/automation/executions [get]
func (h *AutomationHandler) ListExecutions(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller identity")
		return
	}

	var query struct {
		RuleID     *string `form:"rule_id"`
		EntityType *string `form:"entity_type"`
		Result     *string `form:"result"`
		DateFrom   *string `form:"date_from"`
		DateTo     *string `form:"date_to"`
		Page       int     `form:"page"`
		PageSize   int     `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := automation.ExecutionListFilter{Page: query.Page, PageSize: query.PageSize}
	if query.RuleID != nil {
		ruleID, err := uuid.Parse(*query.RuleID)
		if err != nil {
			h.BadRequest(c, "Invalid rule ID")
			return
		}
		filter.RuleID = &ruleID
	}
	if query.EntityType != nil {
		entityType := automation.EntityType(*query.EntityType)
		filter.EntityType = &entityType
	}
	if query.Result != nil {
		result := automation.ActionResult(*query.Result)
		filter.ActionResult = &result
	}
	if query.DateFrom != nil {
		from, err := time.Parse(time.RFC3339, *query.DateFrom)
		if err != nil {
			h.BadRequest(c, "Invalid date_from")
			return
		}
		filter.DateFrom = &from
	}
	if query.DateTo != nil {
		to, err := time.Parse(time.RFC3339, *query.DateTo)
		if err != nil {
			h.BadRequest(c, "Invalid date_to")
			return
		}
		filter.DateTo = &to
	}

	page, err := h.historyService.GetExecutionHistory(c.Request.Context(), sellerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ExecutionStats godoc
//
//	@Summary	Aggregate execution statistics for the seller
//	@Tags		automation
//	@Produce	json
//	@Param		period	query		string	false	"Aggregation period: day, week or month (default week)"
//	@Success	200		{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/automation/executions/stats [get]
func (h *AutomationHandler) ExecutionStats(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller identity")
		return
	}

	period := appautomation.StatsPeriod(c.DefaultQuery("period", string(appautomation.PeriodWeek)))
	stats, err := h.historyService.GetExecutionStats(c.Request.Context(), sellerID, period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// =============================================================================
// Manual evaluation
// =============================================================================

// Evaluate godoc
//
//	@Summary	Run the seller's rules against one entity on demand
//	@Tags		automation
//	@Accept		json
//	@Produce	json
//	@Param		request	body		EvaluateRequest	true	"Evaluation request"
//	@Success	200		{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/automation/evaluate [post]
func (h *AutomationHandler) Evaluate(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller identity")
		return
	}

	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	entityID, err := uuid.Parse(req.EntityID)
	if err != nil {
		h.BadRequest(c, "Invalid entity ID")
		return
	}

	rctx := req.Context
	if rctx != nil {
		// the caller never supplies identity fields, the token does
		rctx.EntityID = entityID
		rctx.SellerID = sellerID
	}

	result := h.pipeline.EvaluateRulesForEntity(c.Request.Context(),
		automation.EntityType(req.EntityType), entityID, sellerID, rctx)
	h.Success(c, result)
}
