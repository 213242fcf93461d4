package automation

import (
	"context"

	"github.com/marketplace/backend/internal/domain/automation"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RuleService handles the seller-facing rule CRUD surface. Every operation
// is scoped to the calling seller; a rule owned by another seller behaves
// as not-found.
type RuleService struct {
	ruleRepo automation.RuleRepository
	logger   *zap.Logger
}

// NewRuleService creates a RuleService
func NewRuleService(ruleRepo automation.RuleRepository, logger *zap.Logger) *RuleService {
	return &RuleService{ruleRepo: ruleRepo, logger: logger}
}

// CreateRule creates a rule for the seller, applying creation defaults
func (s *RuleService) CreateRule(ctx context.Context, sellerID uuid.UUID, params automation.NewRuleParams) (*automation.Rule, error) {
	rule, err := automation.NewRule(sellerID, params)
	if err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		s.logger.Error("failed to create rule",
			zap.String("sellerId", sellerID.String()), zap.Error(err))
		return nil, err
	}
	return rule, nil
}

// GetRule returns one of the seller's rules
func (s *RuleService) GetRule(ctx context.Context, sellerID, ruleID uuid.UUID) (*automation.Rule, error) {
	return s.ruleRepo.FindByID(ctx, sellerID, ruleID)
}

// GetSellerRules lists the seller's rules. A store failure yields an empty
// page rather than an error.
func (s *RuleService) GetSellerRules(
	ctx context.Context,
	sellerID uuid.UUID,
	filter automation.RuleListFilter,
) (shared.Paginated[automation.Rule], error) {
	filter.Normalize()
	rules, total, err := s.ruleRepo.List(ctx, sellerID, filter)
	if err != nil {
		s.logger.Error("failed to list rules",
			zap.String("sellerId", sellerID.String()), zap.Error(err))
		return shared.EmptyPaginated[automation.Rule](filter.Page, filter.PageSize), nil
	}
	return shared.NewPaginated(rules, total, filter.Page, filter.PageSize), nil
}

// UpdateRule merges a partial update into one of the seller's rules
func (s *RuleService) UpdateRule(
	ctx context.Context,
	sellerID, ruleID uuid.UUID,
	update automation.RuleUpdate,
) (*automation.Rule, error) {
	rule, err := s.ruleRepo.FindByID(ctx, sellerID, ruleID)
	if err != nil {
		return nil, err
	}
	if err := rule.Apply(update); err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		s.logger.Error("failed to update rule",
			zap.String("ruleId", ruleID.String()), zap.Error(err))
		return nil, err
	}
	return rule, nil
}

// DeleteRule removes one of the seller's rules
func (s *RuleService) DeleteRule(ctx context.Context, sellerID, ruleID uuid.UUID) error {
	return s.ruleRepo.Delete(ctx, sellerID, ruleID)
}

// ToggleRule flips a rule's enabled state and returns the updated rule
func (s *RuleService) ToggleRule(ctx context.Context, sellerID, ruleID uuid.UUID) (*automation.Rule, error) {
	rule, err := s.ruleRepo.FindByID(ctx, sellerID, ruleID)
	if err != nil {
		return nil, err
	}
	rule.Toggle()
	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		s.logger.Error("failed to toggle rule",
			zap.String("ruleId", ruleID.String()), zap.Error(err))
		return nil, err
	}
	return rule, nil
}

// GetDefaultTemplates returns the built-in template catalog
func (s *RuleService) GetDefaultTemplates() []automation.Template {
	return automation.DefaultTemplates()
}

// CreateRuleFromTemplate instantiates a catalog template for the seller,
// with optional field overrides.
func (s *RuleService) CreateRuleFromTemplate(
	ctx context.Context,
	sellerID uuid.UUID,
	templateID string,
	overrides automation.TemplateOverrides,
) (*automation.Rule, error) {
	template, ok := automation.TemplateByID(templateID)
	if !ok {
		return nil, shared.ErrTemplateNotFound
	}
	return s.CreateRule(ctx, sellerID, template.Instantiate(overrides))
}
