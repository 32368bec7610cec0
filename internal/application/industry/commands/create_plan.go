package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

// ReportInvalidator drops cached reports after the inputs they were
// resolved from change
type ReportInvalidator interface {
	Invalidate(key string)
	InvalidateUser(userID string)
	Clear()
}

// CreatePlanCommand creates an empty plan bound to three matchers
type CreatePlanCommand struct {
	UserID                 string
	Name                   string
	BlueprintMatcher       string
	StructureMatcher       string
	ProductionBlockMatcher string
}

// CreatePlanResponse carries the new plan
type CreatePlanResponse struct {
	Plan *industry.Plan
}

// CreatePlanHandler handles the CreatePlan command
type CreatePlanHandler struct {
	plans    industry.PlanRepository
	matchers industry.MatcherRepository
	limit    int
	clock    shared.Clock
}

// NewCreatePlanHandler creates a new CreatePlanHandler. A non-positive
// limit uses industry.MaxPlansPerUser.
func NewCreatePlanHandler(plans industry.PlanRepository, matchers industry.MatcherRepository, limit int, clock shared.Clock) *CreatePlanHandler {
	if limit <= 0 {
		limit = industry.MaxPlansPerUser
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CreatePlanHandler{plans: plans, matchers: matchers, limit: limit, clock: clock}
}

// Handle executes the CreatePlan command
func (h *CreatePlanHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CreatePlanCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CreatePlanCommand")
	}

	count, err := h.plans.CountByUser(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count plans: %w", err)
	}
	if count >= h.limit {
		return nil, &industry.ErrPlanLimitReached{Limit: h.limit}
	}

	_, err = h.plans.FindByName(ctx, cmd.UserID, cmd.Name)
	if err == nil {
		return nil, &industry.ErrPlanExists{Name: cmd.Name}
	}
	var notFound *industry.ErrPlanNotFound
	if !errors.As(err, &notFound) {
		return nil, fmt.Errorf("failed to look up plan: %w", err)
	}

	slots := []struct {
		name string
		kind industry.MatcherKind
	}{
		{cmd.BlueprintMatcher, industry.MatcherKindBlueprint},
		{cmd.StructureMatcher, industry.MatcherKindStructure},
		{cmd.ProductionBlockMatcher, industry.MatcherKindProductionBlock},
	}
	for _, slot := range slots {
		if err := requireMatcher(ctx, h.matchers, cmd.UserID, slot.name, slot.kind); err != nil {
			return nil, err
		}
	}

	plan, err := industry.NewPlan(cmd.UserID, cmd.Name, cmd.BlueprintMatcher, cmd.StructureMatcher, cmd.ProductionBlockMatcher, h.clock)
	if err != nil {
		return nil, err
	}
	if err := h.plans.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}

	return &CreatePlanResponse{Plan: plan}, nil
}

func requireMatcher(ctx context.Context, matchers industry.MatcherRepository, userID, name string, kind industry.MatcherKind) error {
	if name == "" {
		return shared.NewPolicyUnsetError(string(kind), "matcher name is required")
	}
	m, err := matchers.FindByName(ctx, userID, name)
	if err != nil {
		return err
	}
	if m.Kind() != kind {
		return &industry.ErrMatcherKindMismatch{Name: name, Expected: kind, Actual: m.Kind()}
	}
	return nil
}

// DeletePlanCommand removes a plan
type DeletePlanCommand struct {
	UserID string
	Name   string
}

// DeletePlanResponse is empty on success
type DeletePlanResponse struct{}

// DeletePlanHandler handles the DeletePlan command
type DeletePlanHandler struct {
	plans   industry.PlanRepository
	reports ReportInvalidator
}

// NewDeletePlanHandler creates a new DeletePlanHandler
func NewDeletePlanHandler(plans industry.PlanRepository, reports ReportInvalidator) *DeletePlanHandler {
	return &DeletePlanHandler{plans: plans, reports: reports}
}

// Handle executes the DeletePlan command
func (h *DeletePlanHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DeletePlanCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DeletePlanCommand")
	}

	if err := h.plans.Delete(ctx, cmd.UserID, cmd.Name); err != nil {
		return nil, err
	}
	h.reports.Invalidate(cmd.UserID + "/" + cmd.Name)
	return &DeletePlanResponse{}, nil
}
