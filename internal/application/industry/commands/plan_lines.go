package commands

import (
	"context"
	"fmt"

	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

// planMutator loads a plan, applies a change and saves it back
type planMutator struct {
	plans   industry.PlanRepository
	reports ReportInvalidator
	clock   shared.Clock
}

func (m planMutator) mutate(ctx context.Context, userID, name string, change func(*industry.Plan) error) (*industry.Plan, error) {
	plan, err := m.plans.FindByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if m.clock != nil {
		plan.SetClock(m.clock)
	}
	if err := change(plan); err != nil {
		return nil, err
	}
	if err := m.plans.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}
	if m.reports != nil {
		m.reports.Invalidate(plan.Key())
	}
	return plan, nil
}

// PlanResponse carries the plan after a change
type PlanResponse struct {
	Plan *industry.Plan
}

// AddPlanLineCommand appends a product line, resolving the product by name
type AddPlanLineCommand struct {
	UserID   string
	PlanName string
	Product  string
	Quantity int64
}

// AddPlanLineHandler handles the AddPlanLine command
type AddPlanLineHandler struct {
	planMutator
	catalog *industry.Catalog
}

// NewAddPlanLineHandler creates a new AddPlanLineHandler
func NewAddPlanLineHandler(plans industry.PlanRepository, catalog *industry.Catalog, reports ReportInvalidator, clock shared.Clock) *AddPlanLineHandler {
	return &AddPlanLineHandler{planMutator: planMutator{plans: plans, reports: reports, clock: clock}, catalog: catalog}
}

// Handle executes the AddPlanLine command
func (h *AddPlanLineHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AddPlanLineCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AddPlanLineCommand")
	}

	item, found := h.catalog.ItemByName(cmd.Product)
	if !found {
		return nil, &industry.ErrUnknownItem{Name: cmd.Product}
	}

	plan, err := h.mutate(ctx, cmd.UserID, cmd.PlanName, func(p *industry.Plan) error {
		return p.AddLine(item.Name, item.TypeID, cmd.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return &PlanResponse{Plan: plan}, nil
}

// DeletePlanLinesCommand removes lines by their 1-based positions
type DeletePlanLinesCommand struct {
	UserID   string
	PlanName string
	Indexes  []int
}

// DeletePlanLinesHandler handles the DeletePlanLines command
type DeletePlanLinesHandler struct {
	planMutator
}

// NewDeletePlanLinesHandler creates a new DeletePlanLinesHandler
func NewDeletePlanLinesHandler(plans industry.PlanRepository, reports ReportInvalidator, clock shared.Clock) *DeletePlanLinesHandler {
	return &DeletePlanLinesHandler{planMutator{plans: plans, reports: reports, clock: clock}}
}

// Handle executes the DeletePlanLines command
func (h *DeletePlanLinesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DeletePlanLinesCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DeletePlanLinesCommand")
	}

	plan, err := h.mutate(ctx, cmd.UserID, cmd.PlanName, func(p *industry.Plan) error {
		return p.DeleteLines(cmd.Indexes)
	})
	if err != nil {
		return nil, err
	}
	return &PlanResponse{Plan: plan}, nil
}

// ChangePlanLineIndexCommand moves a line, both positions are 1-based
type ChangePlanLineIndexCommand struct {
	UserID   string
	PlanName string
	From     int
	To       int
}

// ChangePlanLineIndexHandler handles the ChangePlanLineIndex command
type ChangePlanLineIndexHandler struct {
	planMutator
}

// NewChangePlanLineIndexHandler creates a new ChangePlanLineIndexHandler
func NewChangePlanLineIndexHandler(plans industry.PlanRepository, reports ReportInvalidator, clock shared.Clock) *ChangePlanLineIndexHandler {
	return &ChangePlanLineIndexHandler{planMutator{plans: plans, reports: reports, clock: clock}}
}

// Handle executes the ChangePlanLineIndex command
func (h *ChangePlanLineIndexHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ChangePlanLineIndexCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ChangePlanLineIndexCommand")
	}

	plan, err := h.mutate(ctx, cmd.UserID, cmd.PlanName, func(p *industry.Plan) error {
		return p.ChangeLineIndex(cmd.From, cmd.To)
	})
	if err != nil {
		return nil, err
	}
	return &PlanResponse{Plan: plan}, nil
}

// SetPlanCycleTimeCommand sets the job length of one activity. Activity is
// "manu" or "reac".
type SetPlanCycleTimeCommand struct {
	UserID   string
	PlanName string
	Activity string
	Hours    int
}

// SetPlanCycleTimeHandler handles the SetPlanCycleTime command
type SetPlanCycleTimeHandler struct {
	planMutator
}

// NewSetPlanCycleTimeHandler creates a new SetPlanCycleTimeHandler
func NewSetPlanCycleTimeHandler(plans industry.PlanRepository, reports ReportInvalidator, clock shared.Clock) *SetPlanCycleTimeHandler {
	return &SetPlanCycleTimeHandler{planMutator{plans: plans, reports: reports, clock: clock}}
}

// Handle executes the SetPlanCycleTime command
func (h *SetPlanCycleTimeHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SetPlanCycleTimeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SetPlanCycleTimeCommand")
	}

	activity, err := ParseActivity(cmd.Activity)
	if err != nil {
		return nil, err
	}

	plan, err := h.mutate(ctx, cmd.UserID, cmd.PlanName, func(p *industry.Plan) error {
		return p.SetCycleHours(activity, cmd.Hours)
	})
	if err != nil {
		return nil, err
	}
	return &PlanResponse{Plan: plan}, nil
}

// ParseActivity maps the short activity names used by the command surface
func ParseActivity(s string) (industry.ActivityKind, error) {
	switch s {
	case "manu", "manufacturing":
		return industry.ActivityManufacturing, nil
	case "reac", "reaction":
		return industry.ActivityReaction, nil
	}
	return 0, shared.NewUserInputError("unknown activity %q, expected manu or reac", s)
}

// SetContainerVisibilityCommand hides or shows a storage location for one plan
type SetContainerVisibilityCommand struct {
	UserID     string
	PlanName   string
	LocationID int64
	Hidden     bool
}

// SetContainerVisibilityHandler handles the SetContainerVisibility command
type SetContainerVisibilityHandler struct {
	planMutator
}

// NewSetContainerVisibilityHandler creates a new SetContainerVisibilityHandler
func NewSetContainerVisibilityHandler(plans industry.PlanRepository, reports ReportInvalidator, clock shared.Clock) *SetContainerVisibilityHandler {
	return &SetContainerVisibilityHandler{planMutator{plans: plans, reports: reports, clock: clock}}
}

// Handle executes the SetContainerVisibility command
func (h *SetContainerVisibilityHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SetContainerVisibilityCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SetContainerVisibilityCommand")
	}

	plan, err := h.mutate(ctx, cmd.UserID, cmd.PlanName, func(p *industry.Plan) error {
		if cmd.Hidden {
			p.HideContainer(cmd.LocationID)
			return nil
		}
		if !p.UnhideContainer(cmd.LocationID) {
			return shared.NewUserInputError("container %d is not hidden in plan %s", cmd.LocationID, p.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &PlanResponse{Plan: plan}, nil
}
