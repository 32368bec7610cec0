package queries

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// ListPlansQuery lists a user's plans
type ListPlansQuery struct {
	UserID string
}

// ListPlansResponse carries the plans sorted by name
type ListPlansResponse struct {
	Plans []*industry.Plan
}

// ListPlansHandler handles the ListPlans query
type ListPlansHandler struct {
	plans industry.PlanRepository
}

// NewListPlansHandler creates a new ListPlansHandler
func NewListPlansHandler(plans industry.PlanRepository) *ListPlansHandler {
	return &ListPlansHandler{plans: plans}
}

// Handle executes the ListPlans query
func (h *ListPlansHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListPlansQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListPlansQuery")
	}

	plans, err := h.plans.ListByUser(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return &ListPlansResponse{Plans: plans}, nil
}

// GetPlanQuery returns one plan
type GetPlanQuery struct {
	UserID   string
	PlanName string
}

// GetPlanResponse carries the plan
type GetPlanResponse struct {
	Plan *industry.Plan
}

// GetPlanHandler handles the GetPlan query
type GetPlanHandler struct {
	plans industry.PlanRepository
}

// NewGetPlanHandler creates a new GetPlanHandler
func NewGetPlanHandler(plans industry.PlanRepository) *GetPlanHandler {
	return &GetPlanHandler{plans: plans}
}

// Handle executes the GetPlan query
func (h *GetPlanHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetPlanQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetPlanQuery")
	}

	plan, err := h.plans.FindByName(ctx, query.UserID, query.PlanName)
	if err != nil {
		return nil, err
	}
	return &GetPlanResponse{Plan: plan}, nil
}

// ListMatchersQuery lists a user's matchers
type ListMatchersQuery struct {
	UserID string
}

// ListMatchersResponse carries the matchers sorted by name
type ListMatchersResponse struct {
	Matchers []industry.Matcher
}

func (r ListMatchersResponse) MarshalJSON() ([]byte, error) {
	wire := make([]industry.MatcherJSON, 0, len(r.Matchers))
	for _, m := range r.Matchers {
		wire = append(wire, industry.MatcherJSON{Matcher: m})
	}
	return json.Marshal(struct {
		Matchers []industry.MatcherJSON
	}{wire})
}

func (r *ListMatchersResponse) UnmarshalJSON(data []byte) error {
	var wire struct {
		Matchers []industry.MatcherJSON
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.Matchers = make([]industry.Matcher, 0, len(wire.Matchers))
	for _, m := range wire.Matchers {
		r.Matchers = append(r.Matchers, m.Matcher)
	}
	return nil
}

// ListMatchersHandler handles the ListMatchers query
type ListMatchersHandler struct {
	matchers industry.MatcherRepository
}

// NewListMatchersHandler creates a new ListMatchersHandler
func NewListMatchersHandler(matchers industry.MatcherRepository) *ListMatchersHandler {
	return &ListMatchersHandler{matchers: matchers}
}

// Handle executes the ListMatchers query
func (h *ListMatchersHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListMatchersQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListMatchersQuery")
	}

	matchers, err := h.matchers.ListByUser(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matchers: %w", err)
	}
	return &ListMatchersResponse{Matchers: matchers}, nil
}

// ListStructuresQuery lists every known facility
type ListStructuresQuery struct{}

// ListStructuresResponse carries the structures sorted by id
type ListStructuresResponse struct {
	Structures []*industry.Structure
}

// ListStructuresHandler handles the ListStructures query
type ListStructuresHandler struct {
	structures industry.StructureRepository
}

// NewListStructuresHandler creates a new ListStructuresHandler
func NewListStructuresHandler(structures industry.StructureRepository) *ListStructuresHandler {
	return &ListStructuresHandler{structures: structures}
}

// Handle executes the ListStructures query
func (h *ListStructuresHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListStructuresQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListStructuresQuery")
	}

	structures, err := h.structures.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list structures: %w", err)
	}
	return &ListStructuresResponse{Structures: structures}, nil
}
