package queries

import (
	"context"
	"fmt"

	"github.com/AraragiEro/kahuna-bot/internal/application/common"
	"github.com/AraragiEro/kahuna-bot/internal/application/industry/services"
	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// PlanResolver resolves a plan into a report
type PlanResolver interface {
	Resolve(ctx context.Context, plan *industry.Plan) (*services.ResolvedReport, error)
}

// ReportStore caches resolved reports by plan key
type ReportStore interface {
	Get(key string) (*services.ResolvedReport, bool)
	Put(key string, report *services.ResolvedReport)
}

// GetPlanReportQuery resolves a stored plan. A cached report younger than
// the cache TTL is returned unless Refresh is set.
type GetPlanReportQuery struct {
	UserID   string
	PlanName string
	Refresh  bool
}

// GetPlanReportResponse carries the report and whether it came from cache
type GetPlanReportResponse struct {
	Report *services.ResolvedReport
	Cached bool
}

// GetPlanReportHandler handles the GetPlanReport query
type GetPlanReportHandler struct {
	plans    industry.PlanRepository
	resolver PlanResolver
	cache    ReportStore
}

// NewGetPlanReportHandler creates a new GetPlanReportHandler
func NewGetPlanReportHandler(plans industry.PlanRepository, resolver PlanResolver, cache ReportStore) *GetPlanReportHandler {
	return &GetPlanReportHandler{plans: plans, resolver: resolver, cache: cache}
}

// Handle executes the GetPlanReport query
func (h *GetPlanReportHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetPlanReportQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetPlanReportQuery")
	}

	plan, err := h.plans.FindByName(ctx, query.UserID, query.PlanName)
	if err != nil {
		return nil, err
	}

	if !query.Refresh {
		if report, hit := h.cache.Get(plan.Key()); hit {
			return &GetPlanReportResponse{Report: report, Cached: true}, nil
		}
	}

	report, err := h.resolver.Resolve(ctx, plan)
	if err != nil {
		return nil, err
	}
	h.cache.Put(plan.Key(), report)

	common.LoggerFromContext(ctx).Log("DEBUG", "Plan report refreshed", map[string]interface{}{
		"plan":    plan.Name,
		"user":    plan.UserID,
		"refresh": query.Refresh,
	})
	return &GetPlanReportResponse{Report: report}, nil
}
