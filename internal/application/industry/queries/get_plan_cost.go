package queries

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/AraragiEro/kahuna-bot/internal/application/industry/services"
	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// DefaultCostConcurrency bounds how many one-line plans are resolved at once
const DefaultCostConcurrency = 20

// CostProduct is one product to price
type CostProduct struct {
	Name     string
	Quantity int64
}

// GetPlanCostQuery prices each product on its own, as a one-line plan that
// uses the matchers and inventory scope of the named plan
type GetPlanCostQuery struct {
	UserID   string
	PlanName string
	Products []CostProduct
}

// CostRow is the cost of one product
type CostRow struct {
	TypeID       industry.TypeID `json:"type_id"`
	Name         string          `json:"name"`
	Quantity     int64           `json:"quantity"`
	MaterialCost float64         `json:"material_cost"`
	EIVCost      float64         `json:"eiv_cost"`
	TotalCost    float64         `json:"total_cost"`
	UnitCost     float64         `json:"unit_cost"`
}

// GetPlanCostResponse keeps the requested product order
type GetPlanCostResponse struct {
	Rows []CostRow
}

// GetPlanCostHandler handles the GetPlanCost query
type GetPlanCostHandler struct {
	plans       industry.PlanRepository
	resolver    PlanResolver
	catalog     *industry.Catalog
	concurrency int
}

// NewGetPlanCostHandler creates a new GetPlanCostHandler. A non-positive
// concurrency uses DefaultCostConcurrency.
func NewGetPlanCostHandler(plans industry.PlanRepository, resolver PlanResolver, catalog *industry.Catalog, concurrency int) *GetPlanCostHandler {
	if concurrency <= 0 {
		concurrency = DefaultCostConcurrency
	}
	return &GetPlanCostHandler{plans: plans, resolver: resolver, catalog: catalog, concurrency: concurrency}
}

// Handle executes the GetPlanCost query
func (h *GetPlanCostHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetPlanCostQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetPlanCostQuery")
	}

	base, err := h.plans.FindByName(ctx, query.UserID, query.PlanName)
	if err != nil {
		return nil, err
	}

	lines := make([]industry.DemandLine, 0, len(query.Products))
	for _, p := range query.Products {
		item, found := h.catalog.ItemByName(p.Name)
		if !found {
			return nil, &industry.ErrUnknownItem{Name: p.Name}
		}
		if p.Quantity <= 0 {
			return nil, &industry.ErrInvalidQuantity{Quantity: p.Quantity}
		}
		lines = append(lines, industry.DemandLine{Product: item.Name, TypeID: item.TypeID, Quantity: p.Quantity})
	}

	rows := make([]CostRow, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)

	for i, line := range lines {
		g.Go(func() error {
			report, err := h.resolver.Resolve(gctx, base.WithLines([]industry.DemandLine{line}))
			if err != nil {
				return fmt.Errorf("%s: %w", line.Product, err)
			}
			rows[i] = CostRow{
				TypeID:       line.TypeID,
				Name:         line.Product,
				Quantity:     line.Quantity,
				MaterialCost: report.Cost.Material,
				EIVCost:      report.Cost.EIV,
				TotalCost:    report.Cost.Total,
				UnitCost:     report.Cost.Total / float64(line.Quantity),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &GetPlanCostResponse{Rows: rows}, nil
}

// GetCostDetailQuery breaks down the cost of one unit of Product, resolved
// with the matchers and inventory scope of the named plan
type GetCostDetailQuery struct {
	UserID   string
	PlanName string
	Product  string
}

// GetCostDetailResponse carries the breakdown
type GetCostDetailResponse struct {
	TypeID   industry.TypeID
	Product  string
	Quantity int64
	Detail   *services.CostDetail
}

// GetCostDetailHandler handles the GetCostDetail query
type GetCostDetailHandler struct {
	plans    industry.PlanRepository
	resolver PlanResolver
	catalog  *industry.Catalog
}

// NewGetCostDetailHandler creates a new GetCostDetailHandler
func NewGetCostDetailHandler(plans industry.PlanRepository, resolver PlanResolver, catalog *industry.Catalog) *GetCostDetailHandler {
	return &GetCostDetailHandler{plans: plans, resolver: resolver, catalog: catalog}
}

// Handle executes the GetCostDetail query. The one-unit plan is never cached.
func (h *GetCostDetailHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetCostDetailQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetCostDetailQuery")
	}

	base, err := h.plans.FindByName(ctx, query.UserID, query.PlanName)
	if err != nil {
		return nil, err
	}
	item, found := h.catalog.ItemByName(query.Product)
	if !found {
		return nil, &industry.ErrUnknownItem{Name: query.Product}
	}

	line := industry.DemandLine{Product: item.Name, TypeID: item.TypeID, Quantity: 1}
	report, err := h.resolver.Resolve(ctx, base.WithLines([]industry.DemandLine{line}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", line.Product, err)
	}
	return &GetCostDetailResponse{
		TypeID:   item.TypeID,
		Product:  item.Name,
		Quantity: line.Quantity,
		Detail:   services.BuildCostDetail(report, h.catalog),
	}, nil
}
