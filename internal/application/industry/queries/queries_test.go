package queries_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AraragiEro/kahuna-bot/internal/application/industry/queries"
	"github.com/AraragiEro/kahuna-bot/internal/application/industry/services"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/test/helpers"
)

const (
	tritanium industry.TypeID = 34
	widget    industry.TypeID = 1000
	athanorID int64           = 1001
	systemID  int64           = 30000142
)

// newWorld builds a resolvable one-level world: a Widget run needs 10
// Tritanium and is built in the Athanor
func newWorld() *helpers.IndustryFixture {
	f := helpers.NewIndustryFixture()
	f.AddItem(industry.ItemInfo{TypeID: tritanium, Name: "Tritanium", GroupName: "Mineral", CategoryName: "Material"})
	f.AddItem(industry.ItemInfo{TypeID: widget, Name: "Widget", GroupName: "Widgets", CategoryName: "Module"})
	f.AddBlueprint(industry.BlueprintSpec{
		BlueprintTypeID:    2000,
		BlueprintName:      "Widget Blueprint",
		ProductTypeID:      widget,
		Materials:          []industry.Material{{TypeID: tritanium, Quantity: 10}},
		ProductionTime:     3600,
		MaxProductionLimit: 24,
	})
	f.AddStructure(athanorID, "Athanor A", industry.StructureAthanor, systemID, 0, 0)
	f.AssignStructure(industry.RuleKeyCategory, "Module", athanorID)
	f.AddContainer(6001, athanorID, industry.TagManufacturing)
	f.SetPrice(tritanium, 5, 6, 4)
	return f
}

// countingResolver counts resolutions passed through to a real resolver
type countingResolver struct {
	inner *services.Resolver
	calls int
}

func (r *countingResolver) Resolve(ctx context.Context, plan *industry.Plan) (*services.ResolvedReport, error) {
	r.calls++
	return r.inner.Resolve(ctx, plan)
}

func TestGetPlanReport_ServesFromCacheUntilRefresh(t *testing.T) {
	// Arrange
	f := newWorld()
	f.NewPlan("caps", f.Line(widget, 10))
	resolver := &countingResolver{inner: f.NewResolver()}
	handler := queries.NewGetPlanReportHandler(f.Plans, resolver, services.NewReportCache(0, f.Clock))
	query := &queries.GetPlanReportQuery{UserID: f.UserID, PlanName: "caps"}

	// Act
	first, err := handler.Handle(context.Background(), query)
	require.NoError(t, err)
	second, err := handler.Handle(context.Background(), query)
	require.NoError(t, err)
	refreshed, err := handler.Handle(context.Background(), &queries.GetPlanReportQuery{UserID: f.UserID, PlanName: "caps", Refresh: true})
	require.NoError(t, err)

	// Assert
	assert.False(t, first.(*queries.GetPlanReportResponse).Cached)
	assert.True(t, second.(*queries.GetPlanReportResponse).Cached)
	assert.Same(t, first.(*queries.GetPlanReportResponse).Report, second.(*queries.GetPlanReportResponse).Report)
	assert.False(t, refreshed.(*queries.GetPlanReportResponse).Cached)
	assert.Equal(t, 2, resolver.calls)
	assert.Equal(t, "caps", first.(*queries.GetPlanReportResponse).Report.PlanName)
}

func TestGetPlanReport_UnknownPlan(t *testing.T) {
	f := newWorld()
	handler := queries.NewGetPlanReportHandler(f.Plans, f.NewResolver(), services.NewReportCache(0, nil))

	_, err := handler.Handle(context.Background(), &queries.GetPlanReportQuery{UserID: f.UserID, PlanName: "nope"})

	var notFound *industry.ErrPlanNotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestGetPlanCost_PricesEachProductAlone(t *testing.T) {
	// Arrange
	f := newWorld()
	f.NewPlan("caps", f.Line(widget, 500))
	handler := queries.NewGetPlanCostHandler(f.Plans, f.NewResolver(), f.Catalog(), 2)

	// Act
	resp, err := handler.Handle(context.Background(), &queries.GetPlanCostQuery{
		UserID:   f.UserID,
		PlanName: "caps",
		Products: []queries.CostProduct{{Name: "Widget", Quantity: 100}, {Name: "Widget", Quantity: 10}, {Name: "Tritanium", Quantity: 3}},
	})

	// Assert
	require.NoError(t, err)
	rows := resp.(*queries.GetPlanCostResponse).Rows
	require.Len(t, rows, 3)

	assert.Equal(t, int64(100), rows[0].Quantity)
	assert.InDelta(t, 5000.0, rows[0].MaterialCost, 1e-6)
	assert.InDelta(t, 722.4, rows[0].EIVCost, 1e-6)
	assert.InDelta(t, 57.224, rows[0].UnitCost, 1e-6)

	assert.Equal(t, int64(10), rows[1].Quantity)
	assert.InDelta(t, 572.24, rows[1].TotalCost, 1e-6)

	assert.Equal(t, tritanium, rows[2].TypeID)
	assert.InDelta(t, 15.0, rows[2].TotalCost, 1e-6)
	assert.Zero(t, rows[2].EIVCost)
}

func TestGetPlanCost_UnknownProduct(t *testing.T) {
	f := newWorld()
	f.NewPlan("caps")
	handler := queries.NewGetPlanCostHandler(f.Plans, f.NewResolver(), f.Catalog(), 0)

	_, err := handler.Handle(context.Background(), &queries.GetPlanCostQuery{
		UserID: f.UserID, PlanName: "caps", Products: []queries.CostProduct{{Name: "Gizmo", Quantity: 1}},
	})

	var unknown *industry.ErrUnknownItem
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Gizmo", unknown.Name)
}

func TestGetCostDetail_PricesOneUnitOfTheProduct(t *testing.T) {
	// Arrange
	f := newWorld()
	f.NewPlan("caps", f.Line(widget, 100))
	resolver := &countingResolver{inner: f.NewResolver()}
	handler := queries.NewGetCostDetailHandler(f.Plans, resolver, f.Catalog())

	// Act
	resp, err := handler.Handle(context.Background(), &queries.GetCostDetailQuery{UserID: f.UserID, PlanName: "caps", Product: "Widget"})

	// Assert
	require.NoError(t, err)
	result := resp.(*queries.GetCostDetailResponse)
	assert.Equal(t, widget, result.TypeID)
	assert.Equal(t, "Widget", result.Product)
	assert.Equal(t, int64(1), result.Quantity)

	detail := result.Detail
	require.Len(t, detail.Materials, 1)
	assert.Equal(t, "Tritanium", detail.Materials[0].Name)
	// one run, not the 100 units stored on the plan
	assert.Equal(t, int64(10), detail.Materials[0].Quantity)
	assert.InDelta(t, 50.0, detail.Materials[0].Cost, 1e-6)
	assert.InDelta(t, 57.224, detail.Total, 1e-6)
	assert.InDelta(t, 7.224/57.224, detail.EIVShare, 1e-9)
	assert.Equal(t, 1, resolver.calls)

	stored, err := f.Plans.FindByName(context.Background(), f.UserID, "caps")
	require.NoError(t, err)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, int64(100), stored.Lines[0].Quantity)
}

func TestGetCostDetail_UnknownProduct(t *testing.T) {
	f := newWorld()
	f.NewPlan("caps")
	handler := queries.NewGetCostDetailHandler(f.Plans, f.NewResolver(), f.Catalog())

	_, err := handler.Handle(context.Background(), &queries.GetCostDetailQuery{UserID: f.UserID, PlanName: "caps", Product: "Gizmo"})

	var unknown *industry.ErrUnknownItem
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Gizmo", unknown.Name)
}

func TestListAndGetPlans(t *testing.T) {
	// Arrange
	f := newWorld()
	f.NewPlan("b", f.Line(widget, 1))
	f.NewPlan("a")

	// Act
	listed, err := queries.NewListPlansHandler(f.Plans).Handle(context.Background(), &queries.ListPlansQuery{UserID: f.UserID})
	require.NoError(t, err)
	got, err := queries.NewGetPlanHandler(f.Plans).Handle(context.Background(), &queries.GetPlanQuery{UserID: f.UserID, PlanName: "b"})
	require.NoError(t, err)

	// Assert
	plans := listed.(*queries.ListPlansResponse).Plans
	require.Len(t, plans, 2)
	assert.Equal(t, "a", plans[0].Name)
	assert.Equal(t, "b", plans[1].Name)
	assert.Len(t, got.(*queries.GetPlanResponse).Plan.Lines, 1)

	empty, err := queries.NewListPlansHandler(f.Plans).Handle(context.Background(), &queries.ListPlansQuery{UserID: "someone-else"})
	require.NoError(t, err)
	assert.Empty(t, empty.(*queries.ListPlansResponse).Plans)
}

func TestListMatchersAndStructures(t *testing.T) {
	f := newWorld()

	matchers, err := queries.NewListMatchersHandler(f.Matchers).Handle(context.Background(), &queries.ListMatchersQuery{UserID: f.UserID})
	require.NoError(t, err)
	structures, err := queries.NewListStructuresHandler(f.Structures).Handle(context.Background(), &queries.ListStructuresQuery{})
	require.NoError(t, err)

	names := []string{}
	for _, m := range matchers.(*queries.ListMatchersResponse).Matchers {
		names = append(names, m.MatcherName())
	}
	assert.Equal(t, []string{"bp-default", "pb-default", "st-default"}, names)
	require.Len(t, structures.(*queries.ListStructuresResponse).Structures, 1)
	assert.Equal(t, athanorID, structures.(*queries.ListStructuresResponse).Structures[0].ID)
}
