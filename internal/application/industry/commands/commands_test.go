package commands_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AraragiEro/kahuna-bot/internal/application/industry/commands"
	"github.com/AraragiEro/kahuna-bot/internal/application/industry/services"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
	"github.com/AraragiEro/kahuna-bot/test/helpers"
)

const (
	widget  industry.TypeID = 1000
	gadget  industry.TypeID = 1100
	athanor int64           = 1001
)

func newFixture() *helpers.IndustryFixture {
	f := helpers.NewIndustryFixture()
	f.AddItem(industry.ItemInfo{TypeID: 34, Name: "Tritanium", GroupName: "Mineral"})
	f.AddItem(industry.ItemInfo{TypeID: widget, Name: "Widget", CategoryName: "Module"})
	f.AddItem(industry.ItemInfo{TypeID: gadget, Name: "Gadget", CategoryName: "Module"})
	f.AddBlueprint(industry.BlueprintSpec{
		BlueprintTypeID: 2000,
		BlueprintName:   "Widget Blueprint",
		ProductTypeID:   widget,
		Materials:       []industry.Material{{TypeID: 34, Quantity: 10}},
		ProductionTime:  3600,
	})
	f.AddStructure(athanor, "Athanor A", industry.StructureAthanor, 30000142, 0, 0)
	return f
}

func cachedReport(cache *services.ReportCache, key string) bool {
	_, hit := cache.Get(key)
	return hit
}

func createPlan(t *testing.T, f *helpers.IndustryFixture, name string) *industry.Plan {
	t.Helper()
	handler := commands.NewCreatePlanHandler(f.Plans, f.Matchers, 0, f.Clock)
	resp, err := handler.Handle(context.Background(), &commands.CreatePlanCommand{
		UserID:                 f.UserID,
		Name:                   name,
		BlueprintMatcher:       helpers.FixtureBlueprintMatcher,
		StructureMatcher:       helpers.FixtureStructureMatcher,
		ProductionBlockMatcher: helpers.FixtureProductionBlockMatcher,
	})
	require.NoError(t, err)
	return resp.(*commands.CreatePlanResponse).Plan
}

func TestCreatePlan(t *testing.T) {
	// Arrange
	f := newFixture()

	// Act
	plan := createPlan(t, f, "caps")

	// Assert
	assert.Equal(t, "caps", plan.Name)
	assert.Empty(t, plan.Lines)
	assert.Equal(t, industry.DefaultCycleHours, plan.ManufacturingCycleHours)
	stored, err := f.Plans.FindByName(context.Background(), f.UserID, "caps")
	require.NoError(t, err)
	assert.Equal(t, helpers.FixtureStructureMatcher, stored.StructureMatcher)
}

func TestCreatePlan_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*commands.CreatePlanCommand)
		wantErr interface{}
	}{
		{
			name:    "duplicate name",
			mutate:  func(c *commands.CreatePlanCommand) { c.Name = "existing" },
			wantErr: &industry.ErrPlanExists{},
		},
		{
			name:    "unknown matcher",
			mutate:  func(c *commands.CreatePlanCommand) { c.StructureMatcher = "missing" },
			wantErr: &industry.ErrMatcherNotFound{},
		},
		{
			name:    "matcher of the wrong kind",
			mutate:  func(c *commands.CreatePlanCommand) { c.StructureMatcher = helpers.FixtureBlueprintMatcher },
			wantErr: &industry.ErrMatcherKindMismatch{},
		},
		{
			name:    "unset matcher",
			mutate:  func(c *commands.CreatePlanCommand) { c.ProductionBlockMatcher = "" },
			wantErr: &shared.PolicyUnsetError{},
		},
		{
			name:    "empty name",
			mutate:  func(c *commands.CreatePlanCommand) { c.Name = " " },
			wantErr: &shared.ValidationError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture()
			createPlan(t, f, "existing")
			cmd := &commands.CreatePlanCommand{
				UserID:                 f.UserID,
				Name:                   "new",
				BlueprintMatcher:       helpers.FixtureBlueprintMatcher,
				StructureMatcher:       helpers.FixtureStructureMatcher,
				ProductionBlockMatcher: helpers.FixtureProductionBlockMatcher,
			}
			tt.mutate(cmd)

			// Act
			_, err := commands.NewCreatePlanHandler(f.Plans, f.Matchers, 0, f.Clock).Handle(context.Background(), cmd)

			// Assert
			require.Error(t, err)
			assert.IsType(t, tt.wantErr, err)
		})
	}
}

func TestCreatePlan_LimitPerUser(t *testing.T) {
	// Arrange
	f := newFixture()
	for i := 0; i < industry.MaxPlansPerUser; i++ {
		createPlan(t, f, fmt.Sprintf("plan-%d", i))
	}

	// Act
	_, err := commands.NewCreatePlanHandler(f.Plans, f.Matchers, 0, f.Clock).Handle(context.Background(), &commands.CreatePlanCommand{
		UserID:                 f.UserID,
		Name:                   "one-too-many",
		BlueprintMatcher:       helpers.FixtureBlueprintMatcher,
		StructureMatcher:       helpers.FixtureStructureMatcher,
		ProductionBlockMatcher: helpers.FixtureProductionBlockMatcher,
	})

	// Assert
	var limit *industry.ErrPlanLimitReached
	require.True(t, errors.As(err, &limit))
	assert.Equal(t, industry.MaxPlansPerUser, limit.Limit)
}

func TestAddPlanLine(t *testing.T) {
	// Arrange
	f := newFixture()
	plan := createPlan(t, f, "caps")
	cache := services.NewReportCache(0, f.Clock)
	cache.Put(plan.Key(), &services.ResolvedReport{})
	handler := commands.NewAddPlanLineHandler(f.Plans, f.Catalog(), cache, f.Clock)

	// Act
	resp, err := handler.Handle(context.Background(), &commands.AddPlanLineCommand{
		UserID: f.UserID, PlanName: "caps", Product: "Widget", Quantity: 10,
	})

	// Assert
	require.NoError(t, err)
	updated := resp.(*commands.PlanResponse).Plan
	assert.Equal(t, []industry.DemandLine{{Product: "Widget", TypeID: widget, Quantity: 10}}, updated.Lines)
	assert.False(t, cachedReport(cache, plan.Key()), "a changed plan drops its cached report")
}

func TestAddPlanLine_Rejections(t *testing.T) {
	f := newFixture()
	createPlan(t, f, "caps")
	handler := commands.NewAddPlanLineHandler(f.Plans, f.Catalog(), services.NewReportCache(0, nil), f.Clock)

	_, err := handler.Handle(context.Background(), &commands.AddPlanLineCommand{UserID: f.UserID, PlanName: "caps", Product: "Nothing", Quantity: 1})
	var unknown *industry.ErrUnknownItem
	assert.True(t, errors.As(err, &unknown))

	_, err = handler.Handle(context.Background(), &commands.AddPlanLineCommand{UserID: f.UserID, PlanName: "caps", Product: "Widget", Quantity: 0})
	var quantity *industry.ErrInvalidQuantity
	assert.True(t, errors.As(err, &quantity))

	_, err = handler.Handle(context.Background(), &commands.AddPlanLineCommand{UserID: f.UserID, PlanName: "other", Product: "Widget", Quantity: 1})
	var notFound *industry.ErrPlanNotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestDeleteAndReorderPlanLines(t *testing.T) {
	// Arrange
	f := newFixture()
	f.NewPlan("caps", f.Line(widget, 1), f.Line(gadget, 2), f.Line(widget, 3))
	cache := services.NewReportCache(0, nil)
	move := commands.NewChangePlanLineIndexHandler(f.Plans, cache, f.Clock)
	remove := commands.NewDeletePlanLinesHandler(f.Plans, cache, f.Clock)

	// Act
	_, err := move.Handle(context.Background(), &commands.ChangePlanLineIndexCommand{UserID: f.UserID, PlanName: "caps", From: 3, To: 1})
	require.NoError(t, err)
	resp, err := remove.Handle(context.Background(), &commands.DeletePlanLinesCommand{UserID: f.UserID, PlanName: "caps", Indexes: []int{2}})

	// Assert
	require.NoError(t, err)
	lines := resp.(*commands.PlanResponse).Plan.Lines
	require.Len(t, lines, 2)
	assert.Equal(t, int64(3), lines[0].Quantity)
	assert.Equal(t, int64(2), lines[1].Quantity)

	_, err = remove.Handle(context.Background(), &commands.DeletePlanLinesCommand{UserID: f.UserID, PlanName: "caps", Indexes: []int{1, 3}})
	var outOfRange *industry.ErrLineIndexOutOfRange
	require.True(t, errors.As(err, &outOfRange))
	assert.Equal(t, 3, outOfRange.Index)
	stored, _ := f.Plans.FindByName(context.Background(), f.UserID, "caps")
	assert.Len(t, stored.Lines, 2, "a rejected delete removes nothing")
}

func TestSetPlanCycleTime(t *testing.T) {
	// Arrange
	f := newFixture()
	createPlan(t, f, "caps")
	handler := commands.NewSetPlanCycleTimeHandler(f.Plans, services.NewReportCache(0, nil), f.Clock)

	// Act
	resp, err := handler.Handle(context.Background(), &commands.SetPlanCycleTimeCommand{UserID: f.UserID, PlanName: "caps", Activity: "reac", Hours: 12})

	// Assert
	require.NoError(t, err)
	plan := resp.(*commands.PlanResponse).Plan
	assert.Equal(t, 12, plan.ReactionCycleHours)
	assert.Equal(t, industry.DefaultCycleHours, plan.ManufacturingCycleHours)

	_, err = handler.Handle(context.Background(), &commands.SetPlanCycleTimeCommand{UserID: f.UserID, PlanName: "caps", Activity: "invention", Hours: 12})
	var input *shared.UserInputError
	assert.True(t, errors.As(err, &input))

	_, err = handler.Handle(context.Background(), &commands.SetPlanCycleTimeCommand{UserID: f.UserID, PlanName: "caps", Activity: "manu", Hours: 0})
	var validation *shared.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestSetContainerVisibility(t *testing.T) {
	// Arrange
	f := newFixture()
	createPlan(t, f, "caps")
	handler := commands.NewSetContainerVisibilityHandler(f.Plans, services.NewReportCache(0, nil), f.Clock)
	hide := &commands.SetContainerVisibilityCommand{UserID: f.UserID, PlanName: "caps", LocationID: 6001, Hidden: true}
	show := &commands.SetContainerVisibilityCommand{UserID: f.UserID, PlanName: "caps", LocationID: 6001}

	// Act
	resp, err := handler.Handle(context.Background(), hide)
	require.NoError(t, err)
	hidden := resp.(*commands.PlanResponse).Plan
	resp, err = handler.Handle(context.Background(), show)
	require.NoError(t, err)
	shown := resp.(*commands.PlanResponse).Plan

	// Assert
	assert.True(t, hidden.IsHidden(6001))
	assert.False(t, shown.IsHidden(6001))

	_, err = handler.Handle(context.Background(), show)
	var input *shared.UserInputError
	assert.True(t, errors.As(err, &input), "showing a visible container is an error")
}

func TestDeletePlan(t *testing.T) {
	// Arrange
	f := newFixture()
	plan := createPlan(t, f, "caps")
	cache := services.NewReportCache(0, nil)
	cache.Put(plan.Key(), &services.ResolvedReport{})
	handler := commands.NewDeletePlanHandler(f.Plans, cache)

	// Act
	_, err := handler.Handle(context.Background(), &commands.DeletePlanCommand{UserID: f.UserID, Name: "caps"})

	// Assert
	require.NoError(t, err)
	assert.False(t, cachedReport(cache, plan.Key()))
	_, err = f.Plans.FindByName(context.Background(), f.UserID, "caps")
	var notFound *industry.ErrPlanNotFound
	assert.True(t, errors.As(err, &notFound))

	_, err = handler.Handle(context.Background(), &commands.DeletePlanCommand{UserID: f.UserID, Name: "caps"})
	assert.True(t, errors.As(err, &notFound))
}

func TestHandlers_RejectForeignRequests(t *testing.T) {
	f := newFixture()
	_, err := commands.NewDeletePlanHandler(f.Plans, services.NewReportCache(0, nil)).Handle(context.Background(), &commands.CreatePlanCommand{})
	assert.EqualError(t, err, "invalid request type: expected *DeletePlanCommand")
}
