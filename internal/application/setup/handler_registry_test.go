package setup_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AraragiEro/kahuna-bot/internal/application/industry/commands"
	"github.com/AraragiEro/kahuna-bot/internal/application/industry/queries"
	"github.com/AraragiEro/kahuna-bot/internal/application/setup"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/test/helpers"
)

const (
	tritanium industry.TypeID = 34
	widget    industry.TypeID = 1000
	athanorID int64           = 1035
)

func newRegistry(t *testing.T) (*setup.HandlerRegistry, *helpers.IndustryFixture) {
	t.Helper()
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
	f.AddStructure(athanorID, "Athanor A", industry.StructureAthanor, 30000142, 0, 0)
	f.AssignStructure(industry.RuleKeyCategory, "Module", athanorID)
	f.AddContainer(6001, athanorID, industry.TagManufacturing)

	repos := setup.Repositories{
		Plans:      f.Plans,
		Matchers:   f.Matchers,
		Structures: f.Structures,
		Inventory:  f.Inventory,
		Jobs:       f.Jobs,
		Characters: f.Characters,
		Market:     f.Market,
	}
	settings := setup.Settings{ReportCacheTTL: time.Hour, Skills: helpers.NoSkillBonus}
	return setup.NewHandlerRegistry(f.Catalog(), repos, settings, f.Clock), f
}

func TestHandlerRegistry_PlanLifecycleThroughMediator(t *testing.T) {
	// Arrange
	registry, f := newRegistry(t)
	m, err := registry.CreateConfiguredMediator()
	require.NoError(t, err)
	ctx := context.Background()

	// Act
	_, err = m.Send(ctx, &commands.CreatePlanCommand{
		UserID:                 f.UserID,
		Name:                   "main",
		BlueprintMatcher:       helpers.FixtureBlueprintMatcher,
		StructureMatcher:       helpers.FixtureStructureMatcher,
		ProductionBlockMatcher: helpers.FixtureProductionBlockMatcher,
	})
	require.NoError(t, err)
	_, err = m.Send(ctx, &commands.AddPlanLineCommand{UserID: f.UserID, PlanName: "main", Product: "Widget", Quantity: 10})
	require.NoError(t, err)

	first, err := m.Send(ctx, &queries.GetPlanReportQuery{UserID: f.UserID, PlanName: "main"})
	require.NoError(t, err)
	second, err := m.Send(ctx, &queries.GetPlanReportQuery{UserID: f.UserID, PlanName: "main"})
	require.NoError(t, err)

	// Assert
	assert.False(t, first.(*queries.GetPlanReportResponse).Cached)
	assert.True(t, second.(*queries.GetPlanReportResponse).Cached)
	assert.Same(t, first.(*queries.GetPlanReportResponse).Report, second.(*queries.GetPlanReportResponse).Report)
}

func TestHandlerRegistry_MutationInvalidatesCachedReport(t *testing.T) {
	// Arrange
	registry, f := newRegistry(t)
	m, err := registry.CreateConfiguredMediator()
	require.NoError(t, err)
	ctx := context.Background()
	f.NewPlan("main", f.Line(widget, 10))
	_, err = m.Send(ctx, &queries.GetPlanReportQuery{UserID: f.UserID, PlanName: "main"})
	require.NoError(t, err)

	// Act
	_, err = m.Send(ctx, &commands.SetPlanCycleTimeCommand{UserID: f.UserID, PlanName: "main", Activity: "manu", Hours: 12})
	require.NoError(t, err)
	resp, err := m.Send(ctx, &queries.GetPlanReportQuery{UserID: f.UserID, PlanName: "main"})

	// Assert
	require.NoError(t, err)
	assert.False(t, resp.(*queries.GetPlanReportResponse).Cached)
}

func TestHandlerRegistry_RegisteringTwiceFails(t *testing.T) {
	// Arrange
	registry, _ := newRegistry(t)
	m, err := registry.CreateConfiguredMediator()
	require.NoError(t, err)

	// Act
	err = registry.RegisterReportHandlers(m)

	// Assert
	assert.Error(t, err)
}
