package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AraragiEro/kahuna-bot/internal/application/industry/services"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

func materialRows(report *services.ResolvedReport, category services.MaterialCategory) []services.MaterialRow {
	for _, section := range report.Materials {
		if section.Category == category {
			return section.Rows
		}
	}
	return nil
}

func TestReportAssembler_MaterialDetailUsesThousandsSeparators(t *testing.T) {
	// Arrange
	f := newWidgetFixture(24)
	f.SetPrice(tritanium, 5, 6, 4)
	plan := f.NewPlan("a", f.Line(widget, 100))

	// Act
	report, err := f.NewResolver().Resolve(context.Background(), plan)

	// Assert
	require.NoError(t, err)
	require.Len(t, report.Materials, len(services.MaterialCategories))
	for i, section := range report.Materials {
		assert.Equal(t, services.MaterialCategories[i], section.Category)
	}
	rows := materialRows(report, services.CategoryMinerals)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "Tritanium", row.Name)
	assert.Equal(t, int64(1000), row.Missing)
	assert.Equal(t, int64(0), row.Redundant)
	assert.Equal(t, "0:1,000", row.Detail)
	assert.InDelta(t, 5000.0, row.BuyoutCost, 1e-9)
	assert.InDelta(t, 1000.0, row.SpreadCost, 1e-9)
	assert.InDelta(t, report.Cost.Material+report.Cost.EIV, report.Cost.Total, 1e-9)
}

func TestReportAssembler_WorkRowStatusPerIndex(t *testing.T) {
	// Arrange
	f := newWidgetFixture(24)
	f.AddAsset(tritanium, manuLocation, 350)
	plan := f.NewPlan("split", f.Line(widget, 30), f.Line(widget, 20))

	// Act
	report, err := f.NewResolver().Resolve(context.Background(), plan)

	// Assert
	require.NoError(t, err)
	require.Len(t, report.Work, 1)
	layer := report.Work[0]
	assert.Equal(t, 2, layer.Layer)
	require.Len(t, layer.Rows, 1)
	row := layer.Rows[0]
	assert.Equal(t, "M", row.Kind)
	assert.Equal(t, int64(50), row.Missing)
	assert.Equal(t, int64(50), row.ActualRuns)
	assert.Equal(t, "0", row.BlueprintRuns)
	assert.Equal(t, "0:O| 1:x", row.Status)

	minerals := materialRows(report, services.CategoryMinerals)
	require.Len(t, minerals, 1)
	assert.Equal(t, int64(150), minerals[0].Missing)
	assert.Equal(t, int64(350), minerals[0].Stock)
	assert.Equal(t, "1:150", minerals[0].Detail)
}

func TestReportAssembler_SurplusIsRedundant(t *testing.T) {
	// Arrange
	f := newWidgetFixture(24)
	f.AddAsset(tritanium, manuLocation, 10000)
	plan := f.NewPlan("surplus", f.Line(widget, 10))

	// Act
	report, err := f.NewResolver().Resolve(context.Background(), plan)

	// Assert
	require.NoError(t, err)
	row := materialRows(report, services.CategoryMinerals)[0]
	assert.Equal(t, int64(0), row.Missing)
	assert.Equal(t, int64(9900), row.Redundant)
	assert.Equal(t, "", row.Detail)
}

func TestReportAssembler_WorkflowCountsOwnedReadyJobs(t *testing.T) {
	// Arrange
	f := newWidgetFixture(24)
	f.AddAsset(tritanium, manuLocation, 10000)
	f.AddBlueprintCopy(501, widgetBP, bpLocation, 10, 10, 0)
	f.AddBlueprintCopy(502, widgetBP, bpLocation, 10, 10, 0)
	f.AddBlueprintCopy(503, widgetBP, bpLocation, 5, 10, 0)
	plan := f.NewPlan("flow", f.Line(widget, 30))

	// Act
	report, err := f.NewResolver().Resolve(context.Background(), plan)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []services.WorkflowRow{
		{TypeID: widget, Name: "Widget", Runs: 10, Count: 2},
		{TypeID: widget, Runs: 5, Count: 1},
	}, report.Workflow.Manufacturing)
	assert.Empty(t, report.Workflow.Reaction)

	// the 5 runs not covered by copies are a void unit and are left out
	require.Len(t, report.Work, 1)
	assert.Equal(t, 3, report.Work[0].Rows[0].BlueprintCount)
	assert.Equal(t, "25", report.Work[0].Rows[0].BlueprintRuns)
}

func TestReportAssembler_RootChildrenFoldIntoTopLayer(t *testing.T) {
	// Arrange
	f := newWidgetFixture(100)
	addGadget(f)
	plan := f.NewPlan("layers", f.Line(widget, 7), f.Line(gadget, 5))

	// Act
	report, err := f.NewResolver().Resolve(context.Background(), plan)

	// Assert
	require.NoError(t, err)
	// Gadget sits on layer 2 but is requested directly, so it joins Widget
	require.Len(t, report.Work, 1)
	assert.Equal(t, 3, report.Work[0].Layer)
	names := []string{}
	for _, row := range report.Work[0].Rows {
		names = append(names, row.Name)
	}
	assert.ElementsMatch(t, []string{"Widget", "Gadget"}, names)
}

func TestReportAssembler_OriginalsShowInfiniteRuns(t *testing.T) {
	// Arrange
	f := newWidgetFixture(24)
	f.AddBlueprintOriginal(700, widgetBP, bpLocation, 10, 20)
	f.AddBlueprintCopy(501, widgetBP, bpLocation, 3, 10, 0)
	plan := f.NewPlan("bpo", f.Line(widget, 10))

	// Act
	report, err := f.NewResolver().Resolve(context.Background(), plan)

	// Assert
	require.NoError(t, err)
	row := report.Work[0].Rows[0]
	assert.Equal(t, "3+inf", row.BlueprintRuns)
	assert.Equal(t, 2, row.BlueprintCount)
}

func TestReportAssembler_LogisticsMovesStockBetweenStructures(t *testing.T) {
	// Arrange
	f := newWidgetFixture(24)
	f.AddStructure(raitaruID, "Raitaru R", industry.StructureRaitaru, systemID, 0, 0)
	f.AddContainer(7001, raitaruID, industry.TagManufacturing)
	f.AddAsset(tritanium, manuLocation, 100)
	f.AddAsset(tritanium, 7001, 200)
	plan := f.NewPlan("haul", f.Line(widget, 24))

	// Act
	report, err := f.NewResolver().Resolve(context.Background(), plan)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []services.StructureQuantity{
		{StructureID: athanorID, StructureName: "Athanor A", TypeID: tritanium, Name: "Tritanium", Quantity: 240},
	}, report.Logistics.Need)
	assert.Len(t, report.Logistics.Supply, 2)
	assert.Equal(t, []services.TransportRow{
		{FromID: raitaruID, From: "Raitaru R", ToID: athanorID, To: "Athanor A", TypeID: tritanium, Name: "Tritanium", Quantity: 140},
	}, report.Logistics.Transport)
}
