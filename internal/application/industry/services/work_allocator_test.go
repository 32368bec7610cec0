package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AraragiEro/kahuna-bot/internal/application/industry/services"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/test/helpers"
)

type fixedCycle int64

func (c fixedCycle) CycleSeconds(industry.ActivityKind) int64 { return int64(c) }

func newAllocator(t *testing.T, f *helpers.IndustryFixture, cycle int64) *services.WorkAllocator {
	t.Helper()
	structures, err := f.Structures.FindAll(context.Background())
	require.NoError(t, err)
	snapshot, err := industry.NewInventorySnapshot(industry.SnapshotInput{
		UserID:       f.UserID,
		Containers:   f.Inventory.Containers,
		CharacterIDs: []int64{helpers.FixtureCharacterID},
		Assets:       f.Inventory.Assets,
		Jobs:         f.Jobs.Jobs,
		Blueprints:   f.Inventory.Blueprints,
		Structures:   structures,
	})
	require.NoError(t, err)
	matchers := industry.PlanMatchers{
		Blueprint:       f.BlueprintMatcher,
		Structure:       f.StructureMatcher,
		ProductionBlock: f.ProductionBlockMatcher,
	}
	efficiency := services.NewEfficiencyResolver(f.Catalog(), matchers, snapshot, helpers.NoSkillBonus)
	return services.NewWorkAllocator(f.Catalog(), efficiency, snapshot, fixedCycle(cycle))
}

func TestWorkAllocator_CopiesBestEfficiencyFirstThenSmallestTail(t *testing.T) {
	// Arrange
	f := newWidgetFixture(24)
	f.AddBlueprintCopy(501, widgetBP, bpLocation, 10, 8, 0)
	f.AddBlueprintCopy(502, widgetBP, bpLocation, 10, 10, 0)
	f.AddBlueprintCopy(503, widgetBP, bpLocation, 4, 10, 0)
	f.AddBlueprintCopy(504, widgetBP, bpLocation, 20, 10, 0)
	allocator := newAllocator(t, f, 86400)

	// Act
	alloc, err := allocator.Allocate(widget, 27)

	// Assert
	require.NoError(t, err)
	// ME 10 copies by runs: 20 fits, 10 no longer fits, 4 fits; the 3 left
	// come from the smallest unused copy, ties keep the ME order
	assert.Equal(t, []int64{3, 4, 20}, runsOf(alloc.Units))
	assert.Equal(t, int64(502), alloc.Units[0].BlueprintItemID)
	assert.Equal(t, int64(503), alloc.Units[1].BlueprintItemID)
	assert.Equal(t, int64(504), alloc.Units[2].BlueprintItemID)
	assert.Equal(t, 4, alloc.BlueprintCount)
	assert.Equal(t, int64(44), alloc.BlueprintRuns)
	assert.False(t, alloc.HasOriginal)
	assert.Equal(t, int64(27), alloc.TotalRuns())
}

func TestWorkAllocator_CycleLengthBoundsOriginalJobs(t *testing.T) {
	// Arrange
	f := newWidgetFixture(100)
	f.AddBlueprintOriginal(701, widgetBP, bpLocation, 10, 20)
	f.AddBlueprintOriginal(702, widgetBP, bpLocation, 10, 20)
	f.AddBlueprintOriginal(703, widgetBP, bpLocation, 10, 20)
	allocator := newAllocator(t, f, 12*3600)

	// Act
	alloc, err := allocator.Allocate(widget, 30)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(12), alloc.MaxRunsPerCycle)
	assert.Equal(t, []int64{6, 12, 12}, runsOf(alloc.Units))
	for _, u := range alloc.Units {
		assert.Equal(t, industry.SourceOriginal, u.Source)
	}
	assert.Equal(t, 1, alloc.BlueprintCount)
	assert.True(t, alloc.HasOriginal)
}

func TestWorkAllocator_VoidHorizonCapsUnitSize(t *testing.T) {
	// Arrange
	f := newWidgetFixture(0)
	allocator := newAllocator(t, f, 86400).WithVoidHorizon(10 * 3600)

	// Act
	alloc, err := allocator.Allocate(widget, 25)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 10, 10}, runsOf(alloc.Units))
}

func TestWorkAllocator_NoNeedStillReportsBlueprints(t *testing.T) {
	// Arrange
	f := newWidgetFixture(24)
	f.AddBlueprintCopy(501, widgetBP, bpLocation, 10, 10, 0)
	allocator := newAllocator(t, f, 86400)

	// Act
	alloc, err := allocator.Allocate(widget, 0)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, alloc.Units)
	assert.Equal(t, 1, alloc.BlueprintCount)
	assert.Equal(t, int64(10), alloc.BlueprintRuns)
	assert.Equal(t, int64(24), alloc.MaxRunsPerCycle)
}

func TestWorkAllocator_BlueprintsInOtherStructuresAreIgnored(t *testing.T) {
	// Arrange
	f := newWidgetFixture(24)
	f.AddStructure(raitaruID, "Raitaru R", industry.StructureRaitaru, systemID, 0, 0)
	f.AddContainer(7002, raitaruID, industry.TagBlueprint)
	f.AddBlueprintCopy(501, widgetBP, 7002, 10, 10, 0)
	allocator := newAllocator(t, f, 86400)

	// Act
	alloc, err := allocator.Allocate(widget, 10)

	// Assert
	require.NoError(t, err)
	require.Len(t, alloc.Units, 1)
	assert.True(t, alloc.Units[0].Synthetic)
	assert.Equal(t, 0, alloc.BlueprintCount)
}
