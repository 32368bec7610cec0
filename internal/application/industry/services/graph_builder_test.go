package services_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AraragiEro/kahuna-bot/internal/application/industry/services"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/test/helpers"
)

func TestGraphBuilder_SharedIntermediateKeepsOneEdgePerLine(t *testing.T) {
	// Arrange
	f := newWidgetFixture(100)
	addGadget(f)
	lines := []industry.DemandLine{f.Line(widget, 7), f.Line(gadget, 40)}

	// Act
	g, err := services.NewGraphBuilder(f.Catalog(), nil).Build(lines)

	// Assert
	require.NoError(t, err)
	in := g.InEdges(gadget)
	require.Len(t, in, 2)

	byParent := map[industry.TypeID]services.Edge{}
	for _, e := range in {
		byParent[e.Parent] = e
	}
	assert.Equal(t, 1, byParent[industry.RootTypeID].Index)
	assert.Equal(t, int64(40), byParent[industry.RootTypeID].Quantity)
	assert.Equal(t, 0, byParent[widget].Index)
	assert.Equal(t, int64(2), byParent[widget].Quantity)

	// Tritanium is reached from Widget (line 0) and from Gadget (lines 0 and 1)
	assert.Len(t, g.InEdges(tritanium), 3)
	assert.Equal(t, []industry.TypeID{tritanium}, g.Leaves())
}

func TestGraphBuilder_RootDepthExceedsEveryNode(t *testing.T) {
	// Arrange
	f := newWidgetFixture(100)
	addGadget(f)

	// Act
	g, err := services.NewGraphBuilder(f.Catalog(), nil).Build([]industry.DemandLine{f.Line(widget, 1)})

	// Assert
	require.NoError(t, err)
	for _, n := range g.Nodes() {
		if n.TypeID == industry.RootTypeID {
			continue
		}
		assert.Less(t, n.Depth, g.RootDepth())
		if n.IsRawMaterial {
			assert.Equal(t, 1, n.Depth)
		}
	}
}

func TestGraphBuilder_IntermediateSitsBelowItsLowestParent(t *testing.T) {
	// Arrange: Widget needs Gadget and a Part; Part needs Gadget too. Gadget's
	// own subtree is shallow but it must sit below Part.
	f := newWidgetFixture(100)
	addGadget(f)
	const part industry.TypeID = 1200
	f.AddItem(industry.ItemInfo{TypeID: part, Name: "Part", CategoryName: "Component"})
	f.AddBlueprint(industry.BlueprintSpec{
		BlueprintTypeID: 2200,
		BlueprintName:   "Part Blueprint",
		ProductTypeID:   part,
		Materials:       []industry.Material{{TypeID: gadget, Quantity: 1}},
		ProductionTime:  60,
	})
	f.Blueprints[0].Materials = append(f.Blueprints[0].Materials, industry.Material{TypeID: part, Quantity: 1})

	// Act
	g, err := services.NewGraphBuilder(f.Catalog(), nil).Build([]industry.DemandLine{f.Line(widget, 1)})

	// Assert
	require.NoError(t, err)
	depth := func(id industry.TypeID) int {
		n, ok := g.Node(id)
		require.True(t, ok)
		return n.Depth
	}
	assert.Equal(t, 1, depth(tritanium))
	assert.Equal(t, 2, depth(gadget))
	assert.Equal(t, 3, depth(part))
	assert.Equal(t, 4, depth(widget))
	assert.Equal(t, 5, g.RootDepth())
}

func TestGraphBuilder_CycleIsRejected(t *testing.T) {
	// Arrange
	f := newCycleFixture()

	// Act
	_, err := services.NewGraphBuilder(f.Catalog(), nil).Build([]industry.DemandLine{f.Line(widget, 1)})

	// Assert
	var cycle *industry.ErrCircularDependency
	require.True(t, errors.As(err, &cycle))
	assert.True(t, services.IsUserFacing(err))
}

func TestGraphBuilder_BlockedLineItemIsRaw(t *testing.T) {
	// Arrange
	f := newWidgetFixture(24)
	f.BlockProduction(industry.RuleKeyBlueprint, "Widget Blueprint")

	// Act
	g, err := services.NewGraphBuilder(f.Catalog(), f.ProductionBlockMatcher).Build([]industry.DemandLine{f.Line(widget, 5)})

	// Assert
	require.NoError(t, err)
	node, ok := g.Node(widget)
	require.True(t, ok)
	assert.True(t, node.IsRawMaterial)
	assert.Empty(t, g.OutEdges(widget))
	_, hasMineral := g.Node(tritanium)
	assert.False(t, hasMineral)
}

// newCycleFixture makes Widget and Gadget require each other
func newCycleFixture() *helpers.IndustryFixture {
	f := newWidgetFixture(24)
	f.Blueprints[0].Materials = []industry.Material{{TypeID: gadget, Quantity: 1}}
	f.AddItem(industry.ItemInfo{TypeID: gadget, Name: "Gadget", CategoryName: "Component"})
	f.AddBlueprint(industry.BlueprintSpec{
		BlueprintTypeID: gadgetBP,
		BlueprintName:   "Gadget Blueprint",
		ProductTypeID:   gadget,
		Materials:       []industry.Material{{TypeID: widget, Quantity: 1}},
		ProductionTime:  60,
	})
	return f
}
