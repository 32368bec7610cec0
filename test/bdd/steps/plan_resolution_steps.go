package steps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/AraragiEro/kahuna-bot/internal/application/industry/services"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
	"github.com/AraragiEro/kahuna-bot/test/helpers"
	"github.com/cucumber/godog"
)

var structureTypes = map[string]industry.TypeID{
	"Raitaru": industry.StructureRaitaru,
	"Azbel":   industry.StructureAzbel,
	"Sotiyo":  industry.StructureSotiyo,
	"Athanor": industry.StructureAthanor,
	"Tatara":  industry.StructureTatara,
}

type planResolutionContext struct {
	world      *helpers.IndustryFixture
	plans      map[string]*industry.Plan
	resolution *services.Resolution
	resolveErr error
}

func (ctx *planResolutionContext) reset() {
	ctx.world = helpers.NewIndustryFixture()
	ctx.plans = make(map[string]*industry.Plan)
	ctx.resolution = nil
	ctx.resolveErr = nil
}

func (ctx *planResolutionContext) typeOf(name string) (industry.TypeID, error) {
	item, ok := ctx.world.Catalog().ItemByName(name)
	if !ok {
		return 0, fmt.Errorf("item %q is not part of the world", name)
	}
	return item.TypeID, nil
}

func (ctx *planResolutionContext) node(name string) (*services.ResolvedNode, error) {
	if ctx.resolveErr != nil {
		return nil, fmt.Errorf("resolution failed: %w", ctx.resolveErr)
	}
	if ctx.resolution == nil {
		return nil, fmt.Errorf("no plan has been resolved")
	}
	typeID, err := ctx.typeOf(name)
	if err != nil {
		return nil, err
	}
	node, ok := ctx.resolution.Node(typeID)
	if !ok {
		return nil, fmt.Errorf("%s is not part of the resolution", name)
	}
	return node, nil
}

// ============================================================================
// Setup Steps
// ============================================================================

func (ctx *planResolutionContext) anIndustryWorldWithItems(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header
		}
		typeID, err := strconv.ParseInt(getCellValueFromTable(table, row, "type_id"), 10, 64)
		if err != nil {
			return err
		}
		ctx.world.AddItem(industry.ItemInfo{
			TypeID:       industry.TypeID(typeID),
			Name:         getCellValueFromTable(table, row, "name"),
			GroupName:    getCellValueFromTable(table, row, "group"),
			CategoryName: getCellValueFromTable(table, row, "category"),
		})
	}
	return nil
}

// theBlueprints reads materials as "Name:qty, Name:qty"
func (ctx *planResolutionContext) theBlueprints(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header
		}
		product, err := ctx.typeOf(getCellValueFromTable(table, row, "product"))
		if err != nil {
			return err
		}
		var nums [4]int64
		for j, column := range []string{"blueprint", "yield", "max_runs", "seconds"} {
			nums[j], err = strconv.ParseInt(getCellValueFromTable(table, row, column), 10, 64)
			if err != nil {
				return fmt.Errorf("column %s: %w", column, err)
			}
		}

		var materials []industry.Material
		for _, part := range strings.Split(getCellValueFromTable(table, row, "materials"), ",") {
			name, qty, ok := strings.Cut(strings.TrimSpace(part), ":")
			if !ok {
				return fmt.Errorf("malformed material %q", part)
			}
			typeID, err := ctx.typeOf(name)
			if err != nil {
				return err
			}
			quantity, err := strconv.ParseInt(qty, 10, 64)
			if err != nil {
				return err
			}
			materials = append(materials, industry.Material{TypeID: typeID, Quantity: quantity})
		}

		ctx.world.AddBlueprint(industry.BlueprintSpec{
			BlueprintTypeID:    industry.TypeID(nums[0]),
			BlueprintName:      ctx.world.Catalog().Name(product) + " Blueprint",
			ProductTypeID:      product,
			ProductQuantity:    nums[1],
			MaxProductionLimit: nums[2],
			ProductionTime:     nums[3],
			Materials:          materials,
		})
	}
	return nil
}

func (ctx *planResolutionContext) aStructureBuildsCategory(kind string, id, systemID int64, category string) error {
	typeID, ok := structureTypes[kind]
	if !ok {
		return fmt.Errorf("unknown structure type %q", kind)
	}
	ctx.world.AddStructure(id, kind+" "+strconv.FormatInt(id, 10), typeID, systemID, 0, 0)
	ctx.world.AssignStructure(industry.RuleKeyCategory, category, id)
	return nil
}

func (ctx *planResolutionContext) aHangarInStructure(kind string, locationID, structureID int64) error {
	tag := industry.TagManufacturing
	switch kind {
	case "manufacturing hangar":
	case "reaction hangar":
		tag = industry.TagReaction
	case "blueprint library":
		tag = industry.TagBlueprint
	default:
		return fmt.Errorf("unknown container kind %q", kind)
	}
	ctx.world.AddContainer(locationID, structureID, tag)
	return nil
}

func (ctx *planResolutionContext) productionOfCategoryIsBlocked(category string) error {
	ctx.world.BlockProduction(industry.RuleKeyCategory, category)
	return nil
}

func (ctx *planResolutionContext) itemsAreStoredInLocation(quantity int64, name string, locationID int64) error {
	typeID, err := ctx.typeOf(name)
	if err != nil {
		return err
	}
	ctx.world.AddAsset(typeID, locationID, quantity)
	return nil
}

func (ctx *planResolutionContext) aBlueprintCopyInLocation(itemID int64, name string, runs, locationID int64) error {
	product, err := ctx.typeOf(name)
	if err != nil {
		return err
	}
	spec, ok := ctx.world.Catalog().Blueprint(product)
	if !ok {
		return fmt.Errorf("%s has no blueprint", name)
	}
	ctx.world.AddBlueprintCopy(itemID, spec.BlueprintTypeID, locationID, runs, 10, 20)
	return nil
}

func (ctx *planResolutionContext) theMarketPricesAre(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header
		}
		typeID, err := ctx.typeOf(getCellValueFromTable(table, row, "item"))
		if err != nil {
			return err
		}
		var prices [3]float64
		for j, column := range []string{"max_buy", "min_sell", "adjusted"} {
			prices[j], err = strconv.ParseFloat(getCellValueFromTable(table, row, column), 64)
			if err != nil {
				return fmt.Errorf("column %s: %w", column, err)
			}
		}
		ctx.world.SetPrice(typeID, prices[0], prices[1], prices[2])
	}
	return nil
}

func (ctx *planResolutionContext) systemHasManufacturingCostIndex(systemID int64, index float64) error {
	ctx.world.Market.Indexes[systemID] = industry.CostIndex{SolarSystemID: systemID, Manufacturing: index}
	return nil
}

func (ctx *planResolutionContext) aPlanRequesting(name string, table *godog.Table) error {
	var lines []industry.DemandLine
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header
		}
		typeID, err := ctx.typeOf(getCellValueFromTable(table, row, "product"))
		if err != nil {
			return err
		}
		quantity, err := strconv.ParseInt(getCellValueFromTable(table, row, "quantity"), 10, 64)
		if err != nil {
			return err
		}
		lines = append(lines, ctx.world.Line(typeID, quantity))
	}
	ctx.plans[name] = ctx.world.NewPlan(name, lines...)
	return nil
}

func (ctx *planResolutionContext) planHidesLocation(name string, locationID int64) error {
	plan, ok := ctx.plans[name]
	if !ok {
		return fmt.Errorf("plan %q not found", name)
	}
	plan.HideContainer(locationID)
	return nil
}

// ============================================================================
// Action Steps
// ============================================================================

func (ctx *planResolutionContext) iResolvePlan(name string) error {
	plan, ok := ctx.plans[name]
	if !ok {
		return fmt.Errorf("plan %q not found", name)
	}
	ctx.resolution, ctx.resolveErr = ctx.world.NewResolver().Run(context.Background(), plan)
	return nil
}

// ============================================================================
// Assertion Steps
// ============================================================================

func (ctx *planResolutionContext) shouldBeBuiltInRuns(name, expected string) error {
	node, err := ctx.node(name)
	if err != nil {
		return err
	}
	runs := make([]string, 0, len(node.WorkList))
	for _, unit := range node.WorkList {
		runs = append(runs, strconv.FormatInt(unit.Runs, 10))
	}
	if got := strings.Join(runs, ","); got != expected {
		return fmt.Errorf("expected %s runs %q, got %q", name, expected, got)
	}
	return nil
}

func (ctx *planResolutionContext) shouldNeedInTotalAndAfterStock(name string, total, actual int64) error {
	node, err := ctx.node(name)
	if err != nil {
		return err
	}
	if node.TotalQuantity != total || node.ActualQuantity != actual {
		return fmt.Errorf("expected %s total %d and actual %d, got total %d and actual %d",
			name, total, actual, node.TotalQuantity, node.ActualQuantity)
	}
	return nil
}

func (ctx *planResolutionContext) shouldBeARawMaterial(name string) error {
	node, err := ctx.node(name)
	if err != nil {
		return err
	}
	if !node.IsRawMaterial || len(node.WorkList) != 0 {
		return fmt.Errorf("expected %s to be bought, got %d work units", name, len(node.WorkList))
	}
	return nil
}

func (ctx *planResolutionContext) shouldSitAtDepth(name string, depth int) error {
	node, err := ctx.node(name)
	if err != nil {
		return err
	}
	if node.Depth != depth {
		return fmt.Errorf("expected %s at depth %d, got %d", name, depth, node.Depth)
	}
	return nil
}

func (ctx *planResolutionContext) everyItemShouldSitAboveItsInputs() error {
	if ctx.resolveErr != nil {
		return fmt.Errorf("resolution failed: %w", ctx.resolveErr)
	}
	graph := ctx.resolution.Graph
	for _, n := range graph.Nodes() {
		for _, e := range graph.OutEdges(n.TypeID) {
			parent, _ := graph.Node(e.Parent)
			child, _ := graph.Node(e.Child)
			if parent.Depth <= child.Depth {
				return fmt.Errorf("edge %s -> %s: depth %d is not above %d", e.Parent, e.Child, parent.Depth, child.Depth)
			}
		}
	}
	return nil
}

func (ctx *planResolutionContext) shouldBeBuiltFromACopyInOneJob(name string, runs int64) error {
	node, err := ctx.node(name)
	if err != nil {
		return err
	}
	if len(node.WorkList) != 1 {
		return fmt.Errorf("expected one job for %s, got %d", name, len(node.WorkList))
	}
	unit := node.WorkList[0]
	if unit.Source != industry.SourceCopy || unit.Synthetic || unit.Runs != runs {
		return fmt.Errorf("expected a %d-run copy job, got %d runs from %s", runs, unit.Runs, unit.Source)
	}
	return nil
}

func (ctx *planResolutionContext) theMaterialCostShouldBe(expected float64) error {
	if ctx.resolveErr != nil {
		return fmt.Errorf("resolution failed: %w", ctx.resolveErr)
	}
	return compareISK("material cost", expected, ctx.resolution.MaterialCost())
}

func (ctx *planResolutionContext) theEIVCostShouldBe(expected float64) error {
	if ctx.resolveErr != nil {
		return fmt.Errorf("resolution failed: %w", ctx.resolveErr)
	}
	return compareISK("EIV cost", expected, ctx.resolution.EIVCost())
}

func (ctx *planResolutionContext) theResolutionShouldFailForMissingContainers() error {
	var noContainers *industry.ErrNoProductionContainers
	if !errors.As(ctx.resolveErr, &noContainers) {
		return fmt.Errorf("expected no production containers error, got %v", ctx.resolveErr)
	}
	return nil
}

func (ctx *planResolutionContext) theResolutionShouldFailWithUnsetPolicy(policy string) error {
	var policyErr *shared.PolicyUnsetError
	if !errors.As(ctx.resolveErr, &policyErr) {
		return fmt.Errorf("expected unset policy error, got %v", ctx.resolveErr)
	}
	if policyErr.Policy != policy {
		return fmt.Errorf("expected unset %s policy, got %s", policy, policyErr.Policy)
	}
	return nil
}

func compareISK(label string, expected, actual float64) error {
	if math.Abs(expected-actual) > 1e-6 {
		return fmt.Errorf("expected %s %.2f, got %.6f", label, expected, actual)
	}
	return nil
}

// InitializePlanResolutionScenario registers the resolver steps
func InitializePlanResolutionScenario(sc *godog.ScenarioContext) {
	ctx := &planResolutionContext{}

	sc.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, nil
	})

	sc.Step(`^an industry world with items:$`, ctx.anIndustryWorldWithItems)
	sc.Step(`^the blueprints:$`, ctx.theBlueprints)
	sc.Step(`^an? (\w+) (\d+) in system (\d+) builds category "([^"]*)"$`, ctx.aStructureBuildsCategory)
	sc.Step(`^an? (manufacturing hangar|reaction hangar|blueprint library) (\d+) in structure (\d+)$`, ctx.aHangarInStructure)
	sc.Step(`^production of category "([^"]*)" is blocked$`, ctx.productionOfCategoryIsBlocked)
	sc.Step(`^(\d+) "([^"]*)" are stored in location (\d+)$`, ctx.itemsAreStoredInLocation)
	sc.Step(`^a blueprint copy (\d+) of "([^"]*)" with (\d+) runs in location (\d+)$`, ctx.aBlueprintCopyInLocation)
	sc.Step(`^the market prices are:$`, ctx.theMarketPricesAre)
	sc.Step(`^system (\d+) has a manufacturing cost index of ([\d.]+)$`, ctx.systemHasManufacturingCostIndex)
	sc.Step(`^a plan "([^"]*)" requesting:$`, ctx.aPlanRequesting)
	sc.Step(`^plan "([^"]*)" hides location (\d+)$`, ctx.planHidesLocation)

	sc.Step(`^I resolve plan "([^"]*)"$`, ctx.iResolvePlan)

	sc.Step(`^"([^"]*)" should be built in runs "([^"]*)"$`, ctx.shouldBeBuiltInRuns)
	sc.Step(`^"([^"]*)" should need (\d+) in total and (-?\d+) after stock$`, ctx.shouldNeedInTotalAndAfterStock)
	sc.Step(`^"([^"]*)" should be a raw material$`, ctx.shouldBeARawMaterial)
	sc.Step(`^"([^"]*)" should sit at depth (\d+)$`, ctx.shouldSitAtDepth)
	sc.Step(`^every item should sit above its inputs$`, ctx.everyItemShouldSitAboveItsInputs)
	sc.Step(`^"([^"]*)" should be built from a blueprint copy in one job of (\d+) runs$`, ctx.shouldBeBuiltFromACopyInOneJob)
	sc.Step(`^the material cost should be ([\d.]+)$`, ctx.theMaterialCostShouldBe)
	sc.Step(`^the EIV cost should be ([\d.]+)$`, ctx.theEIVCostShouldBe)
	sc.Step(`^the resolution should fail because no production containers are usable$`, ctx.theResolutionShouldFailForMissingContainers)
	sc.Step(`^the resolution should fail with an unset "([^"]*)" policy$`, ctx.theResolutionShouldFailWithUnsetPolicy)
}
