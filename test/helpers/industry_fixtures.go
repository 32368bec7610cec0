package helpers

import (
	"context"
	"time"

	"github.com/AraragiEro/kahuna-bot/internal/application/industry/services"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

// Fixture names used for the default plan matchers
const (
	FixtureUserID                 = "user-1"
	FixtureBlueprintMatcher       = "bp-default"
	FixtureStructureMatcher       = "st-default"
	FixtureProductionBlockMatcher = "pb-default"
	FixtureCharacterID            = 9001
)

// NoSkillBonus resolves with skill multipliers of 1 so test arithmetic stays simple
var NoSkillBonus = industry.SkillProfile{ManufacturingTimeEff: 1, ReactionTimeEff: 1}

// IndustryFixture is an in-memory world for resolution tests: reference
// data, repositories and the default matchers of one user
type IndustryFixture struct {
	UserID     string
	Items      []industry.ItemInfo
	Blueprints []industry.BlueprintSpec

	Plans      *MockPlanRepository
	Matchers   *MockMatcherRepository
	Structures *MockStructureRepository
	Inventory  *MockInventoryRepository
	Jobs       *MockJobRepository
	Characters *MockCharacterRepository
	Market     *MockPriceRepository
	Clock      *shared.MockClock

	BlueprintMatcher       *industry.BlueprintMatcher
	StructureMatcher       *industry.StructureMatcher
	ProductionBlockMatcher *industry.ProductionBlockMatcher

	catalog *industry.Catalog
}

// NewIndustryFixture creates an empty world with the three default matchers saved
func NewIndustryFixture() *IndustryFixture {
	f := &IndustryFixture{
		UserID:     FixtureUserID,
		Plans:      NewMockPlanRepository(),
		Matchers:   NewMockMatcherRepository(),
		Structures: NewMockStructureRepository(),
		Inventory:  NewMockInventoryRepository(),
		Jobs:       &MockJobRepository{},
		Characters: &MockCharacterRepository{Characters: map[string][]int64{FixtureUserID: {FixtureCharacterID}}},
		Market:     NewMockPriceRepository(),
		Clock:      shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),

		BlueprintMatcher:       industry.NewBlueprintMatcher(FixtureBlueprintMatcher, FixtureUserID),
		StructureMatcher:       industry.NewStructureMatcher(FixtureStructureMatcher, FixtureUserID),
		ProductionBlockMatcher: industry.NewProductionBlockMatcher(FixtureProductionBlockMatcher, FixtureUserID),
	}
	ctx := context.Background()
	_ = f.Matchers.Save(ctx, f.BlueprintMatcher)
	_ = f.Matchers.Save(ctx, f.StructureMatcher)
	_ = f.Matchers.Save(ctx, f.ProductionBlockMatcher)
	return f
}

// AddItem registers an item's classification data
func (f *IndustryFixture) AddItem(item industry.ItemInfo) *IndustryFixture {
	f.Items = append(f.Items, item)
	f.catalog = nil
	return f
}

// AddBlueprint registers a blueprint, defaulting to one manufactured unit per run
func (f *IndustryFixture) AddBlueprint(spec industry.BlueprintSpec) *IndustryFixture {
	if spec.ProductQuantity == 0 {
		spec.ProductQuantity = 1
	}
	if spec.Activity == 0 {
		spec.Activity = industry.ActivityManufacturing
	}
	f.Blueprints = append(f.Blueprints, spec)
	f.catalog = nil
	return f
}

// Catalog builds (once) the catalog from the registered data
func (f *IndustryFixture) Catalog() *industry.Catalog {
	if f.catalog == nil {
		f.catalog = industry.NewCatalog(f.Items, f.Blueprints)
	}
	return f.catalog
}

// AddStructure saves a facility
func (f *IndustryFixture) AddStructure(id int64, name string, typeID industry.TypeID, solarSystemID int64, materialRig, timeRig int) *industry.Structure {
	st, err := industry.NewStructure(id, name, typeID, solarSystemID, materialRig, timeRig)
	if err != nil {
		panic(err)
	}
	_ = f.Structures.Save(context.Background(), st)
	return st
}

// AssignStructure adds a structure matcher rule
func (f *IndustryFixture) AssignStructure(key industry.RuleKey, name string, structureID int64) {
	_ = f.StructureMatcher.Rules.Set(key, name, structureID)
}

// BlockProduction adds a production-block matcher rule
func (f *IndustryFixture) BlockProduction(key industry.RuleKey, name string) {
	_ = f.ProductionBlockMatcher.Rules.Set(key, name, 1)
}

// SetDefaultEfficiency adds a blueprint matcher rule
func (f *IndustryFixture) SetDefaultEfficiency(key industry.RuleKey, name string, eff industry.BlueprintEfficiency) {
	_ = f.BlueprintMatcher.Rules.Set(key, name, eff)
}

// AddContainer registers a tagged storage location of the fixture user
func (f *IndustryFixture) AddContainer(locationID, structureID int64, tag string) {
	f.Inventory.Containers = append(f.Inventory.Containers, industry.Container{
		LocationID:  locationID,
		StructureID: structureID,
		UserID:      f.UserID,
		Tag:         tag,
		Name:        tag,
	})
}

// AddAsset puts stock into a location
func (f *IndustryFixture) AddAsset(typeID industry.TypeID, locationID, quantity int64) {
	f.Inventory.Assets = append(f.Inventory.Assets, industry.Asset{TypeID: typeID, LocationID: locationID, Quantity: quantity})
}

// AddBlueprintCopy stores a copy with runs left
func (f *IndustryFixture) AddBlueprintCopy(itemID int64, blueprintType industry.TypeID, locationID, runs int64, me, te int) {
	f.Inventory.Blueprints = append(f.Inventory.Blueprints, industry.BlueprintAsset{
		ItemID:             itemID,
		BlueprintTypeID:    blueprintType,
		LocationID:         locationID,
		Runs:               runs,
		Quantity:           -2,
		MaterialEfficiency: me,
		TimeEfficiency:     te,
	})
}

// AddBlueprintOriginal stores a singleton original
func (f *IndustryFixture) AddBlueprintOriginal(itemID int64, blueprintType industry.TypeID, locationID int64, me, te int) {
	f.Inventory.Blueprints = append(f.Inventory.Blueprints, industry.BlueprintAsset{
		ItemID:             itemID,
		BlueprintTypeID:    blueprintType,
		LocationID:         locationID,
		Runs:               -1,
		Quantity:           -1,
		MaterialEfficiency: me,
		TimeEfficiency:     te,
	})
}

// AddRunningJob registers a job started by the fixture character
func (f *IndustryFixture) AddRunningJob(jobID, blueprintItemID int64, product industry.TypeID, runs, outputLocationID int64) {
	f.Jobs.Jobs = append(f.Jobs.Jobs, industry.RunningJob{
		JobID:            jobID,
		InstallerID:      FixtureCharacterID,
		BlueprintItemID:  blueprintItemID,
		ProductTypeID:    product,
		Runs:             runs,
		OutputLocationID: outputLocationID,
	})
}

// SetPrice sets the market data of an item
func (f *IndustryFixture) SetPrice(typeID industry.TypeID, maxBuy, minSell, adjusted float64) {
	f.Market.Prices[typeID] = industry.MarketPrice{TypeID: typeID, MaxBuy: maxBuy, MinSell: minSell, AdjustedPrice: adjusted}
}

// NewPlan creates (and saves) a plan using the default matchers
func (f *IndustryFixture) NewPlan(name string, lines ...industry.DemandLine) *industry.Plan {
	plan, err := industry.NewPlan(f.UserID, name, FixtureBlueprintMatcher, FixtureStructureMatcher, FixtureProductionBlockMatcher, f.Clock)
	if err != nil {
		panic(err)
	}
	for _, line := range lines {
		if err := plan.AddLine(line.Product, line.TypeID, line.Quantity); err != nil {
			panic(err)
		}
	}
	_ = f.Plans.Save(context.Background(), plan)
	return plan
}

// Line builds a demand line for a known item
func (f *IndustryFixture) Line(typeID industry.TypeID, quantity int64) industry.DemandLine {
	return industry.DemandLine{Product: f.Catalog().Name(typeID), TypeID: typeID, Quantity: quantity}
}

// SnapshotLoader wires the fixture repositories into a loader
func (f *IndustryFixture) SnapshotLoader() *services.SnapshotLoader {
	return services.NewSnapshotLoader(f.Inventory, f.Jobs, f.Characters, f.Structures)
}

// NewResolver wires a resolver over the fixture with no skill bonus
func (f *IndustryFixture) NewResolver(opts ...services.ResolverOption) *services.Resolver {
	all := append([]services.ResolverOption{services.WithSkills(NoSkillBonus), services.WithClock(f.Clock)}, opts...)
	return services.NewResolver(f.Catalog(), f.Matchers, f.SnapshotLoader(), f.Market, all...)
}
