package industry

import "context"

// CatalogRepository loads the static reference data
type CatalogRepository interface {
	LoadCatalog(ctx context.Context) (*Catalog, error)
}

// PlanRepository persists plans
type PlanRepository interface {
	Save(ctx context.Context, plan *Plan) error
	FindByName(ctx context.Context, userID, name string) (*Plan, error)
	ListByUser(ctx context.Context, userID string) ([]*Plan, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, userID, name string) error
}

// MatcherRepository persists matchers of every kind
type MatcherRepository interface {
	Save(ctx context.Context, matcher Matcher) error
	FindByName(ctx context.Context, userID, name string) (Matcher, error)
	ListByUser(ctx context.Context, userID string) ([]Matcher, error)
	Delete(ctx context.Context, userID, name string) error
}

// StructureRepository persists facilities
type StructureRepository interface {
	Save(ctx context.Context, structure *Structure) error
	FindByID(ctx context.Context, id int64) (*Structure, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*Structure, error)
	FindAll(ctx context.Context) ([]*Structure, error)
}

// InventoryRepository reads containers, stock and owned blueprints
type InventoryRepository interface {
	FindContainers(ctx context.Context, userID string) ([]Container, error)
	FindAssets(ctx context.Context, locationIDs []int64) ([]Asset, error)
	FindBlueprintAssets(ctx context.Context, locationIDs []int64) ([]BlueprintAsset, error)
}

// JobRepository reads running industry jobs
type JobRepository interface {
	FindRunningJobs(ctx context.Context) ([]RunningJob, error)
}

// CharacterRepository resolves the characters a user acts through,
// including declared aliases
type CharacterRepository interface {
	FindCharacterIDs(ctx context.Context, userID string) ([]int64, error)
}

// MarketPrice is the reference price data of one item
type MarketPrice struct {
	TypeID        TypeID
	MaxBuy        float64
	MinSell       float64
	AdjustedPrice float64
}

// CostIndex is the published job cost index of a solar system
type CostIndex struct {
	SolarSystemID int64
	Manufacturing float64
	Reaction      float64
}

// ForActivity picks the index that applies to activity
func (c CostIndex) ForActivity(activity ActivityKind) float64 {
	if activity == ActivityReaction {
		return c.Reaction
	}
	return c.Manufacturing
}

// MarketRepository reads prices and cost indexes
type MarketRepository interface {
	FindPrices(ctx context.Context, typeIDs []TypeID) (map[TypeID]MarketPrice, error)
	FindCostIndexes(ctx context.Context, solarSystemIDs []int64) (map[int64]CostIndex, error)
}
