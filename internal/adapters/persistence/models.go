package persistence

import (
	"time"

	"gorm.io/datatypes"
)

// ItemTypeModel represents the item_types table
type ItemTypeModel struct {
	TypeID       int64          `gorm:"column:type_id;primaryKey"`
	Name         string         `gorm:"column:name;not null;index"`
	GroupName    string         `gorm:"column:group_name"`
	CategoryName string         `gorm:"column:category_name"`
	MetaName     string         `gorm:"column:meta_name"`
	MarketGroups datatypes.JSON `gorm:"column:market_groups"` // ancestor chain, nearest first
}

func (ItemTypeModel) TableName() string {
	return "item_types"
}

// BlueprintModel represents the blueprints table
type BlueprintModel struct {
	BlueprintTypeID    int64          `gorm:"column:blueprint_type_id;primaryKey"`
	BlueprintName      string         `gorm:"column:blueprint_name;not null"`
	ProductTypeID      int64          `gorm:"column:product_type_id;not null;uniqueIndex"`
	Activity           int            `gorm:"column:activity;not null"`
	ProductQuantity    int64          `gorm:"column:product_quantity;not null;default:1"`
	ProductionTime     int64          `gorm:"column:production_time;not null"`
	MaxProductionLimit int64          `gorm:"column:max_production_limit"`
	Materials          datatypes.JSON `gorm:"column:materials"`
}

func (BlueprintModel) TableName() string {
	return "blueprints"
}

// PlanModel represents the plans table
type PlanModel struct {
	UserID                  string         `gorm:"column:user_id;primaryKey;not null"`
	Name                    string         `gorm:"column:name;primaryKey;not null"`
	BlueprintMatcher        string         `gorm:"column:bp_matcher;not null"`
	StructureMatcher        string         `gorm:"column:st_matcher;not null"`
	ProductionBlockMatcher  string         `gorm:"column:prod_block_matcher;not null"`
	Lines                   datatypes.JSON `gorm:"column:lines"`
	ManufacturingCycleHours int            `gorm:"column:manu_cycle_hours;not null;default:24"`
	ReactionCycleHours      int            `gorm:"column:reac_cycle_hours;not null;default:24"`
	ExcludedContainers      datatypes.JSON `gorm:"column:excluded_containers"`
	CreatedAt               time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt               time.Time      `gorm:"column:updated_at;not null"`
}

func (PlanModel) TableName() string {
	return "plans"
}

// MatcherModel represents the matchers table. Rules hold the rule table of
// the matcher's kind.
type MatcherModel struct {
	UserID string         `gorm:"column:user_id;primaryKey;not null"`
	Name   string         `gorm:"column:name;primaryKey;not null"`
	Kind   string         `gorm:"column:kind;not null"`
	Rules  datatypes.JSON `gorm:"column:rules"`
}

func (MatcherModel) TableName() string {
	return "matchers"
}

// StructureModel represents the structures table
type StructureModel struct {
	ID            int64  `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name          string `gorm:"column:name;not null"`
	TypeID        int64  `gorm:"column:type_id;not null"`
	SolarSystemID int64  `gorm:"column:solar_system_id;not null"`
	OwnerID       int64  `gorm:"column:owner_id"`
	MaterialRig   int    `gorm:"column:material_rig;not null;default:0"`
	TimeRig       int    `gorm:"column:time_rig;not null;default:0"`
}

func (StructureModel) TableName() string {
	return "structures"
}

// StorageContainerModel represents the storage_containers table
type StorageContainerModel struct {
	LocationID  int64  `gorm:"column:location_id;primaryKey;autoIncrement:false"`
	StructureID int64  `gorm:"column:structure_id;not null;index"`
	UserID      string `gorm:"column:user_id;not null;index"`
	Tag         string `gorm:"column:tag;not null"`
	Name        string `gorm:"column:name"`
}

func (StorageContainerModel) TableName() string {
	return "storage_containers"
}

// AssetModel represents the assets table
type AssetModel struct {
	ID         int64 `gorm:"column:id;primaryKey;autoIncrement"`
	TypeID     int64 `gorm:"column:type_id;not null"`
	LocationID int64 `gorm:"column:location_id;not null;index"`
	Quantity   int64 `gorm:"column:quantity;not null"`
}

func (AssetModel) TableName() string {
	return "assets"
}

// BlueprintAssetModel represents the blueprint_assets table
type BlueprintAssetModel struct {
	ItemID             int64 `gorm:"column:item_id;primaryKey;autoIncrement:false"`
	BlueprintTypeID    int64 `gorm:"column:blueprint_type_id;not null"`
	LocationID         int64 `gorm:"column:location_id;not null;index"`
	Runs               int64 `gorm:"column:runs;not null"`
	Quantity           int64 `gorm:"column:quantity;not null"`
	MaterialEfficiency int   `gorm:"column:material_efficiency;not null;default:0"`
	TimeEfficiency     int   `gorm:"column:time_efficiency;not null;default:0"`
}

func (BlueprintAssetModel) TableName() string {
	return "blueprint_assets"
}

// IndustryJobModel represents the industry_jobs table. Only running jobs are
// stored.
type IndustryJobModel struct {
	JobID            int64 `gorm:"column:job_id;primaryKey;autoIncrement:false"`
	InstallerID      int64 `gorm:"column:installer_id;not null;index"`
	BlueprintItemID  int64 `gorm:"column:blueprint_item_id;not null"`
	ProductTypeID    int64 `gorm:"column:product_type_id;not null"`
	Runs             int64 `gorm:"column:runs;not null"`
	OutputLocationID int64 `gorm:"column:output_location_id;not null"`
}

func (IndustryJobModel) TableName() string {
	return "industry_jobs"
}

// CharacterModel represents the characters table. Aliases are extra
// characters bound to the same user.
type CharacterModel struct {
	CharacterID int64  `gorm:"column:character_id;primaryKey;autoIncrement:false"`
	UserID      string `gorm:"column:user_id;not null;index"`
	Name        string `gorm:"column:name"`
	IsAlias     bool   `gorm:"column:is_alias;not null;default:false"`
}

func (CharacterModel) TableName() string {
	return "characters"
}

// MarketPriceModel represents the market_prices table
type MarketPriceModel struct {
	TypeID        int64     `gorm:"column:type_id;primaryKey;autoIncrement:false"`
	MaxBuy        float64   `gorm:"column:max_buy;not null;default:0"`
	MinSell       float64   `gorm:"column:min_sell;not null;default:0"`
	AdjustedPrice float64   `gorm:"column:adjusted_price;not null;default:0"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (MarketPriceModel) TableName() string {
	return "market_prices"
}

// CostIndexModel represents the cost_indexes table
type CostIndexModel struct {
	SolarSystemID int64     `gorm:"column:solar_system_id;primaryKey;autoIncrement:false"`
	Manufacturing float64   `gorm:"column:manufacturing;not null;default:0"`
	Reaction      float64   `gorm:"column:reaction;not null;default:0"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (CostIndexModel) TableName() string {
	return "cost_indexes"
}

// AllModels lists every table for migration
func AllModels() []interface{} {
	return []interface{}{
		&ItemTypeModel{},
		&BlueprintModel{},
		&PlanModel{},
		&MatcherModel{},
		&StructureModel{},
		&StorageContainerModel{},
		&AssetModel{},
		&BlueprintAssetModel{},
		&IndustryJobModel{},
		&CharacterModel{},
		&MarketPriceModel{},
		&CostIndexModel{},
	}
}
