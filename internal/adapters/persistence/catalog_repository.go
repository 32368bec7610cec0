package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

const catalogBatchSize = 500

// GormCatalogRepository loads and seeds the static reference data
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM catalog repository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

var _ industry.CatalogRepository = (*GormCatalogRepository)(nil)

// LoadCatalog reads every item type and blueprint into an immutable catalog
func (r *GormCatalogRepository) LoadCatalog(ctx context.Context) (*industry.Catalog, error) {
	var itemModels []ItemTypeModel
	if err := r.db.WithContext(ctx).Order("type_id").Find(&itemModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load item types: %w", err)
	}
	var blueprintModels []BlueprintModel
	if err := r.db.WithContext(ctx).Order("blueprint_type_id").Find(&blueprintModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load blueprints: %w", err)
	}

	items := make([]industry.ItemInfo, 0, len(itemModels))
	for _, m := range itemModels {
		item, err := modelToItem(&m)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	blueprints := make([]industry.BlueprintSpec, 0, len(blueprintModels))
	for _, m := range blueprintModels {
		spec, err := modelToBlueprint(&m)
		if err != nil {
			return nil, err
		}
		blueprints = append(blueprints, spec)
	}

	return industry.NewCatalog(items, blueprints), nil
}

// SaveItems upserts item types
func (r *GormCatalogRepository) SaveItems(ctx context.Context, items []industry.ItemInfo) error {
	if len(items) == 0 {
		return nil
	}
	models := make([]ItemTypeModel, 0, len(items))
	for _, item := range items {
		groups, err := json.Marshal(nonNilStrings(item.MarketGroups))
		if err != nil {
			return fmt.Errorf("failed to marshal market groups of %d: %w", item.TypeID, err)
		}
		models = append(models, ItemTypeModel{
			TypeID:       int64(item.TypeID),
			Name:         item.Name,
			GroupName:    item.GroupName,
			CategoryName: item.CategoryName,
			MetaName:     item.MetaName,
			MarketGroups: groups,
		})
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(models, catalogBatchSize)
	if result.Error != nil {
		return fmt.Errorf("failed to save item types: %w", result.Error)
	}
	return nil
}

// SaveBlueprints upserts blueprints
func (r *GormCatalogRepository) SaveBlueprints(ctx context.Context, blueprints []industry.BlueprintSpec) error {
	if len(blueprints) == 0 {
		return nil
	}
	models := make([]BlueprintModel, 0, len(blueprints))
	for _, spec := range blueprints {
		materials, err := json.Marshal(materialRecords(spec.Materials))
		if err != nil {
			return fmt.Errorf("failed to marshal materials of %d: %w", spec.BlueprintTypeID, err)
		}
		activity := spec.Activity
		if activity == 0 {
			activity = industry.ActivityManufacturing
		}
		quantity := spec.ProductQuantity
		if quantity <= 0 {
			quantity = 1
		}
		models = append(models, BlueprintModel{
			BlueprintTypeID:    int64(spec.BlueprintTypeID),
			BlueprintName:      spec.BlueprintName,
			ProductTypeID:      int64(spec.ProductTypeID),
			Activity:           int(activity),
			ProductQuantity:    quantity,
			ProductionTime:     spec.ProductionTime,
			MaxProductionLimit: spec.MaxProductionLimit,
			Materials:          materials,
		})
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(models, catalogBatchSize)
	if result.Error != nil {
		return fmt.Errorf("failed to save blueprints: %w", result.Error)
	}
	return nil
}

// materialRecord is the JSON layout of one blueprint input
type materialRecord struct {
	TypeID   int64 `json:"type_id"`
	Quantity int64 `json:"quantity"`
}

func materialRecords(materials []industry.Material) []materialRecord {
	out := make([]materialRecord, 0, len(materials))
	for _, m := range materials {
		out = append(out, materialRecord{TypeID: int64(m.TypeID), Quantity: m.Quantity})
	}
	return out
}

func modelToItem(m *ItemTypeModel) (industry.ItemInfo, error) {
	var groups []string
	if len(m.MarketGroups) > 0 {
		if err := json.Unmarshal(m.MarketGroups, &groups); err != nil {
			return industry.ItemInfo{}, fmt.Errorf("invalid market groups for item %d: %w", m.TypeID, err)
		}
	}
	return industry.ItemInfo{
		TypeID:       industry.TypeID(m.TypeID),
		Name:         m.Name,
		GroupName:    m.GroupName,
		CategoryName: m.CategoryName,
		MetaName:     m.MetaName,
		MarketGroups: groups,
	}, nil
}

func modelToBlueprint(m *BlueprintModel) (industry.BlueprintSpec, error) {
	var records []materialRecord
	if len(m.Materials) > 0 {
		if err := json.Unmarshal(m.Materials, &records); err != nil {
			return industry.BlueprintSpec{}, fmt.Errorf("invalid materials for blueprint %d: %w", m.BlueprintTypeID, err)
		}
	}
	materials := make([]industry.Material, 0, len(records))
	for _, rec := range records {
		materials = append(materials, industry.Material{TypeID: industry.TypeID(rec.TypeID), Quantity: rec.Quantity})
	}
	return industry.BlueprintSpec{
		BlueprintTypeID:    industry.TypeID(m.BlueprintTypeID),
		BlueprintName:      m.BlueprintName,
		ProductTypeID:      industry.TypeID(m.ProductTypeID),
		Activity:           industry.ActivityKind(m.Activity),
		Materials:          materials,
		ProductQuantity:    m.ProductQuantity,
		ProductionTime:     m.ProductionTime,
		MaxProductionLimit: m.MaxProductionLimit,
	}, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
