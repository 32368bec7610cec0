package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

const inventoryBatchSize = 500

// GormInventoryRepository stores containers, assets and owned blueprints
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GORM inventory repository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

var _ industry.InventoryRepository = (*GormInventoryRepository)(nil)

// FindContainers retrieves the containers a user registered
func (r *GormInventoryRepository) FindContainers(ctx context.Context, userID string) ([]industry.Container, error) {
	var models []StorageContainerModel
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("location_id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find containers: %w", result.Error)
	}

	containers := make([]industry.Container, 0, len(models))
	for _, m := range models {
		containers = append(containers, industry.Container{
			LocationID:  m.LocationID,
			StructureID: m.StructureID,
			UserID:      m.UserID,
			Tag:         m.Tag,
			Name:        m.Name,
		})
	}
	return containers, nil
}

// SaveContainer registers or retags a container
func (r *GormInventoryRepository) SaveContainer(ctx context.Context, container industry.Container) error {
	model := &StorageContainerModel{
		LocationID:  container.LocationID,
		StructureID: container.StructureID,
		UserID:      container.UserID,
		Tag:         container.Tag,
		Name:        container.Name,
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save container: %w", result.Error)
	}
	return nil
}

// FindAssets retrieves the stock held in locationIDs
func (r *GormInventoryRepository) FindAssets(ctx context.Context, locationIDs []int64) ([]industry.Asset, error) {
	if len(locationIDs) == 0 {
		return []industry.Asset{}, nil
	}
	var models []AssetModel
	result := r.db.WithContext(ctx).Where("location_id IN ?", locationIDs).Order("id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find assets: %w", result.Error)
	}

	assets := make([]industry.Asset, 0, len(models))
	for _, m := range models {
		assets = append(assets, industry.Asset{
			TypeID:     industry.TypeID(m.TypeID),
			LocationID: m.LocationID,
			Quantity:   m.Quantity,
		})
	}
	return assets, nil
}

// ReplaceAssets swaps the stock of locationIDs for assets in one transaction
func (r *GormInventoryRepository) ReplaceAssets(ctx context.Context, locationIDs []int64, assets []industry.Asset) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(locationIDs) > 0 {
			if err := tx.Where("location_id IN ?", locationIDs).Delete(&AssetModel{}).Error; err != nil {
				return fmt.Errorf("failed to clear assets: %w", err)
			}
		}
		if len(assets) == 0 {
			return nil
		}
		models := make([]AssetModel, 0, len(assets))
		for _, a := range assets {
			models = append(models, AssetModel{
				TypeID:     int64(a.TypeID),
				LocationID: a.LocationID,
				Quantity:   a.Quantity,
			})
		}
		if err := tx.CreateInBatches(models, inventoryBatchSize).Error; err != nil {
			return fmt.Errorf("failed to save assets: %w", err)
		}
		return nil
	})
}

// FindBlueprintAssets retrieves the blueprints held in locationIDs
func (r *GormInventoryRepository) FindBlueprintAssets(ctx context.Context, locationIDs []int64) ([]industry.BlueprintAsset, error) {
	if len(locationIDs) == 0 {
		return []industry.BlueprintAsset{}, nil
	}
	var models []BlueprintAssetModel
	result := r.db.WithContext(ctx).Where("location_id IN ?", locationIDs).Order("item_id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find blueprint assets: %w", result.Error)
	}

	blueprints := make([]industry.BlueprintAsset, 0, len(models))
	for _, m := range models {
		blueprints = append(blueprints, industry.BlueprintAsset{
			ItemID:             m.ItemID,
			BlueprintTypeID:    industry.TypeID(m.BlueprintTypeID),
			LocationID:         m.LocationID,
			Runs:               m.Runs,
			Quantity:           m.Quantity,
			MaterialEfficiency: m.MaterialEfficiency,
			TimeEfficiency:     m.TimeEfficiency,
		})
	}
	return blueprints, nil
}

// ReplaceBlueprintAssets swaps the blueprints of locationIDs in one transaction
func (r *GormInventoryRepository) ReplaceBlueprintAssets(ctx context.Context, locationIDs []int64, blueprints []industry.BlueprintAsset) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(locationIDs) > 0 {
			if err := tx.Where("location_id IN ?", locationIDs).Delete(&BlueprintAssetModel{}).Error; err != nil {
				return fmt.Errorf("failed to clear blueprint assets: %w", err)
			}
		}
		if len(blueprints) == 0 {
			return nil
		}
		models := make([]BlueprintAssetModel, 0, len(blueprints))
		for _, b := range blueprints {
			models = append(models, BlueprintAssetModel{
				ItemID:             b.ItemID,
				BlueprintTypeID:    int64(b.BlueprintTypeID),
				LocationID:         b.LocationID,
				Runs:               b.Runs,
				Quantity:           b.Quantity,
				MaterialEfficiency: b.MaterialEfficiency,
				TimeEfficiency:     b.TimeEfficiency,
			})
		}
		err := tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(models, inventoryBatchSize).Error
		if err != nil {
			return fmt.Errorf("failed to save blueprint assets: %w", err)
		}
		return nil
	})
}
