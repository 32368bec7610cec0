package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// GormStructureRepository implements StructureRepository using GORM
type GormStructureRepository struct {
	db *gorm.DB
}

// NewGormStructureRepository creates a new GORM structure repository
func NewGormStructureRepository(db *gorm.DB) *GormStructureRepository {
	return &GormStructureRepository{db: db}
}

var _ industry.StructureRepository = (*GormStructureRepository)(nil)

// Save creates or replaces a structure
func (r *GormStructureRepository) Save(ctx context.Context, structure *industry.Structure) error {
	model := &StructureModel{
		ID:            structure.ID,
		Name:          structure.Name,
		TypeID:        int64(structure.TypeID),
		SolarSystemID: structure.SolarSystemID,
		OwnerID:       structure.OwnerID,
		MaterialRig:   structure.MaterialRig,
		TimeRig:       structure.TimeRig,
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save structure: %w", result.Error)
	}
	return nil
}

// FindByID retrieves a structure
func (r *GormStructureRepository) FindByID(ctx context.Context, id int64) (*industry.Structure, error) {
	var model StructureModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &industry.ErrStructureNotFound{ID: id}
		}
		return nil, fmt.Errorf("failed to find structure: %w", result.Error)
	}
	return modelToStructure(&model), nil
}

// FindByIDs retrieves the known structures among ids, unknown ids are skipped
func (r *GormStructureRepository) FindByIDs(ctx context.Context, ids []int64) ([]*industry.Structure, error) {
	if len(ids) == 0 {
		return []*industry.Structure{}, nil
	}
	var models []StructureModel
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find structures: %w", result.Error)
	}
	return modelsToStructures(models), nil
}

// FindAll retrieves every structure
func (r *GormStructureRepository) FindAll(ctx context.Context) ([]*industry.Structure, error) {
	var models []StructureModel
	result := r.db.WithContext(ctx).Order("id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list structures: %w", result.Error)
	}
	return modelsToStructures(models), nil
}

func modelsToStructures(models []StructureModel) []*industry.Structure {
	structures := make([]*industry.Structure, 0, len(models))
	for i := range models {
		structures = append(structures, modelToStructure(&models[i]))
	}
	return structures
}

func modelToStructure(model *StructureModel) *industry.Structure {
	return &industry.Structure{
		ID:            model.ID,
		Name:          model.Name,
		TypeID:        industry.TypeID(model.TypeID),
		SolarSystemID: model.SolarSystemID,
		OwnerID:       model.OwnerID,
		MaterialRig:   model.MaterialRig,
		TimeRig:       model.TimeRig,
	}
}
