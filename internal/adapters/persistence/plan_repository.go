package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

// GormPlanRepository implements PlanRepository using GORM
type GormPlanRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormPlanRepository creates a new GORM plan repository. Loaded plans get
// clock attached.
func NewGormPlanRepository(db *gorm.DB, clock shared.Clock) *GormPlanRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormPlanRepository{db: db, clock: clock}
}

var _ industry.PlanRepository = (*GormPlanRepository)(nil)

// Save creates or replaces a plan
func (r *GormPlanRepository) Save(ctx context.Context, plan *industry.Plan) error {
	model, err := planToModel(plan)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save plan: %w", result.Error)
	}
	return nil
}

// FindByName retrieves one plan of a user
func (r *GormPlanRepository) FindByName(ctx context.Context, userID, name string) (*industry.Plan, error) {
	var model PlanModel
	result := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &industry.ErrPlanNotFound{UserID: userID, Name: name}
		}
		return nil, fmt.Errorf("failed to find plan: %w", result.Error)
	}
	return r.modelToPlan(&model)
}

// ListByUser retrieves a user's plans sorted by name
func (r *GormPlanRepository) ListByUser(ctx context.Context, userID string) ([]*industry.Plan, error) {
	var models []PlanModel
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list plans: %w", result.Error)
	}

	plans := make([]*industry.Plan, 0, len(models))
	for i := range models {
		plan, err := r.modelToPlan(&models[i])
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// CountByUser counts a user's plans
func (r *GormPlanRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&PlanModel{}).Where("user_id = ?", userID).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count plans: %w", result.Error)
	}
	return int(count), nil
}

// Delete removes a plan
func (r *GormPlanRepository) Delete(ctx context.Context, userID, name string) error {
	result := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).Delete(&PlanModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &industry.ErrPlanNotFound{UserID: userID, Name: name}
	}
	return nil
}

func planToModel(plan *industry.Plan) (*PlanModel, error) {
	lines, err := json.Marshal(plan.Lines)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan lines: %w", err)
	}
	excluded := plan.ExcludedContainers
	if excluded == nil {
		excluded = []int64{}
	}
	excludedJSON, err := json.Marshal(excluded)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal excluded containers: %w", err)
	}

	return &PlanModel{
		UserID:                  plan.UserID,
		Name:                    plan.Name,
		BlueprintMatcher:        plan.BlueprintMatcher,
		StructureMatcher:        plan.StructureMatcher,
		ProductionBlockMatcher:  plan.ProductionBlockMatcher,
		Lines:                   lines,
		ManufacturingCycleHours: plan.ManufacturingCycleHours,
		ReactionCycleHours:      plan.ReactionCycleHours,
		ExcludedContainers:      excludedJSON,
		CreatedAt:               plan.CreatedAt,
		UpdatedAt:               plan.UpdatedAt,
	}, nil
}

func (r *GormPlanRepository) modelToPlan(model *PlanModel) (*industry.Plan, error) {
	lines := []industry.DemandLine{}
	if len(model.Lines) > 0 {
		if err := json.Unmarshal(model.Lines, &lines); err != nil {
			return nil, fmt.Errorf("invalid lines in plan %s: %w", model.Name, err)
		}
	}
	excluded := []int64{}
	if len(model.ExcludedContainers) > 0 {
		if err := json.Unmarshal(model.ExcludedContainers, &excluded); err != nil {
			return nil, fmt.Errorf("invalid excluded containers in plan %s: %w", model.Name, err)
		}
	}

	plan := &industry.Plan{
		UserID:                  model.UserID,
		Name:                    model.Name,
		BlueprintMatcher:        model.BlueprintMatcher,
		StructureMatcher:        model.StructureMatcher,
		ProductionBlockMatcher:  model.ProductionBlockMatcher,
		Lines:                   lines,
		ManufacturingCycleHours: model.ManufacturingCycleHours,
		ReactionCycleHours:      model.ReactionCycleHours,
		ExcludedContainers:      excluded,
		CreatedAt:               model.CreatedAt,
		UpdatedAt:               model.UpdatedAt,
	}
	plan.SetClock(r.clock)
	return plan, nil
}
