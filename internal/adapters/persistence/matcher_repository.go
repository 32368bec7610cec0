package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// GormMatcherRepository implements MatcherRepository using GORM
type GormMatcherRepository struct {
	db *gorm.DB
}

// NewGormMatcherRepository creates a new GORM matcher repository
func NewGormMatcherRepository(db *gorm.DB) *GormMatcherRepository {
	return &GormMatcherRepository{db: db}
}

var _ industry.MatcherRepository = (*GormMatcherRepository)(nil)

// Save creates or replaces a matcher
func (r *GormMatcherRepository) Save(ctx context.Context, matcher industry.Matcher) error {
	data, err := industry.MarshalMatcherRules(matcher)
	if err != nil {
		return fmt.Errorf("failed to marshal matcher rules: %w", err)
	}

	model := &MatcherModel{
		UserID: matcher.MatcherOwner(),
		Name:   matcher.MatcherName(),
		Kind:   string(matcher.Kind()),
		Rules:  data,
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save matcher: %w", result.Error)
	}
	return nil
}

// FindByName retrieves one matcher of a user
func (r *GormMatcherRepository) FindByName(ctx context.Context, userID, name string) (industry.Matcher, error) {
	var model MatcherModel
	result := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &industry.ErrMatcherNotFound{Name: name}
		}
		return nil, fmt.Errorf("failed to find matcher: %w", result.Error)
	}
	return modelToMatcher(&model)
}

// ListByUser retrieves a user's matchers sorted by name
func (r *GormMatcherRepository) ListByUser(ctx context.Context, userID string) ([]industry.Matcher, error) {
	var models []MatcherModel
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list matchers: %w", result.Error)
	}

	matchers := make([]industry.Matcher, 0, len(models))
	for i := range models {
		m, err := modelToMatcher(&models[i])
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

// Delete removes a matcher
func (r *GormMatcherRepository) Delete(ctx context.Context, userID, name string) error {
	result := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).Delete(&MatcherModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete matcher: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &industry.ErrMatcherNotFound{Name: name}
	}
	return nil
}

func modelToMatcher(model *MatcherModel) (industry.Matcher, error) {
	kind, err := industry.ParseMatcherKind(model.Kind)
	if err != nil {
		return nil, err
	}
	matcher, err := industry.NewMatcher(kind, model.Name, model.UserID)
	if err != nil {
		return nil, err
	}
	if err := industry.UnmarshalMatcherRules(matcher, model.Rules); err != nil {
		return nil, fmt.Errorf("invalid rules in matcher %s: %w", model.Name, err)
	}
	return matcher, nil
}
