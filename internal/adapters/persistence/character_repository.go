package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// GormCharacterRepository maps users to their characters and aliases
type GormCharacterRepository struct {
	db *gorm.DB
}

// NewGormCharacterRepository creates a new GORM character repository
func NewGormCharacterRepository(db *gorm.DB) *GormCharacterRepository {
	return &GormCharacterRepository{db: db}
}

var _ industry.CharacterRepository = (*GormCharacterRepository)(nil)

// FindCharacterIDs lists the main characters and aliases of a user
func (r *GormCharacterRepository) FindCharacterIDs(ctx context.Context, userID string) ([]int64, error) {
	var ids []int64
	result := r.db.WithContext(ctx).
		Model(&CharacterModel{}).
		Where("user_id = ?", userID).
		Order("character_id").
		Pluck("character_id", &ids)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find characters: %w", result.Error)
	}
	return ids, nil
}

// SaveCharacter binds a character to a user
func (r *GormCharacterRepository) SaveCharacter(ctx context.Context, userID string, characterID int64, name string, alias bool) error {
	model := &CharacterModel{
		CharacterID: characterID,
		UserID:      userID,
		Name:        name,
		IsAlias:     alias,
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save character: %w", result.Error)
	}
	return nil
}
