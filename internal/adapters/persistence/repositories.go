package persistence

import (
	"gorm.io/gorm"

	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

// Repositories holds every gorm repository over one connection
type Repositories struct {
	DB         *gorm.DB
	Catalog    *GormCatalogRepository
	Plans      *GormPlanRepository
	Matchers   *GormMatcherRepository
	Structures *GormStructureRepository
	Inventory  *GormInventoryRepository
	Jobs       *GormJobRepository
	Characters *GormCharacterRepository
	Market     *GormMarketRepository
}

// NewRepositories creates all repositories. A nil clock uses the real clock.
func NewRepositories(db *gorm.DB, clock shared.Clock) *Repositories {
	return &Repositories{
		DB:         db,
		Catalog:    NewGormCatalogRepository(db),
		Plans:      NewGormPlanRepository(db, clock),
		Matchers:   NewGormMatcherRepository(db),
		Structures: NewGormStructureRepository(db),
		Inventory:  NewGormInventoryRepository(db),
		Jobs:       NewGormJobRepository(db),
		Characters: NewGormCharacterRepository(db),
		Market:     NewGormMarketRepository(db),
	}
}
