package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// sqlite caps bound parameters, lookups are chunked below that
const priceLookupChunk = 500

// GormMarketRepository stores reference prices and cost indexes
type GormMarketRepository struct {
	db *gorm.DB
}

// NewGormMarketRepository creates a new GORM market repository
func NewGormMarketRepository(db *gorm.DB) *GormMarketRepository {
	return &GormMarketRepository{db: db}
}

var _ industry.MarketRepository = (*GormMarketRepository)(nil)

// FindPrices retrieves the prices known for typeIDs. Unknown types are absent
// from the result.
func (r *GormMarketRepository) FindPrices(ctx context.Context, typeIDs []industry.TypeID) (map[industry.TypeID]industry.MarketPrice, error) {
	prices := make(map[industry.TypeID]industry.MarketPrice, len(typeIDs))
	for start := 0; start < len(typeIDs); start += priceLookupChunk {
		end := start + priceLookupChunk
		if end > len(typeIDs) {
			end = len(typeIDs)
		}
		ids := make([]int64, 0, end-start)
		for _, id := range typeIDs[start:end] {
			ids = append(ids, int64(id))
		}

		var models []MarketPriceModel
		if err := r.db.WithContext(ctx).Where("type_id IN ?", ids).Find(&models).Error; err != nil {
			return nil, fmt.Errorf("failed to find market prices: %w", err)
		}
		for _, m := range models {
			prices[industry.TypeID(m.TypeID)] = industry.MarketPrice{
				TypeID:        industry.TypeID(m.TypeID),
				MaxBuy:        m.MaxBuy,
				MinSell:       m.MinSell,
				AdjustedPrice: m.AdjustedPrice,
			}
		}
	}
	return prices, nil
}

// FindCostIndexes retrieves the cost indexes of solarSystemIDs
func (r *GormMarketRepository) FindCostIndexes(ctx context.Context, solarSystemIDs []int64) (map[int64]industry.CostIndex, error) {
	indexes := make(map[int64]industry.CostIndex, len(solarSystemIDs))
	if len(solarSystemIDs) == 0 {
		return indexes, nil
	}
	var models []CostIndexModel
	if err := r.db.WithContext(ctx).Where("solar_system_id IN ?", solarSystemIDs).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find cost indexes: %w", err)
	}
	for _, m := range models {
		indexes[m.SolarSystemID] = industry.CostIndex{
			SolarSystemID: m.SolarSystemID,
			Manufacturing: m.Manufacturing,
			Reaction:      m.Reaction,
		}
	}
	return indexes, nil
}

// SavePrices upserts reference prices
func (r *GormMarketRepository) SavePrices(ctx context.Context, prices []industry.MarketPrice) error {
	if len(prices) == 0 {
		return nil
	}
	now := time.Now().UTC()
	models := make([]MarketPriceModel, 0, len(prices))
	for _, p := range prices {
		models = append(models, MarketPriceModel{
			TypeID:        int64(p.TypeID),
			MaxBuy:        p.MaxBuy,
			MinSell:       p.MinSell,
			AdjustedPrice: p.AdjustedPrice,
			UpdatedAt:     now,
		})
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(models, priceLookupChunk)
	if result.Error != nil {
		return fmt.Errorf("failed to save market prices: %w", result.Error)
	}
	return nil
}

// SaveCostIndexes upserts cost indexes
func (r *GormMarketRepository) SaveCostIndexes(ctx context.Context, indexes []industry.CostIndex) error {
	if len(indexes) == 0 {
		return nil
	}
	now := time.Now().UTC()
	models := make([]CostIndexModel, 0, len(indexes))
	for _, idx := range indexes {
		models = append(models, CostIndexModel{
			SolarSystemID: idx.SolarSystemID,
			Manufacturing: idx.Manufacturing,
			Reaction:      idx.Reaction,
			UpdatedAt:     now,
		})
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to save cost indexes: %w", result.Error)
	}
	return nil
}
