package services

import (
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// PriceBook is the per-resolution view of market prices and system cost
// indexes, loaded once before the walk
type PriceBook struct {
	prices  map[industry.TypeID]industry.MarketPrice
	indexes map[int64]industry.CostIndex
}

// NewPriceBook wraps loaded price data. Nil maps are treated as empty.
func NewPriceBook(prices map[industry.TypeID]industry.MarketPrice, indexes map[int64]industry.CostIndex) *PriceBook {
	if prices == nil {
		prices = map[industry.TypeID]industry.MarketPrice{}
	}
	if indexes == nil {
		indexes = map[int64]industry.CostIndex{}
	}
	return &PriceBook{prices: prices, indexes: indexes}
}

// Price returns the price row of typeID, zero when unknown
func (p *PriceBook) Price(typeID industry.TypeID) industry.MarketPrice {
	price, ok := p.prices[typeID]
	if !ok {
		return industry.MarketPrice{TypeID: typeID}
	}
	return price
}

// CostIndex returns the system cost index for activity, falling back to
// industry.DefaultCostIndex when the system has none published
func (p *PriceBook) CostIndex(solarSystemID int64, activity industry.ActivityKind) float64 {
	idx, ok := p.indexes[solarSystemID]
	if !ok {
		return industry.DefaultCostIndex
	}
	return idx.ForActivity(activity)
}

// EstimatedItemValue is the adjusted-price value of one unit of product
func (p *PriceBook) EstimatedItemValue(catalog *industry.Catalog, product industry.TypeID) float64 {
	materials, ok := catalog.MaterialsFor(product)
	if !ok {
		return 0
	}
	var value float64
	for _, m := range materials {
		value += float64(m.Quantity) * p.Price(m.TypeID).AdjustedPrice
	}
	return value / float64(catalog.ProductQuantity(product))
}

// JobCost is the installation cost of building quantity units of product
func (p *PriceBook) JobCost(catalog *industry.Catalog, product industry.TypeID, quantity int64, facility industry.FacilityEfficiency) float64 {
	if quantity <= 0 || facility.Structure == nil {
		return 0
	}
	eiv := p.EstimatedItemValue(catalog, product) * float64(quantity)
	costIndex := p.CostIndex(facility.Structure.SolarSystemID, facility.Activity)
	return eiv * industry.JobCostRate(costIndex, facility.Structure.Bonus().EIVCostReduction)
}
