package services

import (
	"sort"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// MaterialCost is the buy cost of one raw material over the full demand
type MaterialCost struct {
	TypeID   industry.TypeID  `json:"type_id"`
	Name     string           `json:"name"`
	Category MaterialCategory `json:"category"`
	Quantity int64            `json:"quantity"`
	Cost     float64          `json:"cost"`
	Share    float64          `json:"share"`
}

// CategoryCost is the summed cost of one material category
type CategoryCost struct {
	Category MaterialCategory `json:"category"`
	Cost     float64          `json:"cost"`
	Share    float64          `json:"share"`
}

// CostDetail breaks a plan's total cost down by material and category.
// Shares are fractions of Total.
type CostDetail struct {
	Materials  []MaterialCost `json:"materials"`
	Categories []CategoryCost `json:"categories"`
	EIV        float64        `json:"eiv"`
	EIVShare   float64        `json:"eiv_share"`
	Total      float64        `json:"total"`
}

// BuildCostDetail derives the cost breakdown of a resolved report. Costs
// ignore stock: every raw material is priced at its total quantity.
// Reaction materials have no bucket of their own here and count as misc.
func BuildCostDetail(report *ResolvedReport, catalog *industry.Catalog) *CostDetail {
	detail := &CostDetail{Total: report.Cost.Total, EIV: report.Cost.EIV}
	byCategory := map[MaterialCategory]float64{}

	for _, n := range report.Nodes {
		if !n.IsRawMaterial {
			continue
		}
		item, _ := catalog.Item(n.TypeID)
		category := classifyMaterial(item)
		if category == CategoryReactionMaterials {
			category = CategoryMisc
		}
		detail.Materials = append(detail.Materials, MaterialCost{
			TypeID:   n.TypeID,
			Name:     n.Name,
			Category: category,
			Quantity: n.TotalQuantity,
			Cost:     n.BuyCost,
		})
		byCategory[category] += n.BuyCost
	}

	sort.SliceStable(detail.Materials, func(i, j int) bool {
		if detail.Materials[i].Cost != detail.Materials[j].Cost {
			return detail.Materials[i].Cost > detail.Materials[j].Cost
		}
		return detail.Materials[i].TypeID < detail.Materials[j].TypeID
	})

	for _, category := range MaterialCategories {
		cost, ok := byCategory[category]
		if !ok {
			continue
		}
		detail.Categories = append(detail.Categories, CategoryCost{Category: category, Cost: cost})
	}

	if detail.Total > 0 {
		for i := range detail.Materials {
			detail.Materials[i].Share = detail.Materials[i].Cost / detail.Total
		}
		for i := range detail.Categories {
			detail.Categories[i].Share = detail.Categories[i].Cost / detail.Total
		}
		detail.EIVShare = detail.EIV / detail.Total
	}
	return detail
}
