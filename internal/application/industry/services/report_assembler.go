package services

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// Classification names used to bucket raw materials
const (
	groupMineral          = "Mineral"
	groupFuelBlock        = "Fuel Block"
	groupMoonMaterials    = "Moon Materials"
	groupHarvestableCloud = "Harvestable Cloud"
	categoryPlanetary     = "Planetary Commodities"
	marketGroupReaction   = "Reaction Materials"
)

// ReportAssembler projects a Resolution into a ResolvedReport
type ReportAssembler struct {
	printer *message.Printer
}

// NewReportAssembler creates an assembler that formats numbers with
// thousands separators
func NewReportAssembler() *ReportAssembler {
	return &ReportAssembler{printer: message.NewPrinter(language.English)}
}

// Assemble builds the report
func (a *ReportAssembler) Assemble(res *Resolution) *ResolvedReport {
	nodes := res.Nodes()
	materialCost := res.MaterialCost()
	eivCost := res.EIVCost()

	return &ResolvedReport{
		UserID:    res.Plan.UserID,
		PlanName:  res.Plan.Name,
		Lines:     append([]industry.DemandLine(nil), res.Plan.Lines...),
		Materials: a.materials(res, nodes),
		Work:      a.workLayers(res, nodes),
		Workflow:  a.workflow(res, nodes),
		Logistics: buildLogistics(res),
		Cost: CostSummary{
			Material: materialCost,
			EIV:      eivCost,
			Total:    materialCost + eivCost,
		},
		Nodes: nodes,
		Edges: append([]AllocationEdge(nil), res.Edges()...),
	}
}

func classifyMaterial(item industry.ItemInfo) MaterialCategory {
	switch {
	case item.GroupName == groupMineral:
		return CategoryMinerals
	case item.GroupName == groupFuelBlock:
		return CategoryFuelBlocks
	case item.GroupName == groupMoonMaterials:
		return CategoryMoonMaterials
	case item.GroupName == groupHarvestableCloud:
		return CategoryGas
	case item.CategoryName == categoryPlanetary:
		return CategoryPlanetary
	case item.InMarketGroup(marketGroupReaction):
		return CategoryReactionMaterials
	}
	return CategoryMisc
}

func (a *ReportAssembler) materials(res *Resolution, nodes []*ResolvedNode) []MaterialSection {
	rows := map[MaterialCategory][]MaterialRow{}
	for _, n := range nodes {
		if n.Depth != 1 {
			continue
		}
		item, _ := res.Catalog().Item(n.TypeID)
		price := res.Prices().Price(n.TypeID)
		missing := n.Missing()
		category := classifyMaterial(item)
		rows[category] = append(rows[category], MaterialRow{
			TypeID:     n.TypeID,
			Name:       n.Name,
			Missing:    missing,
			Redundant:  n.Redundant(),
			Total:      n.TotalQuantity,
			Stock:      n.OnHand,
			MaxBuy:     price.MaxBuy,
			MinSell:    price.MinSell,
			BuyoutCost: price.MaxBuy * float64(missing),
			SpreadCost: price.MinSell*float64(missing) - price.MaxBuy*float64(missing),
			Detail:     a.indexDetail(n.ActualIndex),
		})
	}

	sections := make([]MaterialSection, 0, len(MaterialCategories))
	for _, category := range MaterialCategories {
		sections = append(sections, MaterialSection{Category: category, Rows: rows[category]})
	}
	return sections
}

// indexDetail renders non-zero index quantities as "0:1,200| 2:15"
func (a *ReportAssembler) indexDetail(list []IndexQuantity) string {
	parts := make([]string, 0, len(list))
	for _, iq := range list {
		if iq.Quantity == 0 {
			continue
		}
		parts = append(parts, a.printer.Sprintf("%d:%d", iq.Index, iq.Quantity))
	}
	return strings.Join(parts, "| ")
}

func (a *ReportAssembler) workLayers(res *Resolution, nodes []*ResolvedNode) []WorkLayer {
	topLayer := res.Graph.RootDepth() - 1
	byLayer := map[int][]WorkRow{}
	for _, n := range nodes {
		if n.Depth <= 1 {
			continue
		}
		layer := n.Depth
		if res.Graph.HasEdge(industry.RootTypeID, n.TypeID) {
			layer = topLayer
		}
		byLayer[layer] = append(byLayer[layer], a.workRow(res, n))
	}

	var layers []WorkLayer
	for layer := topLayer; layer >= 2; layer-- {
		if rows, ok := byLayer[layer]; ok {
			layers = append(layers, WorkLayer{Layer: layer, Rows: rows})
		}
	}
	return layers
}

func (a *ReportAssembler) workRow(res *Resolution, n *ResolvedNode) WorkRow {
	blueprintRuns := fmt.Sprintf("%d", n.BlueprintRuns)
	if n.HasOriginal {
		blueprintRuns += "+inf"
	}
	return WorkRow{
		Kind:           n.Activity.Code(),
		TypeID:         n.TypeID,
		Name:           n.Name,
		Stock:          n.OnHand,
		Missing:        n.ActualQuantity,
		Total:          n.TotalQuantity,
		Running:        n.InFlightRuns * n.ProductQuantity,
		ActualRuns:     n.ActualRuns(),
		TotalRuns:      n.TotalRuns(),
		BlueprintCount: n.BlueprintCount,
		BlueprintRuns:  blueprintRuns,
		Status:         edgeStatusSummary(res.Edges(), n.TypeID),
	}
}

// edgeStatusSummary reports, per index, the worst coverage of the node's
// inputs: "O" when stock covers them, "x" when it does not
func edgeStatusSummary(edges []AllocationEdge, parent industry.TypeID) string {
	worst := map[int]EdgeStatus{}
	for _, e := range edges {
		if e.Parent != parent {
			continue
		}
		if current, ok := worst[e.Index]; !ok || e.Status > current {
			worst[e.Index] = e.Status
		}
	}

	indexes := make([]int, 0, len(worst))
	for idx := range worst {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	parts := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		switch worst[idx] {
		case EdgePartiallyOnHand:
			parts = append(parts, fmt.Sprintf("%d:O", idx))
		case EdgeNotOnHand:
			parts = append(parts, fmt.Sprintf("%d:x", idx))
		}
	}
	return strings.Join(parts, "| ")
}

func (a *ReportAssembler) workflow(res *Resolution, nodes []*ResolvedNode) Workflow {
	flow := Workflow{Manufacturing: []WorkflowRow{}, Reaction: []WorkflowRow{}}
	topLayer := res.Graph.RootDepth() - 1

	for layer := topLayer; layer >= 2; layer-- {
		for _, n := range nodes {
			if n.Depth != layer || len(n.WorkList) == 0 {
				continue
			}
			histogram := map[int64]int{}
			for _, unit := range n.WorkList {
				if !unit.Available || unit.Synthetic {
					continue
				}
				histogram[unit.Runs]++
			}
			if len(histogram) == 0 {
				continue
			}

			runs := make([]int64, 0, len(histogram))
			for r := range histogram {
				runs = append(runs, r)
			}
			sort.Slice(runs, func(i, j int) bool { return runs[i] > runs[j] })

			rows := make([]WorkflowRow, 0, len(runs))
			for i, r := range runs {
				row := WorkflowRow{TypeID: n.TypeID, Runs: r, Count: histogram[r]}
				if i == 0 {
					row.Name = n.Name
				}
				rows = append(rows, row)
			}

			switch n.Activity {
			case industry.ActivityManufacturing:
				flow.Manufacturing = append(flow.Manufacturing, rows...)
			case industry.ActivityReaction:
				flow.Reaction = append(flow.Reaction, rows...)
			}
		}
	}
	return flow
}
