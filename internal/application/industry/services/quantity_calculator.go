package services

import (
	"sort"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

// Resolution holds everything computed for one plan. It is built by a
// single goroutine and is read-only once Resolver returns it.
type Resolution struct {
	RunID string
	Plan  *industry.Plan
	Graph *BOMGraph

	catalog    *industry.Catalog
	snapshot   *industry.InventorySnapshot
	efficiency *EfficiencyResolver
	allocator  *WorkAllocator
	prices     *PriceBook

	nodes      map[industry.TypeID]*ResolvedNode
	edges      []AllocationEdge
	totalEdges []AllocationEdge
	// stock left for the material availability check of actual units
	jobStock map[industry.TypeID]int64
}

func newResolution(
	runID string,
	plan *industry.Plan,
	graph *BOMGraph,
	catalog *industry.Catalog,
	snapshot *industry.InventorySnapshot,
	efficiency *EfficiencyResolver,
	allocator *WorkAllocator,
	prices *PriceBook,
) *Resolution {
	return &Resolution{
		RunID:      runID,
		Plan:       plan,
		Graph:      graph,
		catalog:    catalog,
		snapshot:   snapshot,
		efficiency: efficiency,
		allocator:  allocator,
		prices:     prices,
		nodes:      make(map[industry.TypeID]*ResolvedNode, graph.Len()),
		jobStock:   snapshot.OnHandCopy(),
	}
}

// calculateAll resolves every node, starting from the leaves and recursing
// towards the root
func (r *Resolution) calculateAll() error {
	for _, leaf := range r.Graph.Leaves() {
		if _, err := r.calculate(leaf); err != nil {
			return err
		}
	}
	return nil
}

// Node returns the resolved node of typeID
func (r *Resolution) Node(typeID industry.TypeID) (*ResolvedNode, bool) {
	n, ok := r.nodes[typeID]
	return n, ok
}

// Nodes returns resolved nodes in graph order, root excluded
func (r *Resolution) Nodes() []*ResolvedNode {
	out := make([]*ResolvedNode, 0, len(r.nodes))
	for _, g := range r.Graph.Nodes() {
		if g.TypeID == industry.RootTypeID {
			continue
		}
		if n, ok := r.nodes[g.TypeID]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Edges returns the allocation edges of the actual pass
func (r *Resolution) Edges() []AllocationEdge {
	return r.edges
}

// TotalEdges returns the allocation edges of the total pass
func (r *Resolution) TotalEdges() []AllocationEdge {
	return r.totalEdges
}

// Snapshot returns the inventory the resolution ran against
func (r *Resolution) Snapshot() *industry.InventorySnapshot {
	return r.snapshot
}

// Catalog returns the reference data the resolution ran against
func (r *Resolution) Catalog() *industry.Catalog {
	return r.catalog
}

// Prices returns the price data the resolution ran against
func (r *Resolution) Prices() *PriceBook {
	return r.prices
}

// MaterialCost sums the buy cost of all raw materials
func (r *Resolution) MaterialCost() float64 {
	var total float64
	for _, n := range r.Nodes() {
		if n.IsRawMaterial {
			total += n.BuyCost
		}
	}
	return total
}

// EIVCost sums the job installation cost of all built items
func (r *Resolution) EIVCost() float64 {
	var total float64
	for _, n := range r.Nodes() {
		if !n.IsRawMaterial {
			total += n.EIVCost
		}
	}
	return total
}

type parentGroup struct {
	parent   industry.TypeID
	perRun   int64
	indexes  []int
	minIndex int
}

// groupParents folds the in-edges of a node by parent, ordered by the
// lowest provenance index of each parent
func groupParents(edges []Edge) []*parentGroup {
	byParent := make(map[industry.TypeID]*parentGroup)
	var groups []*parentGroup
	for _, e := range edges {
		g, ok := byParent[e.Parent]
		if !ok {
			g = &parentGroup{parent: e.Parent, perRun: e.Quantity, minIndex: e.Index}
			byParent[e.Parent] = g
			groups = append(groups, g)
		}
		g.indexes = append(g.indexes, e.Index)
		if e.Index < g.minIndex {
			g.minIndex = e.Index
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].minIndex < groups[j].minIndex })
	return groups
}

// indexTally accumulates quantities per provenance index
type indexTally map[int]int64

func (t indexTally) add(index int, quantity int64) {
	t[index] += quantity
}

func (t indexTally) sorted() []IndexQuantity {
	out := make([]IndexQuantity, 0, len(t))
	for idx, q := range t {
		out = append(out, IndexQuantity{Index: idx, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func (r *Resolution) calculate(typeID industry.TypeID) (*ResolvedNode, error) {
	if n, ok := r.nodes[typeID]; ok {
		return n, nil
	}
	graphNode, _ := r.Graph.Node(typeID)

	if typeID == industry.RootTypeID {
		lines := make([]IndexQuantity, 0, len(r.Plan.Lines))
		for i, line := range r.Plan.Lines {
			lines = append(lines, IndexQuantity{Index: i, Quantity: line.Quantity})
		}
		root := &ResolvedNode{
			TypeID:          industry.RootTypeID,
			Name:            industry.RootTypeID.String(),
			Depth:           graphNode.Depth,
			ProductQuantity: 1,
			ActualQuantity:  1,
			TotalQuantity:   1,
			ActualIndex:     lines,
			TotalIndex:      lines,
		}
		r.nodes[typeID] = root
		return root, nil
	}

	onHand := r.snapshot.OnHand(typeID)
	inFlight := r.snapshot.InFlightRuns(typeID)
	productQty := r.catalog.ProductQuantity(typeID)
	available := onHand

	actual := indexTally{}
	total := indexTally{}

	for _, group := range groupParents(r.Graph.InEdges(typeID)) {
		parent, err := r.calculate(group.parent)
		if err != nil {
			return nil, err
		}

		if group.parent == industry.RootTypeID {
			for _, e := range r.Graph.InEdges(typeID) {
				if e.Parent != industry.RootTypeID {
					continue
				}
				actual.add(e.Index, e.Quantity)
				total.add(e.Index, e.Quantity)
			}
			continue
		}

		parentQty := r.catalog.ProductQuantity(group.parent)
		single, err := splitDemand(parent, parent.ActualIndex, parent.WorkList, parentQty, group.perRun, true)
		if err != nil {
			return nil, err
		}
		singleTotal, err := splitDemand(parent, parent.TotalIndex, parent.TotalWorkList, parentQty, group.perRun, false)
		if err != nil {
			return nil, err
		}

		for _, iq := range single {
			actual.add(iq.Index, iq.Quantity)

			var status EdgeStatus
			switch {
			case iq.Quantity == 0:
				status = EdgeSatisfied
			case iq.Quantity <= available:
				available -= iq.Quantity
				status = EdgePartiallyOnHand
			default:
				available = 0
				status = EdgeNotOnHand
			}
			r.edges = append(r.edges, AllocationEdge{Parent: group.parent, Child: typeID, Index: iq.Index, Quantity: iq.Quantity, Status: status})
		}
		for _, iq := range singleTotal {
			total.add(iq.Index, iq.Quantity)
			r.totalEdges = append(r.totalEdges, AllocationEdge{Parent: group.parent, Child: typeID, Index: iq.Index, Quantity: iq.Quantity})
		}
	}

	actualIndex := actual.sorted()
	totalIndex := total.sorted()

	node := &ResolvedNode{
		TypeID:          typeID,
		Name:            r.catalog.Name(typeID),
		Depth:           graphNode.Depth,
		IsRawMaterial:   graphNode.IsRawMaterial,
		ProductQuantity: productQty,
		ActualQuantity:  sumIndexQuantities(actualIndex) - inFlight*productQty - onHand,
		TotalQuantity:   sumIndexQuantities(totalIndex),
		OnHand:          onHand,
		InFlightRuns:    inFlight,
		TotalIndex:      totalIndex,
		WorkList:        []*industry.WorkUnit{},
		TotalWorkList:   []*industry.WorkUnit{},
	}

	if graphNode.IsRawMaterial {
		node.BuyCost = float64(node.TotalQuantity) * r.prices.Price(typeID).MaxBuy
	} else {
		if err := r.allocate(node); err != nil {
			return nil, err
		}
	}

	node.ActualIndex = netIndexQuantities(actualIndex, inFlight*productQty+onHand)
	r.nodes[typeID] = node
	return node, nil
}

// allocate fills the work lists, blueprint statistics, availability flags
// and job cost of a built item
func (r *Resolution) allocate(node *ResolvedNode) error {
	facility, err := r.efficiency.Resolve(node.TypeID)
	if err != nil {
		return err
	}
	node.Activity = facility.Activity
	node.StructureID = facility.Structure.ID

	actualAlloc, err := r.allocator.Allocate(node.TypeID, industry.CeilDiv(node.ActualQuantity, node.ProductQuantity))
	if err != nil {
		return err
	}
	totalAlloc, err := r.allocator.Allocate(node.TypeID, industry.CeilDiv(node.TotalQuantity, node.ProductQuantity))
	if err != nil {
		return err
	}

	node.WorkList = actualAlloc.Units
	node.TotalWorkList = totalAlloc.Units
	node.MaxRunsPerCycle = actualAlloc.MaxRunsPerCycle
	node.BlueprintCount = actualAlloc.BlueprintCount
	node.BlueprintRuns = actualAlloc.BlueprintRuns
	node.HasOriginal = actualAlloc.HasOriginal
	if node.WorkList == nil {
		node.WorkList = []*industry.WorkUnit{}
	}
	if node.TotalWorkList == nil {
		node.TotalWorkList = []*industry.WorkUnit{}
	}

	materials, _ := r.catalog.MaterialsFor(node.TypeID)
	for _, unit := range node.WorkList {
		if !r.reserveMaterials(unit, materials) {
			break
		}
		unit.Available = true
	}

	node.EIVCost = r.prices.JobCost(r.catalog, node.TypeID, node.TotalQuantity, facility)
	return nil
}

// reserveMaterials deducts the unit's material need from the job stock when
// every material is covered
func (r *Resolution) reserveMaterials(unit *industry.WorkUnit, materials []industry.Material) bool {
	need := unit.MaterialNeed(materials)
	for _, m := range need {
		if m.Quantity > r.jobStock[m.TypeID] {
			return false
		}
	}
	for _, m := range need {
		r.jobStock[m.TypeID] -= m.Quantity
	}
	return true
}

// netIndexQuantities removes stock and running output from the earliest
// indexes first
func netIndexQuantities(list []IndexQuantity, covered int64) []IndexQuantity {
	out := make([]IndexQuantity, len(list))
	copy(out, list)
	for i := range out {
		if covered <= 0 {
			break
		}
		if out[i].Quantity > covered {
			out[i].Quantity -= covered
			break
		}
		covered -= out[i].Quantity
		out[i].Quantity = 0
	}
	return out
}

// splitDemand walks a parent's work list in order and attributes the child
// material consumed by each unit to the parent's provenance indexes. A unit
// that overshoots an index carries its excess share into the next one. With
// spill set, material left over after the last index is added to it.
func splitDemand(
	parent *ResolvedNode,
	needs []IndexQuantity,
	units []*industry.WorkUnit,
	parentQty, perRun int64,
	spill bool,
) ([]IndexQuantity, error) {
	out := make([]IndexQuantity, len(needs))
	var (
		produced int64
		used     int64
		next     int
		last     *industry.WorkUnit
	)

	for i, need := range needs {
		out[i] = IndexQuantity{Index: need.Index}
		if need.Quantity <= 0 {
			continue
		}

		for produced < need.Quantity {
			if next >= len(units) {
				return nil, shared.NewPlanningInconsistencyError(
					parent.Name,
					"work list does not cover the recorded need",
					map[string]interface{}{
						"type_id":  int64(parent.TypeID),
						"index":    need.Index,
						"need":     need.Quantity,
						"produced": produced,
						"units":    len(units),
					},
				)
			}
			last = units[next]
			next++
			produced += last.Runs * parentQty
			used += industry.MaterialDemand(perRun, last.Runs, last.MaterialEff)
		}

		if produced > need.Quantity {
			excess := produced - need.Quantity
			ratio := float64(excess) / float64(last.Runs*parentQty)
			eff := last.MaterialEff
			if perRun == 1 {
				eff = 1
			}
			carried := industry.CeilQuantity(ratio * float64(last.Runs) * float64(perRun) * eff)
			out[i].Quantity = used - carried
			used = carried
			produced = excess
			continue
		}

		out[i].Quantity = used
		used = 0
		produced = 0
	}

	if spill && used > 0 && len(out) > 0 {
		out[len(out)-1].Quantity += used
	}
	return out, nil
}
