package services

import (
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// ProductionBlocker decides whether an item is bought instead of built
type ProductionBlocker interface {
	Blocked(item industry.ItemInfo, blueprintName string) bool
}

// GraphBuilder expands demand lines into a BOM graph
type GraphBuilder struct {
	catalog *industry.Catalog
	blocker ProductionBlocker
}

// NewGraphBuilder creates a builder. A nil blocker expands everything that
// has a blueprint.
func NewGraphBuilder(catalog *industry.Catalog, blocker ProductionBlocker) *GraphBuilder {
	return &GraphBuilder{catalog: catalog, blocker: blocker}
}

type expansion struct {
	index  int
	typeID industry.TypeID
}

// Build runs a breadth-first expansion from the synthetic root, then assigns
// layer depths. Each line gets its own provenance index so shared
// intermediates keep one edge per line.
func (b *GraphBuilder) Build(lines []industry.DemandLine) (*BOMGraph, error) {
	g := NewBOMGraph()
	visited := make(map[expansion]struct{})
	queue := make([]expansion, 0, len(lines))

	for i, line := range lines {
		g.addEdge(Edge{Parent: industry.RootTypeID, Child: line.TypeID, Index: i, Quantity: line.Quantity})
		key := expansion{index: i, typeID: line.TypeID}
		if _, seen := visited[key]; seen {
			continue
		}
		visited[key] = struct{}{}
		queue = append(queue, key)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.addNode(current.typeID)
		if !b.expandable(current.typeID) {
			node.IsRawMaterial = true
			continue
		}

		materials, _ := b.catalog.MaterialsFor(current.typeID)
		for _, m := range materials {
			g.addEdge(Edge{Parent: current.typeID, Child: m.TypeID, Index: current.index, Quantity: m.Quantity})
			key := expansion{index: current.index, typeID: m.TypeID}
			if _, seen := visited[key]; seen {
				continue
			}
			visited[key] = struct{}{}
			queue = append(queue, key)
		}
	}

	// a blueprint with an empty material list still yields a leaf
	for _, n := range g.nodes {
		if n.TypeID != industry.RootTypeID && g.IsLeaf(n.TypeID) {
			n.IsRawMaterial = true
		}
	}

	if err := assignDepths(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (b *GraphBuilder) expandable(typeID industry.TypeID) bool {
	if !b.catalog.HasBlueprint(typeID) {
		return false
	}
	if b.blocker == nil {
		return true
	}
	item, ok := b.catalog.Item(typeID)
	if !ok {
		item = industry.ItemInfo{TypeID: typeID}
	}
	return !b.blocker.Blocked(item, b.catalog.BlueprintName(typeID))
}

// assignDepths computes node heights (leaf = 1) and then pulls every
// intermediate node up to one below its lowest parent. Every parent sits
// strictly above each of its children and a node's layer reflects when it
// is first needed rather than how deep its own tree is.
func assignDepths(g *BOMGraph) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[industry.TypeID]int, g.Len())
	order := make([]industry.TypeID, 0, g.Len())

	var height func(id industry.TypeID) (int, error)
	height = func(id industry.TypeID) (int, error) {
		switch state[id] {
		case done:
			return g.nodes[id].Depth, nil
		case visiting:
			return 0, &industry.ErrCircularDependency{TypeID: id}
		}
		state[id] = visiting

		depth := 1
		for _, child := range g.Successors(id) {
			h, err := height(child)
			if err != nil {
				return 0, err
			}
			if h+1 > depth {
				depth = h + 1
			}
		}

		g.nodes[id].Depth = depth
		state[id] = done
		order = append(order, id)
		return depth, nil
	}

	if _, err := height(industry.RootTypeID); err != nil {
		return err
	}

	// order is a post-order, so walking it backwards visits parents first.
	// Lifting a node to one below its lowest parent keeps it under all of them.
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		if id == industry.RootTypeID || g.IsLeaf(id) {
			continue
		}
		lowest := 0
		for _, parent := range g.Predecessors(id) {
			if d := g.nodes[parent].Depth; lowest == 0 || d < lowest {
				lowest = d
			}
		}
		g.nodes[id].Depth = lowest - 1
	}
	return nil
}
