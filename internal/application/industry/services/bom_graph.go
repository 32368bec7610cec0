package services

import (
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// Edge is one material requirement. The graph is a multigraph: the same
// parent/child pair carries one edge per provenance index.
type Edge struct {
	Parent   industry.TypeID
	Child    industry.TypeID
	Index    int
	Quantity int64
}

// GraphNode is an item in the BOM graph
type GraphNode struct {
	TypeID        industry.TypeID
	Depth         int
	IsRawMaterial bool
}

// BOMGraph is an arena of nodes keyed by type id with adjacency lists.
// Node and edge order is insertion order, which keeps every walk over the
// graph deterministic.
type BOMGraph struct {
	nodes map[industry.TypeID]*GraphNode
	order []industry.TypeID
	out   map[industry.TypeID][]Edge
	in    map[industry.TypeID][]Edge
}

// NewBOMGraph returns a graph holding only the synthetic root
func NewBOMGraph() *BOMGraph {
	g := &BOMGraph{
		nodes: map[industry.TypeID]*GraphNode{},
		out:   map[industry.TypeID][]Edge{},
		in:    map[industry.TypeID][]Edge{},
	}
	g.addNode(industry.RootTypeID)
	return g
}

func (g *BOMGraph) addNode(id industry.TypeID) *GraphNode {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &GraphNode{TypeID: id}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n
}

func (g *BOMGraph) addEdge(e Edge) {
	g.addNode(e.Parent)
	g.addNode(e.Child)
	g.out[e.Parent] = append(g.out[e.Parent], e)
	g.in[e.Child] = append(g.in[e.Child], e)
}

// Node returns the node for id
func (g *BOMGraph) Node(id industry.TypeID) (*GraphNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes, root first, in insertion order
func (g *BOMGraph) Nodes() []*GraphNode {
	out := make([]*GraphNode, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Len is the node count including the root
func (g *BOMGraph) Len() int {
	return len(g.order)
}

// InEdges returns the edges into id
func (g *BOMGraph) InEdges(id industry.TypeID) []Edge {
	return g.in[id]
}

// OutEdges returns the edges out of id
func (g *BOMGraph) OutEdges(id industry.TypeID) []Edge {
	return g.out[id]
}

// Successors lists distinct children of id in first-seen order
func (g *BOMGraph) Successors(id industry.TypeID) []industry.TypeID {
	return distinct(g.out[id], func(e Edge) industry.TypeID { return e.Child })
}

// Predecessors lists distinct parents of id in first-seen order
func (g *BOMGraph) Predecessors(id industry.TypeID) []industry.TypeID {
	return distinct(g.in[id], func(e Edge) industry.TypeID { return e.Parent })
}

// HasEdge reports whether any edge runs from parent to child
func (g *BOMGraph) HasEdge(parent, child industry.TypeID) bool {
	for _, e := range g.out[parent] {
		if e.Child == child {
			return true
		}
	}
	return false
}

// IsLeaf reports whether id has no outgoing edges
func (g *BOMGraph) IsLeaf(id industry.TypeID) bool {
	return len(g.out[id]) == 0
}

// Leaves returns the non-root nodes without outgoing edges
func (g *BOMGraph) Leaves() []industry.TypeID {
	var leaves []industry.TypeID
	for _, id := range g.order {
		if id != industry.RootTypeID && g.IsLeaf(id) {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// RootDepth is the depth of the synthetic root, one above the top layer
func (g *BOMGraph) RootDepth() int {
	return g.nodes[industry.RootTypeID].Depth
}

func distinct(edges []Edge, key func(Edge) industry.TypeID) []industry.TypeID {
	seen := make(map[industry.TypeID]struct{}, len(edges))
	out := make([]industry.TypeID, 0, len(edges))
	for _, e := range edges {
		k := key(e)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
