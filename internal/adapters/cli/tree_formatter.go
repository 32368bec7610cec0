package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AraragiEro/kahuna-bot/internal/application/industry/services"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// TreeFormatter renders the bill of materials of a resolved report as a tree
type TreeFormatter struct {
	useColors bool
	maxDepth  int
}

// NewTreeFormatter creates a new tree formatter. A maxDepth of 0 prints the
// whole tree.
func NewTreeFormatter(useColors bool, maxDepth int) *TreeFormatter {
	return &TreeFormatter{
		useColors: useColors,
		maxDepth:  maxDepth,
	}
}

// treeEdge is the summed demand of one parent on one child
type treeEdge struct {
	child    industry.TypeID
	quantity int64
	covered  bool
}

type bomTree struct {
	nodes    map[industry.TypeID]*services.ResolvedNode
	children map[industry.TypeID][]treeEdge
}

func newBOMTree(report *services.ResolvedReport) *bomTree {
	t := &bomTree{
		nodes:    make(map[industry.TypeID]*services.ResolvedNode, len(report.Nodes)),
		children: map[industry.TypeID][]treeEdge{},
	}
	for _, n := range report.Nodes {
		t.nodes[n.TypeID] = n
	}

	type key struct{ parent, child industry.TypeID }
	merged := map[key]*treeEdge{}
	var order []key
	for _, e := range report.Edges {
		k := key{e.Parent, e.Child}
		edge, ok := merged[k]
		if !ok {
			edge = &treeEdge{child: e.Child, covered: true}
			merged[k] = edge
			order = append(order, k)
		}
		edge.quantity += e.Quantity
		if e.Status != 0 && !e.Status.Covered() {
			edge.covered = false
		}
	}
	for _, k := range order {
		t.children[k.parent] = append(t.children[k.parent], *merged[k])
	}
	for parent := range t.children {
		edges := t.children[parent]
		sort.SliceStable(edges, func(i, j int) bool {
			return t.name(edges[i].child) < t.name(edges[j].child)
		})
	}
	return t
}

func (t *bomTree) name(id industry.TypeID) string {
	if n, ok := t.nodes[id]; ok && n.Name != "" {
		return n.Name
	}
	return id.String()
}

// roots merges the plan lines by product, keeping first-seen order
func (t *bomTree) roots(lines []industry.DemandLine) []treeEdge {
	index := map[industry.TypeID]int{}
	var roots []treeEdge
	for _, line := range lines {
		if i, ok := index[line.TypeID]; ok {
			roots[i].quantity += line.Quantity
			continue
		}
		covered := true
		if n, ok := t.nodes[line.TypeID]; ok {
			covered = n.Missing() == 0
		}
		index[line.TypeID] = len(roots)
		roots = append(roots, treeEdge{child: line.TypeID, quantity: line.Quantity, covered: covered})
	}
	return roots
}

// FormatTree renders one branch per requested product
func (f *TreeFormatter) FormatTree(report *services.ResolvedReport) string {
	if report == nil || len(report.Lines) == 0 {
		return "(empty tree)"
	}

	tree := newBOMTree(report)
	var builder strings.Builder
	roots := tree.roots(report.Lines)
	for i, edge := range roots {
		f.formatNode(&builder, tree, edge, "", i == len(roots)-1, 1)
	}
	return builder.String()
}

// formatNode recursively formats a node and its children
func (f *TreeFormatter) formatNode(builder *strings.Builder, tree *bomTree, edge treeEdge, prefix string, isLast bool, depth int) {
	linePrefix := prefix + "├── "
	childPrefix := prefix + "│   "
	if isLast {
		linePrefix = prefix + "└── "
		childPrefix = prefix + "    "
	}

	node := tree.nodes[edge.child]
	builder.WriteString(fmt.Sprintf("%s%s %s [%s%s%s] x%d%s\n",
		linePrefix,
		f.getStatusIcon(edge),
		tree.name(edge.child),
		f.getKindColor(node),
		kindCode(node),
		f.colorReset(),
		edge.quantity,
		f.getRunsText(node),
	))

	if f.maxDepth > 0 && depth >= f.maxDepth {
		return
	}
	children := tree.children[edge.child]
	for i, child := range children {
		f.formatNode(builder, tree, child, childPrefix, i == len(children)-1, depth+1)
	}
}

// getStatusIcon marks whether stock covers the edge
func (f *TreeFormatter) getStatusIcon(edge treeEdge) string {
	if edge.covered {
		return "[✓]"
	}
	return "[ ]"
}

func kindCode(node *services.ResolvedNode) string {
	if node == nil || node.IsRawMaterial {
		return "BUY"
	}
	return node.Activity.Code()
}

// getKindColor returns ANSI color code for the acquisition kind
func (f *TreeFormatter) getKindColor(node *services.ResolvedNode) string {
	if !f.useColors {
		return ""
	}
	if node == nil || node.IsRawMaterial {
		return "\033[32m" // Green
	}
	return "\033[33m" // Yellow
}

func (f *TreeFormatter) getRunsText(node *services.ResolvedNode) string {
	if node == nil || node.IsRawMaterial {
		return ""
	}
	return fmt.Sprintf(", %d/%d runs", node.ActualRuns(), node.TotalRuns())
}

// colorReset returns ANSI reset code
func (f *TreeFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}

// FormatTreeSummary creates a compact summary of the tree
func (f *TreeFormatter) FormatTreeSummary(report *services.ResolvedReport) string {
	if report == nil {
		return "No dependency tree"
	}

	var built, raw, depth int
	for _, n := range report.Nodes {
		if n.TypeID == industry.RootTypeID {
			continue
		}
		if n.IsRawMaterial {
			raw++
		} else {
			built++
		}
		depth = max(depth, n.Depth)
	}

	return fmt.Sprintf("Tree: %d items (%d built, %d bought), depth=%d", built+raw, built, raw, depth)
}
