package services

import (
	"fmt"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// EdgeStatus tells whether on-hand stock covers one provenance index of an
// allocation edge
type EdgeStatus int

const (
	EdgeSatisfied EdgeStatus = iota + 1
	EdgePartiallyOnHand
	EdgeNotOnHand
)

func (s EdgeStatus) String() string {
	switch s {
	case EdgeSatisfied:
		return "satisfied"
	case EdgePartiallyOnHand:
		return "partially_on_hand"
	case EdgeNotOnHand:
		return "not_on_hand"
	}
	return fmt.Sprintf("EdgeStatus(%d)", int(s))
}

// Covered reports whether stock covers the edge
func (s EdgeStatus) Covered() bool {
	return s == EdgeSatisfied || s == EdgePartiallyOnHand
}

func (s EdgeStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *EdgeStatus) UnmarshalText(text []byte) error {
	for _, status := range []EdgeStatus{EdgeSatisfied, EdgePartiallyOnHand, EdgeNotOnHand} {
		if status.String() == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown edge status %q", text)
}

// AllocationEdge is one resolved parent → child demand for a single index
type AllocationEdge struct {
	Parent   industry.TypeID `json:"parent"`
	Child    industry.TypeID `json:"child"`
	Index    int             `json:"index"`
	Quantity int64           `json:"quantity"`
	// Status is only set on edges of the actual pass
	Status EdgeStatus `json:"status,omitempty"`
}

// IndexQuantity is the part of a quantity attributed to one demand line
type IndexQuantity struct {
	Index    int   `json:"index"`
	Quantity int64 `json:"quantity"`
}

func sumIndexQuantities(list []IndexQuantity) int64 {
	var total int64
	for _, iq := range list {
		total += iq.Quantity
	}
	return total
}

// ResolvedNode carries the quantities and work lists computed for one item
type ResolvedNode struct {
	TypeID          industry.TypeID       `json:"type_id"`
	Name            string                `json:"name"`
	Depth           int                   `json:"depth"`
	IsRawMaterial   bool                  `json:"is_material"`
	Activity        industry.ActivityKind `json:"activity,omitempty"`
	ProductQuantity int64                 `json:"product_quantity"`

	// ActualQuantity is still to be made or bought after stock and running
	// jobs; negative when stock exceeds need
	ActualQuantity int64 `json:"actual_quantity"`
	// TotalQuantity ignores stock and running jobs
	TotalQuantity int64 `json:"total_quantity"`
	OnHand        int64 `json:"on_hand"`
	InFlightRuns  int64 `json:"in_flight_runs"`

	ActualIndex []IndexQuantity `json:"actual_index_quantity"`
	TotalIndex  []IndexQuantity `json:"total_index_quantity"`

	WorkList      []*industry.WorkUnit `json:"work_list"`
	TotalWorkList []*industry.WorkUnit `json:"total_work_list"`

	MaxRunsPerCycle int64 `json:"max_runs_per_cycle"`
	BlueprintCount  int   `json:"blueprint_count"`
	BlueprintRuns   int64 `json:"blueprint_runs"`
	HasOriginal     bool  `json:"has_original"`

	StructureID int64   `json:"structure_id,omitempty"`
	BuyCost     float64 `json:"buy_cost"`
	EIVCost     float64 `json:"eiv_cost"`
}

// ActualRuns is the run count of the actual work list
func (n *ResolvedNode) ActualRuns() int64 {
	return sumRuns(n.WorkList)
}

// TotalRuns is the run count of the total work list
func (n *ResolvedNode) TotalRuns() int64 {
	return sumRuns(n.TotalWorkList)
}

// Missing is the positive part of ActualQuantity
func (n *ResolvedNode) Missing() int64 {
	return max(n.ActualQuantity, 0)
}

// Redundant is the surplus of stock and running jobs over the need
func (n *ResolvedNode) Redundant() int64 {
	return max(-n.ActualQuantity, 0)
}

func sumRuns(units []*industry.WorkUnit) int64 {
	var total int64
	for _, u := range units {
		total += u.Runs
	}
	return total
}
