package industry

import "math"

// BlueprintSource tells where the runs of a work unit come from
type BlueprintSource int

const (
	// SourceVoid is a planning placeholder: no owned blueprint covers the runs
	SourceVoid BlueprintSource = iota
	SourceCopy
	SourceOriginal
)

func (s BlueprintSource) String() string {
	switch s {
	case SourceCopy:
		return "copy"
	case SourceOriginal:
		return "original"
	default:
		return "void"
	}
}

// WorkUnit is one job (a chunk of runs) of a node's work list
type WorkUnit struct {
	TypeID          TypeID          `json:"type_id"`
	Source          BlueprintSource `json:"source"`
	BlueprintItemID int64           `json:"blueprint_item_id,omitempty"`
	MaterialEff     float64         `json:"material_efficiency"`
	TimeEff         float64         `json:"time_efficiency"`
	Runs            int64           `json:"runs"`
	LocationID      int64           `json:"location_id"`
	StructureID     int64           `json:"structure_id"`
	Synthetic       bool            `json:"is_synthetic"`
	// Available is set when on-hand stock covers the unit's materials
	Available bool `json:"available"`
}

// MaterialDemand is the amount of one material consumed by runs of a
// blueprint at efficiency eff. Single-unit inputs are never reduced.
func MaterialDemand(perRun int64, runs int64, eff float64) int64 {
	if perRun == 1 {
		eff = 1
	}
	return CeilQuantity(float64(runs) * float64(perRun) * eff)
}

// MaterialNeed lists what the unit consumes
func (w *WorkUnit) MaterialNeed(materials []Material) []Material {
	need := make([]Material, 0, len(materials))
	for _, m := range materials {
		need = append(need, Material{TypeID: m.TypeID, Quantity: MaterialDemand(m.Quantity, w.Runs, w.MaterialEff)})
	}
	return need
}

// CeilQuantity rounds a quantity up, absorbing float noise such as 90.00000000000001
func CeilQuantity(f float64) int64 {
	return int64(math.Ceil(f - 1e-9))
}

// CeilDiv is integer ceiling division for positive divisors
func CeilDiv(a, b int64) int64 {
	if b <= 0 {
		return a
	}
	q := a / b
	if a%b != 0 && (a > 0) == (b > 0) {
		q++
	}
	return q
}
