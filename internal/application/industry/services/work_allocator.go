package services

import (
	"math"
	"sort"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// VoidHorizonSeconds caps the run count of a single void unit at roughly one
// month of continuous production
const VoidHorizonSeconds int64 = 30 * 24 * 60 * 60

// CycleSource returns the job length in seconds a plan schedules for activity
type CycleSource interface {
	CycleSeconds(activity industry.ActivityKind) int64
}

// Allocation is the outcome of splitting a run need into work units
type Allocation struct {
	Units           []*industry.WorkUnit
	MaxRunsPerCycle int64
	// BlueprintCount counts usable copies plus distinct original groups
	BlueprintCount int
	// BlueprintRuns is the sum of runs left on usable copies
	BlueprintRuns int64
	HasOriginal   bool
}

// TotalRuns sums the runs of all units
func (a *Allocation) TotalRuns() int64 {
	var total int64
	for _, u := range a.Units {
		total += u.Runs
	}
	return total
}

// WorkAllocator turns a run need into work units using owned originals
// first, then copies, then void units
type WorkAllocator struct {
	catalog    *industry.Catalog
	efficiency *EfficiencyResolver
	snapshot   *industry.InventorySnapshot
	cycles     CycleSource
	horizon    int64
}

// NewWorkAllocator creates an allocator for one resolution
func NewWorkAllocator(
	catalog *industry.Catalog,
	efficiency *EfficiencyResolver,
	snapshot *industry.InventorySnapshot,
	cycles CycleSource,
) *WorkAllocator {
	return &WorkAllocator{
		catalog:    catalog,
		efficiency: efficiency,
		snapshot:   snapshot,
		cycles:     cycles,
		horizon:    VoidHorizonSeconds,
	}
}

// WithVoidHorizon overrides the void unit horizon in seconds
func (a *WorkAllocator) WithVoidHorizon(seconds int64) *WorkAllocator {
	if seconds > 0 {
		a.horizon = seconds
	}
	return a
}

type originalGroup struct {
	materialLevel int
	timeLevel     int
	locationID    int64
	count         int64
}

// Allocate splits runs of product into work units. Blueprint statistics are
// filled even when no runs are needed.
func (a *WorkAllocator) Allocate(product industry.TypeID, runs int64) (*Allocation, error) {
	spec, ok := a.catalog.Blueprint(product)
	if !ok {
		return &Allocation{}, nil
	}
	facility, err := a.efficiency.Resolve(product)
	if err != nil {
		return nil, err
	}
	structureID := facility.Structure.ID

	productionTime := spec.ProductionTime
	if productionTime <= 0 {
		productionTime = 1
	}
	cycleSeconds := a.cycles.CycleSeconds(facility.Activity)
	maxRuns := int64(math.Ceil((float64(cycleSeconds) / facility.TimeEff) / float64(productionTime)))
	if maxRuns < 1 {
		maxRuns = 1
	}

	var (
		copies []industry.BlueprintAsset
		groups []*originalGroup
	)
	groupIndex := map[[3]int64]*originalGroup{}
	for _, bp := range a.snapshot.AvailableBlueprints(spec.BlueprintTypeID, structureID) {
		switch {
		case bp.IsCopy():
			copies = append(copies, bp)
		case bp.IsOriginal():
			key := [3]int64{int64(bp.MaterialEfficiency), int64(bp.TimeEfficiency), bp.LocationID}
			g, ok := groupIndex[key]
			if !ok {
				g = &originalGroup{materialLevel: bp.MaterialEfficiency, timeLevel: bp.TimeEfficiency, locationID: bp.LocationID}
				groupIndex[key] = g
				groups = append(groups, g)
			}
			g.count += bp.OriginalCount()
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].materialLevel > groups[j].materialLevel })

	alloc := &Allocation{
		MaxRunsPerCycle: maxRuns,
		BlueprintCount:  len(copies) + len(groups),
		HasOriginal:     len(groups) > 0,
	}
	for _, bp := range copies {
		alloc.BlueprintRuns += bp.Runs
	}

	need := runs
	if need <= 0 {
		return alloc, nil
	}

	unit := func(runs int64, materialLevel, timeLevel int, source industry.BlueprintSource, itemID, locationID int64) {
		me, te := facility.ForBlueprint(materialLevel, timeLevel)
		alloc.Units = append(alloc.Units, &industry.WorkUnit{
			TypeID:          product,
			Source:          source,
			BlueprintItemID: itemID,
			MaterialEff:     me,
			TimeEff:         te,
			Runs:            runs,
			LocationID:      locationID,
			StructureID:     structureID,
		})
		need -= runs
	}

	// originals: one full cycle per original, a shorter final job ends it
	for _, g := range groups {
		for g.count > 0 && need > 0 {
			if need >= maxRuns {
				unit(maxRuns, g.materialLevel, g.timeLevel, industry.SourceOriginal, 0, g.locationID)
				g.count--
				continue
			}
			unit(need, g.materialLevel, g.timeLevel, industry.SourceOriginal, 0, g.locationID)
		}
	}

	// copies: best ME first, whole copies that fit; then the smallest
	// remaining copies fill the tail
	sort.SliceStable(copies, func(i, j int) bool {
		if copies[i].MaterialEfficiency != copies[j].MaterialEfficiency {
			return copies[i].MaterialEfficiency > copies[j].MaterialEfficiency
		}
		return copies[i].Runs > copies[j].Runs
	})
	used := make(map[int64]struct{}, len(copies))
	for _, bp := range copies {
		if need > 0 && need >= bp.Runs {
			unit(bp.Runs, bp.MaterialEfficiency, bp.TimeEfficiency, industry.SourceCopy, bp.ItemID, bp.LocationID)
			used[bp.ItemID] = struct{}{}
		}
	}
	sort.SliceStable(copies, func(i, j int) bool { return copies[i].Runs < copies[j].Runs })
	for _, bp := range copies {
		if _, ok := used[bp.ItemID]; ok || need <= 0 {
			continue
		}
		unit(min(bp.Runs, need), bp.MaterialEfficiency, bp.TimeEfficiency, industry.SourceCopy, bp.ItemID, bp.LocationID)
	}

	// void units cover whatever owned blueprints could not
	if need > 0 {
		voidTE := facility.TimeEff * facility.DefaultTimeEff
		horizonRuns := int64(math.Ceil(float64(a.horizon) / (voidTE * float64(productionTime))))
		perUnit := a.catalog.MaxParallelRuns(product)
		if perUnit <= 0 || perUnit > horizonRuns {
			perUnit = horizonRuns
		}
		if perUnit < 1 {
			perUnit = 1
		}
		me, te := facility.ForVoid()
		for need > 0 {
			runs := min(perUnit, need)
			alloc.Units = append(alloc.Units, &industry.WorkUnit{
				TypeID:      product,
				Source:      industry.SourceVoid,
				MaterialEff: me,
				TimeEff:     te,
				Runs:        runs,
				LocationID:  structureID,
				StructureID: structureID,
				Synthetic:   true,
			})
			need -= runs
		}
	}

	sort.SliceStable(alloc.Units, func(i, j int) bool { return alloc.Units[i].Runs < alloc.Units[j].Runs })
	return alloc, nil
}
