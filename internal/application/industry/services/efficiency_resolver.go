package services

import (
	"fmt"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

// StructureLookup finds facility records by id
type StructureLookup interface {
	Structure(id int64) (*industry.Structure, bool)
}

// EfficiencyResolver composes facility, rig, skill and default blueprint
// multipliers for a product. Results are memoized per resolution.
type EfficiencyResolver struct {
	catalog    *industry.Catalog
	matchers   industry.PlanMatchers
	structures StructureLookup
	skills     industry.SkillProfile
	memo       map[industry.TypeID]industry.FacilityEfficiency
}

// NewEfficiencyResolver creates a resolver for one resolution
func NewEfficiencyResolver(
	catalog *industry.Catalog,
	matchers industry.PlanMatchers,
	structures StructureLookup,
	skills industry.SkillProfile,
) *EfficiencyResolver {
	return &EfficiencyResolver{
		catalog:    catalog,
		matchers:   matchers,
		structures: structures,
		skills:     skills,
		memo:       make(map[industry.TypeID]industry.FacilityEfficiency),
	}
}

// Resolve returns the facility efficiency used to build product
func (r *EfficiencyResolver) Resolve(product industry.TypeID) (industry.FacilityEfficiency, error) {
	if eff, ok := r.memo[product]; ok {
		return eff, nil
	}

	activity, ok := r.catalog.Activity(product)
	if !ok {
		return industry.FacilityEfficiency{}, shared.NewExternalDataUnavailableError("blueprint", product.String())
	}

	item, ok := r.catalog.Item(product)
	if !ok {
		item = industry.ItemInfo{TypeID: product}
	}
	blueprintName := r.catalog.BlueprintName(product)

	if r.matchers.Structure == nil {
		return industry.FacilityEfficiency{}, shared.NewPolicyUnsetError("structure", "no structure matcher configured")
	}
	structureID, ok := r.matchers.Structure.Allocate(item, blueprintName)
	if !ok {
		return industry.FacilityEfficiency{}, shared.NewPolicyUnsetError(
			"structure",
			fmt.Sprintf("no structure assigned for %s (matcher %s)", r.catalog.Name(product), r.matchers.Structure.Name),
		)
	}
	structure, ok := r.structures.Structure(structureID)
	if !ok {
		return industry.FacilityEfficiency{}, shared.NewExternalDataUnavailableError("structure", fmt.Sprintf("%d", structureID))
	}

	bonus := structure.Bonus()
	defaults := industry.NoBonus
	if r.matchers.Blueprint != nil {
		defaults = r.matchers.Blueprint.DefaultEfficiency(item, blueprintName)
	}

	eff := industry.FacilityEfficiency{
		Structure:          structure,
		Activity:           activity,
		MaterialEff:        bonus.MaterialEff * structure.RigMaterialEff(),
		TimeEff:            bonus.TimeEff * structure.RigTimeEff() * r.skills.TimeEff(activity),
		DefaultMaterialEff: defaults.MaterialEff,
		DefaultTimeEff:     defaults.TimeEff,
	}
	r.memo[product] = eff
	return eff, nil
}
