package industry

// StructureBonus holds the hull bonuses of a structure type
type StructureBonus struct {
	MaterialEff float64
	TimeEff     float64
	// EIVCostReduction is the job-cost reduction applied to the system cost index
	EIVCostReduction float64
}

var structureBonuses = map[TypeID]StructureBonus{
	StructureRaitaru: {MaterialEff: 0.99, TimeEff: 0.85, EIVCostReduction: 0.03},
	StructureAzbel:   {MaterialEff: 0.99, TimeEff: 0.80, EIVCostReduction: 0.04},
	StructureSotiyo:  {MaterialEff: 0.99, TimeEff: 0.70, EIVCostReduction: 0.05},
	StructureAthanor: {MaterialEff: 1, TimeEff: 1},
	StructureTatara:  {MaterialEff: 1, TimeEff: 0.75},
}

var (
	rigMaterialEff = [MaxRigLevel + 1]float64{1, 0.98, 0.976}
	rigTimeEff     = [MaxRigLevel + 1]float64{1, 0.80, 0.76}
)

// SkillProfile is the assumed time multiplier from character skills
type SkillProfile struct {
	ManufacturingTimeEff float64
	ReactionTimeEff      float64
}

// MaxSkills assumes Industry V + Advanced Industry V and Reactions V
var MaxSkills = SkillProfile{
	ManufacturingTimeEff: 0.68,
	ReactionTimeEff:      0.80,
}

// TimeEff returns the skill multiplier for activity
func (p SkillProfile) TimeEff(activity ActivityKind) float64 {
	if activity == ActivityReaction {
		return p.ReactionTimeEff
	}
	return p.ManufacturingTimeEff
}

// Job cost surcharges applied on top of the system cost index
const (
	FacilityTaxRate   = 0.04
	SCCSurchargeRate  = 0.0001
	AlphaCloneTaxRate = 0.0005

	// DefaultCostIndex is used when a solar system has no published index
	DefaultCostIndex = 0.14
)

// JobCostRate is the fraction of estimated item value charged for a job
func JobCostRate(costIndex, eivCostReduction float64) float64 {
	return (FacilityTaxRate + SCCSurchargeRate + AlphaCloneTaxRate) + costIndex*(1-eivCostReduction)
}

// FacilityEfficiency is the composed efficiency of a facility for one product
type FacilityEfficiency struct {
	Structure   *Structure
	Activity    ActivityKind
	MaterialEff float64
	TimeEff     float64
	// Default pair for units with no physical blueprint
	DefaultMaterialEff float64
	DefaultTimeEff     float64
}

// ForBlueprint scales the facility efficiency by a blueprint's ME/TE levels
func (f FacilityEfficiency) ForBlueprint(materialLevel, timeLevel int) (float64, float64) {
	return f.MaterialEff * (1 - float64(materialLevel)/100), f.TimeEff * (1 - float64(timeLevel)/100)
}

// ForVoid applies the default blueprint pair
func (f FacilityEfficiency) ForVoid() (float64, float64) {
	return f.MaterialEff * f.DefaultMaterialEff, f.TimeEff * f.DefaultTimeEff
}
