package config

import "time"

// IndustryConfig holds production planning settings
type IndustryConfig struct {
	// How long a resolved report is served from cache
	ReportCacheTTL time.Duration `mapstructure:"report_cache_ttl" validate:"required"`

	// Maximum number of plans per user
	PlanLimit int `mapstructure:"plan_limit" validate:"min=1"`

	// Parallel resolutions in a cost batch
	CostConcurrency int `mapstructure:"cost_concurrency" validate:"min=1,max=256"`

	// Longest a single job without a physical blueprint may run
	VoidHorizon time.Duration `mapstructure:"void_horizon" validate:"required,whole_hours"`

	// Assumed time multipliers from character skills
	Skills SkillsConfig `mapstructure:"skills"`
}

// SkillsConfig holds skill time multipliers, 1 means no bonus
type SkillsConfig struct {
	ManufacturingTimeEff float64 `mapstructure:"manufacturing_time_eff" validate:"gt=0,lte=1"`
	ReactionTimeEff      float64 `mapstructure:"reaction_time_eff" validate:"gt=0,lte=1"`
}
