package industry

import (
	"fmt"
	"sort"
)

// MatcherKind tags the three policy variants a plan refers to
type MatcherKind string

const (
	MatcherKindBlueprint       MatcherKind = "bp"
	MatcherKindStructure       MatcherKind = "structure"
	MatcherKindProductionBlock MatcherKind = "prod_block"
)

// ParseMatcherKind validates a kind name
func ParseMatcherKind(s string) (MatcherKind, error) {
	switch MatcherKind(s) {
	case MatcherKindBlueprint, MatcherKindStructure, MatcherKindProductionBlock:
		return MatcherKind(s), nil
	}
	return "", &ErrInvalidMatcherKind{Kind: s}
}

// RuleKey selects which item attribute a rule matches on
type RuleKey string

const (
	RuleKeyBlueprint   RuleKey = "bp"
	RuleKeyMarketGroup RuleKey = "market_group"
	RuleKeyGroup       RuleKey = "group"
	RuleKeyMeta        RuleKey = "meta"
	RuleKeyCategory    RuleKey = "category"
)

// RuleKeys in lookup order, first match wins
var RuleKeys = []RuleKey{RuleKeyBlueprint, RuleKeyMarketGroup, RuleKeyGroup, RuleKeyMeta, RuleKeyCategory}

// ParseRuleKey validates a rule key name
func ParseRuleKey(s string) (RuleKey, error) {
	for _, key := range RuleKeys {
		if string(key) == s {
			return key, nil
		}
	}
	return "", &ErrInvalidRuleKey{Key: s}
}

// RuleTable maps attribute names to a value per rule key
type RuleTable[T any] struct {
	Blueprint   map[string]T `json:"bp" yaml:"bp"`
	MarketGroup map[string]T `json:"market_group" yaml:"market_group"`
	Group       map[string]T `json:"group" yaml:"group"`
	Meta        map[string]T `json:"meta" yaml:"meta"`
	Category    map[string]T `json:"category" yaml:"category"`
}

// NewRuleTable returns a table with every key initialised
func NewRuleTable[T any]() RuleTable[T] {
	return RuleTable[T]{
		Blueprint:   map[string]T{},
		MarketGroup: map[string]T{},
		Group:       map[string]T{},
		Meta:        map[string]T{},
		Category:    map[string]T{},
	}
}

func (r *RuleTable[T]) section(key RuleKey) map[string]T {
	switch key {
	case RuleKeyBlueprint:
		if r.Blueprint == nil {
			r.Blueprint = map[string]T{}
		}
		return r.Blueprint
	case RuleKeyMarketGroup:
		if r.MarketGroup == nil {
			r.MarketGroup = map[string]T{}
		}
		return r.MarketGroup
	case RuleKeyGroup:
		if r.Group == nil {
			r.Group = map[string]T{}
		}
		return r.Group
	case RuleKeyMeta:
		if r.Meta == nil {
			r.Meta = map[string]T{}
		}
		return r.Meta
	case RuleKeyCategory:
		if r.Category == nil {
			r.Category = map[string]T{}
		}
		return r.Category
	}
	return nil
}

// Set adds or replaces a rule
func (r *RuleTable[T]) Set(key RuleKey, name string, value T) error {
	section := r.section(key)
	if section == nil {
		return &ErrInvalidRuleKey{Key: string(key)}
	}
	section[name] = value
	return nil
}

// Unset removes a rule, reporting whether it existed
func (r *RuleTable[T]) Unset(key RuleKey, name string) bool {
	section := r.section(key)
	if _, ok := section[name]; !ok {
		return false
	}
	delete(section, name)
	return true
}

// Match looks the item up by blueprint name, market group chain, group,
// meta and category, in that order. Market groups are tried in the item's
// own order, nearest group first.
func (r RuleTable[T]) Match(item ItemInfo, blueprintName string) (T, RuleKey, bool) {
	if v, ok := r.Blueprint[blueprintName]; ok && blueprintName != "" {
		return v, RuleKeyBlueprint, true
	}
	for _, group := range item.MarketGroups {
		if v, ok := r.MarketGroup[group]; ok {
			return v, RuleKeyMarketGroup, true
		}
	}
	if v, ok := r.Group[item.GroupName]; ok {
		return v, RuleKeyGroup, true
	}
	if v, ok := r.Meta[item.MetaName]; ok {
		return v, RuleKeyMeta, true
	}
	if v, ok := r.Category[item.CategoryName]; ok {
		return v, RuleKeyCategory, true
	}
	var zero T
	return zero, "", false
}

// Len counts rules across all keys
func (r RuleTable[T]) Len() int {
	return len(r.Blueprint) + len(r.MarketGroup) + len(r.Group) + len(r.Meta) + len(r.Category)
}

// Names lists the rule names under key, sorted
func (r RuleTable[T]) Names(key RuleKey) []string {
	section := r.section(key)
	names := make([]string, 0, len(section))
	for name := range section {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a single rule value
func (r RuleTable[T]) Get(key RuleKey, name string) (T, bool) {
	v, ok := r.section(key)[name]
	return v, ok
}

// Matcher is a named, user-owned policy
type Matcher interface {
	MatcherName() string
	MatcherOwner() string
	Kind() MatcherKind
}

// MatcherHeader carries the identity shared by every matcher variant
type MatcherHeader struct {
	Name   string
	UserID string
}

func (h MatcherHeader) MatcherName() string  { return h.Name }
func (h MatcherHeader) MatcherOwner() string { return h.UserID }

// BlueprintEfficiency is a multiplier pair, 1 = no bonus
type BlueprintEfficiency struct {
	MaterialEff float64 `json:"mater_eff" yaml:"mater_eff"`
	TimeEff     float64 `json:"time_eff" yaml:"time_eff"`
}

// NoBonus is the pair used when no rule matches
var NoBonus = BlueprintEfficiency{MaterialEff: 1, TimeEff: 1}

// EfficiencyFromLevels converts research percentages (e.g. ME 10, TE 20)
// into multipliers rounded to two decimals
func EfficiencyFromLevels(materialLevel, timeLevel int) (BlueprintEfficiency, error) {
	if materialLevel < 0 || materialLevel > 100 || timeLevel < 0 || timeLevel > 100 {
		return BlueprintEfficiency{}, fmt.Errorf("efficiency levels must be between 0 and 100, got %d/%d", materialLevel, timeLevel)
	}
	return BlueprintEfficiency{
		MaterialEff: round2(1 - float64(materialLevel)/100),
		TimeEff:     round2(1 - float64(timeLevel)/100),
	}, nil
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}

// BlueprintMatcher assigns the default blueprint efficiency used for units
// that have no physical blueprint
type BlueprintMatcher struct {
	MatcherHeader
	Rules RuleTable[BlueprintEfficiency]
}

func NewBlueprintMatcher(name, userID string) *BlueprintMatcher {
	return &BlueprintMatcher{MatcherHeader: MatcherHeader{Name: name, UserID: userID}, Rules: NewRuleTable[BlueprintEfficiency]()}
}

func (m *BlueprintMatcher) Kind() MatcherKind { return MatcherKindBlueprint }

// DefaultEfficiency returns the matched pair or NoBonus
func (m *BlueprintMatcher) DefaultEfficiency(item ItemInfo, blueprintName string) BlueprintEfficiency {
	if eff, _, ok := m.Rules.Match(item, blueprintName); ok {
		return eff
	}
	return NoBonus
}

// StructureMatcher assigns the facility an item is built in
type StructureMatcher struct {
	MatcherHeader
	Rules RuleTable[int64]
}

func NewStructureMatcher(name, userID string) *StructureMatcher {
	return &StructureMatcher{MatcherHeader: MatcherHeader{Name: name, UserID: userID}, Rules: NewRuleTable[int64]()}
}

func (m *StructureMatcher) Kind() MatcherKind { return MatcherKindStructure }

// Allocate returns the structure id for item
func (m *StructureMatcher) Allocate(item ItemInfo, blueprintName string) (int64, bool) {
	id, _, ok := m.Rules.Match(item, blueprintName)
	return id, ok
}

// ProductionBlockMatcher marks items that are bought instead of built
type ProductionBlockMatcher struct {
	MatcherHeader
	Rules RuleTable[int]
}

func NewProductionBlockMatcher(name, userID string) *ProductionBlockMatcher {
	return &ProductionBlockMatcher{MatcherHeader: MatcherHeader{Name: name, UserID: userID}, Rules: NewRuleTable[int]()}
}

func (m *ProductionBlockMatcher) Kind() MatcherKind { return MatcherKindProductionBlock }

// Blocked reports whether item must not be expanded. Items matching no rule
// are not blocked.
func (m *ProductionBlockMatcher) Blocked(item ItemInfo, blueprintName string) bool {
	_, _, ok := m.Rules.Match(item, blueprintName)
	return ok
}

// NewMatcher creates an empty matcher of kind
func NewMatcher(kind MatcherKind, name, userID string) (Matcher, error) {
	switch kind {
	case MatcherKindBlueprint:
		return NewBlueprintMatcher(name, userID), nil
	case MatcherKindStructure:
		return NewStructureMatcher(name, userID), nil
	case MatcherKindProductionBlock:
		return NewProductionBlockMatcher(name, userID), nil
	}
	return nil, &ErrInvalidMatcherKind{Kind: string(kind)}
}

// PlanMatchers is the typed policy set a resolution runs with
type PlanMatchers struct {
	Blueprint       *BlueprintMatcher
	Structure       *StructureMatcher
	ProductionBlock *ProductionBlockMatcher
}

// StructureIDs lists every structure the matcher can allocate, sorted
func (m *StructureMatcher) StructureIDs() []int64 {
	seen := map[int64]struct{}{}
	for _, section := range []map[string]int64{m.Rules.Blueprint, m.Rules.MarketGroup, m.Rules.Group, m.Rules.Meta, m.Rules.Category} {
		for _, id := range section {
			seen[id] = struct{}{}
		}
	}
	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
