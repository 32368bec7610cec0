package industry

import "fmt"

// ErrPlanNotFound indicates the user has no plan with that name
type ErrPlanNotFound struct {
	UserID string
	Name   string
}

func (e *ErrPlanNotFound) Error() string {
	return fmt.Sprintf("plan %q not found", e.Name)
}

// ErrPlanExists indicates a plan name is already taken
type ErrPlanExists struct {
	Name string
}

func (e *ErrPlanExists) Error() string {
	return fmt.Sprintf("plan %q already exists", e.Name)
}

// ErrPlanLimitReached indicates the user owns the maximum number of plans
type ErrPlanLimitReached struct {
	Limit int
}

func (e *ErrPlanLimitReached) Error() string {
	return fmt.Sprintf("you can only create %d plans at most", e.Limit)
}

// ErrLineIndexOutOfRange indicates a 1-based demand line index outside the plan
type ErrLineIndexOutOfRange struct {
	Index int
	Lines int
}

func (e *ErrLineIndexOutOfRange) Error() string {
	return fmt.Sprintf("index %d out of range (plan has %d lines)", e.Index, e.Lines)
}

// ErrInvalidQuantity indicates a non-positive demand quantity
type ErrInvalidQuantity struct {
	Quantity int64
}

func (e *ErrInvalidQuantity) Error() string {
	return fmt.Sprintf("quantity must be positive, got %d", e.Quantity)
}

// ErrUnknownItem indicates an item name missing from the reference data
type ErrUnknownItem struct {
	Name string
}

func (e *ErrUnknownItem) Error() string {
	return fmt.Sprintf("unknown item %q", e.Name)
}

// ErrMatcherNotFound indicates the user has no matcher with that name
type ErrMatcherNotFound struct {
	Name string
}

func (e *ErrMatcherNotFound) Error() string {
	return fmt.Sprintf("matcher %q not found", e.Name)
}

// ErrMatcherKindMismatch indicates a matcher used in the wrong policy slot
type ErrMatcherKindMismatch struct {
	Name     string
	Expected MatcherKind
	Actual   MatcherKind
}

func (e *ErrMatcherKindMismatch) Error() string {
	return fmt.Sprintf("matcher %q is a %s matcher, expected %s", e.Name, e.Actual, e.Expected)
}

// ErrInvalidMatcherKind indicates an unknown matcher kind name
type ErrInvalidMatcherKind struct {
	Kind string
}

func (e *ErrInvalidMatcherKind) Error() string {
	return fmt.Sprintf("matcher kind %q must be one of bp, structure, prod_block", e.Kind)
}

// ErrInvalidRuleKey indicates an unknown rule key name
type ErrInvalidRuleKey struct {
	Key string
}

func (e *ErrInvalidRuleKey) Error() string {
	return fmt.Sprintf("rule key %q must be one of bp, market_group, group, meta, category", e.Key)
}

// ErrInvalidRigLevel indicates a rig level outside 0..2
type ErrInvalidRigLevel struct {
	Kind  string
	Level int
}

func (e *ErrInvalidRigLevel) Error() string {
	return fmt.Sprintf("%s rig level must be 0, 1 or 2, got %d", e.Kind, e.Level)
}

// ErrStructureNotFound indicates an unknown structure id
type ErrStructureNotFound struct {
	ID int64
}

func (e *ErrStructureNotFound) Error() string {
	return fmt.Sprintf("structure %d not found", e.ID)
}

// ErrNoProductionContainers indicates the owner has no usable storage
type ErrNoProductionContainers struct {
	UserID string
}

func (e *ErrNoProductionContainers) Error() string {
	return "no production containers configured (tag containers as manu or reac)"
}

// ErrCircularDependency indicates reference data where an item requires itself
type ErrCircularDependency struct {
	TypeID TypeID
}

func (e *ErrCircularDependency) Error() string {
	return fmt.Sprintf("circular material dependency at type %s", e.TypeID)
}
