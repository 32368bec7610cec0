package industry

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

const (
	// MaxPlansPerUser bounds how many plans one user may own
	MaxPlansPerUser = 5

	// DefaultCycleHours is the job length a plan schedules originals for
	DefaultCycleHours = 24
)

// DemandLine is one requested product of a plan
type DemandLine struct {
	Product  string `json:"product"`
	TypeID   TypeID `json:"type_id"`
	Quantity int64  `json:"quantity"`
}

// Plan is a user's named production request together with the policies used
// to resolve it. Resolution results are never stored on the plan.
type Plan struct {
	UserID                  string
	Name                    string
	BlueprintMatcher        string
	StructureMatcher        string
	ProductionBlockMatcher  string
	Lines                   []DemandLine
	ManufacturingCycleHours int
	ReactionCycleHours      int
	ExcludedContainers      []int64
	CreatedAt               time.Time
	UpdatedAt               time.Time

	clock shared.Clock
}

// NewPlan creates an empty plan with default cycle times
func NewPlan(userID, name, blueprintMatcher, structureMatcher, productionBlockMatcher string, clock shared.Clock) (*Plan, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, shared.NewValidationError("user_id", "required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("name", "required")
	}
	if blueprintMatcher == "" || structureMatcher == "" || productionBlockMatcher == "" {
		return nil, shared.NewPolicyUnsetError("plan", "blueprint, structure and production-block matchers are all required")
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}

	now := clock.Now()
	return &Plan{
		UserID:                  userID,
		Name:                    name,
		BlueprintMatcher:        blueprintMatcher,
		StructureMatcher:        structureMatcher,
		ProductionBlockMatcher:  productionBlockMatcher,
		Lines:                   []DemandLine{},
		ManufacturingCycleHours: DefaultCycleHours,
		ReactionCycleHours:      DefaultCycleHours,
		ExcludedContainers:      []int64{},
		CreatedAt:               now,
		UpdatedAt:               now,
		clock:                   clock,
	}, nil
}

// SetClock attaches a clock to a plan loaded from storage
func (p *Plan) SetClock(clock shared.Clock) {
	p.clock = clock
}

func (p *Plan) touch() {
	if p.clock == nil {
		p.clock = shared.NewRealClock()
	}
	p.UpdatedAt = p.clock.Now()
}

// AddLine appends a demand line
func (p *Plan) AddLine(product string, typeID TypeID, quantity int64) error {
	if quantity <= 0 {
		return &ErrInvalidQuantity{Quantity: quantity}
	}
	p.Lines = append(p.Lines, DemandLine{Product: product, TypeID: typeID, Quantity: quantity})
	p.touch()
	return nil
}

// DeleteLines removes lines by 1-based index. All indexes are checked before
// anything is removed; removal runs from the highest index down so earlier
// positions stay valid.
func (p *Plan) DeleteLines(indexes []int) error {
	if len(indexes) == 0 {
		return shared.NewValidationError("indexes", "at least one index is required")
	}
	unique := make(map[int]struct{}, len(indexes))
	for _, idx := range indexes {
		if idx < 1 || idx > len(p.Lines) {
			return &ErrLineIndexOutOfRange{Index: idx, Lines: len(p.Lines)}
		}
		unique[idx] = struct{}{}
	}

	ordered := make([]int, 0, len(unique))
	for idx := range unique {
		ordered = append(ordered, idx)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ordered)))

	for _, idx := range ordered {
		p.Lines = append(p.Lines[:idx-1], p.Lines[idx:]...)
	}
	p.touch()
	return nil
}

// ChangeLineIndex moves the line at from to position to (both 1-based)
func (p *Plan) ChangeLineIndex(from, to int) error {
	if from < 1 || from > len(p.Lines) {
		return &ErrLineIndexOutOfRange{Index: from, Lines: len(p.Lines)}
	}
	if to < 1 || to > len(p.Lines) {
		return &ErrLineIndexOutOfRange{Index: to, Lines: len(p.Lines)}
	}

	line := p.Lines[from-1]
	p.Lines = append(p.Lines[:from-1], p.Lines[from:]...)
	p.Lines = append(p.Lines[:to-1], append([]DemandLine{line}, p.Lines[to-1:]...)...)
	p.touch()
	return nil
}

// SetCycleHours sets the job length for one activity kind
func (p *Plan) SetCycleHours(activity ActivityKind, hours int) error {
	if hours <= 0 {
		return shared.NewValidationError("hours", fmt.Sprintf("must be positive, got %d", hours))
	}
	switch activity {
	case ActivityManufacturing:
		p.ManufacturingCycleHours = hours
	case ActivityReaction:
		p.ReactionCycleHours = hours
	default:
		return shared.NewValidationError("activity", fmt.Sprintf("unsupported activity %s", activity))
	}
	p.touch()
	return nil
}

// CycleSeconds returns the cycle length of activity in seconds
func (p *Plan) CycleSeconds(activity ActivityKind) int64 {
	hours := p.ManufacturingCycleHours
	if activity == ActivityReaction {
		hours = p.ReactionCycleHours
	}
	if hours <= 0 {
		hours = DefaultCycleHours
	}
	return int64(hours) * int64(time.Hour/time.Second)
}

// HideContainer excludes a storage location from the plan's inventory scope
func (p *Plan) HideContainer(locationID int64) {
	if p.IsHidden(locationID) {
		return
	}
	p.ExcludedContainers = append(p.ExcludedContainers, locationID)
	p.touch()
}

// UnhideContainer puts a storage location back into scope
func (p *Plan) UnhideContainer(locationID int64) bool {
	for i, id := range p.ExcludedContainers {
		if id == locationID {
			p.ExcludedContainers = append(p.ExcludedContainers[:i], p.ExcludedContainers[i+1:]...)
			p.touch()
			return true
		}
	}
	return false
}

// IsHidden reports whether locationID is excluded
func (p *Plan) IsHidden(locationID int64) bool {
	for _, id := range p.ExcludedContainers {
		if id == locationID {
			return true
		}
	}
	return false
}

// WithLines returns a copy of the plan resolving only lines
func (p *Plan) WithLines(lines []DemandLine) *Plan {
	cp := *p
	cp.Lines = append([]DemandLine(nil), lines...)
	cp.ExcludedContainers = append([]int64(nil), p.ExcludedContainers...)
	return &cp
}

// Key identifies the plan across users
func (p *Plan) Key() string {
	return p.UserID + "/" + p.Name
}

// Describe renders the plan for chat/CLI output
func (p *Plan) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "bp_matcher: %s\n", p.BlueprintMatcher)
	fmt.Fprintf(&b, "st_matcher: %s\n", p.StructureMatcher)
	fmt.Fprintf(&b, "prod_block_matcher: %s\n", p.ProductionBlockMatcher)
	fmt.Fprintf(&b, "manu cycle: %dh, reac cycle: %dh\n", p.ManufacturingCycleHours, p.ReactionCycleHours)
	b.WriteString("plan:\n")
	for i, line := range p.Lines {
		fmt.Fprintf(&b, "%d.%s: %d\n", i+1, line.Product, line.Quantity)
	}
	return b.String()
}
