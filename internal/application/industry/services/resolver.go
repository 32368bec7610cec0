package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/AraragiEro/kahuna-bot/internal/adapters/metrics"
	"github.com/AraragiEro/kahuna-bot/internal/application/common"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

// Resolver turns a plan into a resolved production report. All external
// data is loaded before the walk; the walk itself is pure computation over
// the loaded snapshot.
type Resolver struct {
	catalog     *industry.Catalog
	matchers    industry.MatcherRepository
	loader      *SnapshotLoader
	market      industry.MarketRepository
	assembler   *ReportAssembler
	skills      industry.SkillProfile
	voidHorizon int64
	clock       shared.Clock
	newRunID    func() string
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithSkills overrides the assumed character skill multipliers
func WithSkills(skills industry.SkillProfile) ResolverOption {
	return func(r *Resolver) {
		r.skills = skills
	}
}

// WithVoidHorizonSeconds overrides how long a single void unit may run
func WithVoidHorizonSeconds(seconds int64) ResolverOption {
	return func(r *Resolver) {
		r.voidHorizon = seconds
	}
}

// WithClock sets the clock used to time resolutions
func WithClock(clock shared.Clock) ResolverOption {
	return func(r *Resolver) {
		r.clock = clock
	}
}

// NewResolver creates a resolver over a read-only catalog
func NewResolver(
	catalog *industry.Catalog,
	matchers industry.MatcherRepository,
	loader *SnapshotLoader,
	market industry.MarketRepository,
	opts ...ResolverOption,
) *Resolver {
	r := &Resolver{
		catalog:     catalog,
		matchers:    matchers,
		loader:      loader,
		market:      market,
		assembler:   NewReportAssembler(),
		skills:      industry.MaxSkills,
		voidHorizon: VoidHorizonSeconds,
		clock:       shared.NewRealClock(),
		newRunID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the reference data the resolver runs against
func (r *Resolver) Catalog() *industry.Catalog {
	return r.catalog
}

// Resolve resolves plan and assembles its report
func (r *Resolver) Resolve(ctx context.Context, plan *industry.Plan) (*ResolvedReport, error) {
	res, err := r.Run(ctx, plan)
	if err != nil {
		return nil, err
	}
	return r.assembler.Assemble(res), nil
}

// Run resolves plan and returns the full resolution
func (r *Resolver) Run(ctx context.Context, plan *industry.Plan) (*Resolution, error) {
	logger := common.LoggerFromContext(ctx)
	runID := r.newRunID()
	start := r.clock.Now()

	res, err := r.run(ctx, runID, plan)
	duration := r.clock.Now().Sub(start).Seconds()

	if err != nil {
		outcome := metrics.OutcomeError
		var inconsistency *shared.PlanningInconsistencyError
		switch {
		case errors.As(err, &inconsistency):
			outcome = metrics.OutcomeInconsistency
			metadata := map[string]interface{}{
				"run_id": runID,
				"plan":   plan.Name,
				"user":   plan.UserID,
				"node":   inconsistency.Node,
			}
			for k, v := range inconsistency.Context {
				metadata[k] = v
			}
			logger.Log("ERROR", inconsistency.Error(), metadata)
		case IsUserFacing(err):
			outcome = metrics.OutcomeUserError
		}
		metrics.RecordResolution(metrics.ResolutionResult{UserID: plan.UserID, Outcome: outcome, Duration: duration})
		return nil, err
	}

	var units, voids int
	for _, n := range res.Nodes() {
		units += len(n.WorkList)
		for _, u := range n.WorkList {
			if u.Synthetic {
				voids++
			}
		}
	}
	metrics.RecordResolution(metrics.ResolutionResult{
		UserID:    plan.UserID,
		Outcome:   metrics.OutcomeSuccess,
		Duration:  duration,
		Nodes:     res.Graph.Len() - 1,
		WorkUnits: units,
		VoidUnits: voids,
	})
	logger.Log("INFO", "Plan resolved", map[string]interface{}{
		"run_id":     runID,
		"plan":       plan.Name,
		"user":       plan.UserID,
		"nodes":      res.Graph.Len() - 1,
		"work_units": units,
		"void_units": voids,
		"duration":   duration,
	})
	return res, nil
}

func (r *Resolver) run(ctx context.Context, runID string, plan *industry.Plan) (*Resolution, error) {
	matchers, err := r.LoadMatchers(ctx, plan)
	if err != nil {
		return nil, err
	}

	graph, err := NewGraphBuilder(r.catalog, matchers.ProductionBlock).Build(plan.Lines)
	if err != nil {
		return nil, fmt.Errorf("failed to build material graph: %w", err)
	}

	snapshot, err := r.loader.Load(ctx, plan, matchers.Structure.StructureIDs())
	if err != nil {
		return nil, err
	}

	efficiency := NewEfficiencyResolver(r.catalog, matchers, snapshot, r.skills)

	// facilities are resolved up front so cost indexes load in one batch
	typeIDs := make([]industry.TypeID, 0, graph.Len())
	systemSet := map[int64]struct{}{}
	for _, n := range graph.Nodes() {
		if n.TypeID == industry.RootTypeID {
			continue
		}
		typeIDs = append(typeIDs, n.TypeID)
		if n.IsRawMaterial {
			continue
		}
		facility, err := efficiency.Resolve(n.TypeID)
		if err != nil {
			return nil, err
		}
		systemSet[facility.Structure.SolarSystemID] = struct{}{}
	}
	systems := make([]int64, 0, len(systemSet))
	for id := range systemSet {
		systems = append(systems, id)
	}
	sort.Slice(systems, func(i, j int) bool { return systems[i] < systems[j] })

	prices, err := r.market.FindPrices(ctx, typeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load market prices: %w", err)
	}
	indexes, err := r.market.FindCostIndexes(ctx, systems)
	if err != nil {
		return nil, fmt.Errorf("failed to load cost indexes: %w", err)
	}

	allocator := NewWorkAllocator(r.catalog, efficiency, snapshot, plan).WithVoidHorizon(r.voidHorizon)
	res := newResolution(runID, plan, graph, r.catalog, snapshot, efficiency, allocator, NewPriceBook(prices, indexes))
	if err := res.calculateAll(); err != nil {
		return nil, err
	}
	return res, nil
}

// LoadMatchers fetches the three policies a plan names and checks their kinds
func (r *Resolver) LoadMatchers(ctx context.Context, plan *industry.Plan) (industry.PlanMatchers, error) {
	var out industry.PlanMatchers

	bp, err := r.loadMatcher(ctx, plan.UserID, plan.BlueprintMatcher, industry.MatcherKindBlueprint)
	if err != nil {
		return out, err
	}
	st, err := r.loadMatcher(ctx, plan.UserID, plan.StructureMatcher, industry.MatcherKindStructure)
	if err != nil {
		return out, err
	}
	pb, err := r.loadMatcher(ctx, plan.UserID, plan.ProductionBlockMatcher, industry.MatcherKindProductionBlock)
	if err != nil {
		return out, err
	}

	out.Blueprint = bp.(*industry.BlueprintMatcher)
	out.Structure = st.(*industry.StructureMatcher)
	out.ProductionBlock = pb.(*industry.ProductionBlockMatcher)
	return out, nil
}

func (r *Resolver) loadMatcher(ctx context.Context, userID, name string, kind industry.MatcherKind) (industry.Matcher, error) {
	if name == "" {
		return nil, shared.NewPolicyUnsetError(string(kind), "matcher not set on plan")
	}
	m, err := r.matchers.FindByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if m.Kind() != kind {
		return nil, &industry.ErrMatcherKindMismatch{Name: name, Expected: kind, Actual: m.Kind()}
	}
	return m, nil
}
