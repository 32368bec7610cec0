package helpers

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

// MockPlanRepository is an in-memory plan repository
type MockPlanRepository struct {
	mu    sync.RWMutex
	plans map[string]*industry.Plan
}

// NewMockPlanRepository creates a new mock plan repository
func NewMockPlanRepository() *MockPlanRepository {
	return &MockPlanRepository{plans: make(map[string]*industry.Plan)}
}

func (m *MockPlanRepository) Save(ctx context.Context, plan *industry.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := plan.WithLines(plan.Lines)
	m.plans[plan.Key()] = cp
	return nil
}

func (m *MockPlanRepository) FindByName(ctx context.Context, userID, name string) (*industry.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	plan, ok := m.plans[userID+"/"+name]
	if !ok {
		return nil, &industry.ErrPlanNotFound{UserID: userID, Name: name}
	}
	return plan.WithLines(plan.Lines), nil
}

func (m *MockPlanRepository) ListByUser(ctx context.Context, userID string) ([]*industry.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*industry.Plan
	for _, plan := range m.plans {
		if plan.UserID == userID {
			out = append(out, plan.WithLines(plan.Lines))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockPlanRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	plans, _ := m.ListByUser(ctx, userID)
	return len(plans), nil
}

func (m *MockPlanRepository) Delete(ctx context.Context, userID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := userID + "/" + name
	if _, ok := m.plans[key]; !ok {
		return &industry.ErrPlanNotFound{UserID: userID, Name: name}
	}
	delete(m.plans, key)
	return nil
}

// MockMatcherRepository is an in-memory matcher repository
type MockMatcherRepository struct {
	mu       sync.RWMutex
	matchers map[string]industry.Matcher
}

// NewMockMatcherRepository creates a new mock matcher repository
func NewMockMatcherRepository() *MockMatcherRepository {
	return &MockMatcherRepository{matchers: make(map[string]industry.Matcher)}
}

func (m *MockMatcherRepository) Save(ctx context.Context, matcher industry.Matcher) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchers[matcher.MatcherOwner()+"/"+matcher.MatcherName()] = matcher
	return nil
}

func (m *MockMatcherRepository) FindByName(ctx context.Context, userID, name string) (industry.Matcher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matcher, ok := m.matchers[userID+"/"+name]
	if !ok {
		return nil, &industry.ErrMatcherNotFound{Name: name}
	}
	return matcher, nil
}

func (m *MockMatcherRepository) ListByUser(ctx context.Context, userID string) ([]industry.Matcher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []industry.Matcher
	for _, matcher := range m.matchers {
		if matcher.MatcherOwner() == userID {
			out = append(out, matcher)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatcherName() < out[j].MatcherName() })
	return out, nil
}

func (m *MockMatcherRepository) Delete(ctx context.Context, userID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := userID + "/" + name
	if _, ok := m.matchers[key]; !ok {
		return &industry.ErrMatcherNotFound{Name: name}
	}
	delete(m.matchers, key)
	return nil
}

// MockStructureRepository is an in-memory structure repository
type MockStructureRepository struct {
	mu         sync.RWMutex
	structures map[int64]*industry.Structure
}

// NewMockStructureRepository creates a new mock structure repository
func NewMockStructureRepository() *MockStructureRepository {
	return &MockStructureRepository{structures: make(map[int64]*industry.Structure)}
}

func (m *MockStructureRepository) Save(ctx context.Context, structure *industry.Structure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *structure
	m.structures[structure.ID] = &cp
	return nil
}

func (m *MockStructureRepository) FindByID(ctx context.Context, id int64) (*industry.Structure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.structures[id]
	if !ok {
		return nil, &industry.ErrStructureNotFound{ID: id}
	}
	cp := *st
	return &cp, nil
}

func (m *MockStructureRepository) FindByIDs(ctx context.Context, ids []int64) ([]*industry.Structure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*industry.Structure
	for _, id := range ids {
		if st, ok := m.structures[id]; ok {
			cp := *st
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockStructureRepository) FindAll(ctx context.Context) ([]*industry.Structure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*industry.Structure, 0, len(m.structures))
	for _, st := range m.structures {
		cp := *st
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockInventoryRepository holds containers, stock and owned blueprints
type MockInventoryRepository struct {
	Containers []industry.Container
	Assets     []industry.Asset
	Blueprints []industry.BlueprintAsset
}

// NewMockInventoryRepository creates an empty inventory
func NewMockInventoryRepository() *MockInventoryRepository {
	return &MockInventoryRepository{}
}

func (m *MockInventoryRepository) FindContainers(ctx context.Context, userID string) ([]industry.Container, error) {
	var out []industry.Container
	for _, c := range m.Containers {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockInventoryRepository) FindAssets(ctx context.Context, locationIDs []int64) ([]industry.Asset, error) {
	wanted := toSet(locationIDs)
	var out []industry.Asset
	for _, a := range m.Assets {
		if _, ok := wanted[a.LocationID]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockInventoryRepository) FindBlueprintAssets(ctx context.Context, locationIDs []int64) ([]industry.BlueprintAsset, error) {
	wanted := toSet(locationIDs)
	var out []industry.BlueprintAsset
	for _, bp := range m.Blueprints {
		if _, ok := wanted[bp.LocationID]; ok {
			out = append(out, bp)
		}
	}
	return out, nil
}

// MockJobRepository returns a fixed list of running jobs
type MockJobRepository struct {
	Jobs []industry.RunningJob
}

func (m *MockJobRepository) FindRunningJobs(ctx context.Context) ([]industry.RunningJob, error) {
	return m.Jobs, nil
}

// MockCharacterRepository maps users to character ids
type MockCharacterRepository struct {
	Characters map[string][]int64
}

func (m *MockCharacterRepository) FindCharacterIDs(ctx context.Context, userID string) ([]int64, error) {
	return m.Characters[userID], nil
}

// MockPriceRepository serves fixed prices and cost indexes
type MockPriceRepository struct {
	Prices  map[industry.TypeID]industry.MarketPrice
	Indexes map[int64]industry.CostIndex
	Calls   atomic.Int64
}

// NewMockPriceRepository creates an empty price repository
func NewMockPriceRepository() *MockPriceRepository {
	return &MockPriceRepository{
		Prices:  map[industry.TypeID]industry.MarketPrice{},
		Indexes: map[int64]industry.CostIndex{},
	}
}

func (m *MockPriceRepository) FindPrices(ctx context.Context, typeIDs []industry.TypeID) (map[industry.TypeID]industry.MarketPrice, error) {
	m.Calls.Add(1)
	out := make(map[industry.TypeID]industry.MarketPrice, len(typeIDs))
	for _, id := range typeIDs {
		if p, ok := m.Prices[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m *MockPriceRepository) FindCostIndexes(ctx context.Context, solarSystemIDs []int64) (map[int64]industry.CostIndex, error) {
	out := make(map[int64]industry.CostIndex, len(solarSystemIDs))
	for _, id := range solarSystemIDs {
		if idx, ok := m.Indexes[id]; ok {
			out[id] = idx
		}
	}
	return out, nil
}

func toSet(ids []int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
