package setup

import (
	"reflect"
	"time"

	"github.com/AraragiEro/kahuna-bot/internal/application/industry/commands"
	"github.com/AraragiEro/kahuna-bot/internal/application/industry/queries"
	"github.com/AraragiEro/kahuna-bot/internal/application/industry/services"
	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

// Repositories groups the persistence ports the handlers run against
type Repositories struct {
	Plans      industry.PlanRepository
	Matchers   industry.MatcherRepository
	Structures industry.StructureRepository
	Inventory  industry.InventoryRepository
	Jobs       industry.JobRepository
	Characters industry.CharacterRepository
	Market     industry.MarketRepository
}

// Settings tunes resolution and caching. Zero values fall back to the
// package defaults of the handlers they feed.
type Settings struct {
	PlanLimit       int
	CostConcurrency int
	ReportCacheTTL  time.Duration
	VoidHorizon     time.Duration
	Skills          industry.SkillProfile
}

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	catalog  *industry.Catalog
	repos    Repositories
	settings Settings
	clock    shared.Clock

	resolver *services.Resolver
	cache    *services.ReportCache
}

// NewHandlerRegistry creates a new handler registry over a loaded catalog
func NewHandlerRegistry(catalog *industry.Catalog, repos Repositories, settings Settings, clock shared.Clock) *HandlerRegistry {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}

	opts := []services.ResolverOption{services.WithClock(clock)}
	if settings.Skills != (industry.SkillProfile{}) {
		opts = append(opts, services.WithSkills(settings.Skills))
	}
	if settings.VoidHorizon > 0 {
		opts = append(opts, services.WithVoidHorizonSeconds(int64(settings.VoidHorizon/time.Second)))
	}

	loader := services.NewSnapshotLoader(repos.Inventory, repos.Jobs, repos.Characters, repos.Structures)
	ttl := settings.ReportCacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &HandlerRegistry{
		catalog:  catalog,
		repos:    repos,
		settings: settings,
		clock:    clock,
		resolver: services.NewResolver(catalog, repos.Matchers, loader, repos.Market, opts...),
		cache:    services.NewReportCache(ttl, clock),
	}
}

// Resolver returns the resolver shared by every report handler
func (r *HandlerRegistry) Resolver() *services.Resolver {
	return r.resolver
}

// ReportCache returns the cache mutations invalidate
func (r *HandlerRegistry) ReportCache() *services.ReportCache {
	return r.cache
}

// RegisterPlanHandlers registers plan lifecycle and plan line commands
func (r *HandlerRegistry) RegisterPlanHandlers(m mediator.Mediator) error {
	handlers := map[reflect.Type]mediator.RequestHandler{
		reflect.TypeOf(&commands.CreatePlanCommand{}):             commands.NewCreatePlanHandler(r.repos.Plans, r.repos.Matchers, r.settings.PlanLimit, r.clock),
		reflect.TypeOf(&commands.DeletePlanCommand{}):             commands.NewDeletePlanHandler(r.repos.Plans, r.cache),
		reflect.TypeOf(&commands.AddPlanLineCommand{}):            commands.NewAddPlanLineHandler(r.repos.Plans, r.catalog, r.cache, r.clock),
		reflect.TypeOf(&commands.DeletePlanLinesCommand{}):        commands.NewDeletePlanLinesHandler(r.repos.Plans, r.cache, r.clock),
		reflect.TypeOf(&commands.ChangePlanLineIndexCommand{}):    commands.NewChangePlanLineIndexHandler(r.repos.Plans, r.cache, r.clock),
		reflect.TypeOf(&commands.SetPlanCycleTimeCommand{}):       commands.NewSetPlanCycleTimeHandler(r.repos.Plans, r.cache, r.clock),
		reflect.TypeOf(&commands.SetContainerVisibilityCommand{}): commands.NewSetContainerVisibilityHandler(r.repos.Plans, r.cache, r.clock),
		reflect.TypeOf(&queries.ListPlansQuery{}):                 queries.NewListPlansHandler(r.repos.Plans),
		reflect.TypeOf(&queries.GetPlanQuery{}):                   queries.NewGetPlanHandler(r.repos.Plans),
	}
	return register(m, handlers)
}

// RegisterMatcherHandlers registers matcher configuration commands and queries
func (r *HandlerRegistry) RegisterMatcherHandlers(m mediator.Mediator) error {
	handlers := map[reflect.Type]mediator.RequestHandler{
		reflect.TypeOf(&commands.SaveMatcherCommand{}):      commands.NewSaveMatcherHandler(r.repos.Matchers),
		reflect.TypeOf(&commands.DeleteMatcherCommand{}):    commands.NewDeleteMatcherHandler(r.repos.Matchers, r.repos.Plans),
		reflect.TypeOf(&commands.SetMatcherRuleCommand{}):   commands.NewSetMatcherRuleHandler(r.repos.Matchers, r.repos.Structures, r.cache),
		reflect.TypeOf(&commands.UnsetMatcherRuleCommand{}): commands.NewUnsetMatcherRuleHandler(r.repos.Matchers, r.cache),
		reflect.TypeOf(&commands.ImportMatcherCommand{}):    commands.NewImportMatcherHandler(r.repos.Matchers, r.repos.Structures, r.cache),
		reflect.TypeOf(&queries.ListMatchersQuery{}):        queries.NewListMatchersHandler(r.repos.Matchers),
	}
	return register(m, handlers)
}

// RegisterStructureHandlers registers facility commands and queries
func (r *HandlerRegistry) RegisterStructureHandlers(m mediator.Mediator) error {
	handlers := map[reflect.Type]mediator.RequestHandler{
		reflect.TypeOf(&commands.SaveStructureCommand{}):    commands.NewSaveStructureHandler(r.repos.Structures, r.cache),
		reflect.TypeOf(&commands.SetStructureRigsCommand{}): commands.NewSetStructureRigsHandler(r.repos.Structures, r.cache),
		reflect.TypeOf(&queries.ListStructuresQuery{}):      queries.NewListStructuresHandler(r.repos.Structures),
	}
	return register(m, handlers)
}

// RegisterReportHandlers registers the resolution queries. Only the plan
// report goes through the cache.
func (r *HandlerRegistry) RegisterReportHandlers(m mediator.Mediator) error {
	reportHandler := queries.NewGetPlanReportHandler(r.repos.Plans, r.resolver, r.cache)
	handlers := map[reflect.Type]mediator.RequestHandler{
		reflect.TypeOf(&queries.GetPlanReportQuery{}): reportHandler,
		reflect.TypeOf(&queries.GetCostDetailQuery{}): queries.NewGetCostDetailHandler(r.repos.Plans, r.resolver, r.catalog),
		reflect.TypeOf(&queries.GetPlanCostQuery{}):   queries.NewGetPlanCostHandler(r.repos.Plans, r.resolver, r.catalog, r.settings.CostConcurrency),
	}
	return register(m, handlers)
}

// RegisterAll registers every handler group with m
func (r *HandlerRegistry) RegisterAll(m mediator.Mediator) error {
	for _, group := range []func(mediator.Mediator) error{
		r.RegisterPlanHandlers,
		r.RegisterMatcherHandlers,
		r.RegisterStructureHandlers,
		r.RegisterReportHandlers,
	} {
		if err := group(m); err != nil {
			return err
		}
	}
	return nil
}

// CreateConfiguredMediator creates a new mediator with the given middleware
// installed, outermost first, and every handler registered
func (r *HandlerRegistry) CreateConfiguredMediator(middleware ...mediator.Middleware) (mediator.Mediator, error) {
	m := mediator.NewMediator()
	for _, mw := range middleware {
		m.RegisterMiddleware(mw)
	}

	if err := r.RegisterAll(m); err != nil {
		return nil, err
	}
	return m, nil
}

func register(m mediator.Mediator, handlers map[reflect.Type]mediator.RequestHandler) error {
	for requestType, handler := range handlers {
		if err := m.Register(requestType, handler); err != nil {
			return err
		}
	}
	return nil
}
