package cli

import (
	"context"
	"fmt"

	grpcadapter "github.com/AraragiEro/kahuna-bot/internal/adapters/grpc"
	"github.com/AraragiEro/kahuna-bot/internal/adapters/persistence"
	"github.com/AraragiEro/kahuna-bot/internal/application/auth"
	"github.com/AraragiEro/kahuna-bot/internal/application/common"
	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
	"github.com/AraragiEro/kahuna-bot/internal/application/setup"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/infrastructure/config"
	"github.com/AraragiEro/kahuna-bot/internal/infrastructure/database"
	"github.com/AraragiEro/kahuna-bot/internal/infrastructure/logging"
)

// Sender dispatches a request and returns its response. Both the mediator
// and the daemon client satisfy it.
type Sender interface {
	Send(ctx context.Context, request mediator.Request) (mediator.Response, error)
}

// backend is an open Sender and the resources behind it
type backend struct {
	sender Sender
	close  func()
}

// openBackend connects to the daemon when --socket is set, otherwise it
// wires the handlers in-process over the configured database
func openBackend(ctx context.Context) (*backend, error) {
	if socketPath != "" {
		cfg := config.LoadConfigOrDefault(configPath)
		client, err := grpcadapter.NewDaemonClientGRPC(socketPath, cfg.Daemon.RequestTimeout)
		if err != nil {
			return nil, err
		}
		return &backend{sender: client, close: func() { client.Close() }}, nil
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	closeDB := func() { database.Close(db) }

	repos := persistence.NewRepositories(db, nil)
	catalog, err := repos.Catalog.LoadCatalog(ctx)
	if err != nil {
		closeDB()
		return nil, err
	}

	registry := setup.NewHandlerRegistry(catalog, portsOf(repos), settingsOf(cfg.Industry), nil)
	med, err := registry.CreateConfiguredMediator(
		common.LoggingMiddleware(cliLogger()),
		auth.UserScopeMiddleware(),
	)
	if err != nil {
		closeDB()
		return nil, fmt.Errorf("failed to register handlers: %w", err)
	}

	return &backend{sender: med, close: closeDB}, nil
}

// portsOf exposes the gorm repositories as the ports the handlers need
func portsOf(repos *persistence.Repositories) setup.Repositories {
	return setup.Repositories{
		Plans:      repos.Plans,
		Matchers:   repos.Matchers,
		Structures: repos.Structures,
		Inventory:  repos.Inventory,
		Jobs:       repos.Jobs,
		Characters: repos.Characters,
		Market:     repos.Market,
	}
}

func settingsOf(cfg config.IndustryConfig) setup.Settings {
	return setup.Settings{
		PlanLimit:       cfg.PlanLimit,
		CostConcurrency: cfg.CostConcurrency,
		ReportCacheTTL:  cfg.ReportCacheTTL,
		VoidHorizon:     cfg.VoidHorizon,
		Skills: industry.SkillProfile{
			ManufacturingTimeEff: cfg.Skills.ManufacturingTimeEff,
			ReactionTimeEff:      cfg.Skills.ReactionTimeEff,
		},
	}
}

// cliLogger logs to stderr at debug level with --verbose and drops
// everything otherwise
func cliLogger() common.PlannerLogger {
	if !verbose {
		return common.LoggerFromContext(context.Background())
	}
	logger, err := logging.NewZapLogger(config.LoggingConfig{Level: "debug", Format: "text", Output: "stderr"})
	if err != nil {
		return common.LoggerFromContext(context.Background())
	}
	return logger
}

// send opens a backend, sends one request as the resolved user and closes
// the backend again
func send(ctx context.Context, request mediator.Request, scoped bool) (mediator.Response, error) {
	if scoped {
		userID, err := resolveUserID()
		if err != nil {
			return nil, err
		}
		ctx = auth.WithUserID(ctx, userID)
	}

	b, err := openBackend(ctx)
	if err != nil {
		return nil, err
	}
	defer b.close()

	return b.sender.Send(ctx, request)
}
