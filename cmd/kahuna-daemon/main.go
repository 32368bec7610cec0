package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	grpcadapter "github.com/AraragiEro/kahuna-bot/internal/adapters/grpc"
	"github.com/AraragiEro/kahuna-bot/internal/adapters/metrics"
	"github.com/AraragiEro/kahuna-bot/internal/adapters/persistence"
	"github.com/AraragiEro/kahuna-bot/internal/application/auth"
	"github.com/AraragiEro/kahuna-bot/internal/application/common"
	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
	"github.com/AraragiEro/kahuna-bot/internal/application/setup"
	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
	"github.com/AraragiEro/kahuna-bot/internal/infrastructure/config"
	"github.com/AraragiEro/kahuna-bot/internal/infrastructure/database"
	"github.com/AraragiEro/kahuna-bot/internal/infrastructure/logging"
	"github.com/AraragiEro/kahuna-bot/internal/infrastructure/pidfile"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to config file (default: search ./config.yaml, ./configs, /etc/kahuna)")
	flag.Parse()

	fmt.Println("Kahuna Daemon v0.1.0")
	fmt.Println("====================")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configPath)

	logger, err := logging.NewZapLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Acquire PID file lock to prevent multiple instances
	if cfg.Daemon.PIDFile != "" {
		fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
		pf := pidfile.New(cfg.Daemon.PIDFile)
		if err := pf.Acquire(); err != nil {
			log.Fatalf("Failed to acquire PID file lock: %v", err)
		}
		defer func() {
			if err := pf.Release(); err != nil {
				log.Printf("Warning: failed to release PID file: %v", err)
			}
		}()
		fmt.Println("PID file lock acquired")
	}

	if err := run(cfg, logger); err != nil {
		logger.Log("ERROR", "Daemon stopped with error", map[string]interface{}{"error": err.Error()})
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logging.ZapLogger) error {
	ctx := context.Background()

	// 1. Setup database connection
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	fmt.Println("Database connected")

	// 2. Repositories and the static catalog
	repos := persistence.NewRepositories(db, nil)
	catalog, err := repos.Catalog.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	items, blueprints := catalog.Size()
	logger.Log("INFO", "Catalog loaded", map[string]interface{}{
		"items":      items,
		"blueprints": blueprints,
	})

	// 3. Metrics
	middleware := []mediator.Middleware{
		common.LoggingMiddleware(logger),
		auth.UserScopeMiddleware(),
	}
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsMiddleware, err := setupMetrics()
		if err != nil {
			return err
		}
		middleware = append(middleware, metricsMiddleware)
		metricsServer = serveMetrics(cfg.Metrics, logger)
	}

	// 4. Handlers
	registry := setup.NewHandlerRegistry(catalog, setup.Repositories{
		Plans:      repos.Plans,
		Matchers:   repos.Matchers,
		Structures: repos.Structures,
		Inventory:  repos.Inventory,
		Jobs:       repos.Jobs,
		Characters: repos.Characters,
		Market:     repos.Market,
	}, setup.Settings{
		PlanLimit:       cfg.Industry.PlanLimit,
		CostConcurrency: cfg.Industry.CostConcurrency,
		ReportCacheTTL:  cfg.Industry.ReportCacheTTL,
		VoidHorizon:     cfg.Industry.VoidHorizon,
		Skills: industry.SkillProfile{
			ManufacturingTimeEff: cfg.Industry.Skills.ManufacturingTimeEff,
			ReactionTimeEff:      cfg.Industry.Skills.ReactionTimeEff,
		},
	}, nil)

	med, err := registry.CreateConfiguredMediator(middleware...)
	if err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}

	// 5. gRPC server
	server, err := grpcadapter.NewDaemonServer(med, cfg.Daemon.SocketPath, grpcadapter.ServerOptions{
		RateLimit: rate.Limit(cfg.Daemon.RateLimit.Requests),
		Burst:     cfg.Daemon.RateLimit.Burst,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()
	fmt.Printf("Daemon listening on %s\n", cfg.Daemon.SocketPath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Log("INFO", "Shutting down", map[string]interface{}{"signal": sig.String()})
		server.Stop(cfg.Daemon.ShutdownTimeout)
		err = <-errCh
	case err = <-errCh:
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Daemon.ShutdownTimeout)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	os.Remove(cfg.Daemon.SocketPath)
	return err
}

// setupMetrics creates the registry and collectors and returns the request
// metrics middleware
func setupMetrics() (mediator.Middleware, error) {
	metrics.InitRegistry()

	resolutions := metrics.NewResolutionMetricsCollector()
	if err := resolutions.Register(); err != nil {
		return nil, fmt.Errorf("failed to register resolution metrics: %w", err)
	}
	metrics.SetGlobalResolutionCollector(resolutions)
	metrics.SetGlobalCacheCollector(resolutions)

	requests := metrics.NewRequestMetricsCollector()
	if err := requests.Register(); err != nil {
		return nil, fmt.Errorf("failed to register request metrics: %w", err)
	}
	return metrics.PrometheusMiddleware(requests), nil
}

func serveMetrics(cfg config.MetricsConfig, logger common.PlannerLogger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Log("INFO", "Metrics endpoint listening", map[string]interface{}{"addr": srv.Addr, "path": cfg.Path})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log("ERROR", "Metrics endpoint failed", map[string]interface{}{"error": err.Error()})
		}
	}()
	return srv
}
