package main

import (
	"context"
	"flag"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/purfacted/purfacted/internal/config"
	"github.com/purfacted/purfacted/internal/infra/database"
	"github.com/purfacted/purfacted/internal/infra/gateway"
	"github.com/purfacted/purfacted/internal/infra/guard"
	"github.com/purfacted/purfacted/internal/infra/repository"
	"github.com/purfacted/purfacted/internal/present/rest"
	"github.com/purfacted/purfacted/internal/service"
	"github.com/purfacted/purfacted/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if cfg.Server.EnableTrace {
		cleanup, err := setupTracer(ctx, cfg.Server.TraceEndpoint)
		if err != nil {
			panic("failed to setup tracer: " + err.Error())
		}
		defer cleanup()
	}

	db, err := database.NewPostgres(cfg.Server.PostgresDsn)
	if err != nil {
		panic("failed to connect database")
	}

	err = database.MigratePostgres(db)
	if err != nil {
		panic("failed to migrate database")
	}

	rdb := database.NewRedis(cfg.Server.RedisAddr, cfg.Server.RedisPassword, cfg.Server.RedisDB)

	store := repository.NewStore(db)
	ruleRepo := repository.NewRuleRepository(db)

	if err := ruleRepo.SeedDefaults(ctx); err != nil {
		panic("failed to seed rule tables: " + err.Error())
	}

	rules := service.NewRulesService(ruleRepo)
	if _, err := rules.Reload(ctx); err != nil {
		panic("failed to load ruleset: " + err.Error())
	}

	var debounce usecase.DebounceGuard
	switch cfg.Server.DebounceBackend {
	case "redis":
		debounce = guard.NewRedisGuard(rdb)
	case "memcached":
		debounce = guard.NewMemcachedGuard(database.NewMemcached(cfg.Server.MemcachedAddr))
	default:
		debounce = guard.NewMemoryGuard()
	}

	signal := service.NewSignalService(rdb)
	escalation := gateway.NewEscalationGateway(rdb)
	thresholds := cfg.Consensus.Thresholds()

	trustUC := usecase.NewTrustUsecase(store, rules)
	consensusUC := usecase.NewConsensusUsecase(store, debounce, rules, signal, escalation, thresholds)
	disputeUC := usecase.NewDisputeUsecase(store, rules, trustUC, signal, escalation, thresholds)

	handler := rest.NewHandler(consensusUC, disputeUC, trustUC, rules, signal)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if cfg.Server.EnableTrace {
		e.Use(otelecho.Middleware("purfacted"))
	}

	handler.RegisterRoutes(e)

	slog.Info("starting server", slog.String("addr", cfg.Server.ListenAddr))
	e.Logger.Fatal(e.Start(cfg.Server.ListenAddr))
}

func setupTracer(ctx context.Context, endpoint string) (func(), error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", "purfacted"),
		)),
	)
	otel.SetTracerProvider(provider)

	return func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}, nil
}
