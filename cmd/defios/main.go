package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/defios/defios/internal/config"
	"github.com/defios/defios/internal/domain"
	"github.com/defios/defios/internal/infra/database"
	"github.com/defios/defios/internal/infra/repository"
	"github.com/defios/defios/internal/present/rest"
	"github.com/defios/defios/internal/present/rest/middleware"
	"github.com/defios/defios/internal/service"
	"github.com/defios/defios/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	nodeConf := domain.Config{
		FQDN:        conf.NodeInfo.FQDN,
		PrivateKey:  conf.NodeInfo.PrivateKey,
		QuoteMint:   conf.NodeInfo.QuoteMint,
		NodeAddress: conf.NodeInfo.NodeAddress,
		Authority:   conf.NodeInfo.Authority,
	}

	if conf.Server.EnableTrace {
		cleanup, err := setupTraceProvider(conf.Server.TraceEndpoint, conf.NodeInfo.FQDN)
		if err != nil {
			slog.Error("failed to setup trace provider", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer cleanup()
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		slog.Error("failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := database.MigratePostgres(db); err != nil {
		slog.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, "", conf.Server.RedisDB)
	mc := database.NewMemcached(conf.Server.MemcachedAddr)

	identityRepo := repository.NewCachedIdentityRepository(repository.NewIdentityRepository(db), mc)
	repoRepo := repository.NewRepoRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	pullRepo := repository.NewPullRequestRepository(db)
	roadmapRepo := repository.NewRoadmapRepository(db)
	marketRepo := repository.NewMarketRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	identityUC := usecase.NewIdentityUsecase(identityRepo)
	repoUC := usecase.NewRepositoryUsecase(repoRepo, identityRepo, nodeConf.NodeAddress)
	issueUC := usecase.NewIssueUsecase(issueRepo, identityRepo)
	pullUC := usecase.NewPullRequestUsecase(pullRepo, issueRepo, identityRepo)
	roadmapUC := usecase.NewRoadmapUsecase(roadmapRepo, identityRepo)
	marketUC := usecase.NewMarketUsecase(marketRepo, nodeConf.QuoteMint, nodeConf.NodeAddress)

	authService := service.NewAuthService(&nodeConf)
	signalService := service.NewSignalService(rdb)

	handler := rest.NewHandler(
		nodeConf,
		identityUC,
		repoUC,
		issueUC,
		pullUC,
		roadmapUC,
		marketUC,
		tokenRepo,
		signalService,
	)

	authMiddleware := middleware.NewAuthMiddleware(authService, nodeConf)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware(conf.NodeInfo.FQDN))
	}
	e.Use(authMiddleware.IdentifyIdentity)

	handler.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(conf.Server.ListenAddr))
}

func setupTraceProvider(endpoint string, serviceName string) (func(), error) {
	exporter, err := otlptracehttp.New(
		context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tracerProvider)

	return func() {
		_ = tracerProvider.Shutdown(context.Background())
	}, nil
}
