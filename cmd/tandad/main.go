package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tandaclub/tanda/internal/application/usecase"
	"github.com/tandaclub/tanda/internal/domain/service"
	"github.com/tandaclub/tanda/internal/infrastructure/adapter"
	"github.com/tandaclub/tanda/internal/infrastructure/config"
	"github.com/tandaclub/tanda/internal/infrastructure/kafka"
	pgRepo "github.com/tandaclub/tanda/internal/infrastructure/persistence/postgres"
	"github.com/tandaclub/tanda/internal/presentation/rest"
	"github.com/tandaclub/tanda/pkg/auth"
	pkgkafka "github.com/tandaclub/tanda/pkg/kafka"
	"github.com/tandaclub/tanda/pkg/observability"
	pkgpostgres "github.com/tandaclub/tanda/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()
	cfg.Validate()

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:  "info",
		Format: "json",
	})
	slog.SetDefault(logger)

	logger.Info("starting tanda-service", "http_port", cfg.HTTPPort)

	// Initialize tracing.
	shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdown(ctx) }() //nolint:errcheck // best-effort tracer shutdown
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Run database migrations.
	if migErr := pkgpostgres.RunMigrations(dbCfg.DSN(), "file://internal/infrastructure/persistence/postgres/migrations"); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Wire infrastructure adapters.
	groupRepo := pgRepo.NewGroupRepo(pool)
	contributionRepo := pgRepo.NewContributionRepo(pool)
	loanRepo := pgRepo.NewLoanRepo(pool)
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	defer kafkaProducer.Close()
	publisher := kafka.NewKafkaEventPublisher(kafkaProducer, cfg.Kafka.Topic, logger)

	// Notification relay: consumes the event topic and notifies members.
	relay := kafka.NewNotificationRelay(pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
	}, cfg.Kafka.Topic, logger)
	defer relay.Close()
	go func() {
		if relayErr := relay.Start(ctx); relayErr != nil {
			logger.Error("notification relay stopped", "error", relayErr)
		}
	}()

	// Member directory: without a configured URL every member id is accepted,
	// which is only suitable for local development.
	directoryCfg := adapter.DefaultMemberDirectoryConfig()
	var directoryClient *http.Client
	if cfg.MemberDirectory.BaseURL != "" {
		directoryCfg.BaseURL = cfg.MemberDirectory.BaseURL
		directoryCfg.TimeoutSeconds = cfg.MemberDirectory.TimeoutSeconds
		directoryClient = &http.Client{
			Timeout: time.Duration(directoryCfg.TimeoutSeconds) * time.Second,
		}
	} else {
		logger.Warn("MEMBER_DIRECTORY_URL not set, member identity checks are disabled")
	}
	memberDirectory := adapter.NewMemberDirectoryAdapter(directoryCfg, directoryClient)

	evaluator := service.NewEligibilityEvaluator()

	// Wire use cases.
	createGroupUC := usecase.NewCreateGroupUseCase(groupRepo, publisher)
	updateGroupUC := usecase.NewUpdateGroupUseCase(groupRepo, contributionRepo)
	deleteGroupUC := usecase.NewDeleteGroupUseCase(groupRepo, contributionRepo)
	joinGroupUC := usecase.NewJoinGroupUseCase(groupRepo, memberDirectory, publisher)
	leaveGroupUC := usecase.NewLeaveGroupUseCase(groupRepo, contributionRepo, publisher)
	getGroupUC := usecase.NewGetGroupUseCase(groupRepo)
	listGroupsUC := usecase.NewListGroupsUseCase(groupRepo)

	recordContributionUC := usecase.NewRecordContributionUseCase(groupRepo, contributionRepo, publisher)
	deleteContributionUC := usecase.NewDeleteContributionUseCase(contributionRepo, publisher)
	getContributionUC := usecase.NewGetContributionUseCase(contributionRepo)
	listContributionsUC := usecase.NewListContributionsUseCase(contributionRepo)
	contributionStatsUC := usecase.NewContributionStatsUseCase(groupRepo, contributionRepo, evaluator)

	requestLoanUC := usecase.NewRequestLoanUseCase(loanRepo, groupRepo, contributionRepo, evaluator, publisher)
	decideLoanUC := usecase.NewDecideLoanUseCase(loanRepo, publisher)
	registerPaymentUC := usecase.NewRegisterPaymentUseCase(loanRepo, publisher)
	markLoanPaidUC := usecase.NewMarkLoanPaidUseCase(loanRepo, publisher)
	getLoanUC := usecase.NewGetLoanUseCase(loanRepo)
	listLoansUC := usecase.NewListLoansUseCase(loanRepo)

	// JWT service (validation-only: public key preferred, secret as fallback).
	jwtCfg := auth.JWTConfig{
		Issuer: cfg.Auth.Issuer,
	}
	switch {
	case os.Getenv("JWT_PUBLIC_KEY") != "":
		jwtCfg.PublicKeyPEM = os.Getenv("JWT_PUBLIC_KEY")
	case os.Getenv("JWT_PUBLIC_KEY_FILE") != "":
		keyData, loadErr := auth.LoadKeyFromFile(os.Getenv("JWT_PUBLIC_KEY_FILE"))
		if loadErr != nil {
			logger.Error("failed to load JWT public key file", "error", loadErr)
			os.Exit(1)
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	default:
		jwtCfg.Secret = cfg.Auth.JWTSecret
	}
	jwtSvc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// Metrics.
	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	// HTTP routes.
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metricsHandler)
	rest.NewHealthHandler(pool, logger).RegisterRoutes(mux)
	rest.NewGroupHandler(createGroupUC, updateGroupUC, deleteGroupUC, joinGroupUC, leaveGroupUC,
		getGroupUC, listGroupsUC, logger).RegisterRoutes(mux)
	rest.NewContributionHandler(recordContributionUC, deleteContributionUC, getContributionUC,
		listContributionsUC, contributionStatsUC, logger).RegisterRoutes(mux)
	rest.NewLoanHandler(requestLoanUC, decideLoanUC, registerPaymentUC, markLoanPaidUC,
		getLoanUC, listLoansUC, logger).RegisterRoutes(mux)

	// Middleware chain: rate limit -> logging -> auth.
	var handler http.Handler = mux
	handler = auth.Middleware(jwtSvc, []string{"/healthz", "/readyz", "/metrics"})(handler)
	handler = rest.LoggingMiddleware(logger)(handler)
	handler = rest.RateLimitMiddleware(rest.NewRateLimiter(100))(handler)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("tanda-service stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
