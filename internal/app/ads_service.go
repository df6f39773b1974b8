package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"

	"moderation-console/internal/adapters/memory"
	postgres_adapter "moderation-console/internal/adapters/postgres"
	rabbitmq_adapter "moderation-console/internal/adapters/rabbitmq"
	"moderation-console/internal/adapters/rest"
	"moderation-console/internal/configs"
	"moderation-console/internal/constants"
	"moderation-console/internal/contextkeys"
	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/port"
	"moderation-console/internal/core/usecase"
	"moderation-console/pkg/postgres"
	"moderation-console/pkg/rabbitmq/rabbitmq_common"
	"moderation-console/pkg/rabbitmq/rabbitmq_producer"
)

// seedRandom - зерно генератора демонстрационных объявлений.
const seedRandom = 42

// AdsServiceApp - сервис объявлений, с которым работает консоль модератора.
type AdsServiceApp struct {
	config    *configs.ServiceConfig
	dbPool    *pgxpool.Pool
	rmqConn   *rabbitmq_common.ConnectionManager
	publisher *rabbitmq_producer.Publisher
	apiServer *rest.Server

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewAdsServiceApp() (*AdsServiceApp, error) {
	appConfig, err := configs.LoadServiceConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	baseLogger, fluentClient, err := buildLogger(loggerSetup{
		appName:  appConfig.AppName,
		level:    appConfig.StdoutLogger.Level,
		useColor: true,
		fluent:   appConfig.FluentBit,
	})
	if err != nil {
		return nil, err
	}
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})

	application := &AdsServiceApp{
		config:       appConfig,
		fluentClient: fluentClient,
		logger:       appLogger,
	}

	initCtx, cancel := context.WithTimeout(contextkeys.ContextWithLogger(context.Background(), baseLogger), 30*time.Second)
	defer cancel()

	repo, err := application.initRepository(initCtx)
	if err != nil {
		application.closeResources()
		return nil, err
	}

	var events port.DecisionEventsPort
	if appConfig.RabbitMQ.URL != "" {
		eventsAdapter, err := application.initEvents(baseLogger)
		if err != nil {
			application.closeResources()
			return nil, err
		}
		events = eventsAdapter
	} else {
		appLogger.Warn("RABBITMQ_URL is not set, decision events will not be published", nil)
	}

	moderator := domain.Moderator{
		ID:          appConfig.Moderator.ID,
		Name:        appConfig.Moderator.Name,
		Email:       appConfig.Moderator.Email,
		Role:        domain.RoleModerator,
		Permissions: domain.DefaultModeratorPermissions(),
	}

	// ИНИЦИАЛИЗАЦИЯ USE CASES
	listAdsUseCase := usecase.NewListAdsUseCase(repo)
	getAdUseCase := usecase.NewGetAdUseCase(repo)
	decideAdUseCase := usecase.NewDecideAdUseCase(repo, events, moderator)
	getStatsUseCase := usecase.NewGetStatsUseCase(repo)

	// REST API Server
	router := rest.NewRouter(
		rest.NewAdsHandler(listAdsUseCase, getAdUseCase, decideAdUseCase),
		rest.NewStatsHandler(getStatsUseCase),
		rest.NewModeratorHandler(moderator),
		appConfig.Rest.AllowedOrigins,
		baseLogger,
	)
	application.apiServer = rest.NewServer(appConfig.Rest.PORT, router, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return application, nil
}

// initRepository выбирает хранилище: PostgreSQL, если задан DATABASE_URL, иначе память.
func (a *AdsServiceApp) initRepository(ctx context.Context) (port.AdRepositoryPort, error) {
	seed := memory.GenerateAds(a.config.SeedAds, time.Now(), seedRandom)

	if a.config.Database.URL == "" {
		a.logger.Warn("DATABASE_URL is not set, using in-memory storage", port.Fields{"seed_ads": len(seed)})
		return memory.NewAdRepository(seed), nil
	}

	dbPool, err := postgres.NewClient(ctx, postgres.Config{DatabaseURL: a.config.Database.URL})
	if err != nil {
		a.logger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	a.dbPool = dbPool
	a.logger.Info("Successfully connected to PostgreSQL pool!", nil)

	repo, err := postgres_adapter.NewAdRepository(dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres ad repository: %w", err)
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		a.logger.Error("Failed to ensure database schema", err, nil)
		return nil, err
	}
	inserted, err := repo.SeedIfEmpty(ctx, seed)
	if err != nil {
		a.logger.Error("Failed to seed ads", err, nil)
		return nil, err
	}
	a.logger.Info("PostgreSQL ad repository ready", port.Fields{"seeded": inserted})
	return repo, nil
}

func (a *AdsServiceApp) initEvents(baseLogger port.LoggerPort) (*rabbitmq_adapter.DecisionEventsAdapter, error) {
	rmqLogger := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq"}))

	connManager, err := rabbitmq_common.GetManager(a.config.RabbitMQ.URL, rmqLogger)
	if err != nil {
		a.logger.Error("Failed to connect to RabbitMQ", err, nil)
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	a.rmqConn = connManager

	publisher, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: a.config.RabbitMQ.URL},
		ExchangeName:             a.config.RabbitMQ.ExchangeName,
		ExchangeType:             constants.ExchangeTypeModerationEvents,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rmqLogger,
	}, connManager)
	if err != nil {
		a.logger.Error("Failed to create RabbitMQ publisher", err, nil)
		return nil, fmt.Errorf("failed to create rabbitmq publisher: %w", err)
	}
	a.publisher = publisher

	adapter, err := rabbitmq_adapter.NewDecisionEventsAdapter(publisher, constants.RoutingKeyDecisionRecorded)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Decision events publisher initialized", port.Fields{"exchange": a.config.RabbitMQ.ExchangeName})
	return adapter, nil
}

// Run запускает HTTP сервер и ждет сигнала завершения.
func (a *AdsServiceApp) Run() error {
	defer a.closeResources()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		a.logger.Error("Server failed, shutting down", err, nil)
		runErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.apiServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("Error during API server shutdown", err, nil)
	}
	return runErr
}

func (a *AdsServiceApp) closeResources() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ publisher", err, nil)
		}
	}
	if a.rmqConn != nil {
		if err := a.rmqConn.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}
	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}
