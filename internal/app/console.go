package app

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/google/uuid"

	"moderation-console/internal/adapters/address"
	"moderation-console/internal/adapters/ads_api_client"
	"moderation-console/internal/adapters/tui"
	"moderation-console/internal/configs"
	"moderation-console/internal/contextkeys"
	"moderation-console/internal/core/moderation"
	"moderation-console/internal/core/port"
)

// ConsoleApp - терминальная консоль модератора.
type ConsoleApp struct {
	config  *configs.ConsoleConfig
	logFile *os.File
	model   tui.Model
	ctx     context.Context
	cancel  context.CancelFunc

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewConsoleApp() (*ConsoleApp, error) {
	appConfig, err := configs.LoadConsoleConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	logFile, err := os.OpenFile(appConfig.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %q: %w", appConfig.LogFile, err)
	}

	baseLogger, fluentClient, err := buildLogger(loggerSetup{
		appName: appConfig.AppName,
		writer:  logFile,
		level:   appConfig.FileLog.Level,
		async:   true,
		fluent:  appConfig.FluentBit,
	})
	if err != nil {
		logFile.Close()
		return nil, err
	}

	// Один trace_id на сессию: по нему запросы консоли находятся в логах сервиса.
	sessionID := uuid.NewString()
	sessionLogger := baseLogger.WithFields(port.Fields{"trace_id": sessionID})
	ctx := contextkeys.ContextWithTraceID(contextkeys.ContextWithLogger(context.Background(), sessionLogger), sessionID)
	ctx, cancel := context.WithCancel(ctx)

	client := ads_api_client.NewAdsServiceAPIClient(appConfig.AdsServiceURL, appConfig.HTTPTimeout)
	addr := address.NewMemoryAddress(appConfig.InitialQuery)

	model := tui.NewModel(ctx, tui.Deps{
		List:       moderation.NewListQueryController(client, addr),
		Engine:     moderation.NewDecisionEngine(client),
		Stats:      moderation.NewStatsLoader(client),
		Moderators: client,
		History:    addr,
		Dispatcher: moderation.NewKeyDispatcher(),
	})

	appLogger := sessionLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Console configured", port.Fields{"ads_service_url": appConfig.AdsServiceURL, "initial_query": addr.String()})

	return &ConsoleApp{
		config:       appConfig,
		logFile:      logFile,
		model:        model,
		ctx:          ctx,
		cancel:       cancel,
		fluentClient: fluentClient,
		logger:       appLogger,
	}, nil
}

// Run показывает интерфейс до выхода модератора.
func (a *ConsoleApp) Run() error {
	defer func() {
		a.cancel()
		a.logger.Info("Console stopped.", nil)
		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				fmt.Fprintf(a.logFile, "ERROR: Error closing fluent client: %v\n", err)
			}
		}
		a.logFile.Close()
	}()

	a.logger.Info("Console is starting...", nil)
	program := tea.NewProgram(a.model, tea.WithAltScreen(), tea.WithContext(a.ctx))
	if _, err := program.Run(); err != nil && a.ctx.Err() == nil {
		a.logger.Error("Console terminated with error", err, nil)
		return fmt.Errorf("console terminated: %w", err)
	}
	return nil
}
