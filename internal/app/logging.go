package app

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"strings"

	"github.com/fluent/fluent-logger-golang/fluent"

	logger_adapter "moderation-console/internal/adapters/logger"
	"moderation-console/internal/configs"
	"moderation-console/internal/core/port"
	fluentlogger "moderation-console/pkg/fluent_logger"
)

// loggerSetup - параметры сборки логгера приложения.
type loggerSetup struct {
	appName  string
	writer   io.Writer
	level    string
	useColor bool
	async    bool
	fluent   configs.FluentBitConfig
}

// buildLogger собирает основной slog-логгер и, если включен, Fluent Bit.
// Возвращенный клиент fluent (может быть nil) закрывает вызывающий.
func buildLogger(s loggerSetup) (port.LoggerPort, *fluent.Fluent, error) {
	var activeLoggers []port.LoggerPort

	mainLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Writer:   s.writer,
		Level:    parseLogLevel(s.level),
		IsJSON:   false,
		UseColor: s.useColor,
	})
	activeLoggers = append(activeLoggers, mainLogger)

	var fluentClient *fluent.Fluent
	if s.fluent.Enabled {
		var err error
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      s.fluent.Host,
			Port:      s.fluent.Port,
			TagPrefix: s.appName,
			Async:     s.async,
		})
		if err != nil {
			mainLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(s.fluent.Level))
		if err != nil {
			mainLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		if fluentClient != nil {
			fluentClient.Close()
		}
		return nil, nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": s.appName})
	baseLogger.WithFields(port.Fields{"component": "app"}).Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": s.fluent.Enabled,
	})
	return baseLogger, fluentClient, nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
