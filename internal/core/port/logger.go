package port

// Fields - структурированные поля записи лога.
type Fields map[string]interface{}

// LoggerPort - контракт логирования для ядра и адаптеров. Реализации лежат
// в internal/adapters/logger, в контексте логгер передается через contextkeys.
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)

	// Error пишет сообщение вместе с ошибкой.
	Error(msg string, err error, fields Fields)

	Debug(msg string, fields Fields)

	// WithFields возвращает логгер, который добавляет fields к каждой записи.
	WithFields(fields Fields) LoggerPort
}
