package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Enabled bool
	Host    string
	Port    int
	Level   string
}

// ConsoleConfig - конфигурация терминальной консоли модератора.
type ConsoleConfig struct {
	AppName string

	// AdsServiceURL - базовый адрес сервиса объявлений, без /api/v1.
	AdsServiceURL string
	HTTPTimeout   time.Duration

	// InitialQuery - стартовый адрес списка в виде key=value&...
	InitialQuery string

	// LogFile - файл логов: stdout занят интерфейсом.
	LogFile   string
	FileLog   StdoutLogConfig
	FluentBit FluentBitConfig
}

type DBConfig struct {
	URL string
}

type RESTConfig struct {
	PORT           string
	AllowedOrigins []string
}

type RabbitMQConfig struct {
	URL          string
	ExchangeName string
}

type ModeratorConfig struct {
	ID    int64
	Name  string
	Email string
}

// ServiceConfig - конфигурация сервиса объявлений.
type ServiceConfig struct {
	AppName      string
	Rest         RESTConfig
	Database     DBConfig
	RabbitMQ     RabbitMQConfig
	Moderator    ModeratorConfig
	SeedAds      int
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// loadEnv подгружает .env, если он есть. Отсутствие файла не ошибка:
// переменные могут прийти из окружения контейнера.
func loadEnv(envPath ...string) {
	var err error
	if len(envPath) > 0 && envPath[0] != "" {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v. Using process environment.\n", envPath, err)
	}
}

// LoadConsoleConfig загружает конфигурацию консоли из переменных окружения.
func LoadConsoleConfig(envPath ...string) (*ConsoleConfig, error) {
	loadEnv(envPath...)

	cfg := &ConsoleConfig{
		AppName:       getEnvAsString("APP_NAME", "moderation-console"),
		AdsServiceURL: strings.TrimRight(getEnvAsString("ADS_SERVICE_URL", "http://localhost:3001"), "/"),
		HTTPTimeout:   getEnvAsDuration("ADS_SERVICE_TIMEOUT", 10*time.Second),
		InitialQuery:  getEnvAsString("INITIAL_QUERY", ""),
		LogFile:       getEnvAsString("LOG_FILE", "moderation-console.log"),
		FileLog:       StdoutLogConfig{Level: getEnvAsString("LOG_LEVEL", "info")},
	}

	if cfg.AdsServiceURL == "" {
		return nil, fmt.Errorf("ADS_SERVICE_URL environment variable is required")
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("ADS_SERVICE_TIMEOUT must be positive, got %s", cfg.HTTPTimeout)
	}

	cfg.FluentBit = loadFluentBit()
	return cfg, nil
}

// LoadServiceConfig загружает конфигурацию сервиса объявлений.
// DATABASE_URL и RABBITMQ_URL необязательны: без них сервис работает
// на хранилище в памяти и не публикует события.
func LoadServiceConfig(envPath ...string) (*ServiceConfig, error) {
	loadEnv(envPath...)

	cfg := &ServiceConfig{
		AppName: getEnvAsString("APP_NAME", "ads-service"),
		Rest: RESTConfig{
			PORT:           getEnvAsString("PORT", "3001"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		},
		Database: DBConfig{URL: os.Getenv("DATABASE_URL")},
		RabbitMQ: RabbitMQConfig{
			URL:          os.Getenv("RABBITMQ_URL"),
			ExchangeName: getEnvAsString("RABBITMQ_EXCHANGE", "moderation_events_exchange"),
		},
		Moderator: ModeratorConfig{
			ID:    int64(getEnvAsInt("MODERATOR_ID", 1)),
			Name:  getEnvAsString("MODERATOR_NAME", "Алексей Петров"),
			Email: getEnvAsString("MODERATOR_EMAIL", "moderator@avito.ru"),
		},
		SeedAds:      getEnvAsInt("SEED_ADS", 150),
		StdoutLogger: StdoutLogConfig{Level: getEnvAsString("STDOUT_LOG_LEVEL", "debug")},
	}

	if cfg.Rest.PORT == "" {
		return nil, fmt.Errorf("PORT must not be empty")
	}
	if cfg.SeedAds < 0 {
		return nil, fmt.Errorf("SEED_ADS must not be negative, got %d", cfg.SeedAds)
	}

	cfg.FluentBit = loadFluentBit()
	return cfg, nil
}

func loadFluentBit() FluentBitConfig {
	fb := FluentBitConfig{Enabled: getEnvAsBool("FLUENTBIT_ENABLED", false)}
	if !fb.Enabled {
		return fb
	}
	fb.Host = os.Getenv("FLUENTBIT_HOST")
	if fb.Host == "" {
		log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
		fb.Enabled = false
		return fb
	}
	fb.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
	fb.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	return fb
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvAsList читает список через запятую, пустые элементы отбрасываются.
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
