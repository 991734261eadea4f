// Пакет config — загрузка и валидация конфигурации Source Registry
// из .env-файла и переменных окружения.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// ListenAddr — адрес API-listener'а. Намеренно не конфигурируется.
const ListenAddr = "127.0.0.1:3000"

// Backend — тип СУБД, определяется по схеме DATABASE_URL.
type Backend string

const (
	// BackendPostgres — PostgreSQL через pgxpool.
	BackendPostgres Backend = "postgres"
	// BackendSQLite — SQLite через gorm.
	BackendSQLite Backend = "sqlite"
)

// Config содержит все параметры конфигурации Source Registry.
type Config struct {
	// --- База данных ---

	// Строка подключения (DATABASE_URL), обязательна
	DatabaseURL string
	// Тип СУБД, вычисляется из DatabaseURL
	DBBackend Backend
	// Верхняя граница пула соединений (0 — значение драйвера по умолчанию)
	DBMaxConns int

	// --- Логирование ---

	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- HTTP Server Timeouts ---

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// --- Ops listener ---

	// Адрес listener'а health/metrics, пустая строка — отключён
	OpsAddr string

	// --- topologymetrics ---

	DephealthGroup         string
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	ShutdownTimeout time.Duration
}

// Load загружает .env (путь из SR_ENV_FILE, по умолчанию .env)
// и затем конфигурацию из переменных окружения.
// Отсутствие .env-файла — ошибка.
func Load() (*Config, error) {
	envFile := getEnvDefault("SR_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil {
		return nil, fmt.Errorf("файл окружения %s не загружен: %w", envFile, err)
	}
	return FromEnv()
}

// FromEnv собирает конфигурацию только из переменных окружения процесса.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- База данных ---

	// DATABASE_URL — строка подключения (обязательна)
	cfg.DatabaseURL, err = getEnvRequired("DATABASE_URL")
	if err != nil {
		return nil, err
	}
	cfg.DBBackend, err = detectBackend(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("DATABASE_URL: %w", err)
	}

	// SR_DB_MAX_CONNS — размер пула (по умолчанию значение драйвера)
	cfg.DBMaxConns, err = getEnvInt("SR_DB_MAX_CONNS", 0)
	if err != nil {
		return nil, fmt.Errorf("SR_DB_MAX_CONNS: %w", err)
	}
	if cfg.DBMaxConns < 0 {
		return nil, fmt.Errorf("SR_DB_MAX_CONNS: значение должно быть >= 0")
	}

	// --- Логирование ---

	// SR_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("SR_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("SR_LOG_LEVEL: %w", err)
	}

	// SR_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("SR_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("SR_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- HTTP Server Timeouts ---

	cfg.HTTPReadTimeout, err = getEnvDuration("SR_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SR_HTTP_READ_TIMEOUT: %w", err)
	}
	cfg.HTTPWriteTimeout, err = getEnvDuration("SR_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SR_HTTP_WRITE_TIMEOUT: %w", err)
	}
	cfg.HTTPIdleTimeout, err = getEnvDuration("SR_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SR_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// --- Ops listener ---

	// SR_OPS_ADDR — задан, но пуст: listener отключён
	if val, ok := os.LookupEnv("SR_OPS_ADDR"); ok {
		cfg.OpsAddr = val
	} else {
		cfg.OpsAddr = "127.0.0.1:3001"
	}

	// --- topologymetrics ---

	cfg.DephealthGroup = getEnvDefault("SR_DEPHEALTH_GROUP", "source-registry")
	cfg.DephealthCheckInterval, err = getEnvDuration("SR_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SR_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	cfg.ShutdownTimeout, err = getEnvDuration("SR_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SR_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// SQLiteDSN возвращает DSN для драйвера SQLite: DATABASE_URL без схемы.
// Для PostgreSQL возвращает пустую строку.
func (c *Config) SQLiteDSN() string {
	if c.DBBackend != BackendSQLite {
		return ""
	}
	dsn := c.DatabaseURL
	for _, prefix := range []string{"sqlite3://", "sqlite://", "file:"} {
		dsn = strings.TrimPrefix(dsn, prefix)
	}
	return dsn
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// detectBackend определяет СУБД по схеме строки подключения.
// Всё, что не postgres, считается путём к файлу SQLite.
func detectBackend(url string) (Backend, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return BackendPostgres, nil
	case strings.Contains(url, "://") &&
		!strings.HasPrefix(url, "sqlite://") && !strings.HasPrefix(url, "sqlite3://"):
		return "", fmt.Errorf("неподдерживаемая схема в %q, допустимые: postgres, postgresql, sqlite", redact(url))
	case strings.Contains(url, ":memory:"):
		return "", errors.New("SQLite in-memory не поддерживается: миграции и пул используют разные соединения")
	default:
		return BackendSQLite, nil
	}
}

// redact убирает из URL всё после схемы, чтобы не утёк пароль.
func redact(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		return url[:i+3] + "***"
	}
	return url
}

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	if d <= 0 {
		return 0, fmt.Errorf("значение должно быть > 0")
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
