// Пакет database — пул подключений (pgxpool для PostgreSQL, gorm для SQLite),
// применение миграций (golang-migrate) и проверка готовности.
package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bigkaa/goartstore/source-registry/internal/config"
	"github.com/bigkaa/goartstore/source-registry/internal/repository"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// defaultSQLiteMaxConns — размер пула SQLite, если SR_DB_MAX_CONNS не задан.
const defaultSQLiteMaxConns = 4

// sqliteBusyTimeoutMs — сколько писатель ждёт блокировку файла БД.
const sqliteBusyTimeoutMs = 5000

// Database — открытый пул подключений одного из бэкендов.
// Создаётся один раз при старте и передаётся явно.
type Database struct {
	backend config.Backend
	logger  *slog.Logger

	// PostgreSQL
	pool *pgxpool.Pool
	// SQLite
	orm *gorm.DB

	// sqlDB — *sql.DB поверх пула: адаптер pgxpool или пул gorm.
	sqlDB *sql.DB
}

// Connect открывает пул подключений согласно cfg.DBBackend
// и выполняет ping для проверки доступности.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Database, error) {
	switch cfg.DBBackend {
	case config.BackendPostgres:
		return connectPostgres(ctx, cfg, logger)
	case config.BackendSQLite:
		return openSQLite(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("неизвестный бэкенд БД %q", cfg.DBBackend)
	}
}

func connectPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Database, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}
	if cfg.DBMaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.DBMaxConns) //nolint:gosec // ограничено конфигурацией
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания пула подключений: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка подключения к PostgreSQL: %w", err)
	}

	logger.Info("Подключение к PostgreSQL установлено",
		slog.String("host", poolCfg.ConnConfig.Host),
		slog.Int("port", int(poolCfg.ConnConfig.Port)),
		slog.String("database", poolCfg.ConnConfig.Database),
		slog.Int("max_conns", int(poolCfg.MaxConns)),
	)

	return &Database{
		backend: config.BackendPostgres,
		logger:  logger,
		pool:    pool,
		sqlDB:   stdlib.OpenDBFromPool(pool),
	}, nil
}

func openSQLite(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Database, error) {
	dsn := withSQLiteDefaults(cfg.SQLiteDSN())

	orm, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(slogWriter{logger: logger}, gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия SQLite: %w", err)
	}

	sqlDB, err := orm.DB()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пула SQLite: %w", err)
	}

	maxConns := cfg.DBMaxConns
	if maxConns == 0 {
		maxConns = defaultSQLiteMaxConns
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(maxConns)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ошибка подключения к SQLite: %w", err)
	}

	logger.Info("SQLite открыта",
		slog.String("dsn", dsn),
		slog.Int("max_conns", maxConns),
	)

	return &Database{
		backend: config.BackendSQLite,
		logger:  logger,
		orm:     orm,
		sqlDB:   sqlDB,
	}, nil
}

// SourceFiles возвращает репозиторий source_files поверх пула.
func (d *Database) SourceFiles() repository.SourceFileRepository {
	if d.backend == config.BackendPostgres {
		return repository.NewPostgresSourceFileRepository(repository.NewPgxConnPool(d.pool))
	}
	return repository.NewGormSourceFileRepository(d.orm)
}

// Backend возвращает тип СУБД.
func (d *Database) Backend() config.Backend {
	return d.backend
}

// SQLDB возвращает *sql.DB поверх пула (для topologymetrics).
func (d *Database) SQLDB() *sql.DB {
	return d.sqlDB
}

// Ping проверяет доступность БД.
func (d *Database) Ping(ctx context.Context) error {
	if d.pool != nil {
		return d.pool.Ping(ctx)
	}
	return d.sqlDB.PingContext(ctx)
}

// Close закрывает пул. Повторный вызов безопасен.
func (d *Database) Close() {
	if d.sqlDB != nil {
		if err := d.sqlDB.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			d.logger.Warn("Ошибка закрытия *sql.DB", slog.String("error", err.Error()))
		}
	}
	if d.pool != nil {
		d.pool.Close()
	}
}

// withSQLiteDefaults добавляет busy timeout и WAL, если они не заданы в DSN.
// Без busy timeout параллельные INSERT получают SQLITE_BUSY.
func withSQLiteDefaults(dsn string) string {
	var params []string
	if !strings.Contains(dsn, "_timeout") {
		params = append(params, fmt.Sprintf("_busy_timeout=%d", sqliteBusyTimeoutMs))
	}
	if !strings.Contains(dsn, "_journal") {
		params = append(params, "_journal_mode=WAL")
	}
	if len(params) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// slogWriter — адаптер gorm logger.Writer → slog.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.logger.Warn(fmt.Sprintf(format, args...), slog.String("component", "gorm"))
}

// ReadinessChecker — проверка готовности БД для health endpoint.
type ReadinessChecker struct {
	db *Database
}

// NewReadinessChecker создаёт проверку готовности БД.
func NewReadinessChecker(db *Database) *ReadinessChecker {
	return &ReadinessChecker{db: db}
}

// CheckReady проверяет подключение через ping.
// Возвращает статус ("ok", "fail") и сообщение.
func (c *ReadinessChecker) CheckReady() (status string, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := c.db.Ping(ctx); err != nil {
		return "fail", fmt.Sprintf("%s недоступна: %v", c.db.backend, err)
	}
	return "ok", "подключение активно"
}

// Backend возвращает тип СУБД для ответа readiness.
func (c *ReadinessChecker) Backend() string {
	return string(c.db.backend)
}
