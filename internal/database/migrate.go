package database

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/bigkaa/goartstore/source-registry/internal/config"
)

// Migrate применяет SQL-миграции из embedded FS к базе данных.
// Применённые версии golang-migrate хранит в таблице schema_migrations
// целевой БД, поэтому каждая миграция выполняется не более одного раза.
// Повторный запуск без новых миграций ошибкой не считается.
func Migrate(cfg *config.Config, logger *slog.Logger) error {
	dir, dbURL, err := migrationTarget(cfg)
	if err != nil {
		return err
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("ошибка создания источника миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return fmt.Errorf("ошибка инициализации миграций: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}

	logMigrationVersion(m, cfg.DBBackend, logger)
	return nil
}

// logMigrationVersion пишет итоговую версию схемы. Ошибка чтения версии
// не отменяет уже применённые миграции и только логируется.
func logMigrationVersion(m *migrate.Migrate, backend config.Backend, logger *slog.Logger) {
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Info("Миграции применены, версия схемы не установлена",
			slog.String("backend", string(backend)),
		)
	case err != nil:
		logger.Warn("Миграции применены, версию схемы прочитать не удалось",
			slog.String("backend", string(backend)),
			slog.String("error", err.Error()),
		)
	default:
		logger.Info("Миграции применены",
			slog.String("backend", string(backend)),
			slog.Uint64("version", uint64(version)),
			slog.Bool("dirty", dirty),
		)
	}
}

// migrationTarget возвращает каталог миграций в embedded FS
// и URL базы в формате драйвера golang-migrate.
//
//	postgres://u:p@h/db → pgx5://u:p@h/db
//	data/registry.db    → sqlite3://data/registry.db
func migrationTarget(cfg *config.Config) (dir, dbURL string, err error) {
	switch cfg.DBBackend {
	case config.BackendPostgres:
		rest := cfg.DatabaseURL[strings.Index(cfg.DatabaseURL, "://"):]
		return "migrations/postgres", "pgx5" + rest, nil
	case config.BackendSQLite:
		return "migrations/sqlite", "sqlite3://" + withSQLiteDefaults(cfg.SQLiteDSN()), nil
	default:
		return "", "", fmt.Errorf("неизвестный бэкенд БД %q", cfg.DBBackend)
	}
}
