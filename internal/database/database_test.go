package database

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bigkaa/goartstore/source-registry/internal/config"
	"github.com/bigkaa/goartstore/source-registry/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sqliteConfig возвращает конфиг SQLite-базы во временном каталоге.
func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DatabaseURL: filepath.Join(t.TempDir(), "registry.db"),
		DBBackend:   config.BackendSQLite,
	}
}

// setupPostgres запускает PostgreSQL в Docker-контейнере через testcontainers.
func setupPostgres(t *testing.T) *config.Config {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("registry_test"),
		postgres.WithUsername("registry"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Не удалось получить строку подключения: %v", err)
	}

	return &config.Config{
		DatabaseURL: dsn,
		DBBackend:   config.BackendPostgres,
		DBMaxConns:  4,
	}
}

func TestWithSQLiteDefaults(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"registry.db", "registry.db?_busy_timeout=5000&_journal_mode=WAL"},
		{"registry.db?cache=shared", "registry.db?cache=shared&_busy_timeout=5000&_journal_mode=WAL"},
		{"registry.db?_busy_timeout=100", "registry.db?_busy_timeout=100&_journal_mode=WAL"},
		{"registry.db?_timeout=1&_journal_mode=DELETE", "registry.db?_timeout=1&_journal_mode=DELETE"},
	}

	for _, tt := range tests {
		if got := withSQLiteDefaults(tt.dsn); got != tt.want {
			t.Errorf("withSQLiteDefaults(%q) = %q, ожидается %q", tt.dsn, got, tt.want)
		}
	}
}

func TestMigrationTarget(t *testing.T) {
	tests := []struct {
		cfg     config.Config
		wantDir string
		wantURL string
	}{
		{
			cfg:     config.Config{DatabaseURL: "postgres://u:p@db:5432/reg?sslmode=disable", DBBackend: config.BackendPostgres},
			wantDir: "migrations/postgres",
			wantURL: "pgx5://u:p@db:5432/reg?sslmode=disable",
		},
		{
			cfg:     config.Config{DatabaseURL: "postgresql://db/reg", DBBackend: config.BackendPostgres},
			wantDir: "migrations/postgres",
			wantURL: "pgx5://db/reg",
		},
		{
			cfg:     config.Config{DatabaseURL: "sqlite://data/registry.db", DBBackend: config.BackendSQLite},
			wantDir: "migrations/sqlite",
			wantURL: "sqlite3://data/registry.db?_busy_timeout=5000&_journal_mode=WAL",
		},
	}

	for _, tt := range tests {
		dir, url, err := migrationTarget(&tt.cfg)
		if err != nil {
			t.Fatalf("migrationTarget(%q) вернул ошибку: %v", tt.cfg.DatabaseURL, err)
		}
		if dir != tt.wantDir {
			t.Errorf("dir = %q, ожидается %q", dir, tt.wantDir)
		}
		if url != tt.wantURL {
			t.Errorf("url = %q, ожидается %q", url, tt.wantURL)
		}
	}
}

// TestMigrate_SQLite проверяет применение миграций и их идемпотентность.
func TestMigrate_SQLite(t *testing.T) {
	cfg := sqliteConfig(t)
	logger := testLogger()
	ctx := context.Background()

	db, err := Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Connect() вернул ошибку: %v", err)
	}
	defer db.Close()

	if err := Migrate(cfg, logger); err != nil {
		t.Fatalf("Migrate() вернул ошибку: %v", err)
	}
	// Повторное применение — должно быть без ошибки (ErrNoChange)
	if err := Migrate(cfg, logger); err != nil {
		t.Fatalf("Повторный Migrate() вернул ошибку: %v", err)
	}

	var count int
	err = db.SQLDB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'source_files'`).Scan(&count)
	if err != nil {
		t.Fatalf("Ошибка проверки таблицы: %v", err)
	}
	if count != 1 {
		t.Errorf("Таблица source_files не создана")
	}

	var version int
	if err := db.SQLDB().QueryRowContext(ctx, `SELECT version FROM schema_migrations`).Scan(&version); err != nil {
		t.Fatalf("Версия миграций не записана: %v", err)
	}
	if version != 1 {
		t.Errorf("schema_migrations.version = %d, ожидали 1", version)
	}
}

// TestMigrate_LogsVersion — после применения в логе итоговая версия схемы.
func TestMigrate_LogsVersion(t *testing.T) {
	cfg := sqliteConfig(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	if err := Migrate(cfg, logger); err != nil {
		t.Fatalf("Migrate() вернул ошибку: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Миграции применены", "backend=sqlite", "version=1", "dirty=false"} {
		if !strings.Contains(out, want) {
			t.Errorf("лог миграций не содержит %q: %s", want, out)
		}
	}
	if strings.Contains(out, "level=WARN") {
		t.Errorf("лог миграций содержит предупреждение: %s", out)
	}
}

func TestReadinessChecker_SQLite(t *testing.T) {
	cfg := sqliteConfig(t)
	db, err := Connect(context.Background(), cfg, testLogger())
	if err != nil {
		t.Fatalf("Connect() вернул ошибку: %v", err)
	}

	checker := NewReadinessChecker(db)
	if got := checker.Backend(); got != string(config.BackendSQLite) {
		t.Errorf("Backend() = %q, ожидали %q", got, config.BackendSQLite)
	}
	if status, msg := checker.CheckReady(); status != "ok" {
		t.Errorf("CheckReady() status = %q, message = %q; ожидали ok", status, msg)
	}

	db.Close()
	if status, _ := checker.CheckReady(); status != "fail" {
		t.Errorf("CheckReady() после Close status = %q, ожидали fail", status)
	}
}

func TestConnect_UnknownBackend(t *testing.T) {
	_, err := Connect(context.Background(), &config.Config{DBBackend: "oracle"}, testLogger())
	if err == nil {
		t.Fatal("Connect() с неизвестным бэкендом должен вернуть ошибку")
	}
}

// TestPostgres_EndToEnd проверяет пул, миграции и репозиторий на реальном PostgreSQL.
func TestPostgres_EndToEnd(t *testing.T) {
	cfg := setupPostgres(t)
	logger := testLogger()
	ctx := context.Background()

	db, err := Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Connect() вернул ошибку: %v", err)
	}
	defer db.Close()

	if err := Migrate(cfg, logger); err != nil {
		t.Fatalf("Migrate() вернул ошибку: %v", err)
	}
	if err := Migrate(cfg, logger); err != nil {
		t.Fatalf("Повторный Migrate() вернул ошибку: %v", err)
	}

	repo := db.SourceFiles()

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() вернул ошибку: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("List() = %v, ожидали пустой список", list)
	}

	nf := model.NewSourceFile{Path: "/a.txt", Hash: "abc123", Size: 42, DateCreated: "2024-01-01"}
	created, err := repo.Create(ctx, nf)
	if err != nil {
		t.Fatalf("Create() вернул ошибку: %v", err)
	}
	if created != nf.Row() {
		t.Errorf("Create() = %+v, ожидали %+v", created, nf.Row())
	}

	list, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List() вернул ошибку: %v", err)
	}
	if len(list) != 1 || list[0] != nf.Row() {
		t.Errorf("List() = %+v, ожидали [%+v]", list, nf.Row())
	}

	if status, msg := NewReadinessChecker(db).CheckReady(); status != "ok" {
		t.Errorf("CheckReady() status = %q, message = %q", status, msg)
	}
}
