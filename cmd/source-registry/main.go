// Точка входа Source Registry — реестр исходных файлов.
// Загружает конфигурацию, открывает пул БД (PostgreSQL или SQLite),
// применяет миграции, собирает API и ops роутеры, запускает topologymetrics
// для PostgreSQL и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bigkaa/goartstore/source-registry/internal/api/handlers"
	"github.com/bigkaa/goartstore/source-registry/internal/api/middleware"
	"github.com/bigkaa/goartstore/source-registry/internal/config"
	"github.com/bigkaa/goartstore/source-registry/internal/database"
	"github.com/bigkaa/goartstore/source-registry/internal/server"
	"github.com/bigkaa/goartstore/source-registry/internal/service"
)

func main() {
	// 1. Загрузка конфигурации (.env + переменные окружения)
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Source Registry запускается",
		slog.String("version", config.Version),
		slog.String("addr", config.ListenAddr),
		slog.String("backend", string(cfg.DBBackend)),
	)

	// 3. Подключение к БД
	ctx := context.Background()
	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к БД", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	// 4. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		db.Close()
		os.Exit(1)
	}

	// 5. API handler и роутер
	apiHandler := handlers.NewAPIHandler(db.SourceFiles(), logger)
	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer, server.PathList, server.PathCreate)
	apiRouter := server.NewRouter(logger, apiHandler, metrics.Middleware())

	// 6. Health и metrics на ops-listener
	healthHandler := handlers.NewHealthHandler(database.NewReadinessChecker(db), nil)
	opsRouter := server.NewOpsRouter(healthHandler)

	// 7. topologymetrics — мониторинг PostgreSQL
	var dephealthSvc *service.DephealthService
	if cfg.DBBackend == config.BackendPostgres {
		if os.Getenv("SR_DEPHEALTH_GROUP") == "" {
			logger.Warn("SR_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
				slog.String("default", cfg.DephealthGroup),
			)
		}

		svc, dephealthErr := service.NewDephealthService(
			"source-registry",
			cfg.DephealthGroup,
			db.SQLDB(),
			cfg.DatabaseURL,
			cfg.DephealthCheckInterval,
			logger,
		)
		if dephealthErr != nil {
			logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
				slog.String("error", dephealthErr.Error()),
			)
		} else if startErr := svc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			dephealthSvc = svc
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 8. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiRouter, opsRouter)
	runErr := srv.Run()

	// 9. Остановка фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	if runErr != nil {
		logger.Error("Ошибка сервера", slog.String("error", runErr.Error()))
		db.Close()
		os.Exit(1)
	}

	logger.Info("Source Registry остановлен")
}
