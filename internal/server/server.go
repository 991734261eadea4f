// Пакет server — HTTP-сервер Source Registry с graceful shutdown.
// API-listener обслуживает два маршрута, отдельный ops-listener —
// health и metrics, чтобы на API любой другой путь оставался 404.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bigkaa/goartstore/source-registry/internal/api/generated"
	"github.com/bigkaa/goartstore/source-registry/internal/api/handlers"
	"github.com/bigkaa/goartstore/source-registry/internal/api/middleware"
	"github.com/bigkaa/goartstore/source-registry/internal/config"
)

// Маршруты API.
const (
	PathList   = "/user/list"
	PathCreate = "/user/create"
)

// Server — HTTP-сервер Source Registry.
type Server struct {
	httpServer *http.Server
	opsServer  *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// NewRouter собирает chi-роутер API.
// Неверный метод на известном пути тоже уходит в fallback (404, не 405).
// HEAD обслуживается GET-маршрутом.
// middlewares — дополнительные middleware (metrics), добавляются после базовых.
func NewRouter(logger *slog.Logger, api *handlers.APIHandler, middlewares ...func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Use(chimw.RequestID)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chimw.Recoverer)
	for _, mw := range middlewares {
		router.Use(mw)
	}
	router.Use(chimw.GetHead)

	// Маршруты API через HandlerFromMux (oapi-codegen chi-server).
	generated.HandlerFromMux(api, router)

	router.NotFound(api.Fallback)
	router.MethodNotAllowed(api.Fallback)

	return router
}

// NewOpsRouter собирает роутер health, metrics и описания API.
func NewOpsRouter(health *handlers.HealthHandler) chi.Router {
	router := chi.NewRouter()
	router.Use(chimw.Recoverer)

	router.Get("/health/live", health.HealthLive)
	router.Get("/health/ready", health.HealthReady)
	router.Get("/metrics", health.GetMetrics)
	router.Get("/openapi.json", handlers.GetOpenAPI)

	return router
}

// New создаёт сервер. API слушает config.ListenAddr,
// ops — cfg.OpsAddr (opsHandler игнорируется, если адрес пуст).
func New(cfg *config.Config, logger *slog.Logger, apiHandler http.Handler, opsHandler http.Handler) *Server {
	s := &Server{
		httpServer: &http.Server{
			Addr:         config.ListenAddr,
			Handler:      apiHandler,
			ReadTimeout:  cfg.HTTPReadTimeout,
			WriteTimeout: cfg.HTTPWriteTimeout,
			IdleTimeout:  cfg.HTTPIdleTimeout,
		},
		logger: logger,
		cfg:    cfg,
	}

	if cfg.OpsAddr != "" && opsHandler != nil {
		s.opsServer = &http.Server{
			Addr:         cfg.OpsAddr,
			Handler:      opsHandler,
			ReadTimeout:  cfg.HTTPReadTimeout,
			WriteTimeout: cfg.HTTPWriteTimeout,
			IdleTimeout:  cfg.HTTPIdleTimeout,
		}
	}

	return s
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.RunContext(ctx)
}

// RunContext запускает listener'ы и блокируется до отмены ctx
// или ошибки любого из них.
func (s *Server) RunContext(ctx context.Context) error {
	// Канал для ошибок listener'ов
	errCh := make(chan error, 2)

	s.serve(s.httpServer, "api", errCh)
	if s.opsServer != nil {
		s.serve(s.opsServer, "ops", errCh)
	}

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info("Получен сигнал завершения", slog.String("cause", context.Cause(ctx).Error()))
	case runErr = <-errCh:
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	var shutdownErr error
	for _, srv := range []*http.Server{s.httpServer, s.opsServer} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			shutdownErr = errors.Join(shutdownErr, fmt.Errorf("ошибка при graceful shutdown %s: %w", srv.Addr, err))
		}
	}

	if runErr != nil {
		return errors.Join(runErr, shutdownErr)
	}
	if shutdownErr != nil {
		return shutdownErr
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}

func (s *Server) serve(srv *http.Server, name string, errCh chan<- error) {
	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("listener", name),
			slog.String("addr", srv.Addr),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("ошибка HTTP-сервера %s: %w", name, err)
		}
	}()
}
