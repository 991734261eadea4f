// health.go — ops endpoints Source Registry: liveness, readiness по БД
// и Prometheus метрики.
package handlers

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/goartstore/source-registry/internal/config"
)

const (
	serviceName = "source-registry"

	statusOK   = "ok"
	statusFail = "fail"
)

// ReadinessChecker — проверка готовности хранилища source_files.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
	CheckReady() (status, message string)
	// Backend — имя backend хранилища (postgres, sqlite).
	Backend() string
}

// HealthHandler — обработчик ops endpoints.
type HealthHandler struct {
	db      ReadinessChecker
	metrics http.Handler
}

// NewHealthHandler создаёт обработчик ops endpoints.
// db может быть nil: readiness тогда всегда "fail".
// metrics nil — используется глобальный registry.
func NewHealthHandler(db ReadinessChecker, metrics http.Handler) *HealthHandler {
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	return &HealthHandler{db: db, metrics: metrics}
}

// healthResponse — общий конверт live и ready. Checks есть только у ready.
type healthResponse struct {
	Status    string                    `json:"status"`
	Timestamp string                    `json:"timestamp"`
	Version   string                    `json:"version"`
	Service   string                    `json:"service"`
	Checks    map[string]dependencyInfo `json:"checks,omitempty"`
}

// dependencyInfo — состояние одной зависимости.
type dependencyInfo struct {
	Status  string `json:"status"`
	Backend string `json:"backend,omitempty"`
	Message string `json:"message,omitempty"`
}

func newHealthResponse(status string) healthResponse {
	return healthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	}
}

// HealthLive — процесс жив, всегда 200.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newHealthResponse(statusOK))
}

// HealthReady — 200 пока БД отвечает (ok/degraded), иначе 503.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	db := h.checkDatabase()

	resp := newHealthResponse(db.Status)
	resp.Checks = map[string]dependencyInfo{"database": db}

	code := http.StatusOK
	if db.Status == statusFail {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

func (h *HealthHandler) checkDatabase() dependencyInfo {
	if h.db == nil {
		return dependencyInfo{Status: statusFail, Message: "не инициализирован"}
	}
	status, msg := h.db.CheckReady()
	return dependencyInfo{Status: status, Backend: h.db.Backend(), Message: msg}
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
