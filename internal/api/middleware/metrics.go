// metrics.go — Prometheus HTTP метрики Source Registry.
// Метрики: sr_http_requests_total, sr_http_request_duration_seconds.
// Все пути вне известных маршрутов сводятся к одному лейблу.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// unmatchedPath — лейбл пути для запросов, попавших в fallback.
const unmatchedPath = "unmatched"

// Metrics — HTTP метрики одного registry.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	knownPaths      map[string]struct{}
}

// NewMetrics регистрирует HTTP метрики в reg.
// knownPaths — пути, которые попадают в лейбл как есть.
func NewMetrics(reg prometheus.Registerer, knownPaths ...string) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sr_http_requests_total",
				Help: "Общее количество HTTP-запросов к Source Registry",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sr_http_request_duration_seconds",
				Help:    "Длительность HTTP-запросов к Source Registry в секундах",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		knownPaths: make(map[string]struct{}, len(knownPaths)),
	}
	for _, p := range knownPaths {
		m.knownPaths[p] = struct{}{}
	}
	return m
}

// Middleware возвращает HTTP middleware для сбора метрик.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := m.normalizePath(r.URL.Path)

			wrapped := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(wrapped, r)

			code := wrapped.Status()
			if code == 0 {
				code = http.StatusOK
			}

			m.requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(code)).Inc()
			m.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// normalizePath отдаёт известный путь как есть, остальные — unmatched.
// Иначе сканер путей раздувает кардинальность метрик.
func (m *Metrics) normalizePath(path string) string {
	if _, ok := m.knownPaths[path]; ok {
		return path
	}
	return unmatchedPath
}
