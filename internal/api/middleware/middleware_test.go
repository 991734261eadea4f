package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NormalizePath(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry(), "/user/list", "/user/create")

	tests := []struct {
		path string
		want string
	}{
		{"/user/list", "/user/list"},
		{"/user/create", "/user/create"},
		{"/user/list/", unmatchedPath},
		{"/admin", unmatchedPath},
		{"/wp-login.php", unmatchedPath},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.normalizePath(tt.path), tt.path)
	}
}

func TestMetrics_Middleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "/user/list")

	h := m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/list" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("[]"))
	}))

	for _, path := range []string{"/user/list", "/a", "/b"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.InDelta(t, 1, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/user/list", "200")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", unmatchedPath, "404")), 0)

	// две серии счётчика: /user/list и unmatched
	count, err := testutil.GatherAndCount(reg, "sr_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fail":
			w.WriteHeader(http.StatusInternalServerError)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = w.Write([]byte("ok"))
		}
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "level=INFO")
	assert.Contains(t, lines[0], "status=200")
	assert.Contains(t, lines[0], "bytes=2")
	assert.Contains(t, lines[1], "level=WARN")
	assert.Contains(t, lines[1], "status=404")
	assert.Contains(t, lines[2], "level=ERROR")
	assert.Contains(t, lines[2], "status=500")
}
