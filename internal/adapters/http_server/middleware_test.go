package httpserver_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	httpserver "bank_reviews/internal/adapters/http_server"
)

func TestLogger_BankScopedRoutes(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	m := chi.NewRouter()
	m.Use(httpserver.Logger(l))
	m.Get("/v1/banks/{code}/reviews", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	m.Get("/v1/summary", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/banks/cbe/reviews", nil))
	out := buf.String()
	if !strings.Contains(out, `"bank":"CBE"`) {
		t.Fatalf("expected upper-cased bank field in log, got %s", out)
	}
	if !strings.Contains(out, `"route":"/v1/banks/{code}/reviews"`) {
		t.Fatalf("expected route pattern in log, got %s", out)
	}

	buf.Reset()
	m.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/summary", nil))
	if strings.Contains(buf.String(), `"bank":`) {
		t.Fatalf("unscoped route must not carry a bank field: %s", buf.String())
	}
}

func TestMetricsMiddleware_RecordsStatus(t *testing.T) {
	m := chi.NewRouter()
	m.Use(httpserver.Metrics)
	m.Get("/v1/banks", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/banks", nil))
	if rr.Code != http.StatusTeapot {
		t.Fatalf("status not passed through recorder: %d", rr.Code)
	}
}
