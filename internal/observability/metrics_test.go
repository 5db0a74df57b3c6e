package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func scrape(t *testing.T, metrics *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	return rr.Body.String()
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/channel-partners")

	req := httptest.NewRequest(http.MethodGet, "/channel-partners", nil)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}

	body := scrape(t, metrics)
	if !strings.Contains(body, `odyssey_http_requests_total{code="418",route="/channel-partners"} 1`) {
		t.Fatalf("expected metrics to record request, got: %s", body)
	}
	if !strings.Contains(body, `odyssey_http_request_duration_seconds_bucket{route="/channel-partners"`) {
		t.Fatalf("expected duration histogram to be present, got: %s", body)
	}
}

func TestObserveBackendSplitsOutcome(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveBackend("partners", "list", nil, 10*time.Millisecond)
	metrics.ObserveBackend("partners", "list", errors.New("down"), 10*time.Millisecond)
	metrics.ObserveBackend("partners", "list", nil, 10*time.Millisecond)

	body := scrape(t, metrics)
	if !strings.Contains(body, `odyssey_backend_requests_total{entity="partners",op="list",outcome="ok"} 2`) {
		t.Fatalf("expected ok counter, got: %s", body)
	}
	if !strings.Contains(body, `odyssey_backend_requests_total{entity="partners",op="list",outcome="error"} 1`) {
		t.Fatalf("expected error counter, got: %s", body)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveBackend("companies", "list", nil, time.Second)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	if got := metrics.Middleware(next); got == nil {
		t.Fatal("expected passthrough handler")
	}

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
