package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zhouzirui/resume-console/internal/metrics"
	"github.com/zhouzirui/resume-console/internal/service/coordinator"
	"github.com/zhouzirui/resume-console/internal/view"
)

type noopFlows struct{}

func (noopFlows) Handle(context.Context, coordinator.Event) error { return nil }

func TestRouterServesIndex(t *testing.T) {
	router := NewRouter(noopFlows{}, view.NewState(), nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html, got %s", ct)
	}
	if !strings.Contains(resp.Body.String(), `id="chatLog"`) {
		t.Fatalf("expected console page body")
	}
	if !strings.Contains(resp.Body.String(), "state.version <= applied") {
		t.Fatalf("expected page to drop snapshots older than the last applied one")
	}
}

func TestRouterHealthz(t *testing.T) {
	router := NewRouter(noopFlows{}, view.NewState(), nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestRouterMetricsOnlyWhenEnabled(t *testing.T) {
	disabled := NewRouter(noopFlows{}, view.NewState(), nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	disabled.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without recorder, got %d", resp.Code)
	}

	rec := metrics.NewRecorder()
	rec.Observe("chat", metrics.OutcomeSuccess)
	enabled := NewRouter(noopFlows{}, view.NewState(), rec)
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp = httptest.NewRecorder()
	enabled.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "resume_console_flow_total") {
		t.Fatalf("expected flow counter in metrics output")
	}
}

func TestRouterMountsConsoleRoutes(t *testing.T) {
	router := NewRouter(noopFlows{}, view.NewState(), nil)

	req := httptest.NewRequest(http.MethodGet, "/ui/state", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
