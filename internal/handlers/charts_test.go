package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sales-dashboard/internal/charts"
)

func TestChartHandlers_ServeRenderedCharts(t *testing.T) {
	handlers := NewChartHandlers(createTestAnalytics(), quietLogger())

	mux := http.NewServeMux()
	handlers.Register(mux)

	for _, name := range charts.Names() {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/charts/"+name, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
				t.Errorf("expected HTML content type, got %q", ct)
			}
			if !strings.Contains(w.Body.String(), "echarts") {
				t.Error("expected a rendered echarts page")
			}
		})
	}
}

func TestChartHandlers_UnknownChart(t *testing.T) {
	handlers := NewChartHandlers(createTestAnalytics(), quietLogger())

	mux := http.NewServeMux()
	handlers.Register(mux)

	req := httptest.NewRequest(http.MethodGet, "/charts/not-a-chart", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}
