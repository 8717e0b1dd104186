package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

// 12/30/19 was a Monday, 12/31/19 a Tuesday.
func createTestAnalytics() *services.Analytics {
	a := services.NewAnalytics()
	a.SetData(dataset.Enrich([]models.RawRecord{
		{
			OrderID:   "176558",
			Product:   "USB-C Charging Cable",
			Quantity:  2,
			PriceEach: decimal.RequireFromString("11.95"),
			OrderDate: "12/30/19 09:10",
			Address:   "917 1st St, San Francisco, CA 94016",
		},
		{
			OrderID:   "176559",
			Product:   "Google Phone",
			Quantity:  1,
			PriceEach: decimal.RequireFromString("600"),
			OrderDate: "12/31/19 14:38",
			Address:   "682 Chestnut St, Boston, MA 02215",
		},
	}))
	return a
}

func TestNewAPIHandlers(t *testing.T) {
	analytics := createTestAnalytics()
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	if handlers == nil {
		t.Error("NewAPIHandlers() returned nil")
	}

	if handlers.analytics != analytics {
		t.Error("NewAPIHandlers() should set analytics field")
	}
}

func TestAPIHandlers_AggregateEndpoints(t *testing.T) {
	analytics := createTestAnalytics()
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	tests := []struct {
		path    string
		handler http.HandlerFunc
	}{
		{"/api/orders-by-month", handlers.HandleOrdersByMonth},
		{"/api/revenue-by-month", handlers.HandleRevenueByMonth},
		{"/api/quantity-by-product", handlers.HandleQuantityByProduct},
		{"/api/revenue-by-city", handlers.HandleRevenueByCity},
		{"/api/revenue-by-hour", handlers.HandleRevenueByHour},
		{"/api/revenue-by-weekday", handlers.HandleRevenueByWeekday},
		{"/api/monday-quantity-by-product", handlers.HandleMondayQuantityByProduct},
		{"/api/quantity-by-product-weekday", handlers.HandleQuantityByProductWeekday},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			tt.handler(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
			}

			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected content-type 'application/json', got %q", ct)
			}

			if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=300" {
				t.Errorf("expected cache-control 'public, max-age=300', got %q", cc)
			}

			var response map[string]interface{}
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode JSON: %v", err)
			}

			if success, ok := response["success"].(bool); !ok || !success {
				t.Error("expected success=true in response")
			}

			if data, ok := response["data"]; !ok {
				t.Error("expected data field in response")
			} else if dataSlice, ok := data.([]interface{}); !ok || len(dataSlice) == 0 {
				t.Error("expected non-empty data array in response")
			}
		})
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	analytics := createTestAnalytics()
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handlers.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true in response")
	}

	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatal("expected health data in response")
	}

	if status, ok := data["status"].(string); !ok || status != "healthy" {
		t.Errorf("expected status 'healthy', got %q", status)
	}

	if timestamp, ok := data["timestamp"].(string); !ok || timestamp == "" {
		t.Error("expected non-empty timestamp")
	} else if _, err := time.Parse(time.RFC3339, timestamp); err != nil {
		t.Errorf("invalid timestamp format: %v", err)
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	analytics := createTestAnalytics()
	logger := slog.Default()
	handlers := NewAPIHandlers(analytics, logger)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()

	handlers.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatal("expected stats data in response")
	}

	if count, ok := data["record_count"].(float64); !ok || count != 2 {
		t.Errorf("expected record_count 2, got %v", data["record_count"])
	}
}
