package handlers

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/services"
)

// ChartHandlers serves each aggregate as a rendered go-echarts page.
type ChartHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewChartHandlers(analytics *services.Analytics, logger *slog.Logger) *ChartHandlers {
	return &ChartHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// Register adds one GET /charts/{name} route per chart.
func (h *ChartHandlers) Register(mux *http.ServeMux) {
	for _, nc := range charts.Build(h.analytics.Snapshot()) {
		mux.HandleFunc("GET /charts/"+nc.Name, h.handleChart(nc.Name))
	}
}

func (h *ChartHandlers) handleChart(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Rebuild from the current snapshot so a reload after data refresh
		// serves fresh numbers.
		for _, nc := range charts.Build(h.analytics.Snapshot()) {
			if nc.Name != name {
				continue
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if err := nc.Chart.Render(w); err != nil {
				h.logger.Error("render chart", "chart", name, "error", err)
			}
			return
		}
		http.NotFound(w, r)
	}
}
