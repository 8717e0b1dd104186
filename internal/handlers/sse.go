package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

const maxTableRows = 50

var cityTableTemplate = template.Must(template.New("cityTable").Parse(`
<div id="city-content">
<table class="modern-table">
<thead><tr><th>City</th><th>Revenue</th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.City}}</td>
<td><strong>${{.Revenue}}</strong></td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *SSEHandlers) renderCityTable(data []models.CityRevenue) (string, error) {
	if len(data) > maxTableRows {
		data = data[:maxTableRows]
	}

	var buf strings.Builder
	err := cityTableTemplate.Execute(&buf, data)
	return buf.String(), err
}

func (h *SSEHandlers) HandleRevenueByCity(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	html, err := h.renderCityTable(h.analytics.RevenueByCity())
	if err != nil {
		h.logger.Error("render city table", "error", err)
		return
	}

	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleMonthlySales(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(map[string]any{
		"monthlyOrders":  h.analytics.OrdersByMonth(),
		"monthlyRevenue": h.analytics.RevenueByMonth(),
	})
	if err != nil {
		h.logger.Error("marshal monthly data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	sse.PatchElements(`<div id="monthly-content">✅ Monthly sales chart data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleProductQuantities(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(map[string]any{
		"productsData": h.analytics.QuantityByProduct(),
		"mondaysData":  h.analytics.MondayQuantityByProduct(),
	})
	if err != nil {
		h.logger.Error("marshal products data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	sse.PatchElements(`<div id="products-content">✅ Products chart data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleTimeOfDay(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(map[string]any{
		"hourlyData":  h.analytics.RevenueByHour(),
		"weekdayData": h.analytics.RevenueByWeekday(),
	})
	if err != nil {
		h.logger.Error("marshal time-of-day data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	sse.PatchElements(`<div id="timing-content">✅ Time-of-day chart data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	html, err := h.renderCityTable(h.analytics.RevenueByCity())
	if err != nil {
		h.logger.Error("render city table", "error", err)
		return
	}
	sse.PatchElements(html)

	allSignals, err := json.Marshal(map[string]any{
		"monthlyOrders":  h.analytics.OrdersByMonth(),
		"monthlyRevenue": h.analytics.RevenueByMonth(),
		"productsData":   h.analytics.QuantityByProduct(),
		"mondaysData":    h.analytics.MondayQuantityByProduct(),
		"hourlyData":     h.analytics.RevenueByHour(),
		"weekdayData":    h.analytics.RevenueByWeekday(),
	})
	if err != nil {
		h.logger.Error("marshal all signals data", "error", err)
		return
	}
	sse.PatchSignals(allSignals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
