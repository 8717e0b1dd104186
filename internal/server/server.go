package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/services"
)

type Server struct {
	analytics     *services.Analytics
	mux           *http.ServeMux
	logger        *slog.Logger
	apiHandlers   *handlers.APIHandlers
	sseHandlers   *handlers.SSEHandlers
	chartHandlers *handlers.ChartHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		analytics:     analytics,
		mux:           http.NewServeMux(),
		logger:        logger,
		apiHandlers:   handlers.NewAPIHandlers(analytics, logger),
		sseHandlers:   handlers.NewSSEHandlers(analytics, logger),
		chartHandlers: handlers.NewChartHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints, one per aggregate
	s.mux.HandleFunc("GET /api/orders-by-month", s.apiHandlers.HandleOrdersByMonth)
	s.mux.HandleFunc("GET /api/revenue-by-month", s.apiHandlers.HandleRevenueByMonth)
	s.mux.HandleFunc("GET /api/quantity-by-product", s.apiHandlers.HandleQuantityByProduct)
	s.mux.HandleFunc("GET /api/revenue-by-city", s.apiHandlers.HandleRevenueByCity)
	s.mux.HandleFunc("GET /api/revenue-by-hour", s.apiHandlers.HandleRevenueByHour)
	s.mux.HandleFunc("GET /api/revenue-by-weekday", s.apiHandlers.HandleRevenueByWeekday)
	s.mux.HandleFunc("GET /api/monday-quantity-by-product", s.apiHandlers.HandleMondayQuantityByProduct)
	s.mux.HandleFunc("GET /api/quantity-by-product-weekday", s.apiHandlers.HandleQuantityByProductWeekday)

	// Rendered chart pages
	s.chartHandlers.Register(s.mux)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/revenue-by-city", s.sseHandlers.HandleRevenueByCity)
	s.mux.HandleFunc("GET /sse/monthly-sales", s.sseHandlers.HandleMonthlySales)
	s.mux.HandleFunc("GET /sse/product-quantities", s.sseHandlers.HandleProductQuantities)
	s.mux.HandleFunc("GET /sse/time-of-day", s.sseHandlers.HandleTimeOfDay)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
