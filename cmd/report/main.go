// Command report runs the pipeline once without serving a dashboard:
// load the CSV, derive features, compute every aggregate, and export one
// HTML chart per result.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const pipelineTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	exportDir := cfg.Charts.ExportDir
	if exportDir == "" {
		exportDir = "charts"
	}

	ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
	defer cancel()

	analytics := services.NewAnalytics()
	if err := analytics.LoadFromCSV(ctx, cfg.Dataset.CSVFile); err != nil {
		logger.Error("failed to load sales data", "error", err)
		os.Exit(1)
	}

	if err := charts.ExportAll(analytics.Snapshot(), exportDir); err != nil {
		logger.Error("failed to export charts", "error", err)
		os.Exit(1)
	}

	logger.Info("report complete",
		"csv", cfg.Dataset.CSVFile,
		"charts", exportDir,
	)
}
