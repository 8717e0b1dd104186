package charts

import (
	"fmt"
	"os"
	"path/filepath"

	"sales-dashboard/internal/services"
)

// ExportAll writes one standalone HTML file per chart into dir.
// Exporting does not alter analysis results in any way.
func ExportAll(snapshot *services.PrecomputedData, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}

	for _, nc := range Build(snapshot) {
		if err := exportOne(nc, dir); err != nil {
			return err
		}
	}
	return nil
}

func exportOne(nc NamedChart, dir string) error {
	path := filepath.Join(dir, nc.Name+".html")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := nc.Chart.Render(f); err != nil {
		return fmt.Errorf("render %s: %w", nc.Name, err)
	}
	return nil
}
