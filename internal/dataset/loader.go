package dataset

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

// Input columns, in source order. A header that does not match is fatal.
var expectedColumns = []string{
	"Order ID",
	"Product",
	"Quantity Ordered",
	"Price Each",
	"Order Date",
	"Purchase Address",
}

type LoadStats struct {
	TotalRows   int `json:"total_rows"`
	DroppedRows int `json:"dropped_rows"`
}

// LoadCSV reads the sales CSV into a dataframe and materializes one
// RawRecord per clean row. Filtering is row-level: a row with any missing
// field, or whose quantity or price does not parse, is excluded entirely.
// An unreadable path, a malformed file, or a header mismatch is fatal.
func LoadCSV(path string) ([]models.RawRecord, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	// Every column is declared string; typing happens per row below so a
	// bad value drops only that row instead of poisoning the column.
	types := make(map[string]series.Type, len(expectedColumns))
	for _, name := range expectedColumns {
		types[name] = series.String
	}

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(types),
	)
	if df.Err != nil {
		return nil, LoadStats{}, fmt.Errorf("read %s: %w", path, df.Err)
	}
	if err := checkHeader(df.Names()); err != nil {
		return nil, LoadStats{}, fmt.Errorf("%s: %w", path, err)
	}

	cols := make([][]string, len(expectedColumns))
	for i, name := range expectedColumns {
		cols[i] = df.Col(name).Records()
	}

	stats := LoadStats{TotalRows: df.Nrow()}
	records := make([]models.RawRecord, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		rec, ok := buildRecord(cols[0][i], cols[1][i], cols[2][i], cols[3][i], cols[4][i], cols[5][i])
		if !ok {
			stats.DroppedRows++
			continue
		}
		records = append(records, rec)
	}

	return records, stats, nil
}

func checkHeader(names []string) error {
	if len(names) != len(expectedColumns) {
		return fmt.Errorf("expected %d columns, got %d", len(expectedColumns), len(names))
	}
	for i, want := range expectedColumns {
		if names[i] != want {
			return fmt.Errorf("column %d: expected %q, got %q", i, want, names[i])
		}
	}
	return nil
}

func buildRecord(orderID, product, quantity, price, orderDate, address string) (models.RawRecord, bool) {
	orderID = strings.TrimSpace(orderID)
	product = strings.TrimSpace(product)
	orderDate = strings.TrimSpace(orderDate)
	address = strings.TrimSpace(address)

	for _, field := range []string{orderID, product, quantity, price, orderDate, address} {
		if missing(field) {
			return models.RawRecord{}, false
		}
	}

	qty, err := strconv.Atoi(strings.TrimSpace(quantity))
	if err != nil {
		return models.RawRecord{}, false
	}

	priceEach, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil {
		return models.RawRecord{}, false
	}

	return models.RawRecord{
		OrderID:   orderID,
		Product:   product,
		Quantity:  qty,
		PriceEach: priceEach,
		OrderDate: orderDate,
		Address:   address,
	}, true
}

// gota surfaces empty cells as "" or "NaN" depending on type detection.
func missing(field string) bool {
	trimmed := strings.TrimSpace(field)
	return trimmed == "" || trimmed == "NaN" || trimmed == "NA"
}
