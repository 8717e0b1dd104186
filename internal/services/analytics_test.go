package services

import (
	"context"
	"os"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
)

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "sales*.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}

func raw(orderID, product string, quantity int, price, orderDate, address string) models.RawRecord {
	return models.RawRecord{
		OrderID:   orderID,
		Product:   product,
		Quantity:  quantity,
		PriceEach: decimal.RequireFromString(price),
		OrderDate: orderDate,
		Address:   address,
	}
}

// Fixture spanning two months, two cities, Monday and Tuesday, two hours.
// 12/30/19 was a Monday, 12/31/19 a Tuesday, 11/25/19 a Monday.
func testRecords() []models.EnrichedRecord {
	return dataset.Enrich([]models.RawRecord{
		raw("1", "USB-C Charging Cable", 2, "11.95", "12/30/19 09:10", "917 1st St, San Francisco, CA 94016"),
		raw("2", "USB-C Charging Cable", 1, "11.95", "12/30/19 22:45", "682 Chestnut St, Boston, MA 02215"),
		raw("3", "Google Phone", 1, "600", "12/31/19 14:38", "669 Spruce St, San Francisco, CA 94016"),
		raw("4", "Wired Headphones", 3, "11.99", "11/25/19 09:27", "333 8th St, Boston, MA 02215"),
	})
}

func TestNewAnalytics(t *testing.T) {
	a := NewAnalytics()
	if a == nil {
		t.Fatal("NewAnalytics() returned nil")
	}
	if a.precomputed == nil {
		t.Error("precomputed should be initialized")
	}
	if a.logger == nil {
		t.Error("logger should be initialized")
	}
}

func TestAnalytics_SetData(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testRecords())

	if got := a.Snapshot().RecordCount; got != 4 {
		t.Errorf("expected RecordCount = 4, got %d", got)
	}

	if len(a.OrdersByMonth()) != 2 {
		t.Errorf("expected orders for 2 months, got %v", a.OrdersByMonth())
	}
	if len(a.QuantityByProduct()) != 3 {
		t.Errorf("expected 3 products, got %v", a.QuantityByProduct())
	}
	if len(a.RevenueByCity()) != 2 {
		t.Errorf("expected 2 cities, got %v", a.RevenueByCity())
	}
}

func TestAnalytics_OrdersByMonth_CountsRecords(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testRecords())

	// Counts orders, not quantities: Dec has 3 records (4 items), Nov 1.
	want := []models.MonthlyOrders{
		{Month: "Nov", Orders: 1},
		{Month: "Dec", Orders: 3},
	}
	if got := a.OrdersByMonth(); !reflect.DeepEqual(got, want) {
		t.Errorf("OrdersByMonth() = %v, want %v", got, want)
	}
}

// The month grouping is a partition: monthly revenues sum to the total
// revenue across all records.
func TestAnalytics_RevenueByMonth_ConservesTotal(t *testing.T) {
	records := testRecords()
	a := NewAnalytics()
	a.SetData(records)

	var total decimal.Decimal
	for _, rec := range records {
		total = total.Add(rec.TotalPay)
	}

	var monthly decimal.Decimal
	for _, row := range a.RevenueByMonth() {
		monthly = monthly.Add(row.Revenue)
	}

	if !monthly.Equal(total) {
		t.Errorf("monthly totals %s do not conserve grand total %s", monthly, total)
	}
}

func TestAnalytics_RevenueByHour_Ascending(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testRecords())

	hours := a.RevenueByHour()
	if len(hours) == 0 {
		t.Fatal("expected hourly revenue rows")
	}
	for i := 1; i < len(hours); i++ {
		if hours[i-1].Hour >= hours[i].Hour {
			t.Errorf("hours not strictly ascending: %d before %d", hours[i-1].Hour, hours[i].Hour)
		}
	}
}

func TestAnalytics_RevenueByWeekday_FixedOrder(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testRecords())

	weekdays := a.RevenueByWeekday()
	for i := 1; i < len(weekdays); i++ {
		if models.WeekdayIndex(weekdays[i-1].Weekday) >= models.WeekdayIndex(weekdays[i].Weekday) {
			t.Errorf("weekdays out of Monday-first order: %v", weekdays)
		}
	}
}

// Monday filtering happens before grouping: the result must match summing
// quantities over Monday records directly.
func TestAnalytics_MondayQuantityByProduct(t *testing.T) {
	records := testRecords()
	a := NewAnalytics()
	a.SetData(records)

	want := make(map[string]int)
	for _, rec := range records {
		if rec.Weekday == "Monday" {
			want[rec.Product] += rec.Quantity
		}
	}

	got := a.MondayQuantityByProduct()
	if len(got) != len(want) {
		t.Fatalf("expected %d products, got %v", len(want), got)
	}
	for _, row := range got {
		if row.Quantity != want[row.Product] {
			t.Errorf("product %q: expected %d, got %d", row.Product, want[row.Product], row.Quantity)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Quantity < got[i].Quantity {
			t.Errorf("result not sorted descending: %v", got)
		}
	}
}

// The product-weekday result, filtered to one weekday, must reproduce the
// per-product totals computed by filtering records directly.
func TestAnalytics_QuantityByProductWeekday_CrossCheck(t *testing.T) {
	records := testRecords()
	a := NewAnalytics()
	a.SetData(records)

	for _, weekday := range models.WeekdayOrder {
		want := make(map[string]int)
		for _, rec := range records {
			if rec.HasTimestamp && rec.Weekday == weekday {
				want[rec.Product] += rec.Quantity
			}
		}

		got := make(map[string]int)
		for _, row := range a.QuantityByProductWeekday() {
			if row.Weekday == weekday {
				got[row.Product] = row.Quantity
			}
		}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: cross-check mismatch: got %v, want %v", weekday, got, want)
		}
	}
}

// Queries touching clean columns must not fail because of unrelated bad
// data: records without timestamps still count toward product totals, and
// records without cities still count toward time aggregates.
func TestAnalytics_PartialDerivations(t *testing.T) {
	records := dataset.Enrich([]models.RawRecord{
		raw("1", "Google Phone", 1, "600", "bad date", "669 Spruce St, San Francisco, CA 94016"),
		raw("2", "Google Phone", 2, "600", "12/30/19 14:38", "malformed address"),
	})

	a := NewAnalytics()
	a.SetData(records)

	if got := a.QuantityByProduct(); len(got) != 1 || got[0].Quantity != 3 {
		t.Errorf("expected product quantity 3 across both records, got %v", got)
	}
	if got := a.RevenueByCity(); len(got) != 1 || got[0].City != "San Francisco (CA)" {
		t.Errorf("expected only the well-formed city, got %v", got)
	}
	if got := a.RevenueByMonth(); len(got) != 1 || !got[0].Revenue.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("expected Dec revenue 1200 from the dated record, got %v", got)
	}
}

// Re-running the pipeline over unchanged input yields identical results.
func TestAnalytics_Idempotence(t *testing.T) {
	records := testRecords()

	first := computeAggregates(context.Background(), records)
	second := computeAggregates(context.Background(), records)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated aggregation over unchanged records differs")
	}
}

func TestAnalytics_LoadFromCSV(t *testing.T) {
	t.Chdir(t.TempDir())

	csv := `Order ID,Product,Quantity Ordered,Price Each,Order Date,Purchase Address
176558,USB-C Charging Cable,2,11.95,04/19/19 08:46,"917 1st St, Dallas, TX 75001"
176559,Bose SoundSport Headphones,1,99.99,04/07/19 22:30,"682 Chestnut St, Boston, MA 02215"
,,,,,`

	f := createTempCSV(t, csv)

	a := NewAnalytics()
	if err := a.LoadFromCSV(context.Background(), f); err != nil {
		t.Fatalf("LoadFromCSV() failed: %v", err)
	}

	snap := a.Snapshot()
	if snap.RecordCount != 2 {
		t.Errorf("expected 2 records, got %d", snap.RecordCount)
	}
	if snap.DroppedRows != 1 {
		t.Errorf("expected 1 dropped row, got %d", snap.DroppedRows)
	}
	if len(a.RevenueByMonth()) != 1 || a.RevenueByMonth()[0].Month != "Apr" {
		t.Errorf("expected one Apr revenue row, got %v", a.RevenueByMonth())
	}
}

func TestAnalytics_LoadFromCSV_UsesCache(t *testing.T) {
	t.Chdir(t.TempDir())

	csv := `Order ID,Product,Quantity Ordered,Price Each,Order Date,Purchase Address
176558,USB-C Charging Cable,2,11.95,04/19/19 08:46,"917 1st St, Dallas, TX 75001"`

	f := createTempCSV(t, csv)

	a := NewAnalytics()
	if err := a.LoadFromCSV(context.Background(), f); err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	want := a.Snapshot()

	b := NewAnalytics()
	if err := b.LoadFromCSV(context.Background(), f); err != nil {
		t.Fatalf("cached load failed: %v", err)
	}

	if !reflect.DeepEqual(b.Snapshot().RevenueByMonth, want.RevenueByMonth) {
		t.Error("cached snapshot differs from computed snapshot")
	}
}

func TestAnalytics_LoadFromCSV_NoValidRecords(t *testing.T) {
	t.Chdir(t.TempDir())

	csv := `Order ID,Product,Quantity Ordered,Price Each,Order Date,Purchase Address
,,,,,`

	f := createTempCSV(t, csv)

	a := NewAnalytics()
	if err := a.LoadFromCSV(context.Background(), f); err == nil {
		t.Fatal("expected error when no valid records remain")
	}
}

func TestAnalytics_LoadFromCSV_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	a := NewAnalytics()
	if err := a.LoadFromCSV(context.Background(), "missing.csv"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAnalytics_Stats(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testRecords())

	stats := a.Stats()
	if stats["record_count"] != int64(4) {
		t.Errorf("expected record_count 4, got %v", stats["record_count"])
	}
	if stats["products"] != 3 {
		t.Errorf("expected 3 products, got %v", stats["products"])
	}
}
