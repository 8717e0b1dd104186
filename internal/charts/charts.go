package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

// Chart is anything renderable to a writer. Rendering is a terminal side
// effect; nothing downstream consumes chart output.
type Chart interface {
	Render(w io.Writer) error
}

// NamedChart pairs a chart with its URL/file slug.
type NamedChart struct {
	Name  string
	Chart Chart
}

// Build returns one chart per aggregate in the snapshot: categorical bars
// for the month/product/city results, lines for the hour/weekday series,
// and a multi-series line for the product-per-weekday result.
func Build(snapshot *services.PrecomputedData) []NamedChart {
	return []NamedChart{
		{"orders-by-month", OrdersByMonthBar(snapshot.OrdersByMonth)},
		{"revenue-by-month", RevenueByMonthBar(snapshot.RevenueByMonth)},
		{"quantity-by-product", QuantityByProductBar("Quantity sold per product", snapshot.QuantityByProduct)},
		{"revenue-by-city", RevenueByCityBar(snapshot.RevenueByCity)},
		{"revenue-by-hour", RevenueByHourLine(snapshot.RevenueByHour)},
		{"revenue-by-weekday", RevenueByWeekdayLine(snapshot.RevenueByWeekday)},
		{"monday-quantity-by-product", QuantityByProductBar("Quantity sold per product on Mondays", snapshot.MondayQuantityByProduct)},
		{"quantity-by-product-weekday", ProductWeekdayLines(snapshot.QuantityByProductWeekday)},
	}
}

// Names lists the chart slugs in display order.
func Names() []string {
	built := Build(&services.PrecomputedData{})
	names := make([]string, len(built))
	for i, nc := range built {
		names[i] = nc.Name
	}
	return names
}

func OrdersByMonthBar(data []models.MonthlyOrders) Chart {
	labels := make([]string, 0, len(data))
	values := make([]opts.BarData, 0, len(data))
	for _, row := range data {
		labels = append(labels, row.Month)
		values = append(values, opts.BarData{Value: row.Orders})
	}
	return newBar("Orders per month", labels, "orders", values)
}

func RevenueByMonthBar(data []models.MonthlyRevenue) Chart {
	labels := make([]string, 0, len(data))
	values := make([]opts.BarData, 0, len(data))
	for _, row := range data {
		labels = append(labels, row.Month)
		values = append(values, opts.BarData{Value: row.Revenue.InexactFloat64()})
	}
	return newBar("Revenue per month", labels, "revenue", values)
}

func QuantityByProductBar(title string, data []models.ProductQuantity) Chart {
	labels := make([]string, 0, len(data))
	values := make([]opts.BarData, 0, len(data))
	for _, row := range data {
		labels = append(labels, row.Product)
		values = append(values, opts.BarData{Value: row.Quantity})
	}
	return newBar(title, labels, "quantity", values)
}

func RevenueByCityBar(data []models.CityRevenue) Chart {
	labels := make([]string, 0, len(data))
	values := make([]opts.BarData, 0, len(data))
	for _, row := range data {
		labels = append(labels, row.City)
		values = append(values, opts.BarData{Value: row.Revenue.InexactFloat64()})
	}
	return newBar("Revenue per city", labels, "revenue", values)
}

func RevenueByHourLine(data []models.HourlyRevenue) Chart {
	labels := make([]string, 0, len(data))
	values := make([]opts.LineData, 0, len(data))
	for _, row := range data {
		labels = append(labels, fmt.Sprintf("%02d:00", row.Hour))
		values = append(values, opts.LineData{Value: row.Revenue.InexactFloat64()})
	}
	return newLine("Revenue per hour", labels, "revenue", values)
}

func RevenueByWeekdayLine(data []models.WeekdayRevenue) Chart {
	labels := make([]string, 0, len(data))
	values := make([]opts.LineData, 0, len(data))
	for _, row := range data {
		labels = append(labels, row.Weekday)
		values = append(values, opts.LineData{Value: row.Revenue.InexactFloat64()})
	}
	return newLine("Revenue per weekday", labels, "revenue", values)
}

// ProductWeekdayLines draws one series per weekday, Monday through Sunday,
// across a shared product axis. Weekday order is fixed regardless of the
// order groups appear in the result.
func ProductWeekdayLines(data []models.ProductWeekdayQuantity) Chart {
	var products []string
	seen := make(map[string]bool)
	for _, row := range data {
		if !seen[row.Product] {
			seen[row.Product] = true
			products = append(products, row.Product)
		}
	}

	quantities := make(map[string]map[string]int, len(models.WeekdayOrder))
	for _, row := range data {
		if quantities[row.Weekday] == nil {
			quantities[row.Weekday] = make(map[string]int)
		}
		quantities[row.Weekday][row.Product] = row.Quantity
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Quantity sold per product and weekday"}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Quantity sold per product and weekday"}),
	)
	line.SetXAxis(products)
	for _, weekday := range models.WeekdayOrder {
		perProduct, ok := quantities[weekday]
		if !ok {
			continue
		}
		values := make([]opts.LineData, 0, len(products))
		for _, product := range products {
			values = append(values, opts.LineData{Value: perProduct[product]})
		}
		line.AddSeries(weekday, values)
	}
	return line
}

func newBar(title string, labels []string, seriesName string, values []opts.BarData) Chart {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
	)
	bar.SetXAxis(labels).AddSeries(seriesName, values)
	return bar
}

func newLine(title string, labels []string, seriesName string, values []opts.LineData) Chart {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
	)
	line.SetXAxis(labels).AddSeries(seriesName, values)
	return line
}
