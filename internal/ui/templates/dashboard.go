package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<title>Sales Analysis</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@main/bundles/datastar.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; background: #f7f7f9; }
section { background: #fff; border-radius: 8px; padding: 1rem 1.5rem; margin-bottom: 1.5rem; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.modern-table { border-collapse: collapse; width: 100%; }
.modern-table th, .modern-table td { text-align: left; padding: .4rem .8rem; border-bottom: 1px solid #eee; }
.chart-links a { margin-right: 1rem; }
</style>
</head>
<body>
<h1>Sales Analysis Dashboard</h1>

<section class="chart-links">
<h2>Charts</h2>
{{range .ChartLinks}}<a href="/charts/{{.}}">{{.}}</a>
{{end}}
</section>

<section data-on-load="@get('/sse/monthly-sales')">
<h2>Monthly sales</h2>
<div id="monthly-content">Loading…</div>
</section>

<section data-on-load="@get('/sse/product-quantities')">
<h2>Products</h2>
<div id="products-content">Loading…</div>
</section>

<section data-on-load="@get('/sse/time-of-day')">
<h2>Time of day</h2>
<div id="timing-content">Loading…</div>
</section>

<section data-on-load="@get('/sse/revenue-by-city')">
<h2>Revenue by city</h2>
<div id="city-content">Loading…</div>
</section>

<button data-on-click="@get('/sse/refresh-all')">Refresh all</button>
</body>
</html>`

var dashboardTemplate = template.Must(template.New("dashboard").Parse(dashboardHTML))

type dashboardData struct {
	ChartLinks []string
}

// Dashboard is the landing page component. The chart slugs mirror the
// routes registered by handlers.ChartHandlers.
func Dashboard(chartLinks []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return dashboardTemplate.Execute(w, dashboardData{ChartLinks: chartLinks})
	})
}
