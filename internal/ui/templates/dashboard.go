// Package templates holds the dashboard page shell. The page is a
// declarative skeleton: all data arrives through the datastar SSE
// endpoints, so the shell only declares the bound filter controls and
// the target elements the server patches.
package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

var dashboardPage = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Coffee Production KPI Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
</head>
<body data-signals="{range: 'last_30_days', start: '', end: '', machine: 'All', customer: 'All', dailyOutput: [], coffeeUsage: [], machineUtilization: [], customerSummary: []}"
      data-on-load="@get('/sse/dashboard')">

<header>
<h1>Coffee Production KPI Dashboard</h1>
</header>

<aside id="filter-panel">
<h2>Filter Options</h2>
<select id="range-filter" data-bind-range
        data-on-change="@get('/sse/dashboard?range='+$range+'&start='+$start+'&end='+$end+'&machine='+$machine+'&customer='+$customer)">
<option value="last_7_days">Last 7 Days</option>
<option value="last_30_days" selected>Last 30 Days</option>
<option value="this_month">This Month</option>
<option value="custom">Custom Range</option>
</select>
<input type="date" data-bind-start>
<input type="date" data-bind-end>
<div id="filter-options"
     data-on-change="@get('/sse/dashboard?range='+$range+'&start='+$start+'&end='+$end+'&machine='+$machine+'&customer='+$customer)"></div>
<button data-on-click="@get('/sse/reset')">Reset Filters</button>
<a href="#" data-on-click="window.location='/api/export/csv?range='+$range+'&start='+$start+'&end='+$end+'&machine='+$machine+'&customer='+$customer">Download CSV</a>
<a href="#" data-on-click="window.location='/api/export/xlsx?range='+$range+'&start='+$start+'&end='+$end+'&machine='+$machine+'&customer='+$customer">Download XLSX</a>
</aside>

<main>
<div id="dashboard-notice" class="notice"></div>
<section id="kpi-content"></section>
<section id="charts">
<canvas id="daily-output-chart" data-effect="renderDailyOutput($dailyOutput)"></canvas>
<canvas id="coffee-usage-chart" data-effect="renderCoffeeUsage($coffeeUsage)"></canvas>
<canvas id="machine-utilization-chart" data-effect="renderMachineUtilization($machineUtilization)"></canvas>
<canvas id="customer-summary-chart" data-effect="renderCustomerSummary($customerSummary)"></canvas>
</section>
<section id="raw-data-content"></section>
</main>

</body>
</html>`))

// Dashboard returns the single-page shell as a templ component.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return dashboardPage.Execute(w, nil)
	})
}
