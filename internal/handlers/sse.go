package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"coffee-kpi-dashboard/internal/models"
	"coffee-kpi-dashboard/internal/services"
)

const maxTableRows = 50

var fragmentFuncs = template.FuncMap{
	"fmtCases": func(v *int64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatInt(*v, 10)
	},
	"fmtLbs": func(v *float64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', 2, 64)
	},
}

var kpiTemplate = template.Must(template.New("kpiTiles").Parse(`
<div id="kpi-content">
<div class="kpi-grid">
<div class="kpi-tile"><span class="kpi-label">Total Produced Cases</span><strong>{{.TotalProduced}}</strong></div>
<div class="kpi-tile"><span class="kpi-label">Total Scheduled Cases</span><strong>{{.TotalScheduled}}</strong></div>
<div class="kpi-tile"><span class="kpi-label">Total Coffee Used (lbs)</span><strong>{{printf "%.0f" .TotalCoffee}}</strong></div>
<div class="kpi-tile"><span class="kpi-label">Total Arabica Used (lbs)</span><strong>{{printf "%.0f" .TotalArabica}}</strong></div>
<div class="kpi-tile"><span class="kpi-label">Total Robusta Used (lbs)</span><strong>{{printf "%.0f" .TotalRobusta}}</strong></div>
<div class="kpi-tile"><span class="kpi-label">Total Brazil Used (lbs)</span><strong>{{printf "%.0f" .TotalBrazil}}</strong></div>
<div class="kpi-tile"><span class="kpi-label">Production Efficiency</span><strong>{{printf "%.1f" .ProductionEfficiency}}%</strong></div>
<div class="kpi-tile"><span class="kpi-label">Machines Involved</span><strong>{{.MachinesInvolved}}</strong></div>
</div>
</div>`))

var rawTableTemplate = template.Must(template.New("rawTable").Funcs(fragmentFuncs).Parse(`
<div id="raw-data-content">
<table class="modern-table">
<thead><tr><th>Date</th><th>Machine</th><th>Customer</th><th>SKU</th><th>Scheduled</th><th>Produced</th><th>Arabica (lbs)</th><th>Robusta (lbs)</th><th>Brazil (lbs)</th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.Date.Format "2006-01-02"}}</td>
<td>{{.MachineName}}</td>
<td>{{.Customer}}</td>
<td>{{.SKU}}</td>
<td>{{fmtCases .ScheduledCases}}</td>
<td>{{fmtCases .ProducedCases}}</td>
<td>{{fmtLbs .TotalArabica}}</td>
<td>{{fmtLbs .TotalRobusta}}</td>
<td>{{fmtLbs .TotalBrazil}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

var filterOptionsTemplate = template.Must(template.New("filterOptions").Parse(`
<div id="filter-options">
<select id="machine-filter" data-bind-machine>
<option value="All">All</option>
{{range .Machines}}<option value="{{.}}">{{.}}</option>{{end}}
</select>
<select id="customer-filter" data-bind-customer>
<option value="All">All</option>
{{range .Customers}}<option value="{{.}}">{{.}}</option>{{end}}
</select>
</div>`))

const (
	noDataNotice  = `<div id="dashboard-notice" class="notice warning">No data available for the selected filters.</div>`
	dbErrorNotice = `<div id="dashboard-notice" class="notice error">The production database is unavailable. Please try again.</div>`
	emptyNotice   = `<div id="dashboard-notice" class="notice"></div>`
)

type SSEHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

// HandleDashboard is the reactive render: one request per filter change,
// patching the KPI tiles, the chart signals, the raw-data table, and the
// filter option lists in a single SSE stream.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	filters := parseFilters(r, time.Now())
	h.renderDashboard(sse, r, filters)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleReset restores the default selection (last 30 days, all machines,
// all customers) and re-renders.
func (h *SSEHandlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	resetSignals, err := json.Marshal(map[string]any{
		"range":    string(services.RangeLast30Days),
		"start":    "",
		"end":      "",
		"machine":  "All",
		"customer": "All",
	})
	if err != nil {
		h.logger.Error("marshal reset signals", "error", err)
		return
	}
	sse.PatchSignals(resetSignals)

	h.renderDashboard(sse, r, services.DefaultFilters(time.Now()))

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) renderDashboard(sse *datastar.ServerSentEventGenerator, r *http.Request, filters models.FilterSelection) {
	view, err := h.dashboard.BuildView(r.Context(), filters)
	if err != nil {
		h.logger.Error("build dashboard view", "error", err)
		sse.PatchElements(dbErrorNotice)
		return
	}

	optionsHTML, err := renderFragment(filterOptionsTemplate, view.Options)
	if err != nil {
		h.logger.Error("render filter options", "error", err)
		return
	}
	sse.PatchElements(optionsHTML)

	if view.Data == nil {
		sse.PatchElements(noDataNotice)
		return
	}
	sse.PatchElements(emptyNotice)

	kpiHTML, err := renderFragment(kpiTemplate, view.Data.Metrics)
	if err != nil {
		h.logger.Error("render kpi tiles", "error", err)
		return
	}
	sse.PatchElements(kpiHTML)

	rows := view.Data.Rows
	if len(rows) > maxTableRows {
		rows = rows[:maxTableRows]
	}
	tableHTML, err := renderFragment(rawTableTemplate, rows)
	if err != nil {
		h.logger.Error("render raw data table", "error", err)
		return
	}
	sse.PatchElements(tableHTML)

	chartSignals, err := json.Marshal(map[string]any{
		"dailyOutput":        view.Data.DailyOutput,
		"coffeeUsage":        view.Data.CoffeeUsage,
		"machineUtilization": view.Data.MachineUtilization,
		"customerSummary":    view.Data.CustomerSummary,
	})
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	sse.PatchSignals(chartSignals)
}

func renderFragment(tmpl *template.Template, data any) (string, error) {
	var buf strings.Builder
	err := tmpl.Execute(&buf, data)
	return buf.String(), err
}
