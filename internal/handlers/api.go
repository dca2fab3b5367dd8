package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"coffee-kpi-dashboard/internal/errors"
	"coffee-kpi-dashboard/internal/export"
	"coffee-kpi-dashboard/internal/observability"
	"coffee-kpi-dashboard/internal/services"
)

const cacheControl = "public, max-age=60"

type APIHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

func (h *APIHandlers) HandleFilterOptions(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r, time.Now())

	options, err := h.dashboard.FilterOptions(r.Context(), filters.StartDate, filters.EndDate)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccessWithHeaders(w, options, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, r, func(data *services.DashboardData) any { return data.Metrics })
}

func (h *APIHandlers) HandleDailyOutput(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, r, func(data *services.DashboardData) any { return data.DailyOutput })
}

func (h *APIHandlers) HandleCoffeeUsage(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, r, func(data *services.DashboardData) any { return data.CoffeeUsage })
}

func (h *APIHandlers) HandleMachineUtilization(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, r, func(data *services.DashboardData) any { return data.MachineUtilization })
}

func (h *APIHandlers) HandleCustomerSummary(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, r, func(data *services.DashboardData) any { return data.CustomerSummary })
}

// writeData runs the derive pipeline for the request's filters and
// writes the selected projection of the result.
func (h *APIHandlers) writeData(w http.ResponseWriter, r *http.Request, project func(*services.DashboardData) any) {
	filters := parseFilters(r, time.Now())

	data, err := h.dashboard.Data(r.Context(), filters)
	if err == services.ErrNoData {
		errors.WriteNoData(w)
		return
	}
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccessWithHeaders(w, project(data), map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r, time.Now())

	rows, err := h.dashboard.ExportRows(r.Context(), filters)
	if err == services.ErrNoData {
		errors.WriteNoData(w)
		return
	}
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="production_data.csv"`)

	if err := export.WriteCSV(w, rows); err != nil {
		h.logger.Error("csv export failed",
			"error", err,
			"request_id", observability.GetRequestID(r.Context()),
		)
	}
}

func (h *APIHandlers) HandleExportXLSX(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r, time.Now())

	rows, err := h.dashboard.ExportRows(r.Context(), filters)
	if err == services.ErrNoData {
		errors.WriteNoData(w)
		return
	}
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="production_data.xlsx"`)

	if err := export.WriteXLSX(w, rows); err != nil {
		h.logger.Error("xlsx export failed",
			"error", err,
			"request_id", observability.GetRequestID(r.Context()),
		)
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.dashboard.Stats())
}
