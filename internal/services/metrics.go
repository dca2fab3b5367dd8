package services

import (
	"errors"
	"slices"
	"strings"

	"coffee-kpi-dashboard/internal/models"
)

// ErrNoData signals that the filtered record set is empty. Callers show
// a "no data for selection" notice instead of zero-valued aggregates.
var ErrNoData = errors.New("no data for the selected filters")

const dateKeyFormat = "2006-01-02"

// DashboardData is everything derived from one filtered record set: the
// headline KPIs, the grouped chart series, and the per-row table with
// derived origin totals.
type DashboardData struct {
	Metrics            models.DerivedMetrics       `json:"metrics"`
	DailyOutput        []models.DailyOutput        `json:"daily_output"`
	CoffeeUsage        []models.DailyCoffeeUsage   `json:"coffee_usage"`
	MachineUtilization []models.MachineUtilization `json:"machine_utilization"`
	CustomerSummary    []models.CustomerSummary    `json:"customer_summary"`
	Rows               []models.DerivedRow         `json:"rows"`
}

// DeriveDashboard computes all aggregates from the fetched records. It is
// a pure function: every render recomputes from scratch. Missing numeric
// values (nil) are skipped by every sum, matching how the upstream data
// treats non-coercible columns. An empty input returns ErrNoData.
func DeriveDashboard(records []models.ProductionRecord) (*DashboardData, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}

	rows := DeriveRows(records)

	var metrics models.DerivedMetrics
	machines := make(map[string]struct{})

	dailyOutput := make(map[string]*models.DailyOutput)
	coffeeUsage := make(map[string]*models.DailyCoffeeUsage)
	machineUtil := make(map[string]*models.MachineUtilization)
	customerSummary := make(map[string]*models.CustomerSummary)

	for _, row := range rows {
		machines[row.MachineName] = struct{}{}

		dateKey := row.Date.Format(dateKeyFormat)
		if dailyOutput[dateKey] == nil {
			dailyOutput[dateKey] = &models.DailyOutput{Date: dateKey}
		}
		if coffeeUsage[dateKey] == nil {
			coffeeUsage[dateKey] = &models.DailyCoffeeUsage{Date: dateKey}
		}
		if machineUtil[row.MachineName] == nil {
			machineUtil[row.MachineName] = &models.MachineUtilization{MachineName: row.MachineName}
		}
		if customerSummary[row.Customer] == nil {
			customerSummary[row.Customer] = &models.CustomerSummary{Customer: row.Customer}
		}

		if row.ProducedCases != nil {
			metrics.TotalProduced += *row.ProducedCases
			dailyOutput[dateKey].Produced += *row.ProducedCases
			machineUtil[row.MachineName].Produced += *row.ProducedCases
			customerSummary[row.Customer].Produced += *row.ProducedCases
		}
		if row.ScheduledCases != nil {
			metrics.TotalScheduled += *row.ScheduledCases
			dailyOutput[dateKey].Scheduled += *row.ScheduledCases
		}
		if row.TotalArabica != nil {
			metrics.TotalArabica += *row.TotalArabica
			coffeeUsage[dateKey].Arabica += *row.TotalArabica
		}
		if row.TotalRobusta != nil {
			metrics.TotalRobusta += *row.TotalRobusta
			coffeeUsage[dateKey].Robusta += *row.TotalRobusta
		}
		if row.TotalBrazil != nil {
			metrics.TotalBrazil += *row.TotalBrazil
			coffeeUsage[dateKey].Brazil += *row.TotalBrazil
		}
	}

	metrics.TotalCoffee = metrics.TotalArabica + metrics.TotalRobusta + metrics.TotalBrazil
	metrics.MachinesInvolved = len(machines)

	// Explicit divide-by-zero guard: zero scheduled means 0% efficiency,
	// never an error or infinity.
	if metrics.TotalScheduled > 0 {
		metrics.ProductionEfficiency = float64(metrics.TotalProduced) / float64(metrics.TotalScheduled) * 100
	}

	return &DashboardData{
		Metrics:            metrics,
		DailyOutput:        sortDailyOutput(dailyOutput),
		CoffeeUsage:        sortCoffeeUsage(coffeeUsage),
		MachineUtilization: sortMachineUtilization(machineUtil),
		CustomerSummary:    sortCustomerSummary(customerSummary),
		Rows:               rows,
	}, nil
}

// DeriveRows computes the per-row origin weights. A weight is nil when
// produced_cases or the origin fraction is missing.
func DeriveRows(records []models.ProductionRecord) []models.DerivedRow {
	rows := make([]models.DerivedRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, models.DerivedRow{
			ProductionRecord: record,
			TotalArabica:     weight(record.ProducedCases, record.Arabica),
			TotalRobusta:     weight(record.ProducedCases, record.Robusta),
			TotalBrazil:      weight(record.ProducedCases, record.Brazil),
		})
	}
	return rows
}

func weight(produced *int64, fraction *float64) *float64 {
	if produced == nil || fraction == nil {
		return nil
	}
	w := float64(*produced) * *fraction
	return &w
}

func sortDailyOutput(groups map[string]*models.DailyOutput) []models.DailyOutput {
	result := make([]models.DailyOutput, 0, len(groups))
	for _, g := range groups {
		result = append(result, *g)
	}
	slices.SortFunc(result, func(a, b models.DailyOutput) int {
		return strings.Compare(a.Date, b.Date)
	})
	return result
}

func sortCoffeeUsage(groups map[string]*models.DailyCoffeeUsage) []models.DailyCoffeeUsage {
	result := make([]models.DailyCoffeeUsage, 0, len(groups))
	for _, g := range groups {
		result = append(result, *g)
	}
	slices.SortFunc(result, func(a, b models.DailyCoffeeUsage) int {
		return strings.Compare(a.Date, b.Date)
	})
	return result
}

func sortMachineUtilization(groups map[string]*models.MachineUtilization) []models.MachineUtilization {
	result := make([]models.MachineUtilization, 0, len(groups))
	for _, g := range groups {
		result = append(result, *g)
	}
	slices.SortFunc(result, func(a, b models.MachineUtilization) int {
		return strings.Compare(a.MachineName, b.MachineName)
	})
	return result
}

func sortCustomerSummary(groups map[string]*models.CustomerSummary) []models.CustomerSummary {
	result := make([]models.CustomerSummary, 0, len(groups))
	for _, g := range groups {
		result = append(result, *g)
	}
	slices.SortFunc(result, func(a, b models.CustomerSummary) int {
		return strings.Compare(a.Customer, b.Customer)
	})
	return result
}
