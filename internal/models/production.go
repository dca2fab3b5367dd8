package models

import "time"

// ProductionRecord is one (date, SKU, machine) production entry from the
// joined daily_production/sku/machine tables. Numeric fields are pointers:
// a nil value marks a column that could not be coerced to a number.
type ProductionRecord struct {
	Date           time.Time `json:"date"`
	ScheduledCases *int64    `json:"scheduled_cases"`
	ProducedCases  *int64    `json:"produced_cases"`
	ShiftStart     string    `json:"shift_start"`
	ShiftEnd       string    `json:"shift_end"`
	Customer       string    `json:"customer"`
	SKU            string    `json:"sku_of_product"`
	Arabica        *float64  `json:"arabica"`
	Robusta        *float64  `json:"robusta"`
	Brazil         *float64  `json:"brazil"`
	MachineName    string    `json:"machine_name"`
}

// DerivedRow is a ProductionRecord extended with the per-row origin
// weights (produced_cases x lbs-per-case). A total is nil when either
// factor is missing.
type DerivedRow struct {
	ProductionRecord
	TotalArabica *float64 `json:"total_arabica"`
	TotalRobusta *float64 `json:"total_robusta"`
	TotalBrazil  *float64 `json:"total_brazil"`
}

// FilterSelection is the resolved, concrete filter state for one render.
// Machine and Customer use the "All" sentinel for an unconstrained
// dimension.
type FilterSelection struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Machine   string    `json:"machine"`
	Customer  string    `json:"customer"`
}

// FilterOptions holds the distinct filter values available inside the
// selected date range, sorted ascending.
type FilterOptions struct {
	Machines  []string `json:"machines"`
	Customers []string `json:"customers"`
}

// DerivedMetrics are the headline KPI aggregates over the filtered set.
type DerivedMetrics struct {
	TotalProduced        int64   `json:"total_produced"`
	TotalScheduled       int64   `json:"total_scheduled"`
	TotalArabica         float64 `json:"total_arabica"`
	TotalRobusta         float64 `json:"total_robusta"`
	TotalBrazil          float64 `json:"total_brazil"`
	TotalCoffee          float64 `json:"total_coffee"`
	ProductionEfficiency float64 `json:"production_efficiency"`
	MachinesInvolved     int     `json:"machines_involved"`
}

// DailyOutput is produced vs scheduled cases summed per date.
type DailyOutput struct {
	Date      string `json:"date"`
	Produced  int64  `json:"produced_cases"`
	Scheduled int64  `json:"scheduled_cases"`
}

// DailyCoffeeUsage is the three origin weights summed per date.
type DailyCoffeeUsage struct {
	Date    string  `json:"date"`
	Arabica float64 `json:"total_arabica"`
	Robusta float64 `json:"total_robusta"`
	Brazil  float64 `json:"total_brazil"`
}

// MachineUtilization is produced cases summed per machine.
type MachineUtilization struct {
	MachineName string `json:"machine_name"`
	Produced    int64  `json:"produced_cases"`
}

// CustomerSummary is produced cases summed per customer.
type CustomerSummary struct {
	Customer string `json:"customer"`
	Produced int64  `json:"produced_cases"`
}
