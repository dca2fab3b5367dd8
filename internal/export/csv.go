// Package export renders the filtered production rows, including the
// derived per-row origin totals, as downloadable documents.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"coffee-kpi-dashboard/internal/models"
)

// columnHeaders is the export header row: every ProductionRecord column
// plus the three derived totals.
var columnHeaders = []string{
	"date", "scheduled_cases", "produced_cases", "shift_start", "shift_end",
	"customer", "sku_of_product", "arabica", "robusta", "brazil",
	"machine_name", "total_arabica", "total_robusta", "total_brazil",
}

const exportDateFormat = "2006-01-02"

// WriteCSV writes the rows as UTF-8 CSV with a header row. Missing
// numeric values are written as empty cells.
func WriteCSV(w io.Writer, rows []models.DerivedRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(columnHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		if err := cw.Write(csvFields(row)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvFields(row models.DerivedRow) []string {
	return []string{
		row.Date.Format(exportDateFormat),
		formatInt(row.ScheduledCases),
		formatInt(row.ProducedCases),
		row.ShiftStart,
		row.ShiftEnd,
		row.Customer,
		row.SKU,
		formatFloat(row.Arabica),
		formatFloat(row.Robusta),
		formatFloat(row.Brazil),
		row.MachineName,
		formatFloat(row.TotalArabica),
		formatFloat(row.TotalRobusta),
		formatFloat(row.TotalBrazil),
	}
}

func formatInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
