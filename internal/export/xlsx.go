package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"coffee-kpi-dashboard/internal/models"
)

const sheetName = "Production"

// WriteXLSX writes the rows as a single-sheet workbook with the same
// columns as the CSV export.
func WriteXLSX(w io.Writer, rows []models.DerivedRow) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	header := make([]any, len(columnHeaders))
	for i, h := range columnHeaders {
		header[i] = h
	}
	if err := setRow(f, 1, header); err != nil {
		return err
	}

	for i, row := range rows {
		values := make([]any, 0, len(columnHeaders))
		values = append(values,
			row.Date.Format(exportDateFormat),
			cellInt(row.ScheduledCases),
			cellInt(row.ProducedCases),
			row.ShiftStart,
			row.ShiftEnd,
			row.Customer,
			row.SKU,
			cellFloat(row.Arabica),
			cellFloat(row.Robusta),
			cellFloat(row.Brazil),
			row.MachineName,
			cellFloat(row.TotalArabica),
			cellFloat(row.TotalRobusta),
			cellFloat(row.TotalBrazil),
		)
		if err := setRow(f, i+2, values); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, rowNo int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", rowNo, err)
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("set row %d: %w", rowNo, err)
	}
	return nil
}

func cellInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func cellFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
