package services

import (
	"math"
	"testing"
	"time"

	"coffee-kpi-dashboard/internal/models"
)

const floatTolerance = 1e-9

func intPtr(v int64) *int64       { return &v }
func floatPtr(v float64) *float64 { return &v }

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func sampleRecords() []models.ProductionRecord {
	return []models.ProductionRecord{
		{
			Date:           day(1),
			ScheduledCases: intPtr(120),
			ProducedCases:  intPtr(100),
			Customer:       "Acme Roasters",
			SKU:            "SKU-001",
			Arabica:        floatPtr(0.5),
			Robusta:        floatPtr(0.3),
			Brazil:         floatPtr(0.1),
			MachineName:    "Line-A",
		},
		{
			Date:           day(2),
			ScheduledCases: intPtr(60),
			ProducedCases:  intPtr(50),
			Customer:       "Beanline",
			SKU:            "SKU-002",
			Arabica:        floatPtr(0.4),
			Robusta:        floatPtr(0.2),
			Brazil:         floatPtr(0.2),
			MachineName:    "Line-B",
		},
	}
}

func TestDeriveDashboard_WorkedExample(t *testing.T) {
	data, err := DeriveDashboard(sampleRecords())
	if err != nil {
		t.Fatalf("DeriveDashboard() failed: %v", err)
	}

	m := data.Metrics
	if m.TotalArabica != 70 {
		t.Errorf("TotalArabica = %v, want 70", m.TotalArabica)
	}
	if m.TotalRobusta != 40 {
		t.Errorf("TotalRobusta = %v, want 40", m.TotalRobusta)
	}
	if m.TotalBrazil != 20 {
		t.Errorf("TotalBrazil = %v, want 20", m.TotalBrazil)
	}
	if m.TotalCoffee != 130 {
		t.Errorf("TotalCoffee = %v, want 130", m.TotalCoffee)
	}
	if m.TotalProduced != 150 {
		t.Errorf("TotalProduced = %v, want 150", m.TotalProduced)
	}
	if m.TotalScheduled != 180 {
		t.Errorf("TotalScheduled = %v, want 180", m.TotalScheduled)
	}
	if m.MachinesInvolved != 2 {
		t.Errorf("MachinesInvolved = %v, want 2", m.MachinesInvolved)
	}

	wantEfficiency := 150.0 / 180.0 * 100
	if math.Abs(m.ProductionEfficiency-wantEfficiency) > floatTolerance {
		t.Errorf("ProductionEfficiency = %v, want %v", m.ProductionEfficiency, wantEfficiency)
	}
}

func TestDeriveDashboard_CoffeeSumIdentity(t *testing.T) {
	data, err := DeriveDashboard(sampleRecords())
	if err != nil {
		t.Fatalf("DeriveDashboard() failed: %v", err)
	}

	m := data.Metrics
	sum := m.TotalArabica + m.TotalRobusta + m.TotalBrazil
	if math.Abs(m.TotalCoffee-sum) > floatTolerance {
		t.Errorf("TotalCoffee = %v, want sum of origins %v", m.TotalCoffee, sum)
	}
}

func TestDeriveDashboard_ZeroScheduledEfficiency(t *testing.T) {
	records := []models.ProductionRecord{
		{
			Date:           day(1),
			ScheduledCases: intPtr(0),
			ProducedCases:  intPtr(500),
			Customer:       "Acme Roasters",
			MachineName:    "Line-A",
		},
	}

	data, err := DeriveDashboard(records)
	if err != nil {
		t.Fatalf("DeriveDashboard() failed: %v", err)
	}

	if data.Metrics.ProductionEfficiency != 0 {
		t.Errorf("ProductionEfficiency = %v, want 0 when nothing was scheduled",
			data.Metrics.ProductionEfficiency)
	}
	if data.Metrics.TotalProduced != 500 {
		t.Errorf("TotalProduced = %v, want 500", data.Metrics.TotalProduced)
	}
}

func TestDeriveDashboard_EmptyInput(t *testing.T) {
	if _, err := DeriveDashboard(nil); err != ErrNoData {
		t.Errorf("DeriveDashboard(nil) error = %v, want ErrNoData", err)
	}
	if _, err := DeriveDashboard([]models.ProductionRecord{}); err != ErrNoData {
		t.Errorf("DeriveDashboard(empty) error = %v, want ErrNoData", err)
	}
}

func TestDeriveDashboard_GroupSumsDecomposeTotals(t *testing.T) {
	records := append(sampleRecords(), models.ProductionRecord{
		Date:           day(1),
		ScheduledCases: intPtr(40),
		ProducedCases:  intPtr(30),
		Customer:       "Acme Roasters",
		SKU:            "SKU-003",
		Arabica:        floatPtr(0.25),
		Robusta:        floatPtr(0.25),
		Brazil:         floatPtr(0.25),
		MachineName:    "Line-A",
	})

	data, err := DeriveDashboard(records)
	if err != nil {
		t.Fatalf("DeriveDashboard() failed: %v", err)
	}

	var byDate, byMachine, byCustomer int64
	for _, g := range data.DailyOutput {
		byDate += g.Produced
	}
	for _, g := range data.MachineUtilization {
		byMachine += g.Produced
	}
	for _, g := range data.CustomerSummary {
		byCustomer += g.Produced
	}

	total := data.Metrics.TotalProduced
	if byDate != total {
		t.Errorf("sum of per-date produced = %d, want %d", byDate, total)
	}
	if byMachine != total {
		t.Errorf("sum of per-machine produced = %d, want %d", byMachine, total)
	}
	if byCustomer != total {
		t.Errorf("sum of per-customer produced = %d, want %d", byCustomer, total)
	}

	var usageByDate float64
	for _, g := range data.CoffeeUsage {
		usageByDate += g.Arabica + g.Robusta + g.Brazil
	}
	if math.Abs(usageByDate-data.Metrics.TotalCoffee) > floatTolerance {
		t.Errorf("sum of per-date usage = %v, want %v", usageByDate, data.Metrics.TotalCoffee)
	}
}

func TestDeriveDashboard_GroupKeysSortedAscending(t *testing.T) {
	records := []models.ProductionRecord{
		{Date: day(3), ProducedCases: intPtr(5), Customer: "Zenith", MachineName: "Line-C"},
		{Date: day(1), ProducedCases: intPtr(3), Customer: "Acme Roasters", MachineName: "Line-A"},
		{Date: day(2), ProducedCases: intPtr(4), Customer: "Beanline", MachineName: "Line-B"},
	}

	data, err := DeriveDashboard(records)
	if err != nil {
		t.Fatalf("DeriveDashboard() failed: %v", err)
	}

	for i := 1; i < len(data.DailyOutput); i++ {
		if data.DailyOutput[i-1].Date > data.DailyOutput[i].Date {
			t.Errorf("DailyOutput not sorted: %q before %q",
				data.DailyOutput[i-1].Date, data.DailyOutput[i].Date)
		}
	}
	for i := 1; i < len(data.MachineUtilization); i++ {
		if data.MachineUtilization[i-1].MachineName > data.MachineUtilization[i].MachineName {
			t.Error("MachineUtilization not sorted by machine name")
		}
	}
	for i := 1; i < len(data.CustomerSummary); i++ {
		if data.CustomerSummary[i-1].Customer > data.CustomerSummary[i].Customer {
			t.Error("CustomerSummary not sorted by customer")
		}
	}
}

func TestDeriveDashboard_MissingValuesSkipped(t *testing.T) {
	records := []models.ProductionRecord{
		{
			Date:           day(1),
			ScheduledCases: nil, // not coercible upstream
			ProducedCases:  intPtr(100),
			Customer:       "Acme Roasters",
			Arabica:        floatPtr(0.5),
			Robusta:        nil,
			Brazil:         floatPtr(0.1),
			MachineName:    "Line-A",
		},
	}

	data, err := DeriveDashboard(records)
	if err != nil {
		t.Fatalf("DeriveDashboard() failed: %v", err)
	}

	if data.Metrics.TotalScheduled != 0 {
		t.Errorf("TotalScheduled = %d, want 0 for missing values", data.Metrics.TotalScheduled)
	}
	if data.Metrics.TotalRobusta != 0 {
		t.Errorf("TotalRobusta = %v, want 0 for missing fraction", data.Metrics.TotalRobusta)
	}
	if data.Metrics.TotalArabica != 50 {
		t.Errorf("TotalArabica = %v, want 50", data.Metrics.TotalArabica)
	}

	// Efficiency guard also applies when the schedule summed to zero
	// because of missing values.
	if data.Metrics.ProductionEfficiency != 0 {
		t.Errorf("ProductionEfficiency = %v, want 0", data.Metrics.ProductionEfficiency)
	}
}

func TestDeriveRows_PerRowTotals(t *testing.T) {
	rows := DeriveRows(sampleRecords())

	if len(rows) != 2 {
		t.Fatalf("DeriveRows() returned %d rows, want 2", len(rows))
	}

	if rows[0].TotalArabica == nil || *rows[0].TotalArabica != 50 {
		t.Errorf("rows[0].TotalArabica = %v, want 50", rows[0].TotalArabica)
	}
	if rows[1].TotalBrazil == nil || *rows[1].TotalBrazil != 10 {
		t.Errorf("rows[1].TotalBrazil = %v, want 10", rows[1].TotalBrazil)
	}
}

func TestDeriveRows_MissingFactorYieldsNilTotal(t *testing.T) {
	rows := DeriveRows([]models.ProductionRecord{
		{Date: day(1), ProducedCases: nil, Arabica: floatPtr(0.5)},
		{Date: day(2), ProducedCases: intPtr(10), Arabica: nil},
	})

	if rows[0].TotalArabica != nil {
		t.Errorf("total with missing produced_cases = %v, want nil", *rows[0].TotalArabica)
	}
	if rows[1].TotalArabica != nil {
		t.Errorf("total with missing fraction = %v, want nil", *rows[1].TotalArabica)
	}
}
