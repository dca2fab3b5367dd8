package store

import (
	"database/sql"
	"strings"
	"testing"
	"time"
)

func rangeDates() (time.Time, time.Time) {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
}

func TestBuildProductionQuery_Unconstrained(t *testing.T) {
	start, end := rangeDates()

	for _, sentinel := range []string{"", AllSentinel} {
		query, args := buildProductionQuery(start, end, sentinel, sentinel)

		if strings.Contains(query, "machine.machine_name = ") {
			t.Errorf("sentinel %q should not add a machine filter", sentinel)
		}
		if strings.Contains(query, "sku.customer = $") {
			t.Errorf("sentinel %q should not add a customer filter", sentinel)
		}
		if len(args) != 2 {
			t.Errorf("args = %d, want 2 (date bounds only)", len(args))
		}
	}
}

func TestBuildProductionQuery_MachineOnly(t *testing.T) {
	start, end := rangeDates()
	query, args := buildProductionQuery(start, end, "Line-A", AllSentinel)

	if !strings.Contains(query, "machine.machine_name = $3") {
		t.Errorf("query missing machine filter at $3:\n%s", query)
	}
	if strings.Contains(query, "sku.customer = $") {
		t.Error("customer filter should be skipped")
	}
	if len(args) != 3 || args[2] != "Line-A" {
		t.Errorf("args = %v, want [start end Line-A]", args)
	}
}

func TestBuildProductionQuery_BothFilters(t *testing.T) {
	start, end := rangeDates()
	query, args := buildProductionQuery(start, end, "Line-A", "Acme Roasters")

	if !strings.Contains(query, "machine.machine_name = $3") {
		t.Error("query missing machine filter at $3")
	}
	if !strings.Contains(query, "sku.customer = $4") {
		t.Error("query missing customer filter at $4")
	}
	if len(args) != 4 || args[3] != "Acme Roasters" {
		t.Errorf("args = %v, want customer at position 4", args)
	}
}

func TestBuildProductionQuery_InclusiveRangeAndOrder(t *testing.T) {
	start, end := rangeDates()
	query, args := buildProductionQuery(start, end, AllSentinel, AllSentinel)

	// BETWEEN keeps both date bounds inclusive.
	if !strings.Contains(query, "dp.date BETWEEN $1 AND $2") {
		t.Errorf("query missing inclusive date range:\n%s", query)
	}
	if !strings.HasSuffix(query, "ORDER BY dp.date, machine.machine_name") {
		t.Errorf("query missing (date, machine) ordering:\n%s", query)
	}
	if args[0] != start || args[1] != end {
		t.Errorf("date args = %v, want [%v %v]", args, start, end)
	}
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name  string
		input sql.NullString
		want  *int64
	}{
		{"plain integer", sql.NullString{String: "120", Valid: true}, int64Ptr(120)},
		{"padded integer", sql.NullString{String: " 42 ", Valid: true}, int64Ptr(42)},
		{"float-typed count", sql.NullString{String: "100.0", Valid: true}, int64Ptr(100)},
		{"garbage becomes missing", sql.NullString{String: "n/a", Valid: true}, nil},
		{"sql null", sql.NullString{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceInt(tt.input)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("coerceInt(%q) = %d, want nil", tt.input.String, *got)
			case tt.want != nil && got == nil:
				t.Errorf("coerceInt(%q) = nil, want %d", tt.input.String, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("coerceInt(%q) = %d, want %d", tt.input.String, *got, *tt.want)
			}
		})
	}
}

func TestCoerceFloat(t *testing.T) {
	tests := []struct {
		name  string
		input sql.NullString
		want  *float64
	}{
		{"fraction", sql.NullString{String: "0.5", Valid: true}, float64Ptr(0.5)},
		{"integer-valued", sql.NullString{String: "2", Valid: true}, float64Ptr(2)},
		{"garbage becomes missing", sql.NullString{String: "unknown", Valid: true}, nil},
		{"sql null", sql.NullString{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceFloat(tt.input)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("coerceFloat(%q) = %v, want nil", tt.input.String, *got)
			case tt.want != nil && got == nil:
				t.Errorf("coerceFloat(%q) = nil, want %v", tt.input.String, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("coerceFloat(%q) = %v, want %v", tt.input.String, *got, *tt.want)
			}
		})
	}
}

func TestSortedKeys(t *testing.T) {
	set := map[string]struct{}{"Line-C": {}, "Line-A": {}, "Line-B": {}}
	got := sortedKeys(set)

	want := []string{"Line-A", "Line-B", "Line-C"}
	if len(got) != len(want) {
		t.Fatalf("sortedKeys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sortedKeys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }
