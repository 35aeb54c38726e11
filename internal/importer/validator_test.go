package importer

import (
	"testing"

	"github.com/skyops/airaudit/internal/domain"
)

func validRow(index int) Row {
	cells := sampleCells()
	return SanitizeRow(index, cells)
}

func TestValidateRowsAcceptsCleanRow(t *testing.T) {
	diags := ValidateRows([]Row{validRow(0)})
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func TestValidateRowsRequiresDescription(t *testing.T) {
	cells := sampleCells()
	cells["Description"] = "   "
	diags := ValidateRows([]Row{SanitizeRow(3, cells)})

	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	d := diags[0]
	if d.RowIndex != 3 || d.Field != "description" || d.Severity != domain.SeverityError {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
}

func TestValidateRowsRejectsNegativeIntervals(t *testing.T) {
	cells := sampleCells()
	cells["Interval Hours"] = "-10"
	cells["Last Completed Landings"] = "-1"
	diags := ValidateRows([]Row{SanitizeRow(0, cells)})

	if len(diags) != 2 {
		t.Fatalf("expected two diagnostics, got %v", diags)
	}
	for _, d := range diags {
		if d.Severity != domain.SeverityError {
			t.Fatalf("negative values must be errors, got %+v", d)
		}
	}
}

func TestValidateRowsNegativeDaysRemainingIsAllowed(t *testing.T) {
	// Overdue calendar time shows up as a negative day count and is legitimate.
	cells := sampleCells()
	cells["Time Remaining"] = "0m -12d"
	diags := ValidateRows([]Row{SanitizeRow(0, cells)})
	if len(diags) != 0 {
		t.Fatalf("expected overdue calendar counts to pass, got %v", diags)
	}
}

func TestValidateRowsWarnsOnUnknownType(t *testing.T) {
	cells := sampleCells()
	cells["Type"] = "widget"
	diags := ValidateRows([]Row{SanitizeRow(0, cells)})

	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	if diags[0].Field != "type" || diags[0].Severity != domain.SeverityWarning {
		t.Fatalf("expected type warning, got %+v", diags[0])
	}
}

func TestValidateRowsWarnsOnDueBeforeLastCompleted(t *testing.T) {
	cells := sampleCells()
	cells["Last Completed Date"] = "2024-03-15"
	cells["Due Next Date"] = "2023-01-01"
	diags := ValidateRows([]Row{SanitizeRow(0, cells)})

	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	if diags[0].Field != "due_next_date" || diags[0].Severity != domain.SeverityWarning {
		t.Fatalf("expected due date warning, got %+v", diags[0])
	}
}

func TestValidateRowsCollectsAcrossRows(t *testing.T) {
	bad := sampleCells()
	bad["Description"] = ""
	bad["Interval Months"] = "-1"

	diags := ValidateRows([]Row{validRow(0), SanitizeRow(1, bad), validRow(2)})
	if len(diags) != 2 {
		t.Fatalf("expected two diagnostics for the bad row, got %v", diags)
	}
	for _, d := range diags {
		if d.RowIndex != 1 {
			t.Fatalf("diagnostic attributed to wrong row: %+v", d)
		}
	}
}
