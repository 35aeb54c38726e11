package importer

import "testing"

func sampleCells() map[string]string {
	return map[string]string{
		"Item Code":               "32-100",
		"Position":                "LH",
		"Description":             "Main gear overhaul",
		"Type":                    "COMP",
		"Interval Months":         "120",
		"Interval Hours":          "1,200",
		"Interval Landings":       "",
		"Adjusted Interval":       "150 hrs (-12)",
		"Part Number":             "P/N-5541",
		"Part Serial":             "SN-0092",
		"Last Completed Date":     "03/15/2024",
		"Last Completed Hours":    "8500",
		"Last Completed Landings": "4100",
		"Last Completed City":     "KOAK",
		"Due Next Date":           "2034-03-15",
		"Due Next Hours":          "9700",
		"Due Next Landings":       "",
		"Time Remaining":          "36m -5d",
		"Hours Remaining":         "1,200 hrs",
		"Landings Remaining":      "",
		"Status":                  "OK",
		"Status Note":             "",
	}
}

func TestSanitizeRowNormalizesFields(t *testing.T) {
	row := SanitizeRow(0, sampleCells())
	f := row.Fields

	if f.ItemCode == nil || *f.ItemCode != "32-100" {
		t.Fatalf("unexpected item code: %v", f.ItemCode)
	}
	if f.Type == nil || *f.Type != "comp" {
		t.Fatalf("expected type lower-cased to comp, got %v", f.Type)
	}
	if f.IntervalHours == nil || *f.IntervalHours != 1200 {
		t.Fatalf("expected interval hours 1200, got %v", f.IntervalHours)
	}
	if f.IntervalLandings != nil {
		t.Fatalf("expected nil interval landings for empty cell")
	}
	if f.AdjustedValue == nil || *f.AdjustedValue != 150 {
		t.Fatalf("expected adjusted value 150, got %v", f.AdjustedValue)
	}
	if f.AdjustedUnit == nil || *f.AdjustedUnit != UnitHours {
		t.Fatalf("expected adjusted unit hrs, got %v", f.AdjustedUnit)
	}
	if f.AdjustedDelta == nil || *f.AdjustedDelta != -12 {
		t.Fatalf("expected adjusted delta -12, got %v", f.AdjustedDelta)
	}
	if f.LastCompletedDate == nil || *f.LastCompletedDate != "2024-03-15" {
		t.Fatalf("expected canonical date, got %v", f.LastCompletedDate)
	}
	if f.MonthsRemaining == nil || *f.MonthsRemaining != 36 {
		t.Fatalf("expected 36 months remaining, got %v", f.MonthsRemaining)
	}
	if f.DaysRemaining == nil || *f.DaysRemaining != -5 {
		t.Fatalf("expected -5 days remaining, got %v", f.DaysRemaining)
	}
	if f.IsOverdueTime == nil || !*f.IsOverdueTime {
		t.Fatalf("expected overdue flag set")
	}
	if f.HoursRemaining == nil || *f.HoursRemaining != 1200 {
		t.Fatalf("expected hours remaining 1200, got %v", f.HoursRemaining)
	}
	if f.StatusNote != nil {
		t.Fatalf("expected nil status note for empty cell")
	}
}

func TestSanitizeRowFingerprintIsStable(t *testing.T) {
	first := SanitizeRow(0, sampleCells())
	second := SanitizeRow(7, sampleCells())

	if first.Fingerprint == "" {
		t.Fatalf("expected non-empty fingerprint")
	}
	// Row position must not influence identity.
	if first.Fingerprint != second.Fingerprint {
		t.Fatalf("identical rows produced different fingerprints: %s vs %s", first.Fingerprint, second.Fingerprint)
	}
}

func TestSanitizeRowFingerprintTracksKeyFields(t *testing.T) {
	base := SanitizeRow(0, sampleCells())

	keyChanged := sampleCells()
	keyChanged["Part Serial"] = "SN-0093"
	if got := SanitizeRow(0, keyChanged); got.Fingerprint == base.Fingerprint {
		t.Fatalf("expected key field change to alter fingerprint")
	}

	nonKeyChanged := sampleCells()
	nonKeyChanged["Status Note"] = "inspected twice"
	nonKeyChanged["Due Next Hours"] = "9999"
	if got := SanitizeRow(0, nonKeyChanged); got.Fingerprint != base.Fingerprint {
		t.Fatalf("expected non-key field change to keep fingerprint")
	}
}

func TestMissingColumns(t *testing.T) {
	if missing := MissingColumns(ExpectedColumns); len(missing) != 0 {
		t.Fatalf("expected no missing columns, got %v", missing)
	}

	headers := make([]string, 0, len(ExpectedColumns))
	for _, col := range ExpectedColumns {
		if col == "Part Serial" || col == "Status Note" {
			continue
		}
		headers = append(headers, col)
	}
	missing := MissingColumns(headers)
	if len(missing) != 2 || missing[0] != "Part Serial" || missing[1] != "Status Note" {
		t.Fatalf("unexpected missing columns: %v", missing)
	}
}
