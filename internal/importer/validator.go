package importer

import (
	"fmt"

	"github.com/skyops/airaudit/internal/domain"
)

var allowedTypes = map[string]bool{
	"sbsl": true,
	"comp": true,
	"ad":   true,
	"insp": true,
}

// nonNegativeFields are the numeric fields that may not be negative once present.
var nonNegativeFields = []struct {
	name  string
	value func(domain.ItemFields) *int
}{
	{"interval_months", func(f domain.ItemFields) *int { return f.IntervalMonths }},
	{"interval_hours", func(f domain.ItemFields) *int { return f.IntervalHours }},
	{"interval_landings", func(f domain.ItemFields) *int { return f.IntervalLandings }},
	{"last_completed_hours", func(f domain.ItemFields) *int { return f.LastCompletedHours }},
	{"last_completed_landings", func(f domain.ItemFields) *int { return f.LastCompletedLandings }},
	{"due_next_hours", func(f domain.ItemFields) *int { return f.DueNextHours }},
	{"due_next_landings", func(f domain.ItemFields) *int { return f.DueNextLandings }},
	{"hours_remaining", func(f domain.ItemFields) *int { return f.HoursRemaining }},
	{"landings_remaining", func(f domain.ItemFields) *int { return f.LandingsRemaining }},
	{"adjusted_value", func(f domain.ItemFields) *int { return f.AdjustedValue }},
}

// ValidateRows scans sanitized rows and collects every problem instead of
// stopping at the first: batch processing must see all diagnostics. Only
// error-severity diagnostics block a row's insertion.
func ValidateRows(rows []Row) []domain.Diagnostic {
	var diags []domain.Diagnostic

	add := func(index int, field, message string, severity domain.Severity) {
		diags = append(diags, domain.Diagnostic{
			RowIndex: index,
			Field:    field,
			Message:  message,
			Severity: severity,
		})
	}

	for _, row := range rows {
		f := row.Fields

		if f.Description == nil {
			add(row.Index, "description", "Description is required.", domain.SeverityError)
		}

		for _, nn := range nonNegativeFields {
			if v := nn.value(f); v != nil && *v < 0 {
				add(row.Index, nn.name, "Must be >= 0.", domain.SeverityError)
			}
		}

		if f.Type != nil && !allowedTypes[*f.Type] {
			add(row.Index, "type", fmt.Sprintf("Unknown type %q.", *f.Type), domain.SeverityWarning)
		}

		if f.LastCompletedDate != nil && f.DueNextDate != nil && *f.DueNextDate < *f.LastCompletedDate {
			add(row.Index, "due_next_date", "Due Next Date precedes Last Completed Date.", domain.SeverityWarning)
		}
	}

	return diags
}
