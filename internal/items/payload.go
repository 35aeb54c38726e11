package items

import (
	"strings"

	"github.com/skyops/airaudit/internal/domain"
	"github.com/skyops/airaudit/internal/importer"
)

// ApplyPayload merges a JSON payload onto a base set of fields. Only known
// field names are applied; anything else is silently dropped. Values run
// through the same normalization as imported cells, so manual entry can never
// produce shapes an import could not.
func ApplyPayload(base domain.ItemFields, payload map[string]any) domain.ItemFields {
	f := base

	for key, value := range payload {
		switch key {
		case "item_code":
			f.ItemCode = normString(value)
		case "position":
			f.Position = normString(value)
		case "description":
			f.Description = normString(value)
		case "type":
			f.Type = normType(value)
		case "interval_months":
			f.IntervalMonths = normInt(value)
		case "interval_hours":
			f.IntervalHours = normInt(value)
		case "interval_landings":
			f.IntervalLandings = normInt(value)
		case "adjusted_value":
			f.AdjustedValue = normInt(value)
		case "adjusted_unit":
			f.AdjustedUnit = normString(value)
		case "adjusted_delta":
			f.AdjustedDelta = normInt(value)
		case "part_number":
			f.PartNumber = normString(value)
		case "part_serial":
			f.PartSerial = normString(value)
		case "last_completed_date":
			f.LastCompletedDate = normDate(value)
		case "last_completed_hours":
			f.LastCompletedHours = normInt(value)
		case "last_completed_landings":
			f.LastCompletedLandings = normInt(value)
		case "last_completed_city":
			f.LastCompletedCity = normString(value)
		case "due_next_date":
			f.DueNextDate = normDate(value)
		case "due_next_hours":
			f.DueNextHours = normInt(value)
		case "due_next_landings":
			f.DueNextLandings = normInt(value)
		case "time_remaining_text":
			f.TimeRemainingText = normString(value)
		case "months_remaining":
			f.MonthsRemaining = normInt(value)
		case "days_remaining":
			f.DaysRemaining = normInt(value)
		case "is_overdue_time":
			f.IsOverdueTime = normBool(value)
		case "hours_remaining":
			f.HoursRemaining = normInt(value)
		case "landings_remaining":
			f.LandingsRemaining = normInt(value)
		case "status":
			f.Status = normString(value)
		case "status_note":
			f.StatusNote = normString(value)
		}
	}

	return f
}

func normString(value any) *string {
	switch v := value.(type) {
	case string:
		return importer.StringOrNone(v)
	default:
		return nil
	}
}

func normType(value any) *string {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	return importer.StringOrNone(strings.ToLower(s))
}

// normInt accepts both JSON numbers and the free-text forms an import would
// see, such as "1,200".
func normInt(value any) *int {
	switch v := value.(type) {
	case float64:
		n := int(v)
		return &n
	case int:
		n := v
		return &n
	case string:
		return importer.IntOrNone(v)
	default:
		return nil
	}
}

func normDate(value any) *string {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	return importer.DateOrNone(s)
}

func normBool(value any) *bool {
	b, ok := value.(bool)
	if !ok {
		return nil
	}
	return &b
}
