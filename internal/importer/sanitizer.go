package importer

import (
	"strings"

	"github.com/skyops/airaudit/internal/domain"
)

// ExpectedColumns is the fixed header contract of a maintenance-tracking
// export. All 22 columns must be present (in any order) or the entire import
// is rejected before any row is processed.
var ExpectedColumns = []string{
	"Item Code", "Position", "Description", "Type",
	"Interval Months", "Interval Hours", "Interval Landings", "Adjusted Interval",
	"Part Number", "Part Serial",
	"Last Completed Date", "Last Completed Hours", "Last Completed Landings", "Last Completed City",
	"Due Next Date", "Due Next Hours", "Due Next Landings",
	"Time Remaining", "Hours Remaining", "Landings Remaining",
	"Status", "Status Note",
}

// Row is one sanitized source row with its dedup fingerprint.
type Row struct {
	Index       int
	Fields      domain.ItemFields
	Fingerprint string
}

// MissingColumns returns the expected columns absent from the header row.
func MissingColumns(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []string
	for _, col := range ExpectedColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// SanitizeRow normalizes one raw row into typed fields. Unknown maintenance
// types are only lower-cased here; flagging them is the validator's job.
func SanitizeRow(index int, cells map[string]string) Row {
	var f domain.ItemFields

	f.ItemCode = StringOrNone(cells["Item Code"])
	f.Position = StringOrNone(cells["Position"])
	f.Description = StringOrNone(cells["Description"])
	f.Type = StringOrNone(strings.ToLower(cells["Type"]))

	f.IntervalMonths = IntOrNone(cells["Interval Months"])
	f.IntervalHours = IntOrNone(cells["Interval Hours"])
	f.IntervalLandings = IntOrNone(cells["Interval Landings"])

	f.AdjustedValue, f.AdjustedUnit, f.AdjustedDelta = AdjustedInterval(StringOrNone(cells["Adjusted Interval"]))

	f.PartNumber = StringOrNone(cells["Part Number"])
	f.PartSerial = StringOrNone(cells["Part Serial"])

	f.LastCompletedDate = DateOrNone(cells["Last Completed Date"])
	f.LastCompletedHours = IntOrNone(cells["Last Completed Hours"])
	f.LastCompletedLandings = IntOrNone(cells["Last Completed Landings"])
	f.LastCompletedCity = StringOrNone(cells["Last Completed City"])

	f.DueNextDate = DateOrNone(cells["Due Next Date"])
	f.DueNextHours = IntOrNone(cells["Due Next Hours"])
	f.DueNextLandings = IntOrNone(cells["Due Next Landings"])

	f.TimeRemainingText = StringOrNone(cells["Time Remaining"])
	f.MonthsRemaining, f.DaysRemaining, f.IsOverdueTime = TimeRemaining(f.TimeRemainingText)

	f.HoursRemaining = SignedCount(StringOrNone(cells["Hours Remaining"]))
	f.LandingsRemaining = SignedCount(StringOrNone(cells["Landings Remaining"]))

	f.Status = StringOrNone(cells["Status"])
	f.StatusNote = StringOrNone(cells["Status Note"])

	return Row{
		Index:       index,
		Fields:      f,
		Fingerprint: f.Fingerprint(),
	}
}
