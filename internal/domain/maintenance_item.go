package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ItemFields is the normalized payload shared by maintenance items, quarantined
// rows, and manual edits. Absent values are nil, never empty strings, so that
// uniqueness and storage constraints see consistent NULL semantics.
type ItemFields struct {
	ItemCode              *string `json:"item_code"`
	Position              *string `json:"position"`
	Description           *string `json:"description"`
	Type                  *string `json:"type"`
	IntervalMonths        *int    `json:"interval_months"`
	IntervalHours         *int    `json:"interval_hours"`
	IntervalLandings      *int    `json:"interval_landings"`
	AdjustedValue         *int    `json:"adjusted_value"`
	AdjustedUnit          *string `json:"adjusted_unit"`
	AdjustedDelta         *int    `json:"adjusted_delta"`
	PartNumber            *string `json:"part_number"`
	PartSerial            *string `json:"part_serial"`
	LastCompletedDate     *string `json:"last_completed_date"`
	LastCompletedHours    *int    `json:"last_completed_hours"`
	LastCompletedLandings *int    `json:"last_completed_landings"`
	LastCompletedCity     *string `json:"last_completed_city"`
	DueNextDate           *string `json:"due_next_date"`
	DueNextHours          *int    `json:"due_next_hours"`
	DueNextLandings       *int    `json:"due_next_landings"`
	TimeRemainingText     *string `json:"time_remaining_text"`
	MonthsRemaining       *int    `json:"months_remaining"`
	DaysRemaining         *int    `json:"days_remaining"`
	IsOverdueTime         *bool   `json:"is_overdue_time"`
	HoursRemaining        *int    `json:"hours_remaining"`
	LandingsRemaining     *int    `json:"landings_remaining"`
	Status                *string `json:"status"`
	StatusNote            *string `json:"status_note"`
}

// Fingerprint digests the nine key fields that define a row's maintenance
// identity. Missing values normalize to the empty string before hashing, so
// identical key tuples always produce identical fingerprints.
func (f ItemFields) Fingerprint() string {
	parts := []string{
		strOrEmpty(f.ItemCode),
		strOrEmpty(f.Position),
		strOrEmpty(f.Description),
		strOrEmpty(f.Type),
		strOrEmpty(f.PartNumber),
		strOrEmpty(f.PartSerial),
		intOrEmpty(f.IntervalMonths),
		intOrEmpty(f.IntervalHours),
		intOrEmpty(f.IntervalLandings),
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "||")))
	return hex.EncodeToString(sum[:])
}

// Map flattens the fields into a column-name keyed map. Pointer indirection is
// removed so absent values come out as untyped nils, which keeps ledger details
// and diffs JSON-friendly.
func (f ItemFields) Map() map[string]any {
	return map[string]any{
		"item_code":               deref(f.ItemCode),
		"position":                deref(f.Position),
		"description":             deref(f.Description),
		"type":                    deref(f.Type),
		"interval_months":         deref(f.IntervalMonths),
		"interval_hours":          deref(f.IntervalHours),
		"interval_landings":       deref(f.IntervalLandings),
		"adjusted_value":          deref(f.AdjustedValue),
		"adjusted_unit":           deref(f.AdjustedUnit),
		"adjusted_delta":          deref(f.AdjustedDelta),
		"part_number":             deref(f.PartNumber),
		"part_serial":             deref(f.PartSerial),
		"last_completed_date":     deref(f.LastCompletedDate),
		"last_completed_hours":    deref(f.LastCompletedHours),
		"last_completed_landings": deref(f.LastCompletedLandings),
		"last_completed_city":     deref(f.LastCompletedCity),
		"due_next_date":           deref(f.DueNextDate),
		"due_next_hours":          deref(f.DueNextHours),
		"due_next_landings":       deref(f.DueNextLandings),
		"time_remaining_text":     deref(f.TimeRemainingText),
		"months_remaining":        deref(f.MonthsRemaining),
		"days_remaining":          deref(f.DaysRemaining),
		"is_overdue_time":         deref(f.IsOverdueTime),
		"hours_remaining":         deref(f.HoursRemaining),
		"landings_remaining":      deref(f.LandingsRemaining),
		"status":                  deref(f.Status),
		"status_note":             deref(f.StatusNote),
	}
}

// FieldChange records one field's transition in an update diff.
type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// DiffItemFields returns the per-field changes between two payloads. An empty
// map means nothing changed and no ledger entry should be written.
func DiffItemFields(before, after ItemFields) map[string]FieldChange {
	b := before.Map()
	a := after.Map()
	changed := make(map[string]FieldChange)
	for key, oldValue := range b {
		if newValue := a[key]; oldValue != newValue {
			changed[key] = FieldChange{From: oldValue, To: newValue}
		}
	}
	return changed
}

// ChangedFieldNames lists the keys of a diff in stable order.
func ChangedFieldNames(diff map[string]FieldChange) []string {
	names := make([]string, 0, len(diff))
	for name := range diff {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MaintenanceItem is one committed maintenance record. Items are never deleted;
// edits update fields in place and mirror the change to the audit ledger.
type MaintenanceItem struct {
	ID            uuid.UUID `json:"id"`
	AircraftID    uuid.UUID `json:"aircraft_id"`
	ImportBatchID uuid.UUID `json:"import_batch_id"`
	ItemFields
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func deref(value any) any {
	switch v := value.(type) {
	case *string:
		if v == nil {
			return nil
		}
		return *v
	case *int:
		if v == nil {
			return nil
		}
		return *v
	case *bool:
		if v == nil {
			return nil
		}
		return *v
	default:
		return value
	}
}
