package importer

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Field parsers convert raw cell text into typed values. They never fail:
// malformed input degrades to nil and error detection is the validator's job.

var (
	signedIntToken  = regexp.MustCompile(`-?\d+`)
	adjustedPattern = regexp.MustCompile(`^(\d+)\s*(hrs|hr|ldgs|ldg|c)?\s*\(\s*([-+]?\d+)\s*\)`)
	monthsPattern   = regexp.MustCompile(`(-?\d+)\s*m`)
	daysPattern     = regexp.MustCompile(`(-?\d+)\s*d`)

	dateLayouts = []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02 15:04:05",
		"2006/01/02",
		"01/02/2006",
		"02/01/2006",
		"2 Jan 2006",
		"Jan 2, 2006",
		"January 2, 2006",
	}
)

const (
	// UnitHours and UnitLandings are the normalized adjusted-interval units.
	UnitHours    = "hrs"
	UnitLandings = "ldgs"
)

// StringOrNone trims and tab-strips a raw cell. Empty cells become nil rather
// than empty strings so downstream uniqueness and storage constraints see
// consistent NULL semantics.
func StringOrNone(raw string) *string {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "\t", ""))
	if s == "" {
		return nil
	}
	return &s
}

// IntOrNone parses an integer, tolerating thousands separators and decimal
// forms. The decimal part truncates toward zero.
func IntOrNone(raw string) *int {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	v := int(f)
	return &v
}

// SignedCount extracts the first signed integer token from free text such as
// "120 hrs" or "-5".
func SignedCount(raw *string) *int {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(strings.ReplaceAll(strings.ToLower(*raw), ",", ""))
	match := signedIntToken.FindString(s)
	if match == "" {
		return nil
	}
	v, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &v
}

// AdjustedInterval parses expressions like "150 hrs (-12)" into base value,
// normalized unit, and signed delta. Any non-match yields all nils.
func AdjustedInterval(raw *string) (*int, *string, *int) {
	if raw == nil {
		return nil, nil, nil
	}
	s := strings.TrimSpace(strings.ReplaceAll(strings.ToLower(*raw), ",", ""))
	m := adjustedPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, nil, nil
	}

	value, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, nil, nil
	}
	delta, err := strconv.Atoi(strings.TrimPrefix(m[3], "+"))
	if err != nil {
		return nil, nil, nil
	}

	var unit *string
	switch m[2] {
	case "hr", "hrs":
		u := UnitHours
		unit = &u
	case "ldg", "ldgs", "c":
		u := UnitLandings
		unit = &u
	}

	return &value, unit, &delta
}

// TimeRemaining extracts signed month and day counts from text like "36m -5d".
// The counts are matched independently; overdue is true iff either extracted
// count is negative. A nil input yields all nils, while non-nil input with no
// matches still reports overdue=false.
func TimeRemaining(raw *string) (*int, *int, *bool) {
	if raw == nil {
		return nil, nil, nil
	}
	s := strings.TrimSpace(strings.ToLower(*raw))

	var months, days *int
	if m := monthsPattern.FindStringSubmatch(s); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			months = &v
		}
	}
	if d := daysPattern.FindStringSubmatch(s); d != nil {
		if v, err := strconv.Atoi(d[1]); err == nil {
			days = &v
		}
	}

	overdue := (months != nil && *months < 0) || (days != nil && *days < 0)
	return months, days, &overdue
}

// DateOrNone parses a flexible date representation into canonical YYYY-MM-DD.
func DateOrNone(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			formatted := ts.Format("2006-01-02")
			return &formatted
		}
	}
	return nil
}
