package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jszwec/csvutil"

	"github.com/skyops/airaudit/internal/domain"
	"github.com/skyops/airaudit/internal/repository"
)

// Service streams an aircraft's loaded maintenance items as CSV. Rows are
// fetched in pages so large fleets never load into memory at once.
type Service struct {
	aircraft repository.AircraftRepository
	items    repository.MaintenanceItemRepository
	pageSize int
}

// Option customizes the export service.
type Option func(*Service)

// WithPageSize overrides the fetch page size.
func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// NewService creates a new export service.
func NewService(aircraft repository.AircraftRepository, items repository.MaintenanceItemRepository, opts ...Option) *Service {
	service := &Service{
		aircraft: aircraft,
		items:    items,
		pageSize: 500,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// exportRow is the flattened CSV shape of one maintenance item.
type exportRow struct {
	ItemCode              *string `csv:"item_code"`
	Position              *string `csv:"position"`
	Description           *string `csv:"description"`
	Type                  *string `csv:"type"`
	IntervalMonths        *int    `csv:"interval_months"`
	IntervalHours         *int    `csv:"interval_hours"`
	IntervalLandings      *int    `csv:"interval_landings"`
	AdjustedValue         *int    `csv:"adjusted_value"`
	AdjustedUnit          *string `csv:"adjusted_unit"`
	AdjustedDelta         *int    `csv:"adjusted_delta"`
	PartNumber            *string `csv:"part_number"`
	PartSerial            *string `csv:"part_serial"`
	LastCompletedDate     *string `csv:"last_completed_date"`
	LastCompletedHours    *int    `csv:"last_completed_hours"`
	LastCompletedLandings *int    `csv:"last_completed_landings"`
	LastCompletedCity     *string `csv:"last_completed_city"`
	DueNextDate           *string `csv:"due_next_date"`
	DueNextHours          *int    `csv:"due_next_hours"`
	DueNextLandings       *int    `csv:"due_next_landings"`
	TimeRemainingText     *string `csv:"time_remaining_text"`
	MonthsRemaining       *int    `csv:"months_remaining"`
	DaysRemaining         *int    `csv:"days_remaining"`
	IsOverdueTime         *bool   `csv:"is_overdue_time"`
	HoursRemaining        *int    `csv:"hours_remaining"`
	LandingsRemaining     *int    `csv:"landings_remaining"`
	Status                *string `csv:"status"`
	StatusNote            *string `csv:"status_note"`
	Fingerprint           string  `csv:"fingerprint"`
}

// WriteCSV streams every loaded item for the aircraft to w and returns the
// suggested file name and the number of rows written.
func (s *Service) WriteCSV(ctx context.Context, aircraftID uuid.UUID, w io.Writer) (string, int, error) {
	craft, err := s.aircraft.GetByID(ctx, aircraftID)
	if err != nil {
		return "", 0, err
	}

	csvWriter := csv.NewWriter(w)
	encoder := csvutil.NewEncoder(csvWriter)

	rowsWritten := 0
	offset := 0
	for {
		if ctx.Err() != nil {
			return "", rowsWritten, ctx.Err()
		}

		page, err := s.items.ListLoaded(ctx, aircraftID, s.pageSize, offset)
		if err != nil {
			return "", rowsWritten, fmt.Errorf("list items: %w", err)
		}
		for _, item := range page {
			if err := encoder.Encode(toExportRow(item)); err != nil {
				return "", rowsWritten, fmt.Errorf("encode item row: %w", err)
			}
			rowsWritten++
		}
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			return "", rowsWritten, fmt.Errorf("flush rows: %w", err)
		}

		if len(page) < s.pageSize {
			break
		}
		offset += s.pageSize
	}

	// An export with zero rows still needs its header line.
	if rowsWritten == 0 {
		if err := encoder.EncodeHeader(exportRow{}); err != nil {
			return "", 0, fmt.Errorf("encode header: %w", err)
		}
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			return "", 0, fmt.Errorf("flush header: %w", err)
		}
	}

	fileName := fmt.Sprintf("%s-items.csv", sanitizeFileComponent(craft.Name))
	log.Printf("[export] aircraft %s exported (rows=%d file=%s)", aircraftID, rowsWritten, fileName)
	return fileName, rowsWritten, nil
}

func toExportRow(item domain.MaintenanceItem) exportRow {
	return exportRow{
		ItemCode:              item.ItemCode,
		Position:              item.Position,
		Description:           item.Description,
		Type:                  item.Type,
		IntervalMonths:        item.IntervalMonths,
		IntervalHours:         item.IntervalHours,
		IntervalLandings:      item.IntervalLandings,
		AdjustedValue:         item.AdjustedValue,
		AdjustedUnit:          item.AdjustedUnit,
		AdjustedDelta:         item.AdjustedDelta,
		PartNumber:            item.PartNumber,
		PartSerial:            item.PartSerial,
		LastCompletedDate:     item.LastCompletedDate,
		LastCompletedHours:    item.LastCompletedHours,
		LastCompletedLandings: item.LastCompletedLandings,
		LastCompletedCity:     item.LastCompletedCity,
		DueNextDate:           item.DueNextDate,
		DueNextHours:          item.DueNextHours,
		DueNextLandings:       item.DueNextLandings,
		TimeRemainingText:     item.TimeRemainingText,
		MonthsRemaining:       item.MonthsRemaining,
		DaysRemaining:         item.DaysRemaining,
		IsOverdueTime:         item.IsOverdueTime,
		HoursRemaining:        item.HoursRemaining,
		LandingsRemaining:     item.LandingsRemaining,
		Status:                item.Status,
		StatusNote:            item.StatusNote,
		Fingerprint:           item.Fingerprint,
	}
}

func sanitizeFileComponent(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	builder := strings.Builder{}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			builder.WriteRune(r)
		case r >= '0' && r <= '9':
			builder.WriteRune(r)
		case r == '-' || r == '_':
			builder.WriteRune(r)
		default:
			builder.WriteRune('-')
		}
	}
	result := strings.Trim(builder.String(), "-")
	if result == "" {
		return "aircraft"
	}
	return result
}
