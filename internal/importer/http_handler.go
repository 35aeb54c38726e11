package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skyops/airaudit/internal/domain"
	"github.com/skyops/airaudit/internal/repository"
)

// Handler exposes the import pipeline and its read surface over HTTP.
type Handler struct {
	service    *Service
	batches    repository.ImportBatchRepository
	diags      repository.ImportErrorRepository
	quarantine repository.QuarantineRepository
	ledger     repository.LedgerRepository
}

// NewHTTPHandler wires the import endpoints.
func NewHTTPHandler(
	service *Service,
	batches repository.ImportBatchRepository,
	diags repository.ImportErrorRepository,
	quarantine repository.QuarantineRepository,
	ledger repository.LedgerRepository,
) *Handler {
	return &Handler{
		service:    service,
		batches:    batches,
		diags:      diags,
		quarantine: quarantine,
		ledger:     ledger,
	}
}

// Import handles POST /api/aircraft/{aircraftID}/imports.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	aircraftID, err := uuid.Parse(chi.URLParam(r, "aircraftID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid aircraft id: %v", err), http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	mode := domain.PublishQuarantine
	switch strings.TrimSpace(r.FormValue("publish_mode")) {
	case "", string(domain.PublishQuarantine):
	case string(domain.PublishStrict):
		mode = domain.PublishStrict
	default:
		http.Error(w, "publish_mode must be quarantine or strict", http.StatusBadRequest)
		return
	}

	result, err := h.service.Import(r.Context(), aircraftID, header.Filename, data, mode)
	if err != nil {
		writeImportError(w, err)
		return
	}

	entry := domain.LedgerEntry{
		TableName: "import_batch",
		Action:    domain.ActionCreate,
		RowID:     result.BatchID,
		BatchID:   &result.BatchID,
		Actor:     actorFrom(r),
		Details: map[string]any{
			"file_name":     header.Filename,
			"publish_mode":  string(mode),
			"status":        string(result.Status),
			"total_rows":    result.TotalRows,
			"inserted_rows": result.InsertedRows,
			"errors":        result.ErrorCount,
			"quarantined":   result.Quarantined,
		},
	}
	if _, err := h.ledger.Write(r.Context(), entry); err != nil {
		log.Printf("[import] ledger write failed for batch %s: %v", result.BatchID, err)
	}

	writeJSON(w, http.StatusCreated, result)
}

// GetBatch handles GET /api/imports/{batchID}.
func (h *Handler) GetBatch(w http.ResponseWriter, r *http.Request) {
	batchID, err := uuid.Parse(chi.URLParam(r, "batchID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid batch id: %v", err), http.StatusBadRequest)
		return
	}

	batch, err := h.batches.GetByID(r.Context(), batchID)
	if err != nil {
		writeImportError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, batch)
}

// ListBatchErrors handles GET /api/imports/{batchID}/errors.
func (h *Handler) ListBatchErrors(w http.ResponseWriter, r *http.Request) {
	batchID, err := uuid.Parse(chi.URLParam(r, "batchID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid batch id: %v", err), http.StatusBadRequest)
		return
	}

	limit, offset := pagination(r)
	list, err := h.diags.ListByBatch(r.Context(), batchID, limit, offset)
	if err != nil {
		writeImportError(w, err)
		return
	}
	if list == nil {
		list = []domain.ImportError{}
	}

	writeJSON(w, http.StatusOK, list)
}

// ListQuarantine handles GET /api/aircraft/{aircraftID}/quarantine.
func (h *Handler) ListQuarantine(w http.ResponseWriter, r *http.Request) {
	aircraftID, err := uuid.Parse(chi.URLParam(r, "aircraftID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid aircraft id: %v", err), http.StatusBadRequest)
		return
	}

	var batchID *uuid.UUID
	if raw := strings.TrimSpace(r.URL.Query().Get("batch_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid batch id: %v", err), http.StatusBadRequest)
			return
		}
		batchID = &id
	}

	limit, offset := pagination(r)
	list, err := h.quarantine.List(r.Context(), aircraftID, batchID, limit, offset)
	if err != nil {
		writeImportError(w, err)
		return
	}
	if list == nil {
		list = []domain.QuarantineItem{}
	}

	total, err := h.quarantine.Count(r.Context(), aircraftID, batchID)
	if err != nil {
		writeImportError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": list,
		"total": total,
	})
}

func writeImportError(w http.ResponseWriter, err error) {
	var schemaErr *domain.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":           "schema mismatch",
			"missing_columns": schemaErr.Missing,
		})
	case errors.Is(err, domain.ErrDuplicateFile):
		http.Error(w, "this file has already been imported for this aircraft", http.StatusConflict)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrUnsupportedFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// actorFrom reads the caller identity propagated in the X-Actor header.
func actorFrom(r *http.Request) *string {
	actor := strings.TrimSpace(r.Header.Get("X-Actor"))
	if actor == "" {
		return nil
	}
	return &actor
}

func pagination(r *http.Request) (limit, offset int) {
	limit = 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 1000 {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
