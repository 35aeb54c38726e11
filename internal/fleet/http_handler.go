package fleet

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skyops/airaudit/internal/domain"
	"github.com/skyops/airaudit/internal/repository"
)

// Handler exposes the aircraft registry and the audit ledger read surface.
type Handler struct {
	service *Service
	ledger  repository.LedgerRepository
}

// NewHTTPHandler wires the fleet endpoints.
func NewHTTPHandler(service *Service, ledger repository.LedgerRepository) *Handler {
	return &Handler{service: service, ledger: ledger}
}

type createAircraftPayload struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

// Create handles POST /api/aircraft.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var payload createAircraftPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid json body: %v", err), http.StatusBadRequest)
		return
	}

	craft, err := h.service.Create(r.Context(), payload.Name, payload.Model, actorFrom(r))
	if err != nil {
		writeFleetError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, craft)
}

// Get handles GET /api/aircraft/{aircraftID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "aircraftID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid aircraft id: %v", err), http.StatusBadRequest)
		return
	}

	craft, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeFleetError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, craft)
}

// List handles GET /api/aircraft.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		writeFleetError(w, err)
		return
	}
	if list == nil {
		list = []domain.Aircraft{}
	}

	writeJSON(w, http.StatusOK, list)
}

// Archive handles POST /api/aircraft/{aircraftID}/archive.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

// Restore handles POST /api/aircraft/{aircraftID}/restore.
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *Handler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	id, err := uuid.Parse(chi.URLParam(r, "aircraftID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid aircraft id: %v", err), http.StatusBadRequest)
		return
	}

	var craft domain.Aircraft
	if archived {
		craft, err = h.service.Archive(r.Context(), id, actorFrom(r))
	} else {
		craft, err = h.service.Restore(r.Context(), id, actorFrom(r))
	}
	if err != nil {
		writeFleetError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, craft)
}

// ListLedger handles GET /api/ledger.
func (h *Handler) ListLedger(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	tableName := strings.TrimSpace(query.Get("table"))

	var rowID *uuid.UUID
	if raw := strings.TrimSpace(query.Get("row_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid row id: %v", err), http.StatusBadRequest)
			return
		}
		rowID = &id
	}

	limit, offset := pagination(r)
	entries, err := h.ledger.List(r.Context(), tableName, rowID, limit, offset)
	if err != nil {
		writeFleetError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}

	writeJSON(w, http.StatusOK, entries)
}

func writeFleetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNameRequired):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

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
