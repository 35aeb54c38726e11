package items

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

// Handler exposes manual item entry, editing, and the loaded-items read
// surface over HTTP.
type Handler struct {
	service *Service
	items   repository.MaintenanceItemRepository
}

// NewHTTPHandler wires the item endpoints.
func NewHTTPHandler(service *Service, items repository.MaintenanceItemRepository) *Handler {
	return &Handler{service: service, items: items}
}

// Create handles POST /api/aircraft/{aircraftID}/items.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	aircraftID, err := uuid.Parse(chi.URLParam(r, "aircraftID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid aircraft id: %v", err), http.StatusBadRequest)
		return
	}

	payload, err := decodePayload(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.service.Create(r.Context(), aircraftID, payload, actorFrom(r))
	if err != nil {
		writeItemError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// Update handles PATCH /api/items/{itemID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid item id: %v", err), http.StatusBadRequest)
		return
	}

	payload, err := decodePayload(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, changed, err := h.service.Update(r.Context(), itemID, payload, actorFrom(r))
	if err != nil {
		writeItemError(w, err)
		return
	}
	if changed == nil {
		changed = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"item":           item,
		"changed_fields": changed,
	})
}

// Get handles GET /api/items/{itemID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid item id: %v", err), http.StatusBadRequest)
		return
	}

	item, err := h.items.GetByID(r.Context(), itemID)
	if err != nil {
		writeItemError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// List handles GET /api/aircraft/{aircraftID}/items. It only returns items
// belonging to loaded batches.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	aircraftID, err := uuid.Parse(chi.URLParam(r, "aircraftID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid aircraft id: %v", err), http.StatusBadRequest)
		return
	}

	limit, offset := pagination(r)
	list, err := h.items.ListLoaded(r.Context(), aircraftID, limit, offset)
	if err != nil {
		writeItemError(w, err)
		return
	}
	if list == nil {
		list = []domain.MaintenanceItem{}
	}

	total, err := h.items.CountLoaded(r.Context(), aircraftID)
	if err != nil {
		writeItemError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": list,
		"total": total,
	})
}

func decodePayload(r *http.Request) (map[string]any, error) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json body: %w", err)
	}
	return payload, nil
}

func writeItemError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDescriptionRequired):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrDuplicateFingerprint):
		http.Error(w, "an identical item already exists", http.StatusConflict)
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
