package export

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skyops/airaudit/internal/domain"
)

// Handler serves CSV downloads of loaded maintenance items.
type Handler struct {
	service *Service
}

// NewHTTPHandler wires the export endpoint.
func NewHTTPHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Download handles GET /api/aircraft/{aircraftID}/items/export.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	aircraftID, err := uuid.Parse(chi.URLParam(r, "aircraftID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid aircraft id: %v", err), http.StatusBadRequest)
		return
	}

	// Buffer the body so errors can still produce a clean status code.
	var buf bytes.Buffer
	fileName, _, err := h.service.WriteCSV(r.Context(), aircraftID, &buf)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
