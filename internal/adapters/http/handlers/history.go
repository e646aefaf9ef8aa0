package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inferprompt/inferprompt/internal/adapters/http/dto"
	"github.com/inferprompt/inferprompt/internal/domain"
	"github.com/inferprompt/inferprompt/internal/ports"
)

type HistoryHandler struct {
	history ports.HistoryRepository
}

func NewHistoryHandler(history ports.HistoryRepository) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List serves GET /api/v1/history. The repository clamps limit and offset;
// the response echoes the effective values.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := ports.HistoryFilter{
		Limit:  parseIntQuery(r, "limit", 10),
		Offset: parseIntQuery(r, "offset", 0),
		Model:  r.URL.Query().Get("model"),
	}

	records, total, err := h.history.List(r.Context(), filter)
	if err != nil {
		respondError(w, "server_error", "Failed to list optimization history", http.StatusInternalServerError)
		return
	}

	items := make([]dto.HistoryItem, len(records))
	for i, rec := range records {
		items[i] = dto.NewHistoryItem(rec)
	}

	respondJSON(w, dto.HistoryPage{
		Total:  total,
		Limit:  effectiveLimit(filter.Limit),
		Offset: max(filter.Offset, 0),
		Items:  items,
	}, http.StatusOK)
}

// Get serves GET /api/v1/history/{id} with the full record.
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, "invalid_request", "Prompt ID is required", http.StatusBadRequest)
		return
	}

	record, err := h.history.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(w, "not_found", "Prompt not found", http.StatusNotFound)
			return
		}
		respondError(w, "server_error", "Failed to load optimization", http.StatusInternalServerError)
		return
	}

	respondJSON(w, record, http.StatusOK)
}

// effectiveLimit mirrors the repository clamp so the page metadata matches
// what was actually queried.
func effectiveLimit(limit int) int {
	switch {
	case limit <= 0:
		return 10
	case limit > 100:
		return 100
	default:
		return limit
	}
}
