package notifications

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/clinibook/clinic-booking-platform/pkg/logging"
)

// Handler handles HTTP requests for doctor notifications
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new notifications handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListForDoctor handles GET /api/doctor/{doctorID}/notifications requests
func (h *Handler) ListForDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")

	items, err := h.repo.ListForDoctor(r.Context(), doctorID)
	if err != nil {
		h.logger.Error("failed to list notifications", "error", err, "doctor_id", doctorID)
		writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	if items == nil {
		items = []*View{}
	}
	writeJSON(w, http.StatusOK, items)
}

// MarkRead handles POST /api/doctor/{notificationID}/read requests
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notificationID")

	if err := h.repo.MarkRead(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to mark notification read", "error", err, "notification_id", id)
		writeError(w, http.StatusInternalServerError, "failed to mark notification read")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
