package availability

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/clinibook/clinic-booking-platform/pkg/logging"
)

// BlackoutPublisher fans a committed blackout change out to live sessions.
type BlackoutPublisher interface {
	DateBlackedOut(doctorID, date, reason string)
}

// Handler handles HTTP requests for blackout dates
type Handler struct {
	repo   Repository
	events BlackoutPublisher
	logger *logging.Logger
}

// NewHandler creates a new availability handler. events may be nil when no
// realtime layer is wired.
func NewHandler(repo Repository, events BlackoutPublisher, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, events: events, logger: logger}
}

type addRequest struct {
	Date   string `json:"unavailableDate"`
	Reason string `json:"reason"`
}

// Add handles POST /api/doctor/{doctorID}/unavailable-date requests
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")

	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.repo.Add(r.Context(), doctorID, req.Date, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrDateAlreadyBlocked):
			writeError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("failed to add unavailable date", "error", err, "doctor_id", doctorID)
			writeError(w, http.StatusInternalServerError, "failed to add unavailable date")
		}
		return
	}

	h.logger.Info("unavailable date added", "doctor_id", doctorID, "date", d.Date)
	if h.events != nil {
		h.events.DateBlackedOut(d.DoctorID, d.Date, d.Reason)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "unavailableDateId": d.ID})
}

// Remove handles DELETE /api/doctor/{unavailableDateID}/unavailable-date requests
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "unavailableDateID")

	if err := h.repo.Remove(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to remove unavailable date", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to remove unavailable date")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ListForDoctor handles GET /api/doctor/{doctorID}/unavailable-dates requests.
// The doctor dashboard gets the full records so it can remove them.
func (h *Handler) ListForDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")

	dates, err := h.repo.ListForDoctor(r.Context(), doctorID)
	if err != nil {
		h.logger.Error("failed to list unavailable dates", "error", err, "doctor_id", doctorID)
		writeError(w, http.StatusInternalServerError, "failed to list unavailable dates")
		return
	}

	if dates == nil {
		dates = []*UnavailableDate{}
	}
	writeJSON(w, http.StatusOK, dates)
}

// ListDates handles GET /api/client/doctor/{doctorID}/unavailable-dates
// requests. The booking form only needs the bare dates to grey out.
func (h *Handler) ListDates(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")

	dates, err := h.repo.ListForDoctor(r.Context(), doctorID)
	if err != nil {
		h.logger.Error("failed to list unavailable dates", "error", err, "doctor_id", doctorID)
		writeError(w, http.StatusInternalServerError, "failed to list unavailable dates")
		return
	}

	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Date)
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
