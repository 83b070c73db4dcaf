package appointments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/clinibook/clinic-booking-platform/pkg/logging"
)

// EventPublisher fans a committed lifecycle transition out to live realtime
// sessions. Implemented by the realtime event router; may be nil.
type EventPublisher interface {
	AppointmentBooked(a *Appointment)
	AppointmentAccepted(a *Appointment)
	AppointmentDeclined(a *Appointment)
	AppointmentCompleted(a *Appointment)
	AppointmentCancelled(a *Appointment)
	RescheduleRequested(a *Appointment)
	RescheduleApproved(a *Appointment)
	RescheduleRejected(a *Appointment, reason string)
}

// Handler handles HTTP requests for the appointment lifecycle
type Handler struct {
	service *Service
	events  EventPublisher
	logger  *logging.Logger
}

// NewHandler creates a new appointments handler
func NewHandler(service *Service, events EventPublisher, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, events: events, logger: logger}
}

// Book handles POST /api/client/book-appointment requests
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.service.Book(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err, "book")
		return
	}

	if h.events != nil {
		h.events.AppointmentBooked(a)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "appointmentId": a.ID})
}

// ListForClient handles GET /api/client/{clientID}/appointments requests
func (h *Handler) ListForClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")

	appts, err := h.service.ListForClient(r.Context(), clientID)
	if err != nil {
		h.logger.Error("failed to list client appointments", "error", err, "client_id", clientID)
		writeError(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}
	if appts == nil {
		appts = []*ClientAppointment{}
	}
	writeJSON(w, http.StatusOK, appts)
}

// ListForDoctor handles GET /api/doctor/{doctorID}/appointments requests and
// the pending/completed/reschedule-requests variants.
func (h *Handler) ListForDoctor(filter DoctorListFilter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID := chi.URLParam(r, "doctorID")

		appts, err := h.service.ListForDoctor(r.Context(), doctorID, filter)
		if err != nil {
			h.logger.Error("failed to list doctor appointments", "error", err, "doctor_id", doctorID)
			writeError(w, http.StatusInternalServerError, "failed to list appointments")
			return
		}
		if appts == nil {
			appts = []*DoctorAppointment{}
		}
		writeJSON(w, http.StatusOK, appts)
	}
}

// Cancel handles POST /api/client/{appointmentID}/cancel requests
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")
	var body struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	a, err := h.service.Cancel(r.Context(), id, body.Reason)
	if err != nil {
		h.writeServiceError(w, err, "cancel")
		return
	}

	if h.events != nil {
		h.events.AppointmentCancelled(a)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Appointment cancelled successfully"})
}

// RequestReschedule handles POST /api/client/{appointmentID}/reschedule requests
func (h *Handler) RequestReschedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")
	var body struct {
		NewDate string `json:"newDate"`
		NewTime string `json:"newTime"`
		Reason  string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.service.RequestReschedule(r.Context(), id, body.NewDate, body.NewTime, body.Reason)
	if err != nil {
		h.writeServiceError(w, err, "reschedule")
		return
	}

	if h.events != nil {
		h.events.RescheduleRequested(a)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Reschedule request submitted"})
}

// Accept handles POST /api/doctor/{appointmentID}/accept requests
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")

	a, err := h.service.Accept(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "accept")
		return
	}

	if h.events != nil {
		h.events.AppointmentAccepted(a)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Decline handles POST /api/doctor/{appointmentID}/decline requests
func (h *Handler) Decline(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")

	a, err := h.service.Decline(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "decline")
		return
	}

	if h.events != nil {
		h.events.AppointmentDeclined(a)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Complete handles POST /api/doctor/{appointmentID}/complete requests
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")

	a, err := h.service.Complete(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "complete")
		return
	}

	if h.events != nil {
		h.events.AppointmentCompleted(a)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ApproveReschedule handles POST /api/doctor/{appointmentID}/approve-reschedule
// requests. The adopted slot is the stored proposal; any newDate/newTime in
// the body is accepted for compatibility and ignored.
func (h *Handler) ApproveReschedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")

	a, err := h.service.ApproveReschedule(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "approve-reschedule")
		return
	}

	if h.events != nil {
		h.events.RescheduleApproved(a)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Reschedule approved"})
}

// RejectReschedule handles POST /api/doctor/{appointmentID}/reject-reschedule requests
func (h *Handler) RejectReschedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")
	var body struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	a, err := h.service.RejectReschedule(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "reject-reschedule")
		return
	}

	if h.events != nil {
		h.events.RescheduleRejected(a, body.Reason)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Reschedule rejected"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrDateUnavailable), errors.Is(err, ErrSlotConflict):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidTime), errors.Is(err, ErrMissingParty):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("appointment operation failed", "operation", op, "error", err)
		writeError(w, http.StatusInternalServerError, "operation failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
