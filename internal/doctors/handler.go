package doctors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/clinibook/clinic-booking-platform/pkg/logging"
)

// Handler handles HTTP requests for doctors
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new doctors handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Register handles POST /api/doctor/register requests
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrInvalidSpecialty):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrEmailTaken):
			writeError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("failed to register doctor", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to register doctor")
		}
		return
	}

	h.logger.Info("doctor registered", "id", doc.ID, "specialty", doc.Specialty)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "doctorId": doc.ID})
}

// Get handles GET /api/doctor/{doctorID} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "doctorID")

	doc, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to load doctor", "error", err, "doctor_id", id)
		writeError(w, http.StatusInternalServerError, "failed to load doctor")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// doctorSummary is the client-facing directory entry.
type doctorSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// List handles GET /api/client/doctors requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list doctors", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list doctors")
		return
	}

	out := make([]doctorSummary, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doctorSummary{ID: doc.ID, Name: doc.Name, Specialty: doc.Specialty})
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
