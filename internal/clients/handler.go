package clients

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/clinibook/clinic-booking-platform/pkg/logging"
)

// Handler handles HTTP requests for clients
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new clients handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Register handles POST /api/client/register requests
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidEmail):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrEmailTaken):
			writeError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("failed to register client", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to register client")
		}
		return
	}

	h.logger.Info("client registered", "id", c.ID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "clientId": c.ID})
}

// Get handles GET /api/client/{clientID} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "clientID")

	c, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to load client", "error", err, "client_id", id)
		writeError(w, http.StatusInternalServerError, "failed to load client")
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
