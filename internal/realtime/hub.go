package realtime

import (
	"sync"

	"github.com/clinibook/clinic-booking-platform/internal/observability/metrics"
	"github.com/clinibook/clinic-booking-platform/pkg/logging"
)

// Role scopes a registered identity to one side of the system.
type Role string

const (
	RoleDoctor Role = "doctor"
	RoleClient Role = "client"
)

// Session is a live delivery channel to one connected user.
type Session interface {
	Send(evt Event) error
}

// Hub is the session directory: a process-wide map from role-scoped identity
// to the currently-live session. It is created at server start and torn down
// with it; nothing else touches the map directly.
//
// Registration does not deduplicate by identity: the last register for an
// identity wins. Disconnects prune by matching session, so an old connection
// closing never evicts the replacement that took its key.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]Session
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// NewHub creates an empty session directory.
func NewHub(m *metrics.BookingMetrics, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		sessions: make(map[string]Session),
		metrics:  m,
		logger:   logger,
	}
}

func key(role Role, id string) string {
	return string(role) + ":" + id
}

// Register binds an identity to a live session, replacing any previous binding.
func (h *Hub) Register(role Role, id string, s Session) {
	k := key(role, id)
	h.mu.Lock()
	_, replaced := h.sessions[k]
	h.sessions[k] = s
	h.mu.Unlock()

	if !replaced {
		h.metrics.SessionRegistered()
	}
	h.logger.Info("realtime session registered", "role", role, "id", id, "replaced", replaced)
}

// Unregister removes every binding still pointing at the session.
func (h *Hub) Unregister(s Session) {
	removed := 0
	h.mu.Lock()
	for k, held := range h.sessions {
		if held == s {
			delete(h.sessions, k)
			removed++
		}
	}
	h.mu.Unlock()

	for i := 0; i < removed; i++ {
		h.metrics.SessionClosed()
	}
}

// SendTo delivers the event to the identity's live session, if any. A missed
// delivery is silently skipped; there is no queueing or retry.
func (h *Hub) SendTo(role Role, id string, evt Event) bool {
	h.mu.RLock()
	s, ok := h.sessions[key(role, id)]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	if err := s.Send(evt); err != nil {
		h.logger.Debug("realtime targeted send failed", "role", role, "id", id, "error", err)
		return false
	}
	return true
}

// Broadcast delivers the event to every live session.
func (h *Hub) Broadcast(evt Event) {
	h.mu.RLock()
	targets := make([]Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if err := s.Send(evt); err != nil {
			h.logger.Debug("realtime broadcast send failed", "error", err)
		}
	}
}

// Len reports the number of live sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
